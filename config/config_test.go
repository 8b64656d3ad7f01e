package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("EXTERNAL_TIMEOUT", "")
	t.Setenv("TEXT_ANALYZER", "")
	t.Setenv("RECOGNIZER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, "local", cfg.TextAnalyzer)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("EXTERNAL_TIMEOUT", "2s")
	t.Setenv("APP_TIMEZONE", "Asia/Karachi")
	t.Setenv("OPENFOODFACTS_URL", "http://off.local/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 2*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, "Asia/Karachi", cfg.Location().String())
	assert.Equal(t, "http://off.local", cfg.OpenFoodFactsURL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":     {"TOKEN_TTL", "seven days"},
		"bad timezone":     {"APP_TIMEZONE", "Mars/Olympus"},
		"unknown analyzer": {"TEXT_ANALYZER", "gpt"},
		"spoonacular key":  {"TEXT_ANALYZER", "spoonacular"},
		"http recognizer":  {"RECOGNIZER", "http"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SPOONACULAR_API_KEY", "")
			t.Setenv("RECOGNIZER_URL", "")
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestString_MasksSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "do-not-print")
	cfg, err := Load()
	require.NoError(t, err)
	assert.NotContains(t, cfg.String(), "do-not-print")
}
