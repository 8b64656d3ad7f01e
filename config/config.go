// config.go - Handles configuration for the calorie tracker backend

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv" // Optional .env file support
)

// Config holds all configuration values, read once at startup.
type Config struct {
	Port     string // HTTP listen port
	DBPath   string // Path to the SQLite database file
	GinMode  string // gin.DebugMode / gin.ReleaseMode / gin.TestMode
	LogLevel string // debug | info | warn | error

	JWTSecret string        // Secret key for signing bearer tokens
	TokenTTL  time.Duration // How long an issued token stays valid

	Timezone string // IANA zone used for calendar-day math (streaks, history)

	ExternalTimeout  time.Duration // Upper bound for any third-party nutrition call
	OpenFoodFactsURL string        // Barcode database base URL

	TextAnalyzer       string // local | mock | spoonacular
	SpoonacularAPIKey  string
	SpoonacularURL     string
	NutritionTablePath string // Optional YAML keyword table overriding the built-in one

	Recognizer    string // "" | http | rekognition
	RecognizerURL string // Base URL of the image prediction service
	AWSRegion     string // Region for Rekognition

	MQTTBroker string // Empty disables MQTT event publishing
	MQTTTopic  string // Topic prefix for saved-entry events
}

// Load reads config from the environment (and .env if present), applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // A missing .env is fine, real env vars still apply

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "data.db"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		JWTSecret: getEnv("JWT_SECRET", "supersecret"),
		Timezone:  getEnv("APP_TIMEZONE", "UTC"),

		OpenFoodFactsURL: strings.TrimRight(getEnv("OPENFOODFACTS_URL", "https://world.openfoodfacts.org"), "/"),

		TextAnalyzer:       strings.ToLower(getEnv("TEXT_ANALYZER", "local")),
		SpoonacularAPIKey:  getEnv("SPOONACULAR_API_KEY", ""),
		SpoonacularURL:     strings.TrimRight(getEnv("SPOONACULAR_URL", "https://api.spoonacular.com"), "/"),
		NutritionTablePath: getEnv("NUTRITION_TABLE_PATH", ""),

		Recognizer:    strings.ToLower(getEnv("RECOGNIZER", "")),
		RecognizerURL: strings.TrimRight(getEnv("RECOGNIZER_URL", ""), "/"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		MQTTBroker: getEnv("MQTT_BROKER", ""),
		MQTTTopic:  getEnv("MQTT_TOPIC", "calorie/foodlog"),
	}

	var err error
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ExternalTimeout, err = getEnvDuration("EXTERNAL_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.ExternalTimeout <= 0 {
		return fmt.Errorf("EXTERNAL_TIMEOUT must be positive, got %s", c.ExternalTimeout)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.TextAnalyzer {
	case "local", "mock":
	case "spoonacular":
		if c.SpoonacularAPIKey == "" {
			return fmt.Errorf("TEXT_ANALYZER=spoonacular requires SPOONACULAR_API_KEY")
		}
	default:
		return fmt.Errorf("unknown TEXT_ANALYZER %q", c.TextAnalyzer)
	}
	switch c.Recognizer {
	case "", "rekognition":
	case "http":
		if c.RecognizerURL == "" {
			return fmt.Errorf("RECOGNIZER=http requires RECOGNIZER_URL")
		}
	default:
		return fmt.Errorf("unknown RECOGNIZER %q", c.Recognizer)
	}
	return nil
}

// Location returns the zone used for calendar-day math. validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// String masks secrets so the config can be logged at startup.
func (c *Config) String() string {
	return fmt.Sprintf("Config{port=%s db=%s tz=%s text=%s recognizer=%s mqtt=%q secret=***}",
		c.Port, c.DBPath, c.Timezone, c.TextAnalyzer, c.Recognizer, c.MQTTBroker)
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
