package auth

import (
	"context"
	"testing"
	"time"

	"calorie-backend/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.OpenDB(t), NewTokenManager(testSecret, 7*24*time.Hour), testutil.Logger())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "Ayesha", " Ayesha@Example.com ", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, reg.User.ID)
	assert.Equal(t, "ayesha@example.com", reg.User.Email)
	assert.NotEqual(t, "secret123", reg.User.Password)

	id, err := s.Tokens().Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id)

	login, err := s.Login(ctx, "AYESHA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, err := s.Register(ctx, "A", "dup@example.com", "pw1234")
	require.NoError(t, err)

	_, err = s.Register(ctx, "B", "DUP@example.com", "other1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	s := newService(t)
	_, err := s.Register(context.Background(), " ", "x@example.com", "pw")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_Failures(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, err := s.Register(ctx, "A", "a@example.com", "right-pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@example.com", "wrong-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "right-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUser(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	reg, err := s.Register(ctx, "A", "a@example.com", "pw1234")
	require.NoError(t, err)

	u, err := s.CurrentUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)

	_, err = s.CurrentUser(ctx, 4242)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToken_ExpiresAfterTTL(t *testing.T) {
	m := NewTokenManager(testSecret, 7*24*time.Hour)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	tok, exp, err := m.Issue(7)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(7*24*time.Hour), exp)

	m.now = func() time.Time { return issued.Add(6 * 24 * time.Hour) }
	id, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	m.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	good, _, err := m.Issue(1)
	require.NoError(t, err)

	_, err = NewTokenManager("wrong", time.Hour).Parse(good)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = m.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken, "empty")

	_, err = m.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken, "garbage")

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1})
	s, _ := noExp.SignedString([]byte(testSecret))
	_, err = m.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken, "no exp")

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	s, _ = noUser.SignedString([]byte(testSecret))
	_, err = m.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken, "no user_id")

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	s, _ = hs512.SignedString([]byte(testSecret))
	_, err = m.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong alg")
}
