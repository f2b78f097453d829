package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 7*24*time.Hour)

	token, err := m.Generate(42)
	require.NoError(t, err)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Generate(1)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).Generate(1)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbageAndForeignClaims(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	_, err := m.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Valid signature, but no expiry and a non-numeric subject.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
