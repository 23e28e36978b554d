package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

func TestTokenService_GenerateAndVerify(t *testing.T) {
	svc := NewTokenService("test-signing-key")

	plain, hash, err := svc.GenerateToken(
		"weather-portal",
		[]authDomain.CapabilityID{authDomain.CapabilityTendayCurrent, authDomain.CapabilityProvince},
		nil,
	)
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.Len(t, hash, 64) // hex-encoded SHA-256

	claims, err := svc.VerifyToken(plain)
	require.NoError(t, err)
	assert.Equal(t, "weather-portal", claims.Organization)
	assert.Equal(
		t,
		[]authDomain.CapabilityID{authDomain.CapabilityTendayCurrent, authDomain.CapabilityProvince},
		claims.Capabilities,
	)
	assert.Nil(t, claims.ExpiresAt)
}

func TestTokenService_VerifyToken_CarriesExpiry(t *testing.T) {
	svc := NewTokenService("test-signing-key")

	expiresAt := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	plain, _, err := svc.GenerateToken(
		"weather-portal",
		[]authDomain.CapabilityID{authDomain.CapabilityCeram},
		&expiresAt,
	)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(plain)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, expiresAt, *claims.ExpiresAt, time.Second)
}

func TestTokenService_VerifyToken_ExpiredToken(t *testing.T) {
	svc := NewTokenService("test-signing-key")

	expiresAt := time.Now().UTC().Add(-time.Hour)
	plain, _, err := svc.GenerateToken(
		"weather-portal",
		[]authDomain.CapabilityID{authDomain.CapabilityCeram},
		&expiresAt,
	)
	require.NoError(t, err)

	_, err = svc.VerifyToken(plain)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestTokenService_VerifyToken_WrongKey(t *testing.T) {
	issuer := NewTokenService("issuer-key")
	verifier := NewTokenService("other-key")

	plain, _, err := issuer.GenerateToken(
		"weather-portal",
		[]authDomain.CapabilityID{authDomain.CapabilityProvince},
		nil,
	)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(plain)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_VerifyToken_Garbage(t *testing.T) {
	svc := NewTokenService("test-signing-key")

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_HashToken_Deterministic(t *testing.T) {
	svc := NewTokenService("test-signing-key")

	assert.Equal(t, svc.HashToken("abc"), svc.HashToken("abc"))
	assert.NotEqual(t, svc.HashToken("abc"), svc.HashToken("abd"))
}
