package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// tokenClaims is the JWT claim set embedded in issued tokens.
type tokenClaims struct {
	Organization string `json:"org"`
	Capabilities []int  `json:"caps"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService using HS256-signed JWTs and SHA-256 hashing.
type tokenService struct {
	signingKey []byte
}

// GenerateToken creates a new HS256-signed token carrying the organization and
// capability ids. Returns the plain token and its SHA-256 hash.
func (t *tokenService) GenerateToken(
	organization string,
	capabilities []authDomain.CapabilityID,
	expiresAt *time.Time,
) (string, string, error) {
	caps := make([]int, 0, len(capabilities))
	for _, id := range capabilities {
		caps = append(caps, int(id))
	}

	claims := tokenClaims{
		Organization: organization,
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt.UTC())
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	plainToken, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to sign token")
	}

	return plainToken, t.HashToken(plainToken), nil
}

// VerifyToken validates the token signature and claims without a store lookup.
// Signature or shape failures map to ErrInvalidToken; an embedded expiry in the
// past maps to ErrExpiredToken so the caller can distinguish the two cases.
func (t *tokenService) VerifyToken(plainToken string) (*TokenClaims, error) {
	var claims tokenClaims

	_, err := jwt.ParseWithClaims(
		plainToken,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.New("unexpected signing method")
			}
			return t.signingKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.ErrExpiredToken, "token expiry passed")
		}
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	caps := make([]authDomain.CapabilityID, 0, len(claims.Capabilities))
	for _, id := range claims.Capabilities {
		caps = append(caps, authDomain.CapabilityID(id))
	}

	verified := &TokenClaims{
		Organization: claims.Organization,
		Capabilities: caps,
	}
	if claims.ExpiresAt != nil {
		expiry := claims.ExpiresAt.Time
		verified.ExpiresAt = &expiry
	}

	return verified, nil
}

// HashToken hashes a plain text token using SHA-256.
// Returns the hash as a hexadecimal string.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a new TokenService signing tokens with the given key.
func NewTokenService(signingKey string) TokenService {
	return &tokenService{signingKey: []byte(signingKey)}
}
