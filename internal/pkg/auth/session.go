package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SessionConfig defines session signing settings
type SessionConfig struct {
	SecretKey string
	FlashTTL  time.Duration
	Issuer    string
}

// SessionSigner signs and verifies the values the app keeps client side.
// Tokens are HS256 JWTs keyed with the application secret.
type SessionSigner struct {
	config SessionConfig
}

// NewSessionSigner creates a new session signer
func NewSessionSigner(config SessionConfig) *SessionSigner {
	if config.FlashTTL <= 0 {
		config.FlashTTL = 5 * time.Minute
	}
	if config.Issuer == "" {
		config.Issuer = "registrar"
	}
	return &SessionSigner{config: config}
}

// flashClaims is the payload of a flash cookie
type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// SignFlashes encodes flashes into a signed, short-lived token.
func (s *SessionSigner) SignFlashes(flashes []Flash) (string, error) {
	now := time.Now()
	claims := &flashClaims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.FlashTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign flash token: %w", err)
	}
	return signed, nil
}

// ParseFlashes verifies a token produced by SignFlashes and returns its flashes.
func (s *SessionSigner) ParseFlashes(tokenString string) ([]Flash, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &flashClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*flashClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims.Flashes, nil
}
