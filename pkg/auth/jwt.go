package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSubject = errors.New("token has no subject")

// TokenManager signs and verifies HMAC bearer tokens. Only the subject claim
// is carried into the application.
type TokenManager struct {
	secret  []byte
	issuer  string
	options []jwt.ParserOption
}

func NewTokenManager(secret, issuer string) *TokenManager {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenManager{
		secret:  []byte(secret),
		issuer:  issuer,
		options: opts,
	}
}

// Issue signs a token for subject that expires after ttl.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, algorithm, expiry and issuer and returns the subject.
func (m *TokenManager) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, m.options...); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}
