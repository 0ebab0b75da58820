package idp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"safemed/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token invalid")
)

// Verifier implementa auth.AuthVerifier.
// Dos modos:
//   - con secret: valida el JWT localmente (HS256), sin llamar al idp.
//   - sin secret: delega la verificación al idp vía HTTP.
type Verifier struct {
	client *Client
	secret []byte
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

// NewLocalVerifier valida tokens firmados con el secret compartido del idp.
func NewLocalVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type tokenClaims struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	if len(v.secret) > 0 {
		return v.verifyLocal(token)
	}

	if v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("idp verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("idp claims missing user id")
	}

	return claims, nil
}

func (v *Verifier) verifyLocal(token string) (auth.Claims, error) {
	var tc tokenClaims

	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	sub := strings.TrimSpace(tc.Subject)
	if sub == "" {
		return auth.Claims{}, errors.New("token missing sub")
	}

	return auth.Claims{
		UserID:   sub,
		Role:     auth.Role(strings.TrimSpace(tc.Role)),
		Email:    strings.TrimSpace(tc.Email),
		TenantID: strings.TrimSpace(tc.TenantID),
	}, nil
}
