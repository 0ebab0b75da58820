package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"safemed/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("idp client not configured")
	ErrUnauthorized  = errors.New("idp unauthorized")
	ErrUpstream      = errors.New("idp upstream error")
)

// Config del cliente del identity provider.
// BaseURL y APIKey normalmente vendrán de la config del servicio.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	http         *resty.Client
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &Client{
		baseURL:      base,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         resty.New().SetBaseURL(base).SetTimeout(timeout),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
}

// VerifyToken llama al identity provider para verificar un token y traer claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out verifyResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(c.apiKeyHeader, c.apiKey).
		SetHeader("Authorization", "Bearer "+token).
		SetBody(map[string]string{"token": token}).
		SetResult(&out).
		Post("/v1/tokens/verify")
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		// ok
	case http.StatusUnauthorized, http.StatusForbidden:
		return auth.Claims{}, ErrUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode())
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("idp response missing user_id")
	}

	return auth.Claims{
		UserID:   out.UserID,
		Role:     auth.Role(strings.TrimSpace(out.Role)),
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
