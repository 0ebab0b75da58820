package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrRegistryNotConfigured = errors.New("patient-registry client not configured")
	ErrRegistryUnauthorized  = errors.New("patient-registry unauthorized")
	ErrRegistryUpstream      = errors.New("patient-registry upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client consulta el registro central de pacientes (cuando el despliegue
// usa un directorio externo en vez de las fichas locales).
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

// PatientExists consulta si la cuenta existe en el registro.
func (c *Client) PatientExists(ctx context.Context, patientID string) (bool, error) {
	if !c.IsConfigured() {
		return false, ErrRegistryNotConfigured
	}
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return false, errors.New("patientID required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(c.apiKeyHeader, c.apiKey).
		Get("/v1/patients/" + patientID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRegistryUpstream, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, ErrRegistryUnauthorized
	default:
		return false, fmt.Errorf("%w: status=%d", ErrRegistryUpstream, resp.StatusCode())
	}
}
