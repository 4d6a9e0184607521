package paypoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Hosted API base URLs, selected by the sandbox flag on the credentials.
const (
	SandboxBaseURL = "https://api.mite.pay360.com"
	LiveBaseURL    = "https://api.pay360.com"
)

// Credentials identify a PayPoint installation. Scoped per storefront and
// immutable for the duration of a single transaction.
type Credentials struct {
	APIUsername    string
	APIPassword    string
	InstallationID string
	UseSandbox     bool
}

// Client talks to the PayPoint hosted sessions REST API.
type Client struct {
	HTTP *http.Client

	// SandboxBase and LiveBase override the default API hosts. Tests point
	// them at an httptest server.
	SandboxBase string
	LiveBase    string
}

// NewClient returns a client with an instrumented transport and the given timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateSession registers a payment with the hosted API and returns the
// gateway's response. The gateway returns a structured SessionResponse body
// even on non-2xx statuses, so HTTP-level errors are decoded rather than
// surfaced; only transport failures and undecodable bodies return an error.
func (c *Client) CreateSession(ctx context.Context, creds Credentials, req SessionRequest) (SessionResponse, error) {
	var zero SessionResponse

	body, err := json.Marshal(req)
	if err != nil {
		return zero, fmt.Errorf("paypoint: encode session request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/hosted/rest/sessions/%s/payments", c.baseURL(creds.UseSandbox), creds.InstallationID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("paypoint: build session request: %w", err)
	}
	httpReq.SetBasicAuth(creds.APIUsername, creds.APIPassword)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("paypoint: post session request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return zero, fmt.Errorf("paypoint: read session response: %w", err)
	}

	var resp SessionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return zero, fmt.Errorf("paypoint: decode session response (http %d): %w", httpResp.StatusCode, err)
	}
	return resp, nil
}

func (c *Client) baseURL(sandbox bool) string {
	if sandbox {
		if base := strings.TrimRight(strings.TrimSpace(c.SandboxBase), "/"); base != "" {
			return base
		}
		return SandboxBaseURL
	}
	if base := strings.TrimRight(strings.TrimSpace(c.LiveBase), "/"); base != "" {
		return base
	}
	return LiveBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
