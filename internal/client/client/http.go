package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/models"
	"github.com/dmitrijs2005/authsession/internal/client/transport"
)

const maxErrorBody = 1 << 20

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient builds a client for baseURL (without the /auth suffix). rt is
// the round tripper every request goes through; nil means
// http.DefaultTransport.
func NewHTTPClient(baseURL string, rt http.RoundTripper, timeout time.Duration) *HTTPClient {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth",
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   timeout,
		},
	}
}

func (c *HTTPClient) Register(ctx context.Context, data models.RegistrationData) (*models.UserSummary, error) {
	var out models.UserSummary
	if err := c.doRequest(transport.Anonymous(ctx), http.MethodPost, "/register", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.doRequest(transport.Anonymous(ctx), http.MethodPost, "/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Admin(ctx context.Context) (*models.AdminResponse, error) {
	var out models.AdminResponse
	if err := c.doRequest(ctx, http.MethodGet, "/admin", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context) (*models.LogoutResponse, error) {
	var out models.LogoutResponse
	if err := c.doRequest(ctx, http.MethodPost, "/logout", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return normalizeError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
