// Package api implements the HTTP client for the remote todo service.
// It is stateless: every method maps one intent to one request, and all
// caching lives in the todo store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rebornbugkiller/tick/internal/logging"
)

// ErrUnauthorized is returned when the server rejects the credential.
// The client has already invalidated the session by the time callers
// see it; they should not retry.
var ErrUnauthorized = errors.New("unauthorized")

// Credentials supplies the bearer token for outgoing requests and is
// told when the server rejects it. session.Session implements it.
type Credentials interface {
	// Token returns the current bearer token, or false when absent.
	Token() (string, bool)

	// Invalidate is called when the server answers 401.
	Invalidate()
}

// Client calls the remote todo service.
type Client struct {
	baseURL string
	creds   Credentials
	client  *http.Client
}

// NewClient creates a client for the given address or URL. A zero
// timeout means no timeout, matching a server that is trusted to answer.
func NewClient(addr string, creds Credentials, timeout time.Duration) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		client:  &http.Client{Timeout: timeout},
	}
}

// do sends an authenticated JSON request and decodes the response into
// dest (skipped when dest is nil).
func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, ok := c.creds.Token()
	if !ok {
		return ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logging.Debug("api call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Invalidate()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(dest)
}

// postForm sends an unauthenticated form-encoded request, used only for
// the token endpoint. A 401 here means bad credentials, not a dead
// session, so nothing is invalidated.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(dest)
}

// postJSON sends an unauthenticated JSON request, used for registration.
func (c *Client) postJSON(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(dest)
}

// readErrorResponse surfaces the server's detail message when present.
func readErrorResponse(resp *http.Response) error {
	var payload map[string]any
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if detail, ok := payload["detail"].(string); ok && detail != "" {
			return fmt.Errorf("server error: %s", detail)
		}
	}
	return fmt.Errorf("server error: %s", resp.Status)
}
