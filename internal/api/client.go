package api

// client.go = typed access to the Agriport REST API, one file per
// resource. Everything goes through the Gateway, which owns auth
// headers and 401 handling.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"agriport/internal/gateway"
)

// ErrSessionExpired is returned when the gateway swallowed a 401: the
// session is already cleared and the login redirect already fired, the
// caller just has to stop what it was doing.
var ErrSessionExpired = errors.New("session expired, login required")

// APIError carries an application-level failure: either a non-2xx
// status or a 200 with success=false. Field errors map form fields to
// inline messages for validation failures.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// envelope is the common response wrapper the API uses. Success is a
// pointer because some endpoints omit the flag entirely; only an
// explicit false counts as a failure.
type envelope struct {
	Success *bool             `json:"success,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type Client struct {
	gw *gateway.Gateway
}

func NewClient(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// Gateway exposes the underlying gateway, mostly for login flows that
// need to re-arm the 401 redirect.
func (c *Client) Gateway() *gateway.Gateway {
	return c.gw
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.gw.Get(ctx, path)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrSessionExpired
	}
	defer resp.Body.Close()
	return decode(resp.Response, out)
}

// postJSON issues a POST with a JSON body and decodes the response.
// out may be nil when the caller only cares about success.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.gw.Post(ctx, path, body)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrSessionExpired
	}
	defer resp.Body.Close()
	return decode(resp.Response, out)
}

// putJSON issues a PUT with a JSON body and decodes the response.
func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.gw.Put(ctx, path, body)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrSessionExpired
	}
	defer resp.Body.Close()
	return decode(resp.Response, out)
}

// decode maps the response onto out, translating validation failures
// and success=false envelopes into *APIError.
func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var env envelope
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
			apiErr.Message = firstNonEmpty(env.Error, env.Message)
			apiErr.FieldErrors = env.Errors
		}
		return apiErr
	}

	if out == nil {
		// still need to notice success=false on bodies we ignore
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && !env.Succeeded() {
			return &APIError{StatusCode: resp.StatusCode, Message: env.FailureMessage()}
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// a 200 can still carry an application-level failure
	if env, ok := out.(successReporter); ok && !env.Succeeded() {
		return &APIError{StatusCode: resp.StatusCode, Message: env.FailureMessage()}
	}
	return nil
}

// successReporter lets envelope-shaped responses surface success=false
// without every call site re-checking the flag.
type successReporter interface {
	Succeeded() bool
	FailureMessage() string
}

func (e envelope) Succeeded() bool { return e.Success == nil || *e.Success }
func (e envelope) FailureMessage() string {
	return firstNonEmpty(e.Error, e.Message, "request was not successful")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
