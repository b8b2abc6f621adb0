package gateway

// gateway.go is the single chokepoint for calls against the Agriport
// API. It attaches the stored token, serializes JSON bodies, applies a
// client-side rate limit, and centralizes 401 handling so no page code
// ever deals with an expired session itself.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"agriport/internal/session"
)

// Redirector is invoked once when a 401 invalidates the session. The
// CLI tells the user to log in again; the web view issues a browser
// redirect to the role's login page.
type Redirector interface {
	RedirectToLogin(userType session.UserType)
}

// RedirectorFunc adapts a function to the Redirector interface.
type RedirectorFunc func(userType session.UserType)

func (f RedirectorFunc) RedirectToLogin(userType session.UserType) { f(userType) }

// Response wraps the HTTP response with the request sequence number so
// controllers can discard responses that lost a race against a newer
// request for the same resource.
type Response struct {
	*http.Response
	Seq uint64
}

// Options customizes a single request. Caller-supplied headers win
// over the gateway's defaults on conflict.
type Options struct {
	Headers http.Header
}

type Gateway struct {
	baseURL    string
	authScheme string // "Token" or "Bearer"
	httpClient *http.Client
	sessions   session.Store
	redirector Redirector
	limiter    *rate.Limiter
	logger     zerolog.Logger

	seq        atomic.Uint64
	redirectMu sync.Mutex
	redirected bool
}

type Config struct {
	BaseURL           string
	AuthScheme        string
	Timeout           time.Duration
	RequestsPerSecond float64
	RequestBurst      int
}

// New creates a gateway over the given session store. The redirector
// may be nil when the caller only wants the session cleared on 401.
func New(cfg Config, sessions session.Store, redirector Redirector, logger zerolog.Logger) *Gateway {
	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = "Token"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 10
	}
	burst := cfg.RequestBurst
	if burst == 0 {
		burst = 20
	}

	return &Gateway{
		baseURL:    cfg.BaseURL,
		authScheme: scheme,
		httpClient: &http.Client{Timeout: timeout},
		sessions:   sessions,
		redirector: redirector,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger.With().Str("component", "gateway").Logger(),
	}
}

// Do issues a request against the API. A non-nil body is JSON-encoded.
// On a 401 the session is cleared, the redirector fires at most once,
// and (nil, nil) is returned: callers must nil-check the response.
// Network failures come back as errors with no retry.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, opts *Options) (*Response, error) {
	seq := g.seq.Add(1)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	// Defaults first, then caller headers so the caller wins.
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, err := g.sessions.Read(); err == nil && s != nil && s.Token != "" {
		// The token is attached verbatim and never inspected.
		req.Header.Set("Authorization", g.authScheme+" "+s.Token)
	}
	req.Header.Set("X-Request-Seq", strconv.FormatUint(seq, 10))
	if opts != nil {
		for key, values := range opts.Headers {
			req.Header.Del(key)
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.handleUnauthorized(method, path)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, nil
	}

	return &Response{Response: resp, Seq: seq}, nil
}

// Get is shorthand for Do with GET and no body.
func (g *Gateway) Get(ctx context.Context, path string) (*Response, error) {
	return g.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post is shorthand for Do with POST and a JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body any) (*Response, error) {
	return g.Do(ctx, http.MethodPost, path, body, nil)
}

// Put is shorthand for Do with PUT and a JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body any) (*Response, error) {
	return g.Do(ctx, http.MethodPut, path, body, nil)
}

// handleUnauthorized clears the session and fires the login redirect
// exactly once, even when several in-flight requests hit 401 together.
func (g *Gateway) handleUnauthorized(method, path string) {
	userType := session.UserTypeBuyer
	if s, err := g.sessions.Read(); err == nil && s != nil {
		userType = s.UserType
	}

	if err := g.sessions.Clear(); err != nil {
		g.logger.Error().Err(err).Msg("failed to clear session after 401")
	}
	g.logger.Info().Str("method", method).Str("path", path).Msg("session rejected by API, logging out")

	g.redirectMu.Lock()
	already := g.redirected
	g.redirected = true
	g.redirectMu.Unlock()

	if !already && g.redirector != nil {
		g.redirector.RedirectToLogin(userType)
	}
}

// ResetRedirect re-arms the one-shot login redirect. Called after a
// successful login so a later expiry redirects again.
func (g *Gateway) ResetRedirect() {
	g.redirectMu.Lock()
	g.redirected = false
	g.redirectMu.Unlock()
}

// Sessions exposes the underlying store for callers that need to
// persist a login result through the same store the gateway reads.
func (g *Gateway) Sessions() session.Store {
	return g.sessions
}
