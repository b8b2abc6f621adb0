package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriport/internal/session"
)

func newTestGateway(t *testing.T, baseURL string, redirector Redirector) (*Gateway, session.Store) {
	t.Helper()
	store := session.NewMemoryStore()
	g := New(Config{BaseURL: baseURL, AuthScheme: "Token"}, store, redirector, zerolog.Nop())
	return g, store
}

func TestDo_AttachesExactlyOneAuthorizationHeader(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, store := newTestGateway(t, server.URL, nil)
	require.NoError(t, store.Save(session.Session{Token: "T1", UserID: 7, UserType: session.UserTypeBuyer}))

	resp, err := g.Get(context.Background(), "/api/buyer/dashboard-data/")
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	require.Len(t, gotAuth, 1)
	assert.Equal(t, "Token T1", gotAuth[0])
}

func TestDo_NoSessionSendsUnauthenticatedRequest(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, _ := newTestGateway(t, server.URL, nil)

	resp, err := g.Get(context.Background(), "/api/products/")
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestDo_CallerHeadersWinOverDefaults(t *testing.T) {
	var gotAuth, gotContentType []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		gotContentType = r.Header.Values("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, store := newTestGateway(t, server.URL, nil)
	require.NoError(t, store.Save(session.Session{Token: "T1", UserType: session.UserTypeBuyer}))

	opts := &Options{Headers: http.Header{}}
	opts.Headers.Set("Authorization", "Bearer other")
	opts.Headers.Set("Content-Type", "text/plain")

	resp, err := g.Do(context.Background(), http.MethodPost, "/api/custom/", map[string]string{"a": "b"}, opts)
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	require.Len(t, gotAuth, 1)
	assert.Equal(t, "Bearer other", gotAuth[0])
	require.Len(t, gotContentType, 1)
	assert.Equal(t, "text/plain", gotContentType[0])
}

func TestDo_SerializesJSONBody(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, _ := newTestGateway(t, server.URL, nil)

	resp, err := g.Post(context.Background(), "/api/messages/send/", map[string]string{"content": "Hello"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, "Hello", gotBody["content"])
}

func TestDo_401ClearsSessionAndReturnsNilSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var redirects int
	var redirectedAs session.UserType
	redirector := RedirectorFunc(func(userType session.UserType) {
		redirects++
		redirectedAs = userType
	})

	g, store := newTestGateway(t, server.URL, redirector)
	require.NoError(t, store.Save(session.Session{Token: "stale", UserID: 3, UserType: session.UserTypeFarmer}))

	resp, err := g.Get(context.Background(), "/api/notifications/")
	require.NoError(t, err)
	assert.Nil(t, resp, "401 must yield the nil-response sentinel, not an error")

	assert.False(t, store.IsActive(), "session must be cleared immediately after a 401")
	assert.Equal(t, 1, redirects)
	assert.Equal(t, session.UserTypeFarmer, redirectedAs)
}

func TestDo_ConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var mu sync.Mutex
	redirects := 0
	redirector := RedirectorFunc(func(session.UserType) {
		mu.Lock()
		redirects++
		mu.Unlock()
	})

	g, store := newTestGateway(t, server.URL, redirector)
	require.NoError(t, store.Save(session.Session{Token: "stale", UserType: session.UserTypeBuyer}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Get(context.Background(), "/api/notifications/")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, redirects, "concurrent 401s must not double-redirect")
}

func TestResetRedirect_ReArmsTheRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	redirects := 0
	g, store := newTestGateway(t, server.URL, RedirectorFunc(func(session.UserType) { redirects++ }))

	require.NoError(t, store.Save(session.Session{Token: "t1", UserType: session.UserTypeBuyer}))
	g.Get(context.Background(), "/api/notifications/")
	assert.Equal(t, 1, redirects)

	// a re-login re-arms the one-shot redirect
	require.NoError(t, store.Save(session.Session{Token: "t2", UserType: session.UserTypeBuyer}))
	g.ResetRedirect()
	g.Get(context.Background(), "/api/notifications/")
	assert.Equal(t, 2, redirects)
}

func TestDo_NetworkFailureReturnsError(t *testing.T) {
	// nothing listens here
	g, _ := newTestGateway(t, "http://127.0.0.1:1", nil)

	resp, err := g.Get(context.Background(), "/api/products/")
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestDo_SequenceNumbersAreMonotonic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, _ := newTestGateway(t, server.URL, nil)

	first, err := g.Get(context.Background(), "/api/products/")
	require.NoError(t, err)
	first.Body.Close()
	second, err := g.Get(context.Background(), "/api/products/")
	require.NoError(t, err)
	second.Body.Close()

	assert.Greater(t, second.Seq, first.Seq)
}
