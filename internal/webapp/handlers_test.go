package webapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriport/internal/config"
	"agriport/internal/session"
)

func newTestServer(t *testing.T, apiHandler http.Handler) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	apiServer := httptest.NewServer(apiHandler)
	t.Cleanup(apiServer.Close)

	cfg := &config.Config{
		GoEnv:       "development",
		APIURL:      apiServer.URL,
		AuthScheme:  "Token",
		HTTPTimeout: 5 * time.Second,
		WebAppPort:  3000,
	}
	return NewServer(cfg, zerolog.Nop())
}

func postForm(router *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnonymousVisitorIsRedirectedToLogin(t *testing.T) {
	s := newTestServer(t, http.NewServeMux())

	w := get(s.Router(), "/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogin_SuccessStoresSessionAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/buyer/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "token": "T1", "user_id": 7,
			"user_type": "Buyer", "full_name": "Test Buyer", "email": "buyer@test.com",
		})
	})

	s := newTestServer(t, mux)
	w := postForm(s.Router(), "/login", url.Values{
		"role": {"Buyer"}, "email": {"buyer@test.com"}, "password": {"secret"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	stored, err := s.sessions.Read()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "T1", stored.Token)
	assert.Equal(t, int64(7), stored.UserID)
}

func TestLogin_FailureShowsBannerWithFieldErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/buyer/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false, "error": "Invalid credentials",
			"errors": map[string]string{"password": "Password is incorrect"},
		})
	})

	s := newTestServer(t, mux)
	w := postForm(s.Router(), "/login", url.Values{
		"role": {"Buyer"}, "email": {"buyer@test.com"}, "password": {"wrong"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, "Password is incorrect")
	assert.False(t, s.sessions.IsActive())
}

func TestNotificationsPage_RendersEscapedItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"notifications": []map[string]any{
				{"id": 1, "type": "system_announcement", "title": "<script>alert(1)</script>", "message": "m"},
			},
			"unread_count": 1,
		})
	})

	s := newTestServer(t, mux)
	require.NoError(t, s.sessions.Save(session.Session{Token: "T1", UserID: 7, UserType: session.UserTypeBuyer}))

	w := get(s.Router(), "/notifications")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestExpiredSession_BouncesToLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	s := newTestServer(t, mux)
	require.NoError(t, s.sessions.Save(session.Session{Token: "stale", UserID: 7, UserType: session.UserTypeBuyer}))

	w := get(s.Router(), "/notifications")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, s.sessions.IsActive(), "the gateway clears the stale session")
}

func TestConversationPage_RendersTranscriptAndForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"conversation": map[string]any{
				"id":           42,
				"participants": []map[string]any{{"user_id": 7, "name": "Buyer"}, {"user_id": 9, "name": "Frank Farmer"}},
				"last_message": "Hello",
			},
			"messages": []map[string]any{
				{"id": 1, "conversation_id": 42, "sender_id": 9, "content": "Hello"},
			},
		})
	})

	s := newTestServer(t, mux)
	require.NoError(t, s.sessions.Save(session.Session{Token: "T1", UserID: 7, UserType: session.UserTypeBuyer}))

	w := get(s.Router(), "/messages/42")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Frank Farmer")
	assert.Contains(t, body, "message-bubble received")
	assert.Contains(t, body, `action="/messages/42/send"`)
}

func TestSendMessage_RedirectsBackToConversation(t *testing.T) {
	var sent map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/send/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": map[string]any{"id": 2, "conversation_id": 42, "content": "Hi"},
		})
	})

	s := newTestServer(t, mux)
	require.NoError(t, s.sessions.Save(session.Session{Token: "T1", UserID: 7, UserType: session.UserTypeBuyer}))

	w := postForm(s.Router(), "/messages/42/send", url.Values{"content": {"Hi"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/messages/42", w.Header().Get("Location"))
	assert.Equal(t, "Hi", sent["content"])
}
