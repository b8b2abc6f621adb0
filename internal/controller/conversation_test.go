package controller

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriport/internal/api"
	"agriport/internal/gateway"
	"agriport/internal/poller"
	"agriport/internal/session"
)

type fakeConversationView struct {
	mu          sync.Mutex
	shown       []api.Conversation
	transcripts [][]template.HTML
	optimistic  []string
	removed     []string
	errors      []string
}

func (v *fakeConversationView) ShowConversation(conv api.Conversation, messages []template.HTML) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = append(v.shown, conv)
	v.transcripts = append(v.transcripts, messages)
}

func (v *fakeConversationView) AppendOptimistic(clientID string, bubble template.HTML) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.optimistic = append(v.optimistic, clientID+"|"+string(bubble))
}

func (v *fakeConversationView) RemoveOptimistic(clientID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, clientID)
}

func (v *fakeConversationView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *fakeConversationView) lastShown() (api.Conversation, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.shown) == 0 {
		return api.Conversation{}, false
	}
	return v.shown[len(v.shown)-1], true
}

func newConversationClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Session{Token: "T1", UserID: 7, UserType: session.UserTypeBuyer}))
	gw := gateway.New(gateway.Config{BaseURL: server.URL, AuthScheme: "Token"}, store, nil, zerolog.Nop())
	return api.NewClient(gw)
}

func conversationPayload(id int64, lastMessage string, messages ...api.Message) map[string]any {
	return map[string]any{
		"success": true,
		"conversation": map[string]any{
			"id":           id,
			"participants": []map[string]any{{"user_id": 7, "name": "Buyer"}, {"user_id": 9, "name": "Farmer"}},
			"last_message": lastMessage,
		},
		"messages": messages,
	}
}

func TestSelect_RendersTranscriptAndActivates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(conversationPayload(42, "See you",
			api.Message{ID: 1, ConversationID: 42, SenderID: 9, Content: "Hi"},
			api.Message{ID: 2, ConversationID: 42, SenderID: 7, Content: "See you"},
		))
	})

	view := &fakeConversationView{}
	ctrl := NewConversationController(newConversationClient(t, mux), view,
		poller.New("messages", time.Hour, zerolog.Nop()), 7)
	defer ctrl.Close()

	require.NoError(t, ctrl.Select(context.Background(), 42))

	assert.Equal(t, StateActive, ctrl.State())
	assert.Equal(t, int64(42), ctrl.CurrentID())

	conv, ok := view.lastShown()
	require.True(t, ok)
	assert.Equal(t, int64(42), conv.ID)

	view.mu.Lock()
	defer view.mu.Unlock()
	require.Len(t, view.transcripts, 1)
	require.Len(t, view.transcripts[0], 2)
	assert.Contains(t, string(view.transcripts[0][0]), "received")
	assert.Contains(t, string(view.transcripts[0][1]), "sent")
}

func TestClose_StopsPollingAndResetsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(conversationPayload(42, ""))
	})

	view := &fakeConversationView{}
	poll := poller.New("messages", time.Hour, zerolog.Nop())
	ctrl := NewConversationController(newConversationClient(t, mux), view, poll, 7)

	require.NoError(t, ctrl.Select(context.Background(), 42))
	assert.True(t, poll.Running())

	ctrl.Close()
	assert.Equal(t, StateNone, ctrl.State())
	assert.Equal(t, int64(0), ctrl.CurrentID())
	assert.False(t, poll.Running())
}

func TestSend_OptimisticBubbleAppearsBeforePostResolves(t *testing.T) {
	release := make(chan struct{})
	var optimisticPending bool
	view := &fakeConversationView{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(conversationPayload(42, "Hello",
			api.Message{ID: 3, ConversationID: 42, SenderID: 7, Content: "Hello"}))
	})
	mux.HandleFunc("/api/messages/send/", func(w http.ResponseWriter, r *http.Request) {
		view.mu.Lock()
		optimisticPending = len(view.optimistic) == 1
		view.mu.Unlock()
		<-release
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": map[string]any{"id": 3, "conversation_id": 42, "content": "Hello"},
		})
	})

	ctrl := NewConversationController(newConversationClient(t, mux), view,
		poller.New("messages", time.Hour, zerolog.Nop()), 7)
	defer ctrl.Close()

	require.NoError(t, ctrl.Select(context.Background(), 42))

	done := make(chan error, 1)
	go func() { done <- ctrl.Send(context.Background(), "Hello") }()

	// give Send time to append the bubble, then let the POST finish
	time.Sleep(50 * time.Millisecond)
	close(release)
	require.NoError(t, <-done)

	assert.True(t, optimisticPending, "optimistic bubble must render before the POST resolves")

	// re-fetch-after-write: the preview now carries the sent content
	conv, ok := view.lastShown()
	require.True(t, ok)
	assert.Equal(t, "Hello", conv.LastMessage)
}

func TestSend_FailureRollsBackOptimisticBubble(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(conversationPayload(42, ""))
	})
	mux.HandleFunc("/api/messages/send/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "conversation closed"})
	})

	view := &fakeConversationView{}
	ctrl := NewConversationController(newConversationClient(t, mux), view,
		poller.New("messages", time.Hour, zerolog.Nop()), 7)
	defer ctrl.Close()

	require.NoError(t, ctrl.Select(context.Background(), 42))
	require.Error(t, ctrl.Send(context.Background(), "too late"))

	view.mu.Lock()
	defer view.mu.Unlock()
	require.Len(t, view.optimistic, 1)
	require.Len(t, view.removed, 1)
	assert.Equal(t, strings.SplitN(view.optimistic[0], "|", 2)[0], view.removed[0])
	require.Len(t, view.errors, 1)
	assert.Contains(t, view.errors[0], "conversation closed")
}

func TestSend_RequiresActiveConversation(t *testing.T) {
	view := &fakeConversationView{}
	ctrl := NewConversationController(newConversationClient(t, http.NewServeMux()), view,
		poller.New("messages", time.Hour, zerolog.Nop()), 7)

	err := ctrl.Send(context.Background(), "Hello")
	assert.Error(t, err)
}

func TestSelect_StaleResponseIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/conversation/1/", func(w http.ResponseWriter, r *http.Request) {
		close(slowStarted)
		<-release
		json.NewEncoder(w).Encode(conversationPayload(1, "old"))
	})
	mux.HandleFunc("/api/messages/conversation/2/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(conversationPayload(2, "new"))
	})

	view := &fakeConversationView{}
	ctrl := NewConversationController(newConversationClient(t, mux), view,
		poller.New("messages", time.Hour, zerolog.Nop()), 7)
	defer ctrl.Close()

	done := make(chan error, 1)
	go func() { done <- ctrl.Select(context.Background(), 1) }()
	<-slowStarted

	// the user switched conversations before the first fetch returned
	require.NoError(t, ctrl.Select(context.Background(), 2))
	close(release)
	require.NoError(t, <-done)

	view.mu.Lock()
	defer view.mu.Unlock()
	for _, conv := range view.shown {
		assert.NotEqual(t, int64(1), conv.ID, "stale response must not overwrite the newer conversation")
	}
	assert.Equal(t, int64(2), ctrl.CurrentID())
}
