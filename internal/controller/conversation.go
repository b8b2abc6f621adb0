package controller

// conversation.go drives the two-pane messaging view: a conversation
// list and one open conversation that refreshes on a poll cadence.
// Selecting a conversation replaces any previous poller, and responses
// that lost a race against a newer selection are discarded instead of
// overwriting fresher data.

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/google/uuid"

	"agriport/internal/api"
	"agriport/internal/poller"
	"agriport/internal/render"
)

type ConversationState int

const (
	StateNone ConversationState = iota
	StateLoading
	StateActive
)

func (s ConversationState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// ConversationView is what the conversation controller renders into:
// the web view swaps DOM fragments, the CLI reprints the transcript.
type ConversationView interface {
	ShowConversation(conv api.Conversation, messages []template.HTML)
	AppendOptimistic(clientID string, bubble template.HTML)
	RemoveOptimistic(clientID string)
	ShowError(message string)
}

type ConversationController struct {
	client *api.Client
	view   ConversationView
	poll   *poller.Poller
	userID int64
	now    func() time.Time

	mu        sync.Mutex
	state     ConversationState
	currentID int64
	// generation stamps each selection; a fetch started under an older
	// generation is stale and its response is dropped
	generation uint64
}

func NewConversationController(client *api.Client, view ConversationView, poll *poller.Poller, userID int64) *ConversationController {
	return &ConversationController{
		client: client,
		view:   view,
		poll:   poll,
		userID: userID,
		now:    time.Now,
	}
}

// State reports the current panel state.
func (c *ConversationController) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentID reports the open conversation, zero when none is open.
func (c *ConversationController) CurrentID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// Select opens a conversation: stops the previous message poller,
// fetches and renders the transcript, then polls this conversation
// until Close or the next Select.
func (c *ConversationController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.poll.Stop()
	c.state = StateLoading
	c.currentID = id
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	if err := c.refresh(ctx, id, gen); err != nil {
		return err
	}

	c.mu.Lock()
	superseded := gen != c.generation
	c.mu.Unlock()
	if superseded {
		// a newer Select or Close happened while we were fetching;
		// its poller owns the panel now
		return nil
	}

	c.poll.Start(ctx, func(tickCtx context.Context) error {
		return c.refresh(tickCtx, id, gen)
	})
	return nil
}

// Close stops polling and returns the panel to its empty state.
func (c *ConversationController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poll.Stop()
	c.state = StateNone
	c.currentID = 0
	c.generation++
}

// Send appends an optimistic bubble, posts the message, then re-fetches
// the conversation so the server's ordering wins. On failure the
// optimistic bubble is removed and the error surfaced.
func (c *ConversationController) Send(ctx context.Context, content string) error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return fmt.Errorf("no conversation selected")
	}
	id := c.currentID
	gen := c.generation
	c.mu.Unlock()

	clientID := uuid.NewString()
	bubble, err := render.MessageBubble(api.Message{
		ConversationID: id,
		SenderID:       c.userID,
		Content:        content,
		CreatedAt:      c.now(),
	}, c.userID, c.now())
	if err != nil {
		return err
	}
	c.view.AppendOptimistic(clientID, bubble)

	if _, err := c.client.SendMessage(ctx, id, content); err != nil {
		c.view.RemoveOptimistic(clientID)
		c.view.ShowError(fmt.Sprintf("message not sent: %v", err))
		return err
	}

	// re-fetch-after-write: the server copy replaces the optimistic one
	c.view.RemoveOptimistic(clientID)
	return c.refresh(ctx, id, gen)
}

// refresh fetches the conversation and renders it, unless a newer
// selection has superseded this one by the time the response arrives.
func (c *ConversationController) refresh(ctx context.Context, id int64, gen uint64) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	if c.state == StateActive {
		c.state = StateLoading
	}
	c.mu.Unlock()

	detail, err := c.client.GetConversation(ctx, id)
	if err != nil {
		return err
	}

	now := c.now()
	bubbles := make([]template.HTML, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		bubble, err := render.MessageBubble(m, c.userID, now)
		if err != nil {
			return err
		}
		bubbles = append(bubbles, bubble)
	}

	c.mu.Lock()
	if gen != c.generation {
		// a newer Select or Close won the race; drop this response
		c.mu.Unlock()
		return nil
	}
	c.state = StateActive
	c.mu.Unlock()

	c.view.ShowConversation(detail.Conversation, bubbles)
	return nil
}
