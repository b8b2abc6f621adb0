package api

import (
	"context"
	"fmt"
	"time"
)

// Participant is one side of a conversation. Every conversation has
// exactly two.
type Participant struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
}

type Conversation struct {
	ID           int64          `json:"id"`
	Participants [2]Participant `json:"participants"`
	LastMessage  string         `json:"last_message"`
	UnreadCount  int            `json:"unread_count"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Other returns the participant that is not userID, for labelling the
// conversation from the current user's point of view.
func (c Conversation) Other(userID int64) Participant {
	if c.Participants[0].UserID == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationList struct {
	envelope
	Conversations []Conversation `json:"conversations"`
}

// ConversationDetail is one conversation with its messages, ordered by
// created_at ascending. The server's ordering is authoritative; the
// client never reorders or merges.
type ConversationDetail struct {
	envelope
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}

type SendMessageRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
}

type SendMessageResponse struct {
	envelope
	Message Message `json:"message"`
}

type StartConversationRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content,omitempty"`
}

type StartConversationResponse struct {
	envelope
	Conversation Conversation `json:"conversation"`
}

// ListConversations fetches the caller's conversations, most recently
// active first.
func (c *Client) ListConversations(ctx context.Context) (*ConversationList, error) {
	var result ConversationList
	if err := c.getJSON(ctx, "/api/messages/conversations/", &result); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return &result, nil
}

// GetConversation fetches one conversation with its full message list.
func (c *Client) GetConversation(ctx context.Context, id int64) (*ConversationDetail, error) {
	var result ConversationDetail
	path := fmt.Sprintf("/api/messages/conversation/%d/", id)
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("failed to get conversation %d: %w", id, err)
	}
	return &result, nil
}

// SendMessage posts a message into an existing conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, content string) (*SendMessageResponse, error) {
	req := SendMessageRequest{ConversationID: conversationID, Content: content}
	var result SendMessageResponse
	if err := c.postJSON(ctx, "/api/messages/send/", &req, &result); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &result, nil
}

// StartConversation opens a conversation with another user, optionally
// seeding it with a first message.
func (c *Client) StartConversation(ctx context.Context, req *StartConversationRequest) (*StartConversationResponse, error) {
	var result StartConversationResponse
	if err := c.postJSON(ctx, "/api/messages/conversations/start/", req, &result); err != nil {
		return nil, fmt.Errorf("failed to start conversation: %w", err)
	}
	return &result, nil
}
