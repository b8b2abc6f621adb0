package render

// render.go maps domain records to HTML fragments. Every function is
// pure: same record plus same "now" yields byte-identical output, and
// all user-supplied text passes through html/template's escaping.

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"agriport/internal/api"
)

var fragments = template.Must(template.New("fragments").Parse(fragmentSource))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

type notificationItemData struct {
	Notification api.Notification
	When         string
	StateClass   string
}

// NotificationItem renders one row of the notification panel.
func NotificationItem(n api.Notification, now time.Time) (template.HTML, error) {
	state := "read"
	if !n.IsRead {
		state = "unread"
	}
	return execute("notification_item", notificationItemData{
		Notification: n,
		When:         RelativeTime(n.CreatedAt, now),
		StateClass:   state,
	})
}

type conversationItemData struct {
	Conversation api.Conversation
	Other        api.Participant
}

// ConversationItem renders one entry of the conversation list, labelled
// with the participant that is not the current user.
func ConversationItem(c api.Conversation, currentUserID int64) (template.HTML, error) {
	return execute("conversation_item", conversationItemData{
		Conversation: c,
		Other:        c.Other(currentUserID),
	})
}

type messageBubbleData struct {
	Message        api.Message
	When           string
	DirectionClass string
}

// MessageBubble renders one chat message, aligned by sender.
func MessageBubble(m api.Message, currentUserID int64, now time.Time) (template.HTML, error) {
	direction := "received"
	if m.SenderID == currentUserID {
		direction = "sent"
	}
	return execute("message_bubble", messageBubbleData{
		Message:        m,
		When:           RelativeTime(m.CreatedAt, now),
		DirectionClass: direction,
	})
}

type productCardData struct {
	Product api.Product
	Price   string
}

// ProductCard renders one marketplace product.
func ProductCard(p api.Product) (template.HTML, error) {
	return execute("product_card", productCardData{
		Product: p,
		Price:   fmt.Sprintf("%.2f", p.Price),
	})
}

type reservationRowData struct {
	Reservation api.Reservation
	When        string
	Total       string
}

// ReservationRow renders one reservation as a table row.
func ReservationRow(r api.Reservation, now time.Time) (template.HTML, error) {
	return execute("reservation_row", reservationRowData{
		Reservation: r,
		When:        RelativeTime(r.CreatedAt, now),
		Total:       fmt.Sprintf("%.2f", r.TotalPrice),
	})
}

// RelativeTime formats t relative to now the way the notification
// panel shows timestamps. Falls back to a date for anything older than
// a week.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
