package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// NotificationType enumerates every kind of notification the API
// produces. The client only displays them and flips the read flag.
type NotificationType string

const (
	NotificationReservationPending  NotificationType = "reservation_pending"
	NotificationReservationApproved NotificationType = "reservation_approved"
	NotificationReservationRejected NotificationType = "reservation_rejected"
	NotificationNewMessage          NotificationType = "new_message"
	NotificationPaymentReceived     NotificationType = "payment_received"
	NotificationReceiptUploaded     NotificationType = "receipt_uploaded"
	NotificationReceiptVerified     NotificationType = "receipt_verified"
	NotificationSystemAnnouncement  NotificationType = "system_announcement"
	NotificationUrgentSale          NotificationType = "urgent_sale"
	NotificationProductAvailable    NotificationType = "product_available"
)

type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	// RelatedID points into the reservation, transaction or
	// conversation the notification is about, when there is one.
	RelatedID *int64 `json:"related_id,omitempty"`
}

type NotificationList struct {
	envelope
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"total_pages"`
}

// ListNotificationsParams narrows the notification list. Zero values
// are omitted from the query string.
type ListNotificationsParams struct {
	Page       int
	PerPage    int
	UnreadOnly bool
	Type       NotificationType
}

func (p ListNotificationsParams) query() string {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.UnreadOnly {
		values.Set("unread_only", "true")
	}
	if p.Type != "" {
		values.Set("type", string(p.Type))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ListNotifications fetches the caller's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, params ListNotificationsParams) (*NotificationList, error) {
	var result NotificationList
	if err := c.getJSON(ctx, "/api/notifications/"+params.query(), &result); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &result, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/notifications/%d/read/", id)
	if err := c.postJSON(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification %d as read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.postJSON(ctx, "/api/notifications/mark-all-read/", nil, nil); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}
