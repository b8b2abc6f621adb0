package controller

// notifications.go drives the bell/panel: load, filter tabs, unread
// badge, mark-as-read, with refreshes coming from the poller or the
// websocket feed.

import (
	"context"
	"html/template"
	"sync"
	"time"

	"agriport/internal/api"
	"agriport/internal/poller"
	"agriport/internal/render"
)

// Filter matches the panel's tab set.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterReservations Filter = "reservations"
	FilterSales        Filter = "sales"
	FilterMessages     Filter = "messages"
	FilterAdmin        Filter = "admin"
)

// filterTypes maps each tab to the notification types it shows.
var filterTypes = map[Filter]map[api.NotificationType]bool{
	FilterReservations: {
		api.NotificationReservationPending:  true,
		api.NotificationReservationApproved: true,
		api.NotificationReservationRejected: true,
	},
	FilterSales: {
		api.NotificationPaymentReceived:  true,
		api.NotificationReceiptUploaded:  true,
		api.NotificationReceiptVerified:  true,
		api.NotificationUrgentSale:       true,
		api.NotificationProductAvailable: true,
	},
	FilterMessages: {
		api.NotificationNewMessage: true,
	},
	FilterAdmin: {
		api.NotificationSystemAnnouncement: true,
	},
}

type NotificationView interface {
	ShowNotifications(items []template.HTML, unreadCount int)
	ShowError(message string)
}

type NotificationController struct {
	client *api.Client
	view   NotificationView
	poll   *poller.Poller
	now    func() time.Time

	mu            sync.Mutex
	filter        Filter
	notifications []api.Notification
	unreadCount   int
}

func NewNotificationController(client *api.Client, view NotificationView, poll *poller.Poller) *NotificationController {
	return &NotificationController{
		client: client,
		view:   view,
		poll:   poll,
		now:    time.Now,
		filter: FilterAll,
	}
}

// Refresh fetches the latest notifications and re-renders the panel.
func (c *NotificationController) Refresh(ctx context.Context) error {
	list, err := c.client.ListNotifications(ctx, api.ListNotificationsParams{})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.notifications = list.Notifications
	c.unreadCount = list.UnreadCount
	c.mu.Unlock()

	return c.renderPanel()
}

// StartPolling refreshes the panel on a fixed cadence until StopPolling.
func (c *NotificationController) StartPolling(ctx context.Context) {
	c.poll.Start(ctx, c.Refresh)
}

func (c *NotificationController) StopPolling() {
	c.poll.Stop()
}

// SetFilter switches the active tab and re-renders from cached data.
func (c *NotificationController) SetFilter(f Filter) error {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	return c.renderPanel()
}

// HandleLive prepends a notification pushed over the websocket feed.
func (c *NotificationController) HandleLive(n api.Notification) error {
	c.mu.Lock()
	c.notifications = append([]api.Notification{n}, c.notifications...)
	if !n.IsRead {
		c.unreadCount++
	}
	c.mu.Unlock()
	return c.renderPanel()
}

// MarkRead marks one notification read, optimistically updating the
// badge, then reconciling with the server through a refresh.
func (c *NotificationController) MarkRead(ctx context.Context, id int64) error {
	if err := c.client.MarkNotificationRead(ctx, id); err != nil {
		c.view.ShowError(err.Error())
		return err
	}
	return c.Refresh(ctx)
}

// MarkAllRead clears the unread state server-side and refreshes.
func (c *NotificationController) MarkAllRead(ctx context.Context) error {
	if err := c.client.MarkAllNotificationsRead(ctx); err != nil {
		c.view.ShowError(err.Error())
		return err
	}
	return c.Refresh(ctx)
}

// UnreadCount reports the cached unread total for the badge.
func (c *NotificationController) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadCount
}

func (c *NotificationController) renderPanel() error {
	c.mu.Lock()
	filter := c.filter
	notifications := make([]api.Notification, len(c.notifications))
	copy(notifications, c.notifications)
	unread := c.unreadCount
	c.mu.Unlock()

	now := c.now()
	allowed := filterTypes[filter]

	items := make([]template.HTML, 0, len(notifications))
	for _, n := range notifications {
		if allowed != nil && !allowed[n.Type] {
			continue
		}
		item, err := render.NotificationItem(n, now)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	c.view.ShowNotifications(items, unread)
	return nil
}
