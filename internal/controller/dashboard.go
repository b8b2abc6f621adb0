package controller

// dashboard.go is the one dashboard controller for all three roles.
// The old frontend carried a near-identical page per role; here a role
// config picks the endpoints and permitted actions instead.

import (
	"context"
	"html/template"
	"time"

	"agriport/internal/api"
	"agriport/internal/render"
	"agriport/internal/session"
)

// Action is a navigation entry the dashboard offers for the role.
type Action struct {
	Label string
	Path  string
}

// RoleConfig drives the generic dashboard: which role's endpoints to
// hit and which actions the role may take.
type RoleConfig struct {
	Role    session.UserType
	Actions []Action
}

// ConfigForRole returns the capability set for a role.
func ConfigForRole(role session.UserType) RoleConfig {
	switch role {
	case session.UserTypeFarmer:
		return RoleConfig{
			Role: role,
			Actions: []Action{
				{Label: "My Listings", Path: "/listings"},
				{Label: "Reservations", Path: "/reservations"},
				{Label: "Urgent Sale", Path: "/urgent-sale"},
				{Label: "Messages", Path: "/messages"},
			},
		}
	case session.UserTypeAdmin:
		return RoleConfig{
			Role: role,
			Actions: []Action{
				{Label: "Manage Users", Path: "/admin/users"},
				{Label: "Pending Farmers", Path: "/admin/pending"},
				{Label: "Broadcast", Path: "/admin/broadcast"},
				{Label: "Roles", Path: "/admin/roles"},
			},
		}
	default: // Buyer
		return RoleConfig{
			Role: session.UserTypeBuyer,
			Actions: []Action{
				{Label: "Marketplace", Path: "/products"},
				{Label: "My Reservations", Path: "/reservations"},
				{Label: "Favorites", Path: "/favorites"},
				{Label: "Messages", Path: "/messages"},
			},
		}
	}
}

type DashboardView interface {
	ShowDashboard(stats map[string]float64, reservations, notifications []template.HTML, actions []Action)
	ShowError(message string)
}

type DashboardController struct {
	client *api.Client
	view   DashboardView
	config RoleConfig
	now    func() time.Time
}

func NewDashboardController(client *api.Client, view DashboardView, config RoleConfig) *DashboardController {
	return &DashboardController{
		client: client,
		view:   view,
		config: config,
		now:    time.Now,
	}
}

// Load fetches the role's dashboard data and renders it.
func (c *DashboardController) Load(ctx context.Context) error {
	data, err := c.client.GetDashboardData(ctx, c.config.Role)
	if err != nil {
		c.view.ShowError(err.Error())
		return err
	}

	now := c.now()

	reservations := make([]template.HTML, 0, len(data.RecentReservations))
	for _, r := range data.RecentReservations {
		row, err := render.ReservationRow(r, now)
		if err != nil {
			return err
		}
		reservations = append(reservations, row)
	}

	notifications := make([]template.HTML, 0, len(data.RecentNotifications))
	for _, n := range data.RecentNotifications {
		item, err := render.NotificationItem(n, now)
		if err != nil {
			return err
		}
		notifications = append(notifications, item)
	}

	c.view.ShowDashboard(data.Stats, reservations, notifications, c.config.Actions)
	return nil
}
