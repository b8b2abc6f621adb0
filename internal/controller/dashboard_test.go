package controller

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriport/internal/session"
)

type fakeDashboardView struct {
	stats         map[string]float64
	reservations  []template.HTML
	notifications []template.HTML
	actions       []Action
	errors        []string
}

func (v *fakeDashboardView) ShowDashboard(stats map[string]float64, reservations, notifications []template.HTML, actions []Action) {
	v.stats = stats
	v.reservations = reservations
	v.notifications = notifications
	v.actions = actions
}

func (v *fakeDashboardView) ShowError(message string) {
	v.errors = append(v.errors, message)
}

func TestConfigForRole_CapabilitiesDiffer(t *testing.T) {
	farmer := ConfigForRole(session.UserTypeFarmer)
	buyer := ConfigForRole(session.UserTypeBuyer)
	admin := ConfigForRole(session.UserTypeAdmin)

	labels := func(cfg RoleConfig) []string {
		out := make([]string, len(cfg.Actions))
		for i, a := range cfg.Actions {
			out[i] = a.Label
		}
		return out
	}

	assert.Contains(t, labels(farmer), "My Listings")
	assert.NotContains(t, labels(buyer), "My Listings")
	assert.Contains(t, labels(buyer), "Marketplace")
	assert.Contains(t, labels(admin), "Manage Users")
	assert.NotContains(t, labels(farmer), "Manage Users")
}

func TestDashboardLoad_RoleDrivesEndpoint(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/farmer/dashboard-data/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"dashboard_data": map[string]any{
				"stats": map[string]float64{"active_listings": 4, "pending_reservations": 2},
				"recent_reservations": []map[string]any{
					{"id": 1, "product_name": "Tomatoes", "quantity": 5, "total_price": 10, "status": "pending"},
				},
				"recent_notifications": []map[string]any{
					{"id": 9, "type": "reservation_pending", "title": "New reservation", "message": "m"},
				},
			},
		})
	})

	view := &fakeDashboardView{}
	ctrl := NewDashboardController(newNotificationClient(t, mux), view, ConfigForRole(session.UserTypeFarmer))

	require.NoError(t, ctrl.Load(context.Background()))

	assert.Equal(t, "/api/farmer/dashboard-data/", gotPath)
	assert.Equal(t, float64(4), view.stats["active_listings"])
	require.Len(t, view.reservations, 1)
	assert.Contains(t, string(view.reservations[0]), "Tomatoes")
	require.Len(t, view.notifications, 1)
	require.NotEmpty(t, view.actions)
	assert.Equal(t, "My Listings", view.actions[0].Label)
}

func TestDashboardLoad_SurfacesErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/buyer/dashboard-data/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "database unavailable"})
	})

	view := &fakeDashboardView{}
	ctrl := NewDashboardController(newNotificationClient(t, mux), view, ConfigForRole(session.UserTypeBuyer))

	require.Error(t, ctrl.Load(context.Background()))
	require.Len(t, view.errors, 1)
	assert.Contains(t, view.errors[0], "database unavailable")
}
