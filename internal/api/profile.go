package api

import (
	"context"
	"fmt"
	"strings"

	"agriport/internal/session"
)

type Profile struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	// Farm fields are only present for farmers.
	FarmName     string `json:"farm_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`
}

type ProfileResponse struct {
	envelope
	Profile Profile `json:"profile"`
}

// DashboardData is the per-role landing page payload.
type DashboardData struct {
	Stats               map[string]float64 `json:"stats"`
	RecentReservations  []Reservation      `json:"recent_reservations"`
	RecentNotifications []Notification     `json:"recent_notifications"`
}

type dashboardResponse struct {
	envelope
	DashboardData DashboardData `json:"dashboard_data"`
}

func rolePath(role session.UserType, suffix string) string {
	return "/api/" + strings.ToLower(string(role)) + "/" + suffix
}

// GetDashboardData fetches the landing page data for the given role.
func (c *Client) GetDashboardData(ctx context.Context, role session.UserType) (*DashboardData, error) {
	var result dashboardResponse
	if err := c.getJSON(ctx, rolePath(role, "dashboard-data/"), &result); err != nil {
		return nil, fmt.Errorf("failed to get dashboard data: %w", err)
	}
	return &result.DashboardData, nil
}

// GetProfile fetches the caller's profile for the given role.
func (c *Client) GetProfile(ctx context.Context, role session.UserType) (*Profile, error) {
	var result ProfileResponse
	if err := c.getJSON(ctx, rolePath(role, "profile/"), &result); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &result.Profile, nil
}

// UpdateProfile replaces the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, role session.UserType, p *Profile) (*Profile, error) {
	var result ProfileResponse
	if err := c.putJSON(ctx, rolePath(role, "profile/"), p, &result); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &result.Profile, nil
}
