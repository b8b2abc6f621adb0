package api

// admin.go covers the admin-only endpoints. All of them require an
// Admin session; the server enforces this, the client just forwards
// whatever session it holds.

import (
	"context"
	"fmt"
	"time"
)

type ManagedUser struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	UserType   string    `json:"user_type"`
	IsApproved bool      `json:"is_approved"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type ManagedUserList struct {
	envelope
	Users []ManagedUser `json:"users"`
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type BroadcastRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Audience string `json:"audience"` // all, farmers, buyers
}

type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type RoleList struct {
	envelope
	Roles []Role `json:"roles"`
}

// ManageUsers lists every account for the admin user-management page.
func (c *Client) ManageUsers(ctx context.Context) (*ManagedUserList, error) {
	var result ManagedUserList
	if err := c.getJSON(ctx, "/api/admin/manage-users/", &result); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &result, nil
}

// ApproveFarmer approves a pending farmer registration.
func (c *Client) ApproveFarmer(ctx context.Context, farmerID int64) error {
	path := fmt.Sprintf("/api/admin/approve-farmer/%d/", farmerID)
	if err := c.postJSON(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to approve farmer %d: %w", farmerID, err)
	}
	return nil
}

// RejectFarmer rejects a pending farmer registration with a reason the
// server mails to the applicant.
func (c *Client) RejectFarmer(ctx context.Context, farmerID int64, reason string) error {
	path := fmt.Sprintf("/api/admin/reject-farmer/%d/", farmerID)
	body := map[string]string{"reason": reason}
	if err := c.postJSON(ctx, path, body, nil); err != nil {
		return fmt.Errorf("failed to reject farmer %d: %w", farmerID, err)
	}
	return nil
}

// CreateAdmin provisions another admin account.
func (c *Client) CreateAdmin(ctx context.Context, req *CreateAdminRequest) error {
	if err := c.postJSON(ctx, "/api/admin/create-admin/", req, nil); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// Broadcast sends a system announcement to the selected audience.
func (c *Client) Broadcast(ctx context.Context, req *BroadcastRequest) error {
	if err := c.postJSON(ctx, "/api/admin/broadcast/", req, nil); err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	return nil
}

// ListRoles fetches the role/permission matrix.
func (c *Client) ListRoles(ctx context.Context) (*RoleList, error) {
	var result RoleList
	if err := c.getJSON(ctx, "/api/admin/roles/", &result); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return &result, nil
}
