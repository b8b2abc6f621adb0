package api

// auth.go covers login, registration, password reset and email
// verification. Login endpoints are per role; everything else follows
// the buyer module's paths.

import (
	"context"
	"fmt"

	"agriport/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	envelope
	Token    string           `json:"token"`
	UserID   int64            `json:"user_id"`
	UserType session.UserType `json:"user_type"`
	Username string           `json:"username"`
	FullName string           `json:"full_name"`
	Email    string           `json:"email"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone,omitempty"`
	// Farmers additionally describe their farm; ignored for buyers.
	FarmName     string `json:"farm_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`
}

type RegisterResponse struct {
	envelope
	UserID int64 `json:"user_id"`
}

func loginPath(role session.UserType) (string, error) {
	switch role {
	case session.UserTypeBuyer:
		return "/api/buyer/login/", nil
	case session.UserTypeFarmer:
		return "/api/farmer/login/", nil
	case session.UserTypeAdmin:
		return "/api/admin/login/", nil
	default:
		return "", fmt.Errorf("unknown role: %s", role)
	}
}

// Login authenticates against the role's login endpoint. It does not
// touch the session store; use LoginAndSave for the full flow.
func (c *Client) Login(ctx context.Context, role session.UserType, req *LoginRequest) (*LoginResponse, error) {
	path, err := loginPath(role)
	if err != nil {
		return nil, err
	}

	var result LoginResponse
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &result, nil
}

// LoginAndSave authenticates, persists the resulting session and
// re-arms the gateway's one-shot 401 redirect. The stored user type is
// whatever the server reported, falling back to the requested role for
// older API versions that omit it.
func (c *Client) LoginAndSave(ctx context.Context, role session.UserType, req *LoginRequest) (*session.Session, error) {
	result, err := c.Login(ctx, role, req)
	if err != nil {
		return nil, err
	}

	userType := result.UserType
	if userType == "" {
		userType = role
	}
	s := session.Session{
		Token:       result.Token,
		UserID:      result.UserID,
		UserType:    userType,
		DisplayName: firstNonEmpty(result.FullName, result.Username),
		Email:       result.Email,
	}
	if err := c.gw.Sessions().Save(s); err != nil {
		return nil, fmt.Errorf("login succeeded but saving the session failed: %w", err)
	}
	c.gw.ResetRedirect()
	return &s, nil
}

// Logout clears the local session. The API keeps no server-side
// session state for clients, so nothing is sent over the wire.
func (c *Client) Logout() error {
	return c.gw.Sessions().Clear()
}

// Register creates a buyer or farmer account. Farmer registrations go
// through admin approval before the account can log in.
func (c *Client) Register(ctx context.Context, role session.UserType, req *RegisterRequest) (*RegisterResponse, error) {
	var path string
	switch role {
	case session.UserTypeBuyer:
		path = "/api/buyer/register/"
	case session.UserTypeFarmer:
		path = "/api/farmer/register/"
	default:
		return nil, fmt.Errorf("registration is not available for role: %s", role)
	}

	var result RegisterResponse
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &result, nil
}

// RequestPasswordReset asks the API to mail a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "/api/buyer/request-password-reset/", body, nil)
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	body := map[string]string{
		"token":            token,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	return c.postJSON(ctx, "/api/buyer/reset-password/", body, nil)
}

// VerifyEmail redeems an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.postJSON(ctx, "/api/buyer/verify-email/", body, nil)
}
