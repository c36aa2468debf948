package api

import (
	"context"
	"net/http"

	"compassai/internal/domain"
)

// Login opens a session. The backend omits the role in this response.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Me, error) {
	var me domain.Me
	if err := c.sendJSON(ctx, "login", http.MethodPost, "/auth/login", "/auth/login", creds, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Signup creates an account; the backend also opens a session.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.Me, error) {
	var me domain.Me
	if err := c.sendJSON(ctx, "signup", http.MethodPost, "/auth/signup", "/auth/signup", req, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Me returns the session user, or nil when nobody is signed in.
func (c *Client) Me(ctx context.Context) (*domain.Me, error) {
	var me *domain.Me
	if err := c.getJSON(ctx, "me", "/auth/me", "/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return me, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, "logout", http.MethodPost, "/auth/logout", "/auth/logout", nil, nil)
}

// UpdateProfile changes the caller's name and email. A nil result means the
// backend acknowledged without a body.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Me, error) {
	var me *domain.Me
	if err := c.sendJSON(ctx, "update profile", http.MethodPost, "/auth/me", "/auth/me", update, &me); err != nil {
		return nil, err
	}
	return me, nil
}

// ChangePassword replaces the caller's password.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return c.sendJSON(ctx, "change password", http.MethodPost, "/auth/change-password", "/auth/change-password", change, nil)
}
