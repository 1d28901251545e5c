package domain

import "time"

// Session is a server-side proof of login for one browser context.
// It is never mutated once stored.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Context projects the session onto the identity carried by a request.
func (s *Session) Context() *SessionContext {
	return &SessionContext{
		SessionID: s.ID,
		UserID:    s.UserID,
		Username:  s.Username,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
}

// SessionContext is the identity attached to an authenticated request.
// Role is the snapshot taken at login.
type SessionContext struct {
	SessionID string
	UserID    string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the snapshot role is admin.
func (c *SessionContext) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
