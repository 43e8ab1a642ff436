package domain

import "time"

// Session represents an authenticated user session
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Summary returns the session without its token
func (s *Session) Summary(currentSessionID string) *SessionSummary {
	return &SessionSummary{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		Current:   s.ID == currentSessionID,
	}
}

// SessionSummary describes an active session to its owner
type SessionSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	Current   bool      `json:"current"`
}

// AuthContext contains authenticated user info for request context
type AuthContext struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

// LoginRequest represents a login attempt.
// UserAgent and IPAddress describe the client and are filled in by the transport.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// RegisterRequest creates a new account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginResponse is returned after successful authentication
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *UserSummary `json:"user"`
}

// TokenClaims represents the JWT token payload
type TokenClaims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
