package domain

import (
	"errors"
	"time"
)

const (
	SessionCookieName = "auth_session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

type (
	// SessionInfo is what a validated request carries in fiber locals.
	SessionInfo struct {
		SessionID string    `json:"session_id"`
		UserID    string    `json:"user_id"`
		Username  string    `json:"username"`
		ExpiresAt time.Time `json:"expires_at"`
		// Fresh is set when the session was just created or extended and the
		// cookie has to be written again.
		Fresh bool `json:"-"`
	}
)
