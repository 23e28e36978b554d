package dto

import "time"

// IssueTokenResponse contains the issued token. The plain token is only
// returned once and must be transmitted securely.
type IssueTokenResponse struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
