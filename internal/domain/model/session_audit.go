package model

import "time"

// SessionAuditEntry is a best-effort audit record of session activity.
// SessionKey is a SHA-256 digest of the session id; the raw id is never
// written to durable storage or logs.
type SessionAuditEntry struct {
	ID         int64     `json:"id"          db:"id"`
	SessionKey string    `json:"session_key" db:"session_key"`
	UserID     string    `json:"user_id"     db:"user_id"`
	IPAddress  string    `json:"ip_address"  db:"ip_address"`
	UserAgent  string    `json:"user_agent"  db:"user_agent"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}
