package models

import "time"

const (
	StatusDisabled byte = 0
	StatusEnabled  byte = 1

	NotActivated byte = 0
	Activated    byte = 1
)

// User is the identity record. PasswordHash is the salted hash used for
// credential checks; RawPassword is the stored raw credential the
// verification-code login path re-authenticates with.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Telephone      string    `json:"telephone,omitempty"`
	Mail           string    `json:"mail,omitempty"`
	PasswordHash   string    `json:"-"`
	RawPassword    string    `json:"-"`
	ActivateStatus byte      `json:"activateStatus"`
	Status         byte      `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AuditEntry is one persisted row of the action audit trail.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
