package core

import "time"

// AuditEntry records one authorization decision.
type AuditEntry struct {
	// ID is the correlation ID of the request that triggered the decision.
	ID string `json:"id,omitempty"`

	// Time is when the decision was made.
	Time time.Time `json:"time"`

	// Action names the operation, e.g. "token.validate" or "token.revoke".
	Action string `json:"action,omitempty"`

	// Identity is the claims identity involved, if one could be decoded.
	Identity string `json:"identity,omitempty"`

	// Fingerprint identifies the credential involved.
	Fingerprint string `json:"fingerprint,omitempty"`

	// OK reports whether the credential was accepted.
	OK bool `json:"ok"`

	// Reason is the rejection reason when OK is false.
	Reason string `json:"reason,omitempty"`

	// Error holds upstream/internal error details, if any.
	Error string `json:"error,omitempty"`
}

// Auditor records and retrieves authorization decisions.
type Auditor interface {
	// Log records a new entry.
	Log(entry AuditEntry) error

	// GetRecent returns the most recent entries, newest first.
	GetRecent(limit int) ([]AuditEntry, error)

	// Find returns up to limit entries matching the filter, newest first.
	Find(filter func(AuditEntry) bool, limit int) ([]AuditEntry, error)

	// Close releases any resources held by the auditor.
	Close() error
}
