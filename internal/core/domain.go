package core

import (
	"time"

	"github.com/CyrilRPG/diploma/internal/token"
)

// SessionEntry tracks the single most-recent accepted credential for one
// identity. At most one entry exists per identity, and LogicalTime never
// decreases across successful replacements.
type SessionEntry struct {
	// Credential is the currently live credential for the identity.
	Credential string `json:"-"`

	// Fingerprint identifies the credential without exposing it.
	Fingerprint string `json:"fingerprint"`

	// LogicalTime orders credentials for the identity (exp, else iat, else 0).
	LogicalTime int64 `json:"logical_time"`

	// AcceptedAt is when the entry was created or last replaced.
	AcceptedAt time.Time `json:"accepted_at"`
}

// ValidityRecord marks a credential as currently accepted. Its expiry is a
// fixed window from acceptance, independent of the credential's own exp.
type ValidityRecord struct {
	// Identity is the identity the credential was accepted for.
	Identity string

	// ExpiresAt is when the record lapses and the credential gets revoked.
	ExpiresAt time.Time
}

// Result is the outcome of a validate call, in the wire shape consumer
// pages expect. The diagnostic fields (decoded claims, resolved identity)
// are informational only and never affect the decision.
type Result struct {
	OK             bool         `json:"ok"`
	Reason         string       `json:"reason,omitempty"`
	TokenClient    string       `json:"tokenClient,omitempty"`
	ClientID       string       `json:"clientId,omitempty"`
	ExpectedUserID string       `json:"expectedUserId,omitempty"`
	DecodedPayload token.Claims `json:"decodedPayload,omitempty"`
}

// Stable rejection reasons reported in Result.Reason.
const (
	ReasonMalformed = "invalid or undecodable token"
	ReasonRevoked   = "token expired/revoked"
	ReasonExpired   = "token expired"
	ReasonMismatch  = "identity mismatch"
	ReasonObsolete  = "obsolete token"
)
