package session

import (
	"sync"
	"time"

	"github.com/CyrilRPG/diploma/internal/core"
	"github.com/CyrilRPG/diploma/internal/token"
)

// Disposition is the outcome of presenting a credential against the
// identity's current session entry.
type Disposition int

const (
	// DispositionNew: no entry existed; the credential becomes the live one.
	DispositionNew Disposition = iota

	// DispositionSame: re-validation of the already-live credential.
	DispositionSame

	// DispositionSupersede: strictly newer logical time; the prior
	// credential must be revoked and the entry replaced.
	DispositionSupersede

	// DispositionObsolete: a different credential with logical time at or
	// below the live one. Rejected, but not revoked: it may be a retried
	// request with an older, not-yet-superseded credential.
	DispositionObsolete
)

func (d Disposition) String() string {
	switch d {
	case DispositionNew:
		return "new"
	case DispositionSame:
		return "same"
	case DispositionSupersede:
		return "supersede"
	case DispositionObsolete:
		return "obsolete"
	default:
		return "unknown"
	}
}

// Accepted reports whether the disposition leads to an ACCEPT outcome.
func (d Disposition) Accepted() bool {
	return d != DispositionObsolete
}

// Decide maps (entry exists?, same credential?, time comparison) to a
// disposition. The comparison is strictly greater-than: of two credentials
// with equal logical time, whichever arrives second is rejected as
// obsolete, never accepted and never revoked.
func Decide(current *core.SessionEntry, credential string, logicalTime int64) Disposition {
	switch {
	case current == nil:
		return DispositionNew
	case current.Credential == credential:
		return DispositionSame
	case logicalTime > current.LogicalTime:
		return DispositionSupersede
	default:
		return DispositionObsolete
	}
}

// Registry enforces a single live credential per identity.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]core.SessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]core.SessionEntry),
	}
}

// Current returns the session entry for an identity, if any.
func (r *Registry) Current(identity string) (core.SessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[identity]
	return entry, ok
}

// Apply presents a freshly identity-confirmed credential and applies the
// resulting transition. It returns the disposition and, for a supersede,
// the prior entry whose credential the caller must revoke. On an obsolete
// disposition the registry is left unchanged.
func (r *Registry) Apply(identity, credential string, logicalTime int64, now time.Time) (Disposition, core.SessionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prior core.SessionEntry
	var current *core.SessionEntry
	if entry, ok := r.entries[identity]; ok {
		current = &entry
	}

	disposition := Decide(current, credential, logicalTime)
	switch disposition {
	case DispositionNew, DispositionSupersede:
		if disposition == DispositionSupersede {
			prior = *current
		}
		r.entries[identity] = core.SessionEntry{
			Credential:  credential,
			Fingerprint: token.Fingerprint(credential),
			LogicalTime: logicalTime,
			AcceptedAt:  now,
		}
	}
	return disposition, prior
}

// Entries returns a snapshot of all session entries keyed by identity.
func (r *Registry) Entries() map[string]core.SessionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]core.SessionEntry, len(r.entries))
	for identity, entry := range r.entries {
		snapshot[identity] = entry
	}
	return snapshot
}
