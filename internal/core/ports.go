package core

import "context"

// RevocationStore is the durable set of credentials that must never again
// be accepted. Implementations: file-backed store, in-memory store.
type RevocationStore interface {
	// IsRevoked reports whether the credential has been revoked.
	IsRevoked(credential string) bool

	// Revoke adds the credential to the set. It is idempotent and
	// persists the full set synchronously where the store is durable.
	Revoke(credential string)

	// Fingerprints returns the fingerprints of all revoked credentials.
	Fingerprints() []string
}

// IdentityVerifier confirms a credential against the upstream identity
// provider and resolves the canonical identity it belongs to.
type IdentityVerifier interface {
	// Resolve presents the raw credential upstream and returns the
	// canonical identity. An error means the upstream check could not be
	// completed (transport failure, non-success status, empty identity);
	// it is a service-side problem, never an authorization decision.
	Resolve(ctx context.Context, credential string) (string, error)
}
