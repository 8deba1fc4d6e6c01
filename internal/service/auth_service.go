package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/core"
	"github.com/CyrilRPG/diploma/internal/logging"
	"github.com/CyrilRPG/diploma/internal/session"
	"github.com/CyrilRPG/diploma/internal/token"
	"github.com/CyrilRPG/diploma/internal/validity"
)

// AuthService decides, for an incoming credential, whether it is
// well-formed, unexpired, not revoked, not superseded by a newer
// credential for the same identity, and confirmed upstream.
//
// It exclusively owns the session registry, the validity cache and the
// link table; no other component reads or writes them.
type AuthService struct {
	revocations core.RevocationStore
	verifier    core.IdentityVerifier
	auditor     core.Auditor

	sessions *session.Registry
	cache    *validity.Cache

	linkMu sync.RWMutex
	links  map[string]string

	locks lockTable
}

func NewAuthService(
	revocations core.RevocationStore,
	verifier core.IdentityVerifier,
	auditor core.Auditor,
	window time.Duration,
) *AuthService {
	return &AuthService{
		revocations: revocations,
		verifier:    verifier,
		auditor:     auditor,
		sessions:    session.NewRegistry(),
		cache:       validity.NewCache(window),
		links:       make(map[string]string),
	}
}

// Validate runs the authorization decision procedure for a credential.
//
// A nil error with Result.OK=false is an authorization rejection, not a
// failure. A non-nil error means the decision could not be made (upstream
// verification failed); callers must surface it as a server-side error,
// never as a rejection.
func (s *AuthService) Validate(ctx context.Context, credential string) (*core.Result, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := core.AuditEntry{
		ID:     reqID,
		Time:   time.Now(),
		Action: "token.validate",
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token validation")
		}
	}()

	result := &core.Result{TokenClient: credential}
	reject := func(reason string) (*core.Result, error) {
		result.Reason = reason
		auditEntry.Reason = reason
		logger.Info().Str("reason", reason).Msg("token rejected")
		return result, nil
	}

	claims := token.Decode(credential)
	identity := claims.Identity()
	result.DecodedPayload = claims
	if credential == "" || claims == nil || identity == "" {
		return reject(core.ReasonMalformed)
	}
	result.ClientID = identity
	auditEntry.Identity = identity
	auditEntry.Fingerprint = token.Fingerprint(credential)

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("identity", identity)
	})

	// Serialize everything after decoding per identity. Two concurrent
	// calls for the same identity with different credentials would
	// otherwise both pass the upstream check before either writes the
	// session entry.
	unlock := s.locks.lock(identity)
	defer unlock()

	if s.revocations.IsRevoked(credential) {
		return reject(core.ReasonRevoked)
	}

	if exp, ok := claims.ExpiresAt(); ok && time.Now().After(time.Unix(exp, 0)) {
		s.revocations.Revoke(credential)
		return reject(core.ReasonExpired)
	}

	if rec, ok := s.cache.Lookup(credential); ok && time.Now().After(rec.ExpiresAt) {
		s.cache.Delete(credential)
		s.revocations.Revoke(credential)
		return reject(core.ReasonExpired)
	}

	resolved, err := s.verifier.Resolve(ctx, credential)
	if err != nil {
		auditEntry.Error = err.Error()
		logger.Warn().Err(err).Msg("upstream identity verification failed")
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("upstream verification failed: %w", err))
	}
	result.ExpectedUserID = resolved

	if resolved != identity {
		return reject(core.ReasonMismatch)
	}

	now := time.Now()
	disposition, prior := s.sessions.Apply(identity, credential, claims.LogicalTime(), now)
	if !disposition.Accepted() {
		return reject(core.ReasonObsolete)
	}
	if disposition == session.DispositionSupersede {
		s.revocations.Revoke(prior.Credential)
		s.cache.Delete(prior.Credential)
	}
	s.cache.Accept(credential, identity, now)

	result.OK = true
	auditEntry.OK = true
	logger.Info().Str("disposition", disposition.String()).Msg("token accepted")
	return result, nil
}

// Revoke permanently invalidates a credential, independent of the
// validate flow. Used by the admin API and the CLI.
func (s *AuthService) Revoke(ctx context.Context, credential string) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	s.revocations.Revoke(credential)
	s.cache.Delete(credential)

	if err := s.auditor.Log(core.AuditEntry{
		ID:          reqID,
		Time:        time.Now(),
		Action:      "token.revoke",
		Fingerprint: token.Fingerprint(credential),
		OK:          true,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to write audit log entry for token revocation")
	}
}

// SweepValidity moves expired validity records into the revocation set.
// It runs on the task schedule and is the only background activity.
// Records are removed before their revocation lands, so a validate call
// racing on the expiry boundary either misses the record and re-verifies
// upstream, or loses to the revocation on its next call.
func (s *AuthService) SweepValidity(_ context.Context, logger logging.InternalLogger) error {
	expired := s.cache.Sweep(time.Now())
	for _, credential := range expired {
		s.revocations.Revoke(credential)
	}
	logger.Info("swept %d expired validity record(s) into the revocation set", len(expired))
	return nil
}

// GenerateLink mints an opaque link ID for a decodable credential. The
// link can later be presented to Validate via ResolveLink, keeping the
// credential itself out of shared URLs. Links live in memory only.
func (s *AuthService) GenerateLink(credential string) (string, error) {
	claims := token.Decode(credential)
	if claims == nil || claims.Identity() == "" {
		return "", httpError(http.StatusBadRequest,
			fmt.Errorf("cannot generate link: %s", core.ReasonMalformed))
	}

	id := xid.New().String()
	s.linkMu.Lock()
	s.links[id] = credential
	s.linkMu.Unlock()
	return id, nil
}

// ResolveLink returns the credential behind a link ID, if any.
func (s *AuthService) ResolveLink(id string) (string, bool) {
	s.linkMu.RLock()
	defer s.linkMu.RUnlock()

	credential, ok := s.links[id]
	return credential, ok
}

// Sessions returns a snapshot of the current session entries.
func (s *AuthService) Sessions() map[string]core.SessionEntry {
	return s.sessions.Entries()
}

// RevokedFingerprints returns the fingerprints of all revoked credentials.
func (s *AuthService) RevokedFingerprints() []string {
	return s.revocations.Fingerprints()
}

// RecentAudits returns the most recent audit entries.
func (s *AuthService) RecentAudits(limit int) ([]core.AuditEntry, error) {
	return s.auditor.GetRecent(limit)
}

// Audits returns audit entries matching the filter.
func (s *AuthService) Audits(filter func(core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	return s.auditor.Find(filter, limit)
}

// CachedRecords returns the number of live validity records.
func (s *AuthService) CachedRecords() int {
	return s.cache.Len()
}

