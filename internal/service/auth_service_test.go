package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CyrilRPG/diploma/internal/audit"
	"github.com/CyrilRPG/diploma/internal/core"
	"github.com/CyrilRPG/diploma/internal/revocation"
	"github.com/CyrilRPG/diploma/internal/token"
)

// stubVerifier resolves every credential to its own claims identity and
// counts calls, so tests can assert which stages were reached.
type stubVerifier struct {
	calls    atomic.Int64
	identity string // overrides the claims identity when set
	err      error
}

func (v *stubVerifier) Resolve(_ context.Context, credential string) (string, error) {
	v.calls.Add(1)
	if v.err != nil {
		return "", v.err
	}
	if v.identity != "" {
		return v.identity, nil
	}
	return token.Decode(credential).Identity(), nil
}

// mintToken builds an unsigned credential for an identity with the given
// exp claim (seconds since epoch). exp <= 0 omits the claim.
func mintToken(t *testing.T, identity string, exp int64) string {
	t.Helper()
	claims := map[string]any{"id": identity}
	if exp > 0 {
		claims["exp"] = exp
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	return "header." + base64.RawURLEncoding.EncodeToString(raw)
}

func newTestService(verifier core.IdentityVerifier) (*AuthService, *revocation.Store) {
	store := revocation.Open("")
	svc := NewAuthService(store, verifier, audit.NewNoopAuditor(), time.Hour)
	return svc, store
}

func TestValidate_AcceptsFreshToken(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)

	future := time.Now().Add(time.Hour).Unix()
	tok := mintToken(t, "user-1", future)

	result, err := svc.Validate(context.Background(), tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.OK {
		t.Fatalf("expected acceptance, got reason %q", result.Reason)
	}
	if result.ClientID != "user-1" {
		t.Errorf("ClientID = %q, want %q", result.ClientID, "user-1")
	}
	if result.ExpectedUserID != "user-1" {
		t.Errorf("ExpectedUserID = %q, want %q", result.ExpectedUserID, "user-1")
	}
	if result.TokenClient != tok {
		t.Errorf("TokenClient should echo the credential")
	}
	if result.DecodedPayload == nil {
		t.Error("DecodedPayload should carry the claims")
	}
	if svc.CachedRecords() != 1 {
		t.Errorf("cache should hold 1 record, got %d", svc.CachedRecords())
	}
}

func TestValidate_RejectsMalformed(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)

	tests := []struct {
		name       string
		credential string
	}{
		{"Empty", ""},
		{"No Payload Segment", "garbage"},
		{"Undecodable Payload", "header.!!!"},
		{"No Identity Claim", "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"exp":99}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Validate(context.Background(), tt.credential)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if result.OK {
				t.Fatal("malformed credential must be rejected")
			}
			if result.Reason != core.ReasonMalformed {
				t.Errorf("reason = %q, want %q", result.Reason, core.ReasonMalformed)
			}
		})
	}

	if got := verifier.calls.Load(); got != 0 {
		t.Errorf("malformed tokens must not reach upstream, got %d calls", got)
	}
}

func TestValidate_RejectsExpiredWithoutUpstreamCall(t *testing.T) {
	verifier := &stubVerifier{}
	svc, store := newTestService(verifier)

	past := time.Now().Add(-time.Hour).Unix()
	tok := mintToken(t, "user-1", past)

	result, err := svc.Validate(context.Background(), tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.OK {
		t.Fatal("expired token must be rejected")
	}
	if result.Reason != core.ReasonExpired {
		t.Errorf("reason = %q, want %q", result.Reason, core.ReasonExpired)
	}
	if verifier.calls.Load() != 0 {
		t.Error("expired tokens must not reach upstream")
	}
	if !store.IsRevoked(tok) {
		t.Error("expired token must be revoked on sight")
	}

	// second attempt hits the revocation list first
	result, _ = svc.Validate(context.Background(), tok)
	if result.Reason != core.ReasonRevoked {
		t.Errorf("replayed reason = %q, want %q", result.Reason, core.ReasonRevoked)
	}
}

func TestValidate_RejectsIdentityMismatch(t *testing.T) {
	verifier := &stubVerifier{identity: "someone-else"}
	svc, store := newTestService(verifier)

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	result, err := svc.Validate(context.Background(), tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.OK {
		t.Fatal("mismatched identity must be rejected")
	}
	if result.Reason != core.ReasonMismatch {
		t.Errorf("reason = %q, want %q", result.Reason, core.ReasonMismatch)
	}
	if result.ExpectedUserID != "someone-else" {
		t.Errorf("ExpectedUserID = %q, want %q", result.ExpectedUserID, "someone-else")
	}

	// a mismatch leaves no trace: no session, no cache entry, no revocation
	if len(svc.Sessions()) != 0 {
		t.Error("mismatch must not create a session entry")
	}
	if svc.CachedRecords() != 0 {
		t.Error("mismatch must not create a validity record")
	}
	if store.IsRevoked(tok) {
		t.Error("mismatch must not revoke the token")
	}
}

func TestValidate_UpstreamFailureIsAnError(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("graphql unreachable")}
	svc, _ := newTestService(verifier)

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	result, err := svc.Validate(context.Background(), tok)
	if err == nil {
		t.Fatal("upstream failure must surface as an error, not a rejection")
	}
	if result != nil {
		t.Errorf("result should be nil on error, got %+v", result)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error should be an *HTTPError, got %T", err)
	}
	if httpErr.StatusCode != 500 {
		t.Errorf("status = %d, want 500", httpErr.StatusCode)
	}
}

func TestValidate_NewerTokenSupersedesOlder(t *testing.T) {
	verifier := &stubVerifier{}
	svc, store := newTestService(verifier)
	ctx := context.Background()

	older := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())
	newer := mintToken(t, "user-1", time.Now().Add(2*time.Hour).Unix())

	if result, _ := svc.Validate(ctx, older); !result.OK {
		t.Fatalf("older token rejected up front: %s", result.Reason)
	}
	if result, _ := svc.Validate(ctx, newer); !result.OK {
		t.Fatalf("newer token rejected: %s", result.Reason)
	}

	if !store.IsRevoked(older) {
		t.Error("superseded token must be revoked")
	}
	if store.IsRevoked(newer) {
		t.Error("live token must not be revoked")
	}

	// superseded token now fails on the revocation check
	result, _ := svc.Validate(ctx, older)
	if result.OK || result.Reason != core.ReasonRevoked {
		t.Errorf("superseded replay: ok=%v reason=%q", result.OK, result.Reason)
	}
}

func TestValidate_OlderTokenIsObsoleteNotRevoked(t *testing.T) {
	verifier := &stubVerifier{}
	svc, store := newTestService(verifier)
	ctx := context.Background()

	older := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())
	newer := mintToken(t, "user-1", time.Now().Add(2*time.Hour).Unix())

	if result, _ := svc.Validate(ctx, newer); !result.OK {
		t.Fatalf("newer token rejected: %s", result.Reason)
	}

	result, err := svc.Validate(ctx, older)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.OK {
		t.Fatal("older token must be rejected once a newer one is live")
	}
	if result.Reason != core.ReasonObsolete {
		t.Errorf("reason = %q, want %q", result.Reason, core.ReasonObsolete)
	}
	if store.IsRevoked(older) {
		t.Error("an obsolete token is rejected but not revoked")
	}

	// the newer token keeps validating
	if result, _ := svc.Validate(ctx, newer); !result.OK {
		t.Errorf("live token rejected after obsolete replay: %s", result.Reason)
	}
}

func TestValidate_ReValidationOfLiveToken(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	for i := 0; i < 3; i++ {
		result, err := svc.Validate(ctx, tok)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if !result.OK {
			t.Fatalf("re-validation %d rejected: %s", i, result.Reason)
		}
	}
	if svc.CachedRecords() != 1 {
		t.Errorf("re-validation must not duplicate records, got %d", svc.CachedRecords())
	}
}

func TestValidate_CacheExpiryRevokesOnNextSight(t *testing.T) {
	verifier := &stubVerifier{}
	store := revocation.Open("")
	// negative window makes every accepted record expire immediately
	svc := NewAuthService(store, verifier, audit.NewNoopAuditor(), -time.Minute)
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	if result, _ := svc.Validate(ctx, tok); !result.OK {
		t.Fatal("first validation should accept")
	}

	// the record is expired now; the next sight moves it into revocation
	result, err := svc.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.OK {
		t.Fatal("token with an expired validity record must be rejected")
	}
	if result.Reason != core.ReasonExpired {
		t.Errorf("reason = %q, want %q", result.Reason, core.ReasonExpired)
	}
	if !store.IsRevoked(tok) {
		t.Error("cache expiry must revoke the token")
	}
}

func TestSweepValidity_RevokesExpiredRecords(t *testing.T) {
	verifier := &stubVerifier{}
	store := revocation.Open("")
	svc := NewAuthService(store, verifier, audit.NewNoopAuditor(), -time.Minute)
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())
	if result, _ := svc.Validate(ctx, tok); !result.OK {
		t.Fatal("first validation should accept")
	}

	if err := svc.SweepValidity(ctx, testLogger{t}); err != nil {
		t.Fatalf("SweepValidity() error = %v", err)
	}
	if !store.IsRevoked(tok) {
		t.Error("sweep must revoke expired records")
	}
	if svc.CachedRecords() != 0 {
		t.Errorf("sweep must clear expired records, got %d", svc.CachedRecords())
	}
}

func TestRevoke_InvalidatesImmediately(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())
	if result, _ := svc.Validate(ctx, tok); !result.OK {
		t.Fatal("validation should accept")
	}

	svc.Revoke(ctx, tok)

	result, _ := svc.Validate(ctx, tok)
	if result.OK || result.Reason != core.ReasonRevoked {
		t.Errorf("after revoke: ok=%v reason=%q", result.OK, result.Reason)
	}
}

func TestRevocationSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/revoked.json"
	verifier := &stubVerifier{}
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	svc := NewAuthService(revocation.Open(path), verifier, audit.NewNoopAuditor(), time.Hour)
	if result, _ := svc.Validate(ctx, tok); !result.OK {
		t.Fatal("validation should accept")
	}
	svc.Revoke(ctx, tok)

	// a new service over the same file still rejects the token,
	// even though sessions and cache started empty
	restarted := NewAuthService(revocation.Open(path), verifier, audit.NewNoopAuditor(), time.Hour)
	result, _ := restarted.Validate(ctx, tok)
	if result.OK || result.Reason != core.ReasonRevoked {
		t.Errorf("after restart: ok=%v reason=%q", result.OK, result.Reason)
	}
}

func TestLinks(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())

	link, err := svc.GenerateLink(tok)
	if err != nil {
		t.Fatalf("GenerateLink() error = %v", err)
	}
	if link == "" {
		t.Fatal("link must not be empty")
	}

	resolved, ok := svc.ResolveLink(link)
	if !ok || resolved != tok {
		t.Errorf("ResolveLink() = %q, %v", resolved, ok)
	}

	if _, ok := svc.ResolveLink("no-such-link"); ok {
		t.Error("unknown link must not resolve")
	}
}

func TestGenerateLink_RejectsMalformed(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)

	_, err := svc.GenerateLink("garbage")
	if err == nil {
		t.Fatal("undecodable credential must not get a link")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 400 {
		t.Errorf("want a 400 HTTPError, got %v", err)
	}
}

func TestValidate_WritesAuditEntries(t *testing.T) {
	verifier := &stubVerifier{}
	auditor := audit.NewInMemoryAuditor()
	svc := NewAuthService(revocation.Open(""), verifier, auditor, time.Hour)
	ctx := context.Background()

	tok := mintToken(t, "user-1", time.Now().Add(time.Hour).Unix())
	if result, _ := svc.Validate(ctx, tok); !result.OK {
		t.Fatal("validation should accept")
	}
	svc.Validate(ctx, "garbage")

	entries, err := auditor.GetRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	// newest first
	if entries[0].OK || entries[0].Reason != core.ReasonMalformed {
		t.Errorf("newest entry: ok=%v reason=%q", entries[0].OK, entries[0].Reason)
	}
	if !entries[1].OK || entries[1].Identity != "user-1" {
		t.Errorf("oldest entry: ok=%v identity=%q", entries[1].OK, entries[1].Identity)
	}
}

func TestValidate_IdentityLocksAreReleased(t *testing.T) {
	verifier := &stubVerifier{}
	svc, _ := newTestService(verifier)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		tok := mintToken(t, fmt.Sprintf("user-%d", i), time.Now().Add(time.Hour).Unix())
		if result, _ := svc.Validate(ctx, tok); !result.OK {
			t.Fatalf("validation rejected: %s", result.Reason)
		}
	}

	if got := svc.locks.size(); got != 0 {
		t.Errorf("lock table should be empty after validations, holds %d entries", got)
	}
}

func TestLockTable(t *testing.T) {
	var table lockTable

	// mutual exclusion per key
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := table.lock("same-key")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if table.size() != 0 {
		t.Errorf("table should be empty once all holders released, holds %d", table.size())
	}

	// independent keys do not block each other
	unlockA := table.lock("a")
	unlockB := table.lock("b")
	if table.size() != 2 {
		t.Errorf("size = %d, want 2", table.size())
	}
	unlockA()
	unlockB()
	if table.size() != 0 {
		t.Errorf("size = %d, want 0", table.size())
	}
}

// testLogger satisfies logging.InternalLogger for sweep tests.
type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, args ...any)  { l.t.Logf("INF "+format, args...) }
func (l testLogger) Warn(format string, args ...any)  { l.t.Logf("WRN "+format, args...) }
func (l testLogger) Error(format string, args ...any) { l.t.Logf("ERR "+format, args...) }
