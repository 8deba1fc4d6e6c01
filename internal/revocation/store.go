package revocation

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/token"
)

// Store is an append-only set of revoked credentials, keyed by sha256
// fingerprint so the backing file never holds raw bearer strings.
//
// Every mutation rewrites the whole file synchronously. Write failures are
// logged and swallowed: the in-memory set stays authoritative for the life
// of the process, at the accepted risk of losing the entry on a crash.
type Store struct {
	mu   sync.RWMutex
	path string
	set  map[string]struct{}
}

// Open creates a Store persisted at path and loads any existing state.
// An absent or corrupt file initializes an empty set; load is never fatal.
// An empty path keeps the store memory-only.
func Open(path string) *Store {
	s := &Store{
		path: path,
		set:  make(map[string]struct{}),
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.path == "" {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("could not read revocation file, starting empty")
		}
		return
	}

	var fingerprints []string
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("corrupt revocation file, starting empty")
		return
	}

	for _, fp := range fingerprints {
		s.set[fp] = struct{}{}
	}
	log.Info().Int("count", len(s.set)).Str("path", s.path).Msg("loaded revocation set")
}

// IsRevoked reports whether the credential has been revoked.
func (s *Store) IsRevoked(credential string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.set[token.Fingerprint(credential)]
	return ok
}

// Revoke adds the credential to the set and persists the full set. Adding
// an already-revoked credential is a no-op.
func (s *Store) Revoke(credential string) {
	fp := token.Fingerprint(credential)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[fp]; ok {
		return
	}
	s.set[fp] = struct{}{}
	s.persistLocked()
}

// Fingerprints returns the fingerprints of all revoked credentials, sorted.
func (s *Store) Fingerprints() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fingerprints := make([]string, 0, len(s.set))
	for fp := range s.set {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)
	return fingerprints
}

// Len returns the number of revoked credentials.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.set)
}

func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}

	fingerprints := make([]string, 0, len(s.set))
	for fp := range s.set {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	data, err := json.Marshal(fingerprints)
	if err != nil {
		log.Error().Err(err).Msg("could not encode revocation set")
		return
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		// revocation stays effective in memory; durability is best-effort
		log.Error().Err(err).Str("path", s.path).Msg("could not persist revocation set")
	}
}
