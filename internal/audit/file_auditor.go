package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/core"
)

var _ core.Auditor = (*FileAuditor)(nil)

// FileAuditor appends decision entries to a file in JSON Lines format and
// keeps them in memory for retrieval. Existing entries are loaded on open;
// unreadable lines are skipped rather than failing startup.
type FileAuditor struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	entries []core.AuditEntry
}

func NewFileAuditor(filePath string) (*FileAuditor, error) {
	entries := loadEntries(filePath)

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return &FileAuditor{
		file:    file,
		encoder: json.NewEncoder(file),
		entries: entries,
	}, nil
}

func loadEntries(filePath string) []core.AuditEntry {
	file, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(file)

	var entries []core.AuditEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry core.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("skipping unreadable audit log line")
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (f *FileAuditor) Log(entry core.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(entry); err != nil {
		return fmt.Errorf("writing audit log entry: %w", err)
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *FileAuditor) GetRecent(limit int) ([]core.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return recent(f.entries, limit), nil
}

func (f *FileAuditor) Find(filter func(entry core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []core.AuditEntry
	for _, entry := range f.entries {
		if filter(entry) {
			matches = append(matches, entry)
		}
	}
	return recent(matches, limit), nil
}

func (f *FileAuditor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
