package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CyrilRPG/diploma/internal/config"
	"github.com/CyrilRPG/diploma/internal/core"
)

func TestInMemoryAuditor_RecentIsNewestFirst(t *testing.T) {
	a := NewInMemoryAuditor()
	for _, id := range []string{"first", "second", "third"} {
		if err := a.Log(core.AuditEntry{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := a.GetRecent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != "third" || entries[1].ID != "second" {
		t.Errorf("entries = %+v", entries)
	}

	// limit 0 means everything
	all, _ := a.GetRecent(0)
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestInMemoryAuditor_Find(t *testing.T) {
	a := NewInMemoryAuditor()
	_ = a.Log(core.AuditEntry{ID: "1", Identity: "user-1"})
	_ = a.Log(core.AuditEntry{ID: "2", Identity: "user-2"})
	_ = a.Log(core.AuditEntry{ID: "3", Identity: "user-1"})

	entries, err := a.Find(func(e core.AuditEntry) bool {
		return e.Identity == "user-1"
	}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != "3" || entries[1].ID != "1" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFileAuditor_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	a, err := NewFileAuditor(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = a.Log(core.AuditEntry{ID: "1", Action: "token.validate", OK: true})
	_ = a.Log(core.AuditEntry{ID: "2", Action: "token.revoke", OK: true})
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileAuditor(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	entries, err := reopened.GetRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != "2" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFileAuditor_SkipsUnreadableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	content := `{"id":"good"}
this line is not json
{"id":"also-good"}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	a, err := NewFileAuditor(path)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	entries, _ := a.GetRecent(10)
	if len(entries) != 2 {
		t.Errorf("expected the 2 readable entries, got %d", len(entries))
	}
}

func TestFromConfig(t *testing.T) {
	// disabled wins over any configured type
	a, err := FromConfig(config.AuditConfig{Enabled: false, Type: "file"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*NoopAuditor); !ok {
		t.Errorf("disabled audit should be a noop, got %T", a)
	}

	a, err = FromConfig(config.AuditConfig{Enabled: true, Type: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*InMemoryAuditor); !ok {
		t.Errorf("got %T, want *InMemoryAuditor", a)
	}

	path := filepath.Join(t.TempDir(), "audit.jsonl")
	a, err = FromConfig(config.AuditConfig{Enabled: true, Type: "file", Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, ok := a.(*FileAuditor); !ok {
		t.Errorf("got %T, want *FileAuditor", a)
	}

	if _, err := FromConfig(config.AuditConfig{Enabled: true, Type: "syslog"}); err == nil {
		t.Error("unknown auditor type must be an error")
	}
}
