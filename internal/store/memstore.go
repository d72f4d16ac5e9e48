package store

import (
	"context"
	"fmt"

	"sessionctl/internal/importer"
)

// MemStore keeps sessions in memory. It backs --dry-run imports and
// tests. ForcedProtocol, when set, overrides the persisted protocol to
// exercise the post-save verification path.
type MemStore struct {
	Sessions       map[string]*importer.Record
	Protocol       string // DefaultProtocol answer, "" means SSH2
	ForcedProtocol string
	SaveErr        error // returned by every Save when set
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{Sessions: make(map[string]*importer.Record)}
}

func (m *MemStore) Exists(path string) bool {
	_, ok := m.Sessions[path]
	return ok
}

func (m *MemStore) DefaultProtocol() string {
	if m.Protocol == "" {
		return "SSH2"
	}
	return m.Protocol
}

func (m *MemStore) Save(ctx context.Context, path string, rec *importer.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	saved := *rec
	if m.ForcedProtocol != "" && m.ForcedProtocol != rec.Protocol {
		saved.Protocol = m.ForcedProtocol
		m.Sessions[path] = &saved
		return fmt.Errorf("session %q saved with protocol %q, wanted %q: %w",
			path, saved.Protocol, rec.Protocol, importer.ErrProtocolMismatch)
	}
	m.Sessions[path] = &saved
	return nil
}
