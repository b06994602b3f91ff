package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bollette/internal/core"
)

// AttachmentStore answers read-only existence checks against the external
// image store. Implementations must not mutate anything.
type AttachmentStore interface {
	Exists(house string, periodEnd core.Date, vendor core.Vendor) bool
}

// AttachmentName is the canonical attachment naming convention:
// "<house>_<period-end ISO date>_<VENDOR>.png".
func AttachmentName(house string, periodEnd core.Date, vendor core.Vendor) string {
	return fmt.Sprintf("%s_%s_%s.png", house, periodEnd.ISO(), vendor)
}

// DirStore checks attachment existence against a filesystem directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Exists(house string, periodEnd core.Date, vendor core.Vendor) bool {
	info, err := os.Stat(filepath.Join(s.dir, AttachmentName(house, periodEnd, vendor)))
	return err == nil && !info.IsDir()
}

// MemoryStore is an in-memory AttachmentStore for tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[string]struct{})}
}

// Put registers an attachment under the canonical name.
func (s *MemoryStore) Put(house string, periodEnd core.Date, vendor core.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[AttachmentName(house, periodEnd, vendor)] = struct{}{}
}

func (s *MemoryStore) Exists(house string, periodEnd core.Date, vendor core.Vendor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[AttachmentName(house, periodEnd, vendor)]
	return ok
}
