// Package store persists wgb's registered search paths, known tunnel
// configurations, and the error catalog as a single JSON aggregate in the
// user's home directory.
//
// The aggregate is the single source of truth for bookkeeping; the live
// tunnel state reported by the external WireGuard tooling is authoritative
// for actual connectivity and is reconciled into it by the orchestrator.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/lunatic-fringers/wgbridge/internal/fsutil"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// DefaultFileName is the state file name in the user's home directory.
const DefaultFileName = ".wgbconf.json"

// Entry is one known WireGuard configuration. Path is the primary key.
type Entry struct {
	Path          string `json:"path"`
	TokenRequired bool   `json:"token"`
	TokenURI      string `json:"uri"`
	Connected     bool   `json:"connected"`
}

// State is the on-disk aggregate: search paths, entries, error catalog.
type State struct {
	SearchPaths []string          `json:"conf_path"`
	Entries     []Entry           `json:"confs"`
	ErrorCodes  map[string]string `json:"error_codes"`
}

// Entry returns a pointer to the entry with the given path, or nil.
func (s *State) Entry(path string) *Entry {
	for i := range s.Entries {
		if s.Entries[i].Path == path {
			return &s.Entries[i]
		}
	}
	return nil
}

// RemoveEntry deletes the entry with the given path, preserving order.
// It reports whether an entry was removed.
func (s *State) RemoveEntry(path string) bool {
	for i := range s.Entries {
		if s.Entries[i].Path == path {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// HasSearchPath reports whether dir is a registered search path.
func (s *State) HasSearchPath(dir string) bool {
	for _, p := range s.SearchPaths {
		if p == dir {
			return true
		}
	}
	return false
}

// RemoveSearchPath deletes dir from the registered search paths, preserving
// insertion order. It reports whether the path was registered.
func (s *State) RemoveSearchPath(dir string) bool {
	for i, p := range s.SearchPaths {
		if p == dir {
			s.SearchPaths = append(s.SearchPaths[:i], s.SearchPaths[i+1:]...)
			return true
		}
	}
	return false
}

// DefaultState returns the aggregate used when no state file exists yet.
func DefaultState() *State {
	return &State{
		SearchPaths: []string{},
		Entries:     []Entry{},
		ErrorCodes:  wgberr.DefaultCatalog(),
	}
}

// Store reads and writes the persisted state file. Writers serialize on a
// sidecar advisory lock; readers load lock-free because writers always
// replace the file atomically.
type Store struct {
	path     string
	lockPath string
	logger   *slog.Logger

	mu      sync.Mutex
	catalog map[string]string // last loaded error catalog
}

// New creates a Store backed by the given state file path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
		logger:   logger.With("component", "store"),
	}
}

// DefaultPath returns the state file path in the invoking user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. A missing file yields the default state;
// an unparseable file fails with CorruptState without attempting repair.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			st := DefaultState()
			s.rememberCatalog(st.ErrorCodes)
			return st, nil
		}
		return nil, wgberr.Wrap(wgberr.CodeCorruptState, "read state file", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, wgberr.Wrap(wgberr.CodeCorruptState, "parse state file", err)
	}
	if st.SearchPaths == nil {
		st.SearchPaths = []string{}
	}
	if st.Entries == nil {
		st.Entries = []Entry{}
	}
	if st.ErrorCodes == nil {
		st.ErrorCodes = wgberr.DefaultCatalog()
	}
	s.rememberCatalog(st.ErrorCodes)
	return &st, nil
}

// Save writes the full aggregate atomically. This is the only mutation path;
// callers read, mutate in memory, then save the whole snapshot.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return wgberr.Wrap(wgberr.CodePersistFailed, "marshal state", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return wgberr.Wrap(wgberr.CodePersistFailed, "write state file", err)
	}
	s.rememberCatalog(st.ErrorCodes)
	return nil
}

// Update runs one read-modify-write cycle under the store's exclusive
// advisory lock. fn mutates the state in place and reports whether anything
// changed; the state is saved only when it did. The possibly-updated state
// is returned either way.
func (s *Store) Update(fn func(st *State) (changed bool, err error)) (*State, error) {
	lock, err := fsutil.Acquire(s.lockPath)
	if err != nil {
		return nil, wgberr.Wrap(wgberr.CodePersistFailed, "lock state file", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.logger.Warn("failed to release store lock", "error", err)
		}
	}()

	st, err := s.Load()
	if err != nil {
		return nil, err
	}

	changed, err := fn(st)
	if err != nil {
		return st, err
	}
	if !changed {
		return st, nil
	}

	if err := s.Save(st); err != nil {
		return st, err
	}
	return st, nil
}

// Catalog returns the error catalog from the most recently loaded state,
// falling back to the built-in defaults before any load has happened.
func (s *Store) Catalog() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return wgberr.DefaultCatalog()
	}
	return s.catalog
}

func (s *Store) rememberCatalog(catalog map[string]string) {
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
}
