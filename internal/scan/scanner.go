// Package scan resolves the set of known configuration entries by listing
// the registered search paths and reconciling the result against the
// persisted state: new files become entries, vanished files are pruned
// unless their entry is currently connected.
package scan

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// Scanner discovers configuration files and keeps the store in sync.
type Scanner struct {
	store  *store.Store
	ext    string
	logger *slog.Logger
}

// New creates a Scanner matching files with the given extension.
func New(st *store.Store, ext string, logger *slog.Logger) *Scanner {
	return &Scanner{
		store:  st,
		ext:    ext,
		logger: logger.With("component", "scan"),
	}
}

// Result is the outcome of one scan.
type Result struct {
	// State is the post-scan state snapshot.
	State *store.State

	// Added and Pruned list entry paths created and removed by this scan.
	Added  []string
	Pruned []string
}

// Scan resolves entries from all registered search paths plus an optional
// explicit file path given on the command line. The explicit path is always
// included even when it lives outside every registered path. The store is
// persisted only when entries were added or pruned.
func (s *Scanner) Scan(explicit string) (*Result, error) {
	var explicitAbs string
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return nil, wgberr.Wrap(wgberr.CodeInvalidPath, explicit, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, wgberr.New(wgberr.CodeConfigNotFound, abs)
			}
			return nil, wgberr.Wrap(wgberr.CodeInvalidPath, abs, err)
		}
		if fi.IsDir() {
			return nil, wgberr.Newf(wgberr.CodeInvalidPath, "%s is a directory, expected a configuration file", abs)
		}
		explicitAbs = abs
	}

	res := &Result{}
	st, err := s.store.Update(func(st *store.State) (bool, error) {
		discovered := s.discover(st.SearchPaths)
		if explicitAbs != "" {
			discovered[explicitAbs] = true
		}

		changed := false
		for path := range discovered {
			if st.Entry(path) == nil {
				st.Entries = append(st.Entries, store.Entry{Path: path})
				res.Added = append(res.Added, path)
				changed = true
			}
		}

		// Prune entries whose file vanished from every registered path.
		// Connected entries are retained regardless: a live connection's
		// bookkeeping is never dropped by a scan.
		var kept []store.Entry
		for _, e := range st.Entries {
			if !discovered[e.Path] && !e.Connected {
				res.Pruned = append(res.Pruned, e.Path)
				changed = true
				continue
			}
			kept = append(kept, e)
		}
		if kept == nil {
			kept = []store.Entry{}
		}
		st.Entries = kept

		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Added) > 0 || len(res.Pruned) > 0 {
		s.logger.Debug("scan reconciled entries",
			"added", len(res.Added),
			"pruned", len(res.Pruned),
		)
	}

	res.State = st
	return res, nil
}

// discover lists matching files in each search path. Unreadable or removed
// directories simply yield nothing; tolerating them is part of the search
// path contract.
func (s *Scanner) discover(searchPaths []string) map[string]bool {
	found := make(map[string]bool)
	for _, dir := range searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("skipping unreadable search path", "path", dir, "error", err)
			continue
		}
		for _, de := range entries {
			if de.IsDir() {
				continue
			}
			if !strings.HasSuffix(de.Name(), s.ext) {
				continue
			}
			found[filepath.Join(dir, de.Name())] = true
		}
	}
	return found
}
