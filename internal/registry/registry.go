// Package registry manages the set of directories scanned for WireGuard
// configuration files.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// Registry adds, removes and lists search paths in the persisted state.
type Registry struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Registry over the given store.
func New(st *store.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  st,
		logger: logger.With("component", "registry"),
	}
}

// Add registers dir as a search path. The directory must exist and be
// readable at registration time. Returns the normalized absolute path.
func (r *Registry) Add(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", wgberr.Wrap(wgberr.CodeInvalidPath, dir, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", wgberr.Wrap(wgberr.CodeInvalidPath, abs, err)
	}
	if !fi.IsDir() {
		return "", wgberr.Newf(wgberr.CodeInvalidPath, "%s is not a directory", abs)
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", wgberr.Wrap(wgberr.CodeInvalidPath, abs, err)
	}
	f.Close()

	_, err = r.store.Update(func(st *store.State) (bool, error) {
		if st.HasSearchPath(abs) {
			return false, wgberr.New(wgberr.CodeDuplicatePath, abs)
		}
		st.SearchPaths = append(st.SearchPaths, abs)
		return true, nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("search path registered", "path", abs)
	return abs, nil
}

// Delete removes dir from the registered search paths. Entries previously
// discovered under it are left alone; the next scan prunes the disconnected
// ones, so bookkeeping for a live connection is never destroyed here.
func (r *Registry) Delete(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return wgberr.Wrap(wgberr.CodeInvalidPath, dir, err)
	}

	_, err = r.store.Update(func(st *store.State) (bool, error) {
		if !st.RemoveSearchPath(abs) {
			return false, wgberr.New(wgberr.CodePathNotFound, abs)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("search path removed", "path", abs)
	return nil
}

// List returns the registered search paths in insertion order.
func (r *Registry) List() ([]string, error) {
	st, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return st.SearchPaths, nil
}
