// Package orchestrator drives connect and disconnect operations against a
// configuration entry: it serializes on a per-entry lock, consults the
// two-factor gate, invokes the external tunnel tool, and commits the
// resulting state transition.
//
// The persisted connected flag is a claim, not a guarantee. Every operation
// reconciles it against the live state reported by the tunnel tool before
// acting, so a crash mid-operation is repaired by the next invocation.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lunatic-fringers/wgbridge/internal/fsutil"
	"github.com/lunatic-fringers/wgbridge/internal/scan"
	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/tunnel"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// Gate abstracts the two-factor challenge for testability.
type Gate interface {
	Challenge(e store.Entry) error
}

// Orchestrator coordinates tunnel state transitions.
type Orchestrator struct {
	store   *store.Store
	scanner *scan.Scanner
	gate    Gate
	runner  tunnel.Runner
	lockDir string
	logger  *slog.Logger
}

// New creates an Orchestrator. lockDir holds the per-entry lock files.
func New(st *store.Store, scanner *scan.Scanner, gate Gate, runner tunnel.Runner, lockDir string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:   st,
		scanner: scanner,
		gate:    gate,
		runner:  runner,
		lockDir: lockDir,
		logger:  logger.With("component", "orchestrator"),
	}
}

// EntryStatus is the reconciled status of one entry.
type EntryStatus struct {
	Entry store.Entry

	// Up is the live state reported by the external tool.
	Up bool

	// Repaired is set when a drift between the persisted flag and the
	// live state was corrected during this status call.
	Repaired bool
}

// Connect brings up the tunnel for the resolved target. An empty explicit
// path targets the single known configuration, failing with AmbiguousTarget
// when there are several.
func (o *Orchestrator) Connect(ctx context.Context, explicit string) (store.Entry, error) {
	res, err := o.scanner.Scan(explicit)
	if err != nil {
		return store.Entry{}, err
	}
	target, err := resolveTarget(res.State, explicit)
	if err != nil {
		return store.Entry{}, err
	}

	lock, err := o.lockEntry(target.Path)
	if err != nil {
		return store.Entry{}, err
	}
	defer o.releaseEntry(lock)

	up, err := o.runner.IsUp(ctx, target.Path)
	if err != nil {
		// Live query failed; fall back to the persisted claim.
		o.logger.Warn("live status query failed, trusting persisted state",
			"conf", target.Path, "error", err)
		up = target.Connected
	}

	if up {
		if !target.Connected {
			o.logger.Info("tunnel already up, correcting stale flag", "conf", target.Path)
			return o.setConnected(target.Path, true)
		}
		return target, nil
	}

	if target.Connected {
		// Stale claim: the tool says down. Clear it and do a real connect
		// rather than lying to the caller.
		o.logger.Info("persisted state stale, tunnel is down", "conf", target.Path)
		if target, err = o.setConnected(target.Path, false); err != nil {
			return store.Entry{}, err
		}
	}

	if target.TokenRequired {
		if err := o.gate.Challenge(target); err != nil {
			return store.Entry{}, err
		}
	}

	if err := o.runner.Up(ctx, target.Path); err != nil {
		return store.Entry{}, err
	}

	return o.setConnected(target.Path, true)
}

// Disconnect tears down the tunnel for the resolved target. Tearing down an
// already-down tunnel is a no-op success.
func (o *Orchestrator) Disconnect(ctx context.Context, explicit string) (store.Entry, error) {
	res, err := o.scanner.Scan(explicit)
	if err != nil {
		return store.Entry{}, err
	}
	target, err := resolveTarget(res.State, explicit)
	if err != nil {
		return store.Entry{}, err
	}

	lock, err := o.lockEntry(target.Path)
	if err != nil {
		return store.Entry{}, err
	}
	defer o.releaseEntry(lock)

	up, err := o.runner.IsUp(ctx, target.Path)
	if err != nil {
		o.logger.Warn("live status query failed, trusting persisted state",
			"conf", target.Path, "error", err)
		up = target.Connected
	}

	if !up {
		if target.Connected {
			o.logger.Info("persisted state stale, tunnel already down", "conf", target.Path)
			return o.setConnected(target.Path, false)
		}
		return target, nil
	}

	if err := o.runner.Down(ctx, target.Path); err != nil {
		// Never assume success. The tunnel is still up; make the flag say so.
		if _, setErr := o.setConnected(target.Path, true); setErr != nil {
			o.logger.Error("failed to persist state after tear-down failure", "error", setErr)
		}
		return store.Entry{}, err
	}

	return o.setConnected(target.Path, false)
}

// Status reports the reconciled status of every known entry. Detected drift
// is corrected best-effort under the entry's lock; a busy entry is reported
// as-is rather than queued behind the in-flight operation.
func (o *Orchestrator) Status(ctx context.Context) ([]EntryStatus, error) {
	res, err := o.scanner.Scan("")
	if err != nil {
		return nil, err
	}

	statuses := make([]EntryStatus, 0, len(res.State.Entries))
	for _, e := range res.State.Entries {
		up, err := o.runner.IsUp(ctx, e.Path)
		if err != nil {
			o.logger.Warn("live status query failed", "conf", e.Path, "error", err)
			statuses = append(statuses, EntryStatus{Entry: e, Up: e.Connected})
			continue
		}

		s := EntryStatus{Entry: e, Up: up}
		if up != e.Connected {
			if repaired, repErr := o.repairDrift(e.Path, up); repErr != nil {
				o.logger.Warn("drift repair failed", "conf", e.Path, "error", repErr)
			} else if repaired {
				s.Entry.Connected = up
				s.Repaired = true
			}
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// List returns the resolved entry set after a scan. Pure read.
func (o *Orchestrator) List() ([]store.Entry, error) {
	res, err := o.scanner.Scan("")
	if err != nil {
		return nil, err
	}
	return res.State.Entries, nil
}

// repairDrift corrects a stale connected flag under the entry lock. It
// reports false without error when the entry is locked by an in-flight
// operation, whose outcome will overwrite the flag anyway.
func (o *Orchestrator) repairDrift(path string, up bool) (bool, error) {
	lock, ok, err := fsutil.TryAcquire(o.entryLockPath(path))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	defer o.releaseEntry(lock)

	if _, err := o.setConnected(path, up); err != nil {
		return false, err
	}
	o.logger.Info("corrected stale connection flag", "conf", path, "connected", up)
	return true, nil
}

// resolveTarget picks the entry an invocation acts on. With an explicit
// path the scan has already guaranteed an entry exists for it; without one
// the single known configuration is implied.
func resolveTarget(st *store.State, explicit string) (store.Entry, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return store.Entry{}, wgberr.Wrap(wgberr.CodeInvalidPath, explicit, err)
		}
		e := st.Entry(abs)
		if e == nil {
			return store.Entry{}, wgberr.New(wgberr.CodeConfigNotFound, abs)
		}
		return *e, nil
	}

	switch len(st.Entries) {
	case 0:
		return store.Entry{}, wgberr.New(wgberr.CodeConfigNotFound, "no configurations known")
	case 1:
		return st.Entries[0], nil
	default:
		return store.Entry{}, wgberr.Newf(wgberr.CodeAmbiguousTarget,
			"%d configurations known", len(st.Entries))
	}
}

// setConnected persists the connected flag for path and returns the updated
// entry. An entry pruned by a concurrent scan is re-created: the flag
// transition must never be lost.
func (o *Orchestrator) setConnected(path string, connected bool) (store.Entry, error) {
	st, err := o.store.Update(func(st *store.State) (bool, error) {
		e := st.Entry(path)
		if e == nil {
			st.Entries = append(st.Entries, store.Entry{Path: path, Connected: connected})
			return true, nil
		}
		if e.Connected == connected {
			return false, nil
		}
		e.Connected = connected
		return true, nil
	})
	if err != nil {
		return store.Entry{}, err
	}
	return *st.Entry(path), nil
}

// entryLockPath derives the lock file for a configuration path. Hashing
// keeps the file name valid regardless of the path's characters.
func (o *Orchestrator) entryLockPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(o.lockDir, fmt.Sprintf("%x.lock", sum[:8]))
}

// lockEntry takes the per-entry lock without blocking. Two invocations
// targeting the same configuration cannot race; a held lock fails fast with
// AlreadyInProgress so the second invocation never hangs.
func (o *Orchestrator) lockEntry(path string) (*fsutil.FileLock, error) {
	lock, ok, err := fsutil.TryAcquire(o.entryLockPath(path))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: lock entry: %w", err)
	}
	if !ok {
		return nil, wgberr.New(wgberr.CodeAlreadyInProgress, path)
	}
	return lock, nil
}

func (o *Orchestrator) releaseEntry(lock *fsutil.FileLock) {
	if err := lock.Release(); err != nil {
		o.logger.Warn("failed to release entry lock", "error", err)
	}
}
