package fsutil

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTryAcquire_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "entry.lock")

	l1, ok, err := TryAcquire(path)
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if !ok {
		t.Fatal("TryAcquire() ok = false, want true for free lock")
	}

	// Second acquisition in the same process must fail without blocking.
	// flock is per-open-descriptor, so this models a second invocation.
	l2, ok, err := TryAcquire(path)
	if err != nil {
		t.Fatalf("second TryAcquire() error = %v", err)
	}
	if ok {
		l2.Release()
		t.Fatal("second TryAcquire() ok = true, want false while held")
	}

	if err := l1.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	// Released lock can be re-acquired.
	l3, ok, err := TryAcquire(path)
	if err != nil {
		t.Fatalf("TryAcquire() after release error = %v", err)
	}
	if !ok {
		t.Fatal("TryAcquire() after release ok = false, want true")
	}
	l3.Release()
}

func TestAcquire_BlocksUntilReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.lock")

	l1, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	acquired := make(chan *FileLock)
	go func() {
		l, err := Acquire(path)
		if err != nil {
			t.Errorf("blocked Acquire() error = %v", err)
			close(acquired)
			return
		}
		acquired <- l
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire() returned while lock still held")
	case <-time.After(50 * time.Millisecond):
	}

	if err := l1.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	select {
	case l2 := <-acquired:
		if l2 != nil {
			l2.Release()
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second Acquire() did not proceed after release")
	}
}

func TestRelease_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.lock")

	l, ok, err := TryAcquire(path)
	if err != nil || !ok {
		t.Fatalf("TryAcquire() = %v, %v", ok, err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v, want nil", err)
	}
}
