package wgberr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := Wrap(CodeAuthFailed, "challenge for office.conf", errors.New("bad token"))

	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("errors.Is(err, ErrAuthFailed) = false, want true")
	}
	if errors.Is(err, ErrTunnelBringUpFailed) {
		t.Errorf("errors.Is(err, ErrTunnelBringUpFailed) = true, want false")
	}
}

func TestError_IsThroughWrapping(t *testing.T) {
	inner := New(CodeAlreadyInProgress, "office.conf")
	err := fmt.Errorf("wgb connect: %w", inner)

	if !errors.Is(err, ErrAlreadyInProgress) {
		t.Error("wrapped error should still match by code")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", New(CodeInvalidPath, "/nope"), CodeInvalidPath},
		{"wrapped", fmt.Errorf("wgb path add: %w", New(CodeDuplicatePath, "/etc/wireguard")), CodeDuplicatePath},
		{"unknown", errors.New("something broke"), CodeInternal},
		{"nil cause wrap", Wrap(CodeCorruptState, "parse", errors.New("unexpected end of JSON input")), CodeCorruptState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode_Distinct(t *testing.T) {
	seen := make(map[int]Code)
	for code := range exitCodes {
		n := ExitCode(code)
		if n == 0 {
			t.Errorf("ExitCode(%q) = 0, reserved for success", code)
		}
		if prev, dup := seen[n]; dup {
			t.Errorf("exit code %d shared by %q and %q", n, prev, code)
		}
		seen[n] = code
	}

	if got := ExitCode(Code("NoSuchCode")); got != 1 {
		t.Errorf("ExitCode(unknown) = %d, want 1", got)
	}
}

func TestDefaultCatalog_CoversAllCodes(t *testing.T) {
	catalog := DefaultCatalog()
	for code := range exitCodes {
		if catalog[string(code)] == "" {
			t.Errorf("DefaultCatalog() missing message for %q", code)
		}
	}
}

func TestError_ErrorString(t *testing.T) {
	err := Wrap(CodeTunnelBringUpFailed, "wg-quick up", errors.New("exit status 1"))
	want := "TunnelBringUpFailed: wg-quick up: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &Error{Code: CodeAuthFailed}
	if bare.Error() != "AuthFailed" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "AuthFailed")
	}
}
