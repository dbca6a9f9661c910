// Package twofa implements the per-configuration two-factor gate. A gated
// configuration requires a one-time token to validate before any tunnel
// bring-up is attempted; the gate is a precondition of the connect path,
// never a parallel check.
//
// The stored uri is treated as an otpauth:// TOTP URI and validated
// locally. Remote validation would make every connect depend on network
// reachability before the tunnel exists.
package twofa

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// Prompter reads a one-time token from the user.
type Prompter interface {
	ReadToken(prompt string) (string, error)
}

// Gate manages and evaluates per-configuration token protection.
type Gate struct {
	store    *store.Store
	prompter Prompter
	validate func(token, uri string) (bool, error)
	logger   *slog.Logger
}

// New creates a Gate over the given store and prompter.
func New(st *store.Store, prompter Prompter, logger *slog.Logger) *Gate {
	return &Gate{
		store:    st,
		prompter: prompter,
		validate: validateTOTP,
		logger:   logger.With("component", "twofa"),
	}
}

// Enable turns on token protection for the configuration at confPath using
// the given otpauth:// URI. Enabling an already-enabled entry with the same
// URI is a no-op success.
func (g *Gate) Enable(confPath, uri string) error {
	abs, err := filepath.Abs(confPath)
	if err != nil {
		return wgberr.Wrap(wgberr.CodeInvalidPath, confPath, err)
	}

	// Reject unparseable URIs now rather than at the first challenge.
	if _, err := otp.NewKeyFromURL(uri); err != nil {
		return wgberr.Wrap(wgberr.CodeAuthFailed, "invalid token uri", err)
	}

	_, err = g.store.Update(func(st *store.State) (bool, error) {
		e := st.Entry(abs)
		if e == nil {
			return false, wgberr.New(wgberr.CodeConfigNotFound, abs)
		}
		if e.TokenRequired && e.TokenURI == uri {
			return false, nil
		}
		e.TokenRequired = true
		e.TokenURI = uri
		return true, nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("token protection enabled", "conf", abs)
	return nil
}

// Disable turns off token protection for the configuration at confPath.
// Disabling an ungated entry is a no-op success.
func (g *Gate) Disable(confPath string) error {
	abs, err := filepath.Abs(confPath)
	if err != nil {
		return wgberr.Wrap(wgberr.CodeInvalidPath, confPath, err)
	}

	_, err = g.store.Update(func(st *store.State) (bool, error) {
		e := st.Entry(abs)
		if e == nil {
			return false, wgberr.New(wgberr.CodeConfigNotFound, abs)
		}
		if !e.TokenRequired && e.TokenURI == "" {
			return false, nil
		}
		e.TokenRequired = false
		e.TokenURI = ""
		return true, nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("token protection disabled", "conf", abs)
	return nil
}

// Challenge prompts for and validates a one-time token for the entry.
// It never mutates stored state; failure aborts the caller's connect before
// the external tunnel tool is invoked.
func (g *Gate) Challenge(e store.Entry) error {
	token, err := g.prompter.ReadToken(fmt.Sprintf("Token for %s: ", filepath.Base(e.Path)))
	if err != nil {
		return wgberr.Wrap(wgberr.CodeAuthFailed, "read token", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return wgberr.New(wgberr.CodeAuthFailed, "empty token")
	}

	ok, err := g.validate(token, e.TokenURI)
	if err != nil {
		return wgberr.Wrap(wgberr.CodeAuthFailed, "validate token", err)
	}
	if !ok {
		g.logger.Warn("token challenge failed", "conf", e.Path)
		return wgberr.New(wgberr.CodeAuthFailed, e.Path)
	}

	g.logger.Info("token challenge passed", "conf", e.Path)
	return nil
}

// validateTOTP checks a token against an otpauth:// URI, honoring the
// URI's period, digit count and algorithm parameters.
func validateTOTP(token, uri string) (bool, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return false, fmt.Errorf("twofa: parse token uri: %w", err)
	}

	return totp.ValidateCustom(token, key.Secret(), time.Now(), totp.ValidateOpts{
		Period:    uint(key.Period()),
		Skew:      1,
		Digits:    key.Digits(),
		Algorithm: key.Algorithm(),
	})
}
