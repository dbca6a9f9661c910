// Package cmd implements the wgb CLI commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunatic-fringers/wgbridge/internal/config"
	"github.com/lunatic-fringers/wgbridge/internal/orchestrator"
	"github.com/lunatic-fringers/wgbridge/internal/registry"
	"github.com/lunatic-fringers/wgbridge/internal/scan"
	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/tunnel"
	"github.com/lunatic-fringers/wgbridge/internal/twofa"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("wgb version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "wgb",
	Short: "wgb supervises local WireGuard tunnels",
	Long: "wgb is a local supervisor for WireGuard tunnels. It keeps a registry of\n" +
		"directories holding tunnel configurations, tracks which tunnels are up in a\n" +
		"persistent state file, and drives wg-quick to connect and disconnect them,\n" +
		"optionally behind a per-configuration one-time-token challenge.",
	// No Run function, prints help by default.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/wgb/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr; \"auto\" picks a date-named file (overrides config)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("wgb version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// catalog is the user-facing message catalog loaded from the state file,
// kept package-level so main can format errors after Execute returns.
var catalog map[string]string

// FormatError renders an error for the end user: the catalog message for
// its code followed by the technical detail.
func FormatError(err error) string {
	code := wgberr.CodeOf(err)
	msg := ""
	if catalog != nil {
		msg = catalog[string(code)]
	}
	if msg == "" {
		msg = wgberr.DefaultCatalog()[string(code)]
	}
	return fmt.Sprintf("%s: %s: %v", code, msg, err)
}

// env wires the full service graph for one command invocation.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	registry *registry.Registry
	scanner  *scan.Scanner
	gate     *twofa.Gate
	orch     *orchestrator.Orchestrator

	logCloser io.Closer
}

// newEnv parses configuration, sets up logging and builds the components.
// The state file is loaded once up front so a corrupt file fails every
// command the same way and the error catalog is in place for FormatError.
func newEnv() (*env, error) {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.ParseConfig(path)
	if err != nil {
		return nil, err
	}

	// CLI flag overrides.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	logger, closer, err := setupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	st := store.New(cfg.StateFile, logger)
	if _, err := st.Load(); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	catalog = st.Catalog()

	gate := twofa.New(st, twofa.NewTerminalPrompter(), logger)
	scanner := scan.New(st, cfg.ConfExtension, logger)
	runner := tunnel.NewWGQuick(cfg.Tunnel, logger)

	return &env{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		registry:  registry.New(st, logger),
		scanner:   scanner,
		gate:      gate,
		orch:      orchestrator.New(st, scanner, gate, runner, cfg.LockDir, logger),
		logCloser: closer,
	}, nil
}

// Close flushes and releases the log file, if any.
func (e *env) Close() {
	if e.logCloser != nil {
		e.logCloser.Close()
	}
}

func setupLogger(level, file string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if file != "" {
		name := file
		if file == "auto" {
			name = fmt.Sprintf("wgb-%s.log", time.Now().Format("2006-01-02"))
		}
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("wgb: open log file: %w", err)
		}
		w = f
		closer = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closer, nil
}
