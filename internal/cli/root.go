// Package cli implements the planu command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/logging"
	"github.com/mesh-intelligence/planu/internal/paths"
	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// session holds the global flags and what PersistentPreRunE derives from
// them. Each root command has its own session.
type session struct {
	configDir   string
	dataDir     string
	backend     string
	logLevel    string
	metricsFile string
	jsonMode    bool

	// emptySeed starts a new snapshot without the default dataset.
	emptySeed bool

	settings settings
	logger   *slog.Logger
}

// NewRootCmd creates the top-level "planu" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	s := &session{logger: logging.Nop()}

	root := &cobra.Command{
		Use:   "planu",
		Short: "Workshop records for clients, vehicles, parts, services and orders",
		Long: "planu keeps the records of an auto repair workshop in a local snapshot.\n" +
			"Every change is applied as one transaction and saved before it is visible.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&s.dataDir, "data-dir", "", "data directory (default: $(CWD)/.planu-db)")
	pf.StringVar(&s.backend, "backend", "", "snapshot backend: json or sqlite (default from config.yaml)")
	pf.StringVar(&s.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&s.metricsFile, "metrics-file", "", "write store metrics in Prometheus text format to this file on exit")
	pf.BoolVar(&s.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(s),
		newConfigCmd(s),
		newClientsCmd(s),
		newVehiclesCmd(s),
		newPartsCmd(s),
		newServicesCmd(s),
		newOrdersCmd(s),
	)
	return root
}

// Execute runs the root command with the process arguments and exits with
// the matching code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command line args and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// load resolves the config directory, reads config.yaml and builds the
// logger. init manages config.yaml itself and version needs nothing.
func (s *session) load(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(s.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	s.configDir = configDir

	cfg, err := loadConfig(configDir, cmd.Name() != "init")
	if err != nil {
		return systemError(err)
	}
	if s.backend != "" {
		cfg.Backend = s.backend
	}
	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}
	s.settings = cfg
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel, logCfg.Level)
	logCfg.Format = logging.ParseFormat(cfg.LogFormat)
	logCfg.Output = cmd.ErrOrStderr()
	s.logger = logging.New(logCfg)
	return nil
}

// storeConfig returns the backend and absolute data directory in effect.
func (s *session) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(s.dataDir, s.settings.DataDir)
	if err != nil {
		return types.Config{}, systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{Backend: s.settings.Backend, DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("backend %q: %w", cfg.Backend, err)
	}
	return cfg, nil
}

// sysError marks failures of the environment rather than of the request.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	return &sysError{err: err}
}

// exitCode maps err to a process exit code. Storage failures are system
// errors; rejected input, unknown records and usage mistakes are user errors.
func exitCode(err error) int {
	var se *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, store.ErrPersist), errors.Is(err, store.ErrClosed):
		return exitSysError
	default:
		return exitUserError
	}
}
