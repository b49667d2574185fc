// Package cli provides the command-line interface for listkit.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"listkit/internal/catalog"
	"listkit/internal/config"
	"listkit/internal/infra/logx"
)

// Version is set by the main package at build time.
var Version = "v0.1.0-dev"

// memoryFixtures is the size of the generated memory catalog.
const memoryFixtures = 200

type globals struct {
	cfgFile  string
	logLevel string
	logFile  string
	verbose  bool

	cfg config.Config
	log *os.File
}

// NewRootCmd creates the root command. Without a subcommand it opens the
// browser with the configured source.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "listkit",
		Short: "Browse paged, searchable lists in the terminal",
		Long: `listkit ` + Version + `
Paged, searchable list browser over a memory, sqlite or HTTP catalog.

Configuration is read from ~/.listkitrc (KEY=VALUE lines) and LISTKIT_*
environment variables; flags override both.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) { g.teardown() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, g.cfg)
		},
	}
	root.Version = Version

	pf := root.PersistentFlags()
	pf.StringVarP(&g.cfgFile, "config", "c", "", "Configuration file path (default ~/.listkitrc)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&g.logFile, "log-file", "", "Append JSON logs to this file (overrides config)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Debug logs without field truncation")

	root.AddCommand(newBrowseCmd(g), newServeCmd(g), newSeedCmd(g), newConfigCmd(g), newVersionCmd())
	return root
}

func (g *globals) setup(cmd *cobra.Command) error {
	path := g.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFile != "" {
		cfg.LogFile = g.logFile
	}
	g.cfg = cfg

	level := logx.ParseLevel(cfg.LogLevel)
	if g.verbose {
		level = logx.LevelDebug
		logx.SetVerbose(true)
	}
	logx.SetMinLevel(level)
	logx.RegisterSecret(cfg.Token)
	if cfg.LogFile != "" {
		f, err := logx.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		g.log = f
	} else {
		logx.SetOutput(cmd.ErrOrStderr())
	}
	logx.Debugf("config: loaded %s (source=%s)", cfg.Path, cfg.Source)
	return nil
}

func (g *globals) teardown() {
	if g.log != nil {
		logx.SetOutput(nil)
		g.log.Close()
		g.log = nil
	}
}

// openSource builds the catalog source named by cfg. The returned func
// releases it.
func openSource(cfg config.Config) (catalog.Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Source {
	case config.SourceMemory:
		return catalog.NewMemorySource(memoryFixtures), noop, nil
	case config.SourceSQLite:
		src, err := catalog.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	case config.SourceHTTP:
		return catalog.NewHTTPSource(cfg.URL, catalog.HTTPOptions{Token: cfg.Token, Timeout: 10 * time.Second}), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "listkit %s\n", Version)
			return err
		},
	}
}
