package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"listkit/internal/catalog"
	"listkit/internal/config"
	"listkit/internal/infra/logx"
	"listkit/internal/netstate"
	"listkit/internal/ui/app"
	"listkit/internal/ui/listview"
)

var errNoTerminal = errors.New("browse needs an interactive terminal")

type browseFlags struct {
	source   string
	db       string
	url      string
	loading  string
	perPage  int
	noSearch bool
}

func newBrowseCmd(g *globals) *cobra.Command {
	var f browseFlags
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the list browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			f.apply(cmd, &cfg)
			return runBrowse(cmd, cfg)
		},
	}
	f.register(cmd)
	return cmd
}

func (f *browseFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", "", "Data source: memory, sqlite or http")
	fl.StringVar(&f.db, "db", "", "sqlite database path")
	fl.StringVar(&f.url, "url", "", "listkit server URL for the http source")
	fl.StringVar(&f.loading, "loading", "", "First-load indicator: placeholder, spin or none")
	fl.IntVar(&f.perPage, "per-page", 0, "Entries per page")
	fl.BoolVar(&f.noSearch, "no-search", false, "Hide the search box")
}

// apply copies the flags the user set over cfg.
func (f browseFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("source") {
		cfg.Source = f.source
	}
	if fl.Changed("db") {
		cfg.DBPath = f.db
	}
	if fl.Changed("url") {
		cfg.URL = f.url
	}
	if fl.Changed("loading") {
		cfg.Loading = f.loading
	}
	if fl.Changed("per-page") {
		cfg.PerPage = f.perPage
	}
	if fl.Changed("no-search") {
		cfg.SearchBox = !f.noSearch
	}
}

func runBrowse(cmd *cobra.Command, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}
	lt, err := listview.ParseLoadingType(cfg.Loading)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	if len(os.Getenv("DEBUG")) > 0 {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer f.Close()
		logx.SetOutput(f)
		logx.SetMinLevel(logx.LevelDebug)
	} else if cfg.LogFile == "" {
		logx.SetOutput(io.Discard)
	}

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	opts := app.Options{
		Source:    src,
		PerPage:   cfg.PerPage,
		StartPage: cfg.StartPage,
		Loading:   lt,
		NoSearch:  !cfg.SearchBox,
		Title:     "listkit · " + cfg.Source,
	}
	if cfg.Source == config.SourceHTTP {
		opts.Checker = netstate.NewProber(cfg.URL, cfg.Token, 2*time.Second)
		opts.ProbeInterval = cfg.ProbeInterval
	}
	m := app.New(opts)
	defer m.Close()

	logx.Infof("browse: source=%s per_page=%d loading=%s", cfg.Source, cfg.PerPage, lt)
	_, err = tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	).Run()
	if hs, ok := src.(*catalog.HTTPSource); ok {
		s := hs.Metrics()
		logx.Infof("browse: http requests=%d retries=%d 4xx=%d 5xx=%d", s.Requests, s.Retries, s.Status4xx, s.Status5xx)
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
