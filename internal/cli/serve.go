package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"listkit/internal/catalog"
	"listkit/internal/config"
	"listkit/internal/infra/logx"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var addr, source, db string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a memory or sqlite catalog over HTTP",
		Long: `Serve the catalog as JSON:

  GET    /entries?page=N&per_page=N&q=TEXT   {"entries":[...],"page":N}
  POST   /entries {"title":"..."}            {"entry":{...}}
  DELETE /entries/{id}
  GET    /healthz

A configured token is required as "Authorization: Bearer <token>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			if cmd.Flags().Changed("source") {
				cfg.Source = source
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = db
			}
			if cfg.Source == config.SourceHTTP {
				return errors.New("serve needs a memory or sqlite source")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return serve(cmd, cfg, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&source, "source", "", "Data source: memory or sqlite")
	cmd.Flags().StringVar(&db, "db", "", "sqlite database path")
	return cmd
}

// serve runs the catalog handler on ln until the command context ends.
func serve(cmd *cobra.Command, cfg config.Config, ln net.Listener) error {
	src, closeSrc, err := openSource(cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer closeSrc()

	srv := &http.Server{
		Handler:           catalog.NewHandler(src, cfg.Token),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logx.StdLogger(logx.LevelWarn),
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	logx.Infof("serve: listening on %s (source=%s)", ln.Addr(), cfg.Source)
	fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", ln.Addr())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logx.Infof("serve: shutting down")
	return srv.Shutdown(ctx)
}
