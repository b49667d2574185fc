package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"listkit/internal/catalog"
	"listkit/internal/infra/logx"
)

func newSeedCmd(g *globals) *cobra.Command {
	var db string
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the sqlite catalog and fill it with generated entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return errors.New("count must be positive")
			}
			path := g.cfg.DBPath
			if cmd.Flags().Changed("db") {
				path = db
			}
			src, err := catalog.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer src.Close()

			if err := src.Seed(cmd.Context(), catalog.Generate(count)); err != nil {
				return err
			}
			total, err := src.Count(cmd.Context())
			if err != nil {
				return err
			}
			logx.Infof("seed: %d entries written to %s", count, path)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries into %s (%d total)\n", count, path, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "sqlite database path (default from config)")
	cmd.Flags().IntVar(&count, "count", memoryFixtures, "Number of entries to generate")
	return cmd
}
