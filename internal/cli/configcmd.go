package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"listkit/internal/config"
	"listkit/internal/infra/logx"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration file",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigInitCmd(g), newConfigShowCmd(g))
	return cmd
}

func newConfigInitCmd(g *globals) *cobra.Command {
	var f browseFlags
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration (defaults, file, environment and
the flags given here) to the --config path, ~/.listkitrc by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			f.apply(cmd, &cfg)
			if _, err := os.Stat(cfg.Path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path)
			}
			if err := config.Save(cfg.Path, cfg); err != nil {
				return err
			}
			logx.Infof("config: wrote %s", cfg.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Path)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := config.Encode(g.cfg)
			if g.cfg.Token != "" {
				out = strings.ReplaceAll(out, "TOKEN="+g.cfg.Token, "TOKEN=***")
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
