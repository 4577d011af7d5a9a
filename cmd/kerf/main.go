// Command kerf evaluates kerf designs from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are shared by every subcommand. cfg and log are set before any
// subcommand runs.
type options struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "kerf",
		Short:        "Boundary-representation CAD with a Lisp front-end",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newEvalCmd(o))
	root.AddCommand(newWatchCmd(o))
	root.AddCommand(newCubeCmd(o))
	root.AddCommand(newConfigCmd(o))
	root.AddCommand(newVersionCmd())
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.FromEnvironment(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log = logging.New(cmd.ErrOrStderr(), cfg.Log.Format, level)
	return nil
}

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(o.cfg); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return enc.Close()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "kerf %s\n", version)
			return err
		},
	}
}
