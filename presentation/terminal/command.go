package terminal

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dms_automation/infrastructure/config"
)

type flags struct {
	envFile  string
	repeat   int
	headless bool
	driver   string
	solver   string
	locators string
	dryRun   bool
}

// NewRootCommand - builds the dms-authorize command
func NewRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "dms-authorize",
		Short: "Log into the Kaadas DMS console and add door lock authorizations",
		Long: `dms-authorize opens a door lock detail page of the Kaadas DMS console, logs in
through the captcha when redirected, and adds the configured installer authorization
repeatedly. Settings come from .env and DMS_* environment variables; flags override them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.envFile)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return run(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&f.envFile, "env-file", "", "env file to load (default .env when present)")
	cmd.Flags().IntVarP(&f.repeat, "repeat", "n", 3, "number of authorization cycles")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "run the browser without a window")
	cmd.Flags().StringVar(&f.driver, "driver", "playwright", "browser driver: playwright or selenium")
	cmd.Flags().StringVar(&f.solver, "solver", "ocr-server", "captcha solver: ocr-server or openai")
	cmd.Flags().StringVar(&f.locators, "locators", "", "YAML file overriding locator strategies")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "fill the dialog but never submit it")

	return cmd
}

// apply overrides the configuration with the flags given on the command line
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("repeat") {
		cfg.Repeat = f.repeat
	}
	if changed("headless") {
		cfg.Headless = f.headless
	}
	if changed("driver") {
		cfg.Driver = f.driver
	}
	if changed("solver") {
		cfg.Solver = f.solver
	}
	if changed("locators") {
		cfg.LocatorsFile = f.locators
	}
	if changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
}

func run(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	term, err := NewTerminalInterface(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer term.Close()

	return term.Run(ctx)
}
