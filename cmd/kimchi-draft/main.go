// Package main provides the kimchi-draft CLI for the compose-form draft store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
	"github.com/debemdeboas/kimchi-drafts/internal/db"
	"github.com/debemdeboas/kimchi-drafts/internal/draft"
	"github.com/debemdeboas/kimchi-drafts/internal/logger"
	"github.com/debemdeboas/kimchi-drafts/internal/repository"
)

// errNoDraft is returned by status --check; it only sets the exit code.
var errNoDraft = errors.New("no draft")

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	cfg        *config.Config
	log        zerolog.Logger
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoDraft):
		return 1
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle(cmd).Render("Error: "+err.Error()))
		return 1
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "kimchi-draft",
		Short: "Keep the in-progress kimchi post draft across restarts",
		Long: `kimchi-draft manages the single unsaved post draft of the compose form.

The draft is mirrored to the configured storage backend (file, sqlite,
gorm, redis, s3 or memory) so it survives restarts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	cmd.PersistentFlags().Bool("no-color", false, "Disable styled output")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(
		newSaveCmd(a),
		newClearCmd(a),
		newStatusCmd(a),
		newShowCmd(a),
		newTypesCmd(),
	)
	return cmd
}

func (a *app) setup() error {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(cfg.Logging.Level)
	config.SetLogger(a.log.With().Str("component", "config").Logger())
	db.SetLogger(a.log.With().Str("component", "db").Logger())
	repository.SetLogger(a.log.With().Str("component", "repository").Logger())
	draft.SetLogger(a.log.With().Str("component", "draft").Logger())
	return nil
}

// withStore opens the configured store, runs fn, and closes the backend.
func (a *app) withStore(ctx context.Context, fn func(*draft.Store) error) error {
	store, repo, err := draft.OpenConfigured(ctx, a.cfg,
		draft.WithLogger(a.log.With().Str("component", "draft").Str("backend", a.cfg.Storage.Backend).Logger()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("Error closing storage")
		}
	}()

	return fn(store)
}
