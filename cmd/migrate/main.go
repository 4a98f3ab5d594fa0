// Command migrate copies the stored post draft from one storage backend to
// another, optionally re-encoding it in a different format.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
	"github.com/debemdeboas/kimchi-drafts/internal/draft"
	"github.com/debemdeboas/kimchi-drafts/internal/logger"
	"github.com/debemdeboas/kimchi-drafts/internal/repository"
)

type options struct {
	from         string
	to           string
	fromFormat   string
	toFormat     string
	dryRun       bool
	removeSource bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	opts := options{}

	cmd := &cobra.Command{
		Use:   "migrate --from <backend> --to <backend>",
		Short: "Copy the stored draft between storage backends",
		Long: `Copy the stored draft between storage backends.

Both ends read their settings from the same config file; only the backend
and, optionally, the format differ. Shared backends (gorm, redis, s3) use
the client-scoped key.

Examples:
  migrate --from file --to redis
  migrate --from sqlite --to gorm --to-format yaml --remove-source`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log := logger.New(cfg.Logging.Level)
			config.SetLogger(log)
			repository.SetLogger(log)

			_, err = migrate(cmd.Context(), cfg, opts, log)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	backends := strings.Join(config.Backends(), ", ")
	cmd.Flags().StringVar(&opts.from, "from", "", "Source backend ("+backends+")")
	cmd.Flags().StringVar(&opts.to, "to", "", "Destination backend ("+backends+")")
	cmd.Flags().StringVar(&opts.fromFormat, "from-format", "", "Source format (default: storage.format)")
	cmd.Flags().StringVar(&opts.toFormat, "to-format", "", "Destination format (default: storage.format)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Decode and re-encode without writing")
	cmd.Flags().BoolVar(&opts.removeSource, "remove-source", false, "Remove the record from the source after copying")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// endpoint is one side of a migration.
type endpoint struct {
	cfg   config.Config
	codec draft.Codec
	key   string
}

func newEndpoint(base *config.Config, backend, format string) (*endpoint, error) {
	e := &endpoint{cfg: *base}
	e.cfg.Storage.Backend = backend
	if format != "" {
		e.cfg.Storage.Format = format
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := draft.CodecFor(e.cfg.Storage.Format)
	if err != nil {
		return nil, err
	}
	e.codec = codec

	if e.cfg.Storage.Shared() {
		if _, err := e.cfg.Storage.ResolveClientID(); err != nil {
			return nil, err
		}
	}
	e.key = e.cfg.Storage.ScopedKey()
	return e, nil
}

func (e *endpoint) same(o *endpoint) bool {
	return e.cfg.Storage.Backend == o.cfg.Storage.Backend &&
		e.key == o.key &&
		e.codec.Name() == o.codec.Name()
}

// migrate reports whether a record was written to the destination.
func migrate(ctx context.Context, cfg *config.Config, opts options, log zerolog.Logger) (bool, error) {
	src, err := newEndpoint(cfg, opts.from, opts.fromFormat)
	if err != nil {
		return false, fmt.Errorf("source: %w", err)
	}
	dst, err := newEndpoint(cfg, opts.to, opts.toFormat)
	if err != nil {
		return false, fmt.Errorf("destination: %w", err)
	}
	if src.same(dst) {
		return false, errors.New("source and destination are the same")
	}

	srcRepo, err := repository.Open(ctx, &src.cfg)
	if err != nil {
		return false, fmt.Errorf("error opening source: %w", err)
	}
	defer srcRepo.Close()

	data, err := srcRepo.GetItem(ctx, src.key)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info().Str("backend", opts.from).Str("key", src.key).Msg("No stored draft, nothing to migrate")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	d, err := draft.DecodeState(src.codec, data)
	if err != nil {
		return false, fmt.Errorf("%w: %v", draft.ErrCorruptState, err)
	}
	out, err := draft.EncodeState(dst.codec, d)
	if err != nil {
		return false, err
	}

	report := func(msg string) {
		log.Info().
			Str("from", opts.from).
			Str("to", opts.to).
			Str("key", dst.key).
			Str("format", dst.codec.Name()).
			Bool("has_draft", d != nil).
			Msg(msg)
	}
	if opts.dryRun {
		report("Dry run, not writing")
		return false, nil
	}

	dstRepo, err := repository.Open(ctx, &dst.cfg)
	if err != nil {
		return false, fmt.Errorf("error opening destination: %w", err)
	}
	defer dstRepo.Close()

	if err := dstRepo.SetItem(ctx, dst.key, out); err != nil {
		return false, err
	}
	report("Draft migrated")

	if opts.removeSource {
		if err := srcRepo.RemoveItem(ctx, src.key); err != nil {
			return true, fmt.Errorf("draft copied but source not removed: %w", err)
		}
		log.Info().Str("backend", opts.from).Msg("Source record removed")
	}
	return true, nil
}
