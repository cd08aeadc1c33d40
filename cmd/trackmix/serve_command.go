package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"trackmix/internal/api"
	"trackmix/internal/deps"
	"trackmix/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			journal, err := ctx.openJournal()
			if err != nil {
				return err
			}

			svc := api.Services{
				Prober:    ctx.newProber(logger),
				Mixer:     ctx.newExecutor(logger, journal),
				Watchlist: ctx.watchlistStore(),
				Tools: func() []deps.Status {
					return deps.CheckTools(ctx.toolLocator(), ctx.toolRequirements())
				},
			}
			if cfg.API.RateLimit > 0 {
				svc.Limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), max(cfg.API.RateBurst, 1))
			}
			if journal != nil {
				defer journal.Close()
				if n, err := journal.FailInterrupted(cmd.Context()); err != nil {
					logging.WarnWithContext(logger, "journal recovery failed", "journal_recovery_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "interrupted jobs keep their last state"),
					)
				} else if n > 0 {
					logger.Info("marked interrupted jobs failed",
						logging.String(logging.FieldEventType, "journal_recovered"),
						logging.Int64("job_count", n),
					)
				}
				svc.Jobs = journal
			}

			addr := strings.TrimSpace(bind)
			if addr == "" {
				addr = cfg.API.Bind
			}
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			server := api.NewServer(addr, api.NewHandler(svc, logger), logger)
			return server.Serve(signalCtx, func(addr string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to api.bind)")
	return cmd
}
