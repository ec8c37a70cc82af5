package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/cli/config"
	httpctrl "github.com/secmon-lab/gyges/pkg/controller/http"
	"github.com/secmon-lab/gyges/pkg/service/worker"
	"github.com/secmon-lab/gyges/pkg/usecase"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var sweepInterval time.Duration
	var engineCfg config.Engine
	var repoCfg config.Repository
	var notifierCfg config.Notifier
	var metricsCfg config.Metrics

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GYGES_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval between background risk sweeps (0 disables the sweep worker)",
			Value:       time.Hour,
			Sources:     cli.EnvVars("GYGES_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notifierCfg.Flags()...)
	flags = append(flags, metricsCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the validation and risk assessment HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rules, escalation, mitigation, err := engineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load engine configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := notifierCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			provider, err := metricsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure metrics client")
			}

			opts := []usecase.Option{
				usecase.WithRuleCatalog(rules),
				usecase.WithEscalationMatrix(escalation),
				usecase.WithMitigationCatalog(mitigation),
				usecase.WithNotifier(notifier),
				usecase.WithMetricsTimeout(metricsCfg.FetchTimeout()),
			}
			if provider != nil {
				opts = append(opts, usecase.WithMetricsProvider(provider))
			}
			uc := usecase.New(repo, opts...)

			var sweepWorker *worker.RiskSweepWorker
			if sweepInterval > 0 {
				sweepWorker = worker.NewRiskSweepWorker(repo, uc.Risk, sweepInterval)
				if err := sweepWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start risk sweep worker")
				}
			} else {
				logging.Default().Info("Risk sweep worker disabled")
			}

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if sweepWorker != nil {
					sweepWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
