package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the machine as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			port, _ := cmd.Flags().GetString("port")
			noHistory, _ := cmd.Flags().GetBool("no-history")

			logger, closer, err := setupLogger(o)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)

			machine, err := cli.OpenMachine(ctx, o, logger,
				turing.WithLifecycleHooks(metrics.Hooks()),
				turing.WithLifecycleHooks(observability.LogHooks(logger)),
			)
			if err != nil {
				return err
			}

			handlerOpts := []httpAdapter.Option{
				httpAdapter.WithMetrics(reg),
				httpAdapter.WithLogger(logger),
			}
			if !noHistory {
				var runs *history.Manager
				if runs, err = cli.OpenHistory(o, logger); err != nil {
					return err
				}
				handlerOpts = append(handlerOpts, httpAdapter.WithHistory(runs))
			}

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           httpAdapter.NewHandler(machine, handlerOpts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Starting Turing Server on %s\n", srv.Addr)
				fmt.Fprintf(cmd.OutOrStdout(), "Serving machine: %s\n", machine.Name)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				logger.Info("start shutdown", "signal", ctx.Signal())

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Warn("graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("failed to kill server: %w", err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Turing Server stopped gracefully")
				return nil
			}
		},
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-history", false, "Disable the /runs endpoints")
	return cmd
}
