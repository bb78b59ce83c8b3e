package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coreflux/netcfgd/adapters/filesource"
	"github.com/coreflux/netcfgd/adapters/textctrl"
	"github.com/coreflux/netcfgd/core/logging"
	"github.com/coreflux/netcfgd/core/metrics"
	"github.com/coreflux/netcfgd/core/module"
	"github.com/coreflux/netcfgd/modules/core"
)

var (
	metricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start all modules, serve Prometheus metrics, and wait for a stop signal",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	src := filesource.New(cfgFile)
	text, err := src.Read(ctx)
	if err != nil {
		return err
	}

	coord := module.New(logger, m)
	coreMod, _ := core.New(logger)
	if err := coord.Register(ctx, coreMod); err != nil {
		return err
	}
	if err := coord.StartAll(ctx, text); err != nil {
		return err
	}
	logger.Info().Msg("serve: all modules started")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	ctrl := textctrl.New()
	ctrl.Write("start")
	go watchControl(ctx, logger, coord, ctrl, text)

	<-ctx.Done()
	logger.Info().Msg("serve: shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("metrics server shutdown")
	}

	coord.StopAll(context.Background())
	logger.Info().Msg("serve: stopped")
	return nil
}

// watchControl drives StartAll/StopAll off the textual start/stop toggle,
// mirroring the external control-channel interface: a later "stop" write
// tears everything down, a later "start" write re-parses and starts again.
// serve always starts eagerly on launch; the toggle only affects restarts.
func watchControl(ctx context.Context, logger zerolog.Logger, coord *module.Coordinator, ctrl *textctrl.Toggle, text []byte) {
	ch, err := ctrl.Watch(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("control channel watch failed")
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			switch v {
			case "stop":
				if coord.Running() {
					logger.Info().Msg("control: stop requested")
					coord.StopAll(ctx)
				}
			case "start":
				if !coord.Running() {
					logger.Info().Msg("control: start requested")
					if err := coord.StartAll(ctx, text); err != nil {
						logger.Error().Err(err).Msg("control: start_all failed")
					}
				}
			}
		}
	}
}
