package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl"
	"github.com/aidarkhanov/queuectl/config"
	"github.com/aidarkhanov/queuectl/metrics"
	"github.com/aidarkhanov/queuectl/stopflag"
)

func newWorkerCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Control the worker pool",
	}
	cmd.AddCommand(newWorkerStartCmd(e), newWorkerStopCmd(e))
	return cmd
}

func newWorkerStartCmd(e *env) *cobra.Command {
	var count int
	var metricsFile, metricsUDP, metricsAddr string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Spawn N workers and block until shutdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			log := e.openLogger()
			cfg := config.New(st)

			if err := stopflag.Remove(e.stopFlagPath()); err != nil {
				return fail(ExitIOError, "clear stale stop flag: %v", err)
			}

			pollMs, err := cfg.Get(context.Background(), config.KeyPollIntervalMs)
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			pollInterval, err := time.ParseDuration(pollMs + "ms")
			if err != nil {
				return fail(ExitInternal, "invalid %s: %v", config.KeyPollIntervalMs, err)
			}

			timeoutSecs, err := cfg.Get(context.Background(), config.KeyJobTimeoutSecs)
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			defaultTimeout, err := time.ParseDuration(timeoutSecs + "s")
			if err != nil {
				return fail(ExitInternal, "invalid %s: %v", config.KeyJobTimeoutSecs, err)
			}

			sink, err := buildMetricsSink(metricsFile, metricsUDP, metricsAddr, log)
			if err != nil {
				return fail(ExitIOError, "open metrics sink: %v", err)
			}
			defer func() {
				if err := sink.Close(); err != nil {
					log.Error("metrics sink close failed", "err", err)
				}
			}()

			mgrCfg := queuectl.ManagerConfig{
				WorkerCount: count,
				Worker: queuectl.WorkerConfig{
					PollInterval:   pollInterval,
					DefaultTimeout: defaultTimeout,
					Metrics:        sink,
				},
				ReapInterval: defaultTimeout,
				ReapMaxAge:   2 * defaultTimeout,
				StopFlagWatcher: func(ctx context.Context, shutdown context.CancelFunc) {
					stopflag.Watch(ctx, e.stopFlagPath(), pollInterval, shutdown)
				},
				HeartbeatPath:     e.heartbeatPath(),
				HeartbeatInterval: pollInterval,
			}

			mgr := queuectl.NewManager(st, queuectl.NewRealClock(), mgrCfg, log)
			ctx := context.Background()
			if err := mgr.Start(ctx); err != nil {
				return fail(ExitInternal, "%v", err)
			}
			mgr.Wait()
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of workers to spawn")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", e.metricsFilePath(), "append-only JSONL file for job lifecycle events (empty disables)")
	cmd.Flags().StringVar(&metricsUDP, "metrics-udp", "", "host:port to additionally emit job lifecycle events to as UDP datagrams")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for a Prometheus /metrics scrape endpoint (empty disables)")
	return cmd
}

// buildMetricsSink assembles the Sink wired into every Worker from the
// worker-start flags: a JSONLSink to metricsFile unless the flag was
// cleared, an additional JSONLSink over UDP if metricsUDP is set, and a
// PrometheusSink served over a background HTTP server if metricsAddr is
// set. At least the file sink is present by default, so job lifecycle
// events are always recorded somewhere.
func buildMetricsSink(metricsFile, metricsUDP, metricsAddr string, log *slog.Logger) (metrics.Multi, error) {
	var sinks metrics.Multi

	if metricsFile != "" {
		fileSink, err := metrics.NewFileSink(metricsFile, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}

	if metricsUDP != "" {
		udpSink, err := metrics.NewUDPSink(metricsUDP, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, udpSink)
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		promSink := metrics.NewPrometheusSink(reg)
		sinks = append(sinks, promSink)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics http server failed", "err", err)
			}
		}()
	}

	return sinks, nil
}

func newWorkerStopCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Create the stop-flag file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stopflag.Create(e.stopFlagPath()); err != nil {
				return fail(ExitIOError, "%v", err)
			}
			return nil
		},
	}
}
