package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vitwit/paysession"
	"github.com/vitwit/paysession/config"
	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
)

// runtime is what every command needs: a client plus its logger and the
// optional metrics endpoint.
type runtime struct {
	client *paysession.Client
	log    logger.Logger
	srv    *http.Server
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	envFiles, _ := flags.GetStringSlice("env-file")

	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return nil, err
	}
	if lvl, _ := flags.GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if addr, _ := flags.GetString("metrics-addr"); addr != "" {
		cfg.EnableMetrics = true
		cfg.MetricsAddr = addr
	}

	rt := &runtime{log: logger.NewZapLogger(cfg.LogLevel)}
	opts := []paysession.Option{paysession.WithLogger(rt.log)}

	if cfg.EnableMetrics {
		reg := prometheus.NewRegistry()
		rec, err := metrics.NewPrometheusRecorder(reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, paysession.WithMetrics(rec))
		rt.serveMetrics(cfg.MetricsAddr, reg)
	}

	rt.client, err = paysession.New(cfg, opts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	rt.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := rt.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("metrics server failed", map[string]any{"addr": addr, "error": err})
		}
	}()
	rt.log.Info("serving metrics", map[string]any{"addr": addr})
}

func (rt *runtime) Close() {
	if rt.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rt.srv.Shutdown(ctx)
	}
	if rt.client != nil {
		rt.client.Close()
	}
	if s, ok := rt.log.(interface{ Sync() error }); ok {
		s.Sync()
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
