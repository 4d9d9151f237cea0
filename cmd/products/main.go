package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductStore/internal/config"
	"ProductStore/internal/products"
	"ProductStore/pkg/kit"
)

const (
	limiterSweepEvery = time.Minute
	limiterIdleAfter  = 5 * time.Minute
)

func main() {
	service := "products"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var limiter *kit.IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = kit.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.RunCleanup(ctx, limiterSweepEvery, limiterIdleAfter)
	}

	s := &products.Server{Store: products.NewStore(), Log: log}
	h := products.NewHandler(s, products.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		Limiter:        limiter,
	})

	log.Info("routes",
		zap.Strings("products", []string{
			"GET /products",
			"GET /products/{id}",
			"POST /products",
			"PUT /products/{id}",
			"DELETE /products/{id}",
		}),
	)

	err = kit.RunHTTPServer(ctx, cfg.Addr(), h, log, kit.ServerTimeouts{
		ReadHeader: cfg.ReadHeaderTimeout,
		Shutdown:   cfg.ShutdownTimeout,
	})
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
