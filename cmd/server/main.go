package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"blackphoenix/internal/api"
	"blackphoenix/internal/config"
	"blackphoenix/internal/dashboard"
	"blackphoenix/internal/engine"
	"blackphoenix/internal/format"
	"blackphoenix/internal/logging"
	"blackphoenix/internal/upstream"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	// amounts go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rule, err := engine.ParseRevenueRule(cfg.RevenueRule)
	if err != nil {
		log.Error("bad revenue rule", "err", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	// 1. Dashboard service (API is live before the first refresh and answers 503)
	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, log)
	formatter := format.New(cfg.DisplayLocale, cfg.CurrencySuffix)
	svc := dashboard.NewService(client, formatter, dashboard.Options{
		Rule:        rule,
		OrderLimit:  cfg.OrderLimit,
		RecentLimit: cfg.RecentLimit,
		RecentShown: cfg.RecentShown,
		Location:    loc,
	}, log)

	// 2. HTTP
	h := api.NewHandler(svc, cfg.RefreshMinGap, log)
	e := api.NewServer(h, log)

	// 3. Refresh loop in background
	go svc.Run(ctx, cfg.RefreshInterval)

	go func() {
		log.Info("http listening", "addr", cfg.Addr(), "upstream", cfg.UpstreamURL, "rule", string(rule), "locale", formatter.Locale())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	log.Info("server shutdown complete")
}
