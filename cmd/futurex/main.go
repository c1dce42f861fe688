package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dottormarmitta/FutureExchange/internal/api/rest"
	"github.com/dottormarmitta/FutureExchange/internal/book"
	"github.com/dottormarmitta/FutureExchange/internal/config"
	"github.com/dottormarmitta/FutureExchange/internal/infra/http/middleware"
	"github.com/dottormarmitta/FutureExchange/internal/infra/log"
	"github.com/dottormarmitta/FutureExchange/internal/infra/metrics"
	"github.com/dottormarmitta/FutureExchange/internal/infra/netutil"
	"github.com/dottormarmitta/FutureExchange/internal/infra/runner"
	"github.com/dottormarmitta/FutureExchange/internal/infra/version"
)

func main() {
	cfg, err := config.Load()
	logger := log.NewLogger(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger, session := log.WithSession(logger)

	registry := metrics.Init(logger)
	api := rest.New(cfg.Output.PricePlaces, cfg.Output.VWAPQty)

	var server *http.Server
	if cfg.Server.Enabled {
		adminCIDRs, err := netutil.ParseCIDRs(cfg.Server.AdminAllowCIDRs)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid admin allowlist")
		}
		// admin endpoints (metrics, pprof) behind IP allowlist gate
		api.Handle("/metrics", middleware.AdminGate(adminCIDRs, metrics.Handler(registry)))
		api.Handle("/version", http.HandlerFunc(version.Handler))
		if cfg.Server.Pprof {
			api.Handle("/debug/pprof/", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Index)))
			api.Handle("/debug/pprof/cmdline", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Cmdline)))
			api.Handle("/debug/pprof/profile", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Profile)))
			api.Handle("/debug/pprof/symbol", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Symbol)))
			api.Handle("/debug/pprof/trace", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Trace)))
		}
		server = &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           middleware.RequestID(middleware.Logger(logger)(api.Handler())),
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("http server error")
			}
		}()
	}

	logger.Info().
		Str("version", version.Get().Version).
		Str("source", cfg.Session.Source).
		Str("target", cfg.Session.Target).
		Bool("serve", cfg.Server.Enabled).
		Msg("synthetic pricing started")

	g, ctx := runner.WithContext(context.Background())
	pricing := g.Go(ctx, func(ctx context.Context) error {
		b, err := book.Price(cfg, logger, session)
		if err != nil {
			return err
		}
		if err := writeBook(cfg.Output.Path, b.Rows, cfg.Output.PricePlaces); err != nil {
			return err
		}
		s := book.Summarize(b.Rows, cfg.Output.VWAPQty)
		logger.Info().
			Str("output", cfg.Output.Path).
			Float64("best_bid", s.BestBid).
			Float64("best_ask", s.BestAsk).
			Int64("vwap_qty", s.Qty).
			Str("vwap_bid", s.VWAPBid.Round(cfg.Output.PricePlaces).String()).
			Str("vwap_ask", s.VWAPAsk.Round(cfg.Output.PricePlaces).String()).
			Msg("synthetic book written")
		api.SetBook(b)
		return nil
	})

	if server == nil {
		if err := <-pricing; err != nil {
			logger.Error().Err(err).Msg("pricing failed")
			os.Exit(1)
		}
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case s := <-sigCh:
		logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
	case err := <-pricing:
		if err != nil {
			logger.Error().Err(err).Msg("pricing failed")
			exitCode = 1
		} else {
			// keep serving the book until asked to stop
			s := <-sigCh
			logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	_ = g.Wait()
	logger.Info().Msg("shutdown complete")
	if exitCode != 0 {
		cancelShutdown()
		os.Exit(exitCode)
	}
}

// writeBook writes the CSV to path, or to stdout when path is "-".
func writeBook(path string, rows []book.Row, places int32) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := book.WriteCSV(w, rows, places); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
