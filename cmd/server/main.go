package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aegis_admin/internal/auth"
	"aegis_admin/internal/config"
	httpd "aegis_admin/internal/delivery/http"
	"aegis_admin/internal/mockdata"
	"aegis_admin/internal/registration"
	"aegis_admin/internal/repository"
	"aegis_admin/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg := config.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.NewSQLiteRepo(cfg.SQLiteDSN)
	if err != nil {
		log.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	records := mockdata.NewGenerator().Generate(cfg.RecordCount)
	n, seeded, err := repo.EnsureSeeded(ctx, records)
	if err != nil {
		log.Error("seed payments", "error", err)
		os.Exit(1)
	}
	if seeded {
		log.Info("payments seeded", "count", n, "dsn", cfg.SQLiteDSN)
	} else {
		log.Info("payments already seeded", "count", n, "dsn", cfg.SQLiteDSN)
	}

	payments, err := usecase.NewPaymentsUsecase(ctx, repo)
	if err != nil {
		log.Error("init payments", "error", err)
		os.Exit(1)
	}

	session := auth.NewSession(
		auth.StaticVerifier{Identifier: cfg.AdminIdentifier, Secret: cfg.AdminSecret},
		auth.WithLatency(cfg.LoginLatency),
	)

	h := httpd.NewHandler(payments, session, registration.NewValidator(), log)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      h.Routes(cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Error("listen", "addr", srv.Addr, "error", err)
		os.Exit(1)
	}

	log.Info("server listening", "addr", ln.Addr().String())
	if err := serve(ctx, srv, ln, 5*time.Second, log); err != nil {
		log.Error("http server", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// serve runs srv on ln until ctx is done, then waits for in-flight requests
// to drain or for grace to pass.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, log *slog.Logger) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-done; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
