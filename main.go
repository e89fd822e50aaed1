package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-ledger/internal/auth"
	"todo-ledger/internal/config"
	"todo-ledger/internal/database"
	"todo-ledger/internal/logging"
	"todo-ledger/internal/router"
	"todo-ledger/internal/todo"
	"todo-ledger/internal/util"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logCloser.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := database.OpenStore(openCtx, cfg.Database)
	cancel()
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store ready", "driver", cfg.Database.Driver)

	secret := cfg.JWT.Secret
	if secret == "" {
		secret, err = util.RandomString(48)
		if err != nil {
			return err
		}
		logger.Warn("jwt.secret not set, using a random secret; tokens will not survive a restart")
	}
	tokens := util.NewTokenManager(secret, cfg.JWT.Issuer, cfg.JWT.TTL(), nil)

	authSvc, err := auth.NewService(st, tokens, cfg.Security.BcryptCost, logger)
	if err != nil {
		return err
	}
	todoSvc := todo.NewService(st, logger)

	r := router.SetupRouter(cfg, router.Deps{Auth: authSvc, Todos: todoSvc, Log: logger})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.WithCORS(cfg.Server, r),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
