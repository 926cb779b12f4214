package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/expenseops/receipt-relay/internal/common"
	"github.com/expenseops/receipt-relay/internal/extract"
	"github.com/expenseops/receipt-relay/internal/notify"
	"github.com/expenseops/receipt-relay/internal/pipeline"
	"github.com/expenseops/receipt-relay/internal/repository"
	"github.com/expenseops/receipt-relay/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env (.env is optional, real env always wins)
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration: %v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("DB_URL env var is required")
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Internal packages log through slog.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// DB pool + schema
	if err := repository.Migrate(cfg.Database.DSN, slogger); err != nil {
		log.Fatalf("applying migrations: %v", err)
	}
	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating DB pool: %v", err)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, slogger); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK")

	// Collaborators
	store := repository.NewPostgresStore(pool, cfg.Database.Table, slogger)
	extractor := extract.NewClient(extract.ClientConfig{
		BaseURL: cfg.Extraction.BaseURL,
		APIKey:  cfg.Extraction.APIKey,
		Timeout: cfg.Extraction.Timeout,
	}, slogger)
	notifier := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:      cfg.Mail.SMTPHost,
		Port:      cfg.Mail.SMTPPort,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		Sender:    cfg.Mail.Sender,
		Recipient: cfg.Mail.Recipient,
	}, slogger)

	processor := pipeline.NewProcessor(slogger, extractor, store, notifier)

	// HTTP server
	e := server.New(server.NewHandler(processor, logger))
	go func() {
		if err := e.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()
	log.Infof("http serving on %s", cfg.Server.HTTPAddr)

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
