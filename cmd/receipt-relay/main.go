package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/expenseops/receipt-relay/internal/common"
	"github.com/expenseops/receipt-relay/internal/export"
	"github.com/expenseops/receipt-relay/internal/extract"
	"github.com/expenseops/receipt-relay/internal/notify"
	"github.com/expenseops/receipt-relay/internal/pipeline"
	"github.com/expenseops/receipt-relay/internal/repository"
	"github.com/expenseops/receipt-relay/internal/trigger"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		bucket = flag.String("bucket", "", "source bucket of the document (required)")
		key    = flag.String("key", "", "object key of the document (required)")
		sqlite = flag.String("sqlite", "", "process against a local SQLite file instead of DB_URL")
		out    = flag.String("out", "", "also export the processed receipt as XLSX to this path")
	)
	flag.Parse()

	if *bucket == "" || *key == "" {
		printError("Error: --bucket and --key are required\n")
		os.Exit(1)
	}

	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg, *sqlite, logger)
	if err != nil {
		printError("Error: opening store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	extractor := extract.NewClient(extract.ClientConfig{
		BaseURL: cfg.Extraction.BaseURL,
		APIKey:  cfg.Extraction.APIKey,
		Timeout: cfg.Extraction.Timeout,
	}, logger)
	notifier := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:      cfg.Mail.SMTPHost,
		Port:      cfg.Mail.SMTPPort,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		Sender:    cfg.Mail.Sender,
		Recipient: cfg.Mail.Recipient,
	}, logger)

	processor := pipeline.NewProcessor(logger, extractor, store, notifier)
	res, err := processor.Process(ctx, trigger.Source{Bucket: *bucket, Key: *key})
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if *out != "" {
		b, err := export.ReceiptXLSX(res.Record)
		if err != nil {
			printError("Error: exporting XLSX: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, b, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		logger.Info("exported receipt workbook", "path", *out)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}

func openStore(ctx context.Context, cfg *common.Config, sqlitePath string, logger *slog.Logger) (repository.ReceiptStore, func(), error) {
	if sqlitePath != "" || cfg.Database.DSN == "" {
		if sqlitePath == "" {
			sqlitePath = "receipts.db"
		}
		db, err := repository.OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLiteStore(ctx, db, cfg.Database.Table, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}

	if err := repository.Migrate(cfg.Database.DSN, logger); err != nil {
		return nil, nil, err
	}
	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresStore(pool, cfg.Database.Table, logger), pool.Close, nil
}
