// Command chatdb-init prepares the chat MongoDB database: it creates the
// chats and messages collections, their indexes, and the seed chat with its
// welcome message.
//
// Usage:
//
//	chatdb-init                   Create schema and insert seed documents
//	chatdb-init --schema-only     Create collections and indexes only
//	chatdb-init --verify          Bootstrap, then check the resulting state
//	chatdb-init --verify-only     Check an existing database without writing
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log" // standard log for errors before zap is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chatdb-init/internal/bootstrap"
	"github.com/fathima-sithara/chatdb-init/internal/config"
	"github.com/fathima-sithara/chatdb-init/internal/database"
	"github.com/fathima-sithara/chatdb-init/internal/logger"
	"github.com/fathima-sithara/chatdb-init/internal/metrics"
	"github.com/fathima-sithara/chatdb-init/internal/repository"
	"github.com/fathima-sithara/chatdb-init/internal/ui"
)

// set via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const pushTimeout = 10 * time.Second

type options struct {
	configPath string
	envFile    string
	schemaOnly bool
	verify     bool
	verifyOnly bool
	noColor    bool
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func parseFlags(args []string) (*options, error) {
	var o options
	fs := pflag.NewFlagSet("chatdb-init", pflag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "config.yaml", "Path to YAML config (optional)")
	fs.StringVar(&o.envFile, "env-file", ".env", "Path to .env file (optional)")
	fs.BoolVar(&o.schemaOnly, "schema-only", false, "Create collections and indexes without seed documents")
	fs.BoolVar(&o.verify, "verify", false, "Verify the database after bootstrapping")
	fs.BoolVar(&o.verifyOnly, "verify-only", false, "Verify the database without writing")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable coloured output")
	fs.BoolVar(&o.version, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.schemaOnly && o.verifyOnly {
		return nil, errors.New("--schema-only and --verify-only are mutually exclusive")
	}
	// verification expects the seed documents
	if o.schemaOnly && o.verify {
		return nil, errors.New("--schema-only and --verify are mutually exclusive")
	}
	return &o, nil
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		log.Printf("chatdb-init: %v", err)
		return 1
	}
	if opts.version {
		fmt.Printf("chatdb-init %s (%s)\n", version, commit)
		return 0
	}

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env file %s: %v", opts.envFile, err)
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	base, err := logger.New(logger.Config{Development: cfg.Development(), Level: cfg.Log.Level})
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer func() { _ = base.Sync() }()
	lg := base.With(zap.String("run_id", uuid.NewString()))

	ui.InitColors(opts.noColor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("starting chatdb-init",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Mongo.Database),
	)

	db, client, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.ConnectTimeout, lg.Sugar())
	if err != nil {
		lg.Error("bootstrap aborted", zap.Error(err))
		return 1
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			lg.Error("mongodb disconnect error", zap.Error(err))
		}
	}()

	rec := metrics.New()
	repo := repository.NewRepository(db, cfg.OperationTimeout)
	b := bootstrap.New(repo, lg, bootstrap.WithObserver(rec))

	code := execute(ctx, b, opts, lg, os.Stdout)
	if code == 0 && !opts.verifyOnly {
		rec.MarkSuccess(time.Now())
	}

	if cfg.MetricsEnabled() {
		pctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := rec.Push(pctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			lg.Warn("metrics push failed", zap.String("url", cfg.Metrics.PushgatewayURL), zap.Error(err))
		}
	}
	return code
}

func execute(ctx context.Context, b *bootstrap.Bootstrapper, opts *options, lg *zap.Logger, out io.Writer) int {
	if !opts.verifyOnly {
		do := b.Run
		if opts.schemaOnly {
			do = b.Schema
		}
		res, err := do(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				lg.Error("bootstrap failed: database already holds seed data or duplicate chat_id values", zap.Error(err))
			} else {
				lg.Error("bootstrap failed", zap.Error(err))
			}
			return 1
		}
		ui.PrintResult(out, res)
		lg.Info("bootstrap complete", zap.Strings("steps", res.Steps), zap.Duration("duration", res.Duration))
	}

	if !opts.verify && !opts.verifyOnly {
		return 0
	}
	rep, err := b.Verify(ctx)
	if err != nil {
		lg.Error("verification failed", zap.Error(err))
		return 1
	}
	if !ui.PrintReport(out, rep) {
		return 1
	}
	return 0
}
