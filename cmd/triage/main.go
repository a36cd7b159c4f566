package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/classify"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/display"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
	"github.com/spec-kit/ticket-triage/internal/store"
)

var (
	interactive = flag.BoolP("interactive", "i", false, "enter ticket content interactively (finish with END)")
	allSamples  = flag.BoolP("all", "a", false, "process the built-in sample tickets")
	serveMode   = flag.Bool("serve", false, "expose the pipeline over HTTP instead of processing input")
	recentFlag  = flag.Int("recent", 0, "recent tickets to display (default DISPLAY_RECENT_LIMIT)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	// The store connection is released on every exit path, including
	// failures anywhere below.
	defer st.Close()

	metrics := observability.NewMetrics()
	runner := pipeline.NewRunner(st, newClassifier(cfg, logger), logger, metrics)

	if *serveMode {
		return serveHTTP(cfg, logger, metrics, runner, st)
	}

	tickets, err := resolveInput(flag.Args())
	if err != nil {
		return err
	}

	last, err := runner.ProcessBatch(ctx, tickets)
	if err != nil {
		return err
	}

	limit := *recentFlag
	if limit <= 0 {
		limit = cfg.Display.RecentLimit
	}
	recent, err := st.FetchRecent(ctx, limit)
	if err != nil {
		return err
	}

	if err := display.Render(os.Stdout, recent, last.TicketID); err != nil {
		return err
	}
	metrics.RecordStage("displayed")
	return nil
}

// newStore connects to Postgres when a DSN is configured and falls
// back to the in-memory store otherwise.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.Postgres.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; using in-memory store")
		return store.NewMemoryStore(logger), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.RunMigrations {
		if err := store.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, err
		}
	}
	return pg, nil
}

// newClassifier builds the OpenAI-compatible client, wrapped in the
// Redis cache when one is configured.
func newClassifier(cfg *config.Config, logger *zap.Logger) classify.Classifier {
	var classifier classify.Classifier = classify.NewOpenAIClassifier(cfg.Classifier)
	if cfg.Redis.Addr != "" {
		client := classify.NewRedisClient(cfg.Redis, logger)
		classifier = classify.NewCachedClassifier(classifier, client, cfg.Redis.CacheTTL(), logger)
	}
	return classifier
}

// resolveInput selects exactly one of the mutually exclusive input
// modes: interactive entry, the fixed sample batch, ticket text from
// the command line, or a single random sample as the default.
func resolveInput(args []string) ([]string, error) {
	switch {
	case *interactive && *allSamples:
		return nil, errors.New("--interactive and --all are mutually exclusive")
	case *interactive:
		ticket, err := readInteractiveTicket()
		if err != nil {
			return nil, err
		}
		return []string{ticket}, nil
	case *allSamples:
		return pipeline.SampleTickets, nil
	case len(args) > 0:
		return []string{strings.Join(args, " ")}, nil
	default:
		return []string{pipeline.RandomSample()}, nil
	}
}

// readInteractiveTicket collects a multi-line ticket body, terminated
// by a line containing only END (case-insensitive) or by EOF.
func readInteractiveTicket() (string, error) {
	fmt.Println("Enter your ticket content (type 'END' on a new line when done):")
	fmt.Println(strings.Repeat("-", 60))

	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	var lines []string
	for {
		line, err := rl.Prompt("")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(line), "END") {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func serveHTTP(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics, runner *pipeline.Runner, st store.Store) error {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st),
		Tickets: handlers.NewTicketsHandler(runner, st, cfg.Display.RecentLimit),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return app.Shutdown()
	}
}
