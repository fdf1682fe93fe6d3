package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/circusagent/internal/cli"
	"github.com/alexanderramin/circusagent/internal/config"
	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/llm"
	"github.com/alexanderramin/circusagent/internal/mail"
	"github.com/alexanderramin/circusagent/internal/outreach"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/alexanderramin/circusagent/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	festivalRepo := repository.NewSQLiteFestivalRepo(database)
	applicationRepo := repository.NewSQLiteApplicationRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire the LLM gateway. A disabled chat client makes every call return a
	// failure marker, so enrichment reports gateway failures and drafting
	// falls back to the template.
	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewSlogObserver(logger)
	}
	var chat llm.ChatClient
	if llmCfg.Enabled {
		chat = llm.NewChatClient(llmCfg, observer)
	}
	searchEnabled := cfg.SearchEnabled || llmCfg.Search.Enabled
	var searcher llm.Searcher
	if searchEnabled {
		gs, err := llm.NewGeminiSearcher(context.Background(), llmCfg, observer)
		if err != nil {
			logger.Warn("web search disabled", "error", err)
			searchEnabled = false
		} else {
			searcher = gs
		}
	}
	// Enrichment and drafting share the backend quota but not the system prompt.
	limiter := llm.NewLimiter(llmCfg.RatePerSec, cfg.EnrichConcurrency)
	gateway := llm.NewGateway(chat, searcher,
		llm.WithLimiter(limiter),
		llm.WithSystemPrompt(enrichment.SystemPrompt),
	)
	emailGateway := llm.NewGateway(chat, nil,
		llm.WithLimiter(limiter),
		llm.WithSystemPrompt(enrichment.EmailSystemPrompt),
	)

	pipeline := enrichment.NewPipeline(gateway,
		enrichment.WithSearch(searchEnabled),
		enrichment.WithTimeout(time.Duration(llmCfg.TaskTimeout(llm.TaskChat)+llmCfg.TaskTimeout(llm.TaskSearch))*time.Millisecond),
		enrichment.WithLogger(logger),
	)

	var mailer mail.Mailer = mail.Disabled{}
	if smtp := cfg.Mail(); smtp.Configured() {
		mailer = mail.NewSMTPMailer(smtp)
	}
	ledger := outreach.NewLedger(uow, festivalRepo, applicationRepo,
		outreach.WithCyclePolicy(cfg.CyclePolicy()),
		outreach.WithMailer(mailer),
		outreach.WithLogger(logger),
	)
	if _, err := ledger.RestampCycles(context.Background()); err != nil {
		return fmt.Errorf("restamping application cycles: %w", err)
	}
	composer := outreach.NewComposer(emailGateway, enrichment.NewPromptBuilder(), cfg.PersonaValue(), logger)

	// Wire services
	observerUC := service.NewLogUseCaseObserver(logger)
	app := &cli.App{
		Festivals:         service.NewFestivalService(festivalRepo),
		Enrich:            service.NewEnrichService(festivalRepo, uow, pipeline, logger, observerUC),
		Import:            service.NewImportService(uow, logger, observerUC),
		Applications:      service.NewApplicationService(ledger, composer, festivalRepo, applicationRepo, observerUC),
		EnrichConcurrency: cfg.EnrichConcurrency,
	}

	// Detect interactive terminal for confirmation prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
