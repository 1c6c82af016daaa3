package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/aus"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/config"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/database"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	cmsHttp "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http"
	importHandler "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/importcsv"
	loanHandler "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/loan"
	uwHandler "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/underwriting"
	workflowHandler "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/workflow"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	loanStore "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan/store"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/notification"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		loanService   = loan.NewService(loanStore.New(db))
		resolver      = document.NewResolver()
		calculator    = underwriting.NewCalculator(cfg.Underwriting.AssumedRate)
		engine        = underwriting.NewEngine(calculator, underwriting.DefaultPrograms())
		importService = importer.NewService()
	)

	submitter := buildSubmitter(cfg, engine)

	var notifier notification.Gateway
	if cfg.Notify.Endpoint != "" {
		notifier = notification.NewHTTPGateway(cfg.Notify.Endpoint, cfg.Notify.Token)
	}

	orchestrator := workflow.NewOrchestrator(loanService, resolver, submitter, notifier, slog.Default())

	var (
		loansH    = loanHandler.NewHandler(loanService, resolver, orchestrator)
		workflowH = workflowHandler.NewHandler(orchestrator)
		uwH       = uwHandler.NewHandler(loanService, engine)
		importH   = importHandler.NewHandler(importService, loanService)
	)

	router := cmsHttp.New(loansH, workflowH, uwH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "aus_mode", cfg.AUS.Mode)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildSubmitter selects the AUS strategy from config. Remote mode
// falls back to simulated when the integration is not fully configured.
func buildSubmitter(cfg *config.Config, engine *underwriting.Engine) aus.Submitter {
	auditor := aus.NewAuditor(slog.Default())

	if cfg.AUS.Mode == "remote" {
		settings := aus.Settings{
			Endpoint:     cfg.AUS.Endpoint,
			ClientID:     cfg.AUS.ClientID,
			ClientSecret: cfg.AUS.ClientSecret,
		}

		if settings.Configured() {
			return aus.NewRemoteSubmitter(aus.NewSettingsStore(settings), auditor)
		}

		slog.Warn("remote AUS selected but not configured, using simulated submitter")
	}

	return aus.NewSimulatedSubmitter(engine, auditor)
}
