package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/cmd/tui/internal/view"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/aus"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/config"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/database"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	loanStore "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan/store"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/notification"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/workflow"
)

type model struct {
	loanService *loan.Service
	resolver    *document.Resolver
	engine      *underwriting.Engine
	orch        *workflow.Orchestrator

	currentView View

	pipelineView  view.PipelineModel
	checklistView view.ChecklistModel
	evaluateView  view.EvaluateModel
}

type View int

const (
	ViewMenu      View = 0
	ViewPipeline  View = 1
	ViewChecklist View = 2
	ViewEvaluate  View = 3
)

func initialModel() model {
	_ = godotenv.Load()

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

	loanSvc := loan.NewService(loanStore.New(db))
	resolver := document.NewResolver()
	calculator := underwriting.NewCalculator(cfg.Underwriting.AssumedRate)
	engine := underwriting.NewEngine(calculator, underwriting.DefaultPrograms())
	submitter := aus.NewSimulatedSubmitter(engine, aus.NewAuditor(slog.Default()))

	var notifier notification.Gateway
	if cfg.Notify.Endpoint != "" {
		notifier = notification.NewHTTPGateway(cfg.Notify.Endpoint, cfg.Notify.Token)
	}

	orch := workflow.NewOrchestrator(loanSvc, resolver, submitter, notifier, slog.Default())

	return model{
		loanService:   loanSvc,
		resolver:      resolver,
		engine:        engine,
		orch:          orch,
		currentView:   ViewMenu,
		pipelineView:  view.NewPipelineModel(loanSvc, orch),
		checklistView: view.NewChecklistModel(loanSvc, resolver, orch),
		evaluateView:  view.NewEvaluateModel(loanSvc, engine),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPipeline
				m.pipelineView = view.NewPipelineModel(m.loanService, m.orch)

				return m, m.pipelineView.Init()
			case "2":
				m.currentView = ViewChecklist
				m.checklistView = view.NewChecklistModel(m.loanService, m.resolver, m.orch)

				return m, m.checklistView.Init()
			case "3":
				m.currentView = ViewEvaluate
				m.evaluateView = view.NewEvaluateModel(m.loanService, m.engine)

				return m, m.evaluateView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPipeline:
		var newModel tea.Model
		newModel, cmd = m.pipelineView.Update(msg)
		m.pipelineView = newModel.(view.PipelineModel)
	case ViewChecklist:
		var newModel tea.Model
		newModel, cmd = m.checklistView.Update(msg)
		m.checklistView = newModel.(view.ChecklistModel)
	case ViewEvaluate:
		var newModel tea.Model
		newModel, cmd = m.evaluateView.Update(msg)
		m.evaluateView = newModel.(view.EvaluateModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"CMS Origination\n\n" +
				"1. Pipeline\n" +
				"2. Document Checklist\n" +
				"3. Underwriting Evaluation\n\n" +
				"q. Quit",
		)
	case ViewPipeline:
		return m.pipelineView.View()
	case ViewChecklist:
		return m.checklistView.View()
	case ViewEvaluate:
		return m.evaluateView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
