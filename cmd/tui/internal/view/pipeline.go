package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/workflow"
)

type pipelineState int

const (
	pipelineStateBrowse pipelineState = iota
	pipelineStateDecision
)

// stageFilters are cycled with the s key; nil means all stages.
var stageFilters = []*loan.Stage{
	nil,
	stagePtr(loan.StageSubmitted),
	stagePtr(loan.StageUnderwriting),
	stagePtr(loan.StageConditional),
	stagePtr(loan.StageClearToClose),
}

func stagePtr(s loan.Stage) *loan.Stage { return &s }

var stageFilterLabels = []string{"All", "Submitted", "Underwriting", "Conditional", "Clear to Close"}

// PipelineModel shows the origination pipeline and lets an underwriter
// record a decision on the selected loan.
type PipelineModel struct {
	CommonModel
	loanService *loan.Service
	orch        *workflow.Orchestrator

	state pipelineState
	table table.Model
	apps  []*loan.Application
	form  *huh.Form

	stageFilterIdx int
	filter         loan.ListFilter
	loading        bool
	err            error
	status         string

	// Form bindings
	formDecision  string
	formCondition string
}

func NewPipelineModel(loanSvc *loan.Service, orch *workflow.Orchestrator) PipelineModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Borrower", Width: 24},
		{Title: "Stage", Width: 20},
		{Title: "Status", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Decision", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return PipelineModel{
		loanService: loanSvc,
		orch:        orch,
		table:       t,
		filter:      loan.ListFilter{},
	}
}

func (m PipelineModel) Title() string { return "Pipeline" }
func (m PipelineModel) ShortHelp() string {
	if m.state == pipelineStateDecision {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | d: record decision | s: stage filter | r: refresh"
}

func (m PipelineModel) Init() tea.Cmd {
	return m.loadAppsCmd()
}

func (m PipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPipelineMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.apps = msg.apps
		m.refreshTable()
		return m, nil

	case decisionSavedMsg:
		m.state = pipelineStateBrowse
		m.form = nil
		m.table.Focus()
		m.status = decisionStatusLine(msg.result)
		return m, m.loadAppsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case pipelineStateBrowse:
		return m.updateBrowse(msg)
	case pipelineStateDecision:
		return m.updateDecision(msg)
	}

	return m, nil
}

func (m PipelineModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadAppsCmd()
		case "s":
			m.stageFilterIdx = (m.stageFilterIdx + 1) % len(stageFilters)
			m.filter.Stage = stageFilters[m.stageFilterIdx]
			return m, m.loadAppsCmd()
		case "d":
			return m.enterDecisionMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PipelineModel) enterDecisionMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.apps) {
		return m, nil
	}

	m.formDecision = string(loan.DecisionApproved)
	m.formCondition = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("decision").
				Title("Decision").
				Options(
					huh.NewOption("Approved", string(loan.DecisionApproved)),
					huh.NewOption("Conditional", string(loan.DecisionConditional)),
					huh.NewOption("Rejected", string(loan.DecisionRejected)),
				).
				Value(&m.formDecision),

			huh.NewInput().
				Key("condition").
				Title("Condition (conditional only)").
				Placeholder("Updated bank statement covering 60 days").
				Value(&m.formCondition),
		),
	).WithWidth(52).WithShowHelp(false)

	m.state = pipelineStateDecision
	m.table.Blur()
	return m, m.form.Init()
}

func (m PipelineModel) updateDecision(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = pipelineStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveDecisionCmd()
}

func (m PipelineModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pipeline...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Stage: %s", activeStyle(stageFilterLabels[m.stageFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == pipelineStateDecision && m.form != nil {
		borrower := ""
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.apps) {
			borrower = m.apps[idx].Borrower.FullName
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(56).
			Render(
				fmt.Sprintf("Record Decision\n\nBorrower: %s\n\n%s", borrower, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *PipelineModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, app := range m.apps {
		decision := "-"
		if app.Decision != nil {
			decision = string(*app.Decision)
		}

		rows = append(rows, table.Row{
			FormatDate(app.CreatedAt),
			app.Borrower.FullName,
			string(app.Stage),
			string(app.Status),
			FormatMoney(app.Terms.Amount),
			decision,
		})
	}
	m.table.SetRows(rows)
}

func decisionStatusLine(res workflow.Result) string {
	if res.Error != nil {
		return fmt.Sprintf("Error recording decision: %v", res.Error)
	}

	if res.NextStage != nil {
		return fmt.Sprintf("Decision recorded, loan moved to %s", *res.NextStage)
	}

	return "Decision recorded"
}

// Messages

type loadPipelineMsg struct {
	apps []*loan.Application
	err  error
}

func (m PipelineModel) loadAppsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apps, err := m.loanService.List(ctx, m.filter)
		return loadPipelineMsg{apps: apps, err: err}
	}
}

type decisionSavedMsg struct {
	result workflow.Result
}

func (m PipelineModel) saveDecisionCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.apps) {
		return nil
	}

	app := m.apps[idx]
	decision := loan.Decision(m.formDecision)

	var conditions []loan.Condition
	if decision == loan.DecisionConditional && strings.TrimSpace(m.formCondition) != "" {
		conditions = append(conditions, loan.Condition{
			Type:        loan.ConditionPriorToClosing,
			Description: strings.TrimSpace(m.formCondition),
		})
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return decisionSavedMsg{result: m.orch.OnUnderwritingDecision(ctx, app.ID, decision, conditions)}
	}
}
