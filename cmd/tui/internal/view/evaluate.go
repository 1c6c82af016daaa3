package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

// EvaluateModel runs the rule engine against the selected loan and
// shows the advisory findings.
type EvaluateModel struct {
	CommonModel
	loanService *loan.Service
	engine      *underwriting.Engine

	table   table.Model
	apps    []*loan.Application
	result  *underwriting.Result
	loading bool
	err     error
}

func NewEvaluateModel(loanSvc *loan.Service, engine *underwriting.Engine) EvaluateModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Borrower", Width: 24},
		{Title: "Type", Width: 14},
		{Title: "Amount", Width: 14},
		{Title: "Stage", Width: 20},
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

	return EvaluateModel{
		loanService: loanSvc,
		engine:      engine,
		table:       t,
	}
}

func (m EvaluateModel) Title() string { return "Underwriting Evaluation" }
func (m EvaluateModel) ShortHelp() string {
	return "Esc: back | enter: evaluate | r: refresh"
}

func (m EvaluateModel) Init() tea.Cmd {
	return m.loadAppsCmd()
}

func (m EvaluateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEvalMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.apps = msg.apps
		m.result = nil
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadAppsCmd()
		case "enter":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.apps) {
				result := m.engine.Evaluate(m.apps[idx])
				m.result = &result
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m EvaluateModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading applications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.result != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(64).
			Render(resultPanel(m.result))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func resultPanel(res *underwriting.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recommendation: %s\n\n", recommendationStyle(res.Recommendation))
	fmt.Fprintf(&b, "DTI: %.2f%%  Front-end: %.2f%%\n", res.Metrics.DTI, res.Metrics.FrontEndDTI)
	fmt.Fprintf(&b, "LTV: %.2f%%  Reserves: %.1f months\n", res.Metrics.LTV, res.Metrics.Reserves)
	fmt.Fprintf(&b, "Housing payment: %s\n", FormatMoney(res.Metrics.HousingPayment))

	if len(res.Findings) > 0 {
		b.WriteString("\nFindings:\n")

		for _, f := range res.Findings {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", f.Status, f.Category, f.Message)
		}
	}

	b.WriteString("\nEligible programs:\n")

	if len(res.EligiblePrograms) == 0 {
		b.WriteString("  none\n")
	}

	for _, p := range res.EligiblePrograms {
		fmt.Fprintf(&b, "  %s (%.3f%%)\n", p.Name, p.Rate)
	}

	return b.String()
}

func recommendationStyle(rec underwriting.Recommendation) string {
	color := lipgloss.Color("42")

	switch rec {
	case underwriting.ReferEligible, underwriting.ReferCaution:
		color = lipgloss.Color("214")
	case underwriting.Ineligible:
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(rec))
}

func (m *EvaluateModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, app := range m.apps {
		rows = append(rows, table.Row{
			FormatDate(app.CreatedAt),
			app.Borrower.FullName,
			string(app.Terms.Type),
			FormatMoney(app.Terms.Amount),
			string(app.Stage),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadEvalMsg struct {
	apps []*loan.Application
	err  error
}

func (m EvaluateModel) loadAppsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apps, err := m.loanService.List(ctx, loan.ListFilter{})
		return loadEvalMsg{apps: apps, err: err}
	}
}
