package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/workflow"
)

// ChecklistModel shows the document checklist of the selected loan and
// can push the missing-documents list to the borrower.
type ChecklistModel struct {
	CommonModel
	loanService *loan.Service
	resolver    *document.Resolver
	orch        *workflow.Orchestrator

	table   table.Model
	apps    []*loan.Application
	loading bool
	err     error
	status  string
}

func NewChecklistModel(loanSvc *loan.Service, resolver *document.Resolver, orch *workflow.Orchestrator) ChecklistModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Borrower", Width: 24},
		{Title: "Stage", Width: 20},
		{Title: "Missing", Width: 8},
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

	return ChecklistModel{
		loanService: loanSvc,
		resolver:    resolver,
		orch:        orch,
		table:       t,
	}
}

func (m ChecklistModel) Title() string { return "Document Checklist" }
func (m ChecklistModel) ShortHelp() string {
	return "Esc: back | n: notify borrower | r: refresh"
}

func (m ChecklistModel) Init() tea.Cmd {
	return m.loadAppsCmd()
}

func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadChecklistMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.apps = msg.apps
		m.refreshTable()
		return m, nil

	case notifySentMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error notifying borrower: %v", msg.err)
			return m, nil
		}
		m.status = notifyStatusLine(msg.result)
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
		case "n":
			return m, m.notifyCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ChecklistModel) View() string {
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

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.apps) {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(60).
			Render(m.checklistPanel(m.apps[idx]))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ChecklistModel) checklistPanel(app *loan.Application) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Checklist: %s\n\n", app.Borrower.FullName)

	for _, req := range m.resolver.Resolve(app) {
		mark := "[ ]"
		if app.HasDocument(req.Type) {
			mark = "[x]"
		}

		optional := ""
		if !req.Required {
			optional = " (optional)"
		}

		fmt.Fprintf(&b, "%s %s%s\n", mark, req.Name, optional)
	}

	if pending := app.PendingConditions(); len(pending) > 0 {
		b.WriteString("\nPending conditions:\n")

		for _, c := range pending {
			fmt.Fprintf(&b, "  - [%s] %s\n", c.Type, c.Description)
		}
	}

	return b.String()
}

func (m *ChecklistModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, app := range m.apps {
		missing := len(m.resolver.Check(app).Missing)

		rows = append(rows, table.Row{
			FormatDate(app.CreatedAt),
			app.Borrower.FullName,
			string(app.Stage),
			fmt.Sprintf("%d", missing),
		})
	}
	m.table.SetRows(rows)
}

func notifyStatusLine(res *workflow.RequestDocumentsResult) string {
	if res == nil {
		return ""
	}

	if len(res.MissingDocuments) == 0 {
		return "Checklist complete, nothing to request"
	}

	channels := make([]string, 0, 2)
	if res.EmailSent {
		channels = append(channels, "email")
	}

	if res.SMSSent {
		channels = append(channels, "sms")
	}

	if len(channels) == 0 {
		return fmt.Sprintf("%d documents missing, no notification channel configured", len(res.MissingDocuments))
	}

	return fmt.Sprintf("Requested %d documents via %s", len(res.MissingDocuments), strings.Join(channels, ", "))
}

// Messages

type loadChecklistMsg struct {
	apps []*loan.Application
	err  error
}

func (m ChecklistModel) loadAppsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apps, err := m.loanService.List(ctx, loan.ListFilter{})
		return loadChecklistMsg{apps: apps, err: err}
	}
}

type notifySentMsg struct {
	result *workflow.RequestDocumentsResult
	err    error
}

func (m ChecklistModel) notifyCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.apps) {
		return nil
	}

	app := m.apps[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.orch.RequestDocuments(ctx, app.ID)
		return notifySentMsg{result: result, err: err}
	}
}
