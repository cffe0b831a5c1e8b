package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// RuleTableModel shows the internal regulations.
type RuleTableModel struct {
	theme themes.Theme
	rules []model.Rule
	table table.Model
}

// NewRuleTable creates a rule table.
func NewRuleTable(rules []model.Rule, theme themes.Theme) RuleTableModel {
	t := table.New(
		table.WithColumns(ruleColumns(80)),
		table.WithHeight(6),
	)
	t.SetStyles(tableStyles(theme))

	m := RuleTableModel{theme: theme, table: t}
	m.SetRules(rules)
	return m
}

func ruleColumns(width int) []table.Column {
	text := max(width-4-18-12-10, 20)
	return []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Category", Width: 18},
		{Title: "Rule", Width: text},
		{Title: "Updated", Width: 12},
	}
}

// SetRules replaces the rows, keeping the cursor in range.
func (m *RuleTableModel) SetRules(rules []model.Rule) {
	m.rules = rules
	rows := make([]table.Row, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ID, 10),
			r.Category,
			r.Text,
			r.LastUpdated,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rules) {
		m.table.SetCursor(max(len(rules)-1, 0))
	}
}

// Selected returns the rule under the cursor.
func (m RuleTableModel) Selected() (model.Rule, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rules) {
		return model.Rule{}, false
	}
	return m.rules[cursor], true
}

// Focus gives the table keyboard focus.
func (m *RuleTableModel) Focus() { m.table.Focus() }

// Blur removes keyboard focus.
func (m *RuleTableModel) Blur() { m.table.Blur() }

// Focused reports whether the table has focus.
func (m RuleTableModel) Focused() bool { return m.table.Focused() }

// Update handles navigation keys.
func (m RuleTableModel) Update(msg tea.Msg) (RuleTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m RuleTableModel) View() string {
	if len(m.rules) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No rules loaded")
	}
	return m.table.View()
}

// Resize sets the table dimensions.
func (m *RuleTableModel) Resize(width, height int) {
	m.table.SetColumns(ruleColumns(width))
	m.SetRules(m.rules)
	m.table.SetHeight(max(height, 3))
}
