package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Veraticus/compliance-sentinel/internal/rules"
	"github.com/Veraticus/compliance-sentinel/internal/tui/components"
)

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("🛡️ Compliance Sentinel"),
		"",
		m.spinner.View()+" Connecting to compliance databases...",
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderOverlay centers a modal over an empty screen.
func (m Model) renderOverlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderDashboard() string {
	var body string
	if m.tab == TabBehavioral {
		body = m.renderBehavioral()
	} else {
		body = m.renderRegulatory()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("🛡️ Compliance Sentinel")
	mode := m.theme.StatusSuccess.Render("AI Online")
	if m.backend != nil && !m.backend.HasCredential() {
		mode = m.theme.StatusWarning.Render("Manual Mode")
	}

	tabs := make([]string, 0, tabCount)
	for t := TabBehavioral; t < tabCount; t++ {
		style := m.theme.InactiveTab
		if t == m.tab {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title+"  "+mode,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
}

func (m Model) renderBehavioral() string {
	metrics := components.RenderMetrics(components.Metrics{
		Total:      m.overview.Total,
		Suspicious: m.overview.Suspicious,
		DBStatus:   m.dbStatus,
	}, m.theme, m.width)

	detective := m.analysis
	if detective == "" {
		detective = lipgloss.NewStyle().Foreground(m.theme.Muted).
			Render("Select a transaction and press Enter to analyze it.")
	}
	if txn, ok := m.txnTable.Selected(); ok {
		detective = m.theme.Subtitle.Render("Selected: "+txn.ID+" ("+txn.User+")") + "\n" + detective
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		metrics,
		m.theme.Bold.Render("Transaction Ledger"),
		m.txnTable.View(),
		"",
		m.theme.RoundedBox.Width(max(m.width-4, 40)).Render(
			m.theme.Title.Render("🤖 AI Risk Detective")+"\n"+detective),
	)
}

func (m Model) renderRegulatory() string {
	source := "New regulation"
	if m.selectedRule != nil {
		source = "Editing rule: " + m.selectedRule.Category
	}
	if m.state == StateEditDraft {
		source += " (Esc to finish)"
	}

	sections := []string{
		m.theme.Bold.Render("Internal Regulations"),
		m.ruleTable.View(),
		"",
		m.theme.Bold.Render("Regulation Draft") + "  " + m.theme.Subtitle.Render(source),
		m.draftInput.View(),
	}
	if m.regulatory != "" {
		sections = append(sections, "",
			m.theme.RoundedBox.Width(max(m.width-4, 40)).Render(m.regulatory))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.busy > 0:
		return m.spinner.View() + " " + m.status
	case m.status != "":
		return m.theme.StatusInfo.Render(m.status)
	}
	return ""
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	return m.theme.RoundedBox.Render(
		m.theme.Title.Render("Keyboard Shortcuts") + "\n\n" + h.View(m.keymap))
}

// renderDiff shows the rule change inline, deletions struck and insertions underlined.
func (m Model) renderDiff(result rules.Result) string {
	var b strings.Builder
	for _, d := range result.Diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(m.theme.DiffDelete.Render(d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(m.theme.DiffInsert.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	header := fmt.Sprintf("%s  %s", result.Rule.Category, result.Rule.LastUpdated)
	return m.theme.Title.Render(header) + "\n" + b.String()
}
