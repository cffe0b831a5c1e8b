package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// Inject form defaults.
const (
	DefaultInjectAmount   = "10000"
	DefaultInjectLocation = "Russia"
)

type injectField int

const (
	fieldUser injectField = iota
	fieldAmount
	fieldLocation
	fieldCount
)

// InjectFormModel collects a manual transaction.
type InjectFormModel struct {
	theme    themes.Theme
	err      error
	users    []string
	amount   textinput.Model
	location textinput.Model
	user     int
	focus    injectField
}

// NewInjectForm creates the form with its defaults filled in.
func NewInjectForm(theme themes.Theme) InjectFormModel {
	amount := textinput.New()
	amount.Prompt = ""
	amount.CharLimit = 12
	amount.SetValue(DefaultInjectAmount)

	location := textinput.New()
	location.Prompt = ""
	location.CharLimit = 32
	location.SetValue(DefaultInjectLocation)

	return InjectFormModel{
		theme:    theme,
		users:    model.CustomerIDs(),
		amount:   amount,
		location: location,
	}
}

// Request validates the form and returns the inject request.
func (m InjectFormModel) Request() (dashboard.InjectRequest, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(m.amount.Value()), 64)
	if err != nil || amount <= 0 {
		return dashboard.InjectRequest{}, errors.New("amount must be a positive number")
	}
	location := strings.TrimSpace(m.location.Value())
	if location == "" {
		return dashboard.InjectRequest{}, errors.New("location is required")
	}
	return dashboard.InjectRequest{
		User:     m.users[m.user],
		Amount:   amount,
		Location: location,
	}, nil
}

// Update handles form input.
func (m InjectFormModel) Update(msg tea.Msg) (InjectFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return FormCanceledMsg{} }

	case "enter":
		req, err := m.Request()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, func() tea.Msg { return InjectSubmittedMsg{Request: req} }

	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	if m.focus == fieldUser {
		switch keyMsg.String() {
		case "right", "l", " ":
			m.user = (m.user + 1) % len(m.users)
		case "left", "h":
			m.user = (m.user + len(m.users) - 1) % len(m.users)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == fieldAmount {
		m.amount, cmd = m.amount.Update(msg)
	} else {
		m.location, cmd = m.location.Update(msg)
	}
	return m, cmd
}

func (m *InjectFormModel) setFocus(field injectField) tea.Cmd {
	m.focus = field
	m.amount.Blur()
	m.location.Blur()
	switch field {
	case fieldAmount:
		return m.amount.Focus()
	case fieldLocation:
		return m.location.Focus()
	}
	return nil
}

// View renders the form.
func (m InjectFormModel) View() string {
	user := m.users[m.user]
	customer := model.LookupCustomer(user)

	lines := []string{
		m.theme.Title.Render("Inject Transaction"),
		"",
		m.field(fieldUser, "User", fmt.Sprintf("◀ %s (%s) ▶", user, customer.Name)),
		m.field(fieldAmount, "Amount", m.amount.View()),
		m.field(fieldLocation, "Location", m.location.View()),
	}
	if m.err != nil {
		lines = append(lines, "", m.theme.StatusError.Render(m.err.Error()))
	}
	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[Tab] Next field  [←→] Cycle user  [Enter] Inject  [Esc] Cancel"))

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m InjectFormModel) field(field injectField, label, value string) string {
	marker := "  "
	labelStyle := m.theme.Subtitle
	if m.focus == field {
		marker = "▸ "
		labelStyle = m.theme.Bold
	}
	return marker + labelStyle.Width(10).Render(label) + value
}
