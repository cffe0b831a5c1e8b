package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// KeyPromptModel asks for an API key with masked input.
type KeyPromptModel struct {
	theme    themes.Theme
	provider string
	input    textinput.Model
}

// NewKeyPrompt creates a focused key prompt for provider.
func NewKeyPrompt(provider string, theme themes.Theme) KeyPromptModel {
	input := textinput.New()
	input.Placeholder = "sk-..."
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 256
	input.Width = 48
	input.Focus()

	return KeyPromptModel{
		theme:    theme,
		provider: provider,
		input:    input,
	}
}

// Init starts the cursor blinking.
func (m KeyPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key entry. Enter with an empty value skips the prompt.
func (m KeyPromptModel) Update(msg tea.Msg) (KeyPromptModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			key := strings.TrimSpace(m.input.Value())
			if key == "" {
				return m, func() tea.Msg { return KeySkippedMsg{} }
			}
			return m, func() tea.Msg { return KeyEnteredMsg{Key: key} }
		case "esc":
			return m, func() tea.Msg { return KeySkippedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt.
func (m KeyPromptModel) View() string {
	provider := m.provider
	if provider == "" {
		provider = "LLM"
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Manual Mode"),
		m.theme.Subtitle.Render("No "+provider+" API key is configured. Enter one for this session."),
		"",
		m.input.View(),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[Enter] Use key  [Esc] Continue without AI"),
	)
	return m.theme.RoundedBox.Render(content)
}
