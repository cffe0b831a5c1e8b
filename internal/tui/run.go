package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/compliance-sentinel/internal/tui/components"
)

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, backend Backend, opts ...Option) error {
	if backend == nil {
		return errNoBackend
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Backend = backend

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(ctx, cfg), programOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// keyPromptProgram runs the key prompt on its own.
type keyPromptProgram struct {
	prompt components.KeyPromptModel
	key    string
	done   bool
}

func (k keyPromptProgram) Init() tea.Cmd { return k.prompt.Init() }

func (k keyPromptProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case components.KeyEnteredMsg:
		k.key = msg.Key
		k.done = true
		return k, tea.Quit
	case components.KeySkippedMsg:
		k.done = true
		return k, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			k.done = true
			return k, tea.Quit
		}
	}
	var cmd tea.Cmd
	k.prompt, cmd = k.prompt.Update(msg)
	return k, cmd
}

func (k keyPromptProgram) View() string {
	if k.done {
		return ""
	}
	return k.prompt.View() + "\n"
}

// PromptAPIKey asks for an API key with masked input. An empty result means
// the user chose to continue without one.
func PromptAPIKey(ctx context.Context, provider string, in io.Reader, out io.Writer) (string, error) {
	cfg := defaultConfig()
	model := keyPromptProgram{prompt: components.NewKeyPrompt(provider, cfg.Theme)}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("key prompt failed: %w", err)
	}
	result, ok := final.(keyPromptProgram)
	if !ok {
		return "", nil
	}
	return result.key, nil
}
