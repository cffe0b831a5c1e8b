package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/tui/components"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateBrowse State = iota
	StateInject
	StateKeyPrompt
	StateEditDraft
	StateHelp
)

// DB status labels.
const (
	dbOnline  = "Online"
	dbOffline = "Offline"
)

// Model holds the main TUI state.
type Model struct {
	theme        themes.Theme
	ctx          context.Context
	backend      Backend
	lastError    error
	selectedRule *model.Rule
	config       Config
	keymap       KeyMap
	status       string
	analysis     string
	regulatory   string
	dbStatus     string
	draft        dashboard.Draft
	overview     dashboard.Overview
	help         help.Model
	spinner      spinner.Model
	draftInput   textarea.Model
	injectForm   components.InjectFormModel
	keyPrompt    components.KeyPromptModel
	txnTable     components.TransactionTableModel
	ruleTable    components.RuleTableModel
	busy         int
	width        int
	height       int
	tab          Tab
	state        State
	quitting     bool
	ready        bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spin.Style.Foreground(cfg.Theme.Primary)

	draft := dashboard.NextDraft(dashboard.Draft{}, nil)
	input := textarea.New()
	input.ShowLineNumbers = false
	input.CharLimit = 2000
	input.SetHeight(4)
	input.SetValue(draft.Text)

	m := Model{
		ctx:        ctx,
		backend:    cfg.Backend,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		spinner:    spin,
		draft:      draft,
		draftInput: input,
		txnTable:   components.NewTransactionTable(nil, cfg.Theme),
		ruleTable:  components.NewRuleTable(nil, cfg.Theme),
		injectForm: components.NewInjectForm(cfg.Theme),
		dbStatus:   dbOffline,
		width:      cfg.Width,
		height:     cfg.Height,
		state:      StateBrowse,
		tab:        TabBehavioral,
	}

	if m.backend != nil && !m.backend.HasCredential() {
		m.state = StateKeyPrompt
		m.keyPrompt = components.NewKeyPrompt(cfg.Provider, cfg.Theme)
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadOverview()}
	if m.state == StateKeyPrompt {
		cmds = append(cmds, m.keyPrompt.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case overviewLoadedMsg:
		m.handleOverview(msg)
		return m, nil

	case transactionInjectedMsg:
		return m.handleInjected(msg)

	case behaviorAnalyzedMsg:
		m.endAction()
		m.analysis = m.renderAdvice(advisory.Display(msg.report.Advice, msg.err))
		m.logAdvisoryError("behavior", msg.err)
		return m, m.loadOverview()

	case impactAssessedMsg:
		m.endAction()
		m.regulatory = m.renderAdvice(advisory.Display(msg.advice, msg.err))
		m.logAdvisoryError("regulation", msg.err)
		return m, m.loadOverview()

	case ruleUpdatedMsg:
		return m.handleRuleUpdated(msg)

	case components.InjectSubmittedMsg:
		m.state = StateBrowse
		m.beginAction("Injecting transaction...")
		return m, m.injectTransaction(msg.Request)

	case components.FormCanceledMsg:
		m.state = StateBrowse
		return m, nil

	case components.KeyEnteredMsg:
		m.backend.SetAPIKey(msg.Key)
		m.state = StateBrowse
		m.status = "API key set for this session"
		return m, nil

	case components.KeySkippedMsg:
		m.state = StateBrowse
		m.status = "Manual Mode: advisory actions are disabled until a key is entered"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	switch m.state {
	case StateInject:
		return m.renderOverlay(m.injectForm.View())
	case StateKeyPrompt:
		return m.renderOverlay(m.keyPrompt.View())
	case StateHelp:
		return m.renderOverlay(m.renderHelp())
	}
	return m.renderDashboard()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.state {
	case StateInject:
		m.injectForm, cmd = m.injectForm.Update(msg)
		return m, cmd

	case StateKeyPrompt:
		m.keyPrompt, cmd = m.keyPrompt.Update(msg)
		return m, cmd

	case StateEditDraft:
		if msg.Type == tea.KeyEsc {
			m.draftInput.Blur()
			m.draft.Text = m.draftInput.Value()
			m.state = StateBrowse
			return m, nil
		}
		m.draftInput, cmd = m.draftInput.Update(msg)
		return m, cmd

	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit) || msg.Type == tea.KeyEsc {
			m.state = StateBrowse
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab((m.tab + 1) % tabCount)
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadOverview()

	case key.Matches(msg, m.keymap.EnterKey):
		m.state = StateKeyPrompt
		m.keyPrompt = components.NewKeyPrompt(m.config.Provider, m.theme)
		return m, m.keyPrompt.Init()
	}

	if m.tab == TabBehavioral {
		return m.handleBehavioralKey(msg)
	}
	return m.handleRegulatoryKey(msg)
}

func (m Model) handleBehavioralKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Inject):
		m.state = StateInject
		m.injectForm = components.NewInjectForm(m.theme)
		return m, nil

	case key.Matches(msg, m.keymap.Analyze):
		txn, ok := m.txnTable.Selected()
		if !ok || m.busy > 0 {
			return m, nil
		}
		m.beginAction(fmt.Sprintf("Analyzing %s...", txn.ID))
		return m, m.analyzeTransaction(txn)
	}

	var cmd tea.Cmd
	m.txnTable, cmd = m.txnTable.Update(msg)
	return m, cmd
}

func (m Model) handleRegulatoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.EditDraft):
		m.state = StateEditDraft
		return m, m.draftInput.Focus()

	case key.Matches(msg, m.keymap.Assess):
		if m.busy > 0 {
			return m, nil
		}
		m.beginAction("Assessing regulatory impact...")
		return m, m.assessImpact(m.draftInput.Value())

	case key.Matches(msg, m.keymap.AutoUpdate):
		if m.busy > 0 {
			return m, nil
		}
		req := dashboard.UpdateRequest{Text: m.draftInput.Value()}
		if m.selectedRule != nil {
			req.SelectedCategory = m.selectedRule.Category
		}
		m.beginAction("Updating rule database...")
		return m, m.updateRule(req)

	case key.Matches(msg, m.keymap.Unselect):
		m.selectRule(nil)
		return m, nil

	case key.Matches(msg, m.keymap.Up, m.keymap.Down):
		var cmd tea.Cmd
		m.ruleTable, cmd = m.ruleTable.Update(msg)
		if rule, ok := m.ruleTable.Selected(); ok {
			m.selectRule(&rule)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) switchTab(tab Tab) {
	m.tab = tab
	if tab == TabRegulatory {
		m.ruleTable.Focus()
	} else {
		m.ruleTable.Blur()
	}
}

// selectRule changes the selected rule and recomputes the draft.
func (m *Model) selectRule(rule *model.Rule) {
	m.selectedRule = rule
	m.draft.Text = m.draftInput.Value()
	m.draft = dashboard.NextDraft(m.draft, rule)
	m.draftInput.SetValue(m.draft.Text)
}

func (m *Model) handleOverview(msg overviewLoadedMsg) {
	m.ready = true
	if msg.err != nil {
		m.dbStatus = dbOffline
		m.lastError = msg.err
		slog.Error("Failed to load overview", "error", msg.err)
		return
	}

	m.dbStatus = dbOnline
	m.overview = msg.overview
	m.txnTable.SetTransactions(msg.overview.Transactions)
	m.ruleTable.SetRules(msg.overview.Rules)

	// Keep the selection pointing at the reloaded row.
	if m.selectedRule != nil {
		m.selectedRule = findRule(msg.overview.Rules, m.selectedRule.Category)
	}
}

func (m Model) handleInjected(msg transactionInjectedMsg) (tea.Model, tea.Cmd) {
	m.endAction()
	if msg.err != nil {
		m.lastError = fmt.Errorf("inject failed: %w", msg.err)
		return m, m.loadOverview()
	}
	txn := msg.txn
	if txn.IsSuspicious() {
		m.status = fmt.Sprintf("%s flagged Suspicious: %s", txn.ID, txn.Reason)
	} else {
		m.status = fmt.Sprintf("%s recorded as Clean", txn.ID)
	}
	return m, m.loadOverview()
}

func (m Model) handleRuleUpdated(msg ruleUpdatedMsg) (tea.Model, tea.Cmd) {
	m.endAction()
	if msg.err != nil {
		m.lastError = fmt.Errorf("rule update failed: %w", msg.err)
		return m, m.loadOverview()
	}

	result := msg.result
	verb := "updated"
	if result.Created {
		verb = "created"
	}
	m.status = fmt.Sprintf("Rule %q %s", result.Rule.Category, verb)
	m.regulatory = m.renderDiff(result)
	return m, m.loadOverview()
}

func (m *Model) beginAction(status string) {
	m.busy++
	m.status = status
	m.lastError = nil
}

func (m *Model) endAction() {
	if m.busy > 0 {
		m.busy--
	}
	m.status = ""
}

func (m Model) logAdvisoryError(path string, err error) {
	if err == nil || errors.Is(err, advisory.ErrMissingCredential) {
		return
	}
	slog.Warn("Advisory call failed", "path", path, "error", err)
}

func (m Model) renderAdvice(text string) string {
	return m.config.Renderer.Render(text)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	width := max(m.width-4, 40)
	// header, tabs, metrics and the advisory panel take the rest.
	tableHeight := max(m.height-22, 4)

	m.txnTable.Resize(width, tableHeight)
	m.ruleTable.Resize(width, max(tableHeight/2, 4))
	m.draftInput.SetWidth(width)
	m.help.Width = width
}

func findRule(rules []model.Rule, category string) *model.Rule {
	for i := range rules {
		if rules[i].Category == category {
			r := rules[i]
			return &r
		}
	}
	return nil
}
