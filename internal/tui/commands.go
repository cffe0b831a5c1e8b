package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// Store reads are local; advisory calls wait on a provider.
const (
	storeTimeout    = 10 * time.Second
	advisoryTimeout = 2 * time.Minute
)

var errNoBackend = errors.New("backend not configured")

func (m Model) withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, d)
}

// loadOverview re-reads both stores.
func (m Model) loadOverview() tea.Cmd {
	return func() tea.Msg {
		if m.backend == nil {
			return overviewLoadedMsg{err: errNoBackend}
		}

		ctx, cancel := m.withTimeout(storeTimeout)
		defer cancel()

		overview, err := m.backend.Overview(ctx)
		return overviewLoadedMsg{overview: overview, err: err}
	}
}

// injectTransaction classifies and appends a manual transaction.
func (m Model) injectTransaction(req dashboard.InjectRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout(storeTimeout)
		defer cancel()

		txn, err := m.backend.Inject(ctx, req)
		return transactionInjectedMsg{txn: txn, err: err}
	}
}

// analyzeTransaction runs the behavioral advisory path for txn.
func (m Model) analyzeTransaction(txn model.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout(advisoryTimeout)
		defer cancel()

		report, err := m.backend.AnalyzeTransaction(ctx, txn)
		return behaviorAnalyzedMsg{report: report, err: err}
	}
}

// assessImpact runs the regulatory advisory path for the draft.
func (m Model) assessImpact(news string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout(advisoryTimeout)
		defer cancel()

		advice, err := m.backend.AssessImpact(ctx, news)
		return impactAssessedMsg{advice: advice, err: err}
	}
}

// updateRule applies the draft to the rule store.
func (m Model) updateRule(req dashboard.UpdateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout(storeTimeout)
		defer cancel()

		result, err := m.backend.UpdateRule(ctx, req)
		return ruleUpdatedMsg{result: result, err: err}
	}
}
