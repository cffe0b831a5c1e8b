package tui

import (
	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/rules"
)

// Data loading messages.
type overviewLoadedMsg struct {
	err      error
	overview dashboard.Overview
}

// Action results. Each one triggers a reload of the overview.
type transactionInjectedMsg struct {
	err error
	txn model.Transaction
}

type behaviorAnalyzedMsg struct {
	err    error
	report dashboard.BehaviorReport
}

type impactAssessedMsg struct {
	err    error
	advice advisory.Advice
}

type ruleUpdatedMsg struct {
	err    error
	result rules.Result
}

// Tab identifies a dashboard tab.
type Tab int

// Tabs.
const (
	TabBehavioral Tab = iota
	TabRegulatory
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabBehavioral:
		return "Behavioral Monitoring"
	case TabRegulatory:
		return "Regulatory Intelligence"
	default:
		return "Unknown"
	}
}
