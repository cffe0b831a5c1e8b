package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInjectFormDefaults(t *testing.T) {
	form := NewInjectForm(themes.Default)

	req, err := form.Request()
	require.NoError(t, err)
	assert.Equal(t, dashboard.InjectRequest{User: "USER_001", Amount: 10000, Location: "Russia"}, req)
}

func TestInjectFormCyclesUsers(t *testing.T) {
	form := NewInjectForm(themes.Default)

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyRight})
	req, err := form.Request()
	require.NoError(t, err)
	assert.Equal(t, "USER_002", req.User)

	// Wraps around in both directions.
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyLeft})
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyLeft})
	req, err = form.Request()
	require.NoError(t, err)
	assert.Equal(t, "USER_009", req.User)
	assert.Contains(t, form.View(), "Amira Y")
}

func TestInjectFormSubmit(t *testing.T) {
	form := NewInjectForm(themes.Default)

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(InjectSubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, "Russia", msg.Request.Location)
	assert.NoError(t, form.err)
}

func TestInjectFormRejectsBadAmount(t *testing.T) {
	form := NewInjectForm(themes.Default)

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form, _ = form.Update(keyRunes("x"))
	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.EqualError(t, form.err, "amount must be a positive number")
	assert.Contains(t, form.View(), "amount must be a positive number")
}

func TestInjectFormEditsLocation(t *testing.T) {
	form := NewInjectForm(themes.Default)

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	for range len(DefaultInjectLocation) {
		form, _ = form.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	form, _ = form.Update(keyRunes("UK"))

	req, err := form.Request()
	require.NoError(t, err)
	assert.Equal(t, "UK", req.Location)
}

func TestInjectFormCancel(t *testing.T) {
	form := NewInjectForm(themes.Default)

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, FormCanceledMsg{}, cmd())
}

func TestKeyPromptMasksInput(t *testing.T) {
	prompt := NewKeyPrompt("openai", themes.Default)

	prompt, _ = prompt.Update(keyRunes("sk-secret"))
	assert.NotContains(t, prompt.View(), "sk-secret")
	assert.Contains(t, prompt.View(), "openai")

	_, cmd := prompt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, KeyEnteredMsg{Key: "sk-secret"}, cmd())
}

func TestKeyPromptEmptySkips(t *testing.T) {
	prompt := NewKeyPrompt("", themes.Default)

	_, cmd := prompt.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, KeySkippedMsg{}, cmd())
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "TXN_1001", User: "USER_001", Amount: 50, Type: model.TypeWithdrawal, Location: "UK", Flag: model.FlagClean, Reason: model.NoReason},
		{ID: "TXN_1002", User: "USER_002", Amount: 9900, Type: model.TypeTransfer, Location: "Malta", Flag: model.FlagSuspicious, Reason: "Structuring"},
	}
}

func TestTransactionTable(t *testing.T) {
	table := NewTransactionTable(sampleTransactions(), themes.Default)
	assert.Equal(t, 2, table.Len())

	txn, ok := table.Selected()
	require.True(t, ok)
	assert.Equal(t, "TXN_1001", txn.ID)

	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyDown})
	txn, ok = table.Selected()
	require.True(t, ok)
	assert.Equal(t, "TXN_1002", txn.ID)
	assert.Contains(t, table.View(), "TXN_1002")

	// Shrinking the data clamps the cursor.
	table.SetTransactions(sampleTransactions()[:1])
	txn, ok = table.Selected()
	require.True(t, ok)
	assert.Equal(t, "TXN_1001", txn.ID)
}

func TestTransactionTableEmpty(t *testing.T) {
	table := NewTransactionTable(nil, themes.Default)

	_, ok := table.Selected()
	assert.False(t, ok)
	assert.Contains(t, table.View(), "No transactions recorded")
}

func TestRuleTable(t *testing.T) {
	ruleList := []model.Rule{
		{ID: 1, Category: model.CategoryAMLThreshold, Text: "Report over $10,000.", LastUpdated: "2024-01-01"},
		{ID: 2, Category: model.CategorySanctions, Text: "Block sanctioned regions.", LastUpdated: "2024-01-01"},
	}
	table := NewRuleTable(ruleList, themes.Default)
	assert.False(t, table.Focused())

	// Unfocused tables ignore navigation.
	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyDown})
	rule, ok := table.Selected()
	require.True(t, ok)
	assert.Equal(t, model.CategoryAMLThreshold, rule.Category)

	table.Focus()
	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyDown})
	rule, ok = table.Selected()
	require.True(t, ok)
	assert.Equal(t, model.CategorySanctions, rule.Category)
}

func TestRenderMetrics(t *testing.T) {
	out := RenderMetrics(Metrics{Total: 4, Suspicious: 3, DBStatus: "Online"}, themes.Default, 90)

	assert.Contains(t, out, "Total Transactions")
	assert.Contains(t, out, "Suspicious Alerts")
	assert.Contains(t, out, "Online")
}
