package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// TransactionTableModel shows the transaction ledger. Suspicious rows are
// highlighted through their flag and reason cells.
type TransactionTableModel struct {
	theme        themes.Theme
	transactions []model.Transaction
	table        table.Model
	width        int
	height       int
}

// NewTransactionTable creates a transaction table.
func NewTransactionTable(transactions []model.Transaction, theme themes.Theme) TransactionTableModel {
	t := table.New(
		table.WithColumns(transactionColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles(theme))

	m := TransactionTableModel{
		theme:  theme,
		table:  t,
		width:  80,
		height: 10,
	}
	m.SetTransactions(transactions)
	return m
}

func transactionColumns(width int) []table.Column {
	// id, user, amount, type, timestamp, location, flag; reason takes the rest.
	fixed := 12 + 10 + 12 + 11 + 17 + 13 + 14
	reason := max(width-fixed-16, 12)
	return []table.Column{
		{Title: "ID", Width: 12},
		{Title: "User", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Type", Width: 11},
		{Title: "Timestamp", Width: 17},
		{Title: "Location", Width: 13},
		{Title: "Flag", Width: 14},
		{Title: "Reason", Width: reason},
	}
}

func tableStyles(theme themes.Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	return s
}

// SetTransactions replaces the rows, keeping the cursor in range.
func (m *TransactionTableModel) SetTransactions(transactions []model.Transaction) {
	m.transactions = transactions
	m.table.SetRows(m.buildRows())
	if cursor := m.table.Cursor(); cursor >= len(transactions) {
		m.table.SetCursor(max(len(transactions)-1, 0))
	}
}

func (m TransactionTableModel) buildRows() []table.Row {
	rows := make([]table.Row, 0, len(m.transactions))
	for _, txn := range m.transactions {
		flag := fmt.Sprintf("%s %s", themes.FlagIcon(txn.Flag), txn.Flag)
		reason := txn.Reason
		if txn.IsSuspicious() {
			flag = m.theme.StatusError.Render(flag)
			reason = m.theme.StatusError.Render(reason)
		}
		rows = append(rows, table.Row{
			txn.ID,
			txn.User,
			fmt.Sprintf("$%.2f", txn.Amount),
			string(txn.Type),
			txn.Timestamp,
			txn.Location,
			flag,
			reason,
		})
	}
	return rows
}

// Selected returns the transaction under the cursor.
func (m TransactionTableModel) Selected() (model.Transaction, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.transactions) {
		return model.Transaction{}, false
	}
	return m.transactions[cursor], true
}

// Len returns the number of rows.
func (m TransactionTableModel) Len() int {
	return len(m.transactions)
}

// Update handles navigation keys.
func (m TransactionTableModel) Update(msg tea.Msg) (TransactionTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m TransactionTableModel) View() string {
	if len(m.transactions) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No transactions recorded")
	}
	return m.table.View()
}

// Resize sets the table dimensions.
func (m *TransactionTableModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(transactionColumns(width))
	m.table.SetRows(m.buildRows())
	m.table.SetHeight(max(height, 3))
}
