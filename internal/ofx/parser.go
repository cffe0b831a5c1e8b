// Package ofx imports bank and card statements in OFX/QFX format as
// monitored transactions.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// ErrMissingOwner is returned when an import has no user to attribute rows to.
var ErrMissingOwner = errors.New("import requires a user")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Options attributes imported rows, since statements carry neither.
type Options struct {
	User     string
	Location string
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be INFO, WARN or ERROR
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare opening tag
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file into unclassified transactions in file order.
// Credits become deposits and debits become withdrawals at their absolute amount.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, opts Options) ([]model.Transaction, error) {
	if strings.TrimSpace(opts.User) == "" {
		return nil, ErrMissingOwner
	}

	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts, skipped int

	collect := func(list *ofxgo.TransactionList, accountID string) error {
		if list == nil {
			return nil
		}
		for _, ofxTx := range list.Transactions {
			if err := ctx.Err(); err != nil {
				return err
			}
			tx, ok := p.convertTransaction(ofxTx, opts)
			if !ok {
				skipped++
				slog.Debug("Skipping zero-amount OFX transaction",
					"account", accountID,
					"fitid", ofxTx.FiTID)
				continue
			}
			transactions = append(transactions, tx)
		}
		return nil
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if err := collect(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID)); err != nil {
				return nil, err
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if err := collect(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID)); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"skipped", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction maps an OFX row to a transaction. Rows with a zero
// amount are reported as not ok.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, opts Options) (model.Transaction, bool) {
	// TrnAmt is a big.Rat; OFX uses negative amounts for debits
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount == 0 {
		return model.Transaction{}, false
	}

	txnType := model.TypeDeposit
	if amount < 0 {
		txnType = model.TypeWithdrawal
		amount = -amount
	}

	return model.Transaction{
		ID:       model.TransactionIDPrefix + strings.TrimSpace(string(ofxTx.FiTID)),
		User:     opts.User,
		Amount:   amount,
		Type:     txnType,
		Location: opts.Location,
	}, true
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			accounts = append(accounts, string(id))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}
