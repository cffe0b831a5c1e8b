package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>9500.00
<FITID>2024012501
<NAME>INCOMING WIRE
</STMTTRN>
<STMTTRN>
<TRNTYPE>OTHER
<DTPOSTED>20240126120000[0:GMT]
<TRNAMT>0.00
<FITID>2024012601
<NAME>BALANCE INQUIRY
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

var testOptions = Options{User: "USER_001", Location: "UK"}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCount int
		wantErr   bool
	}{
		{name: "bank statement", content: sampleBankOFX, wantCount: 3},
		{name: "credit card statement", content: sampleCreditCardOFX, wantCount: 2},
		{name: "invalid content", content: "not an ofx file", wantErr: true},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := parser.ParseFile(context.Background(), strings.NewReader(tt.content), testOptions)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, txns, tt.wantCount)
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	txns, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX), testOptions)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	want := []model.Transaction{
		{ID: "TXN_2024011501", User: "USER_001", Amount: 25.50, Type: model.TypeWithdrawal, Location: "UK"},
		{ID: "TXN_2024012001", User: "USER_001", Amount: 125.00, Type: model.TypeWithdrawal, Location: "UK"},
		{ID: "TXN_2024012501", User: "USER_001", Amount: 9500.00, Type: model.TypeDeposit, Location: "UK"},
	}
	assert.Equal(t, want, txns)

	for _, txn := range txns {
		assert.Empty(t, txn.Flag, "parser must leave classification to the caller")
	}
}

func TestParseCreditCardTransactions(t *testing.T) {
	opts := Options{User: "USER_009", Location: "UAE"}
	txns, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX), opts)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "TXN_CC2024011001", txns[0].ID)
	assert.InDelta(t, 45.99, txns[0].Amount, 0.001)
	assert.Equal(t, model.TypeWithdrawal, txns[0].Type)
	assert.Equal(t, "USER_009", txns[1].User)
	assert.Equal(t, "UAE", txns[1].Location)
}

func TestParseFileRequiresUser(t *testing.T) {
	_, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX), Options{Location: "UK"})
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestParseFileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseFile(ctx, strings.NewReader(sampleBankOFX), testOptions)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leading blank lines",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "mixed case severity",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "missing closing bracket",
			input: "<STMTTRN\n<TRNTYPE>DEBIT",
			want:  "<STMTTRN>\n<TRNTYPE>DEBIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocessOFX(tt.input))
		})
	}
}

func TestGetAccounts(t *testing.T) {
	parser := NewParser()

	accounts, err := parser.GetAccounts(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.GetAccounts(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}
