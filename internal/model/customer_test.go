package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCustomer(t *testing.T) {
	tests := []struct {
		name string
		user string
		want Customer
	}{
		{
			name: "known low risk customer",
			user: "USER_001",
			want: Customer{Name: "John Doe", RiskProfile: RiskLow, DeclaredIncome: 5000, Occupation: "Teacher", Country: "UK"},
		},
		{
			name: "known high risk customer",
			user: "USER_009",
			want: Customer{Name: "Amira Y", RiskProfile: RiskHigh, DeclaredIncome: 30000, Occupation: "Investor", Country: "UAE"},
		},
		{
			name: "unknown user degrades to placeholder",
			user: "USER_999",
			want: UnknownCustomer,
		},
		{
			name: "empty id",
			user: "",
			want: UnknownCustomer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCustomer(tt.user))
		})
	}
}

func TestCustomerIDs(t *testing.T) {
	ids := CustomerIDs()
	assert.Len(t, ids, 9)
	assert.Equal(t, "USER_001", ids[0])
	assert.Equal(t, "USER_009", ids[len(ids)-1])
	for _, id := range ids {
		assert.True(t, KnownCustomer(id), id)
	}
	assert.False(t, KnownCustomer("USER_010"))
}

func TestTransactionHelpers(t *testing.T) {
	assert.Equal(t, "TXN_12345", FormatTransactionID(12345))
	assert.True(t, TypeTransfer.Valid())
	assert.False(t, TransactionType("Refund").Valid())
	assert.True(t, Transaction{Flag: FlagSuspicious}.IsSuspicious())
	assert.False(t, Transaction{Flag: FlagClean}.IsSuspicious())
}
