package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/compliance-sentinel/internal/llm"
	"github.com/Veraticus/compliance-sentinel/internal/model"
)

type fakeLLM struct {
	err     error
	reply   string
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-1" }

var suspiciousTxn = model.Transaction{
	ID:       "TXN_102",
	User:     "USER_002",
	Amount:   9900,
	Location: "Malta",
	Flag:     model.FlagSuspicious,
	Reason:   "Potential Structuring (<$10k)",
}

// staticFactory returns a factory that hands out provider and counts builds.
func staticFactory(provider *fakeLLM, builds *int) ProviderFactory {
	return func(context.Context, string) (llm.Client, error) {
		*builds++
		return provider, nil
	}
}

func TestMissingCredential(t *testing.T) {
	fake := &fakeLLM{reply: "unused"}
	builds := 0
	client, err := New("  ", staticFactory(fake, &builds))
	require.NoError(t, err)
	assert.False(t, client.HasCredential())

	ctx := context.Background()

	advice, err := client.AnalyzeBehavior(ctx, suspiciousTxn, model.LookupCustomer("USER_002"))
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, "⚠️ API Key Missing.", Display(advice, err))

	advice, err = client.AnalyzeRegulation(ctx, "Crypto news", "id  category")
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, "⚠️ API Key Missing.", Display(advice, err))

	assert.Zero(t, builds, "no provider may be built without a key")
	assert.Empty(t, fake.prompts, "no provider call may be made without a key")
}

func TestSetAPIKey(t *testing.T) {
	fake := &fakeLLM{reply: "analysis"}
	builds := 0
	client, err := New("", staticFactory(fake, &builds))
	require.NoError(t, err)
	defer client.Close()

	client.SetAPIKey("sk-session")
	assert.True(t, client.HasCredential())

	for i := 0; i < 2; i++ {
		_, err = client.AnalyzeBehavior(context.Background(), suspiciousTxn, model.UnknownCustomer)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds, "provider is built once and reused")
	assert.Len(t, fake.prompts, 2)
}

func TestFactoryFailure(t *testing.T) {
	cause := errors.New("unsupported LLM provider: bogus")
	client, err := New("key", func(context.Context, string) (llm.Client, error) {
		return nil, cause
	})
	require.NoError(t, err)

	advice, err := client.AnalyzeRegulation(context.Background(), "news", "")
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Equal(t, cause.Error(), Display(advice, err))
}

func TestAnalyzeBehavior(t *testing.T) {
	fake := &fakeLLM{reply: "Deposit just below the $10k reporting threshold."}
	client, err := New("key", staticFactory(fake, new(int)))
	require.NoError(t, err)

	advice, err := client.AnalyzeBehavior(context.Background(), suspiciousTxn, model.LookupCustomer("USER_002"))
	require.NoError(t, err)
	assert.Equal(t, Advice{Text: fake.reply, Provider: "fake", Model: "fake-1"}, advice)
	assert.Equal(t, fake.reply, Display(advice, nil))

	require.Len(t, fake.prompts, 1)
	want := "Act as Senior AML Officer. Analyze risk:\n" +
		"User: Crypto King ($20000/mo)\n" +
		"Txn: $9900 in Malta\n" +
		"Flag Reason: Potential Structuring (<$10k)\n" +
		"Explain risk concisely."
	assert.Equal(t, want, fake.prompts[0])
}

func TestAnalyzeBehaviorUnknownCustomer(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	client, err := New("key", staticFactory(fake, new(int)))
	require.NoError(t, err)

	_, err = client.AnalyzeBehavior(context.Background(), suspiciousTxn, model.LookupCustomer("USER_404"))
	require.NoError(t, err)
	assert.Contains(t, fake.prompts[0], "User: Unknown ($0/mo)")
}

func TestAnalyzeRegulation(t *testing.T) {
	fake := &fakeLLM{reply: "1. Yes."}
	client, err := New("key", staticFactory(fake, new(int)))
	require.NoError(t, err)

	snapshot := SnapshotRules([]model.Rule{
		{ID: 3, Category: model.CategoryCryptoAssets, Text: "Travel Rule applies to crypto transfers > $3,000.", LastUpdated: "2024-01-15"},
	})
	_, err = client.AnalyzeRegulation(context.Background(), "Lower the Crypto threshold", snapshot)
	require.NoError(t, err)

	prompt := fake.prompts[0]
	assert.Contains(t, prompt, "Act as Regulatory Analyst.\n\nCURRENT DERIV RULES (From Database):\n"+snapshot)
	assert.Contains(t, prompt, "NEW REGULATORY NEWS:\n\"Lower the Crypto threshold\"")
	assert.Contains(t, prompt, "1. Does this conflict with current rules?")
	assert.Contains(t, prompt, "2. Propose exact text update for our database.")
	assert.Contains(t, prompt, "3. Urgency?")
}

func TestCallFailure(t *testing.T) {
	cause := errors.New("OpenAI API error (status 401): invalid key")
	client, err := New("key", staticFactory(&fakeLLM{err: cause}, new(int)))
	require.NoError(t, err)

	advice, err := client.AnalyzeBehavior(context.Background(), suspiciousTxn, model.UnknownCustomer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMissingCredential)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "fake", callErr.Provider)
	assert.Equal(t, cause.Error(), Display(advice, err))
}

func TestDisplayOtherError(t *testing.T) {
	assert.Equal(t, "boom", Display(Advice{}, errors.New("boom")))
}

func TestSnapshotRules(t *testing.T) {
	got := SnapshotRules([]model.Rule{
		{ID: 1, Category: "AML Threshold", Text: "Report cash > $10,000.", LastUpdated: "2024-01-01"},
		{ID: 12, Category: "KYC", Text: "Verify ID.", LastUpdated: "2024-01-02"},
	})
	want := "id  category       rule_text               last_updated\n" +
		"1   AML Threshold  Report cash > $10,000.  2024-01-01\n" +
		"12  KYC            Verify ID.              2024-01-02"
	assert.Equal(t, want, got)
}

func TestSnapshotRulesEmpty(t *testing.T) {
	assert.Equal(t, "id  category  rule_text  last_updated", SnapshotRules(nil))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10000", formatAmount(10000))
	assert.Equal(t, "99.5", formatAmount(99.5))
}
