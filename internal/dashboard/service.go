// Package dashboard implements the interaction handlers behind the compliance
// dashboard. Each handler performs one user action against the stores and the
// advisory client and returns an explicit result; the UI layer only renders.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/risk"
	"github.com/Veraticus/compliance-sentinel/internal/rules"
	"github.com/Veraticus/compliance-sentinel/internal/service"
)

// Transaction id tokens are drawn from [minIDToken, maxIDToken].
const (
	minIDToken = 10000
	maxIDToken = 99999
)

// Advisor produces compliance commentary.
type Advisor interface {
	AnalyzeBehavior(ctx context.Context, txn model.Transaction, customer model.Customer) (advisory.Advice, error)
	AnalyzeRegulation(ctx context.Context, news, snapshot string) (advisory.Advice, error)
	HasCredential() bool
	SetAPIKey(apiKey string)
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used for ids and simulation.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// Service wires the stores, rule resolver and advisory client together.
type Service struct {
	txns     service.TransactionStore
	rules    service.RuleStore
	advisor  Advisor
	resolver *rules.Resolver
	rng      *rand.Rand
}

// New creates a dashboard service.
func New(txns service.TransactionStore, ruleStore service.RuleStore, advisor Advisor, opts ...Option) *Service {
	s := &Service{
		txns:     txns,
		rules:    ruleStore,
		advisor:  advisor,
		resolver: rules.NewResolver(ruleStore),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), // #nosec G404 -- demo ids
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize prepares both stores.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.txns.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize transaction store: %w", err)
	}
	if err := s.rules.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize rule store: %w", err)
	}
	return nil
}

// Overview is the state rendered on every refresh.
type Overview struct {
	Transactions []model.Transaction
	Rules        []model.Rule
	Total        int
	Suspicious   int
}

// Overview reads both stores.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	txns, err := s.txns.ListAll(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	ruleList, err := s.rules.ListAll(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load rules: %w", err)
	}

	ov := Overview{
		Transactions: txns,
		Rules:        ruleList,
		Total:        len(txns),
	}
	for _, txn := range txns {
		if txn.IsSuspicious() {
			ov.Suspicious++
		}
	}
	return ov, nil
}

// InjectRequest is a manually entered transaction.
type InjectRequest struct {
	User     string
	Location string
	Amount   float64
}

// Inject classifies and stores a manual transfer under a fresh id.
func (s *Service) Inject(ctx context.Context, req InjectRequest) (model.Transaction, error) {
	txn := model.Transaction{
		ID:       s.newID(),
		User:     req.User,
		Amount:   req.Amount,
		Type:     model.TypeTransfer,
		Location: req.Location,
	}
	return s.record(ctx, txn)
}

// ImportTransactions classifies and stores txns in order. It stops at the
// first failure and reports how many were stored before it.
func (s *Service) ImportTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	for i, txn := range txns {
		if _, err := s.record(ctx, txn); err != nil {
			return i, fmt.Errorf("import stopped at %s: %w", txn.ID, err)
		}
	}
	return len(txns), nil
}

func (s *Service) record(ctx context.Context, txn model.Transaction) (model.Transaction, error) {
	txn.Flag, txn.Reason = risk.Classify(txn.Amount, txn.Location)

	stored, err := s.txns.Append(ctx, txn)
	if err != nil {
		return model.Transaction{}, err
	}

	slog.Info("Transaction recorded",
		"id", stored.ID,
		"user", stored.User,
		"amount", stored.Amount,
		"location", stored.Location,
		"flag", stored.Flag,
		"reason", stored.Reason)
	return stored, nil
}

// BehaviorReport is the outcome of analyzing one transaction.
type BehaviorReport struct {
	Transaction model.Transaction
	Customer    model.Customer
	Advice      advisory.Advice
}

// AnalyzeTransaction asks the advisor about txn using the owner's profile.
// Unknown users fall back to the placeholder profile. The returned error is
// the advisory outcome; the report is always populated with the inputs.
func (s *Service) AnalyzeTransaction(ctx context.Context, txn model.Transaction) (BehaviorReport, error) {
	report := BehaviorReport{
		Transaction: txn,
		Customer:    model.LookupCustomer(txn.User),
	}
	advice, err := s.advisor.AnalyzeBehavior(ctx, txn, report.Customer)
	report.Advice = advice
	return report, err
}

// AnalyzeByID loads a transaction and analyzes it.
func (s *Service) AnalyzeByID(ctx context.Context, id string) (BehaviorReport, error) {
	txn, err := s.txns.Get(ctx, id)
	if err != nil {
		return BehaviorReport{}, err
	}
	return s.AnalyzeTransaction(ctx, *txn)
}

// AssessImpact compares regulatory news against a snapshot of current rules.
func (s *Service) AssessImpact(ctx context.Context, news string) (advisory.Advice, error) {
	ruleList, err := s.rules.ListAll(ctx)
	if err != nil {
		return advisory.Advice{}, fmt.Errorf("failed to load rules: %w", err)
	}
	return s.advisor.AnalyzeRegulation(ctx, news, advisory.SnapshotRules(ruleList))
}

// UpdateRequest is an Auto-Update action.
type UpdateRequest struct {
	Text             string
	SelectedCategory string
}

// UpdateRule writes regulatory text into the resolved rule category.
func (s *Service) UpdateRule(ctx context.Context, req UpdateRequest) (rules.Result, error) {
	return s.resolver.Apply(ctx, req.Text, req.SelectedCategory)
}

// HasCredential reports whether advisory actions will reach a provider.
func (s *Service) HasCredential() bool {
	return s.advisor.HasCredential()
}

// SetAPIKey supplies a credential for the rest of the session.
func (s *Service) SetAPIKey(apiKey string) {
	s.advisor.SetAPIKey(apiKey)
}

func (s *Service) newID() string {
	return model.FormatTransactionID(minIDToken + s.rng.IntN(maxIDToken-minIDToken+1))
}
