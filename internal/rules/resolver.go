// Package rules resolves which regulation a piece of regulatory text updates
// and applies the update to the rule store.
package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/service"
)

// UpdatedSuffix is appended to every persisted rule update.
const UpdatedSuffix = " (Updated via AI)"

// ErrEmptyText is returned when an update carries no regulatory text.
var ErrEmptyText = errors.New("regulatory text cannot be empty")

// keywordCategories is checked in order; the first keyword found wins.
var keywordCategories = []struct {
	keyword  string
	category string
}{
	{"Crypto", model.CategoryCryptoAssets},
	{"AML", model.CategoryAMLThreshold},
	{"KYC", model.CategoryKYCRequirement},
}

// ResolveCategory picks the rule category an update targets. A selected
// category always wins. Otherwise the first matching keyword decides, and
// text without a keyword resolves to General. Matching is case-sensitive.
func ResolveCategory(text, selected string) string {
	if selected != "" {
		return selected
	}
	for _, kc := range keywordCategories {
		if strings.Contains(text, kc.keyword) {
			return kc.category
		}
	}
	return model.CategoryGeneral
}

// FormatRuleText builds the stored rule text from raw regulatory text.
// The text is stored as entered, with no summarization.
func FormatRuleText(text string) string {
	return text + UpdatedSuffix
}

// Result is the outcome of applying an update.
type Result struct {
	service.UpsertResult
	Diffs []diffmatchpatch.Diff
}

// Diff renders the change from the previous text in inline word-diff form.
func (r Result) Diff() string {
	return FormatDiff(r.Diffs)
}

// Resolver applies regulatory text to the rule store.
type Resolver struct {
	store service.RuleStore
	dmp   *diffmatchpatch.DiffMatchPatch
}

// NewResolver creates a resolver over store.
func NewResolver(store service.RuleStore) *Resolver {
	return &Resolver{
		store: store,
		dmp:   diffmatchpatch.New(),
	}
}

// Apply resolves the target category, formats the text, and upserts it.
func (r *Resolver) Apply(ctx context.Context, text, selected string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}

	category := ResolveCategory(text, selected)
	upserted, err := r.store.Upsert(ctx, category, FormatRuleText(text))
	if err != nil {
		return Result{}, fmt.Errorf("failed to update rule %q: %w", category, err)
	}

	slog.Info("Applied regulatory update",
		"category", category,
		"selected", selected != "",
		"created", upserted.Created)

	return Result{
		UpsertResult: upserted,
		Diffs:        r.diff(upserted.Previous, upserted.Rule.Text),
	}, nil
}

func (r *Resolver) diff(previous, current string) []diffmatchpatch.Diff {
	diffs := r.dmp.DiffMain(previous, current, false)
	return r.dmp.DiffCleanupSemantic(diffs)
}

// FormatDiff renders diffs with deletions as [-text-] and insertions as {+text+}.
func FormatDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
