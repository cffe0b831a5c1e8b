package dashboard

import "github.com/Veraticus/compliance-sentinel/internal/model"

// DefaultDraftText pre-fills the regulation draft when nothing else applies.
const DefaultDraftText = "URGENT: New Directive requires lowering Crypto Travel Rule threshold from $3,000 to $1,000 effective immediately."

// Draft is the regulation text being edited on the regulatory tab.
type Draft struct {
	Text string
	// Category is the rule the draft was copied from, if any.
	Category string
}

// NextDraft returns the draft to show after a selection change. A selected
// rule replaces the draft with its text. Without a selection the previous
// draft is kept, and an empty draft falls back to DefaultDraftText.
func NextDraft(prev Draft, selected *model.Rule) Draft {
	if selected != nil {
		return Draft{Text: selected.Text, Category: selected.Category}
	}
	if prev.Text != "" {
		return prev
	}
	return Draft{Text: DefaultDraftText}
}
