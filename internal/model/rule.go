package model

import "time"

// RuleDateLayout is the stored format of Rule.LastUpdated.
const RuleDateLayout = "2006-01-02"

// Rule is one internal regulation, keyed by category.
type Rule struct {
	Category    string `json:"category" yaml:"category"`
	Text        string `json:"rule_text" yaml:"rule_text"`
	LastUpdated string `json:"last_updated" yaml:"last_updated"`
	ID          int64  `json:"id" yaml:"id"`
}

// Well-known rule categories.
const (
	CategoryAMLThreshold   = "AML Threshold"
	CategoryKYCRequirement = "KYC Requirement"
	CategoryCryptoAssets   = "Crypto Assets"
	CategorySanctions      = "Sanctions"
	CategoryGeneral        = "General"
)

// FormatRuleDate renders a time in the stored rule date layout.
func FormatRuleDate(ts time.Time) string {
	return ts.Format(RuleDateLayout)
}
