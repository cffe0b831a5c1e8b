// Package risk assigns static risk flags to proposed transactions.
package risk

import (
	"slices"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// StructuringThreshold is the amount above which a transaction is flagged.
const StructuringThreshold = 9000.0

// Flag reasons.
const (
	ReasonStructuring = "Structuring / High Vol"
	ReasonSanctioned  = "Sanctioned Geo"
)

var sanctioned = []string{"North Korea", "Iran", "Russia"}

// Classify maps a proposed transaction to a flag and reason.
//
// The amount check runs first and the sanctions check second, so a
// sanctioned location always overrides the structuring reason.
func Classify(amount float64, location string) (model.Flag, string) {
	flag, reason := model.FlagClean, model.NoReason

	if amount > StructuringThreshold {
		flag, reason = model.FlagSuspicious, ReasonStructuring
	}
	if IsSanctioned(location) {
		flag, reason = model.FlagSuspicious, ReasonSanctioned
	}

	return flag, reason
}

// IsSanctioned reports whether location exactly matches a sanctioned jurisdiction.
func IsSanctioned(location string) bool {
	return slices.Contains(sanctioned, location)
}

// SanctionedLocations returns a copy of the sanctioned jurisdiction list.
func SanctionedLocations() []string {
	return slices.Clone(sanctioned)
}
