package model

import "sort"

// RiskProfile is a customer's assigned risk tier.
type RiskProfile string

// Risk tiers.
const (
	RiskLow    RiskProfile = "Low"
	RiskMedium RiskProfile = "Medium"
	RiskHigh   RiskProfile = "High"
)

// Customer is static reference data used to enrich advisory prompts.
type Customer struct {
	Name           string      `json:"name"`
	RiskProfile    RiskProfile `json:"risk_profile"`
	Occupation     string      `json:"occupation"`
	Country        string      `json:"country"`
	DeclaredIncome float64     `json:"declared_income"`
}

// UnknownCustomer is returned for user ids missing from the directory.
var UnknownCustomer = Customer{
	Name:       "Unknown",
	Occupation: "N/A",
	Country:    "Unknown",
}

var customers = map[string]Customer{
	"USER_001": {Name: "John Doe", RiskProfile: RiskLow, DeclaredIncome: 5000, Occupation: "Teacher", Country: "UK"},
	"USER_002": {Name: "Crypto King", RiskProfile: RiskHigh, DeclaredIncome: 20000, Occupation: "Trader", Country: "Malta"},
	"USER_003": {Name: "Jane Smith", RiskProfile: RiskMedium, DeclaredIncome: 8000, Occupation: "Consultant", Country: "Indonesia"},
	"USER_004": {Name: "Nguyen Van", RiskProfile: RiskMedium, DeclaredIncome: 4500, Occupation: "Dev", Country: "Vietnam"},
	"USER_005": {Name: "Chinedu O", RiskProfile: RiskHigh, DeclaredIncome: 15000, Occupation: "Importer", Country: "Nigeria"},
	"USER_006": {Name: "Hans Muller", RiskProfile: RiskLow, DeclaredIncome: 9500, Occupation: "Engineer", Country: "Germany"},
	"USER_007": {Name: "Silva Santos", RiskProfile: RiskMedium, DeclaredIncome: 6000, Occupation: "Artist", Country: "Brazil"},
	"USER_008": {Name: "Kenji Tanaka", RiskProfile: RiskLow, DeclaredIncome: 12000, Occupation: "Manager", Country: "Japan"},
	"USER_009": {Name: "Amira Y", RiskProfile: RiskHigh, DeclaredIncome: 30000, Occupation: "Investor", Country: "UAE"},
}

// LookupCustomer returns the directory entry for user, or UnknownCustomer.
func LookupCustomer(user string) Customer {
	if c, ok := customers[user]; ok {
		return c
	}
	return UnknownCustomer
}

// KnownCustomer reports whether user exists in the directory.
func KnownCustomer(user string) bool {
	_, ok := customers[user]
	return ok
}

// CustomerIDs returns every directory id in sorted order.
func CustomerIDs() []string {
	ids := make([]string, 0, len(customers))
	for id := range customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
