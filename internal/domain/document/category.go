package document

import "strings"

// Category classifies a policy document.
type Category string

// Known categories.
const (
	CategoryLeave         Category = "Leave"
	CategoryExit          Category = "Exit"
	CategoryCommunication Category = "Communication"
	CategoryReferral      Category = "Referral"
	CategoryBenefits      Category = "Benefits"
	CategoryPoSH          Category = "PoSH"
	CategoryGeneral       Category = "General"
)

// Rule maps a lowercase filename keyword to a category.
type Rule struct {
	Keyword  string
	Category Category
}

// Rules is an ordered keyword table: the first rule whose keyword occurs in the
// lowercased filename wins, otherwise Fallback applies.
type Rules struct {
	Ordered  []Rule
	Fallback Category
}

// DefaultRules is the keyword table used for ingested policy files.
var DefaultRules = Rules{
	Ordered: []Rule{
		{Keyword: "leave", Category: CategoryLeave},
		{Keyword: "exit", Category: CategoryExit},
		{Keyword: "communication", Category: CategoryCommunication},
		{Keyword: "referral", Category: CategoryReferral},
		{Keyword: "benefit", Category: CategoryBenefits},
		{Keyword: "posh", Category: CategoryPoSH},
	},
	Fallback: CategoryGeneral,
}

// Infer returns the category for a filename. It is a pure function of its input.
func (r Rules) Infer(filename string) Category {
	lower := strings.ToLower(filename)
	for _, rule := range r.Ordered {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return r.Fallback
}
