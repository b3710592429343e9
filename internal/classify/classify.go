// Package classify assigns a cheap heuristic document type from a filename
// and the document's primary text.
package classify

import (
	"strings"

	"github.com/jankiewiet1/circav2-migration/constants"
)

// rule is one (category, keyword set) pair. Rules are evaluated in fixed
// priority order; the first whose keywords match wins. Filename keywords
// are checked for every rule before any content keywords are consulted.
type rule struct {
	category constants.DocumentType
	filename []string
	content  []string
}

var rules = []rule{
	{
		category: constants.FuelReceipt,
		filename: []string{"fuel", "gas", "benzine", "diesel"},
		content:  []string{"fuel", "gasoline", "diesel", "petrol", "pump"},
	},
	{
		category: constants.UtilityBill,
		filename: []string{"electric", "energie", "utility", "strom"},
		content:  []string{"kwh", "electricity", "energy", "meter"},
	},
	{
		category: constants.TravelExpense,
		filename: []string{"travel", "flight", "hotel", "ticket"},
		content:  []string{"flight", "airline", "hotel", "travel"},
	},
	{
		category: constants.PurchaseInvoice,
		filename: []string{"invoice", "factuur", "bill"},
		content:  []string{"invoice", "factuur", "amount due"},
	},
}

// DocumentType classifies a document. Case-insensitive substring matching;
// a filename match in any category beats a content match in any category.
func DocumentType(filename, text string) constants.DocumentType {
	filenameLower := strings.ToLower(filename)
	for _, r := range rules {
		if matchAny(filenameLower, r.filename) {
			return r.category
		}
	}

	textLower := strings.ToLower(text)
	for _, r := range rules {
		if matchAny(textLower, r.content) {
			return r.category
		}
	}

	return constants.OtherDocument
}

func matchAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
