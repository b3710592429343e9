package constants

// DocumentType is the heuristic classification of an input document.
type DocumentType string

const (
	FuelReceipt     DocumentType = "fuel_receipt"
	UtilityBill     DocumentType = "utility_bill"
	TravelExpense   DocumentType = "travel_expense"
	PurchaseInvoice DocumentType = "purchase_invoice"
	OtherDocument   DocumentType = "other"
)

// Method identifies which extraction technique produced the primary text.
type Method string

const (
	MethodNative Method = "native"
	MethodOCR    Method = "ocr"
)

// Table sources tag each unified table with the technique that found it.
const (
	SourceNative      = "native"
	SourceTabula      = "tabula"
	SourceCamelot     = "camelot"
	SourceSpreadsheet = "spreadsheet"
)

// GHG Protocol scopes assigned to emission line items.
var GHGScopes = []string{"Scope 1", "Scope 2", "Scope 3"}
