package csvparse

import "strings"

// Format ids.
const (
	FormatAuto    = "auto"
	FormatCorning = "corning_cu"
	FormatVisions = "visions_cu"
	FormatGeneric = "generic"
)

// BankFormat describes a known bank CSV dialect: which columns hold the
// date/amount/description and what date layout the bank emits. The set is
// fixed at build time.
type BankFormat struct {
	ID               string
	Name             string
	DateColumn       string
	AltDateColumns   []string
	AmountColumn     string
	AltAmountColumns []string
	DescColumn       string
	AltDescColumns   []string
	DateLayout       string
}

var bankFormats = []BankFormat{
	{
		ID:               FormatCorning,
		Name:             "Corning Credit Union",
		DateColumn:       "Date",
		AltDateColumns:   []string{"Transaction Date", "Posted Date", "Posting Date"},
		AmountColumn:     "Amount",
		AltAmountColumns: []string{"Transaction Amount"},
		DescColumn:       "Description",
		AltDescColumns:   []string{"Memo", "Transaction Description"},
		DateLayout:       "1/2/2006",
	},
	{
		ID:               FormatVisions,
		Name:             "Visions Credit Union",
		DateColumn:       "Date",
		AltDateColumns:   []string{"Trans Date", "Posted Date", "Transaction Date"},
		AmountColumn:     "Amount",
		AltAmountColumns: []string{"Transaction Amount", "Debit", "Credit"},
		DescColumn:       "Description",
		AltDescColumns:   []string{"Memo", "Payee", "Transaction Description"},
		DateLayout:       "1/2/2006",
	},
	{
		ID:               FormatGeneric,
		Name:             "Generic CSV",
		DateColumn:       "Date",
		AltDateColumns:   []string{"Transaction Date", "Posted Date", "Trans Date", "Posting Date"},
		AmountColumn:     "Amount",
		AltAmountColumns: []string{"Transaction Amount", "Debit", "Credit"},
		DescColumn:       "Description",
		AltDescColumns:   []string{"Memo", "Payee", "Name"},
		DateLayout:       "2006-01-02",
	},
}

// FormatOption is an entry for the import-form dropdown.
type FormatOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Formats returns the selectable formats in a stable order, auto-detect
// first.
func Formats() []FormatOption {
	opts := []FormatOption{{ID: FormatAuto, Name: "Auto-detect"}}
	for _, f := range bankFormats {
		opts = append(opts, FormatOption{ID: f.ID, Name: f.Name})
	}
	return opts
}

// DetectFormat picks a format id from a header row. Runs only when the
// caller asked for auto-detection.
func DetectFormat(headers []string) string {
	lower := make(map[string]bool, len(headers))
	for _, h := range headers {
		lower[strings.ToLower(strings.TrimSpace(h))] = true
	}

	// Corning CU exports carry check/share columns no other bank uses.
	if lower["check number"] || lower["share id"] {
		return FormatCorning
	}
	// Visions CU exports include running account/balance columns.
	if lower["account"] && lower["balance"] {
		return FormatVisions
	}
	return FormatGeneric
}

func formatFor(id string) BankFormat {
	for _, f := range bankFormats {
		if f.ID == id {
			return f
		}
	}
	return bankFormats[len(bankFormats)-1] // generic
}
