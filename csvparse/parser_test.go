package csvparse

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Generic(t *testing.T) {
	content := `Date,Amount,Description
01/15/2024,-42.50,WALMART #123
01/16/2024,1200.00,PAYCHECK`

	result := Parse([]byte(content), FormatGeneric)

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 2)

	tx1 := result.Transactions[0]
	assert.Equal(t, "2024-01-15", tx1.Date)
	assert.Equal(t, int64(4250), tx1.AmountCents)
	assert.Equal(t, "expense", tx1.Type)
	assert.Equal(t, "WALMART #123", tx1.Payee)
	assert.NotEmpty(t, tx1.Hash)

	tx2 := result.Transactions[1]
	assert.Equal(t, "2024-01-16", tx2.Date)
	assert.Equal(t, int64(120000), tx2.AmountCents)
	assert.Equal(t, "income", tx2.Type)
	assert.Equal(t, "PAYCHECK", tx2.Payee)
}

func TestParse_EmptyDateRowSkipped(t *testing.T) {
	content := `Date,Amount,Description
,42.50,NO DATE HERE
01/16/2024,10.00,OK`

	result := Parse([]byte(content), FormatGeneric)

	// Silently skipped: not an error, not a transaction.
	assert.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "OK", result.Transactions[0].Payee)
}

func TestParse_BadDateIsRowError(t *testing.T) {
	content := `Date,Amount,Description
not-a-date,42.50,BAD ROW
01/16/2024,10.00,GOOD ROW`

	result := Parse([]byte(content), FormatGeneric)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 2")
	assert.Contains(t, result.Errors[0], "not-a-date")
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "GOOD ROW", result.Transactions[0].Payee)
}

func TestParse_MissingColumnAborts(t *testing.T) {
	content := `Date,Description
01/15/2024,WALMART`

	result := Parse([]byte(content), FormatGeneric)

	assert.Empty(t, result.Transactions)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Could not find amount column", result.Errors[0])
}

func TestParse_NoDataRows(t *testing.T) {
	for _, content := range []string{"", "Date,Amount,Description"} {
		result := Parse([]byte(content), FormatAuto)
		assert.Empty(t, result.Transactions)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "File is empty or has no data rows", result.Errors[0])
	}
}

func TestParse_AlternateColumnsAndCase(t *testing.T) {
	content := `posted date,transaction amount,MEMO
01/15/2024,5.00,COFFEE`

	result := Parse([]byte(content), FormatGeneric)

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "COFFEE", result.Transactions[0].Payee)
}

func TestParse_ShortRowSkipped(t *testing.T) {
	content := `Date,Amount,Description
01/15/2024,5.00
01/16/2024,6.00,FULL ROW`

	result := Parse([]byte(content), FormatGeneric)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "FULL ROW", result.Transactions[0].Payee)
}

func TestParse_QuotedFieldsAndLineEndings(t *testing.T) {
	content := "Date,Amount,Description\r\n01/15/2024,-9.99,\"SHOP, WITH COMMA\"\r\n"

	result := Parse([]byte(content), FormatGeneric)

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "SHOP, WITH COMMA", result.Transactions[0].Payee)
}

// A CSV syntax error on one row (a bare quote here) is reported against that
// row; the surrounding rows still parse.
func TestParse_MalformedRowIsRowError(t *testing.T) {
	content := `Date,Amount,Description
01/15/2024,1.00,GOOD ONE
01/16/2024,2.00,BAD "QUOTE
01/17/2024,3.00,GOOD TWO`

	result := Parse([]byte(content), FormatGeneric)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 3")
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "GOOD ONE", result.Transactions[0].Payee)
	assert.Equal(t, "GOOD TWO", result.Transactions[1].Payee)
}

func TestParse_AccountingNegative(t *testing.T) {
	content := `Date,Amount,Description
01/15/2024,(12.34),PARENS VENDOR`

	result := Parse([]byte(content), FormatGeneric)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "expense", result.Transactions[0].Type)
	assert.Equal(t, int64(1234), result.Transactions[0].AmountCents)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
	}{
		{"corning check number", []string{"Date", "Amount", "Description", "Check Number"}, FormatCorning},
		{"corning share id", []string{"Share ID", "Date", "Amount", "Memo"}, FormatCorning},
		{"visions account+balance", []string{"Account", "Date", "Amount", "Description", "Balance"}, FormatVisions},
		{"account without balance is generic", []string{"Account", "Date", "Amount", "Description"}, FormatGeneric},
		{"plain generic", []string{"Date", "Amount", "Description"}, FormatGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.headers))
		})
	}
}

func TestParse_AutoDetect(t *testing.T) {
	content := `Date,Amount,Description,Check Number
01/15/2024,-5.00,CHECK PAYMENT,1001`

	result := Parse([]byte(content), FormatAuto)

	assert.Equal(t, FormatCorning, result.DetectedFormat)
	assert.Equal(t, "Corning Credit Union", result.FormatName)
	require.Len(t, result.Transactions, 1)
}

func TestCleanPayee(t *testing.T) {
	assert.Equal(t, "A B C", CleanPayee("  A   B \t C  "))

	long := strings.Repeat("x", 250)
	cleaned := CleanPayee(long)
	assert.Len(t, cleaned, 200)
	assert.True(t, strings.HasSuffix(cleaned, "..."))
}

// Truncation must land on a rune boundary so a multibyte payee stays valid
// UTF-8.
func TestCleanPayee_MultibyteTruncation(t *testing.T) {
	cleaned := CleanPayee(strings.Repeat("é", 250))

	assert.True(t, utf8.ValidString(cleaned))
	assert.Equal(t, 200, utf8.RuneCountInString(cleaned))
	assert.True(t, strings.HasSuffix(cleaned, "é..."))
}

func TestFingerprint(t *testing.T) {
	base := Fingerprint("2024-01-15", 4250, "WALMART #123")

	// Pure function of the tuple; payee casing/whitespace is normalized.
	assert.Equal(t, base, Fingerprint("2024-01-15", 4250, "  walmart #123 "))

	assert.NotEqual(t, base, Fingerprint("2024-01-16", 4250, "WALMART #123"))
	assert.NotEqual(t, base, Fingerprint("2024-01-15", 4251, "WALMART #123"))
	assert.NotEqual(t, base, Fingerprint("2024-01-15", 4250, "WALMART #124"))
}

func TestFormats(t *testing.T) {
	opts := Formats()
	require.NotEmpty(t, opts)
	assert.Equal(t, FormatAuto, opts[0].ID)

	ids := make(map[string]bool)
	for _, o := range opts {
		ids[o.ID] = true
	}
	assert.True(t, ids[FormatCorning])
	assert.True(t, ids[FormatVisions])
	assert.True(t, ids[FormatGeneric])
}
