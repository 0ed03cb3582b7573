package csvparse

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxPayeeLen = 200

// ParsedTransaction is one normalized row from a bank CSV. It lives from
// parse time until the import is confirmed or the staging session expires.
type ParsedTransaction struct {
	Date        string   `json:"date"`         // ISO "2006-01-02"
	AmountCents int64    `json:"amount_cents"` // non-negative magnitude
	Type        string   `json:"type"`         // income | expense
	Payee       string   `json:"payee"`
	Hash        string   `json:"hash"`
	RawRow      []string `json:"raw_row"`
}

// ParseResult carries the parsed rows plus non-fatal per-row errors.
// Structural failures (no data, missing required column) leave Transactions
// empty with the reason in Errors.
type ParseResult struct {
	Transactions   []ParsedTransaction `json:"transactions"`
	Errors         []string            `json:"errors"`
	DetectedFormat string              `json:"detected_format"`
	FormatName     string              `json:"format_name"`
	Headers        []string            `json:"headers"`
}

// Parse turns raw CSV bytes plus a requested format id into normalized
// transactions. Row-level failures accumulate in Errors and never abort the
// whole parse.
func Parse(content []byte, formatID string) *ParseResult {
	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	reader := csv.NewReader(strings.NewReader(normalized))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &ParseResult{Errors: []string{"File is empty or has no data rows"}}
	}
	if err != nil {
		return &ParseResult{Errors: []string{fmt.Sprintf("Failed to read CSV: %v", err)}}
	}

	// Read records one at a time so a malformed row becomes a row-level
	// error instead of failing the whole file.
	type rawRow struct {
		num    int // 1-based, header is row 1
		fields []string
	}
	var rows []rawRow
	var rowErrors []string
	for num := 2; ; num++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", num, err))
			continue
		}
		rows = append(rows, rawRow{num: num, fields: record})
	}

	if len(rows) == 0 && len(rowErrors) == 0 {
		return &ParseResult{Errors: []string{"File is empty or has no data rows"}}
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	if formatID == "" || formatID == FormatAuto {
		formatID = DetectFormat(headers)
	}
	format := formatFor(formatID)

	result := &ParseResult{
		DetectedFormat: formatID,
		FormatName:     format.Name,
		Headers:        headers,
	}

	dateCol := findColumn(headers, format.DateColumn, format.AltDateColumns)
	amountCol := findColumn(headers, format.AmountColumn, format.AltAmountColumns)
	descCol := findColumn(headers, format.DescColumn, format.AltDescColumns)

	if dateCol < 0 {
		result.Errors = append(result.Errors, "Could not find date column")
	}
	if amountCol < 0 {
		result.Errors = append(result.Errors, "Could not find amount column")
	}
	if descCol < 0 {
		result.Errors = append(result.Errors, "Could not find description column")
	}
	if len(result.Errors) > 0 {
		// A missing required column fails the whole file; no partial parse.
		return result
	}

	need := dateCol
	if amountCol > need {
		need = amountCol
	}
	if descCol > need {
		need = descCol
	}
	need++

	result.Errors = append(result.Errors, rowErrors...)

	for _, raw := range rows {
		row, rowNum := raw.fields, raw.num

		if len(row) < need {
			continue // incomplete row
		}

		dateStr := strings.TrimSpace(row[dateCol])
		amountStr := strings.TrimSpace(row[amountCol])
		desc := strings.TrimSpace(row[descCol])

		if dateStr == "" || amountStr == "" {
			continue // empty row, silently skipped
		}

		date, ok := ParseDate(dateStr, format.DateLayout)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid date format '%s'", rowNum, dateStr))
			continue
		}

		cents := ParseSignedAmount(amountStr)
		txType := "income"
		if cents < 0 {
			txType = "expense"
			cents = -cents
		}

		payee := CleanPayee(desc)

		result.Transactions = append(result.Transactions, ParsedTransaction{
			Date:        date,
			AmountCents: cents,
			Type:        txType,
			Payee:       payee,
			Hash:        Fingerprint(date, cents, payee),
			RawRow:      row,
		})
	}

	return result
}

// findColumn locates a column by case-insensitive name, checking the primary
// name then each alternate in listed order. Returns -1 when nothing matches.
func findColumn(headers []string, primary string, alternates []string) int {
	names := append([]string{primary}, alternates...)
	for _, name := range names {
		for i, h := range headers {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

// CleanPayee collapses internal whitespace, trims, and truncates to 200
// characters with an ellipsis. Truncation counts runes so a multibyte payee
// is never cut mid-character.
func CleanPayee(desc string) string {
	cleaned := strings.Join(strings.Fields(desc), " ")
	if runes := []rune(cleaned); len(runes) > maxPayeeLen {
		cleaned = string(runes[:maxPayeeLen-3]) + "..."
	}
	return cleaned
}

// Fingerprint hashes (date, amount_cents, normalized payee) for duplicate
// detection. The same formula runs at parse time and against stored rows;
// changing one side without the other silently breaks duplicate detection.
func Fingerprint(date string, amountCents int64, payee string) string {
	data := fmt.Sprintf("%s|%d|%s", date, amountCents, strings.ToLower(strings.TrimSpace(payee)))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
