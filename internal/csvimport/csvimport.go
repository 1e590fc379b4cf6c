// Package csvimport turns raw CSV text from bank and card exports into
// expense rows without a caller-provided schema.
//
// Column roles are inferred by case-insensitive substring matching on the
// header row, because column names vary wildly across export formats. The
// parser is deliberately permissive: malformed rows are dropped silently,
// never failing the whole import. It intentionally does not use
// encoding/csv: quote characters are stripped globally and embedded
// delimiters are not supported, matching the import behavior clients
// already rely on.
package csvimport

import (
	"strings"

	"expenses/internal/core"
)

// Row is one successfully parsed transaction, not yet stamped with an id,
// owner, or creation time.
type Row struct {
	Amount      core.Amount
	Description string
	Date        string
	Category    string
}

// columns holds the inferred position of each semantic role, -1 if the
// header has no matching column. When several headers match the same role
// the last one wins.
type columns struct {
	amount      int
	description int
	date        int
	category    int
}

// Parse splits the raw text into rows and emits every row that carries a
// nonzero amount, a description, and a date. Amounts are normalized to
// their absolute value. A row with fewer fields than the header, or whose
// amount does not parse as a number, is dropped without diagnostics.
//
// Known quirk, kept for compatibility: a legitimately zero-amount
// transaction is indistinguishable from a missing amount and is dropped.
func Parse(data string) []Row {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	header := splitFields(lines[0])
	cols := inferColumns(header)

	var out []Row
	for _, line := range lines[1:] {
		values := splitFields(line)
		if len(values) < len(header) {
			continue
		}
		if row, ok := buildRow(cols, values); ok {
			out = append(out, row)
		}
	}
	return out
}

func inferColumns(header []string) columns {
	cols := columns{amount: -1, description: -1, date: -1, category: -1}
	for i, h := range header {
		l := strings.ToLower(h)
		if strings.Contains(l, "amount") || strings.Contains(l, "debit") || strings.Contains(l, "withdrawal") {
			cols.amount = i
		}
		if strings.Contains(l, "description") || strings.Contains(l, "merchant") || strings.Contains(l, "payee") {
			cols.description = i
		}
		if strings.Contains(l, "date") {
			cols.date = i
		}
		if strings.Contains(l, "category") || strings.Contains(l, "type") {
			cols.category = i
		}
	}
	return cols
}

func buildRow(cols columns, values []string) (Row, bool) {
	var row Row
	if v := fieldAt(values, cols.amount); v != "" {
		if a, err := core.ParseAmount(v); err == nil {
			row.Amount = a
		}
		// Unparseable amounts stay zero and drop the row below.
	}
	row.Description = fieldAt(values, cols.description)
	row.Date = fieldAt(values, cols.date)
	row.Category = fieldAt(values, cols.category)
	if row.Category == "" {
		row.Category = core.ImportedCategory
	}

	if row.Amount.IsZero() || row.Description == "" || row.Date == "" {
		return Row{}, false
	}
	row.Amount = row.Amount.Abs()
	return row, true
}

func fieldAt(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

// splitFields splits on commas and strips surrounding whitespace plus every
// double-quote character from each field.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), `"`, "")
	}
	return parts
}
