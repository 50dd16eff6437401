// Package csv provides functions for loading the recipients CSV file
package csv

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"mojapay.io/mobile-money/pkg/recipient"
)

// Layout is the column layout of a recipients CSV.
type Layout int

const (
	// Simple is phone,full_name,amount.
	Simple Layout = iota

	// Extended is type_id,valeur_id,currency,amount,full_name as exported
	// by the bulk transfer backend.
	Extended
)

func (l Layout) String() string {
	switch l {
	case Simple:
		return "simple"
	case Extended:
		return "extended"
	default:
		return "unknown"
	}
}

var (
	headerTokens = []string{
		"phone", "name", "amount", "nom", "montant", "telephone", "téléphone",
		"type_id", "valeur_id", "devise", "currency", "full_name", "nom_complet",
	}
	extendedTokens = []string{"type_id", "valeur_id"}

	fieldSep = regexp.MustCompile(`[,;]`)
)

type SkipReason int

const (
	TooFewColumns SkipReason = iota
	MissingPhone
	MissingName
	InvalidAmount
	// SkipReasonMax must remain at the end.
	SkipReasonMax
)

func (r SkipReason) String() string {
	switch r {
	case TooFewColumns:
		return "too few columns"
	case MissingPhone:
		return "missing phone"
	case MissingName:
		return "missing name"
	case InvalidAmount:
		return "invalid amount"
	default:
		return "unknown"
	}
}

type Row struct {
	// Line number in the CSV file
	Line int

	// Recipient parsed from the line
	Recipient recipient.Recipient
}

type Skipped struct {
	Line   int
	Reason SkipReason
}

type Result struct {
	Layout  Layout
	Header  bool
	Rows    []Row
	Skipped []Skipped

	// OverLimit is set when more rows were accepted than the advisory
	// row limit allows.
	OverLimit bool
}

// Recipients returns the accepted recipients in file order.
func (r Result) Recipients() []recipient.Recipient {
	out := make([]recipient.Recipient, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row.Recipient)
	}
	return out
}

// Parse returns the valid recipients in the CSV content. Malformed rows are
// dropped.
func Parse(data []byte) []recipient.Recipient {
	return ParseDetailed(data).Recipients()
}

// ParseDetailed parses the CSV content and reports which lines were skipped
// and why.
func ParseDetailed(data []byte) Result {
	var result Result

	content := strings.TrimSpace(string(data))
	if content == "" {
		return result
	}

	lines := strings.Split(content, "\n")
	start := 0
	if first := strings.ToLower(lines[0]); containsAny(first, headerTokens) {
		result.Header = true
		if containsAny(first, extendedTokens) {
			result.Layout = Extended
		}
		start = 1
	}

	for i := start; i < len(lines); i++ {
		line := i + 1
		values := splitLine(lines[i])
		if len(values) == 1 && values[0] == "" {
			continue
		}

		r, reason, ok := parseRecord(result.Layout, values)
		if !ok {
			result.Skipped = append(result.Skipped, Skipped{Line: line, Reason: reason})
			continue
		}
		result.Rows = append(result.Rows, Row{Line: line, Recipient: r})
	}

	return result
}

func parseRecord(layout Layout, values []string) (recipient.Recipient, SkipReason, bool) {
	var phone, name, amountStr string
	switch layout {
	case Extended:
		if len(values) < 5 {
			return recipient.Recipient{}, TooFewColumns, false
		}
		phone, amountStr, name = values[1], values[3], values[4]
	default:
		if len(values) < 3 {
			return recipient.Recipient{}, TooFewColumns, false
		}
		phone, name, amountStr = values[0], values[1], values[2]
	}

	// an unparsable amount counts as zero and is rejected with it
	amount, err := recipient.ParseAmount(amountStr)
	if err != nil {
		amount = decimal.Zero
	}

	switch {
	case phone == "":
		return recipient.Recipient{}, MissingPhone, false
	case name == "":
		return recipient.Recipient{}, MissingName, false
	case !amount.IsPositive():
		return recipient.Recipient{}, InvalidAmount, false
	}
	return recipient.New(phone, name, amount), 0, true
}

func splitLine(line string) []string {
	values := fieldSep.Split(strings.TrimSuffix(line, "\r"), -1)
	for i, v := range values {
		values[i] = strings.Trim(strings.TrimSpace(v), `"'`)
	}
	return values
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
