package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/recipient"
)

// Filter selects rows by status.
type Filter string

const (
	All         Filter = "all"
	SuccessOnly Filter = "success"
	FailedOnly  Filter = "failed"
)

// FilterFromString parses string to a Filter const.
func FilterFromString(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return All, nil
	case "success":
		return SuccessOnly, nil
	case "failed":
		return FailedOnly, nil
	default:
		return "", errs.New("invalid report filter %q", s)
	}
}

// Apply returns the rows matching the filter. rows is not modified.
func (f Filter) Apply(rows []Row) []Row {
	if f == All || f == "" {
		return slices.Clone(rows)
	}
	var out []Row
	for _, row := range rows {
		if string(row.Status) == string(f) {
			out = append(out, row)
		}
	}
	return out
}

func statusRank(s recipient.Status) int {
	switch s {
	case recipient.Success:
		return 0
	case recipient.Failed:
		return 2
	default:
		return 1
	}
}

// Sort returns a copy of rows ordered success, pending then failed. Rows
// with the same status keep their relative order.
func Sort(rows []Row) []Row {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return statusRank(a.Status) - statusRank(b.Status)
	})
	return sorted
}

type Counts struct {
	Success int
	Pending int
	Failed  int

	// SuccessAmount is the sum of the successful amounts.
	SuccessAmount decimal.Decimal
}

func (c Counts) Total() int {
	return c.Success + c.Pending + c.Failed
}

func Count(rows []Row) Counts {
	c := Counts{SuccessAmount: decimal.Zero}
	for _, row := range rows {
		switch row.Status {
		case recipient.Success:
			c.Success++
			c.SuccessAmount = c.SuccessAmount.Add(row.Amount)
		case recipient.Failed:
			c.Failed++
		default:
			c.Pending++
		}
	}
	return c
}
