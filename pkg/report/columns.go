package report

import "time"

type Column struct {
	Header string
	Value  func(Row) string
}

func status(r Row) string {
	return r.Status.String()
}

func amount(r Row) string {
	return r.Amount.String()
}

var (
	// SummaryColumns identifies recipients by ID instead of phone number.
	SummaryColumns = []Column{
		{Header: "Nom", Value: func(r Row) string { return r.Name }},
		{Header: "ID", Value: func(r Row) string { return r.ID }},
		{Header: "Montant", Value: amount},
		{Header: "Statut", Value: status},
	}

	// DefaultColumns is used when exporting a single payment or when no
	// column set is given.
	DefaultColumns = []Column{
		{Header: "Bénéficiaire", Value: func(r Row) string { return r.Name }},
		{Header: "Téléphone", Value: func(r Row) string { return r.Phone }},
		{Header: "Montant", Value: amount},
		{Header: "Statut", Value: status},
	}

	// DetailColumns is used for transfer details reported by the backend.
	DetailColumns = []Column{
		{Header: "Bénéficiaire", Value: func(r Row) string { return r.Name }},
		{Header: "Montant", Value: amount},
		{Header: "Devise", Value: func(r Row) string { return r.Currency }},
		{Header: "Référence", Value: func(r Row) string { return r.Reference }},
		{Header: "Statut", Value: status},
		{Header: "Message erreur", Value: func(r Row) string { return r.Error }},
		{Header: "Horodatage", Value: func(r Row) string {
			if r.Timestamp.IsZero() {
				return ""
			}
			return r.Timestamp.Format(time.RFC3339)
		}},
		{Header: "ID transaction", Value: func(r Row) string { return r.TransactionID }},
	}
)

func headers(cols []Column) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, col.Header)
	}
	return out
}

func values(cols []Column, row Row) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, col.Value(row))
	}
	return out
}

func columnsOrDefault(cols []Column) []Column {
	if len(cols) == 0 {
		return DefaultColumns
	}
	return cols
}
