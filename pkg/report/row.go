// Package report renders settled batches as tables, CSV and PDF documents
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mojapay.io/mobile-money/pkg/recipient"
)

// DefaultCurrency is the currency of locally processed batches.
const DefaultCurrency = "XOF"

// Row is the canonical report row. Every report source is mapped to it
// before sorting, filtering or exporting.
type Row struct {
	ID            string
	Name          string
	Phone         string
	Amount        decimal.Decimal
	Currency      string
	Status        recipient.Status
	Reference     string
	Error         string
	Timestamp     time.Time
	TransactionID string
}

// FromRecipients maps a settled recipient list.
func FromRecipients(rs []recipient.Recipient) []Row {
	rows := make([]Row, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, Row{
			ID:       r.ID,
			Name:     r.FullName,
			Phone:    r.PhoneNumber,
			Amount:   r.Amount,
			Currency: DefaultCurrency,
			Status:   r.Status,
		})
	}
	return rows
}

// TransferDetail is a transfer as reported by the bulk transfer backend.
type TransferDetail struct {
	Beneficiary   string          `json:"beneficiary"`
	Amount        decimal.Decimal `json:"montant"`
	Currency      string          `json:"devise"`
	Note          string          `json:"note"`
	Status        string          `json:"statut"`
	ErrorMessage  string          `json:"message_erreur"`
	Timestamp     string          `json:"horodatage"`
	TransactionID string          `json:"id_transaction"`
}

// FromTransferDetails maps backend transfer details.
func FromTransferDetails(details []TransferDetail) []Row {
	rows := make([]Row, 0, len(details))
	for _, d := range details {
		row := Row{
			ID:            d.TransactionID,
			Name:          d.Beneficiary,
			Amount:        d.Amount,
			Currency:      d.Currency,
			Status:        transferStatus(d.Status),
			Reference:     d.Note,
			Error:         d.ErrorMessage,
			TransactionID: d.TransactionID,
		}
		if ts, err := time.Parse(time.RFC3339, d.Timestamp); err == nil {
			row.Timestamp = ts
		}
		rows = append(rows, row)
	}
	return rows
}

func transferStatus(s string) recipient.Status {
	switch strings.ToUpper(s) {
	case "MOJALOOP_COMPLETED", "COMPLETED", "SUCCESS":
		return recipient.Success
	case "FAILED", "ERROR":
		return recipient.Failed
	default:
		return recipient.Pending
	}
}

// ToTransferDetails maps rows to the backend transfer representation.
func ToTransferDetails(rows []Row) []TransferDetail {
	details := make([]TransferDetail, 0, len(rows))
	for _, row := range rows {
		d := TransferDetail{
			Beneficiary:   row.Name,
			Amount:        row.Amount,
			Currency:      row.Currency,
			Note:          row.Reference,
			Status:        TransferStatus(row.Status),
			ErrorMessage:  row.Error,
			TransactionID: row.TransactionID,
		}
		if d.TransactionID == "" {
			d.TransactionID = row.ID
		}
		if !row.Timestamp.IsZero() {
			d.Timestamp = row.Timestamp.UTC().Format(time.RFC3339)
		}
		details = append(details, d)
	}
	return details
}

// TransferStatus returns the backend status of a recipient status.
func TransferStatus(s recipient.Status) string {
	switch s {
	case recipient.Success:
		return "MOJALOOP_COMPLETED"
	case recipient.Failed:
		return "FAILED"
	default:
		return "INITIATED"
	}
}
