package history

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/zeebo/errs"
)

type csvTransaction struct {
	ID           string `csv:"id"`
	Type         string `csv:"type"`
	Status       string `csv:"status"`
	TotalAmount  string `csv:"total_amount"`
	SuccessCount int    `csv:"success_count"`
	FailedCount  int    `csv:"failed_count"`
	Recipients   int    `csv:"recipients"`
	CreatedAt    string `csv:"created_at"`
}

// ExportCSV writes one line per transaction, newest first.
func ExportCSV(w io.Writer, txs []Transaction) error {
	rows := make([]*csvTransaction, 0, len(txs))
	for _, tx := range txs {
		count := len(tx.Recipients)
		if tx.Recipient != nil {
			count = 1
		}
		rows = append(rows, &csvTransaction{
			ID:           tx.ID,
			Type:         string(tx.Type),
			Status:       string(tx.Status),
			TotalAmount:  tx.TotalAmount.String(),
			SuccessCount: tx.SuccessCount,
			FailedCount:  tx.FailedCount,
			Recipients:   count,
			CreatedAt:    tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return errs.Wrap(gocsv.Marshal(rows, w))
}
