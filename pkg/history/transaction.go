// Package history keeps the log of finished payments
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mojapay.io/mobile-money/pkg/recipient"
)

// Type distinguishes individual payments from bulk batches.
type Type string

const (
	Individual Type = "individual"
	Bulk       Type = "bulk"
)

// Status is the overall outcome of a transaction.
type Status string

const (
	Pending Status = "pending"
	Success Status = "success"
	Failed  Status = "failed"
	Partial Status = "partial"
)

// ClassifyStatus returns success when nothing failed, failed when nothing
// succeeded and partial otherwise. An empty batch is pending.
func ClassifyStatus(successCount, failedCount int) Status {
	switch {
	case successCount == 0 && failedCount == 0:
		return Pending
	case failedCount == 0:
		return Success
	case successCount == 0:
		return Failed
	default:
		return Partial
	}
}

// Transaction is an immutable summary of a finished payment.
type Transaction struct {
	ID           string                `json:"id"`
	Type         Type                  `json:"type"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
	Status       Status                `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	Recipient    *recipient.Recipient  `json:"recipient,omitempty"`
	Recipients   []recipient.Recipient `json:"recipients,omitempty"`
	SuccessCount int                   `json:"successCount"`
	FailedCount  int                   `json:"failedCount"`
}

// NewIndividual summarizes a single payment.
func NewIndividual(r recipient.Recipient, now time.Time) Transaction {
	tx := Transaction{
		ID:          uuid.NewString(),
		Type:        Individual,
		TotalAmount: r.Amount,
		Status:      Pending,
		CreatedAt:   now,
		Recipient:   &r,
	}
	switch r.Status {
	case recipient.Success:
		tx.Status = Success
		tx.SuccessCount = 1
	case recipient.Failed:
		tx.Status = Failed
		tx.FailedCount = 1
	}
	return tx
}

// NewBulk summarizes a settled batch. totalAmount is the sum of the
// successful payments.
func NewBulk(id string, rs []recipient.Recipient, totalAmount decimal.Decimal, now time.Time) Transaction {
	if id == "" {
		id = uuid.NewString()
	}
	var successCount, failedCount int
	for _, r := range rs {
		switch r.Status {
		case recipient.Success:
			successCount++
		case recipient.Failed:
			failedCount++
		}
	}
	return Transaction{
		ID:           id,
		Type:         Bulk,
		TotalAmount:  totalAmount,
		Status:       ClassifyStatus(successCount, failedCount),
		CreatedAt:    now,
		Recipients:   recipient.Clone(rs),
		SuccessCount: successCount,
		FailedCount:  failedCount,
	}
}

// TransactionLogStore is the ordered, newest first, log of transactions.
// Entries are never updated once appended.
type TransactionLogStore interface {
	Append(ctx context.Context, tx Transaction) error
	ListAll(ctx context.Context) ([]Transaction, error)
	Clear(ctx context.Context) error
}

type Stats struct {
	Total       int             `json:"total"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ComputeStats summarizes a log. Partial transactions count toward the
// total only.
func ComputeStats(txs []Transaction) Stats {
	stats := Stats{Total: len(txs), TotalAmount: decimal.Zero}
	for _, tx := range txs {
		switch tx.Status {
		case Success:
			stats.Successful++
		case Failed:
			stats.Failed++
		}
		stats.TotalAmount = stats.TotalAmount.Add(tx.TotalAmount)
	}
	return stats
}
