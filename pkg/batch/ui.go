package batch

import (
	"github.com/shopspring/decimal"

	"mojapay.io/mobile-money/pkg/recipient"
)

// UI receives the progress of a batch run. Events are delivered in order
// from the goroutine calling Run.
type UI interface {
	Started(StartedEvent)
	RecipientProcessed(RecipientProcessedEvent)
	Completed(CompletedEvent)
}

type StartedEvent struct {
	BatchID     string
	Count       int
	TotalAmount decimal.Decimal
}

type RecipientProcessedEvent struct {
	// Index is the position of the recipient in staging order.
	Index int

	// Count is the number of recipients in the batch.
	Count int

	Recipient recipient.Recipient

	// Err is the reason the payment failed, if it did and one is known.
	Err error

	// Recipients is the full staged list after this outcome was applied.
	Recipients []recipient.Recipient
}

type CompletedEvent struct {
	Result Result
}

type nopUI struct{}

func (nopUI) Started(StartedEvent)                       {}
func (nopUI) RecipientProcessed(RecipientProcessedEvent) {}
func (nopUI) Completed(CompletedEvent)                   {}
