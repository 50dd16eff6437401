// Package batch pays every staged recipient, one at a time
package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
	"mojapay.io/mobile-money/pkg/staging"
)

var (
	// ErrEmpty is returned when there is nobody to pay.
	ErrEmpty = errors.New("no recipients to pay")

	// ErrBusy is returned when a batch is already running or awaits
	// acknowledgement.
	ErrBusy = errors.New("a batch is already in progress")

	// ErrNotCompleted is returned when acknowledging a batch that has not
	// completed.
	ErrNotCompleted = errors.New("no completed batch to acknowledge")

	// ErrRejected is recorded when the gateway declined without a reason.
	ErrRejected = errors.New("payment rejected")
)

// State is the batch-level state.
type State int

const (
	Idle State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

type Config struct {
	// Log is the logger for logging batch progress
	Log *zap.Logger

	// Gateway submits each payment
	Gateway gateway.Gateway

	// Store holds the recipients to pay
	Store *staging.Store

	// UI receives progress events. Optional.
	UI UI

	// test hook for timestamps
	now func() time.Time

	// test hook for batch IDs
	newID func() string
}

// Result is the outcome of a completed batch.
type Result struct {
	BatchID      string
	SuccessCount int
	FailedCount  int

	// TotalAmount is the sum of the successful payments.
	TotalAmount decimal.Decimal

	// Recipients is the settled list in staging order.
	Recipients []recipient.Recipient

	// Errors holds the failure reason by recipient ID, when known.
	Errors map[string]string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Status classifies the batch as success, failed or partial.
func (r Result) Status() history.Status {
	return history.ClassifyStatus(r.SuccessCount, r.FailedCount)
}

// Transaction returns the log entry for the batch.
func (r Result) Transaction() history.Transaction {
	return history.NewBulk(r.BatchID, r.Recipients, r.TotalAmount, r.FinishedAt)
}

// Rows returns the report rows for the batch, in staging order.
func (r Result) Rows() []report.Row {
	rows := report.FromRecipients(r.Recipients)
	for i := range rows {
		rows[i].Error = r.Errors[rows[i].ID]
		rows[i].Reference = r.BatchID
		rows[i].Timestamp = r.FinishedAt
	}
	return rows
}

// Runner drives the gateway over the staged recipients. Submissions are
// queued on a channel drained by a single worker so at most one payment is
// in flight at any time.
type Runner struct {
	log   *zap.Logger
	gw    gateway.Gateway
	store *staging.Store
	ui    UI
	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	state  State
	result *Result

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func New(config Config) (*Runner, error) {
	switch {
	case config.Log == nil:
		return nil, errors.New("log is required")
	case config.Gateway == nil:
		return nil, errors.New("gateway is required")
	case config.Store == nil:
		return nil, errors.New("store is required")
	}
	if config.UI == nil {
		config.UI = nopUI{}
	}
	if config.now == nil {
		config.now = time.Now
	}
	if config.newID == nil {
		config.newID = uuid.NewString
	}
	return &Runner{
		log:   config.Log,
		gw:    config.Gateway,
		store: config.Store,
		ui:    config.UI,
		now:   config.now,
		newID: config.newID,
	}, nil
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastResult returns the result awaiting acknowledgement, if any.
func (r *Runner) LastResult() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

type task struct {
	index     int
	recipient recipient.Recipient
}

type outcome struct {
	task
	ok  bool
	err error
}

// Run pays every staged recipient in staging order. The list is
// snapshotted when the run starts and the store stays frozen until
// Acknowledge is called. A failed payment never stops the batch. If ctx is
// canceled the remaining recipients are recorded as failed.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.mu.Lock()
	if r.state != Idle {
		r.mu.Unlock()
		return Result{}, ErrBusy
	}
	recipients := r.store.Snapshot()
	if len(recipients) == 0 {
		r.mu.Unlock()
		return Result{}, ErrEmpty
	}
	r.store.Freeze()
	r.state = Running
	r.mu.Unlock()

	result := Result{
		BatchID:     r.newID(),
		TotalAmount: decimal.Zero,
		Recipients:  recipients,
		Errors:      make(map[string]string),
		StartedAt:   r.now(),
	}
	log := r.log.With(zap.String("batch", result.BatchID))
	log.Info("Batch started",
		zap.Int("recipients", len(recipients)),
		zap.Stringer("total", recipient.Total(recipients)),
		zap.Stringer("gateway", r.gw),
	)
	r.ui.Started(StartedEvent{
		BatchID:     result.BatchID,
		Count:       len(recipients),
		TotalAmount: recipient.Total(recipients),
	})

	tasks := make(chan task, len(recipients))
	for i, rec := range recipients {
		tasks <- task{index: i, recipient: rec}
	}
	close(tasks)

	outcomes := make(chan outcome)
	go r.work(ctx, tasks, outcomes)

	for o := range outcomes {
		r.settle(log, &result, o)
	}

	result.FinishedAt = r.now()
	log.Info("Batch completed",
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount),
		zap.Stringer("total", result.TotalAmount),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)

	r.mu.Lock()
	r.state = Completed
	r.result = &result
	r.mu.Unlock()

	r.ui.Completed(CompletedEvent{Result: result})
	return result, nil
}

// Acknowledge consumes the completed batch: the staging store is emptied
// and the runner returns to idle.
func (r *Runner) Acknowledge() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Completed {
		return ErrNotCompleted
	}
	r.store.Reset()
	r.state = Idle
	r.result = nil
	return nil
}

// work is the only consumer of tasks.
func (r *Runner) work(ctx context.Context, tasks <-chan task, outcomes chan<- outcome) {
	defer close(outcomes)
	for t := range tasks {
		if err := ctx.Err(); err != nil {
			outcomes <- outcome{task: t, err: err}
			continue
		}
		ok, err := r.submit(ctx, t.recipient)
		outcomes <- outcome{task: t, ok: ok, err: err}
	}
}

func (r *Runner) submit(ctx context.Context, rec recipient.Recipient) (bool, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		prev := r.maxInFlight.Load()
		if n <= prev || r.maxInFlight.CompareAndSwap(prev, n) {
			break
		}
	}
	return submit(ctx, r.gw, rec)
}

func (r *Runner) settle(log *zap.Logger, result *Result, o outcome) {
	rec := o.recipient
	status := recipient.Failed
	if o.ok && o.err == nil {
		status = recipient.Success
	}

	if status == recipient.Success {
		result.SuccessCount++
		result.TotalAmount = result.TotalAmount.Add(rec.Amount)
		log.Debug("Payment succeeded", zap.String("id", rec.ID), zap.Stringer("amount", rec.Amount))
	} else {
		result.FailedCount++
		reason := o.err
		if reason == nil {
			reason = ErrRejected
		}
		result.Errors[rec.ID] = reason.Error()
		log.Warn("Payment failed", zap.String("id", rec.ID), zap.Stringer("amount", rec.Amount), zap.Error(reason))
	}

	rec.Status = status
	result.Recipients[o.index] = rec
	if err := r.store.SetStatus(rec.ID, status); err != nil {
		log.Error("Unable to record payment status", zap.String("id", rec.ID), zap.Error(err))
	}

	r.ui.RecipientProcessed(RecipientProcessedEvent{
		Index:      o.index,
		Count:      len(result.Recipients),
		Recipient:  rec,
		Err:        o.err,
		Recipients: r.store.Snapshot(),
	})
}
