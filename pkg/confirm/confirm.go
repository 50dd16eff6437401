// Package confirm announces finished payments through notifications and
// bilingual speech
package confirm

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/i18n"
)

const (
	// DefaultPause separates the French and English announcements.
	DefaultPause = 500 * time.Millisecond
)

// Permission is the user's decision about notifications.
type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
	PermissionUnsupported
)

func (p Permission) String() string {
	switch p {
	case PermissionDefault:
		return "default"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	case PermissionUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Notifier raises desktop-style notifications.
type Notifier interface {
	// Permission returns the current decision without asking.
	Permission(ctx context.Context) Permission

	// RequestPermission asks the user if no decision was made yet.
	RequestPermission(ctx context.Context) Permission

	Notify(ctx context.Context, title, body string) error
}

// Chime plays a short audio cue.
type Chime interface {
	Play(ctx context.Context) error
}

// Speaker synthesizes speech. Utterances are queued; Cancel drops the
// current one and everything queued.
type Speaker interface {
	Supported() bool
	Speak(ctx context.Context, text string, lang i18n.Language) error
	Cancel()
}

// EventSink receives a machine-readable copy of every announcement.
type EventSink interface {
	Publish(ctx context.Context, evt Event) error
}

type EventType string

const (
	BulkCompletedEvent       EventType = "bulk.completed"
	IndividualCompletedEvent EventType = "individual.completed"
)

type Event struct {
	Type         EventType       `json:"type"`
	BatchID      string          `json:"batchId,omitempty"`
	Recipient    string          `json:"recipient,omitempty"`
	SuccessCount int             `json:"successCount"`
	FailedCount  int             `json:"failedCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Currency     string          `json:"currency"`
	Time         time.Time       `json:"time"`
}

type sleepFunc = func(context.Context, time.Duration) error

type Config struct {
	// Log is the logger for capability failures
	Log *zap.Logger

	// Language is the language of the notification text.
	Language i18n.Language

	// Notifier, Chime, Speaker and Events are optional. A missing
	// capability is skipped.
	Notifier Notifier
	Chime    Chime
	Speaker  Speaker
	Events   EventSink

	// Pause is the gap between the French and English announcements.
	// Defaults to DefaultPause.
	Pause time.Duration

	// test hook used for sleeping so we aren't dependent on real time
	sleep sleepFunc

	// test hook for event timestamps
	now func() time.Time
}

// Broadcaster announces finished payments. Capability failures are logged
// and never returned.
type Broadcaster struct {
	log      *zap.Logger
	lang     i18n.Language
	notifier Notifier
	chime    Chime
	speaker  Speaker
	events   EventSink
	pause    time.Duration
	sleep    sleepFunc
	now      func() time.Time

	mu          sync.Mutex
	stopSpeech  context.CancelFunc
	speechRound uint64
}

func New(config Config) (*Broadcaster, error) {
	if config.Log == nil {
		return nil, errs.New("log is required")
	}
	if config.Pause <= 0 {
		config.Pause = DefaultPause
	}
	if config.sleep == nil {
		config.sleep = sleepFor
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &Broadcaster{
		log:      config.Log,
		lang:     config.Language,
		notifier: config.Notifier,
		chime:    config.Chime,
		speaker:  config.Speaker,
		events:   config.Events,
		pause:    config.Pause,
		sleep:    config.sleep,
		now:      config.now,
	}, nil
}

type BulkSummary struct {
	BatchID      string
	SuccessCount int
	FailedCount  int
	TotalAmount  decimal.Decimal
}

// BulkCompleted announces a finished batch. The notification is only raised
// when at least one payment succeeded.
func (b *Broadcaster) BulkCompleted(ctx context.Context, s BulkSummary) {
	b.publish(ctx, Event{
		Type:         BulkCompletedEvent,
		BatchID:      s.BatchID,
		SuccessCount: s.SuccessCount,
		FailedCount:  s.FailedCount,
		TotalAmount:  s.TotalAmount,
	})

	if s.SuccessCount > 0 {
		b.Notify(ctx,
			i18n.Lookup(b.lang, "notify.bulk.title"),
			i18n.Fmt(b.lang, "notify.bulk.body", s.SuccessCount, s.FailedCount, i18n.FormatAmount(i18n.French, s.TotalAmount)),
		)
	}

	b.SpeakBilingual(ctx,
		i18n.BulkVoice(i18n.French, s.SuccessCount, s.FailedCount, s.TotalAmount),
		i18n.BulkVoice(i18n.English, s.SuccessCount, s.FailedCount, s.TotalAmount),
	)
}

// IndividualCompleted announces a successful individual payment.
func (b *Broadcaster) IndividualCompleted(ctx context.Context, name string, amount decimal.Decimal) {
	b.publish(ctx, Event{
		Type:         IndividualCompletedEvent,
		Recipient:    name,
		SuccessCount: 1,
		TotalAmount:  amount,
	})

	b.Notify(ctx,
		i18n.Lookup(b.lang, "notify.individual.title"),
		i18n.Fmt(b.lang, "notify.individual.body", name, i18n.FormatAmount(i18n.French, amount)),
	)

	b.SpeakBilingual(ctx,
		i18n.IndividualVoice(i18n.French, name, amount),
		i18n.IndividualVoice(i18n.English, name, amount),
	)
}

// Notify raises a notification and plays the chime if the user allows
// notifications. It never blocks on a denied or unsupported notifier.
func (b *Broadcaster) Notify(ctx context.Context, title, body string) {
	if b.notifier == nil {
		return
	}

	permission := b.notifier.Permission(ctx)
	if permission == PermissionDefault {
		permission = b.notifier.RequestPermission(ctx)
	}
	if permission != PermissionGranted {
		b.log.Debug("Notification skipped", zap.Stringer("permission", permission))
		return
	}

	if err := b.notifier.Notify(ctx, title, body); err != nil {
		b.log.Debug("Notification failed", zap.Error(err))
		return
	}
	if b.chime != nil {
		if err := b.chime.Play(ctx); err != nil {
			b.log.Debug("Chime failed", zap.Error(err))
		}
	}
}

// SpeakBilingual speaks fr, pauses, then speaks en. Any ongoing speech is
// cancelled first. It returns once both are spoken or speech is stopped.
func (b *Broadcaster) SpeakBilingual(ctx context.Context, fr, en string) {
	if b.speaker == nil || !b.speaker.Supported() {
		return
	}

	b.Stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	b.speechRound++
	round := b.speechRound
	b.stopSpeech = cancel
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		if b.speechRound == round {
			b.stopSpeech = nil
		}
		b.mu.Unlock()
	}()

	if err := b.speaker.Speak(ctx, fr, i18n.French); err != nil {
		b.log.Debug("Speech failed", zap.String("lang", "fr"), zap.Error(err))
	}
	if err := b.sleep(ctx, b.pause); err != nil {
		return
	}
	if err := b.speaker.Speak(ctx, en, i18n.English); err != nil {
		b.log.Debug("Speech failed", zap.String("lang", "en"), zap.Error(err))
	}
}

// Stop cancels any ongoing speech including the pause between languages.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	stop := b.stopSpeech
	b.stopSpeech = nil
	b.mu.Unlock()

	if stop != nil {
		stop()
	}
	if b.speaker != nil {
		b.speaker.Cancel()
	}
}

func (b *Broadcaster) publish(ctx context.Context, evt Event) {
	if b.events == nil {
		return
	}
	evt.Currency = "XOF"
	evt.Time = b.now().UTC()
	if err := b.events.Publish(ctx, evt); err != nil {
		b.log.Warn("Unable to publish payment event", zap.String("type", string(evt.Type)), zap.Error(err))
	}
}

func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
