package config

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/confirm"
)

// NewBroadcaster returns a broadcaster printing notifications to w. ask is
// used to request notification permission; nil grants it up front. The
// returned close function releases the event broker connection, if any.
func (c *Config) NewBroadcaster(log *zap.Logger, w io.Writer, ask func(ctx context.Context) bool) (_ *confirm.Broadcaster, closeFn func() error, err error) {
	lang, err := c.Lang()
	if err != nil {
		return nil, nil, err
	}

	config := confirm.Config{
		Log:      log,
		Language: lang,
		Notifier: confirm.NewConsoleNotifier(w, ask),
		Speaker:  confirm.NewCommandSpeaker(c.Confirm.SpeechCommand),
	}
	if c.Confirm.Chime {
		config.Chime = confirm.NewBellChime(w)
	}

	closeFn = func() error { return nil }
	if c.Confirm.AMQPURL != "" {
		events, err := confirm.DialAMQP(c.Confirm.AMQPURL, c.Confirm.AMQPExchange)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init event broker: %w", err)
		}
		config.Events = events
		closeFn = events.Close
	}

	b, err := confirm.New(config)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return b, closeFn, nil
}
