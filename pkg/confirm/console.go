package confirm

import (
	"context"
	"io"
	"sync"

	"github.com/kyokomi/emoji/v2"
	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/fancy"
)

var (
	_ Notifier = &ConsoleNotifier{}
	_ Chime    = &BellChime{}
)

// ConsoleNotifier prints notifications to a terminal.
type ConsoleNotifier struct {
	w   io.Writer
	ask func(ctx context.Context) bool

	mu         sync.Mutex
	permission Permission
}

// NewConsoleNotifier returns a notifier writing to w. If ask is nil the
// permission is granted up front, otherwise ask is called on the first
// request and the answer is remembered. A nil w is unsupported.
func NewConsoleNotifier(w io.Writer, ask func(ctx context.Context) bool) *ConsoleNotifier {
	n := &ConsoleNotifier{w: w, ask: ask}
	switch {
	case w == nil:
		n.permission = PermissionUnsupported
	case ask == nil:
		n.permission = PermissionGranted
	}
	return n
}

func (n *ConsoleNotifier) Permission(ctx context.Context) Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *ConsoleNotifier) RequestPermission(ctx context.Context) Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission == PermissionDefault {
		n.permission = PermissionDenied
		if n.ask(ctx) {
			n.permission = PermissionGranted
		}
	}
	return n.permission
}

func (n *ConsoleNotifier) Notify(ctx context.Context, title, body string) error {
	if n.w == nil {
		return errs.New("notifications are unsupported")
	}
	fancy.Fprintln(n.w, fancy.Info, emoji.Sprintf(":bell: %s", title))
	fancy.Fprintln(n.w, fancy.Info, "   "+body)
	return nil
}

// BellChime rings the terminal bell.
type BellChime struct {
	w io.Writer
}

func NewBellChime(w io.Writer) *BellChime {
	return &BellChime{w: w}
}

func (c *BellChime) Play(ctx context.Context) error {
	if c.w == nil {
		return errs.New("no terminal to ring")
	}
	_, err := io.WriteString(c.w, "\a")
	return errs.Wrap(err)
}
