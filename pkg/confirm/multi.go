package confirm

import (
	"context"

	"github.com/zeebo/errs"
)

var _ Notifier = MultiNotifier{}

// MultiNotifier fans a notification out to several notifiers. It is
// granted if any of them is.
type MultiNotifier []Notifier

func (m MultiNotifier) Permission(ctx context.Context) Permission {
	return m.combine(func(n Notifier) Permission { return n.Permission(ctx) })
}

func (m MultiNotifier) RequestPermission(ctx context.Context) Permission {
	return m.combine(func(n Notifier) Permission {
		if p := n.Permission(ctx); p != PermissionDefault {
			return p
		}
		return n.RequestPermission(ctx)
	})
}

// Notify sends to every granted notifier.
func (m MultiNotifier) Notify(ctx context.Context, title, body string) error {
	var group errs.Group
	for _, n := range m {
		if n.Permission(ctx) == PermissionGranted {
			group.Add(n.Notify(ctx, title, body))
		}
	}
	return group.Err()
}

func (m MultiNotifier) combine(fn func(Notifier) Permission) Permission {
	result := PermissionUnsupported
	for _, n := range m {
		switch p := fn(n); {
		case p == PermissionGranted:
			result = PermissionGranted
		case p == PermissionDefault && result != PermissionGranted:
			result = PermissionDefault
		case p == PermissionDenied && result == PermissionUnsupported:
			result = PermissionDenied
		}
	}
	return result
}
