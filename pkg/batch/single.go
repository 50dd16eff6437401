package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/recipient"
)

// PayOne submits a single validated payment outside of a batch. The
// returned recipient always carries a terminal status; the error explains
// a failure.
func PayOne(ctx context.Context, log *zap.Logger, gw gateway.Gateway, r recipient.Recipient) (recipient.Recipient, error) {
	ok, err := submit(ctx, gw, r)
	if err == nil && !ok {
		err = ErrRejected
	}
	if err != nil {
		log.Warn("Payment failed", zap.String("id", r.ID), zap.Stringer("amount", r.Amount), zap.Error(err))
		r.Status = recipient.Failed
		return r, err
	}

	log.Info("Payment succeeded", zap.String("id", r.ID), zap.Stringer("amount", r.Amount), zap.Stringer("gateway", gw))
	r.Status = recipient.Success
	return r, nil
}

// submit calls the gateway, turning a panic into an error.
func submit(ctx context.Context, gw gateway.Gateway, r recipient.Recipient) (ok bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			ok, err = false, fmt.Errorf("gateway panic: %v", v)
		}
	}()
	return gw.Submit(ctx, r)
}
