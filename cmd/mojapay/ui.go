package main

import (
	"fmt"
	"io"

	"github.com/kyokomi/emoji/v2"

	"mojapay.io/mobile-money/pkg/batch"
	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/recipient"
)

var _ batch.UI = &bulkUI{}

// bulkUI prints one line per settled payment.
type bulkUI struct {
	stdout io.Writer
	tr     *i18n.Translator
	width  int
}

func newBulkUI(stdout io.Writer, tr *i18n.Translator) *bulkUI {
	return &bulkUI{stdout: stdout, tr: tr}
}

func (u *bulkUI) Started(evt batch.StartedEvent) {
	u.width = len(fmt.Sprint(evt.Count))
	u.printf(":rocket: %s %s (%d, %s)\n", u.tr.T("bulk.title"), evt.BatchID, evt.Count, i18n.FormatCurrency(evt.TotalAmount))
}

func (u *bulkUI) RecipientProcessed(evt batch.RecipientProcessedEvent) {
	ji := ":white_check_mark:"
	result := u.tr.T("status.success")
	if evt.Recipient.Status != recipient.Success {
		ji = ":x:"
		result = u.tr.T("status.failed")
		if evt.Err != nil {
			result += ": " + evt.Err.Error()
		}
	}
	format := fmt.Sprintf("%s [%%%dd/%%d] %%s: %%s\n", ji, u.width)
	u.printf(format, evt.Index+1, evt.Count, describeRecipient(evt.Recipient), result)
}

func (u *bulkUI) Completed(evt batch.CompletedEvent) {
	key := "bulk.completed"
	if evt.Result.FailedCount > 0 {
		key = "bulk.partial"
	}
	ji := ":tada:"
	if evt.Result.SuccessCount == 0 {
		ji = ":warning:"
	}
	u.printf("%s %s\n", ji, u.tr.Tf(key, evt.Result.SuccessCount, evt.Result.FailedCount))
}

func (u *bulkUI) printf(format string, args ...any) {
	_, _ = emoji.Fprintf(u.stdout, format, args...)
}
