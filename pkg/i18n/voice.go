package i18n

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IndividualVoice is spoken after a single successful payment.
func IndividualVoice(lang Language, name string, amount decimal.Decimal) string {
	a := FormatAmount(lang, amount)
	if lang == English {
		return fmt.Sprintf("Payment successful. %s CFA francs have been sent to %s. Thank you for using our service.", a, name)
	}
	return fmt.Sprintf("Paiement réussi. %s francs CFA ont été envoyés à %s. Merci d'utiliser notre service.", a, name)
}

// BulkVoice is spoken when a batch completes. The failure sentence is only
// included when failedCount > 0.
func BulkVoice(lang Language, successCount, failedCount int, totalAmount decimal.Decimal) string {
	a := FormatAmount(lang, totalAmount)
	if lang == English {
		msg := fmt.Sprintf("Bulk payment completed. %d successful transfers totaling %s CFA francs.", successCount, a)
		if failedCount > 0 {
			msg += fmt.Sprintf(" %d failed.", failedCount)
		}
		return msg + " Thank you."
	}
	msg := fmt.Sprintf("Paiement de masse terminé. %d transferts réussis pour un total de %s francs CFA.", successCount, a)
	if failedCount > 0 {
		msg += fmt.Sprintf(" %d échecs.", failedCount)
	}
	return msg + " Merci."
}
