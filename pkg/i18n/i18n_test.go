package i18n

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	testCases := []struct {
		in   string
		lang Language
		err  string
	}{
		{in: "fr", lang: French},
		{in: "FR-fr", lang: French},
		{in: " en ", lang: English},
		{in: "de", err: `unsupported language "de"`},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			lang, err := ParseLanguage(tc.in)
			if tc.err != "" {
				require.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.lang, lang)
		})
	}
}

func TestTranslator(t *testing.T) {
	fr := New(French)
	en := New(English)

	assert.Equal(t, "Fichier vide", fr.T("import.empty_file"))
	assert.Equal(t, "Empty file", en.T("import.empty_file"))
	assert.Equal(t, "missing.key", en.T("missing.key"))
	assert.Equal(t, French, New("").Language())

	assert.Equal(t, "Exécution terminée avec succès partiel : 2 réussis, 1 en échec.", fr.Tf("bulk.partial", 2, 1))
}

func TestCatalogComplete(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	for _, key := range keys {
		m := catalog[key]
		assert.NotEmpty(t, m.FR, key)
		assert.NotEmpty(t, m.EN, key)
		assert.Equal(t, strings.Count(m.FR, "%"), strings.Count(m.EN, "%"), key)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50 000", FormatAmount(French, decimal.NewFromInt(50000)))
	assert.Equal(t, "1 234 568", FormatAmount(French, decimal.RequireFromString("1234567.6")))
	assert.Equal(t, "50,000", FormatAmount(English, decimal.NewFromInt(50000)))
	assert.Equal(t, "999", FormatAmount(English, decimal.NewFromInt(999)))
	assert.Equal(t, "50 000 FCFA", FormatCurrency(decimal.NewFromInt(50000)))
}

func TestIndividualVoice(t *testing.T) {
	amount := decimal.NewFromInt(50000)
	assert.Equal(t,
		"Paiement réussi. 50 000 francs CFA ont été envoyés à Jean Dupont. Merci d'utiliser notre service.",
		IndividualVoice(French, "Jean Dupont", amount))
	assert.Equal(t,
		"Payment successful. 50,000 CFA francs have been sent to Jean Dupont. Thank you for using our service.",
		IndividualVoice(English, "Jean Dupont", amount))
}

func TestBulkVoice(t *testing.T) {
	total := decimal.NewFromInt(125000)
	assert.Equal(t,
		"Paiement de masse terminé. 2 transferts réussis pour un total de 125 000 francs CFA. Merci.",
		BulkVoice(French, 2, 0, total))
	assert.Equal(t,
		"Paiement de masse terminé. 2 transferts réussis pour un total de 125 000 francs CFA. 1 échecs. Merci.",
		BulkVoice(French, 2, 1, total))
	assert.Equal(t,
		"Bulk payment completed. 2 successful transfers totaling 125,000 CFA francs. 1 failed. Thank you.",
		BulkVoice(English, 2, 1, total))
	assert.Equal(t,
		"Bulk payment completed. 2 successful transfers totaling 125,000 CFA francs. Thank you.",
		BulkVoice(English, 2, 0, total))
}
