package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojapay.io/mobile-money/pkg/recipient"
)

func testRows() []Row {
	return FromRecipients([]recipient.Recipient{
		{ID: "1", FullName: "Jean Dupont", PhoneNumber: "+22990123456", Amount: decimal.NewFromInt(50000), Status: recipient.Failed},
		{ID: "2", FullName: "Marie Kokou", PhoneNumber: "+22991234567", Amount: decimal.NewFromInt(75000), Status: recipient.Success},
		{ID: "3", FullName: "Pierre Agbessi", PhoneNumber: "+22992345678", Amount: decimal.NewFromInt(100000), Status: recipient.Pending},
		{ID: "4", FullName: "Fatou Diallo", PhoneNumber: "+22993456789", Amount: decimal.NewFromInt(25000), Status: recipient.Success},
		{ID: "5", FullName: "Koffi Mensah", PhoneNumber: "+22994567890", Amount: decimal.NewFromInt(60000), Status: recipient.Failed},
	})
}

func ids(rows []Row) []string {
	var out []string
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestSort(t *testing.T) {
	rows := testRows()
	sorted := Sort(rows)
	assert.Equal(t, []string{"2", "4", "3", "1", "5"}, ids(sorted))

	// the input order is untouched
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(rows))
}

func TestFilter(t *testing.T) {
	rows := testRows()

	all := All.Apply(rows)
	assert.Equal(t, rows, all)

	success := SuccessOnly.Apply(rows)
	failed := FailedOnly.Apply(rows)
	assert.Equal(t, []string{"2", "4"}, ids(success))
	assert.Equal(t, []string{"1", "5"}, ids(failed))

	settled := rows[:2]
	assert.Equal(t, len(settled), len(SuccessOnly.Apply(settled))+len(FailedOnly.Apply(settled)))

	f, err := FilterFromString("FAILED")
	require.NoError(t, err)
	assert.Equal(t, FailedOnly, f)

	_, err = FilterFromString("pending")
	require.EqualError(t, err, `invalid report filter "pending"`)
}

func TestCount(t *testing.T) {
	c := Count(testRows())
	assert.Equal(t, 2, c.Success)
	assert.Equal(t, 1, c.Pending)
	assert.Equal(t, 2, c.Failed)
	assert.Equal(t, 5, c.Total())
	assert.True(t, decimal.NewFromInt(100000).Equal(c.SuccessAmount))
	assert.Equal(t, "Réussis: 2 | Échecs: 2 | Total: 100000 FCFA", Subtitle(c))
}

func TestWriteCSV(t *testing.T) {
	rows := SuccessOnly.Apply(testRows()[:2])
	rows[0].Name = `Marie "MK" Kokou`

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, SummaryColumns))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Nom","ID","Montant","Statut"`, lines[0])
	assert.Equal(t, `"Marie ""MK"" Kokou","2","75000","success"`, lines[1])
}

func TestWriteCSV_DefaultColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, nil))
	assert.Equal(t, `"Bénéficiaire","Téléphone","Montant","Statut"`, buf.String())

	b := NewCSVBuffer(nil)
	b.Emit(Row{Name: "A", Phone: "1", Amount: decimal.NewFromInt(1)})
	assert.Equal(t, "\"Bénéficiaire\",\"Téléphone\",\"Montant\",\"Statut\"\n\"A\",\"1\",\"1\",\"pending\"", string(b.Finalize()))
}

func TestFromTransferDetails(t *testing.T) {
	rows := FromTransferDetails([]TransferDetail{
		{
			Beneficiary:   "Jean Dupont",
			Amount:        decimal.NewFromInt(50000),
			Currency:      "XOF",
			Note:          "Salaires",
			Status:        "MOJALOOP_COMPLETED",
			Timestamp:     "2025-01-02T03:04:05Z",
			TransactionID: "tx-1",
		},
		{Beneficiary: "Marie Kokou", Status: "FAILED", ErrorMessage: "timeout"},
		{Beneficiary: "Koffi Mensah", Status: "INITIATED", Timestamp: "garbage"},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, recipient.Success, rows[0].Status)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), rows[0].Timestamp)
	assert.Equal(t, "Salaires", rows[0].Reference)
	assert.Equal(t, recipient.Failed, rows[1].Status)
	assert.Equal(t, "timeout", rows[1].Error)
	assert.Equal(t, recipient.Pending, rows[2].Status)
	assert.True(t, rows[2].Timestamp.IsZero())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows[:1], DetailColumns))
	assert.Equal(t,
		`"Bénéficiaire","Montant","Devise","Référence","Statut","Message erreur","Horodatage","ID transaction"`+"\n"+
			`"Jean Dupont","50000","XOF","Salaires","success","","2025-01-02T03:04:05Z","tx-1"`,
		buf.String())
}

func TestToTransferDetails(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	details := ToTransferDetails([]Row{
		{ID: "r1", Name: "Jean Dupont", Amount: decimal.NewFromInt(50000), Currency: "XOF", Status: recipient.Success, Reference: "batch-1", Timestamp: ts},
		{ID: "r2", Name: "Marie Kokou", Status: recipient.Failed, Error: "timeout", TransactionID: "tx-2"},
		{ID: "r3", Name: "Koffi Mensah", Status: recipient.Pending},
	})
	require.Len(t, details, 3)
	assert.Equal(t, TransferDetail{
		Beneficiary:   "Jean Dupont",
		Amount:        decimal.NewFromInt(50000),
		Currency:      "XOF",
		Note:          "batch-1",
		Status:        "MOJALOOP_COMPLETED",
		Timestamp:     "2025-01-02T03:04:05Z",
		TransactionID: "r1",
	}, details[0])
	assert.Equal(t, "FAILED", details[1].Status)
	assert.Equal(t, "tx-2", details[1].TransactionID)
	assert.Equal(t, "INITIATED", details[2].Status)
	assert.Empty(t, details[2].Timestamp)

	rows := FromTransferDetails(details)
	assert.Equal(t, recipient.Success, rows[0].Status)
	assert.Equal(t, ts, rows[0].Timestamp)
	assert.Equal(t, recipient.Failed, rows[1].Status)
	assert.Equal(t, recipient.Pending, rows[2].Status)
}

func TestWritePDF(t *testing.T) {
	rows := Sort(testRows())

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, rows, SummaryColumns, "", Subtitle(Count(rows))))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, testRows()[:1], SummaryColumns)
	out := buf.String()
	assert.Contains(t, out, "Nom")
	assert.Contains(t, out, "Jean Dupont")
	assert.Contains(t, out, "failed")
}
