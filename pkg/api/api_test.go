package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mojapay.io/mobile-money/pkg/confirm"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
)

// byName accepts payments to every recipient except those named "Refus".
type byName struct{}

func (byName) String() string { return "stub" }

func (byName) Submit(ctx context.Context, r recipient.Recipient) (bool, error) {
	return r.FullName != "Refus", nil
}

type fakeAnnouncer struct {
	mu          sync.Mutex
	bulk        []confirm.BulkSummary
	individuals []string
}

func (a *fakeAnnouncer) BulkCompleted(ctx context.Context, s confirm.BulkSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bulk = append(a.bulk, s)
}

func (a *fakeAnnouncer) IndividualCompleted(ctx context.Context, name string, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.individuals = append(a.individuals, name)
}

type testServer struct {
	*httptest.Server
	history   *history.MemoryStore
	announcer *fakeAnnouncer
}

func newTestServer(t *testing.T, limit *csv.Limit) *testServer {
	store := history.NewMemoryStore()
	announcer := new(fakeAnnouncer)
	s, err := New(Config{
		Log:       zaptest.NewLogger(t),
		Gateway:   byName{},
		History:   store,
		Announcer: announcer,
		RowLimit:  limit,
		now:       func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)
	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return &testServer{Server: server, history: store, announcer: announcer}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestNew_Requires(t *testing.T) {
	_, err := New(Config{})
	require.EqualError(t, err, "log is required")
	_, err = New(Config{Log: zaptest.NewLogger(t)})
	require.EqualError(t, err, "gateway is required")
	_, err = New(Config{Log: zaptest.NewLogger(t), Gateway: byName{}})
	require.EqualError(t, err, "history is required")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok", "gateway": "stub"}, decode[map[string]string](t, resp))
}

func TestIndividualPayment(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodPost, gateway.IndividualPath, gateway.PaymentRequest{
		PhoneNumber: "+229 90 12 34 56",
		FullName:    "Jean Dupont",
		Amount:      "50000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decode[PaymentResponse](t, resp)
	assert.Equal(t, "MOJALOOP_COMPLETED", paid.Status)
	assert.True(t, paid.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, []string{"Jean Dupont"}, ts.announcer.individuals)

	resp = ts.do(t, http.MethodPost, gateway.IndividualPath, gateway.PaymentRequest{
		PhoneNumber: "+229 90 12 34 56",
		FullName:    "Refus",
		Amount:      "1000",
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	failed := decode[PaymentResponse](t, resp)
	assert.Equal(t, "FAILED", failed.Status)
	assert.Equal(t, "payment rejected", failed.Error)
	assert.Len(t, ts.announcer.individuals, 1)

	txs, err := ts.history.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, history.Failed, txs[0].Status)
	assert.Equal(t, history.Success, txs[1].Status)
	assert.Equal(t, history.Individual, txs[1].Type)
}

func TestIndividualPayment_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		req  gateway.PaymentRequest
	}{
		{name: "phone", req: gateway.PaymentRequest{PhoneNumber: "123", FullName: "Jean", Amount: "100"}},
		{name: "name", req: gateway.PaymentRequest{PhoneNumber: "+22990123456", FullName: " ", Amount: "100"}},
		{name: "zero amount", req: gateway.PaymentRequest{PhoneNumber: "+22990123456", FullName: "Jean", Amount: "0"}},
		{name: "negative amount", req: gateway.PaymentRequest{PhoneNumber: "+22990123456", FullName: "Jean", Amount: "-5"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			resp := ts.do(t, http.MethodPost, gateway.IndividualPath, tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[errorResponse](t, resp).Error)

			txs, err := ts.history.ListAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

func TestBulkPayment_ThroughAPIGateway(t *testing.T) {
	ts := newTestServer(t, nil)
	client := gateway.NewAPIGateway(zaptest.NewLogger(t), ts.URL, ts.Client())

	resp, err := client.SubmitBulk(context.Background(), []recipient.Recipient{
		recipient.New("+22990123456", "Alice", decimal.NewFromInt(50000)),
		recipient.New("+22990123457", "Refus", decimal.NewFromInt(20000)),
		recipient.New("+22990123458", "Carol", decimal.NewFromInt(10000)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailedCount)
	require.Len(t, resp.Details, 3)
	assert.Equal(t, "Alice", resp.Details[0].Beneficiary)
	assert.Equal(t, "FAILED", resp.Details[1].Status)
	assert.Equal(t, "payment rejected", resp.Details[1].ErrorMessage)

	require.Len(t, ts.announcer.bulk, 1)
	assert.True(t, ts.announcer.bulk[0].TotalAmount.Equal(decimal.NewFromInt(60000)))

	txs, err := ts.history.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, history.Partial, txs[0].Status)

	details, err := client.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, txs[0].ID, details[0].Note)

	// a second batch can run once the first is consumed
	resp, err = client.SubmitBulk(context.Background(), []recipient.Recipient{
		recipient.New("+22990123456", "Alice", decimal.NewFromInt(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)

	// and individual submissions go through the same server
	ok, err := client.Submit(context.Background(), recipient.New("+22990123456", "Refus", decimal.NewFromInt(1)))
	require.Error(t, err)
	assert.False(t, ok)
}

func TestBulkPayment_Empty(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := ts.do(t, http.MethodPost, gateway.BulkPath, gateway.BulkRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactions(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, gateway.BulkPath, gateway.BulkRequest{Recipients: []gateway.PaymentRequest{
		{PhoneNumber: "+22990123456", FullName: "Alice", Amount: "100"},
		{PhoneNumber: "+22990123457", FullName: "Refus", Amount: "200"},
	}})

	list := decode[gateway.TransferList](t, ts.do(t, http.MethodGet, gateway.TransactionsPath+"?status=failed", nil))
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Transfers, 1)
	assert.Equal(t, "Refus", list.Transfers[0].Beneficiary)

	list = decode[gateway.TransferList](t, ts.do(t, http.MethodGet, gateway.TransactionsPath+"?limit=1", nil))
	assert.Equal(t, 2, list.Count)
	assert.Len(t, list.Transfers, 1)

	resp := ts.do(t, http.MethodGet, gateway.TransactionsPath+"?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	hist := decode[HistoryResponse](t, ts.do(t, http.MethodGet, "/api/history/", nil))
	require.Len(t, hist.Transactions, 1)
	assert.Equal(t, 1, hist.Stats.Total)
	assert.True(t, hist.Stats.TotalAmount.Equal(decimal.NewFromInt(100)))

	resp = ts.do(t, http.MethodDelete, gateway.TransactionsPath, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	hist = decode[HistoryResponse](t, ts.do(t, http.MethodGet, "/api/history/", nil))
	assert.Empty(t, hist.Transactions)
	assert.Equal(t, 0, hist.Stats.Total)
}

func upload(t *testing.T, ts *testServer, filename, contentType, content string) *http.Response {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := ts.Client().Post(ts.URL+"/api/bulk/upload/", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUpload(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := upload(t, ts, "recipients.csv", "text/csv", "phone,name,amount\n+22990123456,Jean Dupont,50000\n+22990123457,,1000\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	uploaded := decode[UploadResponse](t, resp)
	require.Len(t, uploaded.Recipients, 1)
	assert.Equal(t, "Jean Dupont", uploaded.Recipients[0].FullName)
	assert.Equal(t, recipient.Pending, uploaded.Recipients[0].Status)
	require.Len(t, uploaded.Skipped, 1)
	assert.Equal(t, 3, uploaded.Skipped[0].Line)
	assert.False(t, uploaded.OverLimit)
	assert.True(t, uploaded.TotalAmount.Equal(decimal.NewFromInt(50000)))

	resp = upload(t, ts, "recipients.xlsx", "application/octet-stream", "phone,name,amount\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, csv.ErrInvalidFormat.Error(), decode[errorResponse](t, resp).Error)

	resp = upload(t, ts, "recipients.csv", "text/csv", "phone,name,amount\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, csv.ErrEmptyFile.Error(), decode[errorResponse](t, resp).Error)
}

func TestUpload_RowLimit(t *testing.T) {
	ts := newTestServer(t, &csv.Limit{Max: 1, Policy: csv.Reject})
	resp := upload(t, ts, "recipients.csv", "text/csv", "+22990123456,Jean,1\n+22990123457,Marie,2\n")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestReport(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodGet, "/api/bulk/report.csv", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ts.do(t, http.MethodPost, gateway.BulkPath, gateway.BulkRequest{Recipients: []gateway.PaymentRequest{
		{PhoneNumber: "+22990123457", FullName: "Refus", Amount: "200"},
		{PhoneNumber: "+22990123456", FullName: "Alice", Amount: "100"},
	}})

	resp = ts.do(t, http.MethodGet, "/api/bulk/report.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="rapport_paiement.csv"`, resp.Header.Get("Content-Disposition"))
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Alice"`)
	assert.Contains(t, lines[2], `"Refus"`)

	resp = ts.do(t, http.MethodGet, "/api/bulk/report.csv?filter=failed", nil)
	buf.Reset()
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Len(t, strings.Split(buf.String(), "\n"), 2)

	resp = ts.do(t, http.MethodGet, "/api/bulk/report.csv?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/bulk/report.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestTransferRows(t *testing.T) {
	r := recipient.New("+22990123456", "Jean", decimal.NewFromInt(10))
	r.Status = recipient.Success
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := transferRows([]history.Transaction{
		history.NewIndividual(r, created),
		history.NewBulk("b1", []recipient.Recipient{r, r}, decimal.NewFromInt(20), created),
	})
	require.Len(t, rows, 3)
	assert.Equal(t, "b1", rows[2].Reference)
	assert.Equal(t, created, rows[0].Timestamp)
	assert.Equal(t, report.DefaultCurrency, rows[0].Currency)
}
