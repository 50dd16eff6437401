package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/batch"
	"mojapay.io/mobile-money/pkg/confirm"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
)

// PaymentResponse answers an individual payment.
type PaymentResponse struct {
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Error         string          `json:"error,omitempty"`
}

// UploadResponse lists the recipients read from an uploaded file.
type UploadResponse struct {
	Layout      string                `json:"layout"`
	Recipients  []recipient.Recipient `json:"recipients"`
	Skipped     []SkippedLine         `json:"skipped"`
	OverLimit   bool                  `json:"over_limit"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
}

type SkippedLine struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type HistoryResponse struct {
	Transactions []history.Transaction `json:"transactions"`
	Stats        history.Stats         `json:"stats"`
}

func (s *Server) handleIndividualPayment(w http.ResponseWriter, r *http.Request) {
	var req gateway.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	rec, err := recipientFromRequest(req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	// a payment that started is seen through even if the client goes away
	ctx := context.WithoutCancel(r.Context())
	paid, payErr := batch.PayOne(ctx, s.log, s.gw, rec)

	tx := history.NewIndividual(paid, s.now())
	if err := s.history.Append(ctx, tx); err != nil {
		s.log.Error("Unable to record transaction", zap.String("id", tx.ID), zap.Error(err))
	}

	resp := PaymentResponse{
		TransactionID: tx.ID,
		Status:        report.TransferStatus(paid.Status),
		Amount:        paid.Amount,
		Currency:      report.DefaultCurrency,
	}
	if payErr != nil {
		resp.Message = "Payment failed."
		resp.Error = payErr.Error()
		respondWithJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if s.announcer != nil {
		s.announcer.IndividualCompleted(ctx, paid.FullName, paid.Amount)
	}
	resp.Message = "Payment completed."
	respondWithJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleBulkPayment(w http.ResponseWriter, r *http.Request) {
	var req gateway.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	rs := make([]recipient.Recipient, 0, len(req.Recipients))
	for i, pr := range req.Recipients {
		rec, err := recipientFromRequest(pr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Errorf("recipient %d: %w", i+1, err))
			return
		}
		rs = append(rs, rec)
	}

	ctx := context.WithoutCancel(r.Context())
	result, err := s.runBatch(ctx, rs)
	switch {
	case errors.Is(err, batch.ErrEmpty):
		respondWithError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, batch.ErrBusy):
		respondWithError(w, http.StatusConflict, err)
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	tx := result.Transaction()
	if err := s.history.Append(ctx, tx); err != nil {
		s.log.Error("Unable to record transaction", zap.String("id", tx.ID), zap.Error(err))
	}
	if s.announcer != nil {
		s.announcer.BulkCompleted(ctx, confirm.BulkSummary{
			BatchID:      result.BatchID,
			SuccessCount: result.SuccessCount,
			FailedCount:  result.FailedCount,
			TotalAmount:  result.TotalAmount,
		})
	}

	rows := result.Rows()
	s.setLastReport(rows)
	respondWithJSON(w, http.StatusOK, gateway.BulkResponse{
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		Details:      report.ToTransferDetails(rows),
	})
}

// runBatch stages rs, runs the batch and consumes it.
func (s *Server) runBatch(ctx context.Context, rs []recipient.Recipient) (batch.Result, error) {
	s.bulkMu.Lock()
	defer s.bulkMu.Unlock()

	if err := s.store.ReplaceAll(rs); err != nil {
		return batch.Result{}, err
	}
	result, err := s.runner.Run(ctx)
	if err != nil {
		return batch.Result{}, err
	}
	if err := s.runner.Acknowledge(); err != nil {
		return batch.Result{}, err
	}
	return result, nil
}

func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	txs, err := s.history.ListAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	filter, err := report.FilterFromString(r.URL.Query().Get("status"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
	}

	transfers := report.ToTransferDetails(filter.Apply(transferRows(txs)))
	list := gateway.TransferList{Count: len(transfers), Transfers: transfers}
	if len(list.Transfers) > limit {
		list.Transfers = list.Transfers[:limit]
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	txs, err := s.history.ListAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}
	if txs == nil {
		txs = []history.Transaction{}
	}
	respondWithJSON(w, http.StatusOK, HistoryResponse{
		Transactions: txs,
		Stats:        history.ComputeStats(txs),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	result, err := csv.Import(header.Filename, header.Header.Get("Content-Type"), data, s.rowLimit)
	switch {
	case errors.Is(err, csv.ErrTooManyRows):
		respondWithError(w, http.StatusRequestEntityTooLarge, err)
		return
	case err != nil:
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	recipients := result.Recipients()
	resp := UploadResponse{
		Layout:      result.Layout.String(),
		Recipients:  recipients,
		Skipped:     make([]SkippedLine, 0, len(result.Skipped)),
		OverLimit:   result.OverLimit,
		TotalAmount: recipient.Total(recipients),
	}
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedLine{Line: skipped.Line, Reason: skipped.Reason.String()})
	}
	s.log.Info("Recipients file uploaded",
		zap.String("file", header.Filename),
		zap.Int("recipients", len(recipients)),
		zap.Int("skipped", len(result.Skipped)),
	)
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.reportRows(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DefaultCSVFileName))
	if err := report.WriteCSV(w, rows, report.DefaultColumns); err != nil {
		s.log.Debug("Unable to write CSV report", zap.Error(err))
	}
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.reportRows(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DefaultPDFFileName))
	subtitle := report.Subtitle(report.Count(s.getLastReport()))
	if err := report.WritePDF(w, rows, report.DefaultColumns, report.DefaultTitle, subtitle); err != nil {
		s.log.Debug("Unable to write PDF report", zap.Error(err))
	}
}

// reportRows returns the sorted and filtered rows of the last batch.
func (s *Server) reportRows(w http.ResponseWriter, r *http.Request) ([]report.Row, bool) {
	filter, err := report.FilterFromString(r.URL.Query().Get("filter"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return nil, false
	}
	rows := s.getLastReport()
	if rows == nil {
		respondWithError(w, http.StatusNotFound, errors.New("no bulk payment has completed yet"))
		return nil, false
	}
	return filter.Apply(report.Sort(rows)), true
}

func (s *Server) setLastReport(rows []report.Row) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	s.lastReport = rows
}

func (s *Server) getLastReport() []report.Row {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	return s.lastReport
}

func recipientFromRequest(req gateway.PaymentRequest) (recipient.Recipient, error) {
	amount, err := recipient.ParseAmount(req.Amount.String())
	if err != nil {
		return recipient.Recipient{}, recipient.ErrInvalidAmount
	}
	rec := recipient.New(strings.TrimSpace(req.PhoneNumber), strings.TrimSpace(req.FullName), amount)
	if err := recipient.Validate(rec); err != nil {
		return recipient.Recipient{}, err
	}
	return rec, nil
}

// transferRows flattens the log into one row per payment, newest first.
func transferRows(txs []history.Transaction) []report.Row {
	var rows []report.Row
	for _, tx := range txs {
		recipients := tx.Recipients
		if tx.Recipient != nil {
			recipients = []recipient.Recipient{*tx.Recipient}
		}
		for _, row := range report.FromRecipients(recipients) {
			row.Reference = tx.ID
			row.Timestamp = tx.CreatedAt
			rows = append(rows, row)
		}
	}
	return rows
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, err error) {
	respondWithJSON(w, code, errorResponse{Error: err.Error()})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
