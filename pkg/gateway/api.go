package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
)

const (
	IndividualPath   = "/api/payments/individual/"
	BulkPath         = "/api/payments/bulk/"
	TransactionsPath = "/api/transactions/"
)

var _ Gateway = &APIGateway{}

// PaymentRequest is the body of an individual payment request.
type PaymentRequest struct {
	PhoneNumber string      `json:"phone_number"`
	FullName    string      `json:"full_name"`
	Amount      json.Number `json:"amount"`
}

func NewPaymentRequest(r recipient.Recipient) PaymentRequest {
	return PaymentRequest{
		PhoneNumber: r.PhoneNumber,
		FullName:    r.FullName,
		Amount:      json.Number(r.Amount.String()),
	}
}

type BulkRequest struct {
	Recipients []PaymentRequest `json:"recipients"`
}

type BulkResponse struct {
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	Details      []report.TransferDetail `json:"details"`
}

// TransferList is the response of the transactions endpoint, newest first.
type TransferList struct {
	Count     int                     `json:"count"`
	Transfers []report.TransferDetail `json:"transfers"`
}

// APIGateway submits payments to the remote payment API.
type APIGateway struct {
	log     *zap.Logger
	baseURL string
	client  *http.Client
}

func NewAPIGateway(log *zap.Logger, baseURL string, client *http.Client) *APIGateway {
	return &APIGateway{
		log:     log,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (g *APIGateway) String() string {
	return API.String()
}

func (g *APIGateway) Submit(ctx context.Context, r recipient.Recipient) (bool, error) {
	if err := g.do(ctx, http.MethodPost, IndividualPath, NewPaymentRequest(r), nil); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitBulk hands the whole list to the remote API, which processes it on
// its side.
func (g *APIGateway) SubmitBulk(ctx context.Context, rs []recipient.Recipient) (BulkResponse, error) {
	req := BulkRequest{Recipients: make([]PaymentRequest, 0, len(rs))}
	for _, r := range rs {
		req.Recipients = append(req.Recipients, NewPaymentRequest(r))
	}
	var resp BulkResponse
	if err := g.do(ctx, http.MethodPost, BulkPath, req, &resp); err != nil {
		return BulkResponse{}, err
	}
	return resp, nil
}

// Transactions lists the transfers known to the remote API.
func (g *APIGateway) Transactions(ctx context.Context) ([]report.TransferDetail, error) {
	var list TransferList
	if err := g.do(ctx, http.MethodGet, TransactionsPath, nil, &list); err != nil {
		return nil, err
	}
	return list.Transfers, nil
}

func (g *APIGateway) do(ctx context.Context, method, path string, in, out any) (err error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return Error.Wrap(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return Error.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() {
		err = errs.Combine(err, resp.Body.Close())
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		g.log.Debug("Payment API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", msg),
		)
		return Error.New("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Error.New("%s %s: %v", method, path, err)
	}
	return nil
}
