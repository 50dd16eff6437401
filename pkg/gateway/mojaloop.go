package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/recipient"
)

const (
	// DefaultNote is attached to transfers when no note is configured.
	DefaultNote = "Paiement de masse"

	idTypeMSISDN = "MSISDN"
)

var _ Gateway = &MojaloopGateway{}

type MojaloopConfig struct {
	// SDKURL is the base URL of the Mojaloop SDK scheme adapter outbound API
	SDKURL string

	// SenderMSISDN is the payer account
	SenderMSISDN string

	// SenderName is the payer display name
	SenderName string

	// Currency is the ISO 4217 transfer currency. Defaults to DefaultCurrency.
	Currency string

	// Note is attached to every transfer. Defaults to DefaultNote.
	Note string
}

type Party struct {
	DisplayName string `json:"displayName,omitempty"`
	IDType      string `json:"idType"`
	IDValue     string `json:"idValue"`
}

// TransferRequest is the SDK scheme adapter POST /transfers body.
type TransferRequest struct {
	From              Party  `json:"from"`
	To                Party  `json:"to"`
	AmountType        string `json:"amountType"`
	Currency          string `json:"currency"`
	Amount            string `json:"amount"`
	TransactionType   string `json:"transactionType"`
	Note              string `json:"note"`
	HomeTransactionID string `json:"homeTransactionId"`
}

type TransferResponse struct {
	TransferID   string `json:"transferId"`
	CurrentState string `json:"currentState"`
}

// MojaloopGateway submits transfers through a Mojaloop SDK scheme adapter.
type MojaloopGateway struct {
	log    *zap.Logger
	client *http.Client
	config MojaloopConfig

	// test hook
	newID func() string
}

func NewMojaloopGateway(log *zap.Logger, client *http.Client, config MojaloopConfig) (*MojaloopGateway, error) {
	switch {
	case config.SDKURL == "":
		return nil, errs.New("mojaloop SDK URL is required")
	case config.SenderMSISDN == "":
		return nil, errs.New("mojaloop sender MSISDN is required")
	}
	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	if config.Note == "" {
		config.Note = DefaultNote
	}
	config.SDKURL = strings.TrimSuffix(config.SDKURL, "/")
	return &MojaloopGateway{
		log:    log,
		client: client,
		config: config,
		newID:  uuid.NewString,
	}, nil
}

func (g *MojaloopGateway) String() string {
	return Mojaloop.String()
}

func (g *MojaloopGateway) NewTransferRequest(r recipient.Recipient) TransferRequest {
	return TransferRequest{
		From: Party{
			DisplayName: g.config.SenderName,
			IDType:      idTypeMSISDN,
			IDValue:     g.config.SenderMSISDN,
		},
		To: Party{
			IDType:  idTypeMSISDN,
			IDValue: recipient.NormalizePhoneNumber(r.PhoneNumber),
		},
		AmountType:        "SEND",
		Currency:          g.config.Currency,
		Amount:            r.Amount.String(),
		TransactionType:   "TRANSFER",
		Note:              g.config.Note,
		HomeTransactionID: g.newID(),
	}
}

func (g *MojaloopGateway) Submit(ctx context.Context, r recipient.Recipient) (_ bool, err error) {
	transfer := g.NewTransferRequest(r)
	b, err := json.Marshal(transfer)
	if err != nil {
		return false, Error.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.SDKURL+"/transfers", bytes.NewReader(b))
	if err != nil {
		return false, Error.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, Error.Wrap(err)
	}
	defer func() {
		err = errs.Combine(err, resp.Body.Close())
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, Error.Wrap(err)
	}

	log := g.log.With(
		zap.String("home-transaction-id", transfer.HomeTransactionID),
		zap.Int("status", resp.StatusCode),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("Mojaloop transfer rejected", zap.ByteString("body", body))
		return false, Error.New("transfer rejected with status %d", resp.StatusCode)
	}

	var result TransferResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return false, Error.New("invalid transfer response: %v", err)
		}
	}
	switch result.CurrentState {
	case "ERROR_OCCURRED", "ABORTED":
		log.Debug("Mojaloop transfer failed", zap.String("state", result.CurrentState))
		return false, Error.New("transfer %s ended in state %s", result.TransferID, result.CurrentState)
	}
	log.Debug("Mojaloop transfer accepted",
		zap.String("transfer-id", result.TransferID),
		zap.String("state", result.CurrentState),
	)
	return true, nil
}
