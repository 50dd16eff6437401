// Package gateway submits a single mobile-money payment
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/recipient"
)

// Error is the error class for gateway failures.
var Error = errs.Class("gateway")

const (
	// DefaultTimeout bounds a single remote submission.
	DefaultTimeout = 30 * time.Second

	// DefaultCurrency is the West African CFA franc.
	DefaultCurrency = "XOF"
)

// Type represents the submission strategy.
type Type string

const (
	API      Type = "api"
	Mojaloop Type = "mojaloop"
	Sim      Type = "sim"
)

func (t Type) String() string {
	return string(t)
}

// TypeFromString parses string to a Type const.
func TypeFromString(t string) (Type, error) {
	switch strings.ToLower(t) {
	case "api":
		return API, nil
	case "mojaloop":
		return Mojaloop, nil
	case "sim":
		return Sim, nil
	default:
		return "", errs.New("invalid gateway type %q", t)
	}
}

// Gateway is responsible for sending one payment.
type Gateway interface {
	// String returns a string describing the gateway type.
	String() string

	// Submit sends the payment to the recipient. It returns true if the
	// payment was accepted. A false result may come with an error
	// describing why.
	Submit(ctx context.Context, r recipient.Recipient) (bool, error)
}

type Config struct {
	// Log is used for request logging
	Log *zap.Logger

	// Type selects the strategy. If empty, API is used when APIURL is set
	// and Sim otherwise.
	Type Type

	// APIURL is the base URL of the payment API
	APIURL string

	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Mojaloop holds the SDK scheme adapter settings
	Mojaloop MojaloopConfig

	// Sim holds the simulator settings
	Sim SimConfig
}

// New returns the configured gateway. The strategy is decided once here.
func New(config Config) (Gateway, error) {
	if config.Log == nil {
		return nil, errs.New("log is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	gatewayType := config.Type
	if gatewayType == "" {
		gatewayType = Sim
		if config.APIURL != "" {
			gatewayType = API
		}
	}

	client := &http.Client{Timeout: config.Timeout}
	switch gatewayType {
	case API:
		if config.APIURL == "" {
			return nil, errs.New("api gateway requires an API URL")
		}
		return NewAPIGateway(config.Log, config.APIURL, client), nil
	case Mojaloop:
		return NewMojaloopGateway(config.Log, client, config.Mojaloop)
	case Sim:
		return NewSimGateway(config.Sim), nil
	default:
		return nil, errs.New("unsupported gateway type %q", gatewayType)
	}
}
