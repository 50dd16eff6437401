package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/gateway"
)

// NewGateway returns the gateway selected by the configuration.
func (c *Config) NewGateway(log *zap.Logger) (gateway.Gateway, error) {
	gatewayType, err := c.GatewayType()
	if err != nil {
		return nil, err
	}
	g, err := gateway.New(gateway.Config{
		Log:     log,
		Type:    gatewayType,
		APIURL:  c.Gateway.APIURL,
		Timeout: time.Duration(c.Gateway.Timeout),
		Mojaloop: gateway.MojaloopConfig{
			SDKURL:       c.Gateway.MojaloopSDKURL,
			SenderMSISDN: c.Gateway.SenderMSISDN,
			SenderName:   c.Gateway.SenderName,
			Currency:     c.Gateway.Currency,
			Note:         c.Gateway.Note,
		},
		Sim: gateway.SimConfig{
			MinDelay:    time.Duration(c.Simulator.MinDelay),
			MaxDelay:    time.Duration(c.Simulator.MaxDelay),
			SuccessRate: c.Simulator.SuccessRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init %s gateway: %w", c.Gateway.Type, err)
	}
	return g, nil
}
