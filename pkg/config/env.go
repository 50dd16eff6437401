package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MOJAPAY_API_URL.
	EnvPrefix = "MOJAPAY"

	// SimulationModeEnv forces the simulated gateway when true.
	SimulationModeEnv = "SIMULATION_MODE"
)

// LoadDotEnv loads variables from a .env file into the environment. A
// missing file is not an error and variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides the configuration from the environment.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("simulation_mode", SimulationModeEnv); err != nil {
		return err
	}

	overrides := []struct {
		key string
		set func(string)
	}{
		{"api_url", func(s string) { c.Gateway.APIURL = s }},
		{"gateway_type", func(s string) { c.Gateway.Type = s }},
		{"mojaloop_sdk_url", func(s string) { c.Gateway.MojaloopSDKURL = s }},
		{"amqp_url", func(s string) { c.Confirm.AMQPURL = s }},
		{"language", func(s string) { c.Language = s }},
		{"data_dir", func(s string) { c.Storage.DataDir = ToPath(s) }},
		{"listen_addr", func(s string) { c.Server.ListenAddr = s }},
	}
	for _, o := range overrides {
		if v.IsSet(o.key) {
			o.set(v.GetString(o.key))
		}
	}

	if v.GetBool("simulation_mode") {
		c.Gateway.Type = "sim"
	}
	return c.Validate()
}
