package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"mojapay.io/mobile-money/pkg/confirm"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/gateway"
	"mojapay.io/mobile-money/pkg/i18n"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "mojapay.toml"

// AutoGateway picks the API gateway when an API URL is set and the
// simulator otherwise.
const AutoGateway = "auto"

type MissingFieldsError = toml.StrictMissingError

type Config struct {
	// Language is the UI language, "fr" or "en".
	Language string `toml:"language"`

	Gateway   Gateway   `toml:"gateway"`
	Simulator Simulator `toml:"simulator"`
	Batch     Batch     `toml:"batch"`
	Confirm   Confirm   `toml:"confirm"`
	Storage   Storage   `toml:"storage"`
	Server    Server    `toml:"server"`
}

type Gateway struct {
	// Type is one of auto, api, mojaloop or sim.
	Type string `toml:"type"`

	// APIURL is the base URL of the payment API.
	APIURL string `toml:"api_url"`

	// Timeout bounds each remote submission.
	Timeout Duration `toml:"timeout"`

	// MojaloopSDKURL is the outbound API of the Mojaloop SDK scheme adapter.
	MojaloopSDKURL string `toml:"mojaloop_sdk_url"`

	// SenderMSISDN and SenderName identify the paying party.
	SenderMSISDN string `toml:"sender_msisdn"`
	SenderName   string `toml:"sender_name"`

	Currency string `toml:"currency"`
	Note     string `toml:"note"`
}

type Simulator struct {
	MinDelay    Duration `toml:"min_delay"`
	MaxDelay    Duration `toml:"max_delay"`
	SuccessRate float64  `toml:"success_rate"`
}

type Batch struct {
	// MaxRows is the row limit of an imported file.
	MaxRows int `toml:"max_rows"`

	// RowLimitPolicy is one of advisory, truncate or reject.
	RowLimitPolicy string `toml:"row_limit_policy"`
}

type Confirm struct {
	// SpeechCommand is an espeak compatible command. Empty disables speech.
	SpeechCommand string `toml:"speech_command"`

	// Chime rings the terminal bell with each notification.
	Chime bool `toml:"chime"`

	// AMQPURL, if set, receives a copy of every confirmation as an event.
	AMQPURL      string `toml:"amqp_url"`
	AMQPExchange string `toml:"amqp_exchange"`
}

type Storage struct {
	// DataDir holds the database and the logs.
	DataDir Path `toml:"data_dir"`
}

// DatabasePath returns the path of the local database.
func (s Storage) DatabasePath() string {
	return filepath.Join(string(s.DataDir), "mojapay.db")
}

// LogDir returns the directory log files are written to.
func (s Storage) LogDir() string {
	return filepath.Join(string(s.DataDir), "logs")
}

type Server struct {
	ListenAddr     string   `toml:"listen_addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	const (
		defaultLanguage       = "fr"
		defaultListenAddr     = ":8080"
		defaultDataDir        = "~/.mojapay"
		defaultRowLimitPolicy = string(csv.Advisory)
	)
	return Config{
		Language: defaultLanguage,
		Gateway: Gateway{
			Type:     AutoGateway,
			Timeout:  Duration(gateway.DefaultTimeout),
			Currency: gateway.DefaultCurrency,
			Note:     gateway.DefaultNote,
		},
		Simulator: Simulator{
			MinDelay:    Duration(gateway.DefaultSimMinDelay),
			MaxDelay:    Duration(gateway.DefaultSimMaxDelay),
			SuccessRate: gateway.DefaultSimSuccessRate,
		},
		Batch: Batch{
			MaxRows:        csv.DefaultMaxRows,
			RowLimitPolicy: defaultRowLimitPolicy,
		},
		Confirm: Confirm{
			Chime:        true,
			AMQPExchange: confirm.DefaultExchange,
		},
		Storage: Storage{
			DataDir: ToPath(defaultDataDir),
		},
		Server: Server{
			ListenAddr:     defaultListenAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// LoadOptional loads path, returning the defaults if it does not exist.
func LoadOptional(path string) (Config, error) {
	config, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

func Parse(data []byte) (Config, error) {
	config := Default()

	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the values that are only known to be valid once parsed.
func (c *Config) Validate() error {
	if _, err := c.GatewayType(); err != nil {
		return err
	}
	if _, err := c.Lang(); err != nil {
		return err
	}
	if _, err := c.RowLimit(); err != nil {
		return err
	}
	switch {
	case c.Simulator.SuccessRate < 0 || c.Simulator.SuccessRate > 1:
		return fmt.Errorf("simulator success_rate %v must be between 0 and 1", c.Simulator.SuccessRate)
	case c.Simulator.MaxDelay < c.Simulator.MinDelay:
		return fmt.Errorf("simulator max_delay must not be less than min_delay")
	case c.Batch.MaxRows < 0:
		return fmt.Errorf("batch max_rows must not be negative")
	}
	return nil
}

// GatewayType returns the configured strategy, or "" for auto.
func (c *Config) GatewayType() (gateway.Type, error) {
	if c.Gateway.Type == "" || c.Gateway.Type == AutoGateway {
		return "", nil
	}
	return gateway.TypeFromString(c.Gateway.Type)
}

func (c *Config) Lang() (i18n.Language, error) {
	if c.Language == "" {
		return i18n.Default, nil
	}
	return i18n.ParseLanguage(c.Language)
}

// RowLimit returns the import row limit.
func (c *Config) RowLimit() (csv.Limit, error) {
	policy, err := csv.LimitPolicyFromString(c.Batch.RowLimitPolicy)
	if err != nil {
		return csv.Limit{}, err
	}
	return csv.Limit{Max: c.Batch.MaxRows, Policy: policy}, nil
}

func DumpUnknownFields(err error) string {
	var sme *toml.StrictMissingError
	if errors.As(err, &sme) {
		return sme.String()
	}
	return ""
}
