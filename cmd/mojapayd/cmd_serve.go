package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/api"
	"mojapay.io/mobile-money/pkg/config"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/localdb"
)

type serveConfig struct {
	*rootConfig

	ListenAddr string
	Memory     bool
	Debug      bool
}

func newServeCommand(rootConfig *rootConfig) *cobra.Command {
	config := &serveConfig{
		rootConfig: rootConfig,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the payment API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErr.New("unexpected arguments %q", args)
			}
			return checkCmd(doServe(config))
		},
	}
	cmd.Flags().StringVarP(
		&config.ListenAddr,
		"listen", "l",
		"",
		"Address to listen on (overrides server.listen_addr)")
	cmd.Flags().BoolVarP(
		&config.Memory,
		"memory", "",
		false,
		"Keep the transaction history in memory only")
	cmd.Flags().BoolVarP(
		&config.Debug,
		"debug", "",
		false,
		"Log requests at debug level to the console")
	return cmd
}

func doServe(config *serveConfig) (err error) {
	ctx := config.Ctx

	cfg, err := loadConfig(config.ConfigPath, config.DotEnvPath)
	if err != nil {
		return err
	}
	listenAddr := cfg.Server.ListenAddr
	if config.ListenAddr != "" {
		listenAddr = config.ListenAddr
	}

	log, err := openLog(cfg.Storage.LogDir(), config.Debug)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var store history.TransactionLogStore = history.NewMemoryStore()
	if !config.Memory {
		db, dbErr := localdb.Open(ctx, cfg.Storage.DatabasePath())
		if dbErr != nil {
			return fmt.Errorf("failed to open database: %w", dbErr)
		}
		defer func() { err = errs.Combine(err, db.Close()) }()
		store = history.NewSQLiteStore(db)
	}

	gw, err := cfg.NewGateway(log)
	if err != nil {
		return fmt.Errorf("failed to init gateway: %w", err)
	}

	announcer, closeEvents, err := cfg.NewBroadcaster(log, os.Stdout, nil)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, closeEvents()) }()

	rowLimit, err := cfg.RowLimit()
	if err != nil {
		return err
	}

	server, err := api.New(api.Config{
		Log:            log,
		Gateway:        gw,
		History:        store,
		Announcer:      announcer,
		RowLimit:       &rowLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	log.Debug("Configuration loaded", zap.String("config", config.ConfigPath), zap.Bool("memory", config.Memory))
	return server.ListenAndServe(ctx, listenAddr)
}

func loadConfig(path, dotEnvPath string) (config.Config, error) {
	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadOptional(path)
	if err != nil {
		var mfe *config.MissingFieldsError
		if errors.As(err, &mfe) {
			return config.Config{}, fmt.Errorf("unable to load config:\n%s", mfe.String())
		}
		return config.Config{}, fmt.Errorf("unable to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("invalid environment override: %w", err)
	}
	if err := os.MkdirAll(string(cfg.Storage.DataDir), 0700); err != nil {
		return config.Config{}, fmt.Errorf("failed to create data directory: %w", err)
	}
	return cfg, nil
}
