package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/config"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/localdb"
)

// session holds what every command needs once the configuration is loaded.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	db      *localdb.DB
	history history.TransactionLogStore
	tr      *i18n.Translator
}

func loadConfig(path string) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
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
	return cfg, nil
}

func openSession(ctx context.Context, configPath string) (_ *session, err error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(string(cfg.Storage.DataDir), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	log, err := openLog(cfg.Storage.LogDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	db, err := localdb.Open(ctx, cfg.Storage.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			err = errs.Combine(err, db.Close())
		}
	}()

	lang, err := preferredLanguage(ctx, cfg, db)
	if err != nil {
		return nil, err
	}
	cfg.Language = lang.String()

	return &session{
		cfg:     cfg,
		log:     log,
		db:      db,
		history: history.NewSQLiteStore(db),
		tr:      i18n.New(lang),
	}, nil
}

func (s *session) Close() error {
	_ = s.log.Sync()
	return s.db.Close()
}

// preferredLanguage returns the language saved with "lang", falling back to
// the configured one. An environment override always wins.
func preferredLanguage(ctx context.Context, cfg config.Config, db *localdb.DB) (i18n.Language, error) {
	if _, ok := os.LookupEnv(config.EnvPrefix + "_LANGUAGE"); !ok {
		saved, ok, err := db.Setting(ctx, i18n.SettingKey)
		if err != nil {
			return "", err
		}
		if ok {
			if lang, err := i18n.ParseLanguage(saved); err == nil {
				return lang, nil
			}
		}
	}
	return cfg.Lang()
}
