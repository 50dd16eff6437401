package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/zeebo/clingy"

	"mojapay.io/mobile-money/pkg/config"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/fancy"
	"mojapay.io/mobile-money/pkg/i18n"
)

type cmdSample struct {
	force bool
	path  *string
}

func (cmd *cmdSample) Setup(params clingy.Parameters) {
	cmd.force = toggleFlag(params, "force", "Overwrite the file if it exists", false)
	cmd.path = optStringArg(params, "PATH", "Where to write the template (default "+csv.SampleFileName+")")
}

func (cmd *cmdSample) Execute(ctx context.Context) error {
	path := csv.SampleFileName
	if cmd.path != nil {
		path = *cmd.path
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if cmd.force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%q already exists; use --force to overwrite it", path)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(csv.SampleCSV()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fancy.Fsuccessln(clingy.Stdout(ctx), i18n.Fmt(sampleLanguage(), "sample.saved", path))
	return nil
}

// sampleLanguage picks the message language without opening a session.
func sampleLanguage() i18n.Language {
	if lang, err := i18n.ParseLanguage(os.Getenv(config.EnvPrefix + "_LANGUAGE")); err == nil {
		return lang
	}
	return i18n.Default
}
