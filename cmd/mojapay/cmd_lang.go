package main

import (
	"context"

	"github.com/zeebo/clingy"
	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/fancy"
	"mojapay.io/mobile-money/pkg/i18n"
)

type cmdLang struct {
	config string
	lang   *string
}

func (cmd *cmdLang) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
	cmd.lang = optStringArg(params, "LANG", "The language to use from now on (fr or en)")
}

func (cmd *cmdLang) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	stdout := clingy.Stdout(ctx)
	if cmd.lang == nil {
		fancy.Finfoln(stdout, s.tr.T("lang.current"))
		return nil
	}

	lang, err := i18n.ParseLanguage(*cmd.lang)
	if err != nil {
		return err
	}
	if err := s.db.SetSetting(ctx, i18n.SettingKey, lang.String()); err != nil {
		return err
	}
	fancy.Fsuccessln(stdout, i18n.Lookup(lang, "lang.saved"), "("+i18n.Lookup(lang, "lang.current")+")")
	return nil
}
