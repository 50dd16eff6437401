package main

import (
	"context"
	"time"

	"github.com/zeebo/clingy"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/batch"
	"mojapay.io/mobile-money/pkg/fancy"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
)

type cmdSend struct {
	config           string
	skipConfirmation bool
	phone            *string
	name             *string
	amount           *string
}

func (cmd *cmdSend) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
	cmd.skipConfirmation = toggleFlag(params, "skip-confirmation", "Send the payment without asking for confirmation", false)
	cmd.phone = optStringArg(params, "PHONE", "The recipient phone number")
	cmd.name = optStringArg(params, "NAME", "The recipient full name")
	cmd.amount = optStringArg(params, "AMOUNT", "The amount in FCFA")
}

func (cmd *cmdSend) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	stdout := clingy.Stdout(ctx)
	tr := s.tr

	r, err := cmd.recipient(tr)
	if err != nil {
		return err
	}

	promptConfirm := confirmer(cmd.skipConfirmation)
	if err := promptConfirm(tr.Tf("send.confirm", i18n.FormatCurrency(r.Amount), describeRecipient(r))); err != nil {
		return err
	}

	gw, err := s.cfg.NewGateway(s.log)
	if err != nil {
		return errs.New("failed to init gateway: %v", err)
	}

	paid, payErr := batch.PayOne(ctx, s.log, gw, r)
	if err := s.history.Append(ctx, history.NewIndividual(paid, time.Now())); err != nil {
		s.log.Error("Unable to record transaction", zap.String("id", paid.ID), zap.Error(err))
	}
	report.WriteTable(stdout, report.FromRecipients([]recipient.Recipient{paid}), report.DefaultColumns)
	if payErr != nil {
		fancy.Ferrorln(stdout, tr.Tf("send.failed", paid.FullName))
		return payErr
	}
	fancy.Fsuccessln(stdout, tr.Tf("send.success", paid.FullName))

	broadcaster, closeEvents, err := s.cfg.NewBroadcaster(s.log, stdout, askNotifications(tr))
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, closeEvents()) }()

	broadcaster.IndividualCompleted(ctx, paid.FullName, paid.Amount)
	return nil
}

// recipient builds the recipient from the arguments, prompting for it when
// they are not all given.
func (cmd *cmdSend) recipient(tr *i18n.Translator) (recipient.Recipient, error) {
	if cmd.phone == nil || cmd.name == nil || cmd.amount == nil {
		def := recipient.Recipient{}
		if cmd.phone != nil {
			def.PhoneNumber = *cmd.phone
		}
		if cmd.name != nil {
			def.FullName = *cmd.name
		}
		return promptRecipient(tr, def)
	}

	amount, err := recipient.ParseAmount(*cmd.amount)
	if err != nil {
		return recipient.Recipient{}, errs.New("%s: %q", tr.T("form.invalid_amount"), *cmd.amount)
	}
	r := recipient.New(*cmd.phone, *cmd.name, amount)
	if err := recipient.Validate(r); err != nil {
		return recipient.Recipient{}, err
	}
	return r, nil
}
