package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/staging"
)

func promptConfirm(label string) error {
	_, err := (&promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}).Run()
	if err != nil {
		return errors.New("aborted")
	}
	return nil
}

// confirmer returns promptConfirm, or a stand-in that only reports what was
// confirmed if skip is set.
func confirmer(skip bool) func(string) error {
	if !skip {
		return promptConfirm
	}
	return func(label string) error {
		fmt.Printf("Skipping confirmation to %s!\n", label)
		return nil
	}
}

// askNotifications asks once whether completion notifications are wanted.
func askNotifications(tr *i18n.Translator) func(context.Context) bool {
	return func(context.Context) bool {
		return promptConfirm(tr.T("notify.ask")) == nil
	}
}

func promptField(label, def string, validate func(string) bool, invalid string) (string, error) {
	value, err := (&promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(s string) error {
			if !validate(s) {
				return errors.New(invalid)
			}
			return nil
		},
	}).Run()
	if err != nil {
		return "", errors.New("aborted")
	}
	return strings.TrimSpace(value), nil
}

// promptRecipient asks for the fields of a new recipient, validating each
// as it is typed.
func promptRecipient(tr *i18n.Translator, def recipient.Recipient) (recipient.Recipient, error) {
	phone, err := promptField(tr.T("form.phone"), def.PhoneNumber, recipient.ValidPhoneNumber, tr.T("form.invalid_phone"))
	if err != nil {
		return recipient.Recipient{}, err
	}
	name, err := promptField(tr.T("form.name"), def.FullName, recipient.ValidName, tr.T("form.name_required"))
	if err != nil {
		return recipient.Recipient{}, err
	}
	defAmount := ""
	if !def.Amount.IsZero() {
		defAmount = def.Amount.String()
	}
	amountStr, err := promptField(tr.T("form.amount"), defAmount, recipient.ValidAmount, tr.T("form.invalid_amount"))
	if err != nil {
		return recipient.Recipient{}, err
	}
	amount, err := recipient.ParseAmount(amountStr)
	if err != nil {
		return recipient.Recipient{}, err
	}
	return recipient.New(phone, name, amount), nil
}

// editRecipients lets the user add, change and remove staged recipients
// until they choose to continue.
func editRecipients(tr *i18n.Translator, store *staging.Store) error {
	return newRecipientEditor(tr, store).run()
}

const (
	editContinue = iota
	editAdd
	editChange
	editRemove
)

type recipientEditor struct {
	tr    *i18n.Translator
	store *staging.Store

	// prompts, replaced in tests
	chooseAction    func(label string, items []string) (int, error)
	chooseRecipient func(label string, items []string) (int, error)
	promptRecipient func(def recipient.Recipient) (recipient.Recipient, error)
}

func newRecipientEditor(tr *i18n.Translator, store *staging.Store) *recipientEditor {
	return &recipientEditor{
		tr:              tr,
		store:           store,
		chooseAction:    promptSelect,
		chooseRecipient: promptSelect,
		promptRecipient: func(def recipient.Recipient) (recipient.Recipient, error) {
			return promptRecipient(tr, def)
		},
	}
}

func (e *recipientEditor) run() error {
	actions := []string{e.tr.T("edit.continue"), e.tr.T("edit.add"), e.tr.T("edit.change"), e.tr.T("edit.remove")}
	for {
		action, err := e.chooseAction(e.tr.T("edit.title"), actions)
		if err != nil {
			return err
		}

		switch action {
		case editContinue:
			return nil
		case editAdd:
			r, err := e.promptRecipient(recipient.Recipient{})
			if err != nil {
				return err
			}
			if _, err := e.store.Add(r); err != nil {
				return err
			}
		case editChange:
			r, ok, err := e.selectRecipient()
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			edited, err := e.promptRecipient(r)
			if err != nil {
				return err
			}
			for field, value := range map[staging.Field]string{
				staging.Phone:  edited.PhoneNumber,
				staging.Name:   edited.FullName,
				staging.Amount: edited.Amount.String(),
			} {
				if err := e.store.Update(r.ID, field, value); err != nil {
					return err
				}
			}
		case editRemove:
			r, ok, err := e.selectRecipient()
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := e.store.Remove(r.ID); err != nil {
				return err
			}
		}
	}
}

// selectRecipient returns false when there is nothing to select.
func (e *recipientEditor) selectRecipient() (recipient.Recipient, bool, error) {
	rs := e.store.Snapshot()
	if len(rs) == 0 {
		return recipient.Recipient{}, false, nil
	}
	items := make([]string, 0, len(rs))
	for _, r := range rs {
		items = append(items, describeRecipient(r))
	}
	i, err := e.chooseRecipient(e.tr.T("edit.select"), items)
	if err != nil {
		return recipient.Recipient{}, false, err
	}
	return rs[i], true, nil
}

func promptSelect(label string, items []string) (int, error) {
	i, _, err := (&promptui.Select{Label: label, Items: items, Size: 10}).Run()
	if err != nil {
		return 0, errors.New("aborted")
	}
	return i, nil
}

func describeRecipient(r recipient.Recipient) string {
	return fmt.Sprintf("%s  %s  %s", r.FullName, recipient.FormatPhoneNumber(r.PhoneNumber), i18n.FormatCurrency(r.Amount))
}
