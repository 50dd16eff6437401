package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/zeebo/clingy"
	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/fancy"
	"mojapay.io/mobile-money/pkg/history"
	"mojapay.io/mobile-money/pkg/i18n"
)

type cmdHistoryList struct {
	config string
}

func (cmd *cmdHistoryList) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
}

func (cmd *cmdHistoryList) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	txs, err := s.history.ListAll(ctx)
	if err != nil {
		return err
	}

	stdout := clingy.Stdout(ctx)
	if len(txs) == 0 {
		fancy.Finfoln(stdout, s.tr.T("history.empty"))
		return nil
	}

	table := tablewriter.NewWriter(stdout)
	table.SetHeader([]string{"Date", "Type", "Description", "Montant", "Statut"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, tx := range txs {
		table.Append([]string{
			tx.CreatedAt.Local().Format(time.DateTime),
			string(tx.Type),
			describeTransaction(tx),
			i18n.FormatCurrency(tx.TotalAmount),
			fancy.Sprint(fancy.StatusLevel(string(tx.Status)), s.tr.T("status."+string(tx.Status))),
		})
	}
	table.Render()
	return nil
}

func describeTransaction(tx history.Transaction) string {
	if tx.Recipient != nil {
		return describeRecipient(*tx.Recipient)
	}
	return fmt.Sprintf("%d/%d", tx.SuccessCount, len(tx.Recipients))
}

type cmdHistoryStats struct {
	config string
}

func (cmd *cmdHistoryStats) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
}

func (cmd *cmdHistoryStats) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	txs, err := s.history.ListAll(ctx)
	if err != nil {
		return err
	}
	stats := history.ComputeStats(txs)
	fancy.Finfoln(clingy.Stdout(ctx), s.tr.Tf("history.stats", stats.Total, stats.Successful, stats.Failed, i18n.FormatCurrency(stats.TotalAmount)))
	return nil
}

type cmdHistoryExport struct {
	config string
	path   string
}

func (cmd *cmdHistoryExport) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
	cmd.path = stringArg(params, "PATH", "The CSV file to write")
}

func (cmd *cmdHistoryExport) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	txs, err := s.history.ListAll(ctx)
	if err != nil {
		return err
	}
	if err := writeFile(cmd.path, func(f *os.File) error {
		return history.ExportCSV(f, txs)
	}); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	fancy.Fsuccessln(clingy.Stdout(ctx), s.tr.Tf("export.saved", cmd.path), "("+strconv.Itoa(len(txs))+")")
	return nil
}

type cmdHistoryClear struct {
	config           string
	skipConfirmation bool
}

func (cmd *cmdHistoryClear) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
	cmd.skipConfirmation = toggleFlag(params, "skip-confirmation", "Clear the history without asking for confirmation", false)
}

func (cmd *cmdHistoryClear) Execute(ctx context.Context) (err error) {
	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	if err := confirmer(cmd.skipConfirmation)(s.tr.T("history.confirm_clear")); err != nil {
		return err
	}
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	fancy.Fsuccessln(clingy.Stdout(ctx), s.tr.T("history.cleared"))
	return nil
}
