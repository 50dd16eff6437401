package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/clingy"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"mojapay.io/mobile-money/pkg/batch"
	"mojapay.io/mobile-money/pkg/confirm"
	"mojapay.io/mobile-money/pkg/csv"
	"mojapay.io/mobile-money/pkg/fancy"
	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/report"
	"mojapay.io/mobile-money/pkg/staging"
)

type cmdBulk struct {
	config           string
	skipConfirmation bool
	edit             bool
	filter           string
	csvOut           string
	pdfOut           string
	csvPath          string
}

func (cmd *cmdBulk) Setup(params clingy.Parameters) {
	cmd.config = configFlag(params)
	cmd.skipConfirmation = toggleFlag(params, "skip-confirmation", "Send the payments without asking for confirmation", false)
	cmd.edit = toggleFlag(params, "edit", "Review and edit the recipients before paying", false)
	cmd.filter = stringFlag(params, "filter", "Rows shown and exported after the run (all, success or failed)", string(report.All))
	cmd.csvOut = stringFlag(params, "csv", "Path of the CSV report to write after the run", "")
	cmd.pdfOut = stringFlag(params, "pdf", "Path of the PDF report to write after the run", "")
	cmd.csvPath = stringArg(params, "CSV", "The recipients CSV file")
}

func (cmd *cmdBulk) Execute(ctx context.Context) (err error) {
	filter, err := report.FilterFromString(cmd.filter)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cmd.config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, s.Close()) }()

	stdout := clingy.Stdout(ctx)
	tr := s.tr

	limit, err := s.cfg.RowLimit()
	if err != nil {
		return err
	}
	imported, err := csv.Load(cmd.csvPath, limit)
	switch {
	case errors.Is(err, csv.ErrInvalidFormat):
		return fmt.Errorf("%s: %s", tr.T("import.invalid_format"), tr.T("import.invalid_detail"))
	case errors.Is(err, csv.ErrEmptyFile):
		return fmt.Errorf("%s: %s", tr.T("import.empty_file"), tr.T("import.empty_detail"))
	case errors.Is(err, csv.ErrTooManyRows):
		return errors.New(tr.Tf("bulk.over_limit", limit.Max))
	case err != nil:
		return err
	}
	printImport(ctx, tr, imported, limit)

	store := staging.New()
	if err := store.ReplaceAll(imported.Recipients()); err != nil {
		return err
	}
	if cmd.edit {
		if err := editRecipients(tr, store); err != nil {
			return err
		}
	}

	staged := store.Snapshot()
	report.WriteTable(stdout, report.FromRecipients(staged), report.DefaultColumns)

	promptConfirm := confirmer(cmd.skipConfirmation)
	if err := promptConfirm(tr.Tf("bulk.confirm", len(staged), i18n.FormatCurrency(recipient.Total(staged)))); err != nil {
		return err
	}

	gw, err := s.cfg.NewGateway(s.log)
	if err != nil {
		return fmt.Errorf("failed to init gateway: %w", err)
	}

	runner, err := batch.New(batch.Config{
		Log:     s.log,
		Gateway: gw,
		Store:   store,
		UI:      newBulkUI(stdout, tr),
	})
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, batch.ErrEmpty) {
			return errors.New(tr.T("bulk.empty"))
		}
		return err
	}
	defer func() { err = errs.Combine(err, runner.Acknowledge()) }()

	rows := filter.Apply(report.Sort(result.Rows()))
	report.WriteTable(stdout, rows, bulkReportColumns)

	if err := s.history.Append(ctx, result.Transaction()); err != nil {
		s.log.Error("Unable to record transaction", zap.String("batch", result.BatchID), zap.Error(err))
	}

	if err := exportReports(stdout, tr, cmd.csvOut, cmd.pdfOut, rows, report.Count(result.Rows())); err != nil {
		return err
	}

	broadcaster, closeEvents, err := s.cfg.NewBroadcaster(s.log, stdout, askNotifications(tr))
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, closeEvents()) }()

	broadcaster.BulkCompleted(ctx, confirm.BulkSummary{
		BatchID:      result.BatchID,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		TotalAmount:  result.TotalAmount,
	})
	return nil
}

// bulkReportColumns is shared by the console table and both exports.
var bulkReportColumns = report.DefaultColumns

// exportReports writes the filtered rows to csvPath and pdfPath, skipping
// empty paths. counts summarizes the whole batch for the PDF subtitle.
func exportReports(stdout io.Writer, tr *i18n.Translator, csvPath, pdfPath string, rows []report.Row, counts report.Counts) error {
	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error {
			return report.WriteCSV(f, rows, bulkReportColumns)
		}); err != nil {
			return fmt.Errorf("failed to export CSV report: %w", err)
		}
		fancy.Fsuccessln(stdout, tr.Tf("export.saved", csvPath))
	}
	if pdfPath != "" {
		if err := writeFile(pdfPath, func(f *os.File) error {
			return report.WritePDF(f, rows, bulkReportColumns, report.DefaultTitle, report.Subtitle(counts))
		}); err != nil {
			return fmt.Errorf("failed to export PDF report: %w", err)
		}
		fancy.Fsuccessln(stdout, tr.Tf("export.saved", pdfPath))
	}
	return nil
}

func printImport(ctx context.Context, tr *i18n.Translator, imported csv.Result, limit csv.Limit) {
	stdout := clingy.Stdout(ctx)
	for _, skipped := range imported.Skipped {
		fancy.Fwarnln(stdout, tr.Tf("import.skipped", skipped.Line, skipped.Reason))
	}
	if imported.OverLimit {
		fancy.Fwarnln(stdout, tr.Tf("bulk.over_limit", limit.Max))
	}
	fancy.Finfoln(stdout, tr.Tf("import.loaded", len(imported.Rows)))
}

func writeFile(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, f.Close()) }()
	return fn(f)
}
