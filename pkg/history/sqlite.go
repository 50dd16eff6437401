package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/localdb"
	"mojapay.io/mobile-money/pkg/recipient"
)

var _ TransactionLogStore = &SQLiteStore{}

// SQLiteStore keeps the log in the local database.
type SQLiteStore struct {
	db *localdb.DB
}

func NewSQLiteStore(db *localdb.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Append(ctx context.Context, tx Transaction) error {
	recipients := tx.Recipients
	if tx.Recipient != nil {
		recipients = []recipient.Recipient{*tx.Recipient}
	}
	recipientsJSON, err := json.Marshal(recipients)
	if err != nil {
		return errs.Wrap(err)
	}

	return s.db.WithTx(ctx, func(dbtx *sql.Tx) error {
		_, err := dbtx.ExecContext(ctx, `
			INSERT INTO transactions (
				id, type, status, total_amount, success_count, failed_count, created_at, recipients
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.ID,
			string(tx.Type),
			string(tx.Status),
			tx.TotalAmount.String(),
			tx.SuccessCount,
			tx.FailedCount,
			tx.CreatedAt.UTC().Format(time.RFC3339Nano),
			string(recipientsJSON),
		)
		return errs.Wrap(err)
	})
}

func (s *SQLiteStore) ListAll(ctx context.Context) (txs []Transaction, err error) {
	err = s.db.WithTx(ctx, func(dbtx *sql.Tx) (err error) {
		rows, err := dbtx.QueryContext(ctx, `
			SELECT id, type, status, total_amount, success_count, failed_count, created_at, recipients
			FROM transactions
			ORDER BY seq DESC`)
		if err != nil {
			return errs.Wrap(err)
		}
		defer func() {
			err = errs.Combine(err, rows.Close())
		}()

		for rows.Next() {
			tx, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		return errs.Wrap(rows.Err())
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(dbtx *sql.Tx) error {
		_, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`)
		return errs.Wrap(err)
	})
}

func scanTransaction(rows *sql.Rows) (Transaction, error) {
	var (
		tx             Transaction
		txType         string
		status         string
		totalAmount    string
		createdAt      string
		recipientsJSON string
	)
	if err := rows.Scan(&tx.ID, &txType, &status, &totalAmount, &tx.SuccessCount, &tx.FailedCount, &createdAt, &recipientsJSON); err != nil {
		return Transaction{}, errs.Wrap(err)
	}

	amount, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return Transaction{}, errs.New("transaction %s: invalid total amount %q", tx.ID, totalAmount)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Transaction{}, errs.New("transaction %s: invalid creation time %q", tx.ID, createdAt)
	}
	var recipients []recipient.Recipient
	if err := json.Unmarshal([]byte(recipientsJSON), &recipients); err != nil {
		return Transaction{}, errs.New("transaction %s: invalid recipients: %v", tx.ID, err)
	}

	tx.Type = Type(txType)
	tx.Status = Status(status)
	tx.TotalAmount = amount
	tx.CreatedAt = created
	if tx.Type == Individual && len(recipients) == 1 {
		tx.Recipient = &recipients[0]
	} else {
		tx.Recipients = recipients
	}
	return tx, nil
}
