// internal/database/transfers.go
package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/roshambo/internal/models"
)

// schema holds the receipt table. Amounts are numeric because they are unsigned 64-bit.
const schema = `
	CREATE TABLE IF NOT EXISTS transfers (
		id          UUID PRIMARY KEY,
		tx_id       TEXT NOT NULL,
		method      TEXT NOT NULL,
		to_account  TEXT NOT NULL,
		amount      NUMERIC(20, 0) NOT NULL,
		ts          BIGINT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS transfers_to_account_idx ON transfers (to_account);
`

// EnsureSchema creates the receipt table when it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertTransfers writes a batch of receipts in one transaction.
// A receipt already on file is skipped, so redelivered batches are harmless.
func InsertTransfers(ctx context.Context, pool *pgxpool.Pool, transfers []models.Transfer) error {
	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO transfers (id, tx_id, method, to_account, amount, ts)
			VALUES ($1, $2, $3, $4, $5::numeric, $6)
			ON CONFLICT (id) DO NOTHING
		`
		for _, t := range transfers {
			amount := strconv.FormatUint(uint64(t.Amount), 10)
			if _, err := tx.Exec(ctx, q, t.ID, t.TxID, t.Method, string(t.To), amount, t.Timestamp); err != nil {
				return fmt.Errorf("insert transfer %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert transfers: %w", err)
	}
	return nil
}
