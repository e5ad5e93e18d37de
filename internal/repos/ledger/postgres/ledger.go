package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coinhunter/gameserver/internal/repos/ledger"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Exists(tx *sql.Tx, externalKey string) (bool, error) {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM ledger_entries WHERE external_key = $1
		)
	`, externalKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ledger entry: %w", err)
	}

	return exists, nil
}

func (r *ledgerRepo) Insert(tx *sql.Tx, e ledger.Entry) error {
	_, err := tx.Exec(`
		INSERT INTO ledger_entries (external_key, player_id, kind, amount)
		VALUES ($1, $2, $3, $4)
	`, e.ExternalKey, e.PlayerID, e.Kind, e.Amount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ledger.ErrDuplicateReference
		}

		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}
