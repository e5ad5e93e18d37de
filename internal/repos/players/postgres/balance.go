package players

import (
	"database/sql"
	"fmt"

	"github.com/coinhunter/gameserver/internal/repos/players"
)

func (r *playersRepo) SetBalance(tx *sql.Tx, id string, coin int64) error {
	res, err := tx.Exec(`
		UPDATE players
		SET coin = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, coin)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	return requireRow(res)
}

func (r *playersRepo) DebitWithdrawal(tx *sql.Tx, id string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE players
		SET coin = coin - $2,
		    last_withdrawal = now(),
		    updated_at = now()
		WHERE id = $1
		  AND coin >= $2
	`, id, amount)
	if err != nil {
		return fmt.Errorf("debit withdrawal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return players.ErrInsufficientFunds
	}

	return nil
}
