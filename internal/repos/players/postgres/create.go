package players

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coinhunter/gameserver/internal/repos/players"
)

func (r *playersRepo) Create(tx *sql.Tx, p *players.Player) error {
	_, err := tx.Exec(`
		INSERT INTO players (
			id, name, wallet_address, coin, level, exp, max_hp,
			earned_today, last_reward_date, in_battle
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
	`, p.ID, p.Name, p.WalletAddress, p.Coin, p.Level, p.Exp, p.MaxHP,
		p.EarnedToday, p.LastRewardDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return players.ErrAlreadyRegistered
		}

		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}
