package players

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coinhunter/gameserver/internal/repos/players"
)

const playerColumns = `
	id, name, wallet_address, coin, level, exp, max_hp,
	earned_today, last_reward_date, in_battle,
	battle_monster_id, battle_monster_hp, battle_player_hp, battle_multiplier
`

func (r *playersRepo) Get(ctx context.Context, id string) (*players.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE id = $1
	`, id)

	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, players.ErrPlayerNotFound
		}

		return nil, fmt.Errorf("get player: %w", err)
	}

	return p, nil
}

func (r *playersRepo) LockForUpdate(tx *sql.Tx, id string) (*players.Player, error) {
	row := tx.QueryRow(`
		SELECT `+playerColumns+`
		FROM players
		WHERE id = $1
		FOR UPDATE
	`, id)

	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, players.ErrPlayerNotFound
		}

		return nil, fmt.Errorf("lock player: %w", err)
	}

	return p, nil
}

func scanPlayer(row *sql.Row) (*players.Player, error) {
	var (
		p          players.Player
		monsterID  sql.NullInt64
		monsterHP  sql.NullInt64
		playerHP   sql.NullInt64
		multiplier sql.NullInt64
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.WalletAddress, &p.Coin, &p.Level, &p.Exp, &p.MaxHP,
		&p.EarnedToday, &p.LastRewardDate, &p.InBattle,
		&monsterID, &monsterHP, &playerHP, &multiplier,
	)
	if err != nil {
		return nil, err
	}

	if p.InBattle {
		p.Battle = &players.BattleState{
			MonsterID:  int(monsterID.Int64),
			MonsterHP:  int(monsterHP.Int64),
			PlayerHP:   int(playerHP.Int64),
			Multiplier: int(multiplier.Int64),
		}
	}

	return &p, nil
}
