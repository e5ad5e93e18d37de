package players

import (
	"database/sql"
	"fmt"

	"github.com/coinhunter/gameserver/internal/repos/players"
)

func (r *playersRepo) OpenBattle(tx *sql.Tx, id string, coin int64, b players.BattleState) error {
	res, err := tx.Exec(`
		UPDATE players
		SET coin = $2,
		    in_battle = TRUE,
		    battle_monster_id = $3,
		    battle_monster_hp = $4,
		    battle_player_hp = $5,
		    battle_multiplier = $6,
		    updated_at = now()
		WHERE id = $1
	`, id, coin, b.MonsterID, b.MonsterHP, b.PlayerHP, b.Multiplier)
	if err != nil {
		return fmt.Errorf("open battle: %w", err)
	}

	return requireRow(res)
}

func (r *playersRepo) UpdateBattle(tx *sql.Tx, id string, b players.BattleState) error {
	res, err := tx.Exec(`
		UPDATE players
		SET battle_monster_hp = $2,
		    battle_player_hp = $3,
		    battle_multiplier = $4,
		    updated_at = now()
		WHERE id = $1
		  AND in_battle
	`, id, b.MonsterHP, b.PlayerHP, b.Multiplier)
	if err != nil {
		return fmt.Errorf("update battle: %w", err)
	}

	return requireRow(res)
}

func (r *playersRepo) Settle(tx *sql.Tx, id string, s players.Settlement) error {
	res, err := tx.Exec(`
		UPDATE players
		SET coin = $2,
		    level = $3,
		    exp = $4,
		    max_hp = $5,
		    earned_today = $6,
		    last_reward_date = $7,
		    in_battle = FALSE,
		    battle_monster_id = NULL,
		    battle_monster_hp = NULL,
		    battle_player_hp = NULL,
		    battle_multiplier = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id, s.Coin, s.Level, s.Exp, s.MaxHP, s.EarnedToday, s.LastRewardDate)
	if err != nil {
		return fmt.Errorf("settle battle: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return players.ErrPlayerNotFound
	}

	return nil
}
