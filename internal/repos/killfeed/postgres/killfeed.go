package killfeed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coinhunter/gameserver/internal/repos/killfeed"
)

var _ killfeed.KillFeed = (*killfeedRepo)(nil)

type killfeedRepo struct{ db *sql.DB }

func New(db *sql.DB) *killfeedRepo {
	return &killfeedRepo{db: db}
}

func (r *killfeedRepo) Append(ctx context.Context, e killfeed.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kill_feed (player_name, level, monster_name, reward)
		VALUES ($1, $2, $3, $4)
	`, e.PlayerName, e.Level, e.MonsterName, e.Reward)
	if err != nil {
		return fmt.Errorf("append kill feed: %w", err)
	}

	return nil
}

func (r *killfeedRepo) Recent(ctx context.Context, limit int) ([]killfeed.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_name, level, monster_name, reward, created_at
		FROM kill_feed
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query kill feed: %w", err)
	}
	defer rows.Close()

	var out []killfeed.Entry

	for rows.Next() {
		var e killfeed.Entry

		err = rows.Scan(&e.ID, &e.PlayerName, &e.Level, &e.MonsterName, &e.Reward, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan kill feed: %w", err)
		}

		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate kill feed: %w", err)
	}

	return out, nil
}

func (r *killfeedRepo) StaleIDs(ctx context.Context, keep, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM kill_feed
		ORDER BY created_at DESC, id DESC
		OFFSET $1
		LIMIT $2
	`, keep, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale ids: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64

		err = rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("scan stale id: %w", err)
		}

		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate stale ids: %w", err)
	}

	return ids, nil
}

func (r *killfeedRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM kill_feed
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("delete kill feed entries: %w", err)
	}

	return nil
}
