package killfeed

import (
	"context"
	"time"
)

// Entry is one kill-feed line: a qualifying win, newest first in queries.
type Entry struct {
	ID          int64
	PlayerName  string
	Level       int
	MonsterName string
	Reward      int64
	CreatedAt   time.Time
}

// KillFeed is the append-only win log. It lives outside the battle
// transaction: appends are best-effort and pruning is a background job.
type KillFeed interface {
	Append(ctx context.Context, e Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// StaleIDs returns up to limit ids of entries older than the newest
	// keep entries.
	StaleIDs(ctx context.Context, keep, limit int) ([]int64, error)

	// Delete removes the given entries. Missing ids are not an error.
	Delete(ctx context.Context, ids []int64) error
}
