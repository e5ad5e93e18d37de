// Package killfeed serves the recent-wins ticker and prunes it in the
// background. Nothing here sits on the battle transaction path: a failed
// append costs a feed line, never a battle result.
package killfeed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/coinhunter/gameserver/internal/repos/killfeed"
	pgkillfeed "github.com/coinhunter/gameserver/internal/repos/killfeed/postgres"
)

const (
	// RecentLimit is how many entries the public feed returns.
	RecentLimit = 5

	// retainCount is how many entries the sweeper keeps.
	retainCount = 50

	// deleteBatch bounds each prune transaction.
	deleteBatch = 500
)

type Service struct {
	feed killfeed.KillFeed
}

func New(db *sql.DB) *Service {
	return &Service{feed: pgkillfeed.New(db)}
}

// Record appends a feed entry, logging and swallowing any failure.
func (s *Service) Record(ctx context.Context, e killfeed.Entry) {
	err := s.feed.Append(ctx, e)
	if err != nil {
		slog.Error("kill feed append failed",
			"player", e.PlayerName, "monster", e.MonsterName, "error", err)
	}
}

// Recent returns the newest feed entries, newest first.
func (s *Service) Recent(ctx context.Context) ([]killfeed.Entry, error) {
	entries, err := s.feed.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent kill feed: %w", err)
	}

	return entries, nil
}

// Sweep deletes everything older than the newest retainCount entries, in
// bounded batches. Each batch commits independently, so a crash mid-sweep
// just leaves work for the next run. Returns how many entries went.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	deleted := 0

	for {
		ids, err := s.feed.StaleIDs(ctx, retainCount, deleteBatch)
		if err != nil {
			return deleted, fmt.Errorf("list stale entries: %w", err)
		}

		if len(ids) == 0 {
			return deleted, nil
		}

		err = s.feed.Delete(ctx, ids)
		if err != nil {
			return deleted, fmt.Errorf("delete stale entries: %w", err)
		}

		deleted += len(ids)
	}
}

// StartSweeper sweeps once now and then every interval until stop is
// canceled. Sweep failures are logged; the loop keeps going.
func (s *Service) StartSweeper(stop context.Context, interval time.Duration) {
	sweep := func() {
		n, err := s.Sweep(stop)
		if err != nil {
			slog.Error("kill feed sweep failed", "deleted", n, "error", err)
			return
		}

		if n > 0 {
			slog.Info("kill feed swept", "deleted", n)
		}
	}

	go func() {
		sweep()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
