// Package players implements registration and profile reads. Registration
// binds the wallet once; the record it creates is the single authoritative
// source for everything the battle and wallet services mutate.
package players

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coinhunter/gameserver/internal/game"
	"github.com/coinhunter/gameserver/internal/infra/pgutils"
	"github.com/coinhunter/gameserver/internal/repos/players"
	pgplayers "github.com/coinhunter/gameserver/internal/repos/players/postgres"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
}

type Service struct {
	run     txRunner
	players players.Players
	now     func() time.Time
}

func New(db *sql.DB) *Service {
	return &Service{
		run:     pgutils.NewRunner(db),
		players: pgplayers.New(db),
		now:     time.Now,
	}
}

// Get returns the player's current record.
func (s *Service) Get(ctx context.Context, id string) (*players.Player, error) {
	p, err := s.players.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}

	return p, nil
}

// Register creates a new player with the starting grant and binds the
// wallet address. The wallet never changes afterwards; re-registering an
// existing id fails with ErrAlreadyRegistered.
func (s *Service) Register(ctx context.Context, id, wallet, name string) error {
	p := &players.Player{
		ID:             id,
		Name:           name,
		WalletAddress:  wallet,
		Coin:           game.StartingCoins,
		Level:          1,
		Exp:            0,
		MaxHP:          game.MaxHP(1),
		EarnedToday:    0,
		LastRewardDate: game.DateStamp(s.now()),
	}

	err := s.run.WithTx(ctx, func(tx *sql.Tx) error {
		err := s.players.Create(tx, p)
		if err != nil {
			return fmt.Errorf("create player: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return nil
}
