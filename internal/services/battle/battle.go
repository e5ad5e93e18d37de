// Package battle owns the battle session lifecycle: fee-charged start,
// per-round resolution, and settlement. Combat state that affects currency
// never leaves the server; the only client input trusted here is the
// five-card hand, and that only after validation.
package battle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coinhunter/gameserver/internal/game"
	"github.com/coinhunter/gameserver/internal/game/duel"
	"github.com/coinhunter/gameserver/internal/infra/pgutils"
	"github.com/coinhunter/gameserver/internal/repos/killfeed"
	"github.com/coinhunter/gameserver/internal/repos/players"
	pgplayers "github.com/coinhunter/gameserver/internal/repos/players/postgres"
)

var (
	// ErrCheatDetected is raised for hands that are not a permutation of
	// 1..5. Never retryable; the session does not move.
	ErrCheatDetected = errors.New("cheat detected")

	// ErrNoActiveBattle is raised when an action arrives without a paid,
	// open session.
	ErrNoActiveBattle = errors.New("no active battle")

	// ErrBattleInProgress is raised when starting a battle while one is
	// already open.
	ErrBattleInProgress = errors.New("battle already in progress")

	// ErrMonsterNotFound is raised for unknown monster ids.
	ErrMonsterNotFound = errors.New("monster not found")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
}

// feedRecorder appends a kill-feed entry. Implementations must swallow
// their own failures; the battle result is already committed when this
// runs.
type feedRecorder interface {
	Record(ctx context.Context, e killfeed.Entry)
}

type Service struct {
	run     txRunner
	players players.Players
	dealer  duel.Dealer
	feed    feedRecorder
	now     func() time.Time
}

func New(db *sql.DB, dealer duel.Dealer, feed feedRecorder) *Service {
	return &Service{
		run:     pgutils.NewRunner(db),
		players: pgplayers.New(db),
		dealer:  dealer,
		feed:    feed,
		now:     time.Now,
	}
}

// Start opens a battle session against the given monster. The entry fee
// (equal to the player's max HP) is debited up front, so abandoning the
// session costs the fee. Returns the balance after the debit.
func (s *Service) Start(ctx context.Context, playerID string, monsterID int) (int64, error) {
	monster, ok := game.MonsterByID(monsterID)
	if !ok {
		return 0, ErrMonsterNotFound
	}

	var newBalance int64

	err := s.run.WithTx(ctx, func(tx *sql.Tx) error {
		p, err := s.players.LockForUpdate(tx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		if p.InBattle {
			return ErrBattleInProgress
		}

		fee := game.EntryFee(p.Level)
		if p.Coin < fee {
			return players.ErrInsufficientFunds
		}

		newBalance = p.Coin - fee

		err = s.players.OpenBattle(tx, playerID, newBalance, players.BattleState{
			MonsterID:  monster.ID,
			MonsterHP:  monster.HP,
			PlayerHP:   int(fee), // entry fee == max HP
			Multiplier: 1,
		})
		if err != nil {
			return fmt.Errorf("open battle: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("battle start: %w", err)
	}

	return newBalance, nil
}

// Action plays one round with the submitted hand. The opponent hand is
// drawn fresh every round; nothing persists between rounds except the
// remembered HP values and the damage multiplier.
func (s *Service) Action(ctx context.Context, playerID string, hand []int) (*Round, error) {
	if !duel.ValidHand(hand) {
		// The audit attribute keeps cheat records filterable in the
		// aggregated JSON stream.
		slog.Warn("cheat detected",
			"audit", "anticheat",
			"player", playerID,
			"hand", hand)

		return nil, ErrCheatDetected
	}

	playerHand := duel.ToHand(hand)

	var (
		round Round
		feed  *killfeed.Entry
	)

	err := s.run.WithTx(ctx, func(tx *sql.Tx) error {
		// A retried transaction starts from scratch.
		round = Round{}
		feed = nil

		p, err := s.players.LockForUpdate(tx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		if !p.InBattle || p.Battle == nil {
			return ErrNoActiveBattle
		}

		monster, ok := game.MonsterByID(p.Battle.MonsterID)
		if !ok {
			// Stale session pointing at a retired monster id.
			return ErrMonsterNotFound
		}

		feed, err = s.resolveRound(tx, p, monster, playerHand, &round)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("battle action: %w", err)
	}

	// The transaction is committed; the feed append rides outside it and
	// must never fail the battle.
	if feed != nil {
		s.feed.Record(ctx, *feed)
	}

	return &round, nil
}

// resolveRound runs the duel and writes the outcome. Returns a kill-feed
// entry when the round is a qualifying win.
func (s *Service) resolveRound(
	tx *sql.Tx,
	p *players.Player,
	monster game.Monster,
	hand duel.Hand,
	round *Round,
) (*killfeed.Entry, error) {
	maxHP := game.MaxHP(p.Level)
	entryFee := int64(maxHP)

	rewardDate, earnedToday := game.RolloverDaily(p.LastRewardDate, p.EarnedToday, s.now())

	opponent := s.dealer.Deal()

	rawPlayer, rawMonster := duel.Resolve(hand, opponent)
	mult := p.Battle.Multiplier
	playerDmg := rawPlayer * mult
	monsterDmg := rawMonster * mult

	monsterHP := p.Battle.MonsterHP - playerDmg
	playerHP := p.Battle.PlayerHP - monsterDmg

	round.OpponentHand = opponent
	round.PlayerDamage = playerDmg
	round.MonsterDamage = monsterDmg
	round.EntryFee = entryFee
	round.Coin = p.Coin
	round.Level = p.Level
	round.Exp = p.Exp
	round.MaxHP = maxHP
	round.MonsterHP = monsterHP
	round.PlayerHP = playerHP

	switch {
	case monsterHP <= 0 && playerHP <= 0:
		// Both died: the session silently continues at full health with
		// the multiplier forced to 2, but the caller sees 0/0 so it can
		// play the mutual-death animation.
		round.Outcome = OutcomeDoubleKO
		round.MonsterHP = 0
		round.PlayerHP = 0

		err := s.players.UpdateBattle(tx, p.ID, players.BattleState{
			MonsterID:  monster.ID,
			MonsterHP:  monster.HP,
			PlayerHP:   maxHP,
			Multiplier: 2,
		})
		if err != nil {
			return nil, fmt.Errorf("reset after double ko: %w", err)
		}

		return nil, nil

	case monsterHP <= 0:
		round.Outcome = OutcomeWin
		round.MonsterHP = 0

		win := game.SettleWin(monster, playerHP, p.Level, p.Exp, earnedToday, entryFee)

		round.RewardCoins = win.RewardCoins
		round.AllowedProfit = win.AllowedProfit
		round.HitDailyLimit = win.HitDailyLimit
		round.RewardExp = win.RewardExp
		round.LeveledUp = win.LeveledUp
		round.Coin = p.Coin + win.RewardCoins
		round.Level = win.Level
		round.Exp = win.Exp
		round.MaxHP = win.MaxHP

		err := s.players.Settle(tx, p.ID, players.Settlement{
			Coin:           round.Coin,
			Level:          win.Level,
			Exp:            win.Exp,
			MaxHP:          win.MaxHP,
			EarnedToday:    win.EarnedToday,
			LastRewardDate: rewardDate,
		})
		if err != nil {
			return nil, fmt.Errorf("settle win: %w", err)
		}

		if win.AllowedProfit <= 0 {
			return nil, nil
		}

		return &killfeed.Entry{
			PlayerName:  p.Name,
			Level:       win.Level,
			MonsterName: monster.Name,
			Reward:      win.AllowedProfit,
		}, nil

	case playerHP <= 0:
		round.Outcome = OutcomeLose
		round.PlayerHP = 0

		refund := game.LoseRefund(monster, monsterHP, entryFee)

		round.FeeRefund = refund
		round.Coin = p.Coin + refund

		err := s.players.Settle(tx, p.ID, players.Settlement{
			Coin:           round.Coin,
			Level:          p.Level,
			Exp:            p.Exp,
			MaxHP:          maxHP,
			EarnedToday:    earnedToday,
			LastRewardDate: rewardDate,
		})
		if err != nil {
			return nil, fmt.Errorf("settle loss: %w", err)
		}

		return nil, nil

	default:
		round.Outcome = OutcomePlaying

		err := s.players.UpdateBattle(tx, p.ID, players.BattleState{
			MonsterID:  monster.ID,
			MonsterHP:  monsterHP,
			PlayerHP:   playerHP,
			Multiplier: mult,
		})
		if err != nil {
			return nil, fmt.Errorf("persist round: %w", err)
		}

		return nil, nil
	}
}
