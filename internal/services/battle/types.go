package battle

import "github.com/coinhunter/gameserver/internal/game/duel"

// Round outcomes.
const (
	OutcomePlaying  = "playing"
	OutcomeWin      = "win"
	OutcomeLose     = "lose"
	OutcomeDoubleKO = "double_ko"
)

// Round is the full result of one battle action, derived inside the same
// transaction that persisted it.
type Round struct {
	OpponentHand duel.Hand
	Outcome      string

	// Display HP values. On win, lose and double-KO the dead side reads 0
	// even though a double-KO stores full health for the next round.
	MonsterHP int
	PlayerHP  int

	// Multiplier-scaled damage actually applied this round.
	PlayerDamage  int
	MonsterDamage int

	EntryFee      int64
	RewardCoins   int64
	FeeRefund     int64
	AllowedProfit int64
	RewardExp     int
	LeveledUp     bool
	HitDailyLimit bool

	// Refreshed player snapshot after the round.
	Coin  int64
	Level int
	Exp   int
	MaxHP int
}
