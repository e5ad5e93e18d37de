package players

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadyRegistered = errors.New("player already registered")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// BattleState is the server-remembered combat state of an open session.
// It exists on a player record iff the in-battle flag is set.
type BattleState struct {
	MonsterID  int
	MonsterHP  int
	PlayerHP   int
	Multiplier int
}

// Player is the authoritative player record.
type Player struct {
	ID            string
	Name          string
	WalletAddress string
	Coin          int64
	Level         int
	Exp           int
	MaxHP         int

	EarnedToday    int64
	LastRewardDate string

	InBattle bool
	Battle   *BattleState
}

// Settlement carries every field written when a battle session closes.
// The battle columns are cleared in the same statement.
type Settlement struct {
	Coin           int64
	Level          int
	Exp            int
	MaxHP          int
	EarnedToday    int64
	LastRewardDate string
}

// Players persists player records. Methods taking *sql.Tx participate in a
// caller-owned transaction; the rest read with plain connections.
type Players interface {
	// Get reads a player without locking; ErrPlayerNotFound if absent.
	Get(ctx context.Context, id string) (*Player, error)

	// Create inserts a fresh record. ErrAlreadyRegistered if the id is
	// taken (the wallet binds at creation and never changes).
	Create(tx *sql.Tx, p *Player) error

	// LockForUpdate reads a player under FOR UPDATE so concurrent
	// operations on the same record serialize.
	LockForUpdate(tx *sql.Tx, id string) (*Player, error)

	// SetBalance overwrites the coin balance.
	SetBalance(tx *sql.Tx, id string, coin int64) error

	// OpenBattle debits the entry fee and writes the session fields in one
	// statement, setting the in-battle flag.
	OpenBattle(tx *sql.Tx, id string, coin int64, b BattleState) error

	// UpdateBattle rewrites only the remembered HP and multiplier of an
	// open session.
	UpdateBattle(tx *sql.Tx, id string, b BattleState) error

	// Settle closes the session: persists the settlement fields and nulls
	// every battle column atomically.
	Settle(tx *sql.Tx, id string, s Settlement) error

	// DebitWithdrawal subtracts coin and stamps the withdrawal time.
	// ErrInsufficientFunds when the balance cannot cover it.
	DebitWithdrawal(tx *sql.Tx, id string, amount int64) error
}
