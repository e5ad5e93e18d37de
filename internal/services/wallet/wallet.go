// Package wallet implements the externally triggered balance mutations:
// purchase credits and withdrawal debits, both guarded by idempotency
// markers, plus the read-only withdrawal authorization step.
//
// The guard invariant: the balance write and the marker insert commit in
// the same transaction, so a marker existing is exact proof the mutation
// applied once. Retried requests with the same reference or nonce fail
// with ledger.ErrDuplicateReference and change nothing.
package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/coinhunter/gameserver/internal/infra/pgutils"
	"github.com/coinhunter/gameserver/internal/repos/ledger"
	pgledger "github.com/coinhunter/gameserver/internal/repos/ledger/postgres"
	"github.com/coinhunter/gameserver/internal/repos/players"
	pgplayers "github.com/coinhunter/gameserver/internal/repos/players/postgres"
	"github.com/coinhunter/gameserver/internal/signer"
)

var (
	// ErrInvalidAmount is raised for non-positive amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrWalletNotBound is raised when a withdrawal is requested for a
	// player without a bound wallet address.
	ErrWalletNotBound = errors.New("wallet not bound")
)

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type txRunner interface {
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
}

type Service struct {
	run      txRunner
	players  players.Players
	ledger   ledger.Ledger
	signer   *signer.Signer
	sellRate int64
	now      func() time.Time
}

// New wires the service against postgres. sellRate is how many coins buy
// one on-chain token.
func New(db *sql.DB, sg *signer.Signer, sellRate int64) *Service {
	return &Service{
		run:      pgutils.NewRunner(db),
		players:  pgplayers.New(db),
		ledger:   pgledger.New(db),
		signer:   sg,
		sellRate: sellRate,
		now:      time.Now,
	}
}

// BuyCoins credits a purchase exactly once per reference and returns the
// new balance.
func (s *Service) BuyCoins(ctx context.Context, playerID, reference string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := s.run.WithTx(ctx, func(tx *sql.Tx) error {
		p, err := s.players.LockForUpdate(tx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		newBalance = p.Coin + amount

		err = s.players.SetBalance(tx, playerID, newBalance)
		if err != nil {
			return fmt.Errorf("credit purchase: %w", err)
		}

		err = s.ledger.Insert(tx, ledger.Entry{
			ExternalKey: reference,
			PlayerID:    playerID,
			Kind:        ledger.KindPurchase,
			Amount:      amount,
		})
		if err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("buy coins: %w", err)
	}

	return newBalance, nil
}

// Claim is the payload a player submits to the vault contract.
type Claim struct {
	AmountWei    string
	Nonce        int64
	Signature    string
	VaultAddress string
}

// AuthorizeWithdrawal validates the request against the current record and
// builds a signed claim. It mutates nothing; the debit happens only when
// the client settles with the nonce issued here.
func (s *Service) AuthorizeWithdrawal(ctx context.Context, playerID string, amount int64) (*Claim, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("authorize withdrawal: %w", err)
	}

	if p.WalletAddress == "" {
		return nil, ErrWalletNotBound
	}

	if p.Coin < amount {
		return nil, players.ErrInsufficientFunds
	}

	// coins → wei: amount * 1e18 / sellRate, floor division.
	amountWei := new(big.Int).Mul(big.NewInt(amount), weiPerToken)
	amountWei.Quo(amountWei, big.NewInt(s.sellRate))

	nonce := s.now().UnixMilli()

	sig, err := s.signer.SignClaim(p.WalletAddress, amountWei, nonce)
	if err != nil {
		return nil, fmt.Errorf("sign claim: %w", err)
	}

	return &Claim{
		AmountWei:    amountWei.String(),
		Nonce:        nonce,
		Signature:    sig,
		VaultAddress: s.signer.Vault(),
	}, nil
}

// SettleWithdrawal debits the coins exactly once per nonce and returns the
// new balance. The balance is re-checked here: the authorization step is
// advisory and the record may have changed since.
//
// The marker lookup runs before the funds check, so a retry of a settle
// that already committed reports the duplicate, not the balance it drained.
func (s *Service) SettleWithdrawal(ctx context.Context, playerID string, amount int64, nonce int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	key := strconv.FormatInt(nonce, 10)

	var newBalance int64

	err := s.run.WithTx(ctx, func(tx *sql.Tx) error {
		done, err := s.ledger.Exists(tx, key)
		if err != nil {
			return fmt.Errorf("check nonce: %w", err)
		}

		if done {
			return ledger.ErrDuplicateReference
		}

		p, err := s.players.LockForUpdate(tx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		if p.Coin < amount {
			return players.ErrInsufficientFunds
		}

		err = s.players.DebitWithdrawal(tx, playerID, amount)
		if err != nil {
			return fmt.Errorf("debit withdrawal: %w", err)
		}

		newBalance = p.Coin - amount

		// Backstop for two in-flight settles racing past the lookup.
		err = s.ledger.Insert(tx, ledger.Entry{
			ExternalKey: key,
			PlayerID:    playerID,
			Kind:        ledger.KindWithdrawal,
			Amount:      amount,
		})
		if err != nil {
			return fmt.Errorf("record withdrawal: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("settle withdrawal: %w", err)
	}

	return newBalance, nil
}
