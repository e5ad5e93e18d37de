package players

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/coinhunter/gameserver/internal/infra/pgtestutil"
	"github.com/coinhunter/gameserver/internal/repos/players"
)

func TestBattleLifecycle(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	repo := New(db)

	seedPlayer(t, db, "p1", 40)

	state := players.BattleState{MonsterID: 3, MonsterHP: 20, PlayerHP: 20, Multiplier: 1}

	err := inTx(t, db, func(tx *sql.Tx) error {
		return repo.OpenBattle(tx, "p1", 20, state)
	})
	if err != nil {
		t.Fatalf("open battle: %v", err)
	}

	p, err := repo.Get(t.Context(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if p.Coin != 20 || !p.InBattle || p.Battle == nil {
		t.Fatalf("unexpected record after open: %+v", p)
	}
	if *p.Battle != state {
		t.Fatalf("unexpected battle state: got %+v, want %+v", *p.Battle, state)
	}

	next := players.BattleState{MonsterID: 3, MonsterHP: 11, PlayerHP: 14, Multiplier: 1}

	err = inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpdateBattle(tx, "p1", next)
	})
	if err != nil {
		t.Fatalf("update battle: %v", err)
	}

	p, err = repo.Get(t.Context(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if *p.Battle != next {
		t.Fatalf("unexpected battle state: got %+v, want %+v", *p.Battle, next)
	}

	err = inTx(t, db, func(tx *sql.Tx) error {
		return repo.Settle(tx, "p1", players.Settlement{
			Coin: 64, Level: 1, Exp: 3, MaxHP: 20,
			EarnedToday: 24, LastRewardDate: "2026-08-31",
		})
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	p, err = repo.Get(t.Context(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if p.InBattle || p.Battle != nil {
		t.Fatalf("battle columns not cleared: %+v", p)
	}
	if p.Coin != 64 || p.Exp != 3 || p.EarnedToday != 24 {
		t.Fatalf("unexpected settled record: %+v", p)
	}
}

func TestUpdateBattle_NoOpenSession(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	repo := New(db)

	seedPlayer(t, db, "p1", 40)

	err := inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpdateBattle(tx, "p1", players.BattleState{
			MonsterID: 1, MonsterHP: 5, PlayerHP: 5, Multiplier: 1,
		})
	})
	if !errors.Is(err, players.ErrPlayerNotFound) {
		t.Fatalf("unexpected error: got %v, want %v", err, players.ErrPlayerNotFound)
	}
}
