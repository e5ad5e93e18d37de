package killfeed

import (
	"fmt"
	"testing"

	"github.com/coinhunter/gameserver/internal/infra/pgtestutil"
	"github.com/coinhunter/gameserver/internal/repos/killfeed"
)

func TestRecent_NewestFirst(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	repo := New(db)

	for i := 1; i <= 8; i++ {
		err := repo.Append(t.Context(), killfeed.Entry{
			PlayerName:  fmt.Sprintf("player_%d", i),
			Level:       1,
			MonsterName: "GOBLIN",
			Reward:      int64(i),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.Recent(t.Context(), 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("unexpected count: got %d, want 5", len(got))
	}

	// Same-timestamp rows fall back to id order, so the last append is first.
	if got[0].PlayerName != "player_8" || got[4].PlayerName != "player_4" {
		t.Fatalf("unexpected order: first %q, last %q", got[0].PlayerName, got[4].PlayerName)
	}
}

func TestStaleIDsAndDelete(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	repo := New(db)

	for i := 1; i <= 10; i++ {
		err := repo.Append(t.Context(), killfeed.Entry{
			PlayerName:  fmt.Sprintf("player_%d", i),
			Level:       1,
			MonsterName: "GOBLIN",
			Reward:      1,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stale, err := repo.StaleIDs(t.Context(), 7, 500)
	if err != nil {
		t.Fatalf("stale ids: %v", err)
	}

	if len(stale) != 3 {
		t.Fatalf("unexpected stale count: got %d, want 3", len(stale))
	}

	err = repo.Delete(t.Context(), stale)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, err := repo.Recent(t.Context(), 100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	if len(remaining) != 7 {
		t.Fatalf("unexpected remaining count: got %d, want 7", len(remaining))
	}

	// Oldest three are the ones gone.
	for _, e := range remaining {
		if e.PlayerName == "player_1" || e.PlayerName == "player_2" || e.PlayerName == "player_3" {
			t.Fatalf("stale entry survived: %q", e.PlayerName)
		}
	}

	err = repo.Delete(t.Context(), nil)
	if err != nil {
		t.Fatalf("delete with no ids: %v", err)
	}
}
