package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxHPAndEntryFee(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20, MaxHP(1))
	assert.Equal(t, 28, MaxHP(5))
	assert.Equal(t, 20, MaxHP(0), "levels below 1 clamp to level 1")
	assert.Equal(t, int64(22), EntryFee(2))
}

func TestRolloverDaily(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	date, earned := RolloverDaily("2026-03-14", 500, now)
	assert.Equal(t, "2026-03-14", date)
	assert.Equal(t, int64(500), earned, "same day keeps the counter")

	date, earned = RolloverDaily("2026-03-13", 500, now)
	assert.Equal(t, "2026-03-14", date)
	assert.Zero(t, earned, "a new day resets the counter")
}

func TestSettleWin_RewardDependsOnRemainingHP(t *testing.T) {
	t.Parallel()

	m, ok := MonsterByID(8) // GOLDEN DRAGON, 50 HP
	require.True(t, ok)

	// 10/20 HP left: exactly half, full reward.
	s := SettleWin(m, 10, 1, 0, 0, 20)
	assert.Equal(t, int64(50), s.AllowedProfit)
	assert.Equal(t, int64(70), s.RewardCoins, "profit plus refunded fee")

	// 9/20 HP left: below half, floor(50/2).
	s = SettleWin(m, 9, 1, 0, 0, 20)
	assert.Equal(t, int64(25), s.AllowedProfit)
	assert.Equal(t, int64(45), s.RewardCoins)
}

func TestSettleWin_DailyCapClamp(t *testing.T) {
	t.Parallel()

	m := Monster{ID: 99, Name: "Test", HP: 50, Category: CategoryCommon}

	s := SettleWin(m, 20, 1, 0, 9990, 20)
	assert.Equal(t, int64(10), s.AllowedProfit)
	assert.True(t, s.HitDailyLimit)
	assert.Equal(t, int64(10000), s.EarnedToday)
	assert.Equal(t, int64(30), s.RewardCoins, "capped profit plus full fee refund")

	// Already at the limit: profit is zero but the fee still comes back.
	s = SettleWin(m, 20, 1, 0, 10000, 20)
	assert.Zero(t, s.AllowedProfit)
	assert.True(t, s.HitDailyLimit)
	assert.Equal(t, int64(20), s.RewardCoins)
	assert.Equal(t, int64(10000), s.EarnedToday)
}

func TestSettleWin_LevelingCascades(t *testing.T) {
	t.Parallel()

	m := Monster{ID: 99, Name: "Test", HP: 20, Category: CategoryLegendary}

	// 149 exp at level 1, +5 exp crosses the 150 threshold exactly once.
	s := SettleWin(m, 20, 1, 148, 0, 20)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 153, s.Exp)
	assert.True(t, s.LeveledUp)
	assert.Equal(t, 22, s.MaxHP)

	// Experience exactly equal to the threshold levels up.
	s = SettleWin(m, 20, 1, 145, 0, 20)
	assert.Equal(t, 150, s.Exp)
	assert.Equal(t, 2, s.Level)
	assert.True(t, s.LeveledUp)

	// A huge experience total cascades through every defined level.
	s = SettleWin(m, 20, 1, 995, 0, 20)
	assert.Equal(t, 1000, s.Exp)
	assert.Equal(t, 6, s.Level, "thresholds 150..1000 all crossed")
	assert.Equal(t, 30, s.MaxHP)

	// Beyond the table, leveling stops.
	s = SettleWin(m, 20, 6, 5000, 0, 20)
	assert.Equal(t, 6, s.Level)
	assert.False(t, s.LeveledUp)
}

func TestLoseRefund(t *testing.T) {
	t.Parallel()

	m := Monster{ID: 99, Name: "Test", HP: 30, Category: CategoryMiniboss}

	assert.Equal(t, int64(10), LoseRefund(m, 14, 21), "monster under half: floor(fee/2)")
	assert.Zero(t, LoseRefund(m, 15, 21), "exactly half is not under half")
	assert.Zero(t, LoseRefund(m, 30, 21))
}

func TestExpReward(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ExpReward(CategoryCommon))
	assert.Equal(t, 2, ExpReward(CategoryMiniboss))
	assert.Equal(t, 3, ExpReward(CategoryBoss))
	assert.Equal(t, 5, ExpReward(CategoryLegendary))
	assert.Equal(t, 1, ExpReward("mystery"))
}

func TestMonsterTable(t *testing.T) {
	t.Parallel()

	_, ok := MonsterByID(0)
	assert.False(t, ok)

	m, ok := MonsterByID(7)
	require.True(t, ok)
	assert.Equal(t, "THE OVERLORD", m.Name)
	assert.Equal(t, 40, m.HP)

	assert.Len(t, Monsters(), 8)
}
