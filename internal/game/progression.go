package game

import "time"

// DateStamp renders the server-side calendar date used for daily-cap
// bookkeeping. Clients never supply dates.
func DateStamp(t time.Time) string {
	return t.Format("2006-01-02")
}

// RolloverDaily resets the earned-today counter when the stored date no
// longer matches today. Returns the date and counter to persist.
func RolloverDaily(lastRewardDate string, earnedToday int64, now time.Time) (string, int64) {
	today := DateStamp(now)
	if today != lastRewardDate {
		return today, 0
	}

	return lastRewardDate, earnedToday
}

// WinSettlement is the outcome of SettleWin.
type WinSettlement struct {
	// RewardCoins is the total credit: allowed profit plus the refunded
	// entry fee.
	RewardCoins   int64
	AllowedProfit int64
	HitDailyLimit bool
	RewardExp     int

	Level     int
	Exp       int
	MaxHP     int
	LeveledUp bool

	EarnedToday int64
}

// SettleWin computes the reward, daily-cap clamp and level progression for
// a won battle.
//
// playerHP is the remembered HP at the moment of the win; the base reward
// is the monster's full HP when at least half the player's health remains,
// otherwise half of it. Only profit counts against the daily cap; the
// entry fee refund rides on top. Leveling cascades while the threshold
// table still defines the current level.
func SettleWin(m Monster, playerHP, level, exp int, earnedToday, entryFee int64) WinSettlement {
	maxHP := MaxHP(level)

	baseReward := int64(m.HP)
	if playerHP*2 < maxHP { // fraction remaining < 0.5
		baseReward = int64(m.HP / 2)
	}

	s := WinSettlement{RewardExp: ExpReward(m.Category)}

	if earnedToday+baseReward > DailyEarnLimit {
		s.AllowedProfit = max(0, DailyEarnLimit-earnedToday)
		s.HitDailyLimit = true
	} else {
		s.AllowedProfit = baseReward
	}

	s.RewardCoins = s.AllowedProfit + entryFee
	s.EarnedToday = earnedToday + s.AllowedProfit

	exp += s.RewardExp
	for {
		need, ok := levelNeed[level]
		if !ok || exp < need {
			break
		}

		level++
		s.LeveledUp = true
	}

	s.Level = level
	s.Exp = exp
	s.MaxHP = MaxHP(level)

	return s
}

// LoseRefund returns the partial entry-fee refund for a lost battle: half
// the fee when the player brought the monster below half health, nothing
// otherwise.
func LoseRefund(m Monster, monsterHP int, entryFee int64) int64 {
	if monsterHP*2 < m.HP { // fraction remaining < 0.5
		return entryFee / 2
	}

	return 0
}
