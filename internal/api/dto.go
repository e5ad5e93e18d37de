package api

import (
	"github.com/coinhunter/gameserver/internal/repos/players"
	"github.com/coinhunter/gameserver/internal/services/battle"
)

type playerDTO struct {
	Name           string `json:"name"`
	WalletAddress  string `json:"walletAddress"`
	Coin           int64  `json:"coin"`
	Level          int    `json:"level"`
	Exp            int    `json:"exp"`
	HP             int    `json:"hp"`
	EarnedToday    int64  `json:"earnedFromGameToday"`
	LastRewardDate string `json:"lastRewardDate"`
	InBattle       bool   `json:"inBattle"`
}

func newPlayerDTO(p *players.Player) playerDTO {
	return playerDTO{
		Name:           p.Name,
		WalletAddress:  p.WalletAddress,
		Coin:           p.Coin,
		Level:          p.Level,
		Exp:            p.Exp,
		HP:             p.MaxHP,
		EarnedToday:    p.EarnedToday,
		LastRewardDate: p.LastRewardDate,
		InBattle:       p.InBattle,
	}
}

type roundDTO struct {
	EnemyDeck     []int  `json:"enemyDeck"`
	BattleStatus  string `json:"battleStatus"`
	MonsterHP     int    `json:"eHp"`
	PlayerHP      int    `json:"pHp"`
	PlayerDamage  int    `json:"pDmg"`
	MonsterDamage int    `json:"eDmg"`
	RewardCoins   int64  `json:"rewardCoin"`
	RewardExp     int    `json:"rewardExp"`
	IsLevelUp     bool   `json:"isLevelUp"`
	FeeRefund     int64  `json:"feeRefund"`
	EntryFee      int64  `json:"entryFee"`
	HitDailyLimit bool   `json:"hitDailyLimit"`
	AllowedProfit int64  `json:"allowedProfit"`
	Coin          int64  `json:"coin"`
	Level         int    `json:"level"`
	Exp           int    `json:"exp"`
	HP            int    `json:"hp"`
}

func newRoundDTO(r *battle.Round) roundDTO {
	return roundDTO{
		EnemyDeck:     r.OpponentHand[:],
		BattleStatus:  r.Outcome,
		MonsterHP:     r.MonsterHP,
		PlayerHP:      r.PlayerHP,
		PlayerDamage:  r.PlayerDamage,
		MonsterDamage: r.MonsterDamage,
		RewardCoins:   r.RewardCoins,
		RewardExp:     r.RewardExp,
		IsLevelUp:     r.LeveledUp,
		FeeRefund:     r.FeeRefund,
		EntryFee:      r.EntryFee,
		HitDailyLimit: r.HitDailyLimit,
		AllowedProfit: r.AllowedProfit,
		Coin:          r.Coin,
		Level:         r.Level,
		Exp:           r.Exp,
		HP:            r.MaxHP,
	}
}

type claimDTO struct {
	Amount       string `json:"amount"`
	Nonce        int64  `json:"nonce"`
	Signature    string `json:"signature"`
	VaultAddress string `json:"vaultAddress"`
}

type feedEntryDTO struct {
	PlayerName  string `json:"playerName"`
	Level       int    `json:"level"`
	MonsterName string `json:"monsterName"`
	Reward      int64  `json:"reward"`
}
