// Package game holds the static game configuration (monsters, level
// thresholds, experience rewards) and the settlement arithmetic for battle
// outcomes. Everything here is pure: no storage, no randomness.
package game

// Monster categories drive the experience reward on a win.
const (
	CategoryCommon    = "common"
	CategoryMiniboss  = "miniboss"
	CategoryBoss      = "boss"
	CategoryLegendary = "legendary"
)

// Monster is a static opponent definition. The table is immutable and
// compiled in; ids are stable because clients reference them directly.
type Monster struct {
	ID       int
	Name     string
	HP       int
	Category string
}

var monsters = []Monster{
	{ID: 1, Name: "Duck Fighter", HP: 20, Category: CategoryCommon},
	{ID: 2, Name: "Dog Fighter", HP: 20, Category: CategoryCommon},
	{ID: 3, Name: "Scorpion Fighter", HP: 20, Category: CategoryCommon},
	{ID: 4, Name: "Rabbit Fighter", HP: 20, Category: CategoryCommon},
	{ID: 5, Name: "Wolf Fighter", HP: 20, Category: CategoryCommon},
	{ID: 6, Name: "Fire Goblin", HP: 30, Category: CategoryMiniboss},
	{ID: 7, Name: "THE OVERLORD", HP: 40, Category: CategoryBoss},
	{ID: 8, Name: "GOLDEN DRAGON", HP: 50, Category: CategoryLegendary},
}

// MonsterByID looks up a monster in the static table.
func MonsterByID(id int) (Monster, bool) {
	for _, m := range monsters {
		if m.ID == id {
			return m, true
		}
	}

	return Monster{}, false
}

// Monsters returns the full static table.
func Monsters() []Monster {
	out := make([]Monster, len(monsters))
	copy(out, monsters)

	return out
}

const (
	// DailyEarnLimit caps net profit credited per calendar day. Refunded
	// entry fees do not count against it.
	DailyEarnLimit int64 = 10000

	// StartingCoins is granted once at registration.
	StartingCoins int64 = 40

	baseMaxHP  = 20
	hpPerLevel = 2
)

// levelNeed maps a level to the experience required to leave it. Levels
// absent from the table are terminal.
var levelNeed = map[int]int{
	1: 150,
	2: 300,
	3: 450,
	4: 700,
	5: 1000,
}

var categoryExp = map[string]int{
	CategoryCommon:    1,
	CategoryMiniboss:  2,
	CategoryBoss:      3,
	CategoryLegendary: 5,
}

// MaxHP derives a player's maximum hit points from their level.
func MaxHP(level int) int {
	if level < 1 {
		level = 1
	}

	return baseMaxHP + (level-1)*hpPerLevel
}

// EntryFee is the coin cost to start a battle. It equals the player's max
// HP at their current level, and doubles as the player's starting HP for
// the session.
func EntryFee(level int) int64 {
	return int64(MaxHP(level))
}

// ExpReward returns the experience granted for defeating a monster of the
// given category. Unknown categories grant 1.
func ExpReward(category string) int {
	exp, ok := categoryExp[category]
	if !ok {
		return 1
	}

	return exp
}
