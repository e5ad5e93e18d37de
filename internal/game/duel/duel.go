// Package duel implements the five-card duel: hand validation, the pure
// round resolver, and the dealer that draws the opponent's hand.
package duel

import "math/rand/v2"

// HandSize is the number of cards in a hand. A valid hand is a permutation
// of 1..HandSize, in the order the cards are meant to be played.
const HandSize = 5

// Hand is a fixed-size hand of card values.
type Hand [HandSize]int

// ValidHand reports whether cards is exactly a permutation of 1..HandSize.
// Anything else is a forged hand.
func ValidHand(cards []int) bool {
	if len(cards) != HandSize {
		return false
	}

	var seen [HandSize + 1]bool
	for _, c := range cards {
		if c < 1 || c > HandSize || seen[c] {
			return false
		}

		seen[c] = true
	}

	return true
}

// ToHand copies a validated slice into a Hand. Callers must have checked
// ValidHand first.
func ToHand(cards []int) Hand {
	var h Hand
	copy(h[:], cards)

	return h
}

// Resolve plays one round and returns the raw damage each side deals,
// before any multiplier.
//
// Cards are paired positionally in submitted order. The higher card of a
// pair joins its owner's survivor set; ties join neither. The side with
// more survivors deals the sum of its survivor values and the other side
// deals nothing. On an equal count, both empty included, both sums apply
// at once.
func Resolve(player, opponent Hand) (playerDmg, opponentDmg int) {
	var playerSum, opponentSum, playerN, opponentN int

	for i := range HandSize {
		switch {
		case player[i] > opponent[i]:
			playerSum += player[i]
			playerN++
		case opponent[i] > player[i]:
			opponentSum += opponent[i]
			opponentN++
		}
	}

	switch {
	case playerN > opponentN:
		return playerSum, 0
	case opponentN > playerN:
		return 0, opponentSum
	default:
		return playerSum, opponentSum
	}
}

// Dealer draws the opponent hand for a round.
type Dealer interface {
	Deal() Hand
}

// DealerFunc adapts a function to the Dealer interface.
type DealerFunc func() Hand

func (f DealerFunc) Deal() Hand { return f() }

// NewShuffleDealer returns a Dealer producing uniformly random
// permutations. A nil rng uses the shared global source.
func NewShuffleDealer(rng *rand.Rand) Dealer {
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	return DealerFunc(func() Hand {
		h := Hand{1, 2, 3, 4, 5}
		shuffle(HandSize, func(i, j int) {
			h[i], h[j] = h[j], h[i]
		})

		return h
	})
}
