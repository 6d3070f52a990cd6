package blackjackService

import (
	"fmt"
	"math/rand"
)

type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
	suitCount
)

var suitGlyphs = [...]string{"♣", "♦", "♥", "♠"}

func (s Suit) String() string {
	if s < 0 || s >= suitCount {
		return "?"
	}
	return suitGlyphs[s]
}

type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	rankCount
)

var rankNames = [...]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if r < 0 || r >= rankCount {
		return "?"
	}
	return rankNames[r]
}

// Card is a single playing card. Down is only ever flipped for the dealer's hole card.
type Card struct {
	Suit Suit
	Rank Rank
	Down bool
}

// CardFromID maps an id in [0, 52) to a card, suits major.
func CardFromID(id int, down bool) Card {
	return Card{
		Suit: Suit(id / int(rankCount)),
		Rank: Rank(id % int(rankCount)),
		Down: down,
	}
}

// Value is the pip value of the card. Aces count 1 here; HandSum decides when one counts 11.
func (c Card) Value() int {
	if c.Rank >= Ten {
		return 10
	}
	return int(c.Rank) + 1
}

func (c Card) String() string {
	if c.Down {
		return "??"
	}
	return fmt.Sprintf("%s%s", c.Suit, c.Rank)
}

// Shoe hands out cards for a round.
type Shoe interface {
	Draw(down bool) Card
}

// RandomShoe is an infinite deck: every draw is an independent uniform pick over the
// 52 suit/rank combinations, so duplicates are expected. Not safe for concurrent use.
type RandomShoe struct {
	rng *rand.Rand
}

func NewRandomShoe(seed int64) *RandomShoe {
	return &RandomShoe{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomShoe) Draw(down bool) Card {
	return CardFromID(s.rng.Intn(int(suitCount)*int(rankCount)), down)
}
