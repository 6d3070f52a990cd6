package blackjackService

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank Rank) Card {
	return Card{Suit: Spades, Rank: rank}
}

func cards(ranks ...Rank) []Card {
	out := make([]Card, len(ranks))
	for i, rank := range ranks {
		out[i] = card(rank)
	}
	return out
}

func hitAll(cs []Card) HandSum {
	var sum HandSum
	for _, c := range cs {
		sum.Hit(c)
	}
	return sum
}

func TestSumOf(t *testing.T) {
	tests := []struct {
		name  string
		ranks []Rank
		want  HandSum
	}{
		{"empty", nil, HandSum{}},
		{"hard 18", []Rank{Ten, Eight}, HandSum{Sum: 18}},
		{"faces count ten", []Rank{King, Queen}, HandSum{Sum: 20}},
		{"soft 13", []Rank{Ace, Two}, HandSum{Sum: 13, Soft: true}},
		{"natural", []Rank{Ace, Jack}, HandSum{Sum: 21, Soft: true}},
		{"two aces", []Rank{Ace, Ace}, HandSum{Sum: 12, Soft: true}},
		{"three aces and nine", []Rank{Ace, Ace, Ace, Nine}, HandSum{Sum: 12}},
		{"ace demoted", []Rank{Ace, Six, Ten}, HandSum{Sum: 17}},
		{"hard 22", []Rank{Ace, Two, Nine, Ten}, HandSum{Sum: 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumOf(cards(tt.ranks...)))
		})
	}
}

func TestHitMatchesSumOfAtEveryStep(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		n := 1 + rng.Intn(7)
		hand := make([]Card, n)
		for j := range hand {
			hand[j] = CardFromID(rng.Intn(52), false)
		}

		var running HandSum
		for j, c := range hand {
			running.Hit(c)
			require.Equal(t, SumOf(hand[:j+1]), running, "cards %v after %d hits", hand, j+1)
		}
	}
}

func TestHitIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 2000; i++ {
		hand := make([]Card, 2+rng.Intn(5))
		for j := range hand {
			hand[j] = CardFromID(rng.Intn(52), false)
		}
		want := SumOf(hand)

		for k := 0; k < 5; k++ {
			shuffled := append([]Card(nil), hand...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			require.Equal(t, want, hitAll(shuffled), "order %v", shuffled)
		}
	}
}

func TestHandSumString(t *testing.T) {
	assert.Equal(t, "13s", HandSum{Sum: 13, Soft: true}.String())
	assert.Equal(t, "22h", HandSum{Sum: 22}.String())
	assert.True(t, HandSum{Sum: 22}.Bust())
	assert.False(t, HandSum{Sum: 21}.Bust())
}

func TestCard(t *testing.T) {
	assert.Equal(t, 1, card(Ace).Value())
	assert.Equal(t, 7, card(Seven).Value())
	assert.Equal(t, 10, card(Ten).Value())
	assert.Equal(t, 10, card(King).Value())

	assert.Equal(t, "♠A", card(Ace).String())
	assert.Equal(t, "♦10", Card{Suit: Diamonds, Rank: Ten}.String())
	assert.Equal(t, "??", Card{Suit: Hearts, Rank: King, Down: true}.String())

	assert.Equal(t, Card{Suit: Clubs, Rank: Ace}, CardFromID(0, false))
	assert.Equal(t, Card{Suit: Spades, Rank: King}, CardFromID(51, false))
	assert.Equal(t, Card{Suit: Diamonds, Rank: Ace, Down: true}, CardFromID(13, true))
}

func TestRandomShoeCoversTheDeck(t *testing.T) {
	shoe := NewRandomShoe(42)
	seen := make(map[Card]bool)
	for i := 0; i < 5000; i++ {
		c := shoe.Draw(false)
		require.True(t, c.Suit >= Clubs && c.Suit <= Spades)
		require.True(t, c.Rank >= Ace && c.Rank <= King)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
	assert.True(t, shoe.Draw(true).Down)
}
