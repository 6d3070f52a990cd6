package blackjackService

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandStatus(t *testing.T) {
	assert.Equal(t, StatusBlackjack, NewHand(cards(Ace, King)...).Status)
	assert.Equal(t, StatusWait, NewHand(cards(Ten, Nine)...).Status)

	hit := NewHand(cards(Seven, Four)...)
	hit.Hit(card(Queen))
	assert.Equal(t, 21, hit.Sum.Sum)
	assert.False(t, hit.Natural(), "21 from hits is not blackjack")
	assert.Equal(t, StatusWait, hit.Status)
	assert.Contains(t, hit.String(), "**21h**")
}

func TestCompare(t *testing.T) {
	natural := func() *Hand { return NewHand(cards(Ace, King)...) }
	threeCard21 := func() *Hand {
		h := NewHand(cards(Five, Six)...)
		h.Hit(card(Ten))
		return h
	}

	tests := []struct {
		name   string
		ours   *Hand
		theirs *Hand
		want   Result
	}{
		{"17 against 18", NewHand(cards(Ten, Seven)...), NewHand(cards(Ten, Eight)...), Lose},
		{"18 against 17", NewHand(cards(Ten, Eight)...), NewHand(cards(Ten, Seven)...), Win},
		{"20 against 20", NewHand(cards(Ten, Queen)...), NewHand(cards(King, Jack)...), Tie},
		{"natural against three card 21", natural(), threeCard21(), Win},
		{"three card 21 against natural", threeCard21(), natural(), Lose},
		{"natural against natural", natural(), natural(), Tie},
		{"three card 21s", threeCard21(), threeCard21(), Tie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ours.Compare(tt.theirs))
		})
	}
}

func TestCanSplit(t *testing.T) {
	assert.True(t, NewHand(cards(Ten, Ten)...).CanSplit())
	assert.True(t, NewHand(cards(Ten, King)...).CanSplit(), "equal pip value is enough")
	assert.True(t, NewHand(cards(Ace, Ace)...).CanSplit())
	assert.False(t, NewHand(cards(Ten, Nine)...).CanSplit())

	three := NewHand(cards(Four, Four)...)
	three.Hit(card(Two))
	assert.False(t, three.CanSplit(), "three cards never split")
	assert.False(t, three.CanSurrender())
}

func TestSplit(t *testing.T) {
	hand := NewHand(cards(Ace, Ace)...)
	split := hand.Split()

	assert.Equal(t, cards(Ace), hand.Cards)
	assert.Equal(t, HandSum{Sum: 11, Soft: true}, hand.Sum)
	assert.Equal(t, cards(Ace), split.Cards)
	assert.Equal(t, StatusWait, split.Status)

	hand.Hit(card(Nine))
	split.Hit(card(Two))
	assert.Equal(t, 2, len(hand.Cards))
	assert.Equal(t, HandSum{Sum: 20, Soft: true}, hand.Sum)
	assert.Equal(t, HandSum{Sum: 13, Soft: true}, split.Sum)
}

func TestHandLifecycle(t *testing.T) {
	hand := NewHand(cards(Ten, Six)...)

	require.ErrorIs(t, hand.Finish(StatusStand), ErrHandNotCurrent)
	require.NoError(t, hand.Begin())
	assert.Equal(t, StatusCurrent, hand.Status)

	require.Error(t, hand.Finish(StatusCurrent), "current is not terminal")
	require.NoError(t, hand.Finish(StatusStand))
	assert.Equal(t, StatusStand, hand.Status)

	require.ErrorIs(t, hand.Finish(StatusBust), ErrHandNotCurrent)
	require.ErrorIs(t, hand.Begin(), ErrHandFinished)
	assert.Equal(t, StatusStand, hand.Status)
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "**BLACKJACK** `♠A` `♠K`", NewHand(cards(Ace, King)...).String())
	assert.Equal(t, "**13s** `♠A` `♠2`", NewHand(cards(Ace, Two)...).String())

	bust := NewHand(cards(Ten, Nine)...)
	bust.Hit(card(Five))
	assert.Equal(t, "**BUST** `♠10` `♠9` `♠5`", bust.String())
}
