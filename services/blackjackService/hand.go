package blackjackService

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Status int

const (
	StatusBlackjack Status = iota
	StatusWait
	StatusCurrent
	StatusSurrender
	StatusBust
	StatusStand
	StatusDouble
)

var statusEmoji = [...]string{"✨", "⬛", "➡️", "🏳️", "💥", "🔒", "💵"}

var statusNames = [...]string{"blackjack", "wait", "current", "surrender", "bust", "stand", "double"}

func (s Status) Emoji() string {
	return statusEmoji[s]
}

func (s Status) String() string {
	return statusNames[s]
}

// Terminal statuses are set once and never change afterwards.
func (s Status) Terminal() bool {
	switch s {
	case StatusSurrender, StatusBust, StatusStand, StatusDouble:
		return true
	}
	return false
}

type Result int

const (
	Lose Result = iota
	Tie
	Win
)

var resultNames = [...]string{"lose", "tie", "win"}

func (r Result) String() string {
	return resultNames[r]
}

var (
	ErrHandFinished   = errors.New("hand is already finished")
	ErrHandNotCurrent = errors.New("hand is not being played")
)

// Hand is one party's cards. A player owns several after splitting.
type Hand struct {
	Cards  []Card
	Sum    HandSum
	Status Status
}

// NewHand seeds a hand, marking a two card 21 as blackjack.
func NewHand(cards ...Card) *Hand {
	h := &Hand{
		Cards: cards,
		Sum:   SumOf(cards),
	}
	h.Status = StatusWait
	if h.Natural() {
		h.Status = StatusBlackjack
	}
	return h
}

// DealHand draws a fresh two card hand.
func DealHand(shoe Shoe) *Hand {
	return NewHand(shoe.Draw(false), shoe.Draw(false))
}

func (h *Hand) Hit(card Card) Card {
	h.Cards = append(h.Cards, card)
	h.Sum.Hit(card)
	return card
}

func (h *Hand) Bust() bool {
	return h.Sum.Bust()
}

// Natural reports a two card 21.
func (h *Hand) Natural() bool {
	return h.Sum.Sum == Perfect && len(h.Cards) == 2
}

// CanSplit requires exactly two cards of equal pip value, so a 10 and a King split.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value()
}

func (h *Hand) CanSurrender() bool {
	return len(h.Cards) == 2
}

// Split moves the second card into a new hand and recomputes both totals.
func (h *Hand) Split() *Hand {
	second := h.Cards[1]
	h.Cards = h.Cards[:1:1]
	h.Sum = SumOf(h.Cards)
	return NewHand(second)
}

// Begin marks the hand as the one being played.
func (h *Hand) Begin() error {
	if h.Status.Terminal() {
		return ErrHandFinished
	}
	h.Status = StatusCurrent
	return nil
}

// Finish moves a hand in play to a terminal status.
func (h *Hand) Finish(status Status) error {
	if !status.Terminal() {
		return errors.Errorf("%s is not a terminal status", status)
	}
	if h.Status != StatusCurrent {
		return errors.Wrapf(ErrHandNotCurrent, "finish as %s", status)
	}
	h.Status = status
	return nil
}

// Compare scores this hand against another on totals alone. Equal 21s are broken
// by the natural: a two card 21 beats a 21 built from hits.
func (h *Hand) Compare(other *Hand) Result {
	ours, theirs := h.Sum.Sum, other.Sum.Sum
	switch {
	case ours > theirs:
		return Win
	case ours < theirs:
		return Lose
	case ours != Perfect:
		return Tie
	}

	ourNatural, theirNatural := h.Natural(), other.Natural()
	switch {
	case ourNatural && !theirNatural:
		return Win
	case !ourNatural && theirNatural:
		return Lose
	default:
		return Tie
	}
}

func (h *Hand) String() string {
	var label string
	switch {
	case h.Bust():
		label = "BUST"
	case h.Natural():
		label = "BLACKJACK"
	default:
		label = h.Sum.String()
	}
	return fmt.Sprintf("**%s** %s", label, h.cardList())
}

func (h *Hand) cardList() string {
	parts := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		parts[i] = fmt.Sprintf("`%s`", card)
	}
	return strings.Join(parts, " ")
}
