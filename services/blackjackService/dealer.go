package blackjackService

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrAlreadyRevealed = errors.New("dealer hole card already revealed")

// Dealer is a hand whose second card stays face down until Reveal.
type Dealer struct {
	*Hand
	hidden bool
}

func DealDealer(shoe Shoe) *Dealer {
	cards := []Card{shoe.Draw(false), shoe.Draw(true)}
	return &Dealer{
		Hand: &Hand{
			Cards:  cards,
			Sum:    SumOf(cards),
			Status: StatusWait,
		},
		hidden: true,
	}
}

func (d *Dealer) Hidden() bool {
	return d.hidden
}

// String shows only the up card's value while the hole card is hidden.
func (d *Dealer) String() string {
	if !d.hidden {
		return d.Hand.String()
	}

	up := d.Cards[0]
	shown := fmt.Sprintf("%dh", up.Value())
	if up.Rank == Ace {
		shown = fmt.Sprintf("%ds", 11)
	}
	return fmt.Sprintf("**%s+** %s", shown, d.cardList())
}

// Reveal turns the hole card over. It may only happen once per round.
func (d *Dealer) Reveal() (Card, error) {
	if !d.hidden {
		return Card{}, ErrAlreadyRevealed
	}

	d.hidden = false
	d.Cards[1].Down = false
	if d.Natural() {
		d.Status = StatusBlackjack
	}
	return d.Cards[1], nil
}

func (d *Dealer) NextMove() Move {
	return DealerMove(d.Sum)
}

// DealerMove is the house strategy: draw below 17 and on a soft 17.
func DealerMove(sum HandSum) Move {
	if sum.Sum < 17 || sum.Sum == 17 && sum.Soft {
		return MoveHit
	}
	return MoveStand
}
