package blackjackService

import "fmt"

// Perfect is the best total a hand can reach.
const Perfect = 21

// HandSum is the best total of a set of cards. Soft is set while one ace counts as 11.
type HandSum struct {
	Sum  int
	Soft bool
}

// SumOf computes the total from scratch. At most one ace is ever promoted to 11.
func SumOf(cards []Card) HandSum {
	raw := 0
	hasAce := false
	for _, card := range cards {
		raw += card.Value()
		if card.Rank == Ace {
			hasAce = true
		}
	}

	if hasAce && raw+10 <= Perfect {
		return HandSum{Sum: raw + 10, Soft: true}
	}
	return HandSum{Sum: raw}
}

// Hit adds one card. The result always matches SumOf over the full card list.
func (h *HandSum) Hit(card Card) {
	if card.Rank == Ace && h.Sum+11 <= Perfect {
		h.Sum += 11
		h.Soft = true
	} else {
		h.Sum += card.Value()
	}

	if h.Soft && h.Sum > Perfect {
		h.Sum -= 10
		h.Soft = false
	}
}

func (h HandSum) Bust() bool {
	return h.Sum > Perfect
}

func (h HandSum) String() string {
	if h.Soft {
		return fmt.Sprintf("%ds", h.Sum)
	}
	return fmt.Sprintf("%dh", h.Sum)
}
