package blackjackService

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

type Move int

const (
	MoveInvalid Move = iota
	MoveTimeout
	MoveHit
	MoveStand
	MoveDouble
	MoveSplit
	MoveSurrender
)

var moveNames = [...]string{"invalid", "timeout", "hit", "stand", "double", "split", "surrender"}

func (m Move) String() string {
	return moveNames[m]
}

// ParseMove reads a chat message as a move. Anything else is MoveInvalid.
func ParseMove(content string) Move {
	switch strings.ToLower(strings.TrimSpace(content)) {
	case "h", "hit":
		return MoveHit
	case "s", "stand":
		return MoveStand
	case "d", "double", "double down":
		return MoveDouble
	case "p", "split":
		return MoveSplit
	case "r", "surrender":
		return MoveSurrender
	default:
		return MoveInvalid
	}
}

// Player is a seat at the table. Hands grows when the player splits.
type Player struct {
	User  *discordgo.User
	Hands []*Hand
	game  *Game
}

func dealPlayer(user *discordgo.User, game *Game) *Player {
	return &Player{
		User:  user,
		Hands: []*Hand{DealHand(game.shoe)},
		game:  game,
	}
}

func (p *Player) ID() string {
	return p.User.ID
}

// Move waits for this player's next move through the table.
func (p *Player) Move(ctx context.Context) (Move, error) {
	return p.game.table.AwaitMove(ctx, p.User.ID)
}

// insertAfter places a split hand directly after the hand it came from.
func (p *Player) insertAfter(from, split *Hand) {
	for i, hand := range p.Hands {
		if hand == from {
			p.Hands = append(p.Hands[:i+1], append([]*Hand{split}, p.Hands[i+1:]...)...)
			return
		}
	}
	p.Hands = append(p.Hands, split)
}
