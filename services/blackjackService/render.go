package blackjackService

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"tableBot/services/common"
)

const moveReminder = "**h**it, **s**tand, **d**ouble down, s**p**lit, or su**r**render"

var resultBanners = [...]string{
	"🟥 You lost!",
	"🟨 You tied!",
	"🟩 You won!",
}

var resultColors = [...]int{
	common.ColorFail,
	common.ColorNeutral,
	common.ColorPass,
}

func (r Result) Banner() string {
	return resultBanners[r]
}

func (g *Game) embed(next string, rules bool) *discordgo.MessageEmbed {
	lines := make([]string, 0, 3)
	for _, line := range []string{g.prev, next} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if rules {
		lines = append(lines, moveReminder)
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(g.players)+1)
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Dealer",
		Value: fmt.Sprintf("%s %s", g.dealer.Status.Emoji(), g.dealer),
	})
	for _, player := range g.players {
		hands := make([]string, len(player.Hands))
		for i, hand := range player.Hands {
			hands[i] = fmt.Sprintf("%s %s", hand.Status.Emoji(), hand)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  player.User.String(),
			Value: strings.Join(hands, "\n"),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "Blackjack",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorInfo,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("See the full rules with `%srules blackjack`", g.prefix),
		},
	}
}

func (g *Game) resultEmbed(result Result) *discordgo.MessageEmbed {
	embed := g.embed(result.Banner(), false)
	embed.Color = resultColors[result]
	return embed
}

// Rules is the text behind `rules blackjack`.
const Rules = `Everyone at the table plays against the dealer. Cards are drawn from an endless deck.
Number cards count their value, faces count 10 and an ace counts 1 or 11.

The dealer peeks at the hole card first and ends the round straight away on a blackjack.
On your turn type one of:
**h**it: draw a card
**s**tand: keep your hand
**d**ouble down: draw exactly one more card and end the hand
s**p**lit: split two cards of the same value into two hands
su**r**render: give up a hand you have not drawn to yet

A hand on 21 can only stand. Going over 21 is a bust and loses immediately.
Players who don't move within a minute are removed from the round.
The dealer draws below 17 and on a soft 17, then stands.
A two card 21 is a blackjack and beats any other 21.`
