package helpService

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"tableBot/services"
	"tableBot/services/common"
)

func HelpCommand() services.Command {
	return services.Command{
		Name:        "help",
		Aliases:     []string{"commands"},
		Description: "Lists my commands, or explains the ones you name.",
		Usage:       "[command ...]",
		Execute:     showHelp,
	}
}

func showHelp(ctx context.Context, c *services.Context) error {
	embed, err := helpEmbed(c.Commands, c.Prefix, c.Args)
	if err != nil {
		return err
	}
	_, err = c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, embed)
	return err
}

func helpEmbed(commands *services.Registry, prefix string, names []string) (*discordgo.MessageEmbed, error) {
	if len(names) == 0 {
		lines := make([]string, 0)
		for _, cmd := range commands.All() {
			lines = append(lines, fmt.Sprintf("`%s%s` %s", prefix, cmd.Name, cmd.Description))
		}
		return &discordgo.MessageEmbed{
			Title:       "Commands",
			Description: strings.Join(lines, "\n"),
			Color:       common.ColorInfo,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Use `%shelp <command>` for details", prefix),
			},
		}, nil
	}

	errs := &common.AggregateBotError{}
	fields := make([]*discordgo.MessageEmbedField, 0, len(names))
	for _, name := range names {
		cmd, ok := commands.Lookup(name)
		if !ok {
			errs.Add(common.NewBotError("Unknown command name", fmt.Sprintf("`%s` is not the name or alias of any command I have!", name)))
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  prefix + cmd.Name,
			Value: commandDetails(cmd, prefix),
		})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &discordgo.MessageEmbed{
		Title:  "Help",
		Color:  common.ColorInfo,
		Fields: fields,
	}, nil
}

func commandDetails(cmd *services.Command, prefix string) string {
	details := cmd.Description
	if cmd.Usage != "" {
		details += fmt.Sprintf("\nUsage: `%s%s %s`", prefix, cmd.Name, cmd.Usage)
	}
	if len(cmd.Aliases) > 0 {
		details += fmt.Sprintf("\nAliases: %s", strings.Join(cmd.Aliases, ", "))
	}
	return details
}

// RulesCommand explains the rules of the games in rules, keyed by game name.
func RulesCommand(rules map[string]string) services.Command {
	games := make([]string, 0, len(rules))
	for game := range rules {
		games = append(games, game)
	}
	sort.Strings(games)

	return services.Command{
		Name:        "rules",
		Description: "Explains the rules of a game.",
		Usage:       "<" + strings.Join(games, "|") + ">",
		Execute: func(ctx context.Context, c *services.Context) error {
			if len(c.Args) == 0 {
				return common.NewBotError("Which game?", fmt.Sprintf("I know the rules of %s.", common.ToEnglishList(games)))
			}
			game := strings.ToLower(c.Args[0])
			text, ok := rules[game]
			if !ok {
				return common.NewBotError("Unknown game", fmt.Sprintf("I don't know the rules of `%s`!", c.Args[0]))
			}
			_, err := c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, &discordgo.MessageEmbed{
				Title:       fmt.Sprintf("Rules of %s", strings.ToUpper(game[:1])+game[1:]),
				Description: text,
				Color:       common.ColorInfo,
			})
			return err
		},
	}
}
