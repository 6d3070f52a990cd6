package listeners

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"tableBot/services"
)

const waveEmoji = "👋"

// Wave reacts to plain messages that mention the bot.
func Wave(prefix string, logger *log.Logger) *services.Listener {
	return services.NewListener("wave", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if s.State == nil || s.State.User == nil {
			return
		}
		if !shouldWave(m.Message, prefix, s.State.User.ID) {
			return
		}
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, waveEmoji); err != nil {
			logger.Warn("Could not wave", "channel", m.ChannelID, "err", err)
		}
	})
}

func shouldWave(m *discordgo.Message, prefix, botID string) bool {
	if m == nil || m.Author == nil || m.Author.Bot {
		return false
	}
	if strings.HasPrefix(m.Content, prefix) {
		return false
	}
	for _, user := range m.Mentions {
		if user.ID == botID {
			return true
		}
	}
	return false
}
