package common

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"tableBot/models"
)

const (
	ColorInfo    = 0x3498DB
	ColorError   = 0xE74C3C
	ColorPass    = 0x2ECC71
	ColorNeutral = 0xF1C40F
	ColorFail    = 0xE74C3C
)

func IsAdmin(s *discordgo.Session, guildID string, member *discordgo.Member) bool {
	if member == nil {
		return false
	}

	for _, roleID := range member.Roles {
		role, err := s.State.Role(guildID, roleID)
		if err != nil || role == nil {
			roles, err := s.GuildRoles(guildID)
			if err != nil {
				log.Printf("Error fetching roles from API: %v", err)
				continue
			}

			for _, r := range roles {
				if r.ID == roleID {
					role = r
					break
				}
			}

			if role == nil {
				log.Printf("Role %s not found in guild %s", roleID, guildID)
				continue
			}
		}

		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}

// ErrorEmbed renders err for the channel. Bot errors keep their own title.
func ErrorEmbed(err error) *discordgo.MessageEmbed {
	if botErr, ok := AsBotError(err); ok {
		return botErr.Embed()
	}
	if aggErr, ok := err.(*AggregateBotError); ok {
		return aggErr.Embed()
	}
	return &discordgo.MessageEmbed{
		Title:       "An error occurred",
		Description: err.Error(),
		Color:       ColorError,
	}
}

// SendError reports err in the channel. Unexpected errors are also logged and kept in the error log.
func SendError(s *discordgo.Session, m *discordgo.MessageCreate, err error, db *gorm.DB) {
	if _, ok := AsBotError(err); !ok {
		if _, ok := err.(*AggregateBotError); !ok {
			LogError(db, m.GuildID, m.ChannelID, err)
		}
	}

	if _, sendErr := s.ChannelMessageSendEmbed(m.ChannelID, ErrorEmbed(err)); sendErr != nil {
		log.Printf("Error sending error embed: %v", sendErr)
	}
}

// LogError writes err to the log and to the error log table.
func LogError(db *gorm.DB, guildID, channelID string, err error) {
	log.Error("Command failed", "guild", guildID, "channel", channelID, "err", err)
	if db == nil {
		return
	}

	errLog := models.ErrorLog{
		GuildID:   guildID,
		ChannelID: channelID,
		Message:   fmt.Sprintf("%v", err),
	}
	if result := db.Create(&errLog); result.Error != nil {
		log.Printf("Error saving error log: %v", result.Error)
	}
}

// GetUsernameFromUser extracts username from a discordgo.User object
func GetUsernameFromUser(user *discordgo.User) string {
	if user == nil {
		return "Unknown User"
	}
	username := user.GlobalName
	if username == "" {
		username = user.Username
	}
	if username == "" {
		return "Unknown User"
	}
	return username
}

// ToEnglishList joins items as "a", "a and b" or "a, b, and c".
func ToEnglishList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
