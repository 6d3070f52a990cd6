package statsService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"tableBot/models"
	"tableBot/services"
	"tableBot/services/blackjackService"
	"tableBot/services/common"
)

const leaderboardSize = 10

type tally struct {
	won        int
	lost       int
	tied       int
	blackjacks int
	kicked     bool
}

// Store persists blackjack results per guild member.
type Store struct {
	db    *gorm.DB
	names *common.NameCache
}

func NewStore(db *gorm.DB, names *common.NameCache) *Store {
	return &Store{db: db, names: names}
}

func tallyOutcome(outcome *blackjackService.Outcome) map[string]*tally {
	tallies := make(map[string]*tally, len(outcome.Players))
	for _, id := range outcome.Players {
		tallies[id] = &tally{}
	}
	for _, id := range outcome.Kicked {
		if t, ok := tallies[id]; ok {
			t.kicked = true
		}
	}
	for _, hand := range outcome.Hands {
		t, ok := tallies[hand.UserID]
		if !ok {
			continue
		}
		switch hand.Result {
		case blackjackService.Win:
			t.won++
		case blackjackService.Tie:
			t.tied++
		default:
			t.lost++
		}
		if hand.Natural {
			t.blackjacks++
		}
	}
	return tallies
}

func (st *Store) RecordOutcome(guildID, channelID string, outcome *blackjackService.Outcome) error {
	tallies := tallyOutcome(outcome)

	return st.db.Transaction(func(tx *gorm.DB) error {
		for _, userID := range outcome.Players {
			t := tallies[userID]

			var user models.User
			if err := tx.Where(models.User{DiscordID: userID, GuildID: guildID}).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("error fetching user %s: %w", userID, err)
			}

			kicks := 0
			if t.kicked {
				kicks = 1
			}
			err := tx.Model(&user).Updates(map[string]interface{}{
				"rounds_played": gorm.Expr("rounds_played + ?", 1),
				"hands_won":     gorm.Expr("hands_won + ?", t.won),
				"hands_lost":    gorm.Expr("hands_lost + ?", t.lost),
				"hands_tied":    gorm.Expr("hands_tied + ?", t.tied),
				"blackjacks":    gorm.Expr("blackjacks + ?", t.blackjacks),
				"kicks":         gorm.Expr("kicks + ?", kicks),
			}).Error
			if err != nil {
				return fmt.Errorf("error updating stats for user %s: %w", userID, err)
			}
		}

		round := models.BlackjackRound{
			RoundID:         outcome.RoundID,
			GuildID:         guildID,
			ChannelID:       channelID,
			Players:         len(outcome.Players),
			Hands:           len(outcome.Hands),
			Settled:         outcome.Settled,
			DealerTotal:     outcome.DealerTotal,
			DealerBlackjack: outcome.DealerBlackjack,
		}
		if outcome.Settled {
			round.Result = outcome.Result.String()
		}
		if err := tx.Create(&round).Error; err != nil {
			return fmt.Errorf("error saving round %s: %w", outcome.RoundID, err)
		}
		return nil
	})
}

// LoadUser returns nil without an error when the member has never played.
func (st *Store) LoadUser(guildID, discordID string) (*models.User, error) {
	var user models.User
	err := st.db.Where("discord_id = ? AND guild_id = ?", discordID, guildID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

func (st *Store) TopUsers(guildID string, limit int) ([]models.User, error) {
	var users []models.User
	err := st.db.Where("guild_id = ?", guildID).Order("hands_won desc").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching leaderboard: %w", err)
	}
	return users, nil
}

// UpdateUsername keeps the stored name in line with what the member goes by now.
func (st *Store) UpdateUsername(user *models.User, username string) {
	if user.Username == nil || *user.Username != username {
		user.Username = &username
		st.db.Model(user).Update("username", username)
	}
}

// PruneRounds hard deletes round records created before cutoff.
func PruneRounds(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.BlackjackRound{})
	if result.Error != nil {
		return 0, fmt.Errorf("error pruning rounds: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (st *Store) Command() services.Command {
	return services.Command{
		Name:        "bjstats",
		Aliases:     []string{"bjs"},
		Description: "Shows Blackjack results for you, a mentioned player, or the top players.",
		Usage:       "[@player | top]",
		Execute:     st.showStats,
	}
}

func (st *Store) showStats(ctx context.Context, c *services.Context) error {
	m := c.Message

	var embed *discordgo.MessageEmbed
	if len(c.Args) > 0 && strings.EqualFold(c.Args[0], "top") {
		users, err := st.TopUsers(m.GuildID, leaderboardSize)
		if err != nil {
			return err
		}
		names := make([]string, len(users))
		for i, user := range users {
			names[i] = st.displayName(c.Session, m.GuildID, user)
		}
		embed = leaderboardEmbed(users, names)
	} else {
		target := m.Author
		if len(m.Mentions) > 0 {
			target = m.Mentions[0]
		}
		user, err := st.LoadUser(m.GuildID, target.ID)
		if err != nil {
			return err
		}
		name := common.GetUsernameFromUser(target)
		if user == nil {
			return common.NewBotError("No results yet", fmt.Sprintf("%s hasn't finished a round of Blackjack here yet!", name))
		}
		st.UpdateUsername(user, name)
		st.names.Remember(m.GuildID, target)
		embed = statsEmbed(*user, name)
	}

	_, err := c.Session.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}

func (st *Store) displayName(s common.MemberFetcher, guildID string, user models.User) string {
	if user.Username != nil && *user.Username != "" {
		return *user.Username
	}
	return st.names.Get(s, guildID, user.DiscordID)
}

func winRate(user models.User) float64 {
	hands := user.HandsWon + user.HandsLost + user.HandsTied
	if hands == 0 {
		return 0
	}
	return float64(user.HandsWon) / float64(hands) * 100
}

func statsEmbed(user models.User, name string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🃏 %s at the Blackjack table", name),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rounds", Value: fmt.Sprintf("%d", user.RoundsPlayed), Inline: true},
			{Name: "Won / Tied / Lost", Value: fmt.Sprintf("%d / %d / %d", user.HandsWon, user.HandsTied, user.HandsLost), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.1f%%", winRate(user)), Inline: true},
			{Name: "Blackjacks", Value: fmt.Sprintf("%d", user.Blackjacks), Inline: true},
			{Name: "Kicked", Value: fmt.Sprintf("%d", user.Kicks), Inline: true},
		},
	}
}

func leaderboardEmbed(users []models.User, names []string) *discordgo.MessageEmbed {
	description := ""
	for idx, user := range users {
		description += fmt.Sprintf("**%d. %s** - %d hands won (%.1f%%)\n", idx+1, names[idx], user.HandsWon, winRate(user))
	}
	if description == "" {
		description = "Nobody has finished a round yet."
	}
	return &discordgo.MessageEmbed{
		Title:       "🏆 Blackjack Leaderboard",
		Description: description,
		Color:       common.ColorPass,
	}
}
