package blackjackService

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"tableBot/services/collector"
)

// DefaultMoveTimeout is how long a player has to move before being kicked.
const DefaultMoveTimeout = time.Minute

// Session is the part of *discordgo.Session a channel table uses.
type Session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// ChannelTable plays a round in a Discord channel: a single panel message edited in
// place and moves read from the players' messages.
type ChannelTable struct {
	session   Session
	collector *collector.Collector
	channelID string
	botID     string
	timeout   time.Duration
	logger    *log.Logger

	panel *discordgo.Message
}

func NewChannelTable(session Session, c *collector.Collector, channelID, botID string, timeout time.Duration, logger *log.Logger) *ChannelTable {
	if timeout <= 0 {
		timeout = DefaultMoveTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ChannelTable{
		session:   session,
		collector: c,
		channelID: channelID,
		botID:     botID,
		timeout:   timeout,
		logger:    logger.WithPrefix("table").With("channel", channelID),
	}
}

// Display edits the panel, sending a new one the first time or when it was deleted.
func (t *ChannelTable) Display(embed *discordgo.MessageEmbed) error {
	if t.panel != nil {
		msg, err := t.session.ChannelMessageEditEmbed(t.channelID, t.panel.ID, embed)
		if err == nil {
			t.panel = msg
			return nil
		}
		if !isUnknownMessage(err) {
			return errors.Wrap(err, "edit panel")
		}
		t.logger.Debug("Panel was deleted, sending a new one")
	}

	msg, err := t.session.ChannelMessageSendEmbed(t.channelID, embed)
	if err != nil {
		return errors.Wrap(err, "send panel")
	}
	t.panel = msg
	return nil
}

// AwaitMove waits for the user's next message that reads as a move. The consumed
// message is deleted in the background when the bot may manage messages.
func (t *ChannelTable) AwaitMove(ctx context.Context, userID string) (Move, error) {
	msg, err := t.collector.Await(ctx, t.channelID, userID, func(m *discordgo.Message) bool {
		return ParseMove(m.Content) != MoveInvalid
	}, t.timeout)
	if errors.Is(err, collector.ErrTimeout) {
		return MoveTimeout, nil
	}
	if err != nil {
		return MoveInvalid, err
	}

	go t.tidy(msg.ID)
	return ParseMove(msg.Content), nil
}

func (t *ChannelTable) tidy(messageID string) {
	perms, err := t.session.UserChannelPermissions(t.botID, t.channelID)
	if err != nil || perms&discordgo.PermissionManageMessages == 0 {
		return
	}
	if err := t.session.ChannelMessageDelete(t.channelID, messageID); err != nil {
		t.logger.Debug("Could not delete move message", "message", messageID, "err", err)
	}
}

func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage
}
