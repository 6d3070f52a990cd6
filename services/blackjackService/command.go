package blackjackService

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"tableBot/metrics"
	"tableBot/services"
	"tableBot/services/collector"
	"tableBot/services/common"
)

// Recorder keeps the results of finished rounds.
type Recorder interface {
	RecordOutcome(guildID, channelID string, outcome *Outcome) error
}

type Config struct {
	Seats       *Registry
	Collector   *collector.Collector
	Recorder    Recorder
	Clock       quartz.Clock
	Pace        time.Duration
	MoveTimeout time.Duration
	Logger      *log.Logger
	// NewShoe deals each round from its own shoe. Nil shuffles a fresh random one.
	NewShoe func() Shoe
}

type blackjackCommand struct {
	Config
}

func NewCommand(cfg Config) services.Command {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	cmd := &blackjackCommand{Config: cfg}

	return services.Command{
		Name:        "blackjack",
		Aliases:     []string{"bj"},
		Description: "Starts a game of Blackjack.",
		Usage:       "[@player ...]",
		Execute:     cmd.execute,
	}
}

func (c *blackjackCommand) execute(ctx context.Context, cc *services.Context) error {
	botID := ""
	if cc.Session.State != nil && cc.Session.State.User != nil {
		botID = cc.Session.State.User.ID
	}
	return c.play(ctx, cc.Session, botID, cc.Prefix, cc.Message)
}

// play seats the invoker and everyone they mention, runs one round in the channel and
// records the outcome. The seats are freed however the round ends.
func (c *blackjackCommand) play(ctx context.Context, session Session, botID, prefix string, m *discordgo.MessageCreate) error {
	users := seatOrder(m.Author, m.Mentions)
	ids := make([]string, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}

	seating, err := c.Seats.Seat(m.ChannelID, ids)
	if err != nil {
		var playing *AlreadyPlayingError
		if errors.As(err, &playing) {
			return alreadyPlaying(playing)
		}
		return err
	}
	defer func() {
		seating.Release()
		metrics.Metrics.SetSeatedRooms(c.Seats.Rooms())
	}()
	metrics.Metrics.SetSeatedRooms(c.Seats.Rooms())

	var shoe Shoe
	if c.NewShoe != nil {
		shoe = c.NewShoe()
	}
	table := NewChannelTable(session, c.Collector, m.ChannelID, botID, c.MoveTimeout, c.Logger)
	game := NewGame(table, users, Options{
		RoundID: uuid.NewString(),
		Shoe:    shoe,
		Clock:   c.Clock,
		Pace:    c.Pace,
		Prefix:  prefix,
		Logger:  c.Logger,
		OnKick: func(userID string) {
			seating.Leave(userID)
			metrics.Metrics.SetSeatedRooms(c.Seats.Rooms())
		},
	})
	outcome, err := game.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "blackjack round %s", game.ID())
	}

	if c.Recorder != nil {
		if err := c.Recorder.RecordOutcome(m.GuildID, m.ChannelID, outcome); err != nil {
			c.Logger.Error("Could not record round", "round", outcome.RoundID, "err", err)
		}
	}
	return nil
}

// seatOrder puts the invoker first, then mentioned users in order. Bots and repeats are dropped.
func seatOrder(author *discordgo.User, mentions []*discordgo.User) []*discordgo.User {
	users := []*discordgo.User{author}
	seen := map[string]bool{author.ID: true}
	for _, user := range mentions {
		if user == nil || user.Bot || seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		users = append(users, user)
	}
	return users
}

func alreadyPlaying(err *AlreadyPlayingError) error {
	names := make([]string, len(err.Conflicts))
	for i, id := range err.Conflicts {
		if id == err.InvokerID {
			names[i] = "You"
		} else {
			names[i] = fmt.Sprintf("<@%s>", id)
		}
	}

	verb := "are"
	if len(err.Conflicts) == 1 && err.Conflicts[0] != err.InvokerID {
		verb = "is"
	}
	return common.NewBotError("Already playing", fmt.Sprintf("%s %s already playing Blackjack in this channel!", common.ToEnglishList(names), verb))
}
