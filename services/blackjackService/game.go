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
)

// DefaultPace is the pause before the dealer peeks, reveals and moves.
const DefaultPace = 1500 * time.Millisecond

// Table is the chat room a round is played in: one status panel and the players' messages.
type Table interface {
	// Display renders the panel, editing the previous one in place.
	Display(embed *discordgo.MessageEmbed) error
	// AwaitMove blocks until the user sends a move. It returns MoveTimeout when they don't.
	AwaitMove(ctx context.Context, userID string) (Move, error)
}

type Options struct {
	RoundID string
	Shoe    Shoe
	Clock   quartz.Clock
	Pace    time.Duration
	Prefix  string
	Logger  *log.Logger
	// OnKick is called with the ID of each player removed for inactivity.
	OnKick func(userID string)
}

// HandOutcome is a single hand settled against the dealer.
type HandOutcome struct {
	UserID  string
	Index   int
	Status  Status
	Total   int
	Natural bool
	Result  Result
}

// Outcome summarises a finished round. Result is the banner shown in the channel and
// is keyed to the first player's first hand.
type Outcome struct {
	RoundID         string
	Settled         bool
	Result          Result
	DealerTotal     int
	DealerBlackjack bool
	Players         []string
	Hands           []HandOutcome
	Kicked          []string
}

type turn struct {
	player *Player
	hand   *Hand
}

// Game runs one round from the deal to the settlement banner.
type Game struct {
	id     string
	table  Table
	shoe   Shoe
	clock  quartz.Clock
	pace   time.Duration
	prefix string
	logger *log.Logger
	onKick func(userID string)

	users   []*discordgo.User
	players []*Player
	dealer  *Dealer
	queue   []turn
	kicked  []string
	prev    string
}

func NewGame(table Table, users []*discordgo.User, opts Options) *Game {
	if opts.RoundID == "" {
		opts.RoundID = uuid.NewString()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Shoe == nil {
		opts.Shoe = NewRandomShoe(opts.Clock.Now().UnixNano())
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Game{
		id:     opts.RoundID,
		table:  table,
		shoe:   opts.Shoe,
		clock:  opts.Clock,
		pace:   opts.Pace,
		prefix: opts.Prefix,
		logger: opts.Logger.WithPrefix("blackjack").With("round", opts.RoundID),
		onKick: opts.OnKick,
		users:  users,
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Players() []*Player {
	return g.players
}

func (g *Game) Dealer() *Dealer {
	return g.dealer
}

// Run plays the round. Errors only come from the table or a cancelled context.
func (g *Game) Run(ctx context.Context) (*Outcome, error) {
	g.deal()
	metrics.Metrics.RoundStarted()
	g.logger.Info("Hands dealt", "players", len(g.players))

	g.prev = "Hands are dealt"
	if err := g.display("Dealer to peek at card...", false); err != nil {
		return nil, err
	}
	if err := g.delay(ctx); err != nil {
		return nil, err
	}

	if g.dealer.Sum.Sum == Perfect {
		if _, err := g.dealer.Reveal(); err != nil {
			return nil, err
		}
		g.prev = "**DEALER BLACKJACK**"
		return g.settle()
	}

	g.prev = "Dealer did not have blackjack"
	if err := g.playerTurns(ctx); err != nil {
		return nil, err
	}

	if len(g.players) == 0 {
		g.prev = "Everyone has left the table"
		if err := g.display("Round abandoned", false); err != nil {
			return nil, err
		}
		g.logger.Info("Round abandoned", "kicked", len(g.kicked))
		metrics.Metrics.RoundFinished("abandoned")
		return g.outcome(false), nil
	}

	if err := g.dealerTurn(ctx); err != nil {
		return nil, err
	}
	return g.settle()
}

func (g *Game) deal() {
	g.players = make([]*Player, 0, len(g.users))
	for _, user := range g.users {
		g.players = append(g.players, dealPlayer(user, g))
	}
	g.dealer = DealDealer(g.shoe)
}

func (g *Game) playerTurns(ctx context.Context) error {
	g.queue = g.queue[:0]
	for _, player := range g.players {
		for _, hand := range player.Hands {
			g.queue = append(g.queue, turn{player: player, hand: hand})
		}
	}

	for len(g.queue) > 0 {
		t := g.queue[0]
		g.queue = g.queue[1:]
		if err := g.playHand(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) playHand(ctx context.Context, t turn) error {
	if err := t.hand.Begin(); err != nil {
		return errors.Wrapf(err, "begin turn for %s", t.player.ID())
	}

	next := fmt.Sprintf("%s's turn...", t.player.User.Mention())
	for {
		if err := g.display(next, true); err != nil {
			return err
		}

		move, err := t.player.Move(ctx)
		if err != nil {
			return errors.Wrapf(err, "await move from %s", t.player.ID())
		}
		metrics.Metrics.MoveReceived(move.String())
		g.logger.Debug("Move received", "player", t.player.ID(), "move", move)

		done, err := g.apply(t, move)
		if err != nil || done {
			return err
		}
	}
}

// apply performs one move on the hand in play and reports whether its turn is over.
// Illegal moves only change the narration.
func (g *Game) apply(t turn, move Move) (bool, error) {
	hand := t.hand

	// A timeout still kicks a player holding 21.
	if hand.Sum.Sum == Perfect && move != MoveStand && move != MoveTimeout {
		g.prev = "You can't do that, you've got the best sum!"
		return false, nil
	}

	switch move {
	case MoveHit:
		card := hand.Hit(g.shoe.Draw(false))
		if hand.Bust() {
			g.prev = fmt.Sprintf("You draw `%s` and **BUST**", card)
			return true, g.bust(hand)
		}
		g.prev = fmt.Sprintf("You draw `%s`", card)
		return false, nil

	case MoveStand:
		g.prev = "You stand"
		return true, hand.Finish(StatusStand)

	case MoveDouble:
		card := hand.Hit(g.shoe.Draw(false))
		if hand.Bust() {
			g.prev = fmt.Sprintf("You double down and draw `%s` and **BUST**", card)
			return true, g.bust(hand)
		}
		g.prev = fmt.Sprintf("You double down and draw `%s`", card)
		return true, hand.Finish(StatusDouble)

	case MoveSplit:
		if len(hand.Cards) != 2 {
			g.prev = "You can only split on the first turn of your hand!"
			return false, nil
		}
		if !hand.CanSplit() {
			g.prev = "You can only split if your cards have the same value!"
			return false, nil
		}
		split := hand.Split()
		t.player.insertAfter(hand, split)
		g.queue = append([]turn{{player: t.player, hand: split}}, g.queue...)
		first := hand.Hit(g.shoe.Draw(false))
		second := split.Hit(g.shoe.Draw(false))
		g.prev = fmt.Sprintf("You split your hand and draw `%s` and `%s`", first, second)
		return false, nil

	case MoveSurrender:
		if !hand.CanSurrender() {
			g.prev = "You can only surrender on the first turn of your hand!"
			return false, nil
		}
		g.prev = "You surrender your hand"
		return true, hand.Finish(StatusSurrender)

	case MoveTimeout:
		g.kick(t.player)
		g.prev = "You have been kicked out due to inactivity"
		g.logger.Info("Player kicked for inactivity", "player", t.player.ID())
		return true, nil
	}

	return false, nil
}

// bust ends a hand that went over 21 and shows the loss straight away.
func (g *Game) bust(hand *Hand) error {
	if err := hand.Finish(StatusBust); err != nil {
		return err
	}
	return g.displayResult(Lose)
}

// kick removes a player and every turn they still had queued.
func (g *Game) kick(player *Player) {
	for i, seated := range g.players {
		if seated == player {
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}

	remaining := g.queue[:0]
	for _, t := range g.queue {
		if t.player != player {
			remaining = append(remaining, t)
		}
	}
	g.queue = remaining
	g.kicked = append(g.kicked, player.ID())
	if g.onKick != nil {
		g.onKick(player.ID())
	}
}

// live reports whether any hand still needs the dealer to play.
func (g *Game) live() bool {
	for _, player := range g.players {
		for _, hand := range player.Hands {
			if hand.Status != StatusBust && hand.Status != StatusSurrender {
				return true
			}
		}
	}
	return false
}

func (g *Game) dealerTurn(ctx context.Context) error {
	if err := g.dealer.Begin(); err != nil {
		return err
	}
	if err := g.display("Dealer to reveal card...", false); err != nil {
		return err
	}
	if err := g.delay(ctx); err != nil {
		return err
	}

	card, err := g.dealer.Reveal()
	if err != nil {
		return err
	}
	g.prev = fmt.Sprintf("Dealer's other card was `%s`", card)

	// With every hand bust or surrendered the dealer stands on the revealed pair.
	if !g.live() {
		return g.dealer.Finish(StatusStand)
	}

	for {
		if err := g.display("Dealer to move...", false); err != nil {
			return err
		}
		if err := g.delay(ctx); err != nil {
			return err
		}

		if g.dealer.NextMove() == MoveStand {
			g.prev = "Dealer stands"
			return g.dealer.Finish(StatusStand)
		}

		card := g.dealer.Hit(g.shoe.Draw(false))
		if g.dealer.Bust() {
			g.prev = fmt.Sprintf("Dealer draws `%s` and **BUSTS**", card)
			return g.dealer.Finish(StatusBust)
		}
		g.prev = fmt.Sprintf("Dealer draws `%s`", card)
	}
}

// Settle scores one hand against the dealer's final hand.
func Settle(hand *Hand, dealer *Dealer) Result {
	switch {
	case hand.Status == StatusSurrender, hand.Bust():
		return Lose
	case dealer.Bust():
		return Win
	}
	return hand.Compare(dealer.Hand)
}

func (g *Game) settle() (*Outcome, error) {
	out := g.outcome(true)
	out.Result = Settle(g.players[0].Hands[0], g.dealer)
	if err := g.displayResult(out.Result); err != nil {
		return nil, err
	}

	g.logger.Info("Round settled", "result", out.Result, "dealer", g.dealer.Sum)
	metrics.Metrics.RoundFinished(out.Result.String())
	return out, nil
}

func (g *Game) outcome(settled bool) *Outcome {
	out := &Outcome{
		RoundID:         g.id,
		Settled:         settled,
		DealerTotal:     g.dealer.Sum.Sum,
		DealerBlackjack: g.dealer.Status == StatusBlackjack,
		Kicked:          g.kicked,
	}
	for _, user := range g.users {
		out.Players = append(out.Players, user.ID)
	}
	if !settled {
		return out
	}

	for _, player := range g.players {
		for i, hand := range player.Hands {
			out.Hands = append(out.Hands, HandOutcome{
				UserID:  player.ID(),
				Index:   i,
				Status:  hand.Status,
				Total:   hand.Sum.Sum,
				Natural: hand.Natural(),
				Result:  Settle(hand, g.dealer),
			})
		}
	}
	return out
}

func (g *Game) delay(ctx context.Context) error {
	if g.pace <= 0 {
		return nil
	}

	timer := g.clock.NewTimer(g.pace, "blackjack", "pace")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *Game) display(next string, rules bool) error {
	if err := g.table.Display(g.embed(next, rules)); err != nil {
		return errors.Wrap(err, "display blackjack panel")
	}
	return nil
}

func (g *Game) displayResult(result Result) error {
	if err := g.table.Display(g.resultEmbed(result)); err != nil {
		return errors.Wrap(err, "display blackjack result")
	}
	return nil
}
