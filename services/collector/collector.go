// Package collector lets a command wait for the next chat message from a given user.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/coder/quartz"
	"github.com/pkg/errors"
)

var (
	ErrTimeout = errors.New("collector: timed out waiting for a message")
	ErrBusy    = errors.New("collector: already waiting on this user in this channel")
)

// Filter decides whether a message satisfies a waiter. Rejected messages leave the waiter in place.
type Filter func(m *discordgo.Message) bool

type key struct {
	channelID string
	userID    string
}

type waiter struct {
	accept Filter
	found  chan *discordgo.Message
}

type Collector struct {
	mu      sync.Mutex
	clock   quartz.Clock
	waiters map[key]*waiter
}

func New(clock quartz.Clock) *Collector {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Collector{
		clock:   clock,
		waiters: make(map[key]*waiter),
	}
}

// Await blocks until userID sends a message in channelID that accept approves,
// the timeout passes or ctx is done. Only one Await per user and channel may be pending.
func (c *Collector) Await(ctx context.Context, channelID, userID string, accept Filter, timeout time.Duration) (*discordgo.Message, error) {
	k := key{channelID: channelID, userID: userID}
	w := &waiter{accept: accept, found: make(chan *discordgo.Message, 1)}

	expired := make(chan struct{})
	timer := c.clock.AfterFunc(timeout, func() {
		close(expired)
	}, "collector", "await")
	defer timer.Stop()

	c.mu.Lock()
	if _, busy := c.waiters[k]; busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.waiters[k] = w
	c.mu.Unlock()

	select {
	case m := <-w.found:
		return m, nil
	case <-expired:
		// A message accepted before the waiter is dropped still wins.
		c.remove(k, w)
		select {
		case m := <-w.found:
			return m, nil
		default:
		}
		return nil, ErrTimeout
	case <-ctx.Done():
		c.remove(k, w)
		return nil, ctx.Err()
	}
}

// Dispatch offers a message to the waiter for its author and channel.
// It reports whether the message was consumed.
func (c *Collector) Dispatch(m *discordgo.Message) bool {
	if m == nil || m.Author == nil {
		return false
	}
	k := key{channelID: m.ChannelID, userID: m.Author.ID}

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.waiters[k]
	if !ok || !w.accept(m) {
		return false
	}
	delete(c.waiters, k)
	w.found <- m
	return true
}

// Pending is the number of waiters currently registered.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Collector) remove(k key, w *waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiters[k] == w {
		delete(c.waiters, k)
	}
}
