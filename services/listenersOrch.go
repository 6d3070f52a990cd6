package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"tableBot/services/common"
)

// HandlerAdder is the part of *discordgo.Session that registers event handlers.
type HandlerAdder interface {
	AddHandler(handler interface{}) func()
}

// Listener reacts to gateway events on its own, outside of commands.
type Listener struct {
	Name    string
	handler interface{}

	mu     sync.Mutex
	remove func()
}

// NewListener wraps a discordgo event handler func.
func NewListener(name string, handler interface{}) *Listener {
	return &Listener{Name: name, handler: handler}
}

func (l *Listener) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remove != nil
}

func (l *Listener) Enable(s HandlerAdder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remove == nil {
		l.remove = s.AddHandler(l.handler)
	}
}

func (l *Listener) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remove != nil {
		l.remove()
		l.remove = nil
	}
}

type Listeners struct {
	byName map[string]*Listener
}

func NewListeners(listeners ...*Listener) *Listeners {
	l := &Listeners{byName: make(map[string]*Listener, len(listeners))}
	for _, listener := range listeners {
		l.byName[listener.Name] = listener
	}
	return l
}

func (l *Listeners) EnableAll(s HandlerAdder) {
	for _, listener := range l.byName {
		listener.Enable(s)
	}
}

func (l *Listeners) DisableAll() {
	for _, listener := range l.byName {
		listener.Disable()
	}
}

func (l *Listeners) Get(name string) (*Listener, bool) {
	listener, ok := l.byName[name]
	return listener, ok
}

func (l *Listeners) Names() []string {
	names := make([]string, 0, len(l.byName))
	for name := range l.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListenerCommand lets admins list listeners and switch them on or off.
func ListenerCommand(listeners *Listeners) Command {
	return Command{
		Name:        "listener",
		Description: "Lists listeners or turns one on or off.",
		Usage:       "[<name> on|off]",
		Auth: func(s *discordgo.Session, m *discordgo.MessageCreate) bool {
			return common.IsAdmin(s, m.GuildID, m.Member)
		},
		Execute: func(ctx context.Context, c *Context) error {
			if len(c.Args) == 0 {
				lines := make([]string, 0)
				for _, name := range listeners.Names() {
					listener, _ := listeners.Get(name)
					state := "off"
					if listener.Enabled() {
						state = "on"
					}
					lines = append(lines, fmt.Sprintf("`%s`: %s", name, state))
				}
				_, err := c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, &discordgo.MessageEmbed{
					Title:       "Listeners",
					Description: strings.Join(lines, "\n"),
					Color:       common.ColorInfo,
				})
				return err
			}

			if len(c.Args) != 2 {
				return common.NewBotError("Invalid usage", fmt.Sprintf("Usage: `%s%s %s`", c.Prefix, c.Name, "[<name> on|off]"))
			}
			listener, ok := listeners.Get(c.Args[0])
			if !ok {
				return common.NewBotError("Unknown listener", fmt.Sprintf("`%s` is not a listener I have!", c.Args[0]))
			}

			switch strings.ToLower(c.Args[1]) {
			case "on":
				listener.Enable(c.Session)
			case "off":
				listener.Disable()
			default:
				return common.NewBotError("Invalid state", "A listener can only be turned `on` or `off`.")
			}

			_, err := c.Session.ChannelMessageSend(c.Message.ChannelID, fmt.Sprintf("Listener `%s` is now %s.", listener.Name, strings.ToLower(c.Args[1])))
			return err
		},
	}
}
