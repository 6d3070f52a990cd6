package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"tableBot/metrics"
	"tableBot/services/collector"
	"tableBot/services/common"
)

// Context is what a command gets to work with for one invocation.
type Context struct {
	Session  *discordgo.Session
	Message  *discordgo.MessageCreate
	Name     string
	Args     []string
	Prefix   string
	Commands *Registry
}

type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	// Auth, when set, must approve the invocation before Execute runs.
	Auth    func(s *discordgo.Session, m *discordgo.MessageCreate) bool
	Execute func(ctx context.Context, c *Context) error
}

type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

func (r *Registry) Register(commands ...Command) error {
	for i := range commands {
		cmd := commands[i]
		if cmd.Name == "" || cmd.Execute == nil {
			return fmt.Errorf("command %q is missing a name or an Execute func", cmd.Name)
		}
		if _, ok := r.Lookup(cmd.Name); ok {
			return fmt.Errorf("command %q is already registered", cmd.Name)
		}
		for _, alias := range cmd.Aliases {
			if _, ok := r.Lookup(alias); ok {
				return fmt.Errorf("alias %q of %q is already taken", alias, cmd.Name)
			}
		}

		r.commands[cmd.Name] = &cmd
		for _, alias := range cmd.Aliases {
			r.aliases[alias] = &cmd
		}
	}
	return nil
}

// Lookup finds a command by name first, then by alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	cmd, ok := r.aliases[name]
	return cmd, ok
}

// All returns the commands sorted by name.
func (r *Registry) All() []*Command {
	all := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		all = append(all, cmd)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// ParseCommand splits a prefixed message into the command name and its arguments.
func ParseCommand(prefix, content string) (string, []string, bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// Dispatcher routes incoming messages to waiting collectors and to commands.
type Dispatcher struct {
	ctx       context.Context
	prefix    string
	commands  *Registry
	collector *collector.Collector
	db        *gorm.DB
	logger    *log.Logger
}

func NewDispatcher(ctx context.Context, prefix string, commands *Registry, c *collector.Collector, db *gorm.DB, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:       ctx,
		prefix:    prefix,
		commands:  commands,
		collector: c,
		db:        db,
		logger:    logger.WithPrefix("dispatcher"),
	}
}

func (d *Dispatcher) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if d.collector.Dispatch(m.Message) {
		return
	}

	name, args, ok := ParseCommand(d.prefix, m.Content)
	if !ok {
		return
	}

	if m.GuildID == "" {
		if _, err := s.ChannelMessageSend(m.ChannelID, "Sorry, I don't support DMs yet!"); err != nil {
			d.logger.Printf("Error replying to DM: %v", err)
		}
		return
	}

	if err := d.run(s, m, name, args); err != nil {
		common.SendError(s, m, err, d.db)
	}
}

func (d *Dispatcher) run(s *discordgo.Session, m *discordgo.MessageCreate, name string, args []string) error {
	cmd, ok := d.commands.Lookup(name)
	if !ok {
		return common.NewBotError("Unknown command name", fmt.Sprintf("`%s` is not the name or alias of any command I have!", name))
	}
	if cmd.Auth != nil && !cmd.Auth(s, m) {
		return common.NewBotError("Missing permissions", "You do not have the required permissions to use this command!")
	}

	d.logger.Debug("Running command", "command", cmd.Name, "guild", m.GuildID, "user", m.Author.ID)
	metrics.Metrics.CommandHandled(cmd.Name)
	return cmd.Execute(d.ctx, &Context{
		Session:  s,
		Message:  m,
		Name:     name,
		Args:     args,
		Prefix:   d.prefix,
		Commands: d.commands,
	})
}
