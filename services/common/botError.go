package common

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// BotError is a user facing failure. The dispatcher shows it as is and does not log it.
type BotError struct {
	Title       string
	Description string
}

func NewBotError(title, description string) *BotError {
	return &BotError{Title: title, Description: description}
}

func (e *BotError) Error() string {
	return e.Title + ": " + e.Description
}

func (e *BotError) Embed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       ColorError,
	}
}

func AsBotError(err error) (*BotError, bool) {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr, true
	}
	return nil, false
}

// AggregateBotError collects several user facing failures into one reply.
type AggregateBotError struct {
	Errors []*BotError
}

func (e *AggregateBotError) Add(err *BotError) {
	e.Errors = append(e.Errors, err)
}

// ErrorOrNil returns nil when nothing was collected, a single BotError when one was.
func (e *AggregateBotError) ErrorOrNil() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

func (e *AggregateBotError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *AggregateBotError) Embed() *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, len(e.Errors))
	for i, err := range e.Errors {
		fields[i] = &discordgo.MessageEmbedField{Name: err.Title, Value: err.Description}
	}
	return &discordgo.MessageEmbed{
		Title:  "Multiple errors occurred",
		Color:  ColorError,
		Fields: fields,
	}
}
