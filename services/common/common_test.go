package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEnglishList(t *testing.T) {
	assert.Equal(t, "", ToEnglishList(nil))
	assert.Equal(t, "You", ToEnglishList([]string{"You"}))
	assert.Equal(t, "You and <@2>", ToEnglishList([]string{"You", "<@2>"}))
	assert.Equal(t, "a, b, and c", ToEnglishList([]string{"a", "b", "c"}))
}

func TestErrorEmbed(t *testing.T) {
	wrapped := fmt.Errorf("running command: %w", NewBotError("Already playing", "You are already playing!"))
	embed := ErrorEmbed(wrapped)
	assert.Equal(t, "Already playing", embed.Title)
	assert.Equal(t, "You are already playing!", embed.Description)
	assert.Equal(t, ColorError, embed.Color)

	embed = ErrorEmbed(errors.New("boom"))
	assert.Equal(t, "An error occurred", embed.Title)
	assert.Equal(t, "boom", embed.Description)
}

func TestAggregateBotError(t *testing.T) {
	agg := &AggregateBotError{}
	assert.NoError(t, agg.ErrorOrNil())

	first := NewBotError("One", "first")
	agg.Add(first)
	assert.Same(t, first, agg.ErrorOrNil())

	agg.Add(NewBotError("Two", "second"))
	err := agg.ErrorOrNil()
	assert.Equal(t, "One: first; Two: second", err.Error())

	embed := ErrorEmbed(err)
	assert.Equal(t, "Multiple errors occurred", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Two", embed.Fields[1].Name)
}

func TestGetUsernameFromUser(t *testing.T) {
	assert.Equal(t, "Unknown User", GetUsernameFromUser(nil))
	assert.Equal(t, "alice", GetUsernameFromUser(&discordgo.User{Username: "alice"}))
	assert.Equal(t, "Alice A.", GetUsernameFromUser(&discordgo.User{Username: "alice", GlobalName: "Alice A."}))
}

type fakeMembers struct {
	calls int
	nick  string
	err   error
}

func (f *fakeMembers) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Member{Nick: f.nick, User: &discordgo.User{ID: userID, Username: "user-" + userID}}, nil
}

func TestNameCache(t *testing.T) {
	names, err := NewNameCache(8)
	require.NoError(t, err)

	members := &fakeMembers{nick: "Ace"}
	assert.Equal(t, "Ace", names.Get(members, "guild", "1"))
	assert.Equal(t, "Ace", names.Get(members, "guild", "1"))
	assert.Equal(t, 1, members.calls, "second lookup is cached")

	members.nick = ""
	assert.Equal(t, "user-2", names.Get(members, "guild", "2"))

	names.Remember("guild", &discordgo.User{ID: "3", Username: "carol"})
	assert.Equal(t, "carol", names.Get(members, "guild", "3"))
	assert.Equal(t, 2, members.calls)

	assert.Equal(t, "Unknown User", names.Get(&fakeMembers{err: errors.New("missing")}, "guild", "4"))

	_, err = NewNameCache(0)
	assert.Error(t, err)
}

func TestLogErrorWithoutDatabase(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "guild", "chan", errors.New("boom"))
	})
}
