package common

import (
	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// MemberFetcher is the part of a session used to look members up.
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// NameCache remembers display names so leaderboards don't hit the API for every row.
type NameCache struct {
	cache *lru.Cache
}

func NewNameCache(size int) (*NameCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize name cache")
	}
	return &NameCache{cache: c}, nil
}

func (c *NameCache) Get(s MemberFetcher, guildID, userID string) string {
	key := guildID + "/" + userID
	if v, ok := c.cache.Get(key); ok {
		return v.(string)
	}

	member, err := s.GuildMember(guildID, userID)
	if err != nil || member == nil {
		return "Unknown User"
	}
	name := member.Nick
	if name == "" {
		name = GetUsernameFromUser(member.User)
	}
	c.cache.Add(key, name)
	return name
}

// Remember stores a name seen elsewhere, e.g. on a message author.
func (c *NameCache) Remember(guildID string, user *discordgo.User) {
	if user == nil {
		return
	}
	c.cache.Add(guildID+"/"+user.ID, GetUsernameFromUser(user))
}
