package config

import (
	"time"

	"github.com/alecthomas/kong"
)

// Config is read from flags, falling back to environment variables (and a .env file).
type Config struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Token          string        `env:"DISCORD_BOT_TOKEN" required:"" help:"Discord bot token."`
	Prefix         string        `env:"BOT_PREFIX" default:"!" help:"Prefix for chat commands."`
	DatabaseURL    string        `env:"DATABASE_URL" default:"sqlite:tablebot.db" help:"Database URL (mysql://, sqlserver://, sqlite:)."`
	LogLevel       string        `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	MetricsAddr    string        `env:"METRICS_ADDR" default:"" help:"Address to serve Prometheus metrics on. Disabled when empty."`
	MoveTimeout    time.Duration `env:"MOVE_TIMEOUT" default:"60s" help:"How long a player has to move."`
	PaceDelay      time.Duration `env:"PACE_DELAY" default:"1.5s" help:"Pause between dealer actions."`
	RoundRetention time.Duration `env:"ROUND_RETENTION" default:"720h" help:"How long finished rounds are kept."`
	SeatTTL        time.Duration `env:"SEAT_TTL" default:"2h" help:"Seats older than this are released by the reaper."`
	NameCacheSize  int           `env:"NAME_CACHE_SIZE" default:"512" help:"Number of display names kept in memory."`
}
