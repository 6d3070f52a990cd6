package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tableBot/config"
	"tableBot/database"
	"tableBot/metrics"
	"tableBot/scheduler"
	"tableBot/services"
	"tableBot/services/blackjackService"
	"tableBot/services/collector"
	"tableBot/services/common"
	"tableBot/services/helpService"
	"tableBot/services/listeners"
	"tableBot/services/statsService"
)

// version is set by ldflags during build
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	var cfg config.Config
	kong.Parse(&cfg,
		kong.Name("tablebot"),
		kong.Description("Discord bot that deals Blackjack"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped", "err", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	names, err := common.NewNameCache(cfg.NameCacheSize)
	if err != nil {
		return err
	}

	clock := quartz.NewReal()
	seats := blackjackService.NewRegistry(clock)
	moves := collector.New(clock)
	stats := statsService.NewStore(db, names)

	commands := services.NewRegistry()
	botListeners := services.NewListeners(
		listeners.Wave(cfg.Prefix, logger),
	)
	err = commands.Register(
		helpService.HelpCommand(),
		helpService.RulesCommand(map[string]string{"blackjack": blackjackService.Rules}),
		blackjackService.NewCommand(blackjackService.Config{
			Seats:       seats,
			Collector:   moves,
			Recorder:    stats,
			Clock:       clock,
			Pace:        cfg.PaceDelay,
			MoveTimeout: cfg.MoveTimeout,
			Logger:      logger,
		}),
		stats.Command(),
		services.ListenerCommand(botListeners),
	)
	if err != nil {
		return err
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return err
	}

	dispatcher := services.NewDispatcher(ctx, cfg.Prefix, commands, moves, db, logger)
	dg.AddHandler(dispatcher.HandleMessage)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("Logged on", "user", r.User.String())
		if err := s.UpdateGameStatus(0, cfg.Prefix+"help"); err != nil {
			logger.Warn("Could not set status", "err", err)
		}
	})
	botListeners.EnableAll(dg)

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	if err := dg.Open(); err != nil {
		return err
	}
	defer func(dg *discordgo.Session) {
		if err := dg.Close(); err != nil {
			logger.Warn("Error closing Discord session", "err", err)
		}
	}(dg)

	cronService := scheduler.SetupCron(db, seats, clock, cfg.RoundRetention, cfg.SeatTTL, logger)
	defer cronService.Stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			return metrics.Serve(ctx, cfg.MetricsAddr)
		})
	}
	g.Go(func() error {
		logger.Info("Bot is running. Press CTRL+C to exit.")
		<-ctx.Done()
		return nil
	})
	return g.Wait()
}
