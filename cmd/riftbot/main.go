// Package main runs the riftbot chat bot: it joins the configured Twitch
// channels, answers champion-stat commands and keeps the local match
// archive synced against the Riot API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"riftbot/internal/archive"
	"riftbot/internal/bot"
	"riftbot/internal/catalog"
	"riftbot/internal/config"
	"riftbot/internal/logging"
	"riftbot/internal/riot"
	"riftbot/internal/store"
	"riftbot/internal/syncer"
	"riftbot/internal/twitch"
)

var configPath = flag.String("config", "", "Config file path (default: ~/.riftbot/config.toml)")

func main() {
	flag.Parse()

	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, logCloser, err := logging.Setup(cfg.LogPath(), cfg.App.DebugMode)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() {
		_ = logCloser.Close()
	}()

	dbConfig := store.DefaultConfig(cfg.DatabasePath())
	dbConfig.AutoMigrate = true
	st, err := store.Open(dbConfig)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	riotClient := riot.NewClient(riot.Config{
		APIKey:         cfg.Riot.APIKey,
		ClusterBaseURL: cfg.Riot.ClusterURL,
		RegionBaseURL:  cfg.Riot.RegionURL,
		DDragonBaseURL: cfg.Riot.DDragonURL,
	})
	gate := riot.NewFixedGate(cfg.RequestGap())

	names := catalog.New(riotClient, cfg.Catalog.MinScore, logger)
	names.Load(ctx)

	snapshot := archive.NewSnapshot(cfg.ArchivePath(), logger)
	go func() {
		if err := snapshot.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Error("archive watcher stopped", "error", err)
		}
	}()

	engine := syncer.New(syncer.Config{
		ArchivePath:      cfg.ArchivePath(),
		ArchiveCap:       cfg.Sync.ArchiveCap,
		MatchesPerPlayer: cfg.Sync.MatchesPerPlayer,
	}, st, riotClient, names, gate, logger)
	go engine.Run(ctx, cfg.SyncInterval())

	var chatBot *bot.Bot
	chat := twitch.NewClient(twitch.Config{
		Username: cfg.Chat.Username,
		Token:    cfg.Chat.Token,
		Channels: cfg.Chat.Channels,
	}, func(ctx context.Context, msg twitch.Message) {
		go chatBot.Dispatch(ctx, msg)
	}, logger)
	chatBot = bot.New(bot.Config{Admins: cfg.Chat.Admins}, riotClient, names, snapshot, st, gate, chat, logger)

	logger.Info("riftbot starting",
		"channels", strings.Join(cfg.Chat.Channels, ","),
		"sync_interval", cfg.SyncInterval().String())

	if err := chat.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("chat client stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("riftbot stopped")
}
