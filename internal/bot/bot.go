// Package bot turns chat messages into commands over the archive, the
// catalog and the Riot API, and renders the replies.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"riftbot/internal/archive"
	"riftbot/internal/catalog"
	"riftbot/internal/riot"
	"riftbot/internal/store"
	"riftbot/internal/twitch"
)

// Sayer delivers replies to a chat channel.
type Sayer interface {
	Say(channel, text string) error
}

// API is the slice of the Riot client the command handlers use.
type API interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	SummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error)
	LeagueEntries(ctx context.Context, summonerID string) ([]riot.LeagueEntry, error)
	ChallengerLeague(ctx context.Context) (*riot.League, error)
	GrandmasterLeague(ctx context.Context) (*riot.League, error)
	MatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	MatchIDsSince(ctx context.Context, puuid string, startEpoch int64) ([]string, error)
	Match(ctx context.Context, matchID string) (*riot.Match, error)
	ActiveGame(ctx context.Context, puuid string) (*riot.ActiveGame, error)
}

// Resolver maps free-form champion input to a catalog entry and rune IDs
// to display names.
type Resolver interface {
	Resolve(input string) (catalog.Match, bool)
	RuneNames(ctx context.Context, ids []int) (string, error)
}

// ArchiveView provides the current archived match records.
type ArchiveView interface {
	Records() []archive.Record
}

// Config holds bot behavior settings.
type Config struct {
	// Admins lists chat logins allowed to run admin commands in addition
	// to the broadcaster and moderators.
	Admins []string
}

// Bot dispatches parsed commands to their handlers.
type Bot struct {
	cfg     Config
	api     API
	names   Resolver
	view    ArchiveView
	store   *store.Store
	gate    riot.Gate
	sayer   Sayer
	logger  *slog.Logger
	now     func() time.Time
	admins  map[string]bool
}

// New creates a Bot.
func New(cfg Config, api API, names Resolver, view ArchiveView, st *store.Store, gate riot.Gate, sayer Sayer, logger *slog.Logger) *Bot {
	admins := make(map[string]bool, len(cfg.Admins))
	for _, login := range cfg.Admins {
		admins[strings.ToLower(login)] = true
	}
	return &Bot{
		cfg:    cfg,
		api:    api,
		names:  names,
		view:   view,
		store:  st,
		gate:   gate,
		sayer:  sayer,
		logger: logger,
		now:    time.Now,
		admins: admins,
	}
}

// isAdmin reports whether the sender may run admin commands.
func (b *Bot) isAdmin(msg twitch.Message) bool {
	return msg.IsModerator() || b.admins[strings.ToLower(msg.User)]
}

// Dispatch handles one chat message. Non-command messages are ignored.
func (b *Bot) Dispatch(ctx context.Context, msg twitch.Message) {
	cmd := Parse(msg.Text)
	if cmd.Kind == KindNone {
		return
	}
	b.logger.Info("chat command", "user", msg.User, "command", cmd.Name)

	if toggleable[cmd.Name] {
		enabled, err := b.store.Enabled(ctx, cmd.Name)
		if err != nil {
			b.logger.Error("toggle lookup failed", "command", cmd.Name, "error", err)
			return
		}
		if !enabled {
			return
		}
	}

	admin := b.isAdmin(msg)

	var reply string
	var err error
	switch cmd.Kind {
	case KindChamp:
		reply, err = b.handleChamp(cmd.Args)
		if err != nil {
			reply = "Произошла ошибка при обработке запроса"
		}
	case KindToday:
		reply, err = b.handleToday(ctx)
	case KindLast:
		reply, err = b.handleLast(ctx)
	case KindLP:
		reply, err = b.handleLP(ctx)
	case KindRunes:
		reply, err = b.handleRunes(ctx)
	case KindLastGM:
		reply, err = b.handleLadder(ctx, b.api.GrandmasterLeague, "Список LP последних пяти грандмастеров")
	case KindLastChal:
		reply, err = b.handleLadder(ctx, b.api.ChallengerLeague, "Список LP последних пяти чаликов")
	case KindOpGG:
		reply, err = b.handleOpGG(ctx)
	case KindAccs:
		reply, err = b.handleAccs(ctx)
	case KindAddAcc:
		if admin {
			reply, err = b.handleAddAcc(ctx, cmd.Args)
			if err != nil {
				reply = "Ошибка добавления аккаунта"
			}
		}
	case KindRmAcc:
		if admin {
			reply, err = b.handleRmAcc(ctx, cmd.Args)
		}
	case KindAddCmd:
		if admin {
			reply, err = b.handleAddCmd(ctx, cmd.Args)
		}
	case KindRmCmd:
		if admin {
			reply, err = b.handleRmCmd(ctx, cmd.Args)
		}
	case KindOptions:
		if admin {
			reply, err = b.handleOptions(ctx, cmd.Args)
		}
	case KindTest:
		if admin {
			reply = "online"
		}
	case KindCustom:
		reply, err = b.handleCustom(ctx, cmd.Name)
	}

	if err != nil {
		b.logger.Error("command failed", "command", cmd.Name, "error", err)
	}
	if reply == "" {
		return
	}
	if err := b.sayer.Say(msg.Channel, reply); err != nil {
		b.logger.Error("failed to send reply", "channel", msg.Channel, "error", err)
	}
}
