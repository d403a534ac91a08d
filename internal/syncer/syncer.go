// Package syncer implements the periodic match-synchronization cycle: pull
// recent match IDs per tracked player, fetch detail for the ones the archive
// has not seen, and merge them into the bounded archive.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"riftbot/internal/archive"
	"riftbot/internal/riot"
)

// ErrCycleInProgress is returned when a cycle trigger fires while a previous
// cycle is still running. The trigger is skipped, not queued.
var ErrCycleInProgress = errors.New("sync cycle already in progress")

// DefaultMatchesPerPlayer is how many recent match IDs are pulled per player
// each cycle.
const DefaultMatchesPerPlayer = 15

// Player is one tracked account, passed by value into the cycle. The engine
// never mutates the player list.
type Player struct {
	Name  string
	PUUID string
}

// PlayerSource supplies the tracked players at the start of each cycle.
type PlayerSource interface {
	Players(ctx context.Context) ([]Player, error)
}

// MatchSource is the slice of the Riot client the engine fetches from.
type MatchSource interface {
	MatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	Match(ctx context.Context, matchID string) (*riot.Match, error)
}

// RuneNamer resolves keystone rune IDs to display names.
type RuneNamer interface {
	RuneNames(ctx context.Context, ids []int) (string, error)
}

// Config holds the engine's knobs.
type Config struct {
	ArchivePath      string
	ArchiveCap       int
	MatchesPerPlayer int
}

// Engine orchestrates sync cycles. At most one cycle runs at a time; the
// in-progress flag is the only concurrency control the archive needs, since
// the engine is its sole writer.
type Engine struct {
	cfg     Config
	players PlayerSource
	src     MatchSource
	runes   RuneNamer
	gate    riot.Gate
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a sync engine.
func New(cfg Config, players PlayerSource, src MatchSource, runes RuneNamer, gate riot.Gate, logger *slog.Logger) *Engine {
	if cfg.MatchesPerPlayer <= 0 {
		cfg.MatchesPerPlayer = DefaultMatchesPerPlayer
	}
	if cfg.ArchiveCap <= 0 {
		cfg.ArchiveCap = archive.DefaultCap
	}
	return &Engine{
		cfg:     cfg,
		players: players,
		src:     src,
		runes:   runes,
		gate:    gate,
		logger:  logger,
	}
}

// Run executes one cycle immediately, then one per interval until ctx is
// done. A trigger that fires while a cycle is still running is skipped.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	e.trigger(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.trigger(ctx)
		}
	}
}

func (e *Engine) trigger(ctx context.Context) {
	switch err := e.RunCycle(ctx); {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		e.logger.Info("sync trigger skipped, cycle still running")
	case errors.Is(err, context.Canceled):
	default:
		e.logger.Error("sync cycle failed", "error", err)
	}
}

// RunCycle loads the persisted archive, syncs every tracked player, merges
// the accumulated records and persists the result. A failure for one match
// or one player is logged and skipped; it never aborts the rest of the
// cycle. The in-progress guard is always released, even on error.
func (e *Engine) RunCycle(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrCycleInProgress
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	players, err := e.players.Players(ctx)
	if err != nil {
		return fmt.Errorf("list tracked players: %w", err)
	}

	arch := archive.Load(e.cfg.ArchivePath, e.cfg.ArchiveCap, e.logger)
	known := arch.KnownIDs()

	var batch []archive.Record
	for _, player := range players {
		records, err := e.syncPlayer(ctx, player, known)
		batch = append(batch, records...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.logger.Warn("player sync failed, continuing with others", "player", player.Name, "error", err)
		}
	}

	arch.MergeNew(batch)
	if err := arch.Persist(); err != nil {
		return fmt.Errorf("persist archive: %w", err)
	}
	e.logger.Info("sync cycle complete", "new", len(batch), "archived", arch.Len())
	return nil
}

// syncPlayer fetches unseen matches for one player. IDs are added to known
// as soon as a record is extracted, so the same match never gets fetched or
// inserted twice within a cycle even when players shared the game.
func (e *Engine) syncPlayer(ctx context.Context, player Player, known map[string]struct{}) ([]archive.Record, error) {
	ids, err := e.src.MatchIDs(ctx, player.PUUID, e.cfg.MatchesPerPlayer)
	if err != nil {
		return nil, fmt.Errorf("fetch match ids: %w", err)
	}

	var records []archive.Record
	for _, id := range ids {
		if _, seen := known[id]; seen {
			continue
		}
		if err := e.gate.Wait(ctx); err != nil {
			return records, err
		}

		match, err := e.src.Match(ctx, id)
		if err != nil {
			e.logger.Warn("match fetch failed, skipping", "player", player.Name, "match", id, "error", err)
			continue
		}
		if match == nil {
			continue
		}
		participant := match.Participant(player.PUUID)
		if participant == nil {
			e.logger.Warn("player missing from match detail, skipping", "player", player.Name, "match", id)
			continue
		}

		runeName := ""
		if keystone, ok := participant.Keystone(); ok {
			runeName, err = e.runes.RuneNames(ctx, []int{keystone})
			if err != nil {
				e.logger.Warn("keystone name lookup failed", "match", id, "error", err)
				runeName = ""
			}
		}

		records = append(records, archive.Record{
			MatchID:   id,
			Champion:  participant.ChampionName,
			Rune:      runeName,
			Win:       participant.Win,
			Timestamp: match.Info.GameEndTimestamp / 1000,
		})
		known[id] = struct{}{}
	}
	return records, nil
}
