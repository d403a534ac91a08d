package stats

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"riftbot/internal/riot"
)

// TodaySource is the slice of the Riot client the today report needs.
type TodaySource interface {
	MatchIDsSince(ctx context.Context, puuid string, startEpoch int64) ([]string, error)
	Match(ctx context.Context, matchID string) (*riot.Match, error)
}

// TodayMatch is one of today's games, tagged for rendering.
type TodayMatch struct {
	Champion  string
	Win       bool
	Timestamp int64
}

// TodayReport is one player's scoreboard for the current day.
type TodayReport struct {
	Player  string
	Matches []TodayMatch
}

// Wins counts won matches in the report.
func (r *TodayReport) Wins() int {
	n := 0
	for _, m := range r.Matches {
		if m.Win {
			n++
		}
	}
	return n
}

// DayStart returns local process midnight for now.
func DayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Today fetches the matches a player finished since dayStart, straight from
// the external source rather than the archive, and returns them sorted
// chronologically ascending. Returns nil when the player has no games today.
// Individual match failures are logged and skipped.
func Today(ctx context.Context, src TodaySource, gate riot.Gate, puuid, player string, dayStart time.Time, logger *slog.Logger) (*TodayReport, error) {
	ids, err := src.MatchIDsSince(ctx, puuid, dayStart.Unix())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	report := &TodayReport{Player: player}
	for _, id := range ids {
		if err := gate.Wait(ctx); err != nil {
			return nil, err
		}
		match, err := src.Match(ctx, id)
		if err != nil {
			logger.Warn("today match fetch failed, skipping", "match", id, "error", err)
			continue
		}
		if match == nil {
			continue
		}
		p := match.Participant(puuid)
		if p == nil {
			continue
		}
		report.Matches = append(report.Matches, TodayMatch{
			Champion:  p.ChampionName,
			Win:       p.Win,
			Timestamp: match.Info.GameCreation,
		})
	}
	if len(report.Matches) == 0 {
		return nil, nil
	}

	sort.Slice(report.Matches, func(i, j int) bool {
		return report.Matches[i].Timestamp < report.Matches[j].Timestamp
	})
	return report, nil
}
