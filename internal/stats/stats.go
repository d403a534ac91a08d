// Package stats aggregates archived match records into the summaries the
// chat commands render: per-champion win rate and rune frequency, and the
// day's scoreboard per tracked player.
package stats

import (
	"errors"
	"fmt"

	"riftbot/internal/archive"
	"riftbot/internal/fuzzy"
)

// ErrNoData marks a champion with zero archived matches. Distinct from a
// summary with a 0% win rate; callers render the two differently.
var ErrNoData = errors.New("no archived matches for champion")

// topRunes bounds the rune frequency ranking.
const topRunes = 3

// RuneCount is one rune with the number of archived matches it was taken in.
type RuneCount struct {
	Name  string
	Count int
}

// Summary aggregates all archived matches on one champion.
type Summary struct {
	Total int
	Wins  int
	// Runes is ranked by count descending, at most three entries. Ties keep
	// the order runes were first seen in the archive.
	Runes []RuneCount
}

// WinRate formats the win percentage with one decimal, e.g. "30.0%".
func (s *Summary) WinRate() string {
	return fmt.Sprintf("%.1f%%", float64(s.Wins)*100/float64(s.Total))
}

// ChampStats filters records on the champion identity (case- and
// format-insensitive exact match on the normalized name; fuzziness belongs to
// name resolution, not here) and aggregates totals, wins and rune counts.
// Returns ErrNoData when no record matches.
func ChampStats(records []archive.Record, identity string) (*Summary, error) {
	target := fuzzy.Normalize(identity)
	if target == "" {
		return nil, ErrNoData
	}

	s := &Summary{}
	counts := map[string]int{}
	var firstSeen []string
	for _, r := range records {
		if fuzzy.Normalize(r.Champion) != target {
			continue
		}
		s.Total++
		if r.Win {
			s.Wins++
		}
		if r.Rune != "" {
			if _, seen := counts[r.Rune]; !seen {
				firstSeen = append(firstSeen, r.Rune)
			}
			counts[r.Rune]++
		}
	}
	if s.Total == 0 {
		return nil, ErrNoData
	}

	// Selection over the first-seen order keeps ties stable without a sort.
	picked := make(map[string]bool, topRunes)
	for len(s.Runes) < topRunes && len(picked) < len(counts) {
		best := ""
		for _, name := range firstSeen {
			if picked[name] {
				continue
			}
			if best == "" || counts[name] > counts[best] {
				best = name
			}
		}
		picked[best] = true
		s.Runes = append(s.Runes, RuneCount{Name: best, Count: counts[best]})
	}
	return s, nil
}
