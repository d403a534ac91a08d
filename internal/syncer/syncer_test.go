package syncer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftbot/internal/archive"
	"riftbot/internal/riot"
)

type staticPlayers []Player

func (s staticPlayers) Players(context.Context) ([]Player, error) { return s, nil }

type failingPlayers struct{}

func (failingPlayers) Players(context.Context) ([]Player, error) {
	return nil, fmt.Errorf("store unavailable")
}

type fakeSource struct {
	mu       sync.Mutex
	ids      map[string][]string // puuid -> match IDs
	idErrs   map[string]error
	matches  map[string]*riot.Match
	detailed []string       // match IDs fetched, in order
	block    chan struct{}  // when set, Match blocks until closed
}

func (f *fakeSource) MatchIDs(_ context.Context, puuid string, count int) ([]string, error) {
	if err := f.idErrs[puuid]; err != nil {
		return nil, err
	}
	return f.ids[puuid], nil
}

func (f *fakeSource) Match(_ context.Context, id string) (*riot.Match, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.detailed = append(f.detailed, id)
	f.mu.Unlock()
	return f.matches[id], nil
}

func (f *fakeSource) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.detailed...)
}

type staticRunes map[int]string

func (s staticRunes) RuneNames(_ context.Context, ids []int) (string, error) {
	out := ""
	for _, id := range ids {
		if name, ok := s[id]; ok {
			if out != "" {
				out += ", "
			}
			out += name
		}
	}
	return out, nil
}

type countingGate struct {
	mu    sync.Mutex
	waits int
}

func (g *countingGate) Wait(context.Context) error {
	g.mu.Lock()
	g.waits++
	g.mu.Unlock()
	return nil
}

func matchFor(puuid, champ string, win bool, keystone int) *riot.Match {
	p := riot.Participant{PUUID: puuid, ChampionName: champ, Win: win}
	if keystone != 0 {
		p.Perks = riot.Perks{Styles: []riot.PerkStyle{{Selections: []riot.PerkSelection{{Perk: keystone}}}}}
	}
	return &riot.Match{Info: riot.MatchInfo{
		GameEndTimestamp: 1700000000000,
		Participants:     []riot.Participant{p},
	}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, players PlayerSource, src MatchSource, gate riot.Gate) (*Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.json")
	cfg := Config{ArchivePath: path, ArchiveCap: 500, MatchesPerPlayer: 15}
	return New(cfg, players, src, staticRunes{8112: "Электрошок"}, gate, testLogger()), path
}

func TestRunCycleMergesUnseenMatches(t *testing.T) {
	src := &fakeSource{
		ids: map[string][]string{"p-1": {"m2", "m1"}},
		matches: map[string]*riot.Match{
			"m1": matchFor("p-1", "Ahri", true, 8112),
			"m2": matchFor("p-1", "Zed", false, 0),
		},
	}
	engine, path := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, riot.NopGate{})

	require.NoError(t, engine.RunCycle(context.Background()))

	arch := archive.Load(path, 500, testLogger())
	got := arch.Records()
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MatchID)
	assert.Equal(t, "m1", got[1].MatchID)
	assert.Equal(t, "Электрошок", got[1].Rune)
	assert.Equal(t, int64(1700000000), got[1].Timestamp)
}

func TestRunCycleSkipsKnownMatches(t *testing.T) {
	src := &fakeSource{
		ids: map[string][]string{"p-1": {"m2", "m1"}},
		matches: map[string]*riot.Match{
			"m1": matchFor("p-1", "Ahri", true, 0),
			"m2": matchFor("p-1", "Ahri", false, 0),
		},
	}
	engine, path := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, riot.NopGate{})

	seed := archive.Load(path, 500, testLogger())
	seed.MergeNew([]archive.Record{{MatchID: "m1", Champion: "Ahri", Win: true}})
	require.NoError(t, seed.Persist())

	require.NoError(t, engine.RunCycle(context.Background()))

	assert.Equal(t, []string{"m2"}, src.fetched(), "known ID must not be re-fetched")
	arch := archive.Load(path, 500, testLogger())
	got := arch.Records()
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MatchID)
	assert.Equal(t, "m1", got[1].MatchID)
}

func TestRunCycleScenarioMergeThenStats(t *testing.T) {
	// Archive holds m1 (Ahri, win). Sync discovers m2 (Ahri, loss).
	src := &fakeSource{
		ids:     map[string][]string{"p-1": {"m2", "m1"}},
		matches: map[string]*riot.Match{"m2": matchFor("p-1", "Ahri", false, 0)},
	}
	engine, path := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, riot.NopGate{})

	seed := archive.Load(path, 500, testLogger())
	seed.MergeNew([]archive.Record{{MatchID: "m1", Champion: "Ahri", Win: true}})
	require.NoError(t, seed.Persist())

	require.NoError(t, engine.RunCycle(context.Background()))

	got := archive.Load(path, 500, testLogger()).Records()
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MatchID)
	assert.False(t, got[0].Win)
	assert.Equal(t, "m1", got[1].MatchID)
	assert.True(t, got[1].Win)
}

func TestRunCycleSharedMatchFetchedOnce(t *testing.T) {
	// Both tracked players were in m1; the second player must not re-fetch
	// or duplicate it within the same cycle.
	src := &fakeSource{
		ids: map[string][]string{
			"p-1": {"m1"},
			"p-2": {"m1"},
		},
		matches: map[string]*riot.Match{"m1": matchFor("p-1", "Ahri", true, 0)},
	}
	engine, path := newEngine(t, staticPlayers{
		{Name: "one", PUUID: "p-1"},
		{Name: "two", PUUID: "p-2"},
	}, src, riot.NopGate{})

	require.NoError(t, engine.RunCycle(context.Background()))

	assert.Equal(t, []string{"m1"}, src.fetched())
	assert.Equal(t, 1, archive.Load(path, 500, testLogger()).Len())
}

func TestRunCyclePlayerFailureDoesNotAbortOthers(t *testing.T) {
	src := &fakeSource{
		ids:     map[string][]string{"p-2": {"m2"}},
		idErrs:  map[string]error{"p-1": fmt.Errorf("500 from api")},
		matches: map[string]*riot.Match{"m2": matchFor("p-2", "Zed", true, 0)},
	}
	engine, path := newEngine(t, staticPlayers{
		{Name: "broken", PUUID: "p-1"},
		{Name: "fine", PUUID: "p-2"},
	}, src, riot.NopGate{})

	require.NoError(t, engine.RunCycle(context.Background()))
	assert.Equal(t, 1, archive.Load(path, 500, testLogger()).Len())
}

func TestRunCycleMatchFailureIsSkipped(t *testing.T) {
	src := &fakeSource{
		ids: map[string][]string{"p-1": {"gone", "m1"}},
		matches: map[string]*riot.Match{
			"m1": matchFor("p-1", "Ahri", true, 0),
			// "gone" resolves to nil: not-found from the API.
		},
	}
	engine, path := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, riot.NopGate{})

	require.NoError(t, engine.RunCycle(context.Background()))
	got := archive.Load(path, 500, testLogger()).Records()
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].MatchID)
}

func TestRunCyclePlayerListFailure(t *testing.T) {
	engine, _ := newEngine(t, failingPlayers{}, &fakeSource{}, riot.NopGate{})
	err := engine.RunCycle(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCycleInProgress)

	// The guard must be released even after a failed cycle.
	err = engine.RunCycle(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCycleInProgress)
}

func TestRunCycleGatePacesDetailFetches(t *testing.T) {
	src := &fakeSource{
		ids: map[string][]string{"p-1": {"m1", "m2", "m3"}},
		matches: map[string]*riot.Match{
			"m1": matchFor("p-1", "Ahri", true, 0),
			"m2": matchFor("p-1", "Ahri", false, 0),
			"m3": matchFor("p-1", "Zed", true, 0),
		},
	}
	gate := &countingGate{}
	engine, _ := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, gate)

	require.NoError(t, engine.RunCycle(context.Background()))
	assert.Equal(t, 3, gate.waits, "every detail fetch must pass the rate gate")
}

func TestConcurrentTriggerIsNoOp(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{
		ids:     map[string][]string{"p-1": {"m1"}},
		matches: map[string]*riot.Match{"m1": matchFor("p-1", "Ahri", true, 0)},
		block:   block,
	}
	engine, path := newEngine(t, staticPlayers{{Name: "smurf", PUUID: "p-1"}}, src, riot.NopGate{})

	done := make(chan error, 1)
	go func() { done <- engine.RunCycle(context.Background()) }()

	// Wait until the first cycle is inside a detail fetch.
	for {
		engine.mu.Lock()
		running := engine.running
		engine.mu.Unlock()
		if running {
			break
		}
		runtime.Gosched()
	}

	err := engine.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrCycleInProgress)

	close(block)
	require.NoError(t, <-done)

	// Exactly one merge happened; the skipped trigger did not double-insert.
	assert.Equal(t, 1, archive.Load(path, 500, testLogger()).Len())

	// Guard released: a fresh cycle runs again.
	require.NoError(t, engine.RunCycle(context.Background()))
}
