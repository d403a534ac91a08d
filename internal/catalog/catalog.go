// Package catalog loads the bilingual champion reference data from Data
// Dragon and resolves free-text champion names against it.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"riftbot/internal/fuzzy"
	"riftbot/internal/riot"
)

const (
	localeEN = "en_US"
	localeRU = "ru_RU"

	// DefaultMinScore is the resolution threshold: the best fuzzy score must
	// reach it or the query is reported as not found. Favors "no answer"
	// over "wrong answer".
	DefaultMinScore = 70
)

// Entry is one champion with its stable identity and both display names.
type Entry struct {
	Identity string // Data Dragon champion ID, e.g. "TahmKench"
	Key      string // numeric short key, e.g. "223"
	NameEN   string
	NameRU   string
}

// Match is a resolved champion with the similarity of the winning score.
type Match struct {
	Entry
	Similarity float64
}

// DataSource provides the static game data the catalog is built from.
type DataSource interface {
	Versions(ctx context.Context) ([]string, error)
	Champions(ctx context.Context, version, locale string) (*riot.ChampionList, error)
	RunesReforged(ctx context.Context, version, locale string) ([]riot.RuneTree, error)
}

// Catalog holds the champion entries for one process lifetime. Load populates
// it once at startup; entries are read-only afterwards. The rune name index
// is filled lazily on first use.
type Catalog struct {
	src      DataSource
	logger   *slog.Logger
	minScore int

	version  string
	entries  []Entry
	combined []string // normalized "en ru" comparison string per entry

	runeMu    sync.Mutex
	runeNames map[int]string
}

// New creates an empty catalog backed by src. minScore <= 0 selects
// DefaultMinScore.
func New(src DataSource, minScore int, logger *slog.Logger) *Catalog {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Catalog{src: src, logger: logger, minScore: minScore}
}

// Load fetches the latest game version and both locale datasets, then builds
// the lookup tables. On any failure the catalog stays empty and the process
// keeps running with champion-name features degraded; there is no automatic
// retry before the next process start.
func (c *Catalog) Load(ctx context.Context) {
	if err := c.load(ctx); err != nil {
		c.logger.Error("champion catalog load failed, name features degraded", "error", err)
	}
}

func (c *Catalog) load(ctx context.Context) error {
	versions, err := c.src.Versions(ctx)
	if err != nil {
		return fmt.Errorf("fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return fmt.Errorf("empty version list")
	}
	version := versions[0]

	en, err := c.src.Champions(ctx, version, localeEN)
	if err != nil {
		return fmt.Errorf("fetch %s champions: %w", localeEN, err)
	}
	ru, err := c.src.Champions(ctx, version, localeRU)
	if err != nil {
		return fmt.Errorf("fetch %s champions: %w", localeRU, err)
	}
	if en == nil || ru == nil || len(en.Data) == 0 {
		return fmt.Errorf("champion dataset missing for version %s", version)
	}

	ruNames := make(map[string]string, len(ru.Data))
	for _, champ := range ru.Data {
		ruNames[champ.ID] = champ.Name
	}

	entries := make([]Entry, 0, len(en.Data))
	for key, champ := range en.Data {
		nameRU := ruNames[champ.ID]
		if nameRU == "" {
			nameRU = champ.Name
		}
		entries = append(entries, Entry{
			Identity: champ.ID,
			Key:      key,
			NameEN:   champ.Name,
			NameRU:   nameRU,
		})
	}

	// Map iteration order is random; fix a stable order so ties in fuzzy
	// resolution break the same way across restarts.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Identity < entries[j].Identity })

	combined := make([]string, len(entries))
	for i, e := range entries {
		combined[i] = fuzzy.Normalize(e.NameEN) + " " + fuzzy.Normalize(e.NameRU)
	}

	c.version = version
	c.entries = entries
	c.combined = combined
	c.logger.Info("champion catalog loaded", "version", version, "champions", len(entries))
	return nil
}

// Loaded reports whether the catalog holds any entries.
func (c *Catalog) Loaded() bool {
	return len(c.entries) > 0
}

// Entries returns the loaded champion entries.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Resolve maps free-text input (any script) to the best-matching champion.
// Returns false when the catalog is empty or the best score is below the
// threshold; callers render that as "not found", it is not an error.
func (c *Catalog) Resolve(input string) (Match, bool) {
	if len(c.entries) == 0 {
		return Match{}, false
	}

	query := fuzzy.NormalizeQuery(input)
	idx, score := fuzzy.BestMatch(query, c.combined)
	if idx < 0 || score < c.minScore {
		return Match{}, false
	}
	return Match{Entry: c.entries[idx], Similarity: float64(score) / 100}, true
}

// RuneNames resolves rune IDs to their localized display names, joined with
// ", ". Unknown IDs are dropped. The name index is fetched once and cached
// for the process lifetime.
func (c *Catalog) RuneNames(ctx context.Context, ids []int) (string, error) {
	index, err := c.runeIndex(ctx)
	if err != nil {
		return "", err
	}

	out := ""
	for _, id := range ids {
		name, ok := index[id]
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += name
	}
	return out, nil
}

func (c *Catalog) runeIndex(ctx context.Context) (map[int]string, error) {
	c.runeMu.Lock()
	defer c.runeMu.Unlock()
	if c.runeNames != nil {
		return c.runeNames, nil
	}

	version := c.version
	if version == "" {
		versions, err := c.src.Versions(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch versions: %w", err)
		}
		if len(versions) == 0 {
			return nil, fmt.Errorf("empty version list")
		}
		version = versions[0]
	}

	trees, err := c.src.RunesReforged(ctx, version, localeRU)
	if err != nil {
		return nil, fmt.Errorf("fetch runes: %w", err)
	}

	index := make(map[int]string)
	for _, tree := range trees {
		for _, slot := range tree.Slots {
			for _, r := range slot.Runes {
				index[r.ID] = r.Name
			}
		}
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("empty rune dataset for version %s", version)
	}
	c.runeNames = index
	return index, nil
}
