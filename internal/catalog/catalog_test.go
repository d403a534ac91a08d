package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftbot/internal/riot"
)

type fakeSource struct {
	versions    []string
	versionsErr error
	champions   map[string]*riot.ChampionList // keyed by locale
	runes       []riot.RuneTree
	runesErr    error
	runesCalls  int
}

func (f *fakeSource) Versions(context.Context) ([]string, error) {
	return f.versions, f.versionsErr
}

func (f *fakeSource) Champions(_ context.Context, version, locale string) (*riot.ChampionList, error) {
	list, ok := f.champions[locale]
	if !ok {
		return nil, fmt.Errorf("no dataset for %s", locale)
	}
	return list, nil
}

func (f *fakeSource) RunesReforged(_ context.Context, version, locale string) ([]riot.RuneTree, error) {
	f.runesCalls++
	return f.runes, f.runesErr
}

func champions(data map[string][3]string) map[string]*riot.ChampionList {
	en := &riot.ChampionList{Data: map[string]riot.ChampionData{}}
	ru := &riot.ChampionList{Data: map[string]riot.ChampionData{}}
	for key, v := range data {
		en.Data[key] = riot.ChampionData{ID: v[0], Key: key, Name: v[1]}
		ru.Data[key] = riot.ChampionData{ID: v[0], Key: key, Name: v[2]}
	}
	return map[string]*riot.ChampionList{"en_US": en, "ru_RU": ru}
}

func loadedCatalog(t *testing.T) *Catalog {
	t.Helper()
	src := &fakeSource{
		versions: []string{"15.1.1"},
		champions: champions(map[string][3]string{
			"103": {"Ahri", "Ahri", "Ари"},
			"238": {"Zed", "Zed", "Зед"},
			"64":  {"LeeSin", "Lee Sin", "Ли Син"},
			"223": {"TahmKench", "Tahm Kench", "Таам Кенч"},
		}),
	}
	c := New(src, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Load(context.Background())
	require.True(t, c.Loaded())
	return c
}

func TestLoadFailureLeavesCatalogEmpty(t *testing.T) {
	src := &fakeSource{versionsErr: fmt.Errorf("network down")}
	c := New(src, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Load(context.Background())

	assert.False(t, c.Loaded())
	_, ok := c.Resolve("ahri")
	assert.False(t, ok, "empty catalog must resolve nothing")
}

func TestResolveExactName(t *testing.T) {
	c := loadedCatalog(t)
	m, ok := c.Resolve("Ahri")
	require.True(t, ok)
	assert.Equal(t, "Ahri", m.Identity)
	assert.InDelta(t, 1.0, m.Similarity, 0.001)
}

func TestResolveMisspelled(t *testing.T) {
	c := loadedCatalog(t)
	m, ok := c.Resolve("ahrri")
	require.True(t, ok)
	assert.Equal(t, "Ahri", m.Identity)
}

func TestResolveCyrillicTransliteration(t *testing.T) {
	c := loadedCatalog(t)
	// "ари" transliterates to "ari": one edit away from "ahri".
	m, ok := c.Resolve("ари")
	require.True(t, ok)
	assert.Equal(t, "Ahri", m.Identity)
	assert.GreaterOrEqual(t, m.Similarity, 0.7)
}

func TestResolveMultiWordName(t *testing.T) {
	c := loadedCatalog(t)
	m, ok := c.Resolve("lee sin")
	require.True(t, ok)
	assert.Equal(t, "LeeSin", m.Identity)
}

func TestResolveGarbageInput(t *testing.T) {
	c := loadedCatalog(t)
	_, ok := c.Resolve("qqqqwwwweeee")
	assert.False(t, ok)
}

func TestResolveDeterministic(t *testing.T) {
	c := loadedCatalog(t)
	first, ok := c.Resolve("зед")
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		m, ok := c.Resolve("зед")
		require.True(t, ok)
		assert.Equal(t, first.Identity, m.Identity)
	}
}

func TestResolveThresholdBoundary(t *testing.T) {
	src := &fakeSource{
		versions: []string{"15.1.1"},
		champions: champions(map[string][3]string{
			"1": {"Boundary", "aaaaabbccc", "aaaaabbccc"},
		}),
	}
	c := New(src, 70, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Load(context.Background())
	require.True(t, c.Loaded())

	// 100 - 3*100/10 = 70: inclusive boundary resolves.
	_, ok := c.Resolve("aaaaabbbbb")
	assert.True(t, ok, "score of exactly 70 must resolve")

	// 100 - 5*100/16 = 69: below threshold.
	src2 := &fakeSource{
		versions: []string{"15.1.1"},
		champions: champions(map[string][3]string{
			"1": {"Boundary", "aaaaaaaaaaaccccc", "aaaaaaaaaaaccccc"},
		}),
	}
	c2 := New(src2, 70, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c2.Load(context.Background())
	_, ok = c2.Resolve("aaaaaaaaaaabbbbb")
	assert.False(t, ok, "score of 69 must not resolve")
}

func TestRuneNamesCachedAfterFirstFetch(t *testing.T) {
	src := &fakeSource{
		versions: []string{"15.1.1"},
		champions: champions(map[string][3]string{
			"103": {"Ahri", "Ahri", "Ари"},
		}),
		runes: []riot.RuneTree{{
			Slots: []riot.RuneSlot{{
				Runes: []riot.RuneInfo{
					{ID: 8112, Name: "Электрошок"},
					{ID: 8128, Name: "Тёмная жатва"},
				},
			}},
		}},
	}
	c := New(src, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Load(context.Background())

	got, err := c.RuneNames(context.Background(), []int{8112, 8128, 9999})
	require.NoError(t, err)
	assert.Equal(t, "Электрошок, Тёмная жатва", got)

	_, err = c.RuneNames(context.Background(), []int{8112})
	require.NoError(t, err)
	assert.Equal(t, 1, src.runesCalls, "rune index should be fetched once per process")
}
