package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "bot.db"))
	cfg.AutoMigrate = true
	st, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenRequiresConfig(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)
}

func TestAddAndListAccounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.AddAccount(ctx, "Smurf", "EUW", "puuid-1")
	require.NoError(t, err)
	assert.Equal(t, "Smurf#EUW", first.RiotID())

	_, err = st.AddAccount(ctx, "Main", "RU1", "puuid-2")
	require.NoError(t, err)

	accounts, err := st.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Smurf", accounts[0].GameName)
	assert.Equal(t, "Main", accounts[1].GameName)
	assert.False(t, accounts[0].CreatedAt.IsZero())
}

func TestAddAccountRejectsDuplicates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.AddAccount(ctx, "Smurf", "EUW", "puuid-1")
	require.NoError(t, err)

	// Same Riot ID with different case.
	_, err = st.AddAccount(ctx, "smurf", "euw", "puuid-other")
	assert.ErrorIs(t, err, ErrAccountExists)

	// Same PUUID under a new Riot ID.
	_, err = st.AddAccount(ctx, "Renamed", "EUW", "puuid-1")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestRemoveAccount(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.AddAccount(ctx, "Smurf", "EUW", "puuid-1")
	require.NoError(t, err)

	removed, err := st.RemoveAccount(ctx, "SMURF", "euw")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = st.RemoveAccount(ctx, "Smurf", "EUW")
	require.NoError(t, err)
	assert.False(t, removed)

	accounts, err := st.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestPlayersAdapter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.AddAccount(ctx, "Smurf", "EUW", "puuid-1")
	require.NoError(t, err)

	players, err := st.Players(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Smurf#EUW", players[0].Name)
	assert.Equal(t, "puuid-1", players[0].PUUID)
}

func TestTextCommands(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCommand(ctx, "Discord", "https://discord.gg/example"))

	body, ok, err := st.Command(ctx, "discord")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://discord.gg/example", body)

	// Overwrite keeps a single row.
	require.NoError(t, st.SetCommand(ctx, "discord", "updated"))
	commands, err := st.Commands(ctx)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "updated", commands[0].Body)

	removed, err := st.RemoveCommand(ctx, "DISCORD")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err = st.Command(ctx, "discord")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTogglesDefaultEnabled(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	enabled, err := st.Enabled(ctx, "runes")
	require.NoError(t, err)
	assert.True(t, enabled, "commands without a stored toggle default to enabled")

	require.NoError(t, st.SetToggle(ctx, "runes", false))
	enabled, err = st.Enabled(ctx, "RUNES")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, st.SetToggle(ctx, "runes", true))
	toggles, err := st.Toggles(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"runes": true}, toggles)
}

func TestMigrationVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")
	cfg := DefaultConfig(path)
	cfg.AutoMigrate = true
	st, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	mgr, err := NewMigrationManager(path)
	require.NoError(t, err)
	defer func() { _ = mgr.Close() }()

	version, dirty, err := mgr.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
