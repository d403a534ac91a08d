package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"riftbot/internal/syncer"
)

// ErrAccountExists is returned when adding an account whose Riot ID or
// PUUID is already tracked.
var ErrAccountExists = errors.New("account already tracked")

// Store provides database operations for tracked accounts, custom text
// commands and command toggles.
type Store struct {
	conn *sql.DB
}

// Account is a tracked player account.
type Account struct {
	ID        int
	GameName  string
	TagLine   string
	PUUID     string
	CreatedAt time.Time
}

// RiotID returns the account's "name#tag" form.
func (a Account) RiotID() string {
	return a.GameName + "#" + a.TagLine
}

// TextCommand is a chatter-visible canned response.
type TextCommand struct {
	Name string
	Body string
}

// AddAccount inserts a tracked account. Riot IDs are matched
// case-insensitively, so "Smurf#EUW" and "smurf#euw" are the same account.
func (s *Store) AddAccount(ctx context.Context, gameName, tagLine, puuid string) (*Account, error) {
	existing, err := s.AccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	query := `
		INSERT INTO accounts (game_name, tag_line, puuid)
		VALUES (?, ?, ?)
	`
	result, err := s.conn.ExecContext(ctx, query, gameName, tagLine, puuid)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted account ID: %w", err)
	}

	return &Account{ID: int(id), GameName: gameName, TagLine: tagLine, PUUID: puuid}, nil
}

// AccountByRiotID looks up an account by its case-insensitive Riot ID.
// Returns nil when the account is not tracked.
func (s *Store) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	query := `
		SELECT id, game_name, tag_line, puuid, created_at FROM accounts
		WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE
	`
	var acc Account
	err := s.conn.QueryRowContext(ctx, query, gameName, tagLine).
		Scan(&acc.ID, &acc.GameName, &acc.TagLine, &acc.PUUID, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &acc, nil
}

// RemoveAccount deletes a tracked account by Riot ID. Returns false when
// no such account was tracked.
func (s *Store) RemoveAccount(ctx context.Context, gameName, tagLine string) (bool, error) {
	query := `
		DELETE FROM accounts
		WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE
	`
	result, err := s.conn.ExecContext(ctx, query, gameName, tagLine)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Accounts returns all tracked accounts in insertion order.
func (s *Store) Accounts(ctx context.Context) ([]Account, error) {
	query := `
		SELECT id, game_name, tag_line, puuid, created_at FROM accounts
		ORDER BY id
	`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.ID, &acc.GameName, &acc.TagLine, &acc.PUUID, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// Players adapts tracked accounts to the sync engine's player list.
func (s *Store) Players(ctx context.Context) ([]syncer.Player, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]syncer.Player, 0, len(accounts))
	for _, acc := range accounts {
		players = append(players, syncer.Player{Name: acc.RiotID(), PUUID: acc.PUUID})
	}
	return players, nil
}

// SetCommand inserts or replaces a custom text command. Names are stored
// lowercased so lookups are case-insensitive.
func (s *Store) SetCommand(ctx context.Context, name, body string) error {
	query := `
		INSERT INTO text_commands (name, body) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body
	`
	if _, err := s.conn.ExecContext(ctx, query, strings.ToLower(name), body); err != nil {
		return fmt.Errorf("failed to save text command: %w", err)
	}
	return nil
}

// RemoveCommand deletes a custom text command. Returns false when no such
// command existed.
func (s *Store) RemoveCommand(ctx context.Context, name string) (bool, error) {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM text_commands WHERE name = ?`, strings.ToLower(name))
	if err != nil {
		return false, fmt.Errorf("failed to delete text command: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Command returns the body of a custom text command, or false when the
// command is not defined.
func (s *Store) Command(ctx context.Context, name string) (string, bool, error) {
	var body string
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM text_commands WHERE name = ?`, strings.ToLower(name)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query text command: %w", err)
	}
	return body, true, nil
}

// Commands returns all custom text commands ordered by name.
func (s *Store) Commands(ctx context.Context) ([]TextCommand, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name, body FROM text_commands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query text commands: %w", err)
	}
	defer rows.Close()

	var commands []TextCommand
	for rows.Next() {
		var cmd TextCommand
		if err := rows.Scan(&cmd.Name, &cmd.Body); err != nil {
			return nil, fmt.Errorf("failed to scan text command: %w", err)
		}
		commands = append(commands, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate text commands: %w", err)
	}
	return commands, nil
}

// SetToggle enables or disables a built-in command.
func (s *Store) SetToggle(ctx context.Context, command string, enabled bool) error {
	query := `
		INSERT INTO command_toggles (command, enabled) VALUES (?, ?)
		ON CONFLICT(command) DO UPDATE SET enabled = excluded.enabled
	`
	if _, err := s.conn.ExecContext(ctx, query, strings.ToLower(command), enabled); err != nil {
		return fmt.Errorf("failed to save command toggle: %w", err)
	}
	return nil
}

// Enabled reports whether a built-in command is enabled. Commands without
// a stored toggle default to enabled.
func (s *Store) Enabled(ctx context.Context, command string) (bool, error) {
	var enabled bool
	err := s.conn.QueryRowContext(ctx, `SELECT enabled FROM command_toggles WHERE command = ?`, strings.ToLower(command)).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query command toggle: %w", err)
	}
	return enabled, nil
}

// Toggles returns the stored toggle state per command.
func (s *Store) Toggles(ctx context.Context) (map[string]bool, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT command, enabled FROM command_toggles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query command toggles: %w", err)
	}
	defer rows.Close()

	toggles := make(map[string]bool)
	for rows.Next() {
		var command string
		var enabled bool
		if err := rows.Scan(&command, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan command toggle: %w", err)
		}
		toggles[command] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate command toggles: %w", err)
	}
	return toggles, nil
}
