// Package config loads the bot configuration from a TOML file, with
// secrets supplied through the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Chat connection settings
	Chat ChatConfig `toml:"chat"`

	// Riot API settings
	Riot RiotConfig `toml:"riot"`

	// Match history sync settings
	Sync SyncConfig `toml:"sync"`

	// Champion name matching settings
	Catalog CatalogConfig `toml:"catalog"`

	// Application settings
	App AppConfig `toml:"app"`
}

// ChatConfig contains Twitch chat settings. The OAuth token is never read
// from the file, only from the TWITCH_OAUTH_TOKEN environment variable.
type ChatConfig struct {
	Username string   `toml:"username"` // Bot login name
	Channels []string `toml:"channels"` // Channels to join
	Admins   []string `toml:"admins"`   // Extra logins allowed to run admin commands
	Token    string   `toml:"-"`
}

// RiotConfig contains Riot API settings. The key is never read from the
// file, only from the RIOT_API_KEY environment variable.
type RiotConfig struct {
	ClusterURL string `toml:"cluster_url"` // Regional routing host (account and match APIs)
	RegionURL  string `toml:"region_url"`  // Platform routing host (summoner and league APIs)
	DDragonURL string `toml:"ddragon_url"` // Static data host
	APIKey     string `toml:"-"`
}

// SyncConfig contains match history sync settings.
type SyncConfig struct {
	Interval         string `toml:"interval"`           // Time between sync cycles (e.g., "8h")
	RequestGap       string `toml:"request_gap"`        // Pause between match detail requests (e.g., "1200ms")
	MatchesPerPlayer int    `toml:"matches_per_player"` // Recent match IDs fetched per player
	ArchiveCap       int    `toml:"archive_cap"`        // Max records kept in the archive
}

// CatalogConfig contains champion name matching settings.
type CatalogConfig struct {
	MinScore int `toml:"min_score"` // Similarity threshold, 0-100
}

// AppConfig contains general application settings.
type AppConfig struct {
	DataDir   string `toml:"data_dir"`   // Directory for the archive, database and log
	DebugMode bool   `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{},
		Riot: RiotConfig{
			ClusterURL: "https://europe.api.riotgames.com",
			RegionURL:  "https://ru.api.riotgames.com",
			DDragonURL: "https://ddragon.leagueoflegends.com",
		},
		Sync: SyncConfig{
			Interval:         "8h",
			RequestGap:       "1200ms",
			MatchesPerPlayer: 15,
			ArchiveCap:       500,
		},
		Catalog: CatalogConfig{
			MinScore: 70,
		},
		App: AppConfig{},
	}
}

// defaultDataDir returns ~/.riftbot, creating it if needed.
func defaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".riftbot")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// Load loads the configuration from path, or from the default location
// when path is empty. A missing file yields the default config. Secrets
// are filled in from the environment either way.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if config.App.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		config.App.DataDir = dir
	}

	config.Chat.Token = os.Getenv("TWITCH_OAUTH_TOKEN")
	config.Riot.APIKey = os.Getenv("RIOT_API_KEY")
	return config, nil
}

// Validate reports configuration errors that prevent startup.
func (c *Config) Validate() error {
	if c.Chat.Username == "" {
		return fmt.Errorf("chat.username is required")
	}
	if len(c.Chat.Channels) == 0 {
		return fmt.Errorf("chat.channels must list at least one channel")
	}
	if c.Chat.Token == "" {
		return fmt.Errorf("TWITCH_OAUTH_TOKEN is not set")
	}
	if c.Riot.APIKey == "" {
		return fmt.Errorf("RIOT_API_KEY is not set")
	}
	if _, err := time.ParseDuration(c.Sync.Interval); err != nil {
		return fmt.Errorf("sync.interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Sync.RequestGap); err != nil {
		return fmt.Errorf("sync.request_gap: %w", err)
	}
	if c.Sync.MatchesPerPlayer <= 0 {
		return fmt.Errorf("sync.matches_per_player must be positive")
	}
	if c.Sync.ArchiveCap <= 0 {
		return fmt.Errorf("sync.archive_cap must be positive")
	}
	if c.Catalog.MinScore < 0 || c.Catalog.MinScore > 100 {
		return fmt.Errorf("catalog.min_score must be between 0 and 100")
	}
	return nil
}

// SyncInterval returns the parsed time between sync cycles.
func (c *Config) SyncInterval() time.Duration {
	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil {
		return 8 * time.Hour
	}
	return d
}

// RequestGap returns the parsed pause between match detail requests.
func (c *Config) RequestGap() time.Duration {
	d, err := time.ParseDuration(c.Sync.RequestGap)
	if err != nil {
		return 1200 * time.Millisecond
	}
	return d
}

// ArchivePath returns the match archive location inside the data dir.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.App.DataDir, "matches.json")
}

// DatabasePath returns the SQLite database location inside the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.App.DataDir, "bot.db")
}

// LogPath returns the log file location inside the data dir.
func (c *Config) LogPath() string {
	return filepath.Join(c.App.DataDir, "bot.log")
}
