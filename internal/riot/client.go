// Package riot wraps the Riot Games and Data Dragon HTTP APIs behind typed
// request methods. The client carries no business logic: not-found responses
// surface as nil results, everything else as wrapped errors for callers to
// log and skip.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultClusterBaseURL = "https://europe.api.riotgames.com"
	defaultRegionBaseURL  = "https://euw1.api.riotgames.com"
	defaultDDragonBaseURL = "https://ddragon.leagueoflegends.com"

	requestTimeout = 10 * time.Second
)

// Config configures a Client. Base URLs default to the EUW/europe routing
// values and are overridable for tests.
type Config struct {
	APIKey string

	// ClusterBaseURL serves account-v1 and match-v5 (regional routing).
	ClusterBaseURL string
	// RegionBaseURL serves summoner-v4, league-v4 and spectator-v5
	// (platform routing).
	RegionBaseURL string
	// DDragonBaseURL serves static game data; no API key required.
	DDragonBaseURL string

	Timeout time.Duration
}

// Client performs HTTP requests against the Riot APIs.
type Client struct {
	apiKey     string
	clusterURL string
	regionURL  string
	ddragonURL string
	httpClient *http.Client
}

// NewClient creates a Riot API client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.ClusterBaseURL == "" {
		cfg.ClusterBaseURL = defaultClusterBaseURL
	}
	if cfg.RegionBaseURL == "" {
		cfg.RegionBaseURL = defaultRegionBaseURL
	}
	if cfg.DDragonBaseURL == "" {
		cfg.DDragonBaseURL = defaultDDragonBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = requestTimeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		clusterURL: cfg.ClusterBaseURL,
		regionURL:  cfg.RegionBaseURL,
		ddragonURL: cfg.DDragonBaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// AccountByRiotID resolves a game name + tag line to an account. Returns
// (nil, nil) when the Riot ID does not exist.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.clusterURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	found, err := c.doRequest(ctx, u, &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// SummonerByPUUID resolves a PUUID to a platform summoner record.
func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.regionURL, puuid)

	var summoner Summoner
	found, err := c.doRequest(ctx, u, &summoner)
	if err != nil || !found {
		return nil, err
	}
	return &summoner, nil
}

// LeagueEntries returns the ranked queue entries for a summoner. An unranked
// summoner yields an empty slice.
func (c *Client) LeagueEntries(ctx context.Context, summonerID string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-summoner/%s", c.regionURL, summonerID)

	var entries []LeagueEntry
	if _, err := c.doRequest(ctx, u, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ChallengerLeague returns the challenger ladder for ranked solo queue.
func (c *Client) ChallengerLeague(ctx context.Context) (*League, error) {
	u := fmt.Sprintf("%s/lol/league/v4/challengerleagues/by-queue/RANKED_SOLO_5x5", c.regionURL)

	var league League
	found, err := c.doRequest(ctx, u, &league)
	if err != nil || !found {
		return nil, err
	}
	return &league, nil
}

// GrandmasterLeague returns the grandmaster ladder for ranked solo queue.
func (c *Client) GrandmasterLeague(ctx context.Context) (*League, error) {
	u := fmt.Sprintf("%s/lol/league/v4/grandmasterleagues/by-queue/RANKED_SOLO_5x5", c.regionURL)

	var league League
	found, err := c.doRequest(ctx, u, &league)
	if err != nil || !found {
		return nil, err
	}
	return &league, nil
}

// MatchIDs returns the most recent match IDs for a player, newest first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.clusterURL, puuid, count)

	var ids []string
	if _, err := c.doRequest(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MatchIDsSince returns match IDs for a player starting at the given epoch
// second, oldest window boundary first per the API contract.
func (c *Client) MatchIDsSince(ctx context.Context, puuid string, startEpoch int64) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?startTime=%d",
		c.clusterURL, puuid, startEpoch)

	var ids []string
	if _, err := c.doRequest(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match fetches full match detail. Returns (nil, nil) when the match is
// unknown to the API.
func (c *Client) Match(ctx context.Context, matchID string) (*Match, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.clusterURL, matchID)

	var match Match
	found, err := c.doRequest(ctx, u, &match)
	if err != nil || !found {
		return nil, err
	}
	return &match, nil
}

// ActiveGame fetches the live game a player is currently in. Returns
// (nil, nil) when the player is not in game, which spectator-v5 reports as
// not-found.
func (c *Client) ActiveGame(ctx context.Context, puuid string) (*ActiveGame, error) {
	u := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s", c.regionURL, puuid)

	var game ActiveGame
	found, err := c.doRequest(ctx, u, &game)
	if err != nil || !found {
		return nil, err
	}
	return &game, nil
}

// Versions returns the Data Dragon version list, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/api/versions.json", c.ddragonURL)

	var versions []string
	if _, err := c.doRequest(ctx, u, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Champions returns the champion dataset for a game version and locale.
func (c *Client) Champions(ctx context.Context, version, locale string) (*ChampionList, error) {
	u := fmt.Sprintf("%s/cdn/%s/data/%s/champion.json", c.ddragonURL, version, locale)

	var list ChampionList
	found, err := c.doRequest(ctx, u, &list)
	if err != nil || !found {
		return nil, err
	}
	return &list, nil
}

// RunesReforged returns the rune trees for a game version and locale.
func (c *Client) RunesReforged(ctx context.Context, version, locale string) ([]RuneTree, error) {
	u := fmt.Sprintf("%s/cdn/%s/data/%s/runesReforged.json", c.ddragonURL, version, locale)

	var trees []RuneTree
	if _, err := c.doRequest(ctx, u, &trees); err != nil {
		return nil, err
	}
	return trees, nil
}

// doRequest performs a GET and unmarshals the body into result. It reports
// found=false without an error on HTTP 404: the API uses not-found for "no
// data" (unknown Riot ID, player not in game), which is not a failure.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) (found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Riot-Token", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("riot API returned status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return false, fmt.Errorf("unmarshal response: %w", err)
	}
	return true, nil
}
