package riot

// Account is the account-v1 response for a Riot ID lookup.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is the summoner-v4 response for a PUUID lookup.
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	SummonerLevel int    `json:"summonerLevel"`
}

// LeagueEntry is one ranked queue entry from league-v4.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// LadderEntry is one player in a challenger/grandmaster league listing.
type LadderEntry struct {
	SummonerID   string `json:"summonerId"`
	LeaguePoints int    `json:"leaguePoints"`
}

// League is a challenger/grandmaster league listing from league-v4.
type League struct {
	Entries []LadderEntry `json:"entries"`
}

// Match is the match-v5 detail response, reduced to the fields the bot reads.
type Match struct {
	Info MatchInfo `json:"info"`
}

// MatchInfo carries per-game metadata and the participant list.
type MatchInfo struct {
	GameCreation     int64         `json:"gameCreation"`
	GameEndTimestamp int64         `json:"gameEndTimestamp"`
	Participants     []Participant `json:"participants"`
}

// Participant is one player's record within a match.
type Participant struct {
	PUUID          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	ChampionName   string `json:"championName"`
	Win            bool   `json:"win"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	Perks          Perks  `json:"perks"`
}

// Perks holds the rune page a participant locked in for a match.
type Perks struct {
	Styles []PerkStyle `json:"styles"`
}

// PerkStyle is one rune tree (primary or secondary) with its selections.
type PerkStyle struct {
	Selections []PerkSelection `json:"selections"`
}

// PerkSelection is a single selected rune.
type PerkSelection struct {
	Perk int `json:"perk"`
}

// Participant returns the participant with the given PUUID, or nil if the
// player is not in the match.
func (m *Match) Participant(puuid string) *Participant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}

// Keystone returns the participant's keystone rune ID (the first selection of
// the primary tree) and whether one was present.
func (p *Participant) Keystone() (int, bool) {
	if len(p.Perks.Styles) == 0 || len(p.Perks.Styles[0].Selections) == 0 {
		return 0, false
	}
	return p.Perks.Styles[0].Selections[0].Perk, true
}

// ActiveGame is the spectator-v5 response for a live game.
type ActiveGame struct {
	Participants []ActiveParticipant `json:"participants"`
}

// ActiveParticipant is one player in a live game.
type ActiveParticipant struct {
	PUUID string      `json:"puuid"`
	Perks ActivePerks `json:"perks"`
}

// ActivePerks lists the rune IDs a live participant is running.
type ActivePerks struct {
	PerkIDs []int `json:"perkIds"`
}

// ChampionList is a Data Dragon champion.json payload.
type ChampionList struct {
	Data map[string]ChampionData `json:"data"`
}

// ChampionData is one champion entry from Data Dragon.
type ChampionData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// RuneTree is one rune path from runesReforged.json.
type RuneTree struct {
	Slots []RuneSlot `json:"slots"`
}

// RuneSlot is one row of runes within a tree.
type RuneSlot struct {
	Runes []RuneInfo `json:"runes"`
}

// RuneInfo is a single rune's identity and display name.
type RuneInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
