package game

import "strings"

// nonCatalogEntry is a title absent from the Steam catalog, published
// through other launchers. Each gets a synthetic app id in a reserved
// range so it can share the games table with real catalog entries.
type nonCatalogEntry struct {
	AppID int64
	Name  string
}

// Synthetic app ids for non-catalog titles. Steam app ids are far below
// this range.
const (
	leagueOfLegendsAppID int64 = 900000001
	valorantAppID        int64 = 900000002
	overwatchAppID       int64 = 900000003
)

// nonCatalogGames maps normalized user input directly to a synthetic
// catalog entry, bypassing the storefront search entirely.
var nonCatalogGames = map[string]nonCatalogEntry{
	"롤":                 {AppID: leagueOfLegendsAppID, Name: "League of Legends"},
	"리그오브레전드":           {AppID: leagueOfLegendsAppID, Name: "League of Legends"},
	"리그 오브 레전드":         {AppID: leagueOfLegendsAppID, Name: "League of Legends"},
	"league of legends": {AppID: leagueOfLegendsAppID, Name: "League of Legends"},
	"발로란트":              {AppID: valorantAppID, Name: "VALORANT"},
	"발로":                {AppID: valorantAppID, Name: "VALORANT"},
	"valorant":          {AppID: valorantAppID, Name: "VALORANT"},
	"오버워치":              {AppID: overwatchAppID, Name: "Overwatch 2"},
	"옵치":                {AppID: overwatchAppID, Name: "Overwatch 2"},
	"overwatch":         {AppID: overwatchAppID, Name: "Overwatch 2"},
}

// searchAliases maps colloquial (mostly Korean) names to the storefront
// search term that actually finds the game.
var searchAliases = map[string]string{
	"배그":     "PUBG: BATTLEGROUNDS",
	"배틀그라운드": "PUBG: BATTLEGROUNDS",
	"pubg":   "PUBG: BATTLEGROUNDS",
	"피파":     "EA SPORTS FC",
	"fifa":   "EA SPORTS FC",
	"글옵":     "Counter-Strike 2",
	"카스":     "Counter-Strike 2",
	"에펙":     "Apex Legends",
	"롤토체스":   "Teamfight Tactics",
	"도타":     "Dota 2",
	"지티에이":   "Grand Theft Auto V",
}

// normalize lowercases and trims user input before table lookups.
func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
