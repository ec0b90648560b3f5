package steam

import (
	"encoding/json"
	"time"
)

// ProfileSnapshot is a normalized player summary.
type ProfileSnapshot struct {
	SteamID      string
	Username     string
	ProfileURL   string
	AvatarURL    string
	PersonaState int
	Visibility   int
	CreatedAt    time.Time
	Country      *string
	GameID       *string
	GameName     *string
}

// GameSnapshot is the subset of store app details that is mirrored locally.
type GameSnapshot struct {
	AppID            string   `json:"appid"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	HeaderImage      string   `json:"header_image"`
	Screenshots      []string `json:"screenshots"`
}

// DescriptionFragment is one typed entry of an item's nested description list.
type DescriptionFragment struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// InventoryItem is one item template (class) from the community inventory.
type InventoryItem struct {
	AppID     string
	ClassID   string
	IconURL   string
	Name      string
	NameColor string
	Type      string
	Fragments []DescriptionFragment
}

// RejectedItem records a description that could not be decoded.
type RejectedItem struct {
	Index int
	Err   error
}

// InventorySnapshot is one page of a community inventory.
type InventorySnapshot struct {
	SteamID    string
	AppID      string
	ContextID  int
	TotalCount int64
	Items      []InventoryItem
	Rejected   []RejectedItem
}

// ContextID returns the inventory context for an app. Steam community items
// (app 753) live in context 6, every other app uses context 2.
func ContextID(appID string) int {
	if appID == "753" {
		return 6
	}
	return 2
}

// Wire formats.

type playerSummariesResponse struct {
	Response struct {
		Players []rawPlayer `json:"players"`
	} `json:"response"`
}

type rawPlayer struct {
	SteamID        FlexID   `json:"steamid"`
	PersonaName    string   `json:"personaname"`
	ProfileURL     string   `json:"profileurl"`
	Avatar         string   `json:"avatar"`
	AvatarFull     string   `json:"avatarfull"`
	PersonaState   FlexInt  `json:"personastate"`
	Visibility     FlexInt  `json:"communityvisibilitystate"`
	TimeCreated    *FlexInt `json:"timecreated"`
	LocCountryCode *string  `json:"loccountrycode"`
	GameExtraInfo  *string  `json:"gameextrainfo"`
	GameID         *FlexID  `json:"gameid"`
}

type appDetailsEntry struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type rawAppData struct {
	Name             string  `json:"name"`
	SteamAppID       FlexInt `json:"steam_appid"`
	ShortDescription string  `json:"short_description"`
	HeaderImage      string  `json:"header_image"`
	Screenshots      []struct {
		PathFull string `json:"path_full"`
	} `json:"screenshots"`
}

type inventoryResponse struct {
	Success             FlexInt           `json:"success"`
	TotalInventoryCount FlexInt           `json:"total_inventory_count"`
	Descriptions        []json.RawMessage `json:"descriptions"`
}

type rawDescription struct {
	AppID        FlexInt               `json:"appid"`
	ClassID      FlexID                `json:"classid"`
	IconURL      string                `json:"icon_url"`
	Name         string                `json:"name"`
	NameColor    string                `json:"name_color"`
	Type         string                `json:"type"`
	Descriptions []DescriptionFragment `json:"descriptions"`
}
