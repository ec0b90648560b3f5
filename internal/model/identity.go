package model

import "time"

// Identity is the local mirror of one Steam account.
type Identity struct {
	ID             string    `json:"id"`
	SteamID        string    `json:"steam_id"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatar"`
	ProfileURL     string    `json:"pf_url"`
	Visibility     int       `json:"visibility"`
	PersonaState   int       `json:"persona_state"`
	Country        *string   `json:"country"`
	GameID         *string   `json:"gameid"`
	CurrentGame    *string   `json:"current_game"`
	SteamCreatedAt time.Time `json:"steamCreatedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IdentitySummary is the row shape returned by paginated listings.
type IdentitySummary struct {
	SteamID     string  `json:"steam_id"`
	Username    string  `json:"username"`
	AvatarURL   string  `json:"avatar"`
	ProfileURL  string  `json:"pf_url"`
	CurrentGame *string `json:"current_game"`
}

// IdentityPatch is a user-supplied partial update. Nil fields keep the stored value.
type IdentityPatch struct {
	Username     *string `json:"username"`
	AvatarURL    *string `json:"avatar"`
	ProfileURL   *string `json:"pf_url"`
	PersonaState *int    `json:"persona_state"`
	Visibility   *int    `json:"visibility"`
	CurrentGame  *string `json:"current_game"`
	Country      *string `json:"country"`
	GameID       *string `json:"gameid"`
}

// IsEmpty reports whether the patch carries no fields.
func (p IdentityPatch) IsEmpty() bool {
	return p.Username == nil && p.AvatarURL == nil && p.ProfileURL == nil &&
		p.PersonaState == nil && p.Visibility == nil && p.CurrentGame == nil &&
		p.Country == nil && p.GameID == nil
}

// IdentityFilter narrows a paginated identity listing.
type IdentityFilter struct {
	Username string
	Limit    int
	Offset   int
}
