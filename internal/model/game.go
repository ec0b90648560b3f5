package model

import "time"

// Game is a Steam application mirrored locally, created lazily on first reference.
type Game struct {
	ID               string    `json:"-"`
	AppID            string    `json:"appid"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	HeaderImage      string    `json:"header_image"`
	Screenshots      []string  `json:"screenshots"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Binding records that an identity owns or plays a game.
type Binding struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"user_id"`
	GameID     string    `json:"game_id"`
	CreatedAt  time.Time `json:"createdAt"`
}
