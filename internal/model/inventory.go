package model

import "time"

// Inventory is the per-identity container that owns inventory items.
type Inventory struct {
	ID         string    `json:"inventory_id"`
	IdentityID string    `json:"-"`
	SteamID    string    `json:"steam_id"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InventoryItem is one item template (class id) held in a container.
type InventoryItem struct {
	ID          string    `json:"-"`
	InventoryID string    `json:"-"`
	AppID       string    `json:"app_id"`
	ClassID     string    `json:"classid"`
	IconURL     string    `json:"icon"`
	Name        string    `json:"name"`
	NameColor   string    `json:"color"`
	ItemType    string    `json:"item_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
