package models

import "time"

// PermDepotAdmin is the permission bit required for destructive depot
// operations such as clearing the grid.
const PermDepotAdmin int64 = 1 << 2

// Player represents an authenticated user of the depot
type Player struct {
	// From JWT claims
	ID          string `json:"id"`          // Converted from int64 user_id
	Username    string `json:"username"`    // JWT claim
	Email       string `json:"email"`       // JWT claim
	Permissions int64  `json:"permissions"` // JWT claim: bitwise permission flags
	Activated   int64  `json:"activated"`   // JWT claim: activation timestamp or ban status
	AuthMethod  string `json:"auth_method"` // JWT claim: "password" or "oauth"

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`

	// Depot the player has joined
	DepotID string `json:"depot_id,omitempty"`
}

// IsActive checks if the player account is activated and not banned
func (p *Player) IsActive() bool {
	// activated > 0 means activated
	// activated == 0 means not activated
	// activated == -1 means banned
	return p.Activated > 0
}

// IsBanned checks if the player is banned
func (p *Player) IsBanned() bool {
	return p.Activated == -1
}

// CanAdministerDepot checks whether the player may run destructive depot
// operations.
func (p *Player) CanAdministerDepot() bool {
	return p.Permissions&PermDepotAdmin != 0
}
