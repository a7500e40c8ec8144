package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeJoin          = "join"
	MsgTypeLeave         = "leave"
	MsgTypePlace         = "place"
	MsgTypePlaceAnywhere = "place_anywhere"
	MsgTypeRemove        = "remove"
	MsgTypeMove          = "move"
	MsgTypeReorganize    = "reorganize"
	MsgTypeClearGrid     = "clear_grid"
	MsgTypeQueryGrid     = "query_grid"
	MsgTypePing          = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome      = "welcome"
	MsgTypePlayerJoined = "player_joined"
	MsgTypePlayerLeft   = "player_left"
	MsgTypeItemAdded    = "item_added"
	MsgTypeItemRemoved  = "item_removed"
	MsgTypeItemMoved    = "item_moved"
	MsgTypeGridCleared  = "grid_cleared"
	MsgTypeGridState    = "grid_state"
	MsgTypeReorganized  = "reorganized"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// PlacePayload asks the server to spawn a catalog item and place it at an
// explicit anchor.
type PlacePayload struct {
	CatalogID string `json:"catalog_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// PlaceAnywherePayload asks the server to spawn a catalog item and place it
// at the first free anchor.
type PlaceAnywherePayload struct {
	CatalogID string `json:"catalog_id"`
}

// RemovePayload asks the server to remove a placed item instance.
type RemovePayload struct {
	ItemID string `json:"item_id"`
}

// MovePayload asks the server to relocate a placed item instance.
type MovePayload struct {
	ItemID string `json:"item_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to a client after successfully joining the depot
type WelcomePayload struct {
	PlayerID string           `json:"player_id"`
	Username string           `json:"username"`
	DepotID  string           `json:"depot_id"`
	Grid     GridStatePayload `json:"grid"`
}

// PlayerJoinedPayload notifies clients when a player joins
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// PlayerLeftPayload notifies clients when a player leaves
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// ItemEventPayload carries a single placement notification: an item was
// added, removed or moved. Position is the anchor the operation concerned.
type ItemEventPayload struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// PlacedItemPayload describes one placed item in a grid snapshot
type PlacedItemPayload struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// GridStatePayload is a full occupancy snapshot of the depot grid
type GridStatePayload struct {
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Items  []PlacedItemPayload `json:"items"`
}

// ReorganizedPayload reports the outcome of a compaction, including any
// items that could not be re-placed.
type ReorganizedPayload struct {
	Dropped []PlacedItemPayload `json:"dropped,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
