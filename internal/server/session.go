package server

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gravitas-games/stockpile/internal/config"
	"github.com/gravitas-games/stockpile/internal/network"
	"github.com/gravitas-games/stockpile/pkg/inventory"
	"github.com/gravitas-games/stockpile/pkg/models"
)

// Expected negative outcomes of depot operations, reported to clients as
// protocol errors.
var (
	ErrUnknownCatalogID = errors.New("server: unknown catalog item")
	ErrPlacementBlocked = errors.New("server: placement blocked")
	ErrItemNotPlaced    = errors.New("server: item not placed")
	ErrMoveBlocked      = errors.New("server: move blocked")
	ErrDepotFull        = errors.New("server: depot at player capacity")
)

// Session represents one shared depot: a grid inventory manipulated by all
// connected players. The inventory itself is single-threaded, so every grid
// operation runs under one session-wide lock (gridMu). Placement events are
// fanned out to connected clients synchronously from the triggering call.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Grid state. gridMu is the single external lock guarding the
	// inventory instance.
	gridMu       sync.Mutex
	inv          *inventory.GridInventory
	registry     *inventory.Registry
	nextInstance uint64

	// Player management
	players     map[string]*models.Player // playerID -> Player
	connections map[string]*Connection    // playerID -> Connection
	mu          sync.RWMutex

	config *config.Config
}

// NewSession creates a new depot session with an empty grid
func NewSession(id string, cfg *config.Config, reg *inventory.Registry) (*Session, error) {
	log.Printf("Creating depot session: %s (%dx%d grid)", id, cfg.Depot.Width, cfg.Depot.Height)

	session := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		registry:    reg,
		players:     make(map[string]*models.Player),
		connections: make(map[string]*Connection),
		config:      cfg,
	}

	bus := inventory.NewSimpleBus()
	bus.Subscribe(inventory.SubscriberID("depot:"+id), session.broadcastEvent)

	inv, err := inventory.New(cfg.Depot.Width, cfg.Depot.Height, inventory.WithBus(bus))
	if err != nil {
		return nil, fmt.Errorf("failed to create depot grid: %w", err)
	}
	session.inv = inv

	return session, nil
}

// broadcastEvent converts an inventory event into a server message for all
// connected clients. It runs synchronously inside the grid operation that
// emitted the event; sends go to buffered per-connection channels and never
// block.
func (s *Session) broadcastEvent(ev inventory.Event) {
	var msg *network.ServerMessage
	switch ev.Type {
	case inventory.EventItemAdded:
		msg = &network.ServerMessage{Type: network.MsgTypeItemAdded, Payload: itemEventPayload(ev)}
	case inventory.EventItemRemoved:
		msg = &network.ServerMessage{Type: network.MsgTypeItemRemoved, Payload: itemEventPayload(ev)}
	case inventory.EventItemMoved:
		msg = &network.ServerMessage{Type: network.MsgTypeItemMoved, Payload: itemEventPayload(ev)}
	case inventory.EventCleared:
		msg = &network.ServerMessage{Type: network.MsgTypeGridCleared, Payload: struct{}{}}
	default:
		return
	}
	s.BroadcastMessage(msg)
}

func itemEventPayload(ev inventory.Event) network.ItemEventPayload {
	size := ev.Item.InventorySize()
	return network.ItemEventPayload{
		ItemID: string(ev.Item.InventoryItemID()),
		Name:   ev.Item.InventoryName(),
		Width:  size.Width,
		Height: size.Height,
		X:      ev.Position.X,
		Y:      ev.Position.Y,
	}
}

// SpawnAndPlace mints a new instance of a catalog item and places it at the
// given anchor, or at the first free anchor when at is nil.
func (s *Session) SpawnAndPlace(catalogID string, at *inventory.Position) (*inventory.BasicItem, error) {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	s.nextInstance++
	item, ok := s.registry.Spawn(inventory.ItemID(catalogID), fmt.Sprintf("%d", s.nextInstance))
	if !ok {
		s.nextInstance--
		return nil, ErrUnknownCatalogID
	}

	placed := false
	if at != nil {
		placed = s.inv.Place(item, at.X, at.Y)
	} else {
		placed = s.inv.PlaceAnywhere(item)
	}
	if !placed {
		s.nextInstance--
		return nil, ErrPlacementBlocked
	}
	return item, nil
}

// RemoveItem removes a placed instance by id
func (s *Session) RemoveItem(itemID string) error {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	item, ok := s.inv.LookupItem(inventory.ItemID(itemID))
	if !ok {
		return ErrItemNotPlaced
	}
	s.inv.Remove(item)
	return nil
}

// MoveItem relocates a placed instance by id
func (s *Session) MoveItem(itemID string, x, y int) error {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	item, ok := s.inv.LookupItem(inventory.ItemID(itemID))
	if !ok {
		return ErrItemNotPlaced
	}
	if !s.inv.MoveItem(item, inventory.Position{X: x, Y: y}) {
		return ErrMoveBlocked
	}
	return nil
}

// Reorganize compacts the depot grid and returns any items that could not
// be re-placed. Dropped items are logged; the caller reports them to
// clients.
func (s *Session) Reorganize() []network.PlacedItemPayload {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	dropped := s.inv.Reorganize()
	if len(dropped) == 0 {
		return nil
	}
	out := make([]network.PlacedItemPayload, 0, len(dropped))
	for _, item := range dropped {
		size := item.InventorySize()
		log.Printf("Depot %s: item %s (%s) dropped during reorganize", s.ID, item.InventoryItemID(), item.InventoryName())
		out = append(out, network.PlacedItemPayload{
			ItemID: string(item.InventoryItemID()),
			Name:   item.InventoryName(),
			Width:  size.Width,
			Height: size.Height,
		})
	}
	return out
}

// ClearGrid wipes the depot grid
func (s *Session) ClearGrid() {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()
	s.inv.Clear()
}

// Snapshot returns the current occupancy of the depot grid
func (s *Session) Snapshot() network.GridStatePayload {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	state := network.GridStatePayload{
		Width:  s.inv.Width(),
		Height: s.inv.Height(),
	}
	s.inv.Range(func(item inventory.Item, anchor inventory.Position) bool {
		size := item.InventorySize()
		state.Items = append(state.Items, network.PlacedItemPayload{
			ItemID: string(item.InventoryItemID()),
			Name:   item.InventoryName(),
			Width:  size.Width,
			Height: size.Height,
			X:      anchor.X,
			Y:      anchor.Y,
		})
		return true
	})
	return state
}

// AddPlayer adds a player to the session
func (s *Session) AddPlayer(player *models.Player, conn *Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= s.config.Depot.MaxPlayers {
		return ErrDepotFull
	}
	s.players[player.ID] = player
	s.connections[player.ID] = conn

	log.Printf("Player %s (%s) joined depot %s", player.Username, player.ID, s.ID)
	return nil
}

// RemovePlayer removes a player from the session
func (s *Session) RemovePlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, exists := s.players[playerID]; exists {
		log.Printf("Player %s (%s) left depot %s", player.Username, playerID, s.ID)
		delete(s.players, playerID)
		delete(s.connections, playerID)
	}
}

// GetPlayer retrieves a player by ID
func (s *Session) GetPlayer(playerID string) (*models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, exists := s.players[playerID]
	return player, exists
}

// PlayerCount returns the number of joined players
func (s *Session) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// BroadcastMessage sends a message to all connected players
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		conn.SendMessage(msg)
	}
}

// BroadcastExcept sends a message to all players except the specified connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn != exclude {
			conn.SendMessage(msg)
		}
	}
}
