package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/stockpile/internal/network"
	"github.com/gravitas-games/stockpile/pkg/inventory"
	"github.com/gravitas-games/stockpile/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Player information (set after authentication)
	player *models.Player

	// Buffered channel for outbound messages
	send chan []byte

	// Is connection authenticated
	authenticated bool

	// Has the player joined the depot
	joined bool
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		ws:            ws,
		server:        server,
		send:          make(chan []byte, 256),
		authenticated: false,
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Start read and write pumps
	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer func() {
		c.Close()
	}()

	for {
		// Read message
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		// Parse message
		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		// Handle message based on type
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Write message
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			// Send ping
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin()

	case network.MsgTypeLeave:
		c.handleLeave()

	case network.MsgTypePlace:
		c.handlePlace(msg.Payload)

	case network.MsgTypePlaceAnywhere:
		c.handlePlaceAnywhere(msg.Payload)

	case network.MsgTypeRemove:
		c.handleRemove(msg.Payload)

	case network.MsgTypeMove:
		c.handleMove(msg.Payload)

	case network.MsgTypeReorganize:
		c.handleReorganize()

	case network.MsgTypeClearGrid:
		c.handleClearGrid()

	case network.MsgTypeQueryGrid:
		c.handleQueryGrid()

	case network.MsgTypePing:
		c.handlePing()

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

// requireJoined verifies the connection is authenticated and has joined the
// depot before a grid operation is accepted.
func (c *Connection) requireJoined() bool {
	if !c.authenticated || c.player == nil {
		c.SendError("not_authenticated", "Connection not authenticated")
		return false
	}
	if !c.joined {
		c.SendError("not_joined", "Join the depot first")
		return false
	}
	return true
}

// handleJoin handles depot join requests
func (c *Connection) handleJoin() {
	if !c.authenticated || c.player == nil {
		c.SendError("not_authenticated", "Connection not authenticated")
		return
	}
	if c.joined {
		c.SendError("already_joined", "Already joined the depot")
		return
	}

	c.player.Connected = true
	c.player.ConnectedAt = time.Now()
	c.player.DepotID = c.server.session.ID

	if err := c.server.session.AddPlayer(c.player, c); err != nil {
		log.Printf("Failed to add player to depot: %v", err)
		c.SendError("join_failed", "Failed to join depot")
		return
	}
	c.joined = true

	// Send welcome with the current grid snapshot
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
			DepotID:  c.server.session.ID,
			Grid:     c.server.session.Snapshot(),
		},
	})

	// Broadcast player joined to all other players
	c.server.session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypePlayerJoined,
		Payload: network.PlayerJoinedPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
		},
	})

	log.Printf("Player %s joined depot %s", c.player.Username, c.server.session.ID)
}

// handleLeave handles depot leave requests
func (c *Connection) handleLeave() {
	if c.player == nil || !c.joined {
		return
	}
	c.server.session.RemovePlayer(c.player.ID)
	c.joined = false

	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type: network.MsgTypePlayerLeft,
		Payload: network.PlayerLeftPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
		},
	})
}

// sendOpError maps an expected negative depot outcome onto a protocol error
func (c *Connection) sendOpError(err error) {
	switch {
	case errors.Is(err, ErrUnknownCatalogID):
		c.SendError("unknown_item", "No such item in the catalog")
	case errors.Is(err, ErrPlacementBlocked):
		c.SendError("placement_blocked", "Item does not fit there")
	case errors.Is(err, ErrItemNotPlaced):
		c.SendError("item_not_placed", "No such item in the grid")
	case errors.Is(err, ErrMoveBlocked):
		c.SendError("move_blocked", "Item cannot move there")
	default:
		c.SendError("operation_failed", "Operation failed")
	}
}

// handlePlace spawns a catalog item and places it at an explicit anchor
func (c *Connection) handlePlace(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}
	var req network.PlacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError("invalid_payload", "Invalid place payload")
		return
	}
	if _, err := c.server.session.SpawnAndPlace(req.CatalogID, &inventory.Position{X: req.X, Y: req.Y}); err != nil {
		c.sendOpError(err)
		return
	}
	// Success is observed via the broadcast item_added event.
}

// handlePlaceAnywhere spawns a catalog item at the first free anchor
func (c *Connection) handlePlaceAnywhere(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}
	var req network.PlaceAnywherePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError("invalid_payload", "Invalid place payload")
		return
	}
	if _, err := c.server.session.SpawnAndPlace(req.CatalogID, nil); err != nil {
		c.sendOpError(err)
		return
	}
}

// handleRemove removes a placed item instance
func (c *Connection) handleRemove(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}
	var req network.RemovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError("invalid_payload", "Invalid remove payload")
		return
	}
	if err := c.server.session.RemoveItem(req.ItemID); err != nil {
		c.sendOpError(err)
	}
}

// handleMove relocates a placed item instance
func (c *Connection) handleMove(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}
	var req network.MovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError("invalid_payload", "Invalid move payload")
		return
	}
	if err := c.server.session.MoveItem(req.ItemID, req.X, req.Y); err != nil {
		c.sendOpError(err)
	}
}

// handleReorganize compacts the depot grid
func (c *Connection) handleReorganize() {
	if !c.requireJoined() {
		return
	}
	dropped := c.server.session.Reorganize()
	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type:    network.MsgTypeReorganized,
		Payload: network.ReorganizedPayload{Dropped: dropped},
	})
}

// handleClearGrid wipes the depot grid; admin only
func (c *Connection) handleClearGrid() {
	if !c.requireJoined() {
		return
	}
	if !c.player.CanAdministerDepot() {
		c.SendError("forbidden", "Clearing the depot requires admin permissions")
		return
	}
	c.server.session.ClearGrid()
}

// handleQueryGrid sends the caller a full grid snapshot
func (c *Connection) handleQueryGrid() {
	if !c.requireJoined() {
		return
	}
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeGridState,
		Payload: c.server.session.Snapshot(),
	})
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection
func (c *Connection) Close() {
	// Remove player from depot if joined
	if c.authenticated && c.player != nil {
		c.handleLeave()
	}

	// Close send channel
	close(c.send)

	// Close WebSocket connection
	c.ws.Close()
}
