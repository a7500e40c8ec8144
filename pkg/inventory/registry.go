package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// RegistryID is a numeric handle suitable for compact transport. IDs start
// at 1 and increment as new items are registered unless explicitly provided
// via ItemDetails.NumericID.
type RegistryID int64

// ItemDetails captures catalog metadata about an item type: its display
// name, grid footprint and descriptive fields. The inventory core never
// consults the registry; it exists for hosts that spawn item instances from
// a shared catalog.
type ItemDetails struct {
	ID          ItemID            `json:"id"`
	NumericID   RegistryID        `json:"numericId,omitempty"`
	Name        string            `json:"name,omitempty"`
	Category    string            `json:"category,omitempty"`
	Description string            `json:"description,omitempty"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Registry stores item details keyed by ItemID and provides numeric handles
// for compact transport. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	items  map[ItemID]ItemDetails
	byID   map[RegistryID]ItemID
	nextID RegistryID
}

// NewRegistry constructs an empty registry and optionally seeds it with
// initial item details.
func NewRegistry(details ...ItemDetails) *Registry {
	r := &Registry{
		items: make(map[ItemID]ItemDetails, len(details)),
		byID:  make(map[RegistryID]ItemID, len(details)),
	}
	for _, d := range details {
		_ = r.RegisterDetails(d) // ignore duplicates during seed
	}
	return r
}

// RegisterItem captures metadata from a DetailedItem implementation.
func (r *Registry) RegisterItem(item DetailedItem) error {
	if item == nil {
		return ErrNilItem
	}
	details := item.InventoryItemDetails()
	if details.ID == "" {
		details.ID = item.InventoryItemID()
	}
	if details.ID != item.InventoryItemID() {
		return errors.New("inventory: item details ID mismatch")
	}
	return r.RegisterDetails(details)
}

// RegisterDetails inserts or updates metadata for an item type. The ID must
// be non-empty and the footprint positive in both dimensions.
func (r *Registry) RegisterDetails(details ItemDetails) error {
	if details.ID == "" {
		return errors.New("inventory: item details missing id")
	}
	if details.Width <= 0 || details.Height <= 0 {
		return ErrInvalidSize
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[details.ID]
	if exists {
		if details.NumericID == 0 {
			details.NumericID = existing.NumericID
		} else if existing.NumericID != 0 && existing.NumericID != details.NumericID {
			return errors.New("inventory: numeric id mismatch for existing item")
		}
	}

	if details.NumericID == 0 {
		r.nextID++
		details.NumericID = r.nextID
	} else {
		if details.NumericID <= 0 {
			return errors.New("inventory: numeric id must be positive")
		}
		if owner, collision := r.byID[details.NumericID]; collision && owner != details.ID {
			return errors.New("inventory: numeric id already assigned to another item")
		}
		if details.NumericID > r.nextID {
			r.nextID = details.NumericID
		}
	}

	r.items[details.ID] = details
	r.byID[details.NumericID] = details.ID
	return nil
}

// Lookup returns details for the provided ID, if present.
func (r *Registry) Lookup(id ItemID) (ItemDetails, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	details, ok := r.items[id]
	return details, ok
}

// GetRegistryID returns the numeric handle for the provided item type.
func (r *Registry) GetRegistryID(id ItemID) (RegistryID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	details, ok := r.items[id]
	if !ok || details.NumericID == 0 {
		return 0, false
	}
	return details.NumericID, true
}

// LookupByRegistryID returns item details using the numeric handle.
func (r *Registry) LookupByRegistryID(id RegistryID) (ItemDetails, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byID[id]
	if !ok {
		return ItemDetails{}, false
	}
	details, exists := r.items[key]
	return details, exists
}

// SizeFor returns the grid footprint registered for an item type.
func (r *Registry) SizeFor(id ItemID) (Size, bool) {
	details, ok := r.Lookup(id)
	if !ok {
		return Size{}, false
	}
	return Size{Width: details.Width, Height: details.Height}, true
}

// Spawn mints a placeable item instance from a catalog entry. The instance
// suffix keeps concurrent placements of the same item type distinct, since
// placements are keyed by ItemID.
func (r *Registry) Spawn(id ItemID, instance string) (*BasicItem, bool) {
	details, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	return &BasicItem{
		ID:     ItemID(fmt.Sprintf("%s#%s", id, instance)),
		Name:   details.Name,
		Width:  details.Width,
		Height: details.Height,
	}, true
}

// Export copies registry contents into a slice sorted by numeric handle,
// suitable for sending to clients.
func (r *Registry) Export() []ItemDetails {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return nil
	}
	out := make([]ItemDetails, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NumericID != 0 && out[j].NumericID != 0 {
			return out[i].NumericID < out[j].NumericID
		}
		return out[i].ID < out[j].ID
	})
	return out
}
