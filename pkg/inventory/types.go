package inventory

// Package inventory provides a bounded two-dimensional grid allocator for
// variable-sized rectangular items. It tracks item placement, guarantees
// footprints never overlap, and supports free-space search, relocation and
// space compaction. Item definitions live in the host application; the
// inventory only requires a stable identifier, a positive 2D size and a name.

// ItemID represents an application-defined identifier for an item instance.
// Placements are keyed by this value, so two items sharing an ID cannot be
// placed at the same time.
type ItemID string

// Size describes the rectangular footprint of an item in grid cells.
// Both dimensions must be positive for a placeable item.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the number of cells the size covers.
func (s Size) Area() int { return s.Width * s.Height }

// LongSide returns the larger of the two dimensions.
func (s Size) LongSide() int {
	if s.Width > s.Height {
		return s.Width
	}
	return s.Height
}

// Position represents a grid coordinate (x, y) with origin at top-left.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item represents a runtime object that can be placed in a grid inventory.
// Implementations live in the host application; the inventory never mutates
// the item and treats its size as immutable while placed.
type Item interface {
	InventoryItemID() ItemID
	InventorySize() Size
	InventoryName() string
}

// DetailedItem extends Item with catalog metadata. Applications can
// optionally implement this to allow automatic registry population.
type DetailedItem interface {
	Item
	InventoryItemDetails() ItemDetails
}

// BasicItem is a plain value implementation of Item, convenient for hosts
// that have no richer item model of their own.
type BasicItem struct {
	ID     ItemID `json:"id"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// InventoryItemID implements Item.
func (b *BasicItem) InventoryItemID() ItemID { return b.ID }

// InventorySize implements Item.
func (b *BasicItem) InventorySize() Size { return Size{Width: b.Width, Height: b.Height} }

// InventoryName implements Item.
func (b *BasicItem) InventoryName() string { return b.Name }

// SeedPlacement pairs an item with an explicit anchor for construction-time
// seeding via WithPlacements.
type SeedPlacement struct {
	Item Item
	At   Position
}

// placement records a placed item together with its anchor (top-left) cell.
// seq preserves insertion order for the compaction tie-break.
type placement struct {
	item   Item
	anchor Position
	seq    uint64
}
