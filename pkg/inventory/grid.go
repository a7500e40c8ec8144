package inventory

import (
	"sort"
	"time"
)

// Option configures inventory construction.
type Option func(*GridInventory)

// WithBus attaches an event bus that receives placement notifications.
// Attach it before any seeding option so seed placements are observed.
func WithBus(bus Bus) Option {
	return func(inv *GridInventory) {
		if bus != nil {
			inv.bus = bus
		}
	}
}

// WithItems seeds the inventory with items auto-placed at construction.
// Seeding is best effort: a duplicate or non-placeable item is skipped.
func WithItems(items ...Item) Option {
	return func(inv *GridInventory) {
		inv.seedItems = append(inv.seedItems, items...)
	}
}

// WithPlacements seeds the inventory with items at explicit anchors.
// Seeding is best effort: a duplicate or non-placeable entry is skipped.
func WithPlacements(placements ...SeedPlacement) Option {
	return func(inv *GridInventory) {
		inv.seedPlacements = append(inv.seedPlacements, placements...)
	}
}

// GridInventory owns a fixed-size occupancy grid and the mapping from placed
// item to its anchor position. The two structures stay mutually consistent
// under every operation: an item has an anchor recorded iff its full
// footprint is stamped into the grid, and footprints never overlap.
//
// A GridInventory is not safe for concurrent use. If shared across
// goroutines, guard the whole instance with a single external lock; grid and
// anchor updates are not individually atomic with respect to each other.
type GridInventory struct {
	width  int
	height int

	// cells holds the occupancy matrix in row-major order; the empty ItemID
	// marks a free cell.
	cells []ItemID

	placements map[ItemID]placement
	nextSeq    uint64

	bus Bus

	seedItems      []Item
	seedPlacements []SeedPlacement
}

// New creates a grid inventory with the given dimensions. It returns
// ErrInvalidDimension if either dimension is not positive. Seeding options
// add their items through the same path as runtime placement.
func New(width, height int, opts ...Option) (*GridInventory, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimension
	}
	inv := &GridInventory{
		width:      width,
		height:     height,
		cells:      make([]ItemID, width*height),
		placements: make(map[ItemID]placement),
		bus:        NewNullBus(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(inv)
		}
	}
	for _, sp := range inv.seedPlacements {
		if sp.Item == nil {
			continue
		}
		inv.Place(sp.Item, sp.At.X, sp.At.Y)
	}
	for _, it := range inv.seedItems {
		if it == nil {
			continue
		}
		inv.PlaceAnywhere(it)
	}
	inv.seedItems, inv.seedPlacements = nil, nil
	return inv, nil
}

// Width returns the fixed grid width.
func (inv *GridInventory) Width() int { return inv.width }

// Height returns the fixed grid height.
func (inv *GridInventory) Height() int { return inv.height }

// Len returns the number of currently placed items.
func (inv *GridInventory) Len() int { return len(inv.placements) }

// sizeOf validates the item size contract. A nil item is tolerated by the
// boolean-form queries and reported as not placeable; a non-positive size is
// a caller bug and panics with ErrInvalidSize.
func sizeOf(item Item) (Size, bool) {
	if item == nil {
		return Size{}, false
	}
	s := item.InventorySize()
	if s.Width <= 0 || s.Height <= 0 {
		panic(ErrInvalidSize)
	}
	return s, true
}

func (inv *GridInventory) index(x, y int) int { return y*inv.width + x }

func (inv *GridInventory) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < inv.width && y < inv.height
}

// fits reports whether a footprint of the given size anchored at (x, y) lies
// fully inside the grid with every covered cell either free or owned by self.
// Pass the empty ItemID for no exemption.
func (inv *GridInventory) fits(size Size, x, y int, self ItemID) bool {
	if x < 0 || y < 0 || x+size.Width > inv.width || y+size.Height > inv.height {
		return false
	}
	for j := 0; j < size.Height; j++ {
		for i := 0; i < size.Width; i++ {
			if id := inv.cells[inv.index(x+i, y+j)]; id != "" && id != self {
				return false
			}
		}
	}
	return true
}

func (inv *GridInventory) stamp(pl placement, size Size) {
	id := pl.item.InventoryItemID()
	for j := 0; j < size.Height; j++ {
		for i := 0; i < size.Width; i++ {
			inv.cells[inv.index(pl.anchor.X+i, pl.anchor.Y+j)] = id
		}
	}
}

func (inv *GridInventory) unstamp(pl placement, size Size) {
	for j := 0; j < size.Height; j++ {
		for i := 0; i < size.Width; i++ {
			inv.cells[inv.index(pl.anchor.X+i, pl.anchor.Y+j)] = ""
		}
	}
}

func (inv *GridInventory) publish(t EventType, item Item, pos Position) {
	inv.bus.Publish(Event{Type: t, Item: item, Position: pos, Timestamp: time.Now()})
}

// CanPlace reports whether the item could be placed with its anchor at
// (x, y): the item is non-nil, not already placed, and its full footprint
// lies in bounds over empty cells. Pure query, no side effects.
func (inv *GridInventory) CanPlace(item Item, x, y int) bool {
	size, ok := sizeOf(item)
	if !ok {
		return false
	}
	if _, placed := inv.placements[item.InventoryItemID()]; placed {
		return false
	}
	return inv.fits(size, x, y, "")
}

// Place puts the item with its anchor at (x, y). It returns false without
// mutation or notification when CanPlace does.
func (inv *GridInventory) Place(item Item, x, y int) bool {
	if !inv.CanPlace(item, x, y) {
		return false
	}
	size := item.InventorySize()
	pl := placement{item: item, anchor: Position{X: x, Y: y}, seq: inv.nextSeq}
	inv.nextSeq++
	inv.stamp(pl, size)
	inv.placements[item.InventoryItemID()] = pl
	inv.publish(EventItemAdded, item, pl.anchor)
	return true
}

// CanPlaceAnywhere reports whether the item is absent and some anchor admits
// its footprint.
func (inv *GridInventory) CanPlaceAnywhere(item Item) bool {
	size, ok := sizeOf(item)
	if !ok {
		return false
	}
	if _, placed := inv.placements[item.InventoryItemID()]; placed {
		return false
	}
	_, found := inv.FindFreePosition(size)
	return found
}

// PlaceAnywhere places the item at the first free anchor in row-major order.
// It returns false if the item is nil, already placed, or nothing fits.
func (inv *GridInventory) PlaceAnywhere(item Item) bool {
	size, ok := sizeOf(item)
	if !ok {
		return false
	}
	if _, placed := inv.placements[item.InventoryItemID()]; placed {
		return false
	}
	pos, found := inv.FindFreePosition(size)
	if !found {
		return false
	}
	return inv.Place(item, pos.X, pos.Y)
}

// FindFreePosition returns the first anchor, scanning rows top to bottom and
// cells left to right, whose full footprint of the given size is empty and
// in bounds. The ordering is a deliberate tie-break: callers rely on new
// items packing toward the top-left, row by row. It panics with
// ErrInvalidSize if the size is non-positive.
func (inv *GridInventory) FindFreePosition(size Size) (Position, bool) {
	if size.Width <= 0 || size.Height <= 0 {
		panic(ErrInvalidSize)
	}
	if size.Width > inv.width || size.Height > inv.height {
		return Position{}, false
	}
	for y := 0; y <= inv.height-size.Height; y++ {
		for x := 0; x <= inv.width-size.Width; x++ {
			if inv.fits(size, x, y, "") {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Contains reports whether the item is currently placed.
func (inv *GridInventory) Contains(item Item) bool {
	if item == nil {
		return false
	}
	_, placed := inv.placements[item.InventoryItemID()]
	return placed
}

// LookupItem returns the placed item registered under the given id.
func (inv *GridInventory) LookupItem(id ItemID) (Item, bool) {
	pl, ok := inv.placements[id]
	if !ok {
		return nil, false
	}
	return pl.item, true
}

// IsFree reports whether the cell at (x, y) is inside the grid and not
// covered by any footprint. An out-of-bounds coordinate is never free.
func (inv *GridInventory) IsFree(x, y int) bool {
	return inv.inBounds(x, y) && inv.cells[inv.index(x, y)] == ""
}

// IsOccupied reports whether the cell at (x, y) is covered by a footprint.
// Out-of-bounds coordinates count as occupied, mirroring IsFree.
func (inv *GridInventory) IsOccupied(x, y int) bool {
	return !inv.IsFree(x, y)
}

// Remove takes the item out of the grid, clearing its footprint. It returns
// false if the item is nil or not placed.
func (inv *GridInventory) Remove(item Item) bool {
	_, ok := inv.Take(item)
	return ok
}

// Take removes the item and additionally reports the anchor it occupied
// before removal.
func (inv *GridInventory) Take(item Item) (Position, bool) {
	if item == nil {
		return Position{}, false
	}
	id := item.InventoryItemID()
	pl, ok := inv.placements[id]
	if !ok {
		return Position{}, false
	}
	inv.unstamp(pl, pl.item.InventorySize())
	delete(inv.placements, id)
	inv.publish(EventItemRemoved, pl.item, pl.anchor)
	return pl.anchor, true
}

// ItemAt returns the item whose footprint covers (x, y). It returns
// ErrOutOfBounds for coordinates outside the grid and ErrEmptyCell when no
// footprint covers the cell.
func (inv *GridInventory) ItemAt(x, y int) (Item, error) {
	if !inv.inBounds(x, y) {
		return nil, ErrOutOfBounds
	}
	id := inv.cells[inv.index(x, y)]
	if id == "" {
		return nil, ErrEmptyCell
	}
	return inv.placements[id].item, nil
}

// LookupItemAt is the non-asserting variant of ItemAt: it reports false both
// for an empty cell and for an out-of-bounds coordinate.
func (inv *GridInventory) LookupItemAt(x, y int) (Item, bool) {
	item, err := inv.ItemAt(x, y)
	if err != nil {
		return nil, false
	}
	return item, true
}

// Anchor returns the top-left cell of the item's footprint. It returns
// ErrNilItem for a nil item and ErrNotFound when the item is not placed.
func (inv *GridInventory) Anchor(item Item) (Position, error) {
	if item == nil {
		return Position{}, ErrNilItem
	}
	pl, ok := inv.placements[item.InventoryItemID()]
	if !ok {
		return Position{}, ErrNotFound
	}
	return pl.anchor, nil
}

// LookupAnchor is the non-asserting variant of Anchor.
func (inv *GridInventory) LookupAnchor(item Item) (Position, bool) {
	pos, err := inv.Anchor(item)
	if err != nil {
		return Position{}, false
	}
	return pos, true
}

// Footprint returns every cell the item currently covers, row-major within
// the item's bounds. It returns ErrNilItem for a nil item and ErrNotFound
// when the item is not placed.
func (inv *GridInventory) Footprint(item Item) ([]Position, error) {
	if item == nil {
		return nil, ErrNilItem
	}
	pl, ok := inv.placements[item.InventoryItemID()]
	if !ok {
		return nil, ErrNotFound
	}
	size := pl.item.InventorySize()
	out := make([]Position, 0, size.Area())
	for j := 0; j < size.Height; j++ {
		for i := 0; i < size.Width; i++ {
			out = append(out, Position{X: pl.anchor.X + i, Y: pl.anchor.Y + j})
		}
	}
	return out, nil
}

// Clear empties the grid and the placement map in one step, emitting a
// single Cleared event. Clearing an already empty inventory is a no-op and
// emits nothing.
func (inv *GridInventory) Clear() {
	if len(inv.placements) == 0 {
		return
	}
	for i := range inv.cells {
		inv.cells[i] = ""
	}
	inv.placements = make(map[ItemID]placement)
	inv.publish(EventCleared, nil, Position{})
}

// CountByName returns the number of placed items whose name is an exact
// match for the given string.
func (inv *GridInventory) CountByName(name string) int {
	n := 0
	for _, pl := range inv.placements {
		if pl.item.InventoryName() == name {
			n++
		}
	}
	return n
}

// MoveItem relocates a placed item so its anchor is at the new position. The
// item's own old footprint does not block the move. It returns false without
// mutation if the item is absent or the new footprint overlaps another item
// or leaves the grid.
func (inv *GridInventory) MoveItem(item Item, to Position) bool {
	size, ok := sizeOf(item)
	if !ok {
		return false
	}
	id := item.InventoryItemID()
	pl, placed := inv.placements[id]
	if !placed {
		return false
	}
	if !inv.fits(size, to.X, to.Y, id) {
		return false
	}
	inv.unstamp(pl, size)
	pl.anchor = to
	inv.stamp(pl, size)
	inv.placements[id] = pl
	inv.publish(EventItemMoved, pl.item, to)
	return true
}

// Reorganize repacks all items to reduce fragmentation: items are re-placed
// largest first (descending footprint area, then descending longer side,
// insertion order preserved among equals), each at the first free anchor.
// Items that no longer fit after earlier placements are returned rather than
// silently lost; the caller decides how to recover them.
func (inv *GridInventory) Reorganize() []Item {
	if len(inv.placements) == 0 {
		return nil
	}
	ordered := make([]placement, 0, len(inv.placements))
	for _, pl := range inv.placements {
		ordered = append(ordered, pl)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].item.InventorySize(), ordered[j].item.InventorySize()
		if a.Area() != b.Area() {
			return a.Area() > b.Area()
		}
		return a.LongSide() > b.LongSide()
	})

	inv.Clear()
	var dropped []Item
	for _, pl := range ordered {
		if !inv.PlaceAnywhere(pl.item) {
			dropped = append(dropped, pl.item)
		}
	}
	return dropped
}

// CopyGridTo fills a caller-supplied matrix with the current occupancy
// snapshot: dst[y][x] receives the item covering (x, y), or nil for a free
// cell. The matrix must have exactly Height rows of Width cells each; a
// mismatch returns ErrDimensionMismatch before any write.
func (inv *GridInventory) CopyGridTo(dst [][]Item) error {
	if len(dst) != inv.height {
		return ErrDimensionMismatch
	}
	for _, row := range dst {
		if len(row) != inv.width {
			return ErrDimensionMismatch
		}
	}
	for y := 0; y < inv.height; y++ {
		for x := 0; x < inv.width; x++ {
			if id := inv.cells[inv.index(x, y)]; id != "" {
				dst[y][x] = inv.placements[id].item
			} else {
				dst[y][x] = nil
			}
		}
	}
	return nil
}

// Range calls fn for every placed item with its anchor until fn returns
// false. Iteration order is unspecified and not stable across removals.
func (inv *GridInventory) Range(fn func(item Item, anchor Position) bool) {
	for _, pl := range inv.placements {
		if !fn(pl.item, pl.anchor) {
			return
		}
	}
}
