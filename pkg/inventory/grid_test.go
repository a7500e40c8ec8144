package inventory

import (
	"errors"
	"testing"
)

func testItem(id, name string, w, h int) *BasicItem {
	return &BasicItem{ID: ItemID(id), Name: name, Width: w, Height: h}
}

func snapshot(t *testing.T, inv *GridInventory) [][]Item {
	t.Helper()
	dst := make([][]Item, inv.Height())
	for y := range dst {
		dst[y] = make([]Item, inv.Width())
	}
	if err := inv.CopyGridTo(dst); err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	return dst
}

func TestNewRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {3, -2}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("New(%d, %d): expected ErrInvalidDimension, got %v", dims[0], dims[1], err)
		}
	}
}

func TestPlaceStampsFullFootprint(t *testing.T) {
	inv, err := New(5, 4)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	item := testItem("crate", "Crate", 3, 2)
	if !inv.Place(item, 1, 1) {
		t.Fatalf("expected placement to succeed")
	}
	cells, err := inv.Footprint(item)
	if err != nil {
		t.Fatalf("unexpected footprint error: %v", err)
	}
	want := []Position{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {2, 2}, {3, 2}}
	if len(cells) != len(want) {
		t.Fatalf("expected %d footprint cells, got %d", len(want), len(cells))
	}
	for i, p := range want {
		if cells[i] != p {
			t.Fatalf("footprint cell %d: expected %v, got %v", i, p, cells[i])
		}
	}
	for _, p := range want {
		got, ok := inv.LookupItemAt(p.X, p.Y)
		if !ok || got != Item(item) {
			t.Fatalf("cell %v should resolve to the placed item", p)
		}
	}
	if inv.IsFree(1, 1) || !inv.IsOccupied(3, 2) {
		t.Fatalf("footprint cells should be occupied")
	}
	if !inv.IsFree(0, 0) || !inv.IsFree(4, 3) {
		t.Fatalf("cells outside the footprint should stay free")
	}
}

func TestNoOverlapBetweenPlacedItems(t *testing.T) {
	inv, _ := New(6, 4)
	items := []*BasicItem{
		testItem("a", "A", 3, 2),
		testItem("b", "B", 2, 2),
		testItem("c", "C", 1, 4),
		testItem("d", "D", 2, 1),
	}
	for _, it := range items {
		if !inv.PlaceAnywhere(it) {
			t.Fatalf("expected auto-place of %s to succeed", it.ID)
		}
	}
	seen := make(map[Position]ItemID)
	for _, it := range items {
		cells, err := inv.Footprint(it)
		if err != nil {
			t.Fatalf("footprint of %s: %v", it.ID, err)
		}
		if len(cells) != it.Width*it.Height {
			t.Fatalf("partial stamp for %s: %d cells", it.ID, len(cells))
		}
		for _, p := range cells {
			if owner, taken := seen[p]; taken {
				t.Fatalf("cell %v claimed by both %s and %s", p, owner, it.ID)
			}
			seen[p] = it.ID
		}
	}
}

func TestPlaceDuplicateAndBlockedFails(t *testing.T) {
	inv, _ := New(4, 4)
	item := testItem("box", "Box", 2, 2)
	if !inv.Place(item, 0, 0) {
		t.Fatalf("expected first placement to succeed")
	}
	if inv.Place(item, 2, 2) {
		t.Fatalf("placing an already placed item must fail")
	}
	other := testItem("other", "Other", 2, 2)
	if inv.CanPlace(other, 1, 1) {
		t.Fatalf("overlapping placement must be rejected")
	}
	if inv.CanPlace(other, 3, 0) {
		t.Fatalf("out-of-bounds footprint must be rejected")
	}
	if !inv.Place(other, 2, 2) {
		t.Fatalf("expected non-overlapping placement to succeed")
	}
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	inv, _ := New(5, 5, WithItems(testItem("fixed", "Fixed", 2, 3)))
	before := snapshot(t, inv)

	item := testItem("transient", "Transient", 2, 2)
	if !inv.Place(item, 3, 0) {
		t.Fatalf("expected placement to succeed")
	}
	if !inv.Remove(item) {
		t.Fatalf("expected removal to succeed")
	}

	after := snapshot(t, inv)
	for y := range before {
		for x := range before[y] {
			if before[y][x] != after[y][x] {
				t.Fatalf("cell (%d,%d) changed after place/remove round-trip", x, y)
			}
		}
	}
	if inv.Contains(item) {
		t.Fatalf("removed item must not be contained")
	}
}

func TestTakeReportsLastPosition(t *testing.T) {
	inv, _ := New(4, 4)
	item := testItem("gem", "Gem", 1, 1)
	inv.Place(item, 2, 3)
	pos, ok := inv.Take(item)
	if !ok {
		t.Fatalf("expected take to succeed")
	}
	if pos != (Position{X: 2, Y: 3}) {
		t.Fatalf("expected last position (2,3), got %v", pos)
	}
	if _, ok := inv.Take(item); ok {
		t.Fatalf("taking an absent item must fail")
	}
	if inv.Remove(nil) {
		t.Fatalf("removing nil must report false")
	}
}

func TestFindFreePositionIsDeterministic(t *testing.T) {
	inv, _ := New(5, 5)
	pos, found := inv.FindFreePosition(Size{Width: 2, Height: 2})
	if !found || pos != (Position{X: 0, Y: 0}) {
		t.Fatalf("empty 5x5: expected (0,0), got %v found=%v", pos, found)
	}
	bar := testItem("bar", "Bar", 5, 1)
	if !inv.Place(bar, 0, 0) {
		t.Fatalf("expected 5x1 placement at (0,0) to succeed")
	}
	pos, found = inv.FindFreePosition(Size{Width: 2, Height: 2})
	if !found || pos != (Position{X: 0, Y: 1}) {
		t.Fatalf("after 5x1 at (0,0): expected (0,1), got %v found=%v", pos, found)
	}
	if _, found := inv.FindFreePosition(Size{Width: 6, Height: 1}); found {
		t.Fatalf("size exceeding grid bounds must report not found")
	}
}

func TestMoveRejectionPreservesState(t *testing.T) {
	inv, _ := New(4, 2)
	first := testItem("first", "First", 2, 2)
	second := testItem("second", "Second", 2, 2)
	if !inv.Place(first, 0, 0) || !inv.Place(second, 2, 0) {
		t.Fatalf("expected both placements to succeed")
	}
	before := snapshot(t, inv)

	if inv.MoveItem(first, Position{X: 1, Y: 0}) {
		t.Fatalf("move overlapping another item must fail")
	}

	after := snapshot(t, inv)
	for y := range before {
		for x := range before[y] {
			if before[y][x] != after[y][x] {
				t.Fatalf("cell (%d,%d) changed after rejected move", x, y)
			}
		}
	}
	if pos, _ := inv.Anchor(first); pos != (Position{X: 0, Y: 0}) {
		t.Fatalf("first item anchor changed after rejected move: %v", pos)
	}
	if pos, _ := inv.Anchor(second); pos != (Position{X: 2, Y: 0}) {
		t.Fatalf("second item anchor changed after rejected move: %v", pos)
	}
}

func TestMoveOwnFootprintDoesNotBlock(t *testing.T) {
	inv, _ := New(4, 4)
	item := testItem("slab", "Slab", 2, 2)
	inv.Place(item, 0, 0)
	if !inv.MoveItem(item, Position{X: 1, Y: 1}) {
		t.Fatalf("move overlapping only the item's own footprint must succeed")
	}
	if pos, _ := inv.Anchor(item); pos != (Position{X: 1, Y: 1}) {
		t.Fatalf("expected anchor (1,1), got %v", pos)
	}
	if !inv.IsFree(0, 0) {
		t.Fatalf("vacated cell (0,0) must be free after move")
	}
	if inv.MoveItem(testItem("ghost", "Ghost", 1, 1), Position{X: 0, Y: 0}) {
		t.Fatalf("moving an absent item must fail")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	bus := NewSimpleBus()
	cleared := 0
	bus.Subscribe("probe", func(ev Event) {
		if ev.Type == EventCleared {
			cleared++
		}
	})
	inv, _ := New(3, 3, WithBus(bus))
	inv.Place(testItem("a", "A", 1, 1), 0, 0)
	inv.Place(testItem("b", "B", 2, 2), 1, 1)

	inv.Clear()
	inv.Clear()

	if inv.Len() != 0 {
		t.Fatalf("expected empty inventory after clear, got %d items", inv.Len())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if !inv.IsFree(x, y) {
				t.Fatalf("cell (%d,%d) still occupied after clear", x, y)
			}
		}
	}
	if cleared != 1 {
		t.Fatalf("expected exactly one cleared event, got %d", cleared)
	}
}

func TestReorganizeOrdering(t *testing.T) {
	inv, _ := New(5, 5)
	a := testItem("a", "A", 2, 2) // area 4
	b := testItem("b", "B", 1, 1) // area 1
	c := testItem("c", "C", 2, 2) // area 4, ties with a on both keys
	inv.Place(a, 3, 3)
	inv.Place(b, 0, 0)
	inv.Place(c, 0, 2)

	dropped := inv.Reorganize()
	if len(dropped) != 0 {
		t.Fatalf("expected no dropped items, got %d", len(dropped))
	}
	// Both area-4 items pack before the area-1 item; the a/c tie keeps
	// insertion order.
	if pos, _ := inv.Anchor(a); pos != (Position{X: 0, Y: 0}) {
		t.Fatalf("expected a at (0,0), got %v", pos)
	}
	if pos, _ := inv.Anchor(c); pos != (Position{X: 2, Y: 0}) {
		t.Fatalf("expected c at (2,0), got %v", pos)
	}
	if pos, _ := inv.Anchor(b); pos != (Position{X: 4, Y: 0}) {
		t.Fatalf("expected b at (4,0), got %v", pos)
	}
}

func TestReorganizeReportsDropped(t *testing.T) {
	// Feasible hand packing that first-fit-decreasing cannot reproduce:
	// rows of width 10 hold {5,3,2} and {4,4,2}, but decreasing order
	// strands the final 2-wide item.
	inv, _ := New(10, 2)
	w5 := testItem("w5", "W5", 5, 1)
	w3 := testItem("w3", "W3", 3, 1)
	w2a := testItem("w2a", "W2", 2, 1)
	w4a := testItem("w4a", "W4", 4, 1)
	w4b := testItem("w4b", "W4", 4, 1)
	w2b := testItem("w2b", "W2", 2, 1)
	inv.Place(w5, 0, 0)
	inv.Place(w3, 5, 0)
	inv.Place(w2a, 8, 0)
	inv.Place(w4a, 0, 1)
	inv.Place(w4b, 4, 1)
	inv.Place(w2b, 8, 1)

	dropped := inv.Reorganize()
	if len(dropped) != 1 {
		t.Fatalf("expected exactly one dropped item, got %d", len(dropped))
	}
	if dropped[0].InventoryItemID() != ItemID("w2b") {
		t.Fatalf("expected w2b to be dropped, got %s", dropped[0].InventoryItemID())
	}
	if inv.Len() != 5 {
		t.Fatalf("expected 5 items placed after reorganize, got %d", inv.Len())
	}
	if inv.Contains(w2b) {
		t.Fatalf("dropped item must not remain placed")
	}
}

func TestLookupVariants(t *testing.T) {
	inv, _ := New(4, 4)
	item := testItem("relic", "Relic", 2, 1)
	inv.Place(item, 1, 2)

	if _, err := inv.ItemAt(-1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := inv.ItemAt(0, 0); !errors.Is(err, ErrEmptyCell) {
		t.Fatalf("expected ErrEmptyCell, got %v", err)
	}
	if got, err := inv.ItemAt(2, 2); err != nil || got != Item(item) {
		t.Fatalf("expected item via covered cell, got %v err=%v", got, err)
	}
	if _, ok := inv.LookupItemAt(9, 9); ok {
		t.Fatalf("try variant must report false out of bounds")
	}

	if _, err := inv.Anchor(nil); !errors.Is(err, ErrNilItem) {
		t.Fatalf("expected ErrNilItem, got %v", err)
	}
	if _, err := inv.Anchor(testItem("ghost", "Ghost", 1, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if pos, ok := inv.LookupAnchor(item); !ok || pos != (Position{X: 1, Y: 2}) {
		t.Fatalf("expected anchor (1,2), got %v ok=%v", pos, ok)
	}
	if _, err := inv.Footprint(testItem("ghost", "Ghost", 1, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Footprint, got %v", err)
	}
	if got, ok := inv.LookupItem(ItemID("relic")); !ok || got != Item(item) {
		t.Fatalf("expected id lookup to find the placed item")
	}
}

func TestOutOfBoundsIsNeverFree(t *testing.T) {
	inv, _ := New(2, 2)
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if inv.IsFree(p.X, p.Y) {
			t.Fatalf("out-of-bounds cell %v reported free", p)
		}
		if !inv.IsOccupied(p.X, p.Y) {
			t.Fatalf("out-of-bounds cell %v reported unoccupied", p)
		}
	}
}

func TestCountByName(t *testing.T) {
	inv, _ := New(5, 5)
	inv.Place(testItem("p1", "Potion", 1, 1), 0, 0)
	inv.Place(testItem("p2", "Potion", 1, 1), 1, 0)
	inv.Place(testItem("s1", "Sword", 1, 3), 2, 0)
	if got := inv.CountByName("Potion"); got != 2 {
		t.Fatalf("expected 2 potions, got %d", got)
	}
	if got := inv.CountByName("Shield"); got != 0 {
		t.Fatalf("expected 0 shields, got %d", got)
	}
}

func TestInvalidSizePanics(t *testing.T) {
	inv, _ := New(3, 3)
	bad := testItem("bad", "Bad", 0, 2)
	defer func() {
		if r := recover(); r != ErrInvalidSize {
			t.Fatalf("expected panic with ErrInvalidSize, got %v", r)
		}
	}()
	inv.CanPlace(bad, 0, 0)
}

func TestNilItemQueriesAreFalse(t *testing.T) {
	inv, _ := New(3, 3)
	if inv.CanPlace(nil, 0, 0) || inv.Place(nil, 0, 0) {
		t.Fatalf("nil item must not be placeable")
	}
	if inv.Contains(nil) || inv.CanPlaceAnywhere(nil) || inv.PlaceAnywhere(nil) {
		t.Fatalf("nil item queries must report false")
	}
}

func TestSeedingIsBestEffort(t *testing.T) {
	blocker := testItem("blocker", "Blocker", 2, 2)
	dupe := testItem("blocker", "Blocker", 2, 2)
	huge := testItem("huge", "Huge", 9, 9)
	filler := testItem("filler", "Filler", 1, 1)

	inv, err := New(3, 3,
		WithPlacements(
			SeedPlacement{Item: blocker, At: Position{X: 0, Y: 0}},
			SeedPlacement{Item: dupe, At: Position{X: 0, Y: 0}},
		),
		WithItems(huge, filler, nil),
	)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	if inv.Len() != 2 {
		t.Fatalf("expected 2 seeded items, got %d", inv.Len())
	}
	if !inv.Contains(blocker) || !inv.Contains(filler) {
		t.Fatalf("placeable seeds must survive construction")
	}
	if inv.Contains(huge) {
		t.Fatalf("oversized seed must be skipped")
	}
}

func TestRangeIsRestartable(t *testing.T) {
	inv, _ := New(4, 4)
	inv.Place(testItem("a", "A", 1, 1), 0, 0)
	inv.Place(testItem("b", "B", 1, 1), 1, 0)
	inv.Place(testItem("c", "C", 1, 1), 2, 0)

	count := func() int {
		n := 0
		inv.Range(func(Item, Position) bool { n++; return true })
		return n
	}
	if first, second := count(), count(); first != 3 || second != 3 {
		t.Fatalf("expected two full passes of 3 items, got %d and %d", first, second)
	}

	stopped := 0
	inv.Range(func(Item, Position) bool { stopped++; return false })
	if stopped != 1 {
		t.Fatalf("expected early stop after 1 item, got %d", stopped)
	}
}

func TestCopyGridToRejectsMismatch(t *testing.T) {
	inv, _ := New(3, 2)
	if err := inv.CopyGridTo(make([][]Item, 3)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for wrong row count, got %v", err)
	}
	dst := [][]Item{make([]Item, 3), make([]Item, 2)}
	if err := inv.CopyGridTo(dst); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for ragged rows, got %v", err)
	}
}
