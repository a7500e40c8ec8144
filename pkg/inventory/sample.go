package inventory

// SampleDepot returns a small, sci-fi flavored grid inventory showcasing
// explicit and automatic placement, along with the registry its items were
// spawned from. Useful for demos and manual testing of clients.
func SampleDepot() (*GridInventory, *Registry) {
	reg := NewRegistry(
		ItemDetails{ID: ItemID("nanoforge"), NumericID: 1, Name: "Nanoforge Unit", Category: "module", Width: 3, Height: 2},
		ItemDetails{ID: ItemID("knife-missile"), NumericID: 2, Name: "Knife Missile", Category: "weapon", Width: 1, Height: 2},
		ItemDetails{ID: ItemID("field-projector"), NumericID: 3, Name: "Field Projector", Category: "module", Width: 2, Height: 1},
		ItemDetails{ID: ItemID("gridfire-projector"), NumericID: 4, Name: "Gridfire Projector", Category: "weapon", Width: 2, Height: 2},
		ItemDetails{ID: ItemID("energy-cell"), NumericID: 5, Name: "Energy Cell Pack", Category: "resource", Width: 1, Height: 1},
	)

	nanoforge, _ := reg.Spawn(ItemID("nanoforge"), "1")
	missile, _ := reg.Spawn(ItemID("knife-missile"), "1")
	projector, _ := reg.Spawn(ItemID("field-projector"), "1")
	gridfire, _ := reg.Spawn(ItemID("gridfire-projector"), "1")
	cell, _ := reg.Spawn(ItemID("energy-cell"), "1")

	// 6x4 grid with a few placed shapes; the energy cell auto-places into
	// the first free gap.
	depot, _ := New(6, 4,
		WithPlacements(
			SeedPlacement{Item: nanoforge, At: Position{X: 0, Y: 0}},
			SeedPlacement{Item: missile, At: Position{X: 3, Y: 0}},
			SeedPlacement{Item: projector, At: Position{X: 4, Y: 2}},
			SeedPlacement{Item: gridfire, At: Position{X: 0, Y: 2}},
		),
		WithItems(cell),
	)
	return depot, reg
}
