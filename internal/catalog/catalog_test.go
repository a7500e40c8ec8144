package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

const sampleCatalog = `items:
  - id: crate
    numeric_id: 1
    name: Cargo Crate
    category: storage
    width: 2
    height: 2
  - id: rod
    numeric_id: 2
    name: Fuel Rod
    category: resource
    width: 1
    height: 3
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	reg, err := Load(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	size, ok := reg.SizeFor(inventory.ItemID("crate"))
	if !ok || size != (inventory.Size{Width: 2, Height: 2}) {
		t.Fatalf("expected crate 2x2, got %v ok=%v", size, ok)
	}
	details, ok := reg.LookupByRegistryID(2)
	if !ok || details.Name != "Fuel Rod" {
		t.Fatalf("expected fuel rod via numeric id, got %+v", details)
	}
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	if _, err := Load(writeCatalog(t, "items: []\n")); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
	bad := "items:\n  - id: flat\n    name: Flat\n    width: 2\n    height: 0\n"
	if _, err := Load(writeCatalog(t, bad)); err == nil {
		t.Fatalf("expected error for non-positive footprint")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
