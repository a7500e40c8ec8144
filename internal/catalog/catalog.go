package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// entry is the YAML shape of a single catalog item.
type entry struct {
	ID          string `yaml:"id"`
	NumericID   int64  `yaml:"numeric_id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// file is the YAML shape of the catalog document.
type file struct {
	Items []entry `yaml:"items"`
}

// Load reads an item catalog from a YAML file and returns a populated
// registry. Every entry must carry a unique id and a positive footprint.
func Load(path string) (*inventory.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("catalog %s defines no items", path)
	}

	reg := inventory.NewRegistry()
	for _, e := range doc.Items {
		details := inventory.ItemDetails{
			ID:          inventory.ItemID(e.ID),
			NumericID:   inventory.RegistryID(e.NumericID),
			Name:        e.Name,
			Category:    e.Category,
			Description: e.Description,
			Width:       e.Width,
			Height:      e.Height,
		}
		if err := reg.RegisterDetails(details); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.ID, err)
		}
	}
	return reg, nil
}
