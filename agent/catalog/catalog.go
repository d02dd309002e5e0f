package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	contractx "github.com/naruebet/voiceline/agent/contract"
)

// Item is one read-only catalog entry. Loaded once per session, never
// mutated.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Brand    string   `json:"brand,omitempty"`
	Size     string   `json:"size,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Catalog holds the product sections plus the recipe table mapping a dish
// name to the item ids it needs.
type Catalog struct {
	Groceries    []Item              `json:"groceries"`
	Snacks       []Item              `json:"snacks"`
	PreparedFood []Item              `json:"prepared_food"`
	Recipes      map[string][]string `json:"recipes,omitempty"`
}

// Load reads the catalog file. A missing file is fatal to session start;
// callers decide how to surface that.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contractx.ErrCatalogMissing, path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return &cat, nil
}

// AllItems returns every entry in catalog iteration order: groceries,
// snacks, prepared food.
func (c *Catalog) AllItems() []Item {
	out := make([]Item, 0, len(c.Groceries)+len(c.Snacks)+len(c.PreparedFood))
	out = append(out, c.Groceries...)
	out = append(out, c.Snacks...)
	out = append(out, c.PreparedFood...)
	return out
}

// LookupByID scans all sections for an exact id match. Catalogs are tens
// of entries; linear scan is fine.
func (c *Catalog) LookupByID(id string) (Item, bool) {
	for _, item := range c.AllItems() {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Search matches the query case-insensitively against item names and tags,
// preserving catalog order. No ranking beyond the order itself.
func (c *Catalog) Search(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Item
	for _, item := range c.AllItems() {
		if strings.Contains(strings.ToLower(item.Name), q) {
			matches = append(matches, item)
			continue
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				matches = append(matches, item)
				break
			}
		}
	}
	return matches
}

// Recipe resolves a dish name against the recipe table using a
// case-insensitive substring match in either direction. Recipe names are
// tried in sorted order so a query matching several resolves the same way
// every time. Returns the canonical recipe name and its item ids.
func (c *Catalog) Recipe(dish string) (string, []string, bool) {
	q := strings.ToLower(strings.TrimSpace(dish))
	if q == "" {
		return "", nil, false
	}

	names := make([]string, 0, len(c.Recipes))
	for name := range c.Recipes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, q) || strings.Contains(q, lower) {
			return name, c.Recipes[name], true
		}
	}
	return "", nil, false
}
