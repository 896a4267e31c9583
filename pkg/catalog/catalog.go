// Package catalog is the read-only crop reference table.
package catalog

import (
	"fmt"
	"strings"

	"cropcal/entities"
	"cropcal/pkg/apperr"
)

// Catalog maps a crop id to its definition. It is never mutated after New, so a
// single value can be shared by every request without locking.
type Catalog struct {
	byID  map[string]entities.CropDefinition
	order []string
}

// builtin is the table shipped with the app; file imports extend or override it.
var builtin = []entities.CropDefinition{
	{ID: "rice", DisplayName: "ধান", Icon: "🌾", GrowthDurationDays: 120},
	{ID: "potato", DisplayName: "আলু", Icon: "🥔", GrowthDurationDays: 90},
	{ID: "wheat", DisplayName: "গম", Icon: "🌾", GrowthDurationDays: 110},
	{ID: "jute", DisplayName: "পাট", Icon: "🌿", GrowthDurationDays: 120},
	{ID: "maize", DisplayName: "ভুট্টা", Icon: "🌽", GrowthDurationDays: 100},
	{ID: "tomato", DisplayName: "টমেটো", Icon: "🍅", GrowthDurationDays: 75},
	{ID: "onion", DisplayName: "পেঁয়াজ", Icon: "🧅", GrowthDurationDays: 110},
	{ID: "mustard", DisplayName: "সরিষা", Icon: "🌼", GrowthDurationDays: 85},
	{ID: "lentil", DisplayName: "মসুর ডাল", Icon: "🫘", GrowthDurationDays: 105},
	{ID: "eggplant", DisplayName: "বেগুন", Icon: "🍆", GrowthDurationDays: 80},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(builtin...)
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin table invalid: %v", err))
	}
	return c
}

// Builtin returns a copy of the built-in definitions.
func Builtin() []entities.CropDefinition {
	out := make([]entities.CropDefinition, len(builtin))
	copy(out, builtin)
	return out
}

// New validates defs and builds a catalog. A bad row is a data error and fails the whole load.
func New(defs ...entities.CropDefinition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]entities.CropDefinition, len(defs))}
	for i, d := range defs {
		d.ID = strings.TrimSpace(d.ID)
		d.DisplayName = strings.TrimSpace(d.DisplayName)
		if d.ID == "" {
			return nil, fmt.Errorf("catalog row %d: empty id", i)
		}
		if d.DisplayName == "" {
			return nil, fmt.Errorf("catalog row %d (%s): empty display name", i, d.ID)
		}
		if d.GrowthDurationDays <= 0 {
			return nil, fmt.Errorf("catalog row %d (%s): growth duration must be positive, got %d", i, d.ID, d.GrowthDurationDays)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("catalog row %d: duplicate id %q", i, d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Merge returns base with extra applied on top; an extra entry replaces the base entry with the same id.
func Merge(base, extra []entities.CropDefinition) []entities.CropDefinition {
	idx := make(map[string]int, len(base))
	out := make([]entities.CropDefinition, 0, len(base)+len(extra))
	for _, d := range base {
		d.ID = strings.TrimSpace(d.ID)
		idx[d.ID] = len(out)
		out = append(out, d)
	}
	for _, d := range extra {
		d.ID = strings.TrimSpace(d.ID)
		if i, ok := idx[d.ID]; ok {
			out[i] = d
			continue
		}
		idx[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}

// Lookup resolves a crop id. An unknown id is a user input error.
func (c *Catalog) Lookup(id string) (entities.CropDefinition, error) {
	d, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return entities.CropDefinition{}, apperr.NotFound("crop", id)
	}
	return d, nil
}

// All lists definitions in catalog order.
func (c *Catalog) All() []entities.CropDefinition {
	out := make([]entities.CropDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
