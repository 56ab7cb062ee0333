package store

import (
	"context"
	"fmt"

	"github.com/floware/stockview/internal/product"
)

var _demoProducts = []product.Draft{
	{Name: "Desk Lamp", Category: "Lighting", Price: 24.99, Quantity: 12},
	{Name: "Floor Lamp", Category: "Lighting", Price: 79.5, Quantity: 0},
	{Name: "LED Bulb 4-pack", Category: "Lighting", Price: 11.25, Quantity: 140},
	{Name: "Claw Hammer", Category: "Tools", Price: 17.8, Quantity: 33},
	{Name: "Cordless Drill", Category: "Tools", Price: 129, Quantity: 5},
	{Name: "screwdriver set", Category: "Tools", Price: 21.4, Quantity: 0},
	{Name: "Garden Hose", Category: "Garden", Price: 34.9, Quantity: 18},
	{Name: "Pruning Shears", Category: "Garden", Price: 15.75, Quantity: 27},
	{Name: "Potting Soil 20L", Category: "Garden", Price: 8.6, Quantity: 64},
	{Name: "Extension Cord", Category: "Electrical", Price: 13.99, Quantity: 0},
	{Name: "Wall Plate", Category: "Electrical", Price: 2.15, Quantity: 210},
	{Name: "Smoke Detector", Category: "Safety", Price: 22, Quantity: 9},
}

// Seed fills an empty products table with demo data and reports how many
// products were added.
func (r *Repository) Seed(ctx context.Context) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, draft := range _demoProducts {
		if _, err := r.Create(ctx, draft); err != nil {
			return 0, fmt.Errorf("failed to seed products: %w", err)
		}
	}

	return len(_demoProducts), nil
}
