package product

import (
	"slices"

	"github.com/samber/lo"
)

// Metrics summarizes the inventory for the dashboard.
type Metrics struct {
	TotalProductsInStock    int               `json:"totalProductsInStock"`
	TotalProductsOutOfStock int               `json:"totalProductsOutOfStock"`
	TotalProducts           int               `json:"totalProducts"`
	TotalInventoryValue     float64           `json:"totalInventoryValue"`
	AveragePrice            float64           `json:"averagePrice"`
	MetricsByCategory       []CategoryMetrics `json:"metricsByCategory"`
}

// CategoryMetrics summarizes one category.
type CategoryMetrics struct {
	Category             string  `json:"category"`
	TotalProductsInStock int     `json:"totalProductsInStock"`
	TotalInventoryValue  float64 `json:"totalInventoryValue"`
	AveragePrice         float64 `json:"averagePrice"`
}

// Value is the stock value of the product, price times quantity.
func (p Product) Value() float64 {
	return p.Price * float64(p.Quantity)
}

// ComputeMetrics aggregates products. Counts are product counts, not units;
// average prices are plain means over the products considered. Products
// without a category count toward the totals only.
func ComputeMetrics(products []Product) Metrics {
	inStock := lo.CountBy(products, func(p Product) bool { return p.InStock })

	m := Metrics{
		TotalProductsInStock:    inStock,
		TotalProductsOutOfStock: len(products) - inStock,
		TotalProducts:           len(products),
		TotalInventoryValue:     lo.SumBy(products, Product.Value),
		AveragePrice:            averagePrice(products),
		MetricsByCategory:       []CategoryMetrics{},
	}

	byCategory := lo.GroupBy(
		lo.Filter(products, func(p Product, _ int) bool { return p.Category != "" }),
		func(p Product) string { return p.Category },
	)

	categories := lo.Keys(byCategory)
	slices.Sort(categories)

	for _, category := range categories {
		group := byCategory[category]
		m.MetricsByCategory = append(m.MetricsByCategory, CategoryMetrics{
			Category:             category,
			TotalProductsInStock: lo.CountBy(group, func(p Product) bool { return p.InStock }),
			TotalInventoryValue:  lo.SumBy(group, Product.Value),
			AveragePrice:         averagePrice(group),
		})
	}

	return m
}

func averagePrice(products []Product) float64 {
	if len(products) == 0 {
		return 0
	}

	return lo.SumBy(products, func(p Product) float64 { return p.Price }) / float64(len(products))
}
