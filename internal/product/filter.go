package product

import (
	"strings"

	"github.com/samber/lo"

	"github.com/floware/stockview"
)

// Filter narrows the product list. Zero fields do not filter.
type Filter struct {
	// Name matches products whose name contains it, ignoring case.
	Name string `json:"name,omitempty"`
	// Categories keeps products in any of the listed categories. Products
	// without a category never match a non-empty list.
	Categories []string `json:"categories,omitempty"`
	// InStock keeps products with the given availability when set.
	InStock *bool `json:"inStock,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return f.Name == "" && len(f.Categories) == 0 && f.InStock == nil
}

// Match reports whether p passes every criterion of f.
func (f Filter) Match(p Product) bool {
	return f.matcher()(p)
}

// Apply returns the products matching f, in their original order.
func (f Filter) Apply(products []Product) []Product {
	match := f.matcher()

	return lo.Filter(products, func(p Product, _ int) bool { return match(p) })
}

// ToggleCategory adds category to the filter or removes it when present.
// An emptied list means "any category".
func (f Filter) ToggleCategory(category string) Filter {
	if lo.Contains(f.Categories, category) {
		f.Categories = lo.Without(f.Categories, category)
	} else {
		f.Categories = append(append([]string(nil), f.Categories...), category)
	}

	if len(f.Categories) == 0 {
		f.Categories = nil
	}

	return f
}

// matcher folds the name once per Apply instead of once per product.
func (f Filter) matcher() func(Product) bool {
	name := stockview.Fold(strings.TrimSpace(f.Name))

	return func(p Product) bool {
		if name != "" && !strings.Contains(stockview.Fold(p.Name), name) {
			return false
		}

		if len(f.Categories) > 0 {
			if p.Category == "" || !lo.Contains(f.Categories, p.Category) {
				return false
			}
		}

		if f.InStock != nil && p.InStock != *f.InStock {
			return false
		}

		return true
	}
}

// Categories returns the distinct non-empty categories of products in the
// order they first appear.
func Categories(products []Product) []string {
	categories := lo.FilterMap(products, func(p Product, _ int) (string, bool) {
		return p.Category, p.Category != ""
	})

	return lo.Uniq(categories)
}
