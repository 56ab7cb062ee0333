// Package product holds the inventory domain model: products, their sortable
// fields, the list filter and the inventory metrics.
package product

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/floware/stockview"
)

// RestockQuantity is the quantity a product gets when it is marked in stock.
const RestockQuantity = 10

// LowStockThreshold is the highest quantity still reported as low stock.
const LowStockThreshold = 10

// StockStatus is the availability tier shown next to a product.
type StockStatus int

const (
	OutOfStock StockStatus = iota
	LowStock
	InStock
)

func (s StockStatus) String() string {
	switch s {
	case InStock:
		return "in stock"
	case LowStock:
		return "low stock"
	default:
		return "out of stock"
	}
}

// Product is an inventory item.
type Product struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `gorm:"index" json:"category,omitempty"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	InStock      bool      `json:"inStock"`
	CreationDate time.Time `gorm:"autoCreateTime" json:"creationDate"`
	UpdateDate   time.Time `gorm:"autoUpdateTime" json:"updateDate"`
}

// Status returns the availability tier of p, derived from its quantity.
func (p Product) Status() StockStatus {
	switch {
	case p.Quantity > LowStockThreshold:
		return InStock
	case p.Quantity > 0:
		return LowStock
	default:
		return OutOfStock
	}
}

// BeforeSave keeps InStock in line with Quantity.
func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.InStock = p.Quantity > 0
	return nil
}

// Draft is the client-editable part of a product, used for create and update.
type Draft struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// DraftOf returns the editable fields of p.
func DraftOf(p Product) Draft {
	return Draft{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Quantity: p.Quantity,
	}
}

// ApplyTo copies the draft onto p.
func (d Draft) ApplyTo(p *Product) {
	p.Name = strings.TrimSpace(d.Name)
	p.Category = strings.TrimSpace(d.Category)
	p.Price = d.Price
	p.Quantity = d.Quantity
	p.InStock = d.Quantity > 0
}

// ValidationErrors maps a field name to the reason it was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := lo.Keys(v)
	slices.Sort(fields)

	return "invalid product: " + strings.Join(lo.Map(fields, func(f string, _ int) string {
		return fmt.Sprintf("%s: %s", f, v[f])
	}), "; ")
}

// Validate checks the draft the same way the edit form does. It returns nil
// or a ValidationErrors.
func (d Draft) Validate() error {
	errs := ValidationErrors{}

	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(d.Category) == "" {
		errs["category"] = "Category is required"
	}
	if d.Price <= 0 {
		errs["price"] = "Price must be positive"
	}
	if d.Quantity < 0 {
		errs["quantity"] = "Quantity cannot be negative"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Fields lists the product fields that can be sorted on.
var Fields = stockview.Fields[Product]{
	"id":           func(p Product) stockview.Value { return stockview.Int(p.ID) },
	"name":         func(p Product) stockview.Value { return stockview.String(p.Name) },
	"category":     func(p Product) stockview.Value { return optionalString(p.Category) },
	"price":        func(p Product) stockview.Value { return stockview.Number(p.Price) },
	"quantity":     func(p Product) stockview.Value { return stockview.Int(p.Quantity) },
	"inStock":      func(p Product) stockview.Value { return stockview.Bool(p.InStock) },
	"creationDate": func(p Product) stockview.Value { return stockview.Time(p.CreationDate) },
	"updateDate":   func(p Product) stockview.Value { return stockview.Time(p.UpdateDate) },
}

// SortableFields are the list columns that accept header clicks, in column order.
var SortableFields = []string{"id", "name", "category", "quantity", "price"}

// SortMapping resolves query-string aliases to product fields.
var SortMapping = stockview.FieldMapping{
	"id":           "id",
	"name":         "name",
	"category":     "category",
	"price":        "price",
	"quantity":     "quantity",
	"inStock":      "inStock",
	"in_stock":     "inStock",
	"creationDate": "creationDate",
	"created_at":   "creationDate",
	"updateDate":   "updateDate",
	"updated_at":   "updateDate",
	"lastUpdated":  "updateDate",
}

// Sort orders products by keys. An empty stack keeps the fetch order.
func Sort(products []Product, keys stockview.SortKeys) ([]Product, error) {
	return stockview.MultiSort(products, keys, Fields)
}

func optionalString(s string) stockview.Value {
	if s == "" {
		return stockview.Null()
	}

	return stockview.String(s)
}
