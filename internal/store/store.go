// Package store persists products with gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/floware/stockview"
	"github.com/floware/stockview/internal/config"
	"github.com/floware/stockview/internal/product"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// naturalOrder is the fetch order of the product list.
var naturalOrder = stockview.SortKeys{{Field: "id", Direction: stockview.DirectionASC}}

// Open connects to the database described by cfg.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGORMLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

// Repository stores products.
type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRepository(db *gorm.DB, log *zap.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.Named("store"),
	}
}

// Migrate creates or updates the products table.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&product.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products: %w", err)
	}

	return nil
}

// List returns every product in natural (id) order.
func (r *Repository) List(ctx context.Context) ([]product.Product, error) {
	products := make([]product.Product, 0)
	if err := naturalOrder.Apply(r.db.WithContext(ctx)).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Get returns the product with the given id.
func (r *Repository) Get(ctx context.Context, id int) (product.Product, error) {
	var p product.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	} else if err != nil {
		return product.Product{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return p, nil
}

// Create stores a new product built from draft.
func (r *Repository) Create(ctx context.Context, draft product.Draft) (product.Product, error) {
	var p product.Product
	draft.ApplyTo(&p)

	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return product.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	r.log.Debug("product created", zap.Int("id", p.ID), zap.String("name", p.Name))

	return p, nil
}

// Update replaces the editable fields of the product with the given id.
func (r *Repository) Update(ctx context.Context, id int, draft product.Draft) (product.Product, error) {
	var updated product.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p product.Product
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}

		draft.ApplyTo(&p)
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		updated = p
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	} else if err != nil {
		return product.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	r.log.Debug("product updated", zap.Int("id", id))

	return updated, nil
}

// Delete removes the product with the given id.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&product.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	r.log.Debug("product deleted", zap.Int("id", id))

	return nil
}

// SetStock marks the product in stock (restocking it to
// product.RestockQuantity) or out of stock (quantity 0).
func (r *Repository) SetStock(ctx context.Context, id int, inStock bool) error {
	quantity := 0
	if inStock {
		quantity = product.RestockQuantity
	}

	res := r.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"quantity":    quantity,
			"in_stock":    inStock,
			"update_date": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set stock of product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	r.log.Debug("product stock changed", zap.Int("id", id), zap.Bool("inStock", inStock))

	return nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&product.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}
