package listview

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/floware/stockview/internal/product"
)

// Create validates draft, creates the product and refreshes.
func (s *Session) Create(ctx context.Context, draft product.Draft) (product.Product, error) {
	if err := draft.Validate(); err != nil {
		return product.Product{}, err
	}

	p, err := s.src.Create(ctx, draft)
	if err != nil {
		return product.Product{}, s.setErr(err)
	}
	s.log.Info("product created", zap.Int("id", p.ID))

	return p, s.Refresh(ctx)
}

// Update validates draft, saves it over product id and refreshes.
func (s *Session) Update(ctx context.Context, id int, draft product.Draft) (product.Product, error) {
	if err := draft.Validate(); err != nil {
		return product.Product{}, err
	}

	p, err := s.src.Update(ctx, id, draft)
	if err != nil {
		return product.Product{}, s.setErr(err)
	}
	s.log.Info("product updated", zap.Int("id", id))

	return p, s.Refresh(ctx)
}

func (s *Session) Delete(ctx context.Context, id int) error {
	if err := s.src.Delete(ctx, id); err != nil {
		return s.setErr(err)
	}
	s.log.Info("product deleted", zap.Int("id", id))

	return s.Refresh(ctx)
}

// ToggleStock marks an empty product in stock and any other product out of
// stock, then refreshes.
func (s *Session) ToggleStock(ctx context.Context, p product.Product) error {
	inStock := p.Quantity == 0

	if err := s.src.ToggleStock(ctx, p.ID, inStock); err != nil {
		return s.setErr(fmt.Errorf("cannot toggle stock: %w", err))
	}
	s.log.Info("product stock changed", zap.Int("id", p.ID), zap.Bool("inStock", inStock))

	return s.Refresh(ctx)
}
