// Package listview holds the state of the product list: the fetched snapshot,
// the active filter, the sort key stack and the current page.
package listview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/floware/stockview"
	"github.com/floware/stockview/internal/product"
)

var ErrNotSortable = errors.New("field is not sortable")

// Source is where the session reads and writes products.
type Source interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, draft product.Draft) (product.Product, error)
	Update(ctx context.Context, id int, draft product.Draft) (product.Product, error)
	Delete(ctx context.Context, id int) error
	ToggleStock(ctx context.Context, id int, inStock bool) error
	Metrics(ctx context.Context) (product.Metrics, error)
}

// View is what the list shows right now.
type View struct {
	Page stockview.Page[product.Product]
	// Matching is the number of products passing the filter.
	Matching     int
	VisiblePages []int
	Keys         stockview.SortKeys
	Filter       product.Filter
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithPerPage sets the page size, see stockview.Pager.WithPerPage.
func WithPerPage(perPage int) Option {
	return func(s *Session) { s.pager.WithPerPage(perPage) }
}

// WithSortKeys sets the initial sort key stack.
func WithSortKeys(keys stockview.SortKeys) Option {
	return func(s *Session) { s.keys = slices.Clone(keys) }
}

// Session is safe for concurrent use.
type Session struct {
	src Source
	log *zap.Logger

	mu       sync.Mutex
	products []product.Product
	metrics  product.Metrics
	filter   product.Filter
	keys     stockview.SortKeys
	pager    *stockview.Pager
	err      error

	view        View
	stale       bool
	derivations int
}

func New(src Source, opts ...Option) *Session {
	s := &Session{
		src:   src,
		log:   zap.NewNop(),
		pager: stockview.NewPager().WithPage(1),
		stale: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Refresh fetches the product snapshot and the metrics. Both replace the
// current state together, or not at all.
func (s *Session) Refresh(ctx context.Context) error {
	var (
		products []product.Product
		metrics  product.Metrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.src.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		metrics, err = s.src.Metrics(gctx)
		return err
	})

	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		s.log.Warn("refresh failed", zap.Error(err))

		return err
	}

	s.products = products
	s.metrics = metrics
	s.err = nil
	s.stale = true
	s.log.Debug("refreshed", zap.Int("products", len(products)))

	return nil
}

// SetFilter replaces the filter and goes back to the first page.
func (s *Session) SetFilter(filter product.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
	s.pager.WithPage(1)
	s.stale = true
}

func (s *Session) ClearFilters() {
	s.SetFilter(product.Filter{})
}

func (s *Session) Filter() product.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// RequestSort applies a header click on field and goes back to the first
// page. Only product.SortableFields accept clicks.
func (s *Session) RequestSort(field string, multiKey bool) error {
	if !slices.Contains(product.SortableFields, field) {
		return fmt.Errorf("%w: '%s'", ErrNotSortable, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = stockview.RequestSort(s.keys, field, multiKey)
	s.pager.WithPage(1)
	s.stale = true

	return nil
}

func (s *Session) SortKeys() stockview.SortKeys {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.keys)
}

// PriorityOf returns the 1-based sort priority of field, if it is sorted.
func (s *Session) PriorityOf(field string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keys.PriorityOf(field)
}

// SetPage moves to page. Pages outside [1, total pages] are ignored.
func (s *Session) SetPage(page int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.deriveLocked()
	if page < 1 || page > v.Page.TotalPages || page == v.Page.CurrentPage {
		return false
	}

	s.pager.WithPage(page)
	s.stale = true

	return true
}

func (s *Session) NextPage() bool {
	return s.SetPage(s.View().Page.CurrentPage + 1)
}

func (s *Session) PrevPage() bool {
	return s.SetPage(s.View().Page.CurrentPage - 1)
}

// View returns the filtered, sorted and paginated list. The result is cached
// until the products, filter, sort keys or page change.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deriveLocked()
}

func (s *Session) deriveLocked() View {
	if !s.stale {
		return s.view
	}

	rows := s.filter.Apply(s.products)
	if len(s.keys) > 0 {
		sorted, err := product.Sort(rows, s.keys)
		if err != nil {
			s.log.Error("cannot sort products", zap.Error(err), zap.Any("keys", s.keys))
			s.err = err
		} else {
			rows = sorted
		}
	}

	page := stockview.Paginate(s.pager, rows)
	s.pager.WithPage(page.CurrentPage)

	s.view = View{
		Page:         page,
		Matching:     len(rows),
		VisiblePages: stockview.VisiblePages(page.CurrentPage, page.TotalPages),
		Keys:         slices.Clone(s.keys),
		Filter:       s.filter,
	}
	s.stale = false
	s.derivations++

	return s.view
}

// Products returns the whole snapshot in fetch order.
func (s *Session) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.products)
}

// Categories returns the categories present in the snapshot.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return product.Categories(s.products)
}

func (s *Session) Metrics() product.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.metrics
}

// Err returns the last error, cleared by a successful refresh.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *Session) setErr(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	return err
}
