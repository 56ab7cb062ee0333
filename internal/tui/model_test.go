package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floware/stockview"
	"github.com/floware/stockview/internal/listview"
	"github.com/floware/stockview/internal/product"
)

type memSource struct {
	mu       sync.Mutex
	products []product.Product
	nextID   int
	deleted  []int
	toggled  map[int]bool
}

func (s *memSource) List(context.Context) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]product.Product{}, s.products...), nil
}

func (s *memSource) Create(_ context.Context, d product.Draft) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := product.Product{ID: s.nextID}
	d.ApplyTo(&p)
	s.nextID++
	s.products = append(s.products, p)

	return p, nil
}

func (s *memSource) Update(_ context.Context, id int, d product.Draft) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			d.ApplyTo(&s.products[i])
			return s.products[i], nil
		}
	}

	return product.Product{}, fmt.Errorf("product %d not found", id)
}

func (s *memSource) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, id)
	s.products = lo.Filter(s.products, func(p product.Product, _ int) bool { return p.ID != id })

	return nil
}

func (s *memSource) ToggleStock(_ context.Context, id int, inStock bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toggled[id] = inStock

	return nil
}

func (s *memSource) Metrics(context.Context) (product.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return product.ComputeMetrics(s.products), nil
}

func newTestModel(t *testing.T, opts ...listview.Option) (Model, *memSource) {
	t.Helper()

	src := &memSource{
		products: []product.Product{
			{ID: 1, Name: "Desk", Category: "Office", Price: 120, Quantity: 2, InStock: true},
			{ID: 2, Name: "chair", Category: "Office", Price: 45, Quantity: 0},
			{ID: 3, Name: "Lamp", Category: "Home", Price: 20, Quantity: 5, InStock: true},
		},
		nextID:  4,
		toggled: map[int]bool{},
	}

	m := NewModel(context.Background(), listview.New(src, opts...))
	m = send(t, m, m.Init()())

	return m, src
}

// send delivers msg and runs the returned command, feeding its message back,
// the way the bubbletea runtime would for a single command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(Model)

	if cmd != nil {
		switch out := cmd().(type) {
		case refreshedMsg, mutatedMsg:
			return send(t, m, out)
		}
	}

	return m
}

func keys(t *testing.T, m Model, ks ...string) Model {
	t.Helper()

	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}

	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()

	return keys(t, m, lo.Map([]rune(s), func(r rune, _ int) string { return string(r) })...)
}

func itemIDs(m Model) []int {
	return lo.Map(m.session.View().Page.Items, func(p product.Product, _ int) int { return p.ID })
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, []int{1, 2, 3}, itemIDs(m))
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "Desk")
}

func TestModel_HeaderClicks(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(t, m, "2")
	assert.Equal(t, stockview.SortKeys{{Field: "name", Direction: stockview.DirectionASC}}, m.session.SortKeys())
	assert.Equal(t, []int{2, 1, 3}, itemIDs(m))
	assert.Contains(t, m.View(), "▲")

	m = keys(t, m, "2")
	assert.Equal(t, []int{3, 1, 2}, itemIDs(m))
	assert.Contains(t, m.View(), "▼")

	m = keys(t, m, "2")
	assert.Empty(t, m.session.SortKeys())
}

func TestModel_ShiftClickAddsSecondaryKey(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(t, m, "3", "%")
	assert.Equal(t, stockview.SortKeys{
		{Field: "category", Direction: stockview.DirectionASC},
		{Field: "price", Direction: stockview.DirectionASC},
	}, m.session.SortKeys())
	assert.Equal(t, []int{3, 2, 1}, itemIDs(m))

	// A plain click replaces the stack.
	m = keys(t, m, "1")
	assert.Equal(t, stockview.SortKeys{{Field: "id", Direction: stockview.DirectionASC}}, m.session.SortKeys())
}

func TestModel_Filters(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m = typeText(t, m, "LA")
	m = keys(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "LA", m.session.Filter().Name)
	assert.Equal(t, []int{3}, itemIDs(m))

	m = keys(t, m, "x")
	assert.True(t, m.session.Filter().IsEmpty())
	assert.Empty(t, m.searchInput.Value())

	m = keys(t, m, "c")
	assert.Equal(t, []string{"Office"}, m.session.Filter().Categories)
	m = keys(t, m, "c")
	assert.Equal(t, []string{"Home"}, m.session.Filter().Categories)
	m = keys(t, m, "c")
	assert.Nil(t, m.session.Filter().Categories)

	m = keys(t, m, "s")
	assert.Equal(t, []int{1, 3}, itemIDs(m))
	m = keys(t, m, "s")
	assert.Equal(t, []int{2}, itemIDs(m))
	m = keys(t, m, "s")
	assert.Nil(t, m.session.Filter().InStock)
}

func TestModel_CategoryPicker(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(t, m, "f")
	require.Equal(t, modeCategories, m.mode)
	assert.Contains(t, m.View(), "[ ] Office")
	assert.Contains(t, m.View(), "[ ] Home")

	m = keys(t, m, "space")
	assert.Equal(t, []string{"Office"}, m.session.Filter().Categories)
	assert.Equal(t, []int{1, 2}, itemIDs(m))

	m = keys(t, m, "down", "space")
	assert.Contains(t, m.View(), "[x] Office")
	assert.Contains(t, m.View(), "[x] Home")

	m = keys(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []string{"Office", "Home"}, m.session.Filter().Categories)
	assert.Equal(t, []int{1, 2, 3}, itemIDs(m))
	assert.Contains(t, m.View(), "category=Office,Home")

	// Unchecking keeps the other selection.
	m = keys(t, m, "f", "space", "esc")
	assert.Equal(t, []string{"Home"}, m.session.Filter().Categories)
	assert.Equal(t, []int{3}, itemIDs(m))

	m = keys(t, m, "f", "down", "space", "up", "esc")
	assert.Nil(t, m.session.Filter().Categories)
}

func TestModel_ExpandRowShowsDates(t *testing.T) {
	m, src := newTestModel(t)

	src.products[0].CreationDate = time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)
	src.products[0].UpdateDate = time.Date(2025, 7, 2, 18, 5, 0, 0, time.Local)
	m = keys(t, m, "r")

	assert.NotContains(t, m.View(), "Last Updated")

	m = keys(t, m, "enter")
	assert.Equal(t, 1, m.expanded)
	assert.Contains(t, m.View(), "Created: 2025-06-01 09:30")
	assert.Contains(t, m.View(), "Last Updated: 2025-07-02 18:05")

	// Another row replaces the open one.
	m = keys(t, m, "down", "enter")
	assert.Equal(t, 2, m.expanded)
	assert.Contains(t, m.View(), "Created: -")

	m = keys(t, m, "enter")
	assert.Zero(t, m.expanded)
	assert.NotContains(t, m.View(), "Last Updated")
}

func TestModel_StockTiers(t *testing.T) {
	m, src := newTestModel(t)

	src.products = append(src.products, product.Product{ID: 4, Name: "Shelf", Category: "Home", Price: 60, Quantity: 12, InStock: true})
	m = keys(t, m, "r")

	rows := map[string]string{}
	for _, line := range strings.Split(m.View(), "\n") {
		for _, name := range []string{"Desk", "chair", "Lamp", "Shelf"} {
			if strings.Contains(line, name) {
				rows[name] = line
			}
		}
	}

	assert.Contains(t, rows["Desk"], "low stock")
	assert.Contains(t, rows["chair"], "out of stock")
	assert.Contains(t, rows["Lamp"], "low stock")
	assert.Contains(t, rows["Shelf"], "in stock")
	assert.NotContains(t, rows["Shelf"], "out of stock")
}

func Test_sortBadge(t *testing.T) {
	single := stockview.SortKeys{{Field: "name", Direction: stockview.DirectionASC}}
	assert.Equal(t, "1", sortBadge(single, "name"))
	assert.Empty(t, sortBadge(single, "price"))

	multi := stockview.SortKeys{
		{Field: "category", Direction: stockview.DirectionASC},
		{Field: "price", Direction: stockview.DirectionDESC},
	}
	assert.Equal(t, "1", sortBadge(multi, "category"))
	assert.Equal(t, "2", sortBadge(multi, "price"))
}

func TestModel_Paging(t *testing.T) {
	m, _ := newTestModel(t, listview.WithPerPage(2))

	assert.Equal(t, []int{1, 2}, itemIDs(m))

	m = keys(t, m, "right")
	assert.Equal(t, []int{3}, itemIDs(m))

	m = keys(t, m, "right")
	assert.Equal(t, 2, m.session.View().Page.CurrentPage)

	m = keys(t, m, "left")
	assert.Equal(t, 1, m.session.View().Page.CurrentPage)
}

func TestModel_CreateProduct(t *testing.T) {
	m, src := newTestModel(t)

	m = keys(t, m, "n")
	require.Equal(t, modeForm, m.mode)

	// Empty form shows validation messages and stays open.
	m = keys(t, m, "enter")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Name is required", m.form.errors["name"])
	assert.Contains(t, m.View(), "Category is required")

	m = typeText(t, m, "Rug")
	m = keys(t, m, "tab")
	m = typeText(t, m, "Home")
	m = keys(t, m, "tab")
	m = typeText(t, m, "abc")
	m = keys(t, m, "enter")
	assert.Equal(t, "Price must be a number", m.form.errors["price"])

	m = keys(t, m, "backspace", "backspace", "backspace")
	m = typeText(t, m, "80")
	m = keys(t, m, "tab")
	m = typeText(t, m, "3")
	m = keys(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)
	assert.Equal(t, `created "Rug"`, m.status)
	require.Len(t, src.products, 4)
	assert.Equal(t, product.Product{ID: 4, Name: "Rug", Category: "Home", Price: 80, Quantity: 3, InStock: true}, src.products[3])
	assert.Equal(t, []int{1, 2, 3, 4}, itemIDs(m))
}

func TestModel_EditProduct(t *testing.T) {
	m, src := newTestModel(t)

	m = keys(t, m, "down", "e")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, 2, m.form.id)
	assert.Equal(t, "chair", m.form.inputs[fieldName].Value())

	m = typeText(t, m, "s")
	m = keys(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "chairs", src.products[1].Name)
}

func TestModel_FormEscapeDiscards(t *testing.T) {
	m, src := newTestModel(t)

	m = keys(t, m, "n")
	m = typeText(t, m, "Rug")
	m = keys(t, m, "esc")

	assert.Equal(t, modeList, m.mode)
	assert.Len(t, src.products, 3)
}

func TestModel_DeleteAsksForConfirmation(t *testing.T) {
	m, src := newTestModel(t)

	m = keys(t, m, "d")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), `Delete "Desk"?`)

	m = keys(t, m, "n")
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, src.deleted)

	m = keys(t, m, "d", "y")
	assert.Equal(t, []int{1}, src.deleted)
	assert.Equal(t, []int{2, 3}, itemIDs(m))
}

func TestModel_ToggleStock(t *testing.T) {
	m, src := newTestModel(t)

	m = keys(t, m, "t", "y")
	m = keys(t, m, "down", "t")
	assert.Contains(t, m.View(), `Mark "chair" in stock?`)
	m = keys(t, m, "enter")

	assert.Equal(t, map[int]bool{1: false, 2: true}, src.toggled)
}

func TestModel_MetricsPanel(t *testing.T) {
	m, _ := newTestModel(t)

	assert.NotContains(t, m.View(), "Inventory value")

	m = keys(t, m, "m")
	assert.Contains(t, m.View(), "Inventory value")
	assert.Contains(t, m.View(), "Products: 3 (2 in stock, 1 out of stock)")
}

func TestModel_MutationErrorIsShown(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(mutatedMsg{action: "deleted", err: errors.New("connection refused")})
	m = next.(Model)

	assert.Contains(t, m.View(), "error: connection refused")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func Test_nextCategory(t *testing.T) {
	categories := []string{"A", "B"}

	f := nextCategory(product.Filter{}, categories)
	assert.Equal(t, []string{"A"}, f.Categories)
	f = nextCategory(f, categories)
	assert.Equal(t, []string{"B"}, f.Categories)
	f = nextCategory(f, categories)
	assert.Nil(t, f.Categories)

	f = nextCategory(product.Filter{Categories: []string{"gone"}}, categories)
	assert.Nil(t, f.Categories)

	f = nextCategory(product.Filter{Categories: []string{"A"}}, nil)
	assert.Nil(t, f.Categories)
}

func Test_pad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4, false))
	assert.Equal(t, "  ab", pad("ab", 4, true))
	assert.Equal(t, "abc…", pad("abcdef", 4, false))
}
