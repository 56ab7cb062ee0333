// Package tui is the terminal front end of the product list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/floware/stockview/internal/client"
	"github.com/floware/stockview/internal/listview"
	"github.com/floware/stockview/internal/product"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeCategories
)

// Header keys: "1".."5" click the matching column of product.SortableFields,
// the shifted keys on a US layout click it with the multi-key modifier.
var (
	sortKeys      = []string{"1", "2", "3", "4", "5"}
	multiSortKeys = []string{"!", "@", "#", "$", "%"}
)

type refreshedMsg struct{ err error }

type mutatedMsg struct {
	action string
	err    error
}

// confirmation is a pending destructive action.
type confirmation struct {
	prompt string
	action string
	run    func(ctx context.Context) error
}

type Model struct {
	ctx     context.Context
	session *listview.Session

	mode        mode
	cursor      int
	searchInput textinput.Model
	form        *productForm
	confirm     *confirmation
	showMetrics bool
	// expanded is the ID of the product whose detail line is open, 0 when none.
	expanded int
	// categoryCursor is the highlighted row of the category picker.
	categoryCursor int

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, session *listview.Session) Model {
	si := textinput.New()
	si.Placeholder = "search by name..."
	si.CharLimit = 100

	return Model{
		ctx:         ctx,
		session:     session,
		searchInput: si,
		width:       100,
		height:      30,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.session.Refresh(m.ctx)}
	}
}

func (m Model) mutate(action string, run func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg{action: action, err: run(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "refreshed"
		}
		m.clampCursor()
		return m, nil

	case mutatedMsg:
		return m.handleMutated(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeCategories:
			return m.updateCategories(msg)
		}
	}

	return m, nil
}

func (m Model) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.err = nil
		m.status = msg.action
		if m.mode == modeForm {
			m.form = nil
			m.mode = modeList
		}
		m.clampCursor()

		return m, nil
	}

	if m.mode == modeForm {
		var verrs product.ValidationErrors
		if errors.As(msg.err, &verrs) {
			m.form.errors = verrs
			return m, nil
		}

		var apiErr *client.APIError
		if errors.As(msg.err, &apiErr) && len(apiErr.Errors) > 0 {
			m.form.errors = apiErr.Errors
			return m, nil
		}
	}

	m.err = msg.err

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if i := slices.Index(sortKeys, key); i != -1 {
		return m.clickHeader(product.SortableFields[i], false), nil
	}
	if i := slices.Index(multiSortKeys, key); i != -1 {
		return m.clickHeader(product.SortableFields[i], true), nil
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.session.View().Page.Items)-1 {
			m.cursor++
		}

	case "left", "h":
		if m.session.PrevPage() {
			m.cursor = 0
		}

	case "right", "l":
		if m.session.NextPage() {
			m.cursor = 0
		}

	case "/":
		m.searchInput.Focus()
		m.mode = modeSearch

	case "c":
		m.setFilter(nextCategory(m.session.Filter(), m.session.Categories()))

	case "f":
		m.categoryCursor = 0
		m.mode = modeCategories

	case "enter":
		if p, ok := m.selected(); ok {
			m.expanded = lo.Ternary(m.expanded == p.ID, 0, p.ID)
		}

	case "s":
		m.setFilter(nextStock(m.session.Filter()))

	case "x":
		m.searchInput.SetValue("")
		m.session.ClearFilters()
		m.cursor = 0

	case "m":
		m.showMetrics = !m.showMetrics

	case "r":
		m.status = "refreshing..."
		return m, m.refresh()

	case "n":
		f := newProductForm(nil)
		m.form = &f
		m.mode = modeForm

	case "e":
		if p, ok := m.selected(); ok {
			f := newProductForm(&p)
			m.form = &f
			m.mode = modeForm
		}

	case "d":
		if p, ok := m.selected(); ok {
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Delete %q?", p.Name),
				action: fmt.Sprintf("deleted %q", p.Name),
				run:    func(ctx context.Context) error { return m.session.Delete(ctx, p.ID) },
			}
			m.mode = modeConfirm
		}

	case "t":
		if p, ok := m.selected(); ok {
			target := lo.Ternary(p.Quantity == 0, "in stock", "out of stock")
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Mark %q %s?", p.Name, target),
				action: fmt.Sprintf("marked %q %s", p.Name, target),
				run:    func(ctx context.Context) error { return m.session.ToggleStock(ctx, p) },
			}
			m.mode = modeConfirm
		}
	}

	return m, nil
}

func (m Model) clickHeader(field string, multiKey bool) Model {
	if err := m.session.RequestSort(field, multiKey); err != nil {
		m.err = err
		return m
	}
	m.cursor = 0

	return m
}

func (m *Model) setFilter(filter product.Filter) {
	m.session.SetFilter(filter)
	m.cursor = 0
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	filter := m.session.Filter()
	if filter.Name != m.searchInput.Value() {
		filter.Name = m.searchInput.Value()
		m.setFilter(filter)
	}

	return m, cmd
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.session.Categories()

	switch msg.String() {
	case "enter", "esc", "f", "q":
		m.mode = modeList

	case "up", "k":
		if m.categoryCursor > 0 {
			m.categoryCursor--
		}

	case "down", "j":
		if m.categoryCursor < len(categories)-1 {
			m.categoryCursor++
		}

	case " ", "x":
		if m.categoryCursor < len(categories) {
			m.setFilter(m.session.Filter().ToggleCategory(categories[m.categoryCursor]))
		}
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm

	switch msg.String() {
	case "y", "enter":
		m.confirm = nil
		m.mode = modeList
		return m, m.mutate(c.action, c.run)

	case "n", "esc", "q":
		m.confirm = nil
		m.mode = modeList
	}

	return m, nil
}

func (m Model) selected() (product.Product, bool) {
	items := m.session.View().Page.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return product.Product{}, false
	}

	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	m.cursor = lo.Clamp(m.cursor, 0, max(len(m.session.View().Page.Items)-1, 0))
}

// nextCategory cycles the category filter through "any" and every category
// present in the snapshot.
func nextCategory(filter product.Filter, categories []string) product.Filter {
	if len(categories) == 0 {
		filter.Categories = nil
		return filter
	}

	if len(filter.Categories) != 1 {
		filter.Categories = []string{categories[0]}
		return filter
	}

	i := slices.Index(categories, filter.Categories[0])
	if i == -1 || i == len(categories)-1 {
		filter.Categories = nil
	} else {
		filter.Categories = []string{categories[i+1]}
	}

	return filter
}

// nextStock cycles the availability filter: any, in stock, out of stock.
func nextStock(filter product.Filter) product.Filter {
	switch {
	case filter.InStock == nil:
		filter.InStock = lo.ToPtr(true)
	case *filter.InStock:
		filter.InStock = lo.ToPtr(false)
	default:
		filter.InStock = nil
	}

	return filter
}
