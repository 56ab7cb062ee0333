package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/floware/stockview/internal/product"
)

// form field indices
const (
	fieldName = iota
	fieldCategory
	fieldPrice
	fieldQuantity
	fieldCount
)

var (
	fieldLabels = [fieldCount]string{"Name", "Category", "Price", "Quantity"}
	fieldKeys   = [fieldCount]string{"name", "category", "price", "quantity"}
)

type productForm struct {
	// id is 0 for a new product.
	id     int
	inputs [fieldCount]textinput.Model
	focus  int
	errors product.ValidationErrors
}

func newProductForm(p *product.Product) productForm {
	f := productForm{}

	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 100
		in.Width = 32
		f.inputs[i] = in
	}
	f.inputs[fieldPrice].Placeholder = "0.00"
	f.inputs[fieldQuantity].Placeholder = "0"

	if p != nil {
		f.id = p.ID
		f.inputs[fieldName].SetValue(p.Name)
		f.inputs[fieldCategory].SetValue(p.Category)
		f.inputs[fieldPrice].SetValue(strconv.FormatFloat(p.Price, 'f', -1, 64))
		f.inputs[fieldQuantity].SetValue(strconv.Itoa(p.Quantity))
		for i := range f.inputs {
			f.inputs[i].CursorEnd()
		}
	}

	f.inputs[fieldName].Focus()

	return f
}

func (f *productForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	f.inputs[f.focus].CursorEnd()
}

// draft reads the inputs. Numbers that do not parse are reported the same
// way as failed validation.
func (f *productForm) draft() (product.Draft, error) {
	d := product.Draft{
		Name:     f.inputs[fieldName].Value(),
		Category: f.inputs[fieldCategory].Value(),
	}
	errs := product.ValidationErrors{}

	if v := strings.TrimSpace(f.inputs[fieldPrice].Value()); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs["price"] = "Price must be a number"
		}
		d.Price = price
	}

	if v := strings.TrimSpace(f.inputs[fieldQuantity].Value()); v != "" {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			errs["quantity"] = "Quantity must be a whole number"
		}
		d.Quantity = quantity
	}

	if err := d.Validate(); err != nil {
		for field, reason := range err.(product.ValidationErrors) {
			if _, ok := errs[field]; !ok {
				errs[field] = reason
			}
		}
	}

	if len(errs) > 0 {
		return d, errs
	}

	return d, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = modeList
		return m, nil

	case "tab", "down":
		f.move(1)
		return m, nil

	case "shift+tab", "up":
		f.move(-1)
		return m, nil

	case "enter":
		d, err := f.draft()
		if err != nil {
			f.errors = err.(product.ValidationErrors)
			return m, nil
		}
		f.errors = nil

		if f.id == 0 {
			return m, m.mutate(fmt.Sprintf("created %q", strings.TrimSpace(d.Name)), func(ctx context.Context) error {
				_, err := m.session.Create(ctx, d)
				return err
			})
		}

		id := f.id
		return m, m.mutate(fmt.Sprintf("updated %q", strings.TrimSpace(d.Name)), func(ctx context.Context) error {
			_, err := m.session.Update(ctx, id, d)
			return err
		})
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	return m, cmd
}

func (m Model) viewForm() string {
	f := m.form

	title := "New Product"
	if f.id != 0 {
		title = fmt.Sprintf("Edit Product #%d", f.id)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i, in := range f.inputs {
		label := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("252"))
		if i == f.focus {
			label = label.Bold(true).Foreground(lipgloss.Color("39"))
		}
		b.WriteString(label.Render(fieldLabels[i]+":") + " " + in.View() + "\n")

		if reason, ok := f.errors[fieldKeys[i]]; ok {
			b.WriteString(strings.Repeat(" ", 11) + errorStyle.Render(reason) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("Enter: save  Esc: cancel  Tab: next field"))

	box := boxStyle.Width(56).Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
