package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/floware/stockview"
	"github.com/floware/stockview/internal/listview"
	"github.com/floware/stockview/internal/product"
)

type column struct {
	field string
	title string
	width int
	right bool
}

// columns are laid out in product.SortableFields order, followed by the
// stock column which is not sortable.
var columns = []column{
	{field: "id", title: "ID", width: 6, right: true},
	{field: "name", title: "Name", width: 26},
	{field: "category", title: "Category", width: 16},
	{field: "quantity", title: "Qty", width: 8, right: true},
	{field: "price", title: "Price", width: 11, right: true},
	{title: "Stock", width: 12},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeConfirm:
		return m.viewConfirm()
	case modeCategories:
		return m.viewCategories()
	}

	v := m.session.View()

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stockview"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d products  %s", v.Matching, len(m.session.Products()), describeFilter(v.Filter))))
	b.WriteString("\n")

	b.WriteString(renderHeader(v.Keys) + "\n")

	for i, p := range v.Page.Items {
		b.WriteString(m.renderRow(p, i == m.cursor) + "\n")
		if p.ID == m.expanded {
			b.WriteString(renderDetails(p) + "\n")
		}
	}
	if len(v.Page.Items) == 0 {
		b.WriteString(dimStyle.Render("  no products") + "\n")
	}

	b.WriteString("\n" + renderPager(v) + "\n")

	if m.showMetrics {
		b.WriteString("\n" + renderMetrics(m.session.Metrics()) + "\n")
	}

	b.WriteString(m.renderStatus())

	return b.String()
}

func renderHeader(keys stockview.SortKeys) string {
	cells := lo.Map(columns, func(c column, i int) string {
		if c.field == "" {
			return headerStyle.Render(pad(c.title, c.width, false))
		}

		title := strconv.Itoa(i+1) + " " + c.title
		dir, sorted := keys.DirectionOf(c.field)
		if !sorted {
			return headerStyle.Render(pad(title, c.width, false))
		}

		title += " " + lo.Ternary(dir == stockview.DirectionASC, "▲", "▼")

		return sortedHeaderStyle.Render(pad(title, c.width-3, false)) +
			badgeStyle.Render(sortBadge(keys, c.field)) +
			headerStyle.Render("  ")
	})

	return strings.Join(cells, headerStyle.Render(" "))
}

// sortBadge is the 1-based priority shown next to a sorted column, empty when
// the column is not part of the sort.
func sortBadge(keys stockview.SortKeys, field string) string {
	priority, ok := keys.PriorityOf(field)
	if !ok {
		return ""
	}

	return strconv.Itoa(priority)
}

func (m Model) renderRow(p product.Product, selected bool) string {
	cells := []string{
		strconv.Itoa(p.ID),
		p.Name,
		lo.Ternary(p.Category == "", "-", p.Category),
		strconv.Itoa(p.Quantity),
		fmt.Sprintf("%.2f", p.Price),
		p.Status().String(),
	}

	padded := lo.Map(columns, func(c column, i int) string {
		return pad(cells[i], c.width, c.right)
	})

	if selected {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, selectedStyle.Render(strings.Join(padded, " ")))
	}

	last := len(padded) - 1
	padded[last] = stockTags[p.Status()].Render(padded[last])

	return strings.Join(padded, " ")
}

// renderDetails is the line shown under an expanded row.
func renderDetails(p product.Product) string {
	return dimStyle.Render(fmt.Sprintf("       Created: %s   Last Updated: %s",
		formatDate(p.CreationDate), formatDate(p.UpdateDate)))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("2006-01-02 15:04")
}

func renderPager(v listview.View) string {
	if v.Page.TotalPages == 0 {
		return dimStyle.Render("page 0/0")
	}

	pages := make([]string, 0, len(v.VisiblePages))
	prev := 0
	for _, n := range v.VisiblePages {
		if prev != 0 && n > prev+1 {
			pages = append(pages, dimStyle.Render("…"))
		}
		if n == v.Page.CurrentPage {
			pages = append(pages, currentPageStyle.Render("["+strconv.Itoa(n)+"]"))
		} else {
			pages = append(pages, strconv.Itoa(n))
		}
		prev = n
	}

	return fmt.Sprintf("%s %s %s  %s",
		lo.Ternary(v.Page.HasPrev(), "«", " "),
		strings.Join(pages, " "),
		lo.Ternary(v.Page.HasNext(), "»", " "),
		dimStyle.Render(fmt.Sprintf("page %d/%d", v.Page.CurrentPage, v.Page.TotalPages)),
	)
}

func renderMetrics(metrics product.Metrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Products: %d (%d in stock, %d out of stock)\n",
		metrics.TotalProducts, metrics.TotalProductsInStock, metrics.TotalProductsOutOfStock)
	fmt.Fprintf(&b, "Inventory value: %.2f   Average price: %.2f\n",
		metrics.TotalInventoryValue, metrics.AveragePrice)

	for _, c := range metrics.MetricsByCategory {
		fmt.Fprintf(&b, "\n%s %d in stock, value %.2f, avg %.2f",
			pad(c.Category, 16, false), c.TotalProductsInStock, c.TotalInventoryValue, c.AveragePrice)
	}

	return boxStyle.Render(b.String())
}

func (m Model) viewCategories() string {
	filter := m.session.Filter()
	categories := m.session.Categories()

	var b strings.Builder
	b.WriteString("Filter by category\n")
	if len(categories) == 0 {
		b.WriteString("\n" + dimStyle.Render("no categories"))
	}
	for i, c := range categories {
		line := lo.Ternary(lo.Contains(filter.Categories, c), "[x] ", "[ ] ") + c
		if i == m.categoryCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	b.WriteString("\n\n" + dimStyle.Render("space: toggle  enter/Esc: done"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(b.String()))
}

func (m Model) viewConfirm() string {
	content := fmt.Sprintf("%s\n\n%s", m.confirm.prompt, dimStyle.Render("y/Enter: confirm  n/Esc: cancel"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

func (m Model) renderStatus() string {
	if m.mode == modeSearch {
		return statusBarStyle.Render("Search: ") + m.searchInput.View()
	}

	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render("error: " + m.err.Error())
	case m.status != "":
		line = statusBarStyle.Render(m.status)
	}

	return line + "\n" + helpStyle.Render("  1-5: sort  shift+1-5: add sort  /: search  c: category  f: categories  s: stock  x: clear  ←→: page\n"+
		"  enter: details  n: new  e: edit  d: delete  t: toggle stock  m: metrics  r: refresh  q: quit")
}

func describeFilter(filter product.Filter) string {
	if filter.IsEmpty() {
		return ""
	}

	var parts []string
	if filter.Name != "" {
		parts = append(parts, fmt.Sprintf("name~%q", filter.Name))
	}
	if len(filter.Categories) > 0 {
		parts = append(parts, "category="+strings.Join(filter.Categories, ","))
	}
	if filter.InStock != nil {
		parts = append(parts, lo.Ternary(*filter.InStock, "in stock", "out of stock"))
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func pad(s string, width int, right bool) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}

	fill := strings.Repeat(" ", width-len(runes))
	if right {
		return fill + s
	}

	return s + fill
}
