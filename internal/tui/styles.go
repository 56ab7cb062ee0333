package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/floware/stockview/internal/product"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	sortedHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("39"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("255"))

	inStockTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	lowStockTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	outOfStockTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stockTags = map[product.StockStatus]lipgloss.Style{
		product.InStock:    inStockTag,
		product.LowStock:   lowStockTag,
		product.OutOfStock: outOfStockTag,
	}

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2)
)
