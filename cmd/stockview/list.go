package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/floware/stockview"
	"github.com/floware/stockview/internal/client"
	"github.com/floware/stockview/internal/product"
)

var (
	listSort     []string
	listCategory []string
	listSearch   string
	listPage     int
	listPerPage  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the product list",
	Long: `Fetches every product, then filters, sorts and paginates the list locally.

Example:
  stockview list --sort "category asc,price desc" --per-page 20`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSliceVar(&listSort, "sort", nil, `sort keys as "field asc|desc", highest priority first`)
	listCmd.Flags().StringSliceVar(&listCategory, "category", nil, "only show these categories")
	listCmd.Flags().StringVar(&listSearch, "search", "", "only show names containing this text")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to print")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "page size, -1 for everything (default ui.per_page)")
}

func runList(cmd *cobra.Command, _ []string) error {
	keys, err := stockview.ParseSort(listSort, product.SortMapping)
	if err != nil {
		return err
	}

	api := client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.GetTimeout()))
	products, err := api.List(cmd.Context())
	if err != nil {
		return err
	}

	filter := product.Filter{Name: listSearch, Categories: listCategory}
	sorted, err := product.Sort(filter.Apply(products), keys)
	if err != nil {
		return err
	}

	perPage := lo.Ternary(listPerPage == 0, cfg.UI.PerPage, listPerPage)
	page := stockview.Paginate(stockview.NewPager().WithPage(listPage).WithPerPage(perPage), sorted)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tName\tCategory\tQuantity\tPrice\tStock\t")
	for _, p := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\t\n", p.ID, p.Name, p.Category, p.Quantity, p.Price, p.Status())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\npage %d/%d, %d products", page.CurrentPage, page.TotalPages, page.TotalItems)
	if len(keys) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", sorted by %s", keys.ToSQL())
	}
	fmt.Fprintln(cmd.OutOrStdout())

	return nil
}
