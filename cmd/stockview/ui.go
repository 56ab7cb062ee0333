package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/floware/stockview/internal/client"
	"github.com/floware/stockview/internal/listview"
	"github.com/floware/stockview/internal/logging"
	"github.com/floware/stockview/internal/tui"
)

var uiLogFile string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse the inventory in the terminal",
	Long: `Opens the product list. Keys 1-5 sort by a column, shift+1-5 add the
column as a secondary sort key. Logs go to --log-file since the terminal is
taken by the UI.`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().StringVar(&uiLogFile, "log-file", filepath.Join(os.TempDir(), "stockview-ui.log"), "file to write logs to")
}

func runUI(cmd *cobra.Command, _ []string) error {
	log, err := logging.ToFile(cfg.Logging, uiLogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	api := client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.GetTimeout()))
	session := listview.New(api,
		listview.WithLogger(log.Named("listview")),
		listview.WithPerPage(cfg.UI.PerPage),
	)

	p := tea.NewProgram(tui.NewModel(cmd.Context(), session), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}

	return nil
}
