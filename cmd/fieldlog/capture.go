package main

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/fieldlog/pkg/tui"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Open the terminal UI for recording and reviewing entries",
	Long: `Display an interactive terminal UI listing recent entries.

Keys:
  n        open the capture form (weather is fetched when it opens)
  tab      switch between the action and note fields
  ctrl+s   submit the entry
  esc      dismiss the form
  d        delete the selected entry
  q        quit

Set FIELDLOG_DEBUG=1 to write logs to fieldlog-debug.log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCapture()
	},
}

func runCapture() error {
	if cfg.Debug {
		f, err := tea.LogToFile("fieldlog-debug.log", "fieldlog")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	} else {
		// The alt screen owns the terminal.
		log.SetOutput(io.Discard)
	}

	user, err := requireUser()
	if err != nil {
		return err
	}

	dbConn, _, err := openDB()
	if err != nil {
		return err
	}
	defer dbConn.Close()

	reader, err := newWeatherReader()
	if err != nil {
		return err
	}

	return tui.ShowTUI(tui.Config{
		DB:       dbConn,
		UserID:   user,
		Location: cfg.Location.Name,
		Reader:   reader,
	})
}
