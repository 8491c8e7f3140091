package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/diary"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage diary entries",
	Long:  `Provides commands to record, list, view and delete irrigation diary entries.`,
}

var addEntryCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new diary entry with the current weather",
	Long: `Fetches the current temperature and humidity for the monitoring site, then records
the entry together with that reading. If the weather cannot be fetched the entry is
still saved, without a reading, and a warning is printed.

Without --action and with an interactive terminal, the capture form is opened instead.

Example:
  fieldlog entries add --action "Opened valve 3 for 20 minutes" --note "north beds looked dry"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")
		note, _ := cmd.Flags().GetString("note")

		if !cmd.Flags().Changed("action") && term.IsTerminal(int(os.Stdin.Fd())) {
			return runCapture()
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

		runner := &capture.Runner{
			Reader: reader,
			Store:  diary.NewStore(dbConn),
			OnMessage: func(m capture.Message) {
				if m.Kind == capture.WeatherUnavailable {
					fmt.Fprintf(os.Stderr, "Warning: %s\n", m.Text())
				}
			},
		}

		out, err := runner.Record(cmd.Context(), user, cfg.Location.Name, action, note)
		if err != nil {
			return err
		}
		if err := out.Err(); err != nil {
			return err
		}

		fmt.Println("Entry recorded successfully:")
		printEntry(*out.Entry)
		return nil
	},
}

var listEntriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent diary entries",
	Long:  `Lists the most recent entries of the current user, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		user, err := requireUser()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entries, err := diary.ListEntries(cmd.Context(), dbConn, user, limit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Printf("No entries found for user '%s'.\n", user)
			return nil
		}

		fmt.Printf("Entries for user '%s':\n", user)
		fmt.Println("------------------------------------------------------------")
		for _, e := range entries {
			fmt.Printf("%s  %s  [%s]\n", formatTimestamp(e.CreatedAt), e.Action, formatReading(e.Temperature, e.Humidity))
			fmt.Printf("  ID: %s\n", e.ID)
		}
		fmt.Println("------------------------------------------------------------")
		return nil
	},
}

var getEntryCmd = &cobra.Command{
	Use:   "get [entry-id]",
	Short: "Show a single diary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := diary.GetEntry(cmd.Context(), dbConn, entryID)
		if err != nil {
			if errors.Is(err, diary.ErrEntryNotFound) {
				return fmt.Errorf("entry not found: %s", entryID)
			}
			return fmt.Errorf("failed to get entry: %w", err)
		}

		printEntry(entry)
		return nil
	},
}

var deleteEntryCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a diary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := diary.DeleteEntry(cmd.Context(), dbConn, entryID); err != nil {
			if errors.Is(err, diary.ErrEntryNotFound) {
				return fmt.Errorf("entry not found: %s", entryID)
			}
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		log.Printf("entries: deleted %s", entryID)
		fmt.Printf("Entry %s deleted successfully.\n", entryID)
		return nil
	},
}

func initEntriesCmd() {
	addEntryCmd.Flags().String("action", "", "What was done (required, at most 200 characters)")
	addEntryCmd.Flags().String("note", "", "Optional free-text note (at most 1000 characters)")

	listEntriesCmd.Flags().Int("limit", diary.DefaultListLimit, "Maximum number of entries to show")

	entriesCmd.AddCommand(addEntryCmd, listEntriesCmd, getEntryCmd, deleteEntryCmd)
}
