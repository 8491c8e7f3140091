package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/diary"
)

const recentEntriesLimit = 100

// List the user's recent entries from the database and return tea data
func listEntries(db *sql.DB, userID string) tea.Cmd {
	return func() tea.Msg {
		entries, err := diary.ListEntries(context.Background(), db, userID, recentEntriesLimit)
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []diary.Entry{}
		}
		return entries
	}
}

type entryDeletedMsg struct {
	id uuid.UUID
}

func deleteEntry(db *sql.DB, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if err := diary.DeleteEntry(context.Background(), db, id); err != nil {
			return err
		}
		return entryDeletedMsg{id: id}
	}
}

// Run a capture effect off the event loop; its result comes back as a capture.Event
func perform(runner *capture.Runner, eff capture.Effect) tea.Cmd {
	return func() tea.Msg {
		if ev := runner.Perform(context.Background(), eff); ev != nil {
			return ev
		}
		return nil
	}
}

// getDbPragmaList returns the main database name and file path. Both are
// empty for PostgreSQL or when the pragma fails; the header then omits them.
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	_ = db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	return name, file
}
