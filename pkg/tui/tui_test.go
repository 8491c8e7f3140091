package tui

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/db"
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/weather"
)

type fixedReader struct {
	reading weather.Reading
}

func (f fixedReader) FetchCurrent(context.Context) weather.Reading { return f.reading }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB, err := db.OpenDBConnection(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

func newTestModel(t *testing.T, reading weather.Reading, added *[]diary.Entry) model {
	t.Helper()
	m, err := initModel(Config{
		DB:       setupTestDB(t),
		UserID:   "user-1",
		Location: "Fortaleza, CE",
		Reader:   fixedReader{reading: reading},
		OnEntryAdded: func(e diary.Entry) {
			if added != nil {
				*added = append(*added, e)
			}
		},
	})
	if err != nil {
		t.Fatalf("initModel failed: %v", err)
	}
	return m
}

// collectEvents runs cmd and returns the capture events it produced.
func collectEvents(cmd tea.Cmd) []capture.Event {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var events []capture.Event
		for _, c := range msg {
			events = append(events, collectEvents(c)...)
		}
		return events
	case capture.Event:
		return []capture.Event{msg}
	default:
		return nil
	}
}

// send delivers msg and then every capture event its command yields, until settled.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		updated, cmd := m.Update(next)
		m = updated.(model)
		for _, ev := range collectEvents(cmd) {
			queue = append(queue, ev)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCaptureFlow(t *testing.T) {
	var added []diary.Entry
	m := newTestModel(t, weather.Available(28, 65, "stub", time.Time{}), &added)

	m = send(t, m, key("n"))
	if m.session.State() != capture.Ready {
		t.Fatalf("Expected Ready after the reading arrived, got %s", m.session.State())
	}
	if !strings.Contains(m.View(), "28.0°C") {
		t.Errorf("Expected the reading in the form view")
	}

	m = send(t, m, key("Irrigação manual"))
	if got := m.session.Draft().Action; got != "Irrigação manual" {
		t.Fatalf("Expected typed action in the draft, got %q", got)
	}

	m = send(t, m, key("tab"))
	m = send(t, m, key("setor 2"))
	if got := m.session.Draft().Note; got != "setor 2" {
		t.Fatalf("Expected typed note in the draft, got %q", got)
	}

	m = send(t, m, key("ctrl+s"))
	if m.session.State() != capture.Succeeded {
		t.Fatalf("Expected Succeeded, got %s", m.session.State())
	}
	if len(added) != 1 {
		t.Fatalf("Expected OnEntryAdded once, got %d", len(added))
	}
	if m.notice == nil || m.notice.Kind != capture.SubmissionSucceeded {
		t.Errorf("Expected a success notice, got %#v", m.notice)
	}
	if m.actionInput.Value() != "" || m.noteInput.Value() != "" {
		t.Errorf("Form inputs should be cleared after success")
	}

	updated, _ := m.Update(listEntries(m.db, m.userID)())
	m = updated.(model)
	if len(m.entries) != 1 || m.entries[0].Action != "Irrigação manual" {
		t.Errorf("Expected the new entry in the list, got %#v", m.entries)
	}
}

func TestCaptureFlow_EmptyActionWithFallback(t *testing.T) {
	var added []diary.Entry
	m := newTestModel(t, weather.Unavailable("offline"), &added)

	m = send(t, m, key("n"))
	if m.notice == nil || m.notice.Kind != capture.WeatherUnavailable {
		t.Fatalf("Expected the weather advisory, got %#v", m.notice)
	}
	if !strings.Contains(m.View(), "unavailable") {
		t.Errorf("Expected the form to show the reading as unavailable")
	}

	m = send(t, m, key("ctrl+s"))
	if m.session.State() != capture.Ready {
		t.Errorf("Expected Ready after validation failure, got %s", m.session.State())
	}
	if m.notice == nil || m.notice.Kind != capture.ValidationFailed {
		t.Errorf("Expected a validation notice, got %#v", m.notice)
	}
	if len(added) != 0 {
		t.Errorf("Nothing should be stored")
	}
}

func TestDismissClearsForm(t *testing.T) {
	m := newTestModel(t, weather.Unavailable("offline"), nil)

	m = send(t, m, key("n"))
	m = send(t, m, key("rascunho"))
	m = send(t, m, key("esc"))

	if m.session.State() != capture.Idle {
		t.Fatalf("Expected Idle after esc, got %s", m.session.State())
	}
	if m.actionInput.Value() != "" {
		t.Errorf("Expected the draft to be discarded, got %q", m.actionInput.Value())
	}

	m = send(t, m, key("n"))
	if m.session.Draft().Action != "" {
		t.Errorf("A new session should start with an empty draft")
	}
}

func TestListKeysIgnoredWhileFormOpen(t *testing.T) {
	m := newTestModel(t, weather.Unavailable("offline"), nil)

	m = send(t, m, key("n"))
	m = send(t, m, key("q"))

	if m.quitting {
		t.Errorf("Typing q into the form must not quit")
	}
	if m.session.Draft().Action != "q" {
		t.Errorf("Expected q to be typed into the action, got %q", m.session.Draft().Action)
	}
}

func TestDeleteEntry(t *testing.T) {
	m := newTestModel(t, weather.Unavailable("offline"), nil)
	entry, err := diary.InsertEntry(context.Background(), m.db, diary.NewEntry{
		UserID: "user-1", Action: "apagar", WeatherLocation: "Fortaleza, CE",
	})
	if err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	updated, _ := m.Update(listEntries(m.db, m.userID)())
	m = updated.(model)

	updated, _ = m.Update(key("d"))
	m = updated.(model)
	if !m.entryDeleting {
		t.Fatalf("Expected delete confirmation")
	}

	updated, _ = m.Update(key("k"))
	m = updated.(model)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	if cmd == nil {
		t.Fatalf("Expected a delete command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(model)
	if len(m.entries) != 0 {
		t.Errorf("Expected the entry to be removed from the list")
	}
	if _, err := diary.GetEntry(context.Background(), m.db, entry.ID); err != diary.ErrEntryNotFound {
		t.Errorf("Expected the entry to be deleted, got %v", err)
	}
}

func TestInitModel_MissingUser(t *testing.T) {
	if _, err := initModel(Config{DB: setupTestDB(t)}); err == nil {
		t.Errorf("Expected an error without a user id")
	}
}

func TestGetDbPragmaList(t *testing.T) {
	testDB := setupTestDB(t)

	name, file := getDbPragmaList(testDB)
	if name != "main" || file != "" {
		t.Errorf("Expected main with no file for an in-memory database, got %q %q", name, file)
	}

	testDB.Close()
	if name, file := getDbPragmaList(testDB); name != "" || file != "" {
		t.Errorf("Expected empty values for a closed database, got %q %q", name, file)
	}
}
