package tui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/validate"
)

// Config wires the terminal UI to its collaborators.
type Config struct {
	DB           *sql.DB
	UserID       string
	Location     string
	Reader       capture.WeatherReader
	OnEntryAdded func(diary.Entry)
}

const (
	fieldAction = iota
	fieldNote
)

type model struct {
	entries     []diary.Entry
	entryCursor int

	session      capture.Session
	runner       *capture.Runner
	onEntryAdded func(diary.Entry)
	notice       *capture.Message

	width  int
	height int
	err    error

	db         *sql.DB
	dbFilename string
	userID     string
	location   string

	quitting bool

	fieldFocus  int
	actionInput textinput.Model
	noteInput   textarea.Model
	spinner     spinner.Model

	entryDeleting         bool
	entryDeleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(cfg Config) (model, error) {
	session, err := capture.NewSession(cfg.UserID, cfg.Location)
	if err != nil {
		return model{}, err
	}

	dbFilename := "postgres"
	if _, file := getDbPragmaList(cfg.DB); file != "" {
		dbFilename = filepath.Base(file)
	}

	action := textinput.New()
	action.Placeholder = "What was done (e.g. Irrigação manual)"
	action.CharLimit = validate.MaxActionLength

	note := textarea.New()
	note.Placeholder = "Notes (optional)"
	note.CharLimit = validate.MaxNoteLength
	note.ShowLineNumbers = false
	note.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return model{
		entries: []diary.Entry{},

		session: session,
		runner: &capture.Runner{
			Reader: cfg.Reader,
			Store:  diary.NewStore(cfg.DB),
		},
		onEntryAdded: cfg.OnEntryAdded,

		width:  80,
		height: 24,

		db:         cfg.DB,
		dbFilename: dbFilename,
		userID:     cfg.UserID,
		location:   cfg.Location,

		actionInput: action,
		noteInput:   note,
		spinner:     sp,
	}, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listEntries(m.db, m.userID),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

// Feed a capture event through the session and turn its effects into commands
func (m model) apply(ev capture.Event) (model, tea.Cmd) {
	wasOpen := m.session.State().Open()

	var effects []capture.Effect
	m.session, effects = m.session.Update(ev)

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff := eff.(type) {
		case capture.Notify:
			msg := eff.Message
			m.notice = &msg
		case capture.EntryAdded:
			if m.onEntryAdded != nil {
				m.onEntryAdded(eff.Entry)
			}
			cmds = append(cmds, listEntries(m.db, m.userID))
		case capture.FetchWeather:
			m.resetForm()
			cmds = append(cmds, perform(m.runner, eff), m.spinner.Tick)
		default:
			cmds = append(cmds, perform(m.runner, eff))
		}
	}

	if wasOpen && !m.session.State().Open() {
		m.resetForm()
	}

	return m, tea.Batch(cmds...)
}

func (m *model) resetForm() {
	m.actionInput.Reset()
	m.noteInput.Reset()
	m.fieldFocus = fieldAction
	m.noteInput.Blur()
	m.actionInput.Focus()
}

func (m *model) switchField() {
	if m.fieldFocus == fieldAction {
		m.fieldFocus = fieldNote
		m.actionInput.Blur()
		m.noteInput.Focus()
		return
	}
	m.fieldFocus = fieldAction
	m.noteInput.Blur()
	m.actionInput.Focus()
}

// Processes events like window resize, loaded data, capture results, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case []diary.Entry:
		m.entries = msg
		if m.entryCursor >= len(m.entries) {
			m.entryCursor = 0
		}
		return m, nil

	case entryDeletedMsg:
		for i, e := range m.entries {
			if e.ID == msg.id {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
				break
			}
		}
		if m.entryCursor > 0 && m.entryCursor >= len(m.entries) {
			m.entryCursor--
		}
		return m, nil

	case capture.Event:
		return m.apply(msg)

	case spinner.TickMsg:
		if m.session.State() != capture.LoadingWeather && m.session.State() != capture.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.session.State().Open() {
			return m.updateForm(msg)
		}
		if m.entryDeleting {
			return m.updateDeleteConfirm(msg)
		}
		return m.updateList(msg)

	case time.Time:
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)
	case "esc":
		// The form cannot be cancelled while the entry is being written
		if m.session.Submitting() {
			return m, nil
		}
		return m.apply(capture.Dismissed{})
	case "ctrl+s":
		m.notice = nil
		return m.apply(capture.Submitted{})
	case "tab", "shift+tab":
		m.switchField()
		return m, nil
	}

	if m.session.Submitting() {
		return m, nil
	}

	var cmd tea.Cmd
	var ev capture.Event
	if m.fieldFocus == fieldAction {
		m.actionInput, cmd = m.actionInput.Update(msg)
		ev = capture.ActionChanged{Value: m.actionInput.Value()}
	} else {
		m.noteInput, cmd = m.noteInput.Update(msg)
		ev = capture.NoteChanged{Value: m.noteInput.Value()}
	}

	m, applyCmd := m.apply(ev)
	return m, tea.Batch(cmd, applyCmd)
}

func (m model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.entryDeleteConfirmIdx = 0
	case "down", "j":
		m.entryDeleteConfirmIdx = 1
	case "enter":
		m.entryDeleting = false
		if m.entryDeleteConfirmIdx == 0 && m.entryCursor < len(m.entries) {
			return m, deleteEntry(m.db, m.entries[m.entryCursor].ID)
		}
	case "esc":
		m.entryDeleting = false
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "up", "k":
		if m.entryCursor > 0 {
			m.entryCursor--
		}

	case "down", "j":
		if m.entryCursor < len(m.entries)-1 {
			m.entryCursor++
		}

	case "n":
		m.notice = nil
		return m.apply(capture.Activated{})

	case "d":
		if len(m.entries) > 0 {
			m.entryDeleteConfirmIdx = 1
			m.entryDeleting = true
		}

	case "r":
		return m, listEntries(m.db, m.userID)
	}
	return m, nil
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Field diary closed.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleBar := titleStyle.Width(m.width).Render("fieldlog - irrigation field diary")

	leftWidth, rightWidth := m.columnWidths()
	panelHeightPadding := 3

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(m.height - panelHeightPadding).
		Render(m.viewEntries(leftWidth))

	var right string
	switch {
	case m.session.State().Open():
		right = m.viewForm(rightWidth)
	case m.entryDeleting:
		right = m.viewDeleteConfirm(rightWidth)
	default:
		right = m.viewDetail(rightWidth)
	}
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(right)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	footerText := "\n↑/↓ to navigate • n new entry • d delete • r reload • q quit"
	switch state := m.session.State(); {
	case state.CanSubmit():
		footerText = "\ntab switch field • ctrl+s save • esc cancel"
	case state.Open():
		footerText = "\ntab switch field • esc cancel"
	}
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

func (m model) viewEntries(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("  Entries"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString("No entries yet. Press 'n' to record one.\n")
	}

	availableWidth := width - bordersAndPaddingWidth - 2 - 1
	for i, entry := range m.entries {
		stamp := time.Unix(int64(entry.CreatedAt), 0).Local().Format("02/01 15:04")
		line := stamp + " " + entry.Action
		if i == m.entryCursor && !m.session.State().Open() {
			b.WriteString("> " + selectedStyle.Render(m.marqueeText(line, availableWidth)) + "\n")
			continue
		}
		b.WriteString("  " + inactiveStyle.Render(truncate(line, availableWidth)) + "\n")
	}

	b.WriteString("\n" + fmt.Sprintf("Database: %v\nLocation: %v\n",
		TextStatusColorize(m.dbFilename, 1), TextStatusColorize(m.location, 0)))
	return b.String()
}

func (m model) viewDetail(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Entry"))
	b.WriteString("\n\n")

	b.WriteString(m.viewNotice())

	if len(m.entries) == 0 || m.entryCursor >= len(m.entries) {
		b.WriteString("Select an entry to view details.")
		return b.String()
	}

	e := m.entries[m.entryCursor]
	b.WriteString(labelStyle.Render("Action: ") + valueStyle.Render(e.Action) + "\n\n")
	b.WriteString(labelStyle.Render("Recorded: ") +
		valueStyle.Render(time.Unix(int64(e.CreatedAt), 0).Local().Format("2006-01-02 15:04")) + "\n")
	b.WriteString(labelStyle.Render("Weather: ") + valueStyle.Render(formatReading(e)) + "\n\n")
	if e.Note != nil {
		b.WriteString(noteStyle.Width(width - bordersAndPaddingWidth).Render(*e.Note))
	} else {
		b.WriteString(footerStyle.Render("No note."))
	}
	return b.String()
}

func (m model) viewDeleteConfirm(_ int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Delete Entry"))
	b.WriteString("\n\n")
	if m.entryCursor < len(m.entries) {
		b.WriteString("Action: " + errorStyle.Render(m.entries[m.entryCursor].Action) + "\n\n")
	}
	yesOpt, noOpt := "Yes", "No"
	if m.entryDeleteConfirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
	b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	return b.String()
}

func (m model) viewForm(width int) string {
	inputWidth := width - bordersAndPaddingWidth
	m.actionInput.Width = inputWidth
	m.noteInput.SetWidth(inputWidth)

	var b strings.Builder
	b.WriteString(subtitleStyle.Render("New Entry"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Weather at "+m.location+": "))
	if reading, ok := m.session.Reading(); !ok {
		b.WriteString(m.spinner.View() + " fetching current conditions...")
	} else if reading.IsFallback() {
		b.WriteString(warningStyle.Render("unavailable"))
	} else {
		b.WriteString(valueStyle.Render(reading.String()))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Action") + " " +
		counterStyle.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.actionInput.Value()), validate.MaxActionLength)) + "\n")
	b.WriteString(m.actionInput.View() + "\n\n")

	b.WriteString(labelStyle.Render("Note") + " " +
		counterStyle.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.noteInput.Value()), validate.MaxNoteLength)) + "\n")
	b.WriteString(m.noteInput.View() + "\n\n")

	if m.session.Submitting() {
		b.WriteString(m.spinner.View() + " saving...\n")
	}
	b.WriteString(m.viewNotice())
	return b.String()
}

func (m model) viewNotice() string {
	if m.notice == nil {
		return ""
	}
	style := successStyle
	switch {
	case m.notice.IsError():
		style = errorStyle
	case m.notice.Kind == capture.WeatherUnavailable:
		style = warningStyle
	}
	return style.Render(m.notice.Text()) + "\n\n"
}

func formatReading(e diary.Entry) string {
	if !e.HasReading() {
		return "not recorded"
	}
	return fmt.Sprintf("%.1f°C, %.0f%% humidity (%s)", *e.Temperature, *e.Humidity, e.WeatherLocation)
}

// ShowTUI creates and starts the Bubble Tea TUI
func ShowTUI(cfg Config) error {
	m, err := initModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
