package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/unowned-ai/fieldlog/pkg/db"
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/validate"
	"github.com/unowned-ai/fieldlog/pkg/weather"
)

type fakeReader struct {
	reading weather.Reading
	calls   int
}

func (f *fakeReader) FetchCurrent(context.Context) weather.Reading {
	f.calls++
	return f.reading
}

type fakeStore struct {
	inserted []diary.NewEntry
	err      error
}

func (f *fakeStore) InsertEntry(_ context.Context, in diary.NewEntry) (diary.Entry, error) {
	f.inserted = append(f.inserted, in)
	if f.err != nil {
		return diary.Entry{}, f.err
	}
	return diary.Entry{
		UserID:          in.UserID,
		Action:          in.Action,
		Note:            in.Note,
		Temperature:     in.Temperature,
		Humidity:        in.Humidity,
		WeatherLocation: in.WeatherLocation,
	}, nil
}

func TestRunner_EndToEndSuccess(t *testing.T) {
	reader := &fakeReader{reading: available()}
	store := &fakeStore{}
	var added []diary.Entry
	var messages []Message

	r := &Runner{
		Reader:       reader,
		Store:        store,
		OnMessage:    func(m Message) { messages = append(messages, m) },
		OnEntryAdded: func(e diary.Entry) { added = append(added, e) },
	}
	ctx := context.Background()

	s := r.Dispatch(ctx, newTestSession(t), Activated{})
	if s.State() != Ready {
		t.Fatalf("Expected Ready once weather resolved, got %s", s.State())
	}
	s = r.Dispatch(ctx, s, ActionChanged{Value: "Irrigação manual"})
	s = r.Dispatch(ctx, s, NoteChanged{Value: ""})
	s = r.Dispatch(ctx, s, Submitted{})

	if s.State() != Succeeded || s.State().Open() {
		t.Fatalf("Expected a closed Succeeded session, got %s", s.State())
	}
	if len(store.inserted) != 1 {
		t.Fatalf("Expected exactly one insert, got %d", len(store.inserted))
	}
	in := store.inserted[0]
	if in.Action != "Irrigação manual" || in.Note != nil {
		t.Errorf("Unexpected action/note %q/%v", in.Action, in.Note)
	}
	if in.Temperature == nil || *in.Temperature != 28 || in.Humidity == nil || *in.Humidity != 65 {
		t.Errorf("Expected 28/65, got %v/%v", in.Temperature, in.Humidity)
	}
	if len(added) != 1 {
		t.Errorf("Expected OnEntryAdded exactly once, got %d", len(added))
	}
	if len(messages) != 1 || messages[0].Kind != SubmissionSucceeded {
		t.Errorf("Expected a single success message, got %v", messages)
	}
	if reader.calls != 1 {
		t.Errorf("Expected one weather fetch, got %d", reader.calls)
	}
}

func TestRunner_EndToEndValidationFailure(t *testing.T) {
	store := &fakeStore{}
	var messages []Message

	r := &Runner{
		Reader:    &fakeReader{reading: weather.Unavailable("timeout")},
		Store:     store,
		OnMessage: func(m Message) { messages = append(messages, m) },
	}
	ctx := context.Background()

	s := r.Dispatch(ctx, newTestSession(t), Activated{})
	if len(messages) != 1 || messages[0].Kind != WeatherUnavailable {
		t.Fatalf("Expected the weather advisory, got %v", messages)
	}

	s = r.Dispatch(ctx, s, ActionChanged{Value: ""})
	s = r.Dispatch(ctx, s, Submitted{})

	if s.State() != Ready {
		t.Errorf("Expected Ready after validation failure, got %s", s.State())
	}
	if len(store.inserted) != 0 {
		t.Errorf("Expected no insert, got %d", len(store.inserted))
	}
	last := messages[len(messages)-1]
	if last.Kind != ValidationFailed || !errors.Is(last.Reason, validate.ErrEmptyAction) {
		t.Errorf("Expected ValidationFailed(EmptyAction), got %#v", last)
	}
}

func TestRunner_PersistFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	var added int

	r := &Runner{
		Reader:       &fakeReader{reading: available()},
		Store:        store,
		OnEntryAdded: func(diary.Entry) { added++ },
	}

	out, err := r.Record(context.Background(), "user-1", testLocation, "Irrigação", "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if out.State != Failed {
		t.Errorf("Expected Failed, got %s", out.State)
	}
	if out.Err() == nil {
		t.Errorf("Expected an error from a failed outcome")
	}
	if added != 0 {
		t.Errorf("OnEntryAdded must not fire on failure")
	}
}

func TestRunner_PerformWithoutCollaborators(t *testing.T) {
	r := &Runner{}
	ctx := context.Background()

	ev := r.Perform(ctx, FetchWeather{Generation: 3})
	loaded, ok := ev.(WeatherLoaded)
	if !ok || loaded.Generation != 3 || !loaded.Reading.IsFallback() {
		t.Errorf("Expected a fallback WeatherLoaded for generation 3, got %#v", ev)
	}

	ev = r.Perform(ctx, PersistEntry{Generation: 3})
	if _, ok := ev.(PersistFailed); !ok {
		t.Errorf("Expected PersistFailed without a store, got %#v", ev)
	}

	if ev := r.Perform(ctx, Notify{}); ev != nil {
		t.Errorf("Notify should not produce an event, got %#v", ev)
	}
}

func TestRecord_WithDiaryStore(t *testing.T) {
	testDB, err := db.OpenDBConnection(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer testDB.Close()
	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	var added []diary.Entry
	r := &Runner{
		Reader:       &fakeReader{reading: weather.Unavailable("offline")},
		Store:        diary.NewStore(testDB),
		OnEntryAdded: func(e diary.Entry) { added = append(added, e) },
	}

	out, err := r.Record(context.Background(), "user-1", testLocation, "Irrigação manual", "  ")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := out.Err(); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if out.Entry == nil {
		t.Fatalf("Expected the stored entry in the outcome")
	}
	if out.Entry.Temperature != nil || out.Entry.Humidity != nil || out.Entry.Note != nil {
		t.Errorf("Expected NULL note and reading, got %#v", out.Entry)
	}
	if len(out.Messages) != 2 || out.Messages[0].Kind != WeatherUnavailable || out.Messages[1].Kind != SubmissionSucceeded {
		t.Errorf("Unexpected messages %v", out.Messages)
	}
	if len(added) != 1 || added[0].ID != out.Entry.ID {
		t.Errorf("Expected OnEntryAdded once with the stored entry")
	}

	stored, err := diary.GetEntry(context.Background(), testDB, out.Entry.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if stored.WeatherLocation != testLocation {
		t.Errorf("Expected location %q, got %q", testLocation, stored.WeatherLocation)
	}
}

func TestRecord_ValidationOutcome(t *testing.T) {
	store := &fakeStore{}
	r := &Runner{Reader: &fakeReader{reading: available()}, Store: store}

	out, err := r.Record(context.Background(), "user-1", testLocation, "", "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !errors.Is(out.Err(), validate.ErrEmptyAction) {
		t.Errorf("Expected ErrEmptyAction, got %v", out.Err())
	}
	if len(store.inserted) != 0 {
		t.Errorf("Expected no insert")
	}

	if _, err := r.Record(context.Background(), "", testLocation, "x", ""); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("Expected ErrMissingUserID, got %v", err)
	}
}
