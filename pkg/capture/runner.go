package capture

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/weather"
)

// WeatherReader is satisfied by *weather.Reader.
type WeatherReader interface {
	FetchCurrent(ctx context.Context) weather.Reading
}

// Inserter is satisfied by *diary.Store.
type Inserter interface {
	InsertEntry(ctx context.Context, in diary.NewEntry) (diary.Entry, error)
}

// Runner executes effects against real collaborators.
type Runner struct {
	Reader       WeatherReader
	Store        Inserter
	OnMessage    func(Message)
	OnEntryAdded func(diary.Entry)
}

// Perform runs one effect. Effects that produce a result return the event
// to feed back into the session; Notify and EntryAdded return nil.
func (r *Runner) Perform(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchWeather:
		return WeatherLoaded{Generation: eff.Generation, Reading: r.fetch(ctx)}

	case PersistEntry:
		if r.Store == nil {
			return PersistFailed{Generation: eff.Generation, Err: errors.New("no entry store configured")}
		}
		entry, err := r.Store.InsertEntry(ctx, eff.Entry)
		if err != nil {
			log.Printf("capture: failed to store entry for %s: %v", eff.Entry.UserID, err)
			return PersistFailed{Generation: eff.Generation, Err: err}
		}
		return PersistSucceeded{Generation: eff.Generation, Entry: entry}

	case Notify:
		if r.OnMessage != nil {
			r.OnMessage(eff.Message)
		}
		return nil

	case EntryAdded:
		if r.OnEntryAdded != nil {
			r.OnEntryAdded(eff.Entry)
		}
		return nil
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context) weather.Reading {
	if r.Reader == nil {
		return weather.Unavailable("no weather reader configured")
	}
	return r.Reader.FetchCurrent(ctx)
}

// Dispatch applies ev and synchronously runs every resulting effect,
// feeding produced events back until the session settles.
func (r *Runner) Dispatch(ctx context.Context, s Session, ev Event) Session {
	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		s, effects = s.Update(next)
		for _, eff := range effects {
			if out := r.Perform(ctx, eff); out != nil {
				queue = append(queue, out)
			}
		}
	}
	return s
}

// Outcome summarizes a headless capture.
type Outcome struct {
	State    State
	Entry    *diary.Entry
	Reading  weather.Reading
	Messages []Message
}

// Err returns the reason the capture did not end in Succeeded.
func (o Outcome) Err() error {
	if o.State == Succeeded {
		return nil
	}
	for i := len(o.Messages) - 1; i >= 0; i-- {
		m := o.Messages[i]
		switch m.Kind {
		case ValidationFailed:
			return m.Reason
		case SubmissionFailed:
			if m.Reason != nil {
				return fmt.Errorf("failed to save entry: %w", m.Reason)
			}
			return errors.New("failed to save entry")
		}
	}
	return fmt.Errorf("capture ended in state %s", o.State)
}

// Record runs a whole capture without a UI: activate, wait for the reading,
// fill the draft, submit once.
func (r *Runner) Record(ctx context.Context, userID, location, action, note string) (Outcome, error) {
	s, err := NewSession(userID, location)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	hook := r.OnMessage
	inner := *r
	inner.OnMessage = func(m Message) {
		out.Messages = append(out.Messages, m)
		if hook != nil {
			hook(m)
		}
	}

	s = inner.Dispatch(ctx, s, Activated{})
	s = inner.Dispatch(ctx, s, ActionChanged{Value: action})
	s = inner.Dispatch(ctx, s, NoteChanged{Value: note})
	s = inner.Dispatch(ctx, s, Submitted{})

	out.State = s.State()
	out.Entry = s.LastEntry()
	out.Reading, _ = s.Reading()
	return out, nil
}
