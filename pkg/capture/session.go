package capture

import (
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/validate"
	"github.com/unowned-ai/fieldlog/pkg/weather"
)

// Session is the state of one capture form. It is a value; Update returns a new one.
type Session struct {
	UserID   string
	Location string

	state      State
	generation uint64
	draft      Draft
	reading    weather.Reading
	hasReading bool
	last       *diary.Entry
}

// NewSession returns an idle session for userID whose entries are labelled with location.
func NewSession(userID, location string) (Session, error) {
	if userID == "" {
		return Session{}, ErrMissingUserID
	}
	return Session{UserID: userID, Location: location}, nil
}

func (s Session) State() State            { return s.state }
func (s Session) Generation() uint64      { return s.generation }
func (s Session) Draft() Draft            { return s.draft }
func (s Session) Submitting() bool        { return s.state == Submitting }
func (s Session) LastEntry() *diary.Entry { return s.last }

// Reading returns the reading shown in the form; ok is false while loading.
func (s Session) Reading() (weather.Reading, bool) {
	return s.reading, s.hasReading
}

// Update applies ev and returns the next session with the effects to run, in order.
func (s Session) Update(ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case Activated:
		if s.state.Open() {
			return s, nil
		}
		s.generation++
		s.state = LoadingWeather
		s.draft = Draft{}
		s.reading = weather.Reading{}
		s.hasReading = false
		return s, []Effect{FetchWeather{Generation: s.generation}}

	case WeatherLoaded:
		if s.state != LoadingWeather || ev.Generation != s.generation {
			return s, nil
		}
		s.state = Ready
		s.reading = ev.Reading
		s.hasReading = true
		if ev.Reading.IsFallback() {
			return s, []Effect{Notify{Message: Message{Kind: WeatherUnavailable}}}
		}
		return s, nil

	case ActionChanged:
		if s.editable() {
			s.draft.Action = ev.Value
		}
		return s, nil

	case NoteChanged:
		if s.editable() {
			s.draft.Note = ev.Value
		}
		return s, nil

	case Submitted:
		if !s.state.CanSubmit() {
			return s, nil
		}
		action, note, err := validate.ValidateDraft(s.draft.Action, s.draft.Note)
		if err != nil {
			s.state = Ready
			return s, []Effect{Notify{Message: Message{Kind: ValidationFailed, Reason: err}}}
		}
		temperature, humidity := s.reading.Pointers()
		s.state = Submitting
		return s, []Effect{PersistEntry{
			Generation: s.generation,
			Entry: diary.NewEntry{
				UserID:          s.UserID,
				Action:          action,
				Note:            note,
				Temperature:     temperature,
				Humidity:        humidity,
				WeatherLocation: s.Location,
			},
		}}

	case PersistSucceeded:
		if s.state != Submitting || ev.Generation != s.generation {
			return s, nil
		}
		entry := ev.Entry
		s.state = Succeeded
		s.draft = Draft{}
		s.last = &entry
		return s, []Effect{
			Notify{Message: Message{Kind: SubmissionSucceeded}},
			EntryAdded{Entry: entry},
		}

	case PersistFailed:
		if s.state != Submitting || ev.Generation != s.generation {
			return s, nil
		}
		s.state = Failed
		return s, []Effect{Notify{Message: Message{Kind: SubmissionFailed, Reason: ev.Err}}}

	case Dismissed:
		if !s.state.Open() {
			return s, nil
		}
		s.generation++
		s.state = Idle
		s.draft = Draft{}
		s.reading = weather.Reading{}
		s.hasReading = false
		return s, nil
	}

	return s, nil
}

func (s Session) editable() bool {
	switch s.state {
	case LoadingWeather, Ready, Failed:
		return true
	default:
		return false
	}
}
