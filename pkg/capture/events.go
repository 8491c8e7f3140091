package capture

import (
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/weather"
)

// Event is an input to Session.Update.
type Event interface {
	isEvent()
}

// Activated opens the form.
type Activated struct{}

// WeatherLoaded carries the result of the FetchWeather effect with the same Generation.
type WeatherLoaded struct {
	Generation uint64
	Reading    weather.Reading
}

type ActionChanged struct {
	Value string
}

type NoteChanged struct {
	Value string
}

// Submitted is the user pressing submit.
type Submitted struct{}

type PersistSucceeded struct {
	Generation uint64
	Entry      diary.Entry
}

type PersistFailed struct {
	Generation uint64
	Err        error
}

// Dismissed closes the form and discards the draft.
type Dismissed struct{}

func (Activated) isEvent()        {}
func (WeatherLoaded) isEvent()    {}
func (ActionChanged) isEvent()    {}
func (NoteChanged) isEvent()      {}
func (Submitted) isEvent()        {}
func (PersistSucceeded) isEvent() {}
func (PersistFailed) isEvent()    {}
func (Dismissed) isEvent()        {}

// Effect is work requested by Session.Update.
type Effect interface {
	isEffect()
}

// FetchWeather asks for one environmental read. Answer with WeatherLoaded.
type FetchWeather struct {
	Generation uint64
}

// PersistEntry asks for one insert. Answer with PersistSucceeded or PersistFailed.
type PersistEntry struct {
	Generation uint64
	Entry      diary.NewEntry
}

// Notify shows a message to the user.
type Notify struct {
	Message Message
}

// EntryAdded tells the caller that an entry was stored.
type EntryAdded struct {
	Entry diary.Entry
}

func (FetchWeather) isEffect() {}
func (PersistEntry) isEffect() {}
func (Notify) isEffect()       {}
func (EntryAdded) isEffect()   {}
