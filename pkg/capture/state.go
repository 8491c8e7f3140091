// Package capture drives one diary-entry form from activation to submission.
//
// Session.Update is a pure transition function. Side effects (weather fetch,
// persistence, notifications) are returned as Effect values and executed by
// a Runner or by the terminal UI; their results come back as events.
package capture

import (
	"errors"
	"fmt"
)

// State is the visible phase of a capture session. After a failed write the
// session rests in Failed, not Ready; use CanSubmit to gate a submit control.
type State int

const (
	Idle State = iota
	LoadingWeather
	Ready
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingWeather:
		return "loading_weather"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CanSubmit reports whether a Submitted event is acted on. Failed keeps the
// draft and is submittable like Ready, so a form gated on CanSubmit offers
// the retry.
func (s State) CanSubmit() bool {
	return s == Ready || s == Failed
}

// Open reports whether the form is currently shown to the user.
func (s State) Open() bool {
	switch s {
	case LoadingWeather, Ready, Submitting, Failed:
		return true
	default:
		return false
	}
}

// Draft is the unsaved user input of a session.
type Draft struct {
	Action string
	Note   string
}

var ErrMissingUserID = errors.New("capture: user id is required")

// MessageKind classifies a user-visible notification.
type MessageKind int

const (
	ValidationFailed MessageKind = iota + 1
	WeatherUnavailable
	SubmissionFailed
	SubmissionSucceeded
)

func (k MessageKind) String() string {
	switch k {
	case ValidationFailed:
		return "validation_failed"
	case WeatherUnavailable:
		return "weather_unavailable"
	case SubmissionFailed:
		return "submission_failed"
	case SubmissionSucceeded:
		return "submission_succeeded"
	default:
		return "unknown"
	}
}

// Message is a notification for the user. Reason is set for ValidationFailed.
type Message struct {
	Kind   MessageKind
	Reason error
}

// IsError reports whether the message should be rendered as an error.
func (m Message) IsError() bool {
	return m.Kind == ValidationFailed || m.Kind == SubmissionFailed
}

// Text is the default English wording of the message.
func (m Message) Text() string {
	switch m.Kind {
	case ValidationFailed:
		if m.Reason != nil {
			return "Please check the form: " + m.Reason.Error()
		}
		return "Please check the form."
	case WeatherUnavailable:
		return "Weather data is unavailable. The entry will be saved without a reading."
	case SubmissionFailed:
		return "Could not save the entry. Please try again."
	case SubmissionSucceeded:
		return "Entry saved."
	default:
		return ""
	}
}
