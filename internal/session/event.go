package session

import (
	"time"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

// Event is an input to Flow.Transition: a user action or an expired timer.
type Event interface {
	isEvent()
}

// Started renders the initial page.
type Started struct{}

// KeyPressed is raw input; its meaning depends on the current page.
type KeyPressed struct {
	Key string
	At  time.Time
}

type RatingSelected struct {
	Rating model.Rating
}

type SourceSelected struct {
	Source model.Source
	At     time.Time
}

// AdvanceDue fires after the rating acknowledgement delay.
type AdvanceDue struct {
	Generation uint64
}

// CountdownTick fires once per countdown step on the thank-you page.
type CountdownTick struct {
	Generation uint64
}

type ReportRequested struct{}

func (Started) isEvent()         {}
func (KeyPressed) isEvent()      {}
func (RatingSelected) isEvent()  {}
func (SourceSelected) isEvent()  {}
func (AdvanceDue) isEvent()      {}
func (CountdownTick) isEvent()   {}
func (ReportRequested) isEvent() {}

// Effect is a side effect requested by a transition and carried out by the Controller.
type Effect interface {
	isEffect()
}

type Render struct {
	View View
}

// Schedule asks for Event to be delivered once after Delay.
type Schedule struct {
	Delay time.Duration
	Event Event
}

// Persist asks for a completed record to be appended to the store.
type Persist struct {
	Record model.FeedbackRecord
}

type ShowReport struct{}

// Ignored records why an event produced no change.
type Ignored struct {
	Reason string
}

func (Render) isEffect()     {}
func (Schedule) isEffect()   {}
func (Persist) isEffect()    {}
func (ShowReport) isEffect() {}
func (Ignored) isEffect()    {}
