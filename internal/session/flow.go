package session

import (
	"context"
	"strings"
	"time"

	"github.com/looplab/fsm"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

const (
	DefaultRatingAdvanceDelay = 500 * time.Millisecond
	DefaultCountdownSeconds   = 2
	DefaultCountdownStep      = time.Second

	KeyReport = "a"

	pageEventRatingConfirmed  = "rating_confirmed"
	pageEventSourceSelected   = "source_selected"
	pageEventCountdownExpired = "countdown_expired"

	ReasonWrongPage         = "event_not_valid_on_page"
	ReasonStaleTimer        = "stale_timer"
	ReasonUnknownKey        = "unknown_key"
	ReasonInvalidAnswer     = "invalid_answer"
	ReasonIncompleteAnswer  = "incomplete_answer"
	ReasonInvalidTransition = "invalid_transition"
	ReasonUnknownEvent      = "unknown_event"
)

// pageEvents is the only path through the pages: strictly forward with one cycle.
var pageEvents = fsm.Events{
	{Name: pageEventRatingConfirmed, Src: []string{string(PageRating)}, Dst: string(PageSource)},
	{Name: pageEventSourceSelected, Src: []string{string(PageSource)}, Dst: string(PageThankYou)},
	{Name: pageEventCountdownExpired, Src: []string{string(PageThankYou)}, Dst: string(PageRating)},
}

// Timing holds the delays driving automatic page changes.
type Timing struct {
	RatingAdvanceDelay time.Duration
	CountdownSeconds   int
	CountdownStep      time.Duration
}

// DefaultTiming returns the kiosk's standard delays.
func DefaultTiming() Timing {
	return Timing{
		RatingAdvanceDelay: DefaultRatingAdvanceDelay,
		CountdownSeconds:   DefaultCountdownSeconds,
		CountdownStep:      DefaultCountdownStep,
	}
}

// Flow computes page transitions. Transition is a pure function of its inputs.
type Flow struct {
	timing Timing
}

// NewFlow builds a Flow, replacing non-positive timings with defaults.
func NewFlow(timing Timing) Flow {
	defaults := DefaultTiming()
	if timing.RatingAdvanceDelay <= 0 {
		timing.RatingAdvanceDelay = defaults.RatingAdvanceDelay
	}
	if timing.CountdownSeconds <= 0 {
		timing.CountdownSeconds = defaults.CountdownSeconds
	}
	if timing.CountdownStep <= 0 {
		timing.CountdownStep = defaults.CountdownStep
	}
	return Flow{timing: timing}
}

func (flow Flow) Timing() Timing {
	return flow.timing
}

// Transition returns the next state and the effects to carry out, in order.
func (flow Flow) Transition(state State, event Event) (State, []Effect) {
	switch typed := event.(type) {
	case Started:
		return state, []Effect{Render{View: BuildView(state)}}
	case KeyPressed:
		return flow.pressKey(state, typed)
	case RatingSelected:
		return flow.selectRating(state, typed.Rating)
	case SourceSelected:
		return flow.selectSource(state, typed.Source, typed.At)
	case AdvanceDue:
		return flow.advanceToSource(state, typed.Generation)
	case CountdownTick:
		return flow.tick(state, typed.Generation)
	case ReportRequested:
		return state, []Effect{ShowReport{}}
	default:
		return ignore(state, ReasonUnknownEvent)
	}
}

func (flow Flow) pressKey(state State, event KeyPressed) (State, []Effect) {
	key := strings.ToLower(strings.TrimSpace(event.Key))
	if key == KeyReport {
		return state, []Effect{ShowReport{}}
	}

	switch state.Page {
	case PageRating:
		rating, err := model.ParseRating(key)
		if err != nil {
			return ignore(state, ReasonUnknownKey)
		}
		return flow.selectRating(state, rating)
	case PageSource:
		source, found := sourceForKey(key)
		if !found {
			return ignore(state, ReasonUnknownKey)
		}
		return flow.selectSource(state, source, event.At)
	default:
		return ignore(state, ReasonWrongPage)
	}
}

// selectRating commits the rating immediately and schedules the move to the source page.
// Choosing again before the delay elapses replaces the rating; the extra timer is stale on arrival.
func (flow Flow) selectRating(state State, rating model.Rating) (State, []Effect) {
	if state.Page != PageRating {
		return ignore(state, ReasonWrongPage)
	}
	if !rating.Valid() {
		return ignore(state, ReasonInvalidAnswer)
	}

	state.Rating = rating
	return state, []Effect{
		Render{View: BuildView(state)},
		Schedule{Delay: flow.timing.RatingAdvanceDelay, Event: AdvanceDue{Generation: state.Generation}},
	}
}

func (flow Flow) advanceToSource(state State, generation uint64) (State, []Effect) {
	if state.Page != PageRating || state.Generation != generation {
		return ignore(state, ReasonStaleTimer)
	}
	if !state.HasRating() {
		return ignore(state, ReasonIncompleteAnswer)
	}

	next, ok := nextPage(state.Page, pageEventRatingConfirmed)
	if !ok {
		return ignore(state, ReasonInvalidTransition)
	}
	state.Page = next
	state.Generation++
	return state, []Effect{Render{View: BuildView(state)}}
}

// selectSource completes the answer. The record is persisted before the thank-you page is
// shown, and the page changes whatever the outcome of the write.
func (flow Flow) selectSource(state State, source model.Source, at time.Time) (State, []Effect) {
	if state.Page != PageSource {
		return ignore(state, ReasonWrongPage)
	}
	if !source.Valid() {
		return ignore(state, ReasonInvalidAnswer)
	}
	record, err := model.NewFeedbackRecord(state.Rating, source, at)
	if err != nil {
		return ignore(state, ReasonIncompleteAnswer)
	}

	next, ok := nextPage(state.Page, pageEventSourceSelected)
	if !ok {
		return ignore(state, ReasonInvalidTransition)
	}
	state.Source = source
	state.Page = next
	state.Generation++
	state.Countdown = flow.timing.CountdownSeconds
	return state, []Effect{
		Persist{Record: record},
		Render{View: BuildView(state)},
		Schedule{Delay: flow.timing.CountdownStep, Event: CountdownTick{Generation: state.Generation}},
	}
}

func (flow Flow) tick(state State, generation uint64) (State, []Effect) {
	if state.Page != PageThankYou || state.Generation != generation {
		return ignore(state, ReasonStaleTimer)
	}

	state.Countdown--
	if state.Countdown > 0 {
		return state, []Effect{
			Render{View: BuildView(state)},
			Schedule{Delay: flow.timing.CountdownStep, Event: CountdownTick{Generation: state.Generation}},
		}
	}

	next, ok := nextPage(state.Page, pageEventCountdownExpired)
	if !ok {
		return ignore(state, ReasonInvalidTransition)
	}
	reset := NewState()
	reset.Page = next
	reset.Generation = state.Generation + 1
	return reset, []Effect{Render{View: BuildView(reset)}}
}

func nextPage(current Page, pageEvent string) (Page, bool) {
	machine := fsm.NewFSM(string(current), pageEvents, fsm.Callbacks{})
	if err := machine.Event(context.Background(), pageEvent); err != nil {
		return current, false
	}
	return Page(machine.Current()), true
}

func ignore(state State, reason string) (State, []Effect) {
	return state, []Effect{Ignored{Reason: reason}}
}
