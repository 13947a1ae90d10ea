package session

import "github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"

const (
	PageRating   Page = "rating"
	PageSource   Page = "source"
	PageThankYou Page = "thank_you"
)

// Page identifies the screen currently shown.
type Page string

// State is the in-progress answer of one kiosk session. It is owned by a single Controller.
type State struct {
	Page      Page
	Rating    model.Rating
	Source    model.Source
	Countdown int
	// Generation changes whenever the page changes; timers scheduled for an older
	// generation are ignored when they fire.
	Generation uint64
}

// NewState returns the blank state a session starts from.
func NewState() State {
	return State{Page: PageRating}
}

// HasRating reports whether a rating was chosen in this session.
func (state State) HasRating() bool {
	return state.Rating.Valid()
}

// Blank reports whether the session holds no answers and waits on the rating page.
func (state State) Blank() bool {
	return state.Page == PageRating && state.Rating == 0 && state.Source == "" && state.Countdown == 0
}
