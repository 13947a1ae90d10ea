package session

import (
	"fmt"
	"strconv"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
)

const (
	ratingHeadlineArabic    = "ما مدى رضاك عن خدمتنا؟"
	ratingHeadlineEnglish   = "How satisfied are you with our service?"
	sourceHeadlineArabic    = "كيف تعرفت على مركزنا؟"
	sourceHeadlineEnglish   = "How did you hear about our center?"
	thankYouHeadlineArabic  = "شكرًا لمشاركتك 🌟"
	thankYouHeadlineEnglish = "Thank you for your feedback!"
	countdownPattern        = "Returning to home in %d seconds..."
)

// View declares what the presentation layer should show for a state.
type View struct {
	Page     Page
	Headline Headline
	Options  []Option
	// Selected holds the key of the acknowledged option, if any.
	Selected string
	Footer   string
	// Notice is an error message kept on screen until the next key press or session reset.
	Notice string
	// Report is analytics shown below the page under the same rule as Notice.
	Report *report.Report
}

type Headline struct {
	Arabic  string
	English string
}

// Option is one selectable button. Key is what the user types to choose it.
type Option struct {
	Key   string
	Label string
	Icon  string
}

// BuildView describes the page for state.
func BuildView(state State) View {
	switch state.Page {
	case PageSource:
		return View{
			Page:     PageSource,
			Headline: Headline{Arabic: sourceHeadlineArabic, English: sourceHeadlineEnglish},
			Options:  sourceOptions(),
			Selected: sourceKey(state.Source),
		}
	case PageThankYou:
		return View{
			Page:     PageThankYou,
			Headline: Headline{Arabic: thankYouHeadlineArabic, English: thankYouHeadlineEnglish},
			Footer:   fmt.Sprintf(countdownPattern, state.Countdown),
		}
	default:
		view := View{
			Page:     PageRating,
			Headline: Headline{Arabic: ratingHeadlineArabic, English: ratingHeadlineEnglish},
			Options:  ratingOptions(),
		}
		if state.HasRating() {
			view.Selected = state.Rating.String()
		}
		return view
	}
}

func ratingOptions() []Option {
	ratings := model.Ratings()
	options := make([]Option, 0, len(ratings))
	for _, rating := range ratings {
		options = append(options, Option{Key: rating.String(), Label: rating.Label(), Icon: rating.Face()})
	}
	return options
}

func sourceOptions() []Option {
	sources := model.Sources()
	options := make([]Option, 0, len(sources))
	for index, source := range sources {
		options = append(options, Option{Key: strconv.Itoa(index + 1), Label: source.String(), Icon: source.Icon()})
	}
	return options
}

func sourceKey(selected model.Source) string {
	for index, source := range model.Sources() {
		if source == selected {
			return strconv.Itoa(index + 1)
		}
	}
	return ""
}

// sourceForKey maps a typed option key on the source page back to its channel.
func sourceForKey(key string) (model.Source, bool) {
	position, err := strconv.Atoi(key)
	if err != nil {
		return "", false
	}
	sources := model.Sources()
	if position < 1 || position > len(sources) {
		return "", false
	}
	return sources[position-1], true
}
