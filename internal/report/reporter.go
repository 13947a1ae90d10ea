package report

import (
	"context"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

// RecordLister is the read side of a feedback store.
type RecordLister interface {
	List(ctx context.Context) ([]model.FeedbackRecord, error)
}

// Reporter aggregates whatever the store holds at call time.
type Reporter struct {
	lister RecordLister
}

// NewReporter builds a Reporter over lister.
func NewReporter(lister RecordLister) *Reporter {
	return &Reporter{lister: lister}
}

// Report loads every record inside bounds and aggregates them.
func (reporter *Reporter) Report(ctx context.Context, bounds Range) (Report, error) {
	records, err := reporter.lister.List(ctx)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(Filter(records, bounds)), nil
}
