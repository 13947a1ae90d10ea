package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
)

const (
	noticeSaveFailedPattern   = "Could not save feedback: %v"
	noticeReportFailedPattern = "Could not load analytics: %v"

	logEventFeedbackSaved      = "feedback_saved"
	logEventFeedbackSaveFailed = "feedback_save_failed"
	logEventReportFailed       = "report_failed"
	logEventIgnored            = "event_ignored"
	logEventPageChanged        = "page_changed"
	logFieldRating             = "rating"
	logFieldSource             = "source"
	logFieldReason             = "reason"
	logFieldPage               = "page"
)

// Presenter draws views. It is called only from the control goroutine.
type Presenter interface {
	Render(view View)
}

// Scheduler delivers callback once after delay, on the control goroutine.
type Scheduler interface {
	After(delay time.Duration, callback func())
}

// Appender is the write side of a feedback store.
type Appender interface {
	Append(ctx context.Context, record model.FeedbackRecord) error
}

// ReportSource produces analytics on demand.
type ReportSource interface {
	Report(ctx context.Context, bounds report.Range) (report.Report, error)
}

// Dependencies groups the collaborators of a Controller.
type Dependencies struct {
	Flow      Flow
	Store     Appender
	Reports   ReportSource
	Presenter Presenter
	Scheduler Scheduler
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Controller owns the single session state and carries out transition effects.
// Every method must be called from the same goroutine the Scheduler delivers on.
type Controller struct {
	flow      Flow
	state     State
	store     Appender
	reports   ReportSource
	presenter Presenter
	scheduler Scheduler
	logger    *zap.Logger
	clock     func() time.Time
	notice    string
	report    *report.Report
}

// NewController builds a Controller in the blank initial state.
func NewController(dependencies Dependencies) *Controller {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		flow:      dependencies.Flow,
		state:     NewState(),
		store:     dependencies.Store,
		reports:   dependencies.Reports,
		presenter: dependencies.Presenter,
		scheduler: dependencies.Scheduler,
		logger:    logger,
		clock:     clock,
	}
}

// State returns a copy of the current session state.
func (controller *Controller) State() State {
	return controller.state
}

// Start renders the first page.
func (controller *Controller) Start(ctx context.Context) {
	controller.Handle(ctx, Started{})
}

// Press handles one key typed by the user.
func (controller *Controller) Press(ctx context.Context, key string) {
	controller.Handle(ctx, KeyPressed{Key: key, At: controller.clock()})
}

// Handle applies event to the state and carries out the resulting effects in order.
// A key press dismisses any notice or report on screen, and so does a return to the rating page.
func (controller *Controller) Handle(ctx context.Context, event Event) {
	if _, pressed := event.(KeyPressed); pressed {
		controller.dismissOverlays()
	}
	previousPage := controller.state.Page
	next, effects := controller.flow.Transition(controller.state, event)
	controller.state = next
	if next.Page != previousPage {
		controller.logger.Debug(logEventPageChanged, zap.String(logFieldPage, string(next.Page)))
		if next.Page == PageRating {
			controller.dismissOverlays()
		}
	}
	for _, effect := range effects {
		controller.apply(ctx, effect)
	}
}

func (controller *Controller) apply(ctx context.Context, effect Effect) {
	switch typed := effect.(type) {
	case Render:
		controller.render(typed.View)
	case Schedule:
		scheduled := typed.Event
		controller.scheduler.After(typed.Delay, func() {
			controller.Handle(ctx, scheduled)
		})
	case Persist:
		controller.persist(ctx, typed.Record)
	case ShowReport:
		controller.showReport(ctx)
	case Ignored:
		controller.logger.Debug(logEventIgnored, zap.String(logFieldReason, typed.Reason))
	}
}

func (controller *Controller) persist(ctx context.Context, record model.FeedbackRecord) {
	if err := controller.store.Append(ctx, record); err != nil {
		controller.logger.Error(logEventFeedbackSaveFailed,
			zap.Int(logFieldRating, int(record.Rating)),
			zap.String(logFieldSource, record.Source.String()),
			zap.Error(err),
		)
		controller.notice = fmt.Sprintf(noticeSaveFailedPattern, err)
		return
	}
	controller.logger.Info(logEventFeedbackSaved,
		zap.Int(logFieldRating, int(record.Rating)),
		zap.String(logFieldSource, record.Source.String()),
	)
}

func (controller *Controller) showReport(ctx context.Context) {
	summary, err := controller.reports.Report(ctx, report.Range{})
	if err != nil {
		controller.logger.Error(logEventReportFailed, zap.Error(err))
		controller.notice = fmt.Sprintf(noticeReportFailedPattern, err)
		controller.render(BuildView(controller.state))
		return
	}
	controller.report = &summary
	controller.render(BuildView(controller.state))
}

func (controller *Controller) render(view View) {
	view.Notice = controller.notice
	view.Report = controller.report
	controller.presenter.Render(view)
}

func (controller *Controller) dismissOverlays() {
	controller.notice = ""
	controller.report = nil
}
