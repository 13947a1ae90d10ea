package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
)

type scheduledCallback struct {
	delay    time.Duration
	callback func()
}

type manualScheduler struct {
	pending []scheduledCallback
}

func (scheduler *manualScheduler) After(delay time.Duration, callback func()) {
	scheduler.pending = append(scheduler.pending, scheduledCallback{delay: delay, callback: callback})
}

func (scheduler *manualScheduler) fireNext(testingT *testing.T) time.Duration {
	testingT.Helper()
	require.NotEmpty(testingT, scheduler.pending)
	next := scheduler.pending[0]
	scheduler.pending = scheduler.pending[1:]
	next.callback()
	return next.delay
}

type recordingPresenter struct {
	views []View
}

func (presenter *recordingPresenter) Render(view View) {
	presenter.views = append(presenter.views, view)
}

func (presenter *recordingPresenter) notices() []string {
	var notices []string
	for _, view := range presenter.views {
		if view.Notice != "" {
			notices = append(notices, view.Notice)
		}
	}
	return notices
}

func (presenter *recordingPresenter) lastView(testingT *testing.T) View {
	testingT.Helper()
	require.NotEmpty(testingT, presenter.views)
	return presenter.views[len(presenter.views)-1]
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, model.FeedbackRecord) error {
	return errors.New("disk full")
}

type controllerHarness struct {
	controller *Controller
	presenter  *recordingPresenter
	scheduler  *manualScheduler
	store      *storage.CSVStore
}

func newControllerHarness(testingT *testing.T, appender Appender) controllerHarness {
	testingT.Helper()
	store := storage.NewCSVStore(filepath.Join(testingT.TempDir(), "feedback_data.csv"), nil)
	if appender == nil {
		appender = store
	}
	presenter := &recordingPresenter{}
	scheduler := &manualScheduler{}
	controller := NewController(Dependencies{
		Flow:      NewFlow(DefaultTiming()),
		Store:     appender,
		Reports:   report.NewReporter(store),
		Presenter: presenter,
		Scheduler: scheduler,
		Clock:     func() time.Time { return testNow },
	})
	return controllerHarness{controller: controller, presenter: presenter, scheduler: scheduler, store: store}
}

func TestControllerRunsFullSession(testingT *testing.T) {
	harness := newControllerHarness(testingT, nil)
	ctx := context.Background()

	harness.controller.Start(ctx)
	require.Equal(testingT, PageRating, harness.presenter.lastView(testingT).Page)

	harness.controller.Press(ctx, "3")
	require.Equal(testingT, "3", harness.presenter.lastView(testingT).Selected)
	require.Equal(testingT, 500*time.Millisecond, harness.scheduler.fireNext(testingT))
	require.Equal(testingT, PageSource, harness.presenter.lastView(testingT).Page)

	harness.controller.Press(ctx, "3")
	require.Equal(testingT, PageThankYou, harness.presenter.lastView(testingT).Page)

	records, err := harness.store.List(ctx)
	require.NoError(testingT, err)
	require.Len(testingT, records, 1)
	require.Equal(testingT, model.RatingFair, records[0].Rating)
	require.Equal(testingT, model.SourceTikTok, records[0].Source)

	require.Equal(testingT, time.Second, harness.scheduler.fireNext(testingT))
	require.Equal(testingT, "Returning to home in 1 seconds...", harness.presenter.lastView(testingT).Footer)
	require.Equal(testingT, time.Second, harness.scheduler.fireNext(testingT))

	require.Empty(testingT, harness.scheduler.pending)
	require.True(testingT, harness.controller.State().Blank())
	require.Equal(testingT, PageRating, harness.presenter.lastView(testingT).Page)
	require.Empty(testingT, harness.presenter.notices())
}

func TestControllerAdvancesDespiteWriteFailure(testingT *testing.T) {
	harness := newControllerHarness(testingT, failingAppender{})
	ctx := context.Background()

	harness.controller.Start(ctx)
	harness.controller.Handle(ctx, RatingSelected{Rating: model.RatingGood})
	harness.scheduler.fireNext(testingT)
	harness.controller.Handle(ctx, SourceSelected{Source: model.SourceInstagram, At: testNow})

	thankYou := harness.presenter.lastView(testingT)
	require.Equal(testingT, PageThankYou, thankYou.Page)
	require.True(testingT, strings.HasPrefix(thankYou.Notice, "Could not save feedback: "))
	require.Equal(testingT, PageThankYou, harness.controller.State().Page)
	require.Len(testingT, harness.scheduler.pending, 1)

	harness.scheduler.fireNext(testingT)
	require.Equal(testingT, thankYou.Notice, harness.presenter.lastView(testingT).Notice)
	require.Equal(testingT, "Returning to home in 1 seconds...", harness.presenter.lastView(testingT).Footer)

	harness.scheduler.fireNext(testingT)
	require.Equal(testingT, PageRating, harness.presenter.lastView(testingT).Page)
	require.Empty(testingT, harness.presenter.lastView(testingT).Notice)
}

func TestControllerShowsReportOnRequest(testingT *testing.T) {
	harness := newControllerHarness(testingT, nil)
	ctx := context.Background()

	harness.controller.Press(ctx, "a")
	first := harness.presenter.lastView(testingT)
	require.Equal(testingT, PageRating, first.Page)
	require.NotNil(testingT, first.Report)
	require.Equal(testingT, 0, first.Report.Total)

	harness.controller.Press(ctx, "5")
	require.Nil(testingT, harness.presenter.lastView(testingT).Report)
	harness.scheduler.fireNext(testingT)
	harness.controller.Press(ctx, "1")
	harness.controller.Press(ctx, "a")

	second := harness.presenter.lastView(testingT)
	require.Equal(testingT, PageThankYou, second.Page)
	require.NotNil(testingT, second.Report)
	require.Equal(testingT, 1, second.Report.Total)
	require.Equal(testingT, 5.0, second.Report.Average)

	harness.scheduler.fireNext(testingT)
	ticked := harness.presenter.lastView(testingT)
	require.Equal(testingT, "Returning to home in 1 seconds...", ticked.Footer)
	require.Equal(testingT, second.Report, ticked.Report)
	require.Equal(testingT, PageThankYou, harness.controller.State().Page)
}

func TestControllerNotifiesWhenReportFails(testingT *testing.T) {
	directory := testingT.TempDir()
	store := storage.NewCSVStore(directory, nil)
	presenter := &recordingPresenter{}
	controller := NewController(Dependencies{
		Flow:      NewFlow(DefaultTiming()),
		Store:     store,
		Reports:   report.NewReporter(store),
		Presenter: presenter,
		Scheduler: &manualScheduler{},
	})

	controller.Handle(context.Background(), ReportRequested{})
	failed := presenter.lastView(testingT)
	require.Nil(testingT, failed.Report)
	require.Contains(testingT, failed.Notice, "Could not load analytics")

	controller.Press(context.Background(), "2")
	require.Empty(testingT, presenter.lastView(testingT).Notice)

	info, err := os.Stat(directory)
	require.NoError(testingT, err)
	require.True(testingT, info.IsDir())
}

func TestControllerIgnoresInputOnThankYouPage(testingT *testing.T) {
	harness := newControllerHarness(testingT, nil)
	ctx := context.Background()

	harness.controller.Press(ctx, "2")
	harness.scheduler.fireNext(testingT)
	harness.controller.Press(ctx, "4")
	rendered := len(harness.presenter.views)

	harness.controller.Press(ctx, "1")
	require.Len(testingT, harness.presenter.views, rendered)
	require.Equal(testingT, PageThankYou, harness.controller.State().Page)
}
