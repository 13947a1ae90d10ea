package terminal

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/session"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/pkg/logo"
)

const (
	clearScreenSequence = "\033[H\033[2J"
	defaultLogoWidth    = 40

	optionPattern    = "%s[%s] %s %s"
	selectedMarker   = "▶ "
	unselectedMarker = "  "
	noticePattern    = "⚠ Error: %s"
	choicePrompt     = "Type a number and press Enter (a = analytics)"

	logEventWriteFailed = "terminal_write_failed"
)

// Options tunes terminal output.
type Options struct {
	ClearScreen bool
	LogoWidth   int
}

// Presenter draws session views as text.
type Presenter struct {
	writer      io.Writer
	logoLines   []string
	clearScreen bool
	logger      *zap.Logger
}

// NewPresenter builds a Presenter. asset may be nil, in which case no logo is drawn.
func NewPresenter(writer io.Writer, asset *logo.Asset, options Options, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	logoWidth := options.LogoWidth
	if logoWidth <= 0 {
		logoWidth = defaultLogoWidth
	}
	return &Presenter{
		writer:      writer,
		logoLines:   asset.ASCII(logoWidth),
		clearScreen: options.ClearScreen,
		logger:      logger,
	}
}

// Render draws one page.
func (presenter *Presenter) Render(view session.View) {
	var lines []string
	if view.Page == session.PageRating {
		lines = append(lines, presenter.logoLines...)
		if len(presenter.logoLines) > 0 {
			lines = append(lines, "")
		}
	}
	lines = append(lines, view.Headline.Arabic, view.Headline.English, "")
	if view.Notice != "" {
		lines = append(lines, fmt.Sprintf(noticePattern, view.Notice), "")
	}

	for _, option := range view.Options {
		marker := unselectedMarker
		if option.Key == view.Selected {
			marker = selectedMarker
		}
		lines = append(lines, fmt.Sprintf(optionPattern, marker, option.Key, option.Icon, option.Label))
	}
	if view.Footer != "" {
		lines = append(lines, view.Footer)
	}
	if len(view.Options) > 0 {
		lines = append(lines, "", choicePrompt)
	}
	if view.Report != nil {
		lines = append(lines, "")
		lines = append(lines, report.TextLines(*view.Report)...)
	}
	presenter.write(lines)
}

func (presenter *Presenter) write(lines []string) {
	var output strings.Builder
	if presenter.clearScreen {
		output.WriteString(clearScreenSequence)
	}
	for _, line := range lines {
		output.WriteString(line)
		output.WriteByte('\n')
	}
	if _, err := io.WriteString(presenter.writer, output.String()); err != nil {
		presenter.logger.Warn(logEventWriteFailed, zap.Error(err))
	}
}
