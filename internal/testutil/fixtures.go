package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

// FixedTime is the timestamp fixtures use unless a test needs its own.
var FixedTime = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.Local)

// NewRecord builds a validated record, failing the test on invalid input.
func NewRecord(testingT *testing.T, rating model.Rating, source model.Source, at time.Time) model.FeedbackRecord {
	testingT.Helper()
	record, err := model.NewFeedbackRecord(rating, source, at)
	if err != nil {
		testingT.Fatalf("build record: %v", err)
	}
	return record
}

// WriteDataFile writes lines to a file in a temporary directory and returns its path.
func WriteDataFile(testingT *testing.T, lines ...string) string {
	testingT.Helper()
	path := filepath.Join(testingT.TempDir(), "feedback_data.csv")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		testingT.Fatalf("write data file: %v", err)
	}
	return path
}
