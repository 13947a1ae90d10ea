package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"

	textTitle             = "📊 Feedback Analytics"
	textNoData            = "No feedback data available yet."
	textTotalPattern      = "Total Feedback Submissions: %d"
	textRatingsHeading    = "Satisfaction Breakdown"
	textSourcesHeading    = "Source Breakdown"
	textBucketPattern     = "  %s: %d (%.1f%%)"
	textAveragePattern    = "Average Rating: %.2f/5.0"
	textSectionSeparator  = ""
	errorMessageBadFormat = "report: unsupported format"
	yamlIndentationSpaces = 2
)

// ErrUnsupportedFormat indicates an output format other than text or yaml.
var ErrUnsupportedFormat = errors.New(errorMessageBadFormat)

// ParseFormat normalizes a format name, defaulting to text.
func ParseFormat(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// Write renders report in the named format.
func Write(writer io.Writer, report Report, format string) error {
	parsedFormat, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if parsedFormat == FormatYAML {
		return WriteYAML(writer, report)
	}
	return WriteText(writer, report)
}

// WriteText renders the analytics summary as plain lines.
func WriteText(writer io.Writer, report Report) error {
	lines := TextLines(report)
	_, err := io.WriteString(writer, strings.Join(lines, "\n")+"\n")
	return err
}

// TextLines returns the analytics summary one line per entry.
func TextLines(report Report) []string {
	lines := []string{textTitle, textSectionSeparator}
	if report.Total == 0 {
		return append(lines, textNoData)
	}

	lines = append(lines, fmt.Sprintf(textTotalPattern, report.Total), textSectionSeparator, textRatingsHeading)
	for _, bucket := range report.Ratings {
		lines = append(lines, fmt.Sprintf(textBucketPattern, bucket.Label, bucket.Count, bucket.Percentage))
	}
	lines = append(lines, textSectionSeparator, textSourcesHeading)
	for _, bucket := range report.Sources {
		lines = append(lines, fmt.Sprintf(textBucketPattern, bucket.Source, bucket.Count, bucket.Percentage))
	}
	return append(lines, textSectionSeparator, fmt.Sprintf(textAveragePattern, report.Average))
}

// WriteYAML renders report as a YAML document.
func WriteYAML(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentationSpaces)
	if err := encoder.Encode(report); err != nil {
		return err
	}
	return encoder.Close()
}
