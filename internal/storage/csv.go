package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

const (
	columnTimestamp = "timestamp"
	columnRating    = "rating"
	columnSource    = "source"
	columnCount     = 3
	byteOrderMark   = "\ufeff"
)

var (
	csvHeader = []string{columnTimestamp, columnRating, columnSource}

	errMalformedRow = errors.New("malformed_feedback_row")
)

// WriteCSV writes the header followed by one row per record.
func WriteCSV(writer io.Writer, records []model.FeedbackRecord) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write(csvHeader); err != nil {
		return err
	}
	for _, record := range records {
		if err := csvWriter.Write(encodeRow(record)); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func encodeRow(record model.FeedbackRecord) []string {
	return []string{record.FormattedTimestamp(), record.Rating.String(), record.Source.String()}
}

func decodeRow(fields []string) (model.FeedbackRecord, error) {
	if len(fields) != columnCount {
		return model.FeedbackRecord{}, fmt.Errorf("%w: expected %d fields, got %d", errMalformedRow, columnCount, len(fields))
	}
	timestamp, parseErr := time.ParseInLocation(model.TimestampLayout, strings.TrimSpace(fields[0]), time.Local)
	if parseErr != nil {
		return model.FeedbackRecord{}, fmt.Errorf("%w: %v", errMalformedRow, parseErr)
	}
	rating, ratingErr := model.ParseRating(fields[1])
	if ratingErr != nil {
		return model.FeedbackRecord{}, fmt.Errorf("%w: %w", errMalformedRow, ratingErr)
	}
	source, sourceErr := model.ParseSource(fields[2])
	if sourceErr != nil {
		return model.FeedbackRecord{}, fmt.Errorf("%w: %w", errMalformedRow, sourceErr)
	}
	return model.FeedbackRecord{Timestamp: timestamp, Rating: rating, Source: source}, nil
}

func isHeaderRow(fields []string) bool {
	if len(fields) != columnCount {
		return false
	}
	for index, name := range csvHeader {
		if strings.TrimSpace(strings.TrimPrefix(fields[index], byteOrderMark)) != name {
			return false
		}
	}
	return true
}
