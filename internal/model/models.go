package model

import (
	"errors"
	"time"
)

// TimestampLayout is the second-precision layout used for stored timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

var ErrMissingTimestamp = errors.New("missing_feedback_timestamp")

// FeedbackRecord is one completed survey answer. Records are never updated once written.
type FeedbackRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Timestamp time.Time `gorm:"not null;index"`
	Rating    Rating    `gorm:"not null"`
	Source    Source    `gorm:"not null;size:64;index"`
}

// TableName keeps the table name stable regardless of the struct name.
func (FeedbackRecord) TableName() string {
	return "feedback_records"
}

// NewFeedbackRecord validates a completed answer pair. Both fields are required.
func NewFeedbackRecord(rating Rating, source Source, at time.Time) (FeedbackRecord, error) {
	if !rating.Valid() {
		return FeedbackRecord{}, ErrInvalidRating
	}
	if !source.Valid() {
		return FeedbackRecord{}, ErrInvalidSource
	}
	if at.IsZero() {
		return FeedbackRecord{}, ErrMissingTimestamp
	}
	return FeedbackRecord{
		Timestamp: at.Truncate(time.Second),
		Rating:    rating,
		Source:    source,
	}, nil
}

// FormattedTimestamp renders the timestamp in TimestampLayout.
func (record FeedbackRecord) FormattedTimestamp() string {
	return record.Timestamp.Format(TimestampLayout)
}
