package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

const (
	averageDecimalPlaces  = 2
	percentageScaleFactor = 100
)

// Report holds statistics derived from stored records at query time.
type Report struct {
	Total   int           `yaml:"total"`
	Ratings []RatingCount `yaml:"ratings"`
	Sources []SourceCount `yaml:"sources"`
	Average float64       `yaml:"average"`
}

// RatingCount is one non-empty satisfaction bucket.
type RatingCount struct {
	Rating     model.Rating `yaml:"rating"`
	Label      string       `yaml:"label"`
	Count      int          `yaml:"count"`
	Percentage float64      `yaml:"percentage"`
}

// SourceCount is one referral channel bucket.
type SourceCount struct {
	Source     model.Source `yaml:"source"`
	Count      int          `yaml:"count"`
	Percentage float64      `yaml:"percentage"`
}

// Range bounds records by timestamp, inclusive on both ends. Zero bounds are open.
type Range struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether at lies inside the range.
func (bounds Range) Contains(at time.Time) bool {
	if !bounds.Since.IsZero() && at.Before(bounds.Since) {
		return false
	}
	if !bounds.Until.IsZero() && at.After(bounds.Until) {
		return false
	}
	return true
}

// Filter returns the records inside bounds without modifying the input slice.
func Filter(records []model.FeedbackRecord, bounds Range) []model.FeedbackRecord {
	filtered := make([]model.FeedbackRecord, 0, len(records))
	for _, record := range records {
		if bounds.Contains(record.Timestamp) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Aggregate computes totals, per-rating and per-source breakdowns, and the mean rating.
// Percentages use the total record count as denominator.
func Aggregate(records []model.FeedbackRecord) Report {
	report := Report{
		Total:   len(records),
		Ratings: []RatingCount{},
		Sources: []SourceCount{},
	}
	if report.Total == 0 {
		return report
	}

	ratingCounts := make(map[model.Rating]int)
	sourceCounts := make(map[model.Source]int)
	ratingSum := 0
	for _, record := range records {
		ratingCounts[record.Rating]++
		sourceCounts[record.Source]++
		ratingSum += int(record.Rating)
	}

	for _, rating := range model.Ratings() {
		count := ratingCounts[rating]
		if count == 0 {
			continue
		}
		report.Ratings = append(report.Ratings, RatingCount{
			Rating:     rating,
			Label:      rating.Label(),
			Count:      count,
			Percentage: percentage(count, report.Total),
		})
	}

	for source, count := range sourceCounts {
		report.Sources = append(report.Sources, SourceCount{
			Source:     source,
			Count:      count,
			Percentage: percentage(count, report.Total),
		})
	}
	sort.Slice(report.Sources, func(left, right int) bool {
		if report.Sources[left].Count != report.Sources[right].Count {
			return report.Sources[left].Count > report.Sources[right].Count
		}
		return report.Sources[left].Source < report.Sources[right].Source
	})

	report.Average = roundAverage(float64(ratingSum) / float64(report.Total))
	return report
}

func percentage(count int, total int) float64 {
	return float64(count) / float64(total) * percentageScaleFactor
}

// roundAverage rounds the exact binary value to two places, so ties go to the even digit
// the same way the analytics text formats them (17/8 becomes 2.12).
func roundAverage(value float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', averageDecimalPlaces, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
