package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	RatingVeryPoor  Rating = 1
	RatingPoor      Rating = 2
	RatingFair      Rating = 3
	RatingGood      Rating = 4
	RatingExcellent Rating = 5

	ratingMinimum = RatingVeryPoor
	ratingMaximum = RatingExcellent
)

var ErrInvalidRating = errors.New("invalid_rating")

// Rating is a satisfaction score from 1 (Very Poor) to 5 (Excellent).
type Rating int

type ratingPresentation struct {
	english string
	arabic  string
	face    string
}

var ratingPresentations = map[Rating]ratingPresentation{
	RatingVeryPoor:  {english: "Very Poor", arabic: "سيء جداً", face: "😢"},
	RatingPoor:      {english: "Poor", arabic: "سيء", face: "😞"},
	RatingFair:      {english: "Fair", arabic: "مقبول", face: "😐"},
	RatingGood:      {english: "Good", arabic: "جيد", face: "😊"},
	RatingExcellent: {english: "Excellent", arabic: "ممتاز", face: "😄"},
}

// Ratings returns every valid rating in ascending order.
func Ratings() []Rating {
	ratings := make([]Rating, 0, int(ratingMaximum))
	for rating := ratingMinimum; rating <= ratingMaximum; rating++ {
		ratings = append(ratings, rating)
	}
	return ratings
}

// ParseRating converts the stored digit form of a rating.
func ParseRating(raw string) (Rating, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, raw)
	}
	rating := Rating(value)
	if !rating.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, value)
	}
	return rating, nil
}

func (rating Rating) Valid() bool {
	return rating >= ratingMinimum && rating <= ratingMaximum
}

// Label returns the English name shown under the face.
func (rating Rating) Label() string {
	return ratingPresentations[rating].english
}

func (rating Rating) ArabicLabel() string {
	return ratingPresentations[rating].arabic
}

func (rating Rating) Face() string {
	return ratingPresentations[rating].face
}

func (rating Rating) String() string {
	return strconv.Itoa(int(rating))
}
