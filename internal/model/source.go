package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SourceInstagram       Source = "Instagram"
	SourceSnapchat        Source = "Snapchat"
	SourceTikTok          Source = "TikTok"
	SourceGoogleMaps      Source = "Google Maps"
	SourceFriendsOrFamily Source = "Friends or Family"
	SourcePassingBy       Source = "By Passing By"
)

var ErrInvalidSource = errors.New("invalid_source")

// Source is the referral channel a visitor reports hearing about the center from.
type Source string

var sourceOrder = [...]Source{
	SourceInstagram,
	SourceSnapchat,
	SourceTikTok,
	SourceGoogleMaps,
	SourceFriendsOrFamily,
	SourcePassingBy,
}

var sourceIcons = map[Source]string{
	SourceInstagram:       "📷",
	SourceSnapchat:        "👻",
	SourceTikTok:          "🎵",
	SourceGoogleMaps:      "🗺️",
	SourceFriendsOrFamily: "👥",
	SourcePassingBy:       "🚶",
}

// Sources returns the closed set of referral channels in display order.
func Sources() []Source {
	sources := make([]Source, len(sourceOrder))
	copy(sources, sourceOrder[:])
	return sources
}

// ParseSource matches raw against the known channel names exactly, ignoring surrounding space.
func ParseSource(raw string) (Source, error) {
	source := Source(strings.TrimSpace(raw))
	if !source.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return source, nil
}

func (source Source) Valid() bool {
	_, known := sourceIcons[source]
	return known
}

func (source Source) Icon() string {
	return sourceIcons[source]
}

func (source Source) String() string {
	return string(source)
}
