package domain

import (
	"fmt"
	"strings"
	"time"
)

// Season is the AniList MediaSeason enum.
type Season string

const (
	SeasonWinter Season = "WINTER"
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
)

// Seasons lists every valid season in calendar order.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// ParseSeason accepts any letter case and surrounding whitespace.
func ParseSeason(s string) (Season, error) {
	v := Season(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Seasons {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", s)
}

// SeasonAt returns the broadcast season containing t. December belongs to
// the following year's WINTER season.
func SeasonAt(t time.Time) (Season, int) {
	year := t.Year()
	switch t.Month() {
	case time.December:
		return SeasonWinter, year + 1
	case time.January, time.February:
		return SeasonWinter, year
	case time.March, time.April, time.May:
		return SeasonSpring, year
	case time.June, time.July, time.August:
		return SeasonSummer, year
	default:
		return SeasonFall, year
	}
}
