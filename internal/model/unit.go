package model

import "fmt"

// Unit is the unit a duration value is expressed in. The upstream
// sources mix the two freely (the API reports hours, the news release
// quotes both), so every stored value is in minutes and conversion
// happens at the edges.
type Unit string

const (
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
)

// ParseUnit converts a string into a Unit.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "minutes", "min":
		return Minutes, nil
	case "hours", "hr", "hrs":
		return Hours, nil
	default:
		return "", fmt.Errorf("unknown unit: %q (valid: minutes, hours)", s)
	}
}

// MinutesFromHours converts an hours-per-day figure to minutes.
func MinutesFromHours(h float64) float64 {
	return h * 60
}

// HoursFromMinutes converts a minutes-per-day figure to hours.
func HoursFromMinutes(m float64) float64 {
	return m / 60
}

// Convert expresses a stored minutes value in the requested unit.
func Convert(minutes float64, unit Unit) float64 {
	if unit == Hours {
		return HoursFromMinutes(minutes)
	}
	return minutes
}

// MinutesFromClock converts an "h:mm" duration (the format used in the
// news-release activity tables) to minutes.
func MinutesFromClock(hours, mins int) float64 {
	return float64(hours*60 + mins)
}
