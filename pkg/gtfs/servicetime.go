package gtfs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a GTFS service-day time normalised onto a single 24 hour
// clock. Trips running past midnight (eg "25:30:00") wrap around to the
// matching time of day, so "25:30:00" and "01:30:00" compare equal.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseServiceTime parses a GTFS time value of the form "HH:MM:SS" or
// "HH:MM", with any amount of zero padding per segment. Hours of 24 and over
// wrap onto the next day. The second return value is false for empty or
// malformed values - callers treat those rows as having no usable time.
func ParseServiceTime(value string) (TimeOfDay, bool) {
	splitValue := strings.Split(strings.TrimSpace(value), ":")

	if len(splitValue) != 2 && len(splitValue) != 3 {
		return TimeOfDay{}, false
	}

	hour, err := strconv.Atoi(splitValue[0])
	if err != nil || hour < 0 {
		return TimeOfDay{}, false
	}

	minute, err := strconv.Atoi(splitValue[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}

	second := 0
	if len(splitValue) == 3 {
		second, err = strconv.Atoi(splitValue[2])
		if err != nil || second < 0 || second > 59 {
			return TimeOfDay{}, false
		}
	}

	return TimeOfDay{Hour: hour % 24, Minute: minute, Second: second}, true
}

func (t TimeOfDay) SecondOfDay() int {
	return (t.Hour*60+t.Minute)*60 + t.Second
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.SecondOfDay() < other.SecondOfDay()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Clock is the HH:MM form used on the public query surface.
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Clock())
}
