package transit

import (
	"github.com/transitboard/transitboard/pkg/gtfs"
)

// Schedule associates one route and one stop with the distinct times any of
// the route's trips serve that stop. Both time sequences are sorted
// ascending and deduplicated.
type Schedule struct {
	RouteID        string           `json:"route_id" groups:"basic"`
	Stop           Stop             `json:"stop" groups:"basic"`
	DepartureTimes []gtfs.TimeOfDay `json:"departure_times" groups:"basic"`
	ArrivalTimes   []gtfs.TimeOfDay `json:"arrival_times" groups:"basic"`

	// Minutes between vehicles. Never derived from the feed - available for
	// a manual override only.
	Frequency *int `json:"frequency" groups:"basic"`
}

// NextDeparture returns the first departure at or after now, wrapping to the
// first departure of the next service day when none remain.
func (s *Schedule) NextDeparture(now gtfs.TimeOfDay) (gtfs.TimeOfDay, bool) {
	if len(s.DepartureTimes) == 0 {
		return gtfs.TimeOfDay{}, false
	}

	for _, departure := range s.DepartureTimes {
		if !departure.Before(now) {
			return departure, true
		}
	}

	return s.DepartureTimes[0], true
}
