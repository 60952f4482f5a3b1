package transit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Route is the public view of a single route, flattened onto its
// representative trip's stop pattern.
type Route struct {
	RouteID     string   `json:"route_id" groups:"basic"`
	Origin      string   `json:"origin" groups:"basic"`
	Destination string   `json:"destination" groups:"basic"`
	Stops       []Stop   `json:"stops" groups:"detailed"`
	Duration    Duration `json:"duration" groups:"basic"`
	Cost        float64  `json:"cost" groups:"basic"`
	Transfers   int      `json:"transfers" groups:"basic"`
}

func (r *Route) DurationString() string {
	totalSeconds := int(time.Duration(r.Duration).Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Duration marshals as Go's duration string ("4m0s") rather than a
// nanosecond count.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
