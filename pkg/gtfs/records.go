package gtfs

import (
	"strconv"
	"strings"
)

// GTFS route_type 3, the default when a feed leaves the column blank.
const RouteTypeBus = "3"

type RouteRecord struct {
	ID          string `csv:"route_id"`
	ShortName   string `csv:"route_short_name"`
	LongName    string `csv:"route_long_name"`
	Description string `csv:"route_desc"`
	Colour      string `csv:"route_color"`
	TextColour  string `csv:"route_text_color"`
	Type        string `csv:"route_type"`
}

type StopRecord struct {
	ID          string     `csv:"stop_id"`
	Name        string     `csv:"stop_name"`
	Latitude    Coordinate `csv:"stop_lat"`
	Longitude   Coordinate `csv:"stop_lon"`
	Description string     `csv:"stop_desc"`
	ZoneID      string     `csv:"zone_id"`
}

// Position returns the stop's coordinates. Feeds carry either a full pair or
// nothing usable, so a stop with a missing or junk latitude or longitude
// reports no position at all.
func (s StopRecord) Position() (float64, float64, bool) {
	latitude, latitudeValid := s.Latitude.Float64()
	longitude, longitudeValid := s.Longitude.Float64()

	if !latitudeValid || !longitudeValid {
		return 0, 0, false
	}

	return latitude, longitude, true
}

type TripRecord struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	Headsign    string `csv:"trip_headsign"`
	DirectionID string `csv:"direction_id"`
	ShapeID     string `csv:"shape_id"`
}

type StopTimeRecord struct {
	TripID        string   `csv:"trip_id"`
	ArrivalTime   string   `csv:"arrival_time"`
	DepartureTime string   `csv:"departure_time"`
	StopID        string   `csv:"stop_id"`
	StopSequence  Sequence `csv:"stop_sequence"`
}

type CalendarRecord struct {
	ServiceID string  `csv:"service_id"`
	Monday    DayFlag `csv:"monday"`
	Tuesday   DayFlag `csv:"tuesday"`
	Wednesday DayFlag `csv:"wednesday"`
	Thursday  DayFlag `csv:"thursday"`
	Friday    DayFlag `csv:"friday"`
	Saturday  DayFlag `csv:"saturday"`
	Sunday    DayFlag `csv:"sunday"`
	StartDate string  `csv:"start_date"`
	EndDate   string  `csv:"end_date"`
}

func (c *CalendarRecord) RunningDays() []string {
	days := []string{}

	if c.Monday {
		days = append(days, "Monday")
	}
	if c.Tuesday {
		days = append(days, "Tuesday")
	}
	if c.Wednesday {
		days = append(days, "Wednesday")
	}
	if c.Thursday {
		days = append(days, "Thursday")
	}
	if c.Friday {
		days = append(days, "Friday")
	}
	if c.Saturday {
		days = append(days, "Saturday")
	}
	if c.Sunday {
		days = append(days, "Sunday")
	}

	return days
}

// Coordinate is a nullable latitude/longitude column. Feeds in the wild
// routinely carry blank or junk values in numeric fields, and a bad number
// should drop detail for that row rather than abort the whole table.
type Coordinate struct {
	value float64
	valid bool
}

func (c *Coordinate) UnmarshalCSV(value string) error {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		*c = Coordinate{}
		return nil
	}

	c.value = parsed
	c.valid = true
	return nil
}

func (c Coordinate) Float64() (float64, bool) {
	return c.value, c.valid
}

// Sequence is a nullable integer column. stop_sequence is mandatory for
// ordering, so rows whose sequence fails to parse are dropped by the loader.
type Sequence struct {
	value int
	valid bool
}

func (s *Sequence) UnmarshalCSV(value string) error {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*s = Sequence{}
		return nil
	}

	s.value = parsed
	s.valid = true
	return nil
}

func (s Sequence) Int() (int, bool) {
	return s.value, s.valid
}

// DayFlag is a calendar day-of-week column, set when the value is exactly "1".
type DayFlag bool

func (d *DayFlag) UnmarshalCSV(value string) error {
	*d = strings.TrimSpace(value) == "1"
	return nil
}
