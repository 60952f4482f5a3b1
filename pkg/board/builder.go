package board

import (
	"sort"
	"time"

	"github.com/transitboard/transitboard/pkg/gtfs"
	"github.com/transitboard/transitboard/pkg/transit"
	"golang.org/x/exp/maps"
)

// Rough estimate of time spent per stop. The feed carries no route-level
// timings, so route duration is estimated from the stop count.
const stopDwellEstimate = 2 * time.Minute

// Snapshot is one complete, internally consistent set of derived views built
// from a single loaded feed. Schedules are keyed by route identifier.
type Snapshot struct {
	Stops     []transit.Stop
	Routes    []transit.Route
	Schedules map[string][]transit.Schedule
}

func (s *Snapshot) ScheduleCount() int {
	count := 0
	for _, schedules := range s.Schedules {
		count += len(schedules)
	}
	return count
}

// Build derives the public stop, route and schedule views from a loaded
// feed. Routes with no resolvable stops are excluded entirely rather than
// emitted with an empty stop list.
func Build(feed *gtfs.Feed) *Snapshot {
	snapshot := &Snapshot{
		Stops:     []transit.Stop{},
		Routes:    []transit.Route{},
		Schedules: map[string][]transit.Schedule{},
	}

	stopViews := map[string]transit.Stop{}
	for _, stopID := range feed.StopIDs() {
		record := feed.Stops[stopID]

		view := transit.Stop{
			StopID:  stopID,
			Name:    record.Name,
			Address: record.Description,
		}
		if latitude, longitude, ok := record.Position(); ok {
			view.Latitude = &latitude
			view.Longitude = &longitude
		}

		stopViews[stopID] = view
		snapshot.Stops = append(snapshot.Stops, view)
	}

	for _, routeID := range feed.RouteIDs() {
		record := feed.Routes[routeID]

		var stops []transit.Stop
		for _, stopRecord := range feed.StopsForRoute(routeID) {
			if view, exists := stopViews[stopRecord.ID]; exists {
				stops = append(stops, view)
			}
		}

		if len(stops) == 0 {
			continue
		}

		route := transit.Route{
			RouteID:     routeID,
			Origin:      stops[0].Name,
			Destination: stops[len(stops)-1].Name,
			Stops:       stops,
			Duration:    transit.Duration(time.Duration(len(stops)) * stopDwellEstimate),
			Cost:        0,
			Transfers:   0,
		}

		// The short name wins over the computed origin as the display label
		if record.ShortName != "" {
			route.Origin = record.ShortName + " Route"
		}

		snapshot.Routes = append(snapshot.Routes, route)
	}

	for _, route := range snapshot.Routes {
		snapshot.Schedules[route.RouteID] = buildRouteSchedules(feed, stopViews, route.RouteID)
	}

	return snapshot
}

func buildRouteSchedules(feed *gtfs.Feed, stopViews map[string]transit.Stop, routeID string) []transit.Schedule {
	grouped := map[string][]gtfs.StopTimeRecord{}
	var groupOrder []string

	for _, stopTime := range feed.StopTimesForRoute(routeID, "") {
		if _, exists := grouped[stopTime.StopID]; !exists {
			groupOrder = append(groupOrder, stopTime.StopID)
		}
		grouped[stopTime.StopID] = append(grouped[stopTime.StopID], stopTime)
	}

	var schedules []transit.Schedule
	for _, stopID := range groupOrder {
		stopView, exists := stopViews[stopID]
		if !exists {
			// stop_times referencing unknown stops produce no schedule
			continue
		}

		schedule := transit.Schedule{
			RouteID: routeID,
			Stop:    stopView,
			ArrivalTimes: collectTimes(grouped[stopID], func(stopTime gtfs.StopTimeRecord) string {
				return stopTime.ArrivalTime
			}),
			DepartureTimes: collectTimes(grouped[stopID], func(stopTime gtfs.StopTimeRecord) string {
				return stopTime.DepartureTime
			}),
		}

		if len(schedule.DepartureTimes) > 0 || len(schedule.ArrivalTimes) > 0 {
			schedules = append(schedules, schedule)
		}
	}

	return schedules
}

// collectTimes parses, deduplicates and sorts the raw time strings of a
// group of stop_times rows. Unparseable values are discarded.
func collectTimes(stopTimes []gtfs.StopTimeRecord, value func(gtfs.StopTimeRecord) string) []gtfs.TimeOfDay {
	distinct := map[gtfs.TimeOfDay]bool{}

	for _, stopTime := range stopTimes {
		if timeOfDay, ok := gtfs.ParseServiceTime(value(stopTime)); ok {
			distinct[timeOfDay] = true
		}
	}

	times := maps.Keys(distinct)
	sort.Slice(times, func(i, j int) bool {
		return times[i].Before(times[j])
	})

	return times
}
