package board

import (
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/transitboard/transitboard/pkg/gtfs"
	"github.com/transitboard/transitboard/pkg/transit"
	"github.com/transitboard/transitboard/pkg/util"
)

// FeedSource supplies a freshly loaded feed. A source that cannot produce
// one returns an error; the cache then carries on with an empty feed rather
// than surfacing the failure to readers.
type FeedSource interface {
	Fetch() (*gtfs.Feed, error)
}

// Cache memoises the derived snapshot for one feed source. Construct with
// NewCache. All methods are safe for concurrent use: a rebuild swaps the
// whole snapshot in one assignment, so readers observe either the old or the
// new state and never a half-built one.
type Cache struct {
	source FeedSource

	mutex     sync.RWMutex
	snapshot  *Snapshot
	loadCount int
}

func NewCache(source FeedSource) *Cache {
	return &Cache{source: source}
}

// Load builds the snapshot unless stops and routes are both already
// populated. With force set the snapshot is rebuilt regardless.
func (c *Cache) Load(force bool) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.loadLocked(force)
}

func (c *Cache) loadLocked(force bool) error {
	if !force && c.snapshot != nil && len(c.snapshot.Stops) > 0 && len(c.snapshot.Routes) > 0 {
		return nil
	}

	feed, err := c.source.Fetch()
	if err != nil {
		log.Warn().Err(err).Msg("Feed unavailable, continuing with an empty feed")
		feed = gtfs.NewFeed()
	}

	c.snapshot = Build(feed)
	c.loadCount++

	log.Info().
		Int("stops", len(c.snapshot.Stops)).
		Int("routes", len(c.snapshot.Routes)).
		Int("schedules", c.snapshot.ScheduleCount()).
		Msg("Built snapshot")

	return nil
}

// Reload discards the current snapshot entirely and performs a full forced
// load. It is idempotent and may be called repeatedly.
func (c *Cache) Reload() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.snapshot = nil
	return c.loadLocked(true)
}

// LoadCount reports how many times a snapshot has been built.
func (c *Cache) LoadCount() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.loadCount
}

// current returns the snapshot, lazily loading when the loaded predicate
// reports the backing collection a reader wants is empty.
func (c *Cache) current(loaded func(*Snapshot) bool) *Snapshot {
	c.mutex.RLock()
	snapshot := c.snapshot
	c.mutex.RUnlock()

	if snapshot != nil && loaded(snapshot) {
		return snapshot
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.snapshot == nil || !loaded(c.snapshot) {
		if err := c.loadLocked(false); err != nil {
			log.Error().Err(err).Msg("Failed to load snapshot")
		}
	}

	return c.snapshot
}

// Stops returns every stop in feed order. The returned slice is a deep copy;
// callers may mutate it freely.
func (c *Cache) Stops() []transit.Stop {
	snapshot := c.current(func(s *Snapshot) bool {
		return len(s.Stops) > 0
	})

	return copyOf(snapshot.Stops)
}

// Routes returns every route that resolved at least one stop.
func (c *Cache) Routes() []transit.Route {
	snapshot := c.current(func(s *Snapshot) bool {
		return len(s.Routes) > 0
	})

	return copyOf(snapshot.Routes)
}

// Schedules returns the schedules for one route, optionally filtered to a
// single stop. An unknown route yields an empty list.
func (c *Cache) Schedules(routeID string, stopID string) []transit.Schedule {
	snapshot := c.current(func(s *Snapshot) bool {
		return len(s.Schedules) > 0
	})

	schedules := copyOf(snapshot.Schedules[routeID])

	if stopID != "" {
		util.InPlaceFilter(&schedules, func(schedule transit.Schedule) bool {
			return schedule.Stop.StopID == stopID
		})
	}

	return schedules
}

// SearchStops matches stops whose name, address or identifier contains the
// query, case-insensitively. With no matches it falls back to the first five
// stops of the full set.
func (c *Cache) SearchStops(query string) []transit.Stop {
	stops := c.Stops()

	if query == "" {
		return firstN(stops, 10)
	}

	query = strings.ToLower(query)

	var matches []transit.Stop
	for _, stop := range stops {
		if strings.Contains(strings.ToLower(stop.Name), query) ||
			strings.Contains(strings.ToLower(stop.Address), query) ||
			strings.Contains(strings.ToLower(stop.StopID), query) {
			matches = append(matches, stop)
		}
	}

	if len(matches) == 0 {
		return firstN(stops, 5)
	}

	return matches
}

// SearchRoutes matches routes serving a stop whose name contains origin and
// one whose name contains destination, case-insensitively. Empty terms match
// everything; zero matches fall back to the first five routes.
func (c *Cache) SearchRoutes(origin string, destination string) []transit.Route {
	routes := c.Routes()

	if origin == "" && destination == "" {
		return routes
	}

	origin = strings.ToLower(origin)
	destination = strings.ToLower(destination)

	var matches []transit.Route
	for _, route := range routes {
		var stopNames []string
		for _, stop := range route.Stops {
			stopNames = append(stopNames, strings.ToLower(stop.Name))
		}

		originMatch := origin == "" || anyContains(stopNames, origin)
		destinationMatch := destination == "" || anyContains(stopNames, destination)

		if originMatch && destinationMatch {
			matches = append(matches, route)
		}
	}

	if len(matches) == 0 {
		return firstN(routes, 5)
	}

	return matches
}

func anyContains(values []string, substring string) bool {
	for _, value := range values {
		if strings.Contains(value, substring) {
			return true
		}
	}

	return false
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}

	return items
}

func copyOf[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}

	var copied []T

	if err := copier.CopyWithOption(&copied, items, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Failed to copy snapshot collection")
		return nil
	}

	return copied
}
