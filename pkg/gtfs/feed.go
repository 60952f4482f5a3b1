package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

var tableFileNames = []string{
	"routes.txt",
	"stops.txt",
	"trips.txt",
	"stop_times.txt",
	"calendar.txt",
}

// Feed holds the five GTFS tables of one loaded feed. Tables are populated
// once by ParseDirectory or ParseArchive and read only afterwards.
//
// Keyed tables keep their file order alongside the map, as the joins below
// and the public query surface depend on stable "first found" semantics.
type Feed struct {
	Routes    map[string]RouteRecord
	Stops     map[string]StopRecord
	Trips     map[string]TripRecord
	StopTimes []StopTimeRecord
	Calendars map[string]CalendarRecord

	routeOrder []string
	stopOrder  []string
	tripOrder  []string
}

func NewFeed() *Feed {
	return &Feed{
		Routes:    map[string]RouteRecord{},
		Stops:     map[string]StopRecord{},
		Trips:     map[string]TripRecord{},
		Calendars: map[string]CalendarRecord{},
	}
}

// RouteIDs returns the route identifiers in the order they appeared in the
// routes table.
func (feed *Feed) RouteIDs() []string {
	return feed.routeOrder
}

// StopIDs returns the stop identifiers in stops table order.
func (feed *Feed) StopIDs() []string {
	return feed.stopOrder
}

// ParseDirectory loads the feed tables from an extracted feed directory. A
// missing table file is not an error - the table simply loads as empty so
// partial feeds still produce usable routes and stops.
func (feed *Feed) ParseDirectory(path string) error {
	setupCSVReader()

	for _, fileName := range tableFileNames {
		file, err := os.Open(filepath.Join(path, fileName))
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("file", fileName).Msg("Table file missing, loading as empty")
			continue
		}
		if err != nil {
			return err
		}

		feed.parseTable(fileName, file)
		file.Close()
	}

	feed.logSummary()

	return nil
}

// ParseArchive loads the feed tables straight out of a zip bundle.
func (feed *Feed) ParseArchive(reader io.Reader) error {
	setupCSVReader()

	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	archiveFiles := map[string]*zip.File{}
	for _, zipFile := range archive.File {
		archiveFiles[filepath.Base(zipFile.Name)] = zipFile
	}

	for _, fileName := range tableFileNames {
		zipFile, exists := archiveFiles[fileName]
		if !exists {
			log.Warn().Str("file", fileName).Msg("Table file missing, loading as empty")
			continue
		}

		fileReader, err := zipFile.Open()
		if err != nil {
			log.Error().Str("file", fileName).Err(err).Msg("Failed to open archived table file")
			continue
		}

		feed.parseTable(fileName, fileReader)
		fileReader.Close()
	}

	feed.logSummary()

	return nil
}

// Allow us to ignore those naughty records that have missing columns
func setupCSVReader() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})
}

// parseTable reads one table. A table that fails to parse outright loads as
// empty - a bad file costs its own rows, never the whole feed.
func (feed *Feed) parseTable(fileName string, reader io.Reader) {
	var err error

	switch fileName {
	case "routes.txt":
		var records []RouteRecord
		if err = gocsv.Unmarshal(reader, &records); err == nil {
			for _, record := range records {
				if record.ID == "" {
					continue
				}
				if record.Type == "" {
					record.Type = RouteTypeBus
				}
				if _, exists := feed.Routes[record.ID]; !exists {
					feed.routeOrder = append(feed.routeOrder, record.ID)
				}
				feed.Routes[record.ID] = record
			}
		}
	case "stops.txt":
		var records []StopRecord
		if err = gocsv.Unmarshal(reader, &records); err == nil {
			for _, record := range records {
				if record.ID == "" {
					continue
				}
				// Coordinates come as a pair or not at all
				if _, _, ok := record.Position(); !ok {
					record.Latitude = Coordinate{}
					record.Longitude = Coordinate{}
				}
				if _, exists := feed.Stops[record.ID]; !exists {
					feed.stopOrder = append(feed.stopOrder, record.ID)
				}
				feed.Stops[record.ID] = record
			}
		}
	case "trips.txt":
		var records []TripRecord
		if err = gocsv.Unmarshal(reader, &records); err == nil {
			for _, record := range records {
				if record.ID == "" {
					continue
				}
				if _, exists := feed.Trips[record.ID]; !exists {
					feed.tripOrder = append(feed.tripOrder, record.ID)
				}
				feed.Trips[record.ID] = record
			}
		}
	case "stop_times.txt":
		var records []StopTimeRecord
		if err = gocsv.Unmarshal(reader, &records); err == nil {
			dropped := 0
			for _, record := range records {
				if _, ok := record.StopSequence.Int(); !ok {
					dropped++
					continue
				}
				feed.StopTimes = append(feed.StopTimes, record)
			}
			if dropped > 0 {
				log.Warn().Int("rows", dropped).Msg("Dropped stop_times rows with unparsable stop_sequence")
			}
		}
	case "calendar.txt":
		var records []CalendarRecord
		if err = gocsv.Unmarshal(reader, &records); err == nil {
			for _, record := range records {
				if record.ServiceID == "" {
					continue
				}
				feed.Calendars[record.ServiceID] = record
			}
		}
	}

	if err != nil {
		log.Error().Str("file", fileName).Err(err).Msg("Failed to parse csv file, loading table as empty")
	}
}

func (feed *Feed) logSummary() {
	log.Info().
		Int("routes", len(feed.Routes)).
		Int("stops", len(feed.Stops)).
		Int("trips", len(feed.Trips)).
		Int("stop_times", len(feed.StopTimes)).
		Int("calendars", len(feed.Calendars)).
		Msg("Loaded GTFS tables")
}

// TripsForRoute returns the route's trips in trips table order.
func (feed *Feed) TripsForRoute(routeID string) []TripRecord {
	var trips []TripRecord

	for _, tripID := range feed.tripOrder {
		trip := feed.Trips[tripID]
		if trip.RouteID == routeID {
			trips = append(trips, trip)
		}
	}

	return trips
}

// StopsForRoute returns the ordered, deduplicated stops served by the
// route's representative trip - the first of the route's trips in table
// order. Routes with several trip patterns collapse onto that single
// pattern. stop_times rows referencing stops absent from the stops table are
// skipped.
func (feed *Feed) StopsForRoute(routeID string) []StopRecord {
	trips := feed.TripsForRoute(routeID)
	if len(trips) == 0 {
		return nil
	}
	representative := trips[0]

	sequenceMap := map[int]StopTimeRecord{}
	for _, stopTime := range feed.StopTimes {
		if stopTime.TripID != representative.ID {
			continue
		}
		if sequence, ok := stopTime.StopSequence.Int(); ok {
			sequenceMap[sequence] = stopTime
		}
	}

	sequences := maps.Keys(sequenceMap)
	sort.Ints(sequences)

	var stops []StopRecord
	seenStops := map[string]bool{}
	for _, sequence := range sequences {
		stopTime := sequenceMap[sequence]

		stop, exists := feed.Stops[stopTime.StopID]
		if !exists || seenStops[stopTime.StopID] {
			continue
		}

		seenStops[stopTime.StopID] = true
		stops = append(stops, stop)
	}

	return stops
}

// StopTimesForRoute returns every stop_times row belonging to any of the
// route's trips, optionally filtered to a single stop. Pass an empty stopID
// for all stops.
func (feed *Feed) StopTimesForRoute(routeID string, stopID string) []StopTimeRecord {
	routeTrips := map[string]bool{}
	for _, trip := range feed.TripsForRoute(routeID) {
		routeTrips[trip.ID] = true
	}

	var stopTimes []StopTimeRecord
	for _, stopTime := range feed.StopTimes {
		if !routeTrips[stopTime.TripID] {
			continue
		}
		if stopID != "" && stopTime.StopID != stopID {
			continue
		}
		stopTimes = append(stopTimes, stopTime)
	}

	return stopTimes
}
