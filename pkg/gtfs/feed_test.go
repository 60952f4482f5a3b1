package gtfs

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeedDirectory(t *testing.T, files map[string][]string) string {
	t.Helper()

	directory := t.TempDir()
	for fileName, lines := range files {
		err := os.WriteFile(filepath.Join(directory, fileName), []byte(strings.Join(lines, "\n")), 0644)
		require.NoError(t, err)
	}

	return directory
}

func testFeedFiles() map[string][]string {
	return map[string][]string{
		"routes.txt": {
			"route_id,route_short_name,route_long_name,route_type",
			"R1,A,Campus Loop,3",
			"R2,,Night Shuttle,",
		},
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon,stop_desc",
			"S1,Union,36.12,-97.07,Student Union east entrance",
			"S2,Library,36.13,-97.08,",
			"S3,Stadium,not-a-number,-97.09,",
			"S4,Monroe St,,-97.10,",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,trip_headsign",
			"T1,R1,WEEK,Inbound",
			"T2,R1,WEEK,Inbound",
			"T3,R2,WEEK,Outbound",
		},
		"stop_times.txt": {
			"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
			"T1,07:59:00,08:00:00,S1,1",
			"T1,08:09:00,08:10:00,S2,2",
			"T1,08:19:00,08:20:00,S1,3",
			"T2,09:00:00,09:01:00,S1,1",
			"T2,09:10:00,09:11:00,S2,2",
			"T3,22:00:00,22:00:00,S2,1",
			"T3,25:30:00,25:30:00,S1,2",
			"T3,26:00:00,26:00:00,SX,bogus",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"WEEK,1,1,1,1,1,0,0,20250101,20251231",
		},
	}
}

func TestParseDirectory(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	assert.Len(t, feed.Routes, 2)
	assert.Len(t, feed.Stops, 4)
	assert.Len(t, feed.Trips, 3)
	assert.Len(t, feed.Calendars, 1)

	// the row with an unparsable stop_sequence is dropped
	assert.Len(t, feed.StopTimes, 7)

	assert.Equal(t, []string{"R1", "R2"}, feed.RouteIDs())
	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, feed.StopIDs())
}

func TestParseDirectoryMissingTables(t *testing.T) {
	feed := NewFeed()
	files := testFeedFiles()
	delete(files, "calendar.txt")
	delete(files, "stop_times.txt")

	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, files)))

	assert.Len(t, feed.Routes, 2)
	assert.Empty(t, feed.Calendars)
	assert.Empty(t, feed.StopTimes)
}

func TestParseDirectoryEmpty(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(t.TempDir()))

	assert.Empty(t, feed.Routes)
	assert.Empty(t, feed.Stops)
	assert.Empty(t, feed.Trips)
	assert.Empty(t, feed.StopTimes)
	assert.Empty(t, feed.Calendars)
}

func TestRouteTypeDefaultsToBus(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	assert.Equal(t, "3", feed.Routes["R1"].Type)
	assert.Equal(t, RouteTypeBus, feed.Routes["R2"].Type)
}

func TestStopCoordinatesPairOrNothing(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	latitude, longitude, ok := feed.Stops["S1"].Position()
	require.True(t, ok)
	assert.InDelta(t, 36.12, latitude, 0.0001)
	assert.InDelta(t, -97.07, longitude, 0.0001)

	// junk latitude drops the whole pair
	_, _, ok = feed.Stops["S3"].Position()
	assert.False(t, ok)
	_, valid := feed.Stops["S3"].Longitude.Float64()
	assert.False(t, valid)

	// blank latitude does too
	_, _, ok = feed.Stops["S4"].Position()
	assert.False(t, ok)
}

func TestStopsForRoute(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	stops := feed.StopsForRoute("R1")
	require.Len(t, stops, 2)

	// representative trip is T1; the revisit of S1 at sequence 3 deduplicates
	assert.Equal(t, "S1", stops[0].ID)
	assert.Equal(t, "S2", stops[1].ID)
}

func TestStopsForRouteSkipsUnknownStops(t *testing.T) {
	feed := NewFeed()
	files := testFeedFiles()
	files["stop_times.txt"] = []string{
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
		"T1,07:59:00,08:00:00,S1,1",
		"T1,08:09:00,08:10:00,GHOST,2",
		"T1,08:19:00,08:20:00,S2,3",
	}
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, files)))

	stops := feed.StopsForRoute("R1")
	require.Len(t, stops, 2)
	assert.Equal(t, "S1", stops[0].ID)
	assert.Equal(t, "S2", stops[1].ID)
}

func TestStopsForRouteWithoutTrips(t *testing.T) {
	feed := NewFeed()
	files := testFeedFiles()
	files["routes.txt"] = append(files["routes.txt"], "R3,C,Orphan Route,3")
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, files)))

	assert.Empty(t, feed.StopsForRoute("R3"))
	assert.Empty(t, feed.StopsForRoute("unknown"))
}

func TestStopTimesForRoute(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	// R1 collects stop_times across both its trips
	stopTimes := feed.StopTimesForRoute("R1", "")
	assert.Len(t, stopTimes, 5)

	filtered := feed.StopTimesForRoute("R1", "S2")
	require.Len(t, filtered, 2)
	for _, stopTime := range filtered {
		assert.Equal(t, "S2", stopTime.StopID)
	}

	assert.Empty(t, feed.StopTimesForRoute("unknown", ""))
}

func TestParseArchive(t *testing.T) {
	buffer := &bytes.Buffer{}
	writer := zip.NewWriter(buffer)
	for fileName, lines := range testFeedFiles() {
		file, err := writer.Create(fileName)
		require.NoError(t, err)
		_, err = file.Write([]byte(strings.Join(lines, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	feed := NewFeed()
	require.NoError(t, feed.ParseArchive(buffer))

	assert.Len(t, feed.Routes, 2)
	assert.Len(t, feed.Stops, 4)
	assert.Len(t, feed.StopTimes, 7)
}

func TestCalendarRunningDays(t *testing.T) {
	feed := NewFeed()
	require.NoError(t, feed.ParseDirectory(writeFeedDirectory(t, testFeedFiles())))

	calendar := feed.Calendars["WEEK"]
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, calendar.RunningDays())
	assert.Equal(t, "20250101", calendar.StartDate)
}
