package feedmanager

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureFiles = map[string][]string{
	"routes.txt": {
		"route_id,route_short_name,route_long_name,route_type",
		"R1,A,Campus Loop,3",
	},
	"stops.txt": {
		"stop_id,stop_name,stop_lat,stop_lon,stop_desc",
		"S1,Union,36.12,-97.07,",
		"S2,Library,36.13,-97.08,",
	},
	"trips.txt": {
		"trip_id,route_id,service_id,trip_headsign",
		"T1,R1,WEEK,Inbound",
	},
	"stop_times.txt": {
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
		"T1,07:59:00,08:00:00,S1,1",
		"T1,08:09:00,08:10:00,S2,2",
	},
}

func fixtureDirectory(t *testing.T) string {
	t.Helper()

	directory := t.TempDir()
	for fileName, lines := range fixtureFiles {
		err := os.WriteFile(filepath.Join(directory, fileName), []byte(strings.Join(lines, "\n")), 0644)
		require.NoError(t, err)
	}

	return directory
}

func fixtureArchive(t *testing.T) []byte {
	t.Helper()

	buffer := &bytes.Buffer{}
	writer := zip.NewWriter(buffer)
	for fileName, lines := range fixtureFiles {
		// tables one directory down, as some agencies publish them
		file, err := writer.Create("gtfs/" + fileName)
		require.NoError(t, err)
		_, err = file.Write([]byte(strings.Join(lines, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"identifier: campus-shuttle",
		"name: Campus Shuttle",
		"provider:",
		"  name: State University",
		"source: https://transit.example.com/gtfs.zip",
		"timeout_seconds: 10",
	}, "\n")), 0644))

	definition, err := LoadDefinition(path)
	require.NoError(t, err)

	assert.Equal(t, "campus-shuttle", definition.Identifier)
	assert.Equal(t, "State University", definition.Provider.Name)
	assert.Equal(t, "https://transit.example.com/gtfs.zip", definition.Source)
	assert.Equal(t, 10, definition.TimeoutSeconds)
	assert.NotEmpty(t, definition.CacheDirectory)
}

func TestLoadDefinitionRequiresSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identifier: campus-shuttle"), 0644))

	_, err := LoadDefinition(path)
	assert.Error(t, err)
}

func TestLoadDefinitionMissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFetchDirectory(t *testing.T) {
	manager := NewManager(FeedDefinition{
		Identifier: "test",
		Source:     fixtureDirectory(t),
	})

	feed, err := manager.Fetch()
	require.NoError(t, err)

	assert.Len(t, feed.Routes, 1)
	assert.Len(t, feed.Stops, 2)
	assert.Len(t, feed.StopTimes, 2)
}

func TestFetchLocalArchive(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(archivePath, fixtureArchive(t), 0644))

	manager := NewManager(FeedDefinition{
		Identifier:     "test",
		Source:         archivePath,
		CacheDirectory: t.TempDir(),
	})

	feed, err := manager.Fetch()
	require.NoError(t, err)

	assert.Len(t, feed.Routes, 1)
	assert.Len(t, feed.Trips, 1)
}

func TestFetchDownload(t *testing.T) {
	archive := fixtureArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer server.Close()

	manager := NewManager(FeedDefinition{
		Identifier:     "test",
		Source:         server.URL + "/gtfs.zip",
		CacheDirectory: t.TempDir(),
	})

	feed, err := manager.Fetch()
	require.NoError(t, err)

	assert.Len(t, feed.Routes, 1)
	assert.Len(t, feed.Stops, 2)
}

func TestFetchDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	manager := NewManager(FeedDefinition{
		Identifier:     "test",
		Source:         server.URL + "/gtfs.zip",
		CacheDirectory: t.TempDir(),
	})

	_, err := manager.Fetch()
	assert.Error(t, err)
}
