package feedmanager

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitboard/transitboard/pkg/gtfs"
)

const defaultFetchTimeout = 30 * time.Second

// Manager fetches and extracts the GTFS bundle for one feed definition. It
// implements board.FeedSource.
type Manager struct {
	Definition FeedDefinition

	client *http.Client
}

func NewManager(definition FeedDefinition) *Manager {
	timeout := defaultFetchTimeout
	if definition.TimeoutSeconds > 0 {
		timeout = time.Duration(definition.TimeoutSeconds) * time.Second
	}

	return &Manager{
		Definition: definition,
		client:     &http.Client{Timeout: timeout},
	}
}

// Fetch resolves the definition's source into an extracted feed directory
// and loads the tables from it.
func (m *Manager) Fetch() (*gtfs.Feed, error) {
	source := m.Definition.Source

	switch {
	case isValidURL(source):
		log.Info().Str("source", source).Msg("Downloading feed bundle")

		archiveBytes, err := m.download(source)
		if err != nil {
			return nil, err
		}

		source, err = m.extract(archiveBytes)
		if err != nil {
			return nil, err
		}
	case strings.EqualFold(filepath.Ext(source), ".zip"):
		archiveBytes, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}

		source, err = m.extract(archiveBytes)
		if err != nil {
			return nil, err
		}
	}

	feed := gtfs.NewFeed()
	if err := feed.ParseDirectory(source); err != nil {
		return nil, err
	}

	return feed, nil
}

func (m *Manager) download(source string) ([]byte, error) {
	req, err := http.NewRequest("GET", source, nil)
	if err != nil {
		return nil, err
	}
	// some feed hosts sit behind CDNs that reject requests with no user agent
	req.Header.Set("user-agent", "curl/7.54.1")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// extract unpacks a zip bundle into the cache directory and returns the
// extracted path. Nested paths inside the archive are flattened, as some
// agencies publish their tables one directory down.
func (m *Manager) extract(archiveBytes []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(archiveBytes), int64(len(archiveBytes)))
	if err != nil {
		return "", err
	}

	extractPath := filepath.Join(m.Definition.CacheDirectory, "extracted")
	if err := os.MkdirAll(extractPath, 0755); err != nil {
		return "", err
	}

	for _, zipFile := range archive.File {
		if zipFile.FileInfo().IsDir() {
			continue
		}

		file, err := zipFile.Open()
		if err != nil {
			return "", err
		}

		destination, err := os.Create(filepath.Join(extractPath, filepath.Base(zipFile.Name)))
		if err != nil {
			file.Close()
			return "", err
		}

		_, err = io.Copy(destination, file)
		file.Close()
		destination.Close()
		if err != nil {
			return "", err
		}
	}

	return extractPath, nil
}

func isValidURL(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}
