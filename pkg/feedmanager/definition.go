package feedmanager

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FeedDefinition describes where a GTFS bundle comes from and where its
// extracted tables are cached on disk. Source accepts a local feed
// directory, a local zip bundle or an http(s) URL to a zip bundle.
type FeedDefinition struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`

	Provider struct {
		Name    string `yaml:"name"`
		Website string `yaml:"website"`
	} `yaml:"provider"`

	Source         string `yaml:"source"`
	CacheDirectory string `yaml:"cache_directory"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func LoadDefinition(path string) (FeedDefinition, error) {
	definitionYaml, err := os.ReadFile(path)
	if err != nil {
		return FeedDefinition{}, err
	}

	var definition FeedDefinition
	if err := yaml.Unmarshal(definitionYaml, &definition); err != nil {
		return FeedDefinition{}, err
	}

	if definition.Source == "" {
		return FeedDefinition{}, errors.New("feed definition has no source")
	}

	if definition.Identifier == "" {
		definition.Identifier = "default"
	}

	if definition.CacheDirectory == "" {
		definition.CacheDirectory = filepath.Join(os.TempDir(), "transitboard", definition.Identifier)
	}

	return definition, nil
}
