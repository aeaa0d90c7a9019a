package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ContentTypesFile represents the structure of the content types YAML file.
// Lets operators add or reshape upload types without a rebuild.
type ContentTypesFile struct {
	Types []ContentTypeConfig `yaml:"types"`
}

// ContentTypeConfig defines one content type override.
type ContentTypeConfig struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"` // Empty means any file is accepted
	HelpText   string   `yaml:"help_text,omitempty"`
	Accept     string   `yaml:"accept,omitempty"`   // HTML accept attribute
	Modality   string   `yaml:"modality,omitempty"` // "file", "url" or "text"
	Home       bool     `yaml:"home,omitempty"`     // Listed on the home page
}

// LoadContentTypes loads the content types override file at path.
// Returns nil without error if the file doesn't exist.
func LoadContentTypes(path string) (*ContentTypesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Overrides are optional
			return nil, nil
		}
		return nil, err
	}

	var f ContentTypesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// GetType finds an override by id.
func (f *ContentTypesFile) GetType(id string) *ContentTypeConfig {
	if f == nil {
		return nil
	}
	for i := range f.Types {
		if f.Types[i].ID == id {
			return &f.Types[i]
		}
	}
	return nil
}
