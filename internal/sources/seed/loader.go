// Package seed reads a yaml library file and turns it into book drafts.
package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a seed file from disk.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the file being loaded.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the seed file.
func (l *Loader) Load() (ShelvesConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed yaml. Template variables ({{...}}) become empty strings.
func Parse(data []byte) (ShelvesConfig, error) {
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var config ShelvesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return config, nil
}
