package accessibility

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads the accessibility reports file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the reports file.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read accessibility file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a reports document.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse accessibility yaml: %w", err)
	}
	return f, nil
}
