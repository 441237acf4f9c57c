package taxonomy

import (
	_ "embed"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed mira_topics.yaml
var defaultDocument []byte

var (
	defaultOnce  sync.Once
	defaultIndex *Index
	defaultErr   error
)

// LoadBytes parses and validates a YAML taxonomy document.
func LoadBytes(data []byte) (*Index, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse taxonomy document")
	}
	return FromDocument(&doc)
}

// LoadFile loads a taxonomy document from disk.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read taxonomy file %s", path)
	}
	idx, err := LoadBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid taxonomy file %s", path)
	}
	return idx, nil
}

// Default returns the embedded insurance-advisor taxonomy.
func Default() (*Index, error) {
	defaultOnce.Do(func() {
		defaultIndex, defaultErr = LoadBytes(defaultDocument)
	})
	return defaultIndex, defaultErr
}
