// Package extracts parses GoldenGate extract configuration documents and
// checks their TABLE declarations against the CDC field exclude list.
package extracts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses an extracts configuration file. The document is
// returned as a yaml.Node tree so the extractor can walk arbitrary nesting
// without reflecting on decoded interface values. JSON input parses as-is
// since JSON is a YAML subset.
func LoadConfig(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{Kind: ConfigNotFound, Path: path, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Kind: ConfigMalformed, Path: path, Err: err}
	}

	log.Info().Str("path", path).Msg("extract configuration parsed")
	return &doc, nil
}
