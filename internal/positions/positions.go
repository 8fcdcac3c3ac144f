// Package positions persists entity positions between runs and reads
// diagram input documents.
package positions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/erdlayout/internal/layout"
)

// Load reads saved positions from path. A missing file yields an empty map.
func Load(path string) (map[string]layout.Point, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]layout.Point{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	saved := map[string]layout.Point{}
	// yaml.v3 accepts JSON documents as well
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to parse positions %s: %w", path, err)
	}
	return saved, nil
}

// Save writes every placed position of d to path, keyed and sorted by entity
// name. A .json extension selects JSON, anything else YAML.
func Save(path string, d *layout.Diagram) error {
	positions := d.Positions()

	var (
		data []byte
		err  error
	)
	// both encoders emit map keys in sorted order
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(positions, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(positions)
	}
	if err != nil {
		return fmt.Errorf("failed to encode positions: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create positions directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write positions: %w", err)
	}
	return nil
}

// ReadERData decodes an entities/relationships document in YAML or JSON.
func ReadERData(r io.Reader) (*layout.ERData, error) {
	var data layout.ERData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input document is empty")
		}
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	for i, e := range data.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d has no name", i)
		}
	}
	return &data, nil
}
