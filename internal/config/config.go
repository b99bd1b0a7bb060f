// Package config loads simulation tuning from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// Load reads the tuning file at path over sim.DefaultTuning. Fields missing
// from the file keep their defaults. An empty path returns the defaults.
func Load(path string) (sim.Tuning, error) {
	if path == "" {
		return sim.DefaultTuning(), nil
	}
	f, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return sim.Tuning{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	tu, err := Parse(f)
	if err != nil {
		return sim.Tuning{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return tu, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
// Durations are written as Go duration strings, e.g. "600ms" or "3s".
func Parse(r io.Reader) (sim.Tuning, error) {
	tu := sim.DefaultTuning()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tu); err != nil && !errors.Is(err, io.EOF) {
		return sim.Tuning{}, fmt.Errorf("decode: %w", err)
	}
	if err := tu.Validate(); err != nil {
		return sim.Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return tu, nil
}

// Write encodes tu as YAML, suitable as a starting point for a custom file.
func Write(w io.Writer, tu sim.Tuning) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tu); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}
