// Package generation turns a star-system seed file into fully synthesized
// bodies. Stars are resolved first, then primary bodies, then satellites, so
// a satellite's parent always exists before it is generated.
package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/talgya/planetforge/internal/body"
	"github.com/talgya/planetforge/internal/stellar"
)

// BodySeed is one body entry of a seed file.
type BodySeed struct {
	body.Profile

	// Identifier is unique within the system; it defaults to Name.
	Identifier string `json:"identifier,omitempty"`
	// Parent names the identifier of the body this one orbits. A body with
	// a parent is a satellite.
	Parent string `json:"parent_identifier,omitempty"`
	// Star is the host star's name; empty means the first star.
	Star string `json:"star,omitempty"`
	// MapKey selects the reference-map directory; it defaults to Name.
	MapKey string `json:"map_key,omitempty"`
}

// ID returns the body's identifier within its system.
func (b BodySeed) ID() string {
	if b.Identifier != "" {
		return b.Identifier
	}
	return b.Name
}

// Satellite reports whether the body orbits another body.
func (b BodySeed) Satellite() bool { return b.Parent != "" }

func (b BodySeed) mapKey() string {
	if b.MapKey != "" {
		return b.MapKey
	}
	return b.Name
}

// SystemSeed is the input for one star system. A zero Seed means a random
// one is drawn at generation time.
type SystemSeed struct {
	Name   string         `json:"name"`
	Seed   int64          `json:"seed,omitempty"`
	Stars  []stellar.Star `json:"stars"`
	Bodies []BodySeed     `json:"celestial_bodies"`
}

// LoadSeed reads a system seed from a JSON file.
func LoadSeed(path string) (SystemSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SystemSeed{}, fmt.Errorf("read seed file: %w", err)
	}
	var s SystemSeed
	if err := json.Unmarshal(data, &s); err != nil {
		return SystemSeed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return SystemSeed{}, fmt.Errorf("seed file %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the structural requirements of a seed. Physical values
// are not checked.
func (s SystemSeed) Validate() error {
	if s.Name == "" {
		return errors.New("system name is required")
	}
	if len(s.Stars) == 0 {
		return errors.New("at least one star is required")
	}
	for i, b := range s.Bodies {
		if b.ID() == "" {
			return fmt.Errorf("body %d has neither name nor identifier", i)
		}
	}
	return nil
}
