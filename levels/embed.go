// Package levels loads the JSON level layouts.
package levels

import (
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:embed *.json scripts/*.tengo
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is a flat room of entities. Coordinates are in pixels.
type Level struct {
	Name     string   `json:"name"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Entities []Entity `json:"entities,omitempty"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	W     int            `json:"w,omitempty"`
	H     int            `json:"h,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// String returns a string prop, or def when missing.
func (e Entity) String(key, def string) string {
	if v, ok := e.Props[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a bool prop, or def when missing.
func (e Entity) Bool(key string, def bool) bool {
	if v, ok := e.Props[key].(bool); ok {
		return v
	}
	return def
}

// Float returns a numeric prop, or def when missing.
func (e Entity) Float(key string, def float64) float64 {
	if v, ok := e.Props[key].(float64); ok {
		return v
	}
	return def
}

// LoadLevelFromFS reads a level from the embedded levels.
func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, path.Clean(name))
	if err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	return Parse(data)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, errors.Wrap(err, "unmarshal level")
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks the level size and that every entity has a type and fits
// inside the level.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return errors.Wrapf(ErrInvalidLevel, "level %q: size %dx%d", l.Name, l.Width, l.Height)
	}
	for i, e := range l.Entities {
		if e.Type == "" {
			return errors.Wrapf(ErrInvalidLevel, "level %q: entity %d has no type", l.Name, i)
		}
		if e.X < 0 || e.Y < 0 || e.X+e.W > l.Width || e.Y+e.H > l.Height {
			return errors.Wrapf(ErrInvalidLevel, "level %q: entity %d (%s) is outside the level", l.Name, i, e.Type)
		}
	}
	return nil
}

// LoadScript reads an enemy script from scripts/. The extension is optional.
func LoadScript(name string) ([]byte, error) {
	name = path.Base(name)
	if !strings.HasSuffix(name, ".tengo") {
		name += ".tengo"
	}
	data, err := fs.ReadFile(LevelsFS, path.Join("scripts", name))
	if err != nil {
		return nil, errors.Wrapf(err, "read script %q", name)
	}
	return data, nil
}

// Names lists the embedded levels without their extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	return names
}
