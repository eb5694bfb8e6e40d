// Package tracks loads the music catalog: YAML track files turned into
// music.Track values, with hot reload from disk.
package tracks

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/dynmusic/music"
)

// TrackSpec is the file format of a track.
type TrackSpec struct {
	Name      string     `yaml:"name" validate:"required"`
	StartPart string     `yaml:"start_part" validate:"required"`
	Parts     []PartSpec `yaml:"parts" validate:"required,min=1,unique=ID,dive"`

	FadeIn          time.Duration `yaml:"fade_in" default:"1.5s" validate:"gte=100ms"`
	FadeOut         time.Duration `yaml:"fade_out" default:"2s" validate:"gte=100ms"`
	IntensityChange time.Duration `yaml:"intensity_change" default:"500ms" validate:"gte=100ms"`

	IntenseVolume *float64 `yaml:"intense_volume" default:"1.0" validate:"required,gte=0,lte=1"`
	CalmVolume    *float64 `yaml:"calm_volume" default:"0.4" validate:"required,gte=0,lte=1"`
}

// PartSpec is one part of a TrackSpec.
type PartSpec struct {
	ID          string   `yaml:"id" validate:"required"`
	Sound       string   `yaml:"sound" validate:"required"`
	Volume      *float64 `yaml:"volume" default:"1.0" validate:"required,gte=0,lte=1"`
	NextIntense []string `yaml:"next_intense"`
	NextCalm    []string `yaml:"next_calm"`
}

var validate = validator.New()

// LoadSpec loads and decodes a YAML file through Load.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, errors.Wrapf(err, "tracks: load %s", filename)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, errors.Wrapf(err, "tracks: unmarshal %s", filename)
	}
	return spec, nil
}

// LoadTrack loads, defaults and validates a track file.
func LoadTrack(filename string) (*TrackSpec, error) {
	spec, err := LoadSpec[TrackSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.finish(); err != nil {
		return nil, errors.Wrapf(err, "tracks: %s", filename)
	}
	return &spec, nil
}

// Parse decodes, defaults and validates a track from YAML.
func Parse(data []byte) (*TrackSpec, error) {
	var spec TrackSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "tracks: unmarshal")
	}
	if err := spec.finish(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *TrackSpec) finish() error {
	if err := defaults.Set(s); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	for i := range s.Parts {
		if err := defaults.Set(&s.Parts[i]); err != nil {
			return errors.Wrapf(err, "failed to set defaults of part %d", i)
		}
	}
	if err := validate.Struct(s); err != nil {
		return errors.Wrapf(err, "track %q failed validation", s.Name)
	}
	if err := s.Build().Validate(); err != nil {
		return err
	}
	return nil
}

// Build converts the spec into the immutable track handed to the player.
func (s *TrackSpec) Build() *music.Track {
	t := &music.Track{
		Name:            s.Name,
		StartPart:       music.PartID(s.StartPart),
		FadeIn:          s.FadeIn,
		FadeOut:         s.FadeOut,
		IntensityChange: s.IntensityChange,
		IntenseVolume:   value(s.IntenseVolume, 1),
		CalmVolume:      value(s.CalmVolume, 1),
		Parts:           make([]music.Part, 0, len(s.Parts)),
	}
	for _, p := range s.Parts {
		t.Parts = append(t.Parts, music.Part{
			ID:          music.PartID(p.ID),
			Sound:       music.SoundRef(p.Sound),
			Volume:      value(p.Volume, 1),
			NextIntense: partIDs(p.NextIntense),
			NextCalm:    partIDs(p.NextCalm),
		})
	}
	return t
}

// Sounds returns every distinct sound the track references.
func Sounds(t *music.Track) []music.SoundRef {
	if t == nil {
		return nil
	}
	seen := map[music.SoundRef]bool{}
	var out []music.SoundRef
	for _, p := range t.Parts {
		if p.Sound == "" || seen[p.Sound] {
			continue
		}
		seen[p.Sound] = true
		out = append(out, p.Sound)
	}
	return out
}

func value(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func partIDs(ids []string) []music.PartID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]music.PartID, len(ids))
	for i, id := range ids {
		out[i] = music.PartID(id)
	}
	return out
}
