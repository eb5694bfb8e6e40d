package music

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_Validate(t *testing.T) {
	valid, _ := testTrack()

	tests := []struct {
		name    string
		track   *Track
		wantErr error
	}{
		{"valid", valid, nil},
		{"nil", nil, ErrNilTrack},
		{"no_parts", &Track{Name: "x", StartPart: "a"}, ErrNoParts},
		{"no_start", &Track{Name: "x", Parts: []Part{{ID: "a", Sound: "a.wav"}}}, ErrNoStartPart},
		{"start_missing", &Track{Name: "x", StartPart: "b", Parts: []Part{{ID: "a", Sound: "a.wav"}}}, ErrStartPartNotFound},
		{"start_no_sound", &Track{Name: "x", StartPart: "a", Parts: []Part{{ID: "a"}}}, ErrStartPartNoSound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.track.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestTrack_FindPart(t *testing.T) {
	track, _ := testTrack()

	part, ok := track.FindPart("loop2")
	require.True(t, ok)
	assert.Equal(t, SoundRef("loop2.wav"), part.Sound)

	_, ok = track.FindPart("nope")
	assert.False(t, ok)
	_, ok = track.FindPart("")
	assert.False(t, ok)

	var nilTrack *Track
	_, ok = nilTrack.FindPart("intro")
	assert.False(t, ok)
}

func TestTrack_GraphChecks(t *testing.T) {
	track, _ := testTrack()
	track.Parts = append(track.Parts,
		Part{ID: "orphan", Sound: "loop1.wav", NextIntense: []PartID{"ghost"}},
		Part{ID: "silent", NextIntense: []PartID{"intro"}},
	)
	track.Parts[0].NextCalm = []PartID{"silent"}

	assert.Equal(t, []PartID{"outro"}, track.DeadEnds())
	assert.ElementsMatch(t, []BrokenLink{
		{From: "intro", To: "silent"},
		{From: "orphan", To: "ghost"},
	}, track.BrokenLinks())
	assert.Equal(t, []PartID{"orphan"}, track.Unreachable())
}
