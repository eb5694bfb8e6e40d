package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, false)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "music").Msg("starting track")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "starting track", entry["message"])
	assert.Equal(t, "music", entry["component"])
	assert.NotContains(t, entry, "caller")
}

func TestNew_DebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel, false)
	log.Debug().Msg("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry, "caller")
}

func TestInit_File(t *testing.T) {
	prev := zlog.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zlog.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "music.log")
	require.NoError(t, Init(Config{Output: "file", File: path, Level: "warn"}))

	zlog.Info().Msg("dropped")
	zlog.Warn().Msg("dead end")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "dead end")
}

func TestInit_BadFile(t *testing.T) {
	err := Init(Config{Output: "file", File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
