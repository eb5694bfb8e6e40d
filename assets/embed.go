// Package assets holds the audio files shipped with the game.
package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed music
var assetsFS embed.FS

// Dir is the on-disk assets directory. Files found there win over the
// embedded copies so sounds can be replaced without a rebuild.
var Dir = "assets"

// LoadFile loads an asset by assets-relative path, preferring the disk copy.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if Dir != "" {
		if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return assetsFS.ReadFile(clean)
}

// LoadAudio loads an audio asset. It is the loader handed to sound.Provider.
func LoadAudio(path string) ([]byte, error) {
	return LoadFile(path)
}

// Exists reports whether path resolves on disk or in the embedded files.
func Exists(path string) bool {
	clean := cleanAssetPath(path)
	if Dir != "" {
		if _, err := os.Stat(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
			return true
		}
	}
	_, err := fs.Stat(assetsFS, clean)
	return err == nil
}

// Embedded lists the embedded asset paths under dir.
func Embedded(dir string) ([]string, error) {
	var out []string
	err := fs.WalkDir(assetsFS, cleanAssetPath(dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s = strings.TrimPrefix(s, "./")
	return strings.TrimPrefix(s, "assets/")
}
