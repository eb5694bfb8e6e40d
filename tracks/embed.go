package tracks

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed *.yaml
var TracksFS embed.FS

// Dir is the on-disk track directory, checked before the embedded files.
var Dir = "tracks"

// Load reads a track file, preferring the disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanTrackPath(name)
	if data, err := os.ReadFile(diskTrackPath(clean)); err == nil {
		return data, nil
	}
	return TracksFS.ReadFile(clean)
}

// ModTime returns the modification time of the disk copy, if there is one.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskTrackPath(cleanTrackPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Files lists the track files from the disk directory and the embedded set.
func Files() ([]string, error) {
	seen := map[string]bool{}

	embedded, err := fs.Glob(TracksFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	for _, f := range embedded {
		seen[f] = true
	}

	if Dir != "" {
		entries, err := os.ReadDir(Dir)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && isSpecFile(e.Name()) {
					seen[e.Name()] = true
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func cleanTrackPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	if !isSpecFile(s) {
		s += ".yaml"
	}
	return s
}

func diskTrackPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
