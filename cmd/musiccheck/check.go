package main

import (
	"fmt"
	"io"
	"time"

	"github.com/milk9111/dynmusic/assets"
	"github.com/milk9111/dynmusic/music"
	"github.com/milk9111/dynmusic/sound"
	"github.com/milk9111/dynmusic/tracks"
)

// DurationFunc resolves the length of a sound.
type DurationFunc func(ref music.SoundRef) (time.Duration, error)

// resolveDuration probes tones and asset files without an audio device.
func resolveDuration(ref music.SoundRef) (time.Duration, error) {
	if sound.IsTone(string(ref)) {
		info, err := sound.Probe(string(ref))
		return info.Duration, err
	}
	data, err := assets.LoadAudio(string(ref))
	if err != nil {
		return 0, err
	}
	info, err := sound.ProbeBytes(string(ref), data)
	return info.Duration, err
}

// validate prints a report per track and returns the number of problems.
// Dead ends are reported but are not problems: they end the track.
func validate(w io.Writer, lib *tracks.Library, names []string, durations DurationFunc) int {
	if len(names) == 0 {
		names = lib.Names()
	}

	failures := 0
	for _, name := range names {
		t, ok := lib.Get(name)
		if !ok {
			fmt.Fprintf(w, "%s: unknown track\n", name)
			failures++
			continue
		}
		fmt.Fprintf(w, "%s: %d parts, start %s, fade in %s, fade out %s\n", t.Name, len(t.Parts), t.StartPart, t.FadeIn, t.FadeOut)

		if err := t.Validate(); err != nil {
			fmt.Fprintf(w, "  invalid: %v\n", err)
			failures++
		}
		for _, id := range t.DeadEnds() {
			fmt.Fprintf(w, "  dead end: %s\n", id)
		}
		for _, link := range t.BrokenLinks() {
			fmt.Fprintf(w, "  broken link: %s -> %s\n", link.From, link.To)
			failures++
		}
		for _, id := range t.Unreachable() {
			fmt.Fprintf(w, "  unreachable: %s\n", id)
			failures++
		}
		for _, ref := range tracks.Sounds(t) {
			d, err := durations(ref)
			switch {
			case err != nil:
				fmt.Fprintf(w, "  sound %s: %v\n", ref, err)
				failures++
			case d <= 0:
				fmt.Fprintf(w, "  sound %s: empty\n", ref)
				failures++
			}
		}
	}
	return failures
}

func probe(w io.Writer, refs []string) int {
	failures := 0
	for _, ref := range refs {
		info, err := sound.Probe(ref)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", ref, err)
			failures++
			continue
		}
		fmt.Fprintf(w, "%s: %s %dHz %dch %s\n", ref, info.Format, info.SampleRate, info.Channels, info.Duration)
	}
	return failures
}
