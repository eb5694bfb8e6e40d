package music

import "time"

// Fader linearly interpolates an output volume towards a target over time.
type Fader struct {
	volume   float64
	start    float64
	target   float64
	duration time.Duration
	elapsed  time.Duration
	fading   bool
}

// Volume returns the current output volume.
func (f *Fader) Volume() float64 { return f.volume }

// Target returns the volume of the last started fade.
func (f *Fader) Target() float64 { return f.target }

// Fading reports whether a fade is in progress.
func (f *Fader) Fading() bool { return f.fading }

// Set jumps to v and cancels any fade in progress.
func (f *Fader) Set(v float64) {
	f.volume = v
	f.start = v
	f.target = v
	f.elapsed = 0
	f.duration = 0
	f.fading = false
}

// Start begins a fade from the current volume to target. Calling Start while
// a fade is running restarts from wherever the previous fade had reached, so
// the output never jumps. A non-positive duration applies target at once.
func (f *Fader) Start(target float64, d time.Duration) {
	f.start = f.volume
	f.target = target
	f.duration = d
	f.elapsed = 0

	if d <= 0 {
		f.volume = target
		f.fading = false
		return
	}
	f.fading = true
}

// Advance moves the fade forward by dt and reports whether the volume changed.
func (f *Fader) Advance(dt time.Duration) bool {
	if !f.fading {
		return false
	}

	f.elapsed += dt
	if f.elapsed >= f.duration {
		f.volume = f.target
		f.fading = false
		return true
	}

	alpha := float64(f.elapsed) / float64(f.duration)
	f.volume = lerp(f.start, f.target, alpha)
	return true
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// TargetVolume is the volume a track should settle at for the given part and
// intensity. Unknown parts count as full volume.
func TargetVolume(t *Track, part PartID, intense bool) float64 {
	if t == nil {
		return 1
	}
	partVolume := 1.0
	if p, ok := t.FindPart(part); ok {
		partVolume = p.Volume
	}
	v := t.ZoneVolume(intense) * partVolume
	if v < 0 {
		return 0
	}
	return v
}
