// Package music schedules gapless playback of multi-part music tracks and
// drives their volume from the gameplay intensity state.
package music

// State is the playback state of a Player.
type State int

const (
	StateStopped   State = iota // Nothing is playing
	StateFadingIn               // First part playing while the fade-in runs
	StatePlaying                // Parts are being chained normally
	StateFadingOut              // Fading to silence before a full stop
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateFadingIn:
		return "fading_in"
	case StatePlaying:
		return "playing"
	case StateFadingOut:
		return "fading_out"
	default:
		return "unknown"
	}
}
