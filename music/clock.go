package music

// Clock is an optional precision clock used to align channel starts. The
// player only starts and stops it; its own timing stays tick based.
type Clock interface {
	Start()
	Stop()
	Running() bool
}
