package sound

import (
	"time"

	"github.com/milk9111/dynmusic/music"
)

// SampleClock counts output sample frames since it was started. The music
// player starts it with the first track and stops it at teardown.
type SampleClock struct {
	sampleRate int
	now        func() time.Time

	running bool
	started time.Time
	frames  int64 // accumulated by earlier runs
}

var _ music.Clock = (*SampleClock)(nil)

func NewSampleClock(sampleRate int) *SampleClock {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &SampleClock{sampleRate: sampleRate, now: time.Now}
}

func (c *SampleClock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.started = c.now()
}

func (c *SampleClock) Stop() {
	if !c.running {
		return
	}
	c.frames += c.current()
	c.running = false
}

func (c *SampleClock) Running() bool { return c.running }

// Frames returns the total number of sample frames counted.
func (c *SampleClock) Frames() int64 {
	if !c.running {
		return c.frames
	}
	return c.frames + c.current()
}

// Elapsed converts Frames to a duration.
func (c *SampleClock) Elapsed() time.Duration {
	return framesToDuration(c.Frames(), c.sampleRate)
}

func (c *SampleClock) current() int64 {
	return int64(c.now().Sub(c.started)) * int64(c.sampleRate) / int64(time.Second)
}
