package music

import "time"

// Channel is one playback slot. The player owns exactly two of them and
// never shares them.
type Channel interface {
	// SetSound loads the asset behind ref, replacing whatever was loaded.
	SetSound(ref SoundRef) error
	// Play starts the loaded sound from the beginning.
	Play() error
	// Stop halts playback and rewinds.
	Stop()
	SetVolume(v float64)
	// Duration is the length of the loaded sound.
	Duration() time.Duration
	IsPlaying() bool
}

// ChannelProvider creates channels on demand. A provider error is treated as
// transient: the player retries on a later tick.
type ChannelProvider interface {
	NewChannel(name string) (Channel, error)
}

var channelNames = [2]string{"music_a", "music_b"}

// channelPair holds the two channels and which one is active. Swapping flips
// the flag; channels never move.
type channelPair struct {
	provider ChannelProvider
	chans    [2]Channel
	activeA  bool
}

func newChannelPair(provider ChannelProvider) channelPair {
	return channelPair{provider: provider, activeA: true}
}

func (c *channelPair) activeIndex() int {
	if c.activeA {
		return 0
	}
	return 1
}

// ensure lazily creates the channel at idx.
func (c *channelPair) ensure(idx int) (Channel, error) {
	if c.chans[idx] != nil {
		return c.chans[idx], nil
	}
	if c.provider == nil {
		return nil, errNoProvider
	}
	ch, err := c.provider.NewChannel(channelNames[idx])
	if err != nil {
		return nil, err
	}
	c.chans[idx] = ch
	return ch, nil
}

func (c *channelPair) active() (Channel, error) {
	return c.ensure(c.activeIndex())
}

func (c *channelPair) inactive() (Channel, error) {
	return c.ensure(1 - c.activeIndex())
}

func (c *channelPair) swap() {
	c.activeA = !c.activeA
}

// setVolume keeps both channels at the output volume so the idle one is
// already primed when it takes over.
func (c *channelPair) setVolume(v float64) {
	for _, ch := range c.chans {
		if ch != nil {
			ch.SetVolume(v)
		}
	}
}

func (c *channelPair) stopPlaying() {
	for _, ch := range c.chans {
		if ch != nil && ch.IsPlaying() {
			ch.Stop()
		}
	}
}

func (c *channelPair) stopAll() {
	for _, ch := range c.chans {
		if ch != nil {
			ch.Stop()
		}
	}
}
