package sound

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/dynmusic/music"
)

// Channel is a music.Channel backed by an *audio.Player. Each loaded sound
// gets a fresh player over the cached PCM.
type Channel struct {
	name     string
	provider *Provider

	player *audio.Player
	sound  *Sound
	volume float64
}

var _ music.Channel = (*Channel)(nil)

func (c *Channel) Name() string { return c.name }

func (c *Channel) SetSound(ref music.SoundRef) error {
	s, err := c.provider.Sound(ref)
	if err != nil {
		return errors.Wrapf(err, "channel %s", c.name)
	}
	c.release()

	c.sound = s
	c.player = c.provider.ctx.NewPlayerFromBytes(s.PCM)
	c.player.SetVolume(c.volume)
	return nil
}

func (c *Channel) Play() error {
	if c.player == nil {
		return errors.Newf("channel %s: no sound loaded", c.name)
	}
	if err := c.player.Rewind(); err != nil {
		return errors.Wrapf(err, "channel %s: rewind", c.name)
	}
	c.player.SetVolume(c.volume)
	c.player.Play()
	return nil
}

func (c *Channel) Stop() {
	if c.player == nil {
		return
	}
	c.player.Pause()
	_ = c.player.Rewind()
}

func (c *Channel) SetVolume(v float64) {
	c.volume = v
	if c.player != nil {
		c.player.SetVolume(v)
	}
}

func (c *Channel) Duration() time.Duration { return c.sound.Duration() }

func (c *Channel) IsPlaying() bool {
	return c.player != nil && c.player.IsPlaying()
}

// Position returns how far into the loaded sound playback is.
func (c *Channel) Position() time.Duration {
	if c.player == nil {
		return 0
	}
	return c.player.Position()
}

func (c *Channel) release() {
	if c.player == nil {
		return
	}
	c.player.Pause()
	_ = c.player.Close()
	c.player = nil
	c.sound = nil
}
