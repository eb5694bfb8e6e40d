package sound

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/music"
)

// LoadFunc reads the raw bytes of an asset.
type LoadFunc func(path string) ([]byte, error)

// Provider hands out ebiten-backed channels to the music player and keeps
// every decoded sound in memory, so loading a part during the look-ahead
// window costs no decoding once Preload has run.
type Provider struct {
	ctx  *audio.Context
	load LoadFunc
	log  zerolog.Logger

	mu    sync.Mutex
	cache map[music.SoundRef]*Sound
}

var _ music.ChannelProvider = (*Provider)(nil)

// NewProvider creates a provider on ctx. load resolves file references; tone
// references are synthesized.
func NewProvider(ctx *audio.Context, load LoadFunc) *Provider {
	return &Provider{
		ctx:   ctx,
		load:  load,
		log:   zlog.Logger.With().Str("component", "sound").Logger(),
		cache: make(map[music.SoundRef]*Sound),
	}
}

// NewChannel implements music.ChannelProvider.
func (p *Provider) NewChannel(name string) (music.Channel, error) {
	if p.ctx == nil {
		return nil, errors.New("sound: no audio context")
	}
	p.log.Debug().Str("channel", name).Msg("created channel")
	return &Channel{name: name, provider: p, volume: 1}, nil
}

// Sound returns the decoded sound for ref, decoding it on first use.
func (p *Provider) Sound(ref music.SoundRef) (*Sound, error) {
	p.mu.Lock()
	s, ok := p.cache[ref]
	p.mu.Unlock()
	if ok {
		return s, nil
	}

	s, err := p.decode(string(ref))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[ref] = s
	p.mu.Unlock()

	p.log.Debug().
		Str("sound", string(ref)).
		Dur("duration", s.Duration()).
		Int("bytes", len(s.PCM)).
		Msg("decoded sound")
	return s, nil
}

// Preload decodes refs ahead of playback. Every ref is attempted; the first
// failure is returned.
func (p *Provider) Preload(refs ...music.SoundRef) error {
	var (
		first  error
		failed int
	)
	for _, ref := range refs {
		if _, err := p.Sound(ref); err != nil {
			p.log.Error().Err(err).Str("sound", string(ref)).Msg("preload failed")
			if first == nil {
				first = err
			}
			failed++
		}
	}
	if first != nil {
		return errors.Wrapf(first, "preload: %d of %d sounds failed", failed, len(refs))
	}
	return nil
}

// Evict drops cached sounds, e.g. after the track files were reloaded.
func (p *Provider) Evict(refs ...music.SoundRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ref := range refs {
		delete(p.cache, ref)
	}
}

func (p *Provider) sampleRate() int {
	if p.ctx == nil {
		return DefaultSampleRate
	}
	return p.ctx.SampleRate()
}

func (p *Provider) decode(ref string) (*Sound, error) {
	if IsTone(ref) {
		return Synth(ref, p.sampleRate())
	}
	if p.load == nil {
		return nil, errors.Newf("sound: no loader for %q", ref)
	}
	data, err := p.load(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", ref)
	}
	return Decode(ref, data, p.sampleRate())
}
