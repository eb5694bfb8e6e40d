package music

import (
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// DefaultLookAhead is how long before the end of a part its successor gets
// selected and loaded onto the idle channel.
const DefaultLookAhead = 500 * time.Millisecond

const defaultFadeOut = 2 * time.Second

var errNoProvider = errors.New("music: no channel provider")

// Options configures a Player.
type Options struct {
	Channels  ChannelProvider
	Clock     Clock // optional
	Rand      Rand  // defaults to a time-seeded PCG
	LookAhead time.Duration
	Logger    *zerolog.Logger
}

// Player is the music scheduler. It chains the parts of one track across two
// channels and fades the output volume with the intensity state.
//
// A Player is not safe for concurrent use. All methods, Update included, must
// be called from the game loop goroutine.
type Player struct {
	log       zerolog.Logger
	channels  channelPair
	clock     Clock
	rng       Rand
	lookAhead time.Duration
	listeners listeners
	closed    bool

	state   State
	track   *Track
	part    PartID
	intense bool
	session string

	// Look-ahead scheduling. scheduled with an empty nextPart means the
	// current part is a dead end.
	scheduled bool
	nextPart  PartID

	duration  time.Duration
	remaining time.Duration

	fader Fader

	// Fade-out teardown timer, advanced by Update while fading out.
	stopAfter   time.Duration
	stopElapsed time.Duration
}

// NewPlayer creates a stopped player.
func NewPlayer(opts Options) *Player {
	lookAhead := opts.LookAhead
	if lookAhead <= 0 {
		lookAhead = DefaultLookAhead
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	logger := zlog.Logger.With().Str("component", "music").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Player{
		log:       logger,
		channels:  newChannelPair(opts.Channels),
		clock:     opts.Clock,
		rng:       rng,
		lookAhead: lookAhead,
		state:     StateStopped,
	}
}

// Subscribe registers l for state and part notifications and returns a
// function that removes it.
func (p *Player) Subscribe(l Listener) (unsubscribe func()) {
	return p.listeners.add(l)
}

// Close hard-stops playback and releases the channels and clock. The player
// ignores StartTrack afterwards.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.teardown()
	p.listeners.clear()
	p.closed = true
	p.log.Debug().Msg("music player closed")
}

// ==================== Queries ====================

func (p *Player) State() State { return p.state }

// IsPlaying reports whether parts are being chained, including during the
// initial fade-in. A player that is fading out is not playing.
func (p *Player) IsPlaying() bool {
	return p.state == StatePlaying || p.state == StateFadingIn
}

func (p *Player) IsInIntenseZone() bool { return p.intense }

func (p *Player) CurrentPartID() PartID { return p.part }

func (p *Player) CurrentTrack() *Track { return p.track }

// Volume is the current output volume applied to both channels.
func (p *Player) Volume() float64 { return p.fader.Volume() }

// Remaining is the time left in the current part.
func (p *Player) Remaining() time.Duration { return p.remaining }

// ScheduledPart returns the part prepared for the next transition, if any.
func (p *Player) ScheduledPart() (PartID, bool) {
	return p.nextPart, p.scheduled
}

// ==================== Commands ====================

// StartTrack starts t from its default start part. Starting the track that is
// already playing does nothing. With fadeIn the output rises from silence over
// the track's fade-in duration; otherwise it starts at the target volume.
func (p *Player) StartTrack(t *Track, fadeIn bool) {
	if p.closed {
		p.log.Error().Msg("StartTrack called on closed player")
		return
	}
	if t == nil {
		p.log.Error().Msg("StartTrack called with nil track")
		return
	}
	if err := t.Validate(); err != nil {
		p.log.Error().Err(err).Str("track", t.Name).Msg("StartTrack called with invalid track")
		return
	}
	if p.track == t && p.IsPlaying() {
		p.log.Debug().Str("track", t.Name).Msg("track already playing, ignoring StartTrack")
		return
	}

	p.channels.stopPlaying()

	p.track = t
	p.part = ""
	p.intense = true
	p.clearSchedule()
	p.stopAfter = 0
	p.stopElapsed = 0
	p.session = uuid.NewString()

	p.log.Debug().
		Str("session", p.session).
		Str("track", t.Name).
		Bool("fade_in", fadeIn).
		Str("start_part", string(t.StartPart)).
		Msg("starting track")

	if p.clock != nil && !p.clock.Running() {
		p.clock.Start()
		p.log.Debug().Msg("started music clock")
	}

	// The start part goes on the idle channel, which then becomes active.
	p.channels.swap()

	if fadeIn {
		p.setState(StateFadingIn)
		p.fader.Set(0)
		p.channels.setVolume(0)
		if err := p.playPart(t.StartPart); err != nil {
			p.log.Error().Err(err).Str("track", t.Name).Msg("failed to start track")
			p.teardown()
			return
		}
		p.startFade(TargetVolume(t, p.part, p.intense), t.FadeIn)
		return
	}

	p.setState(StatePlaying)
	if err := p.playPart(t.StartPart); err != nil {
		p.log.Error().Err(err).Str("track", t.Name).Msg("failed to start track")
		p.teardown()
		return
	}
	p.fader.Set(TargetVolume(t, p.part, p.intense))
	p.channels.setVolume(p.fader.Volume())
}

// StopTrack fades the output to silence and fully stops once the track's
// fade-out duration has passed. It does nothing when already stopped or
// fading out.
func (p *Player) StopTrack() {
	switch p.state {
	case StateStopped:
		p.log.Debug().Msg("StopTrack called but already stopped")
		return
	case StateFadingOut:
		p.log.Debug().Msg("StopTrack called but already fading out")
		return
	}

	p.log.Debug().Str("session", p.session).Msg("stopping track (fade out)")
	p.setState(StateFadingOut)

	p.stopAfter = defaultFadeOut
	if p.track != nil {
		p.stopAfter = p.track.FadeOut
	}
	p.stopElapsed = 0
	p.startFade(0, p.stopAfter)
	if p.stopAfter <= 0 {
		p.teardown()
	}
}

// SetIntenseZone switches the intensity state. While playing, the volume
// fades from wherever it is to the new target. A successor that was already
// prepared is kept; the new state applies from the next selection on.
func (p *Player) SetIntenseZone(intense bool) {
	if p.intense == intense {
		return
	}
	p.intense = intense

	p.log.Debug().Bool("intense", intense).Msg("intensity changed")

	if p.IsPlaying() && p.track != nil {
		p.startFade(TargetVolume(p.track, p.part, intense), p.track.IntensityChange)
	}
}

// OnEnemiesCleared is SetIntenseZone(false).
func (p *Player) OnEnemiesCleared() {
	p.log.Debug().Msg("enemies cleared, switching to calm")
	p.SetIntenseZone(false)
}

// ==================== Tick ====================

// Update advances the player by dt. It must run once per frame with a
// non-negative dt.
func (p *Player) Update(dt time.Duration) {
	if p.state == StateStopped {
		return
	}
	if dt < 0 {
		dt = 0
	}

	if p.fader.Advance(dt) {
		p.channels.setVolume(p.fader.Volume())
	}

	if p.state == StateFadingOut {
		p.stopElapsed += dt
		if p.stopElapsed >= p.stopAfter {
			p.teardown()
			p.log.Debug().Msg("track fully stopped after fade out")
		}
		return
	}

	if p.track == nil || p.duration <= 0 {
		return
	}

	p.remaining -= dt

	if !p.scheduled && p.remaining <= p.lookAhead && p.remaining > 0 {
		p.prepareNextPart()
	}

	if p.remaining <= 0 && !p.scheduled {
		// A single long frame jumped over the whole look-ahead window.
		p.log.Warn().
			Str("part", string(p.part)).
			Dur("overshoot", -p.remaining).
			Msg("look-ahead window missed, preparing late")
		p.prepareNextPart()
	}

	if p.remaining <= 0 && p.scheduled {
		p.executeTransition()
	}
}

// ==================== Part playback ====================

// playPart loads id onto the active channel and starts it.
func (p *Player) playPart(id PartID) error {
	part, ok := p.track.FindPart(id)
	if !ok {
		return errors.Wrapf(ErrPartNotFound, "part %q in track %q", id, p.track.Name)
	}

	ch, err := p.channels.active()
	if err != nil {
		return errors.Wrap(err, "active channel")
	}
	if ch.IsPlaying() {
		ch.Stop()
	}
	if err := ch.SetSound(part.Sound); err != nil {
		return errors.Wrapf(err, "load part %q", id)
	}
	ch.SetVolume(p.fader.Volume())
	if err := ch.Play(); err != nil {
		return errors.Wrapf(err, "play part %q", id)
	}

	p.part = id
	p.duration = ch.Duration()
	p.remaining = p.duration
	p.clearSchedule()

	if p.duration <= 0 {
		p.log.Warn().Str("part", string(id)).Msg("part has no duration, it will not advance")
	}

	p.log.Debug().
		Str("part", string(id)).
		Float64("part_volume", part.Volume).
		Dur("duration", p.duration).
		Msg("now playing part")

	p.listeners.partChanged(PartChangedEvent{Part: id})
	return nil
}

// prepareNextPart selects the successor and loads it onto the idle channel.
func (p *Player) prepareNextPart() {
	if p.track == nil || p.scheduled {
		return
	}

	current, ok := p.track.FindPart(p.part)
	if !ok {
		p.log.Error().Str("part", string(p.part)).Msg("current part not found for preparation")
		p.markScheduled("")
		return
	}

	nextID, fallback := ChooseNextPart(current, p.intense, p.rng)
	if fallback {
		p.log.Debug().Str("part", string(p.part)).Msg("no calm successors, using intense list")
	}
	if nextID == "" {
		p.log.Warn().Str("part", string(p.part)).Msg("no next part found")
		p.markScheduled("")
		return
	}

	next, ok := p.track.FindPart(nextID)
	if !ok || !next.Valid() {
		p.log.Error().Str("part", string(nextID)).Msg("next part invalid")
		p.markScheduled("")
		return
	}

	ch, err := p.channels.inactive()
	if err != nil {
		// Retried on the next tick.
		p.log.Error().Err(err).Msg("no inactive channel for preparation")
		return
	}
	if ch.IsPlaying() {
		ch.Stop()
	}
	if err := ch.SetSound(next.Sound); err != nil {
		p.log.Error().Err(err).Str("part", string(nextID)).Msg("failed to load next part")
		p.markScheduled("")
		return
	}
	ch.SetVolume(p.fader.Volume())

	p.markScheduled(nextID)
	p.log.Debug().
		Str("part", string(nextID)).
		Dur("remaining", p.remaining).
		Msg("prepared next part")
}

// executeTransition starts the prepared channel, then stops the old one and
// swaps their roles. Starting first lets the short overlap hide start latency.
func (p *Player) executeTransition() {
	if !p.IsPlaying() {
		p.log.Debug().Msg("transition skipped, not playing")
		return
	}

	p.log.Debug().Str("part", string(p.part)).Msg("part finished")

	nextID := p.nextPart
	if nextID == "" {
		p.log.Warn().Str("part", string(p.part)).Msg("dead end reached, stopping track")
		p.StopTrack()
		return
	}

	incoming, err := p.channels.inactive()
	if err != nil {
		p.log.Error().Err(err).Msg("no inactive channel for transition")
		p.StopTrack()
		return
	}
	outgoing, _ := p.channels.active()

	incoming.SetVolume(p.fader.Volume())
	if err := incoming.Play(); err != nil {
		p.log.Error().Err(err).Str("part", string(nextID)).Msg("failed to start next part")
		p.StopTrack()
		return
	}
	if outgoing != nil && outgoing.IsPlaying() {
		outgoing.Stop()
	}
	p.channels.swap()

	p.part = nextID
	p.duration = incoming.Duration()
	p.remaining = p.duration
	p.clearSchedule()

	if p.state == StateFadingIn {
		p.setState(StatePlaying)
	}

	p.log.Debug().
		Str("part", string(p.part)).
		Dur("duration", p.duration).
		Msg("transitioned to part")

	p.listeners.partChanged(PartChangedEvent{Part: p.part})
}

// ==================== Helpers ====================

func (p *Player) startFade(target float64, d time.Duration) {
	p.log.Debug().
		Float64("from", p.fader.Volume()).
		Float64("to", target).
		Dur("duration", d).
		Msg("volume fade")
	p.fader.Start(target, d)
	if !p.fader.Fading() {
		p.channels.setVolume(p.fader.Volume())
	}
}

func (p *Player) markScheduled(id PartID) {
	p.nextPart = id
	p.scheduled = true
}

func (p *Player) clearSchedule() {
	p.nextPart = ""
	p.scheduled = false
}

// teardown hard-stops both channels and resets the session.
func (p *Player) teardown() {
	p.channels.stopAll()
	if p.clock != nil && p.clock.Running() {
		p.clock.Stop()
	}

	p.track = nil
	p.part = ""
	p.intense = false
	p.session = ""
	p.clearSchedule()
	p.duration = 0
	p.remaining = 0
	p.stopAfter = 0
	p.stopElapsed = 0
	p.fader.Set(0)

	p.setState(StateStopped)
}

func (p *Player) setState(s State) {
	if p.state == s {
		return
	}
	old := p.state
	p.state = s

	p.log.Debug().Str("from", old.String()).Str("to", s.String()).Msg("state changed")
	p.listeners.stateChanged(StateChangedEvent{Old: old, New: s, Part: p.part})
}
