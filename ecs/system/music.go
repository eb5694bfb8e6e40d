package system

import (
	"time"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/music"
)

// Ticker is the part of the music player the MusicSystem drives.
type Ticker interface {
	Update(dt time.Duration)
	Subscribe(l music.Listener) (unsubscribe func())
}

// MusicSystem advances the music player by one fixed frame per update and
// republishes its notifications on the world event queue.
type MusicSystem struct {
	player      Ticker
	dt          time.Duration
	pending     []ecs.Event
	unsubscribe func()
}

// NewMusicSystem ticks player at tps frames per second.
func NewMusicSystem(player Ticker, tps int) *MusicSystem {
	if tps <= 0 {
		tps = 60
	}
	m := &MusicSystem{
		player: player,
		dt:     time.Second / time.Duration(tps),
	}
	m.unsubscribe = player.Subscribe(music.ListenerFuncs{
		StateChanged: func(e music.StateChangedEvent) {
			m.pending = append(m.pending, ecs.Event{Type: ecs.EventMusicState, Data: e})
		},
		PartChanged: func(e music.PartChangedEvent) {
			m.pending = append(m.pending, ecs.Event{Type: ecs.EventMusicPart, Data: e})
		},
	})
	return m
}

// Step is the fixed frame duration.
func (m *MusicSystem) Step() time.Duration { return m.dt }

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	m.player.Update(m.dt)

	for _, e := range m.pending {
		w.Events().Push(e)
	}
	m.pending = m.pending[:0]
}

// Close stops listening to the player.
func (m *MusicSystem) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
