package music

// StateChangedEvent is emitted whenever the player state changes.
type StateChangedEvent struct {
	Old  State
	New  State
	Part PartID // Current part at the time of the change
}

// PartChangedEvent is emitted when a new part becomes the audible one.
type PartChangedEvent struct {
	Part PartID
}

// Listener observes player notifications. Listeners are invoked synchronously
// from the goroutine driving the player, in registration order.
type Listener interface {
	OnStateChanged(StateChangedEvent)
	OnPartChanged(PartChangedEvent)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	StateChanged func(StateChangedEvent)
	PartChanged  func(PartChangedEvent)
}

func (f ListenerFuncs) OnStateChanged(e StateChangedEvent) {
	if f.StateChanged != nil {
		f.StateChanged(e)
	}
}

func (f ListenerFuncs) OnPartChanged(e PartChangedEvent) {
	if f.PartChanged != nil {
		f.PartChanged(e)
	}
}

type subscription struct {
	id       int
	listener Listener
}

// listeners is an ordered observer list.
type listeners struct {
	nextID int
	subs   []subscription
}

func (l *listeners) add(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscription{id: id, listener: listener})
	return func() { l.remove(id) }
}

func (l *listeners) remove(id int) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// snapshot lets listeners unsubscribe while being notified.
func (l *listeners) snapshot() []subscription {
	if len(l.subs) == 0 {
		return nil
	}
	return append([]subscription(nil), l.subs...)
}

func (l *listeners) stateChanged(e StateChangedEvent) {
	for _, s := range l.snapshot() {
		s.listener.OnStateChanged(e)
	}
}

func (l *listeners) partChanged(e PartChangedEvent) {
	for _, s := range l.snapshot() {
		s.listener.OnPartChanged(e)
	}
}

func (l *listeners) clear() {
	l.subs = nil
}
