package ecs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/dynmusic/ecs/component"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

var (
	positionComponent = component.NewComponent[position]()
	velocityComponent = component.NewComponent[velocity]()
)

func TestEntityLifecycle(t *testing.T) {
	w := NewWorld()

	a := CreateEntity(w)
	b := CreateEntity(w)
	require.True(t, a.Valid())
	assert.NotEqual(t, a, b)
	assert.True(t, IsAlive(w, a))
	assert.Len(t, Entities(w), 2)

	assert.True(t, DestroyEntity(w, a))
	assert.False(t, IsAlive(w, a))
	assert.False(t, DestroyEntity(w, a), "double destroy")
	assert.Equal(t, []Entity{b}, Entities(w))

	// The slot is reused with a new generation; the old handle stays dead.
	c := CreateEntity(w)
	assert.Equal(t, a.id(), c.id())
	assert.NotEqual(t, a, c)
	assert.False(t, IsAlive(w, a))
	assert.True(t, IsAlive(w, c))
	assert.Equal(t, "1v1", c.String())
}

func TestZeroEntity(t *testing.T) {
	w := NewWorld()
	var zero Entity

	assert.False(t, zero.Valid())
	assert.False(t, IsAlive(w, zero))
	assert.ErrorIs(t, Add(w, zero, positionComponent.Kind(), &position{}), component.ErrEntityNotAlive)
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	require.NoError(t, Add(w, e, positionComponent.Kind(), &position{X: 1, Y: 2}))
	assert.True(t, Has(w, e, positionComponent.Kind()))
	assert.False(t, Has(w, e, velocityComponent.Kind()))

	p, ok := Get(w, e, positionComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, position{X: 1, Y: 2}, *p)

	// Get returns the stored pointer.
	p.X = 5
	p, _ = Get(w, e, positionComponent.Kind())
	assert.Equal(t, 5.0, p.X)

	require.NoError(t, Add(w, e, positionComponent.Kind(), &position{X: 9}))
	p, _ = Get(w, e, positionComponent.Kind())
	assert.Equal(t, 9.0, p.X)
	assert.Equal(t, 1, Count(w, positionComponent.Kind()))

	assert.True(t, Remove(w, e, positionComponent.Kind()))
	assert.False(t, Remove(w, e, positionComponent.Kind()))
	_, ok = Get(w, e, positionComponent.Kind())
	assert.False(t, ok)
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	err := Add[position](w, e, positionComponent.Kind(), nil)
	assert.True(t, errors.Is(err, component.ErrNilComponent))

	err = Add(w, e, component.ComponentKind[position]{}, &position{})
	assert.True(t, errors.Is(err, component.ErrInvalidComponentKind))

	DestroyEntity(w, e)
	err = Add(w, e, positionComponent.Kind(), &position{})
	assert.True(t, errors.Is(err, component.ErrEntityNotAlive))
}

func TestDestroyRemovesComponents(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	require.NoError(t, Add(w, e, positionComponent.Kind(), &position{}))
	require.NoError(t, Add(w, e, velocityComponent.Kind(), &velocity{}))

	DestroyEntity(w, e)
	reused := CreateEntity(w)
	require.Equal(t, e.id(), reused.id())

	assert.False(t, Has(w, reused, positionComponent.Kind()))
	assert.False(t, Has(w, reused, velocityComponent.Kind()))
	assert.Zero(t, Count(w, positionComponent.Kind()))
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	var ents []Entity
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, positionComponent.Kind(), &position{X: float64(i)}))
		ents = append(ents, e)
	}
	require.NoError(t, Add(w, ents[1], velocityComponent.Kind(), &velocity{X: 1}))
	require.NoError(t, Add(w, ents[3], velocityComponent.Kind(), &velocity{X: 1}))

	sum := 0.0
	ForEach(w, positionComponent.Kind(), func(_ Entity, p *position) { sum += p.X })
	assert.Equal(t, 6.0, sum)

	var moved []Entity
	ForEach2(w, positionComponent.Kind(), velocityComponent.Kind(), func(e Entity, p *position, v *velocity) {
		p.X += v.X
		moved = append(moved, e)
	})
	assert.ElementsMatch(t, []Entity{ents[1], ents[3]}, moved)

	p, _ := Get(w, ents[3], positionComponent.Kind())
	assert.Equal(t, 4.0, p.X)
}

func TestForEach_DestroyWhileIterating(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 3; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, positionComponent.Kind(), &position{}))
	}

	visited := 0
	ForEach(w, positionComponent.Kind(), func(e Entity, _ *position) {
		visited++
		for _, other := range Entities(w) {
			if other != e {
				DestroyEntity(w, other)
			}
		}
	})
	assert.Equal(t, 1, visited)
	assert.Equal(t, 1, Count(w, positionComponent.Kind()))
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	_, ok := First(w, positionComponent.Kind())
	assert.False(t, ok)

	e := CreateEntity(w)
	require.NoError(t, Add(w, e, positionComponent.Kind(), &position{}))
	got, ok := First(w, positionComponent.Kind())
	assert.True(t, ok)
	assert.Equal(t, e, got)
}

func TestNilWorld(t *testing.T) {
	var w *World
	assert.False(t, IsAlive(w, 1))
	assert.Nil(t, Entities(w))
	assert.Nil(t, w.Events())
	assert.Zero(t, Count(w, positionComponent.Kind()))
	assert.False(t, DestroyEntity(w, 1))
}

func TestScheduler(t *testing.T) {
	w := NewWorld()
	var order []string
	s := NewScheduler(
		SystemFunc(func(w *World) {
			order = append(order, "a")
			assert.Empty(t, w.Events().Peek(), "previous frame's events are dropped")
			w.Events().Push(Event{Type: EventZoneEnter})
		}),
		nil,
		SystemFunc(func(w *World) {
			order = append(order, "b")
			assert.Len(t, w.Events().Peek(), 1)
		}),
	)
	require.Len(t, s.Systems(), 2)

	s.Update(w)
	s.Update(w)
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)

	events := w.Events().Drain()
	assert.Len(t, events, 1)
	assert.Nil(t, w.Events().Drain())
}
