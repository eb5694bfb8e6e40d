package system

import (
	"github.com/cockroachdb/errors"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
)

// scriptGlobals must not collide with tengo builtins such as range, which
// the compiler defines after the script globals and so shadows them.
var scriptGlobals = []string{"t", "origin_x", "origin_y", "speed", "radius", "x", "y"}

var errScriptDisabled = errors.New("patrol script disabled")

// ScriptLoader returns the source of a named patrol script.
type ScriptLoader func(name string) ([]byte, error)

// PatrolSystem moves living enemies along their tengo patrol scripts.
//
// A script reads the globals t (seconds since spawn), origin_x, origin_y,
// speed and radius, and assigns the new position to x and y.
type PatrolSystem struct {
	load   ScriptLoader
	dt     float64
	cache  map[string]*tengo.Compiled
	failed map[string]bool
	log    zerolog.Logger
}

func NewPatrolSystem(load ScriptLoader, tps int) *PatrolSystem {
	if tps <= 0 {
		tps = 60
	}
	return &PatrolSystem{
		load:   load,
		dt:     1 / float64(tps),
		cache:  make(map[string]*tengo.Compiled),
		failed: make(map[string]bool),
		log:    zlog.Logger.With().Str("component", "patrol").Logger(),
	}
}

func (p *PatrolSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.PatrolComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, patrol *component.Patrol, t *component.Transform) {
		if enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok && enemy.Dead {
			return
		}
		patrol.Elapsed += p.dt

		x, y, err := p.run(patrol)
		if errors.Is(err, errScriptDisabled) {
			return
		}
		if err != nil {
			p.log.Error().Err(err).Str("entity", e.String()).Str("script", patrol.Script).Msg("patrol script failed")
			return
		}
		t.X, t.Y = x, y
	})
}

func (p *PatrolSystem) run(patrol *component.Patrol) (float64, float64, error) {
	compiled, err := p.compiled(patrol.Script)
	if err != nil {
		return 0, 0, err
	}
	// Clone so entities sharing a script do not share globals.
	c := compiled.Clone()
	values := map[string]float64{
		"t":        patrol.Elapsed,
		"origin_x": patrol.OriginX,
		"origin_y": patrol.OriginY,
		"speed":    patrol.Speed,
		"radius":   patrol.Range,
		"x":        patrol.OriginX,
		"y":        patrol.OriginY,
	}
	for _, name := range scriptGlobals {
		if !c.IsDefined(name) {
			continue
		}
		if err := c.Set(name, values[name]); err != nil {
			return 0, 0, errors.Wrapf(err, "set %s", name)
		}
	}
	if err := c.Run(); err != nil {
		return 0, 0, errors.Wrap(err, "run")
	}
	return c.Get("x").Float(), c.Get("y").Float(), nil
}

func (p *PatrolSystem) compiled(name string) (*tengo.Compiled, error) {
	if c, ok := p.cache[name]; ok {
		return c, nil
	}
	if p.failed[name] {
		return nil, errors.Wrapf(errScriptDisabled, "script %q", name)
	}

	c, err := p.compile(name)
	if err != nil {
		p.failed[name] = true
		return nil, err
	}
	p.cache[name] = c
	return c, nil
}

func (p *PatrolSystem) compile(name string) (*tengo.Compiled, error) {
	if p.load == nil {
		return nil, errors.New("no script loader")
	}
	src, err := p.load(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	for _, v := range scriptGlobals {
		if err := script.Add(v, 0.0); err != nil {
			return nil, errors.Wrapf(err, "add %s", v)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	c, err := script.Compile()
	if err != nil {
		return nil, errors.Wrapf(err, "compile script %q", name)
	}
	return c, nil
}
