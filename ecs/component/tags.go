package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Enemy marks an entity that keeps an intensity zone intense while alive
// inside it.
type Enemy struct {
	Name string
	Dead bool
}

var EnemyComponent = NewComponent[Enemy]()

// Name labels an entity for debugging.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
