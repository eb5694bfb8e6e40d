package component

// Patrol moves an enemy along a scripted path around its spawn point.
type Patrol struct {
	Script  string
	OriginX float64
	OriginY float64
	Speed   float64
	Range   float64
	Elapsed float64 // seconds
}

var PatrolComponent = NewComponent[Patrol]()
