package component

// Input is the per-frame input state of the player.
type Input struct {
	MoveX float64
	MoveY float64

	Attack     bool
	Reactivate bool
}

var InputComponent = NewComponent[Input]()
