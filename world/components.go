package world

import (
	"github.com/milk9111/kinematic2d/kinematic"
	"github.com/milk9111/kinematic2d/prefabs"
	"github.com/yohamta/donburi"
)

// BodyData pairs a controller with the archetype it was built from. The
// controller owns its profile; both are created and dropped together.
type BodyData struct {
	Archetype  string
	Spec       *prefabs.ArchetypeSpec
	Controller *kinematic.Controller
}

var Body = donburi.NewComponentType[BodyData]()

// InputData is the latest input for a body, applied at the next update.
type InputData struct {
	Walk float64
	Jump float64
}

var Input = donburi.NewComponentType[InputData]()
