package scene

import "github.com/Faultbox/nimbus/internal/engine/gpu"

// FillMode is the rasterization mode of the terrain pass.
type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
	FillPoints
)

// Next returns the mode that follows m: solid, wireframe, points, solid.
func (m FillMode) Next() FillMode {
	switch m {
	case FillSolid:
		return FillWireframe
	case FillWireframe:
		return FillPoints
	default:
		return FillSolid
	}
}

// PolygonMode maps m to the device polygon mode.
func (m FillMode) PolygonMode() gpu.PolygonMode {
	switch m {
	case FillWireframe:
		return gpu.PolygonLine
	case FillPoints:
		return gpu.PolygonPoint
	default:
		return gpu.PolygonFill
	}
}

func (m FillMode) String() string {
	switch m {
	case FillSolid:
		return "solid"
	case FillWireframe:
		return "wireframe"
	case FillPoints:
		return "points"
	default:
		return "unknown"
	}
}
