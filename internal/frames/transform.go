package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/coordframes/internal/units"
)

// Transform is a 2D rigid transform: a translation in meters followed by a
// rotation in radians.
//
// Stored in a registry slot it describes where a frame sits inside its
// parent. Attached to a Point it is the pose of that point in its frame.
// Transform values are immutable; every method returns a new value.
type Transform struct {
	Position r2.Vec
	Rotation units.Radians
}

// Identity returns the zero translation, zero rotation transform.
func Identity() Transform {
	return Transform{}
}

// NewTransform builds a transform from raw components.
func NewTransform(x, y units.Meters, rot units.Radians) Transform {
	return Transform{
		Position: r2.Vec{X: x.Float64(), Y: y.Float64()},
		Rotation: rot,
	}
}

// ComposeIntoParent re-expresses t, given relative to some frame F, relative
// to F's parent. parent is the transform of F inside that parent.
func (t Transform) ComposeIntoParent(parent Transform) Transform {
	rot := r2.NewRotation(parent.Rotation.Float64(), r2.Vec{})
	return Transform{
		Position: r2.Add(rot.Rotate(t.Position), parent.Position),
		Rotation: t.Rotation + parent.Rotation,
	}
}

// Invert turns a child-in-parent transform into the parent-in-child
// transform.
func (t Transform) Invert() Transform {
	rot := -t.Rotation
	back := r2.NewRotation(rot.Float64(), r2.Vec{})
	return Transform{
		Position: r2.Scale(-1, back.Rotate(t.Position)),
		Rotation: rot,
	}
}

// Components returns the raw (x, y, rotation) triple.
func (t Transform) Components() (x, y units.Meters, rot units.Radians) {
	return units.Meters(t.Position.X), units.Meters(t.Position.Y), t.Rotation
}

// ApproxEqual reports whether every component of t and o agrees within tol.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	return scalar.EqualWithinAbs(t.Position.X, o.Position.X, tol) &&
		scalar.EqualWithinAbs(t.Position.Y, o.Position.Y, tol) &&
		scalar.EqualWithinAbs(t.Rotation.Float64(), o.Rotation.Float64(), tol)
}

// IsFinite reports whether no component is NaN or infinite.
func (t Transform) IsFinite() bool {
	for _, v := range [...]float64{t.Position.X, t.Position.Y, t.Rotation.Float64()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (t Transform) String() string {
	return fmt.Sprintf("(x=%.4f y=%.4f rot=%.4f)", t.Position.X, t.Position.Y, t.Rotation.Float64())
}
