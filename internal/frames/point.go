package frames

import (
	"fmt"

	"github.com/banshee-data/coordframes/internal/units"
)

// Point is a pose together with the frame it is expressed in.
type Point[F comparable] struct {
	Frame F
	Data  Transform
}

// NewPoint builds a point from raw coordinates in frame.
func NewPoint[F comparable](frame F, x, y units.Meters, rot units.Radians) Point[F] {
	return Point[F]{Frame: frame, Data: NewTransform(x, y, rot)}
}

// InFrame re-expresses p in dst using the transforms held by reg.
//
// The pose is carried up from p.Frame to the root one parent at a time, then
// down from the root into dst by applying each inverted parent transform.
// A point already in dst is returned unchanged.
func (p Point[F]) InFrame(reg *Registry[F], dst F) Point[F] {
	if p.Frame == dst {
		return p
	}
	up, down := reg.PathTo(p.Frame, dst)
	return Point[F]{Frame: dst, Data: carry(reg, p.Data, up, down)}
}

// InFramePruned is InFrame over the path with the shared ancestor segment
// removed. Results agree with InFrame to floating point tolerance.
func (p Point[F]) InFramePruned(reg *Registry[F], dst F) Point[F] {
	up, down, err := PrunedPathTo(reg.Hierarchy(), p.Frame, dst)
	if err != nil {
		panic(fmt.Sprintf("frames: %v", err))
	}
	return Point[F]{Frame: dst, Data: carry(reg, p.Data, up, down)}
}

func carry[F comparable](reg *Registry[F], data Transform, up, down []F) Transform {
	for _, f := range up {
		data = data.ComposeIntoParent(reg.Get(f))
	}
	for _, f := range down {
		data = data.ComposeIntoParent(reg.Get(f).Invert())
	}
	Tracef("carried through %d up / %d down frames -> %s", len(up), len(down), data)
	return data
}

// Components returns the raw (x, y, rotation) triple of p in its own frame.
func (p Point[F]) Components() (x, y units.Meters, rot units.Radians) {
	return p.Data.Components()
}

func (p Point[F]) String() string {
	return fmt.Sprintf("%v%s", p.Frame, p.Data)
}
