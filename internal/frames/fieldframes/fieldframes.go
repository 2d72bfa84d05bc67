// Package fieldframes declares the frame sets used on the 2018 game field:
// the full field/robot/camera tree and the single-frame tree used for path
// export.
package fieldframes

import "github.com/banshee-data/coordframes/internal/frames"

// Frame is one node of the 2018 field tree.
type Frame uint8

const (
	Robot Frame = iota
	Field
	Camera
	Switch
	Scale
	ScaleEst
	CubeDepo

	frameCount = iota
)

var frameNames = [frameCount]string{
	Robot:    "Robot",
	Field:    "Field",
	Camera:   "Camera",
	Switch:   "Switch",
	Scale:    "Scale",
	ScaleEst: "ScaleEst",
	CubeDepo: "CubeDepo",
}

func (f Frame) String() string {
	if int(f) < len(frameNames) {
		return frameNames[f]
	}
	return "Frame(?)"
}

// Tree is the Hierarchy for Frame. Field is attached to the root.
type Tree struct{}

var _ frames.Hierarchy[Frame] = Tree{}

func (Tree) Parent(f Frame) (Frame, bool) {
	switch f {
	case Robot, Switch, Scale:
		return Field, true
	case Camera:
		return Robot, true
	case CubeDepo:
		return Switch, true
	case ScaleEst:
		return Camera, true
	default:
		return 0, false
	}
}

func (Tree) FrameCount() int { return frameCount }

func (Tree) Index(f Frame) int { return int(f) }

func (Tree) Frames() []Frame {
	return []Frame{Robot, Field, Camera, Switch, Scale, ScaleEst, CubeDepo}
}

// NewRegistry returns an identity-initialised registry for the field tree.
func NewRegistry() *frames.Registry[Frame] {
	return frames.MustNewRegistry[Frame](Tree{})
}

// PathFrame is the frame set used when exporting generated paths. Every
// waypoint is expressed on the field.
type PathFrame uint8

const PathField PathFrame = 0

func (PathFrame) String() string { return "Field" }

// PathTree is the single-frame Hierarchy for PathFrame.
type PathTree struct{}

var _ frames.Hierarchy[PathFrame] = PathTree{}

func (PathTree) Parent(PathFrame) (PathFrame, bool) { return 0, false }

func (PathTree) FrameCount() int { return 1 }

func (PathTree) Index(f PathFrame) int { return int(f) }

func (PathTree) Frames() []PathFrame { return []PathFrame{PathField} }
