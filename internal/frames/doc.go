// Package frames owns the coordinate-frame tree and the 2D rigid-transform
// algebra used to move poses between frames.
//
// Responsibilities: composing and inverting rigid transforms, validating a
// declared frame hierarchy, storing each frame's pose relative to its parent,
// and resolving the chain of frames between any two frames.
// Key types: Transform, Hierarchy, Registry, Point.
//
// Dependency rule: within this module frames imports only internal/units.
// Storage, export and configuration packages depend on frames, never the
// other way round.
//
// Conversion always walks both chains to the root. PrunedPathTo and
// Point.InFramePruned stop at the lowest common ancestor instead and give the
// same answer with less arithmetic on deep trees.
package frames
