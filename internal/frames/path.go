package frames

import "slices"

// PathTo finds the frame chains needed to carry a pose from src to dst.
//
// up lists src and each of its ancestors, ending at the frame attached to the
// root. down lists dst's ancestors in the opposite order: root-attached frame
// first, dst last. Both chains always run all the way to the root, even when
// src and dst share ancestors; the shared segment cancels out numerically.
// Use PrunedPathTo to skip it.
func PathTo[F comparable](h Hierarchy[F], src, dst F) (up, down []F, err error) {
	down, err = Ancestors(h, dst)
	if err != nil {
		return nil, nil, err
	}
	slices.Reverse(down)

	up, err = Ancestors(h, src)
	if err != nil {
		return nil, nil, err
	}
	return up, down, nil
}

// PrunedPathTo is PathTo with the segment above the lowest common ancestor
// removed from both chains. The common ancestor itself is dropped too: the
// pose only needs to be carried up into it and back down out of it.
//
// When src and dst live under different root-attached frames nothing is
// shared and the result equals PathTo.
func PrunedPathTo[F comparable](h Hierarchy[F], src, dst F) (up, down []F, err error) {
	up, down, err = PathTo(h, src, dst)
	if err != nil {
		return nil, nil, err
	}

	// up ends with the shared prefix reversed; down starts with it.
	shared := 0
	for shared < len(up) && shared < len(down) && up[len(up)-1-shared] == down[shared] {
		shared++
	}
	return up[:len(up)-shared], down[shared:], nil
}
