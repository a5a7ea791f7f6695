package octree

import (
	"github.com/chazu/octreeview/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// QuerySphere returns the indices of all stored points within radius of
// center, inclusive. positions is the interleaved buffer the points came
// from: point i starts at positions[i*VertexStride]. It must cover every
// stored index.
//
// Subtrees whose cube lies farther than radius from center are skipped.
// Results follow traversal order. An index inserted twice into the same
// leaf is reported twice.
func (n *Node) QuerySphere(center v3.Vec, radius float64, positions []float32) []int {
	var found []int
	return n.querySphere(found, center, radius, positions)
}

func (n *Node) querySphere(found []int, center v3.Vec, radius float64, positions []float32) []int {
	if !n.intersectsSphere(center, radius) {
		return found
	}

	in, ok := n.state.(*internalState)
	if !ok {
		for _, i := range n.Points() {
			if mesh.Position(positions, i).Sub(center).Length() <= radius {
				found = append(found, i)
			}
		}
		return found
	}

	for _, c := range in.children {
		found = c.querySphere(found, center, radius, positions)
	}
	return found
}

// intersectsSphere clamps center into the node's cube and compares the
// distance to the clamped point against radius.
func (n *Node) intersectsSphere(center v3.Vec, radius float64) bool {
	b := n.Bounds()
	closest := center.Max(b.Min).Min(b.Max)
	return closest.Sub(center).Length() <= radius
}
