// Package octree implements a bounded spatial partitioning index over a
// point cloud. Each node covers an axis-aligned cube; nodes larger than
// LeafSize split lazily into eight octants on first insertion, so tree
// depth depends only on the root size, never on point density.
//
// The index stores point indices, not positions. Positions are read back
// from the caller's interleaved vertex buffer when answering range
// queries. Nodes are built in a single phase and are read-only afterwards;
// Builder and Index make that split explicit.
package octree

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// LeafSize is the edge length at or below which a node never splits.
const LeafSize = 1.0

// octantOffsets maps a child index to the sign of its offset from the
// parent center. Bit 0 selects +x, bit 1 selects +y, bit 2 selects +z.
var octantOffsets = [8]v3.Vec{
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: 1},
}

const (
	octantX = 1 << iota
	octantY
	octantZ
)

// nodeState is either *leafState or *internalState.
type nodeState interface {
	isLeaf() bool
}

type leafState struct {
	points []int
}

func (*leafState) isLeaf() bool { return true }

type internalState struct {
	children [8]*Node
}

func (*internalState) isLeaf() bool { return false }

// Node is one cubical region of the index. A node starts as an empty leaf
// and turns into an internal node, once and irreversibly, the first time a
// point is inserted while its size exceeds LeafSize.
type Node struct {
	center v3.Vec
	size   float64
	state  nodeState
}

// New returns an empty leaf covering [center-size/2, center+size/2] on
// every axis. size is not validated; callers must pass size > 0.
func New(center v3.Vec, size float64) *Node {
	return &Node{
		center: center,
		size:   size,
		state:  &leafState{},
	}
}

// Insert records pointIndex in the leaf whose region p routes to. Points
// are only ever stored in nodes of size <= LeafSize. Duplicates are kept
// and points outside the root cube are routed by the same sign test as
// any other point.
func (n *Node) Insert(pointIndex int, p v3.Vec) {
	if n.size <= LeafSize {
		l := n.state.(*leafState)
		l.points = append(l.points, pointIndex)
		return
	}

	in, ok := n.state.(*internalState)
	if !ok {
		in = n.split()
	}
	in.children[n.octant(p)].Insert(pointIndex, p)
}

// split replaces the leaf state with eight empty children of half size.
func (n *Node) split() *internalState {
	in := &internalState{}
	half := n.size / 2
	quarter := n.size / 4
	for i, off := range octantOffsets {
		in.children[i] = New(n.center.Add(off.MulScalar(quarter)), half)
	}
	n.state = in
	return in
}

// octant returns the child index p routes to. Coordinates equal to the
// center go to the negative side.
func (n *Node) octant(p v3.Vec) int {
	i := 0
	if p.X > n.center.X {
		i |= octantX
	}
	if p.Y > n.center.Y {
		i |= octantY
	}
	if p.Z > n.center.Z {
		i |= octantZ
	}
	return i
}

// Center returns the center of the node's cube.
func (n *Node) Center() v3.Vec { return n.center }

// Size returns the edge length of the node's cube.
func (n *Node) Size() float64 { return n.size }

// Bounds returns the node's covering cube.
func (n *Node) Bounds() sdf.Box3 {
	return sdf.NewBox3(n.center, v3.Vec{X: n.size, Y: n.size, Z: n.size})
}

// IsLeaf reports whether the node stores points rather than children.
func (n *Node) IsLeaf() bool {
	return n.state.isLeaf()
}

// Child returns child i of an internal node, or nil for a leaf.
func (n *Node) Child(i int) *Node {
	in, ok := n.state.(*internalState)
	if !ok {
		return nil
	}
	return in.children[i]
}

// Points returns the point indices stored in a leaf, in insertion order.
// Internal nodes return nil. The slice is shared; do not modify it.
func (n *Node) Points() []int {
	l, ok := n.state.(*leafState)
	if !ok {
		return nil
	}
	return l.points
}

// CubeCount returns the number of nodes in the subtree, leaves and
// internal nodes alike.
func (n *Node) CubeCount() int {
	in, ok := n.state.(*internalState)
	if !ok {
		return 1
	}
	count := 1
	for _, c := range in.children {
		count += c.CubeCount()
	}
	return count
}

// LeafCount returns the number of leaves in the subtree.
func (n *Node) LeafCount() int {
	in, ok := n.state.(*internalState)
	if !ok {
		return 1
	}
	count := 0
	for _, c := range in.children {
		count += c.LeafCount()
	}
	return count
}

// Depth returns the number of levels below n. A leaf has depth 0.
func (n *Node) Depth() int {
	in, ok := n.state.(*internalState)
	if !ok {
		return 0
	}
	deepest := 0
	for _, c := range in.children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
