package octree

import (
	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cell is a read-only view of one node during a walk.
type Cell struct {
	Bounds sdf.Box3
	Depth  int
	Leaf   bool
	Points []int // leaf only, shared with the tree
}

// Walk visits the subtree in pre-order, children in index order. Returning
// false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(c Cell) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(c Cell) bool) {
	c := Cell{
		Bounds: n.Bounds(),
		Depth:  depth,
		Leaf:   n.IsLeaf(),
		Points: n.Points(),
	}
	if !fn(c) || c.Leaf {
		return
	}
	for i := 0; i < 8; i++ {
		n.Child(i).walk(depth+1, fn)
	}
}

// Locate follows the insertion routing for p and returns the leaf it
// reaches.
func (n *Node) Locate(p v3.Vec) Cell {
	cur, depth := n, 0
	for !cur.IsLeaf() {
		cur = cur.Child(cur.octant(p))
		depth++
	}
	return Cell{
		Bounds: cur.Bounds(),
		Depth:  depth,
		Leaf:   true,
		Points: cur.Points(),
	}
}

// Builder owns a tree during its build phase. Once Build is called the
// builder is spent and the tree is only reachable through the returned
// Index.
type Builder struct {
	root  *Node
	count int
}

// NewBuilder starts a tree covering the cube of the given center and size.
func NewBuilder(center v3.Vec, size float64) *Builder {
	return &Builder{root: New(center, size)}
}

// Insert adds a point to the tree. It panics if the builder is spent.
func (b *Builder) Insert(pointIndex int, p v3.Vec) {
	if b.root == nil {
		panic("octree: Insert called after Build")
	}
	b.root.Insert(pointIndex, p)
	b.count++
}

// Build ends the build phase and returns the finished index.
func (b *Builder) Build() *Index {
	if b.root == nil {
		panic("octree: Build called twice")
	}
	idx := &Index{root: b.root, count: b.count}
	b.root = nil
	return idx
}

// Index is a finished, read-only tree. It is safe for concurrent readers.
type Index struct {
	root  *Node
	count int
}

// Len returns the number of Insert calls made while building.
func (x *Index) Len() int { return x.count }

// Bounds returns the root covering cube.
func (x *Index) Bounds() sdf.Box3 { return x.root.Bounds() }

// CubeCount returns the number of nodes in the tree.
func (x *Index) CubeCount() int { return x.root.CubeCount() }

// LeafCount returns the number of leaves in the tree.
func (x *Index) LeafCount() int { return x.root.LeafCount() }

// Depth returns the number of levels below the root.
func (x *Index) Depth() int { return x.root.Depth() }

// Mesh returns the cube geometry of every node. See Node.Mesh.
func (x *Index) Mesh() *mesh.Mesh { return x.root.Mesh() }

// LeafMesh returns the cube geometry of every leaf. See Node.LeafMesh.
func (x *Index) LeafMesh() *mesh.Mesh { return x.root.LeafMesh() }

// Vertices returns the interleaved buffer of Mesh.
func (x *Index) Vertices() []float32 { return x.root.Vertices() }

// LeafVertices returns the interleaved buffer of LeafMesh.
func (x *Index) LeafVertices() []float32 { return x.root.LeafVertices() }

// QuerySphere returns stored indices within radius of center. See
// Node.QuerySphere.
func (x *Index) QuerySphere(center v3.Vec, radius float64, positions []float32) []int {
	return x.root.QuerySphere(center, radius, positions)
}

// Walk visits every node in pre-order. See Node.Walk.
func (x *Index) Walk(fn func(c Cell) bool) { x.root.Walk(fn) }

// Locate returns the leaf p routes to. See Node.Locate.
func (x *Index) Locate(p v3.Vec) Cell { return x.root.Locate(p) }
