package octree

import (
	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VerticesPerCube is the number of vertices emitted per cube: six faces,
// two triangles each.
const VerticesPerCube = 36

// VertexStride is the number of floats per emitted vertex.
const VertexStride = mesh.Stride

// CubeColor is the color given to every cube vertex.
var CubeColor = mesh.Gray

// cubeFaces lists cube corners as triangles, counterclockwise when viewed
// from outside. Corner k uses the max coordinate on x if k&1, on y if k&2
// and on z if k&4, the same bit layout as octantOffsets. Face order is
// front (+z), back (-z), left (-x), right (+x), top (+y), bottom (-y).
var cubeFaces = [VerticesPerCube]int{
	4, 5, 7, 4, 7, 6, // front
	1, 0, 2, 1, 2, 3, // back
	0, 4, 6, 0, 6, 2, // left
	5, 1, 3, 5, 3, 7, // right
	6, 7, 3, 6, 3, 2, // top
	0, 1, 5, 0, 5, 4, // bottom
}

func corner(b sdf.Box3, k int) v3.Vec {
	c := b.Min
	if k&octantX != 0 {
		c.X = b.Max.X
	}
	if k&octantY != 0 {
		c.Y = b.Max.Y
	}
	if k&octantZ != 0 {
		c.Z = b.Max.Z
	}
	return c
}

func appendCube(m *mesh.Mesh, b sdf.Box3) {
	for _, k := range cubeFaces {
		m.Append(corner(b, k), CubeColor)
	}
}

// Mesh returns one triangulated cube per node of the subtree, in
// pre-order: a node's own cube, then its children's in index order. The
// vertex count is always CubeCount()*VerticesPerCube.
func (n *Node) Mesh() *mesh.Mesh {
	m := mesh.New("octree", n.CubeCount()*VerticesPerCube)
	n.appendCubes(m, false)
	return m
}

// LeafMesh returns one triangulated cube per leaf, in child index order.
// Internal nodes contribute only through their leaves.
func (n *Node) LeafMesh() *mesh.Mesh {
	m := mesh.New("octree-leaves", n.LeafCount()*VerticesPerCube)
	n.appendCubes(m, true)
	return m
}

func (n *Node) appendCubes(m *mesh.Mesh, leavesOnly bool) {
	in, ok := n.state.(*internalState)
	if !ok || !leavesOnly {
		appendCube(m, n.Bounds())
	}
	if !ok {
		return
	}
	for _, c := range in.children {
		c.appendCubes(m, leavesOnly)
	}
}

// Vertices returns the interleaved buffer of Mesh.
func (n *Node) Vertices() []float32 {
	return n.Mesh().Vertices
}

// LeafVertices returns the interleaved buffer of LeafMesh.
func (n *Node) LeafVertices() []float32 {
	return n.LeafMesh().Vertices
}
