package octree

import (
	"math/rand"
	"testing"

	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const eps = 1e-9

func vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// randomPoints returns n float32-representable points in the cube of the
// given center and size, so inserted positions and buffer positions agree.
func randomPoints(seed int64, n int, center v3.Vec, size float64) []v3.Vec {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]v3.Vec, n)
	for i := range pts {
		pts[i] = v3.Vec{
			X: float64(float32(center.X + (rng.Float64()-0.5)*size)),
			Y: float64(float32(center.Y + (rng.Float64()-0.5)*size)),
			Z: float64(float32(center.Z + (rng.Float64()-0.5)*size)),
		}
	}
	return pts
}

// buffer lays points out the way a point cloud vertex buffer does.
func buffer(pts []v3.Vec) []float32 {
	m := mesh.New("points", len(pts))
	for _, p := range pts {
		m.Append(p, mesh.Black)
	}
	return m.Vertices
}

func build(center v3.Vec, size float64, pts []v3.Vec) *Node {
	n := New(center, size)
	for i, p := range pts {
		n.Insert(i, p)
	}
	return n
}

func within(b sdf.Box3, p v3.Vec) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// eachNode visits every node of the subtree.
func eachNode(t *testing.T, n *Node, fn func(n *Node)) {
	t.Helper()
	fn(n)
	if n.IsLeaf() {
		return
	}
	for i := 0; i < 8; i++ {
		eachNode(t, n.Child(i), fn)
	}
}
