// Package cloud holds the point set a scene is built from. A Cloud is
// produced once, by a generator or a script, and is not modified after it
// has been handed to a scene.
package cloud

import (
	"math/rand"

	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PointColor is the color of every point vertex.
var PointColor = mesh.Black

// Cloud is an ordered point set stored as an interleaved vertex buffer.
// Point i is the i-th vertex of the buffer.
type Cloud struct {
	m *mesh.Mesh
}

// New returns an empty cloud with room for n points.
func New(n int) *Cloud {
	return &Cloud{m: mesh.New("points", n)}
}

// Add appends p and returns its index. Coordinates are stored as float32;
// Position returns the stored value, not p.
func (c *Cloud) Add(p v3.Vec) int {
	c.m.Append(p, PointColor)
	return c.m.VertexCount() - 1
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return c.m.VertexCount()
}

// Position returns the stored position of point i.
func (c *Cloud) Position(i int) v3.Vec {
	return c.m.Position(i)
}

// Buffer returns the interleaved vertex buffer. It is shared with the
// cloud and must not be modified.
func (c *Cloud) Buffer() []float32 {
	return c.m.Vertices
}

// Mesh returns the cloud as a point mesh.
func (c *Cloud) Mesh() *mesh.Mesh {
	return c.m
}

// Bounds returns the bounding box of the stored points.
func (c *Cloud) Bounds() sdf.Box3 {
	return c.m.Bounds()
}

// Uniform returns n points drawn uniformly from domain. The same seed
// always yields the same cloud.
func Uniform(n int, domain sdf.Box3, seed int64) *Cloud {
	rng := rand.New(rand.NewSource(seed))
	lo := domain.Min
	span := domain.Max.Sub(domain.Min)

	c := New(n)
	for i := 0; i < n; i++ {
		c.Add(v3.Vec{
			X: lo.X + rng.Float64()*span.X,
			Y: lo.Y + rng.Float64()*span.Y,
			Z: lo.Z + rng.Float64()*span.Z,
		})
	}
	return c
}
