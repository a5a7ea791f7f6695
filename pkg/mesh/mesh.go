// Package mesh defines the interleaved vertex buffers handed to the
// renderer. Every vertex is six float32 values: a position followed by
// an RGB color, matching the attribute layout the frontend binds.
package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Stride is the number of floats per vertex (x,y,z,r,g,b).
const Stride = 6

// Color is an RGB color with components in [0,1].
type Color struct {
	R, G, B float32
}

// Palette used by the viewer: points are black, region cubes gray, axes
// red, green and blue for x, y and z.
var (
	Black = Color{0, 0, 0}
	Gray  = Color{0.5, 0.5, 0.5}
	Red   = Color{1, 0, 0}
	Green = Color{0, 1, 0}
	Blue  = Color{0, 0, 1}
)

// Mesh is a flat triangle (or point) buffer suitable for direct upload.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0,r0,g0,b0, x1,...]
	Name     string    `json:"name"`
}

// New returns an empty mesh with room for n vertices.
func New(name string, n int) *Mesh {
	return &Mesh{
		Vertices: make([]float32, 0, n*Stride),
		Name:     name,
	}
}

// Append adds one vertex.
func (m *Mesh) Append(p v3.Vec, c Color) {
	m.Vertices = append(m.Vertices,
		float32(p.X), float32(p.Y), float32(p.Z),
		c.R, c.G, c.B,
	)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / Stride
}

// TriangleCount returns the number of triangles, assuming the buffer is
// an unindexed triangle list.
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) v3.Vec {
	return Position(m.Vertices, i)
}

// ColorAt returns the color of vertex i.
func (m *Mesh) ColorAt(i int) Color {
	o := i*Stride + 3
	return Color{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
// An empty mesh returns the zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	n := m.VertexCount()
	if n == 0 {
		return sdf.Box3{}
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < n; i++ {
		p := m.Position(i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// Position reads the position of vertex i from an interleaved buffer with
// the package stride. The buffer must cover index i.
func Position(buf []float32, i int) v3.Vec {
	o := i * Stride
	return v3.Vec{X: float64(buf[o]), Y: float64(buf[o+1]), Z: float64(buf[o+2])}
}

// Axes returns a line list of the three coordinate axes through the
// origin, each running from -extent to +extent.
func Axes(extent float64) *Mesh {
	m := New("axes", 6)
	for _, axis := range []struct {
		dir v3.Vec
		c   Color
	}{
		{v3.Vec{X: 1}, Red},
		{v3.Vec{Y: 1}, Green},
		{v3.Vec{Z: 1}, Blue},
	} {
		m.Append(axis.dir.MulScalar(extent), axis.c)
		m.Append(axis.dir.MulScalar(-extent), axis.c)
	}
	return m
}
