// Package probe implements the movable query sphere: its range query
// against a built index and the geometry that draws it.
package probe

import (
	"math"

	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/chazu/octreeview/pkg/octree"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// DefaultMeshCells controls marching cubes resolution for the sphere outline.
const DefaultMeshCells = 32

// SphereColor is the color of the probe sphere outline.
var SphereColor = mesh.Gray

// Probe is a query sphere.
type Probe struct {
	Center v3.Vec  `json:"center"`
	Radius float64 `json:"radius"`
}

// Validate rejects probes no query can be run with.
func (p Probe) Validate() error {
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		return errors.Errorf("probe radius %g is not finite", p.Radius)
	}
	if p.Radius < 0 {
		return errors.Errorf("probe radius %g is negative", p.Radius)
	}
	c := p.Center
	if math.IsNaN(c.X+c.Y+c.Z) || math.IsInf(c.X+c.Y+c.Z, 0) {
		return errors.Errorf("probe center %v is not finite", c)
	}
	return nil
}

// Query returns the indices of the points of positions inside the probe.
// positions must be the buffer the index was built from. What the caller
// does with the result is up to it; nothing is highlighted here.
func (p Probe) Query(idx *octree.Index, positions []float32) []int {
	return idx.QuerySphere(p.Center, p.Radius, positions)
}

// Mesh tessellates the probe sphere with marching cubes. A zero radius
// yields an empty mesh.
func (p Probe) Mesh(cells int) (*mesh.Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Radius == 0 {
		return mesh.New("probe", 0), nil
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}

	s, err := sdf.Sphere3D(p.Radius)
	if err != nil {
		return nil, errors.Wrap(err, "sdf.Sphere3D")
	}
	s = sdf.Transform3D(s, sdf.Translate3d(p.Center))

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := mesh.New("probe", len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Append(v3.Vec{X: v.X, Y: v.Y, Z: v.Z}, SphereColor)
		}
	}
	return m, nil
}

// Marker returns the single-vertex buffer for the draggable probe center.
func (p Probe) Marker() *mesh.Mesh {
	m := mesh.New("probe-marker", 1)
	m.Append(p.Center, mesh.Black)
	return m
}
