// Package scene turns a point cloud into everything the viewer draws: the
// octree index, the region cube buffer and the draw sizes. A Snapshot is
// built once and never changes; a new point set means a new Snapshot.
package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/chazu/octreeview/pkg/octree"
	"github.com/chazu/octreeview/pkg/probe"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("octreeview:scene")

// Build sources, used as metric labels.
const (
	SourceUniform = "uniform"
	SourceScript  = "script"
)

// Domain is the root cube of the index.
type Domain struct {
	Center v3.Vec  `json:"center"`
	Size   float64 `json:"size"`
}

// DefaultDomain is the cube [-1,1]^3.
var DefaultDomain = Domain{Size: 2}

// Box returns the domain as a bounding box.
func (d Domain) Box() sdf.Box3 {
	return sdf.NewBox3(d.Center, v3.Vec{X: d.Size, Y: d.Size, Z: d.Size})
}

// Validate rejects domains an index cannot be rooted at.
func (d Domain) Validate() error {
	if math.IsNaN(d.Size) || math.IsInf(d.Size, 0) || d.Size <= 0 {
		return errors.Errorf("domain size must be positive, got %g", d.Size)
	}
	c := d.Center
	if math.IsNaN(c.X+c.Y+c.Z) || math.IsInf(c.X+c.Y+c.Z, 0) {
		return errors.Errorf("domain center %v is not finite", c)
	}
	return nil
}

// Snapshot is the immutable result of one build.
type Snapshot struct {
	ID     uuid.UUID
	Source string
	Domain Domain
	Built  time.Time

	Cloud *cloud.Cloud
	Index *octree.Index

	// Cubes is the region cube buffer, one cube per node.
	Cubes *mesh.Mesh
	// CubeDrawCount is the vertex count of the cube draw call.
	CubeDrawCount int

	// Findings are the non-fatal problems found in the cloud.
	Findings []cloud.Finding
}

// Build indexes every point of c exactly once, in index order, under a
// fresh root covering d. Clouds with non-finite points are rejected;
// points outside d are indexed and reported as findings.
func Build(c *cloud.Cloud, d Domain, source string) (*Snapshot, error) {
	if c == nil {
		return nil, errors.New("scene: nil cloud")
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(err, "scene")
	}

	findings := cloud.Validate(c, d.Box())
	for _, f := range findings {
		if f.Severity == cloud.SeverityError {
			return nil, errors.Wrap(f, "scene: invalid cloud")
		}
		log.Warning(f.Error())
	}

	start := time.Now()
	b := octree.NewBuilder(d.Center, d.Size)
	for i := 0; i < c.Len(); i++ {
		b.Insert(i, c.Position(i))
	}
	idx := b.Build()
	cubes := idx.Mesh()
	instrumentBuild(source, start)

	s := &Snapshot{
		ID:            uuid.New(),
		Source:        source,
		Domain:        d,
		Built:         time.Now(),
		Cloud:         c,
		Index:         idx,
		Cubes:         cubes,
		CubeDrawCount: idx.CubeCount() * octree.VerticesPerCube,
		Findings:      findings,
	}
	log.Debugf("built scene %s: %d points, %d cubes, depth %d in %s",
		s.ID, c.Len(), idx.CubeCount(), idx.Depth(), time.Since(start))
	return s, nil
}

// Query runs p against the snapshot's index and point buffer.
func (s *Snapshot) Query(p probe.Probe) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	instrumentQuery()
	return p.Query(s.Index, s.Cloud.Buffer()), nil
}

// Stats summarizes a snapshot.
type Stats struct {
	Points        int `json:"points"`
	Cubes         int `json:"cubes"`
	Leaves        int `json:"leaves"`
	Depth         int `json:"depth"`
	CubeDrawCount int `json:"cubeDrawCount"`
}

// Stats returns the snapshot's counts.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Points:        s.Cloud.Len(),
		Cubes:         s.Index.CubeCount(),
		Leaves:        s.Index.LeafCount(),
		Depth:         s.Index.Depth(),
		CubeDrawCount: s.CubeDrawCount,
	}
}

func (st Stats) String() string {
	return fmt.Sprintf("points=%d cubes=%d leaves=%d depth=%d draw=%d",
		st.Points, st.Cubes, st.Leaves, st.Depth, st.CubeDrawCount)
}
