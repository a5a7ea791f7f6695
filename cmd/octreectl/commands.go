package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chazu/octreeview/pkg/mesh"
	"github.com/chazu/octreeview/pkg/probe"
	"github.com/chazu/octreeview/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
)

func statsAction(c *cli.Context) error {
	_, s, err := loadScene(c)
	if err != nil {
		return err
	}
	st := s.Stats()
	w := output(c)
	fmt.Fprintf(w, "points: %d\n", st.Points)
	fmt.Fprintf(w, "cubes:  %d\n", st.Cubes)
	fmt.Fprintf(w, "leaves: %d\n", st.Leaves)
	fmt.Fprintf(w, "depth:  %d\n", st.Depth)
	fmt.Fprintf(w, "draw:   %d vertices\n", st.CubeDrawCount)
	return nil
}

// exportDoc is the JSON document written by export.
type exportDoc struct {
	ID     string      `json:"id"`
	Stride int         `json:"stride"`
	Stats  scene.Stats `json:"stats"`
	Points []float32   `json:"points"`
	Cubes  []float32   `json:"cubes"`
	Leaves bool        `json:"leavesOnly"`
}

func exportAction(c *cli.Context) error {
	_, s, err := loadScene(c)
	if err != nil {
		return err
	}

	cubes := s.Cubes.Vertices
	if c.Bool(flagLeaves) {
		cubes = s.Index.LeafVertices()
	}
	doc := exportDoc{
		ID:     s.ID.String(),
		Stride: mesh.Stride,
		Stats:  s.Stats(),
		Points: s.Cloud.Buffer(),
		Cubes:  cubes,
		Leaves: c.Bool(flagLeaves),
	}

	var w io.Writer = output(c)
	if path := c.String(flagOutput); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "export")
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if c.Bool(flagIndent) {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(doc), "export")
}

func queryAction(c *cli.Context) error {
	cfg, s, err := loadScene(c)
	if err != nil {
		return err
	}

	p := cfg.ProbeSphere()
	if c.IsSet(flagX) {
		p.Center.X = c.Float64(flagX)
	}
	if c.IsSet(flagY) {
		p.Center.Y = c.Float64(flagY)
	}
	if c.IsSet(flagZ) {
		p.Center.Z = c.Float64(flagZ)
	}
	if c.IsSet(flagRadius) {
		p.Radius = c.Float64(flagRadius)
	}

	indices, err := s.Query(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(output(c), formatQuery(p, indices))
	return nil
}

// formatQuery lists indices in ascending order; the query itself returns
// them in traversal order.
func formatQuery(p probe.Probe, indices []int) string {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	var b strings.Builder
	fmt.Fprintf(&b, "%d points within %g of %s:", len(indices), p.Radius, formatVec(p.Center))
	for _, i := range sorted {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func formatVec(v v3.Vec) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
