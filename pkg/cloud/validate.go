package cloud

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Severity indicates whether a finding blocks building a scene.
type Severity int

const (
	SeverityError   Severity = iota // blocks the build
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// maxFindings caps per-point findings; the rest are summarized.
const maxFindings = 16

// Finding describes one problem with a cloud.
type Finding struct {
	Index    int // point index, -1 for cloud-level findings
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Index < 0 {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] point %d: %s", f.Severity, f.Index, f.Message)
}

// Validate checks c against the root cube of the index it will be
// inserted into. The index routes any point without complaint, so this is
// where contract violations surface: non-finite coordinates are errors,
// points outside domain are warnings because they render in the wrong
// region.
func Validate(c *Cloud, domain sdf.Box3) []Finding {
	var findings []Finding
	outside := 0
	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		switch {
		case !finite(p):
			findings = append(findings, Finding{
				Index:    i,
				Message:  fmt.Sprintf("non-finite position %v", p),
				Severity: SeverityError,
			})
		case !contains(domain, p):
			outside++
			if outside <= maxFindings {
				findings = append(findings, Finding{
					Index:    i,
					Message:  fmt.Sprintf("position %v is outside the index domain %v-%v", p, domain.Min, domain.Max),
					Severity: SeverityWarning,
				})
			}
		}
	}
	if outside > maxFindings {
		findings = append(findings, Finding{
			Index:    -1,
			Message:  fmt.Sprintf("%d more points outside the index domain", outside-maxFindings),
			Severity: SeverityWarning,
		})
	}
	return findings
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func finite(p v3.Vec) bool {
	for _, c := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func contains(b sdf.Box3, p v3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
