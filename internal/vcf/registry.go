package vcf

import (
	"errors"
	"fmt"
	"math"
)

// Table names an ASTM D1250 metric correlation.
type Table string

const (
	Table54A Table = "54A"
	Table54B Table = "54B"
	Table54D Table = "54D"
)

// Annex B density domain in kg/m³ at 15 °C.
const (
	MinDensity = 610.5
	MaxDensity = 1164.0
)

// Coefficients is the closed set of thermal expansion forms: Linear or Transition.
type Coefficients interface {
	form() string
}

// Linear is the a = (K0 + K1·ρ) / ρ² form.
type Linear struct {
	K0 float64
	K1 float64
}

func (Linear) form() string { return "linear" }

// Transition is the a = A + B / ρ² form used by the 54B transition band.
type Transition struct {
	A float64
	B float64
}

func (Transition) form() string { return "transition" }

// Segment is one density sub-range of a table with its coefficients.
// The range is (Lo, Hi], or [Lo, Hi] when LoInclusive is set.
type Segment struct {
	Table        Table
	Label        string
	Lo           float64
	Hi           float64
	LoInclusive  bool
	Coefficients Coefficients
}

// Contains reports whether rho15 falls inside the segment's range.
func (s Segment) Contains(rho15 float64) bool {
	if rho15 > s.Hi {
		return false
	}
	if s.LoInclusive {
		return rho15 >= s.Lo
	}
	return rho15 > s.Lo
}

// Registry is an ordered, non-overlapping list of segments. It is never
// mutated after construction.
type Registry struct {
	segments []Segment
	min      float64
	max      float64
}

// NewRegistry validates and freezes a segment list. Segments must be ordered
// by density and must not overlap; gaps are allowed and fail selection.
func NewRegistry(segments []Segment) (*Registry, error) {
	if len(segments) == 0 {
		return nil, errors.New("registry needs at least one segment")
	}

	frozen := make([]Segment, len(segments))
	copy(frozen, segments)

	for i, s := range frozen {
		if s.Coefficients == nil {
			return nil, fmt.Errorf("segment %s %q: missing coefficients", s.Table, s.Label)
		}
		if !(s.Lo < s.Hi) {
			return nil, fmt.Errorf("segment %s %q: empty range %g–%g", s.Table, s.Label, s.Lo, s.Hi)
		}
		if i == 0 {
			continue
		}
		prev := frozen[i-1]
		if s.Lo < prev.Hi || (s.Lo == prev.Hi && s.LoInclusive) {
			return nil, fmt.Errorf("segment %s %q overlaps %s %q", s.Table, s.Label, prev.Table, prev.Label)
		}
	}

	return &Registry{
		segments: frozen,
		min:      frozen[0].Lo,
		max:      frozen[len(frozen)-1].Hi,
	}, nil
}

// SelectSegment returns the segment covering rho15.
func (r *Registry) SelectSegment(rho15 float64) (Segment, error) {
	if math.IsNaN(rho15) || rho15 < r.min || rho15 > r.max {
		return Segment{}, &DensityOutOfRangeError{
			Rho15:  rho15,
			Reason: fmt.Sprintf("outside range %g–%g", r.min, r.max),
		}
	}
	for _, s := range r.segments {
		if s.Contains(rho15) {
			return s, nil
		}
	}
	return Segment{}, &DensityOutOfRangeError{
		Rho15:  rho15,
		Reason: "not inside any declared sub-range",
	}
}

// Segments returns a copy of the registry's segments in density order.
func (r *Registry) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// annexB is built once; the registry is read-only for the process lifetime.
var annexB = mustRegistry(AnnexBSegments())

// AnnexB returns the ISO 91-1:2019 Annex B registry.
func AnnexB() *Registry { return annexB }

// AnnexBSegments returns a fresh copy of the Annex B constants.
func AnnexBSegments() []Segment {
	return []Segment{
		{
			Table: Table54A, Label: "Light distillates",
			Lo: MinDensity, Hi: 770.0, LoInclusive: true,
			Coefficients: Linear{K0: 613.9723, K1: 0.0},
		},
		{
			Table: Table54B, Label: "Transition band",
			Lo: 770.0, Hi: 787.5,
			Coefficients: Transition{A: -0.00336312, B: 2680.3206},
		},
		{
			Table: Table54B, Label: "Jet/Kerosene",
			Lo: 787.5, Hi: 838.5,
			Coefficients: Linear{K0: 594.5418, K1: 0.0},
		},
		{
			Table: Table54B, Label: "Residual/Marine",
			Lo: 838.5, Hi: 1075.0,
			Coefficients: Linear{K0: 186.9696, K1: 0.48618},
		},
		{
			Table: Table54D, Label: "Lubricating oils",
			Lo: 1075.0, Hi: MaxDensity,
			Coefficients: Linear{K0: 0.0, K1: 0.6278},
		},
	}
}

func mustRegistry(segments []Segment) *Registry {
	r, err := NewRegistry(segments)
	if err != nil {
		panic(err)
	}
	return r
}
