package vcf

import (
	"fmt"
	"math"
)

// ReferenceTempC is the standard reference temperature.
const ReferenceTempC = 15.0

// Evaluation holds the unrounded values of one VCF computation.
type Evaluation struct {
	Segment Segment
	Rho15   float64
	TempC   float64
	DeltaT  float64
	A       float64
	B       float64
	VCF     float64
}

// Result is the reported, rounded form of an Evaluation.
type Result struct {
	Table        Table   `json:"table"`
	Label        string  `json:"label"`
	Rho15        float64 `json:"rho15"`
	TempC        float64 `json:"tempC"`
	DeltaT       float64 `json:"deltaT"`
	CoefficientA float64 `json:"coefficient_a"`
	ExponentB    float64 `json:"exponent_b"`
	VCF          float64 `json:"VCF"`
}

// Report rounds the evaluation for presentation.
func (e Evaluation) Report() Result {
	return Result{
		Table:        e.Segment.Table,
		Label:        e.Segment.Label,
		Rho15:        Round(e.Rho15, 3),
		TempC:        Round(e.TempC, 2),
		DeltaT:       Round(e.DeltaT, 2),
		CoefficientA: Round(e.A, 9),
		ExponentB:    Round(e.B, 8),
		VCF:          Round(e.VCF, 6),
	}
}

// Calculator applies the Annex B formula using the segments of a Registry.
type Calculator struct {
	registry *Registry
}

// NewCalculator creates a Calculator over r. A nil registry means Annex B.
func NewCalculator(r *Registry) *Calculator {
	if r == nil {
		r = AnnexB()
	}
	return &Calculator{registry: r}
}

// Registry returns the registry the calculator selects segments from.
func (c *Calculator) Registry() *Registry { return c.registry }

// Evaluate computes the VCF at full precision.
func (c *Calculator) Evaluate(rho15, tempC float64) (Evaluation, error) {
	if math.IsNaN(tempC) || math.IsInf(tempC, 0) {
		return Evaluation{}, &InvalidTemperatureError{TempC: tempC}
	}
	dT := tempC - ReferenceTempC

	seg, err := c.registry.SelectSegment(rho15)
	if err != nil {
		return Evaluation{}, err
	}

	a := expansionCoefficient(seg.Coefficients, rho15)
	b := -a * dT * (1 + 0.8*a*dT)

	return Evaluation{
		Segment: seg,
		Rho15:   rho15,
		TempC:   tempC,
		DeltaT:  dT,
		A:       a,
		B:       b,
		VCF:     math.Exp(b),
	}, nil
}

// Compute returns the rounded VCF result for rho15 (kg/m³) at tempC (°C).
func (c *Calculator) Compute(rho15, tempC float64) (Result, error) {
	ev, err := c.Evaluate(rho15, tempC)
	if err != nil {
		return Result{}, err
	}
	return ev.Report(), nil
}

var defaultCalculator = NewCalculator(nil)

// Compute evaluates rho15 and tempC against the Annex B registry.
func Compute(rho15, tempC float64) (Result, error) {
	return defaultCalculator.Compute(rho15, tempC)
}

// expansionCoefficient returns the thermal expansion coefficient a at 15 °C.
func expansionCoefficient(c Coefficients, rho15 float64) float64 {
	rho2 := rho15 * rho15
	switch k := c.(type) {
	case Linear:
		return (k.K0 + k.K1*rho15) / rho2
	case Transition:
		return k.A + k.B/rho2
	default:
		panic(fmt.Sprintf("vcf: unknown coefficient form %T", c))
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
