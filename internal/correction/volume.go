package correction

import "github.com/couchcryptid/fuel-vcf-service/internal/vcf"

// Converter runs the volume and mass paths at full precision. Only the
// embedded VCF result is rounded.
type Converter struct {
	calc *vcf.Calculator
}

// NewConverter creates a Converter. A nil calculator means Annex B.
func NewConverter(calc *vcf.Calculator) *Converter {
	if calc == nil {
		calc = vcf.NewCalculator(nil)
	}
	return &Converter{calc: calc}
}

// CorrectVolume converts an observed volume at tempC to standard volume and mass.
//
//	V15  = V·VCF
//	mass = V15·ρ15/1000
func (c *Converter) CorrectVolume(rho15, observedM3, tempC float64) (Result, error) {
	ev, err := c.calc.Evaluate(rho15, tempC)
	if err != nil {
		return Result{}, err
	}

	v15 := observedM3 * ev.VCF
	return Result{
		Result:     ev.Report(),
		Mode:       ModeVolume,
		ObservedM3: &observedM3,
		MassTon:    v15 * (rho15 / 1000),
		V15M3:      v15,
	}, nil
}
