package correction

import (
	"math"

	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

// DensityResolver looks up the density at 15 °C of a named fuel.
type DensityResolver interface {
	Density(fuel string) (float64, error)
}

// UnitConverter converts a quantity between two units.
type UnitConverter interface {
	Convert(value float64, from, to units.Unit) (float64, error)
}

// Request is an auto-correction request. TempC is required, as is exactly one
// of VolumeM3 and MassTon. Rho15 overrides the fuel's catalog density.
type Request struct {
	Fuel     string   `json:"fuel"`
	VolumeM3 *float64 `json:"volume_m3,omitempty"`
	MassTon  *float64 `json:"mass_ton,omitempty"`
	TempC    *float64 `json:"temp_c,omitempty"`
	Rho15    *float64 `json:"rho15,omitempty"`
}

// Dispatcher picks the volume or mass path for a request and adds the
// equivalents block. It holds no mutable state.
type Dispatcher struct {
	converter *Converter
	densities DensityResolver
	units     UnitConverter
}

// NewDispatcher creates a Dispatcher. A nil converter means Annex B and a nil
// unit converter means the ASTM table. Without a density resolver every
// request must carry rho15.
func NewDispatcher(converter *Converter, densities DensityResolver, uc UnitConverter) *Dispatcher {
	if converter == nil {
		converter = NewConverter(nil)
	}
	if uc == nil {
		uc = units.ASTM()
	}
	return &Dispatcher{converter: converter, densities: densities, units: uc}
}

// AutoCorrect validates the request shape, resolves the density and runs the
// matching correction path.
func (d *Dispatcher) AutoCorrect(req Request) (Result, error) {
	if req.TempC == nil {
		return Result{}, &MissingInputError{Field: "temp_c", Reason: "temperature is required"}
	}
	if !finite(*req.TempC) {
		return Result{}, &MissingInputError{Field: "temp_c", Reason: "must be a finite number"}
	}

	in, err := NewInput(req.VolumeM3, req.MassTon)
	if err != nil {
		return Result{}, err
	}

	rho15, err := d.resolveDensity(req)
	if err != nil {
		return Result{}, err
	}

	return d.Correct(req.Fuel, in, rho15, *req.TempC)
}

// Correct runs one correction for an already validated input. Derived
// quantities are rounded for reporting: V15, mass and observed volume to
// 3dp, ρT to 6dp.
func (d *Dispatcher) Correct(fuel string, in Input, rho15, tempC float64) (Result, error) {
	var (
		res Result
		err error
	)
	switch v := in.(type) {
	case VolumeInput:
		res, err = d.converter.CorrectVolume(rho15, v.ObservedM3, tempC)
	case MassInput:
		res, err = d.converter.CorrectMass(rho15, v.MassTon, tempC)
	default:
		return Result{}, &MissingInputError{Field: "volume_m3/mass_ton", Reason: "give either volume or mass"}
	}
	if err != nil {
		return Result{}, err
	}

	eq, err := d.equivalents(res.V15M3)
	if err != nil {
		return Result{}, err
	}

	res.Fuel = fuel
	res.Equivalents = &eq
	res.V15M3 = vcf.Round(res.V15M3, 3)
	if res.Mode == ModeVolume {
		res.MassTon = vcf.Round(res.MassTon, 3)
	}
	if res.VolumeObsM3 != nil {
		vobs := vcf.Round(*res.VolumeObsM3, 3)
		res.VolumeObsM3 = &vobs
	}
	if res.RhoTTonM3 != nil {
		rhoT := vcf.Round(*res.RhoTTonM3, 6)
		res.RhoTTonM3 = &rhoT
	}
	return res, nil
}

func (d *Dispatcher) resolveDensity(req Request) (float64, error) {
	if req.Rho15 != nil {
		return *req.Rho15, nil
	}
	if req.Fuel == "" {
		return 0, &MissingInputError{Field: "rho15", Reason: "give rho15 or a fuel name"}
	}
	if d.densities == nil {
		return 0, &MissingInputError{Field: "rho15", Reason: "no density lookup configured"}
	}
	return d.densities.Density(req.Fuel)
}

// equivalents expresses v15 (m³) in barrels, litres and US gallons.
// Conversion errors are returned as is.
func (d *Dispatcher) equivalents(v15 float64) (Equivalents, error) {
	bbl, err := d.units.Convert(v15, units.CubicMetre, units.Barrel)
	if err != nil {
		return Equivalents{}, err
	}
	litres, err := d.units.Convert(v15, units.CubicMetre, units.Litre)
	if err != nil {
		return Equivalents{}, err
	}
	usg, err := d.units.Convert(v15, units.CubicMetre, units.USGallon)
	if err != nil {
		return Equivalents{}, err
	}

	return Equivalents{
		M3:      vcf.Round(v15, 3),
		Barrels: vcf.Round(bbl, 3),
		Litres:  vcf.Round(litres, 1),
		USG:     vcf.Round(usg, 1),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
