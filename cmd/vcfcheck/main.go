// Command vcfcheck runs integrity checks against the correction engine: the
// Annex B constants, published reference values, segment boundaries, the
// volume/mass round trip, unit factor consistency, and optionally the grid
// fixture. It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/vcfcheck -grid data/mock/vcf_grid.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	gridPath := flag.String("grid", "", "optional path to the VCF grid fixture")
	flag.Parse()

	os.Exit(run(*gridPath))
}

func run(gridPath string) int {
	fmt.Println("=== VCF Engine Integrity Checks ===")
	fmt.Println()

	dispatcher := correction.NewDispatcher(nil, fuel.New(nil), nil)

	phases := []*phase{
		checkConstants(vcf.AnnexB()),
		checkOracles(dispatcher),
		checkBoundaries(),
		checkRoundTrip(dispatcher),
		checkUnitIdentity(units.ASTM()),
	}
	if gridPath != "" {
		phases = append(phases, checkGrid(gridPath))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nChecks FAILED.")
	return 1
}

// ── Phases ──

func checkConstants(r *vcf.Registry) *phase {
	p := &phase{name: "Annex B constants"}

	want := vcf.AnnexBSegments()
	got := r.Segments()
	if len(got) != len(want) {
		p.errorf("segment count: got %d, want %d", len(got), len(want))
		return p
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Table != w.Table || g.Label != w.Label {
			p.errorf("segment %d: got %s %q, want %s %q", i, g.Table, g.Label, w.Table, w.Label)
		}
		if g.Lo != w.Lo || g.Hi != w.Hi || g.LoInclusive != w.LoInclusive {
			p.errorf("segment %d %q: range mismatch", i, w.Label)
		}
		if g.Coefficients != w.Coefficients {
			p.errorf("segment %d %q: coefficients %+v, want %+v", i, w.Label, g.Coefficients, w.Coefficients)
		}
		if i > 0 && g.Lo != got[i-1].Hi {
			p.errorf("segment %d %q: gap after %g", i, w.Label, got[i-1].Hi)
		}
	}
	if got[0].Lo != vcf.MinDensity || got[len(got)-1].Hi != vcf.MaxDensity {
		p.errorf("domain %g–%g, want %g–%g", got[0].Lo, got[len(got)-1].Hi, vcf.MinDensity, vcf.MaxDensity)
	}
	return p
}

func checkOracles(d *correction.Dispatcher) *phase {
	p := &phase{name: "Reference values"}

	res, err := vcf.Compute(850, 25)
	if err != nil {
		p.errorf("vcf 850/25: %v", err)
	} else {
		expectEq(p, "vcf 850/25 VCF", res.VCF, 0.991672)
		expectEq(p, "vcf 850/25 deltaT", res.DeltaT, 10)
		if res.Table != vcf.Table54B {
			p.errorf("vcf 850/25 table: got %s, want 54B", res.Table)
		}
	}

	// Published table values, matched to ±0.0005.
	published := []struct{ rho15, tempC, vcf float64 }{
		{740, 25, 0.9888},
		{850, 25, 0.9917},
		{910, 25, 0.9924},
		{980, 25, 0.9931},
		{850, 56, 0.9656},
	}
	for _, c := range published {
		res, err := vcf.Compute(c.rho15, c.tempC)
		if err != nil {
			p.errorf("vcf %g/%g: %v", c.rho15, c.tempC, err)
			continue
		}
		if math.Abs(res.VCF-c.vcf) > 0.0005 {
			p.errorf("vcf %g/%g: got %v, table value %v", c.rho15, c.tempC, res.VCF, c.vcf)
		}
	}

	vol, err := d.AutoCorrect(correction.Request{Fuel: "diesel", VolumeM3: ptr(1000), TempC: ptr(25)})
	if err != nil {
		p.errorf("diesel 1000 m³ at 25 °C: %v", err)
	} else {
		expectEq(p, "diesel V15", vol.V15M3, 991.672)
		expectEq(p, "diesel mass", vol.MassTon, 842.921)
		expectEq(p, "diesel barrels", vol.Equivalents.Barrels, 6237.429)
		expectEq(p, "diesel litres", vol.Equivalents.Litres, 991672.1)
		expectEq(p, "diesel usg", vol.Equivalents.USG, 261972.0)
	}

	mass, err := d.AutoCorrect(correction.Request{Fuel: "diesel", MassTon: ptr(500), TempC: ptr(25)})
	if err != nil {
		p.errorf("diesel 500 t at 25 °C: %v", err)
	} else {
		expectEq(p, "diesel mass-path V15", mass.V15M3, 578.479)
		expectEq(p, "diesel volume_obs", *mass.VolumeObsM3, 583.337)
		expectEq(p, "diesel rhoT", *mass.RhoTTonM3, 0.857138)
	}

	hfo, err := d.AutoCorrect(correction.Request{Fuel: "hfo", VolumeM3: ptr(100), TempC: ptr(56)})
	if err != nil {
		p.errorf("hfo 100 m³ at 56 °C: %v", err)
	} else {
		expectEq(p, "hfo V15", hfo.V15M3, 97.145)
	}
	return p
}

func checkBoundaries() *phase {
	p := &phase{name: "Segment boundaries"}

	cases := []struct {
		rho15 float64
		table vcf.Table
		label string
	}{
		{610.5, vcf.Table54A, "Light distillates"},
		{770.0, vcf.Table54A, "Light distillates"},
		{770.5, vcf.Table54B, "Transition band"},
		{787.5, vcf.Table54B, "Transition band"},
		{838.5, vcf.Table54B, "Jet/Kerosene"},
		{1075.0, vcf.Table54B, "Residual/Marine"},
		{1075.1, vcf.Table54D, "Lubricating oils"},
		{1164.0, vcf.Table54D, "Lubricating oils"},
	}
	for _, c := range cases {
		res, err := vcf.Compute(c.rho15, 15)
		if err != nil {
			p.errorf("rho15=%g: %v", c.rho15, err)
			continue
		}
		if res.Table != c.table || res.Label != c.label {
			p.errorf("rho15=%g: got %s %q, want %s %q", c.rho15, res.Table, res.Label, c.table, c.label)
		}
		if res.VCF != 1 {
			p.errorf("rho15=%g at 15 °C: VCF %g, want 1", c.rho15, res.VCF)
		}
	}

	for _, rho := range []float64{610.4, 1164.1, 0, -850, math.NaN()} {
		if _, err := vcf.Compute(rho, 15); !errors.Is(err, vcf.ErrDensityOutOfRange) {
			p.errorf("rho15=%g: expected density out of range, got %v", rho, err)
		}
	}
	return p
}

func checkRoundTrip(d *correction.Dispatcher) *phase {
	p := &phase{name: "Volume/mass round trip"}

	conv := correction.NewConverter(nil)
	for _, rho := range []float64{650, 780, 800, 850, 980, 1100} {
		for _, t := range []float64{-10, 15, 40, 80} {
			vol, err := conv.CorrectVolume(rho, 1000, t)
			if err != nil {
				p.errorf("volume rho15=%g t=%g: %v", rho, t, err)
				continue
			}
			mass, err := conv.CorrectMass(rho, vol.MassTon, t)
			if err != nil {
				p.errorf("mass rho15=%g t=%g: %v", rho, t, err)
				continue
			}
			if math.Abs(*mass.VolumeObsM3-1000) > 1e-6 {
				p.errorf("rho15=%g t=%g: observed volume %g after round trip", rho, t, *mass.VolumeObsM3)
			}
			if math.Abs(mass.V15M3-vol.V15M3) > 1e-6 {
				p.errorf("rho15=%g t=%g: V15 %g vs %g", rho, t, mass.V15M3, vol.V15M3)
			}
		}
	}

	if _, err := d.AutoCorrect(correction.Request{Fuel: "diesel", VolumeM3: ptr(1), MassTon: ptr(1), TempC: ptr(20)}); !errors.Is(err, correction.ErrMissingInput) {
		p.errorf("volume and mass together: expected missing input, got %v", err)
	}
	return p
}

func checkUnitIdentity(t *units.Table) *phase {
	p := &phase{name: "Unit factor consistency"}

	for _, u := range []units.Unit{units.Barrel, units.Litre, units.USGallon, units.ImperialGallon, units.CubicFoot} {
		there, err := t.Convert(1, units.CubicMetre, u)
		if err != nil {
			p.errorf("cum→%s: %v", u, err)
			continue
		}
		back, err := t.Convert(there, u, units.CubicMetre)
		if err != nil {
			p.errorf("%s→cum: %v", u, err)
			continue
		}
		if math.Abs(back-1) > 1e-4 {
			p.errorf("cum→%s→cum: %g", u, back)
		}
	}
	if _, err := t.Convert(1, units.CubicMetre, units.Tonne); !errors.Is(err, units.ErrUnitConversion) {
		p.errorf("cum→tonne: expected conversion error, got %v", err)
	}
	return p
}

type gridPoint struct {
	Rho15 float64   `json:"rho15"`
	TempC float64   `json:"tempC"`
	Table vcf.Table `json:"table"`
	VCF   float64   `json:"VCF"`
}

func checkGrid(path string) *phase {
	p := &phase{name: "Grid fixture"}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read %s: %v", path, err)
		return p
	}
	var points []gridPoint
	if err := json.Unmarshal(data, &points); err != nil {
		p.errorf("parse %s: %v", path, err)
		return p
	}
	for _, pt := range points {
		res, err := vcf.Compute(pt.Rho15, pt.TempC)
		if err != nil {
			p.errorf("rho15=%g t=%g: %v", pt.Rho15, pt.TempC, err)
			continue
		}
		if res.Table != pt.Table {
			p.errorf("rho15=%g: table %s, fixture %s", pt.Rho15, res.Table, pt.Table)
		}
		expectEq(p, fmt.Sprintf("rho15=%g t=%g VCF", pt.Rho15, pt.TempC), res.VCF, pt.VCF)
	}
	fmt.Printf("Grid points: %d\n", len(points))
	return p
}

// ── Helpers ──

func expectEq(p *phase, what string, got, want float64) {
	if math.Abs(got-want) > 1e-9 {
		p.errorf("%s: got %v, want %v", what, got, want)
	}
}

func ptr(v float64) *float64 { return &v }
