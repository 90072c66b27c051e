// Package units converts quantities with the factors of ASTM D1250-80
// Volume XI, Table 1. All factors relate units at the same temperature.
package units

import (
	"errors"
	"fmt"
	"sort"
)

// Unit is a volume or weight unit key.
type Unit string

// Volume units.
const (
	CubicMetre     Unit = "cum"
	Litre          Unit = "litre"
	Barrel         Unit = "barrel"
	USGallon       Unit = "usg"
	ImperialGallon Unit = "imp_gal"
	CubicFoot      Unit = "cuft"
	CubicInch      Unit = "cuin"
)

// Weight units.
const (
	Tonne    Unit = "tonne"
	LongTon  Unit = "long_ton"
	ShortTon Unit = "short_ton"
	Pound    Unit = "lb"
	Kilogram Unit = "kg"
)

// Length units.
const (
	Metre      Unit = "metre"
	Yard       Unit = "yard"
	Foot       Unit = "foot"
	Inch       Unit = "inch"
	Centimetre Unit = "cm"
)

// ErrUnitConversion is matched by every conversion failure.
var ErrUnitConversion = errors.New("unit conversion failed")

// ConversionError reports a unit pair the table has no factor for.
type ConversionError struct {
	From Unit
	To   Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no conversion factor for %q to %q", e.From, e.To)
}

func (e *ConversionError) Unwrap() error { return ErrUnitConversion }

type pair struct {
	from Unit
	to   Unit
}

// Table is an immutable set of direct conversion factors.
type Table struct {
	factors map[pair]float64
}

// Convert multiplies value by the from→to factor, or divides by the to→from
// factor when only the inverse is listed. Converting a unit to itself is the
// identity.
func (t *Table) Convert(value float64, from, to Unit) (float64, error) {
	if from == to && t.known(from) {
		return value, nil
	}
	if f, ok := t.factors[pair{from, to}]; ok {
		return value * f, nil
	}
	if f, ok := t.factors[pair{to, from}]; ok {
		return value / f, nil
	}
	return 0, &ConversionError{From: from, To: to}
}

// Units lists every unit the table knows, sorted.
func (t *Table) Units() []Unit {
	seen := map[Unit]bool{}
	for p := range t.factors {
		seen[p.from] = true
		seen[p.to] = true
	}
	out := make([]Unit, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *Table) known(u Unit) bool {
	for p := range t.factors {
		if p.from == u || p.to == u {
			return true
		}
	}
	return false
}

var astm = &Table{factors: map[pair]float64{
	// Length.
	{Metre, Yard}:      1.0936,
	{Metre, Foot}:      3.2808,
	{Metre, Inch}:      39.37,
	{Yard, Metre}:      0.9144, // exact
	{Foot, Metre}:      0.3048, // exact
	{Inch, Centimetre}: 2.54,   // exact

	// Weight.
	{LongTon, Pound}:    2240.0, // exact
	{LongTon, ShortTon}: 1.12,   // exact
	{LongTon, Tonne}:    1.01605,
	{ShortTon, Pound}:   2000.0, // exact
	{ShortTon, LongTon}: 0.892857,
	{ShortTon, Tonne}:   0.907185,
	{Tonne, LongTon}:    0.984206,
	{Tonne, ShortTon}:   1.10231,
	{Pound, Kilogram}:   0.453592,
	{Kilogram, Pound}:   2.20462,

	// Volume and capacity.
	{USGallon, CubicInch}:      231.0, // exact
	{USGallon, CubicFoot}:      0.133681,
	{USGallon, ImperialGallon}: 0.832674,
	{USGallon, Barrel}:         0.0238095,
	{USGallon, Litre}:          3.78541,

	{Barrel, USGallon}:       42.0,   // exact
	{Barrel, CubicInch}:      9702.0, // exact
	{Barrel, CubicFoot}:      5.61458,
	{Barrel, ImperialGallon}: 34.9723,
	{Barrel, Litre}:          158.987,

	{ImperialGallon, CubicInch}: 277.42,
	{ImperialGallon, CubicFoot}: 0.160544,
	{ImperialGallon, USGallon}:  1.20095,
	{ImperialGallon, Barrel}:    0.0285941,
	{ImperialGallon, Litre}:     4.54596,

	{CubicFoot, ImperialGallon}: 6.22883,
	{CubicFoot, USGallon}:       7.48052,
	{CubicFoot, Barrel}:         0.178108,
	{CubicFoot, Litre}:          28.3169,
	{CubicFoot, CubicMetre}:     0.0283169,

	{CubicInch, ImperialGallon}: 0.00360465,
	{CubicInch, USGallon}:       0.004329,
	{CubicInch, Litre}:          0.0163871,

	{Litre, CubicInch}:      61.0238,
	{Litre, CubicFoot}:      0.0353147,
	{Litre, ImperialGallon}: 0.219969,
	{Litre, USGallon}:       0.264172,
	{Litre, Barrel}:         0.00628981,

	{CubicMetre, ImperialGallon}: 219.969,
	{CubicMetre, USGallon}:       264.172,
	{CubicMetre, Barrel}:         6.28981,
	{CubicMetre, CubicFoot}:      35.3147,
	{CubicMetre, Litre}:          1000.0, // exact
}}

// ASTM returns the Volume XI Table 1 factor table.
func ASTM() *Table { return astm }

// Convert converts with the ASTM table.
func Convert(value float64, from, to Unit) (float64, error) {
	return astm.Convert(value, from, to)
}
