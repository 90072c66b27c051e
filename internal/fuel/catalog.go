// Package fuel resolves a product name to its density at 15 °C.
package fuel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrUnknownFuel is matched by every lookup of a name the catalog does not hold.
var ErrUnknownFuel = errors.New("unknown fuel")

// UnknownFuelError reports the requested name and the fuels that are available.
type UnknownFuelError struct {
	Name      string
	Available []string
}

func (e *UnknownFuelError) Error() string {
	return fmt.Sprintf("unknown fuel %q, available fuels: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownFuelError) Unwrap() error { return ErrUnknownFuel }

// Defaults are the built-in densities in kg/m³ at 15 °C. lpg and lng lie
// below the 610.5 kg/m³ Annex B domain: they are listed for reference and
// every correction that resolves to them fails with a density out of range.
var Defaults = map[string]float64{
	"diesel":   850.0,
	"hfo":      980.0,
	"gasoline": 740.0,
	"jet":      800.0,
	"lube":     910.0,
	"methanol": 791.0,
	"lpg":      540.0,
	"lng":      450.0,
}

// aliases maps trade names onto catalog names. Order matters: the first set
// containing a name wins.
var aliases = []struct {
	names     []string
	canonical string
}{
	{[]string{"mgo", "mdo", "gasoil", "gas oil", "marine gasoil"}, "diesel"},
	{[]string{"ifo", "ifo380", "ifo180", "bunker", "fuel oil", "heavy fuel oil"}, "hfo"},
	{[]string{"petrol", "mogas", "motor gasoline"}, "gasoline"},
	{[]string{"jet a", "jet a-1", "jet-a1", "kerosene", "avtur"}, "jet"},
	{[]string{"ulo", "lube oil", "lubricating oil"}, "lube"},
}

// Fuel is one catalog entry.
type Fuel struct {
	Name      string   `json:"name"`
	Density15 float64  `json:"density_15C"`
	Aliases   []string `json:"aliases,omitempty"`
}

// Catalog is an immutable name → density table.
type Catalog struct {
	densities map[string]float64
}

// New builds a catalog from the defaults with overrides applied on top.
func New(overrides map[string]float64) *Catalog {
	densities := make(map[string]float64, len(Defaults)+len(overrides))
	for name, d := range Defaults {
		densities[name] = d
	}
	for name, d := range overrides {
		densities[normalize(name)] = d
	}
	return &Catalog{densities: densities}
}

// LoadFile reads density overrides from a JSON file of the form
// {"name": {"density_15C": 850.0}}. Entries without density_15C are ignored.
// An empty path yields the defaults.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return New(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fuel data: %w", err)
	}

	var raw map[string]struct {
		Density15 *float64 `json:"density_15C"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fuel data %s: %w", path, err)
	}

	overrides := make(map[string]float64, len(raw))
	for name, entry := range raw {
		if entry.Density15 == nil {
			continue
		}
		if *entry.Density15 <= 0 {
			return nil, fmt.Errorf("fuel data %s: density for %q must be positive, got %g", path, name, *entry.Density15)
		}
		overrides[name] = *entry.Density15
	}
	return New(overrides), nil
}

// Density returns the density at 15 °C for name. Matching ignores case and
// surrounding whitespace and accepts the known trade-name aliases.
func (c *Catalog) Density(name string) (float64, error) {
	key := c.resolve(name)
	d, ok := c.densities[key]
	if !ok {
		return 0, &UnknownFuelError{Name: strings.TrimSpace(name), Available: c.Names()}
	}
	return d, nil
}

// Canonical returns the catalog name that name resolves to.
func (c *Catalog) Canonical(name string) (string, bool) {
	key := c.resolve(name)
	_, ok := c.densities[key]
	return key, ok
}

// Names lists the catalog names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.densities))
	for name := range c.densities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fuels lists every entry with its aliases, sorted by name.
func (c *Catalog) Fuels() []Fuel {
	names := c.Names()
	out := make([]Fuel, 0, len(names))
	for _, name := range names {
		f := Fuel{Name: name, Density15: c.densities[name]}
		for _, a := range aliases {
			if a.canonical == name {
				f.Aliases = append(f.Aliases, a.names...)
			}
		}
		out = append(out, f)
	}
	return out
}

// resolve prefers an exact catalog name so overrides can shadow an alias.
func (c *Catalog) resolve(name string) string {
	key := normalize(name)
	if _, ok := c.densities[key]; ok {
		return key
	}
	for _, a := range aliases {
		for _, n := range a.names {
			if n == key {
				return a.canonical
			}
		}
	}
	return key
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
