// Package correction converts between observed volume, mass and standard
// volume at 15 °C using the Annex B volume correction factor.
package correction

import "github.com/couchcryptid/fuel-vcf-service/internal/vcf"

// Mode names the path a correction took.
type Mode string

const (
	ModeVolume Mode = "volume_input"
	ModeMass   Mode = "mass_input"
)

// Equivalents is the standard volume expressed in several units.
type Equivalents struct {
	M3      float64 `json:"m3_15C"`
	Barrels float64 `json:"barrels_15C"`
	Litres  float64 `json:"litres_15C"`
	USG     float64 `json:"usg_15C"`
}

// Result extends the VCF result with the quantities of one correction.
// ObservedM3 is set on the volume path; VolumeObsM3 and RhoTTonM3 on the mass
// path. MassTon is the input on the mass path and derived on the volume path.
type Result struct {
	vcf.Result

	Fuel        string       `json:"fuel,omitempty"`
	Mode        Mode         `json:"mode"`
	ObservedM3  *float64     `json:"observed_m3,omitempty"`
	VolumeObsM3 *float64     `json:"volume_obs_m3,omitempty"`
	RhoTTonM3   *float64     `json:"rhoT_ton_m3,omitempty"`
	MassTon     float64      `json:"mass_ton"`
	V15M3       float64      `json:"V15_m3"`
	Equivalents *Equivalents `json:"equivalents,omitempty"`
}

// Input is the quantity a correction starts from: VolumeInput or MassInput.
type Input interface {
	Mode() Mode
}

// VolumeInput is an observed volume in m³.
type VolumeInput struct {
	ObservedM3 float64
}

func (VolumeInput) Mode() Mode { return ModeVolume }

// MassInput is a mass in metric tonnes.
type MassInput struct {
	MassTon float64
}

func (MassInput) Mode() Mode { return ModeMass }

// NewInput builds the input from optional volume and mass values. Exactly
// one of them must be set.
func NewInput(volumeM3, massTon *float64) (Input, error) {
	switch {
	case volumeM3 != nil && massTon != nil:
		return nil, &MissingInputError{Field: "volume_m3/mass_ton", Reason: "give either volume or mass, not both"}
	case volumeM3 != nil:
		if !finite(*volumeM3) {
			return nil, &MissingInputError{Field: "volume_m3", Reason: "must be a finite number"}
		}
		return VolumeInput{ObservedM3: *volumeM3}, nil
	case massTon != nil:
		if !finite(*massTon) {
			return nil, &MissingInputError{Field: "mass_ton", Reason: "must be a finite number"}
		}
		return MassInput{MassTon: *massTon}, nil
	default:
		return nil, &MissingInputError{Field: "volume_m3/mass_ton", Reason: "give either volume or mass"}
	}
}
