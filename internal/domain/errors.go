package domain

import (
	"errors"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

// Error kinds reported by ErrorKind.
const (
	KindDensityOutOfRange = "density_out_of_range"
	KindMissingInput      = "missing_input"
	KindUnitConversion    = "unit_conversion"
	KindUnknownFuel       = "unknown_fuel"
	KindMalformedRequest  = "malformed_request"
	KindInternal          = "internal"
)

// ErrorKind classifies a correction failure. All kinds except internal are
// caller errors that a retry cannot fix.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, vcf.ErrDensityOutOfRange):
		return KindDensityOutOfRange
	case errors.Is(err, correction.ErrMissingInput), errors.Is(err, vcf.ErrInvalidTemperature):
		return KindMissingInput
	case errors.Is(err, units.ErrUnitConversion):
		return KindUnitConversion
	case errors.Is(err, fuel.ErrUnknownFuel):
		return KindUnknownFuel
	case errors.Is(err, ErrMalformedRequest):
		return KindMalformedRequest
	default:
		return KindInternal
	}
}
