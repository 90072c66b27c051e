package vcf

import (
	"errors"
	"fmt"
)

// ErrDensityOutOfRange is matched by every density selection failure.
var ErrDensityOutOfRange = errors.New("density out of range")

// DensityOutOfRangeError reports a density that no segment of the registry covers.
type DensityOutOfRangeError struct {
	Rho15  float64
	Reason string
}

func (e *DensityOutOfRangeError) Error() string {
	return fmt.Sprintf("density %g kg/m³: %s", e.Rho15, e.Reason)
}

func (e *DensityOutOfRangeError) Unwrap() error { return ErrDensityOutOfRange }

// ErrInvalidTemperature is returned for a NaN or infinite observed temperature.
var ErrInvalidTemperature = errors.New("invalid temperature")

// InvalidTemperatureError reports an observed temperature the formula cannot use.
type InvalidTemperatureError struct {
	TempC float64
}

func (e *InvalidTemperatureError) Error() string {
	return fmt.Sprintf("temperature %g °C: must be a finite number", e.TempC)
}

func (e *InvalidTemperatureError) Unwrap() error { return ErrInvalidTemperature }
