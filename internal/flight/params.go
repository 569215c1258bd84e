package flight

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultMinSafeAltitude  = 10.0  // meters, ground collision margin
	defaultMaxSafeAltitude  = 150.0 // meters, regulatory ceiling
	defaultDecayConstant    = 0.2   // per hour
	defaultReferencePower   = 1e-3  // watts, 0 dBm
	defaultBaseThrust       = 4.0   // m/s²
	defaultWindCompensation = 0.5   // m/s²
	defaultGridCellHeight   = 10.0  // meters per altitude layer
	defaultADCGainExponent  = 4     // ×16
	defaultToleranceULPs    = 2
)

// Parameters are the fixed constants of the transform sequence.
type Parameters struct {
	MinSafeAltitude  float64 `yaml:"minSafeAltitude" json:"minSafeAltitude"`   // meters
	MaxSafeAltitude  float64 `yaml:"maxSafeAltitude" json:"maxSafeAltitude"`   // meters
	DecayConstant    float64 `yaml:"decayConstant" json:"decayConstant"`       // per hour
	ReferencePower   float64 `yaml:"referencePower" json:"referencePower"`     // watts
	BaseThrust       float64 `yaml:"baseThrust" json:"baseThrust"`             // m/s²
	WindCompensation float64 `yaml:"windCompensation" json:"windCompensation"` // m/s²
	GridCellHeight   float64 `yaml:"gridCellHeight" json:"gridCellHeight"`     // meters
	ADCGainExponent  int     `yaml:"adcGainExponent" json:"adcGainExponent"`   // gain = 2^n
	ToleranceULPs    float64 `yaml:"toleranceULPs" json:"toleranceULPs"`
}

// DefaultParameters returns the parameters of the reference drone.
func DefaultParameters() Parameters {
	return Parameters{
		MinSafeAltitude:  defaultMinSafeAltitude,
		MaxSafeAltitude:  defaultMaxSafeAltitude,
		DecayConstant:    defaultDecayConstant,
		ReferencePower:   defaultReferencePower,
		BaseThrust:       defaultBaseThrust,
		WindCompensation: defaultWindCompensation,
		GridCellHeight:   defaultGridCellHeight,
		ADCGainExponent:  defaultADCGainExponent,
		ToleranceULPs:    defaultToleranceULPs,
	}
}

// Validate reports every inconsistent parameter at once.
func (p Parameters) Validate() error {
	var errs []error

	named := []struct {
		name  string
		value float64
	}{
		{"minSafeAltitude", p.MinSafeAltitude},
		{"maxSafeAltitude", p.MaxSafeAltitude},
		{"decayConstant", p.DecayConstant},
		{"referencePower", p.ReferencePower},
		{"baseThrust", p.BaseThrust},
		{"windCompensation", p.WindCompensation},
		{"gridCellHeight", p.GridCellHeight},
		{"toleranceULPs", p.ToleranceULPs},
	}
	for _, n := range named {
		if math.IsNaN(n.value) {
			errs = append(errs, fmt.Errorf("%s is NaN", n.name))
		}
	}

	if p.MinSafeAltitude > p.MaxSafeAltitude {
		errs = append(errs, fmt.Errorf("invalid safe altitude range: min=%f, max=%f", p.MinSafeAltitude, p.MaxSafeAltitude))
	}
	if !(p.GridCellHeight > 0) {
		errs = append(errs, fmt.Errorf("grid cell height must be positive: %f", p.GridCellHeight))
	}
	if !(p.ReferencePower > 0) {
		errs = append(errs, fmt.Errorf("reference power must be positive: %f", p.ReferencePower))
	}
	if p.ToleranceULPs < 0 {
		errs = append(errs, fmt.Errorf("tolerance must not be negative: %f", p.ToleranceULPs))
	}

	return errors.Join(errs...)
}
