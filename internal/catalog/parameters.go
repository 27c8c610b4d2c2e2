package catalog

import (
	"errors"
	"fmt"
)

// Parameters is the full set of request parameters sent with a peak list.
type Parameters struct {
	Metabotype string  `toml:"metabotype" json:"metabotype" yaml:"metabotype"`
	Database   string  `toml:"database" json:"database" yaml:"database"`
	PH         string  `toml:"ph" json:"ph" yaml:"ph"`
	Solvent    string  `toml:"solvent" json:"solvent" yaml:"solvent"`
	Frequency  string  `toml:"frequency" json:"frequency" yaml:"frequency"`
	Method     string  `toml:"method" json:"method" yaml:"method"`
	Noise      float64 `toml:"noise" json:"noise" yaml:"noise"`
	Confidence float64 `toml:"confidence" json:"confidence" yaml:"confidence"`
	Tolerance  float64 `toml:"tolerance" json:"tolerance" yaml:"tolerance"`
}

// Defaults returns the service defaults.
func Defaults() Parameters {
	return Parameters{
		Metabotype: MetabotypeAll,
		Database:   DatabaseHMDB,
		PH:         PH7To10,
		Solvent:    SolventWater,
		Frequency:  Frequency600,
		Method:     MethodHighestNumberNbhd,
		Noise:      DefaultNoise,
		Confidence: DefaultConfidence,
		Tolerance:  DefaultTolerance,
	}
}

// Get returns the value of one dimension.
func (p Parameters) Get(dim Dimension) (any, error) {
	switch dim {
	case DimMetabotype:
		return p.Metabotype, nil
	case DimDatabase:
		return p.Database, nil
	case DimPH:
		return p.PH, nil
	case DimSolvent:
		return p.Solvent, nil
	case DimFrequency:
		return p.Frequency, nil
	case DimMethod:
		return p.Method, nil
	case DimNoise:
		return p.Noise, nil
	case DimConfidence:
		return p.Confidence, nil
	case DimTolerance:
		return p.Tolerance, nil
	}
	return nil, fmt.Errorf("%w: unknown dimension %q", ErrInvalidParameter, dim)
}

// With returns a copy of p with dim set to value. The value is validated.
func (p Parameters) With(dim Dimension, value any) (Parameters, error) {
	value, err := check(dim, value)
	if err != nil {
		return p, err
	}
	switch dim {
	case DimMetabotype:
		p.Metabotype = value.(string)
	case DimDatabase:
		p.Database = value.(string)
	case DimPH:
		p.PH = value.(string)
	case DimSolvent:
		p.Solvent = value.(string)
	case DimFrequency:
		p.Frequency = value.(string)
	case DimMethod:
		p.Method = value.(string)
	case DimNoise:
		p.Noise = value.(float64)
	case DimConfidence:
		p.Confidence = value.(float64)
	case DimTolerance:
		p.Tolerance = value.(float64)
	}
	return p, nil
}

// Validate checks every field and joins all failures.
func (p Parameters) Validate() error {
	var errs []error
	for _, dim := range Dimensions() {
		v, err := p.Get(dim)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := check(dim, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
