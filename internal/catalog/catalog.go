// Package catalog enumerates the request parameters accepted by the MetaboHunter service.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"metabohunter/internal/pkg/convert"
)

// ErrInvalidParameter marks a request parameter outside its valid set.
var ErrInvalidParameter = errors.New("invalid metabohunter parameter")

// Dimension names one configurable request parameter.
type Dimension string

const (
	DimMetabotype Dimension = "metabotype"
	DimDatabase   Dimension = "database"
	DimPH         Dimension = "ph"
	DimSolvent    Dimension = "solvent"
	DimFrequency  Dimension = "frequency"
	DimMethod     Dimension = "method"
	DimNoise      Dimension = "noise"
	DimConfidence Dimension = "confidence"
	DimTolerance  Dimension = "tolerance"
)

const (
	MetabotypeAll           = "All"
	MetabotypeDrug          = "Drug"
	MetabotypeFoodAdditive  = "Food additive"
	MetabotypeMammalian     = "Mammalian"
	MetabotypeMicrobial     = "Microbial"
	MetabotypePlant         = "Plant"
	MetabotypeSynthetic     = "Synthetic/Industrial chemical"
	DatabaseHMDB            = "HMDB"
	DatabaseMMCD            = "MMCD"
	PH10To11                = "ph7" // the service has no separate bucket above pH 10
	PH7To10                 = "ph7"
	PH6To7                  = "ph6"
	PH5To6                  = "ph5"
	PH4To5                  = "ph4"
	PH3To4                  = "ph3"
	SolventAll              = "all"
	SolventWater            = "water"
	SolventCDCl3            = "cdcl3"
	SolventCD3OD            = "5d30d"
	Solvent5PctDMSO         = "5dmso"
	FrequencyAll            = "all"
	Frequency600            = "600"
	Frequency500            = "500"
	Frequency400            = "400"
	MethodHighestNumber     = "HighestNumber"
	MethodHighestNumberNbhd = "HighestNumberNeighbourhood"
	MethodGreedy            = "Greedy2"
	MethodHighestHeights    = "HighestNumberHeights"
	MethodGreedyHeights     = "Greedy2Heights"

	DefaultNoise      = 0.0
	DefaultConfidence = 0.4
	DefaultTolerance  = 0.1
)

var enumerations = map[Dimension][]string{
	DimMetabotype: {MetabotypeAll, MetabotypeDrug, MetabotypeFoodAdditive, MetabotypeMammalian,
		MetabotypeMicrobial, MetabotypePlant, MetabotypeSynthetic},
	DimDatabase:  {DatabaseHMDB, DatabaseMMCD},
	DimPH:        {PH7To10, PH6To7, PH5To6, PH4To5, PH3To4},
	DimSolvent:   {SolventAll, SolventWater, SolventCDCl3, SolventCD3OD, Solvent5PctDMSO},
	DimFrequency: {FrequencyAll, Frequency600, Frequency500, Frequency400},
	DimMethod: {MethodHighestNumber, MethodHighestNumberNbhd, MethodGreedy,
		MethodHighestHeights, MethodGreedyHeights},
}

// Dimensions lists every parameter dimension in presentation order.
func Dimensions() []Dimension {
	return []Dimension{DimMetabotype, DimDatabase, DimPH, DimSolvent, DimFrequency,
		DimMethod, DimNoise, DimConfidence, DimTolerance}
}

// IsEnumerated reports whether dim takes a value from a fixed set of strings.
func IsEnumerated(dim Dimension) bool {
	_, ok := enumerations[dim]
	return ok
}

// IsThreshold reports whether dim is one of the numeric thresholds.
func IsThreshold(dim Dimension) bool {
	switch dim {
	case DimNoise, DimConfidence, DimTolerance:
		return true
	}
	return false
}

// Values returns a copy of the valid values for an enumerated dimension.
func Values(dim Dimension) []string {
	return slices.Clone(enumerations[dim])
}

// IsValid reports whether value is accepted for dim. Thresholds take any Go
// number, every other dimension takes a string.
func IsValid(dim Dimension, value any) bool {
	_, err := check(dim, value)
	return err == nil
}

// ParseDimension resolves a dimension name case-insensitively.
func ParseDimension(name string) (Dimension, error) {
	key := Dimension(strings.ToLower(strings.TrimSpace(name)))
	for _, d := range Dimensions() {
		if d == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dimension %q", ErrInvalidParameter, name)
}

// check validates value for dim and returns it in its stored form: float64
// for thresholds, string otherwise.
func check(dim Dimension, value any) (any, error) {
	if IsThreshold(dim) {
		f, err := threshold(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParameter, dim, value)
		}
		return f, checkThreshold(dim, f)
	}
	allowed, ok := enumerations[dim]
	if !ok {
		return nil, fmt.Errorf("%w: unknown dimension %q", ErrInvalidParameter, dim)
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidParameter, dim, value)
	}
	if !slices.Contains(allowed, s) {
		return nil, fmt.Errorf("%w: %s=%q (allowed: %s)", ErrInvalidParameter, dim, s, strings.Join(allowed, ", "))
	}
	return s, nil
}

// threshold accepts numbers only; numeric text is parsed by callers that read
// user input.
func threshold(value any) (float64, error) {
	if _, text := value.(string); text {
		return 0, fmt.Errorf("text is not a threshold")
	}
	return convert.Float64(value)
}

func checkThreshold(dim Dimension, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, dim)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalidParameter, dim, v)
	}
	return nil
}
