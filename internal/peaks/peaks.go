// Package peaks holds the caller's NMR peak list and normalizes loosely shaped
// numeric input into it.
package peaks

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"metabohunter/internal/pkg/convert"
)

var (
	// ErrShape marks input that cannot be flattened to one numeric dimension.
	ErrShape = errors.New("peak data is not one-dimensional numeric")
	// ErrLengthMismatch marks position and intensity sequences of different length.
	ErrLengthMismatch = errors.New("peak positions and intensities have mismatched lengths")
)

// Peak is one observed spectral peak.
type Peak struct {
	Shift     float64 `json:"shift" yaml:"shift"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
}

// List is an ordered peak list. Order is preserved through identification.
type List []Peak

// Shifts returns the chemical-shift positions in order.
func (l List) Shifts() []float64 {
	out := make([]float64, len(l))
	for i, p := range l {
		out[i] = p.Shift
	}
	return out
}

// Intensities returns the intensities in order.
func (l List) Intensities() []float64 {
	out := make([]float64, len(l))
	for i, p := range l {
		out[i] = p.Intensity
	}
	return out
}

// FromSlices pairs positions with intensities.
func FromSlices(shifts, intensities []float64) (List, error) {
	if len(shifts) != len(intensities) {
		return nil, fmt.Errorf("%w: positions=%d intensities=%d", ErrLengthMismatch, len(shifts), len(intensities))
	}
	out := make(List, len(shifts))
	for i := range shifts {
		if !finite(shifts[i]) || !finite(intensities[i]) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", ErrShape, i)
		}
		out[i] = Peak{Shift: shifts[i], Intensity: intensities[i]}
	}
	return out, nil
}

// Normalize accepts positions and intensities as []float64 or as any nested
// numeric slice whose size-1 dimensions can be squeezed away, and pairs them.
func Normalize(shifts, intensities any) (List, error) {
	s, err := Flatten(shifts)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	in, err := Flatten(intensities)
	if err != nil {
		return nil, fmt.Errorf("intensities: %w", err)
	}
	return FromSlices(s, in)
}

// Flatten reduces v to one dimension. A plain []float64 is taken as is; other
// slices and arrays are squeezed, never below one dimension.
func Flatten(v any) ([]float64, error) {
	if f, ok := v.([]float64); ok {
		return f, nil
	}
	if v == nil {
		return nil, fmt.Errorf("%w: nil input", ErrShape)
	}
	var values []float64
	shape, err := walk(reflect.ValueOf(v), &values)
	if err != nil {
		return nil, err
	}
	if dims := squeeze(shape); len(dims) != 1 {
		return nil, fmt.Errorf("%w: shape %v", ErrShape, shape)
	}
	return values, nil
}

func walk(rv reflect.Value, values *[]float64) ([]int, error) {
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil element", ErrShape)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		f, err := scalar(rv)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		if !finite(f) {
			return nil, fmt.Errorf("%w: non-finite value %v", ErrShape, f)
		}
		*values = append(*values, f)
		return []int{}, nil
	}
	n := rv.Len()
	var inner []int
	for i := 0; i < n; i++ {
		shape, err := walk(rv.Index(i), values)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			inner = shape
			continue
		}
		if !slices.Equal(inner, shape) {
			return nil, fmt.Errorf("%w: ragged nesting at index %d", ErrShape, i)
		}
	}
	return append([]int{n}, inner...), nil
}

func scalar(rv reflect.Value) (float64, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return convert.Float64(rv.Interface())
	}
}

func squeeze(shape []int) []int {
	out := make([]int, 0, len(shape))
	for _, d := range shape {
		if d != 1 {
			out = append(out, d)
		}
	}
	if len(out) == 0 && len(shape) > 0 {
		return []int{1}
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
