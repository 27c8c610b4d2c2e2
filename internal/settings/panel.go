// Package settings is a presentation adapter over request parameters: it
// describes each parameter as a form control and turns "set field to value"
// events into validated parameter changes.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"metabohunter/internal/catalog"
	"metabohunter/internal/pkg/convert"
)

type Kind string

const (
	KindChoice Kind = "choice"
	KindSlider Kind = "slider"
)

// Field describes one control of a parameter panel.
type Field struct {
	Name    catalog.Dimension `json:"name" yaml:"name"`
	Label   string            `json:"label" yaml:"label"`
	Kind    Kind              `json:"kind" yaml:"kind"`
	Options []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Min     float64           `json:"min,omitempty" yaml:"min,omitempty"`
	Max     float64           `json:"max,omitempty" yaml:"max,omitempty"`
	Step    float64           `json:"step,omitempty" yaml:"step,omitempty"`
}

var labels = map[catalog.Dimension]string{
	catalog.DimMetabotype: "Metabotype",
	catalog.DimDatabase:   "Database",
	catalog.DimPH:         "pH",
	catalog.DimSolvent:    "Solvent",
	catalog.DimFrequency:  "Frequency MHz",
	catalog.DimMethod:     "Method",
	catalog.DimNoise:      "Noise threshold",
	catalog.DimConfidence: "Confidence threshold",
	catalog.DimTolerance:  "Shift tolerance",
}

// slider bounds are presentation hints only; validation is the catalog's.
var sliders = map[catalog.Dimension][3]float64{
	catalog.DimNoise:      {0, 10, 0.01},
	catalog.DimConfidence: {0, 1, 0.1},
	catalog.DimTolerance:  {0, 10, 0.01},
}

// Fields returns the panel layout in presentation order.
func Fields() []Field {
	dims := catalog.Dimensions()
	out := make([]Field, 0, len(dims))
	for _, d := range dims {
		f := Field{Name: d, Label: labels[d]}
		if b, ok := sliders[d]; ok {
			f.Kind = KindSlider
			f.Min, f.Max, f.Step = b[0], b[1], b[2]
		} else {
			f.Kind = KindChoice
			f.Options = catalog.Values(d)
		}
		out = append(out, f)
	}
	return out
}

// Panel holds the current parameter selection. It is safe for concurrent use.
type Panel struct {
	mu     sync.RWMutex
	values catalog.Parameters
}

// NewPanel starts from defaults, which must be valid.
func NewPanel(defaults catalog.Parameters) (*Panel, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &Panel{values: defaults}, nil
}

// Parameters returns the current selection.
func (p *Panel) Parameters() catalog.Parameters {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values
}

// Set changes one field. Thresholds accept numbers or numeric text.
func (p *Panel) Set(name string, value any) error {
	return p.Apply(map[string]any{name: value})
}

// Apply changes several fields at once; on any error nothing changes.
func (p *Panel) Apply(values map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := Merge(p.values, values)
	if err != nil {
		return err
	}
	p.values = next
	return nil
}

// Reset replaces the whole selection.
func (p *Panel) Reset(values catalog.Parameters) error {
	if err := values.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.values = values
	p.mu.Unlock()
	return nil
}

// Merge applies named values on top of base without touching any panel.
// Names are applied in sorted order so error messages are deterministic.
func Merge(base catalog.Parameters, values map[string]any) (catalog.Parameters, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	next := base
	for _, name := range names {
		dim, err := catalog.ParseDimension(name)
		if err != nil {
			return base, err
		}
		v, err := coerce(dim, values[name])
		if err != nil {
			return base, err
		}
		if next, err = next.With(dim, v); err != nil {
			return base, err
		}
	}
	return next, nil
}

func coerce(dim catalog.Dimension, value any) (any, error) {
	if catalog.IsThreshold(dim) {
		f, err := convert.Float64(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", catalog.ErrInvalidParameter, dim, err)
		}
		return f, nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		// JSON numbers, e.g. frequency 600
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	}
	return nil, fmt.Errorf("%w: %s must be text, got %T", catalog.ErrInvalidParameter, dim, value)
}

// ParseAssignments turns "name=value" pairs into a value map.
func ParseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: expected name=value, got %q", catalog.ErrInvalidParameter, pair)
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out, nil
}
