package identify

import "metabohunter/internal/catalog"

// Option overrides one request parameter for a single identification.
type Option func(*catalog.Parameters)

func WithParameters(p catalog.Parameters) Option {
	return func(dst *catalog.Parameters) { *dst = p }
}

func WithMetabotype(v string) Option {
	return func(p *catalog.Parameters) { p.Metabotype = v }
}

func WithDatabase(v string) Option {
	return func(p *catalog.Parameters) { p.Database = v }
}

func WithPH(v string) Option {
	return func(p *catalog.Parameters) { p.PH = v }
}

func WithSolvent(v string) Option {
	return func(p *catalog.Parameters) { p.Solvent = v }
}

func WithFrequency(v string) Option {
	return func(p *catalog.Parameters) { p.Frequency = v }
}

func WithMethod(v string) Option {
	return func(p *catalog.Parameters) { p.Method = v }
}

func WithNoise(v float64) Option {
	return func(p *catalog.Parameters) { p.Noise = v }
}

func WithConfidence(v float64) Option {
	return func(p *catalog.Parameters) { p.Confidence = v }
}

func WithTolerance(v float64) Option {
	return func(p *catalog.Parameters) { p.Tolerance = v }
}
