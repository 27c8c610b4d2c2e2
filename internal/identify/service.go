// Package identify assigns metabolites to NMR peaks using the MetaboHunter
// service.
package identify

import (
	"context"

	"metabohunter/internal/catalog"
	"metabohunter/internal/peaks"
)

// ParameterSource supplies the request parameters used when a call does not
// override them.
type ParameterSource interface {
	Parameters() catalog.Parameters
}

// StaticParameters is a fixed ParameterSource.
type StaticParameters catalog.Parameters

func (p StaticParameters) Parameters() catalog.Parameters { return catalog.Parameters(p) }

// Service is stateless across calls; every Identify runs its own Session.
type Service struct {
	transport Transport
	defaults  ParameterSource
}

// NewService builds a service. A nil source means catalog.Defaults.
func NewService(t Transport, defaults ParameterSource) *Service {
	if defaults == nil {
		defaults = StaticParameters(catalog.Defaults())
	}
	return &Service{transport: t, defaults: defaults}
}

// Identify pairs positions with intensities and returns, for each peak in
// input order, the best-matching metabolite. positions and intensities may be
// []float64 or any nested numeric slice that squeezes to one dimension.
func (s *Service) Identify(ctx context.Context, positions, intensities any, opts ...Option) (Result, error) {
	list, err := peaks.Normalize(positions, intensities)
	if err != nil {
		return nil, err
	}
	return s.IdentifyPeaks(ctx, list, opts...)
}

// IdentifyPeaks is Identify for an already normalized peak list.
func (s *Service) IdentifyPeaks(ctx context.Context, list peaks.List, opts ...Option) (Result, error) {
	session, err := s.NewSession(list, opts...)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx)
}

// NewSession prepares a session with the service defaults and opts applied.
func (s *Service) NewSession(list peaks.List, opts ...Option) (*Session, error) {
	params := s.defaults.Parameters()
	for _, opt := range opts {
		if opt != nil {
			opt(&params)
		}
	}
	return NewSession(s.transport, list, params)
}
