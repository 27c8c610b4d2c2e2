package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"metabohunter/internal/catalog"
	"metabohunter/internal/gateway/metabohunter"
	"metabohunter/internal/logger"
	"metabohunter/internal/peaks"
	"metabohunter/internal/reconcile"

	"github.com/google/uuid"
)

// State is the position of a Session in the two-request protocol.
type State int

const (
	StateUnsent State = iota
	StateRankingReceived
	StateEvidenceReceived
	StateReconciled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnsent:
		return "UNSENT"
	case StateRankingReceived:
		return "RANKING_RECEIVED"
	case StateEvidenceReceived:
		return "EVIDENCE_RECEIVED"
	case StateReconciled:
		return "RECONCILED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ErrSessionDone is returned by Step once a session has reconciled.
var ErrSessionDone = errors.New("identification session already finished")

// Transport performs the two remote calls. Errors are passed through unchanged.
type Transport interface {
	Submit(ctx context.Context, form url.Values) (string, error)
	DownloadMatchedPeaks(ctx context.Context, form metabohunter.MatchedPeaksForm) (string, error)
}

// Session runs one identification. Each Step performs at most one remote
// call; any failure moves the session to StateFailed for good.
type Session struct {
	traceID   string
	transport Transport
	peaks     peaks.List
	params    catalog.Parameters
	form      url.Values
	log       *slog.Logger

	state    State
	err      error
	ranking  metabohunter.RankingResponse
	evidence *metabohunter.Evidence
	result   Result
}

// NewSession validates params and encodes the submission. Nothing is sent yet.
// An empty peak list yields a session that is already reconciled.
func NewSession(t Transport, list peaks.List, params catalog.Parameters) (*Session, error) {
	if t == nil {
		return nil, fmt.Errorf("identify: nil transport")
	}
	form, err := metabohunter.SubmitForm(list, params)
	if err != nil {
		return nil, err
	}
	traceID := uuid.NewString()
	s := &Session{
		traceID:   traceID,
		transport: t,
		peaks:     list,
		params:    params,
		form:      form,
		log:       logger.With("trace_id", traceID),
	}
	if len(list) == 0 {
		s.state = StateReconciled
		s.result = Result{}
	}
	return s, nil
}

func (s *Session) TraceID() string { return s.traceID }

func (s *Session) State() State { return s.state }

// Err returns the error that failed the session.
func (s *Session) Err() error { return s.err }

// Ranking returns the ranking table once received.
func (s *Session) Ranking() *metabohunter.RankingTable { return s.ranking.Table }

// Evidence returns the matched-peak evidence once received.
func (s *Session) Evidence() *metabohunter.Evidence { return s.evidence }

// Step advances the session by one state.
func (s *Session) Step(ctx context.Context) error {
	var err error
	switch s.state {
	case StateUnsent:
		err = s.submit(ctx)
	case StateRankingReceived:
		err = s.download(ctx)
	case StateEvidenceReceived:
		s.reconcile()
	case StateReconciled:
		return ErrSessionDone
	case StateFailed:
		return s.err
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.log.Error("identification failed", "error", err)
	}
	return err
}

// Run steps until the session reconciles or fails. No partial result is
// returned on failure.
func (s *Session) Run(ctx context.Context) (Result, error) {
	for s.state != StateReconciled {
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
	}
	return s.result, nil
}

func (s *Session) submit(ctx context.Context) error {
	s.log.Info("sending peak list to MetaboHunter", "peaks", len(s.peaks), "database", s.params.Database, "method", s.params.Method)
	body, err := s.transport.Submit(ctx, s.form)
	if err != nil {
		return err
	}
	logger.LogRemoteExchange(s.traceID, "submit", metabohunter.SubmitPath, s.form.Encode(), body)
	s.log.Info("received analysis from MetaboHunter, interpreting")
	resp, err := metabohunter.ParseRankingResponse(body)
	if err != nil {
		return fmt.Errorf("submit response: %w", err)
	}
	s.ranking = resp
	s.state = StateRankingReceived
	s.log.Debug("ranking table extracted", "metabolites", resp.Table.Len(), "sample_file", resp.SampleFile)
	return nil
}

func (s *Session) download(ctx context.Context) error {
	if s.ranking.Table.Len() == 0 {
		s.log.Info("no candidate metabolites ranked, skipping matched peaks")
		s.evidence = &metabohunter.Evidence{}
		s.state = StateEvidenceReceived
		return nil
	}
	s.log.Info("retrieving matched peaks to metabolite relationships")
	form := metabohunter.NewMatchedPeaksForm(s.ranking, s.params.Noise)
	body, err := s.transport.DownloadMatchedPeaks(ctx, form)
	if err != nil {
		return err
	}
	logger.LogRemoteExchange(s.traceID, "matched_peaks", metabohunter.MatchedPeaksPath, form.Values().Encode(), body)
	s.evidence = metabohunter.ParseEvidence(body)
	s.state = StateEvidenceReceived
	return nil
}

func (s *Session) reconcile() {
	s.log.Info("extracting data")
	assigned := reconcile.Project(s.peaks.Shifts(), reconcile.Invert(s.ranking.Table, s.evidence))
	result := unmatched(s.peaks)
	for i, id := range assigned {
		if id == "" {
			continue
		}
		result[i].MetaboliteID = id
		if row, ok := s.ranking.Table.Lookup(id); ok {
			result[i].Name = row.Name
			result[i].Score = row.Score
		}
	}
	s.result = result
	s.state = StateReconciled
	s.log.Info("identification complete", "peaks", len(result), "matched", result.MatchedCount())
}
