package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/domain"
	"github.com/reviewlens/reviewlens/internal/tabular"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("ingestion session not found")

const (
	defaultSessionCacheSize = 256
	defaultSessionTTL       = 30 * time.Minute
)

// Service drives the two-stage ingestion workflow: an upload is opened
// (parsed, classified, preflighted), a human confirms or edits the
// proposed mapping, and only then is the batch normalized. Sessions live
// in a bounded TTL cache so abandoned uploads age out on their own.
type Service struct {
	sessions *expirable.LRU[string, domain.IngestionSession]
	sink     RowErrorSink
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	cacheSize int
	ttl       time.Duration
}

// WithSessionCache bounds the session cache and its TTL.
func WithSessionCache(size int, ttl time.Duration) Option {
	return func(o *serviceOptions) {
		if size > 0 {
			o.cacheSize = size
		}
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// NewService creates the workflow service. The sink may be nil.
func NewService(sink RowErrorSink, opts ...Option) *Service {
	options := serviceOptions{
		cacheSize: defaultSessionCacheSize,
		ttl:       defaultSessionTTL,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Service{
		sessions: expirable.NewLRU[string, domain.IngestionSession](options.cacheSize, nil, options.ttl),
		sink:     sink,
	}
}

// OpenRequest describes a new upload entering the workflow.
type OpenRequest struct {
	FileName string
	Data     io.Reader
}

// OpenResult returns everything a confirmation screen needs: the session
// id, the classifier's proposal, the structural findings, and a bounded
// sample of the data.
type OpenResult struct {
	SessionID uuid.UUID            `json:"sessionId"`
	State     domain.SessionState  `json:"state"`
	FileName  string               `json:"fileName"`
	Headers   []string             `json:"headers"`
	TotalRows int                  `json:"totalRows"`
	Proposed  domain.ColumnMapping `json:"proposedMapping"`
	Preflight PreflightResult      `json:"preflight"`
	Preview   []map[string]string  `json:"preview"`
}

// DirectRequest is the one-shot variant for callers that already hold a
// confirmed mapping.
type DirectRequest struct {
	FileName  string
	Data      io.Reader
	Mapping   domain.ColumnMapping
	Overrides domain.VariationOverrides
}

// Open parses the upload, proposes a mapping, and stores an unconfirmed
// session for later confirmation.
func (s *Service) Open(ctx context.Context, req OpenRequest) (OpenResult, error) {
	table, payload, err := readUpload(req.FileName, req.Data)
	if err != nil {
		return OpenResult{}, err
	}

	session := domain.NewIngestionSession(req.FileName, table.Headers, table.Records, Classify(table.Headers))
	s.sessions.Add(session.ID.String(), session)

	// The raw-text preflight only makes sense for CSV payloads; xlsx
	// uploads already went through the structured parser.
	preflight := PreflightResult{IsValid: true, Errors: []string{}, Preview: BuildPreview(table.Headers, table.Records)}
	if strings.ToLower(filepath.Ext(req.FileName)) != ".xlsx" {
		preflight = Preflight(string(payload))
	}

	return OpenResult{
		SessionID: session.ID,
		State:     session.State,
		FileName:  session.FileName,
		Headers:   session.Headers,
		TotalRows: len(session.Records),
		Proposed:  session.Proposed,
		Preflight: preflight,
		Preview:   BuildPreview(table.Headers, table.Records),
	}, nil
}

// Confirm records the caller's mapping and overrides against an open
// session, moving it to the Confirmed state.
func (s *Service) Confirm(ctx context.Context, sessionID uuid.UUID, mapping domain.ColumnMapping, overrides domain.VariationOverrides) (domain.IngestionSession, error) {
	session, ok := s.sessions.Get(sessionID.String())
	if !ok {
		return domain.IngestionSession{}, ErrSessionNotFound
	}

	confirmed, err := session.WithConfirmedMapping(mapping, overrides)
	if err != nil {
		return domain.IngestionSession{}, err
	}

	s.sessions.Add(confirmed.ID.String(), confirmed)
	return confirmed, nil
}

// Process normalizes a confirmed session and returns the result. The
// session moves to its terminal Normalized state; row errors are reported
// to the sink.
func (s *Service) Process(ctx context.Context, sessionID uuid.UUID) (domain.IngestionResult, error) {
	session, ok := s.sessions.Get(sessionID.String())
	if !ok {
		return domain.IngestionResult{}, ErrSessionNotFound
	}

	normalized, err := session.MarkNormalized()
	if err != nil {
		return domain.IngestionResult{}, err
	}

	result, err := Normalize(session.Headers, session.Records, session.Confirmed, session.Overrides)
	if err != nil {
		return result, err
	}

	s.sessions.Add(normalized.ID.String(), normalized)
	s.reportRowErrors(ctx, session.FileName, result.Errors)
	return result, nil
}

// IngestDirect runs the full parse->confirm->process sequence in one call.
// It still walks the session state machine so the confirmation step can
// never be skipped, it is just performed by the caller's asserted mapping.
func (s *Service) IngestDirect(ctx context.Context, req DirectRequest) (domain.IngestionResult, error) {
	table, _, err := readUpload(req.FileName, req.Data)
	if err != nil {
		return domain.IngestionResult{}, err
	}

	session := domain.NewIngestionSession(req.FileName, table.Headers, table.Records, Classify(table.Headers))
	confirmed, err := session.WithConfirmedMapping(req.Mapping, req.Overrides)
	if err != nil {
		return domain.IngestionResult{}, err
	}
	if _, err := confirmed.MarkNormalized(); err != nil {
		return domain.IngestionResult{}, err
	}

	result, err := Normalize(confirmed.Headers, confirmed.Records, confirmed.Confirmed, confirmed.Overrides)
	if err != nil {
		return result, err
	}

	s.reportRowErrors(ctx, req.FileName, result.Errors)
	return result, nil
}

func readUpload(fileName string, data io.Reader) (tabular.Table, []byte, error) {
	if data == nil {
		return tabular.Table{}, nil, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(data)
	if err != nil {
		return tabular.Table{}, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return tabular.Table{}, nil, errors.New("file is empty")
	}

	table, err := tabular.Parse(fileName, payload)
	if err != nil {
		return tabular.Table{}, nil, err
	}
	return table, payload, nil
}

func (s *Service) reportRowErrors(ctx context.Context, fileName string, rowErrors []domain.RowError) {
	if s.sink == nil {
		return
	}
	now := time.Now()
	for _, rowErr := range rowErrors {
		_ = s.sink.Record(ctx, RowErrorEntry{
			FileName:   fileName,
			RowNumber:  rowErr.Row,
			Message:    rowErr.Reason,
			OccurredAt: now,
		})
	}
}
