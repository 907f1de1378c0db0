package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionState represents where an upload sits in the two-stage
// human-in-the-loop workflow.
type SessionState string

const (
	SessionStateUnconfirmed SessionState = "UNCONFIRMED"
	SessionStateConfirmed   SessionState = "CONFIRMED"
	SessionStateNormalized  SessionState = "NORMALIZED"
)

// CanTransitionTo reports whether the state machine permits moving to next.
// The sequence is strictly Unconfirmed -> Confirmed -> Normalized, except
// that a confirmed mapping may be re-confirmed (edited) before processing.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	switch s {
	case SessionStateUnconfirmed:
		return next == SessionStateConfirmed
	case SessionStateConfirmed:
		return next == SessionStateConfirmed || next == SessionStateNormalized
	default:
		return false
	}
}

// IngestionSession holds one parsed upload between auto-detection and final
// normalization. Sessions are immutable values; transitions return copies.
type IngestionSession struct {
	ID        uuid.UUID          `json:"id"`
	FileName  string             `json:"fileName"`
	State     SessionState       `json:"state"`
	Headers   []string           `json:"headers"`
	Records   []RawRecord        `json:"-"`
	Proposed  ColumnMapping      `json:"proposedMapping"`
	Confirmed ColumnMapping      `json:"confirmedMapping"`
	Overrides VariationOverrides `json:"-"`
	CreatedAt time.Time          `json:"createdAt"`
}

// NewIngestionSession creates an unconfirmed session for one parsed upload.
func NewIngestionSession(fileName string, headers []string, records []RawRecord, proposed ColumnMapping) IngestionSession {
	return IngestionSession{
		ID:        uuid.New(),
		FileName:  fileName,
		State:     SessionStateUnconfirmed,
		Headers:   headers,
		Records:   records,
		Proposed:  proposed,
		CreatedAt: time.Now(),
	}
}

// WithConfirmedMapping transitions the session to Confirmed with the
// caller's mapping and overrides. The mapping must be valid for the
// session's headers.
func (s IngestionSession) WithConfirmedMapping(mapping ColumnMapping, overrides VariationOverrides) (IngestionSession, error) {
	if !s.State.CanTransitionTo(SessionStateConfirmed) {
		return s, fmt.Errorf("session %s cannot be confirmed from state %s", s.ID, s.State)
	}
	if err := mapping.Validate(s.Headers); err != nil {
		return s, err
	}

	next := s
	next.State = SessionStateConfirmed
	next.Confirmed = mapping
	next.Overrides = overrides
	return next, nil
}

// MarkNormalized transitions a confirmed session to its terminal state.
func (s IngestionSession) MarkNormalized() (IngestionSession, error) {
	if !s.State.CanTransitionTo(SessionStateNormalized) {
		return s, fmt.Errorf("session %s cannot be processed from state %s", s.ID, s.State)
	}

	next := s
	next.State = SessionStateNormalized
	return next, nil
}
