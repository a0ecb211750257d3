package store

// #region imports
import (
	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/negotiation"
)

// #endregion

// #region sink

// DecisionSink adapts the store to the processor's sink interface. Write
// failures are logged, never propagated: the audit log must not break a day
// tick.
type DecisionSink struct {
	store *Store
	log   zerolog.Logger
}

// NewDecisionSink wraps a store as a decision sink.
func NewDecisionSink(s *Store, log zerolog.Logger) *DecisionSink {
	return &DecisionSink{store: s, log: log.With().Str("component", "decision-log").Logger()}
}

// Record persists one decision entry.
func (d *DecisionSink) Record(e negotiation.DecisionEntry) {
	if err := d.store.RecordDecision(e); err != nil {
		d.log.Error().Err(err).
			Str("negotiation_id", e.NegotiationID).
			Int("round", e.Round).
			Msg("decision log write failed")
	}
}

// #endregion
