package negotiation

// #region imports
import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/market"
)

// #endregion

// #region interfaces

// ContractFinalizer commits an accepted deal into shared state. The
// processor never mutates contract tables itself.
type ContractFinalizer interface {
	Finalize(st *game.State, n *Negotiation, terms Terms) error
}

// DecisionEntry is one evaluator decision, recorded for audit and replay.
type DecisionEntry struct {
	Time              time.Time
	NegotiationID     string
	Kind              Kind
	Round             int
	Response          ResponseType
	Tone              Tone
	Reason            string
	RelationshipDelta float64
}

// DecisionSink records evaluator decisions. Implementations must not fail
// the tick: persistence errors are theirs to surface.
type DecisionSink interface {
	Record(e DecisionEntry)
}

// #endregion

// #region processor

// TickResult is everything one day of processing produced.
type TickResult struct {
	Updates        []Update
	Notifications  []Notification
	StopSimulation bool
}

// Processor advances every active negotiation by one calendar day. It holds
// no per-day state: evaluation is pure, so re-running a day against the same
// inputs yields the same batch.
type Processor struct {
	log       zerolog.Logger
	tuning    Tuning
	finalizer ContractFinalizer
	decisions DecisionSink
}

// NewProcessor creates a day-batch processor.
func NewProcessor(log zerolog.Logger, tuning Tuning, finalizer ContractFinalizer, decisions DecisionSink) *Processor {
	return &Processor{
		log:       log.With().Str("component", "negotiation").Logger(),
		tuning:    tuning,
		finalizer: finalizer,
		decisions: decisions,
	}
}

// ProcessDay runs one day for every non-terminal negotiation, in insertion
// order. A failure inside one negotiation is logged and contained: the rest
// of the batch still runs.
func (p *Processor) ProcessDay(st *game.State, list *List) TickResult {
	var res TickResult
	for _, n := range list.Items {
		if n.Phase.Terminal() {
			continue
		}
		update, notes, err := p.processOne(st, n)
		if err != nil {
			p.log.Error().Err(err).
				Str("negotiation_id", n.ID).
				Str("kind", string(n.Kind)).
				Msg("negotiation processing failed")
			continue
		}
		if update != nil {
			res.Updates = append(res.Updates, *update)
			if update.ShouldStopSimulation {
				res.StopSimulation = true
			}
		}
		res.Notifications = append(res.Notifications, notes...)
	}
	return res
}

// #endregion

// #region single-negotiation

func (p *Processor) processOne(st *game.State, n *Negotiation) (*Update, []Notification, error) {
	round := n.LatestRound()
	if round == nil {
		return nil, nil, fmt.Errorf("negotiation %s has no rounds", n.ID)
	}

	// An offer nobody answered in time kills the negotiation, whichever side
	// it was waiting on.
	if !round.ExpiresAt.IsZero() && st.Date.After(round.ExpiresAt) {
		n.Phase = PhaseFailed
		p.log.Info().
			Str("negotiation_id", n.ID).
			Str("kind", string(n.Kind)).
			Int("round", round.Number).
			Msg("offer expired")
		note := p.notify(st, n, fmt.Sprintf("%s negotiation lapsed", n.Kind),
			fmt.Sprintf("The offer in round %d expired unanswered.", round.Number), false)
		return &Update{NegotiationID: n.ID, Negotiation: n}, note, nil
	}

	// Only negotiations waiting on the counterparty advance here; the player
	// moves through the API, not the day tick.
	if n.Phase != PhaseAwaitingResponse {
		return nil, nil, nil
	}

	result, err := p.evaluate(st, n)
	if err != nil {
		return nil, nil, err
	}

	if st.Date.Before(p.dueDate(n, result.DelayDays)) {
		return nil, nil, nil
	}

	return p.apply(st, n, result)
}

// dueDate is when the counterparty's answer lands. A need-time pause restarts
// the clock from the moment the pause was recorded.
func (p *Processor) dueDate(n *Negotiation, delayDays int) time.Time {
	round := n.LatestRound()
	if round.Response == ResponseNeedTime && !round.RespondedAt.IsZero() {
		return round.RespondedAt.AddDate(0, 0, delayDays)
	}
	return round.OfferedAt.AddDate(0, 0, delayDays)
}

// #endregion

// #region evaluate-dispatch

func (p *Processor) evaluate(st *game.State, n *Negotiation) (Result, error) {
	rel := st.Relationship(n.TeamID, n.CounterpartyID)
	switch n.Kind {
	case KindManufacturer:
		m := st.Manufacturer(n.CounterpartyID)
		team := st.Team(n.TeamID)
		if m == nil || team == nil {
			return Result{}, fmt.Errorf("manufacturer negotiation %s references unknown parties", n.ID)
		}
		return EvaluateManufacturer(ManufacturerContext{
			Negotiation:     n,
			Manufacturer:    m,
			Team:            team,
			AllTeams:        st.Teams,
			ActiveContracts: st.EngineContracts,
			SecuredTeamIDs:  st.SecuredTeamIDs(n.TargetSeason),
			Relationship:    rel,
			CurrentSeason:   st.Season(),
			Tuning:          p.tuning.Manufacturer,
		}), nil

	case KindDriver:
		d := st.Driver(n.CounterpartyID)
		if d == nil {
			return Result{}, fmt.Errorf("driver negotiation %s references unknown driver", n.ID)
		}
		return EvaluateDriver(DriverContext{
			Negotiation:  n,
			Driver:       d,
			MarketSalary: p.marketSalary(st, d),
			Relationship: rel,
			Tuning:       p.tuning.Driver,
		}), nil

	case KindStaff:
		c := st.Chief(n.CounterpartyID)
		if c == nil {
			return Result{}, fmt.Errorf("staff negotiation %s references unknown chief", n.ID)
		}
		employed := c.TeamID != "" && c.TeamID != n.TeamID && c.ContractEndSeason >= n.TargetSeason
		return EvaluateStaff(StaffContext{
			Negotiation:  n,
			Chief:        c,
			Employed:     employed,
			Relationship: rel,
			Tuning:       p.tuning.Staff,
		}), nil

	case KindSponsor:
		sp := st.Sponsor(n.CounterpartyID)
		if sp == nil {
			return Result{}, fmt.Errorf("sponsor negotiation %s references unknown sponsor", n.ID)
		}
		return EvaluateSponsor(SponsorContext{
			Negotiation:  n,
			Sponsor:      sp,
			Standings:    st.Standings,
			TeamCount:    len(st.Teams),
			Relationship: rel,
			Tuning:       p.tuning.Sponsor,
		}), nil
	}
	return Result{}, fmt.Errorf("negotiation %s has unknown kind %q", n.ID, n.Kind)
}

// marketSalary places a driver on the grid's perceived-value curve and maps
// the percentile to money.
func (p *Processor) marketSalary(st *game.State, d *game.Driver) float64 {
	return MarketSalary(st, d)
}

// MarketSalary is the percentile-matched annual salary for a driver against
// the current grid. Outreach uses it to shape opening asks; the processor
// uses it to anchor seat evaluations. The reference pool is the drivers
// holding a seat; free agents do not set the market.
func MarketSalary(st *game.State, d *game.Driver) float64 {
	values := make([]float64, 0, len(st.Drivers))
	for _, other := range st.Drivers {
		if other.TeamID == "" {
			continue
		}
		values = append(values, DriverPerceivedValue(other.Career))
	}
	pct := market.Percentile(values, DriverPerceivedValue(d.Career))
	return market.SalaryForPercentile(pct)
}

// #endregion

// #region apply

func (p *Processor) apply(st *game.State, n *Negotiation, r Result) (*Update, []Notification, error) {
	round := n.LatestRound()
	round.Response = r.Response
	round.Tone = r.Tone
	round.RespondedAt = st.Date

	if r.RelationshipDelta != 0 {
		st.AdjustRelationship(n.TeamID, n.CounterpartyID, r.RelationshipDelta)
	}
	if p.decisions != nil {
		p.decisions.Record(DecisionEntry{
			Time:              st.Date,
			NegotiationID:     n.ID,
			Kind:              n.Kind,
			Round:             round.Number,
			Response:          r.Response,
			Tone:              r.Tone,
			Reason:            r.Reason,
			RelationshipDelta: r.RelationshipDelta,
		})
	}
	p.log.Info().
		Str("negotiation_id", n.ID).
		Str("kind", string(n.Kind)).
		Int("round", round.Number).
		Str("response", string(r.Response)).
		Str("tone", string(r.Tone)).
		Msg(r.Reason)

	var notes []Notification
	switch r.Response {
	case ResponseAccept:
		// The phase flips only once the contract is committed. A finalizer
		// failure leaves the negotiation open rather than completed with no
		// contract behind it.
		if p.finalizer != nil {
			if err := p.finalizer.Finalize(st, n, round.Terms); err != nil {
				return nil, nil, fmt.Errorf("finalize %s: %w", n.ID, err)
			}
		}
		n.Phase = PhaseCompleted
		notes = p.notify(st, n, fmt.Sprintf("%s deal agreed", n.Kind),
			fmt.Sprintf("Terms accepted in round %d.", round.Number), r.Newsworthy)

	case ResponseReject:
		n.Phase = PhaseFailed
		notes = p.notify(st, n, fmt.Sprintf("%s negotiation failed", n.Kind),
			r.Reason, false)

	case ResponseNeedTime:
		// Phase unchanged: the same offer stays on the table and the clock
		// restarts from this pause.
		notes = p.notify(st, n, fmt.Sprintf("%s needs time", n.Kind),
			r.Reason, false)

	case ResponseCounter:
		if r.CounterTerms == nil {
			return nil, nil, fmt.Errorf("counter without terms in %s", n.ID)
		}
		if n.MaxRounds > 0 && len(n.Rounds) >= n.MaxRounds {
			n.Phase = PhaseFailed
			notes = p.notify(st, n, fmt.Sprintf("%s negotiation collapsed", n.Kind),
				"Talks ran out of rounds without agreement.", false)
			break
		}
		expiry := p.counterExpiryDays(n.Kind)
		n.AppendRound(Round{
			OfferedBy:   PartyCounterparty,
			Terms:       *r.CounterTerms,
			OfferedAt:   st.Date,
			ExpiresAt:   st.Date.AddDate(0, 0, expiry),
			IsUltimatum: r.IsUltimatum,
		})
		n.Phase = PhaseResponseReceived
		subject := fmt.Sprintf("%s countered", n.Kind)
		if r.IsUltimatum {
			subject = fmt.Sprintf("%s final offer", n.Kind)
		}
		notes = p.notify(st, n, subject, r.Reason, r.IsUltimatum)
	}

	update := &Update{NegotiationID: n.ID, Negotiation: n}
	for _, note := range notes {
		if note.Critical {
			update.ShouldStopSimulation = true
		}
	}
	return update, notes, nil
}

func (p *Processor) counterExpiryDays(k Kind) int {
	switch k {
	case KindManufacturer:
		return p.tuning.Manufacturer.CounterExpiryDays
	case KindDriver:
		return p.tuning.Driver.CounterExpiryDays
	case KindStaff:
		return p.tuning.Staff.CounterExpiryDays
	default:
		return p.tuning.Sponsor.CounterExpiryDays
	}
}

// notify emits a player-facing notification when the player's team is at the
// table. AI-vs-AI negotiations stay silent.
func (p *Processor) notify(st *game.State, n *Negotiation, subject, body string, critical bool) []Notification {
	if n.TeamID != st.PlayerTeamID {
		return nil
	}
	return []Notification{{
		Date:     st.Date,
		Subject:  subject,
		Body:     body,
		Critical: critical,
	}}
}

// #endregion
