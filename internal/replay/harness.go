package replay

// #region imports
import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/negotiation"
	"github.com/apexsim/paddock/internal/outreach"
)

// #endregion

// #region types

// Outcome records where one negotiation ended after a replay run.
type Outcome struct {
	NegotiationID  string
	Kind           negotiation.Kind
	CounterpartyID string
	Phase          negotiation.Phase
	Rounds         int
}

// Summary is the aggregate result of a replay run.
type Summary struct {
	Days          int
	Completed     int
	Failed        int
	StillActive   int
	Notifications int
	Outcomes      []Outcome
	Mismatches    []string
	Invalid       []negotiation.CheckResult
}

// Passed reports whether the run reproduced every expectation and every
// negotiation validated cleanly.
func (s Summary) Passed() bool {
	return len(s.Mismatches) == 0 && len(s.Invalid) == 0
}

// #endregion types

// #region harness

// Run replays a fixture: one day at a time, outreach first, then scripted
// player moves, then the negotiation batch. Entirely in-memory and
// deterministic for a given fixture.
func Run(f *Fixture, tuning negotiation.Tuning, log zerolog.Logger) (Summary, error) {
	st, err := f.ToState()
	if err != nil {
		return Summary{}, err
	}
	start := st.Date

	list := &negotiation.List{}
	scheduler := outreach.NewScheduler(log, outreach.DefaultConfig(), tuning)
	processor := negotiation.NewProcessor(log, tuning, negotiation.NewStateFinalizer(), nil)

	notifications := 0
	for day := 0; day < f.Days; day++ {
		st.Date = start.AddDate(0, 0, day)
		notifications += len(scheduler.Run(st, list))
		applyMoves(st, list, f.PlayerMoves, day, tuning)
		tick := processor.ProcessDay(st, list)
		notifications += len(tick.Notifications)
	}

	return summarize(f, list, notifications), nil
}

// applyMoves plays every scripted move scheduled for the given day offset.
// A move targeting a negotiation that is not waiting on the player is a
// scripting error and is skipped.
func applyMoves(st *game.State, list *negotiation.List, moves []FixturePlayerMove, day int, tuning negotiation.Tuning) {
	for _, mv := range moves {
		if mv.Day != day {
			continue
		}
		n := list.FindActive(negotiation.Kind(mv.Kind), st.PlayerTeamID, mv.CounterpartyID, game.SeasonOf(st.Date)+1)
		if n == nil || n.Phase != negotiation.PhaseResponseReceived {
			continue
		}
		n.AppendRound(negotiation.Round{
			OfferedBy:   negotiation.PartyPlayer,
			Terms:       mv.Terms,
			OfferedAt:   st.Date,
			ExpiresAt:   st.Date.AddDate(0, 0, playerOfferExpiryDays(n.Kind, tuning)),
			IsUltimatum: mv.IsUltimatum,
		})
		n.Phase = negotiation.PhaseAwaitingResponse
	}
}

func playerOfferExpiryDays(k negotiation.Kind, t negotiation.Tuning) int {
	switch k {
	case negotiation.KindManufacturer:
		return t.Manufacturer.CounterExpiryDays
	case negotiation.KindDriver:
		return t.Driver.CounterExpiryDays
	case negotiation.KindStaff:
		return t.Staff.CounterExpiryDays
	default:
		return t.Sponsor.CounterExpiryDays
	}
}

func summarize(f *Fixture, list *negotiation.List, notifications int) Summary {
	s := Summary{Days: f.Days, Notifications: notifications}
	for _, n := range list.Items {
		s.Outcomes = append(s.Outcomes, Outcome{
			NegotiationID:  n.ID,
			Kind:           n.Kind,
			CounterpartyID: n.CounterpartyID,
			Phase:          n.Phase,
			Rounds:         len(n.Rounds),
		})
		switch n.Phase {
		case negotiation.PhaseCompleted:
			s.Completed++
		case negotiation.PhaseFailed:
			s.Failed++
		default:
			s.StillActive++
		}
		if check := negotiation.Validate(n); !check.Passed {
			s.Invalid = append(s.Invalid, check)
		}
	}

	for _, exp := range f.Expected {
		s.Mismatches = append(s.Mismatches, checkExpected(exp, list)...)
	}
	return s
}

func checkExpected(exp FixtureExpected, list *negotiation.List) []string {
	for _, n := range list.Items {
		if string(n.Kind) != exp.Kind || n.CounterpartyID != exp.CounterpartyID {
			continue
		}
		var bad []string
		if exp.Phase != "" && string(n.Phase) != exp.Phase {
			bad = append(bad, fmt.Sprintf("%s/%s: phase %s, expected %s",
				exp.Kind, exp.CounterpartyID, n.Phase, exp.Phase))
		}
		if exp.MinRounds > 0 && len(n.Rounds) < exp.MinRounds {
			bad = append(bad, fmt.Sprintf("%s/%s: %d rounds, expected at least %d",
				exp.Kind, exp.CounterpartyID, len(n.Rounds), exp.MinRounds))
		}
		return bad
	}
	return []string{fmt.Sprintf("%s/%s: no negotiation created", exp.Kind, exp.CounterpartyID)}
}

// #endregion harness

// #region audit

// Audit validates a persisted negotiation set against structural invariants
// without re-running anything. Used by the DB audit mode of the replay
// command.
func Audit(list *negotiation.List) []negotiation.CheckResult {
	var failed []negotiation.CheckResult
	for _, n := range list.Items {
		if check := negotiation.Validate(n); !check.Passed {
			failed = append(failed, check)
		}
	}
	return failed
}

// #endregion
