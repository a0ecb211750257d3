package negotiation

// #region imports
import (
	"fmt"
)

// #endregion

// #region check-result

// CheckResult is the outcome of structural validation on one negotiation.
type CheckResult struct {
	NegotiationID string
	Passed        bool
	Problems      []string
}

// #endregion

// #region validate

// Validate runs structural invariant checks against a negotiation: round
// numbering, terms shape, party alternation, and phase/response
// consistency. It is run after every mutation in replay audits and is cheap
// enough to run inline in tests.
func Validate(n *Negotiation) CheckResult {
	res := CheckResult{NegotiationID: n.ID, Passed: true}
	fail := func(format string, args ...any) {
		res.Passed = false
		res.Problems = append(res.Problems, fmt.Sprintf(format, args...))
	}

	if n.ID == "" {
		fail("missing negotiation id")
	}
	if len(n.Rounds) == 0 {
		fail("negotiation has no rounds")
	}
	if n.CurrentRound != len(n.Rounds) {
		fail("current round %d does not match %d stored rounds", n.CurrentRound, len(n.Rounds))
	}
	if n.MaxRounds > 0 && len(n.Rounds) > n.MaxRounds {
		fail("%d rounds exceed the %d round limit", len(n.Rounds), n.MaxRounds)
	}

	for i, r := range n.Rounds {
		if r.Number != i+1 {
			fail("round at index %d numbered %d", i, r.Number)
		}
		if err := checkTerms(n.Kind, r.Terms); err != nil {
			fail("round %d: %v", r.Number, err)
		}
		if i > 0 && r.OfferedBy == n.Rounds[i-1].OfferedBy {
			fail("round %d repeats offering party %s", r.Number, r.OfferedBy)
		}
		if !r.RespondedAt.IsZero() && r.RespondedAt.Before(r.OfferedAt) {
			fail("round %d responded before it was offered", r.Number)
		}
		// An ultimatum ends the exchange: at most one reply round follows
		// it, and neither side may answer it with a counter.
		if r.IsUltimatum {
			if r.Response == ResponseCounter {
				fail("round %d counters an ultimatum", r.Number)
			}
			if i < len(n.Rounds)-2 {
				fail("negotiation continued past the reply to ultimatum round %d", r.Number)
			}
			if i == len(n.Rounds)-2 && n.Rounds[i+1].Response == ResponseCounter {
				fail("round %d counters an ultimatum", n.Rounds[i+1].Number)
			}
		}
	}

	if last := n.LatestRound(); last != nil {
		switch n.Phase {
		case PhaseCompleted:
			if last.Response != ResponseAccept {
				fail("completed negotiation whose last response is %q", last.Response)
			}
		case PhaseFailed:
			if last.Response == ResponseAccept {
				fail("failed negotiation whose last response is accept")
			}
		}
	}

	return res
}

// checkTerms verifies exactly the variant matching the kind is set and its
// figures are plausible.
func checkTerms(kind Kind, t Terms) error {
	if t.Kind != kind {
		return fmt.Errorf("terms kind %q under a %q negotiation", t.Kind, kind)
	}
	set := 0
	if t.Manufacturer != nil {
		set++
	}
	if t.Driver != nil {
		set++
	}
	if t.Staff != nil {
		set++
	}
	if t.Sponsor != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%d terms variants set", set)
	}

	switch kind {
	case KindManufacturer:
		if t.Manufacturer == nil {
			return fmt.Errorf("manufacturer terms missing")
		}
		if t.Manufacturer.AnnualCost < 0 || t.Manufacturer.DurationYears < 1 {
			return fmt.Errorf("implausible engine terms")
		}
	case KindDriver:
		if t.Driver == nil {
			return fmt.Errorf("driver terms missing")
		}
		if t.Driver.Salary < 0 || t.Driver.DurationYears < 1 {
			return fmt.Errorf("implausible seat terms")
		}
	case KindStaff:
		if t.Staff == nil {
			return fmt.Errorf("staff terms missing")
		}
		if t.Staff.Salary < 0 || t.Staff.DurationYears < 1 {
			return fmt.Errorf("implausible staff terms")
		}
	case KindSponsor:
		if t.Sponsor == nil {
			return fmt.Errorf("sponsor terms missing")
		}
		if t.Sponsor.MonthlyPayment < 0 || t.Sponsor.SigningBonus < 0 {
			return fmt.Errorf("implausible sponsorship terms")
		}
	}
	return nil
}

// #endregion
