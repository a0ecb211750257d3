package negotiation

import (
	"strings"
	"testing"
	"time"
)

func validNegotiation() *Negotiation {
	n := &Negotiation{
		ID:             "n-ok",
		Kind:           KindDriver,
		TeamID:         "team",
		CounterpartyID: "d1",
		TargetSeason:   2032,
		Phase:          PhaseAwaitingResponse,
		MaxRounds:      10,
	}
	offered := time.Date(2031, time.July, 1, 0, 0, 0, 0, time.UTC)
	n.AppendRound(Round{
		OfferedBy: PartyPlayer,
		Terms:     Terms{Kind: KindDriver, Driver: &DriverTerms{Salary: 5_000_000, DurationYears: 2}},
		OfferedAt: offered,
	})
	n.AppendRound(Round{
		OfferedBy:   PartyCounterparty,
		Terms:       Terms{Kind: KindDriver, Driver: &DriverTerms{Salary: 6_000_000, DurationYears: 2}},
		OfferedAt:   offered.AddDate(0, 0, 2),
		RespondedAt: offered.AddDate(0, 0, 4),
	})
	return n
}

func TestValidatePasses(t *testing.T) {
	res := Validate(validNegotiation())
	if !res.Passed {
		t.Fatalf("Passed = false, problems: %v", res.Problems)
	}
}

func TestValidateCatchesProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *Negotiation)
		want   string
	}{
		{
			"round counter drift",
			func(n *Negotiation) { n.CurrentRound = 5 },
			"does not match",
		},
		{
			"bad numbering",
			func(n *Negotiation) { n.Rounds[1].Number = 7 },
			"numbered",
		},
		{
			"same party twice",
			func(n *Negotiation) { n.Rounds[1].OfferedBy = PartyPlayer },
			"repeats offering party",
		},
		{
			"wrong terms variant",
			func(n *Negotiation) {
				n.Rounds[1].Terms = Terms{Kind: KindDriver, Driver: &DriverTerms{Salary: 6_000_000, DurationYears: 2}, Staff: &StaffTerms{Salary: 1, DurationYears: 1}}
			},
			"variants set",
		},
		{
			"implausible terms",
			func(n *Negotiation) { n.Rounds[1].Terms.Driver.DurationYears = 0 },
			"implausible",
		},
		{
			"response precedes offer",
			func(n *Negotiation) { n.Rounds[1].RespondedAt = n.Rounds[1].OfferedAt.AddDate(0, 0, -1) },
			"responded before",
		},
		{
			"completed without accept",
			func(n *Negotiation) { n.Phase = PhaseCompleted },
			"completed negotiation",
		},
		{
			"failed with accept",
			func(n *Negotiation) {
				n.Phase = PhaseFailed
				n.Rounds[1].Response = ResponseAccept
			},
			"failed negotiation",
		},
		{
			"countered an ultimatum",
			func(n *Negotiation) {
				n.Rounds[0].IsUltimatum = true
				n.Rounds[1].Response = ResponseCounter
			},
			"counters an ultimatum",
		},
		{
			"continued past an ultimatum",
			func(n *Negotiation) {
				n.Rounds[0].IsUltimatum = true
				n.AppendRound(Round{
					OfferedBy: PartyPlayer,
					Terms:     Terms{Kind: KindDriver, Driver: &DriverTerms{Salary: 5_500_000, DurationYears: 2}},
					OfferedAt: n.Rounds[1].OfferedAt.AddDate(0, 0, 2),
				})
			},
			"continued past",
		},
		{
			"too many rounds",
			func(n *Negotiation) { n.MaxRounds = 1 },
			"exceed",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := validNegotiation()
			tc.mutate(n)
			res := Validate(n)
			if res.Passed {
				t.Fatal("Passed = true, want a reported problem")
			}
			found := false
			for _, p := range res.Problems {
				if strings.Contains(p, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("problems %v, want one containing %q", res.Problems, tc.want)
			}
		})
	}
}

func TestValidateEmptyNegotiation(t *testing.T) {
	res := Validate(&Negotiation{})
	if res.Passed {
		t.Fatal("Passed = true for an empty negotiation")
	}
	if len(res.Problems) < 2 {
		t.Errorf("problems = %v, want missing id and missing rounds both reported", res.Problems)
	}
}
