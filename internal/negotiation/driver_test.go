package negotiation

import (
	"testing"

	"github.com/apexsim/paddock/internal/game"
)

func seatOffer(by Party, salary float64, ultimatum bool) Round {
	return Round{
		OfferedBy: by,
		Terms: Terms{
			Kind:   KindDriver,
			Driver: &DriverTerms{Salary: salary, DurationYears: 2},
		},
		IsUltimatum: ultimatum,
	}
}

func driverContext(n *Negotiation, d *game.Driver, marketSalary float64) DriverContext {
	return DriverContext{
		Negotiation:  n,
		Driver:       d,
		MarketSalary: marketSalary,
		Relationship: 50,
		Tuning:       DefaultDriverTuning(),
	}
}

func TestEvaluateDriverCommittedToLeave(t *testing.T) {
	d := &game.Driver{ID: "d1", Name: "Maja Lindqvist", DesperationMultiplier: 0.8, CommittedToLeave: true}
	n := buildNegotiation(KindDriver, seatOffer(PartyPlayer, 20_000_000, false))

	res := EvaluateDriver(driverContext(n, d, 10_000_000))
	if res.Response != ResponseReject {
		t.Fatalf("response = %q, want reject for a committed driver", res.Response)
	}
}

func TestEvaluateDriverOpeningOffer(t *testing.T) {
	d := &game.Driver{ID: "d1", Name: "Maja Lindqvist", DesperationMultiplier: 0.8}

	t.Run("above the ask", func(t *testing.T) {
		n := buildNegotiation(KindDriver, seatOffer(PartyPlayer, 13_000_000, false))
		res := EvaluateDriver(driverContext(n, d, 10_000_000))
		if res.Response != ResponseAccept {
			t.Fatalf("response = %q, want accept above the opening ask", res.Response)
		}
	})

	t.Run("at market", func(t *testing.T) {
		n := buildNegotiation(KindDriver, seatOffer(PartyPlayer, 10_000_000, false))
		res := EvaluateDriver(driverContext(n, d, 10_000_000))
		if res.Response != ResponseCounter {
			t.Fatalf("response = %q, want counter at market salary", res.Response)
		}
		if got := res.CounterTerms.Driver.Salary; !almostEqual(got, 12_000_000) {
			t.Errorf("counter salary = %f, want the 12000000 ask", got)
		}
		if got := res.CounterTerms.Driver.SigningBonus; !almostEqual(got, 12_000_000*0.15) {
			t.Errorf("signing bonus = %f, want 15%% of salary", got)
		}
	})
}

func TestEvaluateDriverNeedTime(t *testing.T) {
	d := &game.Driver{ID: "d1", Name: "Maja Lindqvist", DesperationMultiplier: 0.8}

	n := buildNegotiation(KindDriver, seatOffer(PartyPlayer, 9_000_000, false))
	n.HasCompetingOffer = true

	res := EvaluateDriver(driverContext(n, d, 10_000_000))
	if res.Response != ResponseNeedTime {
		t.Fatalf("response = %q, want need-time with a rival offer in hand", res.Response)
	}
	if res.DelayDays != 3 {
		t.Errorf("delay = %d, want 3", res.DelayDays)
	}

	// The pause happens once: with it recorded, the same offer gets a real
	// answer.
	n.Rounds[0].Response = ResponseNeedTime
	res = EvaluateDriver(driverContext(n, d, 10_000_000))
	if res.Response == ResponseNeedTime {
		t.Fatal("driver asked for time twice")
	}
	if res.Response != ResponseCounter {
		t.Fatalf("response = %q, want counter after the pause", res.Response)
	}
}

func TestEvaluateDriverCompetingOfferRaisesFloor(t *testing.T) {
	d := &game.Driver{ID: "d1", Name: "Maja Lindqvist", DesperationMultiplier: 0.8}

	// Answering an ultimatum, the personal floor decides. Without a rival
	// offer the floor is 8M; with one it rises to 11M.
	build := func() *Negotiation {
		return buildNegotiation(KindDriver,
			seatOffer(PartyPlayer, 9_000_000, false),
			seatOffer(PartyCounterparty, 12_000_000, true),
			seatOffer(PartyPlayer, 9_500_000, false),
		)
	}

	n := build()
	res := EvaluateDriver(driverContext(n, d, 10_000_000))
	if res.Response != ResponseAccept {
		t.Fatalf("response = %q, want accept above the personal floor", res.Response)
	}

	n = build()
	n.HasCompetingOffer = true
	n.Rounds[0].Response = ResponseNeedTime
	res = EvaluateDriver(driverContext(n, d, 10_000_000))
	if res.Response != ResponseReject {
		t.Fatalf("response = %q, want reject below the competing-offer floor", res.Response)
	}
}
