package negotiation

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/game"
)

// #region fixtures

type decisionRecorder struct {
	entries []DecisionEntry
}

func (r *decisionRecorder) Record(e DecisionEntry) {
	r.entries = append(r.entries, e)
}

func processorState(t *testing.T, date time.Time) *game.State {
	t.Helper()
	st, err := game.NewState(&game.State{
		Date:         date,
		PlayerTeamID: "kestrel",
		Teams: []*game.Team{
			{ID: "kestrel", Name: "Kestrel Racing", Budget: 145_000_000},
		},
		Drivers: []*game.Driver{
			{ID: "d1", Name: "Rafael Barros", DesperationMultiplier: 0.8},
			{ID: "r1", Name: "Elise Fontaine", TeamID: "kestrel", ContractEndSeason: 2033, DesperationMultiplier: 0.9},
		},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

func seatNegotiation(offered float64, offeredAt time.Time) *Negotiation {
	n := &Negotiation{
		ID:             "n-drv",
		Kind:           KindDriver,
		TeamID:         "kestrel",
		CounterpartyID: "d1",
		TargetSeason:   2032,
		Phase:          PhaseAwaitingResponse,
		MaxRounds:      10,
	}
	n.AppendRound(Round{
		OfferedBy: PartyPlayer,
		Terms:     Terms{Kind: KindDriver, Driver: &DriverTerms{Salary: offered, DurationYears: 2}},
		OfferedAt: offeredAt,
		ExpiresAt: offeredAt.AddDate(0, 0, 30),
	})
	return n
}

func testProcessor(sink DecisionSink) *Processor {
	return NewProcessor(zerolog.Nop(), DefaultTuning(), NewStateFinalizer(), sink)
}

type failingFinalizer struct{}

func (failingFinalizer) Finalize(*game.State, *Negotiation, Terms) error {
	return errors.New("contract table rejected the deal")
}

// #endregion

// #region tests

func TestProcessDaySkipsBeforeDue(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	// Offered today, answer due tomorrow.
	list := &List{}
	list.Add(seatNegotiation(3_000_000, date))

	res := testProcessor(nil).ProcessDay(st, list)
	if len(res.Updates) != 0 {
		t.Fatalf("updates = %d, want 0 before the due date", len(res.Updates))
	}
	if got := list.Items[0].Rounds[0].Response; got != "" {
		t.Errorf("round response = %q, want unanswered", got)
	}
	if list.Items[0].Phase != PhaseAwaitingResponse {
		t.Errorf("phase = %q, want unchanged", list.Items[0].Phase)
	}
}

func TestProcessDayAcceptFinalizes(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	// Lone rookie on the grid: market salary 2M, ask 2.4M. A 3M offer made
	// yesterday clears the ask and is due today.
	sink := &decisionRecorder{}
	list := &List{}
	list.Add(seatNegotiation(3_000_000, date.AddDate(0, 0, -1)))

	res := testProcessor(sink).ProcessDay(st, list)
	if len(res.Updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(res.Updates))
	}
	n := list.Items[0]
	if n.Phase != PhaseCompleted {
		t.Fatalf("phase = %q, want %q", n.Phase, PhaseCompleted)
	}

	d := st.Driver("d1")
	if d.TeamID != "kestrel" {
		t.Errorf("driver team = %q, want kestrel after finalize", d.TeamID)
	}
	if d.Salary != 3_000_000 {
		t.Errorf("driver salary = %f, want 3000000", d.Salary)
	}
	if d.ContractEndSeason != 2033 {
		t.Errorf("contract end = %d, want 2033", d.ContractEndSeason)
	}

	if got := st.Relationship("kestrel", "d1"); got != 53 {
		t.Errorf("relationship = %f, want 53 after accept bonus", got)
	}
	if len(sink.entries) != 1 || sink.entries[0].Response != ResponseAccept {
		t.Errorf("decision log = %+v, want one accept entry", sink.entries)
	}

	// A signing is newsworthy, and newsworthy player events pause the sim.
	if len(res.Notifications) != 1 || !res.Notifications[0].Critical {
		t.Errorf("notifications = %+v, want one critical entry", res.Notifications)
	}
	if !res.StopSimulation {
		t.Error("StopSimulation = false, want true")
	}
}

func TestProcessDayCounterAppendsRound(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	list := &List{}
	list.Add(seatNegotiation(2_000_000, date.AddDate(0, 0, -1)))

	testProcessor(nil).ProcessDay(st, list)
	n := list.Items[0]
	if n.Phase != PhaseResponseReceived {
		t.Fatalf("phase = %q, want %q", n.Phase, PhaseResponseReceived)
	}
	if len(n.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(n.Rounds))
	}

	counter := n.Rounds[1]
	if counter.OfferedBy != PartyCounterparty {
		t.Errorf("counter offered by %q, want counterparty", counter.OfferedBy)
	}
	if counter.Number != 2 {
		t.Errorf("counter number = %d, want 2", counter.Number)
	}
	if got := counter.Terms.Driver.Salary; !almostEqual(got, 2_400_000) {
		t.Errorf("counter salary = %f, want the 2400000 ask", got)
	}
	wantExpiry := date.AddDate(0, 0, DefaultDriverTuning().CounterExpiryDays)
	if !counter.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("counter expires %v, want %v", counter.ExpiresAt, wantExpiry)
	}
}

func TestProcessDayExpiredOffer(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	n := seatNegotiation(3_000_000, date.AddDate(0, 0, -40))
	n.Rounds[0].ExpiresAt = date.AddDate(0, 0, -1)
	list := &List{}
	list.Add(n)

	res := testProcessor(nil).ProcessDay(st, list)
	if n.Phase != PhaseFailed {
		t.Fatalf("phase = %q, want %q after expiry", n.Phase, PhaseFailed)
	}
	if len(res.Updates) != 1 {
		t.Errorf("updates = %d, want 1", len(res.Updates))
	}
}

func TestProcessDayRoundsExhausted(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	// A counter would be round 2, but the cap is 1: talks collapse instead.
	n := seatNegotiation(2_000_000, date.AddDate(0, 0, -1))
	n.MaxRounds = 1
	list := &List{}
	list.Add(n)

	testProcessor(nil).ProcessDay(st, list)
	if n.Phase != PhaseFailed {
		t.Fatalf("phase = %q, want %q at the round cap", n.Phase, PhaseFailed)
	}
	if len(n.Rounds) != 1 {
		t.Errorf("rounds = %d, want no appended counter", len(n.Rounds))
	}
}

func TestProcessDayContainsFailures(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	broken := seatNegotiation(3_000_000, date.AddDate(0, 0, -1))
	broken.ID = "n-broken"
	broken.CounterpartyID = "no-such-driver"

	healthy := seatNegotiation(3_000_000, date.AddDate(0, 0, -1))

	list := &List{}
	list.Add(broken)
	list.Add(healthy)

	res := testProcessor(nil).ProcessDay(st, list)
	if len(res.Updates) != 1 {
		t.Fatalf("updates = %d, want the healthy negotiation processed", len(res.Updates))
	}
	if res.Updates[0].NegotiationID != "n-drv" {
		t.Errorf("processed %q, want n-drv", res.Updates[0].NegotiationID)
	}
	if healthy.Phase != PhaseCompleted {
		t.Errorf("healthy phase = %q, want %q", healthy.Phase, PhaseCompleted)
	}
}

func TestProcessDayAcceptStaysOpenWhenFinalizeFails(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	st := processorState(t, date)

	// Offer well above the ask, due today.
	n := seatNegotiation(3_000_000, date.AddDate(0, 0, -1))
	list := &List{}
	list.Add(n)

	p := NewProcessor(zerolog.Nop(), DefaultTuning(), failingFinalizer{}, nil)
	res := p.ProcessDay(st, list)

	if len(res.Updates) != 0 {
		t.Fatalf("updates = %d, want none when the contract cannot be committed", len(res.Updates))
	}
	if n.Phase == PhaseCompleted {
		t.Error("phase = completed with no contract behind it")
	}
	if d := st.Driver("d1"); d.TeamID != "" {
		t.Errorf("driver team = %q, want still unsigned", d.TeamID)
	}
}

func TestMarketSalaryIgnoresFreeAgents(t *testing.T) {
	date := time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)
	contracted := []*game.Driver{
		{ID: "weak", Name: "Ren Sato", TeamID: "kestrel", ContractEndSeason: 2032, DesperationMultiplier: 0.8,
			Career: []game.SeasonResult{{Season: 2030, Points: 10, TeamPoints: 200, Races: 22, Position: 17}}},
		{ID: "mid", Name: "Maja Lindqvist", TeamID: "kestrel", ContractEndSeason: 2032, DesperationMultiplier: 0.8,
			Career: []game.SeasonResult{{Season: 2030, Points: 100, TeamPoints: 200, Races: 22, Position: 6, Podiums: 1}}},
		{ID: "strong", Name: "Deji Okafor", TeamID: "kestrel", ContractEndSeason: 2032, DesperationMultiplier: 0.8,
			Career: []game.SeasonResult{{Season: 2030, Points: 180, TeamPoints: 200, Races: 22, Position: 2, Podiums: 8, Wins: 3}}},
	}
	freeAgents := []*game.Driver{
		{ID: "fa1", Name: "Thiago Barros", DesperationMultiplier: 0.7},
		{ID: "fa2", Name: "Carla Moretti", DesperationMultiplier: 0.7},
	}

	gridOnly, err := game.NewState(&game.State{
		Date:         date,
		PlayerTeamID: "kestrel",
		Teams:        []*game.Team{{ID: "kestrel", Name: "Kestrel Racing", Budget: 145_000_000}},
		Drivers:      contracted,
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	withFreeAgents, err := game.NewState(&game.State{
		Date:         date,
		PlayerTeamID: "kestrel",
		Teams:        []*game.Team{{ID: "kestrel", Name: "Kestrel Racing", Budget: 145_000_000}},
		Drivers:      append(append([]*game.Driver{}, contracted...), freeAgents...),
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	// Free agents sit outside the reference pool, so the market target for a
	// seated driver does not move when they appear.
	for _, d := range contracted {
		got := MarketSalary(withFreeAgents, d)
		want := MarketSalary(gridOnly, d)
		if got != want {
			t.Errorf("MarketSalary(%s) = %f with free agents on the market, want %f", d.ID, got, want)
		}
	}
}

// #endregion
