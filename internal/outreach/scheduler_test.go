package outreach

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/negotiation"
)

// #region fixtures

func schedulerState(t *testing.T, date time.Time) *game.State {
	t.Helper()
	st, err := game.NewState(&game.State{
		Date:         date,
		PlayerTeamID: "kestrel",
		Teams: []*game.Team{
			{ID: "aurora", Name: "Aurora GP", Budget: 260_000_000},
			{ID: "kestrel", Name: "Kestrel Racing", Budget: 145_000_000},
			{ID: "vulcan", Name: "Vulcan Motorsport", Budget: 95_000_000},
		},
		Manufacturers: []*game.Manufacturer{
			{ID: "mfr-inc", Name: "Helios Power", BaseEngineCost: 10_000_000, UpgradeCost: 1_000_000},
			{ID: "mfr-rival", Name: "Aurora Industrie", WorksTeamID: "aurora", BaseEngineCost: 12_000_000, UpgradeCost: 1_500_000},
		},
		Drivers: []*game.Driver{
			{ID: "d1", Name: "Rafael Barros", TeamID: "aurora", ContractEndSeason: 2031, DesperationMultiplier: 0.8},
		},
		Chiefs: []*game.Chief{
			{ID: "c1", Name: "Rosa Almeida", Role: "technical chief", TeamID: "aurora", Salary: 800_000, ContractEndSeason: 2031},
		},
		Sponsors: []*game.Sponsor{
			{ID: "s-title", Name: "Zenith Group", Tier: game.TierTitle},
			{ID: "s-major", Name: "Cobalt Energy", Tier: game.TierMajor},
			{ID: "s-bank", Name: "Meridian Bank", Tier: game.TierMinor, RivalGroup: "banking"},
			{ID: "s-riv", Name: "Vault Capital", Tier: game.TierMinor, RivalGroup: "banking"},
		},
		EngineContracts: []game.EngineContract{
			{TeamID: "kestrel", ManufacturerID: "mfr-inc", FirstSeason: 2030, LastSeason: 2031, AnnualCost: 20_000_000, Status: game.SupplyCustomer},
		},
		SponsorDeals: []game.SponsorContract{
			{SponsorID: "s-bank", TeamID: "kestrel", FirstSeason: 2031, LastSeason: 2032, Tier: game.TierMinor, MonthlyPayment: 250_000},
		},
		Standings: game.Standings{
			{Position: 1, TeamID: "aurora", Points: 300},
			{Position: 2, TeamID: "kestrel", Points: 220},
			{Position: 3, TeamID: "vulcan", Points: 90},
		},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

func testScheduler() *Scheduler {
	return NewScheduler(zerolog.Nop(), DefaultConfig(), negotiation.DefaultTuning())
}

func byKind(list *negotiation.List, kind negotiation.Kind) []*negotiation.Negotiation {
	var out []*negotiation.Negotiation
	for _, n := range list.Items {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// #endregion

// #region sponsor-wave

func TestRunSponsorWave(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.April, 1, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}

	notes := testScheduler().Run(st, list)

	// Title and major are in range at P2. The bank is already booked through
	// next season and sits out; its rival is locked out by group
	// exclusivity.
	got := byKind(list, negotiation.KindSponsor)
	if len(got) != 2 {
		t.Fatalf("sponsor negotiations = %d, want 2", len(got))
	}
	for _, n := range got {
		if n.CounterpartyID == "s-riv" {
			t.Error("rival-group sponsor approached despite exclusivity")
		}
		if n.CounterpartyID == "s-bank" {
			t.Error("sponsor with a deal in place approached again")
		}
		if n.Phase != negotiation.PhaseResponseReceived {
			t.Errorf("phase = %q, want %q", n.Phase, negotiation.PhaseResponseReceived)
		}
		if !n.CounterpartyInitiated {
			t.Error("outreach negotiation not marked counterparty initiated")
		}
		if n.TargetSeason != 2032 {
			t.Errorf("target season = %d, want 2032", n.TargetSeason)
		}
		if len(n.Rounds) != 1 || n.Rounds[0].OfferedBy != negotiation.PartyCounterparty {
			t.Errorf("opening round = %+v, want one counterparty offer", n.Rounds)
		}
	}
	if len(notes) != len(list.Items) {
		t.Errorf("notifications = %d, want one per approach", len(notes))
	}

	// The same day run twice opens nothing new.
	testScheduler().Run(st, list)
	if n := len(byKind(list, negotiation.KindSponsor)); n != 2 {
		t.Errorf("sponsor negotiations after rerun = %d, want 2", n)
	}
}

// #endregion

// #region engine-waves

func TestRunRetentionWave(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.May, 1, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}

	testScheduler().Run(st, list)

	got := byKind(list, negotiation.KindManufacturer)
	if len(got) != 1 {
		t.Fatalf("engine negotiations = %d, want the incumbent only", len(got))
	}
	if got[0].CounterpartyID != "mfr-inc" {
		t.Errorf("counterparty = %q, want mfr-inc", got[0].CounterpartyID)
	}

	// Opening quote: two bare supply years at the ideal markup.
	terms := got[0].Rounds[0].Terms.Manufacturer
	if terms == nil {
		t.Fatal("opening round has no engine terms")
	}
	if terms.DurationYears != 2 {
		t.Errorf("duration = %d, want 2", terms.DurationYears)
	}
	wantAnnual := (2.0*10_000_000*2 + 1_000_000*1*2) * 1.30 / 2
	if !withinCent(terms.AnnualCost, wantAnnual) {
		t.Errorf("annual cost = %f, want %f", terms.AnnualCost, wantAnnual)
	}
}

func TestRunRetentionWaveSkipsSecuredTeam(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.May, 1, 0, 0, 0, 0, time.UTC))
	st.EngineContracts[0].LastSeason = 2032

	list := &negotiation.List{}
	testScheduler().Run(st, list)
	if got := byKind(list, negotiation.KindManufacturer); len(got) != 0 {
		t.Fatalf("engine negotiations = %d, want none with next season secured", len(got))
	}
}

func TestRunRivalWave(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.June, 1, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}

	testScheduler().Run(st, list)

	got := byKind(list, negotiation.KindManufacturer)
	if len(got) != 1 {
		t.Fatalf("engine negotiations = %d, want rivals only", len(got))
	}
	if got[0].CounterpartyID != "mfr-rival" {
		t.Errorf("counterparty = %q, want mfr-rival", got[0].CounterpartyID)
	}
}

// #endregion

// #region driver-wave

func TestRunDriverWave(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.July, 1, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}
	s := testScheduler()

	s.Run(st, list)

	got := byKind(list, negotiation.KindDriver)
	if len(got) != 1 {
		t.Fatalf("driver negotiations = %d, want 1", len(got))
	}
	if got[0].CounterpartyID != "d1" {
		t.Errorf("counterparty = %q, want d1", got[0].CounterpartyID)
	}
	// Lone driver on the market curve: salary floor times the ask markup.
	if salary := got[0].Rounds[0].Terms.Driver.Salary; salary != 2_400_000 {
		t.Errorf("asking salary = %f, want 2400000", salary)
	}
}

func TestRunDriverCooldown(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.July, 15, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}
	s := testScheduler()
	s.lastApproach["d1"] = time.Date(2031, time.July, 10, 0, 0, 0, 0, time.UTC)

	s.Run(st, list)
	if got := byKind(list, negotiation.KindDriver); len(got) != 0 {
		t.Fatalf("driver negotiations = %d, want none inside the cooldown", len(got))
	}

	st.Date = time.Date(2031, time.August, 1, 0, 0, 0, 0, time.UTC)
	s.Run(st, list)
	if got := byKind(list, negotiation.KindDriver); len(got) != 1 {
		t.Fatalf("driver negotiations = %d, want 1 after the cooldown", len(got))
	}
}

func TestRunDriverWaveTargetsOnlyRankedAboveOrOpenSeats(t *testing.T) {
	// The player has the biggest budget but sits second and fields a full
	// 2032 lineup. The championship leader's driver has nowhere better to
	// go; the backmarker's driver can still chase the teams above.
	st, err := game.NewState(&game.State{
		Date:         time.Date(2031, time.July, 1, 0, 0, 0, 0, time.UTC),
		PlayerTeamID: "kestrel",
		Teams: []*game.Team{
			{ID: "kestrel", Name: "Kestrel Racing", Budget: 260_000_000},
			{ID: "aurora", Name: "Aurora GP", Budget: 220_000_000},
			{ID: "vulcan", Name: "Vulcan Motorsport", Budget: 95_000_000},
		},
		Drivers: []*game.Driver{
			{ID: "d-lead", Name: "Rafael Barros", TeamID: "aurora", ContractEndSeason: 2031, DesperationMultiplier: 0.8},
			{ID: "d-back", Name: "Maja Lindqvist", TeamID: "vulcan", ContractEndSeason: 2031, DesperationMultiplier: 0.8},
			{ID: "k1", Name: "Elise Fontaine", TeamID: "kestrel", ContractEndSeason: 2033, DesperationMultiplier: 0.8},
			{ID: "k2", Name: "Ren Sato", TeamID: "kestrel", ContractEndSeason: 2033, DesperationMultiplier: 0.8},
			{ID: "v1", Name: "Deji Okafor", TeamID: "vulcan", ContractEndSeason: 2033, DesperationMultiplier: 0.8},
		},
		Standings: game.Standings{
			{Position: 1, TeamID: "aurora", Points: 300},
			{Position: 2, TeamID: "kestrel", Points: 220},
			{Position: 3, TeamID: "vulcan", Points: 90},
		},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	list := &negotiation.List{}
	testScheduler().Run(st, list)

	got := byKind(list, negotiation.KindDriver)
	if len(got) != 1 {
		t.Fatalf("driver negotiations = %d, want only the backmarker's approach", len(got))
	}
	if got[0].CounterpartyID != "d-back" {
		t.Errorf("counterparty = %q, want d-back chasing a team ranked above", got[0].CounterpartyID)
	}
}

// #endregion

// #region staff-wave

func TestRunStaffWindow(t *testing.T) {
	st := schedulerState(t, time.Date(2031, time.May, 15, 0, 0, 0, 0, time.UTC))
	list := &negotiation.List{}

	testScheduler().Run(st, list)

	got := byKind(list, negotiation.KindStaff)
	if len(got) != 1 {
		t.Fatalf("staff negotiations = %d, want 1", len(got))
	}
	terms := got[0].Rounds[0].Terms.Staff
	if !withinCent(terms.Salary, 880_000) {
		t.Errorf("asking salary = %f, want 880000", terms.Salary)
	}
	if !withinCent(terms.Buyout, 400_000) {
		t.Errorf("quoted buyout = %f, want 400000", terms.Buyout)
	}

	// Outside the May-June window nothing happens.
	st2 := schedulerState(t, time.Date(2031, time.April, 15, 0, 0, 0, 0, time.UTC))
	list2 := &negotiation.List{}
	testScheduler().Run(st2, list2)
	if got := byKind(list2, negotiation.KindStaff); len(got) != 0 {
		t.Fatalf("staff negotiations = %d, want none outside the window", len(got))
	}
}

func withinCent(got, want float64) bool {
	diff := got - want
	return diff < 0.01 && diff > -0.01
}

// #endregion
