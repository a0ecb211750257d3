package game

import (
	"testing"
	"time"
)

// #region fixtures

func validState(t *testing.T) *State {
	t.Helper()
	st, err := NewState(&State{
		Date:         time.Date(2031, time.May, 1, 0, 0, 0, 0, time.UTC),
		PlayerTeamID: "kestrel",
		Teams: []*Team{
			{ID: "kestrel", Name: "Kestrel Racing", Budget: 145_000_000},
			{ID: "aurora", Name: "Aurora GP", Budget: 260_000_000},
		},
		Manufacturers: []*Manufacturer{
			{ID: "m1", Name: "Aurora Industrie", WorksTeamID: "aurora"},
		},
		EngineContracts: []EngineContract{
			{TeamID: "kestrel", ManufacturerID: "m1", FirstSeason: 2030, LastSeason: 2031, Status: SupplyCustomer},
			{TeamID: "aurora", ManufacturerID: "m1", FirstSeason: 2028, LastSeason: 2033, Status: SupplyWorks},
		},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

// #endregion

// #region constructor

func TestNewStateRejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name  string
		state *State
	}{
		{
			"unknown player team",
			&State{PlayerTeamID: "ghost"},
		},
		{
			"unknown works team",
			&State{Manufacturers: []*Manufacturer{{ID: "m1", WorksTeamID: "ghost"}}},
		},
		{
			"unknown driver team",
			&State{Drivers: []*Driver{{ID: "d1", TeamID: "ghost"}}},
		},
		{
			"engine contract with unknown team",
			&State{
				Manufacturers:   []*Manufacturer{{ID: "m1"}},
				EngineContracts: []EngineContract{{TeamID: "ghost", ManufacturerID: "m1"}},
			},
		},
		{
			"sponsor deal with unknown sponsor",
			&State{
				Teams:        []*Team{{ID: "t1"}},
				SponsorDeals: []SponsorContract{{TeamID: "t1", SponsorID: "ghost"}},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewState(tc.state); err == nil {
				t.Fatal("NewState accepted a dangling reference")
			}
		})
	}
}

// #endregion

// #region derived-sets

func TestSecuredTeamIDs(t *testing.T) {
	st := validState(t)

	secured := st.SecuredTeamIDs(2031)
	if !secured["kestrel"] || !secured["aurora"] {
		t.Errorf("secured 2031 = %v, want both teams", secured)
	}

	secured = st.SecuredTeamIDs(2032)
	if secured["kestrel"] {
		t.Error("kestrel secured for 2032 with a contract ending 2031")
	}
	if !secured["aurora"] {
		t.Error("aurora not secured for 2032 with a contract through 2033")
	}
}

func TestCustomerCount(t *testing.T) {
	st := validState(t)

	// Aurora is the works team: only kestrel counts against the cap.
	if got := st.CustomerCount("m1", 2031); got != 1 {
		t.Errorf("customer count 2031 = %d, want 1", got)
	}
	if got := st.CustomerCount("m1", 2032); got != 0 {
		t.Errorf("customer count 2032 = %d, want 0", got)
	}
	if got := st.CustomerCount("no-such", 2031); got != 0 {
		t.Errorf("customer count for unknown manufacturer = %d, want 0", got)
	}
}

// #endregion

// #region relationships

func TestRelationshipDefaultsAndClamps(t *testing.T) {
	st := validState(t)

	if got := st.Relationship("kestrel", "m1"); got != 50 {
		t.Errorf("unknown pair = %f, want the neutral 50", got)
	}

	st.SetRelationship("kestrel", "m1", 130)
	if got := st.Relationship("kestrel", "m1"); got != 100 {
		t.Errorf("after overshoot set = %f, want clamped 100", got)
	}

	st.AdjustRelationship("kestrel", "m1", -250)
	if got := st.Relationship("kestrel", "m1"); got != 0 {
		t.Errorf("after overshoot adjust = %f, want clamped 0", got)
	}

	if got := st.AdjustRelationship("kestrel", "m1", 5); got != 5 {
		t.Errorf("AdjustRelationship returned %f, want 5", got)
	}
}

// #endregion

// #region calendar

func TestCalendarHelpers(t *testing.T) {
	if SeasonOf(time.Date(2031, time.December, 31, 0, 0, 0, 0, time.UTC)) != 2031 {
		t.Error("season does not align with the calendar year")
	}
	if !IsFirstOfMonth(time.Date(2031, time.April, 1, 0, 0, 0, 0, time.UTC), time.April) {
		t.Error("April 1 not recognized as first of April")
	}
	if IsFirstOfMonth(time.Date(2031, time.May, 1, 0, 0, 0, 0, time.UTC), time.April) {
		t.Error("May 1 recognized as first of April")
	}
	if !IsOutreachDay(time.Date(2031, time.July, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("the 15th not recognized as an outreach day")
	}
	if IsOutreachDay(time.Date(2031, time.July, 14, 0, 0, 0, 0, time.UTC)) {
		t.Error("the 14th recognized as an outreach day")
	}
}

// #endregion

// #region supply-status

func TestSupplyStatusFor(t *testing.T) {
	m := &Manufacturer{ID: "m1", WorksTeamID: "aurora", PartnerTeamIDs: []string{"meridian"}}
	tests := []struct {
		teamID string
		want   SupplyStatus
	}{
		{"aurora", SupplyWorks},
		{"meridian", SupplyPartner},
		{"kestrel", SupplyCustomer},
	}
	for _, tc := range tests {
		if got := m.SupplyStatusFor(tc.teamID); got != tc.want {
			t.Errorf("SupplyStatusFor(%s) = %q, want %q", tc.teamID, got, tc.want)
		}
	}
}

// #endregion
