package negotiation

// #region imports
import (
	"fmt"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region finalizer

// StateFinalizer commits accepted deals straight into shared state: engine
// and sponsor deals become contract rows, drivers and chiefs move to their
// new team.
type StateFinalizer struct{}

// NewStateFinalizer returns the in-memory contract finalizer.
func NewStateFinalizer() *StateFinalizer {
	return &StateFinalizer{}
}

// Finalize applies the accepted terms of a completed negotiation.
func (f *StateFinalizer) Finalize(st *game.State, n *Negotiation, terms Terms) error {
	switch n.Kind {
	case KindManufacturer:
		if terms.Manufacturer == nil {
			return fmt.Errorf("negotiation %s accepted without engine terms", n.ID)
		}
		m := st.Manufacturer(n.CounterpartyID)
		if m == nil {
			return fmt.Errorf("negotiation %s references unknown manufacturer", n.ID)
		}
		t := terms.Manufacturer
		st.EngineContracts = append(st.EngineContracts, game.EngineContract{
			TeamID:         n.TeamID,
			ManufacturerID: m.ID,
			FirstSeason:    n.TargetSeason,
			LastSeason:     n.TargetSeason + t.DurationYears - 1,
			AnnualCost:     t.AnnualCost,
			Status:         m.SupplyStatusFor(n.TeamID),
		})

	case KindDriver:
		if terms.Driver == nil {
			return fmt.Errorf("negotiation %s accepted without seat terms", n.ID)
		}
		d := st.Driver(n.CounterpartyID)
		if d == nil {
			return fmt.Errorf("negotiation %s references unknown driver", n.ID)
		}
		t := terms.Driver
		d.TeamID = n.TeamID
		d.Salary = t.Salary
		d.ContractEndSeason = n.TargetSeason + t.DurationYears - 1

	case KindStaff:
		if terms.Staff == nil {
			return fmt.Errorf("negotiation %s accepted without staff terms", n.ID)
		}
		c := st.Chief(n.CounterpartyID)
		if c == nil {
			return fmt.Errorf("negotiation %s references unknown chief", n.ID)
		}
		t := terms.Staff
		c.TeamID = n.TeamID
		c.Salary = t.Salary
		c.ContractEndSeason = n.TargetSeason + t.DurationYears - 1

	case KindSponsor:
		if terms.Sponsor == nil {
			return fmt.Errorf("negotiation %s accepted without sponsorship terms", n.ID)
		}
		sp := st.Sponsor(n.CounterpartyID)
		if sp == nil {
			return fmt.Errorf("negotiation %s references unknown sponsor", n.ID)
		}
		t := terms.Sponsor
		st.SponsorDeals = append(st.SponsorDeals, game.SponsorContract{
			SponsorID:      sp.ID,
			TeamID:         n.TeamID,
			FirstSeason:    n.TargetSeason,
			LastSeason:     n.TargetSeason,
			Tier:           sp.Tier,
			MonthlyPayment: t.MonthlyPayment,
		})

	default:
		return fmt.Errorf("negotiation %s has unknown kind %q", n.ID, n.Kind)
	}
	return nil
}

// #endregion
