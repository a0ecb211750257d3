package game

// #region imports
import (
	"fmt"
	"time"
)

// #endregion

// #region state-struct

// State is the shared game-state container handed to the negotiation core
// each tick. Entity slices keep load order so iteration is deterministic;
// lookup maps are built once at construction. The negotiation core reads
// everything here and mutates only relationship scores (via Adjust) — the
// negotiation list itself lives outside this package.
type State struct {
	Date         time.Time
	PlayerTeamID string

	Teams           []*Team
	Manufacturers   []*Manufacturer
	Drivers         []*Driver
	Chiefs          []*Chief
	Sponsors        []*Sponsor
	EngineContracts []EngineContract
	SponsorDeals    []SponsorContract
	Standings       Standings

	teamsByID         map[string]*Team
	manufacturersByID map[string]*Manufacturer
	driversByID       map[string]*Driver
	chiefsByID        map[string]*Chief
	sponsorsByID      map[string]*Sponsor

	// relationship scores 0-100 keyed "teamID|counterpartyID"; absent = 50.
	relationships map[string]float64
}

// #endregion

// #region constructor

// NewState wires lookup maps and validates referential integrity. A missing
// entity reference is a fatal configuration error: it is raised here, never
// silently skipped inside an evaluator.
func NewState(s *State) (*State, error) {
	s.teamsByID = make(map[string]*Team, len(s.Teams))
	for _, t := range s.Teams {
		s.teamsByID[t.ID] = t
	}
	s.manufacturersByID = make(map[string]*Manufacturer, len(s.Manufacturers))
	for _, m := range s.Manufacturers {
		s.manufacturersByID[m.ID] = m
	}
	s.driversByID = make(map[string]*Driver, len(s.Drivers))
	for _, d := range s.Drivers {
		s.driversByID[d.ID] = d
	}
	s.chiefsByID = make(map[string]*Chief, len(s.Chiefs))
	for _, c := range s.Chiefs {
		s.chiefsByID[c.ID] = c
	}
	s.sponsorsByID = make(map[string]*Sponsor, len(s.Sponsors))
	for _, sp := range s.Sponsors {
		s.sponsorsByID[sp.ID] = sp
	}
	if s.relationships == nil {
		s.relationships = make(map[string]float64)
	}

	if s.PlayerTeamID != "" {
		if _, ok := s.teamsByID[s.PlayerTeamID]; !ok {
			return nil, fmt.Errorf("player team %s not among loaded teams", s.PlayerTeamID)
		}
	}
	for _, m := range s.Manufacturers {
		if m.WorksTeamID != "" {
			if _, ok := s.teamsByID[m.WorksTeamID]; !ok {
				return nil, fmt.Errorf("manufacturer %s: works team %s not found", m.ID, m.WorksTeamID)
			}
		}
		for _, p := range m.PartnerTeamIDs {
			if _, ok := s.teamsByID[p]; !ok {
				return nil, fmt.Errorf("manufacturer %s: partner team %s not found", m.ID, p)
			}
		}
	}
	for _, d := range s.Drivers {
		if d.TeamID != "" {
			if _, ok := s.teamsByID[d.TeamID]; !ok {
				return nil, fmt.Errorf("driver %s: team %s not found", d.ID, d.TeamID)
			}
		}
	}
	for _, c := range s.Chiefs {
		if c.TeamID != "" {
			if _, ok := s.teamsByID[c.TeamID]; !ok {
				return nil, fmt.Errorf("chief %s: team %s not found", c.ID, c.TeamID)
			}
		}
	}
	for _, ec := range s.EngineContracts {
		if _, ok := s.teamsByID[ec.TeamID]; !ok {
			return nil, fmt.Errorf("engine contract: team %s not found", ec.TeamID)
		}
		if _, ok := s.manufacturersByID[ec.ManufacturerID]; !ok {
			return nil, fmt.Errorf("engine contract: manufacturer %s not found", ec.ManufacturerID)
		}
	}
	for _, sc := range s.SponsorDeals {
		if _, ok := s.teamsByID[sc.TeamID]; !ok {
			return nil, fmt.Errorf("sponsor contract: team %s not found", sc.TeamID)
		}
		if _, ok := s.sponsorsByID[sc.SponsorID]; !ok {
			return nil, fmt.Errorf("sponsor contract: sponsor %s not found", sc.SponsorID)
		}
	}

	return s, nil
}

// #endregion

// #region lookups

// Team returns the team with the given id, or nil.
func (s *State) Team(id string) *Team { return s.teamsByID[id] }

// Manufacturer returns the manufacturer with the given id, or nil.
func (s *State) Manufacturer(id string) *Manufacturer { return s.manufacturersByID[id] }

// Driver returns the driver with the given id, or nil.
func (s *State) Driver(id string) *Driver { return s.driversByID[id] }

// Chief returns the chief with the given id, or nil.
func (s *State) Chief(id string) *Chief { return s.chiefsByID[id] }

// Sponsor returns the sponsor with the given id, or nil.
func (s *State) Sponsor(id string) *Sponsor { return s.sponsorsByID[id] }

// Season returns the season the current date belongs to.
func (s *State) Season() int { return SeasonOf(s.Date) }

// #endregion

// #region derived-sets

// EngineContractFor returns the engine contract covering the given season
// for a team, if any.
func (s *State) EngineContractFor(teamID string, season int) (EngineContract, bool) {
	for _, c := range s.EngineContracts {
		if c.TeamID == teamID && c.Covers(season) {
			return c, true
		}
	}
	return EngineContract{}, false
}

// SecuredTeamIDs returns the set of teams holding an engine contract for the
// given season.
func (s *State) SecuredTeamIDs(season int) map[string]bool {
	secured := make(map[string]bool)
	for _, c := range s.EngineContracts {
		if c.Covers(season) {
			secured[c.TeamID] = true
		}
	}
	return secured
}

// CustomerCount returns how many customer-status teams the manufacturer
// supplies in the given season. Works and partner teams do not count toward
// the supply cap.
func (s *State) CustomerCount(manufacturerID string, season int) int {
	m := s.manufacturersByID[manufacturerID]
	if m == nil {
		return 0
	}
	n := 0
	for _, c := range s.EngineContracts {
		if c.ManufacturerID != manufacturerID || !c.Covers(season) {
			continue
		}
		if m.SupplyStatusFor(c.TeamID) == SupplyCustomer {
			n++
		}
	}
	return n
}

// SponsorDealCount returns how many active sponsor deals of the given tier a
// team holds in the given season.
func (s *State) SponsorDealCount(teamID string, tier SponsorTier, season int) int {
	n := 0
	for _, c := range s.SponsorDeals {
		if c.TeamID == teamID && c.Tier == tier && c.Covers(season) {
			n++
		}
	}
	return n
}

// #endregion

// #region relationships

func relKey(teamID, counterpartyID string) string {
	return teamID + "|" + counterpartyID
}

// Relationship returns the 0-100 relationship score between a team and a
// counterparty. Unknown pairs start neutral at 50.
func (s *State) Relationship(teamID, counterpartyID string) float64 {
	if v, ok := s.relationships[relKey(teamID, counterpartyID)]; ok {
		return v
	}
	return 50
}

// SetRelationship overwrites a relationship score, clamped to [0, 100].
func (s *State) SetRelationship(teamID, counterpartyID string, score float64) {
	s.relationships[relKey(teamID, counterpartyID)] = clampScore(score)
}

// AdjustRelationship applies a delta to a relationship score, clamped to
// [0, 100], and returns the new value.
func (s *State) AdjustRelationship(teamID, counterpartyID string, delta float64) float64 {
	v := clampScore(s.Relationship(teamID, counterpartyID) + delta)
	s.relationships[relKey(teamID, counterpartyID)] = v
	return v
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// #endregion
