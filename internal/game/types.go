package game

// #region imports
import "time"

// #endregion

// #region supply-status

// SupplyStatus classifies a team's relationship to its engine supplier.
type SupplyStatus string

const (
	SupplyWorks    SupplyStatus = "works"
	SupplyPartner  SupplyStatus = "partner"
	SupplyCustomer SupplyStatus = "customer"
)

// #endregion

// #region team

// Team is a constructor entry. Budget drives strategic value; the engine
// supplier link is derived from the active engine contract, not stored here.
type Team struct {
	ID     string
	Name   string
	Budget float64
}

// #endregion

// #region manufacturer

// Manufacturer is an engine supplier with its cost book and affiliations.
type Manufacturer struct {
	ID                string
	Name              string
	WorksTeamID       string
	PartnerTeamIDs    []string
	BaseEngineCost    float64
	UpgradeCost       float64
	CustomisationCost float64
	OptimisationCost  float64
}

// SupplyStatusFor returns how this manufacturer classifies the given team.
func (m *Manufacturer) SupplyStatusFor(teamID string) SupplyStatus {
	if m.WorksTeamID == teamID {
		return SupplyWorks
	}
	for _, id := range m.PartnerTeamIDs {
		if id == teamID {
			return SupplyPartner
		}
	}
	return SupplyCustomer
}

// #endregion

// #region season-result

// SeasonResult is one season of a driver's career history.
// Position is the championship finishing position; 0 means unknown.
type SeasonResult struct {
	Season     int
	Points     float64
	TeamPoints float64
	Races      int
	Position   int
	Podiums    int
	Wins       int
	Champion   bool
}

// #endregion

// #region driver

// Driver is a race driver. TeamID is empty for free agents.
// DesperationMultiplier is rolled once at career start, uniformly in
// [0.7, 1.0], persisted, and never re-derived; lower values make the driver
// more willing to accept weak offers.
type Driver struct {
	ID                    string
	Name                  string
	TeamID                string
	Salary                float64
	ContractEndSeason     int
	DesperationMultiplier float64
	CommittedToLeave      bool
	Career                []SeasonResult
}

// #endregion

// #region chief

// Chief is a member of support staff (technical chief, race engineer, ...).
type Chief struct {
	ID                string
	Name              string
	Role              string
	TeamID            string
	Salary            float64
	ContractEndSeason int
}

// #endregion

// #region sponsor

// SponsorTier sets which teams a sponsor targets and what it pays.
type SponsorTier string

const (
	TierTitle SponsorTier = "title"
	TierMajor SponsorTier = "major"
	TierMinor SponsorTier = "minor"
)

// Sponsor is a commercial backer. Sponsors sharing a RivalGroup never sign
// with the same team.
type Sponsor struct {
	ID         string
	Name       string
	Tier       SponsorTier
	RivalGroup string
}

// #endregion

// #region contracts

// EngineContract is an active supply deal between a team and a manufacturer.
type EngineContract struct {
	TeamID         string
	ManufacturerID string
	FirstSeason    int
	LastSeason     int
	AnnualCost     float64
	Status         SupplyStatus
}

// Covers reports whether the contract is active in the given season.
func (c EngineContract) Covers(season int) bool {
	return c.FirstSeason <= season && season <= c.LastSeason
}

// SponsorContract is an active sponsorship deal.
type SponsorContract struct {
	SponsorID      string
	TeamID         string
	FirstSeason    int
	LastSeason     int
	Tier           SponsorTier
	MonthlyPayment float64
}

// Covers reports whether the contract is active in the given season.
func (c SponsorContract) Covers(season int) bool {
	return c.FirstSeason <= season && season <= c.LastSeason
}

// #endregion

// #region standings

// StandingsRow is one constructor championship entry.
type StandingsRow struct {
	Position int
	TeamID   string
	Points   float64
}

// Standings is the constructor championship table, ordered by position.
type Standings []StandingsRow

// PositionOf returns the championship position of a team, or 0 if absent.
func (s Standings) PositionOf(teamID string) int {
	for _, row := range s {
		if row.TeamID == teamID {
			return row.Position
		}
	}
	return 0
}

// #endregion

// #region calendar

// SeasonOf returns the season a date belongs to. Seasons align with
// calendar years.
func SeasonOf(t time.Time) int {
	return t.Year()
}

// IsFirstOfMonth reports whether t is day 1 of the given month.
func IsFirstOfMonth(t time.Time, month time.Month) bool {
	return t.Month() == month && t.Day() == 1
}

// IsOutreachDay reports whether t is a 1st or 15th, the two days per month
// on which stakeholders initiate contact.
func IsOutreachDay(t time.Time) bool {
	return t.Day() == 1 || t.Day() == 15
}

// #endregion
