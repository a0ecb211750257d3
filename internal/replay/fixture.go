package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/negotiation"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a starting
// world, a number of days to simulate, scripted player moves, and the
// outcomes the run must reproduce.
type Fixture struct {
	Description string              `json:"description"`
	StartDate   string              `json:"start_date"` // YYYY-MM-DD
	Days        int                 `json:"days"`
	World       FixtureWorld        `json:"world"`
	PlayerMoves []FixturePlayerMove `json:"player_moves"`
	Expected    []FixtureExpected   `json:"expected"`
}

// FixtureWorld is the JSON-serializable initial game state.
type FixtureWorld struct {
	PlayerTeamID    string                `json:"player_team_id"`
	Teams           []FixtureTeam         `json:"teams"`
	Manufacturers   []FixtureManufacturer `json:"manufacturers"`
	Drivers         []FixtureDriver       `json:"drivers"`
	Chiefs          []FixtureChief        `json:"chiefs"`
	Sponsors        []FixtureSponsor      `json:"sponsors"`
	EngineContracts []FixtureEngineDeal   `json:"engine_contracts"`
	SponsorDeals    []FixtureSponsorDeal  `json:"sponsor_deals"`
	Standings       []FixtureStandingsRow `json:"standings"`
	Relationships   []FixtureRelationship `json:"relationships"`
}

type FixtureTeam struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
}

type FixtureManufacturer struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	WorksTeamID       string   `json:"works_team_id"`
	PartnerTeamIDs    []string `json:"partner_team_ids"`
	BaseEngineCost    float64  `json:"base_engine_cost"`
	UpgradeCost       float64  `json:"upgrade_cost"`
	CustomisationCost float64  `json:"customisation_cost"`
	OptimisationCost  float64  `json:"optimisation_cost"`
}

type FixtureSeason struct {
	Season     int     `json:"season"`
	Points     float64 `json:"points"`
	TeamPoints float64 `json:"team_points"`
	Races      int     `json:"races"`
	Position   int     `json:"position"`
	Podiums    int     `json:"podiums"`
	Wins       int     `json:"wins"`
	Champion   bool    `json:"champion"`
}

type FixtureDriver struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	TeamID                string          `json:"team_id"`
	Salary                float64         `json:"salary"`
	ContractEndSeason     int             `json:"contract_end_season"`
	DesperationMultiplier float64         `json:"desperation_multiplier"`
	CommittedToLeave      bool            `json:"committed_to_leave"`
	Career                []FixtureSeason `json:"career"`
}

type FixtureChief struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	TeamID            string  `json:"team_id"`
	Salary            float64 `json:"salary"`
	ContractEndSeason int     `json:"contract_end_season"`
}

type FixtureSponsor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Tier       string `json:"tier"`
	RivalGroup string `json:"rival_group"`
}

type FixtureEngineDeal struct {
	TeamID         string  `json:"team_id"`
	ManufacturerID string  `json:"manufacturer_id"`
	FirstSeason    int     `json:"first_season"`
	LastSeason     int     `json:"last_season"`
	AnnualCost     float64 `json:"annual_cost"`
	Status         string  `json:"status"`
}

type FixtureSponsorDeal struct {
	SponsorID      string  `json:"sponsor_id"`
	TeamID         string  `json:"team_id"`
	FirstSeason    int     `json:"first_season"`
	LastSeason     int     `json:"last_season"`
	Tier           string  `json:"tier"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

type FixtureStandingsRow struct {
	Position int     `json:"position"`
	TeamID   string  `json:"team_id"`
	Points   float64 `json:"points"`
}

type FixtureRelationship struct {
	TeamID         string  `json:"team_id"`
	CounterpartyID string  `json:"counterparty_id"`
	Score          float64 `json:"score"`
}

// FixturePlayerMove is a scripted player offer: on the given day offset the
// player answers the active negotiation with the named counterparty.
type FixturePlayerMove struct {
	Day            int               `json:"day"`
	Kind           string            `json:"kind"`
	CounterpartyID string            `json:"counterparty_id"`
	Terms          negotiation.Terms `json:"terms"`
	IsUltimatum    bool              `json:"is_ultimatum"`
}

// FixtureExpected is the outcome the replay must reproduce for one
// negotiation.
type FixtureExpected struct {
	Kind           string `json:"kind"`
	CounterpartyID string `json:"counterparty_id"`
	Phase          string `json:"phase"`
	MinRounds      int    `json:"min_rounds"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// StartTime parses the fixture's start date.
func (f *Fixture) StartTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", f.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start date %q: %w", f.StartDate, err)
	}
	return t, nil
}

// ToState converts the fixture world to a validated game state.
func (f *Fixture) ToState() (*game.State, error) {
	start, err := f.StartTime()
	if err != nil {
		return nil, err
	}
	w := f.World

	st := &game.State{
		Date:         start,
		PlayerTeamID: w.PlayerTeamID,
	}
	for _, t := range w.Teams {
		st.Teams = append(st.Teams, &game.Team{ID: t.ID, Name: t.Name, Budget: t.Budget})
	}
	for _, m := range w.Manufacturers {
		st.Manufacturers = append(st.Manufacturers, &game.Manufacturer{
			ID:                m.ID,
			Name:              m.Name,
			WorksTeamID:       m.WorksTeamID,
			PartnerTeamIDs:    m.PartnerTeamIDs,
			BaseEngineCost:    m.BaseEngineCost,
			UpgradeCost:       m.UpgradeCost,
			CustomisationCost: m.CustomisationCost,
			OptimisationCost:  m.OptimisationCost,
		})
	}
	for _, d := range w.Drivers {
		driver := &game.Driver{
			ID:                    d.ID,
			Name:                  d.Name,
			TeamID:                d.TeamID,
			Salary:                d.Salary,
			ContractEndSeason:     d.ContractEndSeason,
			DesperationMultiplier: d.DesperationMultiplier,
			CommittedToLeave:      d.CommittedToLeave,
		}
		for _, s := range d.Career {
			driver.Career = append(driver.Career, game.SeasonResult{
				Season:     s.Season,
				Points:     s.Points,
				TeamPoints: s.TeamPoints,
				Races:      s.Races,
				Position:   s.Position,
				Podiums:    s.Podiums,
				Wins:       s.Wins,
				Champion:   s.Champion,
			})
		}
		st.Drivers = append(st.Drivers, driver)
	}
	for _, c := range w.Chiefs {
		st.Chiefs = append(st.Chiefs, &game.Chief{
			ID: c.ID, Name: c.Name, Role: c.Role,
			TeamID: c.TeamID, Salary: c.Salary, ContractEndSeason: c.ContractEndSeason,
		})
	}
	for _, sp := range w.Sponsors {
		st.Sponsors = append(st.Sponsors, &game.Sponsor{
			ID: sp.ID, Name: sp.Name,
			Tier: game.SponsorTier(sp.Tier), RivalGroup: sp.RivalGroup,
		})
	}
	for _, c := range w.EngineContracts {
		st.EngineContracts = append(st.EngineContracts, game.EngineContract{
			TeamID:         c.TeamID,
			ManufacturerID: c.ManufacturerID,
			FirstSeason:    c.FirstSeason,
			LastSeason:     c.LastSeason,
			AnnualCost:     c.AnnualCost,
			Status:         game.SupplyStatus(c.Status),
		})
	}
	for _, d := range w.SponsorDeals {
		st.SponsorDeals = append(st.SponsorDeals, game.SponsorContract{
			SponsorID:      d.SponsorID,
			TeamID:         d.TeamID,
			FirstSeason:    d.FirstSeason,
			LastSeason:     d.LastSeason,
			Tier:           game.SponsorTier(d.Tier),
			MonthlyPayment: d.MonthlyPayment,
		})
	}
	for _, row := range w.Standings {
		st.Standings = append(st.Standings, game.StandingsRow{
			Position: row.Position, TeamID: row.TeamID, Points: row.Points,
		})
	}

	st, err = game.NewState(st)
	if err != nil {
		return nil, fmt.Errorf("build state: %w", err)
	}
	for _, r := range w.Relationships {
		st.SetRelationship(r.TeamID, r.CounterpartyID, r.Score)
	}
	return st, nil
}

// #endregion fixture-loader
