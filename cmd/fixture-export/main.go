package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/apexsim/paddock/internal/replay"
	"github.com/apexsim/paddock/internal/store"
)

// #endregion

// #region main

func main() {
	outPath := flag.String("out", "", "output fixture JSON path")
	dbPath := flag.String("db", "", "optional save to overlay relationships and driver traits from")
	days := flag.Int("days", 120, "days the fixture simulates")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --out path/to/fixture.json [--db path/to/paddock.db] [--days N]")
		os.Exit(2)
	}

	if err := run(*outPath, *dbPath, *days); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath, dbPath string, days int) error {
	f := demoFixture(days)

	if dbPath != "" {
		if err := overlaySave(f, dbPath); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	fmt.Printf("wrote %s (%d teams, %d days)\n", outPath, len(f.World.Teams), f.Days)
	return nil
}

// #endregion main

// #region overlay

// overlaySave replaces the demo relationships and driver multipliers with
// the values persisted in an existing save.
func overlaySave(f *replay.Fixture, dbPath string) error {
	db, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	edges, err := db.Relationships()
	if err != nil {
		return err
	}
	if len(edges) > 0 {
		f.World.Relationships = f.World.Relationships[:0]
		for _, e := range edges {
			f.World.Relationships = append(f.World.Relationships, replay.FixtureRelationship{
				TeamID:         e.TeamID,
				CounterpartyID: e.CounterpartyID,
				Score:          e.Score,
			})
		}
	}

	traits, err := db.DriverTraits()
	if err != nil {
		return err
	}
	for i := range f.World.Drivers {
		if m, ok := traits[f.World.Drivers[i].ID]; ok {
			f.World.Drivers[i].DesperationMultiplier = m
		}
	}
	return nil
}

// #endregion overlay

// #region demo-world

// demoFixture is a small but complete grid: enough entities to trigger every
// outreach wave across a season.
func demoFixture(days int) *replay.Fixture {
	return &replay.Fixture{
		Description: "demo season starting before the sponsor wave",
		StartDate:   "2031-03-25",
		Days:        days,
		World: replay.FixtureWorld{
			PlayerTeamID: "team-kestrel",
			Teams: []replay.FixtureTeam{
				{ID: "team-kestrel", Name: "Kestrel Racing", Budget: 145_000_000},
				{ID: "team-aurora", Name: "Aurora GP", Budget: 260_000_000},
				{ID: "team-meridian", Name: "Meridian Motorsport", Budget: 190_000_000},
				{ID: "team-vulcan", Name: "Vulcan F1", Budget: 95_000_000},
			},
			Manufacturers: []replay.FixtureManufacturer{
				{
					ID: "mfr-aurora", Name: "Aurora Power Units",
					WorksTeamID:    "team-aurora",
					BaseEngineCost: 12_000_000, UpgradeCost: 1_500_000,
					CustomisationCost: 40_000, OptimisationCost: 2_000_000,
				},
				{
					ID: "mfr-helios", Name: "Helios Engines",
					BaseEngineCost: 9_000_000, UpgradeCost: 1_100_000,
					CustomisationCost: 30_000, OptimisationCost: 1_500_000,
				},
			},
			Drivers: []replay.FixtureDriver{
				{
					ID: "drv-okafor", Name: "Deji Okafor", TeamID: "team-aurora",
					Salary: 14_000_000, ContractEndSeason: 2031, DesperationMultiplier: 0.92,
					Career: []replay.FixtureSeason{
						{Season: 2029, Points: 180, TeamPoints: 320, Races: 22, Position: 3, Podiums: 8, Wins: 2},
						{Season: 2030, Points: 210, TeamPoints: 350, Races: 22, Position: 2, Podiums: 11, Wins: 4},
					},
				},
				{
					ID: "drv-lindqvist", Name: "Maja Lindqvist", TeamID: "team-meridian",
					Salary: 6_000_000, ContractEndSeason: 2031, DesperationMultiplier: 0.78,
					Career: []replay.FixtureSeason{
						{Season: 2030, Points: 48, TeamPoints: 140, Races: 22, Position: 9, Podiums: 1},
					},
				},
				{
					ID: "drv-barros", Name: "Thiago Barros", TeamID: "",
					Salary: 2_500_000, ContractEndSeason: 2030, DesperationMultiplier: 0.70,
					Career: []replay.FixtureSeason{
						{Season: 2029, Points: 12, TeamPoints: 90, Races: 20, Position: 14},
						{Season: 2030, Points: 4, TeamPoints: 60, Races: 8, Position: 18},
					},
				},
				{
					ID: "drv-fontaine", Name: "Elise Fontaine", TeamID: "team-kestrel",
					Salary: 8_000_000, ContractEndSeason: 2032, DesperationMultiplier: 0.95,
					Career: []replay.FixtureSeason{
						{Season: 2030, Points: 95, TeamPoints: 170, Races: 22, Position: 6, Podiums: 2},
					},
				},
			},
			Chiefs: []replay.FixtureChief{
				{ID: "chf-moretti", Name: "Carla Moretti", Role: "technical director",
					TeamID: "team-vulcan", Salary: 2_200_000, ContractEndSeason: 2031},
				{ID: "chf-sato", Name: "Ren Sato", Role: "race engineer",
					TeamID: "", Salary: 900_000, ContractEndSeason: 2030},
			},
			Sponsors: []replay.FixtureSponsor{
				{ID: "spn-zenith", Name: "Zenith Finance", Tier: "title", RivalGroup: "banking"},
				{ID: "spn-cobalt", Name: "Cobalt Energy", Tier: "major", RivalGroup: "energy"},
				{ID: "spn-nimbus", Name: "Nimbus Soft", Tier: "minor"},
			},
			EngineContracts: []replay.FixtureEngineDeal{
				{TeamID: "team-aurora", ManufacturerID: "mfr-aurora",
					FirstSeason: 2030, LastSeason: 2033, AnnualCost: 0, Status: "works"},
				{TeamID: "team-kestrel", ManufacturerID: "mfr-aurora",
					FirstSeason: 2030, LastSeason: 2031, AnnualCost: 16_000_000, Status: "customer"},
				{TeamID: "team-meridian", ManufacturerID: "mfr-helios",
					FirstSeason: 2029, LastSeason: 2031, AnnualCost: 12_000_000, Status: "customer"},
				{TeamID: "team-vulcan", ManufacturerID: "mfr-helios",
					FirstSeason: 2031, LastSeason: 2032, AnnualCost: 11_000_000, Status: "customer"},
			},
			Standings: []replay.FixtureStandingsRow{
				{Position: 1, TeamID: "team-aurora", Points: 410},
				{Position: 2, TeamID: "team-meridian", Points: 225},
				{Position: 3, TeamID: "team-kestrel", Points: 180},
				{Position: 4, TeamID: "team-vulcan", Points: 40},
			},
			Relationships: []replay.FixtureRelationship{
				{TeamID: "team-kestrel", CounterpartyID: "mfr-aurora", Score: 65},
				{TeamID: "team-kestrel", CounterpartyID: "spn-zenith", Score: 55},
			},
		},
	}
}

// #endregion demo-world
