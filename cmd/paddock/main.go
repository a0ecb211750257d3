package main

// #region imports
import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/config"
	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/logger"
	"github.com/apexsim/paddock/internal/negotiation"
	"github.com/apexsim/paddock/internal/outreach"
	"github.com/apexsim/paddock/internal/replay"
	"github.com/apexsim/paddock/internal/store"
)

// #endregion

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	if cfg.Sim.FixturePath == "" {
		log.Fatal().Msg("SIM_FIXTURE_PATH is required: the world is loaded from a fixture")
	}
	fixture, err := replay.LoadFixture(cfg.Sim.FixturePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fixture")
	}
	st, err := fixture.ToState()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build world")
	}
	if cfg.Sim.PlayerTeamID != "" {
		st.PlayerTeamID = cfg.Sim.PlayerTeamID
	}
	if cfg.Sim.StartDate != "" {
		st.Date, _ = time.Parse("2006-01-02", cfg.Sim.StartDate)
	}

	db, err := store.NewStore(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer db.Close()

	list, err := db.LoadAll()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load negotiations")
	}
	edges, err := db.Relationships()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load relationships")
	}
	for _, e := range edges {
		st.SetRelationship(e.TeamID, e.CounterpartyID, e.Score)
	}

	// Driver desperation multipliers are rolled once per career. A stored
	// trait always wins over the fixture value.
	traits, err := db.DriverTraits()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load driver traits")
	}
	for _, d := range st.Drivers {
		if m, ok := traits[d.ID]; ok {
			d.DesperationMultiplier = m
		} else if err := db.SaveDriverTrait(d.ID, d.DesperationMultiplier); err != nil {
			log.Error().Err(err).Str("driver", d.ID).Msg("failed to persist driver trait")
		}
	}

	tuning := negotiation.DefaultTuning()
	sim := &simulation{
		log:       log,
		st:        st,
		db:        db,
		list:      list,
		tuning:    tuning,
		scheduler: outreach.NewScheduler(log, outreach.DefaultConfig(), tuning),
		processor: negotiation.NewProcessor(log, tuning,
			negotiation.NewStateFinalizer(), store.NewDecisionSink(db, log)),
	}

	fmt.Println("Paddock negotiation desk ready.")
	fmt.Printf("  DB: %s | Team: %s | Date: %s\n", cfg.DB.Path, st.PlayerTeamID, st.Date.Format("2006-01-02"))
	fmt.Println("Commands: tick [n], list, show <id>, offer <id> <amount> [years] [final], quit")
	sim.repl()
}

// #endregion main

// #region simulation

type simulation struct {
	log       zerolog.Logger
	st        *game.State
	db        *store.Store
	list      *negotiation.List
	tuning    negotiation.Tuning
	scheduler *outreach.Scheduler
	processor *negotiation.Processor
}

func (s *simulation) repl() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "tick":
			days := 1
			if len(fields) > 1 {
				days, _ = strconv.Atoi(fields[1])
			}
			s.tick(days)
		case "list":
			s.printList()
		case "show":
			if len(fields) < 2 {
				fmt.Println("usage: show <negotiation-id>")
				continue
			}
			s.show(fields[1])
		case "offer":
			s.offer(fields[1:])
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// tick advances the calendar one day at a time: outreach first, then the
// negotiation batch, then persistence. A critical notification pauses the
// advance.
func (s *simulation) tick(days int) {
	for day := 0; day < days; day++ {
		s.st.Date = s.st.Date.AddDate(0, 0, 1)
		notes := s.scheduler.Run(s.st, s.list)
		tick := s.processor.ProcessDay(s.st, s.list)
		notes = append(notes, tick.Notifications...)

		for _, note := range notes {
			marker := " "
			if note.Critical {
				marker = "!"
			}
			fmt.Printf("[%s]%s %s: %s\n", note.Date.Format("2006-01-02"), marker, note.Subject, note.Body)
		}
		s.persist()
		if tick.StopSimulation {
			fmt.Println("simulation paused: a negotiation needs your attention")
			return
		}
	}
	fmt.Printf("date: %s\n", s.st.Date.Format("2006-01-02"))
}

func (s *simulation) persist() {
	for _, n := range s.list.Items {
		if err := s.db.SaveNegotiation(n); err != nil {
			s.log.Error().Err(err).Str("negotiation_id", n.ID).Msg("save failed")
		}
		score := s.st.Relationship(n.TeamID, n.CounterpartyID)
		if err := s.db.SaveRelationship(n.TeamID, n.CounterpartyID, score); err != nil {
			s.log.Error().Err(err).Str("counterparty", n.CounterpartyID).Msg("relationship save failed")
		}
	}
}

func (s *simulation) printList() {
	for _, n := range s.list.Items {
		if n.Phase.Terminal() {
			continue
		}
		fmt.Printf("%s  %-12s %-14s round %d  %s\n",
			n.ID[:8], n.Kind, n.CounterpartyID, n.CurrentRound, n.Phase)
	}
}

func (s *simulation) show(prefix string) {
	n := s.findByPrefix(prefix)
	if n == nil {
		fmt.Printf("no negotiation matching %q\n", prefix)
		return
	}
	fmt.Printf("%s %s with %s, season %d, phase %s\n",
		n.ID, n.Kind, n.CounterpartyID, n.TargetSeason, n.Phase)
	for _, r := range n.Rounds {
		flag := ""
		if r.IsUltimatum {
			flag = " [final]"
		}
		fmt.Printf("  round %d by %s: %.0f%s", r.Number, r.OfferedBy, r.Terms.Headline(), flag)
		if r.Response != "" {
			fmt.Printf("  -> %s (%s)", r.Response, r.Tone)
		}
		fmt.Println()
	}
}

// offer appends a player round with kind-appropriate terms built from a
// single headline amount.
func (s *simulation) offer(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: offer <negotiation-id> <amount> [years] [final]")
		return
	}
	n := s.findByPrefix(args[0])
	if n == nil {
		fmt.Printf("no negotiation matching %q\n", args[0])
		return
	}
	if n.Phase != negotiation.PhaseResponseReceived {
		fmt.Printf("negotiation is %s, not waiting on you\n", n.Phase)
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Printf("bad amount %q\n", args[1])
		return
	}
	years := 2
	final := false
	for _, a := range args[2:] {
		if a == "final" {
			final = true
		} else if y, err := strconv.Atoi(a); err == nil {
			years = y
		}
	}

	terms, err := buildTerms(n, amount, years)
	if err != nil {
		fmt.Println(err)
		return
	}
	n.AppendRound(negotiation.Round{
		OfferedBy:   negotiation.PartyPlayer,
		Terms:       terms,
		OfferedAt:   s.st.Date,
		ExpiresAt:   s.st.Date.AddDate(0, 0, s.offerExpiryDays(n.Kind)),
		IsUltimatum: final,
	})
	n.Phase = negotiation.PhaseAwaitingResponse
	s.persist()
	fmt.Printf("offer lodged in round %d\n", n.CurrentRound)
}

func (s *simulation) offerExpiryDays(k negotiation.Kind) int {
	switch k {
	case negotiation.KindManufacturer:
		return s.tuning.Manufacturer.CounterExpiryDays
	case negotiation.KindDriver:
		return s.tuning.Driver.CounterExpiryDays
	case negotiation.KindStaff:
		return s.tuning.Staff.CounterExpiryDays
	default:
		return s.tuning.Sponsor.CounterExpiryDays
	}
}

func buildTerms(n *negotiation.Negotiation, amount float64, years int) (negotiation.Terms, error) {
	if years < 1 {
		return negotiation.Terms{}, fmt.Errorf("duration must be at least 1 year, got %d", years)
	}
	if amount <= 0 {
		return negotiation.Terms{}, fmt.Errorf("amount must be positive, got %.0f", amount)
	}
	switch n.Kind {
	case negotiation.KindManufacturer:
		prev := n.LatestRound().Terms.Manufacturer
		t := negotiation.ManufacturerTerms{AnnualCost: amount / float64(years), DurationYears: years}
		if prev != nil {
			t.UpgradesIncluded = prev.UpgradesIncluded
			t.PointsIncluded = prev.PointsIncluded
			t.OptimisationIncluded = prev.OptimisationIncluded
		}
		return negotiation.Terms{Kind: n.Kind, Manufacturer: &t}, nil
	case negotiation.KindDriver:
		return negotiation.Terms{Kind: n.Kind, Driver: &negotiation.DriverTerms{
			Salary: amount, DurationYears: years,
		}}, nil
	case negotiation.KindStaff:
		prev := n.LatestRound().Terms.Staff
		t := negotiation.StaffTerms{Salary: amount, DurationYears: years}
		if prev != nil {
			t.Buyout = prev.Buyout
		}
		return negotiation.Terms{Kind: n.Kind, Staff: &t}, nil
	case negotiation.KindSponsor:
		monthly := amount / 12
		return negotiation.Terms{Kind: n.Kind, Sponsor: &negotiation.SponsorTerms{
			MonthlyPayment: monthly, Placement: "sidepod",
		}}, nil
	}
	return negotiation.Terms{}, fmt.Errorf("unsupported negotiation kind %q", n.Kind)
}

func (s *simulation) findByPrefix(prefix string) *negotiation.Negotiation {
	for _, n := range s.list.Items {
		if strings.HasPrefix(n.ID, prefix) {
			return n
		}
	}
	return nil
}

// #endregion simulation
