// Package outreach opens negotiations on calendar triggers: counterparties
// approach the player's team on fixed dates through the season, each
// candidate passing an ordered series of eligibility checks before a
// negotiation is created.
package outreach

// #region imports
import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/game"
	"github.com/apexsim/paddock/internal/negotiation"
)

// #endregion

// #region config

// raceSeatsPerTeam is how many drivers a team fields in a season.
const raceSeatsPerTeam = 2

// Config holds the calendar and cap constants for outreach.
type Config struct {
	SponsorMonth        time.Month // tier-wide sponsor approaches, 1st only
	RetentionMonth      time.Month // incumbent engine supplier retention
	RivalMonth          time.Month // rival engine suppliers
	DriverFromMonth     time.Month // driver approaches, 1st and 15th onward
	StaffFromMonth      time.Month // staff approaches, 1st and 15th
	StaffToMonth        time.Month
	DriverCooldownDays  int
	TitleStandingsCut   int // best standings position a title sponsor accepts
	MajorStandingsCut   int
	TitleDealCap        int // concurrent deals per tier a team can hold
	MajorDealCap        int
	MinorDealCap        int
	MaxRounds           int
	EngineTemplateYears int
}

// DefaultConfig returns the shipped outreach calendar.
func DefaultConfig() Config {
	return Config{
		SponsorMonth:        time.April,
		RetentionMonth:      time.May,
		RivalMonth:          time.June,
		DriverFromMonth:     time.July,
		StaffFromMonth:      time.May,
		StaffToMonth:        time.June,
		DriverCooldownDays:  14,
		TitleStandingsCut:   3,
		MajorStandingsCut:   6,
		TitleDealCap:        1,
		MajorDealCap:        2,
		MinorDealCap:        2,
		MaxRounds:           10,
		EngineTemplateYears: 2,
	}
}

// #endregion

// #region scheduler

// Scheduler creates counterparty-initiated negotiations on their calendar
// days. It is stateful only for the per-driver approach cooldown.
type Scheduler struct {
	log          zerolog.Logger
	cfg          Config
	tuning       negotiation.Tuning
	lastApproach map[string]time.Time
}

// NewScheduler creates an outreach scheduler.
func NewScheduler(log zerolog.Logger, cfg Config, tuning negotiation.Tuning) *Scheduler {
	return &Scheduler{
		log:          log.With().Str("component", "outreach").Logger(),
		cfg:          cfg,
		tuning:       tuning,
		lastApproach: make(map[string]time.Time),
	}
}

// Run checks every calendar trigger for the current date and opens the
// negotiations it produces. Returned notifications announce each approach to
// the player.
func (s *Scheduler) Run(st *game.State, list *negotiation.List) []negotiation.Notification {
	var notes []negotiation.Notification
	if game.IsFirstOfMonth(st.Date, s.cfg.SponsorMonth) {
		notes = append(notes, s.sponsorOutreach(st, list)...)
	}
	if game.IsFirstOfMonth(st.Date, s.cfg.RetentionMonth) {
		notes = append(notes, s.engineOutreach(st, list, true)...)
	}
	if game.IsFirstOfMonth(st.Date, s.cfg.RivalMonth) {
		notes = append(notes, s.engineOutreach(st, list, false)...)
	}
	if game.IsOutreachDay(st.Date) {
		if st.Date.Month() >= s.cfg.DriverFromMonth {
			notes = append(notes, s.driverOutreach(st, list)...)
		}
		if st.Date.Month() >= s.cfg.StaffFromMonth && st.Date.Month() <= s.cfg.StaffToMonth {
			notes = append(notes, s.staffOutreach(st, list)...)
		}
	}
	return notes
}

// #endregion

// #region engine-outreach

// engineOutreach opens supply talks with the player's team. In the retention
// wave only the incumbent supplier calls; in the rival wave every other
// manufacturer does, provided the team still has no deal for next season.
func (s *Scheduler) engineOutreach(st *game.State, list *negotiation.List, retention bool) []negotiation.Notification {
	teamID := st.PlayerTeamID
	target := st.Season() + 1
	if _, secured := st.EngineContractFor(teamID, target); secured {
		return nil
	}
	incumbent, hasCurrent := st.EngineContractFor(teamID, st.Season())
	if retention && !hasCurrent {
		return nil
	}

	var notes []negotiation.Notification
	for _, m := range st.Manufacturers {
		if retention != (hasCurrent && m.ID == incumbent.ManufacturerID) {
			continue
		}
		if list.ActiveFor(teamID, m.ID, target) {
			continue
		}
		if st.CustomerCount(m.ID, target) >= s.tuning.Manufacturer.MaxCustomerTeams &&
			m.SupplyStatusFor(teamID) == game.SupplyCustomer {
			s.log.Debug().Str("manufacturer", m.ID).Msg("skipped outreach: supply capacity full")
			continue
		}

		template := negotiation.ManufacturerTerms{
			DurationYears:    s.cfg.EngineTemplateYears,
			UpgradesIncluded: 1,
		}
		total := negotiation.ManufacturerCost(m, template) * s.tuning.Manufacturer.IdealMarkup
		template.AnnualCost = total / float64(template.DurationYears)

		n := s.open(st, negotiation.KindManufacturer, teamID, m.ID, target,
			negotiation.Terms{Kind: negotiation.KindManufacturer, Manufacturer: &template},
			s.tuning.Manufacturer.CounterExpiryDays)
		list.Add(n)
		subject := fmt.Sprintf("%s offers engine supply", m.Name)
		if retention {
			subject = fmt.Sprintf("%s opens renewal talks", m.Name)
		}
		notes = append(notes, s.note(st, subject,
			fmt.Sprintf("Quoted %.0f over %d years.", total, template.DurationYears)))
	}
	return notes
}

// #endregion

// #region driver-outreach

// driverOutreach lets out-of-contract drivers approach the player's team.
// Each driver picks the most attractive destination on budget and
// relationship; only when that is the player's team does an approach land.
// A driver who approached recently stays quiet for the cooldown.
func (s *Scheduler) driverOutreach(st *game.State, list *negotiation.List) []negotiation.Notification {
	teamID := st.PlayerTeamID
	target := st.Season() + 1
	var notes []negotiation.Notification
	for _, d := range st.Drivers {
		if d.ContractEndSeason >= target || d.CommittedToLeave {
			continue
		}
		if last, ok := s.lastApproach[d.ID]; ok &&
			st.Date.Before(last.AddDate(0, 0, s.cfg.DriverCooldownDays)) {
			continue
		}
		if s.pickTeam(st, d, target) != teamID {
			continue
		}
		if list.ActiveFor(teamID, d.ID, target) {
			continue
		}
		s.lastApproach[d.ID] = st.Date

		salary := negotiation.MarketSalary(st, d) * s.tuning.Driver.AskMarkup
		terms := negotiation.DriverTerms{
			Salary:        salary,
			DurationYears: 2,
			SigningBonus:  salary * s.tuning.Driver.SigningBonusRatio,
			ReleaseClause: salary * s.tuning.Driver.ReleaseClauseYears,
		}
		n := s.open(st, negotiation.KindDriver, teamID, d.ID, target,
			negotiation.Terms{Kind: negotiation.KindDriver, Driver: &terms},
			s.tuning.Driver.CounterExpiryDays)
		list.Add(n)
		notes = append(notes, s.note(st, fmt.Sprintf("%s wants a seat", d.Name),
			fmt.Sprintf("Asking %.0f a year for %d years.", terms.Salary, terms.DurationYears)))
	}
	return notes
}

// pickTeam is the driver's destination choice. Only teams worth a look are
// scored: anyone ranked above the driver's current team, plus any team with
// a race seat open for the target season. Among those, the strongest budget
// tilted by personal relationship wins. The current employer is excluded.
func (s *Scheduler) pickTeam(st *game.State, d *game.Driver, target int) string {
	ownPos := st.Standings.PositionOf(d.TeamID)
	best := ""
	bestScore := -1.0
	for _, t := range st.Teams {
		if t.ID == d.TeamID {
			continue
		}
		pos := st.Standings.PositionOf(t.ID)
		ahead := ownPos > 0 && pos > 0 && pos < ownPos
		if !ahead && !s.seatOpen(st, t.ID, target) {
			continue
		}
		score := 0.7*negotiation.StrategicValue(t, st.Teams) +
			0.3*st.Relationship(t.ID, d.ID)/100
		if score > bestScore {
			best = t.ID
			bestScore = score
		}
	}
	return best
}

// seatOpen reports whether a team has fewer than two drivers signed for the
// season. A signed driver who has committed to leave does not hold a seat.
func (s *Scheduler) seatOpen(st *game.State, teamID string, season int) bool {
	held := 0
	for _, d := range st.Drivers {
		if d.TeamID == teamID && d.ContractEndSeason >= season && !d.CommittedToLeave {
			held++
		}
	}
	return held < raceSeatsPerTeam
}

// #endregion

// #region staff-outreach

// staffOutreach lets chiefs in their final contract season approach the
// player's team during the staff window. Employed chiefs quote the standard
// buyout alongside the raise they expect.
func (s *Scheduler) staffOutreach(st *game.State, list *negotiation.List) []negotiation.Notification {
	teamID := st.PlayerTeamID
	target := st.Season() + 1
	var notes []negotiation.Notification
	for _, c := range st.Chiefs {
		if c.TeamID == teamID || c.ContractEndSeason >= target {
			continue
		}
		if list.ActiveFor(teamID, c.ID, target) {
			continue
		}

		terms := negotiation.StaffTerms{
			Salary:        c.Salary * s.tuning.Staff.EmployedRaise,
			DurationYears: 2,
		}
		if c.TeamID != "" {
			terms.Buyout = c.Salary * s.tuning.Staff.BuyoutRatio
		}
		n := s.open(st, negotiation.KindStaff, teamID, c.ID, target,
			negotiation.Terms{Kind: negotiation.KindStaff, Staff: &terms},
			s.tuning.Staff.CounterExpiryDays)
		list.Add(n)
		notes = append(notes, s.note(st, fmt.Sprintf("%s available as %s", c.Name, c.Role),
			fmt.Sprintf("Expecting %.0f a year; buyout %.0f.", terms.Salary, terms.Buyout)))
	}
	return notes
}

// #endregion

// #region sponsor-outreach

// sponsorOutreach runs the season's single sponsor wave. Each sponsor checks,
// in order: standings eligibility for its tier, the team's per-tier deal cap,
// rival-group exclusivity, and an existing negotiation, then opens with its
// position-adjusted rate.
func (s *Scheduler) sponsorOutreach(st *game.State, list *negotiation.List) []negotiation.Notification {
	teamID := st.PlayerTeamID
	target := st.Season() + 1
	position := st.Standings.PositionOf(teamID)

	var notes []negotiation.Notification
	for _, sp := range st.Sponsors {
		if s.sponsorBooked(st, sp.ID, target) {
			continue
		}
		if !s.tierEligible(sp.Tier, position) {
			continue
		}
		if st.SponsorDealCount(teamID, sp.Tier, target) >= s.tierCap(sp.Tier) {
			continue
		}
		if sp.RivalGroup != "" && s.rivalConflict(st, teamID, sp, target) {
			s.log.Debug().Str("sponsor", sp.ID).Str("rival_group", sp.RivalGroup).
				Msg("skipped outreach: rival exclusivity")
			continue
		}
		if list.ActiveFor(teamID, sp.ID, target) {
			continue
		}

		annual := negotiation.SponsorAnnualRate(sp.Tier, position, len(st.Teams), s.tuning.Sponsor)
		terms := negotiation.SponsorTerms{
			SigningBonus:   annual * s.tuning.Sponsor.SigningBonusRatio,
			MonthlyPayment: annual / 12,
			Placement:      placementFor(sp.Tier),
		}
		n := s.open(st, negotiation.KindSponsor, teamID, sp.ID, target,
			negotiation.Terms{Kind: negotiation.KindSponsor, Sponsor: &terms},
			s.tuning.Sponsor.CounterExpiryDays)
		list.Add(n)
		notes = append(notes, s.note(st, fmt.Sprintf("%s proposes %s sponsorship", sp.Name, sp.Tier),
			fmt.Sprintf("Offering %.0f a month plus a %.0f signing bonus.", terms.MonthlyPayment, terms.SigningBonus)))
	}
	return notes
}

// sponsorBooked reports whether the sponsor already holds a deal covering
// the target season; booked sponsors sit the wave out.
func (s *Scheduler) sponsorBooked(st *game.State, sponsorID string, season int) bool {
	for _, deal := range st.SponsorDeals {
		if deal.SponsorID == sponsorID && deal.Covers(season) {
			return true
		}
	}
	return false
}

func (s *Scheduler) tierEligible(tier game.SponsorTier, position int) bool {
	switch tier {
	case game.TierTitle:
		return position > 0 && position <= s.cfg.TitleStandingsCut
	case game.TierMajor:
		return position > 0 && position <= s.cfg.MajorStandingsCut
	default:
		return true
	}
}

func (s *Scheduler) tierCap(tier game.SponsorTier) int {
	switch tier {
	case game.TierTitle:
		return s.cfg.TitleDealCap
	case game.TierMajor:
		return s.cfg.MajorDealCap
	default:
		return s.cfg.MinorDealCap
	}
}

// rivalConflict reports whether the team already holds a deal with a sponsor
// in the same rival group for the target season.
func (s *Scheduler) rivalConflict(st *game.State, teamID string, sp *game.Sponsor, season int) bool {
	for _, deal := range st.SponsorDeals {
		if deal.TeamID != teamID || !deal.Covers(season) {
			continue
		}
		other := st.Sponsor(deal.SponsorID)
		if other != nil && other.ID != sp.ID && other.RivalGroup == sp.RivalGroup {
			return true
		}
	}
	return false
}

func placementFor(tier game.SponsorTier) string {
	switch tier {
	case game.TierTitle:
		return "team-name"
	case game.TierMajor:
		return "sidepod"
	default:
		return "rear-wing"
	}
}

// #endregion

// #region open

// open creates a counterparty-initiated negotiation with its opening round.
func (s *Scheduler) open(st *game.State, kind negotiation.Kind, teamID, counterpartyID string, season int, terms negotiation.Terms, expiryDays int) *negotiation.Negotiation {
	n := &negotiation.Negotiation{
		ID:                    uuid.NewString(),
		Kind:                  kind,
		TeamID:                teamID,
		CounterpartyID:        counterpartyID,
		TargetSeason:          season,
		Phase:                 negotiation.PhaseResponseReceived,
		MaxRounds:             s.cfg.MaxRounds,
		StartRelationship:     st.Relationship(teamID, counterpartyID),
		CounterpartyInitiated: true,
	}
	n.AppendRound(negotiation.Round{
		OfferedBy: negotiation.PartyCounterparty,
		Terms:     terms,
		OfferedAt: st.Date,
		ExpiresAt: st.Date.AddDate(0, 0, expiryDays),
	})
	s.log.Info().
		Str("negotiation_id", n.ID).
		Str("kind", string(kind)).
		Str("counterparty", counterpartyID).
		Int("target_season", season).
		Msg("outreach opened negotiation")
	return n
}

func (s *Scheduler) note(st *game.State, subject, body string) negotiation.Notification {
	return negotiation.Notification{Date: st.Date, Subject: subject, Body: body}
}

// #endregion
