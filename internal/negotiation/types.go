package negotiation

// #region imports
import (
	"time"
)

// #endregion

// #region kind

// Kind tags a negotiation (and its terms) with the stakeholder type sitting
// across the table.
type Kind string

const (
	KindManufacturer Kind = "manufacturer"
	KindDriver       Kind = "driver"
	KindStaff        Kind = "staff"
	KindSponsor      Kind = "sponsor"
)

// #endregion

// #region phase

// Phase is the negotiation lifecycle state.
type Phase string

const (
	// PhaseAwaitingResponse: the counterparty owes the next move.
	PhaseAwaitingResponse Phase = "awaiting_response"
	// PhaseResponseReceived: the team owes the next move.
	PhaseResponseReceived Phase = "response_received"
	PhaseCompleted        Phase = "completed"
	PhaseFailed           Phase = "failed"
)

// Terminal reports whether the phase ends the negotiation.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// #endregion

// #region party

// Party identifies which side authored an offer.
type Party string

const (
	PartyPlayer       Party = "player"
	PartyCounterparty Party = "counterparty"
)

// Opponent returns the other side.
func (p Party) Opponent() Party {
	if p == PartyPlayer {
		return PartyCounterparty
	}
	return PartyPlayer
}

// #endregion

// #region response-type

// ResponseType is the decision recorded against an offer.
type ResponseType string

const (
	ResponseAccept   ResponseType = "accept"
	ResponseCounter  ResponseType = "counter"
	ResponseReject   ResponseType = "reject"
	ResponseNeedTime ResponseType = "need-time"
)

// #endregion

// #region tone

// Tone colors a response for presentation and relationship bookkeeping.
type Tone string

const (
	ToneEnthusiastic Tone = "enthusiastic"
	ToneWarm         Tone = "warm"
	ToneProfessional Tone = "professional"
	ToneDisappointed Tone = "disappointed"
	ToneCold         Tone = "cold"
	ToneInsulted     Tone = "insulted"
)

// #endregion

// #region pattern

// OfferPattern classifies the counterpart's recent offer behavior.
type OfferPattern string

const (
	PatternFirstOffer           OfferPattern = "first-offer"
	PatternCooperative          OfferPattern = "cooperative"
	PatternStubborn             OfferPattern = "stubborn"
	PatternAggressive           OfferPattern = "aggressive"
	PatternGoodConcession       OfferPattern = "good-concession"
	PatternGreatConcession      OfferPattern = "great-concession"
	PatternRespondedToUltimatum OfferPattern = "responded-to-ultimatum"
)

// #endregion

// #region terms

// ManufacturerTerms is an engine supply offer.
type ManufacturerTerms struct {
	AnnualCost           float64 `json:"annual_cost"`
	DurationYears        int     `json:"duration_years"`
	UpgradesIncluded     int     `json:"upgrades_included"`
	PointsIncluded       int     `json:"points_included"`
	OptimisationIncluded bool    `json:"optimisation_included"`
}

// Total is the full contract value over its duration.
func (t ManufacturerTerms) Total() float64 {
	return t.AnnualCost * float64(t.DurationYears)
}

// DriverTerms is a race-seat offer.
type DriverTerms struct {
	Salary        float64 `json:"salary"`
	DurationYears int     `json:"duration_years"`
	SigningBonus  float64 `json:"signing_bonus"`
	ReleaseClause float64 `json:"release_clause"`
}

// StaffTerms is a support-staff offer. Buyout is owed to the current
// employer when poaching staff under contract.
type StaffTerms struct {
	Salary        float64 `json:"salary"`
	DurationYears int     `json:"duration_years"`
	Buyout        float64 `json:"buyout"`
}

// SponsorTerms is a sponsorship offer. Placement names the livery position.
type SponsorTerms struct {
	SigningBonus   float64 `json:"signing_bonus"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Placement      string  `json:"placement"`
}

// Terms is the tagged union of per-kind contract terms. Exactly one variant
// matching Kind is non-nil.
type Terms struct {
	Kind         Kind               `json:"kind"`
	Manufacturer *ManufacturerTerms `json:"manufacturer,omitempty"`
	Driver       *DriverTerms       `json:"driver,omitempty"`
	Staff        *StaffTerms        `json:"staff,omitempty"`
	Sponsor      *SponsorTerms      `json:"sponsor,omitempty"`
}

// Headline returns the single comparable money figure for an offer, oriented
// so that a larger value is always more favorable to the selling side
// (manufacturer price, driver salary, staff salary, sponsor payment asked of
// the sponsor). The pattern detector works on this series.
func (t Terms) Headline() float64 {
	switch t.Kind {
	case KindManufacturer:
		if t.Manufacturer != nil {
			return t.Manufacturer.Total()
		}
	case KindDriver:
		if t.Driver != nil {
			return t.Driver.Salary
		}
	case KindStaff:
		if t.Staff != nil {
			return t.Staff.Salary
		}
	case KindSponsor:
		if t.Sponsor != nil {
			return t.Sponsor.SigningBonus + 12*t.Sponsor.MonthlyPayment
		}
	}
	return 0
}

// #endregion

// #region round

// Round is one offer and, once decided, its response. Rounds are append-only
// and numbered from 1.
type Round struct {
	Number      int          `json:"number"`
	OfferedBy   Party        `json:"offered_by"`
	Terms       Terms        `json:"terms"`
	OfferedAt   time.Time    `json:"offered_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Response    ResponseType `json:"response,omitempty"`
	Tone        Tone         `json:"tone,omitempty"`
	RespondedAt time.Time    `json:"responded_at,omitzero"`
	IsUltimatum bool         `json:"is_ultimatum,omitempty"`
}

// #endregion

// #region negotiation

// Negotiation is one contract discussion between a team and a counterparty.
// Rounds is non-empty once the negotiation exists; CurrentRound always equals
// len(Rounds). A negotiation terminates in Completed or Failed and is never
// resurrected.
type Negotiation struct {
	ID                    string  `json:"id"`
	Kind                  Kind    `json:"kind"`
	TeamID                string  `json:"team_id"`
	CounterpartyID        string  `json:"counterparty_id"`
	TargetSeason          int     `json:"target_season"`
	Phase                 Phase   `json:"phase"`
	Rounds                []Round `json:"rounds"`
	CurrentRound          int     `json:"current_round"`
	MaxRounds             int     `json:"max_rounds"`
	StartRelationship     float64 `json:"start_relationship"`
	HasCompetingOffer     bool    `json:"has_competing_offer"`
	CounterpartyInitiated bool    `json:"counterparty_initiated"`
}

// LatestRound returns the most recent round, or nil if none exist.
func (n *Negotiation) LatestRound() *Round {
	if len(n.Rounds) == 0 {
		return nil
	}
	return &n.Rounds[len(n.Rounds)-1]
}

// AppendRound adds a round, numbering it and advancing the counter.
func (n *Negotiation) AppendRound(r Round) {
	r.Number = len(n.Rounds) + 1
	n.Rounds = append(n.Rounds, r)
	n.CurrentRound = len(n.Rounds)
}

// LastOfferBy returns the most recent round authored by the given party,
// or nil.
func (n *Negotiation) LastOfferBy(p Party) *Round {
	for i := len(n.Rounds) - 1; i >= 0; i-- {
		if n.Rounds[i].OfferedBy == p {
			return &n.Rounds[i]
		}
	}
	return nil
}

// #endregion

// #region result

// Result is a single-round evaluation decision. It is consumed immediately
// by the processor, never persisted as-is.
type Result struct {
	Response          ResponseType
	CounterTerms      *Terms
	Tone              Tone
	DelayDays         int
	Newsworthy        bool
	RelationshipDelta float64
	IsUltimatum       bool
	Reason            string
}

// #endregion

// #region update-and-notification

// Update is the per-negotiation outcome record handed back to the day-tick
// driver after a batch.
type Update struct {
	NegotiationID        string
	Negotiation          *Negotiation
	ShouldStopSimulation bool
}

// Notification is a player-facing calendar entry. Critical notifications
// pause the simulation.
type Notification struct {
	Date     time.Time
	Subject  string
	Body     string
	Critical bool
}

// #endregion

// #region list

// List owns the mutable set of negotiations for a save. Iteration order is
// insertion order, which keeps day batches deterministic.
type List struct {
	Items []*Negotiation
}

// Add appends a negotiation.
func (l *List) Add(n *Negotiation) {
	l.Items = append(l.Items, n)
}

// FindActive returns a non-terminal negotiation matching the given key, or
// nil. Used to suppress duplicate outreach.
func (l *List) FindActive(kind Kind, teamID, counterpartyID string, season int) *Negotiation {
	for _, n := range l.Items {
		if n.Kind == kind && n.TeamID == teamID && n.CounterpartyID == counterpartyID &&
			n.TargetSeason == season && !n.Phase.Terminal() {
			return n
		}
	}
	return nil
}

// ActiveFor reports whether any non-terminal negotiation exists between a
// team and counterparty for a season, regardless of kind.
func (l *List) ActiveFor(teamID, counterpartyID string, season int) bool {
	for _, n := range l.Items {
		if n.TeamID == teamID && n.CounterpartyID == counterpartyID &&
			n.TargetSeason == season && !n.Phase.Terminal() {
			return true
		}
	}
	return false
}

// #endregion
