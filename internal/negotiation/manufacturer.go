package negotiation

// #region imports
import (
	"fmt"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region context

// ManufacturerContext is the snapshot a manufacturer needs to answer one
// round. The processor assembles it from shared state; the evaluator itself
// is pure.
type ManufacturerContext struct {
	Negotiation     *Negotiation
	Manufacturer    *game.Manufacturer
	Team            *game.Team
	AllTeams        []*game.Team
	ActiveContracts []game.EngineContract
	SecuredTeamIDs  map[string]bool
	Relationship    float64
	CurrentSeason   int
	Tuning          ManufacturerTuning
}

// #endregion

// #region evaluate

// EvaluateManufacturer runs the manufacturer's side of one negotiation
// round. Hard outcomes are checked in order — defensive reject, works/partner
// bypass, supply cap, ultimatum terminality — before any price reasoning.
func EvaluateManufacturer(ctx ManufacturerContext) Result {
	n := ctx.Negotiation
	t := ctx.Tuning

	round := n.LatestRound()
	if round == nil {
		// Data-integrity defense, not an expected path.
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "negotiation has no rounds",
		}
	}
	if round.OfferedBy != PartyPlayer || round.Terms.Manufacturer == nil {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "latest round is not a player engine offer",
		}
	}
	terms := *round.Terms.Manufacturer

	status := ctx.Manufacturer.SupplyStatusFor(n.TeamID)
	strategic := StrategicValue(ctx.Team, ctx.AllTeams)

	// Works and partner teams are always retained, at any price.
	if status == game.SupplyWorks || status == game.SupplyPartner {
		return Result{
			Response:          ResponseAccept,
			Tone:              ToneWarm,
			DelayDays:         responseDelay(false, t.BaseDelayDays, ctx.Relationship, strategic, t.MaxDelayDays),
			Newsworthy:        true,
			RelationshipDelta: t.WorksRelBonus,
			Reason:            fmt.Sprintf("%s supply to %s renewed", status, n.TeamID),
		}
	}

	// FIA-style supply cap: no more than MaxCustomerTeams customer deals for
	// the target season, regardless of price.
	if countSecuredCustomers(ctx, n.TeamID) >= t.MaxCustomerTeams {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         responseDelay(round.IsUltimatum, t.BaseDelayDays, ctx.Relationship, strategic, t.MaxDelayDays),
			RelationshipDelta: 0,
			Reason:            fmt.Sprintf("customer capacity reached for season %d", n.TargetSeason),
		}
	}

	cost := ManufacturerCost(ctx.Manufacturer, terms)
	margin := SecretMargin(n.ID)
	desperation := Desperation(ctx.Manufacturer.ID, ctx.AllTeams, ctx.SecuredTeamIDs, ctx.ActiveContracts, ctx.CurrentSeason)
	floor := FloorPrice(cost, margin, desperation, strategic)
	comfortable := cost * t.ComfortMarkup
	ideal := cost * t.IdealMarkup
	offered := terms.Total()

	pattern := DetectPattern(n, PartyPlayer)
	stubborn := ConsecutiveStubbornRounds(n, PartyPlayer)

	// The manufacturer issued an ultimatum last round; the player's reply is
	// take-it-or-leave-it against the floor. No further counters exist.
	if pattern == PatternRespondedToUltimatum {
		if offered >= floor {
			return Result{
				Response:          ResponseAccept,
				Tone:              toneFor(pattern, ctx.Relationship),
				DelayDays:         1,
				Newsworthy:        true,
				RelationshipDelta: t.AcceptRelBonus,
				Reason:            "final offer met the minimum acceptable price",
			}
		}
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "final offer below the minimum acceptable price",
		}
	}

	threshold := ManufacturerAcceptanceThreshold(comfortable, floor, round.Number, pattern, t)

	// A player ultimatum collapses the decision to accept-or-reject against
	// the current threshold.
	if round.IsUltimatum {
		if offered >= threshold {
			return Result{
				Response:          ResponseAccept,
				Tone:              toneFor(pattern, ctx.Relationship),
				DelayDays:         1,
				Newsworthy:        true,
				RelationshipDelta: t.AcceptRelBonus,
				Reason:            "ultimatum offer met the acceptance threshold",
			}
		}
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "ultimatum offer below the acceptance threshold",
		}
	}

	// An opening offer is never accepted at or below the ideal ask: there is
	// always a counter to be had. Beyond round one the interpolated
	// threshold decides.
	accept := offered >= threshold
	if pattern == PatternFirstOffer {
		accept = offered > ideal
	}
	if accept {
		return Result{
			Response:          ResponseAccept,
			Tone:              toneFor(pattern, ctx.Relationship),
			DelayDays:         responseDelay(false, t.BaseDelayDays, ctx.Relationship, strategic, t.MaxDelayDays),
			Newsworthy:        true,
			RelationshipDelta: t.AcceptRelBonus,
			Reason:            fmt.Sprintf("offer %.0f met threshold %.0f", offered, threshold),
		}
	}

	// Counter. The opening counter sits at the ideal ask; after that the
	// standing ask walks toward the floor, but only desperation or a
	// high-value team pulls it past the comfortable price.
	target := ideal
	if pattern != PatternFirstOffer {
		limit := comfortable
		if desperation >= t.DesperationThreshold || strategic >= t.StrategicThreshold {
			limit = floor
		}
		prevAsk := ideal
		if prev := n.LastOfferBy(PartyCounterparty); prev != nil && prev.Terms.Manufacturer != nil {
			prevAsk = prev.Terms.Manufacturer.Total()
		}
		target = advanceAsk(prevAsk, limit, t.BaseStep, pattern)
		if target < floor {
			target = floor
		}
		// Never counter below what is already on the table.
		if offered >= target {
			return Result{
				Response:          ResponseAccept,
				Tone:              toneFor(pattern, ctx.Relationship),
				DelayDays:         responseDelay(false, t.BaseDelayDays, ctx.Relationship, strategic, t.MaxDelayDays),
				Newsworthy:        true,
				RelationshipDelta: t.AcceptRelBonus,
				Reason:            "offer reached the current target price",
			}
		}
	}

	escalate := pattern == PatternAggressive ||
		stubborn >= t.StubbornLimit ||
		round.Number >= t.UltimatumRound

	counter := terms
	counter.AnnualCost = target / float64(terms.DurationYears)

	res := Result{
		Response:     ResponseCounter,
		CounterTerms: &Terms{Kind: KindManufacturer, Manufacturer: &counter},
		Tone:         toneFor(pattern, ctx.Relationship),
		DelayDays:    responseDelay(false, t.BaseDelayDays, ctx.Relationship, strategic, t.MaxDelayDays),
		Reason:       fmt.Sprintf("countered %.0f against offer %.0f (pattern %s)", target, offered, pattern),
	}
	if escalate {
		res.IsUltimatum = true
		res.Newsworthy = true
		res.RelationshipDelta = t.UltimatumRelPenalty
		res.DelayDays = 1
		res.Reason = fmt.Sprintf("ultimatum at %.0f (pattern %s, stubborn %d, round %d)", target, pattern, stubborn, round.Number)
	}
	return res
}

// #endregion

// #region threshold

// ManufacturerAcceptanceThreshold interpolates the accept line from the
// comfortable price toward the floor over the first rounds. A great
// concession earns a further discount. The result never drops below the
// floor.
func ManufacturerAcceptanceThreshold(comfortable, floor float64, round int, pattern OfferPattern, t ManufacturerTuning) float64 {
	th := thresholdAt(comfortable, floor, round, t.ThresholdRounds)
	if pattern == PatternGreatConcession {
		th *= t.GreatConcessionBonus
	}
	if th < floor {
		th = floor
	}
	return th
}

// #endregion

// #region helpers

// countSecuredCustomers counts customer teams (other than the negotiating
// one) already signed with the manufacturer for the target season.
func countSecuredCustomers(ctx ManufacturerContext, exceptTeamID string) int {
	n := 0
	for _, c := range ctx.ActiveContracts {
		if c.ManufacturerID != ctx.Manufacturer.ID || !c.Covers(ctx.Negotiation.TargetSeason) {
			continue
		}
		if c.TeamID == exceptTeamID {
			continue
		}
		if ctx.Manufacturer.SupplyStatusFor(c.TeamID) == game.SupplyCustomer {
			n++
		}
	}
	return n
}

// #endregion
