package negotiation

// #region imports
import (
	"fmt"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region context

// SponsorContext is the snapshot a sponsor needs to answer one round.
// Standings sets the position factor on the tier rate; TeamCount is the grid
// size the factor is normalized over.
type SponsorContext struct {
	Negotiation  *Negotiation
	Sponsor      *game.Sponsor
	Standings    game.Standings
	TeamCount    int
	Relationship float64
	Tuning       SponsorTuning
}

// #endregion

// #region rates

// SponsorAnnualRate is the yearly payment a sponsor considers fair for a
// team: the tier's monthly rate times twelve, scaled by championship
// position. The leader earns the full positive swing, the backmarker the
// full negative one; a team absent from the standings sits at neutral.
func SponsorAnnualRate(tier game.SponsorTier, position, teamCount int, t SponsorTuning) float64 {
	monthly := t.MinorMonthly
	switch tier {
	case game.TierTitle:
		monthly = t.TitleMonthly
	case game.TierMajor:
		monthly = t.MajorMonthly
	}
	factor := 1.0
	if position > 0 && teamCount > 1 {
		factor = 1 + t.PositionSwing*(1-2*float64(position-1)/float64(teamCount-1))
	}
	return 12 * monthly * factor
}

// #endregion

// #region evaluate

// EvaluateSponsor runs the sponsor's side of one negotiation round. The
// player demands money; the sponsor pays up to its position-adjusted rate
// plus tolerance, and walks its own offer upward otherwise. Sponsors never
// issue ultimatums: a stalled negotiation runs out of rounds and fails.
func EvaluateSponsor(ctx SponsorContext) Result {
	n := ctx.Negotiation
	t := ctx.Tuning

	round := n.LatestRound()
	if round == nil || round.OfferedBy != PartyPlayer || round.Terms.Sponsor == nil {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "latest round is not a player sponsorship demand",
		}
	}
	terms := *round.Terms.Sponsor

	position := ctx.Standings.PositionOf(n.TeamID)
	rate := SponsorAnnualRate(ctx.Sponsor.Tier, position, ctx.TeamCount, t)
	base := rate * (1 + t.SigningBonusRatio)
	limit := base * t.Tolerance

	demand := terms.SigningBonus + 12*terms.MonthlyPayment
	pattern := DetectPattern(n, PartyPlayer)

	if demand <= limit {
		return Result{
			Response:          ResponseAccept,
			Tone:              toneFor(pattern, ctx.Relationship),
			DelayDays:         responseDelay(round.IsUltimatum, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays),
			Newsworthy:        ctx.Sponsor.Tier == game.TierTitle,
			RelationshipDelta: t.AcceptRelBonus,
			Reason:            fmt.Sprintf("demand %.0f within budget %.0f", demand, limit),
		}
	}

	// A player ultimatum on an over-budget demand ends the deal.
	if round.IsUltimatum {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            fmt.Sprintf("ultimatum demand %.0f over budget %.0f", demand, limit),
		}
	}

	// Walk the sponsor's own offer up toward the budget limit.
	prevOffer := base
	if prev := n.LastOfferBy(PartyCounterparty); prev != nil && prev.Terms.Sponsor != nil {
		prevOffer = prev.Terms.Sponsor.SigningBonus + 12*prev.Terms.Sponsor.MonthlyPayment
	}
	target := advanceAsk(prevOffer, limit, t.BaseStep, pattern)
	if target > limit {
		target = limit
	}

	bonus := target * t.SigningBonusRatio / (1 + t.SigningBonusRatio)
	counter := SponsorTerms{
		SigningBonus:   bonus,
		MonthlyPayment: (target - bonus) / 12,
		Placement:      terms.Placement,
	}
	return Result{
		Response:     ResponseCounter,
		CounterTerms: &Terms{Kind: KindSponsor, Sponsor: &counter},
		Tone:         toneFor(pattern, ctx.Relationship),
		DelayDays:    responseDelay(false, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays),
		Reason:       fmt.Sprintf("offered %.0f against demand %.0f (pattern %s)", target, demand, pattern),
	}
}

// #endregion
