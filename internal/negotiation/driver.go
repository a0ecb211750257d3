package negotiation

// #region imports
import (
	"fmt"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region context

// DriverContext is the snapshot a driver needs to answer one round.
// MarketSalary is the percentile-matched salary for the driver's perceived
// value, computed by the caller against the current grid.
type DriverContext struct {
	Negotiation  *Negotiation
	Driver       *game.Driver
	MarketSalary float64
	Relationship float64
	Tuning       DriverTuning
}

// #endregion

// #region evaluate

// EvaluateDriver runs the driver's side of one negotiation round. The
// driver's ask opens above the market salary and relaxes toward a personal
// floor set by the persistent desperation trait. A competing offer raises
// the floor and, once per negotiation, buys the driver thinking time on a
// below-market bid.
func EvaluateDriver(ctx DriverContext) Result {
	n := ctx.Negotiation
	t := ctx.Tuning
	d := ctx.Driver

	round := n.LatestRound()
	if round == nil || round.OfferedBy != PartyPlayer || round.Terms.Driver == nil {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "latest round is not a player seat offer",
		}
	}
	terms := *round.Terms.Driver

	// A driver who has already decided to move on cannot be retained at any
	// salary.
	if d.CommittedToLeave {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: 0,
			Reason:            fmt.Sprintf("%s has committed to leaving", d.Name),
		}
	}

	ask := ctx.MarketSalary * t.AskMarkup
	floor := ctx.MarketSalary * d.DesperationMultiplier
	if n.HasCompetingOffer {
		competing := ctx.MarketSalary * t.CompetingOfferFloor
		if competing > floor {
			floor = competing
		}
	}

	offered := terms.Salary
	pattern := DetectPattern(n, PartyPlayer)
	stubborn := ConsecutiveStubbornRounds(n, PartyPlayer)

	// With a rival offer in hand and a below-market bid on the table, the
	// driver asks for time exactly once before negotiating on.
	if n.HasCompetingOffer && offered < ctx.MarketSalary && !hasAskedForTime(n) {
		return Result{
			Response:  ResponseNeedTime,
			Tone:      ToneProfessional,
			DelayDays: t.NeedTimeDays,
			Reason:    "weighing a competing offer",
		}
	}

	if pattern == PatternRespondedToUltimatum {
		if offered >= floor {
			return acceptDriver(ctx, pattern, 1, "final offer met the personal floor")
		}
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "final offer below the personal floor",
		}
	}

	threshold := thresholdAt(ctx.MarketSalary, floor, round.Number, t.ThresholdRounds)
	if pattern == PatternGreatConcession {
		th := threshold * 0.95
		if th >= floor {
			threshold = th
		}
	}

	if round.IsUltimatum {
		if offered >= threshold {
			return acceptDriver(ctx, pattern, 1, "ultimatum offer met the acceptance threshold")
		}
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "ultimatum offer below the acceptance threshold",
		}
	}

	accept := offered >= threshold
	if pattern == PatternFirstOffer {
		accept = offered > ask
	}
	if accept {
		delay := responseDelay(false, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays)
		return acceptDriver(ctx, pattern, delay, fmt.Sprintf("salary %.0f met threshold %.0f", offered, threshold))
	}

	target := ask
	if pattern != PatternFirstOffer {
		prevAsk := ask
		if prev := n.LastOfferBy(PartyCounterparty); prev != nil && prev.Terms.Driver != nil {
			prevAsk = prev.Terms.Driver.Salary
		}
		target = advanceAsk(prevAsk, floor, t.BaseStep, pattern)
		if target < floor {
			target = floor
		}
		if offered >= target {
			delay := responseDelay(false, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays)
			return acceptDriver(ctx, pattern, delay, "offer reached the current salary target")
		}
	}

	escalate := pattern == PatternAggressive ||
		stubborn >= t.StubbornLimit ||
		round.Number >= t.UltimatumRound

	counter := DriverTerms{
		Salary:        target,
		DurationYears: terms.DurationYears,
		SigningBonus:  target * t.SigningBonusRatio,
		ReleaseClause: target * t.ReleaseClauseYears,
	}
	res := Result{
		Response:     ResponseCounter,
		CounterTerms: &Terms{Kind: KindDriver, Driver: &counter},
		Tone:         toneFor(pattern, ctx.Relationship),
		DelayDays:    responseDelay(false, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays),
		Reason:       fmt.Sprintf("countered %.0f against salary %.0f (pattern %s)", target, offered, pattern),
	}
	if escalate {
		res.IsUltimatum = true
		res.DelayDays = 1
		res.RelationshipDelta = t.UltimatumRelPenalty
		res.Reason = fmt.Sprintf("ultimatum at %.0f (pattern %s, stubborn %d, round %d)", target, pattern, stubborn, round.Number)
	}
	return res
}

// #endregion

// #region helpers

func acceptDriver(ctx DriverContext, pattern OfferPattern, delay int, reason string) Result {
	return Result{
		Response:          ResponseAccept,
		Tone:              toneFor(pattern, ctx.Relationship),
		DelayDays:         delay,
		Newsworthy:        true,
		RelationshipDelta: ctx.Tuning.AcceptRelBonus,
		Reason:            reason,
	}
}

// hasAskedForTime reports whether the driver already took a need-time pause
// in this negotiation.
func hasAskedForTime(n *Negotiation) bool {
	for _, r := range n.Rounds {
		if r.Response == ResponseNeedTime {
			return true
		}
	}
	return false
}

// #endregion
