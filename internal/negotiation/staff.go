package negotiation

// #region imports
import (
	"fmt"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region context

// StaffContext is the snapshot a team chief needs to answer one round.
// Employed reports whether the chief is under contract elsewhere for the
// target season, which changes both the expected raise and the buyout owed.
type StaffContext struct {
	Negotiation  *Negotiation
	Chief        *game.Chief
	Employed     bool
	Relationship float64
	Tuning       StaffTuning
}

// #endregion

// #region evaluate

// EvaluateStaff runs a chief's side of one negotiation round. Employed
// chiefs expect a raise over their current salary plus a buyout for their
// employer; free agents settle below their last salary.
func EvaluateStaff(ctx StaffContext) Result {
	n := ctx.Negotiation
	t := ctx.Tuning
	c := ctx.Chief

	round := n.LatestRound()
	if round == nil || round.OfferedBy != PartyPlayer || round.Terms.Staff == nil {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "latest round is not a player staff offer",
		}
	}
	terms := *round.Terms.Staff

	ask := c.Salary * t.EmployedRaise
	floor := c.Salary * t.FreeAgentDiscount
	buyout := 0.0
	if ctx.Employed {
		floor = c.Salary
		buyout = c.Salary * t.BuyoutRatio
	}

	// Poaching an employed chief without covering the buyout fails outright.
	if ctx.Employed && terms.Buyout < buyout {
		return Result{
			Response:          ResponseReject,
			Tone:              ToneProfessional,
			DelayDays:         1,
			RelationshipDelta: 0,
			Reason:            fmt.Sprintf("buyout %.0f short of %.0f owed to current employer", terms.Buyout, buyout),
		}
	}

	offered := terms.Salary
	pattern := DetectPattern(n, PartyPlayer)
	stubborn := ConsecutiveStubbornRounds(n, PartyPlayer)

	if pattern == PatternRespondedToUltimatum {
		if offered >= floor {
			return acceptStaff(ctx, pattern, 1, "final offer met the salary floor")
		}
		return Result{
			Response:          ResponseReject,
			Tone:              ToneCold,
			DelayDays:         1,
			RelationshipDelta: t.RejectRelPenalty,
			Reason:            "final offer below the salary floor",
		}
	}

	ceiling := c.Salary
	if ctx.Employed {
		ceiling = ask
	}
	threshold := thresholdAt(ceiling, floor, round.Number, t.ThresholdRounds)
	if pattern == PatternGreatConcession {
		th := threshold * 0.95
		if th >= floor {
			threshold = th
		}
	}

	if round.IsUltimatum {
		if offered >= threshold {
			return acceptStaff(ctx, pattern, 1, "ultimatum offer met the acceptance threshold")
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
		return acceptStaff(ctx, pattern, delay, fmt.Sprintf("salary %.0f met threshold %.0f", offered, threshold))
	}

	target := ask
	if pattern != PatternFirstOffer {
		prevAsk := ask
		if prev := n.LastOfferBy(PartyCounterparty); prev != nil && prev.Terms.Staff != nil {
			prevAsk = prev.Terms.Staff.Salary
		}
		target = advanceAsk(prevAsk, floor, t.BaseStep, pattern)
		if target < floor {
			target = floor
		}
		if offered >= target {
			delay := responseDelay(false, t.BaseDelayDays, ctx.Relationship, 0, t.MaxDelayDays)
			return acceptStaff(ctx, pattern, delay, "offer reached the current salary target")
		}
	}

	escalate := pattern == PatternAggressive ||
		stubborn >= t.StubbornLimit ||
		round.Number >= t.UltimatumRound

	counter := StaffTerms{
		Salary:        target,
		DurationYears: terms.DurationYears,
		Buyout:        buyout,
	}
	res := Result{
		Response:     ResponseCounter,
		CounterTerms: &Terms{Kind: KindStaff, Staff: &counter},
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

func acceptStaff(ctx StaffContext, pattern OfferPattern, delay int, reason string) Result {
	return Result{
		Response:          ResponseAccept,
		Tone:              toneFor(pattern, ctx.Relationship),
		DelayDays:         delay,
		Newsworthy:        false,
		RelationshipDelta: ctx.Tuning.AcceptRelBonus,
		Reason:            reason,
	}
}

// #endregion
