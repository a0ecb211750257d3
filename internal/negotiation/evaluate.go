package negotiation

// #region imports
import "math"

// #endregion

// #region ask-advance

// advanceAsk moves a standing ask a fraction of the remaining distance
// toward a limit. The step is scaled by the concession multiplier for the
// observed pattern; because every step covers less than the full remainder,
// cumulative movement can never overshoot the limit.
func advanceAsk(prevAsk, limit, baseStep float64, pattern OfferPattern) float64 {
	step := baseStep
	if m, ok := concessionMultipliers[pattern]; ok {
		step *= m
	}
	if step > 1 {
		step = 1
	}
	next := prevAsk + step*(limit-prevAsk)
	// Clamp in either direction of travel.
	if (limit > prevAsk && next > limit) || (limit < prevAsk && next < limit) {
		return limit
	}
	return next
}

// #endregion

// #region tone

// toneFor maps the observed pattern, then the relationship score, to a
// response tone. Pattern reactions override relationship warmth.
func toneFor(pattern OfferPattern, relationship float64) Tone {
	switch pattern {
	case PatternAggressive:
		return ToneInsulted
	case PatternStubborn:
		return ToneDisappointed
	case PatternGreatConcession:
		return ToneEnthusiastic
	}
	switch {
	case relationship >= 85:
		return ToneEnthusiastic
	case relationship >= 70:
		return ToneWarm
	case relationship <= 15:
		return ToneCold
	case relationship <= 30:
		return ToneDisappointed
	default:
		return ToneProfessional
	}
}

// #endregion

// #region delay

// responseDelay computes how many days the counterparty sits on an offer.
// Ultimatums always get an answer in one day. Otherwise the base delay
// shrinks with relationship and (for manufacturers) with the team's
// strategic value, clamped to [1, maxDays].
func responseDelay(isUltimatum bool, base, relationship, strategicValue float64, maxDays int) int {
	if isUltimatum {
		return 1
	}
	d := base - relationship/50 - 2*strategicValue
	days := int(math.Round(d))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// #endregion

// #region interpolation

// thresholdAt interpolates an acceptance threshold from a ceiling toward a
// floor over the configured number of rounds. Round 1 sits at the ceiling;
// by round `rounds` the threshold has fully relaxed.
func thresholdAt(ceiling, floor float64, round, rounds int) float64 {
	if rounds <= 1 {
		return floor
	}
	f := float64(round-1) / float64(rounds-1)
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	th := ceiling - (ceiling-floor)*f
	if th < floor {
		th = floor
	}
	return th
}

// #endregion
