package negotiation

// #region imports
import (
	"hash/fnv"
	"math"

	"github.com/apexsim/paddock/internal/game"
)

// #endregion

// #region secret-margin

// SecretMargin derives a stable minimum profit margin in [1.00, 1.15] from a
// negotiation id. The same negotiation always yields the same floor; the
// player can never observe it. Any stable well-distributed hash works here —
// FNV-1a is used for its uniformity over short ids.
func SecretMargin(negotiationID string) float64 {
	h := fnv.New64a()
	h.Write([]byte(negotiationID))
	u := float64(h.Sum64()) / float64(math.MaxUint64)
	t := DefaultManufacturerTuning()
	return t.SecretMarginLow + u*(t.SecretMarginHigh-t.SecretMarginLow)
}

// #endregion

// #region desperation

// Desperation measures how urgently a manufacturer needs to sign customers
// before the target season, in [0, 1]. securedTeamIDs is the set of teams
// already holding an engine deal for that season.
func Desperation(manufacturerID string, teams []*game.Team, securedTeamIDs map[string]bool, active []game.EngineContract, currentSeason int) float64 {
	current := 0
	secured := 0
	for _, c := range active {
		if c.ManufacturerID != manufacturerID || !c.Covers(currentSeason) {
			continue
		}
		current++
		if securedTeamIDs[c.TeamID] {
			secured++
		}
	}
	needed := current - secured
	if needed <= 0 {
		return 0
	}

	unsigned := 0
	for _, t := range teams {
		if !securedTeamIDs[t.ID] {
			unsigned++
		}
	}
	if unsigned == 0 {
		return 1
	}

	ratio := float64(needed) / float64(unsigned)
	if unsigned <= needed {
		return clamp01(ratio)
	}
	return clamp01(ratio * 0.5)
}

// #endregion

// #region strategic-value

// StrategicValue ranks a team's attractiveness by budget, normalized
// linearly between the league's minimum and maximum. Equal budgets across
// the board yield 0.5.
func StrategicValue(team *game.Team, all []*game.Team) float64 {
	if team == nil || len(all) == 0 {
		return 0.5
	}
	minB := math.Inf(1)
	maxB := math.Inf(-1)
	for _, t := range all {
		minB = math.Min(minB, t.Budget)
		maxB = math.Max(maxB, t.Budget)
	}
	if maxB <= minB {
		return 0.5
	}
	return clamp01((team.Budget - minB) / (maxB - minB))
}

// #endregion

// #region perceived-value

const (
	contributionWeight = 0.375
	positionWeight     = 0.375
	careerDecay        = 0.8
	maxCareerSeasons   = 5
	minRepresentative  = 10 // seasons with fewer races are ignored
)

// DriverPerceivedValue computes a driver's market standing in [0, 1] from
// career history: an exponentially decayed contribution ratio, a decayed
// championship-position component, and a career-milestone scalar. With no
// representative seasons the first two components sit at their neutral
// midpoint.
func DriverPerceivedValue(career []game.SeasonResult) float64 {
	scalar := experienceScalar(career)

	// Most recent first, capped, short seasons excluded as non-representative.
	recent := make([]game.SeasonResult, 0, maxCareerSeasons)
	for i := len(career) - 1; i >= 0 && len(recent) < maxCareerSeasons; i-- {
		if career[i].Races >= minRepresentative {
			recent = append(recent, career[i])
		}
	}
	if len(recent) == 0 {
		return clamp01(contributionWeight + scalar)
	}

	var contribSum, posSum, weightSum float64
	weight := 1.0
	for _, s := range recent {
		ratio := 0.5
		if s.TeamPoints > 0 {
			ratio = clamp01(s.Points / s.TeamPoints)
		}
		pos := s.Position
		if pos <= 0 {
			pos = 20 // missing position counts as last
		}
		contribSum += ratio * weight
		posSum += clamp01(float64(20-pos)/19) * weight
		weightSum += weight
		weight *= careerDecay
	}

	contribution := contributionWeight * (contribSum / weightSum)
	position := positionWeight * (posSum / weightSum)
	return clamp01(contribution + position + scalar)
}

// experienceScalar returns the single highest career milestone, 0 to 0.25.
func experienceScalar(career []game.SeasonResult) float64 {
	scalar := 0.0
	for _, s := range career {
		switch {
		case s.Champion || s.Position == 1:
			return 0.25
		case s.Wins > 0:
			scalar = math.Max(scalar, 0.20)
		case s.Podiums > 0:
			scalar = math.Max(scalar, 0.15)
		case s.Points > 0:
			scalar = math.Max(scalar, 0.10)
		case s.Races > 0:
			scalar = math.Max(scalar, 0.05)
		}
	}
	return scalar
}

// #endregion

// #region manufacturer-cost

// ManufacturerCost is what supplying the offered terms costs the
// manufacturer over the full contract. Customisation is a one-off per
// point of customisation; everything else is yearly.
func ManufacturerCost(m *game.Manufacturer, t ManufacturerTerms) float64 {
	d := float64(t.DurationYears)
	cost := 2*m.BaseEngineCost*d +
		m.UpgradeCost*float64(t.UpgradesIncluded)*d +
		m.CustomisationCost*float64(t.PointsIncluded)
	if t.OptimisationIncluded {
		cost += m.OptimisationCost * d
	}
	return cost
}

// #endregion

// #region floor-price

// FloorPrice is the lowest total a manufacturer will ever accept: cost times
// the secret margin, with the margin eroded by desperation and by high
// strategic value, but never below break-even.
func FloorPrice(cost, secretMargin, desperation, strategicValue float64) float64 {
	t := DefaultManufacturerTuning()
	margin := secretMargin - desperation*t.DesperationMarginCut
	if strategicValue > t.StrategicThreshold {
		margin -= t.StrategicMarginCut
	}
	if margin < 1.0 {
		margin = 1.0
	}
	return cost * margin
}

// #endregion

// #region helpers

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
