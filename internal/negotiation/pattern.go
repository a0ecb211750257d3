package negotiation

// #region detect

// DetectPattern classifies the behavior of one side's recent offers from the
// full round history. classified is the party whose behavior is being read —
// normally the player, as seen by the stakeholder evaluating the deal.
//
// Offers are compared on their oriented headline value: larger always means
// more favorable to the selling side, so "moving up" is a concession by the
// buyer. Sponsor negotiations invert the headline (the sponsor is the payer),
// which keeps the rules below identical for all four kinds.
func DetectPattern(n *Negotiation, classified Party) OfferPattern {
	if len(n.Rounds) == 1 {
		return PatternFirstOffer
	}

	offers := orientedOffers(n, classified)
	if len(offers) < 2 {
		return PatternFirstOffer
	}

	// A prior ultimatum from the opposing side dominates everything else:
	// the classified party is answering it, not negotiating.
	if opp := n.LastOfferBy(classified.Opponent()); opp != nil && opp.IsUltimatum {
		return PatternRespondedToUltimatum
	}

	latest := offers[len(offers)-1]
	previous := offers[len(offers)-2]

	if latest == previous {
		return PatternStubborn
	}
	if latest < previous {
		return PatternAggressive
	}

	// Concession sizing against the opposing ask outstanding at the time of
	// the latest offer.
	ask, ok := opposingAsk(n, classified)
	if !ok {
		return PatternCooperative
	}
	gap := ask - previous
	if gap <= 0 {
		return PatternCooperative
	}
	switch pct := (latest - previous) / gap; {
	case pct >= 0.20:
		return PatternGreatConcession
	case pct >= 0.10:
		return PatternGoodConcession
	default:
		return PatternCooperative
	}
}

// #endregion

// #region stubborn-count

// ConsecutiveStubbornRounds counts how many times in a row the classified
// party has repeated an identical offer, walking back from the latest one.
// Two identical repeats of the same figure count as 2.
func ConsecutiveStubbornRounds(n *Negotiation, classified Party) int {
	offers := orientedOffers(n, classified)
	count := 0
	for i := len(offers) - 1; i > 0; i-- {
		if offers[i] != offers[i-1] {
			break
		}
		count++
	}
	return count
}

// #endregion

// #region helpers

// orientedOffers extracts the classified party's offer series in round order,
// oriented so larger is more favorable to the selling side.
func orientedOffers(n *Negotiation, classified Party) []float64 {
	var offers []float64
	for _, r := range n.Rounds {
		if r.OfferedBy == classified {
			offers = append(offers, orient(n.Kind, r.Terms.Headline()))
		}
	}
	return offers
}

// opposingAsk returns the oriented value of the opponent's most recent
// offer, which is the target the classified party is conceding toward.
func opposingAsk(n *Negotiation, classified Party) (float64, bool) {
	opp := n.LastOfferBy(classified.Opponent())
	if opp == nil {
		return 0, false
	}
	return orient(n.Kind, opp.Terms.Headline()), true
}

// orient negates sponsor figures: the sponsor pays the team, so a lower
// demand is the concession direction.
func orient(kind Kind, v float64) float64 {
	if kind == KindSponsor {
		return -v
	}
	return v
}

// #endregion
