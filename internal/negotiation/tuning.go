package negotiation

// #region manufacturer-tuning

// ManufacturerTuning holds every constant the manufacturer evaluator uses.
// Centralized so tuning never touches formula logic.
type ManufacturerTuning struct {
	IdealMarkup          float64 // opening ask as a multiple of cost
	ComfortMarkup        float64 // lowest markup outside desperation
	SecretMarginLow      float64 // secret margin range, hashed per negotiation
	SecretMarginHigh     float64
	DesperationMarginCut float64 // margin reduction per unit desperation
	StrategicMarginCut   float64 // flat margin cut for high-value teams
	StrategicThreshold   float64
	DesperationThreshold float64
	BaseStep             float64 // fraction of remaining distance conceded per round
	GreatConcessionBonus float64 // threshold discount on great-concession
	ThresholdRounds      int     // rounds over which threshold relaxes to floor
	UltimatumRound       int     // round number that triggers escalation
	StubbornLimit        int     // consecutive stubborn rounds before ultimatum
	MaxCustomerTeams     int     // FIA-style supply cap, works/partner excluded
	AcceptRelBonus       float64
	WorksRelBonus        float64
	RejectRelPenalty     float64
	UltimatumRelPenalty  float64
	BaseDelayDays        float64
	MaxDelayDays         int
	CounterExpiryDays    int
}

// concessionMultipliers scales the per-round step by the player's behavior.
var concessionMultipliers = map[OfferPattern]float64{
	PatternGreatConcession: 1.5,
	PatternGoodConcession:  1.2,
	PatternStubborn:        0.5,
	PatternAggressive:      0.3,
}

// DefaultManufacturerTuning returns the shipped manufacturer constants.
func DefaultManufacturerTuning() ManufacturerTuning {
	return ManufacturerTuning{
		IdealMarkup:          1.30,
		ComfortMarkup:        1.15,
		SecretMarginLow:      1.00,
		SecretMarginHigh:     1.15,
		DesperationMarginCut: 0.20,
		StrategicMarginCut:   0.08,
		StrategicThreshold:   0.7,
		DesperationThreshold: 0.3,
		BaseStep:             0.20,
		GreatConcessionBonus: 0.95,
		ThresholdRounds:      5,
		UltimatumRound:       5,
		StubbornLimit:        2,
		MaxCustomerTeams:     3,
		AcceptRelBonus:       2,
		WorksRelBonus:        5,
		RejectRelPenalty:     -5,
		UltimatumRelPenalty:  -3,
		BaseDelayDays:        3,
		MaxDelayDays:         7,
		CounterExpiryDays:    14,
	}
}

// #endregion

// #region driver-tuning

// DriverTuning holds the driver evaluator constants. The per-driver
// desperation multiplier is not here: it is a persistent trait on the driver
// record, rolled once at career start.
type DriverTuning struct {
	AskMarkup           float64 // opening ask as a multiple of market target
	BaseStep            float64
	ThresholdRounds     int
	UltimatumRound      int
	StubbornLimit       int
	CompetingOfferFloor float64 // acceptance floor bump when a rival bids
	SigningBonusRatio   float64 // bonus asked as a fraction of salary
	ReleaseClauseYears  float64 // release clause asked in salary-years
	NeedTimeDays        int
	AcceptRelBonus      float64
	RejectRelPenalty    float64
	UltimatumRelPenalty float64
	BaseDelayDays       float64
	MaxDelayDays        int
	CounterExpiryDays   int
}

// DefaultDriverTuning returns the shipped driver constants.
func DefaultDriverTuning() DriverTuning {
	return DriverTuning{
		AskMarkup:           1.20,
		BaseStep:            0.25,
		ThresholdRounds:     5,
		UltimatumRound:      5,
		StubbornLimit:       2,
		CompetingOfferFloor: 1.10,
		SigningBonusRatio:   0.15,
		ReleaseClauseYears:  1.5,
		NeedTimeDays:        3,
		AcceptRelBonus:      3,
		RejectRelPenalty:    -4,
		UltimatumRelPenalty: -3,
		BaseDelayDays:       2,
		MaxDelayDays:        5,
		CounterExpiryDays:   10,
	}
}

// #endregion

// #region staff-tuning

// StaffTuning holds the staff evaluator constants.
type StaffTuning struct {
	EmployedRaise       float64 // expected raise over current salary
	FreeAgentDiscount   float64 // acceptance floor discount for free agents
	BuyoutRatio         float64 // buyout owed as a fraction of current salary
	BaseStep            float64
	ThresholdRounds     int
	UltimatumRound      int
	StubbornLimit       int
	AcceptRelBonus      float64
	RejectRelPenalty    float64
	UltimatumRelPenalty float64
	BaseDelayDays       float64
	MaxDelayDays        int
	CounterExpiryDays   int
}

// DefaultStaffTuning returns the shipped staff constants.
func DefaultStaffTuning() StaffTuning {
	return StaffTuning{
		EmployedRaise:       1.10,
		FreeAgentDiscount:   0.85,
		BuyoutRatio:         0.50,
		BaseStep:            0.25,
		ThresholdRounds:     4,
		UltimatumRound:      5,
		StubbornLimit:       3,
		AcceptRelBonus:      2,
		RejectRelPenalty:    -3,
		UltimatumRelPenalty: -2,
		BaseDelayDays:       2,
		MaxDelayDays:        5,
		CounterExpiryDays:   10,
	}
}

// #endregion

// #region sponsor-tuning

// SponsorTuning holds the sponsor evaluator constants. Sponsors never issue
// ultimatums; a stalled negotiation fails at MaxRounds instead.
type SponsorTuning struct {
	TitleMonthly      float64 // base monthly payment per tier
	MajorMonthly      float64
	MinorMonthly      float64
	SigningBonusRatio float64 // signing bonus as a fraction of annual payment
	Tolerance         float64 // demand accepted up to rate * tolerance
	PositionSwing     float64 // rate adjustment across the standings
	BaseStep          float64
	ThresholdRounds   int
	AcceptRelBonus    float64
	RejectRelPenalty  float64
	BaseDelayDays     float64
	MaxDelayDays      int
	CounterExpiryDays int
}

// DefaultSponsorTuning returns the shipped sponsor constants.
func DefaultSponsorTuning() SponsorTuning {
	return SponsorTuning{
		TitleMonthly:      2_500_000,
		MajorMonthly:      1_000_000,
		MinorMonthly:      300_000,
		SigningBonusRatio: 0.25,
		Tolerance:         1.10,
		PositionSwing:     0.5,
		BaseStep:          0.20,
		ThresholdRounds:   4,
		AcceptRelBonus:    2,
		RejectRelPenalty:  -2,
		BaseDelayDays:     3,
		MaxDelayDays:      7,
		CounterExpiryDays: 21,
	}
}

// #endregion

// #region bundle

// Tuning bundles all stakeholder tunings for the processor.
type Tuning struct {
	Manufacturer ManufacturerTuning
	Driver       DriverTuning
	Staff        StaffTuning
	Sponsor      SponsorTuning
}

// DefaultTuning returns the shipped constants for every stakeholder kind.
func DefaultTuning() Tuning {
	return Tuning{
		Manufacturer: DefaultManufacturerTuning(),
		Driver:       DefaultDriverTuning(),
		Staff:        DefaultStaffTuning(),
		Sponsor:      DefaultSponsorTuning(),
	}
}

// #endregion
