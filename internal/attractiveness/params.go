package attractiveness

import (
	"github.com/banshee-data/facescore/internal/config"
)

// Params holds every tuned constant of the scorer.
type Params struct {
	MinLandmarks      int
	CriticalLandmarks []int
	MediumMaxMissing  int
	LowMaxMissing     int
	Confidence        map[ConfidenceTier]float64

	GeneralWeights    map[string]float64
	SymmetryWeights   map[string]float64
	SymmetryTolerance float64

	ProportionWeights       map[string]float64
	ThirdsTolerance         float64
	IdealEyeSpacingRatio    float64
	EyeSpacingTolerance     float64
	IdealNoseProjection     float64
	NoseProjectionTolerance float64

	HarmonyWeights      map[string]float64
	IdealMouthNoseRatio float64
	MouthNoseTolerance  float64
	IdealLipRatio       float64
	LipRatioTolerance   float64
	IdealPhiltrumRatio  float64
	PhiltrumTolerance   float64
	GenderAdjustment    float64
	StrongJawRatio      float64

	RegionalWeights       map[string]float64
	RegionalContribution  float64
	FlawThreshold         float64
	PenaltyPerFlaw        float64
	MinPenaltyMultiplier  float64
	CalibrationMultiplier float64
	CalibrationOffset     float64

	Labels []config.LabelBand
}

// DefaultParams returns the shipped calibration.
func DefaultParams() Params {
	return ParamsFromConfig(config.EmptyScoringConfig())
}

// ParamsFromConfig reads the scorer settings from cfg.
func ParamsFromConfig(cfg *config.ScoringConfig) Params {
	return Params{
		MinLandmarks:      cfg.GetMinLandmarks(),
		CriticalLandmarks: cfg.GetCriticalLandmarks(),
		MediumMaxMissing:  cfg.GetMediumMaxMissing(),
		LowMaxMissing:     cfg.GetLowMaxMissing(),
		Confidence: map[ConfidenceTier]float64{
			ConfidenceHigh:    cfg.GetConfidenceHigh(),
			ConfidenceMedium:  cfg.GetConfidenceMedium(),
			ConfidenceLow:     cfg.GetConfidenceLow(),
			ConfidenceVeryLow: cfg.GetConfidenceVeryLow(),
		},

		GeneralWeights:    cfg.GetGeneralWeights(),
		SymmetryWeights:   cfg.GetSymmetryWeights(),
		SymmetryTolerance: cfg.GetSymmetryTolerance(),

		ProportionWeights:       cfg.GetProportionWeights(),
		ThirdsTolerance:         cfg.GetThirdsTolerance(),
		IdealEyeSpacingRatio:    cfg.GetIdealEyeSpacingRatio(),
		EyeSpacingTolerance:     cfg.GetEyeSpacingTolerance(),
		IdealNoseProjection:     cfg.GetIdealNoseProjection(),
		NoseProjectionTolerance: cfg.GetNoseProjectionTolerance(),

		HarmonyWeights:      cfg.GetHarmonyWeights(),
		IdealMouthNoseRatio: cfg.GetIdealMouthNoseRatio(),
		MouthNoseTolerance:  cfg.GetMouthNoseTolerance(),
		IdealLipRatio:       cfg.GetIdealLipRatio(),
		LipRatioTolerance:   cfg.GetLipRatioTolerance(),
		IdealPhiltrumRatio:  cfg.GetIdealPhiltrumRatio(),
		PhiltrumTolerance:   cfg.GetPhiltrumTolerance(),
		GenderAdjustment:    cfg.GetGenderAdjustment(),
		StrongJawRatio:      cfg.GetStrongJawRatio(),

		RegionalWeights:       cfg.GetRegionalWeights(),
		RegionalContribution:  cfg.GetRegionalContribution(),
		FlawThreshold:         cfg.GetFlawThreshold(),
		PenaltyPerFlaw:        cfg.GetPenaltyPerFlaw(),
		MinPenaltyMultiplier:  cfg.GetMinPenaltyMultiplier(),
		CalibrationMultiplier: cfg.GetCalibrationMultiplier(),
		CalibrationOffset:     cfg.GetCalibrationOffset(),

		Labels: cfg.GetScoreLabels(),
	}
}
