package config

// GetVersion returns the calibration version or the default.
func (c *ScoringConfig) GetVersion() string {
	if c.Version == nil || *c.Version == "" {
		return DefaultVersion
	}
	return *c.Version
}

// GetStandardEyeDistance returns the normalized inter-ocular distance in pixels.
func (c *ScoringConfig) GetStandardEyeDistance() float64 {
	if c.StandardEyeDistance == nil {
		return 200.0
	}
	return *c.StandardEyeDistance
}

// GetAnchorX returns the canonical nose-tip x coordinate.
func (c *ScoringConfig) GetAnchorX() float64 {
	if c.AnchorX == nil {
		return 500.0
	}
	return *c.AnchorX
}

// GetAnchorY returns the canonical nose-tip y coordinate.
func (c *ScoringConfig) GetAnchorY() float64 {
	if c.AnchorY == nil {
		return 500.0
	}
	return *c.AnchorY
}

// GetMaxCaptures returns the maximum number of captures fused per session.
func (c *ScoringConfig) GetMaxCaptures() int {
	if c.MaxCaptures == nil {
		return 3
	}
	return *c.MaxCaptures
}

// GetConsistencySpreadScale returns the spread (normalized pixels) at which
// consistency has decayed to 1/e of its maximum.
func (c *ScoringConfig) GetConsistencySpreadScale() float64 {
	if c.ConsistencySpreadScale == nil {
		return 6.0
	}
	return *c.ConsistencySpreadScale
}

// GetConsistencyExcellent returns the lower bound of the excellent tier.
func (c *ScoringConfig) GetConsistencyExcellent() float64 {
	if c.ConsistencyExcellent == nil {
		return 85
	}
	return *c.ConsistencyExcellent
}

// GetConsistencyGood returns the lower bound of the good tier.
func (c *ScoringConfig) GetConsistencyGood() float64 {
	if c.ConsistencyGood == nil {
		return 65
	}
	return *c.ConsistencyGood
}

// GetConsistencyWarning returns the lower bound of the warning tier.
func (c *ScoringConfig) GetConsistencyWarning() float64 {
	if c.ConsistencyWarning == nil {
		return 40
	}
	return *c.ConsistencyWarning
}

// GetEnableFaceShape reports whether the face shape plug-in is enabled.
func (c *ScoringConfig) GetEnableFaceShape() bool {
	if c.EnableFaceShape == nil {
		return false // hairline estimation is unreliable
	}
	return *c.EnableFaceShape
}

// GetRegionWeights returns the sub-score weight override for a region, or
// nil when the calculator's built-in weights apply.
func (c *ScoringConfig) GetRegionWeights(region string) map[string]float64 {
	w, ok := c.RegionWeights[region]
	if !ok {
		return nil
	}
	return copyWeights(w)
}

// GetMinLandmarks returns the landmark count below which scoring falls back
// to a neutral result.
func (c *ScoringConfig) GetMinLandmarks() int {
	if c.MinLandmarks == nil {
		return 50
	}
	return *c.MinLandmarks
}

// GetCriticalLandmarks returns the indices whose absence lowers confidence.
func (c *ScoringConfig) GetCriticalLandmarks() []int {
	if c.CriticalLandmarks == nil {
		return []int{
			0, 1, 2, 10, 17, 33, 61, 133, 145, 152,
			159, 172, 234, 263, 291, 362, 374, 386, 397, 454,
		}
	}
	out := make([]int, len(c.CriticalLandmarks))
	copy(out, c.CriticalLandmarks)
	return out
}

// GetMediumMaxMissing returns the most critical landmarks that may be
// missing for MEDIUM confidence.
func (c *ScoringConfig) GetMediumMaxMissing() int {
	if c.MediumMaxMissing == nil {
		return 2
	}
	return *c.MediumMaxMissing
}

// GetLowMaxMissing returns the most critical landmarks that may be missing
// for LOW confidence.
func (c *ScoringConfig) GetLowMaxMissing() int {
	if c.LowMaxMissing == nil {
		return 5
	}
	return *c.LowMaxMissing
}

// GetConfidenceHigh returns the confidence reported for the HIGH tier.
func (c *ScoringConfig) GetConfidenceHigh() float64 {
	if c.ConfidenceHigh == nil {
		return 95
	}
	return *c.ConfidenceHigh
}

// GetConfidenceMedium returns the confidence reported for the MEDIUM tier.
func (c *ScoringConfig) GetConfidenceMedium() float64 {
	if c.ConfidenceMedium == nil {
		return 75
	}
	return *c.ConfidenceMedium
}

// GetConfidenceLow returns the confidence reported for the LOW tier.
func (c *ScoringConfig) GetConfidenceLow() float64 {
	if c.ConfidenceLow == nil {
		return 50
	}
	return *c.ConfidenceLow
}

// GetConfidenceVeryLow returns the confidence reported for the VERY_LOW tier.
func (c *ScoringConfig) GetConfidenceVeryLow() float64 {
	if c.ConfidenceVeryLow == nil {
		return 25
	}
	return *c.ConfidenceVeryLow
}

// GetGeneralWeights returns the symmetry/proportions/harmony blend.
func (c *ScoringConfig) GetGeneralWeights() map[string]float64 {
	if c.GeneralWeights == nil {
		return map[string]float64{"symmetry": 0.40, "proportions": 0.35, "harmony": 0.25}
	}
	return copyWeights(c.GeneralWeights)
}

// GetSymmetryWeights returns the per-feature weights of the symmetry score.
func (c *ScoringConfig) GetSymmetryWeights() map[string]float64 {
	if c.SymmetryWeights == nil {
		return map[string]float64{"eyes": 0.30, "nose": 0.20, "mouth": 0.25, "jaw": 0.25}
	}
	return copyWeights(c.SymmetryWeights)
}

// GetSymmetryTolerance returns the face-width-relative deviation that
// drives the symmetry score to zero.
func (c *ScoringConfig) GetSymmetryTolerance() float64 {
	if c.SymmetryTolerance == nil {
		return 0.10
	}
	return *c.SymmetryTolerance
}

// GetProportionWeights returns the weights of the proportions score.
func (c *ScoringConfig) GetProportionWeights() map[string]float64 {
	if c.ProportionWeights == nil {
		return map[string]float64{"thirds": 0.45, "eye_spacing": 0.35, "nose_projection": 0.20}
	}
	return copyWeights(c.ProportionWeights)
}

// GetThirdsTolerance returns the coefficient of variation of the facial
// thirds that drives the thirds score to zero.
func (c *ScoringConfig) GetThirdsTolerance() float64 {
	if c.ThirdsTolerance == nil {
		return 0.35
	}
	return *c.ThirdsTolerance
}

// GetIdealEyeSpacingRatio returns the ideal intercanthal / eye width ratio.
func (c *ScoringConfig) GetIdealEyeSpacingRatio() float64 {
	if c.IdealEyeSpacingRatio == nil {
		return 1.0
	}
	return *c.IdealEyeSpacingRatio
}

// GetEyeSpacingTolerance returns the eye spacing deviation scored as zero.
func (c *ScoringConfig) GetEyeSpacingTolerance() float64 {
	if c.EyeSpacingTolerance == nil {
		return 0.6
	}
	return *c.EyeSpacingTolerance
}

// GetIdealNoseProjection returns the ideal tip depth / nose width ratio.
func (c *ScoringConfig) GetIdealNoseProjection() float64 {
	if c.IdealNoseProjection == nil {
		return 0.33
	}
	return *c.IdealNoseProjection
}

// GetNoseProjectionTolerance returns the projection deviation scored as zero.
func (c *ScoringConfig) GetNoseProjectionTolerance() float64 {
	if c.NoseProjectionTolerance == nil {
		return 0.33
	}
	return *c.NoseProjectionTolerance
}

// GetHarmonyWeights returns the weights of the harmony score.
func (c *ScoringConfig) GetHarmonyWeights() map[string]float64 {
	if c.HarmonyWeights == nil {
		return map[string]float64{"mouth_nose": 0.40, "lip_ratio": 0.35, "philtrum": 0.25}
	}
	return copyWeights(c.HarmonyWeights)
}

// GetIdealMouthNoseRatio returns the ideal mouth width / nose width ratio.
func (c *ScoringConfig) GetIdealMouthNoseRatio() float64 {
	if c.IdealMouthNoseRatio == nil {
		return 1.5
	}
	return *c.IdealMouthNoseRatio
}

// GetMouthNoseTolerance returns the mouth/nose deviation scored as zero.
func (c *ScoringConfig) GetMouthNoseTolerance() float64 {
	if c.MouthNoseTolerance == nil {
		return 0.6
	}
	return *c.MouthNoseTolerance
}

// GetIdealLipRatio returns the ideal lower / upper lip height ratio.
func (c *ScoringConfig) GetIdealLipRatio() float64 {
	if c.IdealLipRatio == nil {
		return 1.6
	}
	return *c.IdealLipRatio
}

// GetLipRatioTolerance returns the lip ratio deviation scored as zero.
func (c *ScoringConfig) GetLipRatioTolerance() float64 {
	if c.LipRatioTolerance == nil {
		return 1.0
	}
	return *c.LipRatioTolerance
}

// GetIdealPhiltrumRatio returns the ideal subnasale-stomion /
// stomion-menton ratio.
func (c *ScoringConfig) GetIdealPhiltrumRatio() float64 {
	if c.IdealPhiltrumRatio == nil {
		return 0.5
	}
	return *c.IdealPhiltrumRatio
}

// GetPhiltrumTolerance returns the philtrum ratio deviation scored as zero.
func (c *ScoringConfig) GetPhiltrumTolerance() float64 {
	if c.PhiltrumTolerance == nil {
		return 0.3
	}
	return *c.PhiltrumTolerance
}

// GetGenderAdjustment returns the fractional harmony adjustment applied for
// gender-specific traits.
func (c *ScoringConfig) GetGenderAdjustment() float64 {
	if c.GenderAdjustment == nil {
		return 0.05
	}
	return *c.GenderAdjustment
}

// GetStrongJawRatio returns the bigonial to cheek width ratio above which
// the male harmony adjustment is positive.
func (c *ScoringConfig) GetStrongJawRatio() float64 {
	if c.StrongJawRatio == nil {
		return 0.85
	}
	return *c.StrongJawRatio
}

// GetRegionalWeights returns the per-region weights of the regional average.
func (c *ScoringConfig) GetRegionalWeights() map[string]float64 {
	if c.RegionalWeights == nil {
		return map[string]float64{
			"eyes": 0.25, "eyebrows": 0.15, "nose": 0.20, "lips": 0.20, "jawline": 0.20,
		}
	}
	return copyWeights(c.RegionalWeights)
}

// GetRegionalContribution returns the share of the regional average in the
// blended score.
func (c *ScoringConfig) GetRegionalContribution() float64 {
	if c.RegionalContribution == nil {
		return 0.70
	}
	return *c.RegionalContribution
}

// GetFlawThreshold returns the regional score below which a region counts
// as a severe flaw.
func (c *ScoringConfig) GetFlawThreshold() float64 {
	if c.FlawThreshold == nil {
		return 4.0
	}
	return *c.FlawThreshold
}

// GetPenaltyPerFlaw returns the multiplier reduction per severe flaw.
func (c *ScoringConfig) GetPenaltyPerFlaw() float64 {
	if c.PenaltyPerFlaw == nil {
		return 0.08
	}
	return *c.PenaltyPerFlaw
}

// GetMinPenaltyMultiplier returns the floor of the flaw penalty multiplier.
func (c *ScoringConfig) GetMinPenaltyMultiplier() float64 {
	if c.MinPenaltyMultiplier == nil {
		return 0.70
	}
	return *c.MinPenaltyMultiplier
}

// GetCalibrationMultiplier returns the calibration slope.
func (c *ScoringConfig) GetCalibrationMultiplier() float64 {
	if c.CalibrationMultiplier == nil {
		return 1.05
	}
	return *c.CalibrationMultiplier
}

// GetCalibrationOffset returns the calibration intercept.
func (c *ScoringConfig) GetCalibrationOffset() float64 {
	if c.CalibrationOffset == nil {
		return 0.20
	}
	return *c.CalibrationOffset
}

// GetScoreLabels returns the label bands ordered from highest minimum down.
func (c *ScoringConfig) GetScoreLabels() []LabelBand {
	if c.ScoreLabels == nil {
		return []LabelBand{
			{Min: 8.5, Label: "Exceptional"},
			{Min: 7.5, Label: "Very Attractive"},
			{Min: 6.5, Label: "Attractive"},
			{Min: 5.5, Label: "Above Average"},
			{Min: 4.5, Label: "Average"},
			{Min: 0, Label: "Below Average"},
		}
	}
	out := make([]LabelBand, len(c.ScoreLabels))
	copy(out, c.ScoreLabels)
	return out
}

func copyWeights(w map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
