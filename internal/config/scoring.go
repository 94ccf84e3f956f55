package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
)

// DefaultConfigPath is the path to the canonical scoring defaults file.
// This is the single source of truth for the calibrated product values.
const DefaultConfigPath = "config/scoring.defaults.json"

// DefaultVersion names the calibration shipped with this build.
const DefaultVersion = "2025.1"

// weightTolerance is how far a weight group may drift from summing to 1.
const weightTolerance = 0.001

// LabelBand maps a minimum score to a display label.
type LabelBand struct {
	Min   float64 `json:"min" validate:"gte=0,lte=10"`
	Label string  `json:"label" validate:"required"`
}

// ScoringConfig holds every tuned product parameter of the scoring
// engine. Nil fields fall back to the defaults returned by the Get*
// methods, so partial files are safe. Weight groups replace the default
// group wholesale and must sum to 1.
type ScoringConfig struct {
	Version *string `json:"version,omitempty"`

	// Frame normalization
	StandardEyeDistance *float64 `json:"standard_eye_distance,omitempty" validate:"omitempty,gt=0"`
	AnchorX             *float64 `json:"anchor_x,omitempty" validate:"omitempty,gte=0"`
	AnchorY             *float64 `json:"anchor_y,omitempty" validate:"omitempty,gte=0"`

	// Multi-capture consistency
	MaxCaptures            *int     `json:"max_captures,omitempty" validate:"omitempty,min=1,max=10"`
	ConsistencySpreadScale *float64 `json:"consistency_spread_scale,omitempty" validate:"omitempty,gt=0"`
	ConsistencyExcellent   *float64 `json:"consistency_excellent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ConsistencyGood        *float64 `json:"consistency_good,omitempty" validate:"omitempty,gte=0,lte=100"`
	ConsistencyWarning     *float64 `json:"consistency_warning,omitempty" validate:"omitempty,gte=0,lte=100"`

	// Region calculators
	EnableFaceShape *bool                         `json:"enable_face_shape,omitempty"`
	RegionWeights   map[string]map[string]float64 `json:"region_weights,omitempty" validate:"omitempty,dive,dive,gte=0,lte=1"`

	// Attractiveness: input quality
	MinLandmarks      *int     `json:"min_landmarks,omitempty" validate:"omitempty,min=1,max=468"`
	CriticalLandmarks []int    `json:"critical_landmarks,omitempty" validate:"omitempty,dive,gte=0,lte=467"`
	MediumMaxMissing  *int     `json:"medium_max_missing,omitempty" validate:"omitempty,min=0"`
	LowMaxMissing     *int     `json:"low_max_missing,omitempty" validate:"omitempty,min=0"`
	ConfidenceHigh    *float64 `json:"confidence_high,omitempty" validate:"omitempty,gte=0,lte=100"`
	ConfidenceMedium  *float64 `json:"confidence_medium,omitempty" validate:"omitempty,gte=0,lte=100"`
	ConfidenceLow     *float64 `json:"confidence_low,omitempty" validate:"omitempty,gte=0,lte=100"`
	ConfidenceVeryLow *float64 `json:"confidence_very_low,omitempty" validate:"omitempty,gte=0,lte=100"`

	// Attractiveness: general geometric scores
	GeneralWeights          map[string]float64 `json:"general_weights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	SymmetryWeights         map[string]float64 `json:"symmetry_weights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	SymmetryTolerance       *float64           `json:"symmetry_tolerance,omitempty" validate:"omitempty,gt=0"`
	ProportionWeights       map[string]float64 `json:"proportion_weights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	ThirdsTolerance         *float64           `json:"thirds_tolerance,omitempty" validate:"omitempty,gt=0"`
	IdealEyeSpacingRatio    *float64           `json:"ideal_eye_spacing_ratio,omitempty" validate:"omitempty,gt=0"`
	EyeSpacingTolerance     *float64           `json:"eye_spacing_tolerance,omitempty" validate:"omitempty,gt=0"`
	IdealNoseProjection     *float64           `json:"ideal_nose_projection,omitempty" validate:"omitempty,gt=0"`
	NoseProjectionTolerance *float64           `json:"nose_projection_tolerance,omitempty" validate:"omitempty,gt=0"`
	HarmonyWeights          map[string]float64 `json:"harmony_weights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	IdealMouthNoseRatio     *float64           `json:"ideal_mouth_nose_ratio,omitempty" validate:"omitempty,gt=0"`
	MouthNoseTolerance      *float64           `json:"mouth_nose_tolerance,omitempty" validate:"omitempty,gt=0"`
	IdealLipRatio           *float64           `json:"ideal_lip_ratio,omitempty" validate:"omitempty,gt=0"`
	LipRatioTolerance       *float64           `json:"lip_ratio_tolerance,omitempty" validate:"omitempty,gt=0"`
	IdealPhiltrumRatio      *float64           `json:"ideal_philtrum_ratio,omitempty" validate:"omitempty,gt=0"`
	PhiltrumTolerance       *float64           `json:"philtrum_tolerance,omitempty" validate:"omitempty,gt=0"`
	GenderAdjustment        *float64           `json:"gender_adjustment,omitempty" validate:"omitempty,gte=0,lte=0.5"`
	StrongJawRatio          *float64           `json:"strong_jaw_ratio,omitempty" validate:"omitempty,gt=0"`

	// Attractiveness: regional blend, penalty and calibration
	RegionalWeights       map[string]float64 `json:"regional_weights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	RegionalContribution  *float64           `json:"regional_contribution,omitempty" validate:"omitempty,gte=0,lte=1"`
	FlawThreshold         *float64           `json:"flaw_threshold,omitempty" validate:"omitempty,gte=0,lte=10"`
	PenaltyPerFlaw        *float64           `json:"penalty_per_flaw,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinPenaltyMultiplier  *float64           `json:"min_penalty_multiplier,omitempty" validate:"omitempty,gte=0,lte=1"`
	CalibrationMultiplier *float64           `json:"calibration_multiplier,omitempty" validate:"omitempty,gt=0"`
	CalibrationOffset     *float64           `json:"calibration_offset,omitempty"`
	ScoreLabels           []LabelBand        `json:"score_labels,omitempty" validate:"omitempty,dive"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyScoringConfig returns a ScoringConfig with all fields unset.
func EmptyScoringConfig() *ScoringConfig {
	return &ScoringConfig{}
}

// DefaultScoringConfig returns a ScoringConfig with every field set to
// its default, suitable for writing out a complete defaults file.
func DefaultScoringConfig() *ScoringConfig {
	e := EmptyScoringConfig()
	return &ScoringConfig{
		Version:                 ptrString(e.GetVersion()),
		StandardEyeDistance:     ptrFloat64(e.GetStandardEyeDistance()),
		AnchorX:                 ptrFloat64(e.GetAnchorX()),
		AnchorY:                 ptrFloat64(e.GetAnchorY()),
		MaxCaptures:             ptrInt(e.GetMaxCaptures()),
		ConsistencySpreadScale:  ptrFloat64(e.GetConsistencySpreadScale()),
		ConsistencyExcellent:    ptrFloat64(e.GetConsistencyExcellent()),
		ConsistencyGood:         ptrFloat64(e.GetConsistencyGood()),
		ConsistencyWarning:      ptrFloat64(e.GetConsistencyWarning()),
		EnableFaceShape:         ptrBool(e.GetEnableFaceShape()),
		MinLandmarks:            ptrInt(e.GetMinLandmarks()),
		CriticalLandmarks:       e.GetCriticalLandmarks(),
		MediumMaxMissing:        ptrInt(e.GetMediumMaxMissing()),
		LowMaxMissing:           ptrInt(e.GetLowMaxMissing()),
		ConfidenceHigh:          ptrFloat64(e.GetConfidenceHigh()),
		ConfidenceMedium:        ptrFloat64(e.GetConfidenceMedium()),
		ConfidenceLow:           ptrFloat64(e.GetConfidenceLow()),
		ConfidenceVeryLow:       ptrFloat64(e.GetConfidenceVeryLow()),
		GeneralWeights:          e.GetGeneralWeights(),
		SymmetryWeights:         e.GetSymmetryWeights(),
		SymmetryTolerance:       ptrFloat64(e.GetSymmetryTolerance()),
		ProportionWeights:       e.GetProportionWeights(),
		ThirdsTolerance:         ptrFloat64(e.GetThirdsTolerance()),
		IdealEyeSpacingRatio:    ptrFloat64(e.GetIdealEyeSpacingRatio()),
		EyeSpacingTolerance:     ptrFloat64(e.GetEyeSpacingTolerance()),
		IdealNoseProjection:     ptrFloat64(e.GetIdealNoseProjection()),
		NoseProjectionTolerance: ptrFloat64(e.GetNoseProjectionTolerance()),
		HarmonyWeights:          e.GetHarmonyWeights(),
		IdealMouthNoseRatio:     ptrFloat64(e.GetIdealMouthNoseRatio()),
		MouthNoseTolerance:      ptrFloat64(e.GetMouthNoseTolerance()),
		IdealLipRatio:           ptrFloat64(e.GetIdealLipRatio()),
		LipRatioTolerance:       ptrFloat64(e.GetLipRatioTolerance()),
		IdealPhiltrumRatio:      ptrFloat64(e.GetIdealPhiltrumRatio()),
		PhiltrumTolerance:       ptrFloat64(e.GetPhiltrumTolerance()),
		GenderAdjustment:        ptrFloat64(e.GetGenderAdjustment()),
		StrongJawRatio:          ptrFloat64(e.GetStrongJawRatio()),
		RegionalWeights:         e.GetRegionalWeights(),
		RegionalContribution:    ptrFloat64(e.GetRegionalContribution()),
		FlawThreshold:           ptrFloat64(e.GetFlawThreshold()),
		PenaltyPerFlaw:          ptrFloat64(e.GetPenaltyPerFlaw()),
		MinPenaltyMultiplier:    ptrFloat64(e.GetMinPenaltyMultiplier()),
		CalibrationMultiplier:   ptrFloat64(e.GetCalibrationMultiplier()),
		CalibrationOffset:       ptrFloat64(e.GetCalibrationOffset()),
		ScoreLabels:             e.GetScoreLabels(),
	}
}

// LoadScoringConfig loads a ScoringConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyScoringConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical scoring defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ScoringConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // from cmd/<tool>/ or deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadScoringConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

var validate = validator.New()

// Validate checks ranges, threshold ordering and that every weight group
// sums to 1.
func (c *ScoringConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if !(c.GetConsistencyExcellent() >= c.GetConsistencyGood() && c.GetConsistencyGood() >= c.GetConsistencyWarning()) {
		return fmt.Errorf("consistency thresholds must be ordered excellent >= good >= warning, got %.1f/%.1f/%.1f",
			c.GetConsistencyExcellent(), c.GetConsistencyGood(), c.GetConsistencyWarning())
	}
	if c.GetMediumMaxMissing() > c.GetLowMaxMissing() {
		return fmt.Errorf("medium_max_missing (%d) must not exceed low_max_missing (%d)",
			c.GetMediumMaxMissing(), c.GetLowMaxMissing())
	}

	groups := map[string]map[string]float64{
		"general_weights":    c.GeneralWeights,
		"symmetry_weights":   c.SymmetryWeights,
		"proportion_weights": c.ProportionWeights,
		"harmony_weights":    c.HarmonyWeights,
		"regional_weights":   c.RegionalWeights,
	}
	for region, w := range c.RegionWeights {
		groups["region_weights."+region] = w
	}
	var errs []error
	for _, name := range sortedKeys(groups) {
		if err := checkWeightSum(name, groups[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkWeightSum(name string, w map[string]float64) error {
	if w == nil {
		return nil
	}
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%s must sum to 1.0, got %.4f", name, sum)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
