package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/facescore/internal/regions"
)

// Language selects the message catalogue.
type Language string

const (
	LangEN Language = "en"
	LangES Language = "es"
)

// Languages lists every supported message language.
var Languages = []Language{LangEN, LangES}

// unchangedEpsilon is the smallest score change reported as a change.
const unchangedEpsilon = 0.05

// Snapshot is the comparable state of one stored analysis.
type Snapshot struct {
	ID           string                           `json:"id,omitempty"`
	OverallScore float64                          `json:"overall_score"`
	CreatedAt    time.Time                        `json:"created_at"`
	Regions      map[regions.Region]RegionMetrics `json:"regions,omitempty"`
}

// RegionChange is the overall-score delta of one region present in both
// snapshots.
type RegionChange struct {
	Region   regions.Region `json:"region"`
	Previous float64        `json:"previous"`
	Current  float64        `json:"current"`
	Change   float64        `json:"change"`
}

// Trend classifies a change.
type Trend string

const (
	TrendFirst     Trend = "first"
	TrendImproved  Trend = "improved"
	TrendUnchanged Trend = "unchanged"
	TrendDeclined  Trend = "declined"
)

// Progress is the result of comparing two snapshots.
type Progress struct {
	IsFirstAnalysis  bool                `json:"is_first_analysis"`
	ScoreChange      float64             `json:"score_change"`
	PercentageChange float64             `json:"percentage_change"`
	HasImproved      bool                `json:"has_improved"`
	Trend            Trend               `json:"trend"`
	Messages         map[Language]string `json:"messages"`
	Emoji            string              `json:"emoji"`
	RegionChanges    []RegionChange      `json:"region_changes,omitempty"`
}

// Message returns the message in lang, falling back to English.
func (p Progress) Message(lang Language) string {
	if m, ok := p.Messages[lang]; ok {
		return m
	}
	return p.Messages[LangEN]
}

// Compare diffs current against previous. A nil previous is the first
// analysis and carries no delta. Compare is pure: the same inputs always
// produce the same Progress.
func Compare(current, previous *Snapshot, hasExercised bool) Progress {
	if current == nil {
		current = &Snapshot{}
	}
	if previous == nil {
		return Progress{
			IsFirstAnalysis: true,
			Trend:           TrendFirst,
			Messages:        messagesFor(TrendFirst, 0, 0, hasExercised),
			Emoji:           emojiFor(TrendFirst, hasExercised),
		}
	}

	change := round1(current.OverallScore - previous.OverallScore)
	pct := 0.0
	if previous.OverallScore != 0 {
		pct = round1((current.OverallScore - previous.OverallScore) / previous.OverallScore * 100)
	}

	trend := TrendUnchanged
	switch delta := current.OverallScore - previous.OverallScore; {
	case delta >= unchangedEpsilon:
		trend = TrendImproved
	case delta <= -unchangedEpsilon:
		trend = TrendDeclined
	}
	if trend == TrendUnchanged {
		change, pct = 0, 0
	}

	return Progress{
		ScoreChange:      change,
		PercentageChange: pct,
		HasImproved:      trend == TrendImproved,
		Trend:            trend,
		Messages:         messagesFor(trend, change, pct, hasExercised),
		Emoji:            emojiFor(trend, hasExercised),
		RegionChanges:    regionChanges(current, previous),
	}
}

func regionChanges(current, previous *Snapshot) []RegionChange {
	var out []RegionChange
	for _, r := range regions.Order {
		cur, okC := current.Regions[r]
		prev, okP := previous.Regions[r]
		if !okC || !okP || cur.OverallScore == nil || prev.OverallScore == nil {
			continue
		}
		out = append(out, RegionChange{
			Region:   r,
			Previous: *prev.OverallScore,
			Current:  *cur.OverallScore,
			Change:   round1(*cur.OverallScore - *prev.OverallScore),
		})
	}
	return out
}

func emojiFor(t Trend, exercised bool) string {
	switch t {
	case TrendFirst:
		return "📸"
	case TrendImproved:
		if exercised {
			return "🎉"
		}
		return "📈"
	case TrendDeclined:
		return "📉"
	default:
		if exercised {
			return "💪"
		}
		return "➖"
	}
}

type catalogue struct {
	first, firstExercised         string
	improved, improvedExercised   string
	unchanged, unchangedExercised string
	declined, declinedExercised   string
}

var catalogues = map[Language]catalogue{
	LangEN: {
		first:              "This is your first analysis. Future analyses will be compared against it.",
		firstExercised:     "This is your first analysis. Keep up your exercises and check back to track your progress.",
		improved:           "Your score improved by %.1f points (%+.1f%%) since your last analysis.",
		improvedExercised:  "Your score improved by %.1f points (%+.1f%%). Your exercises are paying off!",
		unchanged:          "Your score is unchanged since your last analysis.",
		unchangedExercised: "Your score is holding steady. Consistency is key, so keep up your exercises.",
		declined:           "Your score dropped by %.1f points (%+.1f%%) since your last analysis. Lighting and pose can affect results.",
		declinedExercised:  "Your score dropped by %.1f points (%+.1f%%). Lighting and pose can affect results, so keep up your exercises.",
	},
	LangES: {
		first:              "Este es tu primer análisis. Los próximos análisis se compararán con este.",
		firstExercised:     "Este es tu primer análisis. Sigue con tus ejercicios y vuelve para ver tu progreso.",
		improved:           "Tu puntuación mejoró %.1f puntos (%+.1f%%) desde tu último análisis.",
		improvedExercised:  "Tu puntuación mejoró %.1f puntos (%+.1f%%). ¡Tus ejercicios están dando resultado!",
		unchanged:          "Tu puntuación no ha cambiado desde tu último análisis.",
		unchangedExercised: "Tu puntuación se mantiene estable. La constancia es clave, así que sigue con tus ejercicios.",
		declined:           "Tu puntuación bajó %.1f puntos (%+.1f%%) desde tu último análisis. La iluminación y la pose pueden afectar los resultados.",
		declinedExercised:  "Tu puntuación bajó %.1f puntos (%+.1f%%). La iluminación y la pose pueden afectar los resultados, así que sigue con tus ejercicios.",
	},
}

func messagesFor(t Trend, change, pct float64, exercised bool) map[Language]string {
	out := make(map[Language]string, len(Languages))
	for _, lang := range Languages {
		c := catalogues[lang]
		var msg string
		switch t {
		case TrendFirst:
			msg = pick(exercised, c.firstExercised, c.first)
		case TrendImproved:
			msg = fmt.Sprintf(pick(exercised, c.improvedExercised, c.improved), change, pct)
		case TrendDeclined:
			msg = fmt.Sprintf(pick(exercised, c.declinedExercised, c.declined), math.Abs(change), pct)
		default:
			msg = pick(exercised, c.unchangedExercised, c.unchanged)
		}
		out[lang] = msg
	}
	return out
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
