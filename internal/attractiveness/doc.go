// Package attractiveness turns a landmark set, and optionally the regional
// calculator scores, into one calibrated 0-10 score with a label, a
// confidence and a breakdown.
//
// The score always renders: too few landmarks yield a neutral fallback
// instead of an error, and missing critical landmarks lower the reported
// confidence instead of failing. Every tuned constant comes from Params,
// normally built from config.ScoringConfig.
package attractiveness
