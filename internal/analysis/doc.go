// Package analysis runs the full scoring pipeline over the captures of one
// session and produces the AnalysisRecord that is stored for trend
// tracking.
//
// Pipeline: normalize each capture, average them, run the region
// calculators on the averaged set, score attractiveness, then serialize
// everything into the record's metrics document. Quality problems along
// the way are recorded as data on the result; only structural failures
// (no captures, cancelled context) are returned as errors.
package analysis
