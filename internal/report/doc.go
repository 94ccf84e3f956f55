// Package report renders stored analyses as charts: a PNG trend line of
// overall scores and an HTML bar chart comparing region scores between
// two snapshots.
package report
