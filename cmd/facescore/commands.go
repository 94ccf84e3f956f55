package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/facescore/internal/analysis"
	"github.com/banshee-data/facescore/internal/attractiveness"
	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/db"
	"github.com/banshee-data/facescore/internal/fsutil"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/metrics"
	"github.com/banshee-data/facescore/internal/monitoring"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/report"
	"github.com/banshee-data/facescore/internal/security"
	"github.com/banshee-data/facescore/internal/units"
)

func newFlagSet(name string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	return fs
}

func runScore(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, s settings) error {
	fs := newFlagSet("score", stdout)
	in := fs.String("in", "-", "Landmark JSON file (- for stdin)")
	mirrored := fs.Bool("mirrored", false, "Captures came from a mirrored front camera")
	gender := fs.String("gender", "", "Gender for harmony adjustments: f or m")
	store := fs.Bool("store", false, "Store the analysis in the database")
	asJSON := fs.Bool("json", false, "Print the full metrics document as JSON")
	showMetrics := fs.Bool("metrics", false, "Print every region metric")
	angleUnits := fs.String("units", units.Degrees, "Units for angle metrics: deg or rad")
	cfgPath := fs.String("config", s.configPath, "Scoring config JSON (default: built-in)")
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *angleUnits != units.Degrees && *angleUnits != units.Radians {
		return fmt.Errorf("invalid -units %q: angle units must be %s or %s", *angleUnits, units.Degrees, units.Radians)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	var r io.Reader = stdin
	if *in != "-" {
		data, err := s.fs.ReadFile(*in)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		r = bytes.NewReader(data)
	}
	captures, err := readCaptures(r, *mirrored)
	if err != nil {
		return err
	}

	opts := analysis.Options{Gender: attractiveness.ParseGender(*gender)}
	res, err := analysis.New(cfg).AnalyzePhotos(ctx, landmark.NewBoundary(captures), captures.photos, opts)
	if err != nil {
		return fmt.Errorf("analyse: %w", err)
	}

	if *store {
		database, err := db.NewDB(*dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Analyses().Insert(res.Record); err != nil {
			return fmt.Errorf("store analysis: %w", err)
		}
		monitoring.Logf("stored analysis %s in %s", res.Record.ID, database.Path())
	}

	if *asJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, res.Record.Metrics, "", "  "); err != nil {
			return fmt.Errorf("format metrics: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(stdout)
		return err
	}
	printResult(stdout, res, *showMetrics, *angleUnits)
	return nil
}

func printResult(w io.Writer, res *analysis.Result, showMetrics bool, angleUnits string) {
	a := res.Attractiveness
	fmt.Fprintf(w, "Analysis %s\n", res.Record.ID)
	fmt.Fprintf(w, "Overall:    %.1f (%s)\n", a.OverallScore, a.ScoreLabel)
	fmt.Fprintf(w, "Confidence: %s %.0f\n", a.ConfidenceTier, a.Confidence)
	fmt.Fprintf(w, "Breakdown:  symmetry %.1f, proportions %.1f, harmony %.1f\n",
		a.Breakdown.Symmetry, a.Breakdown.Proportions, a.Breakdown.Harmony)
	if res.Regions != nil {
		for _, c := range res.Regions.Ordered() {
			line := fmt.Sprintf("  %-10s %4.1f  %s", c.Region, c.OverallScore, c.AsymmetryLevel)
			if c.Classification != "" {
				line += "  " + c.Classification
			}
			fmt.Fprintln(w, line)
			if showMetrics {
				printMetrics(w, c, angleUnits)
			}
		}
		for _, r := range regions.Order {
			if err, ok := res.Regions.Errors[r]; ok {
				fmt.Fprintf(w, "  %-10s unavailable: %v\n", r, err)
			}
		}
	}
	for _, n := range a.Notes {
		fmt.Fprintf(w, "Note: %s\n", n)
	}
}

func printMetrics(w io.Writer, c *regions.Calculation, angleUnits string) {
	for _, m := range c.Metrics {
		value, unit := m.Value, m.Unit
		if unit == units.Degrees {
			value, unit = units.ConvertAngle(value, angleUnits), angleUnits
		}
		if !units.IsValid(unit) {
			unit = units.Ratio
		}
		fmt.Fprintf(w, "      %-28s %s\n", m.Name, units.Format(value, unit))
	}
}

func runCompare(args []string, stdout io.Writer, s settings) error {
	fs := newFlagSet("compare", stdout)
	exercised := fs.Bool("exercised", false, "Exercises were done since the previous analysis")
	lang := fs.String("lang", string(metrics.LangEN), "Message language: en or es")
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	current, previous, err := latestPair(database.Analyses())
	if err != nil {
		return err
	}
	p := metrics.Compare(db.Snapshot(current), db.Snapshot(previous), *exercised)
	fmt.Fprintf(stdout, "%s %s\n", p.Emoji, p.Message(metrics.Language(strings.ToLower(*lang))))
	for _, rc := range p.RegionChanges {
		fmt.Fprintf(stdout, "  %-10s %4.1f -> %4.1f (%+.1f)\n", rc.Region, rc.Previous, rc.Current, rc.Change)
	}
	return nil
}

func runHistory(args []string, stdout io.Writer, s settings) error {
	fs := newFlagSet("history", stdout)
	limit := fs.Int("limit", 10, "Number of analyses to list")
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	recs, err := database.Analyses().ListRecent(*limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(stdout, "No analyses stored.")
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(stdout, "%s  %s  %4.1f  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.ID, r.OverallScore, r.ConfigVersion)
	}
	return nil
}

func runTrend(args []string, stdout io.Writer, s settings) error {
	fs := newFlagSet("trend", stdout)
	out := fs.String("out", "trend.png", "Output PNG path (within the working or temp directory)")
	limit := fs.Int("limit", 30, "Number of recent analyses to plot")
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := security.ValidateOutputPath(*out, ".png"); err != nil {
		return err
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	recs, err := database.Analyses().ListRecent(*limit)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteTrendPNG(recs, &buf); err != nil {
		return err
	}
	if err := fsutil.WriteReport(s.fs, *out, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s (%d analyses)\n", *out, len(recs))
	return nil
}

func runChart(args []string, stdout io.Writer, s settings) error {
	fs := newFlagSet("chart", stdout)
	out := fs.String("out", "", "Output HTML path (default regions-<analysis id>.html)")
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out != "" {
		if err := security.ValidateOutputPath(*out, ".html"); err != nil {
			return err
		}
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	current, previous, err := latestPair(database.Analyses())
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = security.ReportFilename("regions", current.ID, ".html")
	}
	var buf bytes.Buffer
	if err := report.WriteRegionChartHTML(db.Snapshot(current), db.Snapshot(previous), &buf); err != nil {
		return err
	}
	if err := fsutil.WriteReport(s.fs, path, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func runMigrate(args []string, stdout io.Writer, s settings) error {
	fs := newFlagSet("migrate", stdout)
	dbPath := fs.String("db", s.dbPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return db.RunMigrateCommand(stdout, fs.Args(), *dbPath)
}

// latestPair returns the newest analysis and the one before it. previous
// is nil when only one analysis is stored.
func latestPair(store *db.AnalysisStore) (current, previous *db.AnalysisRecord, err error) {
	current, err = store.Latest()
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, errors.New("no analyses stored; run score -store first")
	}
	if err != nil {
		return nil, nil, err
	}
	previous, err = store.Previous(current)
	if errors.Is(err, db.ErrNotFound) {
		return current, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return current, previous, nil
}

func loadConfig(path string) (*config.ScoringConfig, error) {
	if path == "" {
		return config.EmptyScoringConfig(), nil
	}
	cfg, err := config.LoadScoringConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	monitoring.Logf("loaded scoring config %s (version %s)", path, cfg.GetVersion())
	return cfg, nil
}
