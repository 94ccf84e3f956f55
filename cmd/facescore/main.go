package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/banshee-data/facescore/internal/fsutil"
	"github.com/banshee-data/facescore/internal/monitoring"
)

// Environment variables that supply flag defaults. Both may also be set in
// a .env file in the working directory.
const (
	envDB     = "FACESCORE_DB"
	envConfig = "FACESCORE_CONFIG"
)

const defaultDBPath = "facescore.db"

// settings are the defaults resolved from the environment.
type settings struct {
	dbPath     string
	configPath string
	fs         fsutil.FileSystem
}

func loadSettings() settings {
	s := settings{
		dbPath:     os.Getenv(envDB),
		configPath: os.Getenv(envConfig),
		fs:         fsutil.OSFileSystem{},
	}
	if s.dbPath == "" {
		s.dbPath = defaultDBPath
	}
	return s
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("ignoring .env: %v", err)
	}

	defer func() { _ = monitoring.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, loadSettings()); err != nil {
		log.Fatalf("facescore: %v", err)
	}
}

// run dispatches a subcommand. It is main without the process plumbing.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, s settings) error {
	if len(args) == 0 {
		printUsage(stdout)
		return fmt.Errorf("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "score":
		return runScore(ctx, rest, stdin, stdout, s)
	case "compare":
		return runCompare(rest, stdout, s)
	case "history":
		return runHistory(rest, stdout, s)
	case "trend":
		return runTrend(rest, stdout, s)
	case "chart":
		return runChart(rest, stdout, s)
	case "migrate":
		return runMigrate(rest, stdout, s)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: facescore <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  score    Analyse landmark captures from a JSON file")
	fmt.Fprintln(w, "  compare  Compare the latest stored analysis with the one before it")
	fmt.Fprintln(w, "  history  List recent stored analyses")
	fmt.Fprintln(w, "  trend    Write a PNG chart of overall scores over time")
	fmt.Fprintln(w, "  chart    Write an HTML chart of region scores")
	fmt.Fprintln(w, "  migrate  Manage the database schema")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Defaults come from %s and %s, which may be set in .env.\n", envDB, envConfig)
}
