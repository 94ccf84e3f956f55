package db

import (
	"fmt"
	"io"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand. Output goes to w;
// failures are returned for the caller to report.
func RunMigrateCommand(w io.Writer, args []string, dbPath string) error {
	if len(args) < 1 {
		PrintMigrateHelp(w)
		return fmt.Errorf("missing migrate action")
	}
	action := args[0]
	if action == "help" {
		PrintMigrateHelp(w)
		return nil
	}

	// Open without running migrations; the command manages the schema.
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	switch action {
	case "up":
		return handleMigrateUp(w, database)
	case "down":
		return handleMigrateDown(w, database)
	case "status":
		return handleMigrateStatus(w, database)
	case "version":
		if len(args) < 2 {
			return fmt.Errorf("usage: facescore migrate version <version_number>")
		}
		return handleMigrateVersion(w, database, args[1])
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: facescore migrate force <version_number>")
		}
		return handleMigrateForce(w, database, args[1])
	default:
		fmt.Fprintf(w, "Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp(w)
		return fmt.Errorf("unknown migrate action %q", action)
	}
}

func handleMigrateUp(w io.Writer, database *DB) error {
	if err := database.MigrateUp(); err != nil {
		return err
	}
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ All migrations applied. Current version: %d (dirty: %v)\n", version, dirty)
	return nil
}

func handleMigrateDown(w io.Writer, database *DB) error {
	if err := database.MigrateDown(); err != nil {
		return err
	}
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Rolled back one migration. Current version: %d (dirty: %v)\n", version, dirty)
	return nil
}

func handleMigrateStatus(w io.Writer, database *DB) error {
	status, err := database.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Fprintln(w, "=== Migration Status ===")
	fmt.Fprintf(w, "Current version: %d\n", status.CurrentVersion)
	fmt.Fprintf(w, "Latest available: %d\n", status.LatestVersion)
	fmt.Fprintf(w, "Dirty: %v\n", status.Dirty)
	fmt.Fprintf(w, "Schema migrations table exists: %v\n", status.SchemaMigrationsExists)

	switch {
	case status.Dirty:
		fmt.Fprintln(w, "\n⚠️  WARNING: Database is in a dirty state!")
		fmt.Fprintln(w, "A migration failed mid-execution. Inspect the database, then run:")
		fmt.Fprintln(w, "  facescore migrate force <version>")
	case status.Pending():
		fmt.Fprintf(w, "\n⚠️  Database is %d version(s) behind. Run 'facescore migrate up' to update.\n",
			status.LatestVersion-status.CurrentVersion)
	default:
		fmt.Fprintln(w, "\n✓ Database is up to date!")
	}
	return nil
}

func handleMigrateVersion(w io.Writer, database *DB, versionStr string) error {
	target, err := strconv.ParseUint(versionStr, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version number: %s", versionStr)
	}
	if err := database.MigrateTo(uint(target)); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Migrated to version %d\n", target)
	return nil
}

func handleMigrateForce(w io.Writer, database *DB, versionStr string) error {
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return fmt.Errorf("invalid version number: %s", versionStr)
	}
	if err := database.MigrateForce(version); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Migration version forced to %d\n", version)
	return nil
}

// PrintMigrateHelp displays the help message for the migrate command.
func PrintMigrateHelp(w io.Writer) {
	fmt.Fprintln(w, "Database Migration Commands")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: facescore migrate <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  up              Apply all pending migrations")
	fmt.Fprintln(w, "  down            Rollback one migration")
	fmt.Fprintln(w, "  status          Show current migration status and version")
	fmt.Fprintln(w, "  version <N>     Migrate to specific version N")
	fmt.Fprintln(w, "  force <N>       Force migration version to N (recovery only)")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -db <path>    Path to database file (default: $FACESCORE_DB or facescore.db)")
}
