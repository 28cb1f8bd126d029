package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"spawn-admin/pkg/app"
	pkgMigrations "spawn-admin/pkg/migrations"

	localMigrations "spawn-admin/migrations"
)

var migrationName = regexp.MustCompile(`^[a-z0-9_]+$`)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		steps   = flag.Int("steps", 1, "Number of migrations to rollback (for down command)")
		name    = flag.String("name", "", "Migration name in snake_case (for create command)")
		dryRun  = flag.Bool("dry-run", false, "Show pending migrations without executing")
	)
	flag.Parse()

	if *command == "create" {
		if err := createMigration("migrations", *name); err != nil {
			log.Fatalf("❌ Failed to create migration: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	appCtx, err := app.InitializeApp(ctx, "spawn-migrate", app.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(context.Background())

	if appCtx.MongoDB == nil {
		log.Fatal("❌ MongoDB is required to run migrations")
	}

	runner := pkgMigrations.NewRunner(appCtx.MongoDB.Database)
	localMigrations.RegisterAll(runner)

	switch *command {
	case "up":
		if *dryRun {
			fmt.Println("⚠️  DRY RUN MODE - No changes will be made")
			printStatus(ctx, runner)
			return
		}
		fmt.Println("🚀 Running database migrations...")
		applied, err := runner.Run(ctx)
		for _, version := range applied {
			fmt.Printf("✅ Migration %s completed\n", version)
		}
		if err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		if len(applied) == 0 {
			fmt.Println("✅ Database is up to date")
		}

	case "down":
		if *dryRun {
			fmt.Println("⚠️  DRY RUN MODE - No changes will be made")
			printStatus(ctx, runner)
			return
		}
		fmt.Printf("🔄 Rolling back %d migration(s)...\n", *steps)
		rolledBack, err := runner.Rollback(ctx, *steps)
		for _, version := range rolledBack {
			fmt.Printf("✅ Rolled back %s\n", version)
		}
		if err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}

	case "status":
		printStatus(ctx, runner)

	default:
		log.Fatalf("❌ Unknown command: %s", *command)
	}
}

func printStatus(ctx context.Context, runner *pkgMigrations.Runner) {
	entries, err := runner.Status(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to get migration status: %v", err)
	}

	fmt.Println("\n📊 Migration Status:")
	fmt.Println(strings.Repeat("=", 80))

	applied := 0
	for _, entry := range entries {
		status := "⏳ Pending"
		appliedAt := ""
		if entry.Applied {
			applied++
			status = "✅ Applied"
			appliedAt = fmt.Sprintf(" (at %s)", entry.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%s %s - %s%s\n", status, entry.Version, entry.Description, appliedAt)
	}

	fmt.Printf("\nTotal: %d migrations (%d applied, %d pending)\n", len(entries), applied, len(entries)-applied)
}

const migrationTemplate = `package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	Register(Migration{
		Version:     "%[1]s_%[2]s",
		Description: "%[3]s",
		Up:          up%[1]s,
		Down:        down%[1]s,
	})
}

func up%[1]s(ctx context.Context, db *mongo.Database) error {
	return nil
}

func down%[1]s(ctx context.Context, db *mongo.Database) error {
	return nil
}
`

// createMigration writes a new migration skeleton into dir
func createMigration(dir, name string) error {
	if !migrationName.MatchString(name) {
		return fmt.Errorf("migration name %q must be snake_case", name)
	}

	version := fmt.Sprintf("%03d", nextVersionNumber(dir))
	filename := fmt.Sprintf("%s/%s_%s.go", dir, version, name)
	description := strings.ReplaceAll(name, "_", " ")
	content := fmt.Sprintf(migrationTemplate, version, name, description)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("migration file %s already exists", filename)
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return err
	}

	fmt.Printf("✅ Created migration file: %s\n", filename)
	return nil
}

// nextVersionNumber returns one past the highest NNN_ prefix in dir
func nextVersionNumber(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}

	maxVersion := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%03d_", &version); err == nil && version > maxVersion {
			maxVersion = version
		}
	}
	return maxVersion + 1
}
