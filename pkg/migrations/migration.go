package migrations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName stores one record per applied migration
const CollectionName = "_migrations"

// Migration is the record of an applied migration
type Migration struct {
	Version     string    `bson:"version"`
	Description string    `bson:"description"`
	AppliedAt   time.Time `bson:"applied_at"`
	Checksum    string    `bson:"checksum"`
}

// MigrationFunc defines a migration function signature
type MigrationFunc func(ctx context.Context, db *mongo.Database) error

// RegisteredMigration holds migration metadata and functions
type RegisteredMigration struct {
	Version     string
	Description string
	Up          MigrationFunc
	Down        MigrationFunc // optional
}

// Checksum identifies the migration definition
func (m RegisteredMigration) Checksum() string {
	sum := sha256.Sum256([]byte(m.Version + "\x00" + m.Description))
	return hex.EncodeToString(sum[:])
}

// StatusEntry is one line of Runner.Status
type StatusEntry struct {
	Version     string
	Description string
	Applied     bool
	AppliedAt   time.Time
}

// Runner manages database migrations
type Runner struct {
	db         *mongo.Database
	collection *mongo.Collection
	migrations []RegisteredMigration
}

// NewRunner creates a new migration runner
func NewRunner(db *mongo.Database) *Runner {
	return &Runner{
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// Register adds migrations to the runner; they run in version order
func (r *Runner) Register(migrations ...RegisteredMigration) {
	r.migrations = append(r.migrations, migrations...)
	sort.SliceStable(r.migrations, func(i, j int) bool {
		return r.migrations[i].Version < r.migrations[j].Version
	})
}

// Migrations returns the registered migrations in version order
func (r *Runner) Migrations() []RegisteredMigration {
	return append([]RegisteredMigration{}, r.migrations...)
}

// Run applies all pending migrations and returns the applied versions
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureMigrationsIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations index: %w", err)
	}

	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var done []string
	for _, migration := range Pending(r.migrations, applied) {
		slog.InfoContext(ctx, "Running migration",
			"version", migration.Version,
			"description", migration.Description)

		if err := migration.Up(ctx, r.db); err != nil {
			return done, fmt.Errorf("migration %s failed: %w", migration.Version, err)
		}

		record := Migration{
			Version:     migration.Version,
			Description: migration.Description,
			AppliedAt:   time.Now().UTC(),
			Checksum:    migration.Checksum(),
		}
		if _, err := r.collection.InsertOne(ctx, record); err != nil {
			return done, fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}
		done = append(done, migration.Version)
	}

	return done, nil
}

// Rollback rolls back the last n applied migrations and returns their versions
func (r *Runner) Rollback(ctx context.Context, steps int) ([]string, error) {
	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	if steps > len(applied) {
		steps = len(applied)
	}

	registered := make(map[string]RegisteredMigration, len(r.migrations))
	for _, m := range r.migrations {
		registered[m.Version] = m
	}

	var rolledBack []string
	for i := len(applied) - 1; i >= len(applied)-steps; i-- {
		version := applied[i].Version
		migration, ok := registered[version]
		if !ok {
			return rolledBack, fmt.Errorf("migration %s not found in registered migrations", version)
		}
		if migration.Down == nil {
			slog.WarnContext(ctx, "Migration has no rollback, skipping", "version", version)
			continue
		}

		if err := migration.Down(ctx, r.db); err != nil {
			return rolledBack, fmt.Errorf("rollback %s failed: %w", version, err)
		}
		if _, err := r.collection.DeleteOne(ctx, bson.M{"version": version}); err != nil {
			return rolledBack, fmt.Errorf("failed to remove migration record %s: %w", version, err)
		}
		rolledBack = append(rolledBack, version)
	}

	return rolledBack, nil
}

// Status lists every registered migration with its applied state
func (r *Runner) Status(ctx context.Context) ([]StatusEntry, error) {
	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return BuildStatus(r.migrations, applied), nil
}

// Pending returns the registered migrations without an applied record
func Pending(registered []RegisteredMigration, applied []Migration) []RegisteredMigration {
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	var pending []RegisteredMigration
	for _, m := range registered {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

// BuildStatus joins registered migrations with their applied records
func BuildStatus(registered []RegisteredMigration, applied []Migration) []StatusEntry {
	records := make(map[string]Migration, len(applied))
	for _, m := range applied {
		records[m.Version] = m
	}

	entries := make([]StatusEntry, 0, len(registered))
	for _, m := range registered {
		entry := StatusEntry{Version: m.Version, Description: m.Description}
		if record, ok := records[m.Version]; ok {
			entry.Applied = true
			entry.AppliedAt = record.AppliedAt
		}
		entries = append(entries, entry)
	}
	return entries
}

func (r *Runner) ensureMigrationsIndex(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

func (r *Runner) getAppliedMigrations(ctx context.Context) ([]Migration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	migrations := []Migration{}
	if err := cursor.All(ctx, &migrations); err != nil {
		return nil, err
	}
	return migrations, nil
}
