// Package migration runs schema changes (collections, indexes) against the
// document store and tracks which ones have been applied.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_users_email_unique", &UsersEmailUnique{})
//	}
//
// Run from CLI:
//
//	nftd migrate             // run all pending
//	nftd migrate:rollback    // rollback last batch
//	nftd migrate:status
package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/nftlisting/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

// Record is one applied migration.
type Record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"run_at"`
}

// Store persists applied-migration records.
type Store interface {
	Applied(ctx context.Context) ([]Record, error)
	Add(ctx context.Context, rec Record) error
	Remove(ctx context.Context, name string) error
}

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. name should be
// timestamp-prefixed; migrations run in name order.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Runner executes and tracks migrations.
type Runner struct {
	db         *mongo.Database
	store      Store
	migrations []registeredMigration
	out        io.Writer
}

// New creates a Runner over db that tracks progress in the schema_migrations
// collection.
func New(db *mongo.Database) *Runner {
	return newRunner(db, NewMongoStore(db), registry, os.Stdout)
}

func newRunner(db *mongo.Database, store Store, list []registeredMigration, out io.Writer) *Runner {
	sorted := append([]registeredMigration(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	return &Runner{db: db, store: store, migrations: sorted, out: out}
}

// Pending returns the migrations that have not been applied, in name order.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, reg := range r.migrations {
		if _, ok := applied[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations as a single batch.
func (r *Runner) Run(ctx context.Context) error {
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch applied: %w", err)
	}

	batch := 1
	for _, rec := range applied {
		if rec.Batch >= batch {
			batch = rec.Batch + 1
		}
	}

	ran := 0
	for _, reg := range r.migrations {
		if _, ok := applied[reg.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.store.Add(ctx, Record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", ran, "batch", batch)
	return nil
}

// Rollback reverses every migration from the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	applied, err := r.store.Applied(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch applied: %w", err)
	}

	last := 0
	for _, rec := range applied {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var batch []Record
	for _, rec := range applied {
		if rec.Batch == last {
			batch = append(batch, rec)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name > batch[j].Name })

	byName := make(map[string]Migration, len(r.migrations))
	for _, reg := range r.migrations {
		byName[reg.name] = reg.m
	}

	for _, rec := range batch {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.store.Remove(ctx, rec.Name); err != nil {
			return fmt.Errorf("migration: unrecord %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status(ctx context.Context) error {
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 68))
	for _, reg := range r.migrations {
		if rec, ok := applied[reg.name]; ok {
			fmt.Fprintf(r.out, "%-50s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-50s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) appliedSet(ctx context.Context) (map[string]Record, error) {
	recs, err := r.store.Applied(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]Record, len(recs))
	for _, rec := range recs {
		set[rec.Name] = rec
	}
	return set, nil
}
