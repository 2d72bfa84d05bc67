package db

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationStatus describes where the schema stands relative to the
// migrations shipped with the binary.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
	Latest  uint `json:"latest"`
}

// Pending reports whether MigrateUp would apply anything.
func (s MigrationStatus) Pending() bool {
	return s.Version < s.Latest
}

func (s MigrationStatus) String() string {
	out := fmt.Sprintf("schema version %d (latest %d)", s.Version, s.Latest)
	if s.Dirty {
		out += " dirty"
	}
	return out
}

// MigrateUp applies every pending migration from src. Being at the latest
// version already is not an error.
func (db *DB) MigrateUp(src fs.FS) error {
	return db.migrateWith(src, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown reverts the most recent migration.
func (db *DB) MigrateDown(src fs.FS) error {
	return db.migrateWith(src, "down", func(m *migrate.Migrate) error { return m.Steps(-1) })
}

// MigrateTo moves the schema up or down to version.
func (db *DB) MigrateTo(src fs.FS, version uint) error {
	return db.migrateWith(src, fmt.Sprintf("to %d", version), func(m *migrate.Migrate) error {
		return m.Migrate(version)
	})
}

// MigrateVersion returns the applied version and dirty flag. A database with
// no migrations applied reports version 0.
func (db *DB) MigrateVersion(src fs.FS) (version uint, dirty bool, err error) {
	m, err := db.newMigrate(src)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// SchemaStatus combines the applied version with the newest version in src.
func (db *DB) SchemaStatus(src fs.FS) (MigrationStatus, error) {
	version, dirty, err := db.MigrateVersion(src)
	if err != nil {
		return MigrationStatus{}, err
	}
	latest, err := LatestMigrationVersion(src)
	if err != nil {
		return MigrationStatus{}, err
	}
	return MigrationStatus{Version: version, Dirty: dirty, Latest: latest}, nil
}

// LatestMigrationVersion walks src and returns the highest version found.
func LatestMigrationVersion(src fs.FS) (uint, error) {
	if src == nil {
		return 0, errors.New("nil migrations filesystem")
	}
	driver, err := iofs.New(src, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to open migrations: %w", err)
	}
	defer driver.Close()

	v, err := driver.First()
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read first migration: %w", err)
	}
	for {
		next, err := driver.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read migration after %d: %w", v, err)
		}
		v = next
	}
}

func (db *DB) migrateWith(src fs.FS, what string, step func(*migrate.Migrate) error) error {
	m, err := db.newMigrate(src)
	if err != nil {
		return err
	}
	// m is not closed: Close would also close the shared *sql.DB.
	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", what, err)
	}
	return nil
}

func (db *DB) newMigrate(src fs.FS) (*migrate.Migrate, error) {
	if src == nil {
		return nil, errors.New("nil migrations filesystem")
	}
	source, err := iofs.New(src, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateLogger routes golang-migrate output to the standard logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }
