// Package migrations provides database migrations using gormigrate.
package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Each migration runs in its own transaction.
var options = &gormigrate.Options{
	TableName:      "schema_migrations",
	IDColumnName:   "id",
	IDColumnSize:   255,
	UseTransaction: true,
}

// Migrations returns all database migrations in apply order.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createProfilesTable(),
		createAnalysesTable(),
		createCampaignTables(),
	}
}

// Run executes all pending migrations.
func Run(db *gorm.DB) error {
	return gormigrate.New(db, options, Migrations()).Migrate()
}

// RunTo migrates up to and including the migration with the given ID.
func RunTo(db *gorm.DB, id string) error {
	return gormigrate.New(db, options, Migrations()).MigrateTo(id)
}

// Rollback rolls back the last migration.
func Rollback(db *gorm.DB) error {
	return gormigrate.New(db, options, Migrations()).RollbackLast()
}
