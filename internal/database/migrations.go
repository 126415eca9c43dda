package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds lookup indexes that are not declared on the models.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		// Ordered listings are declared as composite indexes on the models
		{&models.Column{}, "idx_board_columns_order"},
		{&models.Task{}, "idx_tasks_column_order"},

		// Attribution lookups used by user deletion
		{&models.Task{}, "AssignedToID"},
		{&models.Task{}, "CreatedByID"},

		{&models.Board{}, "OwnerID"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithField("index", idx.name).Info("Created index")
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}
