package data

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

// Migration is one idempotent schema step. Apply only runs when Needed
// reports true.
type Migration struct {
	Name   string
	Needed func(m gorm.Migrator) bool
	Apply  func(m gorm.Migrator) error
}

func createTable(name string, model any) Migration {
	return Migration{
		Name:   name,
		Needed: func(m gorm.Migrator) bool { return !m.HasTable(model) },
		Apply:  func(m gorm.Migrator) error { return m.CreateTable(model) },
	}
}

func addColumn(name string, model any, field string) Migration {
	return Migration{
		Name:   name,
		Needed: func(m gorm.Migrator) bool { return !m.HasColumn(model, field) },
		Apply:  func(m gorm.Migrator) error { return m.AddColumn(model, field) },
	}
}

// Migrations lists schema steps in the order they were introduced. Databases
// created before meetings were tracked lack the last three submission columns.
var Migrations = []Migration{
	createTable("create admin_submissions", &types.SubmissionRecord{}),
	addColumn("add admin_submissions.updated_at", &types.SubmissionRecord{}, "UpdatedAt"),
	addColumn("add admin_submissions.pickedByEmail", &types.SubmissionRecord{}, "PickedByEmail"),
	addColumn("add admin_submissions.event_id", &types.SubmissionRecord{}, "EventID"),
	createTable("create admin", &types.Admin{}),
	createTable("create mentor_actions", &types.MentorAction{}),
}

// Migrate applies every pending step in order and returns the names applied.
func Migrate(db *gorm.DB) ([]string, error) {
	m := db.Migrator()
	var applied []string
	for _, mig := range Migrations {
		if !mig.Needed(m) {
			continue
		}
		if err := mig.Apply(m); err != nil {
			return applied, fmt.Errorf("migration %q: %w", mig.Name, err)
		}
		log.Printf("migrate: applied %s", mig.Name)
		applied = append(applied, mig.Name)
	}
	return applied, nil
}
