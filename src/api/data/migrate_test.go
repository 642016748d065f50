package data

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	applied, err := Migrate(db)
	if err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("fresh database should only need the three create steps, applied %v", applied)
	}

	applied, err = Migrate(db)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("second run should be a no-op, applied %v", applied)
	}
}

func TestMigrateLogsEachStepOnce(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "logged.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	applied, err := Migrate(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	out := buf.String()
	for _, name := range applied {
		if n := strings.Count(out, "migrate: applied "+name+"\n"); n != 1 {
			t.Fatalf("step %q logged %d times:\n%s", name, n, out)
		}
	}
}

func TestMigrateAddsMissingColumnsToLegacyTable(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "legacy.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	legacy := `CREATE TABLE admin_submissions (
		id TEXT PRIMARY KEY, name TEXT, email TEXT, phone TEXT, industry TEXT,
		academicStanding TEXT, lookingFor TEXT, resume TEXT, howTheyHeard TEXT,
		availability TEXT, timeline TEXT, otherInfo TEXT, submitted TEXT,
		status TEXT, pickedBy TEXT)`
	if err := db.Exec(legacy).Error; err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if err := db.Exec(`INSERT INTO admin_submissions (id, name, status, pickedBy) VALUES ('1', 'Amina', 'Done', 'Yusuf')`).Error; err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	if _, err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, field := range []string{"UpdatedAt", "PickedByEmail", "EventID"} {
		if !db.Migrator().HasColumn(&types.SubmissionRecord{}, field) {
			t.Fatalf("column for %s was not added", field)
		}
	}

	var rec types.SubmissionRecord
	if err := db.First(&rec, "id = ?", "1").Error; err != nil {
		t.Fatalf("read legacy row: %v", err)
	}
	if rec.Status != types.StatusDone || rec.PickedBy != "Yusuf" || rec.EventID != "" || rec.PickedByEmail != "" {
		t.Fatalf("unexpected legacy row after migration: %+v", rec)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
