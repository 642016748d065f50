package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

var ErrNotFound = errors.New("submission not found")

// Column names of admin_submissions accepted by Upsert.
const (
	ColStatus        = "status"
	ColPickedBy      = "pickedBy"
	ColPickedByEmail = "pickedByEmail"
	ColEventID       = "event_id"
	ColEmail         = "email"
	colUpdatedAt     = "updated_at"
)

// ContentColumns are the board-sourced columns of a record.
var ContentColumns = []string{
	"name", ColEmail, "phone", "industry", "academicStanding", "lookingFor", "resume",
	"howTheyHeard", "availability", "timeline", "otherInfo", "submitted",
}

// Store persists workflow state, the mentor audit log and admin accounts in a
// single relational database.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Upsert inserts rec, or when a row with rec.ID exists overwrites only the
// named columns. updated_at is always refreshed. Concurrent writers to the same
// id are last-write-wins.
func (s *Store) Upsert(ctx context.Context, rec types.SubmissionRecord, columns ...string) error {
	if rec.ID == "" {
		return errors.New("upsert: empty submission id")
	}
	rec.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	seen := map[string]bool{colUpdatedAt: true}
	cols := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		if c == "id" || seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
	}
	cols = append(cols, colUpdatedAt)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (types.SubmissionRecord, error) {
	var rec types.SubmissionRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	return rec, err
}

// ListAll returns every row. order is a SQL ORDER BY expression such as
// "submitted DESC"; empty leaves the order to the database.
func (s *Store) ListAll(ctx context.Context, order string) ([]types.SubmissionRecord, error) {
	q := s.db.WithContext(ctx).Model(&types.SubmissionRecord{})
	if order != "" {
		q = q.Order(order)
	}
	var rows []types.SubmissionRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Overrides loads the workflow columns of every row keyed by id.
func (s *Store) Overrides(ctx context.Context) (map[string]types.SubmissionRecord, error) {
	var rows []types.SubmissionRecord
	err := s.db.WithContext(ctx).
		Select("id", ColStatus, ColPickedBy, ColPickedByEmail, ColEventID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.SubmissionRecord, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}
