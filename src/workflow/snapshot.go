package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

// ExportSnapshot writes every stored row to path as a JSON array, replacing
// the file atomically. The file is an export of the database and is never
// read back by the server.
func (s *Store) ExportSnapshot(ctx context.Context, path string) error {
	rows, err := s.ListAll(ctx, "submitted DESC")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if rows == nil {
		rows = []types.SubmissionRecord{}
	}
	return writeJSONAtomic(path, rows)
}

// ReadLegacy loads a submissions.json file written by earlier versions of the
// dashboard.
func ReadLegacy(path string) ([]types.SubmissionRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []types.SubmissionRecord
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}

func writeJSONAtomic(path string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ImportLegacy writes every legacy row into the store, overwriting all columns
// of rows that already exist. Rows without an id are skipped and unknown
// statuses become To Do.
func (s *Store) ImportLegacy(ctx context.Context, rows []types.SubmissionRecord) (int, error) {
	all := append(append([]string{}, ContentColumns...), ColStatus, ColPickedBy, ColPickedByEmail, ColEventID)
	n := 0
	for _, rec := range rows {
		if rec.ID == "" {
			continue
		}
		if !rec.Status.Valid() {
			rec.Status = types.StatusToDo
		}
		if err := s.Upsert(ctx, rec, all...); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
