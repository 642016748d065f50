package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

var validActions = map[string]bool{
	types.ActionLogin:   true,
	types.ActionPropose: true,
	types.ActionMessage: true,
	types.ActionDone:    true,
}

// LogAction appends a mentor audit entry. Entries are never updated.
func (s *Store) LogAction(ctx context.Context, email, action, details string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("log action: empty email")
	}
	if !validActions[action] {
		return errors.New("log action: unknown action " + action)
	}
	entry := types.MentorAction{
		Email:     email,
		Action:    action,
		Timestamp: s.now().UTC(),
		Details:   details,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// Activity returns audit entries newest first. limit <= 0 returns all.
func (s *Store) Activity(ctx context.Context, limit int) ([]types.MentorAction, error) {
	q := s.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []types.MentorAction
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
