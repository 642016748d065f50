package workflow

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

// SeedAdmin creates the admin account if it does not exist yet. An existing
// account keeps its password.
func (s *Store) SeedAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("seed admin: email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := types.Admin{Email: email, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error
}

// VerifyAdmin reports whether the email/password pair matches an admin.
func (s *Store) VerifyAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	var admin types.Admin
	err := s.db.WithContext(ctx).First(&admin, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil, nil
}
