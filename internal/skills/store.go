// Package skills mirrors each user's latest skill level per subject into
// the relational database.
package skills

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/learnpath/backend/internal/models"
)

var ErrNotFound = errors.New("skill record not found")

var placeholder = regexp.MustCompile(`\$(\d+)`)

type Store struct {
	db     *sql.DB
	driver string
}

// NewStore wraps db. driver is the database/sql driver name; for "sqlite"
// postgres-style $N placeholders are rewritten to ?N.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) rebind(query string) string {
	if s.driver != "sqlite" {
		return query
	}
	return placeholder.ReplaceAllString(query, "?$1")
}

func (s *Store) UpsertSkillRecord(ctx context.Context, userID, subject string, level models.SkillLevel) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO user_subject_skills (user_id, subject, skill_level, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, subject) DO UPDATE
		SET skill_level = excluded.skill_level, updated_at = excluded.updated_at`),
		userID, subject, string(level), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert skill record: %w", err)
	}
	return nil
}

func (s *Store) GetSkillRecord(ctx context.Context, userID, subject string) (*models.SkillRecord, error) {
	var rec models.SkillRecord
	var level string
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT user_id, subject, skill_level, updated_at
		FROM user_subject_skills
		WHERE user_id = $1 AND subject = $2`),
		userID, subject,
	).Scan(&rec.UserID, &rec.Subject, &level, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get skill record: %w", err)
	}
	rec.SkillLevel = models.SkillLevel(level)
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}
