package assessment

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/learnpath/backend/internal/models"
	"github.com/learnpath/backend/internal/storage"
)

// SurveyStore persists issued surveys and analysis results. Loads return
// (nil, nil) when nothing has been stored for the pair.
type SurveyStore interface {
	SaveSurvey(ctx context.Context, s *models.Survey) error
	LoadSurvey(ctx context.Context, userID, subject string) (*models.Survey, error)
	SaveAnalysisResult(ctx context.Context, r *models.AnalysisResult) error
	LoadAnalysisResult(ctx context.Context, userID, subject string) (*models.AnalysisResult, error)
}

// SkillStore is the relational mirror of each user's latest level.
type SkillStore interface {
	UpsertSkillRecord(ctx context.Context, userID, subject string, level models.SkillLevel) error
	GetSkillRecord(ctx context.Context, userID, subject string) (*models.SkillRecord, error)
}

const (
	surveyFile = "survey.json"
	resultFile = "survey_answers.json"
)

// FileStore keeps one directory per (user, subject):
//
//	users/{user_id}/{subject}/survey.json
//	users/{user_id}/{subject}/survey_answers.json
//
// Saving overwrites, so the latest survey and result always win.
type FileStore struct {
	docs *storage.DocumentStore
}

func NewFileStore(docs *storage.DocumentStore) *FileStore {
	return &FileStore{docs: docs}
}

func documentKey(userID, subject, name string) (string, error) {
	if err := storage.SafeSegment(userID); err != nil {
		return "", fmt.Errorf("user_id: %w", err)
	}
	if err := storage.SafeSegment(subject); err != nil {
		return "", fmt.Errorf("subject: %w", err)
	}
	return path.Join("users", userID, subject, name), nil
}

func (s *FileStore) SaveSurvey(ctx context.Context, sv *models.Survey) error {
	key, err := documentKey(sv.UserID, sv.Subject, surveyFile)
	if err != nil {
		return err
	}
	return s.docs.SaveJSON(key, sv)
}

func (s *FileStore) LoadSurvey(ctx context.Context, userID, subject string) (*models.Survey, error) {
	key, err := documentKey(userID, subject, surveyFile)
	if err != nil {
		return nil, err
	}
	var sv models.Survey
	if err := s.docs.LoadJSON(key, &sv); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sv, nil
}

func (s *FileStore) SaveAnalysisResult(ctx context.Context, r *models.AnalysisResult) error {
	key, err := documentKey(r.UserID, r.Subject, resultFile)
	if err != nil {
		return err
	}
	return s.docs.SaveJSON(key, r)
}

func (s *FileStore) LoadAnalysisResult(ctx context.Context, userID, subject string) (*models.AnalysisResult, error) {
	key, err := documentKey(userID, subject, resultFile)
	if err != nil {
		return nil, err
	}
	var r models.AnalysisResult
	if err := s.docs.LoadJSON(key, &r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}
