package models

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ── Request Types ─────────────────────────────────────

type SubmitSurveyRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// ── Response Types ────────────────────────────────────

type SubjectSummary struct {
	Name          string   `json:"name"`
	QuestionCount int      `json:"question_count"`
	Topics        []string `json:"topics"`
}

type SubjectListResponse struct {
	Subjects []SubjectSummary `json:"subjects"`
}

type SkillRecord struct {
	UserID     string     `json:"user_id"`
	Subject    string     `json:"subject"`
	SkillLevel SkillLevel `json:"skill_level"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
