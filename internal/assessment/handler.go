package assessment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/learnpath/backend/internal/models"
	"github.com/learnpath/backend/internal/storage"
	"github.com/learnpath/backend/internal/subjects"
	"github.com/learnpath/backend/internal/survey"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the assessment endpoints on r, normally the
// /api/v1 subrouter.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/subjects", h.ListSubjects).Methods("GET")

	user := r.PathPrefix("/users/{user_id}/subjects/{subject}").Subrouter()
	user.HandleFunc("/survey/generate", h.GenerateSurvey).Methods("POST")
	user.HandleFunc("/survey", h.GetSurvey).Methods("GET")
	user.HandleFunc("/survey/submit", h.SubmitSurvey).Methods("POST")
	user.HandleFunc("/survey/results", h.GetResults).Methods("GET")
	user.HandleFunc("/skill-level", h.GetSkillLevel).Methods("GET")
}

func pathParams(r *http.Request) (userID, subject string) {
	vars := mux.Vars(r)
	return vars["user_id"], vars["subject"]
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SubjectListResponse{Subjects: h.service.Subjects()})
}

func (h *Handler) GenerateSurvey(w http.ResponseWriter, r *http.Request) {
	userID, subject := pathParams(r)

	sv, err := h.service.GenerateSurvey(r.Context(), userID, subject)
	if err != nil {
		writeServiceError(w, "generate survey", err)
		return
	}

	writeJSON(w, http.StatusCreated, sv.ClientView())
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	userID, subject := pathParams(r)

	sv, err := h.service.GetSurvey(r.Context(), userID, subject)
	if err != nil {
		writeServiceError(w, "get survey", err)
		return
	}

	writeJSON(w, http.StatusOK, sv.ClientView())
}

func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	userID, subject := pathParams(r)

	var req models.SubmitSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.service.SubmitSurvey(r.Context(), userID, subject, req.Answers)
	if err != nil {
		writeServiceError(w, "submit survey", err)
		return
	}

	writeJSON(w, http.StatusOK, result.Summary())
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID, subject := pathParams(r)

	result, err := h.service.GetResults(r.Context(), userID, subject)
	if err != nil {
		writeServiceError(w, "get results", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetSkillLevel(w http.ResponseWriter, r *http.Request) {
	userID, subject := pathParams(r)

	rec, err := h.service.GetSkillLevel(r.Context(), userID, subject)
	if err != nil {
		writeServiceError(w, "get skill level", err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeServiceError(w http.ResponseWriter, action string, err error) {
	var unsupported *subjects.UnsupportedSubjectError
	var invalid *survey.ValidationError

	switch {
	case errors.As(err, &unsupported), errors.As(err, &invalid), errors.Is(err, storage.ErrInvalidKey):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrSurveyNotFound), errors.Is(err, ErrResultNotFound), errors.Is(err, ErrSkillNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[handler] %s failed: %v", action, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to " + action})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
