package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"queon/internal/auth"
	"queon/internal/exams"
	"queon/internal/models"
	"queon/internal/qr"
	"queon/internal/utils"
)

// Handlers holds the injected collaborators every endpoint needs.
type Handlers struct {
	Exams  *exams.Service
	Auth   *auth.Auth
	Logger *utils.Logger
	Feed   *IncidentFeed
}

func NewHandlers(svc *exams.Service, a *auth.Auth, logger *utils.Logger) *Handlers {
	return &Handlers{
		Exams:  svc,
		Auth:   a,
		Logger: logger,
		Feed:   NewIncidentFeed(logger),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// denial writes the {status:"denied", reason} body validation failures use.
func denial(w http.ResponseWriter, err error) {
	writeJSON(w, utils.HTTPStatus(err), models.ValidateResponse{
		Status: "denied",
		Reason: err.Error(),
	})
}

// CreateExam handles POST /api/exams.
func (h *Handlers) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}

	// Owner is the logged-in invigilator when there is one; the
	// placeholder id otherwise.
	createdBy, err := h.Auth.CurrentInvigilatorID(r)
	if err != nil {
		createdBy = exams.PlaceholderInvigilatorID
	}

	exam, err := h.Exams.CreateSession(r.Context(), req.ExamName, req.Room, req.DurationMinutes, createdBy)
	if err != nil {
		if utils.KindOf(err) == utils.KindInvalidInput {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		h.Logger.Error("create exam: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

// ListExams handles GET /api/exams. Tokens are redacted.
func (h *Handlers) ListExams(w http.ResponseWriter, r *http.Request) {
	all, err := h.Exams.ListExams(r.Context())
	if err != nil {
		h.Logger.Error("list exams: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	out := make([]models.ExamSummary, 0, len(all))
	for _, exam := range all {
		out = append(out, models.ExamSummary{
			ID:              exam.ID,
			ExamName:        exam.ExamName,
			Room:            exam.Room,
			DurationMinutes: exam.DurationMinutes,
			IsActive:        exam.IsActive,
			CreatedByID:     exam.CreatedByID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ValidateEntry handles POST /api/exams/validate-entry.
func (h *Handlers) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	h.validate(w, r, models.PayloadEntry)
}

// ValidateExit handles POST /api/exams/validate-exit.
func (h *Handlers) ValidateExit(w http.ResponseWriter, r *http.Request) {
	h.validate(w, r, models.PayloadExit)
}

func (h *Handlers) validate(w http.ResponseWriter, r *http.Request, purpose models.PayloadType) {
	var req models.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		denial(w, utils.New(utils.KindInvalidInput, "examId and token are required"))
		return
	}

	decision, err := h.Exams.Validate(r.Context(), req.ExamID, req.Token, purpose)
	if err != nil {
		switch utils.KindOf(err) {
		case utils.KindInvalidInput, utils.KindNotFound, utils.KindUnauthorized:
			denial(w, err)
		default:
			h.Logger.Error("validate %s: %v", purpose, err)
			writeJSON(w, http.StatusInternalServerError, models.ValidateResponse{
				Status: "error",
				Reason: "Internal server error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ValidateResponse{
		Status:          "allowed",
		ExamID:          decision.ExamID,
		ExamName:        decision.ExamName,
		DurationMinutes: decision.DurationMinutes,
		Message:         decision.Message,
	})
}

// EntryQr handles GET /api/exams/{id}/qr/entry.
func (h *Handlers) EntryQr(w http.ResponseWriter, r *http.Request) {
	h.examQr(w, r, models.PayloadEntry)
}

// ExitQr handles GET /api/exams/{id}/qr/exit.
func (h *Handlers) ExitQr(w http.ResponseWriter, r *http.Request) {
	h.examQr(w, r, models.PayloadExit)
}

func (h *Handlers) examQr(w http.ResponseWriter, r *http.Request, kind models.PayloadType) {
	examID := mux.Vars(r)["id"]
	exam, err := h.Exams.GetExam(r.Context(), examID)
	if err != nil {
		if utils.KindOf(err) == utils.KindNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Exam not found"})
			return
		}
		h.Logger.Error("fetch exam for qr: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}

	tok := exam.EntryToken
	if kind == models.PayloadExit {
		tok = exam.ExitToken
	}
	payload := models.QrPayload{ExamID: exam.ID, Type: kind, Token: tok}

	dataURL, err := qr.DataURL(payload)
	if err != nil {
		h.Logger.Error("render qr: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, models.QrResponse{
		ExamID:     exam.ID,
		Type:       kind,
		QrDataURL:  dataURL,
		RawPayload: payload,
	})
}

// ReportIncident handles POST /api/exams/incident. The client treats
// this as fire-and-forget, but the server still records what it can and
// pushes it to any live dashboard feeds.
func (h *Handlers) ReportIncident(w http.ResponseWriter, r *http.Request) {
	var inc models.Incident
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "rejected"})
		return
	}
	if err := h.Exams.RecordIncident(r.Context(), &inc); err != nil {
		if utils.KindOf(err) == utils.KindInvalidInput {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "rejected"})
			return
		}
		h.Logger.Error("record incident: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
		return
	}
	h.Logger.Warn("incident %s on exam %s: %s", inc.Type, inc.ExamID, inc.Details)
	h.Feed.Broadcast(inc)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// IncidentFeed handles GET /api/exams/incidents/live.
func (h *Handlers) IncidentFeed(w http.ResponseWriter, r *http.Request) {
	h.Feed.Serve(w, r)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password are required"})
		return
	}
	inv, err := h.Auth.Register(creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
			return
		}
		h.Logger.Error("register invigilator: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": inv.ID, "username": inv.Username})
}

// Login handles POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password are required"})
		return
	}
	if err := h.Auth.Login(creds.Username, creds.Password, r, w); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout handles POST /auth/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r, w); err != nil {
		h.Logger.Error("logout: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
