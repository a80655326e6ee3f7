package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint onto a gorilla/mux router.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Queon backend API running")
	}).Methods("GET")

	r.HandleFunc("/api/exams", h.CreateExam).Methods("POST")
	r.HandleFunc("/api/exams", h.ListExams).Methods("GET")
	r.HandleFunc("/api/exams/validate-entry", h.ValidateEntry).Methods("POST")
	r.HandleFunc("/api/exams/validate-exit", h.ValidateExit).Methods("POST")
	r.HandleFunc("/api/exams/incident", h.ReportIncident).Methods("POST")
	r.HandleFunc("/api/exams/incidents/live", h.IncidentFeed).Methods("GET")
	r.HandleFunc("/api/exams/{id}/qr/entry", h.EntryQr).Methods("GET")
	r.HandleFunc("/api/exams/{id}/qr/exit", h.ExitQr).Methods("GET")

	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	return r
}
