package exams

import (
	"context"
	"strings"
	"testing"

	"queon/internal/models"
	"queon/internal/store"
	"queon/internal/utils"
)

func newTestService() *Service {
	return NewService(store.NewMemoryStore())
}

func mustCreate(t *testing.T, svc *Service) *models.ExamSession {
	t.Helper()
	exam, err := svc.CreateSession(context.Background(), "Physics Midterm", nil, 60, "")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return exam
}

func TestCreateSessionGeneratesDistinctTokens(t *testing.T) {
	exam := mustCreate(t, newTestService())

	if exam.EntryToken == "" || exam.ExitToken == "" {
		t.Fatalf("empty token on created session: %+v", exam)
	}
	if exam.EntryToken == exam.ExitToken {
		t.Fatalf("entry and exit tokens are equal: %q", exam.EntryToken)
	}
	if !strings.HasPrefix(exam.EntryToken, "ent_") || !strings.HasPrefix(exam.ExitToken, "ext_") {
		t.Fatalf("tokens missing purpose prefixes: %q / %q", exam.EntryToken, exam.ExitToken)
	}
	if !exam.IsActive {
		t.Fatal("new session should be active")
	}
	if exam.CreatedByID != PlaceholderInvigilatorID {
		t.Fatalf("CreatedByID = %q, want placeholder", exam.CreatedByID)
	}
}

func TestCreateSessionValidatesInput(t *testing.T) {
	svc := newTestService()

	if _, err := svc.CreateSession(context.Background(), "", nil, 60, ""); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("empty examName: got %v, want InvalidInput", err)
	}
	if _, err := svc.CreateSession(context.Background(), "Maths", nil, 0, ""); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("zero duration: got %v, want InvalidInput", err)
	}
	if _, err := svc.CreateSession(context.Background(), "Maths", nil, -5, ""); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("negative duration: got %v, want InvalidInput", err)
	}
}

func TestValidateEntryAllowed(t *testing.T) {
	svc := newTestService()
	exam := mustCreate(t, svc)

	d, err := svc.Validate(context.Background(), exam.ID, exam.EntryToken, models.PayloadEntry)
	if err != nil {
		t.Fatalf("Validate(entry) failed: %v", err)
	}
	if !d.Allowed {
		t.Fatal("entry validation should be allowed")
	}
	if d.ExamName != "Physics Midterm" || d.DurationMinutes != 60 {
		t.Fatalf("entry decision missing exam metadata: %+v", d)
	}
}

func TestValidateIsPurposeScoped(t *testing.T) {
	svc := newTestService()
	exam := mustCreate(t, svc)

	// The entry token must never validate an exit request, and vice versa.
	if _, err := svc.Validate(context.Background(), exam.ID, exam.EntryToken, models.PayloadExit); utils.KindOf(err) != utils.KindUnauthorized {
		t.Fatalf("entry token on exit purpose: got %v, want Unauthorized", err)
	}
	if _, err := svc.Validate(context.Background(), exam.ID, exam.ExitToken, models.PayloadEntry); utils.KindOf(err) != utils.KindUnauthorized {
		t.Fatalf("exit token on entry purpose: got %v, want Unauthorized", err)
	}

	d, err := svc.Validate(context.Background(), exam.ID, exam.ExitToken, models.PayloadExit)
	if err != nil {
		t.Fatalf("Validate(exit) failed: %v", err)
	}
	if !d.Allowed || d.ExamName != "" {
		t.Fatalf("exit decision should be a bare confirmation, got %+v", d)
	}
}

func TestValidateUnknownExam(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Validate(context.Background(), "nonexistent-id", "ent_anything", models.PayloadEntry); utils.KindOf(err) != utils.KindNotFound {
		t.Fatalf("unknown exam: got %v, want NotFound", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	svc := newTestService()
	exam := mustCreate(t, svc)

	if _, err := svc.Validate(context.Background(), "", exam.EntryToken, models.PayloadEntry); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("missing examId: got %v, want InvalidInput", err)
	}
	if _, err := svc.Validate(context.Background(), exam.ID, "", models.PayloadEntry); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("missing token: got %v, want InvalidInput", err)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	svc := newTestService()
	exam := mustCreate(t, svc)

	for i := 0; i < 3; i++ {
		d, err := svc.Validate(context.Background(), exam.ID, exam.EntryToken, models.PayloadEntry)
		if err != nil || !d.Allowed {
			t.Fatalf("repeat validation %d: got (%+v, %v)", i, d, err)
		}
	}
	// The session record is untouched by validation.
	got, err := svc.GetExam(context.Background(), exam.ID)
	if err != nil {
		t.Fatalf("GetExam() failed: %v", err)
	}
	if got.EntryToken != exam.EntryToken || !got.IsActive {
		t.Fatalf("session mutated by validation: %+v", got)
	}
}

func TestRecordIncident(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st)
	exam := mustCreate(t, svc)

	inc := &models.Incident{ExamID: exam.ID, Type: models.IncidentFocusLost, Details: "App lost focus"}
	if err := svc.RecordIncident(context.Background(), inc); err != nil {
		t.Fatalf("RecordIncident() failed: %v", err)
	}
	if inc.TimestampMillis == 0 {
		t.Fatal("timestamp should be filled when absent")
	}

	saved, err := st.ListIncidents(context.Background(), exam.ID)
	if err != nil || len(saved) != 1 {
		t.Fatalf("ListIncidents() = (%v, %v), want one incident", saved, err)
	}

	if err := svc.RecordIncident(context.Background(), &models.Incident{Type: models.IncidentFocusLost}); utils.KindOf(err) != utils.KindInvalidInput {
		t.Fatalf("incident without examId: got %v, want InvalidInput", err)
	}
}
