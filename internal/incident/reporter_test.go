package incident

import (
	"errors"
	"sync"
	"testing"

	"queon/internal/models"
	"queon/internal/utils"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []models.Incident
	err  error
}

func (f *fakeSender) ReportIncident(inc models.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, inc)
	return f.err
}

func newTestLogger(t *testing.T) *utils.Logger {
	t.Helper()
	logger, err := utils.NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	return logger
}

func TestReportAttachesTimestamp(t *testing.T) {
	sender := &fakeSender{}
	r := NewReporter(sender, newTestLogger(t))

	r.Report("exam-1", models.IncidentFocusLost, "App lost focus")
	r.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d incidents, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.ExamID != "exam-1" || got.Type != models.IncidentFocusLost {
		t.Fatalf("unexpected incident %+v", got)
	}
	if got.TimestampMillis == 0 {
		t.Fatal("timestamp not attached")
	}
}

func TestReportSwallowsTransportFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	r := NewReporter(sender, newTestLogger(t))

	// Must not panic, block, or surface the error.
	r.Report("exam-1", models.IncidentKioskBypass, "degraded lockdown")
	r.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d incidents, want exactly 1 attempt (no retry)", len(sender.sent))
	}
}
