// Package incident sends best-effort violation reports from the
// student device. Reports are detached from the caller's control flow:
// a slow or failed report can never delay an exam-mode transition.
package incident

import (
	"sync"
	"time"

	"queon/internal/models"
	"queon/internal/utils"
)

// Sender is the transport the reporter posts through.
type Sender interface {
	ReportIncident(inc models.Incident) error
}

type Reporter struct {
	sender Sender
	logger *utils.Logger
	wg     sync.WaitGroup
}

func NewReporter(sender Sender, logger *utils.Logger) *Reporter {
	return &Reporter{sender: sender, logger: logger}
}

// Report fires an incident in a detached goroutine, attaching the
// current wall-clock timestamp. Transport failures are logged and
// dropped; there is no retry.
func (r *Reporter) Report(examID string, typ models.IncidentType, details string) {
	inc := models.Incident{
		ExamID:          examID,
		Type:            typ,
		Details:         details,
		TimestampMillis: time.Now().UnixMilli(),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.sender.ReportIncident(inc); err != nil {
			r.logger.Warn("incident report failed (dropped): %v", err)
		}
	}()
}

// Wait blocks until in-flight reports finish. Only used at shutdown
// and in tests; the exam flow never calls it.
func (r *Reporter) Wait() {
	r.wg.Wait()
}
