package models

import "time"

// PayloadType says which transition a QR payload (and its token) authorizes.
type PayloadType string

const (
	PayloadEntry PayloadType = "ENTRY"
	PayloadExit  PayloadType = "EXIT"
)

// Valid reports whether t is one of the two known payload types.
func (t PayloadType) Valid() bool {
	switch t {
	case PayloadEntry, PayloadExit:
		return true
	}
	return false
}

// ExamSession is the server-owned record for one proctored exam.
// Tokens are generated once at creation and never regenerated.
type ExamSession struct {
	ID              string    `json:"id"`
	ExamName        string    `json:"examName"`
	Room            *string   `json:"room"`
	DurationMinutes int       `json:"durationMinutes"`
	EntryToken      string    `json:"entryToken"`
	ExitToken       string    `json:"exitToken"`
	IsActive        bool      `json:"isActive"`
	CreatedByID     string    `json:"createdById"`
	CreatedAt       time.Time `json:"createdAt"`
}

// QrPayload is the value embedded in a scannable QR image. It is never
// persisted; it exists only on the wire between the dashboard and a
// student device camera.
type QrPayload struct {
	ExamID string      `json:"examId"`
	Type   PayloadType `json:"type"`
	Token  string      `json:"token"`
}

// IncidentType names a class of suspected policy violation. The set is
// open: clients may report types the server has never seen.
type IncidentType string

const (
	IncidentFocusLost   IncidentType = "FOCUS_LOST"
	IncidentKioskBypass IncidentType = "KIOSK_BYPASS_ATTEMPT"
)

// Incident is a best-effort report of a policy violation during an
// active exam. TimestampMillis is wall-clock time on the reporting device.
type Incident struct {
	ID              string       `json:"id,omitempty"`
	ExamID          string       `json:"examId"`
	Type            IncidentType `json:"type"`
	Details         string       `json:"details"`
	TimestampMillis int64        `json:"timestamp"`
	ReceivedAt      time.Time    `json:"receivedAt,omitempty"`
}
