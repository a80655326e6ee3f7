package models

// CreateExamRequest is the body of POST /api/exams.
type CreateExamRequest struct {
	ExamName        string  `json:"examName"`
	Room            *string `json:"room,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
}

// ValidateRequest is the body of both validate-entry and validate-exit.
type ValidateRequest struct {
	ExamID string `json:"examId"`
	Token  string `json:"token"`
}

// ValidateResponse is returned by both validation endpoints. ExamName and
// DurationMinutes are only set on an allowed entry validation, so the
// client can build its local countdown.
type ValidateResponse struct {
	Status          string `json:"status"` // "allowed" or "denied"
	ExamID          string `json:"examId,omitempty"`
	ExamName        string `json:"examName,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Message         string `json:"message,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// QrResponse is returned by the two QR endpoints. QrDataURL is a PNG
// data URL ready for an <img> tag; RawPayload is the same payload the
// image encodes, for debugging and tests.
type QrResponse struct {
	ExamID     string      `json:"examId"`
	Type       PayloadType `json:"type"`
	QrDataURL  string      `json:"qrDataUrl"`
	RawPayload QrPayload   `json:"rawPayload"`
}

// ExamSummary is one row of GET /api/exams. Tokens are deliberately
// omitted: the listing is for monitoring, not for re-printing QR codes.
type ExamSummary struct {
	ID              string  `json:"id"`
	ExamName        string  `json:"examName"`
	Room            *string `json:"room"`
	DurationMinutes int     `json:"durationMinutes"`
	IsActive        bool    `json:"isActive"`
	CreatedByID     string  `json:"createdById"`
}
