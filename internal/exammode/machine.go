// Package exammode is the student device's exam-mode state machine.
// Transitions are a pure function of (state, event) and return effects
// for the caller to execute, so every path is testable without a
// network or an OS lockdown service.
package exammode

import (
	"time"

	"queon/internal/models"
	"queon/internal/qr"
	"queon/internal/utils"
)

type State int

const (
	StateIdle State = iota
	StateScanningEntry
	StateInExam
	StateScanningExit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateScanningEntry:
		return "ScanningEntry"
	case StateInExam:
		return "InExam"
	case StateScanningExit:
		return "ScanningExit"
	}
	return "Unknown"
}

// ActiveExam is the client-local record of the exam in progress. It
// exists only between a successful entry validation and a successful
// exit validation, and never survives a process restart.
type ActiveExam struct {
	ExamID          string
	ExamName        string
	DurationMinutes int
	StartedAtMillis int64
}

// RemainingSeconds recomputes the countdown from the absolute start
// time, so suspension or clock drift between ticks cannot desync the
// displayed value. Floored at zero.
func (a *ActiveExam) RemainingSeconds(now time.Time) int64 {
	elapsed := (now.UnixMilli() - a.StartedAtMillis) / 1000
	remaining := int64(a.DurationMinutes)*60 - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Events. Exactly one arrives at a time; the machine owner must not
// interleave Apply calls.

type Event interface{ isEvent() }

// StartEntryScan moves Idle to ScanningEntry.
type StartEntryScan struct{}

// RequestExit moves InExam to ScanningExit.
type RequestExit struct{}

// Cancel abandons a scan, back to the prior stable state.
type Cancel struct{}

// ScanResult carries raw decoded camera text.
type ScanResult struct{ Raw string }

// ValidationOutcome reports the result of the Validate effect. Err is
// non-nil only for transport failures; denials arrive in Response.
type ValidationOutcome struct {
	Response *models.ValidateResponse
	Err      error
}

// LockdownEngaged reports the result of the EngageLockdown effect.
type LockdownEngaged struct {
	Degraded bool
	Status   string
}

// FocusLost signals that the host app was backgrounded or paused.
type FocusLost struct{}

func (StartEntryScan) isEvent()    {}
func (RequestExit) isEvent()       {}
func (Cancel) isEvent()            {}
func (ScanResult) isEvent()        {}
func (ValidationOutcome) isEvent() {}
func (LockdownEngaged) isEvent()   {}
func (FocusLost) isEvent()         {}

// Effects returned by Apply for the caller to execute.

type Effect interface{ isEffect() }

// Validate asks the caller to present the payload's token to the
// backend and feed the result back as a ValidationOutcome event.
type Validate struct{ Payload models.QrPayload }

// EngageLockdown asks the caller to put the device into its lockdown
// posture and feed back a LockdownEngaged event.
type EngageLockdown struct{}

// DisengageLockdown reverses the lockdown posture.
type DisengageLockdown struct{}

// ReportIncident asks for a best-effort incident report.
type ReportIncident struct {
	ExamID  string
	Type    models.IncidentType
	Details string
}

// ShowError surfaces a recoverable failure to the student.
type ShowError struct{ Message string }

// ShowStatus surfaces a non-error status message.
type ShowStatus struct{ Message string }

func (Validate) isEffect()          {}
func (EngageLockdown) isEffect()    {}
func (DisengageLockdown) isEffect() {}
func (ReportIncident) isEffect()    {}
func (ShowError) isEffect()         {}
func (ShowStatus) isEffect()        {}

// Machine drives one device through the exam-mode lifecycle. It is not
// safe for concurrent use; a single event loop must own it. The
// countdown may read Active from another goroutine once InExam, since
// ActiveExam fields are never mutated in place.
type Machine struct {
	state      State
	active     *ActiveExam
	validating bool
	// set once per InExam stretch so a degraded lockdown emits
	// exactly one incident
	kioskIncidentSent bool

	now func() time.Time
}

func NewMachine() *Machine {
	return &Machine{state: StateIdle, now: time.Now}
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) Active() *ActiveExam { return m.active }

// Apply feeds one event through the transition function. It returns
// the effects to execute, or an error when the event is illegal in the
// current state — a caller contract violation, detected before any
// network call would be issued.
func (m *Machine) Apply(ev Event) ([]Effect, error) {
	switch ev := ev.(type) {
	case StartEntryScan:
		if m.state != StateIdle {
			return nil, utils.Newf(utils.KindInvalidInput, "cannot start entry scan in state %s", m.state)
		}
		m.state = StateScanningEntry
		return nil, nil

	case RequestExit:
		if m.state != StateInExam {
			return nil, utils.Newf(utils.KindInvalidInput, "cannot request exit in state %s", m.state)
		}
		m.state = StateScanningExit
		return nil, nil

	case Cancel:
		return m.applyCancel()

	case ScanResult:
		return m.applyScan(ev)

	case ValidationOutcome:
		return m.applyOutcome(ev)

	case LockdownEngaged:
		if m.state != StateInExam {
			return nil, nil
		}
		if !ev.Degraded || m.kioskIncidentSent {
			return nil, nil
		}
		m.kioskIncidentSent = true
		return []Effect{ReportIncident{
			ExamID:  m.active.ExamID,
			Type:    models.IncidentKioskBypass,
			Details: "Lockdown engaged in degraded mode: " + ev.Status,
		}}, nil

	case FocusLost:
		// Only a violation while an exam is running.
		if m.state != StateInExam {
			return nil, nil
		}
		return []Effect{
			ShowError{Message: "Leaving the exam app is not allowed."},
			ReportIncident{
				ExamID:  m.active.ExamID,
				Type:    models.IncidentFocusLost,
				Details: "App lost focus (minimized or switched)",
			},
		}, nil
	}
	return nil, utils.New(utils.KindInvalidInput, "unknown event")
}

func (m *Machine) applyCancel() ([]Effect, error) {
	if m.validating {
		return nil, utils.New(utils.KindInvalidInput, "validation in progress")
	}
	switch m.state {
	case StateScanningEntry:
		m.state = StateIdle
		return nil, nil
	case StateScanningExit:
		m.state = StateInExam
		return nil, nil
	}
	return nil, utils.Newf(utils.KindInvalidInput, "nothing to cancel in state %s", m.state)
}

func (m *Machine) applyScan(ev ScanResult) ([]Effect, error) {
	if m.state != StateScanningEntry && m.state != StateScanningExit {
		return nil, utils.Newf(utils.KindInvalidInput, "unexpected scan in state %s", m.state)
	}
	if m.validating {
		return nil, utils.New(utils.KindInvalidInput, "validation in progress")
	}

	expected := models.PayloadEntry
	if m.state == StateScanningExit {
		expected = models.PayloadExit
	}

	payload := qr.Decode(ev.Raw)
	if payload == nil || payload.Type != expected {
		// Decode failure is short-circuited locally; no network call.
		return m.abortScan("Invalid QR code"), nil
	}

	m.validating = true
	return []Effect{Validate{Payload: *payload}}, nil
}

func (m *Machine) applyOutcome(ev ValidationOutcome) ([]Effect, error) {
	if !m.validating {
		return nil, utils.Newf(utils.KindInvalidInput, "unexpected validation outcome in state %s", m.state)
	}
	m.validating = false

	if ev.Err != nil {
		return m.abortScan(ev.Err.Error()), nil
	}

	res := ev.Response
	if res == nil {
		return m.abortScan("No response from server"), nil
	}
	switch m.state {
	case StateScanningEntry:
		if res.Status != "allowed" {
			return m.abortScan(denialMessage(res)), nil
		}
		m.state = StateInExam
		m.kioskIncidentSent = false
		m.active = &ActiveExam{
			ExamID:          res.ExamID,
			ExamName:        res.ExamName,
			DurationMinutes: res.DurationMinutes,
			StartedAtMillis: m.now().UnixMilli(),
		}
		return []Effect{
			EngageLockdown{},
			ShowStatus{Message: res.Message},
		}, nil

	case StateScanningExit:
		if res.Status != "allowed" {
			return m.abortScan(denialMessage(res)), nil
		}
		m.state = StateIdle
		m.active = nil
		return []Effect{
			DisengageLockdown{},
			ShowStatus{Message: res.Message},
		}, nil
	}
	return nil, utils.Newf(utils.KindInvalidInput, "validation outcome in state %s", m.state)
}

// abortScan returns to the prior stable state with an error surfaced.
// ActiveExam is preserved on a failed exit scan.
func (m *Machine) abortScan(message string) []Effect {
	if m.state == StateScanningExit {
		m.state = StateInExam
	} else {
		m.state = StateIdle
	}
	return []Effect{ShowError{Message: message}}
}

func denialMessage(res *models.ValidateResponse) string {
	if res.Reason != "" {
		return res.Reason
	}
	if res.Message != "" {
		return res.Message
	}
	return "Request denied"
}
