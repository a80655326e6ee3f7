package exammode

// Lockdown is the OS-level pinning collaborator. Engage reports
// degraded=true when no elevated privilege is available and the device
// can only do best-effort pinning; the exam proceeds either way.
type Lockdown interface {
	Engage() (degraded bool, err error)
	Disengage() error
	Status() string
}

// TerminalLockdown stands in for the OS service on platforms without
// one. It always engages in degraded mode, which matches a device
// where the app is not a device owner and manual pinning is required.
type TerminalLockdown struct {
	engaged bool
}

func (t *TerminalLockdown) Engage() (bool, error) {
	t.engaged = true
	return true, nil
}

func (t *TerminalLockdown) Disengage() error {
	t.engaged = false
	return nil
}

func (t *TerminalLockdown) Status() string {
	if t.engaged {
		return "Basic Mode (Manual Pinning Required)"
	}
	return "Not engaged"
}
