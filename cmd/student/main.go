// student is the terminal stand-in for the student device app. The
// camera is simulated by pasting raw QR payload text; everything
// behind the scan — validation, exam mode, lockdown, incidents — runs
// the same state machine a real device would.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"queon/internal/client"
	"queon/internal/exammode"
	"queon/internal/incident"
	"queon/internal/models"
	"queon/internal/utils"
)

var (
	errorText  = color.New(color.FgRed)
	okText     = color.New(color.FgGreen)
	warnText   = color.New(color.FgYellow)
	promptText = color.New(color.FgCyan)
)

type app struct {
	machine  *exammode.Machine
	api      *client.Client
	reporter *incident.Reporter
	lockdown exammode.Lockdown

	countdownDone chan struct{}
}

func main() {
	server := flag.String("server", "http://localhost:4000", "Backend base URL")
	flag.Parse()
	if env := os.Getenv("QUEON_SERVER"); env != "" {
		*server = strings.TrimRight(env, "/")
	}

	logger, err := utils.NewLogger("")
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	api := client.New(*server)
	a := &app{
		machine:  exammode.NewMachine(),
		api:      api,
		reporter: incident.NewReporter(api, logger),
		lockdown: &exammode.TerminalLockdown{},
	}

	fmt.Println("Queon student client. Commands: entry, exit, status, focuslost, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptText.Printf("[%s] > ", a.machine.State())
		if !scanner.Scan() {
			break
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "entry":
			a.scanFlow(exammode.StartEntryScan{}, scanner)
		case "exit":
			a.scanFlow(exammode.RequestExit{}, scanner)
		case "status":
			a.printStatus()
		case "focuslost":
			// Stands in for the OS lifecycle pause notification.
			a.dispatch(exammode.FocusLost{})
		case "quit":
			if a.machine.State() != exammode.StateIdle {
				warnText.Println("An exam is still active; exit it first.")
				continue
			}
			a.reporter.Wait()
			return
		case "":
		default:
			fmt.Println("Commands: entry, exit, status, focuslost, quit")
		}
	}
}

// scanFlow starts a scan, reads one simulated scan from stdin and runs
// the machine until the validation settles.
func (a *app) scanFlow(start exammode.Event, scanner *bufio.Scanner) {
	if !a.dispatch(start) {
		return
	}
	fmt.Println("Paste QR payload (or 'cancel'):")
	if !scanner.Scan() {
		a.dispatch(exammode.Cancel{})
		return
	}
	raw := strings.TrimSpace(scanner.Text())
	if raw == "cancel" {
		a.dispatch(exammode.Cancel{})
		return
	}
	a.dispatch(exammode.ScanResult{Raw: raw})
}

// dispatch feeds an event into the machine and executes the returned
// effects, feeding any follow-up events back in.
func (a *app) dispatch(ev exammode.Event) bool {
	effects, err := a.machine.Apply(ev)
	if err != nil {
		errorText.Println(err)
		return false
	}
	for _, effect := range effects {
		a.execute(effect)
	}
	return true
}

func (a *app) execute(effect exammode.Effect) {
	switch effect := effect.(type) {
	case exammode.Validate:
		var res *models.ValidateResponse
		var err error
		if effect.Payload.Type == models.PayloadEntry {
			res, err = a.api.ValidateEntry(effect.Payload.ExamID, effect.Payload.Token)
		} else {
			res, err = a.api.ValidateExit(effect.Payload.ExamID, effect.Payload.Token)
		}
		a.dispatch(exammode.ValidationOutcome{Response: res, Err: err})

	case exammode.EngageLockdown:
		degraded, err := a.lockdown.Engage()
		if err != nil {
			degraded = true
		}
		a.startCountdown()
		a.dispatch(exammode.LockdownEngaged{Degraded: degraded, Status: a.lockdown.Status()})

	case exammode.DisengageLockdown:
		a.stopCountdown()
		if err := a.lockdown.Disengage(); err != nil {
			warnText.Println("lockdown disengage:", err)
		}

	case exammode.ReportIncident:
		a.reporter.Report(effect.ExamID, effect.Type, effect.Details)

	case exammode.ShowError:
		errorText.Println(effect.Message)

	case exammode.ShowStatus:
		okText.Println(effect.Message)
	}
}

func (a *app) printStatus() {
	exam := a.machine.Active()
	if exam == nil {
		fmt.Println("No active exam.")
		return
	}
	remaining := exam.RemainingSeconds(time.Now())
	okText.Printf("%s — %02d:%02d remaining (lockdown: %s)\n",
		exam.ExamName, remaining/60, remaining%60, a.lockdown.Status())
}

// startCountdown watches the clock once per second and announces when
// time runs out. It only reads the exam record; all state changes stay
// in the event loop.
func (a *app) startCountdown() {
	exam := a.machine.Active()
	if exam == nil {
		return
	}
	done := make(chan struct{})
	a.countdownDone = done
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				if exam.RemainingSeconds(now) == 0 {
					warnText.Println("\nTime is up. Ask your invigilator for the exit QR.")
					return
				}
			}
		}
	}()
}

func (a *app) stopCountdown() {
	if a.countdownDone != nil {
		close(a.countdownDone)
		a.countdownDone = nil
	}
}
