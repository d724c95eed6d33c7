// Package form tracks the submission state of a single HTML form:
// idle → submitting → success | error, with a timed revert to idle.
//
// A long-lived Machine reverts itself after the delay. A request-scoped
// Machine is usually closed as soon as Submit returns, which cancels the
// timer; such callers hand Snapshot.RevertAfter to the client, which
// re-fetches the idle form once the delay has passed.
package form

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"
)

// Status is the position of a form in its submission cycle.
type Status int

const (
	Idle Status = iota
	Submitting
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of a Machine, suitable for rendering.
type Snapshot struct {
	Status      Status
	Values      url.Values
	Message     string
	FieldErrors map[string]string
	RevertAfter time.Duration
}

// Value returns the first value for key.
func (s Snapshot) Value(key string) string { return s.Values.Get(key) }

// FieldError returns the validation message for key, if any.
func (s Snapshot) FieldError(key string) string { return s.FieldErrors[key] }

// Settled reports whether the form shows an outcome that will revert.
func (s Snapshot) Settled() bool { return s.Status == Success || s.Status == Error }

// ValidationError carries per-field messages. A send func returning it moves
// the form to Error without treating the failure as a transport problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "form: invalid fields" }

// Send performs the actual submission.
type Send func(ctx context.Context, values url.Values) error

// Machine holds one form's state. Methods are safe for concurrent use; there
// is intentionally no guard against a second Submit while one is in flight.
type Machine struct {
	mu       sync.Mutex
	status   Status
	values   url.Values
	message  string
	fields   map[string]string
	delay    time.Duration
	timer    *time.Timer
	onChange func(Snapshot)

	// SuccessMessage and ErrorMessage are the alerts shown for each outcome.
	SuccessMessage string
	ErrorMessage   string
}

// New returns an idle Machine that reverts success/error to idle after delay.
// A zero delay disables the timed revert.
func New(delay time.Duration) *Machine {
	return &Machine{
		values:         url.Values{},
		delay:          delay,
		SuccessMessage: "Submitted successfully!",
		ErrorMessage:   "Something went wrong. Please try again.",
	}
}

// OnChange registers fn to observe every transition. fn runs with the
// machine locked and must not call back into it.
func (m *Machine) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Submit runs send with values. The machine is Submitting for the duration of
// the call, then Success (fields cleared) or Error (fields kept).
func (m *Machine) Submit(ctx context.Context, values url.Values, send Send) Snapshot {
	m.mu.Lock()
	m.stopTimerLocked()
	m.status = Submitting
	m.values = cloneValues(values)
	m.message = ""
	m.fields = nil
	m.notifyLocked()
	m.mu.Unlock()

	err := send(ctx, cloneValues(values))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = Error
		m.message = m.ErrorMessage
		var ve *ValidationError
		if errors.As(err, &ve) {
			m.fields = ve.Fields
		}
	} else {
		m.status = Success
		m.message = m.SuccessMessage
		m.values = url.Values{}
	}
	m.scheduleRevertLocked()
	m.notifyLocked()
	return m.snapshotLocked()
}

// Reset returns the machine to Idle, discarding message and field errors.
// Field values are kept so a reverted error still shows what was typed.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.resetLocked()
}

// Close stops a pending revert timer.
func (m *Machine) Close() {
	m.mu.Lock()
	m.stopTimerLocked()
	m.mu.Unlock()
}

func (m *Machine) resetLocked() {
	if m.status == Idle {
		return
	}
	m.status = Idle
	m.message = ""
	m.fields = nil
	m.notifyLocked()
}

func (m *Machine) scheduleRevertLocked() {
	if m.delay <= 0 {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(m.delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.timer != t {
			return
		}
		m.timer = nil
		m.resetLocked()
	})
	m.timer = t
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) notifyLocked() {
	if m.onChange != nil {
		m.onChange(m.snapshotLocked())
	}
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:  m.status,
		Values:  cloneValues(m.values),
		Message: m.message,
	}
	if len(m.fields) > 0 {
		s.FieldErrors = make(map[string]string, len(m.fields))
		for k, v := range m.fields {
			s.FieldErrors[k] = v
		}
	}
	if s.Settled() {
		s.RevertAfter = m.delay
	}
	return s
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
