package poller

import (
	"errors"
	"fmt"
	"time"
)

// State is a step of the start/poll protocol.
type State int

const (
	StateIdle State = iota
	StateStarting
	StatePolling
	StateSucceeded
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen from s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateTimedOut
}

var (
	// ErrBusy is returned by Begin when a job is already outstanding.
	ErrBusy = errors.New("a job is already in progress")
	// ErrRejected is the failure recorded when the start ack is not accepted.
	ErrRejected = errors.New("job was not accepted")
)

// Ack is the backend's answer to a job-start request.
type Ack struct {
	Accepted bool
	Message  string
}

// Batch is the answer to one poll.
type Batch[T any] struct {
	OK      bool
	Records []T
}

// Ready reports whether the batch ends polling successfully.
func (b Batch[T]) Ready() bool {
	return b.OK && len(b.Records) > 0
}

// Outcome describes how a job ended.
type Outcome[T any] struct {
	State   State
	Ack     Ack
	Records []T
	Err     error
	Polls   int

	// Set by Poller.Run from its clock.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Machine is the protocol state machine. It is not safe for concurrent use;
// Poller serializes all events onto one goroutine.
type Machine[T any] struct {
	state   State
	outcome Outcome[T]
}

// NewMachine returns an idle machine.
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{}
}

// State returns the current state.
func (m *Machine[T]) State() State {
	return m.state
}

// Done reports whether a terminal state was reached.
func (m *Machine[T]) Done() bool {
	return m.state.Terminal()
}

// Outcome returns the result so far. It is final once Done is true.
func (m *Machine[T]) Outcome() Outcome[T] {
	o := m.outcome
	o.State = m.state
	return o
}

// Begin moves Idle to Starting.
func (m *Machine[T]) Begin() error {
	if m.state != StateIdle {
		return ErrBusy
	}
	m.state = StateStarting
	return nil
}

// Started records the start request result. It returns true if the machine
// reached a terminal state.
func (m *Machine[T]) Started(ack Ack, err error) bool {
	if m.state != StateStarting {
		return m.Done()
	}

	m.outcome.Ack = ack
	switch {
	case err != nil:
		m.fail(err)
	case !ack.Accepted:
		if ack.Message != "" {
			m.fail(fmt.Errorf("%w: %s", ErrRejected, ack.Message))
		} else {
			m.fail(ErrRejected)
		}
	default:
		m.state = StatePolling
	}
	return m.Done()
}

// Polled records one poll result. A ready batch succeeds, a transport error
// fails, anything else keeps polling. It returns true if the machine reached
// a terminal state.
func (m *Machine[T]) Polled(b Batch[T], err error) bool {
	if m.state != StatePolling {
		return m.Done()
	}

	m.outcome.Polls++
	switch {
	case err != nil:
		m.fail(err)
	case b.Ready():
		m.outcome.Records = b.Records
		m.state = StateSucceeded
	}
	return m.Done()
}

// Expire records the deadline. It returns true if this call caused the
// transition to TimedOut.
func (m *Machine[T]) Expire() bool {
	if m.state.Terminal() || m.state == StateIdle {
		return false
	}
	m.state = StateTimedOut
	return true
}

// Abort fails a non-terminal machine with err. It returns true if this call
// caused the transition.
func (m *Machine[T]) Abort(err error) bool {
	if m.state.Terminal() || m.state == StateIdle {
		return false
	}
	m.fail(err)
	return true
}

func (m *Machine[T]) fail(err error) {
	m.outcome.Err = err
	m.state = StateFailed
}
