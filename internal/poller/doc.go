// Package poller implements the start, poll and timeout protocol used to
// learn when an asynchronous backend job has produced results.
//
// The protocol is split in two parts. [Machine] is a pure state machine
// (Idle, Starting, Polling, then one of Succeeded, Failed or TimedOut) that
// is fed events and never touches timers. [Poller] drives a Machine with a
// periodic ticker and a deadline timer obtained from a [Clock], so tests can
// substitute [FakeClock] and advance time explicitly.
package poller
