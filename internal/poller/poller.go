package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/chatlens/pkg/randid"
)

// Default protocol timings.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// Job is the asynchronous backend work a Poller waits on.
type Job[T any] interface {
	// Start asks the backend to begin the job.
	Start(ctx context.Context) (Ack, error)
	// Poll checks whether the job has produced records yet.
	Poll(ctx context.Context) (Batch[T], error)
}

// Options configures a Poller. Zero values fall back to the defaults and
// the real clock.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Clock    Clock
	Logger   zerolog.Logger

	// OnAccepted is called once the start request was accepted, before the
	// first poll.
	OnAccepted func(Ack)
}

// Poller drives a Machine for one Job.
type Poller[T any] struct {
	job        Job[T]
	interval   time.Duration
	timeout    time.Duration
	clock      Clock
	log        zerolog.Logger
	onAccepted func(Ack)
}

// New creates a Poller for job.
func New[T any](job Job[T], opts Options) *Poller[T] {
	p := &Poller[T]{
		job:        job,
		interval:   opts.Interval,
		timeout:    opts.Timeout,
		clock:      opts.Clock,
		log:        opts.Logger,
		onAccepted: opts.OnAccepted,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.clock == nil {
		p.clock = RealClock{}
	}
	return p
}

// Run starts the job and polls until it succeeds, fails, or the deadline
// passes. The deadline starts once the job is accepted. Cancelling ctx fails
// the run. Both timers are stopped before Run returns.
func (p *Poller[T]) Run(ctx context.Context) Outcome[T] {
	m := NewMachine[T]()
	_ = m.Begin()

	log := p.log.With().Str("poll_session", randid.Generate(6)).Logger()
	startedAt := p.clock.Now()

	finish := func() Outcome[T] {
		o := m.Outcome()
		o.StartedAt = startedAt
		o.FinishedAt = p.clock.Now()
		ev := log.Debug()
		if o.Err != nil {
			ev = log.Warn().Err(o.Err)
		}
		ev.Str("state", o.State.String()).Int("polls", o.Polls).Dur("elapsed", o.FinishedAt.Sub(startedAt)).Msg("poll session finished")
		return o
	}

	ack, err := p.job.Start(ctx)
	if m.Started(ack, err) {
		return finish()
	}

	log.Debug().Dur("interval", p.interval).Dur("timeout", p.timeout).Msg("job accepted, polling")
	if p.onAccepted != nil {
		p.onAccepted(ack)
	}

	ticker := p.clock.NewTicker(p.interval)
	deadline := p.clock.NewTimer(p.timeout)
	stop := func() {
		ticker.Stop()
		deadline.Stop()
	}
	defer stop()

	for !m.Done() {
		select {
		case <-ctx.Done():
			m.Abort(ctx.Err())
		case <-deadline.C():
			m.Expire()
		case <-ticker.C():
			p.poll(ctx, m, deadline)
		}
	}

	stop()
	return finish()
}

// poll runs one status query. The deadline and ctx stay live while the
// query is in flight and cancel it when they fire.
func (p *Poller[T]) poll(ctx context.Context, m *Machine[T], deadline Timer) {
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		batch Batch[T]
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		b, err := p.job.Poll(pollCtx)
		ch <- result{batch: b, err: err}
	}()

	select {
	case r := <-ch:
		if !m.Polled(r.batch, r.err) {
			p.log.Trace().Int("records", len(r.batch.Records)).Bool("ok", r.batch.OK).Msg("not ready")
		}
	case <-deadline.C():
		m.Expire()
	case <-ctx.Done():
		m.Abort(ctx.Err())
	}
}
