package concurrent

import (
	"errors"
	"time"
)

// ErrScheduleTimeout is returned by Pool.ScheduleTimeout when no worker
// picked the task up within the given duration.
var ErrScheduleTimeout = errors.New("schedule error: timed out")

// Pool caps the number of goroutines serving websocket connections, following
// the goroutine reuse pattern from
// https://sergey.kamardin.org/articles/million-websocket-and-go/
type Pool struct {
	sem  chan struct{}
	work chan func()
}

func NewPool(size, queue int) *Pool {
	return &Pool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
	}
}

// Spawn starts n idle workers eagerly so the first connections skip the
// goroutine startup cost.
func (p *Pool) Spawn(n int) {
	for i := 0; i < n; i++ {
		p.sem <- struct{}{}
		go p.worker(func() {})
	}
}

// Schedule blocks until a worker or a queue slot takes the task.
func (p *Pool) Schedule(task func()) {
	p.schedule(task, nil)
}

// ScheduleTimeout gives up with ErrScheduleTimeout when every worker stays
// busy and the queue stays full for the whole timeout.
func (p *Pool) ScheduleTimeout(timeout time.Duration, task func()) error {
	return p.schedule(task, time.After(timeout))
}

func (p *Pool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		go p.worker(task)
		return nil
	}
}

func (p *Pool) worker(task func()) {
	defer func() { <-p.sem }()
	task()
	for task := range p.work {
		task()
	}
}

// Close stops idle workers. tasks already queued still run.
func (p *Pool) Close() {
	close(p.work)
}
