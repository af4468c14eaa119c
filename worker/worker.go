package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Pool runs submitted functions on a fixed set of goroutines. Panics in submitted functions are reported to
// sentry and do not take the worker down.
type Pool struct {
	queue chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New starts a Pool with n workers. If n is 0 or less, runtime.NumCPU() workers are started.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for f := range p.queue {
		run(f)
	}
}

func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f to be run by one of the workers. Submit blocks while all workers are busy and the queue
// is full. Submit must not be called after Close.
func (p *Pool) Submit(f func()) {
	p.queue <- f
}

// Close stops accepting work and waits for queued functions to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
		p.wg.Wait()
	})
}
