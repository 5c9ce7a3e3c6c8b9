package workerpool

import (
	"sync"
)

// Job is a unit of work submitted to the pool.
type Job func() error

// Pool runs jobs across a fixed number of worker goroutines. Jobs start in
// submission order but complete in arbitrary order; callers that need
// deterministic results must make each job write to its own slot.
type Pool struct {
	mu      sync.Mutex
	pending []Job

	wake    chan struct{}
	flush   chan struct{} // closed by Wait: drain the queue, then exit
	stopped chan struct{} // closed by Stop: abandon jobs not yet started

	flushOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	errMu sync.Mutex
	errs  []error
}

// New returns a pool with n workers.
func New(n int) *Pool {
	p := &Pool{
		wake:    make(chan struct{}, 1),
		flush:   make(chan struct{}),
		stopped: make(chan struct{}),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

// Add enqueues jobs for execution.
func (p *Pool) Add(jobs []Job) {
	p.mu.Lock()
	p.pending = append(p.pending, jobs...)
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until every queued job has run, unless Stop was called first,
// in which case it blocks only until the in-flight jobs finish.
func (p *Pool) Wait() {
	p.flushOnce.Do(func() { close(p.flush) })
	p.wg.Wait()
}

// Stop abandons jobs that have not started yet. Jobs already running complete.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopped) })
}

// Err returns the first error returned by any job, or nil.
func (p *Pool) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs[0]
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopped:
			return
		default:
		}

		job := p.next()
		if job == nil {
			select {
			case <-p.wake:
			case <-p.stopped:
				return
			case <-p.flush:
				// one last look at the queue before exiting
				if job := p.next(); job != nil {
					p.run(job)
					continue
				}
				return
			}
			continue
		}
		p.run(job)
	}
}

func (p *Pool) next() Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return nil
	}
	job := p.pending[0]
	p.pending = p.pending[1:]
	return job
}

func (p *Pool) run(job Job) {
	if err := job(); err != nil {
		p.errMu.Lock()
		p.errs = append(p.errs, err)
		p.errMu.Unlock()
	}
}
