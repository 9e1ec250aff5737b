// pool.go — the fixed-size task pool backing 'thread' expressions.
//
// The pool owns a bounded number of worker goroutines pulling from an
// unbounded FIFO queue, so submission never waits on a busy worker. Each
// submitted task produces a write-once Future; the worker settles it exactly
// once and every Result call observes the same outcome. A timeout on Result
// abandons the wait, never the task.
package kentscript

import (
	"sync"
	"time"
)

const defaultPoolWorkers = 4

// Future is the write-once handle for a pool task's outcome.
type Future struct {
	done chan struct{}
	val  Value
	err  *RuntimeError
}

// Result blocks until the task settles and returns its outcome. A positive
// timeout (in seconds) bounds the wait; timeoutSeconds <= 0 waits forever.
// Timing out leaves the task running and the Future unsettled.
func (f *Future) Result(timeoutSeconds float64) (Value, error) {
	if timeoutSeconds > 0 {
		timer := time.NewTimer(time.Duration(timeoutSeconds * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-f.done:
		case <-timer.C:
			return Null, newError(ErrTimeout, "task did not complete within %g seconds", timeoutSeconds)
		}
	} else {
		<-f.done
	}
	if f.err != nil {
		return Null, f.err
	}
	return f.val, nil
}

// Done reports whether the task has settled, without blocking.
func (f *Future) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future) settle(v Value, err error) {
	f.val = v
	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			f.err = re
		} else {
			f.err = newError(ErrRuntime, "%s", err.Error())
		}
		f.val = Null
	}
	close(f.done)
}

type poolTask struct {
	run func() (Value, error)
	fut *Future
}

// TaskPool runs submitted tasks on a fixed set of workers. Tasks wait in an
// unbounded FIFO queue, so a task that submits further work (a pool task
// evaluating its own 'thread' expression) cannot deadlock the pool.
type TaskPool struct {
	wg sync.WaitGroup

	mu     sync.Mutex
	ready  *sync.Cond
	queue  []poolTask
	closed bool
}

// NewTaskPool starts a pool with the given number of workers. Non-positive
// counts fall back to the default.
func NewTaskPool(workers int) *TaskPool {
	if workers <= 0 {
		workers = defaultPoolWorkers
	}
	p := &TaskPool{}
	p.ready = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *TaskPool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.ready.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		v, err := t.run()
		t.fut.settle(v, err)
	}
}

// Submit enqueues a task and returns its Future immediately; it never waits
// for a worker to come free. A shut-down pool returns nil.
func (p *TaskPool) Submit(run func() (Value, error)) *Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	fut := &Future{done: make(chan struct{})}
	p.queue = append(p.queue, poolTask{run: run, fut: fut})
	p.ready.Signal()
	return fut
}

// Shutdown stops accepting work and waits for every queued and in-flight
// task to settle. Safe to call more than once.
func (p *TaskPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.ready.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}
