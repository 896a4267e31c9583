package service

import "context"

// Pending reports the outcome of a write that runs after the caller already
// has its optimistic result.
type Pending struct {
	done chan struct{}
	err  error
}

// Resolved returns a Pending that is already complete.
func Resolved(err error) *Pending {
	p := &Pending{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// Start runs fn in its own goroutine.
func Start(fn func() error) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = fn()
	}()
	return p
}

func (p *Pending) Done() <-chan struct{} { return p.done }

// Err is nil until Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx ends. Giving up does not cancel the write.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
