package poll

import (
	"context"
	"errors"
	"time"
)

// ErrAborted reports that a wait was cancelled before it finished. It is not
// a failure: callers treat it as "nothing happened, try again later".
var ErrAborted = errors.New("poll: aborted")

// IsAborted reports whether err is, or wraps, ErrAborted.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// Delay waits for d or until ctx is done, whichever comes first. It returns
// ErrAborted when ctx ends the wait.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return ErrAborted
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrAborted
	case <-timer.C:
		return nil
	}
}

// Task is a handle on a background function that can be awaited and
// cancelled independently.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Go runs fn in a new goroutine with a context derived from parent. The
// context is cancelled by Cancel or once fn returns.
func Go(parent context.Context, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.err = fn(ctx)
	}()
	return t
}

// Cancel asks the task to stop. It does not wait.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task's function has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
