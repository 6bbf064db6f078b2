package dom

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrLoopClosed is returned when work is handed to a stopped Loop.
var ErrLoopClosed = errors.New("event loop closed")

// Loop runs funcs one at a time on a single goroutine. Everything that reads
// or writes the document goes through it, so handles need no locking.
//
// Do must not be called from inside a func already running on the loop.
type Loop struct {
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan func()
	done   chan struct{}
}

// NewLoop starts the loop goroutine.
func NewLoop(logger *zap.Logger) *Loop {
	l := &Loop{
		logger: logger,
		queue:  make(chan func(), 64),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Post enqueues fn and returns without waiting. It reports false when the
// loop has been closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	l.queue <- fn
	return true
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrLoopClosed
	}
	<-ran
	return nil
}

// Close stops accepting work, runs what is already queued and waits for the
// goroutine to exit. It is safe to call more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for fn := range l.queue {
		l.exec(fn)
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop task panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
