// internal/transport/transport.go
package transport

import "io"

// Input is non-blocking character input.
type Input interface {
	// PollReady reports whether ReadChar has a byte now.
	PollReady() bool
	// ReadChar returns the next byte, 0 when none is queued.
	ReadChar() byte
}

// Port is one console transport.
type Port interface {
	Input
	io.Writer
}

// QueueSize bounds the bytes buffered between a reader goroutine and the console.
const QueueSize = 256

// queue hands bytes from one reader goroutine to the console goroutine.
type queue struct {
	ch chan byte
}

func newQueue() *queue { return &queue{ch: make(chan byte, QueueSize)} }

func (q *queue) PollReady() bool { return len(q.ch) > 0 }

func (q *queue) ReadChar() byte {
	select {
	case c := <-q.ch:
		return c
	default:
		return 0
	}
}

// push enqueues c; it reports false when the queue is full and c was dropped.
func (q *queue) push(c byte) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// drain discards everything queued.
func (q *queue) drain() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
