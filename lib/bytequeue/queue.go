// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytequeue

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClosed is returned by Write after Close has been called.
var ErrClosed = errors.New("bytequeue: write to closed queue")

// ErrAborted is the abort error used when Abort is called with nil.
var ErrAborted = errors.New("bytequeue: queue aborted")

// Queue is a bounded FIFO byte buffer. The zero value is not usable;
// create queues with New.
type Queue struct {
	// writeMu serializes Write calls so that the bytes of one call are
	// never interleaved with another writer's, even when the call has
	// to wait for space several times.
	writeMu sync.Mutex

	mu   sync.Mutex
	cond *sync.Cond

	buffer   []byte
	cursor   int
	capacity int
	blocking bool

	writeClosed bool
	closed      bool
	abortErr    error
}

// Option configures a Queue at construction.
type Option func(*Queue)

// NonBlocking makes Read return immediately with whatever is buffered
// instead of waiting for the caller's buffer to fill.
func NonBlocking() Option {
	return func(queue *Queue) {
		queue.blocking = false
	}
}

// New creates a queue that holds at most capacity unread bytes.
func New(capacity int, options ...Option) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("bytequeue: capacity must be positive, got %d", capacity)
	}
	queue := &Queue{
		capacity: capacity,
		blocking: true,
	}
	queue.cond = sync.NewCond(&queue.mu)
	for _, option := range options {
		option(queue)
	}
	return queue, nil
}

// Write appends p to the tail of the queue. When p does not fit in the
// free space it is accepted piece by piece, blocking until the reader
// makes room, so the unread size never exceeds the capacity. Returns
// ErrClosed if the queue was closed for writing, or the abort error if
// the queue was aborted; n counts the bytes accepted before that.
func (q *Queue) Write(p []byte) (int, error) {
	q.writeMu.Lock()
	defer q.writeMu.Unlock()

	q.mu.Lock()
	defer q.mu.Unlock()

	written := 0
	for {
		for q.abortErr == nil && !q.writeClosed && q.unread() >= q.capacity {
			q.cond.Wait()
		}
		if q.abortErr != nil {
			return written, q.abortErr
		}
		if q.writeClosed {
			return written, ErrClosed
		}
		if written == len(p) {
			return written, nil
		}

		q.reclaim()
		piece := min(q.capacity-q.unread(), len(p)-written)
		q.buffer = append(q.buffer, p[written:written+piece]...)
		written += piece
		q.cond.Broadcast()
	}
}

// Read reads up to len(p) bytes from the head of the queue.
//
// In blocking mode (the default) Read waits until p is full or the
// queue is fully closed, so it returns fewer than len(p) bytes only at
// the end of the stream. In non-blocking mode it returns whatever is
// buffered right now, which may be zero bytes with a nil error.
//
// Once the queue is closed and drained, Read returns 0, io.EOF. After
// Abort, Read returns the abort error.
func (q *Queue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	read := 0
	for read < len(p) {
		for q.abortErr == nil && q.unread() == 0 && !q.writeClosed {
			if !q.blocking {
				return read, nil
			}
			q.cond.Wait()
		}
		if q.abortErr != nil {
			return read, q.abortErr
		}
		if q.unread() == 0 {
			q.finish()
			if read == 0 {
				return 0, io.EOF
			}
			return read, nil
		}

		count := copy(p[read:], q.buffer[q.cursor:])
		q.cursor += count
		read += count
		q.compact()
		q.cond.Broadcast()
	}
	return read, nil
}

// Close marks the queue closed for writing. Buffered bytes remain
// readable; when none remain the queue is fully closed and its backing
// buffer released. Close is idempotent and always returns nil.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.writeClosed {
		return nil
	}
	q.writeClosed = true
	if q.unread() == 0 {
		q.finish()
	}
	q.cond.Broadcast()
	return nil
}

// Abort fails the queue: buffered bytes are discarded and every
// blocked or future Read and Write returns err (ErrAborted if err is
// nil). Only the first abort error is kept.
func (q *Queue) Abort(err error) {
	if err == nil {
		err = ErrAborted
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.abortErr == nil {
		q.abortErr = err
	}
	q.buffer = nil
	q.cursor = 0
	q.cond.Broadcast()
}

// HasSpace reports whether a Write of at least one byte would proceed
// without blocking.
func (q *Queue) HasSpace() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unread() < q.capacity
}

// Buffered returns the number of bytes written but not yet read.
func (q *Queue) Buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unread()
}

// Cap returns the capacity given to New.
func (q *Queue) Cap() int {
	return q.capacity
}

// Closed reports whether the queue is fully closed: closed for writing
// and drained.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) String() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return fmt.Sprintf("bytequeue with %d of %d bytes buffered", q.unread(), q.capacity)
}

func (q *Queue) unread() int {
	return len(q.buffer) - q.cursor
}

// compact resets the backing buffer once the reader has caught up with
// the tail, and fully closes a write-closed queue at that point.
func (q *Queue) compact() {
	if q.cursor < len(q.buffer) {
		return
	}
	q.buffer = q.buffer[:0]
	q.cursor = 0
	if q.writeClosed {
		q.finish()
	}
}

// reclaim moves unread bytes to the front of the backing buffer when
// the consumed prefix has grown past the capacity. Without it a writer
// that stays ahead of the reader would grow the buffer forever.
func (q *Queue) reclaim() {
	if q.cursor < q.capacity {
		return
	}
	remaining := copy(q.buffer, q.buffer[q.cursor:])
	q.buffer = q.buffer[:remaining]
	q.cursor = 0
}

func (q *Queue) finish() {
	q.closed = true
	q.buffer = nil
	q.cursor = 0
}
