// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// rewinder lets Load read a source a second time for the legacy retry.
// A seekable source is rewound by seeking. Any other source is recorded
// as it is read until release is called, and the recording is replayed
// ahead of the unread remainder.
type rewinder struct {
	source io.Reader

	seeker io.Seeker
	start  int64

	mu       sync.Mutex
	recorded *bytes.Buffer
	released bool
}

func newRewinder(source io.Reader) *rewinder {
	if seeker, ok := source.(io.Seeker); ok {
		// Pipes and terminals implement Seeker but fail to seek.
		if start, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			return &rewinder{source: source, seeker: seeker, start: start}
		}
	}
	return &rewinder{source: source, recorded: new(bytes.Buffer)}
}

func (r *rewinder) Read(p []byte) (int, error) {
	n, err := r.source.Read(p)
	if n > 0 {
		r.mu.Lock()
		if r.recorded != nil {
			r.recorded.Write(p[:n])
		}
		r.mu.Unlock()
	}
	return n, err
}

// release stops recording. Once the first fast-compression block has
// decoded the stream cannot turn out to be legacy.
func (r *rewinder) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = nil
	r.released = true
}

// rewind returns a reader positioned where the rewinder started.
func (r *rewinder) rewind() (io.Reader, error) {
	if r.seeker != nil {
		if _, err := r.seeker.Seek(r.start, io.SeekStart); err != nil {
			return nil, err
		}
		return r.source, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, errors.New("replay recording was already released")
	}
	replay := bytes.NewReader(r.recorded.Bytes())
	r.recorded = nil
	return io.MultiReader(replay, r.source), nil
}
