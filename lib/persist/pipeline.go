// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/persist/lib/bytequeue"
)

// stage is one transform of a pipeline. run reads source to
// end-of-stream and writes its output to destination. The first stage
// of a save ignores source and the last stage of a load ignores
// destination; the pipeline passes nil for them.
type stage struct {
	name string
	run  func(source io.Reader, destination io.Writer) error
}

// pipeline runs a chain of stages, one goroutine each, connected by
// bounded queues. A pipeline is built per call and never reused.
type pipeline struct {
	stages []stage
	budget int
	logger *slog.Logger
}

// queueCapacity splits the budget across the len(stages)-1 queues.
func (p *pipeline) queueCapacity() int {
	links := len(p.stages) - 1
	if links <= 0 {
		return 0
	}
	return max(p.budget/links, 1)
}

// run starts every stage, waits for all of them, and returns the first
// root-cause failure by stage order.
func (p *pipeline) run(source io.Reader, destination io.Writer) error {
	capacity := p.queueCapacity()
	queues := make([]*bytequeue.Queue, len(p.stages)-1)
	for index := range queues {
		queue, err := bytequeue.New(capacity)
		if err != nil {
			return fmt.Errorf("creating queue %d: %w", index, err)
		}
		queues[index] = queue
	}

	var abortOnce sync.Once
	abort := func(index int) {
		abortOnce.Do(func() {
			cause := fmt.Errorf("%w: stage %d (%s) failed", bytequeue.ErrAborted, index, p.stages[index].name)
			for _, queue := range queues {
				queue.Abort(cause)
			}
		})
	}

	failures := make([]error, len(p.stages))
	var waitGroup sync.WaitGroup
	for index := range p.stages {
		var input io.Reader = source
		if index > 0 {
			input = queues[index-1]
		}
		var output io.Writer = destination
		if index < len(queues) {
			output = queues[index]
		}

		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			if err := p.work(index, input, output); err != nil {
				failures[index] = err
				abort(index)
			}
		}()
	}
	waitGroup.Wait()

	return p.firstFailure(failures)
}

// work runs one stage. On success it closes the stage's output queue
// and then drains its input queue: bytes left over mean the stage quit
// early, and the upstream writer must not be left blocked. A panic in
// the stage is reported as its failure.
func (p *pipeline) work(index int, input io.Reader, output io.Writer) (err error) {
	current := p.stages[index]
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
		if err != nil {
			err = &StageError{Index: index, Stage: current.name, Err: err}
		}
	}()

	if err := current.run(input, output); err != nil {
		return err
	}
	if queue, ok := output.(*bytequeue.Queue); ok && index < len(p.stages)-1 {
		queue.Close()
	}
	if queue, ok := input.(*bytequeue.Queue); ok && index > 0 {
		leftover, err := io.Copy(io.Discard, queue)
		if err != nil {
			return fmt.Errorf("draining input: %w", err)
		}
		if leftover > 0 {
			return fmt.Errorf("%w: %d bytes unread", ErrPrematureExit, leftover)
		}
	}
	return nil
}

// firstFailure picks the lowest-indexed failure that is not merely the
// consequence of another stage aborting the queues.
func (p *pipeline) firstFailure(failures []error) error {
	var cascaded error
	for index, err := range failures {
		if err == nil {
			continue
		}
		if errors.Is(err, bytequeue.ErrAborted) {
			p.logger.Debug("stage unwound after abort", "stage", p.stages[index].name, "error", err)
			if cascaded == nil {
				cascaded = err
			}
			continue
		}
		return err
	}
	return cascaded
}
