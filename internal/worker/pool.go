package worker

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Task represents a unit of work to be processed by the pool.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the worker pool and returns one task per
// input, in input order. Inputs that were never started because ctx was
// cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	started := make([]bool, len(inputs))
	inputCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{
					Input:  inputs[idx],
					Result: result,
					Err:    err,
				}
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- i:
			started[i] = true
		}
	}
	close(inputCh)
	wg.Wait()

	for i, ok := range started {
		if !ok {
			results[i] = Task[T, R]{Input: inputs[i], Err: ctx.Err()}
		}
	}
	return results
}

// Batch splits inputs into batches of at most batchSize items.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

// BatchByChars splits texts into batches holding at most maxItems entries and
// at most maxChars characters. A single text longer than maxChars gets a batch
// of its own.
func BatchByChars(texts []string, maxItems, maxChars int) [][]string {
	if maxItems <= 0 {
		maxItems = 1
	}

	var batches [][]string
	var current []string
	chars := 0
	for _, t := range texts {
		n := utf8.RuneCountInString(t)
		if len(current) > 0 && (len(current) >= maxItems || (maxChars > 0 && chars+n > maxChars)) {
			batches = append(batches, current)
			current, chars = nil, 0
		}
		current = append(current, t)
		chars += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
