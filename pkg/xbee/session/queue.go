package session

import (
	"context"
	"sync"
)

// DefaultQueueSize is the number of pending handler calls buffered before
// Submit blocks.
const DefaultQueueSize = 64

// Queue runs handler calls off the ingestion goroutine.
// With zero Workers, Submit runs the call inline.
type Queue struct {
	Workers int
	Size    int

	ch   chan func()
	once sync.Once
}

// NewQueue creates a Queue.
func NewQueue(workers int) *Queue {
	return &Queue{Workers: workers, Size: DefaultQueueSize}
}

func (q *Queue) jobs() chan func() {
	q.once.Do(func() {
		size := q.Size
		if size <= 0 {
			size = DefaultQueueSize
		}
		q.ch = make(chan func(), size)
	})
	return q.ch
}

// Submit enqueues fn. It blocks when the queue is full, until there's room
// or ctx is done.
func (q *Queue) Submit(ctx context.Context, fn func()) error {
	if q == nil || q.Workers <= 0 {
		fn()
		return nil
	}
	select {
	case q.jobs() <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the workers and waits until ctx is done.
// Pending calls are discarded.
func (q *Queue) Run(ctx context.Context) error {
	if q.Workers <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	jobs := q.jobs()
	var wg sync.WaitGroup
	for n := 0; n < q.Workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case fn := <-jobs:
					fn()
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}
