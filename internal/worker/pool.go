// Package worker provides a keyed worker pool. Items sharing a key are
// handled by one worker in submission order; different keys run in parallel.
package worker

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// WorkItem represents one unit of work.
type WorkItem struct {
	Key     string      // Routing key; items with equal keys are serialised
	Index   int         // Submission index for tracking
	Payload interface{} // Opaque input; typed by the ProcessFunc
}

// ProcessResult represents the outcome of processing a work item.
type ProcessResult struct {
	Key   string
	Index int
	Value interface{} // Opaque output; typed by consumer
	Error error
}

// ProcessFunc is the function signature for processing a work item.
type ProcessFunc func(item WorkItem) ProcessResult

// ResultHandler receives results in place of the Results channel.
type ResultHandler func(ProcessResult)

// Pool manages a fixed set of workers, each with its own queue.
type Pool struct {
	numWorkers  int
	bufferSize  int
	queues      []chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	handler     ResultHandler
	wg          sync.WaitGroup
	stopFlag    int32  // Atomic flag for early termination
	next        uint32 // Round robin cursor for unkeyed items

	mu     sync.RWMutex
	closed bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the per-worker queue length.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// WithResultHandler delivers every result to fn from the worker goroutine
// instead of the Results channel.
func WithResultHandler(fn ResultHandler) PoolOption {
	return func(p *Pool) {
		p.handler = fn
	}
}

// NewPool creates a new worker pool with the specified number of workers and buffer size.
func NewPool(numWorkers, bufferSize int, processFunc ProcessFunc) *Pool {
	return NewPoolWithOptions(processFunc, WithWorkers(numWorkers), WithBufferSize(bufferSize))
}

// NewPoolWithOptions creates a new worker pool using functional options.
// processFunc is required; other settings have sensible defaults.
// Default: 1 worker, buffer size of 10.
func NewPoolWithOptions(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	// Create channels after options are applied
	p.queues = make([]chan WorkItem, p.numWorkers)
	for i := range p.queues {
		p.queues[i] = make(chan WorkItem, p.bufferSize)
	}
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(p.queues[i])
	}
}

// worker processes items from its queue until it is closed.
func (p *Pool) worker(queue <-chan WorkItem) {
	defer p.wg.Done()

	for item := range queue {
		if p.IsStopped() {
			continue // Drain channel without processing
		}
		result := p.processFunc(item)
		if p.handler != nil {
			p.handler(result)
			continue
		}
		p.resultChan <- result
	}
}

// queueFor picks the worker queue for an item. Keyed items always land on
// the same queue; unkeyed items are spread round robin.
func (p *Pool) queueFor(item WorkItem) chan WorkItem {
	if item.Key == "" {
		n := atomic.AddUint32(&p.next, 1) - 1
		return p.queues[n%uint32(len(p.queues))]
	}
	h := fnv.New32a()
	h.Write([]byte(item.Key))
	return p.queues[h.Sum32()%uint32(len(p.queues))]
}

// Submit submits a work item for processing.
// This may block if the worker's queue is full. It returns false if the
// pool has been closed.
func (p *Pool) Submit(item WorkItem) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.queueFor(item) <- item
	return true
}

// TrySubmit attempts to submit a work item without blocking.
// Returns false if the queue is full or the pool is stopped or closed.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.IsStopped() {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queueFor(item) <- item:
		return true
	default:
		return false
	}
}

// Stop signals workers to stop processing new items.
// Items already queued will be drained but not processed.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the worker queues and waits for all workers to finish.
// The result channel is closed once every worker is done. Close is safe to
// call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel for reading processed results.
// It stays empty when a ResultHandler is installed.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
