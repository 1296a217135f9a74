package emu

import (
	"sync"

	"gbemu/emu/log"
)

// AudioQueue is a bounded FIFO of stereo samples, filled by the emulation
// loop and drained by the audio sink. When full, the oldest samples are
// dropped to make room for new ones so that latency never exceeds the queue
// length.
type AudioQueue struct {
	mu      sync.Mutex
	left    []float32
	right   []float32
	limit   int
	dropped uint64
}

// NewAudioQueue returns a queue holding at most limit samples per side.
func NewAudioQueue(limit int) *AudioQueue {
	if limit <= 0 {
		panic("audio queue capacity must be positive")
	}
	return &AudioQueue{
		left:  make([]float32, 0, limit),
		right: make([]float32, 0, limit),
		limit: limit,
	}
}

// Push appends samples to the queue. left and right must have the same
// length.
func (q *AudioQueue) Push(left, right []float32) {
	if len(left) != len(right) {
		panic("audio queue: mismatched channel lengths")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(left) > q.limit {
		// Only the most recent samples would survive anyway.
		n := len(left) - q.limit
		q.drop(len(q.left) + n)
		left, right = left[n:], right[n:]
	} else if over := len(q.left) + len(left) - q.limit; over > 0 {
		q.drop(over)
	}

	q.left = append(q.left, left...)
	q.right = append(q.right, right...)
}

// drop removes the n oldest samples, n may exceed the queue length.
func (q *AudioQueue) drop(n int) {
	q.dropped += uint64(n)
	log.ModSound.DebugZ("audio queue overflow").Int("dropped", n).End()

	n = min(n, len(q.left))
	q.left = append(q.left[:0], q.left[n:]...)
	q.right = append(q.right[:0], q.right[n:]...)
}

// Pop removes all queued samples and appends them to left and right,
// returning the extended slices.
func (q *AudioQueue) Pop(left, right []float32) ([]float32, []float32) {
	q.mu.Lock()
	defer q.mu.Unlock()

	left = append(left, q.left...)
	right = append(right, q.right...)
	q.left = q.left[:0]
	q.right = q.right[:0]
	return left, right
}

// Len returns the number of queued samples per side.
func (q *AudioQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.left)
}

// Dropped returns the number of samples dropped since creation.
func (q *AudioQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
