package emu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seq(from, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(from + i)
	}
	return s
}

func neg(s []float32) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = -v
	}
	return out
}

func TestAudioQueue(t *testing.T) {
	q := NewAudioQueue(8)

	q.Push(seq(0, 3), neg(seq(0, 3)))
	q.Push(seq(3, 3), neg(seq(3, 3)))
	if q.Len() != 6 {
		t.Fatalf("len = %d, want 6", q.Len())
	}

	left, right := q.Pop(nil, nil)
	if diff := cmp.Diff(seq(0, 6), left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(neg(seq(0, 6)), right); diff != "" {
		t.Errorf("right mismatch (-want +got):\n%s", diff)
	}
	if q.Len() != 0 || q.Dropped() != 0 {
		t.Errorf("len = %d dropped = %d, want 0 0", q.Len(), q.Dropped())
	}
}

func TestAudioQueueDropsOldest(t *testing.T) {
	q := NewAudioQueue(8)

	q.Push(seq(0, 6), seq(0, 6))
	q.Push(seq(6, 5), seq(6, 5))

	left, _ := q.Pop(nil, nil)
	if diff := cmp.Diff(seq(3, 8), left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if q.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", q.Dropped())
	}

	// Pushing more than the queue can hold keeps the most recent samples.
	q.Push(seq(0, 2), seq(0, 2))
	q.Push(seq(100, 10), seq(100, 10))
	left, right := q.Pop(nil, nil)
	if diff := cmp.Diff(seq(102, 8), left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seq(102, 8), right); diff != "" {
		t.Errorf("right mismatch (-want +got):\n%s", diff)
	}
	if q.Dropped() != 3+2+2 {
		t.Errorf("dropped = %d, want 7", q.Dropped())
	}
}

func TestAudioQueuePopAppends(t *testing.T) {
	q := NewAudioQueue(4)
	q.Push(seq(1, 2), seq(1, 2))

	left, _ := q.Pop([]float32{0}, nil)
	if diff := cmp.Diff(seq(0, 3), left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
}
