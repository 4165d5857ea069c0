// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer so that nil can be rejected as an
// absent value. The queue stores a copy of the pointed-to value, so the
// original can be modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue appends an element at the tail of the queue (non-blocking).
	// Returns nil on success, ErrInvalidArgument if elem is nil.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. The node's item slot is cleared on
// removal to allow garbage collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
)
