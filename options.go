// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import "unsafe"

// Options configures queue creation.
type Options struct {
	instrumented bool // Keep per-queue operation counters
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Plain queue, same as msq.New[Event]()
//	q := msq.Build[Event](msq.NewBuilder())
//
//	// Queue with operation counters
//	q := msq.Build[*Request](msq.NewBuilder().Instrumented())
//	snap, _ := q.Stats()
type Builder struct {
	opts Options
}

// NewBuilder creates a queue builder with default options.
func NewBuilder() *Builder {
	return &Builder{}
}

// Instrumented enables operation counters readable through Queue.Stats.
//
// Trade-off: one extra atomic add per operation and per lost CAS race.
// Counters never change queue semantics.
func (b *Builder) Instrumented() *Builder {
	b.opts.instrumented = true
	return b
}

// Build creates a Queue[T] from the builder configuration.
func Build[T any](b *Builder) *Queue[T] {
	q := New[T]()
	if b.opts.instrumented {
		q.stats = &Stats{}
	}
	return q
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
