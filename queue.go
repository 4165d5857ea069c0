// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"iter"
	"sync/atomic"
)

// Queue is an unbounded lock-free multi-producer multi-consumer FIFO queue.
//
// Based on the linked queue by Michael and Scott (PODC 1996) with lazy
// pointer hopping: head and tail are hints that may lag the true ends of the
// list, and are only moved when a traversal has walked past them.
//
// Linearization points:
//   - Enqueue: the CAS that links the new node after the last node
//   - Poll/Dequeue: the CAS that clears a node's item slot
//
// The list always holds at least one node. Consumed nodes stay in the list
// with an empty item slot until head advances past them, at which point the
// old head is marked detached. Nodes are reclaimed by the garbage collector
// once no traversal still references them.
//
// Memory: one node plus one boxed copy of the element per entry
type Queue[T any] struct {
	_     pad
	head  atomic.Pointer[node[T]] // Consumer root, may lag live prefix
	_     padPtr
	tail  atomic.Pointer[node[T]] // Producer hint, at or before last node
	_     padPtr
	stats *Stats // nil unless built Instrumented
}

// New creates an empty queue holding a single sentinel node.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	sentinel := newNode[T](nil)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue appends a copy of *elem at the tail of the queue.
// Returns ErrInvalidArgument if elem is nil; the queue is unchanged.
//
// Enqueue is lock-free and never blocks. It never returns ErrWouldBlock.
func (q *Queue[T]) Enqueue(elem *T) error {
	if elem == nil {
		return ErrInvalidArgument
	}
	v := *elem
	n := newNode(&v)

	t := q.tail.Load()
	p := t
	for {
		next := p.next.Load()
		if next == nil {
			// p is the last node
			if p.casNext(nil, n) {
				if p != t {
					// Hop two nodes at a time; losing this store is harmless.
					q.tail.Store(n)
					q.stats.onTailHop()
				}
				q.stats.onEnqueue()
				return nil
			}
			q.stats.onNextCASLost()
			continue
		}
		if p.isDetached() {
			// Fell off the list. A moved tail is the better bet; otherwise
			// every live node is reachable from head.
			q.stats.onRestart()
			if nt := q.tail.Load(); nt != t {
				t = nt
				p = t
			} else {
				p = q.head.Load()
			}
			continue
		}
		// Check for tail updates after two hops.
		if p != t {
			if nt := q.tail.Load(); nt != t {
				t = nt
				p = t
				continue
			}
		}
		p = next
	}
}

// Poll removes and returns the oldest element.
// Returns (zero-value, false) if the queue was observed empty.
//
// Poll is lock-free and never blocks.
func (q *Queue[T]) Poll() (T, bool) {
restart:
	for {
		h := q.head.Load()
		p := h
		for {
			item := p.item.Load()
			if item != nil {
				if p.casItem(item, nil) {
					if p != h {
						if next := p.next.Load(); next != nil {
							// Skip the consumed prefix for later scans.
							h.storeNext(next)
							q.stats.onHeadHop()
						}
					}
					q.stats.onDequeue()
					return *item, true
				}
				q.stats.onItemCASLost()
			}
			next := p.next.Load()
			if next == nil {
				q.updateHead(h, p)
				q.stats.onEmpty()
				var zero T
				return zero, false
			}
			if p.isDetached() {
				q.stats.onRestart()
				continue restart
			}
			p = next
		}
	}
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue was observed empty.
func (q *Queue[T]) Dequeue() (T, error) {
	elem, ok := q.Poll()
	if !ok {
		return elem, ErrWouldBlock
	}
	return elem, nil
}

// updateHead tries to move head from h to p. On success the old head is
// marked detached so that traversals still holding it restart from head.
func (q *Queue[T]) updateHead(h, p *node[T]) {
	if h != p && q.head.CompareAndSwap(h, p) {
		h.detach()
		q.stats.onHeadAdvance()
	}
}

// Size returns the number of live elements.
//
// Size walks the list once and is not linearizable: the result is only
// exact when no Enqueue or Poll runs concurrently.
func (q *Queue[T]) Size() int {
	n := 0
	for p := q.head.Load(); p != nil; p = p.next.Load() {
		if p.item.Load() != nil {
			n++
		}
	}
	return n
}

// Peek always returns ErrUnsupported. Looking at the head element without
// removing it is not offered.
func (q *Queue[T]) Peek() (T, error) {
	var zero T
	return zero, ErrUnsupported
}

// Iterator always returns (nil, ErrUnsupported). Iteration is not offered.
func (q *Queue[T]) Iterator() (iter.Seq[T], error) {
	return nil, ErrUnsupported
}

// Stats returns a snapshot of the operation counters.
// Returns false if the queue was not built Instrumented.
func (q *Queue[T]) Stats() (StatsSnapshot, bool) {
	if q.stats == nil {
		return StatsSnapshot{}, false
	}
	return q.stats.Snapshot(), true
}
