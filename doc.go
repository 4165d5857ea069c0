// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msq provides an unbounded lock-free FIFO queue.
//
// [Queue] is a multi-producer multi-consumer linked queue in the
// Michael-Scott family. Producers and consumers never take locks and never
// block each other: every operation is a retry loop over single-field
// compare-and-swap, and each retry is caused by another goroutine's
// successful progress.
//
// # Quick Start
//
//	q := msq.New[Event]()
//
//	// Enqueue (never full)
//	ev := Event{ID: 1}
//	if err := q.Enqueue(&ev); err != nil {
//	    // only ErrInvalidArgument for a nil pointer
//	}
//
//	// Poll (comma-ok)
//	if ev, ok := q.Poll(); ok {
//	    handle(ev)
//	}
//
//	// Dequeue (error form, same shape as other lock-free queues)
//	ev, err := q.Dequeue()
//	if msq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Common Patterns
//
// Work Queue:
//
//	q := msq.New[Job]()
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            job, ok := q.Poll()
//	            if !ok {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	// Submit from anywhere
//	func Submit(j Job) error {
//	    return q.Enqueue(&j)
//	}
//
// # Algorithm
//
// The list always contains at least one node. head and tail are hints:
//
//   - tail is at or before the last node. Enqueue walks from tail to the
//     node whose next link is nil and links the new node there by CAS.
//     tail is only moved (by a plain store) when the walk took more than
//     one hop, so it trails the last node by at most one hop in steady state.
//   - head is at or before the oldest live node. Poll walks from head to the
//     first node whose item slot is non-empty and clears it by CAS. When the
//     removed node was not head, head's next link is pointed past it so that
//     later scans skip the consumed prefix.
//   - When Poll reaches the last node without finding an item, it moves head
//     there by CAS and marks the old head detached. A traversal that runs
//     into a detached node restarts from a freshly read root pointer.
//
// Consumed nodes are ordinary garbage once no traversal references them.
//
// # Size, Peek and Iteration
//
// [Queue.Size] walks the list and counts live items. It is exact only when
// no operation runs concurrently.
//
// [Queue.Peek] and [Queue.Iterator] always fail with [ErrUnsupported]. A
// best-effort answer would be stale before the caller could act on it.
//
// The queue does not deduplicate: equal values enqueued twice are
// dequeued twice.
//
// # Error Handling
//
//	ErrInvalidArgument - Enqueue(nil)
//	ErrWouldBlock      - Dequeue on an empty queue (alias of iox.ErrWouldBlock)
//	ErrUnsupported     - Peek, Iterator (alias of errors.ErrUnsupported)
//
// Lost CAS races are never surfaced; they only cause an internal retry.
//
// # Instrumentation
//
// Queues built with [Builder.Instrumented] count operations and lost races:
//
//	q := msq.Build[int](msq.NewBuilder().Instrumented())
//	// ...
//	snap, _ := q.Stats()
//	fmt.Println(snap.Enqueues, snap.NextCASLost)
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for the statistics counters. Links, item
// slots and the detached tag use [sync/atomic], so the garbage collector sees
// every reference and the race detector sees every flag.
package msq
