// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"math/rand/v2"
	"testing"
)

// checkList verifies the structural invariants of a quiescent queue.
func checkList[T any](t *testing.T, q *Queue[T]) {
	t.Helper()
	h := q.head.Load()
	if h == nil {
		t.Fatal("head is nil")
	}
	live := 0
	for p := h; p != nil; p = p.next.Load() {
		if p.isDetached() {
			t.Fatal("detached node reachable from head")
		}
		if p.item.Load() != nil {
			live++
		}
	}
	if got := q.Size(); got != live {
		t.Fatalf("Size: got %d, walked %d live nodes", got, live)
	}
}

func TestHeadAdvanceDetachesOldHead(t *testing.T) {
	q := New[int]()
	sentinel := q.head.Load()

	v := 1
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if got, ok := q.Poll(); !ok || got != 1 {
		t.Fatalf("Poll: got (%d, %v)", got, ok)
	}
	// Head only moves when a scan reaches the end without an item.
	if q.head.Load() != sentinel {
		t.Fatal("head moved on a successful Poll")
	}
	if _, ok := q.Poll(); ok {
		t.Fatal("Poll on empty: got item")
	}

	h := q.head.Load()
	if h == sentinel {
		t.Fatal("head did not advance on empty Poll")
	}
	if !sentinel.isDetached() {
		t.Fatal("old head not marked detached")
	}
	if h.isDetached() {
		t.Fatal("new head is detached")
	}
	if h.item.Load() != nil || h.next.Load() != nil {
		t.Fatal("new head must be the consumed last node")
	}
	checkList(t, q)
}

func TestEnqueueReanchorsFromDetachedTail(t *testing.T) {
	q := Build[int](NewBuilder().Instrumented())
	sentinel := q.tail.Load()

	v := 1
	_ = q.Enqueue(&v)
	q.Poll()
	q.Poll() // advances head, detaches the sentinel

	if q.tail.Load() != sentinel {
		t.Fatal("tail should still point at the detached sentinel")
	}

	v = 2
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	tail := q.tail.Load()
	if tail == sentinel || tail.isDetached() {
		t.Fatal("tail not re-anchored past the detached node")
	}
	if got := tail.item.Load(); got == nil || *got != 2 {
		t.Fatal("tail does not hold the new element")
	}

	snap, _ := q.Stats()
	if snap.Restarts != 1 {
		t.Errorf("Restarts: got %d, want 1", snap.Restarts)
	}
	if got, ok := q.Poll(); !ok || got != 2 {
		t.Fatalf("Poll: got (%d, %v), want (2, true)", got, ok)
	}
	checkList(t, q)
}

func TestTailHopsEveryOtherEnqueue(t *testing.T) {
	q := New[int]()
	sentinel := q.tail.Load()

	v := 0
	_ = q.Enqueue(&v)
	if q.tail.Load() != sentinel {
		t.Fatal("tail moved after one hop")
	}
	_ = q.Enqueue(&v)
	tail := q.tail.Load()
	if tail == sentinel || tail.next.Load() != nil {
		t.Fatal("tail not moved to the last node after two hops")
	}
}

func TestPollHopsConsumedPrefix(t *testing.T) {
	q := New[int]()
	h := q.head.Load()

	for i := range 3 {
		_ = q.Enqueue(&i)
	}
	first := h.next.Load()
	second := first.next.Load()

	if got, ok := q.Poll(); !ok || got != 0 {
		t.Fatalf("Poll: got (%d, %v)", got, ok)
	}
	if h.next.Load() != second {
		t.Fatal("head link not moved past the consumed node")
	}
	if first.item.Load() != nil {
		t.Fatal("consumed node still holds its item")
	}
	checkList(t, q)
}

func TestSizeWalksPastDetachedNode(t *testing.T) {
	q := New[int]()
	for i := range 3 {
		_ = q.Enqueue(&i)
	}
	q.head.Load().detach()
	if n := q.Size(); n != 3 {
		t.Fatalf("Size: got %d, want 3", n)
	}
}

func TestInvariantsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	q := New[int]()
	for i := range 5000 {
		if rng.IntN(2) == 0 {
			_ = q.Enqueue(&i)
		} else {
			q.Poll()
		}
		if i%50 == 0 {
			checkList(t, q)
		}
	}
	for {
		if _, ok := q.Poll(); !ok {
			break
		}
	}
	checkList(t, q)
	if n := q.Size(); n != 0 {
		t.Fatalf("Size after drain: got %d", n)
	}
}
