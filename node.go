// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import "sync/atomic"

// node is one cell of the singly linked list.
//
// item is non-nil while the element is live and nil once consumed (or for
// the initial sentinel). next is nil only on the last node. A detached node
// keeps its forward link; traversals that observe the detached state
// restart from a freshly read root pointer.
type node[T any] struct {
	item     atomic.Pointer[T]
	next     atomic.Pointer[node[T]]
	detached atomic.Bool // Linked until head advances past the node; never reset
}

// newNode creates an unpublished node. The item store needs no ordering
// against other threads: the node only becomes visible through casNext.
func newNode[T any](item *T) *node[T] {
	n := &node[T]{}
	n.item.Store(item)
	return n
}

// casItem is the removal event for the node's element.
func (n *node[T]) casItem(cmp, val *T) bool {
	return n.item.CompareAndSwap(cmp, val)
}

// casNext links val after n when racing writers may target the same link.
func (n *node[T]) casNext(cmp, val *node[T]) bool {
	return n.next.CompareAndSwap(cmp, val)
}

// storeNext publishes a link when losing a race is harmless.
func (n *node[T]) storeNext(val *node[T]) {
	n.next.Store(val)
}

func (n *node[T]) detach() {
	n.detached.Store(true)
}

func (n *node[T]) isDetached() bool {
	return n.detached.Load()
}
