// Copyright 2019 The relayring Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package container

import (
	"fmt"
	"strings"
)

type (
	// Ring - a circular singly-linked container. The successor of the last
	// node is the first one, so the structure is a closed ring which has no
	// terminal nil. The number of nodes is cached and every traversal walks
	// exactly Len() nodes, it never relies on reaching a sentinel, which
	// doesn't exist.
	//
	// The zero Ring value is an empty ring ready to use. The container is not
	// safe for concurrent use.
	Ring[T any] struct {
		head *node[T]
		tail *node[T] // tail.next == head whenever the ring is not empty
		n    int
	}

	node[T any] struct {
		val  T
		next *node[T]
	}
)

// Append - adds the value as the new tail, right before the current head, so
// the ring stays closed. An empty ring gets one self-linked node. O(1)
func (r *Ring[T]) Append(v T) {
	nd := &node[T]{val: v}
	if r.head == nil {
		nd.next = nd
		r.head = nd
		r.tail = nd
		r.n = 1
		return
	}
	nd.next = r.head
	r.tail.next = nd
	r.tail = nd
	r.n++
}

// PopFront - removes the head node. It returns false, if the ring is empty.
// Removing the only node turns the ring to the empty state, otherwise the
// head advances and the tail is re-pointed to the new head. O(1)
func (r *Ring[T]) PopFront() bool {
	if r.head == nil {
		return false
	}
	if r.head == r.tail {
		r.head = nil
		r.tail = nil
		r.n = 0
		return true
	}
	r.head = r.head.next
	r.tail.next = r.head
	r.n--
	return true
}

// Rotate - advances both head and tail one step forward, so the successor of
// the head becomes the new head. The ring topology is not changed. It does
// nothing for rings with less than 2 elements. O(1)
func (r *Ring[T]) Rotate() {
	if r.n < 2 {
		return
	}
	r.head = r.head.next
	r.tail = r.tail.next
}

// Front - returns the reference to the head element. Will panic if the ring
// is empty, callers must check IsEmpty() or Len() first.
func (r *Ring[T]) Front() *T {
	if r.head == nil {
		panic("Ring is empty")
	}
	return &r.head.val
}

// Len - returns the number of elements in the ring. O(1)
func (r *Ring[T]) Len() int {
	return r.n
}

// IsEmpty - returns true if the ring contains no elements
func (r *Ring[T]) IsEmpty() bool {
	return r.n == 0
}

// ForEach - calls f once per element in head-to-tail order. The walk is
// bounded by the cached count.
func (r *Ring[T]) ForEach(f func(v T)) {
	c := r.head
	for i := 0; i < r.n; i++ {
		f(c.val)
		c = c.next
	}
}

// String - renders the ring content in head-to-tail order like
// "[1 -> 2 -> 3] (circular)". The empty ring is rendered as "[] (empty)".
func (r *Ring[T]) String() string {
	if r.head == nil {
		return "[] (empty)"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	c := r.head
	for i := 0; i < r.n; i++ {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		fmt.Fprint(&sb, c.val)
		c = c.next
	}
	sb.WriteString("] (circular)")
	return sb.String()
}

// Clear - unlinks all nodes and turns the ring to the empty state. It is
// safe to call on the empty ring.
func (r *Ring[T]) Clear() {
	c := r.head
	for i := 0; i < r.n; i++ {
		nxt := c.next
		c.next = nil
		c = nxt
	}
	r.head = nil
	r.tail = nil
	r.n = 0
}

// SplitIntoTwo - moves the ring nodes into two independent closed rings,
// leaving the receiver empty. first gets ceil(n/2) nodes, counting from the
// head, second gets the remaining floor(n/2). Former contents of first and
// second are cleared. The nodes are re-linked, not copied.
//
// The split point is found by the slow/fast walk: fast makes two steps per
// one step of slow, the ring closure is detected by comparing against the
// head. For the even count fast stops one node before the real tail, so it
// makes one compensating step.
func (r *Ring[T]) SplitIntoTwo(first, second *Ring[T]) {
	first.Clear()
	second.Clear()
	if r.head == nil {
		return
	}

	if r.n == 1 {
		first.head = r.head
		first.tail = r.tail
		first.tail.next = first.head
		first.n = 1
		r.head, r.tail, r.n = nil, nil, 0
		return
	}

	slow, fast := r.head, r.head
	for fast.next != r.head && fast.next.next != r.head {
		slow = slow.next
		fast = fast.next.next
	}
	if fast.next.next == r.head {
		fast = fast.next // even count, step to the true tail
	}

	head2 := slow.next
	slow.next = r.head // close the first half
	fast.next = head2  // close the second one

	n1 := (r.n + 1) / 2
	first.head, first.tail, first.n = r.head, slow, n1
	second.head, second.tail, second.n = head2, fast, r.n-n1

	r.head, r.tail, r.n = nil, nil, 0
}

// MergeWith - splices the whole other ring right after the receiver's tail
// re-linking 4 successor references only, no nodes are copied or visited.
// After the merge the receiver holds Len()+other.Len() elements in order:
// receiver's sequence, then other's one, wrapped back to the receiver's
// head. other becomes empty. Merging an empty other is a no-op, the empty
// receiver adopts other's nodes entirely. O(1)
func (r *Ring[T]) MergeWith(other *Ring[T]) {
	if other == r || other.head == nil {
		return
	}
	if r.head == nil {
		r.head, r.tail, r.n = other.head, other.tail, other.n
		other.head, other.tail, other.n = nil, nil, 0
		return
	}
	r.tail.next = other.head
	other.tail.next = r.head
	r.tail = other.tail
	r.n += other.n
	other.head, other.tail, other.n = nil, nil, 0
}
