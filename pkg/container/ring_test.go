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
	"testing"
)

func BenchmarkRingAppendPop(b *testing.B) {
	var r Ring[int]
	for i := 0; i < 1000; i++ {
		r.Append(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Append(i)
		r.PopFront()
	}
}

// ringOf builds a ring out of the values provided
func ringOf(vals ...int) *Ring[int] {
	r := new(Ring[int])
	for _, v := range vals {
		r.Append(v)
	}
	return r
}

func toSlice(r *Ring[int]) []int {
	res := make([]int, 0, r.Len())
	r.ForEach(func(v int) {
		res = append(res, v)
	})
	return res
}

func equalSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkClosed walks next exactly Len() times from head and requires to
// arrive back to head, which is the ring closure invariant
func checkClosed(t *testing.T, r *Ring[int]) {
	if r.head == nil {
		if r.tail != nil || r.n != 0 {
			t.Fatal("empty ring must have nil tail and n==0, but tail=", r.tail, ", n=", r.n)
		}
		return
	}
	if r.tail == nil || r.tail.next != r.head {
		t.Fatal("tail.next must be head for a non-empty ring")
	}
	c := r.head
	for i := 0; i < r.n; i++ {
		c = c.next
	}
	if c != r.head {
		t.Fatal("walking next Len() times must wrap to head, n=", r.n)
	}
}

func TestRingAppend(t *testing.T) {
	var r Ring[int]
	if !r.IsEmpty() || r.Len() != 0 {
		t.Fatal("zero value must be an empty ring")
	}
	for i := 1; i <= 10; i++ {
		r.Append(i)
		if r.Len() != i {
			t.Fatal("expecting Len()=", i, ", but it is ", r.Len())
		}
		checkClosed(t, &r)
	}
	if !equalSlices(toSlice(&r), []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}) {
		t.Fatal("wrong order ", toSlice(&r))
	}
	if r.head.val != 1 || r.tail.val != 10 {
		t.Fatal("head must be 1 and tail must be 10, but head=", r.head.val, ", tail=", r.tail.val)
	}
}

func TestRingPopFront(t *testing.T) {
	r := ringOf(1, 2, 3)
	if !r.PopFront() {
		t.Fatal("must be true for non-empty ring")
	}
	checkClosed(t, r)
	if r.Len() != 2 || *r.Front() != 2 {
		t.Fatal("head must be 2 now, Len()=2, but Len()=", r.Len())
	}
	if r.String() != "[2 -> 3] (circular)" {
		t.Fatal("wrong rendering ", r.String())
	}

	// drain it completely
	r = ringOf(1, 2, 3, 4, 5)
	for i := 0; i < 5; i++ {
		if !r.PopFront() {
			t.Fatal("pop ", i, " must succeed")
		}
		checkClosed(t, r)
	}
	if !r.IsEmpty() || r.PopFront() {
		t.Fatal("the ring must be empty and PopFront() must be false now")
	}
}

func TestRingPopFrontSingle(t *testing.T) {
	r := ringOf(42)
	if !r.PopFront() || !r.IsEmpty() {
		t.Fatal("popping the only node must empty the ring")
	}
	checkClosed(t, r)
	r.Append(7)
	checkClosed(t, r)
	if r.Len() != 1 || *r.Front() != 7 {
		t.Fatal("the ring must be usable after it was emptied")
	}
}

func TestRingRotate(t *testing.T) {
	var r Ring[int]
	r.Rotate() // no-op on empty
	checkClosed(t, &r)

	r.Append(1)
	r.Rotate() // no-op on single element
	if *r.Front() != 1 {
		t.Fatal("rotate of 1 element must not change the head")
	}

	r.Append(2)
	r.Append(3)
	r.Rotate()
	checkClosed(t, &r)
	if r.Len() != 3 || r.head.val != 2 || r.tail.val != 1 {
		t.Fatal("after rotate head must be 2 and tail must be 1, but head=",
			r.head.val, ", tail=", r.tail.val)
	}
	if !equalSlices(toSlice(&r), []int{2, 3, 1}) {
		t.Fatal("wrong sequence after rotate ", toSlice(&r))
	}

	// Len() rotations bring the head back
	for i := 0; i < r.Len(); i++ {
		r.Rotate()
	}
	if r.head.val != 2 || r.Len() != 3 {
		t.Fatal("full round of rotations must restore the head")
	}
}

// rotate must give the same head as pop+append of the same element, but
// without touching the node identity
func TestRingRotateVsPopAppend(t *testing.T) {
	r1 := ringOf(1, 2, 3, 4)
	r2 := ringOf(1, 2, 3, 4)
	for k := 0; k < 6; k++ {
		r1.Rotate()
		v := *r2.Front()
		r2.PopFront()
		r2.Append(v)
		if *r1.Front() != *r2.Front() || !equalSlices(toSlice(r1), toSlice(r2)) {
			t.Fatal("rotate and pop+append diverged at step ", k)
		}
		checkClosed(t, r1)
	}
}

func TestRingFront(t *testing.T) {
	r := ringOf(5, 6)
	*r.Front() = 50
	if !equalSlices(toSlice(r), []int{50, 6}) {
		t.Fatal("Front() must give a mutable reference, but ", toSlice(r))
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Front() on the empty ring must panic")
		}
	}()
	var e Ring[int]
	e.Front()
}

func TestRingForEach(t *testing.T) {
	var r Ring[int]
	r.ForEach(func(v int) {
		t.Fatal("must not be called for the empty ring")
	})

	r = *ringOf(1, 2, 3)
	cnt := 0
	r.ForEach(func(v int) {
		cnt++
	})
	if cnt != 3 {
		t.Fatal("expecting exactly 3 visits, but ", cnt)
	}
}

func TestRingString(t *testing.T) {
	var r Ring[int]
	if r.String() != "[] (empty)" {
		t.Fatal("wrong empty rendering ", r.String())
	}
	r = *ringOf(1, 2, 3, 4, 5)
	if r.String() != "[1 -> 2 -> 3 -> 4 -> 5] (circular)" {
		t.Fatal("wrong rendering ", r.String())
	}
	r = *ringOf(7)
	if r.String() != "[7] (circular)" {
		t.Fatal("wrong single element rendering ", r.String())
	}
}

func TestRingClear(t *testing.T) {
	var r Ring[int]
	r.Clear() // idempotent on empty
	checkClosed(t, &r)

	r = *ringOf(1, 2, 3)
	r.Clear()
	if !r.IsEmpty() || r.Len() != 0 {
		t.Fatal("must be empty after Clear()")
	}
	r.Clear() // and calling it twice changes nothing
	checkClosed(t, &r)

	r.Append(1)
	if r.Len() != 1 || *r.Front() != 1 {
		t.Fatal("the ring must be reusable after Clear()")
	}
}

func TestRingSplitSizes(t *testing.T) {
	for n := 0; n <= 8; n++ {
		vals := make([]int, n)
		r := new(Ring[int])
		for i := 0; i < n; i++ {
			vals[i] = i + 1
			r.Append(i + 1)
		}

		var first, second Ring[int]
		r.SplitIntoTwo(&first, &second)

		n1 := (n + 1) / 2
		if first.Len() != n1 || second.Len() != n-n1 {
			t.Fatal("n=", n, ": expecting sizes ", n1, "/", n-n1,
				", but ", first.Len(), "/", second.Len())
		}
		if !r.IsEmpty() {
			t.Fatal("n=", n, ": the receiver must become empty")
		}
		checkClosed(t, r)
		checkClosed(t, &first)
		checkClosed(t, &second)

		// both halves together keep the original order
		cat := append(toSlice(&first), toSlice(&second)...)
		if !equalSlices(cat, vals) {
			t.Fatal("n=", n, ": wrong order after split ", cat)
		}
	}
}

func TestRingSplitScenario(t *testing.T) {
	r := ringOf(1, 2, 3, 4, 5)
	var a, b Ring[int]
	r.SplitIntoTwo(&a, &b)
	if a.String() != "[1 -> 2 -> 3] (circular)" || b.String() != "[4 -> 5] (circular)" {
		t.Fatal("wrong halves: ", a.String(), " and ", b.String())
	}
}

func TestRingSplitClearsOutputs(t *testing.T) {
	r := ringOf(1, 2)
	a := ringOf(100, 200, 300)
	b := ringOf(400)
	r.SplitIntoTwo(a, b)
	if a.Len() != 1 || b.Len() != 1 || *a.Front() != 1 || *b.Front() != 2 {
		t.Fatal("former contents of the outputs must be dropped, but ",
			toSlice(a), " and ", toSlice(b))
	}
}

func TestRingMergeRestoresSplit(t *testing.T) {
	for n := 0; n <= 8; n++ {
		vals := make([]int, n)
		r := new(Ring[int])
		for i := 0; i < n; i++ {
			vals[i] = i + 1
			r.Append(i + 1)
		}

		var first, second Ring[int]
		r.SplitIntoTwo(&first, &second)
		first.MergeWith(&second)
		r.MergeWith(&first)

		if !first.IsEmpty() || !second.IsEmpty() {
			t.Fatal("n=", n, ": both halves must be empty after the merges")
		}
		if r.Len() != n || !equalSlices(toSlice(r), vals) {
			t.Fatal("n=", n, ": merge must restore the original sequence, but ", toSlice(r))
		}
		checkClosed(t, r)
	}
}

func TestRingMergeWith(t *testing.T) {
	// merging an empty other is a no-op
	r := ringOf(1, 2)
	var e Ring[int]
	r.MergeWith(&e)
	if r.Len() != 2 {
		t.Fatal("merge with empty must not change the receiver")
	}

	// the empty receiver adopts other entirely
	var a Ring[int]
	b := ringOf(3, 4)
	a.MergeWith(b)
	if a.Len() != 2 || !b.IsEmpty() || !equalSlices(toSlice(&a), []int{3, 4}) {
		t.Fatal("empty receiver must adopt other's nodes, but ", toSlice(&a))
	}
	checkClosed(t, &a)

	// regular splice
	r = ringOf(1, 2, 3)
	o := ringOf(4, 5)
	r.MergeWith(o)
	if r.Len() != 5 || o.Len() != 0 {
		t.Fatal("expecting sizes 5/0, but ", r.Len(), "/", o.Len())
	}
	if r.String() != "[1 -> 2 -> 3 -> 4 -> 5] (circular)" {
		t.Fatal("wrong merged sequence ", r.String())
	}
	checkClosed(t, r)
	checkClosed(t, o)

	// merge with itself must not corrupt the ring
	r.MergeWith(r)
	if r.Len() != 5 {
		t.Fatal("self merge must be a no-op")
	}
	checkClosed(t, r)
}
