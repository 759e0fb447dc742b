package recur

import "container/heap"

// priorityQueue implements the heap.Interface for items ordered by less.
type priorityQueue[T any] struct {
	items []T
	less  func(a, b T) bool
}

var _ heap.Interface = (*priorityQueue[int])(nil)

func newPriorityQueue[T any](less func(a, b T) bool) *priorityQueue[T] {
	return &priorityQueue[T]{less: less}
}

// Len returns the priorityQueue length.
func (pq *priorityQueue[T]) Len() int { return len(pq.items) }

// Less is the items less comparator.
func (pq *priorityQueue[T]) Less(i, j int) bool {
	return pq.less(pq.items[i], pq.items[j])
}

// Swap exchanges the indexes of the items.
func (pq *priorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

// Push implements the heap.Interface.Push.
// Adds x as element Len().
func (pq *priorityQueue[T]) Push(x any) {
	pq.items = append(pq.items, x.(T))
}

// Pop implements the heap.Interface.Pop.
// Removes and returns element Len() - 1.
func (pq *priorityQueue[T]) Pop() any {
	n := len(pq.items)
	item := pq.items[n-1]
	var zero T
	pq.items[n-1] = zero
	pq.items = pq.items[:n-1]
	return item
}

// Head returns the first item of a priorityQueue without removing it.
func (pq *priorityQueue[T]) Head() T {
	return pq.items[0]
}

func (pq *priorityQueue[T]) push(item T) {
	heap.Push(pq, item)
}

func (pq *priorityQueue[T]) pop() T {
	return heap.Pop(pq).(T)
}

// reset replaces the items and establishes the heap ordering.
func (pq *priorityQueue[T]) reset(items []T) {
	pq.items = items
	heap.Init(pq)
}

// fixHead restores the ordering after the head item changed.
func (pq *priorityQueue[T]) fixHead() {
	heap.Fix(pq, 0)
}

// filter removes the items for which keep returns false.
func (pq *priorityQueue[T]) filter(keep func(T) bool) {
	items := pq.items[:0]
	for _, item := range pq.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	clear(pq.items[len(items):])
	pq.items = items
	heap.Init(pq)
}
