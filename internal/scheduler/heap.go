package scheduler

import "container/heap"

type frontierItem struct {
	ruleID string
	key    tieBreakKey
}

type frontierHeap []frontierItem

func (h frontierHeap) Len() int            { return len(h) }
func (h frontierHeap) Less(i, j int) bool  { return less(h[i].key, h[j].key) }
func (h frontierHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *frontierHeap) Push(x interface{}) { *h = append(*h, x.(frontierItem)) }
func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// orderedFrontier is a minimal priority queue over rule_ids keyed by the
// scheduler's default tie-break, used to pop the deterministic processing
// order within a layer.
type orderedFrontier struct {
	h frontierHeap
}

func newOrderedFrontier() *orderedFrontier {
	f := &orderedFrontier{}
	heap.Init(&f.h)
	return f
}

func (f *orderedFrontier) push(ruleID string, key tieBreakKey) {
	heap.Push(&f.h, frontierItem{ruleID: ruleID, key: key})
}

func (f *orderedFrontier) empty() bool {
	return f.h.Len() == 0
}

func (f *orderedFrontier) pop() string {
	return heap.Pop(&f.h).(frontierItem).ruleID
}
