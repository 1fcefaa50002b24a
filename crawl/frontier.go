package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/credex/bloom"
)

// LinkKind distinguishes pages a mission extracts from pages it only scans.
type LinkKind int

const (
	// KindListing pages are analyzed for project links and pagination.
	KindListing LinkKind = iota
	// KindProject pages are run through the extraction pipeline.
	KindProject
)

// Link is a mission work item.
type Link struct {
	URL  string
	Kind LinkKind
}

// Frontier is a mission work queue with Bloom filter deduplication.
// Project pages are popped before listing pages so that discovered work
// drains before more listing pages are fetched; within a kind, links pop
// in push order. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
	seq   int
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push queues link. Returns false if its URL has already been seen;
// fragment and trailing-slash variants count as the same URL.
func (f *Frontier) Push(link Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Visit(link.URL) {
		return false
	}
	link.URL = bloom.Normalize(link.URL)
	heap.Push(f.queue, queued{Link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next link. The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return Link{}, false
	}
	item, _ := heap.Pop(f.queue).(queued)
	return item.Link, true
}

// Len returns the number of queued links.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued.
func (f *Frontier) Seen(url string) bool {
	return f.seen.Test(url)
}

type queued struct {
	Link
	seq int
}

// linkHeap orders project links first, then by push order.
type linkHeap []queued

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Kind != h[j].Kind {
		return h[i].Kind > h[j].Kind
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	item, _ := x.(queued)
	*h = append(*h, item)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
