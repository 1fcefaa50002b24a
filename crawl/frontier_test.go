package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/credex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(crawl.Link{URL: "https://lbbonline.com/work/1", Kind: crawl.KindProject}))
	assert.False(t, f.Push(crawl.Link{URL: "https://lbbonline.com/work/1", Kind: crawl.KindProject}))
	assert.False(t, f.Push(crawl.Link{URL: "https://lbbonline.com/work/1/#credits", Kind: crawl.KindProject}))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Pop_returns_projects_before_listings(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push(crawl.Link{URL: "https://lbbonline.com/work?page=2", Kind: crawl.KindListing})
	f.Push(crawl.Link{URL: "https://lbbonline.com/work/1", Kind: crawl.KindProject})
	f.Push(crawl.Link{URL: "https://lbbonline.com/work?page=3", Kind: crawl.KindListing})
	f.Push(crawl.Link{URL: "https://lbbonline.com/work/2", Kind: crawl.KindProject})

	var got []string
	for {
		link, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, link.URL)
	}

	assert.Equal(t, []string{
		"https://lbbonline.com/work/1",
		"https://lbbonline.com/work/2",
		"https://lbbonline.com/work?page=2",
		"https://lbbonline.com/work?page=3",
	}, got)
}

func TestFrontier_Pop_returns_normalized_url(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	f.Push(crawl.Link{URL: "https://LBBOnline.com/work/7/#top", Kind: crawl.KindProject})

	link, ok := f.Pop()

	require.True(t, ok)
	assert.Equal(t, "https://lbbonline.com/work/7", link.URL)
	assert.Equal(t, crawl.KindProject, link.Kind)
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://dandad.org/awards/1"))

	f.Push(crawl.Link{URL: "https://dandad.org/awards/1", Kind: crawl.KindProject})
	f.Pop()

	assert.True(t, f.Seen("https://dandad.org/awards/1"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Push(crawl.Link{URL: fmt.Sprintf("https://lbbonline.com/work/%d%03d", id, j), Kind: crawl.KindProject})
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://lbbonline.com/work/%d%03d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}
