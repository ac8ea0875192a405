package checker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errFakeTimeout = errors.New("fake: timeout")

// scriptedTransport replays a fixed list of replies per URL, cycling
// through them. A zero StatusCode reply means a transport failure.
type scriptedTransport struct {
	mu      sync.Mutex
	replies map[string][]Response
	calls   map[string]int
}

func newScriptedTransport(replies map[string][]Response) *scriptedTransport {
	return &scriptedTransport{replies: replies, calls: make(map[string]int)}
}

func (s *scriptedTransport) Get(_ context.Context, url string, _ time.Duration) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.calls[url]
	s.calls[url] = n + 1

	rs := s.replies[url]
	if len(rs) == 0 {
		return Response{StatusCode: 200, Elapsed: time.Millisecond}, nil
	}
	r := rs[n%len(rs)]
	if r.StatusCode == 0 {
		return Response{}, errFakeTimeout
	}
	return r, nil
}

func (s *scriptedTransport) callCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

// gaugeTransport sleeps on every call and tracks the peak number of
// concurrent calls.
type gaugeTransport struct {
	delay    time.Duration
	inFlight int64
	peak     int64
	total    int64
}

func (g *gaugeTransport) Get(ctx context.Context, _ string, _ time.Duration) (Response, error) {
	n := atomic.AddInt64(&g.inFlight, 1)
	defer atomic.AddInt64(&g.inFlight, -1)
	atomic.AddInt64(&g.total, 1)

	for {
		p := atomic.LoadInt64(&g.peak)
		if n <= p || atomic.CompareAndSwapInt64(&g.peak, p, n) {
			break
		}
	}

	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	return Response{StatusCode: 200, Elapsed: g.delay}, nil
}

// panicTransport panics for one URL and answers 200 for the rest.
type panicTransport struct {
	url string
}

func (p panicTransport) Get(_ context.Context, url string, _ time.Duration) (Response, error) {
	if url == p.url {
		panic("transport exploded")
	}
	return Response{StatusCode: 200, Elapsed: 2 * time.Millisecond}, nil
}

// cancellingTransport answers 200 and cancels the batch context on the first call.
type cancellingTransport struct {
	cancel context.CancelFunc
}

func (c *cancellingTransport) Get(_ context.Context, _ string, _ time.Duration) (Response, error) {
	c.cancel()
	return Response{StatusCode: 200, Elapsed: time.Millisecond}, nil
}
