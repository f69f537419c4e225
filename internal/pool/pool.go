// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool is the Thread Pool & Time Manager (C7): it owns the shared
// transposition table, spawns one engine.Thread per configured worker, and
// coordinates their Lazy-SMP depth skew and cooperative abort the way the
// zurichess's engine.Engine coordinates a single search goroutine against
// time_control.go, generalized to N workers.
package pool

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/corvidchess/corvid/engine"
)

// Pool owns a shared hash table and a resizable set of search threads.
// All exported methods are safe to call from one goroutine at a time; Go
// and SetThreads must not race with each other.
type Pool struct {
	tt *engine.HashTable

	resizeSem *semaphore.Weighted // bounds concurrent worker spin-up on SetThreads

	mu      sync.Mutex
	threads []*engine.Thread
	depths  []int // depths[i] is thread i's current iterative-deepening depth
	multiPV int
}

// maxConcurrentSpinUp bounds how many new engine.Thread workers SetThreads
// constructs at once, so a large jump in the Threads option doesn't spike
// allocation all in one instant.
const maxConcurrentSpinUp = 8

// New creates a pool with n search threads sharing a hashMB-sized table.
func New(n, hashMB int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		tt:        engine.NewHashTable(hashMB),
		resizeSem: semaphore.NewWeighted(maxConcurrentSpinUp),
		multiPV:   1,
	}
	p.threads = make([]*engine.Thread, n)
	p.depths = make([]int, n)
	for i := range p.threads {
		p.threads[i] = engine.NewThread(i, p.tt)
	}
	return p
}

// Threads returns the current worker count.
func (p *Pool) Threads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// SetThreads resizes the pool, growing or shrinking the worker slice.
func (p *Pool) SetThreads(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := len(p.threads)
	if n == cur {
		return nil
	}
	if n < cur {
		p.threads = p.threads[:n]
		p.depths = p.depths[:n]
		engine.Log().Info("pool resized", "from", cur, "to", n)
		return nil
	}

	grown := make([]*engine.Thread, n)
	copy(grown, p.threads)
	grownDepths := make([]int, n)
	copy(grownDepths, p.depths)

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	for i := cur; i < n; i++ {
		if err := p.resizeSem.Acquire(ctx, 1); err != nil {
			errOnce.Do(func() { firstErr = err })
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer p.resizeSem.Release(1)
			grown[i] = engine.NewThread(i, p.tt)
		}(i)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	p.threads = grown
	p.depths = grownDepths
	engine.Log().Info("pool resized", "from", cur, "to", n)
	return nil
}

// Clear resets the hash table and every worker's history/killer/counter
// state, matching the UCI "ucinewgame" contract.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tt.Clear()
	for i := range p.threads {
		p.threads[i] = engine.NewThread(i, p.tt)
	}
	engine.Log().V(1).Info("hash table cleared", "threads", len(p.threads))
}

// Hashfull reports the shared transposition table's per-mille occupancy.
func (p *Pool) Hashfull() int { return p.tt.Hashfull() }

// SetMultiPV configures how many root lines the reporting thread searches
// and reports per depth.
func (p *Pool) SetMultiPV(n int) {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.multiPV = n
}

func (p *Pool) getMultiPV() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.multiPV
}

// laggingBehindPeers implements the Lazy-SMP skew:
// when more than half the pool has already reached depth, thread i skips
// straight to depth+1 instead of piling onto an iteration most peers have
// passed.
func (p *Pool) laggingBehindPeers(i, depth int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.depths[i] = depth
	if len(p.depths) < 2 {
		return false
	}
	atLeastCount := 0
	for j, d := range p.depths {
		if j != i && d >= depth {
			atLeastCount++
		}
	}
	// More than half the peer pool has already reached this depth: skip
	// ahead instead of contending for the same iteration.
	return atLeastCount*2 > len(p.depths)-1
}

// Go runs a search on pos under limits, coordinating every worker thread,
// and returns the best move and ponder move the main thread (ID 0)
// settled on. logger receives progress reports from the main thread only;
// helper threads search silently, per zurichess's "only the primary
// goroutine prints info" convention in engine.go.
func (p *Pool) Go(ctx context.Context, pos *engine.Position, limits engine.Limits, logger engine.Logger) (best, ponder engine.Move) {
	p.mu.Lock()
	threads := p.threads
	p.mu.Unlock()

	p.tt.NewSearch()
	for i := range p.depths {
		p.depths[i] = 0
	}

	tc := engine.NewTimeControl(limits, pos.SideToMove)
	group, gctx := errgroup.WithContext(ctx)

	var results = make([]struct {
		best, ponder engine.Move
	}, len(threads))

	for idx, th := range threads {
		idx, th := idx, th
		th.Pos = pos.Clone()
		th.Abort = engine.AbortNone

		group.Go(func() error {
			b, pd := p.runThread(gctx, idx, th, tc, logger)
			results[idx].best = b
			results[idx].ponder = pd
			return nil
		})
	}

	// A cancelled ctx (UCI "stop") aborts every worker mid-iteration, not
	// only at the depth boundary where runThread polls ctx.
	searchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-searchDone:
		}
	}()
	_ = group.Wait()
	close(searchDone)

	best, ponder = results[0].best, results[0].ponder
	return best, ponder
}

// Stop raises AbortAll on every worker, used for a UCI "stop" command or
// a context cancellation.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.threads {
		t.Abort = engine.AbortAll
	}
}

// runThread drives one worker's iterative-deepening loop, applying the
// Lazy-SMP skew and watching for ctx cancellation between depths. Thread 0
// is the reporting thread: only it calls into logger.
func (p *Pool) runThread(ctx context.Context, idx int, t *engine.Thread, tc *engine.TimeControl, logger engine.Logger) (best, ponder engine.Move) {
	reporting := idx == 0
	l := logger
	if !reporting || l == nil {
		l = engine.NulLogger{}
	}

	l.BeginSearch()
	defer l.EndSearch()

	t.StartTime = tc.Start()
	t.MaxUsage = tc.MaxUsage()

	var scores []int32
	var lastDepthTime time.Duration
	depthLimit := tc.DepthLimit()
	if depthLimit == 0 {
		depthLimit = 64
	}

	for depth := 1; depth <= depthLimit; depth++ {
		select {
		case <-ctx.Done():
			t.Abort = engine.AbortAll
		default:
		}
		if t.Abort != engine.AbortNone {
			break
		}

		if idx != 0 && p.laggingBehindPeers(idx, depth) {
			depth++
		}

		iterStart := time.Now()
		multiPV := 1
		if reporting {
			multiPV = p.getMultiPV()
		}

		var primaryScore int32
		if multiPV <= 1 {
			t.RootExclude = nil
			primaryScore = engine.SearchAtDepth(t, depth, scores)
			if t.Abort != engine.AbortNone && depth > 1 {
				break
			}
			pv := t.PV()
			if len(pv) > 0 {
				best = pv[0]
			}
			if len(pv) > 1 {
				ponder = pv[1]
			}
			if reporting {
				l.PrintPV(pvStats(depth, 1, t, tc, p.Hashfull(), primaryScore))
			}
		} else {
			lines := multiPV
			if n := t.LegalRootMoves(); n < lines {
				lines = n
			}
			t.RootExclude = t.RootExclude[:0]
			for rank := 1; rank <= lines; rank++ {
				s := engine.SearchAtDepth(t, depth, nil)
				if t.Abort != engine.AbortNone && depth > 1 {
					break
				}
				pv := t.PV()
				if rank == 1 {
					primaryScore = s
					if len(pv) > 0 {
						best = pv[0]
					}
					if len(pv) > 1 {
						ponder = pv[1]
					}
				}
				l.PrintPV(pvStats(depth, rank, t, tc, p.Hashfull(), s))
				if len(pv) > 0 {
					t.RootExclude = append(t.RootExclude, pv[0])
				} else {
					break
				}
			}
			t.RootExclude = nil
		}
		if t.Abort != engine.AbortNone && depth > 1 {
			break
		}
		lastDepthTime = time.Since(iterStart)
		scores = append(scores, primaryScore)

		if reporting {
			tc.AdaptScore(primaryScore)
			tc.AdaptBestMove(best)
			if tc.Expired() || !tc.ShouldStartNextDepth(lastDepthTime) {
				p.Stop()
				break
			}
		}
	}
	return best, ponder
}

func pvStats(depth, rank int, t *engine.Thread, tc *engine.TimeControl, hashfull int, score int32) engine.Stats {
	mateIn := 0
	if score >= engine.MateScore-engine.MaxHeight {
		mateIn = (engine.MateScore - int(score) + 1) / 2
	} else if score <= -engine.MateScore+engine.MaxHeight {
		mateIn = -((engine.MateScore + int(score) + 1) / 2)
	}
	return engine.Stats{
		Depth:        depth,
		SelDepth:     t.SelDepth,
		Nodes:        t.Nodes,
		Time:         tc.Elapsed(),
		Hashfull:     hashfull,
		Score:        score,
		MateIn:       mateIn,
		PV:           t.PV(),
		MultiPVIndex: rank,
	}
}
