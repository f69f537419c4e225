// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// controller.go is the Iterative Deepening Controller (C6): it drives the
// main thread's Search Kernel calls through increasing depths with
// aspiration windows, and reports progress through
// the Logger collaborator the way zurichess's Engine.Play drives
// searchTree/search in engine.go.

package engine

import "time"

const (
	maxSearchDepth = 64
	maxAspirationW = 640
)

// IterativeDeepen runs depth = 1..maxSearchDepth (or the time/depth limit)
// on t, which must already hold the root Position, and returns the best
// move found and an optional ponder move (the PV's second move).
func IterativeDeepen(t *Thread, tc *TimeControl, logger Logger) (best, ponder Move) {
	if logger == nil {
		logger = NulLogger{}
	}
	logger.BeginSearch()
	defer logger.EndSearch()

	t.StartTime = time.Now()
	t.MaxUsage = tc.MaxUsage()
	// Drop a stale abort from an earlier search; a pending Abort re-raises it.
	t.aborted = t.Abort != AbortNone

	depthLimit := maxSearchDepth
	if d := tc.DepthLimit(); d > 0 && d < depthLimit {
		depthLimit = d
	}

	var scores []int32
	var lastDepthTime time.Duration

	for depth := 1; depth <= depthLimit; depth++ {
		if t.aborted {
			break
		}
		iterStart := time.Now()

		score := aspirationSearch(t, depth, scores)
		if t.aborted && depth > 1 {
			// Discard the partial result; the previous depth's PV stands.
			break
		}

		scores = append(scores, score)
		lastDepthTime = time.Since(iterStart)

		pv := t.PV()
		if len(pv) > 0 {
			best = pv[0]
		}
		if len(pv) > 1 {
			ponder = pv[1]
		} else {
			ponder = NoMove
		}

		mateIn := 0
		if score >= MateScore-MaxHeight {
			mateIn = (MateScore - int(score) + 1) / 2
		} else if score <= -MateScore+MaxHeight {
			mateIn = -((MateScore + int(score) + 1) / 2)
		}

		logger.PrintPV(Stats{
			Depth:        depth,
			SelDepth:     t.SelDepth,
			Nodes:        t.Nodes,
			Time:         time.Since(t.StartTime),
			Hashfull:     t.TT.Hashfull(),
			Score:        score,
			MateIn:       mateIn,
			PV:           pv,
			MultiPVIndex: 1,
		})

		tc.AdaptScore(score)
		tc.AdaptBestMove(best)

		if tc.Expired() {
			break
		}
		if !tc.ShouldStartNextDepth(lastDepthTime) {
			break
		}
	}

	return best, ponder
}

// SearchAtDepth runs one aspiration-windowed iteration at depth, given the
// scores of prior completed depths. It is exported for internal/pool,
// which drives the Lazy-SMP per-thread depth loop itself so it can skew
// helper threads ahead of the main thread between iterations.
func SearchAtDepth(t *Thread, depth int, priorScores []int32) int32 {
	// Drop a stale abort from an earlier search; a pending Abort re-raises it.
	t.aborted = t.Abort != AbortNone
	return aspirationSearch(t, depth, priorScores)
}

// aspirationSearch implements a gradually-widening
// aspiration window, falling back to a full window below depth 5 or after
// a mate score.
func aspirationSearch(t *Thread, depth int, priorScores []int32) int32 {
	if depth <= 4 || len(priorScores) < 1 {
		return t.Search(-MateScore, MateScore, depth, 0)
	}

	last := priorScores[len(priorScores)-1]
	margin := int32(1)
	for i := 1; i <= 3 && i <= len(priorScores)-1; i++ {
		delta := priorScores[len(priorScores)-i] - priorScores[len(priorScores)-i-1]
		if delta < 0 {
			delta = -delta
		}
		var weighted int32
		switch i {
		case 1:
			weighted = int32(float64(delta) * 1.6)
		case 2:
			weighted = int32(float64(delta) * 2.0)
		case 3:
			weighted = int32(float64(delta) * 0.8)
		}
		if weighted > margin {
			margin = weighted
		}
	}

	if last >= MateScore-MaxHeight || last <= -MateScore+MaxHeight {
		return t.Search(-MateScore, MateScore, depth, 0)
	}

	alpha, beta := last-margin, last+margin
	for {
		v := t.Search(alpha, beta, depth, 0)
		if t.aborted {
			return v
		}
		if v <= alpha {
			margin *= 2
			alpha = last - margin
			if margin > maxAspirationW {
				alpha = -MateScore
			}
			continue
		}
		if v >= beta {
			margin *= 2
			beta = last + margin
			if margin > maxAspirationW {
				beta = MateScore
			}
			continue
		}
		return v
	}
}
