// timecontrol.go computes the ideal/max usage time budget for a self-timed
// search, adapted from zurichess's time_control.go branch-factor
// heuristic to an explicit ideal_usage/max_usage split and
// adaptive-time multipliers.

package engine

import "time"

// Limits describes a go command's time/depth budget (there is no node
// limit), matching the
// UCI collaborator's limitedByNone/limitedByDepth/limitedByTime/
// limitedBySelf variants from the UCI protocol.
type Limits struct {
	Infinite bool
	Depth    int // 0 means unset

	MoveTime time.Duration // 0 means unset

	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int

	Ponder bool
}

// TimeControl tracks the ideal/max usage budget for one search and the
// adaptive-time bookkeeping the Controller applies between depths.
type TimeControl struct {
	start      time.Time
	idealUsage time.Duration
	maxUsage   time.Duration

	depthLimit int
	infinite   bool

	prevScore    int32
	havePrevScore bool
	prevBest     Move
}

// NewTimeControl derives a budget for sideToMove from limits.
func NewTimeControl(limits Limits, sideToMove Color) *TimeControl {
	tc := &TimeControl{start: time.Now()}

	switch {
	case limits.Infinite || limits.Ponder:
		tc.infinite = true
	case limits.Depth > 0:
		tc.depthLimit = limits.Depth
	case limits.MoveTime > 0:
		tc.idealUsage = limits.MoveTime
		tc.maxUsage = limits.MoveTime
	default:
		myTime, myInc := limits.WTime, limits.WInc
		if sideToMove == Black {
			myTime, myInc = limits.BTime, limits.BInc
		}
		movesToGo := limits.MovesToGo
		if movesToGo <= 0 {
			movesToGo = 30
		}
		branchFactor := time.Duration(2)
		ideal := myTime/time.Duration(movesToGo) + myInc/2
		max := ideal * branchFactor
		if max > myTime/2 {
			max = myTime / 2
		}
		if ideal <= 0 {
			ideal = time.Millisecond * 50
		}
		if max <= 0 {
			max = time.Millisecond * 100
		}
		tc.idealUsage = ideal
		tc.maxUsage = max
	}
	return tc
}

// Elapsed returns time since the search began.
func (tc *TimeControl) Elapsed() time.Duration { return time.Since(tc.start) }

// Start returns the wall-clock instant the search began, used by the
// thread pool to set each worker's own abort-checkpoint clock.
func (tc *TimeControl) Start() time.Time { return tc.start }

// DepthLimit returns the configured depth cutoff, or 0 if unset.
func (tc *TimeControl) DepthLimit() int { return tc.depthLimit }

// MaxUsage returns the hard wall-clock ceiling for this search.
func (tc *TimeControl) MaxUsage() time.Duration { return tc.maxUsage }

// AdaptScore applies a score-drop multiplier: a drop of 8cp or
// more since the last completed depth widens ideal usage by 1.10x.
func (tc *TimeControl) AdaptScore(score int32) {
	if tc.havePrevScore && tc.prevScore-score >= 8 {
		tc.idealUsage = capDuration(tc.idealUsage*11/10, tc.maxUsage)
	}
	tc.prevScore = score
	tc.havePrevScore = true
}

// AdaptBestMove applies a best-move-change multiplier: 1.35x
// ideal usage when the best move changed since the previous depth.
func (tc *TimeControl) AdaptBestMove(best Move) {
	if tc.prevBest != NoMove && best != tc.prevBest {
		tc.idealUsage = capDuration(tc.idealUsage*135/100, tc.maxUsage)
	}
	tc.prevBest = best
}

func capDuration(v, max time.Duration) time.Duration {
	if max > 0 && v > max {
		return max
	}
	return v
}

// ShouldStartNextDepth projects whether the next iteration would exceed
// max_usage, using the last depth's completion time scaled by a growth
// factor.
func (tc *TimeControl) ShouldStartNextDepth(lastDepthTime time.Duration) bool {
	if tc.infinite {
		return true
	}
	if tc.maxUsage == 0 {
		return true
	}
	elapsed := tc.Elapsed()
	if elapsed >= tc.idealUsage {
		return false
	}
	const growthFactor = 2.0
	projected := time.Duration(float64(lastDepthTime) * (growthFactor + 0.25))
	return elapsed+projected <= tc.maxUsage
}

// Expired reports whether the hard wall-clock ceiling has passed.
func (tc *TimeControl) Expired() bool {
	if tc.infinite || tc.maxUsage == 0 {
		return false
	}
	return tc.Elapsed() > tc.maxUsage
}
