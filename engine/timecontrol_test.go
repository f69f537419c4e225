package engine

import (
	"testing"
	"time"
)

func TestNewTimeControlInfinite(t *testing.T) {
	tc := NewTimeControl(Limits{Infinite: true}, White)
	if !tc.infinite {
		t.Errorf("expected infinite mode for Limits.Infinite")
	}
	if tc.Expired() {
		t.Errorf("an infinite search must never expire")
	}
	if !tc.ShouldStartNextDepth(time.Hour) {
		t.Errorf("an infinite search must always start the next depth")
	}

	tc2 := NewTimeControl(Limits{Ponder: true}, White)
	if !tc2.infinite {
		t.Errorf("expected infinite mode for Limits.Ponder")
	}
}

func TestNewTimeControlDepthLimit(t *testing.T) {
	tc := NewTimeControl(Limits{Depth: 12}, White)
	if tc.DepthLimit() != 12 {
		t.Errorf("expected DepthLimit 12, got %d", tc.DepthLimit())
	}
	if tc.MaxUsage() != 0 {
		t.Errorf("a pure depth limit must not also impose a wall-clock cap")
	}
}

func TestNewTimeControlMoveTime(t *testing.T) {
	tc := NewTimeControl(Limits{MoveTime: 500 * time.Millisecond}, White)
	if tc.MaxUsage() != 500*time.Millisecond {
		t.Errorf("expected MaxUsage 500ms, got %v", tc.MaxUsage())
	}
}

func TestNewTimeControlClockBudget(t *testing.T) {
	tc := NewTimeControl(Limits{
		WTime: 60 * time.Second,
		BTime: 60 * time.Second,
		WInc:  time.Second,
		BInc:  time.Second,
	}, White)
	if tc.MaxUsage() <= 0 || tc.idealUsage <= 0 {
		t.Errorf("expected positive ideal and max usage from a clock budget")
	}
	if tc.MaxUsage() > 30*time.Second {
		t.Errorf("MaxUsage must never exceed half the remaining clock, got %v", tc.MaxUsage())
	}

	// Black's budget must come from BTime/BInc, not White's.
	tcBlack := NewTimeControl(Limits{
		WTime: 60 * time.Second,
		BTime: 10 * time.Second,
	}, Black)
	tcWhite := NewTimeControl(Limits{
		WTime: 60 * time.Second,
		BTime: 10 * time.Second,
	}, White)
	if tcBlack.idealUsage >= tcWhite.idealUsage {
		t.Errorf("black's smaller clock must yield a smaller ideal usage")
	}
}

func TestAdaptScoreWidensOnDrop(t *testing.T) {
	tc := NewTimeControl(Limits{WTime: 60 * time.Second, BTime: 60 * time.Second}, White)
	before := tc.idealUsage
	tc.AdaptScore(100)
	if tc.idealUsage != before {
		t.Errorf("the first AdaptScore call must not widen (no prior score yet)")
	}
	tc.AdaptScore(90) // drop of 10 >= 8
	if tc.idealUsage <= before {
		t.Errorf("expected ideal usage to widen after an 8+ centipawn drop")
	}
}

func TestAdaptScoreDoesNotWidenOnSmallDrop(t *testing.T) {
	tc := NewTimeControl(Limits{WTime: 60 * time.Second, BTime: 60 * time.Second}, White)
	tc.AdaptScore(100)
	before := tc.idealUsage
	tc.AdaptScore(95) // drop of 5 < 8
	if tc.idealUsage != before {
		t.Errorf("expected no widening for a sub-threshold score drop")
	}
}

func TestAdaptBestMoveWidensOnChange(t *testing.T) {
	tc := NewTimeControl(Limits{WTime: 60 * time.Second, BTime: 60 * time.Second}, White)
	m1 := MakeMove(Normal, SquareB2, SquareB4, NoFigure)
	m2 := MakeMove(Normal, SquareA2, SquareA4, NoFigure)
	tc.AdaptBestMove(m1)
	before := tc.idealUsage
	tc.AdaptBestMove(m2)
	if tc.idealUsage <= before {
		t.Errorf("expected widening when the best move changes between depths")
	}
	beforeStable := tc.idealUsage
	tc.AdaptBestMove(m2)
	if tc.idealUsage != beforeStable {
		t.Errorf("expected no widening when the best move repeats")
	}
}

func TestAdaptUsageNeverExceedsMax(t *testing.T) {
	tc := NewTimeControl(Limits{WTime: time.Second, BTime: time.Second}, White)
	tc.idealUsage = tc.maxUsage
	tc.AdaptScore(1000)
	tc.AdaptScore(1)
	tc.AdaptBestMove(MakeMove(Normal, SquareB2, SquareB4, NoFigure))
	tc.AdaptBestMove(MakeMove(Normal, SquareA2, SquareA4, NoFigure))
	if tc.idealUsage > tc.maxUsage {
		t.Errorf("idealUsage must never exceed maxUsage, got %v > %v", tc.idealUsage, tc.maxUsage)
	}
}

func TestExpiredAfterMoveTime(t *testing.T) {
	tc := NewTimeControl(Limits{MoveTime: 20 * time.Millisecond}, White)
	if tc.Expired() {
		t.Errorf("must not be expired immediately")
	}
	time.Sleep(30 * time.Millisecond)
	if !tc.Expired() {
		t.Errorf("expected expiry after the move time elapsed")
	}
}

func TestShouldStartNextDepthRejectsProjectedOverrun(t *testing.T) {
	tc := NewTimeControl(Limits{MoveTime: 50 * time.Millisecond}, White)
	if tc.ShouldStartNextDepth(time.Hour) {
		t.Errorf("a huge last-depth time must veto starting another iteration")
	}
}
