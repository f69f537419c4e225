// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// search.go is the Search Kernel (C5): negamax with fail-soft alpha-beta,
// principal variation search, the full pruning/extension/reduction stack,
// and quiescence search. It generalizes zurichess's searchTree/
// searchQuiescence from engine.go into an explicit node preamble,
// replacing zurichess's single-thread assumptions with the per-thread
// Thread type shared across a Lazy-SMP pool (internal/pool).
//
// Cancellation is modeled as the design notes suggest: a propagated
// "aborted" result rather than long-jump-style unwinding. Every recursive
// call checks Thread.aborted before doing any work and again after any
// child call; once set, frames return immediately with whatever partial
// value they have, relying on the Iterative Deepening Controller to
// discard an incomplete depth rather than trust its result.

package engine

import (
	"time"
)

// Node-count interval at which cancellation is polled.
const checkpointNodes = 8192

// Pruning/extension/reduction depth thresholds. Values follow common
// practice in the alpha-beta literature zurichess's own constants are
// drawn from (see engine.go's nullMoveDepthLimit/futilityDepthLimit).
const (
	razorDepth         = 3
	betaPruningDepth   = 8
	nullMoveDepth      = 2
	iidDepth           = 4
	futilityDepth      = 6
	lmpDepth           = 8
	checkExtensionPly  = 6
)

var lmpCount = [lmpDepth + 1]int{0, 3, 4, 6, 9, 13, 18, 24, 30}

var razorMargin = [razorDepth + 1]int32{0, 240, 280, 300}

// AbortState is the three-state cooperative cancellation flag shared
// between a Thread and the pool coordinating it: AbortNone means keep
// going; AbortDepth and AbortAll both make the thread unwind at its next
// poll, and the search does not tell the two apart.
type AbortState int32

const (
	AbortNone AbortState = iota
	AbortDepth
	AbortAll
)

// Thread is one Lazy-SMP worker's exclusive state: its own Position copy,
// PV buffer, killer/history/counter tables, and pawn-king cache. The
// transposition table is the only structure shared by reference across
// threads.
type Thread struct {
	ID  int
	Pos *Position
	TT  *HashTable
	PK  *PawnKingTable

	History  historyTable
	Killers  killerTable
	Counters counterMoveTable

	Nodes    uint64
	SelDepth int

	Abort      AbortState   // set by peers/controller, polled by this thread
	aborted    bool         // sticky once raised, short-circuits the recursion
	StartTime  time.Time
	MaxUsage   time.Duration

	// RootExclude holds root moves the search must skip, used by MultiPV
	// to find the 2nd, 3rd, ... best root move after the 1st is known.
	RootExclude []Move

	pv [MaxHeight][]Move

	lastMove  [MaxHeight]Move
	lastPiece [MaxHeight]Piece
}

// NewThread creates a worker bound to a shared transposition table.
func NewThread(id int, tt *HashTable) *Thread {
	return &Thread{ID: id, TT: tt, PK: new(PawnKingTable)}
}

func (t *Thread) checkAbort() bool {
	if t.aborted {
		return true
	}
	if t.Abort != AbortNone {
		t.aborted = true
		return true
	}
	if t.Nodes%checkpointNodes == 0 && t.MaxUsage > 0 {
		if time.Since(t.StartTime) > t.MaxUsage {
			t.aborted = true
			t.Abort = AbortAll
			return true
		}
	}
	return false
}

// PV returns the principal variation found at the root after a completed
// search.
func (t *Thread) PV() []Move { return t.pv[0] }

func (t *Thread) rootExcluded(m Move) bool {
	for _, e := range t.RootExclude {
		if e == m {
			return true
		}
	}
	return false
}

// LegalRootMoves counts the legal moves at the root position, used by
// MultiPV to know how many distinct root lines can possibly be reported.
func (t *Thread) LegalRootMoves() int {
	var moves []Move
	moves = GenerateAll(t.Pos, moves)
	n := 0
	for _, m := range moves {
		var undo Undo
		if apply(t.Pos, m, &undo) {
			n++
			revert(t.Pos, m, &undo)
		}
	}
	return n
}

func (t *Thread) setPV(height int, m Move, child []Move) {
	line := make([]Move, 0, len(child)+1)
	line = append(line, m)
	line = append(line, child...)
	t.pv[height] = line
}

// Search runs the negamax/alpha-beta kernel.
func (t *Thread) Search(alpha, beta int32, depth int, height int) int32 {
	t.pv[height] = t.pv[height][:0]

	// 1. Cancellation.
	t.Nodes++
	if t.checkAbort() {
		return alpha
	}

	pos := t.Pos
	isPV := beta-alpha > 1
	isRoot := height == 0

	if isPV && height > t.SelDepth {
		t.SelDepth = height
	}

	// 2. Mate-distance pruning.
	if alpha < -MateScore+int32(height) {
		alpha = -MateScore + int32(height)
	}
	if beta > MateScore-int32(height)-1 {
		beta = MateScore - int32(height) - 1
	}
	if alpha >= beta {
		return alpha
	}

	// 3. Fifty-move draw.
	if pos.FiftyMove > 100 {
		return 0
	}

	// 4. Repetition draw.
	if !isRoot && pos.IsRepetition() {
		return 0
	}

	inCheck := pos.InCheck()

	// 5. Horizon.
	if depth <= 0 && !inCheck {
		return t.Qsearch(alpha, beta, height)
	}
	if depth <= 0 {
		depth = 0
	}

	var ttMove Move
	ttTactical := false
	if res, ok := t.TT.Get(pos.Hash); ok {
		ttMove = res.Move
		if ttMove != NoMove {
			ttTactical = isTactical(pos, ttMove)
		}
		if !isPV && int(res.Depth) >= depth {
			v := valueFromTT(res.Value, height)
			switch res.Bound {
			case BoundPV:
				return v
			case BoundCut:
				if v > alpha {
					alpha = v
				}
			case BoundAll:
				if v < beta {
					beta = v
				}
			}
			if alpha >= beta {
				return v
			}
		}
	}

	eval := int32(0)
	if !inCheck {
		eval = Evaluate(pos, t.PK)
	}
	futilityMargin := eval + int32(depth)*int32(float64(pawnEGValue)*0.95)

	if !isPV && !inCheck && !isRoot {
		// Razoring.
		if depth <= razorDepth {
			margin := razorMargin[depth]
			if eval+margin < alpha {
				if depth <= 1 {
					return t.Qsearch(alpha, beta, height)
				}
				v := t.Qsearch(alpha-margin, alpha-margin+1, height)
				if v <= alpha-margin {
					return v
				}
			}
		}

		// Reverse futility / beta pruning.
		if depth <= betaPruningDepth && hasNonPawnMaterial(pos) {
			margin := int32(depth) * int32(float64(pawnEGValue)*0.95)
			if eval-margin > beta {
				return eval - margin
			}
		}

		// Null-move pruning.
		if depth >= nullMoveDepth && eval >= beta && hasNonPawnMaterial(pos) && t.lastMove[height] != NullMove {
			r := 4 + depth/6 + int(clampI32((eval-beta+200)/400, 0, 3))
			if r > 7 {
				r = 7
			}
			var undo Undo
			if height+1 < MaxHeight {
				t.lastMove[height+1] = NullMove
			}
			applyNull(pos, &undo)
			v := -t.Search(-beta, -beta+1, depth-r, height+1)
			revertNull(pos, &undo)
			if t.aborted {
				return alpha
			}
			if v >= beta {
				if v >= MateScore-MaxHeight {
					return beta
				}
				return v
			}
		}
	}

	// Internal iterative deepening.
	if isPV && ttMove == NoMove && depth >= iidDepth {
		t.Search(alpha, beta, depth-2, height)
		if res, ok := t.TT.Get(pos.Hash); ok {
			ttMove = res.Move
		}
	}

	// Check extension.
	if inCheck && (isPV && !isRoot || depth <= checkExtensionPly) {
		depth++
	}

	killer0, killer1 := t.Killers.killers[height][0], t.Killers.killers[height][1]
	counter := t.Counters.get(t.lastMove[height], t.lastPiece[height])
	picker := NewMovePicker(pos, ttMove, killer0, killer1, &t.History, false).WithCounter(counter)

	var tried []Move
	var best int32 = -MateScore - 1
	var bestMove Move
	oldAlpha := alpha
	played := 0
	quiets := 0

	for {
		m := picker.Next()
		if m == NoMove {
			break
		}
		if isRoot && t.rootExcluded(m) {
			continue
		}
		quiet := !isTactical(pos, m)

		if !isPV && quiet && played >= 1 && futilityMargin <= alpha && depth <= futilityDepth {
			continue
		}

		var undo Undo
		if !apply(pos, m, &undo) {
			continue
		}

		if !isPV && quiet && played >= 1 && depth <= lmpDepth && quiets > lmpCount[depth] && !pos.InCheck() {
			revert(pos, m, &undo)
			continue
		}

		played++
		if quiet {
			quiets++
			tried = append(tried, m)
		}

		pos.PushHistory()
		if height+1 < MaxHeight {
			t.lastMove[height+1] = m
			t.lastPiece[height+1] = pos.Squares[m.To()]
		}

		r := 1
		if played >= 4 && depth >= 3 && quiet {
			hist := t.History.get(pos.Squares[m.To()], m.To())
			rr := 2 + (played-4)/8 + (depth-4)/6 - int(hist/24)
			if !isPV {
				rr += 2
			}
			if ttTactical && bestMove == ttMove {
				rr++
			}
			r = clampInt(rr, 1, depth-1)
		}

		var v int32
		if played == 1 || isPV {
			v = -t.Search(-beta, -alpha, depth-r, height+1)
		} else {
			v = -t.Search(-alpha-1, -alpha, depth-r, height+1)
			if v > alpha && (r > 1 || isPV) {
				v = -t.Search(-beta, -alpha, depth-1, height+1)
			}
		}

		pos.PopHistory()
		revert(pos, m, &undo)

		if t.aborted {
			return alpha
		}

		if v > best {
			best = v
			bestMove = m
			if v > alpha {
				alpha = v
				t.setPV(height, m, t.pv[height+1])
				if alpha >= beta {
					if quiet {
						t.Killers.save(height, m)
						t.Counters.set(t.lastMove[height], t.lastPiece[height], m)
					}
					break
				}
			}
		}
	}

	if played == 0 {
		if inCheck {
			return -MateScore + int32(height)
		}
		return 0
	}

	if best >= beta && !isTactical(pos, bestMove) {
		t.History.update(pos, bestMove, tried, depth)
	}

	var bound BoundKind
	switch {
	case best >= beta:
		bound = BoundCut
	case best > oldAlpha:
		bound = BoundPV
	default:
		bound = BoundAll
	}
	t.TT.Put(pos.Hash, int8(clampInt(depth, 0, 127)), bound, valueToTT(best, height), bestMove)

	return best
}

// Qsearch is the tactical-horizon search.
func (t *Thread) Qsearch(alpha, beta int32, height int) int32 {
	t.Nodes++
	if t.checkAbort() {
		return alpha
	}

	pos := t.Pos
	if pos.FiftyMove > 100 {
		return 0
	}
	if pos.IsRepetition() {
		return 0
	}
	if height >= MaxHeight-1 {
		return Evaluate(pos, t.PK)
	}

	inCheck := pos.InCheck()
	standPat := int32(0)
	if !inCheck {
		standPat = Evaluate(pos, t.PK)
		if standPat > alpha {
			alpha = standPat
		}
		if alpha >= beta {
			return alpha
		}

		maxGain := heaviestEnemyPieceValue(pos)
		if standPat+maxGain < alpha && !pawnsNearPromotion(pos) {
			return standPat
		}
	}

	picker := NewMovePicker(pos, NoMove, NoMove, NoMove, &t.History, true)
	best := standPat
	if inCheck {
		best = -MateScore + int32(height)
	}

	played := 0
	for {
		m := picker.Next()
		if m == NoMove {
			break
		}
		if !inCheck && seeSign(pos, m) {
			continue
		}

		var undo Undo
		if !apply(pos, m, &undo) {
			continue
		}
		played++
		v := -t.Qsearch(-beta, -alpha, height+1)
		revert(pos, m, &undo)

		if t.aborted {
			return alpha
		}

		if v > best {
			best = v
			if v > alpha {
				alpha = v
				if alpha >= beta {
					return alpha
				}
			}
		}
	}

	if inCheck && played == 0 {
		return -MateScore + int32(height)
	}
	return best
}

func hasNonPawnMaterial(pos *Position) bool {
	us := pos.SideToMove
	return pos.ByPiece(us, Knight)|pos.ByPiece(us, Bishop)|pos.ByPiece(us, Rook)|pos.ByPiece(us, Queen) != 0
}

func heaviestEnemyPieceValue(pos *Position) int32 {
	them := pos.SideToMove.Opposite()
	for fig := Queen; fig >= Pawn; fig-- {
		if pos.ByPiece(them, fig) != 0 {
			return int32(pieceValue[fig].M)
		}
	}
	return int32(pieceValue[Pawn].M)
}

func pawnsNearPromotion(pos *Position) bool {
	return pos.Pieces[Pawn]&(RankBb(1)|RankBb(6)) != 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
