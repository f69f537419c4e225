// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// history.go holds the per-thread, piece-to ordering tables: the history
// heuristic, killer moves, and counter moves. All three are owned
// exclusively by one search thread (per-thread to avoid
// false sharing) and passed by exclusive reference into the kernel,
// following zurichess's historyTable in move_ordering.go generalized
// from a flat hashed table to a direct piece*64+to index.

package engine

const historySize = int(PieceArraySize) * 64

// historyTable scores quiet moves by past success, indexed by moving
// piece and destination square (a "piece-to" table).
type historyTable struct {
	scores [historySize]int32
}

func historyIndex(pi Piece, to Square) int { return int(pi)*64 + int(to) }

func (h *historyTable) get(pi Piece, to Square) int32 {
	return h.scores[historyIndex(pi, to)]
}

// update rewards a cutoff move and penalizes the quiets tried before it,
// by ±depth², clamped to keep the table from saturating over a long game.
func (h *historyTable) update(pos *Position, best Move, tried []Move, depth int) {
	bonus := int32(depth * depth)
	const cap = 1 << 20

	apply := func(m Move, delta int32) {
		pi := pos.Squares[m.From()]
		idx := historyIndex(pi, m.To())
		v := h.scores[idx] + delta
		if v > cap {
			v = cap
		}
		if v < -cap {
			v = -cap
		}
		h.scores[idx] = v
	}

	apply(best, bonus)
	for _, m := range tried {
		if m == best {
			continue
		}
		apply(m, -bonus)
	}
}

// killerTable holds two killer moves per search height.
type killerTable struct {
	killers [MaxHeight][2]Move
}

func (k *killerTable) isKiller(height int, m Move) bool {
	return m == k.killers[height][0] || m == k.killers[height][1]
}

// save shifts m into slot 0, dropping the older killer, unless it is
// already the most recent killer.
func (k *killerTable) save(height int, m Move) {
	if k.killers[height][0] == m {
		return
	}
	k.killers[height][1] = k.killers[height][0]
	k.killers[height][0] = m
}

// counterMoveTable records, for each (piece, to) of the opponent's last
// move, the quiet reply that most recently caused a cutoff.
type counterMoveTable struct {
	table [historySize]Move
}

func (c *counterMoveTable) get(lastMove Move, lastPiece Piece) Move {
	if lastMove == NoMove {
		return NoMove
	}
	return c.table[historyIndex(lastPiece, lastMove.To())]
}

func (c *counterMoveTable) set(lastMove Move, lastPiece Piece, reply Move) {
	if lastMove == NoMove {
		return
	}
	c.table[historyIndex(lastPiece, lastMove.To())] = reply
}
