// Package perft counts the number of reachable leaf positions below a
// Position at increasing depths: the move generator and Move Executor's
// correctness proof, shaped after zurichess's own perft/perft.go tool.
package perft

import "github.com/corvidchess/corvid/engine"

// Counters tallies leaf nodes and the tactical move kinds that led to
// them, matching zurichess's perft.counters shape.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

func (c *Counters) add(o Counters) {
	c.Nodes += o.Nodes
	c.Captures += o.Captures
	c.EnPassant += o.EnPassant
	c.Castles += o.Castles
	c.Promotions += o.Promotions
}

// Perft counts leaf nodes reachable from pos at exactly depth plies,
// classifying the move kind that produced each leaf.
func Perft(pos *engine.Position, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	var buf [256]engine.Move
	moves := engine.GenerateAll(pos, buf[:0])

	var r Counters
	for _, m := range moves {
		var undo engine.Undo
		if !engine.Apply(pos, m, &undo) {
			continue
		}

		if depth == 1 {
			switch m.Kind() {
			case engine.EnPassant:
				r.EnPassant++
			case engine.Castle:
				r.Castles++
			case engine.Promotion:
				r.Promotions++
			}
			if undo.Captured != engine.NoPiece {
				r.Captures++
			}
		}

		r.add(Perft(pos, depth-1))
		engine.Revert(pos, m, &undo)
	}
	return r
}
