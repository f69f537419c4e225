// Package notation implements move and position notation helpers: UCI
// long-algebraic move strings and EPD test fixtures, split out of engine
// the way zurichess's notation package sits alongside
// bitbucket.org/brtzsnr/zurichess/engine rather than inside it.
package notation

import (
	"fmt"

	"github.com/corvidchess/corvid/engine"
)

// MoveToUCI renders m the way a UCI GUI expects: "e2e4", "e7e8q", and for
// castling either the Chess960 king-takes-rook square (when chess960 is
// true, matching the engine's internal encoding) or
// the standard two-square king hop ("e1g1") that non-Chess960 GUIs expect.
func MoveToUCI(pos *engine.Position, m engine.Move, chess960 bool) string {
	if m == engine.NoMove {
		return "0000"
	}
	from, to := m.From(), m.To()
	if m.Kind() == engine.Castle && !chess960 {
		to = standardCastleDestination(from, to)
	}
	s := from.String() + to.String()
	if m.Kind() == engine.Promotion {
		s += string("nbrq"[promoIndex(m.PromoFigure())])
	}
	return s
}

func promoIndex(fig engine.Figure) int {
	switch fig {
	case engine.Bishop:
		return 1
	case engine.Rook:
		return 2
	case engine.Queen:
		return 3
	default:
		return 0
	}
}

// standardCastleDestination maps a king's home square and the rook square
// it is castling toward onto the standard UCI destination two files over.
func standardCastleDestination(kingFrom, rookFrom engine.Square) engine.Square {
	rank := kingFrom.Rank()
	if rookFrom.File() < kingFrom.File() {
		return engine.RankFile(rank, 2) // queenside: c-file
	}
	return engine.RankFile(rank, 6) // kingside: g-file
}

// UCIToMove parses a UCI move string against pos, matching it to the
// pseudo-legal move whose rendering (via MoveToUCI) agrees, the same
// generate-and-match approach as zurichess's Position.UCIToMove.
func UCIToMove(pos *engine.Position, s string, chess960 bool) (engine.Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return engine.NoMove, fmt.Errorf("notation: malformed UCI move %q", s)
	}
	var buf [64]engine.Move
	candidates := engine.GenerateAll(pos, buf[:0])
	for _, m := range candidates {
		if MoveToUCI(pos, m, chess960) == s {
			return m, nil
		}
	}
	return engine.NoMove, fmt.Errorf("notation: no legal move matches %q", s)
}
