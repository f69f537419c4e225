package engine

// Score is a packed middle-game/end-game evaluation pair, interpolated by
// game phase at the point of use.
type Score struct {
	M, E int32
}

// Add returns the component-wise sum.
func (s Score) Add(o Score) Score { return Score{s.M + o.M, s.E + o.E} }

// Sub returns the component-wise difference.
func (s Score) Sub(o Score) Score { return Score{s.M - o.M, s.E - o.E} }

// Neg negates both components.
func (s Score) Neg() Score { return Score{-s.M, -s.E} }

// pieceValue holds the material value of a figure, (middlegame, endgame).
var pieceValue = [FigureArraySize]Score{
	NoFigure: {0, 0},
	Pawn:     {100, 120},
	Knight:   {320, 290},
	Bishop:   {330, 300},
	Rook:     {500, 520},
	Queen:    {975, 940},
	King:     {0, 0},
}

// gamePhaseValue weighs each figure's contribution to the 0..24 game-phase
// scale used to interpolate between middlegame and endgame scores.
var gamePhaseValue = [FigureArraySize]int32{
	NoFigure: 0, Pawn: 0, Knight: 1, Bishop: 1, Rook: 2, Queen: 4, King: 0,
}

const maxGamePhase = 24

// pawnEGValue is the endgame pawn weight used in the futility-margin formulas.
var pawnEGValue = pieceValue[Pawn].E

// psqt gives a per-figure, per-square positional bonus from White's
// perspective; mirrored across the board for Black.
var psqt = [FigureArraySize][64]Score{
	Pawn: pawnPSQT(),
	Knight: centerWeighted(20),
	Bishop: centerWeighted(12),
	Rook:   centerWeighted(6),
	Queen:  centerWeighted(8),
	King:   centerWeighted(-10),
}

func pawnPSQT() [64]Score {
	var t [64]Score
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		r := sq.Rank()
		t[sq] = Score{M: int32(r-1) * 4, E: int32(r-1) * 8}
	}
	return t
}

func centerWeighted(weight int32) [64]Score {
	var t [64]Score
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		r, f := sq.Rank(), sq.File()
		dr, df := r-3, f-3
		if dr < 0 {
			dr = -dr
		}
		if df < 0 {
			df = -df
		}
		dist := dr + df
		bonus := weight - int32(dist)*weight/8
		t[sq] = Score{M: bonus, E: bonus / 2}
	}
	return t
}

func squareValue(col Color, fig Figure, sq Square) Score {
	if col == Black {
		sq = RankFile(7-sq.Rank(), sq.File())
	}
	return psqt[fig][sq]
}

// evaluatePSQTFromScratch computes the PSQT+material accumulator for pos
// by summing every piece on the board, used at position setup; incremental
// updates during search happen in apply.go.
func evaluatePSQTFromScratch(pos *Position) Score {
	var s Score
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		pi := pos.Squares[sq]
		if pi == NoPiece {
			continue
		}
		v := pieceValue[pi.Figure()].Add(squareValue(pi.Color(), pi.Figure(), sq))
		if pi.Color() == White {
			s = s.Add(v)
		} else {
			s = s.Sub(v)
		}
	}
	return s
}

func gamePhase(pos *Position) int32 {
	phase := maxGamePhase
	for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
		phase -= int(pos.Pieces[fig].Popcnt()) * int(gamePhaseValue[fig])
	}
	if phase < 0 {
		phase = 0
	}
	return int32(phase)
}

// mobilityBonus adds a small centipawn bonus per pseudo-legal destination
// square for knights/bishops/rooks/queens, approximating piece activity.
func mobilityBonus(pos *Position) Score {
	occ := pos.occupancy()
	var mg, eg int32
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		sign := int32(1)
		if col == Black {
			sign = -1
		}
		for fig := Knight; fig <= Queen; fig++ {
			bb := pos.ByPiece(col, fig)
			for bb != 0 {
				sq := bb.Pop()
				count := pieceAttacks(fig, col, sq, occ).Popcnt()
				mg += sign * int32(count) * 2
				eg += sign * int32(count) * 3
			}
		}
	}
	return Score{mg, eg}
}

// Evaluate returns a static score from the side-to-move's point of view,
// in centipawns, combining incremental material+PSQT, mobility, and the
// cached pawn-king structural term.
func Evaluate(pos *Position, pk *PawnKingTable) int32 {
	phase := gamePhase(pos)
	total := pos.PSQTMat.Add(mobilityBonus(pos))
	if pk != nil {
		total = total.Add(pk.get(pos).score)
	}
	mg, eg := total.M, total.E
	score := (mg*(maxGamePhase-phase) + eg*phase) / maxGamePhase
	return score * pos.SideToMove.Multiplier()
}
