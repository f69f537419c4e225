// apply.go is the Move Executor: it mutates a Position in place and
// records enough state in an Undo frame to reverse the mutation exactly,
// including every incrementally-maintained field (hash, pk_hash,
// king_attackers, castle_rooks, ep_square, fifty-move counter, PSQT
// accumulator). Dispatch is a sum-type switch over Move.Kind(), replacing
// zurichess's function-pointer-per-kind table with an explicit match,
// without the caller needing to reconstruct board state by hand.

package engine

// Undo is the opaque frame apply() fills in and revert() consumes.
type Undo struct {
	Hash          uint64
	PKHash        uint64
	KingAttackers Bitboard
	CastleRooks   Bitboard
	EpSquare      Square
	FiftyMove     int
	PSQTMat       Score
	Captured      Piece
}

// Apply mutates pos to play m, filling undo so Revert can reverse it, and
// reports whether m was legal (left the mover's own king unattacked). An
// illegal move still corrupts pos transiently but Apply reverts it itself
// before returning false, so callers never need to call Revert on a false
// result.
func Apply(pos *Position, m Move, undo *Undo) bool { return apply(pos, m, undo) }

// Revert undoes the mutation Apply recorded into undo.
func Revert(pos *Position, m Move, undo *Undo) { revert(pos, m, undo) }

// ApplyNull plays a null move (passes the turn without moving a piece).
func ApplyNull(pos *Position, undo *Undo) { applyNull(pos, undo) }

// RevertNull undoes ApplyNull.
func RevertNull(pos *Position, undo *Undo) { revertNull(pos, undo) }

// IsTactical reports whether m is a capture, en-passant, or promotion.
func IsTactical(pos *Position, m Move) bool { return isTactical(pos, m) }

// IsPseudoLegal validates a move (typically a hash-table move) against pos
// without fully applying it.
func IsPseudoLegal(pos *Position, m Move) bool { return isPseudoLegal(pos, m) }

// EstimatedValue approximates the material value m gains, for move
// ordering.
func EstimatedValue(pos *Position, m Move) int32 { return estimatedValue(pos, m) }

func pieceVal(col Color, fig Figure, sq Square) Score {
	v := pieceValue[fig].Add(squareValue(col, fig, sq))
	if col == Black {
		return v.Neg()
	}
	return v
}

// addPiece places pi on sq, updating hash, pk_hash and PSQT.
func (pos *Position) addPiece(sq Square, pi Piece) {
	pos.put(sq, pi)
	pos.Hash ^= ZobristPiece[pi][sq]
	if pi.Figure() == Pawn || pi.Figure() == King {
		pos.PKHash ^= ZobristPiece[pi][sq]
	}
	pos.PSQTMat = pos.PSQTMat.Add(pieceVal(pi.Color(), pi.Figure(), sq))
}

// removePieceAt removes whatever sits on sq (must be non-empty), updating
// hash, pk_hash and PSQT.
func (pos *Position) removePieceAt(sq Square) Piece {
	pi := pos.Squares[sq]
	pos.remove(sq, pi)
	pos.Hash ^= ZobristPiece[pi][sq]
	if pi.Figure() == Pawn || pi.Figure() == King {
		pos.PKHash ^= ZobristPiece[pi][sq]
	}
	pos.PSQTMat = pos.PSQTMat.Sub(pieceVal(pi.Color(), pi.Figure(), sq))
	return pi
}

func (pos *Position) movePiece(from, to Square) Piece {
	pi := pos.removePieceAt(from)
	pos.addPiece(to, pi)
	return pi
}

func (pos *Position) setEpSquare(sq Square) {
	if pos.EpSquare != SquareNone {
		pos.Hash ^= ZobristEnpassant[pos.EpSquare]
	}
	pos.EpSquare = sq
	if sq != SquareNone {
		pos.Hash ^= ZobristEnpassant[sq]
	}
}

func (pos *Position) maskCastleRooks(mask Bitboard) {
	changed := pos.CastleRooks &^ mask
	for changed != 0 {
		sq := changed.Pop()
		pos.Hash ^= ZobristCastle[sq]
	}
	pos.CastleRooks &= mask
}

func (pos *Position) flipSideToMove() {
	pos.Hash ^= ZobristColor[White] ^ ZobristColor[Black]
	pos.SideToMove = pos.SideToMove.Opposite()
}

// apply mutates pos by move m, filling undo. It returns false, with pos
// fully restored, if the move leaves the moving side's own king attacked.
func apply(pos *Position, m Move, undo *Undo) bool {
	undo.Hash = pos.Hash
	undo.PKHash = pos.PKHash
	undo.KingAttackers = pos.KingAttackers
	undo.CastleRooks = pos.CastleRooks
	undo.EpSquare = pos.EpSquare
	undo.FiftyMove = pos.FiftyMove
	undo.PSQTMat = pos.PSQTMat
	undo.Captured = NoPiece

	us := pos.SideToMove
	from, to := m.From(), m.To()

	switch m.Kind() {
	case Normal:
		moving := pos.Squares[from]
		if pos.Squares[to] != NoPiece {
			undo.Captured = pos.removePieceAt(to)
			pos.FiftyMove = 0
		} else if moving.Figure() == Pawn {
			pos.FiftyMove = 0
		} else {
			pos.FiftyMove++
		}
		pos.movePiece(from, to)
		pos.maskCastleRooks(pos.CastleMasks[from] & pos.CastleMasks[to])

		pos.setEpSquare(SquareNone)
		if moving.Figure() == Pawn {
			diff := int(to) - int(from)
			if diff == 16 || diff == -16 {
				epSq := Square((int(from) + int(to)) / 2)
				adjFile := epSq.File()
				enemy := us.Opposite()
				var hasAdjacent bool
				if adjFile > 0 && pos.ByPiece(enemy, Pawn).Has(RankFile(to.Rank(), adjFile-1)) {
					hasAdjacent = true
				}
				if adjFile < 7 && pos.ByPiece(enemy, Pawn).Has(RankFile(to.Rank(), adjFile+1)) {
					hasAdjacent = true
				}
				if hasAdjacent {
					pos.setEpSquare(epSq)
				}
			}
		}

	case EnPassant:
		pos.FiftyMove = 0
		captureSq := RankFile(from.Rank(), to.File())
		undo.Captured = pos.removePieceAt(captureSq)
		pos.movePiece(from, to)
		pos.setEpSquare(SquareNone)

	case Promotion:
		pos.FiftyMove = 0
		if pos.Squares[to] != NoPiece {
			undo.Captured = pos.removePieceAt(to)
		}
		pos.removePieceAt(from)
		pos.addPiece(to, ColorFigure(us, m.PromoFigure()))
		pos.maskCastleRooks(pos.CastleMasks[from] & pos.CastleMasks[to])
		pos.setEpSquare(SquareNone)

	case Castle:
		pos.FiftyMove++
		kingFrom, rookFrom := from, to
		rank := kingFrom.Rank()
		var kingTo, rookTo Square
		if rookFrom < kingFrom {
			kingTo, rookTo = RankFile(rank, 2), RankFile(rank, 3)
		} else {
			kingTo, rookTo = RankFile(rank, 6), RankFile(rank, 5)
		}
		// Both home squares are vacated before either piece is placed on
		// its destination, so this is correct even in the Chess960 corner
		// case where a destination square coincides with a home square
		// (e.g. the rook already stands on its own castled square: the
		// matching remove/add XOR pair on that square cancels to a no-op).
		king := pos.removePieceAt(kingFrom)
		rook := pos.removePieceAt(rookFrom)
		pos.addPiece(kingTo, king)
		pos.addPiece(rookTo, rook)
		pos.maskCastleRooks(pos.CastleMasks[kingFrom])
		pos.setEpSquare(SquareNone)
	}

	pos.flipSideToMove()
	pos.KingAttackers = pos.computeKingAttackers()

	// Legality: the side that just moved must not leave its own king
	// attacked. pos.SideToMove is now the opponent, so check the mover's
	// king via the opponent's attackers.
	moverKing := pos.ByPiece(us, King).AsSquare()
	if pos.attackersTo(moverKing, pos.occupancy())&pos.Colours[pos.SideToMove] != 0 {
		revert(pos, m, undo)
		return false
	}
	return true
}

// revert reverses a successful apply using only undo and the board state
// it left behind.
func revert(pos *Position, m Move, undo *Undo) {
	pos.flipSideToMove()
	us := pos.SideToMove
	from, to := m.From(), m.To()

	switch m.Kind() {
	case Normal:
		moving := pos.Squares[to]
		pos.remove(to, moving)
		pos.put(from, moving)
		if undo.Captured != NoPiece {
			pos.put(to, undo.Captured)
		}

	case EnPassant:
		moving := ColorFigure(us, Pawn)
		pos.remove(to, moving)
		pos.put(from, moving)
		captureSq := RankFile(from.Rank(), to.File())
		pos.put(captureSq, undo.Captured)

	case Promotion:
		pos.remove(to, pos.Squares[to])
		pos.put(from, ColorFigure(us, Pawn))
		if undo.Captured != NoPiece {
			pos.put(to, undo.Captured)
		}

	case Castle:
		kingFrom, rookFrom := from, to
		rank := kingFrom.Rank()
		var kingTo, rookTo Square
		if rookFrom < kingFrom {
			kingTo, rookTo = RankFile(rank, 2), RankFile(rank, 3)
		} else {
			kingTo, rookTo = RankFile(rank, 6), RankFile(rank, 5)
		}
		king := pos.Squares[kingTo]
		rook := pos.Squares[rookTo]
		pos.remove(kingTo, king)
		pos.remove(rookTo, rook)
		pos.put(kingFrom, king)
		pos.put(rookFrom, rook)
	}

	pos.Hash = undo.Hash
	pos.PKHash = undo.PKHash
	pos.KingAttackers = undo.KingAttackers
	pos.CastleRooks = undo.CastleRooks
	pos.EpSquare = undo.EpSquare
	pos.FiftyMove = undo.FiftyMove
	pos.PSQTMat = undo.PSQTMat
}

// apply_null flips side-to-move, increments the fifty-move counter and
// clears en-passant, with no board change.
func applyNull(pos *Position, undo *Undo) {
	undo.Hash = pos.Hash
	undo.EpSquare = pos.EpSquare
	undo.FiftyMove = pos.FiftyMove
	pos.setEpSquare(SquareNone)
	pos.FiftyMove++
	pos.flipSideToMove()
}

func revertNull(pos *Position, undo *Undo) {
	pos.flipSideToMove()
	pos.Hash = undo.Hash
	pos.EpSquare = undo.EpSquare
	pos.FiftyMove = undo.FiftyMove
}

// isTactical reports whether m is a capture, en-passant, or promotion.
func isTactical(pos *Position, m Move) bool {
	switch m.Kind() {
	case EnPassant, Promotion:
		return true
	case Castle:
		return false
	default:
		return pos.Squares[m.To()] != NoPiece
	}
}

// isPseudoLegal rejects NoMove/NullMove, moves from empty or enemy
// squares, malformed promotions, and castles whose path is blocked,
// attacked, or begun in check — the constant-time validator used before
// trusting a hash move from the transposition table.
func isPseudoLegal(pos *Position, m Move) bool {
	if m == NoMove || m == NullMove {
		return false
	}
	from, to := m.From(), m.To()
	mover := pos.Squares[from]
	if mover == NoPiece || mover.Color() != pos.SideToMove {
		return false
	}
	if from == to {
		return false
	}

	switch m.Kind() {
	case Castle:
		rook := pos.Squares[to]
		if rook.Color() != pos.SideToMove || rook.Figure() != Rook {
			return false
		}
		if !pos.CastleRooks.Has(to) {
			return false
		}
		return castleStillPseudoLegal(pos, from, to)

	case Promotion:
		if mover.Figure() != Pawn {
			return false
		}
		promoRank := 7
		if pos.SideToMove == Black {
			promoRank = 0
		}
		if to.Rank() != promoRank {
			return false
		}
		return pawnDestinationPlausible(pos, from, to)

	case EnPassant:
		if mover.Figure() != Pawn || pos.EpSquare != to {
			return false
		}
		return pawnAttackTable[pos.SideToMove][from].Has(to)

	default: // Normal
		target := pos.Squares[to]
		if target != NoPiece && target.Color() == pos.SideToMove {
			return false
		}
		if mover.Figure() == Pawn {
			return pawnDestinationPlausible(pos, from, to)
		}
		return pieceAttacks(mover.Figure(), pos.SideToMove, from, pos.occupancy()).Has(to)
	}
}

func pawnDestinationPlausible(pos *Position, from, to Square) bool {
	if pawnAttackTable[pos.SideToMove][from].Has(to) {
		return pos.Squares[to] != NoPiece && pos.Squares[to].Color() != pos.SideToMove
	}
	step := pawnAdvanceOne(pos.SideToMove)
	occ := pos.occupancy()
	if int(to) == int(from)+step {
		return !occ.Has(to)
	}
	startRank := 1
	if pos.SideToMove == Black {
		startRank = 6
	}
	if from.Rank() == startRank && int(to) == int(from)+2*step {
		mid := Square(int(from) + step)
		return !occ.Has(mid) && !occ.Has(to)
	}
	return false
}

func castleStillPseudoLegal(pos *Position, kingSq, rookSq Square) bool {
	if pos.InCheck() {
		return false
	}
	queenside := rookSq < kingSq
	rank := kingSq.Rank()
	var kingTo, rookTo Square
	if queenside {
		kingTo, rookTo = RankFile(rank, 2), RankFile(rank, 3)
	} else {
		kingTo, rookTo = RankFile(rank, 6), RankFile(rank, 5)
	}
	occ := pos.occupancy()
	if !castlePathClear(occ, kingSq, rookSq, kingTo, rookTo) {
		return false
	}
	return !castlePathAttacked(pos, pos.SideToMove.Opposite(), kingSq, kingTo)
}

// estimatedValue returns an approximate SEE-style static value of m in
// centipawns, used by the Move Picker as the victim (MVV) term of its
// MVV/LVA noisy-move ordering.
func estimatedValue(pos *Position, m Move) int32 {
	var v int32
	switch m.Kind() {
	case EnPassant:
		v = int32(pieceValue[Pawn].M)
	case Promotion:
		v = int32(pieceValue[m.PromoFigure()].M - pieceValue[Pawn].M)
		if captured := pos.Squares[m.To()]; captured != NoPiece {
			v += int32(pieceValue[captured.Figure()].M)
		}
	default:
		if captured := pos.Squares[m.To()]; captured != NoPiece {
			v = int32(pieceValue[captured.Figure()].M)
		}
	}
	return v
}
