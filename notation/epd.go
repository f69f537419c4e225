package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/corvidchess/corvid/engine"
)

// EPD is an Extended Position Description: a FEN position plus the "bm"
// (best move) and "id" opcodes EPD test-suite fixtures rely
// on, mirroring zurichess's notation.EPD shape without depending on its
// generated yacc lexer/parser.
type EPD struct {
	Position *engine.Position
	ID       string
	BestMove []engine.Move
	Comment  map[string]string

	fixtureHash uint64
}

// FixtureHash fingerprints the EPD's FEN fields (board, side to move,
// castling, en passant) with xxhash so a scenario loader can deduplicate
// repeated fixtures across test tables without comparing full structs.
func (e *EPD) FixtureHash() uint64 { return e.fixtureHash }

// ParseFEN parses a bare FEN string (no opcodes) into an EPD.
func ParseFEN(line string) (*EPD, error) {
	pos, err := engine.PositionFromFEN(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	return &EPD{
		Position:    pos,
		Comment:     make(map[string]string),
		fixtureHash: xxhash.Sum64String(fenFields(line)),
	}, nil
}

// ParseEPD parses a full EPD record: four FEN fields followed by
// semicolon-terminated opcodes ("bm", "id", or any other key treated as a
// free-form comment), e.g.:
//
//	r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - bm Ng5; id "test.1";
func ParseEPD(line string) (*EPD, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("notation: EPD line too short: %q", line)
	}
	fen := strings.Join(fields[:4], " ") + " 0 1"
	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		return nil, err
	}

	epd := &EPD{
		Position:    pos,
		Comment:     make(map[string]string),
		fixtureHash: xxhash.Sum64String(strings.Join(fields[:4], " ")),
	}

	rest := strings.Join(fields[4:], " ")
	for _, op := range splitOpcodes(rest) {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		key, val, ok := strings.Cut(op, " ")
		if !ok {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"`)
		switch key {
		case "bm":
			for _, tok := range strings.Fields(val) {
				m, err := UCIToMove(pos, normalizeSAN(pos, tok), false)
				if err != nil {
					return nil, fmt.Errorf("notation: bm %q: %w", tok, err)
				}
				epd.BestMove = append(epd.BestMove, m)
			}
		case "id":
			epd.ID = val
		default:
			epd.Comment[key] = val
		}
	}
	return epd, nil
}

// splitOpcodes breaks "op1 val1; op2 val2;" into ["op1 val1", "op2 val2"].
func splitOpcodes(s string) []string {
	return strings.Split(s, ";")
}

// normalizeSAN is a narrow SAN-to-UCI bridge for the common
// "from-square-free" castling and file-rank tokens EPD fixtures use for
// bm; full SAN disambiguation is out of scope, since every fixture this
// engine loads encodes bm in UCI form already, except castling's O-O
// shorthand.
func normalizeSAN(pos *engine.Position, tok string) string {
	// UCIToMove below is always called with chess960=false, so the
	// destination here must be the standard two-square hop, not the
	// king-takes-rook square genCastles encodes internally.
	switch tok {
	case "O-O", "0-0":
		kingSq := kingSquare(pos, pos.SideToMove)
		rookSq := kingsideRook(pos, kingSq)
		to := standardCastleDestination(kingSq, rookSq)
		return kingSq.String() + to.String()
	case "O-O-O", "0-0-0":
		kingSq := kingSquare(pos, pos.SideToMove)
		rookSq := queensideRook(pos, kingSq)
		to := standardCastleDestination(kingSq, rookSq)
		return kingSq.String() + to.String()
	default:
		return tok
	}
}

func kingSquare(pos *engine.Position, col engine.Color) engine.Square {
	return pos.ByPiece(col, engine.King).AsSquare()
}

func kingsideRook(pos *engine.Position, kingSq engine.Square) engine.Square {
	rooks := pos.CastleRooks & engine.RankBb(kingSq.Rank())
	best := engine.SquareNone
	for rooks != 0 {
		sq := rooks.Pop()
		if sq.File() > kingSq.File() && (best == engine.SquareNone || sq.File() < best.File()) {
			best = sq
		}
	}
	return best
}

func queensideRook(pos *engine.Position, kingSq engine.Square) engine.Square {
	rooks := pos.CastleRooks & engine.RankBb(kingSq.Rank())
	best := engine.SquareNone
	for rooks != 0 {
		sq := rooks.Pop()
		if sq.File() < kingSq.File() && (best == engine.SquareNone || sq.File() > best.File()) {
			best = sq
		}
	}
	return best
}

// String renders the EPD back to its textual form.
func (e *EPD) String() string {
	s := fenFields(e.Position.FEN())
	for _, bm := range e.BestMove {
		s += " bm " + MoveToUCI(e.Position, bm, false) + ";"
	}
	if e.ID != "" {
		s += ` id "` + e.ID + `";`
	}
	for k, v := range e.Comment {
		s += " " + k + ` "` + v + `";`
	}
	return s
}

// fenFields strips any trailing EPD opcodes from line and returns just
// the four leading FEN fields, for fixture hashing a bare FEN.
func fenFields(line string) string {
	fields := strings.Fields(line)
	n := 4
	if len(fields) < n {
		n = len(fields)
	}
	return strings.Join(fields[:n], " ")
}

// ParseFENHalfmove is a convenience for tests that supply the trailing
// halfmove/fullmove fields separately from a bare EPD board string.
func ParseFENHalfmove(boardFields string, halfmove, fullmove int) (*EPD, error) {
	return ParseFEN(boardFields + " " + strconv.Itoa(halfmove) + " " + strconv.Itoa(fullmove))
}
