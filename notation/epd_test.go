package notation

import "testing"

func TestParseFENRoundTrips(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	epd, err := ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if epd.Position.FEN() != fen {
		t.Errorf("expected FEN round trip, got %q want %q", epd.Position.FEN(), fen)
	}
}

func TestParseEPDRejectsSANBestMove(t *testing.T) {
	// normalizeSAN only bridges castling shorthand; a plain SAN move like
	// "Ng5" is not valid UCI and must fail to resolve.
	line := `r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - bm Ng5; id "test.1";`
	if _, err := ParseEPD(line); err == nil {
		t.Error("expected an error parsing a SAN-formatted bm opcode")
	}
}

func TestParseEPDExtractsID(t *testing.T) {
	line := `rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - id "test.1";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}
	if epd.ID != "test.1" {
		t.Errorf("expected id test.1, got %q", epd.ID)
	}
}

func TestParseEPDAcceptsUCIFormattedBestMove(t *testing.T) {
	line := `rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm e2e4; id "opening.1";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}
	if len(epd.BestMove) != 1 {
		t.Fatalf("expected exactly one resolved best move, got %d", len(epd.BestMove))
	}
	if got := MoveToUCI(epd.Position, epd.BestMove[0], false); got != "e2e4" {
		t.Errorf("expected bm e2e4, got %q", got)
	}
}

func TestParseEPDCastlingShorthand(t *testing.T) {
	line := `r3k2r/8/8/8/8/8/8/R3K2R w KQkq - bm O-O; id "castle.1";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}
	if len(epd.BestMove) != 1 {
		t.Fatalf("expected the O-O shorthand to resolve to one move, got %d", len(epd.BestMove))
	}
	if got := MoveToUCI(epd.Position, epd.BestMove[0], false); got != "e1g1" {
		t.Errorf("expected O-O to resolve to the standard rendering e1g1, got %q", got)
	}
}

func TestParseEPDRejectsTooShortLine(t *testing.T) {
	if _, err := ParseEPD("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"); err == nil {
		t.Error("expected an error for an EPD line missing FEN fields")
	}
}

func TestParseEPDStoresArbitraryOpcodesAsComments(t *testing.T) {
	line := `rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - c0 "opening theory";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}
	if got := epd.Comment["c0"]; got != "opening theory" {
		t.Errorf("expected c0 comment %q, got %q", "opening theory", got)
	}
}

func TestFixtureHashStableAcrossEquivalentFEN(t *testing.T) {
	a, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 50")
	if err != nil {
		t.Fatal(err)
	}
	if a.FixtureHash() != b.FixtureHash() {
		t.Error("expected fixture hash to ignore halfmove/fullmove counters")
	}
}

func TestFixtureHashDiffersAcrossPositions(t *testing.T) {
	a, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if a.FixtureHash() == b.FixtureHash() {
		t.Error("expected distinct fixture hashes for distinct positions")
	}
}

func TestEPDStringRoundTripsID(t *testing.T) {
	line := `rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm e2e4; id "opening.1";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}
	s := epd.String()
	reparsed, err := ParseEPD(s)
	if err != nil {
		t.Fatalf("failed to reparse rendered EPD %q: %v", s, err)
	}
	if reparsed.ID != epd.ID {
		t.Errorf("expected id to round trip, got %q want %q", reparsed.ID, epd.ID)
	}
}
