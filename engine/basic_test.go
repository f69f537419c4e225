package engine

import "testing"

func TestSquareFromString(t *testing.T) {
	data := []struct {
		sq  Square
		str string
	}{
		{SquareB4, "b4"},
		{SquareA3, "a3"},
		{SquareC1, "c1"},
		{SquareH8, "h8"},
	}
	for _, d := range data {
		if d.sq.String() != d.str {
			t.Errorf("expected %v, got %v", d.str, d.sq.String())
		}
		if sq, err := SquareFromString(d.str); err != nil {
			t.Errorf("parse error: %v", err)
		} else if d.sq != sq {
			t.Errorf("expected %v, got %v", d.sq, sq)
		}
	}
}

func TestRankFile(t *testing.T) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			if sq.Rank() != r || sq.File() != f {
				t.Errorf("expected (rank, file) (%d, %d), got (%d, %d)",
					r, f, sq.Rank(), sq.File())
			}
		}
	}
}

func checkPiece(t *testing.T, pi Piece, co Color, fig Figure) {
	t.Helper()
	if pi.Color() != co || pi.Figure() != fig {
		t.Errorf("for %v expected %v %v, got %v %v", pi, co, fig, pi.Color(), pi.Figure())
	}
}

func TestPieceRoundTrip(t *testing.T) {
	for co := ColorMinValue; co <= ColorMaxValue; co++ {
		for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
			checkPiece(t, ColorFigure(co, fig), co, fig)
		}
	}
}

func TestMoveRoundTrip(t *testing.T) {
	data := []struct {
		kind  MoveKind
		from  Square
		to    Square
		promo Figure
	}{
		{Normal, SquareB2, SquareB4, NoFigure},
		{EnPassant, SquareB5, SquareA6, NoFigure},
		{Promotion, SquareA7, SquareA8, Queen},
		{Promotion, SquareB7, SquareB8, Knight},
		{Castle, SquareE1, SquareH1, NoFigure},
	}
	for _, d := range data {
		m := MakeMove(d.kind, d.from, d.to, d.promo)
		if m.Kind() != d.kind {
			t.Errorf("for %v expected kind %v, got %v", d, d.kind, m.Kind())
		}
		if m.From() != d.from {
			t.Errorf("for %v expected from %v, got %v", d, d.from, m.From())
		}
		if m.To() != d.to {
			t.Errorf("for %v expected to %v, got %v", d, d.to, m.To())
		}
		if d.kind == Promotion && m.PromoFigure() != d.promo {
			t.Errorf("for %v expected promo %v, got %v", d, d.promo, m.PromoFigure())
		}
	}
}

func TestNullMoveDoesNotCollide(t *testing.T) {
	if NullMove == NoMove {
		t.Fatal("NullMove must differ from NoMove")
	}
	// No legal move ever has from == to, so NullMove's encoding (a Castle
	// kind with from==to==SquareA1) never aliases a real move.
	if NullMove.From() != NullMove.To() {
		t.Errorf("expected NullMove.From() == NullMove.To(), got %v != %v",
			NullMove.From(), NullMove.To())
	}
}

func TestBitboardPop(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareD1.Bitboard() | SquareH8.Bitboard()
	var got []Square
	for bb != 0 {
		got = append(got, bb.Pop())
	}
	want := []Square{SquareA1, SquareD1, SquareH8}
	if len(got) != len(want) {
		t.Fatalf("expected %d squares, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestColorOpposite(t *testing.T) {
	if White.Opposite() != Black || Black.Opposite() != White {
		t.Error("Opposite must swap White and Black")
	}
}
