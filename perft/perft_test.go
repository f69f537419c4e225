package perft

import (
	"testing"

	"github.com/corvidchess/corvid/engine"
)

const (
	startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	duplain  = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
)

var startposCounts = []Counters{
	{Nodes: 1},
	{Nodes: 20},
	{Nodes: 400},
	{Nodes: 8902, Captures: 34},
	{Nodes: 197281, Captures: 1576},
	{Nodes: 4865609, Captures: 82719, EnPassant: 258},
	{Nodes: 119060324, Captures: 2812008, EnPassant: 5248},
}

var kiwipeteCounts = []Counters{
	{Nodes: 1},
	{Nodes: 48, Captures: 8, Castles: 2},
	{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91},
	{Nodes: 97862, Captures: 17102, EnPassant: 45, Castles: 3162},
	{Nodes: 4085603, Captures: 757163, EnPassant: 1929, Castles: 128013, Promotions: 15172},
}

var duplainCounts = []Counters{
	{Nodes: 1},
	{Nodes: 14, Captures: 1},
	{Nodes: 191, Captures: 14},
	{Nodes: 2812, Captures: 209, EnPassant: 2},
	{Nodes: 43238, Captures: 3348, EnPassant: 123},
	{Nodes: 674624, Captures: 52051, EnPassant: 1165},
}

func testPerft(t *testing.T, fen string, want []Counters) {
	for depth, expected := range want {
		if testing.Short() && expected.Nodes > 200000 {
			return
		}
		pos, err := engine.PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("invalid FEN %q: %v", fen, err)
		}
		got := Perft(pos, depth)
		if got != expected {
			t.Errorf("%s at depth %d: got %+v, want %+v", fen, depth, got, expected)
		}
	}
}

func TestPerftInitial(t *testing.T) {
	testPerft(t, startpos, startposCounts)
}

func TestPerftKiwipete(t *testing.T) {
	testPerft(t, kiwipete, kiwipeteCounts)
}

func TestPerftDuplain(t *testing.T) {
	testPerft(t, duplain, duplainCounts)
}

func BenchmarkPerftInitial(b *testing.B) {
	pos, _ := engine.PositionFromFEN(startpos)
	for i := 0; i < b.N; i++ {
		Perft(pos, 4)
	}
}
