// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/corvidchess/corvid/engine"
)

func TestExecuteQuitReturnsErrQuit(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("quit"); err != errQuit {
		t.Errorf("expected errQuit, got %v", err)
	}
}

func TestExecuteIsreadyDoesNotError(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("isready"); err != nil {
		t.Errorf("isready should never error, got %v", err)
	}
}

func TestExecutePositionStartpos(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatal(err)
	}
	if got := u.pos.FEN(); got != startFEN {
		t.Errorf("expected startpos FEN, got %q", got)
	}
}

func TestExecutePositionStartposWithMoves(t *testing.T) {
	u := NewUCI()
	err := u.Execute("position startpos moves e2e4 e7e5")
	if err != nil {
		t.Fatal(err)
	}
	if u.pos.SideToMove != engine.White {
		t.Errorf("after two half-moves it should be White to move again")
	}
}

func TestExecutePositionRejectsBadMove(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("position startpos moves e2e5"); err == nil {
		t.Error("expected an error for an illegal move in the position command")
	}
}

func TestExecuteSetoptionThreads(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("setoption name Threads value 3"); err != nil {
		t.Fatal(err)
	}
	if u.options.Threads != 3 {
		t.Errorf("expected Threads option set to 3, got %d", u.options.Threads)
	}
	if u.pool.Threads() != 3 {
		t.Errorf("expected pool to resize to 3 threads, got %d", u.pool.Threads())
	}
}

func TestExecuteSetoptionMultiPVRejectsOutOfRange(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("setoption name MultiPV value 0"); err == nil {
		t.Error("expected an error for MultiPV below 1")
	}
	if err := u.Execute("setoption name MultiPV value 9999"); err == nil {
		t.Error("expected an error for MultiPV above maxMultiPV")
	}
}

func TestExecuteSetoptionChess960(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("setoption name UCI_Chess960 value true"); err != nil {
		t.Fatal(err)
	}
	if !u.chess960 {
		t.Error("expected chess960 flag to be set")
	}
}

func TestExecuteUnknownCommandErrors(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("frobnicate"); err == nil {
		t.Error("expected an error for an unrecognized command")
	}
}

func TestExecuteEmptyLineIsNoop(t *testing.T) {
	u := NewUCI()
	if err := u.Execute("   "); err != nil {
		t.Errorf("expected a blank line to be a no-op, got %v", err)
	}
}
