// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the search core of the corvid chess engine:
// bitboard position representation, pseudo-legal move generation and
// execution, a shared lock-free transposition table, staged move
// ordering, and a negamax alpha-beta search kernel with the usual
// pruning and reduction stack.
//
// Position (position.go, apply.go) uses:
//
//   - Bitboards for representation
//   - Magic bitboards for sliding piece attacks (attack.go)
//   - A castle_rooks + castle_masks model so castling rights generalize to
//     Chess960 starting positions
//
// Search (search.go, controller.go) features:
//
//   - Negamax with fail-soft alpha-beta and principal variation search
//   - Aspiration windows with gradual widening
//   - Null-move pruning, razoring, reverse futility pruning
//   - Late move reductions and late move pruning
//   - Internal iterative deepening
//   - Mate distance pruning
//   - Quiescence search with delta pruning and SEE-light capture filtering
//
// The transposition table (hashtable.go) is shared, lock-free, and read
// and written concurrently by every worker in the thread pool
// (internal/pool); every probe re-validates the stored hash before
// trusting the entry, so a torn read only ever costs a cache miss.
package engine
