// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// Options configures a game session, generalizing zurichess's
// engine.Options{AnalyseMode} with the fields the UCI protocol names as
// config surface: hash size, thread count, and the Chess960 flag.
type Options struct {
	HashMB       int
	Threads      int
	Chess960     bool
	AnalyseMode  bool
	MultiPV      int
}

// DefaultOptions returns the engine's out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{
		HashMB:  16,
		Threads: 1,
		MultiPV: 1,
	}
}
