// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// log.go defines the Logger contract the Iterative Deepening Controller
// uses to report search progress, matching zurichess's engine.Logger
// interface (BeginSearch/EndSearch/PrintPV) so the UCI front-end's wire
// format stays a drop-in implementation. Internal diagnostics (thread
// pool lifecycle, TT resize, option changes) instead go through
// go-logr/logr, since those are operational concerns, not protocol.

package engine

import (
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Logger receives search progress. Implementations must not block; the
// Controller calls PrintPV synchronously after each completed depth.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats)
}

// Stats summarizes one completed (or partially-searched, if aborted)
// iteration for reporting, matching the UCI protocol's "info" reporting.
type Stats struct {
	Depth    int
	SelDepth int
	Nodes    uint64
	Time     time.Duration
	Hashfull int
	Score    int32
	MateIn   int // 0 means not a mate score
	PV       []Move

	// MultiPVIndex is the 1-based rank of this line among the requested
	// MultiPV count; single-PV search always reports 1.
	MultiPVIndex int
}

// NulLogger discards everything; used by tests and non-interactive
// callers.
type NulLogger struct{}

func (NulLogger) BeginSearch()         {}
func (NulLogger) EndSearch()           {}
func (NulLogger) PrintPV(_ Stats)      {}

// defaultLogr is the package-level structured logger for operational
// diagnostics, defaulting to stdr (the same logr/stdr pairing used
// elsewhere in the retrieval pack) until a caller installs its own via
// SetLogger.
var defaultLogr logr.Logger = stdr.New(log.New(os.Stderr, "", log.LstdFlags))

// SetLogger installs the structured logger used for thread-pool and
// transposition-table diagnostics.
func SetLogger(l logr.Logger) { defaultLogr = l }

// Log returns the current structured logger.
func Log() logr.Logger { return defaultLogr }
