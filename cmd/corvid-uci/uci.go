// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci.go implements the UCI protocol, described at
// http://wbec-ridderkerk.nl/html/UCIProtocol.html, the same command set
// and dispatch shape as zurichess's own uci.go, generalized for
// the Chess960 flag and Threads option the UCI protocol adds.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/corvid/engine"
	"github.com/corvidchess/corvid/internal/pool"
	"github.com/corvidchess/corvid/notation"
)

var errQuit = errors.New("quit")

const maxMultiPV = 16

// uciLogger renders Stats as UCI "info" lines.
type uciLogger struct {
	buf      *bytes.Buffer
	chess960 bool
	pos      *engine.Position
}

func newUCILogger() *uciLogger { return &uciLogger{buf: &bytes.Buffer{}} }

func (l *uciLogger) BeginSearch() { l.buf.Reset() }
func (l *uciLogger) EndSearch()   {}

func (l *uciLogger) PrintPV(stats engine.Stats) {
	fmt.Fprintf(l.buf, "info depth %d seldepth %d multipv %d ", stats.Depth, stats.SelDepth, stats.MultiPVIndex)
	if stats.MateIn != 0 {
		fmt.Fprintf(l.buf, "score mate %d ", stats.MateIn)
	} else {
		fmt.Fprintf(l.buf, "score cp %d ", stats.Score)
	}

	elapsed := stats.Time
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	nps := stats.Nodes * uint64(time.Second) / uint64(elapsed)
	fmt.Fprintf(l.buf, "nodes %d time %d nps %d hashfull %d ",
		stats.Nodes, elapsed/time.Millisecond, nps, stats.Hashfull)

	fmt.Fprintf(l.buf, "pv")
	for _, m := range stats.PV {
		fmt.Fprintf(l.buf, " %s", notation.MoveToUCI(l.pos, m, l.chess960))
	}
	fmt.Fprintln(l.buf)

	os.Stdout.Write(l.buf.Bytes())
	l.buf.Reset()
}

// UCI holds one game session's mutable state: the current position, the
// thread pool, and engine options.
type UCI struct {
	pos      *engine.Position
	pool     *pool.Pool
	options  engine.Options
	chess960 bool
	logger   *uciLogger

	idle   chan struct{} // buffer 1; filled while a search is running
	cancel context.CancelFunc
}

// NewUCI creates a session with the engine's default options and the
// standard starting position.
func NewUCI() *UCI {
	opts := engine.DefaultOptions()
	pos, _ := engine.PositionFromFEN(startFEN)
	p := pool.New(opts.Threads, opts.HashMB)
	p.SetMultiPV(opts.MultiPV)
	return &UCI{
		pos:     pos,
		pool:    p,
		options: opts,
		logger:  newUCILogger(),
		idle:    make(chan struct{}, 1),
	}
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute parses and dispatches one line of UCI input.
func (u *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	switch cmd {
	case "isready":
		fmt.Println("readyok")
		return nil
	case "quit":
		return errQuit
	case "stop":
		return u.stop()
	case "uci":
		return u.uci()
	case "ponderhit":
		return nil
	}

	// Wait for any in-flight search before commands that need an idle
	// engine, matching zurichess's idle-channel rendezvous.
	u.idle <- struct{}{}
	<-u.idle

	switch cmd {
	case "ucinewgame":
		u.pool.Clear()
		return nil
	case "position":
		return u.position(line)
	case "go":
		return u.goCmd(line)
	case "setoption":
		return u.setoption(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (u *UCI) uci() error {
	fmt.Printf("id name corvid %v\n", buildVersion)
	fmt.Printf("id author the corvid authors\n")
	fmt.Println()
	fmt.Printf("option name Hash type spin default %d min 1 max 65536\n", engine.DefaultOptions().HashMB)
	fmt.Printf("option name Threads type spin default 1 min 1 max 512\n")
	fmt.Printf("option name MultiPV type spin default 1 min 1 max %d\n", maxMultiPV)
	fmt.Printf("option name Ponder type check default true\n")
	fmt.Printf("option name UCI_AnalyseMode type check default false\n")
	fmt.Printf("option name UCI_Chess960 type check default false\n")
	fmt.Printf("option button name Clear Hash\n")
	fmt.Println("uciok")
	return nil
}

func (u *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *engine.Position
	var err error
	i := 0
	switch args[0] {
	case "startpos":
		pos, err = engine.PositionFromFEN(startFEN)
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = engine.PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, s := range args[i+1:] {
			m, err := notation.UCIToMove(pos, s, u.chess960)
			if err != nil {
				return err
			}
			var undo engine.Undo
			if !engine.Apply(pos, m, &undo) {
				return fmt.Errorf("illegal move in position command: %s", s)
			}
			pos.PushHistory()
		}
	}

	u.pos = pos
	return nil
}

var validGoCommands = map[string]bool{
	"searchmoves": true, "ponder": true, "wtime": true, "btime": true,
	"winc": true, "binc": true, "movestogo": true, "depth": true,
	"nodes": true, "mate": true, "movetime": true, "infinite": true,
}

func (u *UCI) goCmd(line string) error {
	var limits engine.Limits

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for i+1 < len(args) && !validGoCommands[args[i+1]] {
				i++
			}
		case "ponder":
			limits.Ponder = true
		case "infinite":
			limits.Infinite = true
		case "wtime":
			i++
			ms, _ := strconv.Atoi(args[i])
			limits.WTime = time.Duration(ms) * time.Millisecond
		case "btime":
			i++
			ms, _ := strconv.Atoi(args[i])
			limits.BTime = time.Duration(ms) * time.Millisecond
		case "winc":
			i++
			ms, _ := strconv.Atoi(args[i])
			limits.WInc = time.Duration(ms) * time.Millisecond
		case "binc":
			i++
			ms, _ := strconv.Atoi(args[i])
			limits.BInc = time.Duration(ms) * time.Millisecond
		case "movestogo":
			i++
			n, _ := strconv.Atoi(args[i])
			limits.MovesToGo = n
		case "movetime":
			i++
			ms, _ := strconv.Atoi(args[i])
			limits.MoveTime = time.Duration(ms) * time.Millisecond
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			limits.Depth = d
		case "nodes", "mate":
			i++ // not implemented; ignored like zurichess's log-and-skip.
		default:
			return fmt.Errorf("invalid go command %s", args[i])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.logger.chess960 = u.chess960
	u.logger.pos = u.pos

	u.idle <- struct{}{}
	go u.play(ctx, limits)
	return nil
}

func (u *UCI) play(ctx context.Context, limits engine.Limits) {
	best, ponder := u.pool.Go(ctx, u.pos, limits, u.logger)
	if best == engine.NoMove {
		fmt.Println("bestmove (none)")
	} else if ponder == engine.NoMove {
		fmt.Printf("bestmove %s\n", notation.MoveToUCI(u.pos, best, u.chess960))
	} else {
		fmt.Printf("bestmove %s ponder %s\n",
			notation.MoveToUCI(u.pos, best, u.chess960),
			notation.MoveToUCI(u.pos, ponder, u.chess960))
	}
	<-u.idle
}

func (u *UCI) stop() error {
	if u.cancel != nil {
		u.cancel()
	}
	u.idle <- struct{}{}
	<-u.idle
	return nil
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (u *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return fmt.Errorf("invalid setoption arguments")
	}
	switch option[1] {
	case "Clear Hash":
		u.pool.Clear()
		return nil
	}
	if len(option) < 3 || option[3] == "" {
		return fmt.Errorf("missing setoption value for %s", option[1])
	}
	switch option[1] {
	case "Hash":
		mb, err := strconv.Atoi(option[3])
		if err != nil {
			return err
		}
		u.options.HashMB = mb
		u.pool = pool.New(u.options.Threads, mb)
		u.pool.SetMultiPV(u.options.MultiPV)
		engine.Log().Info("option changed", "name", "Hash", "value", mb)
		return nil
	case "Threads":
		n, err := strconv.Atoi(option[3])
		if err != nil {
			return err
		}
		u.options.Threads = n
		engine.Log().Info("option changed", "name", "Threads", "value", n)
		return u.pool.SetThreads(context.Background(), n)
	case "MultiPV":
		n, err := strconv.Atoi(option[3])
		if err != nil {
			return err
		}
		if n < 1 || n > maxMultiPV {
			return fmt.Errorf("MultiPV must be between 1 and %d", maxMultiPV)
		}
		u.options.MultiPV = n
		u.pool.SetMultiPV(n)
		return nil
	case "UCI_AnalyseMode":
		mode, err := strconv.ParseBool(option[3])
		if err != nil {
			return err
		}
		u.options.AnalyseMode = mode
		return nil
	case "UCI_Chess960":
		mode, err := strconv.ParseBool(option[3])
		if err != nil {
			return err
		}
		u.chess960 = mode
		u.options.Chess960 = mode
		return nil
	case "Ponder":
		return nil
	default:
		return fmt.Errorf("unhandled option %s", option[1])
	}
}
