// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// moveorder.go is the Move Picker (C4): a staged state machine that hands
// out pseudo-legal candidate moves in priority order without ever
// repeating one, adapted from zurichess's move_ordering.go stack/
// moveStack state machine to four explicit stages.

package engine

type pickerStage int

const (
	stageHash pickerStage = iota
	stageGenNoisy
	stageNoisy
	stageKiller1
	stageKiller2
	stageCounter
	stageGenQuiet
	stageQuiet
	stageDone
)

// MovePicker produces pseudo-legal candidate moves for one search node in staged
// priority order: hash move, noisy (MVV/LVA), killers, quiet (history).
type MovePicker struct {
	pos   *Position
	stage pickerStage

	hashMove    Move
	quiescence  bool
	killer0     Move
	killer1     Move
	counter     Move
	history     *historyTable
	emitted     []Move

	noisy      []Move
	noisyIdx   int
	quiet      []Move
	quietIdx   int
}

// NewMovePicker starts a fresh picker for a node. hashMove may be NoMove.
// When quiescence is true only the noisy stage runs.
func NewMovePicker(pos *Position, hashMove Move, killer0, killer1 Move, history *historyTable, quiescence bool) *MovePicker {
	return &MovePicker{
		pos:        pos,
		hashMove:   hashMove,
		killer0:    killer0,
		killer1:    killer1,
		history:    history,
		quiescence: quiescence,
	}
}

// WithCounter adds a counter-move candidate, tried between the killers
// and the history-sorted quiet stage (an enrichment beyond the minimal
// four named stages, grounded on zurichess's counter-move table in
// move_ordering.go).
func (mp *MovePicker) WithCounter(m Move) *MovePicker {
	mp.counter = m
	return mp
}

func (mp *MovePicker) alreadyEmitted(m Move) bool {
	for _, e := range mp.emitted {
		if e == m {
			return true
		}
	}
	return false
}

func (mp *MovePicker) emit(m Move) Move {
	mp.emitted = append(mp.emitted, m)
	return m
}

// Next returns the next candidate move, or NoMove when exhausted.
func (mp *MovePicker) Next() Move {
	for {
		switch mp.stage {
		case stageHash:
			mp.stage = stageGenNoisy
			if mp.hashMove != NoMove && isPseudoLegal(mp.pos, mp.hashMove) {
				return mp.emit(mp.hashMove)
			}

		case stageGenNoisy:
			mp.noisy = GenerateNoisy(mp.pos, mp.noisy[:0])
			sortBySEEValue(mp.pos, mp.noisy)
			mp.noisyIdx = 0
			mp.stage = stageNoisy

		case stageNoisy:
			if mp.noisyIdx >= len(mp.noisy) {
				if mp.quiescence {
					mp.stage = stageDone
					continue
				}
				mp.stage = stageKiller1
				continue
			}
			m := mp.noisy[mp.noisyIdx]
			mp.noisyIdx++
			if mp.alreadyEmitted(m) {
				continue
			}
			return mp.emit(m)

		case stageKiller1:
			mp.stage = stageKiller2
			if mp.killer0 != NoMove && !mp.alreadyEmitted(mp.killer0) && isPseudoLegal(mp.pos, mp.killer0) && !isTactical(mp.pos, mp.killer0) {
				return mp.emit(mp.killer0)
			}

		case stageKiller2:
			mp.stage = stageCounter
			if mp.killer1 != NoMove && !mp.alreadyEmitted(mp.killer1) && isPseudoLegal(mp.pos, mp.killer1) && !isTactical(mp.pos, mp.killer1) {
				return mp.emit(mp.killer1)
			}

		case stageCounter:
			mp.stage = stageGenQuiet
			if mp.counter != NoMove && !mp.alreadyEmitted(mp.counter) && isPseudoLegal(mp.pos, mp.counter) && !isTactical(mp.pos, mp.counter) {
				return mp.emit(mp.counter)
			}

		case stageGenQuiet:
			mp.quiet = GenerateQuiet(mp.pos, mp.quiet[:0])
			sortByHistory(mp.pos, mp.quiet, mp.history)
			mp.quietIdx = 0
			mp.stage = stageQuiet

		case stageQuiet:
			if mp.quietIdx >= len(mp.quiet) {
				mp.stage = stageDone
				continue
			}
			m := mp.quiet[mp.quietIdx]
			mp.quietIdx++
			if mp.alreadyEmitted(m) {
				continue
			}
			return mp.emit(m)

		case stageDone:
			return NoMove
		}
	}
}

func sortBySEEValue(pos *Position, moves []Move) {
	scores := make([]int32, len(moves))
	for i, m := range moves {
		// Victim value first (MVV); among equal victims the cheaper
		// attacker ranks higher (LVA), King-fig spanning 0..5 < 8.
		scores[i] = estimatedValue(pos, m)*8 + int32(King-pos.Squares[m.From()].Figure())
	}
	insertionSortDesc(moves, scores)
}

func sortByHistory(pos *Position, moves []Move, h *historyTable) {
	scores := make([]int32, len(moves))
	for i, m := range moves {
		scores[i] = h.get(pos.Squares[m.From()], m.To())
	}
	insertionSortDesc(moves, scores)
}

// insertionSortDesc sorts moves by scores descending. Move lists per node
// are short (typically under 40), so insertion sort beats the overhead of
// sort.Interface, matching zurichess's own shell-sort-by-gaps choice for
// the same reason.
func insertionSortDesc(moves []Move, scores []int32) {
	for i := 1; i < len(moves); i++ {
		m, s := moves[i], scores[i]
		j := i - 1
		for j >= 0 && scores[j] < s {
			moves[j+1] = moves[j]
			scores[j+1] = scores[j]
			j--
		}
		moves[j+1] = m
		scores[j+1] = s
	}
}
