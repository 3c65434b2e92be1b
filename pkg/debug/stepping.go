/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"github.com/romualdo-vm/romualdo/pkg/bytecode"
)

// Step arms "step": no pseudo-breakpoint is planted, the VM yields on every
// instruction (via OnInstruction), and the pause engine only actually
// pauses once the source line has changed from oldline.
func (s *State) Step() {
	s.stepOffHitBreakpoint()
	s.why = whyStep
	s.pauseRequested.Store(true)
	s.resume()
}

// Next arms "next": find the first instruction in the same function whose
// source line differs from the current one, skipping any jump target that
// would leave the current line via a loop or branch (so `next` steps over a
// call rather than descending into it). If the scan falls off the end of
// the function, degrade to Step.
func (s *State) Next() {
	s.stepOffHitBreakpoint()

	target, ok := s.scanNext(s.frame.ChunkIndex(), s.oldpc)
	if !ok {
		s.Step()
		return
	}

	s.bp.ArmPseudo(s.frame.ChunkIndex(), target)
	s.why = whyNext
	s.resume()
}

// scanNext implements the forward scan described by §4.7's `next` row: walk
// instructions after fromPC, in the same chunk, looking for the first one
// whose source line differs from the line at fromPC -- but jump targets
// that would leave the line via OpJump/OpJumpIfFalse/OpForLoop/OpTForLoop
// are skipped rather than followed, so a loop body doesn't make `next`
// jump backward.
func (s *State) scanNext(chunkIndex, fromPC int) (int, bool) {
	lines := s.di.ChunksLines[chunkIndex]
	if fromPC >= len(lines) {
		return 0, false
	}
	startLine := lines[fromPC]
	chunk := s.theVM.CSW().Chunks[chunkIndex]

	for pc := fromPC + bytecode.InstructionWidth; pc < len(chunk.Code); pc += bytecode.InstructionWidth {
		op, _, _ := chunk.Instruction(pc)
		if isLoopOrBranch(op) {
			continue
		}
		if lines[pc] != startLine {
			return pc, true
		}
	}
	return 0, false
}

// isLoopOrBranch reports whether op is one of the control-flow opcodes
// `next`'s scan must not treat as an ordinary "next line" stop -- it should
// keep scanning past them instead, the same way OP_JMP..OP_TFORLOOP (except
// OP_CALL) are excluded in the original design.
func isLoopOrBranch(op bytecode.OpCode) bool {
	switch op {
	case bytecode.OpJump, bytecode.OpJumpIfFalse,
		bytecode.OpForPrep, bytecode.OpForLoop,
		bytecode.OpTForCall, bytecode.OpTForLoop:
		return true
	}
	return false
}

// Finish arms "finish": walk up to the caller frame and plant a pseudo
// breakpoint at its saved return pc, so execution stops as soon as the
// current call returns.
func (s *State) Finish() bool {
	caller := s.frame.Prev()
	if caller == nil {
		return false
	}

	s.stepOffHitBreakpoint()
	s.bp.ArmPseudo(caller.ChunkIndex(), caller.IP())
	s.why = whyNext
	s.resume()
	return true
}

// Until arms "until": scan forward in the current function for the first
// backward jump (an OP_JMP targeting at or before the current pc) or loop
// terminator that would exit an enclosing loop, and plant a pseudo
// breakpoint immediately after it. This lets a user run out of the
// remainder of a loop without single-stepping through every iteration.
func (s *State) Until() bool {
	target, ok := s.scanUntil(s.frame.ChunkIndex(), s.oldpc)
	if !ok {
		return false
	}

	s.stepOffHitBreakpoint()
	s.bp.ArmPseudo(s.frame.ChunkIndex(), target)
	s.why = whyNext
	s.resume()
	return true
}

// scanUntil implements §4.7's `until` scan, tracking loop nesting depth via
// OP_FORPREP/OP_FORLOOP and OP_TFORCALL/OP_TFORLOOP balance (assumed
// balanced within a function, a precondition the host compiler guarantees;
// see DESIGN NOTES).
func (s *State) scanUntil(chunkIndex, fromPC int) (int, bool) {
	chunk := s.theVM.CSW().Chunks[chunkIndex]
	depth := 0

	for pc := fromPC; pc < len(chunk.Code); pc += bytecode.InstructionWidth {
		op, a, _ := chunk.Instruction(pc)
		switch op {
		case bytecode.OpForPrep, bytecode.OpTForCall:
			depth++
		case bytecode.OpJump:
			if a <= fromPC {
				return pc + bytecode.InstructionWidth, true
			}
		case bytecode.OpForLoop, bytecode.OpTForLoop:
			if depth == 0 {
				return pc + bytecode.InstructionWidth, true
			}
			depth--
		}
	}
	return 0, false
}

// Continue arms "continue": step off any currently-hit breakpoint and let
// the VM run. The async-pause mark is armed so OnInstruction's interrupt
// fires processPendingRestore at the next instruction; that first firing
// lands on the just-restored instruction itself, so processPendingRestore
// re-arms the mark instead of the breakpoint and defers, letting the
// original instruction actually execute -- only once the ip has moved past
// it does the breakpoint's OpInterrupt get re-installed (or the breakpoint
// freed, if TEMP). whyNext keeps every one of these asynchronous interrupts
// from itself surfacing as a pause.
func (s *State) Continue() {
	s.stepOffHitBreakpoint()
	s.why = whyNext
	s.pauseRequested.Store(true)
	s.resume()
}
