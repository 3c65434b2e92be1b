/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"testing"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
)

func TestScanNextStopsAtFirstLineChange(t *testing.T) {
	// 0: OP_CALL (line 1); 9: OP_POP (line 2).
	chunk, _ := buildChunk(
		op(bytecode.OpCall, 0, 0),
		op(bytecode.OpPop),
	)
	extraLines := []int{1, 2}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	target, ok := s.scanNext(idx, 0)
	if !ok || target != bytecode.InstructionWidth {
		t.Fatalf("scanNext = (%v, %v), want (%v, true)", target, ok, bytecode.InstructionWidth)
	}
}

func TestScanNextSkipsJumpsAndBranches(t *testing.T) {
	// 0: JMP_IF_FALSE (line 1); 9: JMP (line 2); 18: POP (line 2).
	chunk, _ := buildChunk(
		op(bytecode.OpJumpIfFalse, 9999),
		op(bytecode.OpJump, 9999),
		op(bytecode.OpPop),
	)
	extraLines := []int{1, 2, 2}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	target, ok := s.scanNext(idx, 0)
	if !ok || target != 2*bytecode.InstructionWidth {
		t.Fatalf("scanNext = (%v, %v), want (%v, true)", target, ok, 2*bytecode.InstructionWidth)
	}
}

func TestScanNextFallsOffEnd(t *testing.T) {
	// 0: NOP (line 1); 9: NOP (line 1) -- no line change anywhere.
	chunk, _ := buildChunk(
		op(bytecode.OpNop),
		op(bytecode.OpNop),
	)
	extraLines := []int{1, 1}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	if _, ok := s.scanNext(idx, 0); ok {
		t.Fatalf("expected scanNext to report no target when the line never changes")
	}
}

func TestScanUntilFindsLoopExit(t *testing.T) {
	// 0: FORPREP (not scanned); 9: NOP (body, scan starts here);
	// 18: FORLOOP (terminator); 27: NOP (after the loop).
	chunk, _ := buildChunk(
		op(bytecode.OpForPrep, 0, 27),
		op(bytecode.OpNop),
		op(bytecode.OpForLoop, 0, 9),
		op(bytecode.OpNop),
	)
	extraLines := []int{1, 2, 1, 3}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	target, ok := s.scanUntil(idx, bytecode.InstructionWidth)
	want := 3 * bytecode.InstructionWidth
	if !ok || target != want {
		t.Fatalf("scanUntil = (%v, %v), want (%v, true)", target, ok, want)
	}
}

func TestScanUntilSkipsNestedLoop(t *testing.T) {
	// 0: FORPREP outer (not scanned); 9: FORPREP inner (scan starts here);
	// 18: NOP (inner body); 27: FORLOOP inner; 36: FORLOOP outer (terminator);
	// 45: NOP (after everything).
	chunk, _ := buildChunk(
		op(bytecode.OpForPrep, 0, 45),
		op(bytecode.OpForPrep, 0, 27),
		op(bytecode.OpNop),
		op(bytecode.OpForLoop, 0, 18),
		op(bytecode.OpForLoop, 0, 9),
		op(bytecode.OpNop),
	)
	extraLines := []int{1, 2, 3, 2, 1, 4}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	target, ok := s.scanUntil(idx, bytecode.InstructionWidth)
	want := 5 * bytecode.InstructionWidth
	if !ok || target != want {
		t.Fatalf("scanUntil = (%v, %v), want (%v, true)", target, ok, want)
	}
}

func TestScanUntilDetectsBackwardJump(t *testing.T) {
	// 0: NOP; 9: NOP (scan starts here); 18: JMP -> 0 (backward relative to
	// fromPC); 27: NOP.
	chunk, _ := buildChunk(
		op(bytecode.OpNop),
		op(bytecode.OpNop),
		op(bytecode.OpJump, 0),
		op(bytecode.OpNop),
	)
	extraLines := []int{1, 2, 2, 3}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	target, ok := s.scanUntil(idx, bytecode.InstructionWidth)
	want := 3 * bytecode.InstructionWidth
	if !ok || target != want {
		t.Fatalf("scanUntil = (%v, %v), want (%v, true)", target, ok, want)
	}
}

func TestScanUntilFindsNothingInStraightLineCode(t *testing.T) {
	chunk, _ := buildChunk(
		op(bytecode.OpNop),
		op(bytecode.OpPop),
	)
	extraLines := []int{1, 2}

	theVM, di, idx, finish := startTestVMWithExtraChunk(t, chunk, extraLines)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	if _, ok := s.scanUntil(idx, 0); ok {
		t.Fatalf("expected scanUntil to find no loop exit in straight-line code")
	}
}
