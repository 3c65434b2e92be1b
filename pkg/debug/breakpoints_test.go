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
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

func instructionAt(theVM *vm.VM, chunkIndex, codepos int) (bytecode.OpCode, int, int) {
	raw := theVM.RawInstructionBytes(chunkIndex, codepos)
	op := bytecode.OpCode(raw[0])
	a := bytecode.DecodeUInt31(raw[1:])
	b := bytecode.DecodeUInt31(raw[5:])
	return op, a, b
}

func TestBreakpointSetPatchesCode(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	before, _, _ := instructionAt(theVM, 0, 0)
	if before != bytecode.OpNop {
		t.Fatalf("expected OpNop before Set, got %v", before)
	}

	bp, err := bt.Set("test.ras", 1, false)
	if err != nil {
		t.Fatalf("Set returned an error: %v", err)
	}
	if bp.ChunkIndex != 0 || bp.Codepos != 0 {
		t.Fatalf("expected breakpoint at chunk 0, codepos 0, got chunk %v, codepos %v", bp.ChunkIndex, bp.Codepos)
	}

	op, a, _ := instructionAt(theVM, 0, 0)
	if op != bytecode.OpInterrupt {
		t.Fatalf("expected OpInterrupt patched in, got %v", op)
	}
	if a != bp.ID {
		t.Fatalf("expected operand1 == breakpoint id %v, got %v", bp.ID, a)
	}
}

func TestBreakpointSetRejectsDuplicateLine(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	if _, err := bt.Set("test.ras", 1, false); err != nil {
		t.Fatalf("first Set returned an error: %v", err)
	}
	if _, err := bt.Set("test.ras", 1, false); err == nil {
		t.Fatalf("expected an error setting a second breakpoint at the same line")
	}
}

func TestBreakpointSetRejectsUnknownLine(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	if _, err := bt.Set("test.ras", 99, false); err == nil {
		t.Fatalf("expected an error for a line with no executable code")
	}
	if _, err := bt.Set("nosuchfile.ras", 1, false); err == nil {
		t.Fatalf("expected an error for an unknown source file")
	}
}

func TestBreakpointDisableEnableRestoresBytes(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	bp, err := bt.Set("test.ras", 1, false)
	if err != nil {
		t.Fatalf("Set returned an error: %v", err)
	}

	if n, err := bt.Disable([]int{bp.ID}); err != nil || n != 1 {
		t.Fatalf("Disable(%v) = %v, %v; want 1, nil", bp.ID, n, err)
	}
	op, _, _ := instructionAt(theVM, bp.ChunkIndex, bp.Codepos)
	if op != bytecode.OpNop {
		t.Fatalf("expected original OpNop restored after Disable, got %v", op)
	}
	if !bt.byID[bp.ID].Disabled {
		t.Fatalf("expected breakpoint to be marked Disabled")
	}

	if n, err := bt.Enable([]int{bp.ID}); err != nil || n != 1 {
		t.Fatalf("Enable(%v) = %v, %v; want 1, nil", bp.ID, n, err)
	}
	op, a, _ := instructionAt(theVM, bp.ChunkIndex, bp.Codepos)
	if op != bytecode.OpInterrupt || a != bp.ID {
		t.Fatalf("expected OpInterrupt %v restored after Enable, got %v %v", bp.ID, op, a)
	}
}

func TestBreakpointDeleteRestoresAndRecyclesID(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	bp1, err := bt.Set("test.ras", 1, false)
	if err != nil {
		t.Fatalf("Set(line 1) returned an error: %v", err)
	}
	bp2, err := bt.Set("test.ras", 2, false)
	if err != nil {
		t.Fatalf("Set(line 2) returned an error: %v", err)
	}
	if bp1.ID == bp2.ID {
		t.Fatalf("expected distinct ids, got %v and %v", bp1.ID, bp2.ID)
	}

	if n, err := bt.Delete([]int{bp1.ID}); err != nil || n != 1 {
		t.Fatalf("Delete(%v) = %v, %v; want 1, nil", bp1.ID, n, err)
	}
	op, _, _ := instructionAt(theVM, bp1.ChunkIndex, bp1.Codepos)
	if op != bytecode.OpNop {
		t.Fatalf("expected original instruction restored after Delete, got %v", op)
	}
	if _, ok := bt.Get(bp1.ID); ok {
		t.Fatalf("expected breakpoint %v to be gone after Delete", bp1.ID)
	}

	bp3, err := bt.Set("test.ras", 1, false)
	if err != nil {
		t.Fatalf("re-Set(line 1) returned an error: %v", err)
	}
	if bp3.ID != bp1.ID {
		t.Fatalf("expected the freed id %v to be reused, got %v", bp1.ID, bp3.ID)
	}
}

func TestBreakpointListOrdersByID(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	bp2, _ := bt.Set("test.ras", 2, false)
	bp1, _ := bt.Set("test.ras", 1, false)

	list := bt.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 breakpoints, got %v", len(list))
	}
	if list[0].ID >= list[1].ID {
		t.Fatalf("expected breakpoints ordered by ascending id, got %v then %v", list[0].ID, list[1].ID)
	}
	if list[0].ID != bp2.ID || list[1].ID != bp1.ID {
		t.Fatalf("unexpected list contents: %+v, %+v", list[0], list[1])
	}
}

func TestPseudoBreakpointArmAndDisarm(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	bt.ArmPseudo(0, 9)
	op, a, _ := instructionAt(theVM, 0, 9)
	if op != bytecode.OpInterrupt || a != PseudoBreakpointID {
		t.Fatalf("expected pseudo-breakpoint OpInterrupt at codepos 9, got %v %v", op, a)
	}
	if bt.Pseudo() == nil {
		t.Fatalf("expected Pseudo() to report the armed pseudo-breakpoint")
	}

	// Arming a second time at a different position disarms the first.
	bt.ArmPseudo(0, 18)
	opOld, _, _ := instructionAt(theVM, 0, 9)
	if opOld != bytecode.OpTrue {
		t.Fatalf("expected the first pseudo slot restored, got %v", opOld)
	}

	bt.DisarmPseudo()
	opRestored, _, _ := instructionAt(theVM, 0, 18)
	if opRestored != bytecode.OpReturn {
		t.Fatalf("expected original instruction restored after DisarmPseudo, got %v", opRestored)
	}
	if bt.Pseudo() != nil {
		t.Fatalf("expected Pseudo() to be nil after DisarmPseudo")
	}
}

func TestBreakpointStepOffRestoreAndRearm(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	bt := NewBreakpointTable(theVM, di)

	bp, err := bt.Set("test.ras", 1, false)
	if err != nil {
		t.Fatalf("Set returned an error: %v", err)
	}

	bt.RestoreForStepOff(bp)
	op, _, _ := instructionAt(theVM, bp.ChunkIndex, bp.Codepos)
	if op != bytecode.OpNop {
		t.Fatalf("expected original instruction after RestoreForStepOff, got %v", op)
	}

	bt.Rearm(bp)
	op, a, _ := instructionAt(theVM, bp.ChunkIndex, bp.Codepos)
	if op != bytecode.OpInterrupt || a != bp.ID {
		t.Fatalf("expected OpInterrupt %v after Rearm, got %v %v", bp.ID, op, a)
	}
}
