/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"bufio"
	"strings"
	"testing"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/romutil"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

// TestContinueReexecutesDisplacedInstructionAndRearms drives a real
// breakpoint hit through a live VM and State, end to end: set a breakpoint
// on a side-effecting instruction (a global write), let the VM hit it,
// issue "continue" through the ordinary command dispatcher, and check both
// that the displaced instruction actually ran (the global got its value --
// §4.6's "restore, step one, re-arm") and that the breakpoint is trapping
// again afterward, ready to catch a second hit.
func TestContinueReexecutesDisplacedInstructionAndRearms(t *testing.T) {
	// line 1: CONSTANT 42
	// line 2: SETTABUP _ENV, "x"   -- breakpoint goes here
	// line 3: CONSTANT 99
	// line 4: SETTABUP _ENV, "y"
	// line 5: TRUE (the implicit return value)
	// line 6: RETURN
	chunk := &bytecode.Chunk{}
	chunk.EmitInstruction(bytecode.OpConstant, 0)
	chunk.EmitInstruction(bytecode.OpSetTabUp, 0, 1)
	chunk.EmitInstruction(bytecode.OpConstant, 2)
	chunk.EmitInstruction(bytecode.OpSetTabUp, 0, 3)
	chunk.EmitInstruction(bytecode.OpTrue)
	chunk.EmitInstruction(bytecode.OpReturn)

	csw := &bytecode.CompiledStoryworld{
		Chunks:       []*bytecode.Chunk{chunk},
		InitialChunk: 0,
		Constants: []bytecode.Value{
			bytecode.NewValueInt(42),
			bytecode.NewValueString("x"),
			bytecode.NewValueInt(99),
			bytecode.NewValueString("y"),
		},
	}
	di := &bytecode.DebugInfo{
		ChunksNames:       []string{"main"},
		ChunksSourceFiles: []string{"test.ras"},
		ChunksLines:       [][]int{expandLines(1, 2, 3, 4, 5, 6)},
		Prototypes: []*bytecode.Prototype{
			{ChunkIndex: 0, LineDefined: 1, LastLineDefined: 6, Parent: -1},
		},
	}

	mouth := &romutil.MemoryMouth{}
	ear := romutil.NewFatefulEar(nil)
	theVM := vm.New(mouth, ear)

	s := NewState(theVM, di, ModeInline)
	theVM.Debugger = s
	s.stdin = bufio.NewScanner(strings.NewReader("continue\n"))

	s.dispatch(theVM, "break test.ras 2")
	bps := s.bp.List()
	if len(bps) != 1 {
		t.Fatalf("expected exactly one breakpoint set, got %v", len(bps))
	}
	bp := bps[0]

	if err := theVM.Interpret(csw, di); err != nil {
		t.Fatalf("Interpret returned an error: %v", err)
	}

	if got := theVM.Globals().GetStr("x"); got.IsNil() || got.AsInt() != 42 {
		t.Fatalf("expected global x == 42 (the breakpointed instruction must still run), got %v", got.String())
	}
	if got := theVM.Globals().GetStr("y"); got.IsNil() || got.AsInt() != 99 {
		t.Fatalf("expected global y == 99 (execution must continue past the breakpoint), got %v", got.String())
	}

	opAfter, idAfter, _ := instructionAt(theVM, bp.ChunkIndex, bp.Codepos)
	if opAfter != bytecode.OpInterrupt || idAfter != bp.ID {
		t.Fatalf("expected the breakpoint to be re-armed (OpInterrupt %v) after continue, got %v %v", bp.ID, opAfter, idAfter)
	}
}
