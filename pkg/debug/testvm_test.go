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
	"github.com/romualdo-vm/romualdo/pkg/errs"
	"github.com/romualdo-vm/romualdo/pkg/romutil"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

// blockingHooks is a vm.DebugHooks that blocks the VM thread on its very
// first instruction, giving a test a window in which theVM.CSW() is already
// populated (vm.Interpret sets it before the run loop starts) but nothing
// has executed yet. release unblocks it; the VM then runs to completion on
// its own goroutine.
type blockingHooks struct {
	ready   chan struct{}
	release chan struct{}
	stopped bool
}

func newBlockingHooks() *blockingHooks {
	return &blockingHooks{
		ready:   make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (h *blockingHooks) OnInstruction(theVM *vm.VM) {
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.ready)
	<-h.release
}

func (h *blockingHooks) OnBreakpoint(theVM *vm.VM, id int) {}

// buildChunk assembles a bytecode.Chunk from a sequence of (op, operands...)
// emits and returns it alongside the program counter right after the last
// instruction emitted.
func buildChunk(emits ...func(*bytecode.Chunk)) (*bytecode.Chunk, int) {
	chunk := &bytecode.Chunk{}
	for _, emit := range emits {
		emit(chunk)
	}
	return chunk, len(chunk.Code)
}

func op(code bytecode.OpCode, operands ...int) func(*bytecode.Chunk) {
	return func(c *bytecode.Chunk) {
		c.EmitInstruction(code, operands...)
	}
}

// expandLines turns one source line number per instruction into the
// per-byte form DebugInfo.ChunksLines actually uses: ChunksLines[i][b] is
// the line that generated byte b of Code, so every instruction's line is
// repeated InstructionWidth times (see backend/pass_two.go's emitBytes).
func expandLines(perInstruction ...int) []int {
	lines := make([]int, 0, len(perInstruction)*bytecode.InstructionWidth)
	for _, line := range perInstruction {
		for i := 0; i < bytecode.InstructionWidth; i++ {
			lines = append(lines, line)
		}
	}
	return lines
}

// testProgram builds a single-chunk CompiledStoryworld/DebugInfo pair: a
// three-instruction procedure (OpNop, OpTrue, OpReturn) spanning lines 1-2,
// enough to drive the VM one instruction at a time without ever calling
// another procedure.
func testProgram() (*bytecode.CompiledStoryworld, *bytecode.DebugInfo) {
	chunk := &bytecode.Chunk{}
	chunk.EmitInstruction(bytecode.OpNop)
	chunk.EmitInstruction(bytecode.OpTrue)
	chunk.EmitInstruction(bytecode.OpReturn)

	csw := &bytecode.CompiledStoryworld{
		Chunks:       []*bytecode.Chunk{chunk},
		InitialChunk: 0,
	}

	di := &bytecode.DebugInfo{
		ChunksNames:       []string{"main"},
		ChunksSourceFiles: []string{"test.ras"},
		ChunksLines:       [][]int{expandLines(1, 1, 2)},
		Prototypes: []*bytecode.Prototype{
			{ChunkIndex: 0, NumParams: 0, LineDefined: 1, LastLineDefined: 2, Parent: -1},
		},
	}

	return csw, di
}

// startTestVM runs testProgram() on its own goroutine and blocks until the
// VM has csw/di loaded but has not yet executed an instruction. The returned
// finish func releases the VM and waits for it to run to completion; call it
// (directly or via defer) exactly once per test.
func startTestVM(t *testing.T) (*vm.VM, *bytecode.DebugInfo, func()) {
	t.Helper()
	theVM, di, _, finish := startTestVMWithExtraChunk(t, nil, nil)
	return theVM, di, finish
}

// startTestVMWithExtraChunk is like startTestVM, but also adds extraChunk (if
// non-nil) as a second chunk the VM never actually runs -- only the trivial
// main chunk (index 0) executes, so extraChunk can be arbitrary bytecode
// (including loops) built purely as data for tests that exercise the
// stepping scans. perInstructionLines holds one source line per instruction
// in extraChunk (expanded internally to the per-byte form ChunksLines uses).
// Returns extraChunk's index (1) alongside the usual VM/DebugInfo/finish
// trio.
func startTestVMWithExtraChunk(t *testing.T, extraChunk *bytecode.Chunk, perInstructionLines []int) (*vm.VM, *bytecode.DebugInfo, int, func()) {
	t.Helper()

	csw, di := testProgram()
	extraIndex := 0
	if extraChunk != nil {
		extraIndex = len(csw.Chunks)
		csw.Chunks = append(csw.Chunks, extraChunk)
		di.ChunksNames = append(di.ChunksNames, "extra")
		di.ChunksSourceFiles = append(di.ChunksSourceFiles, "extra.ras")
		di.ChunksLines = append(di.ChunksLines, expandLines(perInstructionLines...))
		first, last := 1, 1
		if len(perInstructionLines) > 0 {
			first, last = perInstructionLines[0], perInstructionLines[len(perInstructionLines)-1]
		}
		di.Prototypes = append(di.Prototypes, &bytecode.Prototype{
			ChunkIndex: extraIndex, LineDefined: first, LastLineDefined: last, Parent: -1,
		})
	}

	mouth := &romutil.MemoryMouth{}
	ear := romutil.NewFatefulEar(nil)
	theVM := vm.New(mouth, ear)

	hooks := newBlockingHooks()
	theVM.Debugger = hooks

	errc := make(chan errs.Error, 1)
	go func() {
		errc <- theVM.Interpret(csw, di)
	}()
	<-hooks.ready

	finish := func() {
		close(hooks.release)
		if err := <-errc; err != nil {
			t.Fatalf("VM.Interpret returned an error: %v", err)
		}
	}

	return theVM, di, extraIndex, finish
}
