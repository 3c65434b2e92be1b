/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"testing"
)

// buildChunk assembles a Chunk from a sequence of (op, operands...) emits and
// returns it alongside the program counter right after the last instruction
// emitted, which is the usual lastpc a caller wants to inspect with
// FindName.
func buildChunk(emits ...func(*Chunk)) (*Chunk, int) {
	chunk := &Chunk{}
	for _, emit := range emits {
		emit(chunk)
	}
	return chunk, len(chunk.Code)
}

func op(code OpCode, operands ...int) func(*Chunk) {
	return func(c *Chunk) {
		c.EmitInstruction(code, operands...)
	}
}

func TestFindNameLocal(t *testing.T) {
	// GETLOCAL 3; SETLOCAL 5  -- slot 5 now holds a copy of local 3.
	chunk, lastpc := buildChunk(
		op(OpGetLocal, 3),
		op(OpSetLocal, 5),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	kind, name, ok := FindName(csw, 0, lastpc, 5)
	if !ok {
		t.Fatalf("expected FindName to succeed")
	}
	if kind != "local" || name != "slot 3" {
		t.Fatalf("got (%q, %q), want (\"local\", \"slot 3\")", kind, name)
	}
}

func TestFindNameUpvalue(t *testing.T) {
	chunk, lastpc := buildChunk(
		op(OpGetUpval, 1),
		op(OpSetLocal, 2),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	kind, name, ok := FindName(csw, 0, lastpc, 2)
	if !ok || kind != "upvalue" || name != "upvalue 1" {
		t.Fatalf("got (%q, %q, %v), want (\"upvalue\", \"upvalue 1\", true)", kind, name, ok)
	}
}

func TestFindNameGlobal(t *testing.T) {
	// GETTABUP upvalue=0 ("_ENV"), key="score"; SETLOCAL 1.
	chunk, lastpc := buildChunk(
		op(OpGetTabUp, globalsUpvalue, 0),
		op(OpSetLocal, 1),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueString("score")},
	}

	kind, name, ok := FindName(csw, 0, lastpc, 1)
	if !ok || kind != "global" || name != "score" {
		t.Fatalf("got (%q, %q, %v), want (\"global\", \"score\", true)", kind, name, ok)
	}
}

func TestFindNameField(t *testing.T) {
	// GETTABUP upvalue=1 (not _ENV), key="hp"; SETLOCAL 0.
	chunk, lastpc := buildChunk(
		op(OpGetTabUp, 1, 0),
		op(OpSetLocal, 0),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueString("hp")},
	}

	kind, name, ok := FindName(csw, 0, lastpc, 0)
	if !ok || kind != "field" || name != "hp" {
		t.Fatalf("got (%q, %q, %v), want (\"field\", \"hp\", true)", kind, name, ok)
	}
}

func TestFindNameMethod(t *testing.T) {
	chunk, lastpc := buildChunk(
		op(OpSelf, 0),
		op(OpSetLocal, 2),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueString("greet")},
	}

	kind, name, ok := FindName(csw, 0, lastpc, 2)
	if !ok || kind != "method" || name != "greet" {
		t.Fatalf("got (%q, %q, %v), want (\"method\", \"greet\", true)", kind, name, ok)
	}
}

func TestFindNameConstant(t *testing.T) {
	chunk, lastpc := buildChunk(
		op(OpConstant, 0),
		op(OpSetLocal, 4),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueInt(42)},
	}

	kind, name, ok := FindName(csw, 0, lastpc, 4)
	if !ok || kind != "constant" {
		t.Fatalf("got (%q, %q, %v), want kind \"constant\"", kind, name, ok)
	}
}

func TestFindNameChainedMove(t *testing.T) {
	// GETLOCAL 7; SETLOCAL 1; MOVE 3 <- 1  -- slot 3 traces back to local 7.
	chunk, lastpc := buildChunk(
		op(OpGetLocal, 7),
		op(OpSetLocal, 1),
		op(OpMove, 3, 1),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	kind, name, ok := FindName(csw, 0, lastpc, 3)
	if !ok || kind != "local" || name != "slot 7" {
		t.Fatalf("got (%q, %q, %v), want (\"local\", \"slot 7\", true)", kind, name, ok)
	}
}

func TestFindNameNoWriterFound(t *testing.T) {
	chunk, lastpc := buildChunk(
		op(OpNop),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	_, _, ok := FindName(csw, 0, lastpc, 5)
	if ok {
		t.Fatalf("expected FindName to fail when no instruction ever writes the slot")
	}
}

func TestFindNameConditionalWriteSuppressed(t *testing.T) {
	// A forward jump from pc 0 lands right after the write to slot 2, so a
	// second control-flow path reaches lastpc without ever going through the
	// write: its value there can't be trusted.
	//
	//    0: JMP -> 27
	//    9: GETLOCAL 9
	//   18: SETLOCAL 2   (writer, but bypassable via the jump above)
	//   27: NOP          (jump target; merge point)
	//   <lastpc == 36>
	jmpTarget := InstructionWidth * 3
	chunk, lastpc := buildChunk(
		op(OpJump, jmpTarget),
		op(OpGetLocal, 9),
		op(OpSetLocal, 2),
		op(OpNop),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	_, _, ok := FindName(csw, 0, lastpc, 2)
	if ok {
		t.Fatalf("expected FindName to refuse a write that a forward jump can bypass")
	}
}

func TestDescribeName(t *testing.T) {
	if got := DescribeName("local", "x"); got != "local 'x'" {
		t.Fatalf("DescribeName(local, x) = %q, want \"local 'x'\"", got)
	}
	if got := DescribeName("", ""); got != "" {
		t.Fatalf("DescribeName(\"\", \"\") = %q, want \"\"", got)
	}
}

func TestFindNameBeforePCSkipsSimplePush(t *testing.T) {
	// GETLOCAL 4 (table); GETTABUP 0 "k" (key); GETINDEX.
	chunk, lastpc := buildChunk(
		op(OpGetLocal, 4),
		op(OpGetTabUp, globalsUpvalue, 0),
		op(OpGetIndex),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueString("k")},
	}

	// pc must address the GETINDEX instruction itself, not lastpc (one past
	// it).
	kind, name, ok := FindNameBeforePC(csw, 0, lastpc-InstructionWidth, 1)
	if !ok || kind != "local" || name != "slot 4" {
		t.Fatalf("got (%q, %q, %v), want (\"local\", \"slot 4\", true)", kind, name, ok)
	}
}

func TestFindNameBeforePCGivesUpOnCompoundKey(t *testing.T) {
	// GETLOCAL 4 (table); GETLOCAL 1; GETLOCAL 2; GETINDEX (compound key);
	// GETINDEX. The key itself came from an index expression, not a single
	// simple push, so the scan for the outer table operand must give up.
	chunk, lastpc := buildChunk(
		op(OpGetLocal, 4),
		op(OpGetLocal, 1),
		op(OpGetLocal, 2),
		op(OpGetIndex),
		op(OpGetIndex),
	)
	csw := &CompiledStoryworld{Chunks: []*Chunk{chunk}}

	_, _, ok := FindNameBeforePC(csw, 0, lastpc-InstructionWidth, 1)
	if ok {
		t.Fatalf("expected FindNameBeforePC to give up past a non-simple push")
	}
}

func TestFindNameBeforePCSelf(t *testing.T) {
	// GETLOCAL 3 (obj); SELF "greet".
	chunk, lastpc := buildChunk(
		op(OpGetLocal, 3),
		op(OpSelf, 0),
	)
	csw := &CompiledStoryworld{
		Chunks:    []*Chunk{chunk},
		Constants: []Value{NewValueString("greet")},
	}

	kind, name, ok := FindNameBeforePC(csw, 0, lastpc-InstructionWidth, 0)
	if !ok || kind != "local" || name != "slot 3" {
		t.Fatalf("got (%q, %q, %v), want (\"local\", \"slot 3\", true)", kind, name, ok)
	}
}
