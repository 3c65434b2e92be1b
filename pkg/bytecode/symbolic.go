/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
)

// globalsUpvalue is the upvalue index every chunk conventionally binds to
// the globals table, the same trick Lua uses for _ENV.
const globalsUpvalue = 0

// FindName implements the symbolic name recovery described in §4.4: given a
// chunk, a program counter lastpc and a frame-relative slot, it looks
// backward for the last instruction that stored a value into that slot and
// infers a human-readable name and kind for whatever was stored there. It
// feeds diagnostics like "attempt to index a nil value (local 'x')".
//
// A forward jump target seen between the slot's last write and lastpc marks
// every instruction before it as conditional: the slot's true origin at
// lastpc can no longer be trusted, since control flow might have skipped the
// write entirely. FindName then gives up rather than report a misleading
// name.
func FindName(csw *CompiledStoryworld, chunkIndex, lastpc, slot int) (kind, name string, ok bool) {
	chunk := csw.Chunks[chunkIndex]

	forwardTargets := map[int]bool{}
	for pc := 0; pc < lastpc; pc += InstructionWidth {
		op, a, _ := chunk.Instruction(pc)
		if (op == OpJump || op == OpJumpIfFalse) && a > pc {
			forwardTargets[a] = true
		}
	}

	writerPC := -1
	conditional := false
	for pc := 0; pc < lastpc; pc += InstructionWidth {
		if forwardTargets[pc] {
			conditional = true
		}
		op, a, _ := chunk.Instruction(pc)
		if (op == OpSetLocal || op == OpMove) && a == slot {
			writerPC = pc
			conditional = false
		}
	}

	if writerPC < 0 || conditional {
		return "", "", false
	}

	op, _, b := chunk.Instruction(writerPC)
	if op == OpMove {
		// Chained MOVE: follow the source register recursively.
		return FindName(csw, chunkIndex, writerPC, b)
	}

	// op is OpSetLocal: infer the kind from whatever instruction pushed the
	// value being stored.
	if writerPC == 0 {
		return "", "", false
	}
	return describePush(csw, chunkIndex, writerPC-InstructionWidth)
}

// describePush infers a name/kind for whatever value the instruction at pc
// pushed onto the evaluation stack, the way FindName does for the
// instruction immediately preceding a local-slot write. Shared by FindName
// and by FindNameBeforePC, the stack-addressed counterpart used for
// operands that are popped rather than read from a numbered slot.
func describePush(csw *CompiledStoryworld, chunkIndex, pc int) (kind, name string, ok bool) {
	if pc < 0 {
		return "", "", false
	}
	chunk := csw.Chunks[chunkIndex]
	op, a, b := chunk.Instruction(pc)

	switch op {
	case OpGetLocal:
		return "local", fmt.Sprintf("slot %v", a), true
	case OpGetUpval:
		return "upvalue", fmt.Sprintf("upvalue %v", a), true
	case OpGetTabUp:
		key := csw.Constants[b].AsString()
		if a == globalsUpvalue {
			return "global", key, true
		}
		return "field", key, true
	case OpSelf:
		return "method", csw.Constants[a].AsString(), true
	case OpConstant:
		return "constant", csw.Constants[a].String(), true
	}

	return "", "", false
}

// simplePush reports whether op is a plain, single-value producer whose
// name describePush already knows how to recover -- the kinds of
// instructions FindNameBeforePC is allowed to look past on its way to an
// operand lying one or more positions deeper in the evaluation stack.
func simplePush(op OpCode) bool {
	switch op {
	case OpConstant, OpTrue, OpFalse, OpGetLocal, OpGetUpval, OpGetTabUp, OpNewTable:
		return true
	}
	return false
}

// FindNameBeforePC is the stack-based counterpart to FindName, for opcodes
// that address an operand by popping it off the evaluation stack rather
// than through a numbered local slot (OpSelf's table operand, OpGetIndex's
// and OpSetIndex's table operand). pc is the position of the instruction
// doing the popping; skip is how many simple single-value pushes sit above
// the operand being named (0 for OpSelf's sole operand, 1 for OpGetIndex's
// table -- one key push to look past -- 2 for OpSetIndex's table -- a
// value push and a key push to look past).
//
// Gives up (ok=false) the moment it has to look past anything that isn't a
// plain single-value push, the same "no reasonable name can be inferred"
// escape hatch FindName itself uses for conditional writes: a compound key
// or value expression (a call, a nested index, a method lookup) makes the
// stack shape too ambiguous to trust.
func FindNameBeforePC(csw *CompiledStoryworld, chunkIndex, pc, skip int) (kind, name string, ok bool) {
	chunk := csw.Chunks[chunkIndex]
	p := pc - InstructionWidth

	for i := 0; i < skip; i++ {
		if p < 0 {
			return "", "", false
		}
		op, _, _ := chunk.Instruction(p)
		if !simplePush(op) {
			return "", "", false
		}
		p -= InstructionWidth
	}

	return describePush(csw, chunkIndex, p)
}

// DescribeName formats the result of FindName/FindNameBeforePC the way
// Romualdo's error messages do, e.g. "local 'x'" or "global 'foo'". Returns
// "" when kind is empty (nothing could be inferred).
func DescribeName(kind, name string) string {
	if kind == "" {
		return ""
	}
	return fmt.Sprintf("%v '%v'", kind, name)
}
