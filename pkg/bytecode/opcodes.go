/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

// OpCode is an opcode in the Romualdo Virtual Machine.
type OpCode uint8

const (
	OpNop OpCode = iota
	OpConstant
	OpSay
	OpListen
	OpPop
	OpTrue
	OpFalse
	OpJumpIfFalse
	OpJump

	// OpMove copies the value at one stack slot to another, both relative to
	// the current frame's base. Operands: dst slot, src slot.
	OpMove

	// OpGetLocal pushes the value at the given frame-relative slot. Operands:
	// slot.
	OpGetLocal

	// OpSetLocal pops the top of the stack into the given frame-relative
	// slot. Operands: slot.
	OpSetLocal

	// OpGetUpval pushes the value held by the given upvalue of the running
	// closure. Operands: upvalue index.
	OpGetUpval

	// OpSetUpval pops the top of the stack into the given upvalue of the
	// running closure. Operands: upvalue index.
	OpSetUpval

	// OpGetTabUp pushes globalTable[key], where globalTable is the table held
	// by the given upvalue and key is a string constant. Operands: upvalue
	// index, constant index. This is how global variable reads are compiled
	// (globals live in a table reachable as an upvalue of every chunk, the
	// same trick Lua uses for _ENV).
	OpGetTabUp

	// OpSetTabUp pops the top of the stack and stores it as
	// globalTable[key]. Operands: upvalue index, constant index.
	OpSetTabUp

	// OpSelf pops a table, pushes the value at constant-string key within it,
	// then pushes the table again. Used to prepare a self-call
	// (obj:method(...) style).  Operands: constant index.
	OpSelf

	// OpNewTable pushes a new, empty Table value.
	OpNewTable

	// OpGetIndex pops a key and a table (in that order, key on top) and
	// pushes table[key].
	OpGetIndex

	// OpSetIndex pops a value, a key and a table (value on top) and stores
	// table[key] = value.
	OpSetIndex

	// OpCall calls the procedure or closure at the given stack slot.
	// Operands: slot of the callee, number of arguments already placed above
	// it on the stack.
	OpCall

	// OpReturn returns from the current procedure. Operands: none (the
	// single return value, if any, is expected on top of the stack).
	OpReturn

	// OpForPrep initializes a numeric for loop and jumps past the loop body
	// if it would never execute. Operands: base slot of the loop's three
	// control values, jump target.
	OpForPrep

	// OpForLoop advances a numeric for loop's control variable and jumps back
	// to the loop body while the loop should keep iterating. Operands: base
	// slot, jump target.
	OpForLoop

	// OpTForCall calls a generic-for iterator function. Operands: base slot.
	OpTForCall

	// OpTForLoop jumps back to the loop body if the generic-for iterator's
	// first result was non-nil. Operands: base slot, jump target.
	OpTForLoop

	// OpInterrupt is never emitted by the compiler. The debugger's breakpoint
	// table overwrites a real instruction with OpInterrupt (carrying the
	// overwritten instruction's breakpoint id as its operand) to implant a
	// breakpoint; executing it hands control to the debug engine. To resume
	// past it, the engine writes the original instruction back and rewinds
	// the frame's ip onto it, so the VM executes it next. Operands:
	// breakpoint id.
	OpInterrupt
)
