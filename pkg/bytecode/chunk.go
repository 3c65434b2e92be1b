/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"encoding/binary"
	"math"
)

// A Chunk is a chunk of bytecode. We'll have one Chunk for each procedure in a
// Storyworld.
//
// TODO: In the future, one chunk for each version of each procedure.
//
// TODO: In the future, probably, chunks for implicitly-defined procedures that
// initialize globals and stuff.
type Chunk struct {
	// The bytecode itself. Includes both OpCodes and immediate arguments needed
	// by the opcodes.
	Code []uint8
}

// Encodes an unsigned 31-bit integer into the four first bytes of bytecode.
// Panics if v does not fit into 31 bits.
func EncodeUInt31(bytecode []byte, v int) {
	if v < 0 || v > math.MaxInt32 {
		panic("Value does not fit into 31 bits")
	}
	binary.LittleEndian.PutUint32(bytecode, uint32(v))
}

// Decodes the first four bytes in bytecode into an unsigned 31-bit integer.
// Panics if the value read does not fit into 31 bits.
func DecodeUInt31(bytecode []byte) int {
	v := binary.LittleEndian.Uint32(bytecode)
	if v > math.MaxInt32 {
		panic("Value does not fit into 31 bits")
	}
	return int(v)
}

// InstructionWidth is the size, in bytes, of every instruction in a Chunk's
// Code: one opcode byte followed by two 4-byte operand slots. Every
// instruction uses this same width, whether or not it needs both operands,
// so that the debugger can always implant an OpInterrupt trap (which needs
// one 4-byte operand for the breakpoint id) over whatever instruction used
// to be there, and later restore it byte-for-byte.
const InstructionWidth = 9

// EmitInstruction appends one instruction to the Chunk's Code, padding
// unused operands with zeros.
func (c *Chunk) EmitInstruction(op OpCode, operands ...int) int {
	pos := len(c.Code)
	instr := make([]byte, InstructionWidth)
	instr[0] = byte(op)
	for i, operand := range operands {
		if i >= 2 {
			panic("at most two operands are supported per instruction")
		}
		EncodeUInt31(instr[1+4*i:], operand)
	}
	c.Code = append(c.Code, instr...)
	return pos
}

// Instruction reads back the opcode and both operand slots of the
// instruction at codepos.
func (c *Chunk) Instruction(codepos int) (op OpCode, operand1, operand2 int) {
	op = OpCode(c.Code[codepos])
	operand1 = DecodeUInt31(c.Code[codepos+1:])
	operand2 = DecodeUInt31(c.Code[codepos+5:])
	return
}
