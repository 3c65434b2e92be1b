/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// DisassembleInstruction disassembles the instruction at a given offset of
// chunk and returns the offset of the next instruction to disassemble. Output
// is written to out. chunkIndex is the index of the current chunk. debugInfo is
// optional: if not nil, it will be used for better disassembly.
func (csw *CompiledStoryworld) DisassembleInstruction(chunk *Chunk, out io.Writer, offset int, debugInfo *DebugInfo, chunkIndex int) int {
	// Offset
	fmt.Fprintf(out, "%05v ", offset)

	// Source file and line
	var lines []int = nil
	if debugInfo != nil {
		lines = debugInfo.ChunksLines[chunkIndex]
	}
	sourceFile := ""
	if debugInfo != nil {
		sourceFile = debugInfo.ChunksSourceFiles[chunkIndex]
	}

	if offset > 0 && lines != nil && lines[offset] == lines[offset-InstructionWidth] {
		blank := strings.Repeat(" ", len(sourceFile)+1)
		fmt.Fprintf(out, "%v    | ", blank)
	} else if lines != nil {
		fmt.Fprintf(out, "%v:%5d ", sourceFile, lines[offset])
	}

	op, a, b := chunk.Instruction(offset)

	switch op {
	case OpNop:
		fmt.Fprint(out, "NOP\n")

	case OpConstant:
		fmt.Fprintf(out, "%-16s %4d '%v'\n", "CONSTANT", a, csw.Constants[a].DebugString(debugInfo))

	case OpSay:
		fmt.Fprint(out, "SAY\n")

	case OpListen:
		fmt.Fprint(out, "LISTEN\n")

	case OpPop:
		fmt.Fprint(out, "POP\n")

	case OpTrue:
		fmt.Fprint(out, "TRUE\n")

	case OpFalse:
		fmt.Fprint(out, "FALSE\n")

	case OpJump:
		fmt.Fprintf(out, "%-16s %4d\n", "JUMP", a)

	case OpJumpIfFalse:
		fmt.Fprintf(out, "%-16s %4d\n", "JUMP_IF_FALSE", a)

	case OpMove:
		fmt.Fprintf(out, "%-16s %4d %4d\n", "MOVE", a, b)

	case OpGetLocal:
		fmt.Fprintf(out, "%-16s %4d\n", "GET_LOCAL", a)

	case OpSetLocal:
		fmt.Fprintf(out, "%-16s %4d\n", "SET_LOCAL", a)

	case OpGetUpval:
		fmt.Fprintf(out, "%-16s %4d\n", "GET_UPVAL", a)

	case OpSetUpval:
		fmt.Fprintf(out, "%-16s %4d\n", "SET_UPVAL", a)

	case OpGetTabUp:
		fmt.Fprintf(out, "%-16s %4d %4d '%v'\n", "GET_TABUP", a, b, csw.Constants[b].DebugString(debugInfo))

	case OpSetTabUp:
		fmt.Fprintf(out, "%-16s %4d %4d '%v'\n", "SET_TABUP", a, b, csw.Constants[b].DebugString(debugInfo))

	case OpSelf:
		fmt.Fprintf(out, "%-16s %4d '%v'\n", "SELF", a, csw.Constants[a].DebugString(debugInfo))

	case OpNewTable:
		fmt.Fprint(out, "NEW_TABLE\n")

	case OpGetIndex:
		fmt.Fprint(out, "GET_INDEX\n")

	case OpSetIndex:
		fmt.Fprint(out, "SET_INDEX\n")

	case OpCall:
		fmt.Fprintf(out, "%-16s %4d %4d\n", "CALL", a, b)

	case OpReturn:
		fmt.Fprint(out, "RETURN\n")

	case OpForPrep:
		fmt.Fprintf(out, "%-16s %4d %4d\n", "FOR_PREP", a, b)

	case OpForLoop:
		fmt.Fprintf(out, "%-16s %4d %4d\n", "FOR_LOOP", a, b)

	case OpTForCall:
		fmt.Fprintf(out, "%-16s %4d\n", "TFOR_CALL", a)

	case OpTForLoop:
		fmt.Fprintf(out, "%-16s %4d %4d\n", "TFOR_LOOP", a, b)

	case OpInterrupt:
		fmt.Fprintf(out, "%-16s %4d\n", "INTERRUPT", a)

	default:
		fmt.Fprintf(out, "Unknown opcode %d\n", op)
	}

	return offset + InstructionWidth
}

// Disassemble disassembles every instruction of chunk (identified by
// chunkIndex within csw) and writes the result to out. debugInfo is optional.
func (csw *CompiledStoryworld) Disassemble(chunk *Chunk, out io.Writer, debugInfo *DebugInfo, chunkIndex int) {
	name := fmt.Sprintf("chunk %v", chunkIndex)
	if debugInfo != nil && chunkIndex < len(debugInfo.ChunksNames) {
		name = debugInfo.ChunksNames[chunkIndex]
	}
	fmt.Fprintf(out, "== %v ==\n", name)

	for offset := 0; offset < len(chunk.Code); offset += InstructionWidth {
		csw.DisassembleInstruction(chunk, out, offset, debugInfo, chunkIndex)
	}
}
