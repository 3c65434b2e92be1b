/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"io"

	"github.com/romualdo-vm/romualdo/pkg/romutil"
)

// DebugInfo contains debug information matching a CompiledStoryworld. All
// information that is not strictly necessary to run a Storyworld but is useful
// for debugging, producing better error reporting, etc, belongs here.
//
// All serialized data is little endian. Prototypes are not serialized.
type DebugInfo struct {
	// ChunksNames contains the names of the procedures on a CompiledStoryworld.
	// There is one entry for each entry in the corresponding
	// CompiledStoryworld.Chunks.
	ChunksNames []string

	// ChunksSourceFiles contains the source files every Chunk was compiled
	// from. The indices here match those in CompiledStoryworld.Chunks. The file
	// names here contain the path from the root of the Storyworld.
	ChunksSourceFiles []string

	// ChunksLines contains the source code line that generated each instruction
	// of each Chunk. This must be interpreted like this:
	// ChunksLines[chunkIndex][codeIndex] contains the line that generated the
	// bytecode at CompiledStoryworld.Chunks[chunkIndex].Code[codeIndex].
	//
	// Notice that we have one entry for each entry in Code. Very
	// space-inefficient, but very simple.
	//
	// TODO: Use run-length encoding (RLE) or something like that to spare some
	// memory and storage.
	ChunksLines [][]int

	// Prototypes holds the static, symbolic shape of every procedure in the
	// CompiledStoryworld -- its locals, upvalues and nesting. Indexed the same
	// way CompiledStoryworld.Chunks is. This is what lets the debugger recover
	// variable names from raw register/slot numbers without access to source.
	Prototypes []*Prototype
}

// LocalVar describes one named local variable (or call parameter) as tracked
// for debugging purposes.
type LocalVar struct {
	// Name is the identifier as written in the source.
	Name string

	// Slot is the stack slot (relative to the frame's base) this local lives
	// in.
	Slot int

	// StartPC is the index of the first instruction, within the owning
	// Chunk's Code, for which this local is live.
	StartPC int

	// EndPC is the index one past the last instruction for which this local
	// is live. The local's liveness range is the half-open interval
	// [StartPC, EndPC), mirroring how Lua tracks local variable scope.
	EndPC int
}

// UpvalDesc describes one upvalue captured by a procedure.
type UpvalDesc struct {
	// Name is the identifier as written in the source.
	Name string

	// InStack tells whether, at the moment the closure was created, this
	// upvalue was a local of the enclosing function (true) or itself one of
	// the enclosing function's upvalues (false).
	InStack bool

	// Index is either the enclosing function's stack slot (if InStack) or
	// its own upvalue index (if not).
	Index int
}

// Prototype is the static description of a procedure: the shape the debugger
// needs to make sense of a running Frame without access to the original
// source.
type Prototype struct {
	// ChunkIndex is this Prototype's index into CompiledStoryworld.Chunks
	// (and DebugInfo.Prototypes).
	ChunkIndex int

	// NumParams is the number of formal parameters the procedure declares.
	// Parameters are just locals with StartPC == 0.
	NumParams int

	// Locals lists every local variable ever live in this procedure's frame,
	// including parameters and locals that share a slot at different points
	// in the procedure's body.
	Locals []LocalVar

	// Upvalues lists the upvalues this procedure's closures capture.
	Upvalues []UpvalDesc

	// LineDefined is the source line where the procedure's declaration
	// starts.
	LineDefined int

	// LastLineDefined is the source line where the procedure's declaration
	// ends.
	LastLineDefined int

	// Parent indexes the Chunk of the procedure this one is lexically nested
	// within, or -1 if this is a top-level procedure.
	Parent int
}

// LocalsAt returns the names (and slots) of every local variable live at
// the given program counter, innermost declaration first. Used to build the
// "locals" view in a stopped debug session.
func (p *Prototype) LocalsAt(pc int) []LocalVar {
	var result []LocalVar
	for i := len(p.Locals) - 1; i >= 0; i-- {
		lv := p.Locals[i]
		if pc >= lv.StartPC && pc < lv.EndPC {
			result = append(result, lv)
		}
	}
	return result
}

// FindLocal returns the innermost local variable named name that is live at
// pc, and whether one was found.
func (p *Prototype) FindLocal(name string, pc int) (LocalVar, bool) {
	for _, lv := range p.LocalsAt(pc) {
		if lv.Name == name {
			return lv, true
		}
	}
	return LocalVar{}, false
}

// FindUpvalue returns the index of the upvalue named name, and whether one
// was found.
func (p *Prototype) FindUpvalue(name string) (int, bool) {
	for i, uv := range p.Upvalues {
		if uv.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Serialize writes di to w, in the on-disk format used for compiled
// Storyworld debug info (*.rad) files.
func (di *DebugInfo) Serialize(w io.Writer) error {
	if err := romutil.SerializeInt64(w, int64(len(di.ChunksNames))); err != nil {
		return err
	}
	for i, name := range di.ChunksNames {
		if err := romutil.SerializeString(w, name); err != nil {
			return err
		}
		if err := romutil.SerializeString(w, di.ChunksSourceFiles[i]); err != nil {
			return err
		}
		lines := di.ChunksLines[i]
		if err := romutil.SerializeInt64(w, int64(len(lines))); err != nil {
			return err
		}
		for _, line := range lines {
			if err := romutil.SerializeInt64(w, int64(line)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Deserialize reads a DebugInfo from r, in the format written by Serialize,
// into di.
func (di *DebugInfo) Deserialize(r io.Reader) error {
	n, err := romutil.DeserializeInt64(r)
	if err != nil {
		return err
	}

	di.ChunksNames = make([]string, n)
	di.ChunksSourceFiles = make([]string, n)
	di.ChunksLines = make([][]int, n)

	for i := int64(0); i < n; i++ {
		name, err := romutil.DeserializeString(r)
		if err != nil {
			return err
		}
		di.ChunksNames[i] = name

		sourceFile, err := romutil.DeserializeString(r)
		if err != nil {
			return err
		}
		di.ChunksSourceFiles[i] = sourceFile

		numLines, err := romutil.DeserializeInt64(r)
		if err != nil {
			return err
		}
		lines := make([]int, numLines)
		for j := range lines {
			line, err := romutil.DeserializeInt64(r)
			if err != nil {
				return err
			}
			lines[j] = int(line)
		}
		di.ChunksLines[i] = lines
	}

	return nil
}
