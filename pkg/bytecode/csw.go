/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"errors"
	"io"

	"github.com/romualdo-vm/romualdo/pkg/romutil"
)

const (
	// MaxConstants is the maximum number of constants we can have on a
	// CompiledStoryworld. This is equal to 2^31, so that it fits on an int even
	// on platforms that use 32-bit integers. And this number should be large
	// enough to ensure we don't run out of space for constants.
	MaxConstants = 2_147_483_648
)

// FileSignature is the magic 4-byte prefix of every serialized
// CompiledStoryworld (*.ras) file. The debugger's source-file cache looks for
// this signature (after skipping a UTF-8 BOM) to tell apart source text from
// a binary file accidentally passed where a source file was expected.
var FileSignature = [4]byte{'R', 'A', 'S', 'W'}

// CompiledStoryworld is a compiled, binary version of a Romualdo Language
// Storyworld.
//
// All serialized data is little endian.
//
// TODO: Use a string interner to avoid having duplicate strings in memory.
// Make some measurements to ensure it's really beneficial.
type CompiledStoryworld struct {
	// Chunks is a slide with all Chunks of bytecode containing the compiled
	// data. There is one Chunk for each procedure in the Storyworld.
	//
	// TODO: And in the future, one Chunk for every version of every procedure.
	Chunks []*Chunk

	// InitialChunk indexes the element in Chunks from where the Storyworld
	// execution starts. In other words, it points to the "/main" chunk.
	InitialChunk int

	// The constant values used in all Chunks.
	Constants []Value
}

// SearchConstant searches the constant pool for a constant with the given
// value. If found, it returns the index of this constant into csw.Constants. If
// not found, it returns a negative value.
func (csw *CompiledStoryworld) SearchConstant(value Value) int {
	for i, v := range csw.Constants {
		if ValuesEqual(value, v) {
			return i
		}
	}

	return -1
}

// AddConstant adds a constant to the CompiledStoryworld and returns the index
// of the new constant into csw.Constants.
func (csw *CompiledStoryworld) AddConstant(value Value) int {
	csw.Constants = append(csw.Constants, value)
	return len(csw.Constants) - 1
}

// Serialize writes csw to w, in the on-disk format used for compiled
// Storyworld (*.ras) files.
func (csw *CompiledStoryworld) Serialize(w io.Writer) error {
	if _, err := w.Write(FileSignature[:]); err != nil {
		return err
	}

	if err := romutil.SerializeInt64(w, int64(csw.InitialChunk)); err != nil {
		return err
	}

	if err := romutil.SerializeInt64(w, int64(len(csw.Constants))); err != nil {
		return err
	}
	for _, c := range csw.Constants {
		if err := c.Serialize(w); err != nil {
			return err
		}
	}

	if err := romutil.SerializeInt64(w, int64(len(csw.Chunks))); err != nil {
		return err
	}
	for _, chunk := range csw.Chunks {
		if err := romutil.SerializeInt64(w, int64(len(chunk.Code))); err != nil {
			return err
		}
		if _, err := w.Write(chunk.Code); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize reads a CompiledStoryworld from r, in the format written by
// Serialize, into csw.
func (csw *CompiledStoryworld) Deserialize(r io.Reader) error {
	var sig [4]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return err
	}
	if sig != FileSignature {
		return errors.New("not a compiled Storyworld file (bad signature)")
	}

	initialChunk, err := romutil.DeserializeInt64(r)
	if err != nil {
		return err
	}
	csw.InitialChunk = int(initialChunk)

	numConstants, err := romutil.DeserializeInt64(r)
	if err != nil {
		return err
	}
	csw.Constants = make([]Value, numConstants)
	for i := range csw.Constants {
		v, err := DeserializeValue(r)
		if err != nil {
			return err
		}
		csw.Constants[i] = v
	}

	numChunks, err := romutil.DeserializeInt64(r)
	if err != nil {
		return err
	}
	csw.Chunks = make([]*Chunk, numChunks)
	for i := range csw.Chunks {
		codeLen, err := romutil.DeserializeInt64(r)
		if err != nil {
			return err
		}
		code := make([]byte, codeLen)
		if _, err := io.ReadFull(r, code); err != nil {
			return err
		}
		csw.Chunks[i] = &Chunk{Code: code}
	}

	return nil
}
