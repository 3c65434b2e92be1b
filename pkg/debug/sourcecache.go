/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/spkg/bom"
)

// sourceFile is one entry of the SourceCache: the full text of a source
// file, or a marker that it is binary, plus a line-offset index built once
// at load time.
type sourceFile struct {
	// text is the file's content, with any leading UTF-8 BOM stripped. nil if
	// the file turned out to be binary (a compiled Storyworld, by its
	// signature) rather than source.
	text []byte

	// linepos[i] is the byte offset, into text, where line i+1 (1-based)
	// begins. linepos[0] is always 0.
	linepos []int
}

// numLines returns how many lines this file has. Zero for binary files.
func (sf *sourceFile) numLines() int {
	return len(sf.linepos)
}

// line returns the raw text of the given 1-based line number, without its
// trailing newline. Panics if n is out of range; callers must clamp first.
func (sf *sourceFile) line(n int) string {
	start := sf.linepos[n-1]
	var end int
	if n < len(sf.linepos) {
		end = sf.linepos[n]
	} else {
		end = len(sf.text)
	}
	return strings.TrimRight(string(sf.text[start:end]), "\r\n")
}

// SourceCache maps a source file path to its in-memory contents plus a
// line-offset index, loading each file at most once and keeping it resident
// for the rest of the process's life.
type SourceCache struct {
	files map[string]*sourceFile
}

// NewSourceCache creates an empty SourceCache.
func NewSourceCache() *SourceCache {
	return &SourceCache{files: map[string]*sourceFile{}}
}

// getOrLoad returns the cached sourceFile for path, reading and indexing it
// from disk the first time it is requested.
func (sc *SourceCache) getOrLoad(path string) (*sourceFile, error) {
	if sf, ok := sc.files[path]; ok {
		return sf, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	clean := bom.Clean(raw)

	sf := &sourceFile{}
	if bytes.HasPrefix(clean, bytecode.FileSignature[:]) {
		// Binary (compiled Storyworld) file: leave text/linepos nil/empty.
		sc.files[path] = sf
		return sf, nil
	}

	sf.text = clean
	sf.linepos = indexLines(clean)
	sc.files[path] = sf
	return sf, nil
}

// indexLines walks text once and returns the byte offset where each line
// starts. There is always at least one entry (offset 0), even for an empty
// file.
func indexLines(text []byte) []int {
	linepos := []int{0}
	for i, b := range text {
		if b == '\n' && i+1 < len(text) {
			linepos = append(linepos, i+1)
		}
	}
	return linepos
}

// List writes, to ob, the lines of path from startLine through startLine +
// nLines - 1 (inclusive), marking curLine with a "-> " arrow and every other
// line with three spaces. A startLine below 1 is treated as 1; requests
// whose startLine exceeds the file are silently dropped (nothing is
// written). Returns the 1-based number of the last line emitted, so the
// caller can resume with ListContinue.
func (sc *SourceCache) List(ob *OutputBuffer, path string, startLine, nLines, curLine int) (int, error) {
	sf, err := sc.getOrLoad(path)
	if err != nil {
		return startLine, err
	}

	if sf.text == nil {
		ob.AppendFormatted("%v is a binary file, no source to list\n", path)
		return startLine, nil
	}

	if startLine < 1 {
		startLine = 1
	}
	last := sf.numLines()
	if startLine > last {
		return startLine - 1, nil
	}

	end := startLine + nLines - 1
	if end > last {
		end = last
	}

	for n := startLine; n <= end; n++ {
		marker := "   "
		if n == curLine {
			marker = "-> "
		}
		ob.AppendFormatted("%v%v %v\n", marker, formatLineNumber(n), sf.line(n))
	}

	return end, nil
}

// ListContinue writes the lines following the last one emitted by a
// previous List/ListContinue call, emitting "<EOF>" once past the end of
// the file.
func (sc *SourceCache) ListContinue(ob *OutputBuffer, path string, afterLine, nLines, curLine int) (int, error) {
	sf, err := sc.getOrLoad(path)
	if err != nil {
		return afterLine, err
	}
	if afterLine >= sf.numLines() {
		ob.AppendFormatted("<EOF>\n")
		return afterLine, nil
	}
	return sc.List(ob, path, afterLine+1, nLines, curLine)
}

// formatLineNumber right-aligns a line number the way the listing window
// does: 4 columns normally, widening to 8 past 9999 lines so long files
// still line up.
func formatLineNumber(n int) string {
	if n > 9999 {
		return fmt.Sprintf("%8d", n)
	}
	return fmt.Sprintf("%4d", n)
}
