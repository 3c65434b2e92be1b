/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"fmt"
	"strconv"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

// maxPathDepth bounds how many fields a variable path may have, so a
// malicious or malformed path can never make the parser allocate without
// bound.
const maxPathDepth = 16

// fieldKind tells whether a pathField indexes by name or by integer.
type fieldKind int

const (
	fieldName fieldKind = iota
	fieldIndex
)

// pathField is one step of a parsed variable path: either `.ident`/`ident`
// (a name) or `[int]`/`['str']` (an index, which can itself be a string).
type pathField struct {
	kind fieldKind
	str  string
	i    int64
}

// ParsePath parses a variable-path expression of the grammar
// `IDENT ( '.' IDENT | '[' INT ']' | '[' STRING ']' )*`
// into an ordered list of fields. The first field is always the root
// identifier. Returns a human-readable diagnostic on malformed input.
//
// This is a small hand-rolled state machine over the states varstart (before
// the leading identifier), var (scanning an identifier), init (between
// fields, expecting '.' or '['), intstr (just past '[', deciding between an
// integer and a quoted string) int and str (scanning the respective
// literal).
func ParsePath(src string) ([]pathField, error) {
	i, n := 0, len(src)

	// varstart / var: the leading identifier is mandatory.
	start := i
	if i >= n || !isIdentStart(src[i]) {
		return nil, fmt.Errorf("illegal variable name")
	}
	i++
	for i < n && isIdentCont(src[i]) {
		i++
	}
	fields := []pathField{{kind: fieldName, str: src[start:i]}}

	// init: zero or more suffixes.
	for i < n {
		if len(fields) >= maxPathDepth {
			return nil, fmt.Errorf("variable path too deep (max %v fields)", maxPathDepth)
		}

		switch src[i] {
		case '.':
			i++
			start = i
			if i >= n || !isIdentStart(src[i]) {
				return nil, fmt.Errorf("illegal field name")
			}
			i++
			for i < n && isIdentCont(src[i]) {
				i++
			}
			fields = append(fields, pathField{kind: fieldName, str: src[start:i]})

		case '[':
			i++
			if i >= n {
				return nil, fmt.Errorf("unterminated '['")
			}

			// intstr: decide between a quoted string and a decimal integer.
			if src[i] == '\'' || src[i] == '"' {
				quote := src[i]
				i++
				start = i
				for i < n && src[i] != quote {
					i++
				}
				if i >= n {
					return nil, fmt.Errorf("unterminated quote")
				}
				str := src[start:i]
				i++ // closing quote
				if i >= n || src[i] != ']' {
					return nil, fmt.Errorf("expected ']'")
				}
				i++
				fields = append(fields, pathField{kind: fieldName, str: str})
			} else {
				start = i
				for i < n && src[i] >= '0' && src[i] <= '9' {
					i++
				}
				if i == start {
					return nil, fmt.Errorf("expected an integer index")
				}
				val, err := strconv.ParseInt(src[start:i], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("integer index out of range")
				}
				if i >= n || src[i] != ']' {
					return nil, fmt.Errorf("expected ']'")
				}
				i++
				fields = append(fields, pathField{kind: fieldIndex, i: val})
			}

		default:
			return nil, fmt.Errorf("illegal variable name")
		}
	}

	return fields, nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// ResolvePath resolves a parsed variable path against the given frame,
// walking locals -> upvalues -> globals for the first field and then
// indexing a table for every subsequent field.
func ResolvePath(theVM *vm.VM, di *bytecode.DebugInfo, frame *vm.Frame, fields []pathField) (bytecode.Value, error) {
	val := resolveRoot(theVM, di, frame, fields[0].str)

	for _, f := range fields[1:] {
		if !val.IsTable() {
			return bytecode.Value{}, fmt.Errorf("unable to index non-table")
		}
		t := val.AsTable()
		if f.kind == fieldIndex {
			val = t.GetInt(f.i)
		} else {
			val = t.GetStr(f.str)
		}
	}

	return val, nil
}

// resolveRoot implements §4.3's step 1: local (innermost live declaration
// wins) -> upvalue -> global. An unresolved global reads as nil, which is
// not an error (see scenario "print nope" => "nope = nil").
func resolveRoot(theVM *vm.VM, di *bytecode.DebugInfo, frame *vm.Frame, name string) bytecode.Value {
	if frame != nil && di != nil && frame.ChunkIndex() < len(di.Prototypes) {
		proto := di.Prototypes[frame.ChunkIndex()]
		if proto != nil {
			if lv, ok := proto.FindLocal(name, frame.IP()); ok {
				return frame.LocalSlot(lv.Slot)
			}
			if idx, ok := proto.FindUpvalue(name); ok {
				if cl := frame.Closure(); cl != nil && idx < len(cl.Upvalues) {
					return cl.Upvalues[idx].Val
				}
			}
		}
	}
	return theVM.Globals().GetStr(name)
}

// PathString reconstructs the canonical textual form of a parsed path, used
// to echo back the variable in "name = value" replies.
func PathString(fields []pathField) string {
	s := fields[0].str
	for _, f := range fields[1:] {
		if f.kind == fieldIndex {
			s += fmt.Sprintf("[%v]", f.i)
		} else if isPlainIdent(f.str) {
			s += "." + f.str
		} else {
			s += fmt.Sprintf("['%v']", f.str)
		}
	}
	return s
}

func isPlainIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentCont(s[i]) {
			return false
		}
	}
	return true
}
