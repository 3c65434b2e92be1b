/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/romualdo-vm/romualdo/pkg/romutil"
)

// A ValueKind represents one of the types a value in the Romualdo Virtual
// Machine can have. This is the type from the perspective of the VM (in the
// sense that user-defined types are obviously not directly represented here).
// We use "kind" in the name because "type" is a keyword in Go.
type ValueKind int

const (
	// ValueProcedure identifies a procedure value (either a Passage or a
	// Function).
	ValueProcedure ValueKind = iota

	// ValueLecture identifies a Lecture value.
	ValueLecture

	// ValueNil identifies the absence of a value.
	ValueNil

	// ValueBool identifies a boolean value.
	ValueBool

	// ValueInt identifies an integer value.
	ValueInt

	// ValueFloat identifies a floating-point value.
	ValueFloat

	// ValueString identifies a plain string value (as opposed to a Lecture).
	ValueString

	// ValueTable identifies a Table value.
	ValueTable

	// ValueClosure identifies a Closure value.
	ValueClosure
)

// Procedure is the runtime representation of a Procedure (i.e., a Passage or a
// Function). We don't include any sort of information about return and
// parameter types because type-checking is all done statically at compile-time.
type Procedure struct {
	// ChunkIndex points to the Chunk that contains this function's bytecode.
	// It's an index into the CompiledStoryworld slice of Chunks.
	ChunkIndex int
}

// Lecture is the runtime representation of a Lecture. Lectures are just
// strings, but we wrap them in a struct so that we can differentiate between
// strings and Lectures.
type Lecture struct {
	// Text is the text of the Lecture.
	Text string
}

// TODO: Create wrapper (in the same vein as Lecture) for bnums. (Rationale:
// blend is more expensive than normal float operations, so any cost related
// with unwrapping is better paid by bnums than by normal floats.)

// nilValue is the sentinel stored inside a Value to represent the absence of
// a value. We can't just use a bare Go nil, because an "empty" Value{} (the
// zero value of the struct) needs to be reliably distinguishable from every
// other kind we store in the interface{} field.
type nilValue struct{}

// Upvalue is a box around a Value, shared between a Closure and the stack
// slot it was captured from. Indirecting through a pointer is what lets a
// closed-over local go on living after the frame that declared it returns.
type Upvalue struct {
	Val Value
}

// Closure is the runtime representation of a procedure together with the
// upvalues it has captured. Plain Procedures (see above) have no free
// variables; Closures are procedures that do.
type Closure struct {
	// ChunkIndex points to the Chunk holding this closure's bytecode.
	ChunkIndex int

	// Upvalues holds this closure's captured variables, indexed the same way
	// DebugInfo's Prototype.Upvalues are.
	Upvalues []*Upvalue
}

// Table is the runtime representation of the Romualdo language's associative
// array type. We keep a dense slice for contiguous non-negative integer keys
// and a map for everything else, mirroring how Lua tables stay fast for the
// array-like case while remaining a general hash map.
type Table struct {
	arr  []Value
	hash map[Value]Value
}

// NewTable creates a new, empty Table.
func NewTable() *Table {
	return &Table{
		hash: map[Value]Value{},
	}
}

// GetInt reads the value stored at integer key i. Returns a nil Value if
// there is nothing stored there.
func (t *Table) GetInt(i int64) Value {
	if i >= 0 && i < int64(len(t.arr)) {
		return t.arr[i]
	}
	return t.hash[NewValueInt(i)]
}

// GetStr reads the value stored at string key s. Returns a nil Value if
// there is nothing stored there.
func (t *Table) GetStr(s string) Value {
	return t.hash[NewValueString(s)]
}

// SetInt stores v at integer key i.
func (t *Table) SetInt(i int64, v Value) {
	if i >= 0 && i <= int64(len(t.arr)) {
		if i == int64(len(t.arr)) {
			t.arr = append(t.arr, v)
		} else {
			t.arr[i] = v
		}
		return
	}
	t.hash[NewValueInt(i)] = v
}

// SetStr stores v at string key s.
func (t *Table) SetStr(s string, v Value) {
	t.hash[NewValueString(s)] = v
}

// Len returns the number of entries in the table's array part, which is what
// the Romualdo language's "length" notion is based on.
func (t *Table) Len() int {
	return len(t.arr)
}

// Value is a Romualdo language value.
type Value struct {
	Value interface{}
}

// NewValueProcedure creates a new Value of type Procedure, representing a
// Procedure that will run the code at the given Chunk index.
func NewValueProcedure(index int) Value {
	return Value{
		Value: Procedure{
			ChunkIndex: index,
		},
	}
}

// NewValueLecture creates a new Value of type Lecture, representing a
// Lecture with the given text.
func NewValueLecture(text string) Value {
	return Value{
		Value: Lecture{
			Text: text,
		},
	}
}

// NewValueNil creates a new Value representing the absence of a value.
func NewValueNil() Value {
	return Value{Value: nilValue{}}
}

// NewValueBool creates a new Value of type Bool.
func NewValueBool(b bool) Value {
	return Value{Value: b}
}

// NewValueInt creates a new Value of type Int.
func NewValueInt(i int64) Value {
	return Value{Value: i}
}

// NewValueFloat creates a new Value of type Float.
func NewValueFloat(f float64) Value {
	return Value{Value: f}
}

// NewValueString creates a new Value of type String. This is a plain
// dynamic-language string, as opposed to a Lecture.
func NewValueString(s string) Value {
	return Value{Value: s}
}

// NewValueTable creates a new Value wrapping the given Table.
func NewValueTable(t *Table) Value {
	return Value{Value: t}
}

// NewValueClosure creates a new Value wrapping the given Closure.
func NewValueClosure(c *Closure) Value {
	return Value{Value: c}
}

// IsNil checks if the value represents the absence of a value.
func (v Value) IsNil() bool {
	_, ok := v.Value.(nilValue)
	return ok || v.Value == nil
}

// IsBool checks if the value contains a Bool value.
func (v Value) IsBool() bool {
	_, ok := v.Value.(bool)
	return ok
}

// IsInt checks if the value contains an Int value.
func (v Value) IsInt() bool {
	_, ok := v.Value.(int64)
	return ok
}

// IsFloat checks if the value contains a Float value.
func (v Value) IsFloat() bool {
	_, ok := v.Value.(float64)
	return ok
}

// IsString checks if the value contains a (plain, non-Lecture) String value.
func (v Value) IsString() bool {
	_, ok := v.Value.(string)
	return ok
}

// IsTable checks if the value contains a Table value.
func (v Value) IsTable() bool {
	_, ok := v.Value.(*Table)
	return ok
}

// IsClosure checks if the value contains a Closure value.
func (v Value) IsClosure() bool {
	_, ok := v.Value.(*Closure)
	return ok
}

// AsBool returns this Value's value, assuming it is a Bool value.
func (v Value) AsBool() bool {
	return v.Value.(bool)
}

// AsInt returns this Value's value, assuming it is an Int value.
func (v Value) AsInt() int64 {
	return v.Value.(int64)
}

// AsFloat returns this Value's value, assuming it is a Float value.
func (v Value) AsFloat() float64 {
	return v.Value.(float64)
}

// AsString returns this Value's value, assuming it is a (plain) String
// value.
func (v Value) AsString() string {
	return v.Value.(string)
}

// AsTable returns this Value's value, assuming it is a Table value.
func (v Value) AsTable() *Table {
	return v.Value.(*Table)
}

// AsClosure returns this Value's value, assuming it is a Closure value.
func (v Value) AsClosure() *Closure {
	return v.Value.(*Closure)
}

// Kind reports this Value's ValueKind.
func (v Value) Kind() ValueKind {
	switch v.Value.(type) {
	case Procedure:
		return ValueProcedure
	case Lecture:
		return ValueLecture
	case bool:
		return ValueBool
	case int64:
		return ValueInt
	case float64:
		return ValueFloat
	case string:
		return ValueString
	case *Table:
		return ValueTable
	case *Closure:
		return ValueClosure
	default:
		return ValueNil
	}
}

// AsProcedure returns this Value's value, assuming it is a Procedure value.
func (v Value) AsProcedure() Procedure {
	return v.Value.(Procedure)
}

// AsLecture returns this Value's value, assuming it is a Lecture value.
func (v Value) AsLecture() Lecture {
	return v.Value.(Lecture)
}

// IsProcedure checks if the value contains a Procedure value.
func (v Value) IsProcedure() bool {
	_, ok := v.Value.(Procedure)
	return ok
}

// IsLecture checks if the value contains a Lecture value.
func (v Value) IsLecture() bool {
	_, ok := v.Value.(Lecture)
	return ok
}

// String converts the value to a string. This is also used by the VM to convert
// values to strings, so the output must be user-friendly.
func (v Value) String() string {
	switch vv := v.Value.(type) {
	case Procedure:
		// TODO: Would be nice to include the function name if we had the debug
		// information around. Hard to access this info from here, though. Could
		// we easily move these string conversions to the VM or whoever has
		// access to the debug info?
		return fmt.Sprintf("<procedure %d>", vv.ChunkIndex)
	case Lecture:
		// There are no variables of type Lecture, so users will never manually
		// convert a Lecture to a string. So, we don't need to worry about a
		// user-friendly representation here.
		return fmt.Sprintf("<Lecture: %v>", vv.Text)
	case nilValue:
		return "nil"
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case int64:
		return fmt.Sprintf("%v", vv)
	case float64:
		return fmt.Sprintf("%v", vv)
	case string:
		return vv
	case *Table:
		return fmt.Sprintf("<table %p>", vv)
	case *Closure:
		return fmt.Sprintf("<closure %p (chunk %v)>", vv, vv.ChunkIndex)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("<Unexpected type %T>", vv)
	}
}

// DebugString converts the value to a string the same way String does, but
// additionally uses di (which may be nil) to produce friendlier output for
// values -- like Procedures -- whose default String representation is just a
// bare index.
func (v Value) DebugString(di *DebugInfo) string {
	if p, ok := v.Value.(Procedure); ok && di != nil && p.ChunkIndex >= 0 && p.ChunkIndex < len(di.ChunksNames) {
		return fmt.Sprintf("<procedure %v>", di.ChunksNames[p.ChunkIndex])
	}
	if c, ok := v.Value.(*Closure); ok && di != nil && c.ChunkIndex >= 0 && c.ChunkIndex < len(di.ChunksNames) {
		return fmt.Sprintf("<closure %v>", di.ChunksNames[c.ChunkIndex])
	}
	return v.String()
}

// ValuesEqual checks if a and b are considered equal.
func ValuesEqual(a, b Value) bool {
	if a.IsNil() && b.IsNil() {
		return true
	}

	if reflect.TypeOf(a.Value) != reflect.TypeOf(b.Value) {
		return false
	}

	switch va := a.Value.(type) {
	case Procedure:
		return va.ChunkIndex == b.Value.(Procedure).ChunkIndex

	case Lecture:
		return va.Text == b.Value.(Lecture).Text

	case bool:
		return va == b.Value.(bool)

	case int64:
		return va == b.Value.(int64)

	case float64:
		return va == b.Value.(float64)

	case string:
		return va == b.Value.(string)

	case *Table:
		return va == b.Value.(*Table)

	case *Closure:
		return va == b.Value.(*Closure)

	default:
		panic(fmt.Sprintf("Unexpected Value type: %T", va))
	}
}

//
// Serialization and deserialization
//
// Note we don't implement the romutil.Deserializer interface for Values,
// because Values are, well, value types, and this interface is for reference
// types. The spirit is the same, though.
//

// These are the in-disk constants that identify the type of a Romualdo value.
const (
	cswBoolFalse byte = 0
	cswBoolTrue  byte = 1
	cswInt       byte = 2
	cswFloat     byte = 3
	cswBNum      byte = 4
	cswString    byte = 5
	cswLecture   byte = 6
)

// Serialize serializes the Value to the given io.Writer.
func (v Value) Serialize(w io.Writer) error {
	switch vv := v.Value.(type) {
	case Procedure:
		return errors.New("cannot serialize procedure values")

	case *Table:
		return errors.New("cannot serialize table values")

	case *Closure:
		return errors.New("cannot serialize closure values")

	case Lecture:
		bs := []byte{cswLecture}
		_, err := w.Write(bs)
		if err != nil {
			return err
		}

		err = romutil.SerializeString(w, vv.Text)
		return err

	case nilValue:
		_, err := w.Write([]byte{cswBoolFalse})
		return err

	case bool:
		b := cswBoolFalse
		if vv {
			b = cswBoolTrue
		}
		_, err := w.Write([]byte{b})
		return err

	case int64:
		if _, err := w.Write([]byte{cswInt}); err != nil {
			return err
		}
		return romutil.SerializeInt64(w, vv)

	case float64:
		if _, err := w.Write([]byte{cswFloat}); err != nil {
			return err
		}
		return romutil.SerializeFloat64(w, vv)

	case string:
		if _, err := w.Write([]byte{cswString}); err != nil {
			return err
		}
		return romutil.SerializeString(w, vv)

	default:
		// Can't happen
		return fmt.Errorf("unexpected value type: %T", vv)
	}
}

// DeserializeValue deserializes a Value from the given io.Reader.
func DeserializeValue(r io.Reader) (Value, error) {
	v := Value{}
	b := make([]byte, 1)
	_, err := r.Read(b)
	if err != nil {
		return v, err
	}

	switch b[0] {
	case cswBoolFalse:
		v.Value = false
	case cswBoolTrue:
		v.Value = true
	case cswInt:
		i, err := romutil.DeserializeInt64(r)
		if err != nil {
			return v, err
		}
		v.Value = i
	case cswFloat:
		f, err := romutil.DeserializeFloat64(r)
		if err != nil {
			return v, err
		}
		v.Value = f
	case cswString:
		s, err := romutil.DeserializeString(r)
		if err != nil {
			return v, err
		}
		v.Value = s
	case cswLecture:
		text, err := romutil.DeserializeString(r)
		if err != nil {
			return v, err
		}
		v.Value = Lecture{text}
	default:
		// Can't happen
		return v, fmt.Errorf("unexpected value identifier: %v", b[0])
	}

	return v, nil
}
