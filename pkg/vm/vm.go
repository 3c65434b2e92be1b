/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"fmt"
	"os"
	"strings"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/errs"
	"github.com/romualdo-vm/romualdo/pkg/romutil"
)

// DebugHooks lets a debug engine observe and pause a running VM. The VM
// checks Debugger for nil before every call, so attaching no debugger costs
// one pointer comparison per instruction.
type DebugHooks interface {
	// OnInstruction is called before every instruction is executed. It must
	// be cheap when no pause is pending -- implementations are expected to
	// gate on a single atomic flag and only do real work when it is set.
	OnInstruction(vm *VM)

	// OnBreakpoint is called when an OpInterrupt instruction is executed.
	// id is the breakpoint id carried as the instruction's operand.
	// Asynchronous pauses are raised from OnInstruction, not through here.
	// The VM blocks on this call until the debugger decides to resume.
	OnBreakpoint(vm *VM, id int)
}

// VM is a Romualdo Virtual Machine.
type VM struct {
	// Set DebugTraceExecution to true to make the VM disassemble the code as it
	// runs through it.
	DebugTraceExecution bool

	// Debugger, if set, is notified of every instruction and every
	// breakpoint hit. See DebugHooks.
	Debugger DebugHooks

	// mouth is where the VM sends its output.
	mouth romutil.Mouth

	// ear is where the VM reads input from (OpListen).
	ear romutil.Ear

	// csw is the compiled storyworld we are executing.
	csw *bytecode.CompiledStoryworld

	// debugInfo contains the debug information corresponding to csw. May be
	// nil, in which case error messages and debugging are less friendly.
	debugInfo *bytecode.DebugInfo

	// globals holds every global variable in the running Storyworld.
	globals *bytecode.Table

	// stack is the VM stack, used for storing values during interpretation.
	stack *Stack

	// frames is the stack of call frames. It has one entry for every function
	// that has started running but hasn't returned yet.
	frames []*Frame

	// The current call frame (the one on top of VM.frames). This is what the
	// debugger spec calls citop, the topmost frame belonging to this VM.
	frame *Frame
}

// New returns a new Virtual Machine. mouth and ear are how the VM sends
// output and receives input, respectively.
func New(mouth romutil.Mouth, ear romutil.Ear) *VM {
	return &VM{
		stack:   &Stack{},
		mouth:   mouth,
		ear:     ear,
		globals: bytecode.NewTable(),
	}
}

// CSW returns the CompiledStoryworld this VM is executing.
func (vm *VM) CSW() *bytecode.CompiledStoryworld {
	return vm.csw
}

// DebugInfo returns the debug information for the CompiledStoryworld this VM
// is executing. May be nil.
func (vm *VM) DebugInfo() *bytecode.DebugInfo {
	return vm.debugInfo
}

// Globals returns the table holding every global variable.
func (vm *VM) Globals() *bytecode.Table {
	return vm.globals
}

// Frames returns the current call stack, bottom frame first.
func (vm *VM) Frames() []*Frame {
	return vm.frames
}

// TopFrame returns the innermost (currently executing) Frame, or nil if the
// VM isn't running.
func (vm *VM) TopFrame() *Frame {
	return vm.frame
}

// PatchInstruction overwrites, byte for byte, the instruction at codepos in
// the chunk identified by chunkIndex. Used by the breakpoint table to
// implant and remove OpInterrupt traps.
func (vm *VM) PatchInstruction(chunkIndex, codepos int, op bytecode.OpCode, operand1, operand2 int) {
	chunk := vm.csw.Chunks[chunkIndex]
	instr := make([]byte, bytecode.InstructionWidth)
	instr[0] = byte(op)
	bytecode.EncodeUInt31(instr[1:], operand1)
	bytecode.EncodeUInt31(instr[5:], operand2)
	copy(chunk.Code[codepos:codepos+bytecode.InstructionWidth], instr)
}

// RawInstructionBytes returns a copy of the raw bytes of the instruction at
// codepos in the chunk identified by chunkIndex. Used by the breakpoint
// table to save the original instruction before implanting a trap.
func (vm *VM) RawInstructionBytes(chunkIndex, codepos int) []byte {
	chunk := vm.csw.Chunks[chunkIndex]
	saved := make([]byte, bytecode.InstructionWidth)
	copy(saved, chunk.Code[codepos:codepos+bytecode.InstructionWidth])
	return saved
}

// RestoreInstructionBytes copies back raw bytes previously obtained from
// RawInstructionBytes.
func (vm *VM) RestoreInstructionBytes(chunkIndex, codepos int, saved []byte) {
	chunk := vm.csw.Chunks[chunkIndex]
	copy(chunk.Code[codepos:codepos+bytecode.InstructionWidth], saved)
}

// currentChunk returns the chunk currently being executed.
func (vm *VM) currentChunk() *bytecode.Chunk {
	return vm.csw.Chunks[vm.frame.proc.ChunkIndex]
}

// Interpret interprets a given compiled Storyworld.
func (vm *VM) Interpret(csw *bytecode.CompiledStoryworld, di *bytecode.DebugInfo) (err errs.Error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.Runtime); ok {
				err = e
				return
			}
			err = errs.NewICE("Unexpected error type: %T", r)
			return
		}
	}()

	vm.csw = csw
	vm.debugInfo = di

	// Normal Procedure calls start by pushing the callable thing. Here we have
	// an implicit call to the initial Procedure, so we push it. This keeps this
	// implicit call consistent with calls made by the user, and avoids having
	// to treat it as a special case elsewhere.
	vm.push(bytecode.NewValueProcedure(csw.InitialChunk))
	proc := bytecode.Procedure{ChunkIndex: csw.InitialChunk}
	vm.callProcedure(proc, 0)
	vm.frame = vm.frames[0]

	r := vm.run()
	vm.mouth.Flush()

	return r
}

// run runs the code loaded into vm.
func (vm *VM) run() errs.Error {
	for {
		if vm.frame.ip >= len(vm.currentChunk().Code) {
			return nil
		}

		if vm.Debugger != nil {
			vm.Debugger.OnInstruction(vm)
		}

		if vm.DebugTraceExecution {
			fmt.Print("Stack: ")
			for _, v := range vm.stack.data {
				fmt.Printf("[ %v ]", v.DebugString(vm.debugInfo))
			}
			fmt.Print("\n")

			chunkIndex := vm.frame.proc.ChunkIndex
			vm.csw.DisassembleInstruction(vm.currentChunk(), os.Stdout, vm.frame.ip, vm.debugInfo, chunkIndex)
		}

		chunk := vm.currentChunk()
		op, a, b := chunk.Instruction(vm.frame.ip)
		vm.frame.ip += bytecode.InstructionWidth

		switch op {
		case bytecode.OpNop:
			break

		case bytecode.OpConstant:
			vm.push(vm.csw.Constants[a])

		case bytecode.OpSay:
			value := vm.pop()
			if !value.IsLecture() {
				vm.runtimeError("Expected a Lecture, got %T", value.Value)
			}
			vm.mouth.Say(value.AsLecture().Text)

		case bytecode.OpListen:
			options := vm.pop()
			vm.mouth.Say(fmt.Sprintf("==> %v\n", options.AsString()))
			vm.mouth.Flush()
			choice := vm.ear.Listen()
			vm.push(bytecode.NewValueString(choice))

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpTrue:
			vm.push(bytecode.NewValueBool(true))

		case bytecode.OpFalse:
			vm.push(bytecode.NewValueBool(false))

		case bytecode.OpJump:
			vm.frame.ip = a

		case bytecode.OpJumpIfFalse:
			cond := vm.pop()
			if !isTruthy(cond) {
				vm.frame.ip = a
			}

		case bytecode.OpMove:
			vm.frame.stack.setAt(a, vm.frame.stack.at(b))

		case bytecode.OpGetLocal:
			vm.push(vm.frame.stack.at(a))

		case bytecode.OpSetLocal:
			vm.frame.stack.setAt(a, vm.pop())

		case bytecode.OpGetUpval:
			vm.push(vm.frame.closure.Upvalues[a].Val)

		case bytecode.OpSetUpval:
			vm.frame.closure.Upvalues[a].Val = vm.pop()

		case bytecode.OpGetTabUp:
			table := vm.upvalTable(a)
			key := vm.csw.Constants[b].AsString()
			vm.push(table.GetStr(key))

		case bytecode.OpSetTabUp:
			table := vm.upvalTable(a)
			key := vm.csw.Constants[b].AsString()
			table.SetStr(key, vm.pop())

		case bytecode.OpSelf:
			obj := vm.pop()
			if !obj.IsTable() {
				vm.indexError(obj, 0)
			}
			key := vm.csw.Constants[a].AsString()
			vm.push(obj.AsTable().GetStr(key))
			vm.push(obj)

		case bytecode.OpNewTable:
			vm.push(bytecode.NewValueTable(bytecode.NewTable()))

		case bytecode.OpGetIndex:
			key := vm.pop()
			obj := vm.pop()
			if !obj.IsTable() {
				vm.indexError(obj, 1)
			}
			vm.push(indexGet(obj.AsTable(), key))

		case bytecode.OpSetIndex:
			value := vm.pop()
			key := vm.pop()
			obj := vm.pop()
			if !obj.IsTable() {
				vm.indexError(obj, 2)
			}
			indexSet(obj.AsTable(), key, value)

		case bytecode.OpCall:
			vm.doCall(a, b)

		case bytecode.OpReturn:
			if vm.doReturn() {
				return nil
			}

		case bytecode.OpForPrep:
			vm.doForPrep(a, b)

		case bytecode.OpForLoop:
			vm.doForLoop(a, b)

		case bytecode.OpTForCall:
			vm.doTForCall(a)

		case bytecode.OpTForLoop:
			if !vm.frame.stack.at(a + 2).IsNil() {
				vm.frame.ip = b
			}

		case bytecode.OpInterrupt:
			if vm.Debugger != nil {
				vm.Debugger.OnBreakpoint(vm, a)
			}

		default:
			vm.runtimeError("Unexpected instruction: %v", op)
		}
	}
}

// isTruthy implements the language's notion of truthiness: nil and false are
// falsy, everything else is truthy.
func isTruthy(v bytecode.Value) bool {
	if v.IsNil() {
		return false
	}
	if v.IsBool() {
		return v.AsBool()
	}
	return true
}

// upvalTable returns the table held by the upvalue at index idx of the
// current closure, falling back to the VM's global table when the current
// frame has no closure (or not enough upvalues) -- which is how test
// fixtures and not-yet-closure-aware compiled code reach globals.
func (vm *VM) upvalTable(idx int) *bytecode.Table {
	if vm.frame.closure != nil && idx < len(vm.frame.closure.Upvalues) {
		uv := vm.frame.closure.Upvalues[idx]
		if uv.Val.IsTable() {
			return uv.Val.AsTable()
		}
	}
	return vm.globals
}

// indexGet implements table[key], dispatching to Table.GetInt or
// Table.GetStr depending on the key's runtime type.
func indexGet(t *bytecode.Table, key bytecode.Value) bytecode.Value {
	if key.IsInt() {
		return t.GetInt(key.AsInt())
	}
	return t.GetStr(key.AsString())
}

// indexSet implements table[key] = value.
func indexSet(t *bytecode.Table, key, value bytecode.Value) {
	if key.IsInt() {
		t.SetInt(key.AsInt(), value)
		return
	}
	t.SetStr(key.AsString(), value)
}

// readConstant reads a 31-bit constant index from the chunk bytecode and
// returns the corresponding constant value.
func (vm *VM) readConstant() bytecode.Value {
	chunk := vm.currentChunk()
	index := bytecode.DecodeUInt31(chunk.Code[vm.frame.ip:])
	constant := vm.csw.Constants[index]
	vm.frame.ip += 4
	return constant
}

// push pushes a value into the VM stack.
func (vm *VM) push(value bytecode.Value) {
	vm.stack.push(value)
}

// top returns the value on the top of the VM stack (without removing it).
// Panics on underflow.
func (vm *VM) top() bytecode.Value {
	return vm.stack.top()
}

// pop pops a value from the VM stack and returns it. Panics on underflow.
func (vm *VM) pop() bytecode.Value {
	return vm.stack.pop()
}

// peek returns a value on the stack that is a given distance from the top.
// Passing 0 means "give me the value on the top of the stack". The stack is not
// changed at all.
func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack.peek(distance)
}

// callProcedure calls Procedure proc. Assumes that the function and its arguments
// were pushed into the stack. Pushes a new frame into vm.frames.
func (vm *VM) callProcedure(proc bytecode.Procedure, argCount int) {
	vm.frames = append(vm.frames, &Frame{
		proc:  proc,
		stack: vm.stack.createView(argCount + 1), // "+1" is the callee, which is on the stack
		prev:  vm.frame,
	})
}

// doCall executes OpCall: calleeSlot is the frame-relative slot holding the
// Procedure or Closure value to call, argCount the number of arguments
// already placed above it on the stack.
func (vm *VM) doCall(calleeSlot, argCount int) {
	callee := vm.frame.stack.at(calleeSlot)

	var proc bytecode.Procedure
	var closure *bytecode.Closure

	switch {
	case callee.IsProcedure():
		proc = callee.AsProcedure()
	case callee.IsClosure():
		closure = callee.AsClosure()
		proc = bytecode.Procedure{ChunkIndex: closure.ChunkIndex}
	default:
		vm.runtimeError("Attempt to call a non-callable value: %v", callee.DebugString(vm.debugInfo))
		return
	}

	calleeAbsolute := vm.frame.stack.base + calleeSlot
	newFrame := &Frame{
		proc:    proc,
		closure: closure,
		stack:   vm.stack.createView(vm.stack.size() - calleeAbsolute),
		prev:    vm.frame,
	}
	vm.frames = append(vm.frames, newFrame)
	vm.frame = newFrame
}

// doReturn executes OpReturn. Returns true if this was a return from the
// outermost (implicit top-level) call, meaning the program has finished.
func (vm *VM) doReturn() bool {
	retVal := vm.pop()

	base := vm.frame.stack.base
	vm.stack.data = vm.stack.data[:base]

	vm.frames = vm.frames[:len(vm.frames)-1]

	if len(vm.frames) == 0 {
		vm.frame = nil
		vm.push(retVal)
		return true
	}

	vm.frame = vm.frames[len(vm.frames)-1]
	vm.push(retVal)
	return false
}

// doForPrep executes OpForPrep: base is the frame-relative slot of the
// numeric for loop's three control values (init, limit, step); target is
// where to jump if the loop body should never execute.
func (vm *VM) doForPrep(base, target int) {
	init := vm.frame.stack.at(base).AsInt()
	limit := vm.frame.stack.at(base + 1).AsInt()
	step := vm.frame.stack.at(base + 2).AsInt()

	if (step > 0 && init > limit) || (step < 0 && init < limit) {
		vm.frame.ip = target
		return
	}
	vm.frame.stack.setAt(base+3, bytecode.NewValueInt(init))
}

// doForLoop executes OpForLoop: base is the frame-relative slot of the
// numeric for loop's control values; target is where to jump back to the
// loop body when another iteration should run.
func (vm *VM) doForLoop(base, target int) {
	init := vm.frame.stack.at(base).AsInt()
	limit := vm.frame.stack.at(base + 1).AsInt()
	step := vm.frame.stack.at(base + 2).AsInt()

	next := init + step
	cont := (step > 0 && next <= limit) || (step < 0 && next >= limit)
	if !cont {
		return
	}
	vm.frame.stack.setAt(base, bytecode.NewValueInt(next))
	vm.frame.stack.setAt(base+3, bytecode.NewValueInt(next))
	vm.frame.ip = target
}

// doTForCall executes OpTForCall: base is the frame-relative slot holding the
// Table being iterated, base+1 the current integer index (-1 before the
// first iteration). On return, base+2 holds the next key (or nil if
// exhausted) and base+3 the corresponding value.
func (vm *VM) doTForCall(base int) {
	obj := vm.frame.stack.at(base)
	if !obj.IsTable() {
		vm.nameRuntimeError("attempt to iterate a %v value", obj, vm.describeSlot(base))
	}
	table := obj.AsTable()
	ctrl := vm.frame.stack.at(base + 1).AsInt()
	next := ctrl + 1

	if next < int64(table.Len()) {
		vm.frame.stack.setAt(base+1, bytecode.NewValueInt(next))
		vm.frame.stack.setAt(base+2, bytecode.NewValueInt(next))
		vm.frame.stack.setAt(base+3, table.GetInt(next))
		return
	}
	vm.frame.stack.setAt(base+2, bytecode.NewValueNil())
}

// typeName returns the user-facing type name of v, the way Lua's own error
// messages name a value's type ("attempt to index a nil value").
func typeName(v bytecode.Value) string {
	switch {
	case v.IsNil():
		return "nil"
	case v.IsBool():
		return "boolean"
	case v.IsInt(), v.IsFloat():
		return "number"
	case v.IsString():
		return "string"
	case v.IsTable():
		return "table"
	case v.IsClosure(), v.IsProcedure():
		return "function"
	default:
		return "value"
	}
}

// describeSlot recovers a symbolic name for the frame-relative local slot
// holding the current instruction's operand, per §4.4, for use in a runtime
// error message. pc is the instruction being executed (already past the
// bytecode.InstructionWidth advance done at the top of the dispatch loop).
func (vm *VM) describeSlot(slot int) string {
	pc := vm.frame.ip - bytecode.InstructionWidth
	kind, name, ok := bytecode.FindName(vm.csw, vm.frame.proc.ChunkIndex, pc, slot)
	if !ok {
		return ""
	}
	return bytecode.DescribeName(kind, name)
}

// describeOperand recovers a symbolic name for an operand popped off the
// evaluation stack skip positions before the current instruction, per §4.4.
// Used for the table operand of OpSelf/OpGetIndex/OpSetIndex, which address
// their operand positionally on the stack rather than through a numbered
// slot.
func (vm *VM) describeOperand(skip int) string {
	pc := vm.frame.ip - bytecode.InstructionWidth
	kind, name, ok := bytecode.FindNameBeforePC(vm.csw, vm.frame.proc.ChunkIndex, pc, skip)
	if !ok {
		return ""
	}
	return bytecode.DescribeName(kind, name)
}

// indexError reports that obj cannot be indexed, annotating the message with
// a symbolic name for the offending operand when FindNameBeforePC can
// recover one (§4.4). skip is the number of simple stack pushes between the
// current instruction and the table operand, as used by
// bytecode.FindNameBeforePC (0 for OpSelf, 1 for OpGetIndex, 2 for
// OpSetIndex).
func (vm *VM) indexError(obj bytecode.Value, skip int) {
	if name := vm.describeOperand(skip); name != "" {
		vm.runtimeError("attempt to index a %v value (%v)", typeName(obj), name)
		return
	}
	vm.runtimeError("attempt to index a %v value", typeName(obj))
}

// nameRuntimeError reports a runtime error about obj, annotating the message
// with name when it is non-empty (as produced by describeSlot/describeOperand).
func (vm *VM) nameRuntimeError(format string, obj bytecode.Value, name string) {
	if name != "" {
		vm.runtimeError(format+" (%v)", typeName(obj), name)
		return
	}
	vm.runtimeError(format, typeName(obj))
}

// runtimeError stops the execution and reports a runtime error with a given
// message and fmt.Printf-like arguments.
func (vm *VM) runtimeError(format string, a ...interface{}) {
	stackTrace := strings.Builder{}
	stackTrace.WriteString(fmt.Sprintf(format, a...))
	stackTrace.WriteRune('\n')

	for i := len(vm.frames) - 1; i >= 0; i-- {
		frame := vm.frames[i]
		proc := frame.proc
		instructionOffset := frame.ip - bytecode.InstructionWidth
		chunkIndex := proc.ChunkIndex
		lineNumber := 0
		functionName := fmt.Sprintf("chunk %v", chunkIndex)
		if vm.debugInfo != nil {
			lineNumber = vm.debugInfo.ChunksLines[chunkIndex][instructionOffset]
			functionName = vm.debugInfo.ChunksNames[chunkIndex]
		}
		stackTrace.WriteString(fmt.Sprintf("[line %v] in %v\n", lineNumber, functionName))
	}

	panic(errs.NewRuntime(stackTrace.String()))
}

// Frame contains the information needed at runtime about an ongoing
// Procedure call. It is exported so the debugger (a separate package) can
// walk the call stack, read locals and report source positions; the
// debugger treats it as read-mostly.
type Frame struct {
	// proc is the Procedure running.
	proc bytecode.Procedure

	// closure is the Closure running, if this call was made through one
	// (rather than through a bare Procedure value). May be nil.
	closure *bytecode.Closure

	// ip is the instruction pointer: a byte offset (always a multiple of
	// bytecode.InstructionWidth) into proc's chunk, pointing to the next
	// instruction to be executed.
	ip int

	// stack is a read/write view into the VM stack, and represents the stack
	// that this Procedure can use.
	stack *StackView

	// prev is the caller's Frame, or nil for the outermost (implicit
	// top-level) call.
	prev *Frame
}

// ChunkIndex returns the index, into the owning CompiledStoryworld's Chunks
// (and DebugInfo's Prototypes), of the procedure running in this frame.
func (f *Frame) ChunkIndex() int {
	return f.proc.ChunkIndex
}

// IP returns this frame's current instruction pointer (a byte offset into
// its chunk's Code).
func (f *Frame) IP() int {
	return f.ip
}

// SetIP repoints this frame's instruction pointer. Used by stepping
// strategies to redirect execution (e.g. after restoring an instruction
// temporarily un-patched to step off a breakpoint).
func (f *Frame) SetIP(ip int) {
	f.ip = ip
}

// Closure returns the Closure running in this frame, or nil if it was called
// through a bare Procedure value (no captured upvalues).
func (f *Frame) Closure() *bytecode.Closure {
	return f.closure
}

// Prev returns the caller's Frame, or nil if this is the outermost frame.
func (f *Frame) Prev() *Frame {
	return f.prev
}

// LocalSlot returns the value at the given frame-relative stack slot.
func (f *Frame) LocalSlot(slot int) bytecode.Value {
	return f.stack.at(slot)
}

// SetLocalSlot sets the value at the given frame-relative stack slot.
func (f *Frame) SetLocalSlot(slot int, v bytecode.Value) {
	f.stack.setAt(slot, v)
}

// StackSize returns the number of slots currently live in this frame's
// stack view.
func (f *Frame) StackSize() int {
	return f.stack.size()
}
