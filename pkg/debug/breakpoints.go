/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"fmt"
	"sort"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

const (
	// MaxBreakpoint is the largest user-addressable breakpoint id.
	MaxBreakpoint = 99

	// PseudoBreakpointID is the single reserved id used internally by the
	// stepping strategies to plant a one-shot stop. It is never listed and
	// never user-addressable.
	PseudoBreakpointID = 100
)

// Breakpoint is one entry of the BreakpointTable: see §3 of the design.
type Breakpoint struct {
	// ID identifies this breakpoint, either a user id in [1, MaxBreakpoint]
	// or PseudoBreakpointID.
	ID int

	// File and Line are the source position the breakpoint was set at.
	File string
	Line int

	// ChunkIndex and Codepos locate the implanted instruction within the
	// CompiledStoryworld.
	ChunkIndex int
	Codepos    int

	// SavedCode is the raw bytes of the instruction that OpInterrupt
	// displaced, restored on disable/delete.
	SavedCode []byte

	// Temp marks a breakpoint for deletion on first hit (set by `tb`, and
	// used internally by every pseudo-breakpoint).
	Temp bool

	// Disabled means the breakpoint is armed (has an id, remembers its
	// position) but its code slot currently holds the original instruction,
	// not OpInterrupt.
	Disabled bool
}

// BreakpointTable owns every live breakpoint for one debug session, plus the
// single pseudo-breakpoint slot used by stepping strategies.
type BreakpointTable struct {
	theVM *vm.VM
	di    *bytecode.DebugInfo

	byID     map[int]*Breakpoint
	freelist []int
	nextID   int

	pseudo *Breakpoint
}

// NewBreakpointTable creates an empty BreakpointTable bound to theVM and its
// debug info.
func NewBreakpointTable(theVM *vm.VM, di *bytecode.DebugInfo) *BreakpointTable {
	return &BreakpointTable{
		theVM:  theVM,
		di:     di,
		byID:   map[int]*Breakpoint{},
		nextID: 1,
	}
}

// allocID hands out the next breakpoint id, preferring the LIFO freelist so
// deleted ids are reused before fresh ones, but always retaining whichever
// id a caller gets for as long as the breakpoint lives.
func (bt *BreakpointTable) allocID() (int, error) {
	if len(bt.freelist) > 0 {
		id := bt.freelist[len(bt.freelist)-1]
		bt.freelist = bt.freelist[:len(bt.freelist)-1]
		return id, nil
	}
	if bt.nextID > MaxBreakpoint {
		return 0, fmt.Errorf("breakpoint id space exhausted (max %v)", MaxBreakpoint)
	}
	id := bt.nextID
	bt.nextID++
	return id, nil
}

// locate finds the deepest prototype compiled from file whose line range
// covers line, then the first instruction within it whose source line is
// line.
func (bt *BreakpointTable) locate(file string, line int) (chunkIndex, codepos int, err error) {
	best := -1
	for i, p := range bt.di.Prototypes {
		if p == nil || bt.di.ChunksSourceFiles[i] != file {
			continue
		}
		if line < p.LineDefined || line > p.LastLineDefined {
			continue
		}
		if best == -1 || p.LineDefined > bt.di.Prototypes[best].LineDefined {
			best = i
		}
	}
	if best == -1 {
		return 0, 0, fmt.Errorf("%v:%v: no executable code found", file, line)
	}

	lines := bt.di.ChunksLines[best]
	for pos := 0; pos < len(lines); pos += bytecode.InstructionWidth {
		if lines[pos] == line {
			return best, pos, nil
		}
	}
	return 0, 0, fmt.Errorf("%v:%v: no executable code found", file, line)
}

// Set implants a breakpoint at file:line. If temp is true, it is deleted the
// first time it is hit.
func (bt *BreakpointTable) Set(file string, line int, temp bool) (*Breakpoint, error) {
	chunkIndex, codepos, err := bt.locate(file, line)
	if err != nil {
		return nil, err
	}

	for _, b := range bt.byID {
		if b.ChunkIndex == chunkIndex && b.Codepos == codepos {
			return nil, fmt.Errorf("breakpoint already set at %v:%v", file, line)
		}
	}

	id, err := bt.allocID()
	if err != nil {
		return nil, err
	}

	saved := bt.theVM.RawInstructionBytes(chunkIndex, codepos)
	bp := &Breakpoint{
		ID:         id,
		File:       file,
		Line:       line,
		ChunkIndex: chunkIndex,
		Codepos:    codepos,
		SavedCode:  saved,
		Temp:       temp,
	}
	bt.byID[id] = bp
	bt.theVM.PatchInstruction(chunkIndex, codepos, bytecode.OpInterrupt, id, 0)
	return bp, nil
}

// resolveIDs returns ids, or (if ids is empty) every currently live id in
// ascending order -- the "all" form of disable/enable/delete.
func (bt *BreakpointTable) resolveIDs(ids []int) []int {
	if len(ids) > 0 {
		return ids
	}
	all := make([]int, 0, len(bt.byID))
	for id := range bt.byID {
		all = append(all, id)
	}
	sort.Ints(all)
	return all
}

// Disable restores the original instruction for each of ids (or every live
// breakpoint, if ids is empty) and marks it disabled.
func (bt *BreakpointTable) Disable(ids []int) (int, error) {
	n := 0
	for _, id := range bt.resolveIDs(ids) {
		bp, ok := bt.byID[id]
		if !ok {
			return n, fmt.Errorf("unknown breakpoint id %v", id)
		}
		if !bp.Disabled {
			bt.theVM.RestoreInstructionBytes(bp.ChunkIndex, bp.Codepos, bp.SavedCode)
			bp.Disabled = true
		}
		n++
	}
	return n, nil
}

// Enable reinstalls OpInterrupt for each of ids (or every live breakpoint)
// and clears the disabled flag.
func (bt *BreakpointTable) Enable(ids []int) (int, error) {
	n := 0
	for _, id := range bt.resolveIDs(ids) {
		bp, ok := bt.byID[id]
		if !ok {
			return n, fmt.Errorf("unknown breakpoint id %v", id)
		}
		if bp.Disabled {
			bt.theVM.PatchInstruction(bp.ChunkIndex, bp.Codepos, bytecode.OpInterrupt, bp.ID, 0)
			bp.Disabled = false
		}
		n++
	}
	return n, nil
}

// Delete restores the original instruction (if needed), unlinks and returns
// each of ids (or every live breakpoint) to the freelist.
func (bt *BreakpointTable) Delete(ids []int) (int, error) {
	n := 0
	for _, id := range bt.resolveIDs(ids) {
		bp, ok := bt.byID[id]
		if !ok {
			return n, fmt.Errorf("unknown breakpoint id %v", id)
		}
		if !bp.Disabled {
			bt.theVM.RestoreInstructionBytes(bp.ChunkIndex, bp.Codepos, bp.SavedCode)
		}
		delete(bt.byID, id)
		bt.freelist = append(bt.freelist, id)
		n++
	}
	return n, nil
}

// DeleteAll is a convenience for Delete(nil), used by the "detach" path
// (client disconnect) to unpatch every breakpoint in one call.
func (bt *BreakpointTable) DeleteAll() int {
	n, _ := bt.Delete(nil)
	return n
}

// Get returns the live breakpoint with the given id, if any.
func (bt *BreakpointTable) Get(id int) (*Breakpoint, bool) {
	bp, ok := bt.byID[id]
	return bp, ok
}

// List returns every live breakpoint, ordered by id.
func (bt *BreakpointTable) List() []*Breakpoint {
	ids := make([]int, 0, len(bt.byID))
	for id := range bt.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	result := make([]*Breakpoint, len(ids))
	for i, id := range ids {
		result[i] = bt.byID[id]
	}
	return result
}

//
// Pseudo-breakpoint
//

// ArmPseudo plants the single pseudo-breakpoint at chunkIndex:codepos,
// disarming any previous one first. Always temporary.
func (bt *BreakpointTable) ArmPseudo(chunkIndex, codepos int) {
	bt.DisarmPseudo()
	saved := bt.theVM.RawInstructionBytes(chunkIndex, codepos)
	bt.pseudo = &Breakpoint{
		ID:         PseudoBreakpointID,
		ChunkIndex: chunkIndex,
		Codepos:    codepos,
		SavedCode:  saved,
		Temp:       true,
	}
	bt.theVM.PatchInstruction(chunkIndex, codepos, bytecode.OpInterrupt, PseudoBreakpointID, 0)
}

// DisarmPseudo restores the instruction the pseudo-breakpoint displaced, if
// any is currently armed.
func (bt *BreakpointTable) DisarmPseudo() {
	if bt.pseudo == nil {
		return
	}
	bt.theVM.RestoreInstructionBytes(bt.pseudo.ChunkIndex, bt.pseudo.Codepos, bt.pseudo.SavedCode)
	bt.pseudo = nil
}

// Pseudo returns the currently armed pseudo-breakpoint, or nil.
func (bt *BreakpointTable) Pseudo() *Breakpoint {
	return bt.pseudo
}

//
// Single-step-off-a-breakpoint support (§4.6)
//

// RestoreForStepOff temporarily restores bp's original instruction so the VM
// can execute it once resumed, without forgetting bp's identity. The caller
// is responsible for re-arming (Rearm) or freeing (Delete) bp on the next
// interrupt.
func (bt *BreakpointTable) RestoreForStepOff(bp *Breakpoint) {
	bt.theVM.RestoreInstructionBytes(bp.ChunkIndex, bp.Codepos, bp.SavedCode)
}

// Rearm reinstalls OpInterrupt for a breakpoint previously restored by
// RestoreForStepOff.
func (bt *BreakpointTable) Rearm(bp *Breakpoint) {
	bt.theVM.PatchInstruction(bp.ChunkIndex, bp.Codepos, bytecode.OpInterrupt, bp.ID, 0)
}
