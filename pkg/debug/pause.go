/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/vm"
	deadlock "github.com/sasha-s/go-deadlock"
)

// whySetPause records why the stepping engine last armed an asynchronous
// (id == 0) interrupt, per §4.6's table.
type whySetPause int

const (
	// whyStep means: pause only if the VM is now at a different source line
	// than oldline (single-line fidelity for `step`).
	whyStep whySetPause = iota

	// whyNext means: never pause on an asynchronous interrupt. The commands
	// that set it stop only at a real or pseudo-breakpoint, whose hits
	// arrive with a non-zero id.
	whyNext

	// whyCLI means: always pause. Used by the `pause` command.
	whyCLI
)

// listWindow is the number of lines shown by a paused-VM banner and by
// `list` with no explicit count.
const listWindow = 10

// State is the process-wide debug singleton described in §3 ("Debug
// state"): it owns the breakpoint table, the source cache, the currently
// selected frame, and the pause/resume bookkeeping. One State exists per
// debug session (i.e., per Server).
type State struct {
	theVM *vm.VM
	di    *bytecode.DebugInfo
	mode  Mode

	bp  *BreakpointTable
	src *SourceCache

	// frame is the currently selected frame ("ci" in the design -- walked by
	// the `frame` command). citop is the topmost Lua frame as of the last
	// pause.
	frame *vm.Frame
	citop *vm.Frame

	// hitBP is the breakpoint the VM is currently stopped at, if the current
	// pause was caused by hitting a real (non-pseudo) breakpoint. Consumed
	// by stepOffHitBreakpoint when a stepping command resumes execution.
	hitBP *Breakpoint

	oldpc   int
	oldline int

	why whySetPause

	// pendingRestore is the breakpoint whose instruction was temporarily
	// un-patched so the VM could execute the original; it must be re-armed
	// (or freed, if TEMP) on the very next interrupt, before that interrupt
	// is itself evaluated.
	pendingRestore *Breakpoint

	// luacont: -1 paused, 0 request-to-continue-pending, 1 running. An
	// int32 so it can be read/written with sync/atomic, matching §9's
	// preference for an explicit atomic flag over a tagged pointer.
	luacont int32

	// pauseRequested is the async-pause flag OnInstruction checks on every
	// single instruction. Sets up the `pause` command in background mode.
	pauseRequested atomic.Bool

	// mu/cond gate the VM-thread/server-thread handoff in background mode
	// (§5). Unused (but harmless) in inline/foreground mode, where there is
	// only one thread.
	mu   deadlock.Mutex
	cond *sync.Cond

	out  io.Writer
	outb *OutputBuffer

	// stdin is whatever the current client's input is attached to -- os.Stdin
	// wrapped in inline mode, the accepted connection's Scanner otherwise.
	// Set by server.go before handing the session a line-by-line reader.
	stdin *bufio.Scanner

	// lastListLine remembers where `list` with no arguments should resume
	// from.
	lastListLine int
	lastListFile string

	// quitRequested is set by the `quit` command in the TCP modes (inline
	// mode exits in cmdQuit instead). It is checked after each dispatch: by
	// serveBackgroundClient in background mode, which ends the client
	// session and returns to the accept loop, and by foregroundLoop in
	// foreground mode, which closes the client connection and resumes the VM.
	quitRequested bool
}

// NewState creates a State for a single debug session over theVM, whose
// compiled Storyworld carries di.
func NewState(theVM *vm.VM, di *bytecode.DebugInfo, mode Mode) *State {
	s := &State{
		theVM:   theVM,
		di:      di,
		mode:    mode,
		bp:      NewBreakpointTable(theVM, di),
		src:     NewSourceCache(),
		outb:    NewOutputBuffer(),
		luacont: 1,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// attachWriter points replies at w. Used once per accepted client.
func (s *State) attachWriter(w io.Writer) {
	s.out = w
}

//
// vm.DebugHooks
//

// OnInstruction is called before every instruction. It must stay cheap: a
// single atomic load, unless an asynchronous pause was requested.
func (s *State) OnInstruction(theVM *vm.VM) {
	if !s.pauseRequested.Load() {
		return
	}
	s.pauseRequested.Store(false)
	s.interrupt(theVM, 0)
}

// OnBreakpoint is called when OpInterrupt executes, with the id carried by
// its operand.
func (s *State) OnBreakpoint(theVM *vm.VM, id int) {
	s.interrupt(theVM, id)
}

// RequestAsyncPause arms the asynchronous pause flag, causing the VM to
// enter the debugger at its very next instruction. This is how the `pause`
// command works in background mode.
func (s *State) RequestAsyncPause() {
	s.pauseRequested.Store(true)
}

// interrupt implements the §4.6 state machine: decide whether to honor this
// interrupt by pausing, and if so, capture state, announce the pause, and
// hand control to the mode-specific interact loop.
func (s *State) interrupt(theVM *vm.VM, id int) {
	s.processPendingRestore(theVM)

	var bpHit *Breakpoint
	pause := false

	if id != 0 {
		pause = true
		if b, ok := s.bp.Get(id); ok {
			bpHit = b
		} else if id == PseudoBreakpointID {
			bpHit = s.bp.Pseudo()
		}
	} else {
		switch s.why {
		case whyStep:
			top := theVM.TopFrame()
			curLine := lineAt(s.di, top.ChunkIndex(), top.IP())
			pause = curLine != s.oldline
		case whyNext:
			pause = false
		case whyCLI:
			pause = true
		}
	}

	if !pause {
		return
	}

	s.citop = theVM.TopFrame()
	s.frame = s.citop

	pc := s.frame.IP()
	if id != 0 {
		// The VM's pc has already advanced past the implanted OpInterrupt
		// slot by the time OnBreakpoint runs.
		pc -= bytecode.InstructionWidth
	}
	s.oldpc = pc
	s.oldline = lineAt(s.di, s.frame.ChunkIndex(), pc)
	s.hitBP = bpHit

	s.emitPauseBanner()
	s.flush()

	// Mark paused before handing off: interact (directly, in inline/foreground
	// mode, or via bgWait in background mode) blocks until a stepping command
	// sets luacont back to 1.
	atomic.StoreInt32(&s.luacont, -1)
	s.interact(theVM)
}

// processPendingRestore honors the two-phase "single-step off a breakpoint"
// sequence: a breakpoint hit on the *previous* pause had its instruction
// restored so the VM could execute the original; re-arming it (or freeing
// it, if TEMP) must wait until that original instruction has actually been
// fetched and run.
//
// OnInstruction fires before the VM fetches the instruction at the current
// ip, so the interrupt this function is called from can land exactly on
// bp.Codepos before the restored instruction has executed -- the `continue`
// (or any stepping command) that stepped off the breakpoint re-arms the
// async-pause flag to land here at all, and that flag fires one instruction
// too early the first time. In that case, leave the restore pending and
// re-request the async pause so the check runs again on the *next*
// instruction; only once the ip has moved past Codepos is it safe to
// re-arm (or free) the breakpoint.
func (s *State) processPendingRestore(theVM *vm.VM) {
	bp := s.pendingRestore
	if bp == nil {
		return
	}

	if theVM.TopFrame().IP() == bp.Codepos {
		s.pauseRequested.Store(true)
		return
	}
	s.pendingRestore = nil

	if bp.ID == PseudoBreakpointID {
		// Already one-shot; nothing further to restore, the pseudo slot was
		// freed when it was armed for its next use.
		return
	}
	if live, ok := s.bp.Get(bp.ID); !ok || live != bp {
		// Deleted (and its id possibly reused) while the VM was paused on
		// it: there is nothing left to re-arm or free.
		return
	}
	if bp.Temp {
		_, _ = s.bp.Delete([]int{bp.ID})
		return
	}
	s.bp.Rearm(bp)
}

// lineAt is lineAt(di, chunkIndex, pc) clamped to the chunk's recorded line
// range, so a pc one past the end of Code (as happens right after the final
// OpReturn) still resolves to a sane line.
func lineAt(di *bytecode.DebugInfo, chunkIndex, pc int) int {
	if di == nil || chunkIndex >= len(di.ChunksLines) {
		return 0
	}
	lines := di.ChunksLines[chunkIndex]
	if len(lines) == 0 {
		return 0
	}
	if pc < 0 {
		pc = 0
	}
	if pc >= len(lines) {
		pc = len(lines) - 1
	}
	return lines[pc]
}

// emitPauseBanner writes "Lua VM paused at <file>:<line>" followed by a
// listing window centered on the paused line.
func (s *State) emitPauseBanner() {
	file := ""
	if s.di != nil && s.frame.ChunkIndex() < len(s.di.ChunksSourceFiles) {
		file = s.di.ChunksSourceFiles[s.frame.ChunkIndex()]
	}

	s.outb.AppendFormatted("Lua VM paused at %v:%v\n", file, s.oldline)

	start := s.oldline - listWindow/2
	if start < 1 {
		start = 1
	}
	last, err := s.src.List(s.outb, file, start, listWindow, s.oldline)
	if err == nil {
		s.lastListLine = last
		s.lastListFile = file
	}
}

// stepOffHitBreakpoint is the first half of the two-phase "single-step off a
// breakpoint" dance (§4.6): if the VM is currently stopped at a real
// breakpoint, rewind the topmost frame's ip back onto the breakpoint's
// codepos (OnBreakpoint already advanced it one instruction past the
// implanted OpInterrupt) and restore the original instruction there, so
// resuming executes it instead of trapping straight back into the
// debugger. Remembers the breakpoint as pendingRestore so the *next*
// interrupt re-arms (or frees, if TEMP) it. Every stepping command calls
// this before arming its own strategy and resuming.
func (s *State) stepOffHitBreakpoint() {
	if s.hitBP == nil {
		return
	}
	s.citop.SetIP(s.hitBP.Codepos)
	s.bp.RestoreForStepOff(s.hitBP)
	s.pendingRestore = s.hitBP
	s.hitBP = nil
}

// flush writes the accumulated output buffer to the attached client (if
// any) and clears it.
func (s *State) flush() {
	s.outb.Flush(s.out)
}

// readLine reads one command line from whatever s.stdin is currently
// attached to. Returns false once the input is exhausted (EOF on stdin, or
// the client disconnected).
func (s *State) readLine() (string, bool) {
	if s.stdin == nil {
		return "", false
	}
	if !s.stdin.Scan() {
		return "", false
	}
	return s.stdin.Text(), true
}

// interact hands control to the mode-specific interaction routine: a direct
// read-dispatch loop in inline/foreground mode, or a condvar wait in
// background mode (the command dispatcher runs on the server thread
// instead).
func (s *State) interact(theVM *vm.VM) {
	if s.mode == ModeBackground {
		s.bgWait()
		return
	}
	s.foregroundLoop(theVM)
}

// foregroundLoop is used by inline and foreground-TCP mode, where the
// debugger runs on the same thread as the VM: it reads and dispatches
// commands directly until one of them sets luacont to 1.
func (s *State) foregroundLoop(theVM *vm.VM) {
	for {
		line, ok := s.readLine()
		if !ok {
			// The input source closed. In inline mode this is normally EOF
			// on stdin; in foreground-TCP, the client disconnected. Either
			// way there is no one left to drive the session.
			s.detach()
			return
		}

		s.dispatch(theVM, line)
		s.flush()

		if s.quitRequested {
			if c, ok := s.out.(io.Closer); ok && s.mode != ModeInline {
				_ = c.Close()
			}
			if atomic.LoadInt32(&s.luacont) != 1 {
				s.resume()
			}
			return
		}

		if atomic.LoadInt32(&s.luacont) == 1 {
			return
		}
	}
}

// bgWait blocks the VM thread on the condvar until the server thread (which
// is running the command dispatcher concurrently) sets luacont to 1 and
// signals.
func (s *State) bgWait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	atomic.StoreInt32(&s.luacont, -1)
	for atomic.LoadInt32(&s.luacont) != 1 {
		s.cond.Wait()
	}
}

// resume sets luacont to 1 and, in background mode, wakes the VM thread.
// Called by every stepping command once it has finished arming its
// strategy.
func (s *State) resume() {
	s.mu.Lock()
	atomic.StoreInt32(&s.luacont, 1)
	s.cond.Signal()
	s.mu.Unlock()
}

// detach unpatches every breakpoint and resumes the VM if it is paused. Used
// both when a background client disconnects and when the foreground/inline
// input source closes.
func (s *State) detach() {
	s.bp.DisarmPseudo()
	s.bp.DeleteAll()
	if atomic.LoadInt32(&s.luacont) != 1 {
		s.resume()
	}
}

// isPaused reports whether the VM is currently stopped in the debugger.
func (s *State) isPaused() bool {
	return atomic.LoadInt32(&s.luacont) == -1
}
