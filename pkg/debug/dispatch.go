/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

// tokenize splits line on whitespace, treating a single- or double-quoted
// run as one token (no escape sequences). An unterminated quote is a parse
// error.
func tokenize(line string) ([]string, error) {
	var tokens []string
	i, n := 0, len(line)

	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		if line[i] == '\'' || line[i] == '"' {
			quote := line[i]
			i++
			start := i
			for i < n && line[i] != quote {
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("unterminated quote")
			}
			tokens = append(tokens, line[start:i])
			i++
			continue
		}

		start := i
		for i < n && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		tokens = append(tokens, line[start:i])
	}

	return tokens, nil
}

// runningOnly is the set of commands honored while the VM is running in
// background mode (§4.8).
var runningOnly = map[string]bool{
	"pause": true,
	"quit":  true,
	"q":     true,
}

// dispatch tokenizes and executes one command line, appending its reply to
// s.outb. Malformed input and unknown commands are reported inline; they
// never change engine state.
func (s *State) dispatch(theVM *vm.VM, line string) {
	tokens, err := tokenize(line)
	if err != nil {
		s.outb.AppendFormatted("%v\n", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	name := tokens[0]
	args := tokens[1:]

	if s.mode == ModeBackground && !s.isPaused() && !runningOnly[name] {
		s.outb.AppendFormatted("Lua VM is running, use command 'pause' to pause it.\n")
		return
	}

	switch name {
	case "print", "p":
		s.cmdPrint(args)
	case "info":
		s.cmdInfo(args)
	case "list", "l":
		s.cmdList(args)
	case "frame":
		s.cmdFrame(args)
	case "backtrace", "bt":
		s.cmdBacktrace(args)
	case "break", "b":
		s.cmdBreak(args, false)
	case "tb":
		s.cmdBreak(args, true)
	case "enable":
		s.cmdBreakBulk(args, s.bp.Enable, "enabled")
	case "disable":
		s.cmdBreakBulk(args, s.bp.Disable, "disabled")
	case "delete":
		s.cmdBreakBulk(args, s.bp.Delete, "deleted")
	case "step":
		s.Step()
	case "next":
		s.Next()
	case "finish":
		if !s.Finish() {
			s.outb.AppendFormatted("no caller frame to finish into\n")
		}
	case "until":
		if !s.Until() {
			s.outb.AppendFormatted("no enclosing loop found\n")
		}
	case "continue", "c":
		s.Continue()
	case "pause":
		s.cmdPause()
	case "quit", "q":
		s.cmdQuit()
	default:
		s.outb.AppendFormatted("unknown command %q\n", name)
	}
}

// cmdPrint implements `print v1 v2 …`.
func (s *State) cmdPrint(args []string) {
	if len(args) == 0 {
		s.outb.AppendFormatted("usage: print <path> [<path> ...]\n")
		return
	}
	for _, arg := range args {
		fields, err := ParsePath(arg)
		if err != nil {
			s.outb.AppendFormatted("[[%v]] syntax error: %v\n", arg, err)
			continue
		}
		val, err := ResolvePath(s.theVM, s.di, s.frame, fields)
		if err != nil {
			s.outb.AppendFormatted("[[%v]] %v\n", arg, err)
			continue
		}
		s.outb.AppendFormatted("%v = %v\n", PathString(fields), val.DebugString(s.di))
	}
}

// cmdInfo implements `info breaks|locals|upvals|args`.
func (s *State) cmdInfo(args []string) {
	if len(args) != 1 {
		s.outb.AppendFormatted("usage: info breaks|locals|upvals|args\n")
		return
	}

	switch args[0] {
	case "breaks":
		s.infoBreaks()
	case "locals":
		s.infoLocals(false)
	case "args":
		s.infoLocals(true)
	case "upvals":
		s.infoUpvals()
	default:
		s.outb.AppendFormatted("unknown info category %q\n", args[0])
	}
}

func (s *State) infoBreaks() {
	bps := s.bp.List()
	if len(bps) == 0 {
		s.outb.AppendFormatted("no breakpoints set\n")
		return
	}
	for _, bp := range bps {
		state := "enabled"
		if bp.Disabled {
			state = "disabled"
		}
		temp := ""
		if bp.Temp {
			temp = " (temporary)"
		}
		s.outb.AppendFormatted("#%v %v:%v %v%v\n", bp.ID, bp.File, bp.Line, state, temp)
	}
}

func (s *State) infoLocals(paramsOnly bool) {
	proto := s.currentPrototype()
	if proto == nil {
		s.outb.AppendFormatted("current frame is not a Lua frame\n")
		return
	}
	any := false
	for _, lv := range proto.LocalsAt(s.frame.IP()) {
		if paramsOnly && lv.Slot >= proto.NumParams {
			continue
		}
		any = true
		s.outb.AppendFormatted("%v = %v\n", lv.Name, s.frame.LocalSlot(lv.Slot).DebugString(s.di))
	}
	if !any {
		s.outb.AppendFormatted("(none)\n")
	}
}

func (s *State) infoUpvals() {
	proto := s.currentPrototype()
	cl := s.frame.Closure()
	if proto == nil || cl == nil {
		s.outb.AppendFormatted("current frame is not a Lua frame\n")
		return
	}
	if len(proto.Upvalues) == 0 {
		s.outb.AppendFormatted("(none)\n")
		return
	}
	for i, uv := range proto.Upvalues {
		if i >= len(cl.Upvalues) {
			break
		}
		s.outb.AppendFormatted("%v = %v\n", uv.Name, cl.Upvalues[i].Val.DebugString(s.di))
	}
}

func (s *State) currentPrototype() *bytecode.Prototype {
	if s.frame == nil || s.di == nil {
		return nil
	}
	idx := s.frame.ChunkIndex()
	if idx >= len(s.di.Prototypes) {
		return nil
	}
	return s.di.Prototypes[idx]
}

// cmdList implements `list [file [line]] | list`.
func (s *State) cmdList(args []string) {
	switch len(args) {
	case 0:
		if s.lastListFile == "" {
			s.outb.AppendFormatted("nothing to list yet\n")
			return
		}
		last, err := s.src.ListContinue(s.outb, s.lastListFile, s.lastListLine, listWindow, s.oldline)
		if err != nil {
			s.outb.AppendFormatted("%v\n", err)
			return
		}
		s.lastListLine = last

	case 1:
		line, err := strconv.Atoi(args[0])
		if err != nil {
			s.outb.AppendFormatted("expected a line number\n")
			return
		}
		last, err := s.src.List(s.outb, s.lastListFile, line, listWindow, s.oldline)
		if err != nil {
			s.outb.AppendFormatted("%v\n", err)
			return
		}
		s.lastListLine = last

	default:
		file := args[0]
		line, err := strconv.Atoi(args[1])
		if err != nil {
			s.outb.AppendFormatted("expected a line number\n")
			return
		}
		last, err := s.src.List(s.outb, file, line, listWindow, s.oldline)
		if err != nil {
			s.outb.AppendFormatted("%v\n", err)
			return
		}
		s.lastListFile = file
		s.lastListLine = last
	}
}

// cmdFrame implements `frame [n]`, walking n frames up from the topmost Lua
// frame and selecting it as the frame subsequent commands operate on.
func (s *State) cmdFrame(args []string) {
	n := 0
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			s.outb.AppendFormatted("expected a frame number\n")
			return
		}
		n = v
	}

	f := s.citop
	for i := 0; i < n && f != nil; i++ {
		f = f.Prev()
	}
	if f == nil {
		s.outb.AppendFormatted("no such frame\n")
		return
	}

	s.frame = f
	file := ""
	if s.di != nil && f.ChunkIndex() < len(s.di.ChunksSourceFiles) {
		file = s.di.ChunksSourceFiles[f.ChunkIndex()]
	}
	s.outb.AppendFormatted("#%v %v:%v\n", n, file, lineAt(s.di, f.ChunkIndex(), f.IP()))
}

// cmdBacktrace implements `backtrace`.
func (s *State) cmdBacktrace(args []string) {
	n := 0
	for f := s.citop; f != nil; f = f.Prev() {
		marker := "  "
		if f == s.frame {
			marker = "->"
		}
		name := "?"
		file := "?"
		line := 0
		if s.di != nil && f.ChunkIndex() < len(s.di.ChunksNames) {
			name = s.di.ChunksNames[f.ChunkIndex()]
			file = s.di.ChunksSourceFiles[f.ChunkIndex()]
			line = lineAt(s.di, f.ChunkIndex(), f.IP())
		}
		s.outb.AppendFormatted("%v #%v %v (%v:%v)\n", marker, n, name, file, line)
		n++
	}
}

// cmdBreak implements `break|tb [file] line`.
func (s *State) cmdBreak(args []string, temp bool) {
	var file string
	var lineStr string

	switch len(args) {
	case 1:
		if s.di != nil && s.frame != nil && s.frame.ChunkIndex() < len(s.di.ChunksSourceFiles) {
			file = s.di.ChunksSourceFiles[s.frame.ChunkIndex()]
		}
		lineStr = args[0]
	case 2:
		file = args[0]
		lineStr = args[1]
	default:
		s.outb.AppendFormatted("usage: break [file] line\n")
		return
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil {
		s.outb.AppendFormatted("expected a line number\n")
		return
	}

	bp, err := s.bp.Set(file, line, temp)
	if err != nil {
		s.outb.AppendFormatted("%v\n", err)
		return
	}
	s.outb.AppendFormatted("breakpoint #%v set at %v:%v\n", bp.ID, bp.File, bp.Line)
}

// cmdBreakBulk implements `enable|disable|delete breaks [ids…]`.
func (s *State) cmdBreakBulk(args []string, op func([]int) (int, error), verb string) {
	if len(args) == 0 || args[0] != "breaks" {
		s.outb.AppendFormatted("usage: %v breaks [id ...]\n", verb)
		return
	}

	ids := make([]int, 0, len(args)-1)
	for _, a := range args[1:] {
		id, err := strconv.Atoi(a)
		if err != nil {
			s.outb.AppendFormatted("expected a breakpoint id, got %q\n", a)
			return
		}
		ids = append(ids, id)
	}

	n, err := op(ids)
	if err != nil {
		s.outb.AppendFormatted("%v\n", err)
		return
	}
	s.outb.AppendFormatted("%v %v breakpoint(s)\n", verb, n)
}

// cmdPause requests an asynchronous pause. Only meaningful while the VM is
// running in background mode; a no-op otherwise.
func (s *State) cmdPause() {
	if s.isPaused() {
		s.outb.AppendFormatted("Lua VM is already paused\n")
		return
	}
	s.why = whyCLI
	s.RequestAsyncPause()
	s.outb.AppendFormatted("pause requested\n")
}

// cmdQuit implements `quit`: in inline mode, exits the process outright; in
// the TCP modes it just marks the session for detach -- s.quitRequested is
// inspected after dispatch returns (by serveBackgroundClient in background
// mode, by foregroundLoop in foreground mode), keeping the VM (and, in
// background mode, the accept loop) running.
func (s *State) cmdQuit() {
	if s.mode == ModeInline {
		s.flush()
		os.Exit(0)
	}
	s.quitRequested = true
	s.outb.AppendFormatted("bye\n")
}
