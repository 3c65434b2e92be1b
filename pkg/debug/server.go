/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/errs"
	"github.com/romualdo-vm/romualdo/pkg/vm"
	"golang.org/x/sys/unix"
)

// Mode selects one of the three operational modes described in §5.
type Mode byte

const (
	// ModeInline runs the debugger on the VM's own thread, reading commands
	// from stdin and writing replies to stdout. No sockets involved.
	ModeInline Mode = 'i'

	// ModeForeground is like ModeInline, except commands and replies travel
	// over a single accepted TCP connection instead of stdio.
	ModeForeground Mode = 'f'

	// ModeBackground runs the VM on its own thread and serves the command
	// dispatcher on a second thread, handing control back and forth over a
	// condition variable.
	ModeBackground Mode = 'b'
)

// ParseMode validates the --debug flag's value.
func ParseMode(s string) (Mode, error) {
	if len(s) == 1 {
		switch Mode(s[0]) {
		case ModeInline, ModeForeground, ModeBackground:
			return Mode(s[0]), nil
		}
	}
	return 0, fmt.Errorf("invalid debug mode %q (want i, f or b)", s)
}

// Port is the TCP port the foreground and background modes listen on.
const Port = 7609

// Server wires a State to a VM and a Mode and drives the operational
// behavior described in §5/§6.
type Server struct {
	theVM *vm.VM
	mode  Mode
	addr  string

	csw *bytecode.CompiledStoryworld
	di  *bytecode.DebugInfo
}

// NewServer creates a Server that will debug theVM (Run later hands the
// compiled Storyworld to theVM.Interpret) in the given mode, listening (in the f and b modes) on the default address
// (":7609").
func NewServer(theVM *vm.VM, mode Mode) (*Server, error) {
	return &Server{
		theVM: theVM,
		mode:  mode,
		addr:  fmt.Sprintf(":%v", Port),
	}, nil
}

// SetAddr overrides the bind address used by the f and b modes. Ignored in
// inline mode.
func (srv *Server) SetAddr(addr string) {
	if addr != "" {
		srv.addr = addr
	}
}

// Run attaches a debug State to srv's VM, interprets csw/di under the
// debugger, and blocks until the session ends (the VM finishes, a fatal
// error occurs, or -- in inline mode -- `quit` is issued).
func (srv *Server) Run(csw *bytecode.CompiledStoryworld, di *bytecode.DebugInfo) errs.Error {
	srv.csw = csw
	srv.di = di

	s := NewState(srv.theVM, di, srv.mode)
	srv.theVM.Debugger = s

	defer srv.dumpOnPanic(s)

	switch srv.mode {
	case ModeInline:
		return srv.runInline(s)
	case ModeForeground:
		return srv.runForeground(s)
	case ModeBackground:
		return srv.runBackground(s)
	default:
		return errs.NewDebugger("unknown debug mode %q", srv.mode)
	}
}

// runInline drives the VM and debugger on a single thread, reading commands
// from stdin and writing replies to stdout.
func (srv *Server) runInline(s *State) errs.Error {
	s.attachWriter(os.Stdout)
	s.stdin = bufio.NewScanner(os.Stdin)

	err := srv.theVM.Interpret(srv.csw, srv.di)
	if err != nil {
		return err
	}
	return nil
}

// runForeground listens on srv.addr, accepts exactly one client, and then
// behaves exactly like inline mode with that client's connection standing
// in for stdio.
func (srv *Server) runForeground(s *State) errs.Error {
	ln, lerr := net.Listen("tcp", srv.addr)
	if lerr != nil {
		return errs.NewDebugger("unable to listen on %v: %v", srv.addr, lerr)
	}
	defer ln.Close()

	fmt.Println("debug server started, waiting for client ...")

	conn, aerr := ln.Accept()
	if aerr != nil {
		return errs.NewDebugger("unable to accept client connection: %v", aerr)
	}
	defer conn.Close()
	tuneClientSocket(conn)

	s.attachWriter(conn)
	s.stdin = bufio.NewScanner(conn)

	err := srv.theVM.Interpret(srv.csw, srv.di)
	if err != nil {
		return err
	}
	return nil
}

// runBackground runs the VM on its own goroutine while the calling goroutine
// serves one client connection at a time, forever, detaching cleanly when a
// client disconnects.
func (srv *Server) runBackground(s *State) errs.Error {
	ln, lerr := net.Listen("tcp", srv.addr)
	if lerr != nil {
		return errs.NewDebugger("unable to listen on %v: %v", srv.addr, lerr)
	}
	defer ln.Close()

	vmErrc := make(chan errs.Error, 1)
	go func() {
		vmErrc <- srv.theVM.Interpret(srv.csw, srv.di)
	}()

	for {
		conn, aerr := ln.Accept()
		if aerr != nil {
			select {
			case err := <-vmErrc:
				return err
			default:
				return errs.NewDebugger("unable to accept client connection: %v", aerr)
			}
		}
		tuneClientSocket(conn)

		srv.serveBackgroundClient(s, conn)

		select {
		case err := <-vmErrc:
			// The VM finished (or crashed) while a client was connected, or
			// between clients; either way there is nothing left to debug.
			return err
		default:
		}
	}
}

// serveBackgroundClient reads and dispatches commands from conn until the
// client disconnects or issues `quit`, detaching the session either way.
func (srv *Server) serveBackgroundClient(s *State, conn net.Conn) {
	defer conn.Close()

	s.attachWriter(conn)
	s.stdin = bufio.NewScanner(conn)

	for {
		line, ok := s.readLine()
		if !ok {
			break
		}

		s.dispatch(srv.theVM, line)
		s.flush()

		if s.quitRequested {
			break
		}
	}

	// Detach: unpatch every breakpoint and let the VM run free, whether or
	// not it happened to be paused when the client went away.
	s.detach()
	s.out = nil
	s.stdin = nil
	s.quitRequested = false
}

// tuneClientSocket puts the accepted connection's file descriptor in
// non-blocking mode. Client input is still read line by line through a
// bufio.Scanner on conn; there is no separate poll loop, and a background
// client's session occupies the accept goroutine until it ends.
func tuneClientSocket(conn net.Conn) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	f, err := tcp.File()
	if err != nil {
		return
	}
	defer f.Close()
	_ = unix.SetNonblock(int(f.Fd()), true)
}

// dumpOnPanic implements the §6 panic handler for fatal internal errors that
// escape the VM's own recovery (ordinary Storyworld runtime errors never
// reach here -- VM.Interpret already turns those into an *errs.Runtime
// return value). If a client is attached, it is notified inline; a dump
// file is always written so the diagnostic survives the process exit that
// follows (§7's "fatal internal errors" tier: notify, exit, never resume).
func (srv *Server) dumpOnPanic(s *State) {
	r := recover()
	if r == nil {
		return
	}

	if s.out != nil {
		s.outb.ResetFormatted("fatal error: %v\n", r)
		s.flush()
	}

	path := fmt.Sprintf("ldb-%v.dump", os.Getpid())
	f, err := os.Create(path)
	if err == nil {
		defer f.Close()
		fmt.Fprintf(f, "fatal error: %v\n\n", r)
		if s.frame != nil {
			file := ""
			if s.di != nil && s.frame.ChunkIndex() < len(s.di.ChunksSourceFiles) {
				file = s.di.ChunksSourceFiles[s.frame.ChunkIndex()]
			}
			fmt.Fprintf(f, "at %v:%v\n\n", file, s.oldline)
			ob := NewOutputBuffer()
			_, _ = s.src.List(ob, file, s.oldline-listWindow/2, listWindow, s.oldline)
			fmt.Fprint(f, ob.String())
		}
	}

	os.Exit(errs.StatusCodeDebuggerError)
}
