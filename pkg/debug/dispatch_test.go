/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"break 10", []string{"break", "10"}},
		{"  break   10  ", []string{"break", "10"}},
		{"break main.ras 10", []string{"break", "main.ras", "10"}},
		{`print "hello world"`, []string{"print", "hello world"}},
		{"print 'hello world'", []string{"print", "hello world"}},
		{"delete breaks 1 2 3", []string{"delete", "breaks", "1", "2", "3"}},
	}

	for _, tt := range tests {
		got, err := tokenize(tt.line)
		if err != nil {
			t.Errorf("tokenize(%q) returned an error: %v", tt.line, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("tokenize(%q) = %#v, want %#v", tt.line, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("tokenize(%q) = %#v, want %#v", tt.line, got, tt.want)
				break
			}
		}
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	if _, err := tokenize(`print "hello`); err == nil {
		t.Fatalf("expected an error for an unterminated quote")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	s.dispatch(theVM, "frobnicate")

	if !strings.Contains(s.outb.String(), "unknown command") {
		t.Fatalf("expected an unknown-command reply, got %q", s.outb.String())
	}
}

func TestDispatchBreakAndInfoBreaks(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	s.dispatch(theVM, "break test.ras 1")

	if !strings.Contains(s.outb.String(), "breakpoint #1 set at test.ras:1") {
		t.Fatalf("unexpected break reply: %q", s.outb.String())
	}
	s.outb.Reset()

	s.dispatch(theVM, "info breaks")
	if !strings.Contains(s.outb.String(), "#1 test.ras:1 enabled") {
		t.Fatalf("unexpected info breaks reply: %q", s.outb.String())
	}
}

func TestDispatchDeleteBreaksReportsCount(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	s.dispatch(theVM, "break test.ras 1")
	s.dispatch(theVM, "break test.ras 2")
	s.outb.Reset()

	s.dispatch(theVM, "delete breaks")
	if !strings.Contains(s.outb.String(), "deleted 2 breakpoint(s)") {
		t.Fatalf("unexpected delete reply: %q", s.outb.String())
	}
}

func TestDispatchPrintUnresolvedGlobalIsNil(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	s.dispatch(theVM, "print nope")

	if !strings.Contains(s.outb.String(), "nope = nil") {
		t.Fatalf("unexpected print reply: %q", s.outb.String())
	}
}

func TestDispatchPrintSyntaxError(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeInline)
	s.dispatch(theVM, "print 0bad")

	if !strings.Contains(s.outb.String(), "syntax error") {
		t.Fatalf("unexpected print reply: %q", s.outb.String())
	}
}

func TestDispatchRejectsNonRunningOnlyCommandsWhileRunning(t *testing.T) {
	theVM, di, finish := startTestVM(t)
	defer finish()

	s := NewState(theVM, di, ModeBackground)
	// luacont defaults to 1 (running); not paused.
	s.dispatch(theVM, "print nope")

	if !strings.Contains(s.outb.String(), "use command 'pause'") {
		t.Fatalf("expected a running-VM notice, got %q", s.outb.String())
	}
}
