/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import "testing"

func TestParseModeAccepts(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"i", ModeInline},
		{"f", ModeForeground},
		{"b", ModeBackground},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Errorf("ParseMode(%q) returned an error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseModeRejects(t *testing.T) {
	tests := []string{"", "x", "if", "I", "B"}

	for _, in := range tests {
		if _, err := ParseMode(in); err == nil {
			t.Errorf("ParseMode(%q): expected an error, got none", in)
		}
	}
}

func TestNewServerDefaultAddr(t *testing.T) {
	theVM, _, finish := startTestVM(t)
	defer finish()

	srv, err := NewServer(theVM, ModeForeground)
	if err != nil {
		t.Fatalf("NewServer returned an error: %v", err)
	}
	if srv.addr != ":7609" {
		t.Fatalf("default addr = %q, want %q", srv.addr, ":7609")
	}

	srv.SetAddr(":9999")
	if srv.addr != ":9999" {
		t.Fatalf("SetAddr did not take effect, addr = %q", srv.addr)
	}

	srv.SetAddr("")
	if srv.addr != ":9999" {
		t.Fatalf("SetAddr(\"\") should be a no-op, addr = %q", srv.addr)
	}
}
