/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"bytes"
	"testing"
)

func TestOutputBufferAppendsTrailingPrompt(t *testing.T) {
	ob := NewOutputBuffer()
	ob.AppendFormatted("hello %v\n", "world")

	var buf bytes.Buffer
	ob.Flush(&buf)

	want := "hello world\n\n> "
	if buf.String() != want {
		t.Fatalf("Flush wrote %q, want %q", buf.String(), want)
	}
	if ob.String() != "" {
		t.Fatalf("expected the buffer to be cleared after Flush, still has %q", ob.String())
	}
}

func TestOutputBufferDoesNotDoublePrompt(t *testing.T) {
	ob := NewOutputBuffer()
	ob.AppendFormatted("bye\n> ")

	var buf bytes.Buffer
	ob.Flush(&buf)

	want := "bye\n> "
	if buf.String() != want {
		t.Fatalf("Flush wrote %q, want %q", buf.String(), want)
	}
}

func TestOutputBufferFlushWithNilWriterDiscards(t *testing.T) {
	ob := NewOutputBuffer()
	ob.AppendFormatted("whatever\n")
	ob.Flush(nil)

	if ob.String() != "" {
		t.Fatalf("expected the buffer to be cleared even when discarded, got %q", ob.String())
	}
}

func TestOutputBufferResetFormatted(t *testing.T) {
	ob := NewOutputBuffer()
	ob.AppendFormatted("first\n")
	ob.ResetFormatted("second %v\n", 42)

	if ob.String() != "second 42\n" {
		t.Fatalf("ResetFormatted left %q, want %q", ob.String(), "second 42\n")
	}
}
