/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"fmt"
	"io"
	"strings"
)

// initialOutBufCapacity is the starting capacity of an OutputBuffer, in
// bytes. Past that it grows the way strings.Builder does.
const initialOutBufCapacity = 2048

// OutputBuffer accumulates a command's reply before it is flushed to the
// client in one write. Every flush is guaranteed to end with the prompt
// ("\n> "), matching how every debugger reply is terminated.
type OutputBuffer struct {
	buf strings.Builder
}

// NewOutputBuffer creates an empty OutputBuffer.
func NewOutputBuffer() *OutputBuffer {
	ob := &OutputBuffer{}
	ob.buf.Grow(initialOutBufCapacity)
	return ob
}

// AppendBytes appends the raw bytes of s to the buffer.
func (ob *OutputBuffer) AppendBytes(s []byte) {
	ob.buf.Write(s)
}

// AppendFormatted appends a fmt.Sprintf-formatted string to the buffer.
func (ob *OutputBuffer) AppendFormatted(format string, a ...any) {
	fmt.Fprintf(&ob.buf, format, a...)
}

// ResetFormatted clears the buffer and then appends a fmt.Sprintf-formatted
// string to it.
func (ob *OutputBuffer) ResetFormatted(format string, a ...any) {
	ob.buf.Reset()
	ob.AppendFormatted(format, a...)
}

// Reset clears the buffer without writing anything.
func (ob *OutputBuffer) Reset() {
	ob.buf.Reset()
}

// String returns the buffer's current contents without clearing it.
func (ob *OutputBuffer) String() string {
	return ob.buf.String()
}

// Flush writes the buffer's contents to w, appending the trailing prompt
// ("\n> ") if it isn't already there, then clears the buffer. If w is nil,
// the buffered data is discarded (this happens, e.g., between the moment a
// client disconnects and the moment a new one is accepted).
func (ob *OutputBuffer) Flush(w io.Writer) {
	s := ob.buf.String()
	ob.buf.Reset()

	if !strings.HasSuffix(s, "\n> ") {
		s += "\n> "
	}

	if w == nil {
		return
	}

	// Best-effort write: a write failure here is reported by the caller, who
	// owns the connection and decides whether to detach.
	_, _ = io.WriteString(w, s)
}
