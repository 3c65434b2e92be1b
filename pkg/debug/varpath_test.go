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

func TestParsePathAccepts(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x", "x"},
		{"_underscore", "_underscore"},
		{"obj.field", "obj.field"},
		{"obj.field.nested", "obj.field.nested"},
		{"arr[0]", "arr[0]"},
		{"arr[42]", "arr[42]"},
		{"m['key']", "m['key']"},
		{`m["key"]`, "m['key']"},
		{"m['not an ident'].x", "m['not an ident'].x"},
		{"a.b[0].c['d']", "a.b[0].c['d']"},
	}

	for _, tt := range tests {
		fields, err := ParsePath(tt.src)
		if err != nil {
			t.Errorf("ParsePath(%q) returned an error: %v", tt.src, err)
			continue
		}
		got := PathString(fields)
		if got != tt.want {
			t.Errorf("PathString(ParsePath(%q)) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParsePathRejects(t *testing.T) {
	tests := []string{
		"",
		"0abc",
		"obj.",
		"obj..field",
		"arr[",
		"arr[x]",
		"arr[0",
		"m['unterminated",
		"m[]",
		".field",
	}

	for _, src := range tests {
		if _, err := ParsePath(src); err == nil {
			t.Errorf("ParsePath(%q) = nil error, want an error", src)
		}
	}
}

func TestParsePathEnforcesDepthLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("x")
	for i := 0; i < maxPathDepth; i++ {
		b.WriteString(".f")
	}

	_, err := ParsePath(b.String())
	if err == nil {
		t.Fatalf("expected an error for a path deeper than %v fields", maxPathDepth)
	}
}

func TestParsePathAtDepthLimitSucceeds(t *testing.T) {
	var b strings.Builder
	b.WriteString("x")
	for i := 0; i < maxPathDepth-1; i++ {
		b.WriteString(".f")
	}

	fields, err := ParsePath(b.String())
	if err != nil {
		t.Fatalf("ParsePath at exactly maxPathDepth fields returned an error: %v", err)
	}
	if len(fields) != maxPathDepth {
		t.Fatalf("expected %v fields, got %v", maxPathDepth, len(fields))
	}
}

func TestPathStringQuotesNonIdentFields(t *testing.T) {
	fields, err := ParsePath("t['has space']")
	if err != nil {
		t.Fatalf("ParsePath returned an error: %v", err)
	}
	if got := PathString(fields); got != "t['has space']" {
		t.Fatalf("PathString = %q, want %q", got, "t['has space']")
	}
}
