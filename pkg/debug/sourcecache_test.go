/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/romualdo-vm/romualdo/pkg/bytecode"
)

func writeTestFile(t *testing.T, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("unable to write test file: %v", err)
	}
	return path
}

func TestSourceCacheListMarksCurrentLine(t *testing.T) {
	path := writeTestFile(t, "story.ras", []byte("one\ntwo\nthree\nfour\nfive\n"))

	sc := NewSourceCache()
	ob := NewOutputBuffer()

	last, err := sc.List(ob, path, 1, 3, 2)
	if err != nil {
		t.Fatalf("List returned an error: %v", err)
	}
	if last != 3 {
		t.Fatalf("expected last emitted line 3, got %v", last)
	}

	got := ob.String()
	if !strings.Contains(got, "-> ") {
		t.Fatalf("expected the current line marker in output, got %q", got)
	}
	if strings.Count(got, "\n") != 3 {
		t.Fatalf("expected exactly 3 lines of output, got %q", got)
	}
}

func TestSourceCacheListContinueResumesAndHitsEOF(t *testing.T) {
	path := writeTestFile(t, "story.ras", []byte("one\ntwo\nthree\n"))

	sc := NewSourceCache()
	ob := NewOutputBuffer()

	last, err := sc.List(ob, path, 1, 2, 0)
	if err != nil {
		t.Fatalf("List returned an error: %v", err)
	}
	if last != 2 {
		t.Fatalf("expected last == 2, got %v", last)
	}

	ob.Reset()
	last, err = sc.ListContinue(ob, path, last, 2, 0)
	if err != nil {
		t.Fatalf("ListContinue returned an error: %v", err)
	}
	if last != 3 {
		t.Fatalf("expected last == 3, got %v", last)
	}
	if !strings.Contains(ob.String(), "three") {
		t.Fatalf("expected line 3's text in output, got %q", ob.String())
	}

	ob.Reset()
	if _, err := sc.ListContinue(ob, path, last, 2, 0); err != nil {
		t.Fatalf("ListContinue at EOF returned an error: %v", err)
	}
	if !strings.Contains(ob.String(), "<EOF>") {
		t.Fatalf("expected <EOF> marker, got %q", ob.String())
	}
}

func TestSourceCacheStripsLeadingBOM(t *testing.T) {
	bomBytes := []byte{0xEF, 0xBB, 0xBF}
	path := writeTestFile(t, "story.ras", append(bomBytes, []byte("alpha\nbeta\n")...))

	sc := NewSourceCache()
	ob := NewOutputBuffer()

	if _, err := sc.List(ob, path, 1, 1, 1); err != nil {
		t.Fatalf("List returned an error: %v", err)
	}
	if strings.Contains(ob.String(), "﻿") {
		t.Fatalf("expected the BOM to have been stripped, got %q", ob.String())
	}
	if !strings.Contains(ob.String(), "alpha") {
		t.Fatalf("expected line 1's text in output, got %q", ob.String())
	}
}

func TestSourceCacheDetectsCompiledBinary(t *testing.T) {
	contents := append(bytecode.FileSignature[:], 0x01, 0x02, 0x03)
	path := writeTestFile(t, "story.rac", contents)

	sc := NewSourceCache()
	ob := NewOutputBuffer()

	if _, err := sc.List(ob, path, 1, 5, 1); err != nil {
		t.Fatalf("List returned an error: %v", err)
	}
	if !strings.Contains(ob.String(), "binary file") {
		t.Fatalf("expected a binary-file notice, got %q", ob.String())
	}
}

func TestSourceCacheCachesAfterFirstLoad(t *testing.T) {
	path := writeTestFile(t, "story.ras", []byte("one\ntwo\n"))

	sc := NewSourceCache()
	ob := NewOutputBuffer()
	if _, err := sc.List(ob, path, 1, 1, 1); err != nil {
		t.Fatalf("List returned an error: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("unable to remove test file: %v", err)
	}

	ob.Reset()
	if _, err := sc.List(ob, path, 2, 1, 2); err != nil {
		t.Fatalf("expected the cached entry to serve this request without touching disk, got error: %v", err)
	}
	if !strings.Contains(ob.String(), "two") {
		t.Fatalf("expected line 2's text from the cache, got %q", ob.String())
	}
}
