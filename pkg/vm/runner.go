/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package vm

import (
	"os"
	"path"

	"github.com/romualdo-vm/romualdo/pkg/backend"
	"github.com/romualdo-vm/romualdo/pkg/bytecode"
	"github.com/romualdo-vm/romualdo/pkg/errs"
	"github.com/romualdo-vm/romualdo/pkg/frontend"
	"github.com/romualdo-vm/romualdo/pkg/romutil"
)

// CSWFromPath loads the CompiledStoryworld and DebugInfo from the given path,
// which can be either a compiled Storyworld (*.ras) file or a directory with
// the Storyworld source code (*.ral).
func CSWFromPath(cswPath string) (*bytecode.CompiledStoryworld, *bytecode.DebugInfo, errs.Error) {
	fileInfo, err := os.Stat(cswPath)
	if err != nil {
		return nil, nil, errs.NewRomualdoTool("stating %v: %v", cswPath, err)
	}

	if fileInfo.IsDir() {
		return cswFromSource(cswPath)
	}

	return LoadCompiledStoryworldBinaries(cswPath, false)
}

// cswFromSource compiles the Storyworld source located at path and returns the
// CompiledStoryworld and DebugInfo.
func cswFromSource(srcPath string) (*bytecode.CompiledStoryworld, *bytecode.DebugInfo, errs.Error) {
	swAST, err := frontend.ParseStoryworld(srcPath)
	if err != nil {
		if e, ok := err.(errs.Error); ok {
			return nil, nil, e
		}
		return nil, nil, errs.NewRomualdoTool("parsing %v: %v", srcPath, err)
	}

	csw, di, err := backend.GenerateCode(swAST, srcPath)
	if err != nil {
		if e, ok := err.(errs.Error); ok {
			return nil, nil, e
		}
		return nil, nil, errs.NewRomualdoTool("generating code for %v: %v", srcPath, err)
	}
	return csw, di, nil
}

// LoadCompiledStoryworldBinaries loads the CompiledStoryworld from cswPath. It
// also looks for the corresponding DebugInfo file and loads it if found. If the
// DebugInfo file is not found, it returns an error only if diRequired is true.
func LoadCompiledStoryworldBinaries(cswPath string, diRequired bool) (*bytecode.CompiledStoryworld, *bytecode.DebugInfo, errs.Error) {
	cswFile, err := os.Open(cswPath)
	if err != nil {
		return nil, nil, errs.NewRomualdoTool("opening compiled storyworld file %v: %v", cswPath, err)
	}
	defer cswFile.Close()

	csw := &bytecode.CompiledStoryworld{}
	if err := csw.Deserialize(cswFile); err != nil {
		return nil, nil, errs.NewRomualdoTool("reading the storyworld file %v: %v", cswPath, err)
	}

	diPath := cswPath[:len(cswPath)-len(path.Ext(cswPath))] + ".rad"
	diFile, err := os.Open(diPath)
	if err != nil {
		if diRequired {
			return nil, nil, errs.NewRomualdoTool("opening debug info file %v: %v", diPath, err)
		}
		return csw, nil, nil
	}
	defer diFile.Close()

	di := &bytecode.DebugInfo{}
	if err := di.Deserialize(diFile); err != nil {
		if diRequired {
			return nil, nil, errs.NewRomualdoTool("reading debug info from %v: %v", diPath, err)
		}
		return csw, nil, nil
	}

	return csw, di, nil
}

// RunStoryworld builds (or loads) and runs the Storyworld at path using the
// bytecode VM, with mouth and ear for I/O. If trace is true, a
// disassembly trace is printed to stdout as execution proceeds.
func RunStoryworld(path string, mouth romutil.Mouth, ear romutil.Ear, trace bool) errs.Error {
	csw, di, err := CSWFromPath(path)
	if err != nil {
		return err
	}

	theVM := New(mouth, ear)
	theVM.DebugTraceExecution = trace
	return theVM.Interpret(csw, di)
}

//
// romutil.Runner adapter
//

// runner is a romutil.Runner that uses the bytecode VM to run a Storyworld.
type runner struct {
	trace bool
	csw   *bytecode.CompiledStoryworld
	di    *bytecode.DebugInfo
}

// NewRunner creates a new romutil.Runner based on the bytecode VM.
func NewRunner(trace bool) romutil.Runner {
	return &runner{trace: trace}
}

// Build satisfies the romutil.Runner interface.
func (r *runner) Build(path string) errs.Error {
	csw, di, err := CSWFromPath(path)
	if err != nil {
		return err
	}
	r.csw = csw
	r.di = di
	return nil
}

// Run satisfies the romutil.Runner interface.
func (r *runner) Run(mouth romutil.Mouth, ear romutil.Ear) errs.Error {
	theVM := New(mouth, ear)
	theVM.DebugTraceExecution = r.trace
	return theVM.Interpret(r.csw, r.di)
}
