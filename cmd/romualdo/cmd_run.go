/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"github.com/spf13/cobra"
	"github.com/romualdo-vm/romualdo/pkg/debug"
	"github.com/romualdo-vm/romualdo/pkg/errs"
	"github.com/romualdo-vm/romualdo/pkg/romutil"
	"github.com/romualdo-vm/romualdo/pkg/vm"
)

// runDebugTraceExecution is for the flag --trace.
var runDebugTraceExecution bool

// runDebugMode is for the flag --debug.
var runDebugMode string

// runDebugAddr is for the flag --debug-addr.
var runDebugAddr string

var runCmd = &cobra.Command{
	Use:   "run <ras-file>",
	Short: "Runs a compiled Storyworld",
	Long:  `Runs a compiled Storyworld.`,
	Args:  cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		csw, di := loadBinariesExitingOnError(args[0], runDebugMode != "")

		mouth, ear := romutil.StdMouthAndEar()
		theVM := vm.New(mouth, ear)
		theVM.DebugTraceExecution = runDebugTraceExecution

		if runDebugMode != "" {
			mode, err := debug.ParseMode(runDebugMode)
			if err != nil {
				errs.ReportAndExit(errs.NewBadUsage("%v", err))
			}

			srv, err := debug.NewServer(theVM, mode)
			if err != nil {
				errs.ReportAndExit(errs.NewDebugger("%v", err))
			}
			srv.SetAddr(runDebugAddr)

			errs.ReportAndExit(srv.Run(csw, di))
			return
		}

		err := theVM.Interpret(csw, di)
		errs.ReportAndExit(err)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDebugTraceExecution, "trace", false,
		"Print a disassembly trace of every instruction as it runs")
	runCmd.Flags().StringVar(&runDebugMode, "debug", "",
		"Attach the debugger: i (inline), f (foreground TCP) or b (background TCP)")
	runCmd.Flags().StringVar(&runDebugAddr, "debug-addr", "",
		"Bind address for the debug server in f/b modes (default :7609)")
}
