/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

const (
	// StatusCodeSuccess indicates a successful execution.
	StatusCodeSuccess = 0

	// StatusCodeCompileTimeError indicates a compile-time error.
	StatusCodeCompileTimeError = 1

	// StatusCodeTestSuiteError indicates a failure while running Romualdo's own
	// test suite.
	StatusCodeTestSuiteError = 2

	// StatusCodeRomualdoToolError indicates some error in the romualdo tool
	// itself, unrelated to the Storyworld being processed (e.g., failing to
	// open or read a file).
	StatusCodeRomualdoToolError = 3

	// StatusCodeCommandPrepError indicates an error while preparing to run a
	// romualdo subcommand (e.g., loading the files a command needs before it
	// can start doing its actual job).
	StatusCodeCommandPrepError = 4

	// StatusCodeRuntimeError indicates an error raised while running a
	// Storyworld.
	StatusCodeRuntimeError = 5

	// StatusCodeDebuggerError indicates a failure starting or running the
	// debug server (e.g., failing to bind the listening socket).
	StatusCodeDebuggerError = 6

	// StatusCodeBadUsage indicates some user error in the usage of the romualdo
	// tool (e.g., passing the wrong number of arguments, or passing a
	// nonexisting command-line flag).
	StatusCodeBadUsage = 50

	// StatusCodeICE indicates an Internal Compiler Error.
	StatusCodeICE = 125
)
