// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keyrx/keyrx/daemon"
)

// Exit codes (spec §6: "Non-zero exit codes: ConfigError, PermissionError,
// RuntimeError").
const (
	exitOK = iota
	exitConfigError
	exitPermissionError
	exitRuntimeError
)

func run(args []string) int {
	var configPath string

	root := &cobra.Command{
		Use:           "keyrxd",
		Short:         "keyrx keyboard remapping daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the daemon's ambient YAML config file")

	root.AddCommand(newRunCommand(&configPath))
	root.AddCommand(newReloadCommand(&configPath))
	root.AddCommand(newCompileCommand())

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "keyrxd:", err)
		return exitCodeFor(err)
	}
	return exitOK
}

// exitCodeFor maps an error surfaced from a subcommand to one of spec
// §6's three exit codes; a bare *exitError carries its own code, and
// anything else is treated as a RuntimeError.
func exitCodeFor(err error) int {
	var ee *exitError
	if ok := asExitError(err, &ee); ok {
		return ee.code
	}
	return exitRuntimeError
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func asExitError(err error, target **exitError) bool {
	for err != nil {
		if ee, ok := err.(*exitError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func configErr(err error) error  { return &exitError{code: exitConfigError, err: err} }
func permErr(err error) error    { return &exitError{code: exitPermissionError, err: err} }
func runtimeErr(err error) error { return &exitError{code: exitRuntimeError, err: err} }

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	// Matches tcell's own tty_unix.go convention of only touching raw
	// terminal state when stderr is an actual tty: a log file or pipe
	// gets plain, uncolored lines.
	noColor := !term.IsTerminal(int(os.Stderr.Fd()))
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}).
		Level(lvl).
		With().Timestamp().Str("service", "keyrxd").Logger()
}

func loadDaemonConfig(path string) (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		return daemon.Config{}, configErr(err)
	}
	return cfg, nil
}
