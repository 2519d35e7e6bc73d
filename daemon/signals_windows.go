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

//go:build windows

package daemon

import (
	"errors"
	"os"
	"os/signal"
)

var errReloadSignalUnsupported = errors.New("daemon: signal-based reload is not supported on this platform; use the control surface's reload_requested flag instead")

// SendReloadSignal has no Windows equivalent (spec §6: non-POSIX
// platforms use the atomic reload_requested flag exclusively, set by an
// external control surface, not a signal); the CLI's "reload" subcommand
// reports this as unsupported here.
func SendReloadSignal(pid int) error {
	return errReloadSignalUnsupported
}

// WatchSignals wires Ctrl-Break/Ctrl-C to r.RequestShutdown. Windows has
// no SIGUSR1 analogue, so reload on this platform is exclusively the
// Broker.RequestReload() atomic flag (spec §6), driven by whatever
// external control surface calls it.
func WatchSignals(r *Runtime) (stop func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, os.Interrupt)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				r.RequestShutdown()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
