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

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PIDFile enforces the single-instance guarantee (spec §4.10): a PID
// file in the config directory, with graceful termination of a stale
// process before a new one proceeds.
type PIDFile struct {
	path string
}

// NewPIDFile returns the PID file keyrx uses for dir.
func NewPIDFile(dir string) *PIDFile {
	return &PIDFile{path: filepath.Join(dir, "keyrxd.pid")}
}

// Acquire reads any existing PID file, attempts to terminate a process
// found alive there, then writes the current process's PID. It returns
// an error if the config directory cannot be created, if a conflicting
// process could not be stopped, or if the PID file cannot be written.
func (p *PIDFile) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("daemon: creating config dir: %w", err)
	}

	if pid, ok := p.readStale(); ok {
		if err := terminateStale(pid); err != nil {
			return fmt.Errorf("daemon: stale process %d still running: %w", pid, err)
		}
	}

	return os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// Release removes the PID file; callers should call this during
// shutdown after the event loop has stopped.
func (p *PIDFile) Release() error {
	err := os.Remove(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ReadPID returns the PID recorded in the file, for callers (like the
// "keyrxd reload" CLI command) that want to signal an already-running
// instance rather than acquire the file themselves.
func (p *PIDFile) ReadPID() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, fmt.Errorf("daemon: reading pid file %s: %w", p.path, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("daemon: pid file %s is corrupt: %w", p.path, err)
	}
	return pid, nil
}

// readStale returns the PID recorded in an existing file, and whether
// that process still appears to be alive.
func (p *PIDFile) readStale() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || pid == os.Getpid() {
		return 0, false
	}
	return pid, processAlive(pid)
}

// terminateStale asks the stale process to exit and waits briefly for
// it to do so, escalating to a forced kill only if it ignores the
// graceful request.
func terminateStale(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if err := requestGracefulShutdown(proc); err != nil {
		return nil // process was already gone
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !processAlive(pid) {
		return nil
	}
	return proc.Kill()
}
