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
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPIDFileAcquireWritesOwnPID(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)

	require.NoError(t, pf.Acquire())

	data, err := os.ReadFile(filepath.Join(dir, "keyrxd.pid"))
	require.NoError(t, err)
	pid, err := strconv.Atoi(string(data))
	require.NoError(t, err)
	require.Equal(t, os.Getpid(), pid)
}

func TestPIDFileReleaseRemovesFile(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)
	require.NoError(t, pf.Acquire())
	require.NoError(t, pf.Release())

	_, err := os.Stat(filepath.Join(dir, "keyrxd.pid"))
	require.True(t, os.IsNotExist(err))
}

func TestPIDFileReleaseWithoutAcquireIsNoop(t *testing.T) {
	dir := t.TempDir()
	pf := NewPIDFile(dir)
	require.NoError(t, pf.Release())
}

func TestPIDFileIgnoresOwnStalePID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyrxd.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644))

	pf := NewPIDFile(dir)
	// readStale excludes the caller's own pid, so Acquire must not try
	// to terminate "itself".
	require.NoError(t, pf.Acquire())
}

func TestPIDFileOverwritesDeadStalePID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyrxd.pid")
	// A pid number astronomically unlikely to be alive on any test host.
	require.NoError(t, os.WriteFile(path, []byte("999999"), 0o644))

	pf := NewPIDFile(dir)
	require.NoError(t, pf.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}
