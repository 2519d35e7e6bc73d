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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrokerDefaults(t *testing.T) {
	b := NewBroker()
	require.NotEmpty(t, b.InstanceID())
	require.False(t, b.Running())
	require.Equal(t, 0, b.DeviceCount())
	require.Equal(t, "", b.ActiveProfile())
	require.Equal(t, "", b.ConfigPath())
	require.False(t, b.TakeReloadRequest())
}

func TestBrokerSettersAndSnapshot(t *testing.T) {
	b := NewBroker()
	b.SetRunning(true)
	b.SetDeviceCount(3)
	b.SetActiveProfile("office.krx")
	b.SetConfigPath("/etc/keyrx/office.krx")

	snap := b.Snapshot()
	require.True(t, snap.Running)
	require.Equal(t, 3, snap.DeviceCount)
	require.Equal(t, "office.krx", snap.ActiveProfile)
	require.Equal(t, "/etc/keyrx/office.krx", snap.ConfigPath)
	require.Equal(t, b.InstanceID(), snap.InstanceID)
	require.False(t, snap.ReloadRequested)
}

func TestBrokerReloadRequestIsReadAndClear(t *testing.T) {
	b := NewBroker()
	require.False(t, b.TakeReloadRequest())

	b.RequestReload()
	require.True(t, b.Snapshot().ReloadRequested)
	require.True(t, b.TakeReloadRequest())
	require.False(t, b.TakeReloadRequest())
}
