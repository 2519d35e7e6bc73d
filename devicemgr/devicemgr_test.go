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

package devicemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
	"github.com/keyrx/keyrx/platform"
)

func TestIsKeyboardThreshold(t *testing.T) {
	require.True(t, IsKeyboard(platform.DeviceInfo{AlphaKeyCount: 26}))
	require.True(t, IsKeyboard(platform.DeviceInfo{AlphaKeyCount: MinAlphaKeys}))
	require.False(t, IsKeyboard(platform.DeviceInfo{AlphaKeyCount: MinAlphaKeys - 1}))
}

func TestSelectSkipsNonKeyboards(t *testing.T) {
	sim := platform.NewSimulated(platform.ExclusiveGrab)
	sim.AddDevice(platform.DeviceInfo{ID: "mouse", Name: "USB Mouse", AlphaKeyCount: 0})
	sim.AddDevice(platform.DeviceInfo{ID: "kbd", Name: "Main Keyboard", AlphaKeyCount: 26})

	root := config.NewConfigRoot(config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.A, To: keycode.B}),
	))

	sels, err := Select(sim, root)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	require.Equal(t, "kbd", sels[0].Info.ID)
	require.NotNil(t, sels[0].Config)
}

func TestSelectFirstMatchWins(t *testing.T) {
	sim := platform.NewSimulated(platform.ExclusiveGrab)
	sim.AddDevice(platform.DeviceInfo{ID: "numpad", Name: "usb-numpad-123", AlphaKeyCount: 20})

	root := config.NewConfigRoot(
		config.NewDeviceConfig("*numpad*",
			config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.Numpad1, To: keycode.F13}),
		),
		config.NewDeviceConfig("*",
			config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.A, To: keycode.B}),
		),
	)

	sels, err := Select(sim, root)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	require.Equal(t, "*numpad*", sels[0].Config.Pattern)
}

func TestSelectNoMatchYieldsPassthroughStub(t *testing.T) {
	sim := platform.NewSimulated(platform.ExclusiveGrab)
	sim.AddDevice(platform.DeviceInfo{ID: "kbd", Name: "Unrelated Keyboard", AlphaKeyCount: 26})

	root := config.NewConfigRoot(config.NewDeviceConfig("*gaming*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.A, To: keycode.B}),
	))

	sels, err := Select(sim, root)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	require.Nil(t, sels[0].Config)
	require.Nil(t, sels[0].Lookup)
}
