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

package compiler

import (
	"testing"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
	"github.com/stretchr/testify/require"
)

func sampleRoot() config.ConfigRoot {
	return config.NewConfigRoot(
		config.NewDeviceConfig("*",
			config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.A, To: keycode.B}),
			config.NewBaseMapping(config.ModifierMapping{FromKey: keycode.CapsLock, ModifierID: 0}),
			config.NewConditionalMapping(config.NewModifierActiveCondition(0),
				config.SimpleMapping{FromKey: keycode.H, To: keycode.Left},
				config.SimpleMapping{FromKey: keycode.J, To: keycode.Down},
			),
			config.NewBaseMapping(config.TapHoldMapping{FromKey: keycode.CapsLock, Tap: keycode.Escape, HoldModifier: 0, ThresholdMS: 200}),
			config.NewBaseMapping(config.ModifiedOutputMapping{FromKey: keycode.A, To: keycode.Z, Shift: true, Ctrl: true, Alt: true, Win: true}),
		),
		config.NewDeviceConfig("*numpad*",
			config.NewConditionalMapping(config.NewDeviceMatchesCondition("*numpad*"),
				config.SimpleMapping{FromKey: keycode.Numpad1, To: keycode.F13},
			),
		),
	)
}

func TestArtifactRoundTrip(t *testing.T) {
	root := sampleRoot()
	data, err := Serialize(root)
	require.NoError(t, err)

	got, derr := Deserialize(data)
	require.Nil(t, derr)
	require.Equal(t, root, got)
}

func TestArtifactHeaderLayout(t *testing.T) {
	data, err := Serialize(sampleRoot())
	require.NoError(t, err)
	require.Equal(t, byte('K'), data[0])
	require.Equal(t, byte('R'), data[1])
	require.Equal(t, byte('X'), data[2])
	require.Equal(t, byte('\n'), data[3])
}

func TestArtifactRejectsBadMagic(t *testing.T) {
	data, err := Serialize(sampleRoot())
	require.NoError(t, err)
	data[0] = 'X'
	_, derr := Deserialize(data)
	require.NotNil(t, derr)
	require.Equal(t, InvalidMagic, derr.Kind)
}

func TestArtifactRejectsVersionMismatch(t *testing.T) {
	data, err := Serialize(sampleRoot())
	require.NoError(t, err)
	data[4] = 0xFF
	_, derr := Deserialize(data)
	require.NotNil(t, derr)
	require.Equal(t, VersionMismatch, derr.Kind)
}

func TestArtifactRejectsSingleBitPayloadCorruption(t *testing.T) {
	data, err := Serialize(sampleRoot())
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	_, derr := Deserialize(data)
	require.NotNil(t, derr)
	require.Equal(t, HashMismatch, derr.Kind)
}

func TestArtifactNeverRejectsValidPayload(t *testing.T) {
	for i := 0; i < 5; i++ {
		data, err := Serialize(sampleRoot())
		require.NoError(t, err)
		_, derr := Deserialize(data)
		require.Nil(t, derr)
	}
}
