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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/keycode"
)

func tapHoldDevice() config.DeviceConfig {
	return config.NewDeviceConfig("*",
		config.NewBaseMapping(config.TapHoldMapping{
			FromKey: keycode.CapsLock, Tap: keycode.Escape,
			HoldModifier: 1, ThresholdMS: 200,
		}),
	)
}

// TestTapHoldQuickTapEmitsTapKey grounds S4: a press/release pair under
// the threshold resolves to a tap of the configured key.
func TestTapHoldQuickTapEmitsTapKey(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())

	outs := p.Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), 0)
	assert.Empty(t, outs)

	outs = p.Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(100_000), 100_000)
	assert.Equal(t, []Output{
		{Kind: OutputKeyEvent, Event: event.NewPressEvent(keycode.Escape).WithTimestamp(100_000)},
		{Kind: OutputKeyEvent, Event: event.NewReleaseEvent(keycode.Escape).WithTimestamp(100_000)},
	}, outs)
}

// TestTapHoldThresholdExceededEmitsModifier grounds the inclusive ">="
// threshold boundary confirmed against the original implementation.
func TestTapHoldThresholdExceededEmitsModifier(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())

	p.Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), 0)
	outs := p.Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(200_000), 200_000)

	assert.Equal(t, []Output{
		{Kind: OutputActivateModifier, ModifierID: 1},
		{Kind: OutputDeactivateModifier, ModifierID: 1},
	}, outs)
}

func TestTapHoldJustUnderThresholdIsTap(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())

	p.Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), 0)
	outs := p.Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(199_999), 199_999)

	assert.Len(t, outs, 2)
	assert.Equal(t, keycode.Escape, outs[0].Event.Code)
}

func TestTapHoldTickCommitsToHold(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())

	p.Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), 0)
	assert.True(t, p.HasPending())

	outs := p.Tick(200_000)
	assert.Equal(t, []Output{{Kind: OutputActivateModifier, ModifierID: 1}}, outs)
	assert.False(t, p.HasPending())

	outs = p.Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(500_000), 500_000)
	assert.Equal(t, []Output{{Kind: OutputDeactivateModifier, ModifierID: 1}}, outs)
}

// TestTapHoldPermissiveHold grounds S5: pressing another key while a
// tap-hold key is pending immediately commits it to Hold.
func TestTapHoldPermissiveHold(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())

	p.Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), 0)
	outs := p.ProcessOtherKeyPress()

	assert.Equal(t, []Output{{Kind: OutputActivateModifier, ModifierID: 1}}, outs)
	assert.False(t, p.HasPending())
}

func TestTapHoldIsConfigured(t *testing.T) {
	p := NewTapHoldProcessor(tapHoldDevice())
	assert.True(t, p.IsConfigured(keycode.CapsLock))
	assert.False(t, p.IsConfigured(keycode.A))
}
