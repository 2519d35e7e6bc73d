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

// TestProcessSimpleRemap grounds S1: a plain key substitution.
func TestProcessSimpleRemap(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.CapsLock, To: keycode.Escape}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	out := Process(event.NewPressEvent(keycode.CapsLock), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.Escape)}, out)

	out = Process(event.NewReleaseEvent(keycode.CapsLock), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewReleaseEvent(keycode.Escape)}, out)
}

// TestProcessVimLayer grounds S2: a modifier-gated hjkl arrow layer.
func TestProcessVimLayer(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.ModifierMapping{FromKey: keycode.CapsLock, ModifierID: 1}),
		config.NewConditionalMapping(
			config.NewModifierActiveCondition(1),
			config.SimpleMapping{FromKey: keycode.H, To: keycode.Left},
			config.SimpleMapping{FromKey: keycode.J, To: keycode.Down},
			config.SimpleMapping{FromKey: keycode.K, To: keycode.Up},
			config.SimpleMapping{FromKey: keycode.L, To: keycode.Right},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	assert.Empty(t, Process(event.NewPressEvent(keycode.CapsLock), idx, state, 0))
	assert.True(t, state.ModifierActive(1))

	out := Process(event.NewPressEvent(keycode.H), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.Left)}, out)

	out = Process(event.NewReleaseEvent(keycode.H), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewReleaseEvent(keycode.Left)}, out)

	assert.Empty(t, Process(event.NewReleaseEvent(keycode.CapsLock), idx, state, 0))
	assert.False(t, state.ModifierActive(1))

	out = Process(event.NewPressEvent(keycode.H), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.H)}, out)
}

// TestProcessChordEmitsAndReverses grounds S3: a ModifiedOutput chord is
// emitted in fixed order on press and exactly reversed on release via
// release-path tracking.
func TestProcessChordEmitsAndReverses(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.ModifiedOutputMapping{
			FromKey: keycode.F1, To: keycode.Z,
			Shift: true, Ctrl: true, Alt: true, Win: true,
		}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	out := Process(event.NewPressEvent(keycode.F1), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{
		event.NewPressEvent(keycode.LShift),
		event.NewPressEvent(keycode.LCtrl),
		event.NewPressEvent(keycode.LAlt),
		event.NewPressEvent(keycode.LMeta),
		event.NewPressEvent(keycode.Z),
	}, out)

	out = Process(event.NewReleaseEvent(keycode.F1), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{
		event.NewReleaseEvent(keycode.Z),
		event.NewReleaseEvent(keycode.LMeta),
		event.NewReleaseEvent(keycode.LAlt),
		event.NewReleaseEvent(keycode.LCtrl),
		event.NewReleaseEvent(keycode.LShift),
	}, out)
}

// TestProcessTapHoldTapPath grounds S4 end to end through Process.
func TestProcessTapHoldTapPath(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.TapHoldMapping{
			FromKey: keycode.CapsLock, Tap: keycode.Escape,
			HoldModifier: 1, ThresholdMS: 200,
		}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	out := Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), idx, state, 0)
	assert.Empty(t, out)

	out = Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(50_000), idx, state, 50_000)
	assert.Equal(t, []event.KeyEvent{
		event.NewPressEvent(keycode.Escape).WithTimestamp(50_000),
		event.NewReleaseEvent(keycode.Escape).WithTimestamp(50_000),
	}, out)
}

// TestProcessPermissiveHold grounds S5: pressing another mapped key while
// a tap-hold key is pending commits it to Hold before the new key's own
// lookup runs, and prefixes the hold modifier's activation.
func TestProcessPermissiveHold(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.TapHoldMapping{
			FromKey: keycode.CapsLock, Tap: keycode.Escape,
			HoldModifier: 1, ThresholdMS: 200,
		}),
		config.NewConditionalMapping(
			config.NewModifierActiveCondition(1),
			config.SimpleMapping{FromKey: keycode.H, To: keycode.Left},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	Process(event.NewPressEvent(keycode.CapsLock).WithTimestamp(0), idx, state, 0)
	assert.True(t, state.TapHold.HasPending())

	out := Process(event.NewPressEvent(keycode.H).WithTimestamp(10_000), idx, state, 10_000)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.Left).WithTimestamp(10_000)}, out)
	assert.True(t, state.ModifierActive(1))
	assert.False(t, state.TapHold.HasPending())

	out = Process(event.NewReleaseEvent(keycode.H).WithTimestamp(20_000), idx, state, 20_000)
	assert.Equal(t, []event.KeyEvent{event.NewReleaseEvent(keycode.Left).WithTimestamp(20_000)}, out)

	out = Process(event.NewReleaseEvent(keycode.CapsLock).WithTimestamp(30_000), idx, state, 30_000)
	assert.Empty(t, out)
	assert.False(t, state.ModifierActive(1))
}

// TestProcessDeviceSpecificNested grounds S6: a conditional group scoped
// to one device via DeviceMatches has no effect on another device's
// events passing through the same lookup index semantics.
func TestProcessDeviceSpecificNested(t *testing.T) {
	dev := config.NewDeviceConfig("laptop*",
		config.NewConditionalMapping(
			config.NewDeviceMatchesCondition("laptop*"),
			config.SimpleMapping{FromKey: keycode.F1, To: keycode.Mute},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	out := Process(event.NewPressEvent(keycode.F1).WithDeviceID("laptop-internal"), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.Mute).WithDeviceID("laptop-internal")}, out)

	out = Process(event.NewPressEvent(keycode.F1).WithDeviceID("external-kbd"), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.F1).WithDeviceID("external-kbd")}, out)
}

// TestProcessUnmappedPassesThrough grounds the default pass-through
// behavior for keys with no mapping.
func TestProcessUnmappedPassesThrough(t *testing.T) {
	dev := config.NewDeviceConfig("*")
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	out := Process(event.NewPressEvent(keycode.Q), idx, state, 0)
	assert.Equal(t, []event.KeyEvent{event.NewPressEvent(keycode.Q)}, out)
}

// TestProcessTrivialSingletonNotRecorded grounds the invariant I5
// exception: a simple remap where To equals FromKey records nothing, and
// releasing produces a normal pass-through rather than a tracked-release.
func TestProcessTrivialSingletonNotRecorded(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.A, To: keycode.A}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	Process(event.NewPressEvent(keycode.A), idx, state, 0)
	_, tracked := state.TrackedOutputsFor(keycode.A)
	assert.False(t, tracked)
}

// TestProcessModifierProducesNoOutput grounds that ModifierMapping never
// emits key events itself, only toggles device state.
func TestProcessModifierProducesNoOutput(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.ModifierMapping{FromKey: keycode.CapsLock, ModifierID: 4}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	assert.Empty(t, Process(event.NewPressEvent(keycode.CapsLock), idx, state, 0))
	assert.True(t, state.ModifierActive(4))
	assert.Empty(t, Process(event.NewReleaseEvent(keycode.CapsLock), idx, state, 0))
	assert.False(t, state.ModifierActive(4))
}

// TestProcessLockIgnoresRelease grounds that LockMapping only toggles on
// press.
func TestProcessLockIgnoresRelease(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.LockMapping{FromKey: keycode.ScrollLock, LockID: 5}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	assert.Empty(t, Process(event.NewPressEvent(keycode.ScrollLock), idx, state, 0))
	assert.True(t, state.LockActive(5))
	assert.Empty(t, Process(event.NewReleaseEvent(keycode.ScrollLock), idx, state, 0))
	assert.True(t, state.LockActive(5))
}
