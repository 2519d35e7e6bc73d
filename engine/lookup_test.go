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
	"github.com/keyrx/keyrx/keycode"
)

func TestLookupUnconditionalMatch(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.CapsLock, To: keycode.Escape}),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	m, ok := idx.Find(keycode.CapsLock, state, "kbd0")
	assert.True(t, ok)
	assert.Equal(t, config.SimpleMapping{FromKey: keycode.CapsLock, To: keycode.Escape}, m)
}

func TestLookupNoMatchPassesThrough(t *testing.T) {
	dev := config.NewDeviceConfig("*")
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	_, ok := idx.Find(keycode.A, state, "kbd0")
	assert.False(t, ok)
}

// TestLookupConditionalTakesPrecedence grounds invariant I2: a
// conditional entry for a key is probed before the unconditional entry
// for the same key, regardless of declaration order.
func TestLookupConditionalTakesPrecedence(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.H, To: keycode.H}),
		config.NewConditionalMapping(
			config.NewModifierActiveCondition(1),
			config.SimpleMapping{FromKey: keycode.H, To: keycode.Left},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)
	state.SetModifier(1)

	m, ok := idx.Find(keycode.H, state, "kbd0")
	assert.True(t, ok)
	assert.Equal(t, keycode.Left, m.(config.SimpleMapping).To)
}

func TestLookupFallsBackWhenConditionFalse(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewBaseMapping(config.SimpleMapping{FromKey: keycode.H, To: keycode.H}),
		config.NewConditionalMapping(
			config.NewModifierActiveCondition(1),
			config.SimpleMapping{FromKey: keycode.H, To: keycode.Left},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	m, ok := idx.Find(keycode.H, state, "kbd0")
	assert.True(t, ok)
	assert.Equal(t, keycode.H, m.(config.SimpleMapping).To)
}

func TestLookupDeviceMatchesCondition(t *testing.T) {
	dev := config.NewDeviceConfig("*",
		config.NewConditionalMapping(
			config.NewDeviceMatchesCondition("laptop*"),
			config.SimpleMapping{FromKey: keycode.F1, To: keycode.Mute},
		),
	)
	idx := BuildLookupIndex(dev)
	state := NewDeviceState(dev)

	_, ok := idx.Find(keycode.F1, state, "laptop-internal")
	assert.True(t, ok)

	_, ok = idx.Find(keycode.F1, state, "external-usb")
	assert.False(t, ok)
}
