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
	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
)

// customIDSlots is the number of distinct modifier/lock ids (0..=0xFE);
// id 0xFF is reserved (invariant I1) and never addressed here.
const customIDSlots = 0xFF

// DeviceState holds all per-logical-device modal state: the custom
// modifier and lock bitsets, the press-tracking table that makes
// release symmetry robust across layer changes, and the device's
// tap-hold processor. It is single-owner: only the daemon's processing
// goroutine ever touches one (spec §5), so no internal locking is
// needed.
type DeviceState struct {
	modifiers     [customIDSlots]bool
	locks         [customIDSlots]bool
	pressTracking map[keycode.Code][]keycode.Code
	TapHold       *TapHoldProcessor
}

// NewDeviceState creates device state for one logical device, with a
// tap-hold processor built from that device's configured TapHold
// mappings.
func NewDeviceState(dev config.DeviceConfig) *DeviceState {
	return &DeviceState{
		pressTracking: make(map[keycode.Code][]keycode.Code),
		TapHold:       NewTapHoldProcessor(dev),
	}
}

// SetModifier sets custom modifier id.
func (s *DeviceState) SetModifier(id uint8) {
	if int(id) < len(s.modifiers) {
		s.modifiers[id] = true
	}
}

// ClearModifier clears custom modifier id.
func (s *DeviceState) ClearModifier(id uint8) {
	if int(id) < len(s.modifiers) {
		s.modifiers[id] = false
	}
}

// ModifierActive reports whether custom modifier id is currently set.
func (s *DeviceState) ModifierActive(id uint8) bool {
	return int(id) < len(s.modifiers) && s.modifiers[id]
}

// ToggleLock flips custom lock id.
func (s *DeviceState) ToggleLock(id uint8) {
	if int(id) < len(s.locks) {
		s.locks[id] = !s.locks[id]
	}
}

// LockActive reports whether custom lock id is currently on.
func (s *DeviceState) LockActive(id uint8) bool {
	return int(id) < len(s.locks) && s.locks[id]
}

// RecordPress records the ordered list of output key codes a press of
// from produced, so the matching release can emit the symmetric
// sequence (invariant I5). Callers must not record the trivial
// singleton [from] — see engine.Process step 5.
func (s *DeviceState) RecordPress(from keycode.Code, outputs []keycode.Code) {
	cp := make([]keycode.Code, len(outputs))
	copy(cp, outputs)
	s.pressTracking[from] = cp
}

// ClearPress drops any tracked press entry for from.
func (s *DeviceState) ClearPress(from keycode.Code) {
	delete(s.pressTracking, from)
}

// TrackedOutputsFor returns the recorded output codes for from, if any.
func (s *DeviceState) TrackedOutputsFor(from keycode.Code) ([]keycode.Code, bool) {
	outs, ok := s.pressTracking[from]
	return outs, ok
}

// PressedInputs returns the canonical input keys with a live
// press-tracking entry, i.e. every physical key the daemon still
// considers "down". Used only by the daemon's shutdown path to
// synthesize releases for whatever is still pressed (spec §4.10:
// "best-effort" clean-release on shutdown) — never consulted by
// Process itself.
func (s *DeviceState) PressedInputs() []keycode.Code {
	inputs := make([]keycode.Code, 0, len(s.pressTracking))
	for from := range s.pressTracking {
		inputs = append(inputs, from)
	}
	return inputs
}

// Rebind replaces this device's tap-hold processor with one built from
// dev's (possibly new) mappings, while preserving modifiers, locks, and
// press-tracking untouched. This is the hot-reload discipline spec
// §4.10 requires: "DeviceStates are preserved across reloads (pressed
// keys, held modifiers, locks) to avoid stuck keys."
func (s *DeviceState) Rebind(dev config.DeviceConfig) {
	s.TapHold = NewTapHoldProcessor(dev)
}

// EvaluateCondition evaluates cond against this device's modal state
// and deviceID (the event's device id, used for DeviceMatches).
func (s *DeviceState) EvaluateCondition(cond config.Condition, deviceID string) bool {
	switch cond.Kind {
	case config.ModifierActive:
		return s.ModifierActive(cond.ID)
	case config.LockActive:
		return s.LockActive(cond.ID)
	case config.DeviceMatches:
		if deviceID == "" {
			return false
		}
		return config.MatchPattern(cond.Pattern, deviceID)
	case config.AllActive:
		for _, item := range cond.Items {
			if !s.EvaluateCondition(item, deviceID) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
