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

package config

import "github.com/keyrx/keyrx/keycode"

// BaseKeyMapping is one of the five mapping kinds the engine understands.
// Each variant names its own input key via From.
type BaseKeyMapping interface {
	From() keycode.Code
	baseKeyMapping()
}

// SimpleMapping is a one-to-one key remap.
type SimpleMapping struct {
	FromKey keycode.Code
	To      keycode.Code
}

func (m SimpleMapping) From() keycode.Code { return m.FromKey }
func (SimpleMapping) baseKeyMapping()      {}

// ModifierMapping sets a custom modifier bit on press and clears it on
// release; it never produces key output.
type ModifierMapping struct {
	FromKey    keycode.Code
	ModifierID uint8
}

func (m ModifierMapping) From() keycode.Code { return m.FromKey }
func (ModifierMapping) baseKeyMapping()      {}

// LockMapping toggles a custom lock bit on press; release is ignored. It
// never produces key output.
type LockMapping struct {
	FromKey keycode.Code
	LockID  uint8
}

func (m LockMapping) From() keycode.Code { return m.FromKey }
func (LockMapping) baseKeyMapping()      {}

// TapHoldMapping resolves to Tap on a quick press/release, or activates
// HoldModifier if held at least ThresholdMS (see engine's tap-hold
// processor for the full state machine, spec §4.6).
type TapHoldMapping struct {
	FromKey      keycode.Code
	Tap          keycode.Code
	HoldModifier uint8
	ThresholdMS  uint16
}

func (m TapHoldMapping) From() keycode.Code { return m.FromKey }
func (TapHoldMapping) baseKeyMapping()      {}

// ModifiedOutputMapping emits a chord: the selected physical modifiers in
// a fixed order (Shift, Ctrl, Alt, Win/Meta), then To, on press; the
// exact reverse on release.
type ModifiedOutputMapping struct {
	FromKey keycode.Code
	To      keycode.Code
	Shift   bool
	Ctrl    bool
	Alt     bool
	Win     bool
}

func (m ModifiedOutputMapping) From() keycode.Code { return m.FromKey }
func (ModifiedOutputMapping) baseKeyMapping()      {}

// KeyMapping is either an unconditional Base mapping, or a Conditional
// group of base mappings gated by a single Condition. Exactly one of
// Condition/Base or Condition/Mappings is populated: when Condition is
// nil, Base holds the single unconditional mapping; when Condition is
// non-nil, Mappings holds the group declared inside the conditional
// block, in source order (invariant I2: conditionals are registered
// before unconditional mappings for the same input key by the lookup
// index, see engine.LookupIndex).
type KeyMapping struct {
	Condition *Condition
	Base      BaseKeyMapping
	Mappings  []BaseKeyMapping
}

// NewBaseMapping wraps an unconditional mapping.
func NewBaseMapping(base BaseKeyMapping) KeyMapping {
	return KeyMapping{Base: base}
}

// NewConditionalMapping wraps a group of mappings gated by cond.
func NewConditionalMapping(cond Condition, mappings ...BaseKeyMapping) KeyMapping {
	return KeyMapping{Condition: &cond, Mappings: mappings}
}

// IsConditional reports whether this is a Conditional mapping group.
func (m KeyMapping) IsConditional() bool { return m.Condition != nil }
