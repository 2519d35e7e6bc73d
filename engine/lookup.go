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

// Package engine implements the remapping transducer: the lookup index
// (C4), per-device modal state (C5), the tap-hold state machine (C6),
// and the pure process function that ties them together (C7).
package engine

import (
	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
)

// entry is one candidate mapping for an input key, with the condition
// (if any) that must hold for it to apply.
type entry struct {
	base config.BaseKeyMapping
	cond *config.Condition
}

// LookupIndex is the O(1) input-key to candidate-mapping index built
// from one DeviceConfig. Conditional entries are registered before
// unconditional ones for the same input key, so Find always probes
// conditionals first (invariant I2).
type LookupIndex struct {
	table map[keycode.Code][]entry
}

// BuildLookupIndex builds a LookupIndex from dev in two passes:
// conditional mappings first (in declaration order), then unconditional
// mappings (in declaration order), matching the precedence invariant.
func BuildLookupIndex(dev config.DeviceConfig) *LookupIndex {
	idx := &LookupIndex{table: make(map[keycode.Code][]entry)}

	for _, km := range dev.Mappings {
		if !km.IsConditional() {
			continue
		}
		cond := *km.Condition
		for _, base := range km.Mappings {
			idx.table[base.From()] = append(idx.table[base.From()], entry{base: base, cond: &cond})
		}
	}
	for _, km := range dev.Mappings {
		if km.IsConditional() {
			continue
		}
		idx.table[km.Base.From()] = append(idx.table[km.Base.From()], entry{base: km.Base})
	}

	return idx
}

// Find returns the first entry for key whose condition evaluates true
// against state and deviceID (unconditional entries always match). It
// reports ok=false when no mapping applies, meaning the caller should
// pass the input through unchanged.
func (idx *LookupIndex) Find(key keycode.Code, state *DeviceState, deviceID string) (config.BaseKeyMapping, bool) {
	for _, e := range idx.table[key] {
		if e.cond == nil {
			return e.base, true
		}
		if state.EvaluateCondition(*e.cond, deviceID) {
			return e.base, true
		}
	}
	return nil, false
}
