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
	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/keycode"
)

// TapHoldPhase is the state of one configured tap-hold key.
type TapHoldPhase uint8

const (
	Idle TapHoldPhase = iota
	Pending
	Hold
)

type tapHoldConfig struct {
	tap          keycode.Code
	holdModifier uint8
	thresholdUS  uint64
}

type tapHoldState struct {
	key         keycode.Code
	phase       TapHoldPhase
	config      tapHoldConfig
	pressTimeUS uint64
}

func (s *tapHoldState) elapsed(nowUS uint64) uint64 {
	if nowUS < s.pressTimeUS {
		return 0
	}
	return nowUS - s.pressTimeUS
}

func (s *tapHoldState) thresholdExceeded(nowUS uint64) bool {
	return s.elapsed(nowUS) >= s.config.thresholdUS
}

// OutputKind discriminates the three output variants a tap-hold
// transition can produce (spec §4.6).
type OutputKind uint8

const (
	OutputKeyEvent OutputKind = iota
	OutputActivateModifier
	OutputDeactivateModifier
)

// Output is one element of the small, bounded list a TapHoldProcessor
// call returns.
type Output struct {
	Kind       OutputKind
	Event      event.KeyEvent
	ModifierID uint8
}

// TapHoldProcessor runs one independent state machine per configured
// tap-hold key on a single device (C6). Key order is the order the keys
// were first declared, so Tick and ProcessOtherKeyPress visit pending
// keys deterministically when more than one is pending at once.
type TapHoldProcessor struct {
	states map[keycode.Code]*tapHoldState
	order  []keycode.Code
}

// NewTapHoldProcessor scans dev's mappings (including inside
// conditional groups) for TapHold base mappings and builds one state
// machine per distinct input key, in first-declared order.
func NewTapHoldProcessor(dev config.DeviceConfig) *TapHoldProcessor {
	p := &TapHoldProcessor{states: make(map[keycode.Code]*tapHoldState)}
	visit := func(base config.BaseKeyMapping) {
		th, ok := base.(config.TapHoldMapping)
		if !ok {
			return
		}
		if _, exists := p.states[th.FromKey]; exists {
			return
		}
		st := &tapHoldState{
			key:   th.FromKey,
			phase: Idle,
			config: tapHoldConfig{
				tap:          th.Tap,
				holdModifier: th.HoldModifier,
				thresholdUS:  uint64(th.ThresholdMS) * 1000,
			},
		}
		p.states[th.FromKey] = st
		p.order = append(p.order, th.FromKey)
	}
	for _, km := range dev.Mappings {
		if km.IsConditional() {
			for _, base := range km.Mappings {
				visit(base)
			}
			continue
		}
		visit(km.Base)
	}
	return p
}

// IsConfigured reports whether key has a tap-hold state machine.
func (p *TapHoldProcessor) IsConfigured(key keycode.Code) bool {
	_, ok := p.states[key]
	return ok
}

// HasPending reports whether any configured key is currently Pending.
func (p *TapHoldProcessor) HasPending() bool {
	for _, key := range p.order {
		if p.states[key].phase == Pending {
			return true
		}
	}
	return false
}

// Process handles a press or release of one of the processor's own
// configured keys and returns the resulting outputs.
func (p *TapHoldProcessor) Process(ev event.KeyEvent, nowUS uint64) []Output {
	st, ok := p.states[ev.Code]
	if !ok {
		return nil
	}
	ts := ev.TimestampUS
	if ts == 0 {
		ts = nowUS
	}

	if ev.IsPress() {
		if st.phase == Idle {
			st.phase = Pending
			st.pressTimeUS = ts
		}
		return nil
	}

	switch st.phase {
	case Pending:
		exceeded := st.thresholdExceeded(ts)
		st.phase = Idle
		if exceeded {
			return []Output{
				{Kind: OutputActivateModifier, ModifierID: st.config.holdModifier},
				{Kind: OutputDeactivateModifier, ModifierID: st.config.holdModifier},
			}
		}
		return []Output{
			{Kind: OutputKeyEvent, Event: event.NewPressEvent(st.config.tap).WithTimestamp(ts).WithDeviceID(ev.DeviceID)},
			{Kind: OutputKeyEvent, Event: event.NewReleaseEvent(st.config.tap).WithTimestamp(ts).WithDeviceID(ev.DeviceID)},
		}
	case Hold:
		st.phase = Idle
		return []Output{{Kind: OutputDeactivateModifier, ModifierID: st.config.holdModifier}}
	default:
		return nil
	}
}

// Tick evaluates every pending key's deadline against nowUS, committing
// to Hold (and activating its modifier) for any that have exceeded
// their threshold.
func (p *TapHoldProcessor) Tick(nowUS uint64) []Output {
	var outs []Output
	for _, key := range p.order {
		st := p.states[key]
		if st.phase == Pending && st.thresholdExceeded(nowUS) {
			st.phase = Hold
			outs = append(outs, Output{Kind: OutputActivateModifier, ModifierID: st.config.holdModifier})
		}
	}
	return outs
}

// ProcessOtherKeyPress implements permissive hold: every key currently
// Pending is committed to Hold immediately, in declaration order.
func (p *TapHoldProcessor) ProcessOtherKeyPress() []Output {
	var outs []Output
	for _, key := range p.order {
		st := p.states[key]
		if st.phase == Pending {
			st.phase = Hold
			outs = append(outs, Output{Kind: OutputActivateModifier, ModifierID: st.config.holdModifier})
		}
	}
	return outs
}
