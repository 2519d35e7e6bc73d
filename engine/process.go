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

// Process is the pure transducer from one input event to an output
// event list, given a LookupIndex and the device's mutable state (C7).
// It never performs I/O and cannot fail; nowUS backstops tap-hold
// timing when ev carries no timestamp of its own.
func Process(ev event.KeyEvent, lookup *LookupIndex, state *DeviceState, nowUS uint64) []event.KeyEvent {
	if ev.IsRelease() {
		if outs, ok := state.TrackedOutputsFor(ev.Code); ok {
			state.ClearPress(ev.Code)
			return releasesInReverse(outs, ev)
		}
	}

	mapping, found := lookup.Find(ev.Code, state, ev.DeviceID)

	var prefix []event.KeyEvent
	if ev.IsPress() && !isTapHold(mapping, found) && state.TapHold.HasPending() {
		activated := false
		for _, o := range state.TapHold.ProcessOtherKeyPress() {
			switch o.Kind {
			case OutputKeyEvent:
				prefix = append(prefix, o.Event)
			case OutputActivateModifier:
				state.SetModifier(o.ModifierID)
				activated = true
			case OutputDeactivateModifier:
				state.ClearModifier(o.ModifierID)
			}
		}
		if activated {
			mapping, found = lookup.Find(ev.Code, state, ev.DeviceID)
		}
	}

	var dispatched []event.KeyEvent
	if !found {
		dispatched = []event.KeyEvent{ev}
	} else {
		dispatched = dispatch(mapping, ev, state, nowUS)
	}

	if ev.IsPress() {
		presses := pressCodes(dispatched)
		if !(len(presses) == 1 && presses[0] == ev.Code) && len(presses) > 0 {
			state.RecordPress(ev.Code, presses)
		}
	}

	return append(prefix, dispatched...)
}

func isTapHold(mapping config.BaseKeyMapping, found bool) bool {
	if !found {
		return false
	}
	_, ok := mapping.(config.TapHoldMapping)
	return ok
}

func releasesInReverse(outs []keycode.Code, ev event.KeyEvent) []event.KeyEvent {
	result := make([]event.KeyEvent, len(outs))
	for i, code := range outs {
		result[i] = event.NewReleaseEvent(code).WithTimestamp(ev.TimestampUS).WithDeviceID(ev.DeviceID)
	}
	// reverse in place
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

func pressCodes(events []event.KeyEvent) []keycode.Code {
	var codes []keycode.Code
	for _, e := range events {
		if e.IsPress() {
			codes = append(codes, e.Code)
		}
	}
	return codes
}

func dispatch(mapping config.BaseKeyMapping, ev event.KeyEvent, state *DeviceState, nowUS uint64) []event.KeyEvent {
	switch m := mapping.(type) {
	case config.SimpleMapping:
		return []event.KeyEvent{ev.WithCode(m.To)}

	case config.ModifierMapping:
		if ev.IsPress() {
			state.SetModifier(m.ModifierID)
		} else {
			state.ClearModifier(m.ModifierID)
		}
		return nil

	case config.LockMapping:
		if ev.IsPress() {
			state.ToggleLock(m.LockID)
		}
		return nil

	case config.TapHoldMapping:
		outs := state.TapHold.Process(ev, nowUS)
		var result []event.KeyEvent
		for _, o := range outs {
			switch o.Kind {
			case OutputKeyEvent:
				result = append(result, o.Event)
			case OutputActivateModifier:
				state.SetModifier(o.ModifierID)
			case OutputDeactivateModifier:
				state.ClearModifier(o.ModifierID)
			}
		}
		return result

	case config.ModifiedOutputMapping:
		return dispatchModifiedOutput(m, ev)

	default:
		return []event.KeyEvent{ev}
	}
}

// dispatchModifiedOutput emits the chord in §4.7's fixed order on
// press (Shift, Ctrl, Alt, Meta, then the target), and the exact
// reverse on release. Release normally never reaches here because the
// press was tracked and step 1 short-circuits first; this path only
// fires for the trivial case where nothing was recorded (e.g. a chord
// with no modifier flags and to == from).
func dispatchModifiedOutput(m config.ModifiedOutputMapping, ev event.KeyEvent) []event.KeyEvent {
	ts, dev := ev.TimestampUS, ev.DeviceID
	if ev.IsPress() {
		var out []event.KeyEvent
		if m.Shift {
			out = append(out, event.NewPressEvent(keycode.LShift).WithTimestamp(ts).WithDeviceID(dev))
		}
		if m.Ctrl {
			out = append(out, event.NewPressEvent(keycode.LCtrl).WithTimestamp(ts).WithDeviceID(dev))
		}
		if m.Alt {
			out = append(out, event.NewPressEvent(keycode.LAlt).WithTimestamp(ts).WithDeviceID(dev))
		}
		if m.Win {
			out = append(out, event.NewPressEvent(keycode.LMeta).WithTimestamp(ts).WithDeviceID(dev))
		}
		out = append(out, event.NewPressEvent(m.To).WithTimestamp(ts).WithDeviceID(dev))
		return out
	}

	var out []event.KeyEvent
	out = append(out, event.NewReleaseEvent(m.To).WithTimestamp(ts).WithDeviceID(dev))
	if m.Win {
		out = append(out, event.NewReleaseEvent(keycode.LMeta).WithTimestamp(ts).WithDeviceID(dev))
	}
	if m.Alt {
		out = append(out, event.NewReleaseEvent(keycode.LAlt).WithTimestamp(ts).WithDeviceID(dev))
	}
	if m.Ctrl {
		out = append(out, event.NewReleaseEvent(keycode.LCtrl).WithTimestamp(ts).WithDeviceID(dev))
	}
	if m.Shift {
		out = append(out, event.NewReleaseEvent(keycode.LShift).WithTimestamp(ts).WithDeviceID(dev))
	}
	return out
}
