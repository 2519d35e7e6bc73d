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

// Package devicemgr implements the device manager (C9): it enumerates
// physical keyboards through a platform.Backend, applies the
// "keyboard" heuristic, and matches each one against the compiled
// ruleset's device patterns, first match wins.
//
// Grounded on spec §4.9 directly, and on tcell's own device-selection
// posture in tscreen.go's NewTerminfoScreen, which picks one concrete
// implementation from a small set of candidates using a fixed
// precedence rule rather than a full plugin search.
package devicemgr

import (
	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/engine"
	"github.com/keyrx/keyrx/platform"
)

// MinAlphaKeys is the minimum number of distinct A-Z keys a device must
// report capability for to be considered a keyboard (spec §4.9).
const MinAlphaKeys = 20

// Selection is one matched logical device: its platform info, the
// DeviceConfig that matched it (nil for "no rules" pass-through), and a
// freshly built LookupIndex + DeviceState ready for the engine.
type Selection struct {
	Info   platform.DeviceInfo
	Config *config.DeviceConfig
	Lookup *engine.LookupIndex
	State  *engine.DeviceState
}

// IsKeyboard applies the spec §4.9 heuristic to an enumerated device.
func IsKeyboard(info platform.DeviceInfo) bool {
	return info.AlphaKeyCount >= MinAlphaKeys
}

// Select enumerates backend, keeps only devices IsKeyboard accepts, and
// matches each surviving device against root's DeviceConfigs in
// declaration order (first match wins). Devices matching no
// DeviceConfig still get a Selection with Config == nil, the "no
// rules" pass-through stub spec §4.9 describes, so the daemon can still
// open and forward their input untouched.
func Select(backend platform.Backend, root config.ConfigRoot) ([]Selection, error) {
	infos, err := backend.Enumerate()
	if err != nil {
		return nil, err
	}

	var out []Selection
	for _, info := range infos {
		if !IsKeyboard(info) {
			continue
		}
		out = append(out, selectOne(info, root))
	}
	return out, nil
}

func selectOne(info platform.DeviceInfo, root config.ConfigRoot) Selection {
	for i := range root.Devices {
		dev := root.Devices[i]
		if matchesDevice(dev.Pattern, info) {
			return Selection{
				Info:   info,
				Config: &dev,
				Lookup: engine.BuildLookupIndex(dev),
				State:  engine.NewDeviceState(dev),
			}
		}
	}
	return Selection{Info: info}
}

// matchesDevice applies pattern against every field spec §4.9 names
// (name, serial, physical path); a field that is empty on this device
// skips that subcheck rather than forcing a mismatch.
func matchesDevice(pattern string, info platform.DeviceInfo) bool {
	if pattern == "*" {
		return true
	}
	if info.Name != "" && config.MatchPattern(pattern, info.Name) {
		return true
	}
	if info.Serial != "" && config.MatchPattern(pattern, info.Serial) {
		return true
	}
	if info.Phys != "" && config.MatchPattern(pattern, info.Phys) {
		return true
	}
	return false
}
