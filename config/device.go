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

// DeviceConfig binds a device-id pattern (see MatchPattern) to the set of
// key mappings that apply whenever an event's device id matches. The
// device manager (package devicemgr) selects at most one DeviceConfig per
// physical device, first match wins in declaration order.
type DeviceConfig struct {
	Pattern  string
	Mappings []KeyMapping
}

// NewDeviceConfig builds a DeviceConfig for pattern with the given
// mappings in declaration order.
func NewDeviceConfig(pattern string, mappings ...KeyMapping) DeviceConfig {
	return DeviceConfig{Pattern: pattern, Mappings: mappings}
}

// ConfigRoot is the fully-resolved, compiler-produced ruleset: the
// complete ordered list of device configurations that make up one
// compiled artifact (spec §3.7). It is immutable once constructed; the
// daemon swaps whole ConfigRoot values on reload rather than mutating one
// in place (see SPEC_FULL.md's build-then-swap reload discipline).
type ConfigRoot struct {
	Devices []DeviceConfig
}

// NewConfigRoot builds a ConfigRoot from devices in declaration order.
func NewConfigRoot(devices ...DeviceConfig) ConfigRoot {
	return ConfigRoot{Devices: devices}
}
