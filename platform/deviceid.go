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

package platform

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// IdentityDeviceID builds the preferred stable logical device id: a
// vendor:product pair, plus the serial when the kernel/driver reports
// one (spec §4.8: "a stable vendor:product[:serial] id").
func IdentityDeviceID(vendor, product uint16, serial string) string {
	if serial != "" {
		return fmt.Sprintf("%04x:%04x:%s", vendor, product, serial)
	}
	return fmt.Sprintf("%04x:%04x", vendor, product)
}

// FallbackDeviceID derives a deterministic id for a device lacking a
// clean vendor:product:serial triple, from whatever kernel descriptor
// is stable across opens (evdev node path, HID report descriptor
// summary, etc). Using a hash keeps the id short and free of path
// separators that would confuse DeviceMatches patterns.
func FallbackDeviceID(descriptor string) string {
	sum := sha1.Sum([]byte(descriptor))
	return "dev-" + hex.EncodeToString(sum[:8])
}
