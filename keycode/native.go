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

package keycode

// Native is a platform key identifier: a Linux evdev KEY_* code on Linux,
// a Windows virtual-key code on Windows. Each build tags in exactly one
// table (native_linux.go, native_windows.go, native_other.go).
type Native uint16

// ToNative converts a canonical Code to the current platform's native key
// identifier. On Linux and Windows it is total: every valid Code has an
// entry, though on platforms lacking a standard identifier for a key
// (e.g. Wake on Windows) the table uses a documented vendor-reserved
// slot rather than leaving a hole. On other platforms the table is
// empty and ToNative returns 0 for every Code.
func ToNative(c Code) Native {
	if n, ok := toNative[c]; ok {
		return n
	}
	return 0
}

// FromNative converts a platform native key identifier back to a
// canonical Code. It is partial: an unrecognized native code yields
// ok == false, which callers must treat as "pass the event through
// unchanged", never as an error.
func FromNative(n Native) (Code, bool) {
	c, ok := fromNative[n]
	return c, ok
}
