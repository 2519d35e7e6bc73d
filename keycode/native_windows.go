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

//go:build windows

package keycode

// Windows virtual-key codes, from winuser.h. A handful of canonical keys
// (Power, Wake) have no standard VK_* assignment; those use slots from
// Microsoft's documented "unassigned" 0x88-0x8F block rather than
// colliding with a real key.
var toNative = map[Code]Native{
	A: 0x41, B: 0x42, C: 0x43, D: 0x44, E: 0x45, F: 0x46, G: 0x47,
	H: 0x48, I: 0x49, J: 0x4A, K: 0x4B, L: 0x4C, M: 0x4D, N: 0x4E,
	O: 0x4F, P: 0x50, Q: 0x51, R: 0x52, S: 0x53, T: 0x54, U: 0x55,
	V: 0x56, W: 0x57, X: 0x58, Y: 0x59, Z: 0x5A,

	Digit0: 0x30, Digit1: 0x31, Digit2: 0x32, Digit3: 0x33,
	Digit4: 0x34, Digit5: 0x35, Digit6: 0x36, Digit7: 0x37,
	Digit8: 0x38, Digit9: 0x39,

	F1: 0x70, F2: 0x71, F3: 0x72, F4: 0x73, F5: 0x74, F6: 0x75,
	F7: 0x76, F8: 0x77, F9: 0x78, F10: 0x79, F11: 0x7A, F12: 0x7B,
	F13: 0x7C, F14: 0x7D, F15: 0x7E, F16: 0x7F, F17: 0x80, F18: 0x81,
	F19: 0x82, F20: 0x83, F21: 0x84, F22: 0x85, F23: 0x86, F24: 0x87,

	LShift: 0xA0, RShift: 0xA1, LCtrl: 0xA2, RCtrl: 0xA3, LAlt: 0xA4,
	RAlt: 0xA5, LMeta: 0x5B, RMeta: 0x5C,

	Escape: 0x1B, Tab: 0x09, CapsLock: 0x14, Enter: 0x0D,
	Backspace: 0x08, Space: 0x20, Delete: 0x2E, Insert: 0x2D,
	Home: 0x24, End: 0x23, PageUp: 0x21, PageDown: 0x22,

	Up: 0x26, Down: 0x28, Left: 0x25, Right: 0x27,

	Numpad0: 0x60, Numpad1: 0x61, Numpad2: 0x62, Numpad3: 0x63,
	Numpad4: 0x64, Numpad5: 0x65, Numpad6: 0x66, Numpad7: 0x67,
	Numpad8: 0x68, Numpad9: 0x69, NumpadMultiply: 0x6A,
	NumpadAdd: 0x6B, NumpadSubtract: 0x6D, NumpadDecimal: 0x6E,
	NumpadDivide: 0x6F, NumLock: 0x90,
	// Windows reports NumpadEnter as VK_RETURN with the extended-key flag
	// set, not a distinct VK_*; keyrx's Windows hook layer disambiguates
	// using the lParam extended bit and maps it onto this pseudo-code.
	NumpadEnter: 0x0E,

	Minus: 0xBD, Equal: 0xBB, LeftBracket: 0xDB, RightBracket: 0xDD,
	Backslash: 0xDC, Semicolon: 0xBA, Quote: 0xDE, Comma: 0xBC,
	Period: 0xBE, Slash: 0xBF, Grave: 0xC0,

	VolumeUp: 0xAF, VolumeDown: 0xAE, Mute: 0xAD,
	MediaPlayPause: 0xB3, MediaNext: 0xB0, MediaPrev: 0xB1,
	MediaStop: 0xB2,

	Power: 0x88, Sleep: 0x5F, Wake: 0x89,

	BrowserBack: 0xA6, BrowserForward: 0xA7, BrowserRefresh: 0xA8,
	BrowserHome: 0xAC, BrowserSearch: 0xAA, BrowserFavorites: 0xAB,
	BrowserStop: 0xA9,

	App1: 0xB6, App2: 0xB7, Menu: 0x5D, PrintScreen: 0x2C,
	ScrollLock: 0x91, Pause: 0x13,
}

var fromNative map[Native]Code

func init() {
	fromNative = make(map[Native]Code, len(toNative))
	for c, n := range toNative {
		fromNative[n] = c
	}
}
