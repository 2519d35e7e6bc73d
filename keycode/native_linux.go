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

//go:build linux

package keycode

// Linux evdev KEY_* codes, from linux/input-event-codes.h. These are the
// values the kernel reports in struct input_event.code for EV_KEY events,
// and the values a uinput virtual device must enable via UI_SET_KEYBIT.
var toNative = map[Code]Native{
	A: 30, B: 48, C: 46, D: 32, E: 18, F: 33, G: 34, H: 35, I: 23,
	J: 36, K: 37, L: 38, M: 50, N: 49, O: 24, P: 25, Q: 16, R: 19,
	S: 31, T: 20, U: 22, V: 47, W: 17, X: 45, Y: 21, Z: 44,

	Digit0: 11, Digit1: 2, Digit2: 3, Digit3: 4, Digit4: 5, Digit5: 6,
	Digit6: 7, Digit7: 8, Digit8: 9, Digit9: 10,

	F1: 59, F2: 60, F3: 61, F4: 62, F5: 63, F6: 64, F7: 65, F8: 66,
	F9: 67, F10: 68, F11: 87, F12: 88, F13: 183, F14: 184, F15: 185,
	F16: 186, F17: 187, F18: 188, F19: 189, F20: 190, F21: 191,
	F22: 192, F23: 193, F24: 194,

	LShift: 42, RShift: 54, LCtrl: 29, RCtrl: 97, LAlt: 56, RAlt: 100,
	LMeta: 125, RMeta: 126,

	Escape: 1, Tab: 15, CapsLock: 58, Enter: 28, Backspace: 14,
	Space: 57, Delete: 111, Insert: 110, Home: 102, End: 107,
	PageUp: 104, PageDown: 109,

	Up: 103, Down: 108, Left: 105, Right: 106,

	Numpad7: 71, Numpad8: 72, Numpad9: 73, NumpadSubtract: 74,
	Numpad4: 75, Numpad5: 76, Numpad6: 77, NumpadAdd: 78,
	Numpad1: 79, Numpad2: 80, Numpad3: 81, Numpad0: 82,
	NumpadDecimal: 83, NumpadEnter: 96, NumpadDivide: 98,
	NumpadMultiply: 55, NumLock: 69,

	Minus: 12, Equal: 13, LeftBracket: 26, RightBracket: 27,
	Backslash: 43, Semicolon: 39, Quote: 40, Comma: 51, Period: 52,
	Slash: 53, Grave: 41,

	VolumeUp: 115, VolumeDown: 114, Mute: 113, MediaPlayPause: 164,
	MediaNext: 163, MediaPrev: 165, MediaStop: 166,

	Power: 116, Sleep: 142, Wake: 143,

	BrowserBack: 158, BrowserForward: 159, BrowserRefresh: 173,
	BrowserHome: 172, BrowserSearch: 217, BrowserFavorites: 156,
	BrowserStop: 128,

	App1: 148, App2: 149, Menu: 127, PrintScreen: 99, ScrollLock: 70,
	Pause: 119,
}

var fromNative map[Native]Code

func init() {
	fromNative = make(map[Native]Code, len(toNative))
	for c, n := range toNative {
		fromNative[n] = c
	}
}
