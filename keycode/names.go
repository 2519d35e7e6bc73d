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

import "strings"

// codeNames holds the single canonical spelling for every Code. This is
// what String() returns and what the compiler emits in diagnostics.
var codeNames = map[Code]string{
	A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H", I: "I",
	J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q", R: "R",
	S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",

	Digit0: "0", Digit1: "1", Digit2: "2", Digit3: "3", Digit4: "4",
	Digit5: "5", Digit6: "6", Digit7: "7", Digit8: "8", Digit9: "9",

	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7",
	F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12", F13: "F13",
	F14: "F14", F15: "F15", F16: "F16", F17: "F17", F18: "F18", F19: "F19",
	F20: "F20", F21: "F21", F22: "F22", F23: "F23", F24: "F24",

	LShift: "LShift", RShift: "RShift", LCtrl: "LCtrl", RCtrl: "RCtrl",
	LAlt: "LAlt", RAlt: "RAlt", LMeta: "LMeta", RMeta: "RMeta",

	Escape: "Escape", Tab: "Tab", CapsLock: "CapsLock", Enter: "Enter",
	Backspace: "Backspace", Space: "Space", Delete: "Delete",
	Insert: "Insert", Home: "Home", End: "End", PageUp: "PageUp",
	PageDown: "PageDown",

	Up: "Up", Down: "Down", Left: "Left", Right: "Right",

	Numpad0: "Numpad0", Numpad1: "Numpad1", Numpad2: "Numpad2",
	Numpad3: "Numpad3", Numpad4: "Numpad4", Numpad5: "Numpad5",
	Numpad6: "Numpad6", Numpad7: "Numpad7", Numpad8: "Numpad8",
	Numpad9: "Numpad9", NumpadEnter: "NumpadEnter",
	NumpadDecimal: "NumpadDecimal", NumpadAdd: "NumpadAdd",
	NumpadSubtract: "NumpadSubtract", NumpadMultiply: "NumpadMultiply",
	NumpadDivide: "NumpadDivide", NumLock: "NumLock",

	Minus: "Minus", Equal: "Equal", LeftBracket: "LeftBracket",
	RightBracket: "RightBracket", Backslash: "Backslash",
	Semicolon: "Semicolon", Quote: "Quote", Comma: "Comma",
	Period: "Period", Slash: "Slash", Grave: "Grave",

	VolumeUp: "VolumeUp", VolumeDown: "VolumeDown", Mute: "Mute",
	MediaPlayPause: "MediaPlayPause", MediaNext: "MediaNext",
	MediaPrev: "MediaPrev", MediaStop: "MediaStop",

	Power: "Power", Sleep: "Sleep", Wake: "Wake",

	BrowserBack: "BrowserBack", BrowserForward: "BrowserForward",
	BrowserRefresh: "BrowserRefresh", BrowserHome: "BrowserHome",
	BrowserSearch: "BrowserSearch", BrowserFavorites: "BrowserFavorites",
	BrowserStop: "BrowserStop",

	App1: "App1", App2: "App2", Menu: "Menu", PrintScreen: "PrintScreen",
	ScrollLock: "ScrollLock", Pause: "Pause",
}

// aliases maps alternate, historically-common spellings onto the single
// canonical Code. The compiler normalizes these at lowering time so the
// engine only ever sees the canonical spelling.
var aliases = map[string]Code{
	"Esc":    Escape,
	"Return": Enter,
	"Del":    Delete,
	"Num0":   Numpad0,
}

var nameTable map[string]Code

func init() {
	nameTable = make(map[string]Code, len(codeNames)+len(aliases))
	for code, name := range codeNames {
		nameTable[strings.ToLower(name)] = code
	}
	for alias, code := range aliases {
		nameTable[strings.ToLower(alias)] = code
	}
}

// ParseName resolves a key's textual spelling (as it appears after a VK_,
// MD_ target disambiguation has already stripped any prefix) to its
// canonical Code. Lookups are case-insensitive and accept the spellings
// in aliases above. It never panics; unrecognized names return
// ok == false.
func ParseName(name string) (code Code, ok bool) {
	code, ok = nameTable[strings.ToLower(name)]
	return code, ok
}

// IsPhysicalModifierName reports whether name spells one of the eight
// named modifier keys, case-sensitively as the DSL requires (see
// keyrx_compiler's PHYSICAL_MODIFIERS table). The compiler
// uses this to reject MD_<PhysicalName> (invariant I3).
func IsPhysicalModifierName(name string) bool {
	switch name {
	case "LShift", "RShift", "LCtrl", "RCtrl", "LAlt", "RAlt", "LMeta", "RMeta":
		return true
	default:
		return false
	}
}
