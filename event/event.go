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

// Package event defines the canonical key event that flows between the
// platform capture/inject layer and the remapping engine.
package event

import "github.com/keyrx/keyrx/keycode"

// Kind distinguishes a key press from a key release.
type Kind uint8

const (
	Press Kind = iota
	Release
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Press {
		return "Press"
	}
	return "Release"
}

// KeyEvent is an immutable key press or release. TimestampUS of 0 means
// "unknown time"; a zero-value DeviceID means "default logical device".
// Copying a KeyEvent is always cheap (no pointers, no shared state).
type KeyEvent struct {
	Kind        Kind
	Code        keycode.Code
	TimestampUS uint64
	DeviceID    string
}

// Press_ constructs a press event for code with no timestamp and the
// default device.
func Press_(code keycode.Code) KeyEvent {
	return KeyEvent{Kind: Press, Code: code}
}

// Release_ constructs a release event for code with no timestamp and the
// default device.
func Release_(code keycode.Code) KeyEvent {
	return KeyEvent{Kind: Release, Code: code}
}

// NewPressEvent is the idiomatic constructor; Press_ is kept only so call
// sites reading "event.Press_(A)" stay close to the original "enum-style"
// constructors this was ported from (SPEC_FULL.md, supplemented feature 1).
func NewPressEvent(code keycode.Code) KeyEvent { return Press_(code) }

// NewReleaseEvent is the release counterpart of NewPressEvent.
func NewReleaseEvent(code keycode.Code) KeyEvent { return Release_(code) }

// WithTimestamp returns a copy of e with TimestampUS set.
func (e KeyEvent) WithTimestamp(us uint64) KeyEvent {
	e.TimestampUS = us
	return e
}

// WithDeviceID returns a copy of e with DeviceID set.
func (e KeyEvent) WithDeviceID(id string) KeyEvent {
	e.DeviceID = id
	return e
}

// WithCode returns a copy of e with a different Code, preserving Kind,
// TimestampUS and DeviceID.
func (e KeyEvent) WithCode(code keycode.Code) KeyEvent {
	e.Code = code
	return e
}

// Opposite returns a copy of e with Kind flipped (Press<->Release),
// preserving Code, TimestampUS and DeviceID.
func (e KeyEvent) Opposite() KeyEvent {
	if e.Kind == Press {
		e.Kind = Release
	} else {
		e.Kind = Press
	}
	return e
}

// IsPress reports whether e is a press event.
func (e KeyEvent) IsPress() bool { return e.Kind == Press }

// IsRelease reports whether e is a release event.
func (e KeyEvent) IsRelease() bool { return e.Kind == Release }

// HasDevice reports whether e carries a non-default device id.
func (e KeyEvent) HasDevice() bool { return e.DeviceID != "" }
