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

// Package platform is the OS-specific capture/inject boundary (C8). It
// turns native input into canonical event.KeyEvent values and turns the
// engine's output list back into native input, under one of two models
// that the daemon runtime (package daemon) must respect: the
// exclusive-grab model, where the daemon owns the device and must
// re-inject every event including pass-through, or the low-level-hook
// model, where the daemon observes a shared pipeline and must only
// consume events it actually remapped.
//
// Grounded on tcell's tty.Tty interface (tty/tty.go): a small
// platform-abstraction surface with build-tag-selected implementations,
// plus a fully in-memory Simulated double mirroring tcell's
// simulation.go/SimulationScreen used throughout that package's tests.
package platform

import (
	"errors"
	"time"

	"github.com/keyrx/keyrx/event"
)

// Model distinguishes the two capture/inject disciplines spec §4.8
// describes. The daemon's injection policy depends on which model a
// Capture reports (spec §4.10: "For exclusive-grab platforms, always
// inject; for hook platforms, inject only if at least one mapping
// triggered").
type Model uint8

const (
	// ExclusiveGrab devices suppress their own events at the kernel
	// level; every processed event (mapped or not) must be injected
	// back, or the key is lost entirely.
	ExclusiveGrab Model = iota
	// LowLevelHook devices let the original event proceed unless the
	// hook actively consumes it; the daemon must only inject when a
	// mapping actually fired, and must signal the hook to swallow the
	// original.
	LowLevelHook
)

func (m Model) String() string {
	if m == LowLevelHook {
		return "low-level-hook"
	}
	return "exclusive-grab"
}

// DeviceInfo describes one physical keyboard as the device manager (C9)
// needs it: a stable logical id plus the fields the pattern matcher
// probes (spec §4.9: name, serial, physical path).
type DeviceInfo struct {
	ID     string // vendor:product[:serial], or a deterministic fallback
	Name   string
	Serial string
	Phys   string

	// AlphaKeyCount is how many of the 26 letter keys this device
	// reports capability for. The device manager (C9) uses this to
	// apply spec §4.9's "keyboard" heuristic (>= 20 of A-Z) without
	// re-querying the backend.
	AlphaKeyCount int
}

// Sentinel platform errors (spec §7 "Platform errors"). Capture
// implementations should wrap one of these with fmt.Errorf("%w", ...)
// so callers can classify failures with errors.Is.
var (
	ErrPermission        = errors.New("platform: permission denied")
	ErrDeviceGone        = errors.New("platform: device gone")
	ErrInjectionRejected = errors.New("platform: injection rejected")
)

// Capture is one opened physical keyboard. CaptureOne must return
// ok==false, err==nil on a plain timeout (no event arrived within
// timeout) so the daemon can use the return to idle-tick tap-hold
// deadlines (spec §5); it must never block longer than timeout.
//
// Implementations are not required to be safe for concurrent use: the
// daemon owns exactly one goroutine per device's hot path (spec §5).
type Capture interface {
	Model() Model
	Info() DeviceInfo

	// CaptureOne waits up to timeout for the next native input event,
	// translating it to a canonical KeyEvent tagged with this device's
	// logical id. ok is false on timeout; err is non-nil only on a
	// genuine platform failure (permission revoked, device removed).
	CaptureOne(timeout time.Duration) (ev event.KeyEvent, ok bool, err error)

	// Inject emits ev as native input. For ExclusiveGrab devices this
	// is how any output (including pass-through) reaches applications;
	// for LowLevelHook devices this is only called when a mapping
	// produced output, and the original is separately consumed (see
	// Consume).
	Inject(ev event.KeyEvent) error

	// Consume marks the most recently captured event as handled by a
	// mapping, so a LowLevelHook implementation does not let the
	// original proceed to the rest of the OS pipeline. ExclusiveGrab
	// implementations may treat this as a no-op: the grab already
	// suppressed the original unconditionally.
	Consume() error

	Close() error
}

// Backend enumerates and opens keyboards for one OS family (C8's other
// half, feeding C9's device manager).
type Backend interface {
	// Enumerate lists every input device that looks like a keyboard
	// (spec §4.9's heuristic is applied by the caller, package
	// devicemgr; Enumerate itself returns everything with key
	// capability so devicemgr can apply the alphabetic-key threshold).
	Enumerate() ([]DeviceInfo, error)

	// Open acquires exclusive or hooked access to the device
	// identified by id (as returned from Enumerate).
	Open(id string) (Capture, error)
}
