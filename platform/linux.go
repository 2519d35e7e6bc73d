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

package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/keycode"
)

// LinuxBackend implements Backend using evdev: exclusive grab of the
// chosen device nodes plus a synthetic uinput device for injection
// (spec §4.8's exclusive-grab model). Grounded on tcell's
// tty/tty_unix.go for the "one real syscall-backed implementation
// behind a small interface" shape, and on
// other_examples/AshBuk-speak-to-ai's evdev_provider.go and
// VinewZ-go-evdev-keyboard's device enumeration for the go-evdev call
// shape (ListDevicePaths, Open, CapableTypes, ReadOne, CodeName).
type LinuxBackend struct{}

// NewLinuxBackend returns the Linux evdev Backend.
func NewLinuxBackend() *LinuxBackend { return &LinuxBackend{} }

// Enumerate lists every /dev/input/event* node that reports EV_KEY
// capability. The alphabetic-key threshold (spec §4.9) is applied by
// package devicemgr, not here.
func (b *LinuxBackend) Enumerate() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("platform: listing evdev devices: %w", err)
	}
	var infos []DeviceInfo
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		types := dev.CapableTypes()
		hasKey := false
		for _, t := range types {
			if t == evdev.EV_KEY {
				hasKey = true
				break
			}
		}
		if !hasKey {
			dev.Close()
			continue
		}
		name, _ := dev.Name()
		phys, _ := dev.Phys()
		serial, _ := dev.UniqueID()
		id := deviceIDForLinux(dev, p.Path)
		infos = append(infos, DeviceInfo{
			ID: id, Name: name, Serial: serial, Phys: phys,
			AlphaKeyCount: countAlphaKeys(dev),
		})
		dev.Close()
	}
	return infos, nil
}

// countAlphaKeys counts how many of the 26 letter keys dev reports
// EV_KEY capability for, backing the devicemgr keyboard heuristic
// (spec §4.9: "a threshold number of alphabetic keys, e.g. >= 20").
func countAlphaKeys(dev *evdev.InputDevice) int {
	caps := dev.CapableEvents(evdev.EV_KEY)
	have := make(map[evdev.EvCode]bool, len(caps))
	for _, c := range caps {
		have[c] = true
	}
	n := 0
	for letter := keycode.A; letter <= keycode.Z; letter++ {
		if native, ok := toNativeLinux(letter); ok && have[evdev.EvCode(native)] {
			n++
		}
	}
	return n
}

func deviceIDForLinux(dev *evdev.InputDevice, path string) string {
	inputID, err := dev.InputID()
	serial, _ := dev.UniqueID()
	if err == nil && (inputID.Vendor != 0 || inputID.Product != 0) {
		return IdentityDeviceID(inputID.Vendor, inputID.Product, serial)
	}
	return FallbackDeviceID(path)
}

// Open grabs the evdev node whose enumerated id equals id.
func (b *LinuxBackend) Open(id string) (Capture, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("platform: listing evdev devices: %w", err)
	}
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if deviceIDForLinux(dev, p.Path) != id {
			dev.Close()
			continue
		}
		name, _ := dev.Name()
		phys, _ := dev.Phys()
		serial, _ := dev.UniqueID()
		if err := dev.Grab(); err != nil {
			dev.Close()
			return nil, fmt.Errorf("platform: grabbing %s: %w", p.Path, ErrPermission)
		}
		uinput, err := openUinputMirror(name)
		if err != nil {
			dev.Ungrab()
			dev.Close()
			return nil, err
		}
		return &linuxCapture{
			info: DeviceInfo{ID: id, Name: name, Serial: serial, Phys: phys},
			dev:  dev,
			out:  uinput,
		}, nil
	}
	return nil, ErrDeviceGone
}

// openUinputMirror creates a virtual keyboard device that injected
// events are written to, enabled for every keycode keyrx knows about.
func openUinputMirror(name string) (*evdev.InputDevice, error) {
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: allEVKeyCodes(),
	}
	dev, err := evdev.CreateDevice("keyrx-"+strings.ReplaceAll(name, " ", "-"), evdev.InputID{}, caps)
	if err != nil {
		return nil, fmt.Errorf("platform: creating uinput mirror: %w", err)
	}
	return dev, nil
}

func allEVKeyCodes() []evdev.EvCode {
	var codes []evdev.EvCode
	for c := keycode.A; c < keycode.Code(1<<15); c++ {
		if n, ok := toNativeLinux(c); ok {
			codes = append(codes, evdev.EvCode(n))
		}
	}
	return codes
}

func toNativeLinux(c keycode.Code) (keycode.Native, bool) {
	n := keycode.ToNative(c)
	return n, n != 0
}

type linuxCapture struct {
	info DeviceInfo
	dev  *evdev.InputDevice
	out  *evdev.InputDevice
}

func (c *linuxCapture) Model() Model     { return ExclusiveGrab }
func (c *linuxCapture) Info() DeviceInfo { return c.info }

// CaptureOne polls the grabbed device's fd with timeout so the daemon
// regains control to tick tap-hold deadlines even with no input (spec
// §5: "returns to C10 at least every ~10 ms").
func (c *linuxCapture) CaptureOne(timeout time.Duration) (event.KeyEvent, bool, error) {
	fds := []unix.PollFd{{Fd: int32(c.dev.File().Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return event.KeyEvent{}, false, nil
		}
		return event.KeyEvent{}, false, fmt.Errorf("platform: poll %s: %w", c.info.ID, err)
	}
	if n == 0 {
		return event.KeyEvent{}, false, nil
	}

	for {
		ev, err := c.dev.ReadOne()
		if err != nil {
			return event.KeyEvent{}, false, fmt.Errorf("platform: read %s: %w", c.info.ID, ErrDeviceGone)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		var kind event.Kind
		switch ev.Value {
		case 0:
			kind = event.Release
		case 1:
			kind = event.Press
		default:
			// key-repeat (value 2): keyrx has no repeat concept of its
			// own, the tap-hold/modifier state machine only cares about
			// press/release edges.
			continue
		}
		code, ok := keycode.FromNative(keycode.Native(ev.Code))
		if !ok {
			continue
		}
		return event.KeyEvent{
			Kind:        kind,
			Code:        code,
			TimestampUS: uint64(ev.Time.Sec)*1_000_000 + uint64(ev.Time.Usec),
			DeviceID:    c.info.ID,
		}, true, nil
	}
}

// Inject writes ev to the uinput mirror. The exclusive grab suppressed
// the original unconditionally, so every processed event (including
// pass-through) must be re-injected here.
func (c *linuxCapture) Inject(ev event.KeyEvent) error {
	native := keycode.ToNative(ev.Code)
	value := int32(0)
	if ev.IsPress() {
		value = 1
	}
	if err := c.out.WriteOne(&evdev.InputEvent{
		Type:  evdev.EV_KEY,
		Code:  evdev.EvCode(native),
		Value: value,
	}); err != nil {
		return fmt.Errorf("platform: inject %s: %w", c.info.ID, ErrInjectionRejected)
	}
	return c.out.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: 0, Value: 0})
}

// Consume is a no-op: the grab already prevents the original event from
// reaching any application.
func (c *linuxCapture) Consume() error { return nil }

func (c *linuxCapture) Close() error {
	c.dev.Ungrab()
	c.dev.Close()
	return c.out.Close()
}
