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

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/keycode"
)

// WindowsBackend implements Backend with a per-thread WH_KEYBOARD_LL
// hook (spec §4.8's low-level-hook model). Grounded on tcell's
// console_win.go / tscreen_windows.go "one goroutine owns a Windows
// handle and pumps its message loop" discipline, generalized to a
// "two-thread split" (a dedicated OS
// thread receives hook callbacks and feeds a bounded channel; the
// processing thread pumps messages and drains the channel).
type WindowsBackend struct{}

// NewWindowsBackend returns the Windows low-level-hook Backend.
func NewWindowsBackend() *WindowsBackend { return &WindowsBackend{} }

var (
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW      = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx         = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx    = user32.NewProc("UnhookWindowsHookEx")
	procGetMessageW            = user32.NewProc("GetMessageW")
	procPostThreadMessageW     = user32.NewProc("PostThreadMessageW")
	procSendInput              = user32.NewProc("SendInput")
	procGetCurrentThreadId     = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCurrentThreadId")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	wmQuit       = 0x0012

	inputKeyboard = 1
	keyeventfKeyup = 0x0002

	// eventQueueCap bounds the hook->processing channel: on
	// overflow, drop the oldest queued event rather than
	// block the hook thread, which must return quickly to the OS.
	eventQueueCap = 256
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// Enumerate reports a single logical "default keyboard" entry: Windows
// does not expose a stable per-keyboard handle to a process-wide
// low-level hook the way evdev node paths do, so there is exactly one
// capturable device, matched by every "*" DeviceConfig pattern.
func (b *WindowsBackend) Enumerate() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "windows-default-keyboard", Name: "Default Keyboard", AlphaKeyCount: 26}}, nil
}

// Open installs the low-level keyboard hook on a dedicated OS thread.
func (b *WindowsBackend) Open(id string) (Capture, error) {
	c := &windowsCapture{
		info:    DeviceInfo{ID: id, Name: "Default Keyboard"},
		events:  make(chan event.KeyEvent, eventQueueCap),
		consume: make(chan struct{}, 1),
		ready:   make(chan error, 1),
		quit:    make(chan struct{}),
	}
	go c.pump()
	if err := <-c.ready; err != nil {
		return nil, err
	}
	return c, nil
}

type windowsCapture struct {
	info      DeviceInfo
	events    chan event.KeyEvent
	consume   chan struct{}
	ready     chan error
	quit      chan struct{}
	threadID  uint32
	hook      uintptr
	mu        sync.Mutex
	lastEvent event.KeyEvent
	shouldEat bool
}

// pump runs on its own OS thread: installs the hook, then pumps the
// thread's message queue (mandatory for WH_KEYBOARD_LL delivery) until
// a WM_QUIT posted by Close.
func (c *windowsCapture) pump() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid, _, _ := procGetCurrentThreadId.Call()
	c.threadID = uint32(tid)

	hook, _, errno := procSetWindowsHookExW.Call(
		uintptr(whKeyboardLL),
		windows.NewCallback(c.hookProc),
		0,
		0,
	)
	if hook == 0 {
		c.ready <- fmt.Errorf("platform: SetWindowsHookExW: %w: %v", ErrPermission, errno)
		return
	}
	c.hook = hook
	c.ready <- nil

	var msg struct {
		Hwnd    uintptr
		Message uint32
		WParam  uintptr
		LParam  uintptr
		Time    uint32
		Pt      struct{ X, Y int32 }
	}
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if r == 0 || msg.Message == wmQuit {
			break
		}
	}
	procUnhookWindowsHookEx.Call(c.hook)
}

// hookProc is invoked on the hook thread for every keyboard event in
// the system pipeline. It must return quickly: translate and enqueue,
// never block.
func (c *windowsCapture) hookProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		var kind event.Kind
		switch wParam {
		case wmKeydown, wmSyskeydown:
			kind = event.Press
		case wmKeyup, wmSyskeyup:
			kind = event.Release
		}
		if code, ok := keycode.FromNative(keycode.Native(kb.VkCode)); ok {
			ev := event.KeyEvent{
				Kind:        kind,
				Code:        code,
				TimestampUS: uint64(kb.Time) * 1000,
				DeviceID:    c.info.ID,
			}
			select {
			case c.events <- ev:
			default:
				// Queue full: drop the oldest queued event rather than
				// block the hook thread (design-notes §9 backpressure
				// contract). Under normal input rates this never fires.
				select {
				case <-c.events:
				default:
				}
				c.events <- ev
			}

			c.mu.Lock()
			c.lastEvent = ev
			eat := c.shouldEatLocked()
			c.mu.Unlock()
			if eat {
				return 1 // non-zero: swallow the original
			}
		}
	}
	r, _, _ := procCallNextHookEx.Call(c.hook, uintptr(nCode), wParam, lParam)
	return r
}

// shouldEatLocked drains a pending Consume() signal left by the
// processing thread for the event currently being hooked.
func (c *windowsCapture) shouldEatLocked() bool {
	select {
	case <-c.consume:
		return true
	default:
		return false
	}
}

func (c *windowsCapture) Model() Model     { return LowLevelHook }
func (c *windowsCapture) Info() DeviceInfo { return c.info }

// CaptureOne is non-blocking per spec §4.8: it polls the queue the hook
// callback fills, waiting at most timeout so the daemon still ticks
// tap-hold deadlines on otherwise-idle input.
func (c *windowsCapture) CaptureOne(timeout time.Duration) (event.KeyEvent, bool, error) {
	select {
	case ev := <-c.events:
		return ev, true, nil
	case <-time.After(timeout):
		return event.KeyEvent{}, false, nil
	case <-c.quit:
		return event.KeyEvent{}, false, ErrDeviceGone
	}
}

// Inject synthesizes native input via SendInput. Only called when a
// mapping actually produced output (spec §4.10); the original is
// separately suppressed via Consume.
func (c *windowsCapture) Inject(ev event.KeyEvent) error {
	native := keycode.ToNative(ev.Code)
	flags := uint32(0)
	if ev.IsRelease() {
		flags = keyeventfKeyup
	}
	input := struct {
		Type uint32
		Ki   struct {
			WVk         uint16
			WScan       uint16
			DwFlags     uint32
			Time        uint32
			DwExtraInfo uintptr
		}
		_ [8]byte // pad INPUT union to its largest member on amd64
	}{Type: inputKeyboard}
	input.Ki.WVk = uint16(native)
	input.Ki.DwFlags = flags

	r, _, errno := procSendInput.Call(1, uintptr(unsafe.Pointer(&input)), unsafe.Sizeof(input))
	if r == 0 {
		return fmt.Errorf("platform: SendInput: %w: %v", ErrInjectionRejected, errno)
	}
	return nil
}

// Consume tells the hook to swallow the event it most recently
// delivered, so a mapped key does not also reach applications
// unmodified (spec §4.8: "inject() for a mapped event must consume the
// original to avoid double events").
func (c *windowsCapture) Consume() error {
	select {
	case c.consume <- struct{}{}:
	default:
	}
	return nil
}

func (c *windowsCapture) Close() error {
	close(c.quit)
	if c.threadID != 0 {
		procPostThreadMessageW.Call(uintptr(c.threadID), uintptr(wmQuit), 0, 0)
	}
	return nil
}
