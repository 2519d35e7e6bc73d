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
	"sync"
	"time"

	"github.com/keyrx/keyrx/event"
)

// Simulated is a fully in-memory Backend+Capture double, the platform
// package's equivalent of tcell's SimulationScreen (simulation.go): the
// device-manager and daemon tests queue input through Push and assert
// against Injected() rather than opening a real device node or
// installing an OS hook.
type Simulated struct {
	mu       sync.Mutex
	devices  map[string]*simDevice
	order    []string
	model    Model
}

type simDevice struct {
	info     DeviceInfo
	pending  []event.KeyEvent
	injected []event.KeyEvent
	consumed int
	closed   bool
}

// NewSimulated creates an empty simulated backend. model controls
// whether its Captures report ExclusiveGrab or LowLevelHook, so daemon
// tests can exercise both injection policies (spec §4.8/§4.10).
func NewSimulated(model Model) *Simulated {
	return &Simulated{model: model, devices: make(map[string]*simDevice)}
}

// AddDevice registers a simulated keyboard with info, returning its id
// for convenience (info.ID if set, else info.ID is required non-empty).
func (s *Simulated) AddDevice(info DeviceInfo) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[info.ID] = &simDevice{info: info}
	s.order = append(s.order, info.ID)
	return info.ID
}

// Enumerate implements Backend.
func (s *Simulated) Enumerate() ([]DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]DeviceInfo, 0, len(s.order))
	for _, id := range s.order {
		infos = append(infos, s.devices[id].info)
	}
	return infos, nil
}

// Open implements Backend.
func (s *Simulated) Open(id string) (Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, ok := s.devices[id]
	if !ok {
		return nil, ErrDeviceGone
	}
	return &simCapture{backend: s, dev: dev}, nil
}

// Push queues a native event for deviceID, to be returned by a future
// CaptureOne call on that device's Capture.
func (s *Simulated) Push(deviceID string, ev event.KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, ok := s.devices[deviceID]
	if !ok {
		return
	}
	dev.pending = append(dev.pending, ev.WithDeviceID(deviceID))
}

// Injected returns everything ever injected for deviceID, in order.
func (s *Simulated) Injected(deviceID string) []event.KeyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, ok := s.devices[deviceID]
	if !ok {
		return nil
	}
	out := make([]event.KeyEvent, len(dev.injected))
	copy(out, dev.injected)
	return out
}

type simCapture struct {
	backend *Simulated
	dev     *simDevice
}

func (c *simCapture) Model() Model      { return c.backend.model }
func (c *simCapture) Info() DeviceInfo  { return c.dev.info }

func (c *simCapture) CaptureOne(timeout time.Duration) (event.KeyEvent, bool, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if c.dev.closed {
		return event.KeyEvent{}, false, ErrDeviceGone
	}
	if len(c.dev.pending) == 0 {
		return event.KeyEvent{}, false, nil
	}
	ev := c.dev.pending[0]
	c.dev.pending = c.dev.pending[1:]
	return ev, true, nil
}

func (c *simCapture) Inject(ev event.KeyEvent) error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if c.dev.closed {
		return ErrDeviceGone
	}
	c.dev.injected = append(c.dev.injected, ev)
	return nil
}

func (c *simCapture) Consume() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.dev.consumed++
	return nil
}

func (c *simCapture) Close() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.dev.closed = true
	return nil
}
